package container

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"time"

	"github.com/moguls753/suds-study/internal/store"
)

// Config describes a docker compose service to run for the session
type Config struct {
	Name         string
	ComposeFile  string
	WaitForReady func(ctx context.Context) error
}

// PostgresConfig runs the study database from composeFile and waits until
// dsn accepts connections
func PostgresConfig(composeFile, dsn string) Config {
	return Config{
		Name:        "PostgreSQL",
		ComposeFile: composeFile,
		WaitForReady: func(ctx context.Context) error {
			return store.WaitForReady(ctx, dsn, 30*time.Second)
		},
	}
}

// runCompose is swapped in tests
var runCompose = func(ctx context.Context, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, "docker", append([]string{"compose"}, args...)...).CombinedOutput()
}

// Start brings the container up and blocks until it is ready
func Start(ctx context.Context, cfg Config, logger *slog.Logger) error {
	logger.Info("starting container", "name", cfg.Name, "compose_file", cfg.ComposeFile)

	output, err := runCompose(ctx, "-f", cfg.ComposeFile, "up", "-d")
	if err != nil {
		return fmt.Errorf("start container: %w\noutput: %s", err, output)
	}

	logger.Info("waiting for container to initialize", "name", cfg.Name)
	if err := cfg.WaitForReady(ctx); err != nil {
		return fmt.Errorf("%s failed to start: %w", cfg.Name, err)
	}

	logger.Info("container ready", "name", cfg.Name)
	return nil
}

// Stop removes the container and its volumes
func Stop(ctx context.Context, composeFile string, logger *slog.Logger) {
	logger.Info("cleaning up container")

	// Ignore errors on cleanup - container might already be stopped
	_, _ = runCompose(ctx, "-f", composeFile, "down", "-v")

	logger.Info("container stopped and removed")
}
