package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Data sources the analysis can read from
const (
	SourcePostgres = "postgres"
	SourceCSV      = "csv"
)

// Database holds PostgreSQL connection settings
type Database struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"sslmode"`
}

// Output holds optional export paths; empty means no file is written
type Output struct {
	SummaryCSV string `yaml:"summary_csv"`
	TrialsCSV  string `yaml:"trials_csv"`
}

// Log configures the process logger
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text or json
}

// Config is the full runtime configuration
type Config struct {
	Database    Database `yaml:"database"`
	Source      string   `yaml:"source"`
	CSVPath     string   `yaml:"csv_path"`
	Alpha       float64  `yaml:"alpha"`
	Output      Output   `yaml:"output"`
	Log         Log      `yaml:"log"`
	ComposeFile string   `yaml:"compose_file"`
}

// ErrInvalid is wrapped by every validation failure
var ErrInvalid = errors.New("invalid config")

// Default returns the configuration used when no file is given. The database
// settings match docker/docker-compose.postgres.yml.
func Default() Config {
	return Config{
		Database: Database{
			Host:     "localhost",
			Port:     5432,
			User:     "study",
			Password: "study123",
			Name:     "suds_study",
			SSLMode:  "disable",
		},
		Source:      SourcePostgres,
		Alpha:       0.05,
		Log:         Log{Level: "info", Format: "text"},
		ComposeFile: "docker/docker-compose.postgres.yml",
	}
}

// Load reads a YAML file over the defaults. An empty path returns Default().
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the fields the commands rely on
func (c Config) Validate() error {
	switch c.Source {
	case SourcePostgres:
		if c.Database.Host == "" || c.Database.Name == "" {
			return fmt.Errorf("%w: database host and name are required", ErrInvalid)
		}
	case SourceCSV:
		if c.CSVPath == "" {
			return fmt.Errorf("%w: csv_path is required when source is csv", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown source %q", ErrInvalid, c.Source)
	}

	if c.Alpha <= 0 || c.Alpha >= 1 {
		return fmt.Errorf("%w: alpha must be in (0, 1), got %v", ErrInvalid, c.Alpha)
	}
	return nil
}

// DSN builds the lib/pq key=value connection string
func (d Database) DSN() string {
	parts := []string{
		"host=" + quoteDSN(d.Host),
		fmt.Sprintf("port=%d", d.Port),
		"user=" + quoteDSN(d.User),
		"password=" + quoteDSN(d.Password),
		"dbname=" + quoteDSN(d.Name),
	}
	if d.SSLMode != "" {
		parts = append(parts, "sslmode="+quoteDSN(d.SSLMode))
	}
	return strings.Join(parts, " ")
}

// quoteDSN quotes values containing spaces or quotes as lib/pq expects
func quoteDSN(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `'`, `\'`)
	return "'" + v + "'"
}
