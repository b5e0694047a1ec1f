package display

import (
	"fmt"
	"io"

	"github.com/moguls753/suds-study/internal/store"
)

// Usage prints row counts and disk usage of the study tables
func Usage(w io.Writer, usage []store.TableUsage) {
	t := newTable(w, 12, 8, 10, 10)
	t.header("Table", "Rows", "Table", "Indexes")
	for _, u := range usage {
		t.row(u.Table, fmt.Sprint(u.Rows), FormatBytes(u.TableSize), FormatBytes(u.IndexSize))
	}
	t.bottom()
}

// FormatBytes renders a byte count with a binary unit, e.g. "8.0 KB"
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
