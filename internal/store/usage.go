package store

import (
	"context"
	"fmt"
)

// TableUsage is the row count and disk footprint of one study table
type TableUsage struct {
	Table     string
	Rows      int64
	TableSize int64 // bytes, including TOAST
	IndexSize int64 // bytes
}

var studyTables = []string{"participants", "trials", "event_logs"}

// Usage reports the size of every study table
func (s *Store) Usage(ctx context.Context) ([]TableUsage, error) {
	usage := make([]TableUsage, 0, len(studyTables))
	for _, table := range studyTables {
		u := TableUsage{Table: table}

		// Table names come from studyTables, never from input
		if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&u.Rows); err != nil {
			return nil, fmt.Errorf("count %s: %w", table, err)
		}
		if err := s.db.QueryRowContext(ctx,
			"SELECT pg_table_size($1), pg_indexes_size($1)", table,
		).Scan(&u.TableSize, &u.IndexSize); err != nil {
			return nil, fmt.Errorf("query size of %s: %w", table, err)
		}

		usage = append(usage, u)
	}
	return usage, nil
}
