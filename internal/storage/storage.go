// Package storage defines the interface for the trending snapshot store.
package storage

import (
	"context"

	"github.com/carlos-ecn/sprint-12-trending-youtube/internal/table"
)

// DateCount is one group of the per-date validation report.
type DateCount struct {
	Date  string
	Count int
}

// Store is the persistence gateway for the trending_by_time table.
//
// Append and the read operations degrade rather than crash: a store that
// has no table yet answers "no rows" / "does not exist", not an error.
// Opening the store is the only fatal failure point in the pipeline.
type Store interface {
	// ExistsForYear reports whether any persisted row's trending_date
	// begins with "<year>-". A non-positive year is answered false
	// (fail-open) with a warning, so callers attempt ingestion rather
	// than silently skipping.
	ExistsForYear(ctx context.Context, year int) (bool, error)

	// Append persists all rows of tbl, creating the table with an
	// inferred schema on first use. Returns the number of rows written.
	// An empty table is a logged no-op.
	Append(ctx context.Context, tbl *table.Table) (int, error)

	// ScanAll reads back the entire persisted table. An absent table
	// yields an empty table, not an error.
	ScanAll(ctx context.Context) (*table.Table, error)

	// CountByDate groups persisted rows by trending_date, ascending.
	CountByDate(ctx context.Context) ([]DateCount, error)

	// Path returns the location of the backing database file.
	Path() string

	Close() error
}
