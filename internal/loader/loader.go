// Package loader reads delimited snapshot files into tables.
package loader

import (
	"encoding/csv"
	"io"
	"os"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/carlos-ecn/sprint-12-trending-youtube/internal/logging"
	"github.com/carlos-ecn/sprint-12-trending-youtube/internal/table"
)

// Load parses path as comma-delimited text with the first row as header.
// Bytes are decoded as Latin-1 before CSV parsing, since the source
// snapshots are not guaranteed to be valid UTF-8. A missing file or a parse
// failure yields an empty table with a diagnostic, never an error: the
// orchestrator treats "missing or corrupt" and "empty" identically.
func Load(path string) *table.Table {
	f, err := os.Open(path)
	if err != nil {
		logging.Errorf("cannot open %s: %v", path, err)
		return table.New(nil)
	}
	defer func() { _ = f.Close() }()

	// Every byte is a valid Latin-1 code point, so the decode itself
	// cannot fail.
	r := csv.NewReader(transform.NewReader(f, charmap.ISO8859_1.NewDecoder()))
	r.LazyQuotes = true
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		if err != io.EOF {
			logging.Errorf("cannot read header of %s: %v", path, err)
		}
		return table.New(nil)
	}

	t := table.New(header)
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			logging.Errorf("parse failure in %s: %v", path, err)
			return table.New(nil)
		}
		row := make(table.Row, len(header))
		for i, col := range header {
			if i < len(rec) {
				row[col] = rec[i]
			}
		}
		t.AddRow(row)
	}
	return t
}
