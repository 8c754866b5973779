// Package report produces the post-ingestion validation summary and the
// full-table CSV export.
package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"

	"github.com/carlos-ecn/sprint-12-trending-youtube/internal/logging"
	"github.com/carlos-ecn/sprint-12-trending-youtube/internal/storage"
	"github.com/carlos-ecn/sprint-12-trending-youtube/internal/storage/sqlite"
)

// maxValidationGroups caps how many per-date groups the validation report
// prints before summarizing the remainder.
const maxValidationGroups = 20

// Validate prints row counts grouped by trending_date, ascending, to w.
// An absent or empty table reports "no data to validate" instead of
// erroring.
func Validate(ctx context.Context, store storage.Store, w io.Writer) {
	header := color.New(color.FgCyan, color.Bold)
	_, _ = header.Fprintf(w, "--- Validation: records per date in %q ---\n", sqlite.TableName)

	counts, err := store.CountByDate(ctx)
	if err != nil {
		logging.Errorf("validation query failed: %v", err)
		return
	}
	if len(counts) == 0 {
		fmt.Fprintln(w, "no data to validate")
		return
	}

	shown := counts
	if len(shown) > maxValidationGroups {
		shown = shown[:maxValidationGroups]
	}
	for _, dc := range shown {
		fmt.Fprintf(w, "Date: %s, Records: %d\n", dc.Date, dc.Count)
	}
	if rest := len(counts) - len(shown); rest > 0 {
		fmt.Fprintf(w, "... and %d more date(s).\n", rest)
	}
}

// Export writes the full persisted table as UTF-8 CSV to path, creating
// intermediate directories and atomically replacing any prior export. An
// empty table skips the write with a log.
func Export(ctx context.Context, store storage.Store, path string) error {
	tbl, err := store.ScanAll(ctx)
	if err != nil {
		return fmt.Errorf("read table for export: %w", err)
	}
	if tbl.Empty() {
		logging.Warnf("table %q is empty; nothing to export", sqlite.TableName)
		return nil
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}

	// Write to a temp file in the target directory so the rename over any
	// previous export is atomic.
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp.*")
	if err != nil {
		return fmt.Errorf("create temporary export file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if tmp != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	cw := csv.NewWriter(tmp)
	if err := cw.Write(tbl.Columns); err != nil {
		return fmt.Errorf("write export header: %w", err)
	}
	rec := make([]string, len(tbl.Columns))
	for _, row := range tbl.Rows {
		for i, c := range tbl.Columns {
			rec[i] = row[c]
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write export row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush export: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temporary export file: %w", err)
	}
	tmp = nil
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replace export file: %w", err)
	}

	logging.Infof("%d row(s) exported to %s", tbl.Len(), path)
	return nil
}
