// Package ingest drives the per-file pipeline: discover snapshot files,
// skip years already persisted, then load, normalize and append new ones.
package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/google/uuid"

	"github.com/carlos-ecn/sprint-12-trending-youtube/internal/loader"
	"github.com/carlos-ecn/sprint-12-trending-youtube/internal/logging"
	"github.com/carlos-ecn/sprint-12-trending-youtube/internal/normalize"
	"github.com/carlos-ecn/sprint-12-trending-youtube/internal/storage"
)

// filePattern is the exact discovery filter. Entries that don't match are
// logged and ignored, not errors.
var filePattern = regexp.MustCompile(`^trending_by_time_\d{4}\.csv$`)

// Outcome is the terminal state of one discovered file for one run.
type Outcome int

const (
	Ingested Outcome = iota
	SkippedNoYear
	SkippedDuplicate
	SkippedEmptyLoad
	SkippedEmptyNormalized
	SkippedAppendError
)

func (o Outcome) String() string {
	switch o {
	case Ingested:
		return "ingested"
	case SkippedNoYear:
		return "skipped (no year)"
	case SkippedDuplicate:
		return "skipped (duplicate year)"
	case SkippedEmptyLoad:
		return "skipped (empty load)"
	case SkippedEmptyNormalized:
		return "skipped (empty after normalization)"
	case SkippedAppendError:
		return "skipped (append failed)"
	default:
		return "unknown"
	}
}

// FileResult records what happened to one discovered file.
type FileResult struct {
	Name    string
	Year    int
	Outcome Outcome
	Rows    int
}

// Summary aggregates one run. RunID tags the run's diagnostics so log
// files from repeated runs can be told apart.
type Summary struct {
	RunID   string
	Results []FileResult
}

// IngestedAny reports whether any file reached the ingested state.
func (s *Summary) IngestedAny() bool {
	for _, r := range s.Results {
		if r.Outcome == Ingested {
			return true
		}
	}
	return false
}

// Ingestor wires the pipeline stages together.
type Ingestor struct {
	Store   storage.Store
	DataDir string
	Options normalize.Options
}

// Run processes every matching file in DataDir, in directory listing
// order, each to completion before the next. A missing data directory is
// the only error; everything per-file degrades to a skip with a
// diagnostic.
func (in *Ingestor) Run(ctx context.Context) (*Summary, error) {
	entries, err := os.ReadDir(in.DataDir)
	if err != nil {
		return nil, fmt.Errorf("data directory %s: %w", in.DataDir, err)
	}

	sum := &Summary{RunID: uuid.NewString()}
	logging.Infof("run %s: checking files in %s", sum.RunID, in.DataDir)

	for _, entry := range entries {
		name := entry.Name()
		if !filePattern.MatchString(name) {
			logging.Infof("skipping file not matching trending_by_time_YYYY.csv: %s", name)
			continue
		}
		res := in.processFile(ctx, name)
		logging.Infof("run %s: %s -> %s", sum.RunID, name, res.Outcome)
		sum.Results = append(sum.Results, res)
	}
	return sum, nil
}

func (in *Ingestor) processFile(ctx context.Context, name string) FileResult {
	path := filepath.Join(in.DataDir, name)
	res := FileResult{Name: name}

	year, ok := YearFromPath(path)
	if !ok {
		logging.Warnf("cannot extract year from %s; skipping", name)
		res.Outcome = SkippedNoYear
		return res
	}
	res.Year = year

	exists, err := in.Store.ExistsForYear(ctx, year)
	if err != nil {
		// Fail open: a broken existence check means we attempt the
		// ingest rather than silently dropping a year.
		logging.Errorf("existence check for year %d failed: %v; assuming not ingested", year, err)
		exists = false
	}
	if exists {
		res.Outcome = SkippedDuplicate
		return res
	}

	logging.Infof("no data for year %d yet; loading %s", year, name)
	raw := loader.Load(path)
	if raw.Empty() {
		logging.Warnf("no rows loaded from %s; skipping", name)
		res.Outcome = SkippedEmptyLoad
		return res
	}
	logging.Infof("%d row(s) loaded from %s, columns %v", raw.Len(), name, raw.Columns)

	clean := normalize.Normalize(raw, in.Options)
	if clean.Empty() {
		logging.Warnf("normalized table for %s is empty; not persisting", name)
		res.Outcome = SkippedEmptyNormalized
		return res
	}

	n, err := in.Store.Append(ctx, clean)
	if err != nil {
		logging.Errorf("failed to persist rows from %s: %v", name, err)
		res.Outcome = SkippedAppendError
		return res
	}
	res.Outcome = Ingested
	res.Rows = n
	return res
}
