package ingest

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/carlos-ecn/sprint-12-trending-youtube/internal/logging"
)

var yearPattern = regexp.MustCompile(`trending_by_time_(\d{4})\.csv$`)

// YearFromPath derives the 4-digit year embedded in a snapshot path.
// The strict trending_by_time_YYYY.csv pattern is tried first; failing
// that, the last 4 characters of the filename stem (before the first dot)
// are parsed. Returns (0, false) when neither yields an integer.
func YearFromPath(path string) (int, bool) {
	if m := yearPattern.FindStringSubmatch(path); m != nil {
		year, err := strconv.Atoi(m[1])
		if err == nil {
			return year, true
		}
	}

	stem := strings.SplitN(filepath.Base(path), ".", 2)[0]
	if len(stem) < 4 {
		logging.Errorf("cannot extract year from path: %s", path)
		return 0, false
	}
	year, err := strconv.Atoi(stem[len(stem)-4:])
	if err != nil {
		logging.Errorf("cannot extract year from path: %s", path)
		return 0, false
	}
	return year, true
}
