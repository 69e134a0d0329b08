package workflow

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/coffee-platform/coffee-go/internal/logging"
	"github.com/coffee-platform/coffee-go/internal/table"
)

// timestampLayout is the result file suffix, e.g. 20260314_0915.
const timestampLayout = "20060102_1504"

// ResultPath returns the path the results of operation on csvPath are saved
// to: <base>_<operation>_<YYYYMMDD_HHMM>.csv next to the input.
func ResultPath(csvPath, operation string, now time.Time) string {
	ext := filepath.Ext(csvPath)
	base := strings.TrimSuffix(csvPath, ext)
	if ext == "" {
		ext = ".csv"
	}
	return fmt.Sprintf("%s_%s_%s%s", base, operation, now.Format(timestampLayout), ext)
}

// SaveResults writes t to the result path of csvPath and returns that path.
func SaveResults(t *table.Table, csvPath, operation string, now time.Time, logger *slog.Logger) (string, error) {
	path := ResultPath(csvPath, operation, now)
	if err := t.Save(path); err != nil {
		return "", fmt.Errorf("failed to save results: %w", err)
	}
	logging.OrDiscard(logger).Info("Processing complete", "results", path)
	return path, nil
}
