package cmd

import (
	"fmt"

	"github.com/coffee-platform/coffee-go/internal/calc"
	"github.com/coffee-platform/coffee-go/internal/table"
)

// loadBatch reads the batch table at path.
func loadBatch(path string) (*table.Table, error) {
	t, err := table.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load batch: %w", err)
	}
	logger.Debug("loaded batch", "path", path, "rows", t.Len(), "columns", len(t.Columns()))
	return t, nil
}

// analyzeBatch loads the batch at path and builds its dependency graph.
func analyzeBatch(path string) (*table.Table, *calc.Analysis, error) {
	t, err := loadBatch(path)
	if err != nil {
		return nil, nil, err
	}
	a, err := calc.NewSorter(cfg.SorterOptions(logger)).Analyze(t)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to analyze batch: %w", err)
	}
	return t, a, nil
}
