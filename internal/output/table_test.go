package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestItems(t *testing.T) {
	var buf bytes.Buffer
	p := NewWithWriter(&buf)

	p.Items([]ItemSummary{
		{Name: "A", Dependents: 2},
		{Name: "C", Calculation: true, Formula: "[B] * [A] + [X]", Dependencies: []string{"B", "A"}, Dangling: []string{"X"}},
	})

	got := buf.String()
	assert.Contains(t, got, "DEPENDS ON")
	assert.Contains(t, got, "B, A")
	assert.Contains(t, got, "[B] * [A] + [X]")
	assert.Contains(t, got, "✓")
}

func TestItemsEmpty(t *testing.T) {
	var buf bytes.Buffer
	NewWithWriter(&buf).Items(nil)
	assert.Empty(t, buf.String())
}

func TestStats(t *testing.T) {
	var buf bytes.Buffer
	p := NewWithWriter(&buf)

	p.Stats("GRAPH", []Stat{{"Items", 3}, {"Edges", 3}})

	got := buf.String()
	assert.Contains(t, got, "GRAPH")
	assert.Contains(t, got, "Items")
	assert.Contains(t, got, "Edges")
}

func TestCycles(t *testing.T) {
	var buf bytes.Buffer
	p := NewWithWriter(&buf)

	p.Cycles([][]string{{"A", "B", "A"}, {"S", "S"}})

	got := buf.String()
	assert.Contains(t, got, "A → B → A")
	assert.Contains(t, got, "S → S")
}

func TestFailures(t *testing.T) {
	var buf bytes.Buffer
	p := NewWithWriter(&buf)

	p.Failures([]RowFailure{{Row: 4, Name: "RECOVERY", Error: "unknown reference UNKNOWN"}})

	got := buf.String()
	assert.Contains(t, got, "FAILED ROWS")
	assert.Contains(t, got, "RECOVERY")
	assert.Contains(t, got, "unknown reference UNKNOWN")
}
