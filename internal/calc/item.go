// Package calc orders calculated items so that every item is processed after
// the items its formula references.
//
// A formula references another item by enclosing its name in square brackets,
// e.g. "[FEED_RATE] * [DENSITY]". References to names outside the batch are
// pruned from the dependency graph and never block ordering.
package calc

import (
	"strings"
)

// Columns names the table columns the graph is built from.
type Columns struct {
	// Formula holds the formula text.
	Formula string `yaml:"formula"`
	// IsCalculation flags formula-derived rows. Optional in the input table.
	IsCalculation string `yaml:"is_calculation"`
	// Name holds the unique item name.
	Name string `yaml:"name"`
	// References is the helper column written when references are kept in the output.
	References string `yaml:"references"`
}

// DefaultColumns returns the column names used by the bulk upload CSVs.
func DefaultColumns() Columns {
	return Columns{
		Formula:       "formula",
		IsCalculation: "is_calculation",
		Name:          "name",
		References:    "formula_variables",
	}
}

// withDefaults fills empty column names from DefaultColumns.
func (c Columns) withDefaults() Columns {
	d := DefaultColumns()
	if c.Formula == "" {
		c.Formula = d.Formula
	}
	if c.IsCalculation == "" {
		c.IsCalculation = d.IsCalculation
	}
	if c.Name == "" {
		c.Name = d.Name
	}
	if c.References == "" {
		c.References = d.References
	}
	return c
}

// Item is one named row of the input batch.
type Item struct {
	// Row is the index of the item in its source table.
	Row int

	Name          string
	Formula       string
	IsCalculation bool

	// References are the names found in Formula, in order of appearance.
	// Empty for rows that are not calculations.
	References []string

	// Extra holds every other column of the row.
	Extra map[string]string
}

// HasFormula returns true if the item carries a non-blank formula.
func (it *Item) HasFormula() bool {
	return strings.TrimSpace(it.Formula) != ""
}

// ReferenceString returns the references as a pipe-separated string.
func (it *Item) ReferenceString() string {
	return strings.Join(it.References, "|")
}
