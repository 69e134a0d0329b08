package calc

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/coffee-platform/coffee-go/internal/table"
)

// referencePattern matches a bracketed item name such as [FEED_RATE].
var referencePattern = regexp.MustCompile(`\[([A-Z0-9_]+)\]`)

// ExtractReferences returns the item names referenced by formula, left to
// right. Repeated references are kept.
func ExtractReferences(formula string) []string {
	matches := referencePattern.FindAllStringSubmatch(formula, -1)
	refs := make([]string, 0, len(matches))
	for _, m := range matches {
		refs = append(refs, m[1])
	}
	return refs
}

// ExtractItems converts the rows of t into items and extracts the references of
// every calculation row.
//
// When the is-calculation column is present it decides which rows are
// calculations. When it is absent, every row with a non-blank formula is one.
// The table itself is not modified.
func ExtractItems(t *table.Table, cols Columns) ([]*Item, error) {
	cols = cols.withDefaults()

	if !t.HasColumn(cols.Formula) {
		return nil, &MissingColumnError{Role: "formula", Column: cols.Formula}
	}
	if !t.HasColumn(cols.Name) {
		return nil, &MissingColumnError{Role: "name", Column: cols.Name}
	}
	hasCalcColumn := t.HasColumn(cols.IsCalculation)

	items := make([]*Item, 0, t.Len())
	for i, row := range t.Rows() {
		it := &Item{
			Row:        i,
			Name:       row.Get(cols.Name),
			Formula:    row.Get(cols.Formula),
			References: []string{},
			Extra:      make(map[string]string),
		}
		if it.Name == "" {
			return nil, fmt.Errorf("row %d: %s is required", i+1, cols.Name)
		}

		if hasCalcColumn {
			isCalc, err := table.ParseBool(row.Get(cols.IsCalculation))
			if err != nil {
				return nil, fmt.Errorf("row %d: column %s: %w", i+1, cols.IsCalculation, err)
			}
			it.IsCalculation = isCalc
		} else {
			it.IsCalculation = strings.TrimSpace(it.Formula) != ""
		}

		if it.IsCalculation {
			it.References = ExtractReferences(it.Formula)
		}

		for k, v := range row.Values() {
			switch k {
			case cols.Name, cols.Formula, cols.IsCalculation:
			default:
				it.Extra[k] = v
			}
		}

		items = append(items, it)
	}

	return items, nil
}
