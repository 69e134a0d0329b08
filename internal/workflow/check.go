package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/coffee-platform/coffee-go/internal/calc"
	"github.com/coffee-platform/coffee-go/internal/table"
)

// CheckOperation is the operation name of ReferenceCheck.
const CheckOperation = "checked"

// ReferenceCheck returns an operation that fails calculation rows whose
// formula references an item that is not part of t.
func ReferenceCheck(t *table.Table, cols calc.Columns) (Operation, error) {
	items, err := calc.ExtractItems(t, cols)
	if err != nil {
		return nil, err
	}

	known := make(map[string]struct{}, len(items))
	refs := make(map[string][]string, len(items))
	for _, it := range items {
		known[it.Name] = struct{}{}
		refs[it.Name] = it.References
	}

	name := cols.Name
	if name == "" {
		name = calc.DefaultColumns().Name
	}

	return func(ctx context.Context, row *table.Row) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		var unknown []string
		for _, ref := range refs[row.Get(name)] {
			if _, ok := known[ref]; !ok {
				unknown = append(unknown, ref)
			}
		}
		if len(unknown) > 0 {
			return fmt.Errorf("formula references unknown items: %s", strings.Join(unknown, ", "))
		}
		return nil
	}, nil
}
