package calc

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors matched with errors.Is.
var (
	ErrMissingColumn = errors.New("missing column")
	ErrNoRoot        = errors.New("graph does not have a start node")
	ErrCycle         = errors.New("circular calculation dependency")
	ErrDuplicateName = errors.New("duplicate item name")
)

// MissingColumnError reports a required column absent from the input table.
type MissingColumnError struct {
	// Role is what the column is used for ("formula", "name").
	Role   string
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("%s column %q not found in table", e.Role, e.Column)
}

func (e *MissingColumnError) Is(target error) bool { return target == ErrMissingColumn }

// NoRootFoundError reports a non-empty graph in which every node is the
// dependency of some other node.
type NoRootFoundError struct {
	Nodes int
}

func (e *NoRootFoundError) Error() string {
	return fmt.Sprintf("graph does not have a start node: all %d items are referenced by another item", e.Nodes)
}

func (e *NoRootFoundError) Is(target error) bool { return target == ErrNoRoot }

// CycleError reports formulas that reference each other in a loop.
type CycleError struct {
	// Cycles holds one path per strongly connected component, first node repeated at the end.
	Cycles [][]string
}

func (e *CycleError) Error() string {
	paths := make([]string, len(e.Cycles))
	for i, c := range e.Cycles {
		paths[i] = strings.Join(c, " -> ")
	}
	return fmt.Sprintf("circular calculation dependency: %s", strings.Join(paths, "; "))
}

func (e *CycleError) Is(target error) bool { return target == ErrCycle }

// DuplicateNameError reports two rows sharing one item name.
type DuplicateNameError struct {
	Name string
	// Rows are the 1-based data row numbers of the first and the repeated occurrence.
	Rows [2]int
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("item %q appears in rows %d and %d", e.Name, e.Rows[0], e.Rows[1])
}

func (e *DuplicateNameError) Is(target error) bool { return target == ErrDuplicateName }
