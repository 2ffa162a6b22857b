// AngelaMos | 2026
// patch.go

package core

import (
	"fmt"
	"strings"
)

type assignment struct {
	col  string
	expr string
}

// Assignments collects the SET list of a partial UPDATE. Columns are code
// constants; values travel as positional arguments.
type Assignments struct {
	items []assignment
	args  []any
}

// Assign adds col = *v when v is non-nil. A nil pointer means the field
// was absent from the patch.
func Assign[T any](a *Assignments, col string, v *T) {
	if v == nil {
		return
	}
	a.items = append(a.items, assignment{col: col})
	a.args = append(a.args, *v)
}

// AssignExpr sets col to a SQL expression such as NOW() or NULL.
func (a *Assignments) AssignExpr(col, expr string) {
	a.items = append(a.items, assignment{col: col, expr: expr})
}

func (a *Assignments) Empty() bool {
	return len(a.items) == 0
}

// SQL renders "a = $1, b = NOW()" and the index of the next placeholder.
func (a *Assignments) SQL() (string, int) {
	parts := make([]string, len(a.items))
	idx := 1
	for i, it := range a.items {
		if it.expr != "" {
			parts[i] = it.col + " = " + it.expr
			continue
		}
		parts[i] = fmt.Sprintf("%s = $%d", it.col, idx)
		idx++
	}
	return strings.Join(parts, ", "), idx
}

func (a *Assignments) Args() []any {
	return a.args
}
