// AngelaMos | 2026
// where.go

package filter

import (
	"fmt"
	"strings"
	"time"
)

// Where accumulates predicates and their positional arguments.
type Where struct {
	conditions []string
	args       []any
}

// Search adds a case-insensitive partial match OR-combined across cols.
func (w *Where) Search(term string, cols ...string) *Where {
	if term == "" || len(cols) == 0 {
		return w
	}

	w.args = append(w.args, "%"+EscapeLike(term)+"%")
	idx := len(w.args)

	parts := make([]string, len(cols))
	for i, col := range cols {
		parts[i] = fmt.Sprintf("%s ILIKE $%d", col, idx)
	}

	w.conditions = append(w.conditions, "("+strings.Join(parts, " OR ")+")")
	return w
}

// Eq adds col = value. Empty strings and nil pointers are skipped.
func (w *Where) Eq(col string, value any) *Where {
	v, ok := deref(value)
	if !ok {
		return w
	}
	return w.add(col+" = $%d", v)
}

func (w *Where) Gte(col string, t *time.Time) *Where {
	if t == nil {
		return w
	}
	return w.add(col+" >= $%d", *t)
}

func (w *Where) Lte(col string, t *time.Time) *Where {
	if t == nil {
		return w
	}
	return w.add(col+" <= $%d", *t)
}

func (w *Where) add(format string, v any) *Where {
	w.args = append(w.args, v)
	w.conditions = append(w.conditions, fmt.Sprintf(format, len(w.args)))
	return w
}

// Clause returns "WHERE a AND b", or an empty string when nothing was added.
func (w *Where) Clause() string {
	if len(w.conditions) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(w.conditions, " AND ")
}

func (w *Where) Args() []any {
	return w.args
}

func (w *Where) Len() int {
	return len(w.conditions)
}

func deref(value any) (any, bool) {
	switch v := value.(type) {
	case nil:
		return nil, false
	case string:
		return v, v != ""
	case *string:
		if v == nil || *v == "" {
			return nil, false
		}
		return *v, true
	case *int64:
		if v == nil {
			return nil, false
		}
		return *v, true
	case *bool:
		if v == nil {
			return nil, false
		}
		return *v, true
	default:
		return v, true
	}
}

func EscapeLike(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "%", "\\%")
	s = strings.ReplaceAll(s, "_", "\\_")
	return s
}

// StatusFlag maps the list screens' active/inactive status words onto a
// boolean column. Any other value yields nil.
func StatusFlag(status, on, off string) *bool {
	var b bool
	switch status {
	case on:
		b = true
	case off:
		b = false
	default:
		return nil
	}
	return &b
}
