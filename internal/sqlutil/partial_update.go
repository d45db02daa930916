// Package sqlutil builds parameterized SQL fragments shared by the
// repositories.
package sqlutil

import (
	"fmt"
	"strings"

	"jobly/jobs-service/internal/apperr"
)

// ErrNoData is returned when a partial update carries no fields.
var ErrNoData = apperr.BadRequest("No data")

// Field is one column assignment of a partial update, keyed by its
// application-level name.
type Field struct {
	Name  string
	Value any
}

// SetClause is the body of an UPDATE ... SET statement and its bound values.
type SetClause struct {
	Columns []string // `"col"=$n` fragments, in input order
	Values  []any
}

// PartialUpdate turns the present fields of an update into `"col"=$n`
// fragments numbered from $1 in input order. columns maps field names to
// storage column names; unmapped names are used as-is.
//
// An empty string value is a real update. Only an absent field is skipped,
// which is the caller's responsibility.
func PartialUpdate(fields []Field, columns map[string]string) (SetClause, error) {
	if len(fields) == 0 {
		return SetClause{}, ErrNoData
	}

	sc := SetClause{
		Columns: make([]string, 0, len(fields)),
		Values:  make([]any, 0, len(fields)),
	}
	for i, f := range fields {
		col, ok := columns[f.Name]
		if !ok {
			col = f.Name
		}
		sc.Columns = append(sc.Columns, fmt.Sprintf(`"%s"=$%d`, col, i+1))
		sc.Values = append(sc.Values, f.Value)
	}
	return sc, nil
}

// SQL joins the fragments into a SET clause body.
func (sc SetClause) SQL() string { return strings.Join(sc.Columns, ", ") }

// NextPlaceholder is the placeholder for the first parameter the caller
// appends after the SET values, typically the row identifier.
func (sc SetClause) NextPlaceholder() string { return fmt.Sprintf("$%d", len(sc.Values)+1) }

// Args returns the SET values followed by trailing.
func (sc SetClause) Args(trailing ...any) []any {
	args := make([]any, 0, len(sc.Values)+len(trailing))
	args = append(args, sc.Values...)
	return append(args, trailing...)
}
