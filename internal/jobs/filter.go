package jobs

import (
	"fmt"
	"strings"
)

const findAllBase = `SELECT j.id,
       j.title,
       j.salary,
       j.equity::text,
       j.company_handle,
       c.name
FROM jobs j
LEFT JOIN companies c ON c.handle = j.company_handle`

// likeEscaper makes the title filter a literal substring match. Backslash is
// the default LIKE escape character in Postgres.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Filter narrows FindAll. Nil fields are not applied.
type Filter struct {
	Title     *string
	MinSalary *int
	// HasEquity restricts results to jobs with non-zero equity only when
	// true. false behaves exactly like nil.
	HasEquity *bool
}

// Conditions returns the WHERE conditions for f and the values they bind.
// Placeholders are numbered by the values bound so far.
func (f Filter) Conditions() ([]string, []any) {
	var (
		where []string
		args  []any
	)

	if f.Title != nil {
		args = append(args, "%"+likeEscaper.Replace(*f.Title)+"%")
		where = append(where, fmt.Sprintf("j.title ILIKE $%d", len(args)))
	}

	if f.MinSalary != nil {
		args = append(args, *f.MinSalary)
		where = append(where, fmt.Sprintf("j.salary >= $%d", len(args)))
	}

	if f.HasEquity != nil && *f.HasEquity {
		where = append(where, "j.equity > 0")
	}

	return where, args
}

// BuildFindAllQuery assembles the list query for f, ordered by title.
func BuildFindAllQuery(f Filter) (string, []any) {
	where, args := f.Conditions()

	var sb strings.Builder
	sb.WriteString(findAllBase)
	if len(where) > 0 {
		sb.WriteString("\nWHERE ")
		sb.WriteString(strings.Join(where, " AND "))
	}
	sb.WriteString("\nORDER BY j.title")

	return sb.String(), args
}
