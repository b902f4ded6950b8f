package database

import "strings"

const selectTodos = "SELECT id, todo, priority, status, category, due_date FROM todo"

// TodoFilter narrows a list query. Empty fields impose no constraint.
type TodoFilter struct {
	Status   string
	Priority string
	Category string
	Search   string
}

// BuildListQuery assembles the list statement for f. Every filter value is
// returned as a bound argument; none of them is written into the SQL text.
// The search term is matched case-insensitively as a literal substring.
func BuildListQuery(f TodoFilter) (string, []any) {
	var conditions []string
	var args []any

	if f.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, f.Status)
	}
	if f.Priority != "" {
		conditions = append(conditions, "priority = ?")
		args = append(args, f.Priority)
	}
	if f.Category != "" {
		conditions = append(conditions, "category = ?")
		args = append(args, f.Category)
	}
	if f.Search != "" {
		conditions = append(conditions, `LOWER(todo) LIKE LOWER(?) ESCAPE '\'`)
		args = append(args, "%"+escapeLike(f.Search)+"%")
	}

	var b strings.Builder
	b.WriteString(selectTodos)
	if len(conditions) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(conditions, " AND "))
	}
	b.WriteString(" ORDER BY rowid")

	return b.String(), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
