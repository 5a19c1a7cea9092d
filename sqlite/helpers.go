package sqlite

import (
	"fmt"
	"strings"
	"time"
)

// Timestamps are stored as UTC RFC 3339 text so they sort lexically.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseTime(column, value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("corrupt %s %q: %w", column, value, err)
	}
	return t, nil
}

// likePrefix returns a LIKE pattern matching strings that start with s.
// Use it with ESCAPE '\'.
func likePrefix(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s) + "%"
}

// runQuery builds the run listing query from optional conditions.
type runQuery struct {
	conds  []string
	args   []any
	limit  int
	offset int
}

func (q *runQuery) where(cond string, args ...any) {
	q.conds = append(q.conds, cond)
	q.args = append(q.args, args...)
}

func (q *runQuery) page(limit, offset int) {
	q.limit, q.offset = limit, offset
}

func (q *runQuery) build() (string, []any) {
	var b strings.Builder
	b.WriteString(`
		SELECT r.id, r.start_url, r.started_at, COUNT(p.position)
		FROM runs r LEFT JOIN pages p ON p.run_id = r.id`)
	if len(q.conds) > 0 {
		b.WriteString("\n\t\tWHERE " + strings.Join(q.conds, " AND "))
	}
	b.WriteString("\n\t\tGROUP BY r.id ORDER BY r.started_at DESC, r.rowid DESC")

	args := q.args
	switch {
	case q.limit > 0:
		b.WriteString(" LIMIT ?")
		args = append(args, q.limit)
	case q.offset > 0:
		// SQLite only accepts OFFSET after a LIMIT clause.
		b.WriteString(" LIMIT -1")
	}
	if q.offset > 0 {
		b.WriteString(" OFFSET ?")
		args = append(args, q.offset)
	}
	return b.String(), args
}
