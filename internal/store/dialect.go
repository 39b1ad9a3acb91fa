// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"strconv"
	"strings"

	"pressctx/internal/models"
	"pressctx/internal/ordering"
)

// Dialect identifies the SQL flavour of the connected database.
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

// Rebind rewrites ? placeholders to $1..$n for Postgres. Question marks
// inside single-quoted literals are left alone.
func (d Dialect) Rebind(query string) string {
	if d != Postgres || !strings.Contains(query, "?") {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 16)
	n := 0
	quoted := false
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case c == '\'':
			quoted = !quoted
			b.WriteByte(c)
		case c == '?' && !quoted:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// sortExpr returns the SQL expression sorted on for a key. Titles are
// compared in byte order with quotes stripped.
func (d Dialect) sortExpr(key ordering.Key) string {
	switch key {
	case ordering.KeyModifiedAt:
		return "p.modified_at"
	case ordering.KeyOrder:
		return "p.sort_order"
	case ordering.KeyTitle:
		expr := `REPLACE(REPLACE(p.title, '"', ''), '''', '')`
		if d == Postgres {
			expr += ` COLLATE "C"`
		}
		return expr
	default:
		return "p.created_at"
	}
}

// orderBy renders the ORDER BY clause of a policy, id tie-break included.
func (d Dialect) orderBy(p ordering.Policy) string {
	dir := "DESC"
	if p.Direction == ordering.Asc {
		dir = "ASC"
	}
	return "ORDER BY " + d.sortExpr(p.Key) + " " + dir + ", p.id " + dir
}

// boundary renders a strict boundary predicate.
func (d Dialect) boundary(pr ordering.Predicate) (string, []any) {
	op := ">"
	if pr.Op == ordering.Less {
		op = "<"
	}
	expr := d.sortExpr(pr.Key)
	v := pr.Value.Arg()
	clause := "(" + expr + " " + op + " ? OR (" + expr + " = ? AND p.id " + op + " ?))"
	return clause, []any{v, v, pr.AnchorID}
}

const statusExpr = "(',' || p.status || ',')"

// statusFilter renders the status constraint. Flags are matched with their
// comma delimiters so a flag never matches a longer flag containing it.
func statusFilter(f models.StatusFilter) (string, []any) {
	var (
		clauses []string
		args    []any
	)
	for _, r := range f.Require {
		clauses = append(clauses, statusExpr+` LIKE ? ESCAPE '\'`)
		args = append(args, "%,"+escapeLike(string(r))+",%")
	}
	for _, e := range f.Exclude {
		clauses = append(clauses, statusExpr+` NOT LIKE ? ESCAPE '\'`)
		args = append(args, "%,"+escapeLike(string(e))+",%")
	}
	if len(clauses) == 0 {
		return "1 = 1", nil
	}
	return strings.Join(clauses, " AND "), args
}

// inList renders "?, ?, ?" for n values.
func inList(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func int64Args(ids []int64) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike escapes LIKE wildcards so the value matches literally.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
