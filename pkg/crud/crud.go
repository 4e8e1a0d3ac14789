// Package crud builds the PostgreSQL statements used by generated query
// builders. Table and column names are passed through verbatim; quote them
// with Columns when they need it. Placeholders follow the order of the
// columns the caller passes.
package crud

import (
	"strconv"
	"strings"
)

// InsertSingle inserts one row and returns it. Without columns the row takes
// its defaults.
//
//	INSERT INTO T ("a", "b") VALUES ($1, $2) RETURNING *;
func InsertSingle(table string, columns []string) string {
	return InsertMultiple(table, columns, 1)
}

// InsertMultiple inserts count rows; their values bind row after row.
// A count below one is treated as one. It panics when count exceeds one and
// there are no columns, as PostgreSQL has no multi-row DEFAULT VALUES.
func InsertMultiple(table string, columns []string, count int) string {
	if count < 1 {
		count = 1
	}
	if len(columns) == 0 {
		if count > 1 {
			panic("crud: InsertMultiple of " + table + " needs at least one column")
		}
		return "INSERT INTO " + table + " DEFAULT VALUES RETURNING *;"
	}
	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(table)
	b.WriteString(" (")
	b.WriteString(strings.Join(columns, ", "))
	b.WriteString(") VALUES ")
	n := 1
	for row := 0; row < count; row++ {
		if row > 0 {
			b.WriteString(", ")
		}
		b.WriteString("(")
		for i := range columns {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(placeholder(n))
			n++
		}
		b.WriteString(")")
	}
	b.WriteString(" RETURNING *;")
	return b.String()
}

// SelectAll reads every row. No columns selects *.
func SelectAll(table string, columns ...string) string {
	return "SELECT " + selectList(columns) + " FROM " + table + ";"
}

// SelectWherePrimaryKey reads the row whose primary key binds to $1.
func SelectWherePrimaryKey(table, primaryKey string, columns ...string) string {
	return "SELECT " + selectList(columns) + " FROM " + table + " WHERE " + primaryKey + " = $1;"
}

// UpdateWherePrimaryKey sets the given columns to $1..$n and matches the
// primary key against $n+1. It panics without columns.
func UpdateWherePrimaryKey(table, primaryKey string, columns ...string) string {
	if len(columns) == 0 {
		panic("crud: UpdateWherePrimaryKey of " + table + " needs at least one column")
	}
	sets := make([]string, 0, len(columns))
	for i, c := range columns {
		sets = append(sets, c+" = "+placeholder(i+1))
	}
	return "UPDATE " + table + " SET " + strings.Join(sets, ", ") +
		" WHERE " + primaryKey + " = " + placeholder(len(columns)+1) + ";"
}

func DeleteAll(table string) string {
	return "DELETE FROM " + table + ";"
}

func DeleteWherePrimaryKey(table, primaryKey string) string {
	return "DELETE FROM " + table + " WHERE " + primaryKey + " = $1;"
}

// Columns double-quotes column names.
func Columns(names ...string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		out = append(out, `"`+strings.ReplaceAll(n, `"`, `""`)+`"`)
	}
	return out
}

// Flatten lays the selected fields of every row out in one argument list,
// matching the placeholders of InsertMultiple.
func Flatten[T any](rows []T, fields ...func(T) any) []any {
	out := make([]any, 0, len(rows)*len(fields))
	for _, r := range rows {
		for _, f := range fields {
			out = append(out, f(r))
		}
	}
	return out
}

func selectList(columns []string) string {
	if len(columns) == 0 {
		return "*"
	}
	return strings.Join(columns, ", ")
}

func placeholder(n int) string { return "$" + strconv.Itoa(n) }
