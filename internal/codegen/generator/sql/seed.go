package sql

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/Alia5/annogen/internal/codegen/annotation"
	"github.com/Alia5/annogen/internal/codegen/common"
	"github.com/Alia5/annogen/internal/codegen/meta"
)

// SeedEmitter renders the testData rows of a class as one multi-row insert.
type SeedEmitter struct {
	logger    *slog.Logger
	dir       string
	artifacts []meta.Artifact
	owners    map[string]string
}

func NewSeedEmitter(logger *slog.Logger, dir string) *SeedEmitter {
	return &SeedEmitter{logger: logger, dir: dir, owners: map[string]string{}}
}

func (e *SeedEmitter) Name() string { return "seed" }

func (e *SeedEmitter) Add(class *meta.ClassMetadata) (bool, error) {
	if !annotation.Has(class.Annotations, annotation.TestData) {
		return false, nil
	}
	table, err := annotation.TableName(class.Annotations, class.Name)
	if err != nil {
		return false, err
	}

	rows, err := seedRows(class.Annotations)
	if err != nil {
		return false, err
	}
	if len(rows) == 0 {
		e.logger.Warn("testData has no rows", "class", class.Name, "table", table)
		return true, nil
	}
	if owner, ok := e.owners[table]; ok {
		return false, fmt.Errorf("%w: seed data for %s from %s and %s", ErrDuplicateTable, table, owner, class.Name)
	}
	e.owners[table] = class.Name

	columns := rows[0].Keys()
	known := make(map[string]bool, len(columns))
	quoted := make([]string, 0, len(columns))
	targets := make(map[string]string, len(columns))
	for _, c := range columns {
		known[c] = true
		col := c
		if annotation.Has(class.Annotations, annotation.Table) {
			col = e.columnFor(class, table, c)
		}
		if other, ok := targets[col]; ok {
			return false, fmt.Errorf("%s testData keys %s and %s both fill column %s", class.Name, other, c, col)
		}
		targets[col] = c
		quoted = append(quoted, common.QuoteIdent(col))
	}

	tuples := make([]string, 0, len(rows))
	for i, row := range rows {
		values := make([]string, 0, len(columns))
		for _, c := range columns {
			v, ok := row.Get(c)
			if !ok {
				e.logger.Warn("testData row is missing a column, inserting null", "table", table, "row", i, "column", c)
				values = append(values, "null")
				continue
			}
			lit, err := sqlLiteral(v)
			if err != nil {
				return false, fmt.Errorf("%s testData row %d column %s: %w", class.Name, i, c, err)
			}
			values = append(values, lit)
		}
		for _, k := range row.Keys() {
			if !known[k] {
				e.logger.Warn("testData row has a column the first row lacks, ignoring it", "table", table, "row", i, "column", k)
			}
		}
		tuples = append(tuples, "\t("+strings.Join(values, ", ")+")")
	}

	var b strings.Builder
	b.WriteString(common.FileHeader("--"))
	fmt.Fprintf(&b, "insert into %s (%s) values\n", table, strings.Join(quoted, ", "))
	b.WriteString(strings.Join(tuples, ",\n"))
	b.WriteString(";\n")

	e.artifacts = append(e.artifacts, meta.Artifact{
		Path:    filepath.Join(e.dir, FileName(table)),
		Content: []byte(b.String()),
	})
	e.logger.Debug("Added seed data", "class", class.Name, "table", table, "rows", len(rows))
	return true, nil
}

func (e *SeedEmitter) Finish() ([]meta.Artifact, error) {
	return e.artifacts, nil
}

// columnFor maps a testData key to the column of the field it names, so
// seeds line up with the DDL. The key may be the column, the json name or
// the Go name; an unknown key is kept as written.
func (e *SeedEmitter) columnFor(class *meta.ClassMetadata, table, key string) string {
	fields := class.Fields()
	for _, match := range []func(meta.MemberMetadata) string{
		func(f meta.MemberMetadata) string { return f.Column },
		func(f meta.MemberMetadata) string { return f.JSONName },
		func(f meta.MemberMetadata) string { return f.Name },
	} {
		for _, f := range fields {
			if match(f) == key {
				return f.Column
			}
		}
	}
	e.logger.Warn("testData key matches no field", "table", table, "key", key)
	return key
}

// seedRows concatenates the object rows of every testData annotation.
func seedRows(anns []meta.Annotation) ([]meta.LiteralValue, error) {
	var rows []meta.LiteralValue
	for _, a := range annotation.All(anns, annotation.TestData) {
		if len(a.Arguments) == 0 {
			return nil, annotation.ArgumentError(a, 0, "expected an array of objects")
		}
		arg := a.Arguments[0]
		switch arg.Kind {
		case meta.LiteralArray:
			for _, el := range arg.Elements {
				if el.Kind != meta.LiteralObject {
					return nil, annotation.ArgumentError(a, 0, fmt.Sprintf("expected object rows, got %s", el.Kind))
				}
				rows = append(rows, el)
			}
		case meta.LiteralObject:
			rows = append(rows, arg)
		default:
			return nil, annotation.ArgumentError(a, 0, fmt.Sprintf("expected an array of objects, got %s", arg.Kind))
		}
		if len(rows) > 0 && len(rows[0].Fields) == 0 {
			return nil, annotation.ArgumentError(a, 0, "the first row has no columns")
		}
	}
	return rows, nil
}

func sqlLiteral(v meta.LiteralValue) (string, error) {
	switch v.Kind {
	case meta.LiteralString:
		return common.QuoteLiteral(v.Text), nil
	case meta.LiteralNumber, meta.LiteralBool:
		return v.Text, nil
	case meta.LiteralNull:
		return "null", nil
	default:
		return "", fmt.Errorf("%s values cannot be seeded", v.Kind)
	}
}
