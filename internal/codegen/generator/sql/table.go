// Package sql emits PostgreSQL DDL and seed data for table classes.
package sql

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/Alia5/annogen/internal/codegen/annotation"
	"github.com/Alia5/annogen/internal/codegen/common"
	"github.com/Alia5/annogen/internal/codegen/meta"
)

var (
	// ErrMultiplePrimaryKeys indicates a table with more than one primaryKey field.
	ErrMultiplePrimaryKeys = errors.New("annogen: more than one primary key")
	// ErrDuplicateTable indicates two classes map to the same table name.
	ErrDuplicateTable = errors.New("annogen: duplicate table name")
)

// FileName returns the generated file name for a table.
func FileName(table string) string { return table + ".generated.sql" }

// TableEmitter renders one `create table` file per table class.
type TableEmitter struct {
	logger    *slog.Logger
	dir       string
	artifacts []meta.Artifact
	owners    map[string]string
}

func NewTableEmitter(logger *slog.Logger, dir string) *TableEmitter {
	return &TableEmitter{logger: logger, dir: dir, owners: map[string]string{}}
}

func (e *TableEmitter) Name() string { return "table" }

func (e *TableEmitter) Add(class *meta.ClassMetadata) (bool, error) {
	if !annotation.Has(class.Annotations, annotation.Table) {
		return false, nil
	}
	table, err := annotation.TableName(class.Annotations, class.Name)
	if err != nil {
		return false, err
	}
	if owner, ok := e.owners[table]; ok {
		return false, fmt.Errorf("%w: %s from %s and %s", ErrDuplicateTable, table, owner, class.Name)
	}
	e.owners[table] = class.Name

	var columns, foreignKeys, ranges []string
	primaryKey := ""
	for _, f := range class.Fields() {
		isPK := annotation.Has(f.Annotations, annotation.PrimaryKey)
		if isPK {
			if primaryKey != "" {
				return false, fmt.Errorf("%w: %s has %s and %s", ErrMultiplePrimaryKeys, class.Name, primaryKey, f.Name)
			}
			primaryKey = f.Name
		}

		sqlType := common.ProjectSQL(f.ReturnType, isPK)
		if sqlType == common.NotHandled {
			e.logger.Warn("No column type for field", "table", table, "field", f.Name, "type", f.ReturnType.String(), "pos", f.Pos)
		}
		nullability := "null"
		if annotation.Has(f.Annotations, annotation.Required) {
			nullability = "not null"
		}
		column := fmt.Sprintf("\t%s %s %s", common.QuoteIdent(f.Column), sqlType, nullability)
		if isPK {
			column += fmt.Sprintf(" constraint %s_pkey primary key", table)
		}
		columns = append(columns, column)

		if annotation.Has(f.Annotations, annotation.ForeignKey) {
			fk, err := foreignKey(table, f)
			if err != nil {
				return false, err
			}
			foreignKeys = append(foreignKeys, fk)
		}
		if annotation.Has(f.Annotations, annotation.Range) {
			check, err := rangeCheck(table, f)
			if err != nil {
				return false, err
			}
			ranges = append(ranges, check)
		}
	}

	clauses := append(append(columns, foreignKeys...), ranges...)
	var b strings.Builder
	b.WriteString(common.FileHeader("--"))
	fmt.Fprintf(&b, "create table %s (\n", table)
	if len(clauses) > 0 {
		b.WriteString(strings.Join(clauses, ",\n"))
		b.WriteString("\n")
	}
	b.WriteString(");\n")

	e.artifacts = append(e.artifacts, meta.Artifact{
		Path:    filepath.Join(e.dir, FileName(table)),
		Content: []byte(b.String()),
	})
	e.logger.Debug("Added table", "class", class.Name, "table", table, "columns", len(columns))
	return true, nil
}

func foreignKey(table string, f meta.MemberMetadata) (string, error) {
	target, err := annotation.StringArg(f.Annotations, annotation.ForeignKey, 0)
	if err != nil {
		return "", err
	}
	targetColumn, ok, err := annotation.OptionalStringArg(f.Annotations, annotation.ForeignKey, 1)
	if err != nil {
		return "", err
	}
	if !ok {
		targetColumn = f.Column
	}
	return fmt.Sprintf("\tconstraint %s_%s_%s_%s_fk foreign key (%s) references %s (%s)",
		table, f.Column, target, targetColumn,
		common.QuoteIdent(f.Column), target, common.QuoteIdent(targetColumn)), nil
}

func rangeCheck(table string, f meta.MemberMetadata) (string, error) {
	lo, err := annotation.NumberArg(f.Annotations, annotation.Range, 0)
	if err != nil {
		return "", err
	}
	hi, err := annotation.NumberArg(f.Annotations, annotation.Range, 1)
	if err != nil {
		return "", err
	}
	col := common.QuoteIdent(f.Column)
	return fmt.Sprintf("\tconstraint %s_%s_range check (%s >= %s and %s <= %s)", table, f.Column, col, lo, col, hi), nil
}

func (e *TableEmitter) Finish() ([]meta.Artifact, error) {
	return e.artifacts, nil
}
