// Package golang emits the Go query builders of table classes.
package golang

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dave/jennifer/jen"

	"github.com/Alia5/annogen/internal/codegen/annotation"
	"github.com/Alia5/annogen/internal/codegen/common"
	"github.com/Alia5/annogen/internal/codegen/meta"
)

// ErrDuplicateIdent indicates two table names that collapse to the same Go
// identifier.
var ErrDuplicateIdent = errors.New("annogen: duplicate query builder name")

// Options controls where the query builders land and which crud package
// they call into.
type Options struct {
	File       string
	Package    string
	CrudImport string
}

type table struct {
	Class      string
	Name       string
	PrimaryKey string // column name, empty when the table has none
	Columns    []string
}

// QueryEmitter renders one Go file holding a statement builder per table.
type QueryEmitter struct {
	logger *slog.Logger
	opts   Options
	tables []table
	idents map[string]string // Go identifier -> table name
}

func NewQueryEmitter(logger *slog.Logger, opts Options) *QueryEmitter {
	return &QueryEmitter{logger: logger, opts: opts, idents: map[string]string{}}
}

func (e *QueryEmitter) Name() string { return "queries" }

func (e *QueryEmitter) Add(class *meta.ClassMetadata) (bool, error) {
	if !annotation.Has(class.Annotations, annotation.Table) {
		return false, nil
	}
	name, err := annotation.TableName(class.Annotations, class.Name)
	if err != nil {
		return false, err
	}

	ident := common.ExportedIdent(name)
	if other, ok := e.idents[ident]; ok {
		return false, fmt.Errorf("%w: tables %s and %s both map to %s", ErrDuplicateIdent, other, name, ident)
	}
	e.idents[ident] = name

	t := table{Class: class.Name, Name: name}
	for _, f := range class.Fields() {
		if annotation.Has(f.Annotations, annotation.PrimaryKey) && t.PrimaryKey == "" {
			t.PrimaryKey = f.Column
			continue
		}
		t.Columns = append(t.Columns, f.Column)
	}
	if t.PrimaryKey == "" {
		e.logger.Warn("Table has no primary key, skipping keyed queries", "class", class.Name, "table", name)
	}
	e.tables = append(e.tables, t)
	return true, nil
}

func (e *QueryEmitter) Finish() ([]meta.Artifact, error) {
	if len(e.tables) == 0 {
		e.logger.Debug("No tables, skipping query builders")
		return nil, nil
	}

	f := e.file()
	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, fmt.Errorf("render query builders: %w", err)
	}
	return []meta.Artifact{{Path: e.opts.File, Content: buf.Bytes()}}, nil
}

func (e *QueryEmitter) file() *jen.File {
	f := jen.NewFile(e.opts.Package)
	f.HeaderComment(common.GeneratedMarker)
	f.ImportName(e.opts.CrudImport, "crud")
	for _, t := range e.tables {
		genTable(f, e.opts.CrudImport, t)
	}
	return f
}

func genTable(f *jen.File, crud string, t table) {
	pascal := common.ExportedIdent(t.Name)
	camel := common.LowerCamel(pascal)
	tableID := camel + "Table"
	pkID := camel + "PrimaryKey"
	colsID := camel + "Columns"
	hasPK := t.PrimaryKey != ""

	f.Const().DefsFunc(func(g *jen.Group) {
		g.Id(tableID).Op("=").Lit(t.Name)
		if hasPK {
			g.Id(pkID).Op("=").Lit(common.QuoteIdent(t.PrimaryKey))
		}
	})
	f.Var().Id(colsID).Op("=").Index().String().ValuesFunc(func(g *jen.Group) {
		for _, c := range t.Columns {
			g.Lit(common.QuoteIdent(c))
		}
	})

	f.Commentf("%s holds the statement builders of the %s table.", pascal, t.Name)
	f.Var().Id(pascal).Op("=").StructFunc(func(g *jen.Group) {
		g.Id("Create").Id(pascal + "Create")
		g.Id("Read").Id(pascal + "Read")
		if hasPK {
			g.Id("Update").Id(pascal + "Update")
		}
		g.Id("Delete").Id(pascal + "Delete")
	}).Values()

	method := func(recv, name string, params []jen.Code, call jen.Code) {
		f.Func().Params(jen.Id(recv)).Id(name).Params(params...).String().Block(jen.Return(call))
	}
	variadic := []jen.Code{jen.Id("columns").Op("...").String()}
	spread := jen.Id("columns").Op("...")

	create := pascal + "Create"
	f.Type().Id(create).Struct()
	f.Comment("Single inserts one row; bind the non-key columns in order.")
	method(create, "Single", nil,
		jen.Qual(crud, "InsertSingle").Call(jen.Id(tableID), jen.Id(colsID)))
	f.Comment("Multiple inserts count rows, see crud.Flatten for the arguments.")
	method(create, "Multiple", []jen.Code{jen.Id("count").Int()},
		jen.Qual(crud, "InsertMultiple").Call(jen.Id(tableID), jen.Id(colsID), jen.Id("count")))

	read := pascal + "Read"
	f.Type().Id(read).Struct()
	method(read, "All", variadic,
		jen.Qual(crud, "SelectAll").Call(jen.Id(tableID), spread))
	if hasPK {
		method(read, "WherePrimaryKey", variadic,
			jen.Qual(crud, "SelectWherePrimaryKey").Call(jen.Id(tableID), jen.Id(pkID), spread))

		update := pascal + "Update"
		f.Type().Id(update).Struct()
		f.Comment("WherePrimaryKey binds the columns to $1..$n and the key to $n+1.")
		method(update, "WherePrimaryKey", variadic,
			jen.Qual(crud, "UpdateWherePrimaryKey").Call(jen.Id(tableID), jen.Id(pkID), spread))
	}

	del := pascal + "Delete"
	f.Type().Id(del).Struct()
	method(del, "All", nil,
		jen.Qual(crud, "DeleteAll").Call(jen.Id(tableID)))
	if hasPK {
		method(del, "WherePrimaryKey", nil,
			jen.Qual(crud, "DeleteWherePrimaryKey").Call(jen.Id(tableID), jen.Id(pkID)))
	}
}
