package golang

import (
	"bytes"
	"errors"
	"go/format"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/annogen/internal/codegen/meta"
)

const crudImport = "github.com/Alia5/annogen/pkg/crud"

func opts() Options {
	return Options{File: "queries/queries.generated.go", Package: "queries", CrudImport: crudImport}
}

func field(name string, anns ...string) meta.MemberMetadata {
	m := meta.MemberMetadata{Name: name, JSONName: name, Column: name, Kind: meta.MemberField, ReturnType: meta.Primitive("string")}
	for _, k := range anns {
		m.Annotations = append(m.Annotations, meta.Annotation{Kind: k})
	}
	return m
}

func exampleTable() *meta.ClassMetadata {
	return &meta.ClassMetadata{
		Name: "Example",
		Annotations: []meta.Annotation{{
			Kind:      "table",
			Arguments: []meta.LiteralValue{meta.StringLiteral("examples")},
		}},
		Members: []meta.MemberMetadata{
			field("example_id", "primaryKey"),
			field("name"),
			field("year"),
		},
	}
}

func TestQueryEmitter(t *testing.T) {
	e := NewQueryEmitter(slog.New(slog.NewTextHandler(io.Discard, nil)), opts())
	claimed, err := e.Add(exampleTable())
	require.NoError(t, err)
	assert.True(t, claimed)

	claimed, err = e.Add(&meta.ClassMetadata{Name: "ExampleApi"})
	require.NoError(t, err)
	assert.False(t, claimed)

	code := e.file().GoString()
	assert.True(t, strings.HasPrefix(code, "// Code generated by annogen. DO NOT EDIT."))
	assert.Contains(t, code, "package queries")
	assert.Contains(t, code, `import "github.com/Alia5/annogen/pkg/crud"`)
	assert.Contains(t, code, `examplesTable      = "examples"`)
	assert.Contains(t, code, `examplesPrimaryKey = "\"example_id\""`)
	assert.Contains(t, code, `var examplesColumns = []string{"\"name\"", "\"year\""}`)
	assert.Contains(t, code, "var Examples = struct {")
	assert.Contains(t, code, "Update ExamplesUpdate")
	assert.Contains(t, code, "func (ExamplesCreate) Single() string {\n\treturn crud.InsertSingle(examplesTable, examplesColumns)\n}")
	assert.Contains(t, code, "func (ExamplesCreate) Multiple(count int) string {")
	assert.Contains(t, code, "func (ExamplesRead) All(columns ...string) string {\n\treturn crud.SelectAll(examplesTable, columns...)\n}")
	assert.Contains(t, code, "crud.SelectWherePrimaryKey(examplesTable, examplesPrimaryKey, columns...)")
	assert.Contains(t, code, "crud.UpdateWherePrimaryKey(examplesTable, examplesPrimaryKey, columns...)")
	assert.Contains(t, code, "func (ExamplesDelete) All() string")
	assert.Contains(t, code, "crud.DeleteWherePrimaryKey(examplesTable, examplesPrimaryKey)")

	artifacts, err := e.Finish()
	require.NoError(t, err)
	require.Len(t, artifacts, 1)
	assert.Equal(t, "queries/queries.generated.go", artifacts[0].Path)
}

func TestQueryEmitterWithoutPrimaryKey(t *testing.T) {
	var logs bytes.Buffer
	e := NewQueryEmitter(slog.New(slog.NewTextHandler(&logs, nil)), opts())

	class := exampleTable()
	class.Annotations = []meta.Annotation{{Kind: "table"}}
	class.Members[0].Annotations = nil
	_, err := e.Add(class)
	require.NoError(t, err)

	code := e.file().GoString()
	assert.Contains(t, code, "var Example = struct {")
	assert.Contains(t, code, "func (ExampleRead) All(columns ...string) string")
	assert.Contains(t, code, "func (ExampleDelete) All() string")
	assert.NotContains(t, code, "WherePrimaryKey")
	assert.NotContains(t, code, "ExampleUpdate")
	assert.NotContains(t, code, "examplePrimaryKey")
	assert.Contains(t, code, `"\"example_id\"", "\"name\"", "\"year\""`)
	assert.Contains(t, logs.String(), "no primary key")
}

func TestQueryEmitterNoTables(t *testing.T) {
	artifacts, err := NewQueryEmitter(slog.New(slog.NewTextHandler(io.Discard, nil)), opts()).Finish()
	require.NoError(t, err)
	assert.Empty(t, artifacts)
}

func TestQueryEmitterSchemaQualifiedTable(t *testing.T) {
	e := NewQueryEmitter(slog.New(slog.NewTextHandler(io.Discard, nil)), opts())
	class := exampleTable()
	class.Annotations[0].Arguments = []meta.LiteralValue{meta.StringLiteral("app.users")}
	_, err := e.Add(class)
	require.NoError(t, err)

	artifacts, err := e.Finish()
	require.NoError(t, err)
	require.Len(t, artifacts, 1)
	_, err = format.Source(artifacts[0].Content)
	require.NoError(t, err, "generated file must be valid Go")

	code := string(artifacts[0].Content)
	assert.Contains(t, code, `appUsersTable      = "app.users"`)
	assert.Contains(t, code, "var AppUsers = struct {")
	assert.Contains(t, code, "func (AppUsersRead) All(columns ...string) string")
}

func TestQueryEmitterIdentifierCollision(t *testing.T) {
	e := NewQueryEmitter(slog.New(slog.NewTextHandler(io.Discard, nil)), opts())
	first := exampleTable()
	first.Annotations[0].Arguments = []meta.LiteralValue{meta.StringLiteral("app.users")}
	_, err := e.Add(first)
	require.NoError(t, err)

	second := exampleTable()
	second.Annotations[0].Arguments = []meta.LiteralValue{meta.StringLiteral("app_users")}
	_, err = e.Add(second)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateIdent))
	assert.Contains(t, err.Error(), "AppUsers")
}
