package sql

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/annogen/internal/codegen/common"
	"github.com/Alia5/annogen/internal/codegen/meta"
)

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func ann(kind string, args ...meta.LiteralValue) meta.Annotation {
	return meta.Annotation{Kind: kind, Arguments: args, Pos: "models.go:1"}
}

func field(name string, typ meta.TypeRef, anns ...meta.Annotation) meta.MemberMetadata {
	return meta.MemberMetadata{Name: name, JSONName: name, Column: name, Kind: meta.MemberField, ReturnType: typ, Annotations: anns}
}

func obj(fields ...meta.LiteralField) meta.LiteralValue {
	return meta.LiteralValue{Kind: meta.LiteralObject, Fields: fields}
}

func kv(k string, v meta.LiteralValue) meta.LiteralField { return meta.LiteralField{Key: k, Value: v} }

func arr(els ...meta.LiteralValue) meta.LiteralValue {
	return meta.LiteralValue{Kind: meta.LiteralArray, Elements: els}
}

func exampleTable() *meta.ClassMetadata {
	return &meta.ClassMetadata{
		Name:        "Example",
		Annotations: []meta.Annotation{ann("table")},
		Members: []meta.MemberMetadata{
			field("exampleID", meta.Primitive("int64"), ann("primaryKey"), ann("required")),
			field("name", meta.Primitive("string"), ann("required")),
			field("year", meta.Primitive("int"), ann("range", meta.NumberLiteral("1989"), meta.NumberLiteral("2017"))),
			{Name: "Save", Kind: meta.MemberMethod, ReturnType: meta.Primitive("void")},
		},
	}
}

func TestTableEmitter(t *testing.T) {
	e := NewTableEmitter(discard(), "schema")
	claimed, err := e.Add(exampleTable())
	require.NoError(t, err)
	assert.True(t, claimed)

	artifacts, err := e.Finish()
	require.NoError(t, err)
	require.Len(t, artifacts, 1)
	assert.Equal(t, filepath.Join("schema", "Example.generated.sql"), artifacts[0].Path)

	want := "-- " + common.GeneratedMarker + "\n" +
		"create table Example (\n" +
		"\t\"exampleID\" bigserial not null constraint Example_pkey primary key,\n" +
		"\t\"name\" varchar not null,\n" +
		"\t\"year\" int null,\n" +
		"\tconstraint Example_year_range check (\"year\" >= 1989 and \"year\" <= 2017)\n" +
		");\n"
	assert.Equal(t, want, string(artifacts[0].Content))
}

func TestTableEmitterConstraintOrdering(t *testing.T) {
	class := &meta.ClassMetadata{
		Name:        "Track",
		Annotations: []meta.Annotation{ann("table", meta.StringLiteral("tracks"))},
		Members: []meta.MemberMetadata{
			field("length", meta.Primitive("float64"), ann("range", meta.NumberLiteral("0"), meta.NumberLiteral("3600.5"))),
			field("albumID", meta.Primitive("int64"), ann("foreignKey", meta.StringLiteral("albums"))),
			field("artistID", meta.Primitive("int64"), ann("foreignKey", meta.StringLiteral("artists"), meta.StringLiteral("id"))),
			field("meta", meta.Invalid("map[string]string")),
		},
	}
	e := NewTableEmitter(discard(), "schema")
	_, err := e.Add(class)
	require.NoError(t, err)
	artifacts, err := e.Finish()
	require.NoError(t, err)
	require.Len(t, artifacts, 1)
	assert.Equal(t, filepath.Join("schema", "tracks.generated.sql"), artifacts[0].Path)

	lines := strings.Split(string(artifacts[0].Content), "\n")
	require.Len(t, lines, 11)
	assert.Equal(t, "create table tracks (", lines[1])
	assert.Equal(t, "\t\"length\" double precision null,", lines[2])
	assert.Equal(t, "\t\"meta\" NOT_HANDLED null,", lines[5])
	assert.Equal(t, `	constraint tracks_albumID_albums_albumID_fk foreign key ("albumID") references albums ("albumID"),`, lines[6])
	assert.Equal(t, `	constraint tracks_artistID_artists_id_fk foreign key ("artistID") references artists ("id"),`, lines[7])
	assert.Equal(t, `	constraint tracks_length_range check ("length" >= 0 and "length" <= 3600.5)`, lines[8])
	assert.Equal(t, ");", lines[9])
}

func TestTableEmitterEmptyTable(t *testing.T) {
	e := NewTableEmitter(discard(), "schema")
	_, err := e.Add(&meta.ClassMetadata{Name: "Empty", Annotations: []meta.Annotation{ann("table")}})
	require.NoError(t, err)
	artifacts, _ := e.Finish()
	require.Len(t, artifacts, 1)
	assert.True(t, strings.HasSuffix(string(artifacts[0].Content), "create table Empty (\n);\n"))
}

func TestTableEmitterErrors(t *testing.T) {
	t.Run("not a table", func(t *testing.T) {
		claimed, err := NewTableEmitter(discard(), "schema").Add(&meta.ClassMetadata{Name: "Plain"})
		require.NoError(t, err)
		assert.False(t, claimed)
	})

	t.Run("two primary keys", func(t *testing.T) {
		class := exampleTable()
		class.Members[1].Annotations = append(class.Members[1].Annotations, ann("primaryKey"))
		_, err := NewTableEmitter(discard(), "schema").Add(class)
		assert.True(t, errors.Is(err, ErrMultiplePrimaryKeys))
	})

	t.Run("range bound is not a number", func(t *testing.T) {
		class := exampleTable()
		class.Members[2].Annotations = []meta.Annotation{ann("range", meta.StringLiteral("low"), meta.NumberLiteral("2"))}
		_, err := NewTableEmitter(discard(), "schema").Add(class)
		assert.True(t, errors.Is(err, meta.ErrAnnotationArgumentMissing))
	})

	t.Run("range without upper bound", func(t *testing.T) {
		class := exampleTable()
		class.Members[2].Annotations = []meta.Annotation{ann("range", meta.NumberLiteral("1"))}
		_, err := NewTableEmitter(discard(), "schema").Add(class)
		assert.True(t, errors.Is(err, meta.ErrAnnotationArgumentMissing))
	})

	t.Run("foreign key without table", func(t *testing.T) {
		class := exampleTable()
		class.Members[1].Annotations = []meta.Annotation{ann("foreignKey")}
		_, err := NewTableEmitter(discard(), "schema").Add(class)
		assert.True(t, errors.Is(err, meta.ErrAnnotationArgumentMissing))
	})

	t.Run("duplicate table", func(t *testing.T) {
		e := NewTableEmitter(discard(), "schema")
		_, err := e.Add(exampleTable())
		require.NoError(t, err)
		_, err = e.Add(exampleTable())
		assert.True(t, errors.Is(err, ErrDuplicateTable))
	})
}

func seedClass(args ...meta.Annotation) *meta.ClassMetadata {
	return &meta.ClassMetadata{Name: "Example", Annotations: append([]meta.Annotation{ann("table")}, args...)}
}

func TestSeedEmitter(t *testing.T) {
	rows := arr(
		obj(kv("exampleID", meta.NumberLiteral("1")), kv("name", meta.StringLiteral("O'Brien")), kv("active", meta.LiteralValue{Kind: meta.LiteralBool, Text: "true"})),
		obj(kv("exampleID", meta.NumberLiteral("2")), kv("name", meta.LiteralValue{Kind: meta.LiteralNull, Text: "null"}), kv("active", meta.LiteralValue{Kind: meta.LiteralBool, Text: "false"})),
	)
	e := NewSeedEmitter(discard(), "seed")
	claimed, err := e.Add(seedClass(ann("testData", rows)))
	require.NoError(t, err)
	assert.True(t, claimed)

	artifacts, err := e.Finish()
	require.NoError(t, err)
	require.Len(t, artifacts, 1)
	assert.Equal(t, filepath.Join("seed", "Example.generated.sql"), artifacts[0].Path)

	want := "-- " + common.GeneratedMarker + "\n" +
		"insert into Example (\"exampleID\", \"name\", \"active\") values\n" +
		"\t(1, 'O''Brien', true),\n" +
		"\t(2, null, false);\n"
	assert.Equal(t, want, string(artifacts[0].Content))
}

func TestSeedEmitterRowShapes(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	class := seedClass(
		ann("testData", obj(kv("b", meta.NumberLiteral("1")), kv("a", meta.StringLiteral("x")))),
		ann("testData", obj(kv("a", meta.StringLiteral("y")), kv("c", meta.NumberLiteral("3")))),
	)
	e := NewSeedEmitter(logger, "seed")
	_, err := e.Add(class)
	require.NoError(t, err)
	artifacts, _ := e.Finish()
	require.Len(t, artifacts, 1)

	content := string(artifacts[0].Content)
	assert.Contains(t, content, "insert into Example (\"b\", \"a\") values\n")
	assert.Contains(t, content, "\t(1, 'x'),\n\t(null, 'y');\n", "rows are read by key")
	assert.Contains(t, logs.String(), "column=b")
	assert.Contains(t, logs.String(), "column=c")
}

func TestSeedEmitterUsesFieldColumns(t *testing.T) {
	var logs bytes.Buffer
	class := seedClass(ann("testData",
		obj(kv("exampleID", meta.NumberLiteral("1")), kv("Title", meta.StringLiteral("First")), kv("year", meta.NumberLiteral("1990")), kv("extra", meta.NumberLiteral("0"))),
	))
	class.Members = []meta.MemberMetadata{
		{Name: "ExampleID", JSONName: "exampleID", Column: "example_id", Kind: meta.MemberField, ReturnType: meta.Primitive("int64")},
		{Name: "Title", JSONName: "title", Column: "title", Kind: meta.MemberField, ReturnType: meta.Primitive("string")},
		{Name: "Year", JSONName: "year", Column: "release_year", Kind: meta.MemberField, ReturnType: meta.Primitive("int")},
	}

	e := NewSeedEmitter(slog.New(slog.NewTextHandler(&logs, nil)), "seed")
	_, err := e.Add(class)
	require.NoError(t, err)
	artifacts, _ := e.Finish()
	require.Len(t, artifacts, 1)

	content := string(artifacts[0].Content)
	assert.Contains(t, content, "insert into Example (\"example_id\", \"title\", \"release_year\", \"extra\") values\n")
	assert.Contains(t, content, "\t(1, 'First', 1990, 0);\n")
	assert.Contains(t, logs.String(), "key=extra")
}

func TestSeedEmitterKeepsKeysWithoutTable(t *testing.T) {
	class := &meta.ClassMetadata{
		Name:        "Fixture",
		Annotations: []meta.Annotation{ann("testData", obj(kv("exampleID", meta.NumberLiteral("1"))))},
		Members:     []meta.MemberMetadata{{Name: "ExampleID", JSONName: "exampleID", Column: "example_id", Kind: meta.MemberField}},
	}
	e := NewSeedEmitter(discard(), "seed")
	_, err := e.Add(class)
	require.NoError(t, err)
	artifacts, _ := e.Finish()
	require.Len(t, artifacts, 1)
	assert.Contains(t, string(artifacts[0].Content), "insert into Fixture (\"exampleID\") values")
}

func TestSeedEmitterDuplicateColumn(t *testing.T) {
	class := seedClass(ann("testData", obj(kv("example_id", meta.NumberLiteral("1")), kv("exampleID", meta.NumberLiteral("2")))))
	class.Members = []meta.MemberMetadata{{Name: "ExampleID", JSONName: "exampleID", Column: "example_id", Kind: meta.MemberField}}
	_, err := NewSeedEmitter(discard(), "seed").Add(class)
	assert.ErrorContains(t, err, "both fill column example_id")
}

func TestSeedEmitterEmpty(t *testing.T) {
	var logs bytes.Buffer
	e := NewSeedEmitter(slog.New(slog.NewTextHandler(&logs, nil)), "seed")
	claimed, err := e.Add(seedClass(ann("testData", arr())))
	require.NoError(t, err)
	assert.True(t, claimed)
	artifacts, _ := e.Finish()
	assert.Empty(t, artifacts)
	assert.Contains(t, logs.String(), "testData has no rows")
}

func TestSeedEmitterErrors(t *testing.T) {
	tests := []struct {
		name    string
		class   *meta.ClassMetadata
		wantErr error
	}{
		{"no argument", seedClass(ann("testData")), meta.ErrAnnotationArgumentMissing},
		{"scalar argument", seedClass(ann("testData", meta.NumberLiteral("1"))), meta.ErrAnnotationArgumentMissing},
		{"scalar row", seedClass(ann("testData", arr(meta.NumberLiteral("1")))), meta.ErrAnnotationArgumentMissing},
		{"empty first row", seedClass(ann("testData", arr(obj()))), meta.ErrAnnotationArgumentMissing},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSeedEmitter(discard(), "seed").Add(tt.class)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}

	t.Run("nested value", func(t *testing.T) {
		class := seedClass(ann("testData", arr(obj(kv("tags", arr(meta.StringLiteral("a")))))))
		_, err := NewSeedEmitter(discard(), "seed").Add(class)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "array values cannot be seeded")
	})
}
