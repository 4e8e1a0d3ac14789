// Package scanner loads annotated Go source folders into class metadata.
package scanner

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"

	"github.com/Alia5/annogen/internal/codegen/meta"
)

// Scanner parses every non-test Go file of a folder and collects its
// exported struct types with their fields, methods and annotations.
type Scanner struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scanner{logger: logger}
}

// Load scans folder and returns its classes in declaration order.
func (s *Scanner) Load(folder string) ([]*meta.ClassMetadata, error) {
	info, err := os.Stat(folder)
	if err != nil {
		return nil, meta.NewFolderNotFound(folder, err)
	}
	if !info.IsDir() {
		return nil, meta.NewFolderNotFound(folder, fmt.Errorf("not a directory"))
	}

	files, err := sourceFiles(folder)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", folder, err)
	}
	if len(files) == 0 {
		return nil, meta.NewEmptyFolder(folder, "no Go source files")
	}

	fset := token.NewFileSet()
	parsed := make([]*ast.File, 0, len(files))
	for _, path := range files {
		f, err := parser.ParseFile(fset, path, nil, parser.ParseComments)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
		}
		parsed = append(parsed, f)
	}

	// Pass 1: every top-level type name of the folder.
	res := &resolver{symbols: map[string]ast.Expr{}}
	for _, f := range parsed {
		for _, decl := range f.Decls {
			gd, ok := decl.(*ast.GenDecl)
			if !ok || gd.Tok != token.TYPE {
				continue
			}
			for _, spec := range gd.Specs {
				if ts, ok := spec.(*ast.TypeSpec); ok {
					res.symbols[ts.Name.Name] = ts.Type
				}
			}
		}
	}

	// Pass 2: classes with their fields, then methods across all files.
	var classes []*meta.ClassMetadata
	byName := map[string]*meta.ClassMetadata{}
	for _, f := range parsed {
		for _, decl := range f.Decls {
			gd, ok := decl.(*ast.GenDecl)
			if !ok || gd.Tok != token.TYPE {
				continue
			}
			for _, spec := range gd.Specs {
				ts, ok := spec.(*ast.TypeSpec)
				if !ok || !ts.Name.IsExported() || ts.TypeParams != nil {
					continue
				}
				st, ok := ts.Type.(*ast.StructType)
				if !ok {
					continue
				}
				doc := ts.Doc
				if doc == nil && gd.Lparen == token.NoPos {
					doc = gd.Doc
				}
				class, err := s.class(fset, res, ts, st, doc)
				if err != nil {
					return nil, err
				}
				classes = append(classes, class)
				byName[class.Name] = class
			}
		}
	}

	for _, f := range parsed {
		for _, decl := range f.Decls {
			fd, ok := decl.(*ast.FuncDecl)
			if !ok || fd.Recv == nil || !fd.Name.IsExported() {
				continue
			}
			class := byName[receiverName(fd.Recv)]
			if class == nil {
				continue
			}
			m, err := s.method(fset, res, fd)
			if err != nil {
				return nil, err
			}
			class.Members = append(class.Members, m)
		}
	}

	if len(classes) == 0 {
		return nil, meta.NewEmptyFolder(folder, "no exported struct types")
	}
	s.logger.Debug("Scanned source folder", "folder", folder, "files", len(files), "classes", len(classes))
	return classes, nil
}

func sourceFiles(folder string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(folder, "*.go"))
	if err != nil {
		return nil, err
	}
	files := matches[:0]
	for _, m := range matches {
		if strings.HasSuffix(m, "_test.go") {
			continue
		}
		files = append(files, m)
	}
	sort.Strings(files)
	return files, nil
}

func (s *Scanner) class(fset *token.FileSet, res *resolver, ts *ast.TypeSpec, st *ast.StructType, doc *ast.CommentGroup) (*meta.ClassMetadata, error) {
	anns, err := s.directives(fset, doc, ts.Comment)
	if err != nil {
		return nil, err
	}
	class := &meta.ClassMetadata{
		Name:        ts.Name.Name,
		Pos:         position(fset, ts.Pos()),
		Annotations: anns,
	}

	for _, field := range st.Fields.List {
		if len(field.Names) == 0 {
			continue
		}
		tags := reflect.StructTag("")
		if field.Tag != nil {
			tags = reflect.StructTag(strings.Trim(field.Tag.Value, "`"))
		}
		if tags.Get("db") == "-" {
			continue
		}

		fieldAnns, err := s.directives(fset, field.Doc, field.Comment)
		if err != nil {
			return nil, err
		}
		typ := res.resolve(field.Type)
		_, isPtr := field.Type.(*ast.StarExpr)

		for _, name := range field.Names {
			if !name.IsExported() {
				continue
			}
			jsonName, omitempty := tagName(tags.Get("json"), name.Name)
			column, _ := tagName(tags.Get("db"), jsonName)
			class.Members = append(class.Members, meta.MemberMetadata{
				Name:        name.Name,
				JSONName:    jsonName,
				Column:      column,
				Kind:        meta.MemberField,
				Pos:         position(fset, name.Pos()),
				Annotations: fieldAnns,
				ReturnType:  typ,
				IsOptional:  isPtr || omitempty,
				JSONOmitted: tags.Get("json") == "-",
			})
		}
	}
	return class, nil
}

func (s *Scanner) method(fset *token.FileSet, res *resolver, fd *ast.FuncDecl) (meta.MemberMetadata, error) {
	anns, err := s.directives(fset, fd.Doc)
	if err != nil {
		return meta.MemberMetadata{}, err
	}
	m := meta.MemberMetadata{
		Name:        fd.Name.Name,
		JSONName:    fd.Name.Name,
		Column:      fd.Name.Name,
		Kind:        meta.MemberMethod,
		Pos:         position(fset, fd.Name.Pos()),
		Annotations: anns,
		ReturnType:  res.returnType(fd.Type.Results),
	}
	for _, p := range fd.Type.Params.List {
		typ := res.resolve(p.Type)
		if len(p.Names) == 0 {
			m.Parameters = append(m.Parameters, meta.ParameterMetadata{Type: typ})
			continue
		}
		for _, name := range p.Names {
			m.Parameters = append(m.Parameters, meta.ParameterMetadata{Name: name.Name, Type: typ})
		}
	}
	return m, nil
}

// tagName splits a json/db struct tag into its name and omitempty flag,
// falling back to def when the tag carries no name.
func tagName(tag, def string) (string, bool) {
	if tag == "" || tag == "-" {
		return def, false
	}
	parts := strings.Split(tag, ",")
	name := parts[0]
	if name == "" {
		name = def
	}
	omitempty := false
	for _, part := range parts[1:] {
		if part == "omitempty" {
			omitempty = true
			break
		}
	}
	return name, omitempty
}

func receiverName(recv *ast.FieldList) string {
	if recv == nil || len(recv.List) == 0 {
		return ""
	}
	expr := recv.List[0].Type
	if star, ok := expr.(*ast.StarExpr); ok {
		expr = star.X
	}
	if ident, ok := expr.(*ast.Ident); ok {
		return ident.Name
	}
	return ""
}

func position(fset *token.FileSet, pos token.Pos) string {
	p := fset.Position(pos)
	return fmt.Sprintf("%s:%d", filepath.Base(p.Filename), p.Line)
}
