package scanner

import (
	"go/ast"
	"go/types"
	"strings"

	"github.com/Alia5/annogen/internal/codegen/meta"
)

var predeclared = map[string]bool{
	"bool":       true,
	"string":     true,
	"int":        true,
	"int8":       true,
	"int16":      true,
	"int32":      true,
	"int64":      true,
	"uint":       true,
	"uint8":      true,
	"uint16":     true,
	"uint32":     true,
	"uint64":     true,
	"uintptr":    true,
	"byte":       true,
	"rune":       true,
	"float32":    true,
	"float64":    true,
	"complex64":  true,
	"complex128": true,
	"any":        true,
	"error":      true,
}

// resolver turns type expressions into TypeRefs against the folder's
// top-level type declarations.
type resolver struct {
	symbols map[string]ast.Expr
}

func (r *resolver) resolve(expr ast.Expr) meta.TypeRef {
	return r.resolveSeen(expr, map[string]bool{})
}

func (r *resolver) resolveSeen(expr ast.Expr, seen map[string]bool) meta.TypeRef {
	switch t := expr.(type) {
	case *ast.Ident:
		if predeclared[t.Name] {
			return meta.Primitive(t.Name)
		}
		underlying, ok := r.symbols[t.Name]
		if !ok {
			return meta.Invalid(t.Name)
		}
		if _, isStruct := underlying.(*ast.StructType); isStruct {
			return meta.Named("", t.Name)
		}
		if seen[t.Name] {
			return meta.Invalid(t.Name)
		}
		seen[t.Name] = true
		return r.resolveSeen(underlying, seen)
	case *ast.StarExpr:
		return r.resolveSeen(t.X, seen)
	case *ast.ParenExpr:
		return r.resolveSeen(t.X, seen)
	case *ast.ArrayType:
		elem := r.resolveSeen(t.Elt, seen)
		if !elem.Resolved() {
			return meta.Invalid(types.ExprString(expr))
		}
		return meta.ArrayOf(elem)
	case *ast.SelectorExpr:
		if ident, ok := t.X.(*ast.Ident); ok {
			return meta.Named(ident.Name, t.Sel.Name)
		}
	case *ast.InterfaceType:
		if t.Methods == nil || len(t.Methods.List) == 0 {
			return meta.Primitive("any")
		}
	}
	return meta.Invalid(types.ExprString(expr))
}

// returnType derives the payload type of a method from its results:
// (T, error) and T give T, error alone gives void, anything else is invalid.
func (r *resolver) returnType(results *ast.FieldList) meta.TypeRef {
	var exprs []ast.Expr
	if results != nil {
		for _, f := range results.List {
			n := len(f.Names)
			if n == 0 {
				n = 1
			}
			for i := 0; i < n; i++ {
				exprs = append(exprs, f.Type)
			}
		}
	}

	var payload []ast.Expr
	hasErr := false
	for _, e := range exprs {
		if ident, ok := e.(*ast.Ident); ok && ident.Name == "error" {
			hasErr = true
			continue
		}
		payload = append(payload, e)
	}

	switch {
	case len(payload) == 1:
		return r.resolve(payload[0])
	case len(payload) == 0 && hasErr:
		return meta.Primitive("void")
	}

	parts := make([]string, 0, len(exprs))
	for _, e := range exprs {
		parts = append(parts, types.ExprString(e))
	}
	return meta.Invalid("(" + strings.Join(parts, ", ") + ")")
}
