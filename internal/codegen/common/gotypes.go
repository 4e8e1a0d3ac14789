package common

import (
	"fmt"

	"github.com/Alia5/annogen/internal/codegen/meta"
)

// NotHandled is the SQL type emitted for fields whose Go type has no column
// mapping. It makes the DDL fail loudly when applied.
const NotHandled = "NOT_HANDLED"

var numberKinds = map[string]bool{
	"int": true, "int8": true, "int16": true, "int32": true, "int64": true,
	"uint": true, "uint8": true, "uint16": true, "uint32": true, "uint64": true,
	"uintptr": true, "byte": true, "rune": true,
	"float32": true, "float64": true,
}

var floatKinds = map[string]bool{"float32": true, "float64": true}

// foreignKinds maps named types of other packages to the TypeScript type of
// their JSON encoding.
var foreignKinds = map[string]string{
	"time.Time":       "string",
	"time.Duration":   "number",
	"json.RawMessage": "any",
	"json.Number":     "number",
	"uuid.UUID":       "string",
}

// Project renders t as a TypeScript type. Named types are qualified with
// namespace unless it is empty. Named types of other packages project to their
// JSON encoding when known and to any otherwise, see Foreign.
func Project(t meta.TypeRef, namespace string) (string, error) {
	switch t.Kind {
	case meta.TypePrimitive:
		switch {
		case t.Name == "void":
			return "void", nil
		case t.Name == "bool":
			return "boolean", nil
		case t.Name == "string":
			return "string", nil
		case numberKinds[t.Name]:
			return "number", nil
		default:
			return "any", nil
		}
	case meta.TypeNamed:
		if t.Package != "" {
			if ts, ok := foreignKinds[t.Package+"."+t.Name]; ok {
				return ts, nil
			}
			return "any", nil
		}
		if namespace == "" {
			return t.Name, nil
		}
		return namespace + "." + t.Name, nil
	case meta.TypeArray:
		if t.Elem == nil {
			break
		}
		elem, err := Project(*t.Elem, namespace)
		if err != nil {
			return "", err
		}
		return elem + "[]", nil
	}
	return "", &meta.TypeError{Expr: t.String(), Message: "no TypeScript projection"}
}

// Foreign reports the first named type within t that lives in another package
// and has no known projection. Project renders such types as any.
func Foreign(t meta.TypeRef) (string, bool) {
	switch t.Kind {
	case meta.TypeNamed:
		if t.Package == "" {
			return "", false
		}
		if _, ok := foreignKinds[t.Package+"."+t.Name]; ok {
			return "", false
		}
		return t.String(), true
	case meta.TypeArray:
		if t.Elem != nil {
			return Foreign(*t.Elem)
		}
	}
	return "", false
}

// ProjectSQL renders t as a PostgreSQL column type.
func ProjectSQL(t meta.TypeRef, isPrimaryKey bool) string {
	if isPrimaryKey {
		return "bigserial"
	}
	if t.Kind != meta.TypePrimitive {
		return NotHandled
	}
	switch {
	case t.Name == "bool":
		return "boolean"
	case t.Name == "string":
		return "varchar"
	case floatKinds[t.Name]:
		return "double precision"
	case numberKinds[t.Name]:
		return "int"
	default:
		return NotHandled
	}
}

// FieldTypeError decorates a projection failure with the offending member.
func FieldTypeError(err error, class, member, pos string) error {
	if te, ok := err.(*meta.TypeError); ok {
		out := *te
		out.Class, out.Member, out.Pos = class, member, pos
		return &out
	}
	return fmt.Errorf("%s.%s at %s: %w", class, member, pos, err)
}
