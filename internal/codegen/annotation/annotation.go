// Package annotation interprets the `//annogen:` directives captured by the
// scanner. Matching is by exact kind name: two directives sharing a name are
// indistinguishable, and renaming a kind silently detaches every emitter that
// keys on the old one.
package annotation

import (
	"fmt"
	"strings"

	"github.com/Alia5/annogen/internal/codegen/meta"
)

// Directive kinds understood by the emitters.
const (
	GenerateProxy = "generateProxy"
	ProxyMethod   = "proxyMethod"
	ProxyType     = "proxyType"
	Table         = "table"
	PrimaryKey    = "primaryKey"
	ForeignKey    = "foreignKey"
	Required      = "required"
	Range         = "range"
	TestData      = "testData"
)

var known = []string{
	GenerateProxy, ProxyMethod, ProxyType,
	Table, PrimaryKey, ForeignKey, Required, Range, TestData,
}

// IsKnown reports whether kind is one of the directive kinds above.
func IsKnown(kind string) bool {
	for _, k := range known {
		if k == kind {
			return true
		}
	}
	return false
}

// Suggest returns the known kind that differs from kind only by letter case.
func Suggest(kind string) (string, bool) {
	for _, k := range known {
		if k != kind && strings.EqualFold(k, kind) {
			return k, true
		}
	}
	return "", false
}

// Has reports whether anns contains an annotation of the given kind.
func Has(anns []meta.Annotation, kind string) bool {
	_, ok := find(anns, kind)
	return ok
}

// All returns every annotation of the given kind in source order.
func All(anns []meta.Annotation, kind string) []meta.Annotation {
	var out []meta.Annotation
	for _, a := range anns {
		if a.Kind == kind {
			out = append(out, a)
		}
	}
	return out
}

// TableName returns the optional table argument, or def when it or the
// table annotation is absent.
func TableName(anns []meta.Annotation, def string) (string, error) {
	if !Has(anns, Table) {
		return def, nil
	}
	name, ok, err := OptionalStringArg(anns, Table, 0)
	if err != nil {
		return "", err
	}
	if !ok || name == "" {
		return def, nil
	}
	return name, nil
}

func find(anns []meta.Annotation, kind string) (meta.Annotation, bool) {
	for _, a := range anns {
		if a.Kind == kind {
			return a, true
		}
	}
	return meta.Annotation{}, false
}

// ArgumentsOf returns the literal arguments of the first annotation of the
// given kind. It fails with ErrAnnotationNotFound when there is none.
func ArgumentsOf(anns []meta.Annotation, kind string) ([]meta.LiteralValue, error) {
	a, ok := find(anns, kind)
	if !ok {
		return nil, &meta.AnnotationError{Kind: kind, Index: -1, Err: meta.ErrAnnotationNotFound}
	}
	return a.Arguments, nil
}

// Arg returns argument i of the given kind.
func Arg(anns []meta.Annotation, kind string, i int) (meta.LiteralValue, error) {
	a, ok := find(anns, kind)
	if !ok {
		return meta.LiteralValue{}, &meta.AnnotationError{Kind: kind, Index: -1, Err: meta.ErrAnnotationNotFound}
	}
	if i >= len(a.Arguments) {
		return meta.LiteralValue{}, missing(a, i, fmt.Sprintf("expected at least %d argument(s), got %d", i+1, len(a.Arguments)))
	}
	return a.Arguments[i], nil
}

// StringArg returns argument i as a string. Numbers are accepted as their
// source text; any other literal kind is reported as missing.
func StringArg(anns []meta.Annotation, kind string, i int) (string, error) {
	v, err := Arg(anns, kind, i)
	if err != nil {
		return "", err
	}
	switch v.Kind {
	case meta.LiteralString, meta.LiteralNumber:
		return v.Text, nil
	}
	a, _ := find(anns, kind)
	return "", missing(a, i, fmt.Sprintf("expected a string, got %s", v.Kind))
}

// OptionalStringArg is StringArg for trailing arguments that may be omitted.
func OptionalStringArg(anns []meta.Annotation, kind string, i int) (string, bool, error) {
	a, ok := find(anns, kind)
	if !ok {
		return "", false, &meta.AnnotationError{Kind: kind, Index: -1, Err: meta.ErrAnnotationNotFound}
	}
	if i >= len(a.Arguments) {
		return "", false, nil
	}
	s, err := StringArg(anns, kind, i)
	if err != nil {
		return "", false, err
	}
	return s, true, nil
}

// NumberArg returns the source text of numeric argument i.
func NumberArg(anns []meta.Annotation, kind string, i int) (string, error) {
	v, err := Arg(anns, kind, i)
	if err != nil {
		return "", err
	}
	if v.Kind != meta.LiteralNumber {
		a, _ := find(anns, kind)
		return "", missing(a, i, fmt.Sprintf("expected a number, got %s", v.Kind))
	}
	return v.Text, nil
}

// ArrayArg returns the elements of array argument i.
func ArrayArg(anns []meta.Annotation, kind string, i int) ([]meta.LiteralValue, error) {
	v, err := Arg(anns, kind, i)
	if err != nil {
		return nil, err
	}
	if v.Kind != meta.LiteralArray {
		a, _ := find(anns, kind)
		return nil, missing(a, i, fmt.Sprintf("expected an array, got %s", v.Kind))
	}
	return v.Elements, nil
}

// ArgumentError reports argument i of a as missing or malformed.
func ArgumentError(a meta.Annotation, i int, msg string) error {
	return missing(a, i, msg)
}

func missing(a meta.Annotation, i int, msg string) error {
	return &meta.AnnotationError{
		Kind:    a.Kind,
		Index:   i,
		Pos:     a.Pos,
		Message: msg,
		Err:     meta.ErrAnnotationArgumentMissing,
	}
}
