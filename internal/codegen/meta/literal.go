package meta

import (
	"strings"
)

// Annotation is an `//annogen:<kind>(args...)` directive captured verbatim
// from a doc comment. Emitters only read it.
type Annotation struct {
	Kind      string         `json:"kind"`
	Arguments []LiteralValue `json:"arguments,omitempty"`
	Pos       string         `json:"pos"`
}

// LiteralKind enumerates the literal shapes an annotation argument may take.
type LiteralKind string

const (
	LiteralString LiteralKind = "string"
	LiteralNumber LiteralKind = "number"
	LiteralBool   LiteralKind = "bool"
	LiteralNull   LiteralKind = "null"
	LiteralArray  LiteralKind = "array"
	LiteralObject LiteralKind = "object"
)

// LiteralValue is a literal annotation argument. Scalars keep their source
// text (strings unquoted); objects keep key order.
type LiteralValue struct {
	Kind     LiteralKind    `json:"kind"`
	Text     string         `json:"text,omitempty"`
	Elements []LiteralValue `json:"elements,omitempty"`
	Fields   []LiteralField `json:"fields,omitempty"`
}

// LiteralField is one key of an object literal.
type LiteralField struct {
	Key   string       `json:"key"`
	Value LiteralValue `json:"value"`
}

func StringLiteral(s string) LiteralValue { return LiteralValue{Kind: LiteralString, Text: s} }

func NumberLiteral(s string) LiteralValue { return LiteralValue{Kind: LiteralNumber, Text: s} }

// Get returns the value stored under key in an object literal.
func (v LiteralValue) Get(key string) (LiteralValue, bool) {
	for _, f := range v.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return LiteralValue{}, false
}

// Keys returns the keys of an object literal in source order.
func (v LiteralValue) Keys() []string {
	keys := make([]string, 0, len(v.Fields))
	for _, f := range v.Fields {
		keys = append(keys, f.Key)
	}
	return keys
}

func (v LiteralValue) String() string {
	switch v.Kind {
	case LiteralString:
		return `"` + v.Text + `"`
	case LiteralArray:
		parts := make([]string, 0, len(v.Elements))
		for _, e := range v.Elements {
			parts = append(parts, e.String())
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case LiteralObject:
		parts := make([]string, 0, len(v.Fields))
		for _, f := range v.Fields {
			parts = append(parts, f.Key+": "+f.Value.String())
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return v.Text
	}
}
