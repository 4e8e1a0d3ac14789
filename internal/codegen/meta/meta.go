package meta

import "strings"

// ClassMetadata describes an exported struct type discovered by the scanner.
// It is built once per run and never mutated after the scanner returns it.
type ClassMetadata struct {
	Name        string           `json:"name"`
	Pos         string           `json:"pos"`
	Annotations []Annotation     `json:"annotations,omitempty"`
	Members     []MemberMetadata `json:"members,omitempty"`
}

// MemberKind tells struct fields and methods apart.
type MemberKind string

const (
	MemberField  MemberKind = "field"
	MemberMethod MemberKind = "method"
)

// MemberMetadata describes a struct field or a method bound to a class.
type MemberMetadata struct {
	Name        string              `json:"name"`     // Go identifier (e.g., "ExampleID", "GetExamples")
	JSONName    string              `json:"jsonName"` // json tag name, falls back to Name
	Column      string              `json:"column"`   // db tag name, falls back to JSONName
	Kind        MemberKind          `json:"kind"`
	Pos         string              `json:"pos"`
	Annotations []Annotation        `json:"annotations,omitempty"`
	Parameters  []ParameterMetadata `json:"parameters,omitempty"`
	ReturnType  TypeRef             `json:"returnType"` // field type, or the payload result of a method
	IsOptional  bool                `json:"isOptional"`
	JSONOmitted bool                `json:"jsonOmitted,omitempty"` // json:"-", never on the wire
}

// IsField reports whether the member is a struct field.
func (m MemberMetadata) IsField() bool { return m.Kind == MemberField }

// IsMethod reports whether the member is a method.
func (m MemberMetadata) IsMethod() bool { return m.Kind == MemberMethod }

// ParameterMetadata describes one method parameter.
type ParameterMetadata struct {
	Name string  `json:"name"`
	Type TypeRef `json:"type"`
}

// Fields returns the field members in declaration order.
func (c *ClassMetadata) Fields() []MemberMetadata {
	var out []MemberMetadata
	for _, m := range c.Members {
		if m.IsField() {
			out = append(out, m)
		}
	}
	return out
}

// Methods returns the method members in declaration order.
func (c *ClassMetadata) Methods() []MemberMetadata {
	var out []MemberMetadata
	for _, m := range c.Members {
		if m.IsMethod() {
			out = append(out, m)
		}
	}
	return out
}

// TypeKind is the tag of a TypeRef.
type TypeKind string

const (
	TypeInvalid   TypeKind = "invalid"
	TypePrimitive TypeKind = "primitive"
	TypeNamed     TypeKind = "named"
	TypeArray     TypeKind = "array"
)

// TypeRef is a resolved reference to a Go type.
//
// Primitive refs carry the Go predeclared keyword (or "any"/"void") in Name.
// Named refs carry the identifier and, for imported types, the package
// qualifier. Array refs carry the element type. Invalid refs keep the source
// expression so emitters can report it.
type TypeRef struct {
	Kind    TypeKind `json:"kind"`
	Name    string   `json:"name,omitempty"`
	Package string   `json:"package,omitempty"`
	Elem    *TypeRef `json:"elem,omitempty"`
	Expr    string   `json:"expr,omitempty"`
}

func Primitive(name string) TypeRef {
	return TypeRef{Kind: TypePrimitive, Name: name, Expr: name}
}

func Named(pkg, name string) TypeRef {
	expr := name
	if pkg != "" {
		expr = pkg + "." + name
	}
	return TypeRef{Kind: TypeNamed, Name: name, Package: pkg, Expr: expr}
}

func ArrayOf(elem TypeRef) TypeRef {
	return TypeRef{Kind: TypeArray, Elem: &elem, Expr: "[]" + elem.Expr}
}

func Invalid(expr string) TypeRef {
	return TypeRef{Kind: TypeInvalid, Expr: expr}
}

// Resolved reports whether the type and all of its element types resolved.
func (t TypeRef) Resolved() bool {
	switch t.Kind {
	case TypePrimitive, TypeNamed:
		return true
	case TypeArray:
		return t.Elem != nil && t.Elem.Resolved()
	default:
		return false
	}
}

// IsNamed reports whether t is the named type pkg.name.
func (t TypeRef) IsNamed(pkg, name string) bool {
	return t.Kind == TypeNamed && t.Package == pkg && t.Name == name
}

func (t TypeRef) String() string {
	if t.Expr != "" {
		return t.Expr
	}
	switch t.Kind {
	case TypeArray:
		if t.Elem != nil {
			return "[]" + t.Elem.String()
		}
	case TypeNamed:
		if t.Package != "" {
			return t.Package + "." + t.Name
		}
	}
	if t.Name != "" {
		return t.Name
	}
	return "<" + string(t.Kind) + ">"
}

// Artifact is one generated file staged in memory until the writer flushes it.
type Artifact struct {
	Path    string
	Content []byte
}

// Metadata holds the scanned source model shared by every emitter.
type Metadata struct {
	Folder  string           `json:"folder"`
	Classes []*ClassMetadata `json:"classes"`
}

// Names lists the class names in declaration order.
func (md *Metadata) Names() string {
	names := make([]string, 0, len(md.Classes))
	for _, c := range md.Classes {
		names = append(names, c.Name)
	}
	return strings.Join(names, ", ")
}
