package scanner

import (
	"fmt"
	"go/ast"
	"go/token"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Alia5/annogen/internal/codegen/annotation"
	"github.com/Alia5/annogen/internal/codegen/meta"
)

// directivePrefix marks an annotation comment: //annogen:<kind>(<args>)
const directivePrefix = "annogen:"

type commentLine struct {
	text string
	pos  token.Pos
}

// commentLines strips comment markers from every line of the given groups.
// Block comments contribute one entry per source line.
func commentLines(groups ...*ast.CommentGroup) []commentLine {
	var lines []commentLine
	for _, cg := range groups {
		if cg == nil {
			continue
		}
		for _, c := range cg.List {
			text := c.Text
			if strings.HasPrefix(text, "//") {
				lines = append(lines, commentLine{text: text[2:], pos: c.Slash})
				continue
			}
			text = strings.TrimSuffix(strings.TrimPrefix(text, "/*"), "*/")
			for _, l := range strings.Split(text, "\n") {
				l = strings.TrimSpace(l)
				l = strings.TrimPrefix(l, "*")
				lines = append(lines, commentLine{text: l, pos: c.Slash})
			}
		}
	}
	return lines
}

// directives extracts the annotations carried by the comment groups, in
// source order. Directive syntax errors are fatal.
func (s *Scanner) directives(fset *token.FileSet, groups ...*ast.CommentGroup) ([]meta.Annotation, error) {
	lines := commentLines(groups...)
	var anns []meta.Annotation

	for i := 0; i < len(lines); i++ {
		text := strings.TrimSpace(lines[i].text)
		if !strings.HasPrefix(text, directivePrefix) {
			continue
		}
		pos := position(fset, lines[i].pos)
		rest := text[len(directivePrefix):]

		kind := leadingIdent(rest)
		if kind == "" {
			return nil, malformed("", pos, "missing annotation kind")
		}
		rest = strings.TrimSpace(rest[len(kind):])

		ann := meta.Annotation{Kind: kind, Pos: pos}
		switch {
		case rest == "":
		case strings.HasPrefix(rest, "("):
			buf := rest
			end := closingParen(buf)
			for end < 0 {
				if i+1 >= len(lines) {
					return nil, malformed(kind, pos, "unterminated argument list")
				}
				i++
				buf += "\n " + strings.TrimSpace(lines[i].text)
				end = closingParen(buf)
			}
			if trailing := strings.TrimSpace(buf[end+1:]); trailing != "" {
				return nil, malformed(kind, pos, fmt.Sprintf("unexpected %q after argument list", trailing))
			}
			args, err := parseArguments(buf[1:end])
			if err != nil {
				return nil, malformed(kind, pos, err.Error())
			}
			ann.Arguments = args
		default:
			return nil, malformed(kind, pos, fmt.Sprintf("unexpected %q after annotation kind", rest))
		}

		if !annotation.IsKnown(kind) {
			if want, ok := annotation.Suggest(kind); ok {
				s.logger.Warn("Unknown annotation kind", "kind", kind, "did_you_mean", want, "pos", pos)
			} else {
				s.logger.Debug("Unknown annotation kind", "kind", kind, "pos", pos)
			}
		}
		anns = append(anns, ann)
	}
	return anns, nil
}

func malformed(kind, pos, msg string) error {
	return &meta.AnnotationError{
		Kind:    kind,
		Index:   -1,
		Pos:     pos,
		Message: msg,
		Err:     meta.ErrAnnotationArgumentMissing,
	}
}

func leadingIdent(s string) string {
	for i, r := range s {
		if r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || i > 0 && r >= '0' && r <= '9' {
			continue
		}
		return s[:i]
	}
	return s
}

// closingParen returns the index of the parenthesis closing the one at s[0],
// or -1 when s ends first. Quoted YAML scalars are skipped; a quote only opens
// a scalar where a flow token may start, so O'Brien stays a plain scalar.
func closingParen(s string) int {
	depth := 0
	var quote byte
	var prev byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			switch {
			case quote == '"' && c == '\\':
				i++
			case c == quote:
				if quote == '\'' && i+1 < len(s) && s[i+1] == '\'' {
					i++
					continue
				}
				quote = 0
				prev = c
			}
			continue
		}
		switch c {
		case '"', '\'':
			if prev == 0 || strings.IndexByte("([{,:", prev) >= 0 {
				quote = c
				continue
			}
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
		if c != ' ' && c != '\t' && c != '\n' {
			prev = c
		}
	}
	return -1
}

// parseArguments reads the comma-separated literal list as a YAML flow
// sequence. Nothing is evaluated.
func parseArguments(inner string) ([]meta.LiteralValue, error) {
	if strings.TrimSpace(inner) == "" {
		return nil, nil
	}
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte("["+inner+"\n ]"), &doc); err != nil {
		return nil, fmt.Errorf("parse arguments: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) != 1 || doc.Content[0].Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("parse arguments: expected a literal list")
	}
	seq := doc.Content[0]
	args := make([]meta.LiteralValue, 0, len(seq.Content))
	for _, n := range seq.Content {
		v, err := literal(n)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	return args, nil
}

func literal(n *yaml.Node) (meta.LiteralValue, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		switch n.ShortTag() {
		case "!!int", "!!float":
			return meta.NumberLiteral(n.Value), nil
		case "!!bool":
			return meta.LiteralValue{Kind: meta.LiteralBool, Text: strings.ToLower(n.Value)}, nil
		case "!!null":
			return meta.LiteralValue{Kind: meta.LiteralNull, Text: "null"}, nil
		default:
			return meta.StringLiteral(n.Value), nil
		}
	case yaml.SequenceNode:
		v := meta.LiteralValue{Kind: meta.LiteralArray, Elements: []meta.LiteralValue{}}
		for _, c := range n.Content {
			e, err := literal(c)
			if err != nil {
				return meta.LiteralValue{}, err
			}
			v.Elements = append(v.Elements, e)
		}
		return v, nil
	case yaml.MappingNode:
		v := meta.LiteralValue{Kind: meta.LiteralObject, Fields: []meta.LiteralField{}}
		seen := make(map[string]bool, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k := n.Content[i]
			if k.Kind != yaml.ScalarNode {
				return meta.LiteralValue{}, fmt.Errorf("line %d: object keys must be scalars", k.Line)
			}
			if seen[k.Value] {
				return meta.LiteralValue{}, fmt.Errorf("line %d: duplicate key %q", k.Line, k.Value)
			}
			seen[k.Value] = true
			val, err := literal(n.Content[i+1])
			if err != nil {
				return meta.LiteralValue{}, err
			}
			v.Fields = append(v.Fields, meta.LiteralField{Key: k.Value, Value: val})
		}
		return v, nil
	case yaml.AliasNode:
		return meta.LiteralValue{}, fmt.Errorf("line %d: aliases are not supported", n.Line)
	default:
		return meta.LiteralValue{}, fmt.Errorf("line %d: unsupported literal", n.Line)
	}
}
