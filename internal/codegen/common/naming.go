package common

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// ToPascalCase joins the words of s with their first letter upper-cased.
// Any rune that is not a letter or digit separates words, so "app.users"
// becomes "AppUsers"; inner casing is kept.
func ToPascalCase(s string) string {
	if s == "" {
		return ""
	}

	words := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	var result strings.Builder
	for _, word := range words {
		r, size := utf8.DecodeRuneInString(word)
		result.WriteRune(unicode.ToUpper(r))
		result.WriteString(word[size:])
	}

	return result.String()
}

// ExportedIdent turns a table or schema name into an exported Go
// identifier. A leading digit gets a "T" prefix.
func ExportedIdent(s string) string {
	id := ToPascalCase(s)
	if id == "" {
		return "T"
	}
	if r, _ := utf8.DecodeRuneInString(id); unicode.IsDigit(r) {
		return "T" + id
	}
	return id
}

// LowerCamel lower-cases the leading capital run of a Go identifier:
// "GetExamples" -> "getExamples", "HTTPServer" -> "httpServer", "ID" -> "id".
func LowerCamel(s string) string {
	runes := []rune(s)
	run := 0
	for run < len(runes) && unicode.IsUpper(runes[run]) {
		run++
	}
	switch {
	case run == 0:
		return s
	case run == len(runes) || run == 1:
	case unicode.IsLower(runes[run]):
		run--
	}
	for i := 0; i < run; i++ {
		runes[i] = unicode.ToLower(runes[i])
	}
	return string(runes)
}

// ProxyName derives a client stub name from a server class name by
// replacing a trailing "Api"/"API" with "Proxy".
func ProxyName(class string) string {
	for _, suffix := range []string{"Api", "API"} {
		if strings.HasSuffix(class, suffix) {
			return strings.TrimSuffix(class, suffix) + "Proxy"
		}
	}
	return class + "Proxy"
}
