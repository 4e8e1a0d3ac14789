package meta

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the generation-time failure taxonomy.
var (
	// ErrFolderNotFound indicates the source folder does not exist.
	ErrFolderNotFound = errors.New("annogen: folder not found")
	// ErrEmptyFolder indicates the source folder holds no exported classes.
	ErrEmptyFolder = errors.New("annogen: empty folder")
	// ErrAnnotationNotFound indicates a lookup of an annotation the member does not carry.
	ErrAnnotationNotFound = errors.New("annogen: annotation not found")
	// ErrAnnotationArgumentMissing indicates an expected literal argument is absent or malformed.
	ErrAnnotationArgumentMissing = errors.New("annogen: annotation argument missing")
	// ErrUnresolvableType indicates a type that could not be projected.
	ErrUnresolvableType = errors.New("annogen: unresolvable type")
)

// LoadError is raised by the scanner before any emitter runs.
type LoadError struct {
	Path    string
	Message string
	Err     error // ErrFolderNotFound or ErrEmptyFolder
	Cause   error
}

func (e *LoadError) Error() string {
	var b strings.Builder
	b.WriteString(e.Err.Error())
	if e.Path != "" {
		b.WriteString(": ")
		b.WriteString(e.Path)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *LoadError) Unwrap() error { return e.Cause }

func (e *LoadError) Is(target error) bool { return target == e.Err }

// NewFolderNotFound creates a LoadError for a missing folder.
func NewFolderNotFound(path string, cause error) *LoadError {
	return &LoadError{Path: path, Err: ErrFolderNotFound, Cause: cause}
}

// NewEmptyFolder creates a LoadError for a folder without exported classes.
func NewEmptyFolder(path, message string) *LoadError {
	return &LoadError{Path: path, Message: message, Err: ErrEmptyFolder}
}

// AnnotationError reports a missing annotation or a missing/malformed argument.
type AnnotationError struct {
	Kind    string
	Index   int // argument index, -1 when the error is not tied to one argument
	Pos     string
	Message string
	Err     error // ErrAnnotationNotFound or ErrAnnotationArgumentMissing
}

func (e *AnnotationError) Error() string {
	var b strings.Builder
	b.WriteString(e.Err.Error())
	fmt.Fprintf(&b, " (%s", e.Kind)
	if e.Index >= 0 {
		fmt.Fprintf(&b, " argument %d", e.Index)
	}
	b.WriteString(")")
	if e.Pos != "" {
		b.WriteString(" at ")
		b.WriteString(e.Pos)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

func (e *AnnotationError) Is(target error) bool { return target == e.Err }

// TypeError reports a type that a strict emitter could not project.
type TypeError struct {
	Class   string
	Member  string
	Expr    string
	Pos     string
	Message string
}

func (e *TypeError) Error() string {
	var b strings.Builder
	b.WriteString(ErrUnresolvableType.Error())
	if e.Expr != "" {
		fmt.Fprintf(&b, " %q", e.Expr)
	}
	if e.Class != "" {
		b.WriteString(" on ")
		b.WriteString(e.Class)
		if e.Member != "" {
			b.WriteString(".")
			b.WriteString(e.Member)
		}
	}
	if e.Pos != "" {
		b.WriteString(" at ")
		b.WriteString(e.Pos)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

func (e *TypeError) Is(target error) bool { return target == ErrUnresolvableType }

// IsLoadError reports whether err is a LoadError.
func IsLoadError(err error) bool {
	var le *LoadError
	return errors.As(err, &le)
}

// IsAnnotationError reports whether err is an AnnotationError.
func IsAnnotationError(err error) bool {
	var ae *AnnotationError
	return errors.As(err, &ae)
}
