package parser

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedFileType is matched by every UnsupportedFileTypeError.
	ErrUnsupportedFileType = errors.New("parser: unsupported file type")
	// ErrParse is matched by every ParseError.
	ErrParse = errors.New("parser: parse failed")
)

// UnsupportedFileTypeError is returned when no extractor is registered for an extension.
type UnsupportedFileTypeError struct {
	Path string
	Ext  string
}

func (e *UnsupportedFileTypeError) Error() string {
	ext := e.Ext
	if ext == "" {
		ext = "(none)"
	}
	return fmt.Sprintf("parser: unsupported file type %s: %s", ext, e.Path)
}

// Is reports ErrUnsupportedFileType as matching.
func (e *UnsupportedFileTypeError) Is(target error) bool { return target == ErrUnsupportedFileType }

// ParseError is returned when a grammar rejects its input.
// Line and Column are 1-based and locate the first rejected node.
type ParseError struct {
	Path   string
	Line   int
	Column int
	// Snippet is the rejected source text, truncated.
	Snippet string
	// Err is set when the parser itself failed rather than rejecting the input.
	Err error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parser: failed to parse %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("parser: syntax error in %s at line %d, column %d near %q", e.Path, e.Line, e.Column, e.Snippet)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Is reports ErrParse as matching.
func (e *ParseError) Is(target error) bool { return target == ErrParse }
