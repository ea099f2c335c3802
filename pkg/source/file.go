// Package source provides access to source files and their line structure.
package source

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"
)

// ErrFileAccess is matched by every FileAccessError.
var ErrFileAccess = errors.New("source: file access failed")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// FileAccessError reports a file that is missing, unreadable or not valid UTF-8 text.
type FileAccessError struct {
	Path string
	Err  error
}

func (e *FileAccessError) Error() string {
	return fmt.Sprintf("source: cannot read %s: %v", e.Path, e.Err)
}

func (e *FileAccessError) Unwrap() error { return e.Err }

// Is reports ErrFileAccess as matching.
func (e *FileAccessError) Is(target error) bool { return target == ErrFileAccess }

// File holds the text of a source file and its lines.
// A File is immutable and safe for concurrent reads.
type File struct {
	path    string
	content []byte
	lines   []string
}

// Load reads the file at path.
func Load(path string) (*File, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, &FileAccessError{Path: path, Err: err}
	}
	return NewFile(path, content)
}

// NewFile creates a File from already read content.
// The content is copied; a leading UTF-8 byte order mark is dropped.
func NewFile(path string, content []byte) (*File, error) {
	if !utf8.Valid(content) {
		return nil, &FileAccessError{Path: path, Err: errors.New("content is not valid UTF-8")}
	}

	content = bytes.TrimPrefix(content, utf8BOM)
	owned := make([]byte, len(content))
	copy(owned, content)

	return &File{
		path:    path,
		content: owned,
		lines:   splitLines(string(owned)),
	}, nil
}

// splitLines splits text on "\n", dropping a trailing "\r" from each line.
// A final line terminator does not start a new line.
func splitLines(text string) []string {
	if text == "" {
		return []string{}
	}

	text = strings.TrimSuffix(text, "\n")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// Path returns the path the file was loaded from.
func (f *File) Path() string { return f.path }

// Content returns the raw bytes. Callers must not modify them.
func (f *File) Content() []byte { return f.content }

// Text returns the content as a string.
func (f *File) Text() string { return string(f.content) }

// Lines returns the lines of the file. Callers must not modify the slice.
func (f *File) Lines() []string { return f.lines }

// LineCount returns the number of lines.
func (f *File) LineCount() int { return len(f.lines) }

// Line returns the 1-based line n, or "" when out of range.
func (f *File) Line(n int) string {
	if n < 1 || n > len(f.lines) {
		return ""
	}
	return f.lines[n-1]
}

// Slice returns lines start..end (1-based, inclusive) joined by "\n".
// end is clamped to the last line and start to the first.
func (f *File) Slice(start, end int) string {
	if start < 1 {
		start = 1
	}
	if end > len(f.lines) {
		end = len(f.lines)
	}
	if start > end {
		return ""
	}
	return strings.Join(f.lines[start-1:end], "\n")
}

// ClampLine bounds a 1-based line number to [1, LineCount].
func (f *File) ClampLine(n int) int {
	if n > len(f.lines) {
		n = len(f.lines)
	}
	if n < 1 {
		n = 1
	}
	return n
}
