package source_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specvital/codelens/pkg/source"
)

func TestNewFile_Lines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{"empty", "", []string{}},
		{"single line without newline", "x = 1", []string{"x = 1"}},
		{"trailing newline", "def f():\n    pass\n", []string{"def f():", "    pass"}},
		{"blank last line kept", "a\n\n", []string{"a", ""}},
		{"crlf", "a\r\nb\r\n", []string{"a", "b"}},
		{"bom", "\ufeffa\nb", []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := source.NewFile("x.py", []byte(tt.content))
			require.NoError(t, err)
			assert.Equal(t, tt.want, f.Lines())
			assert.Equal(t, len(tt.want), f.LineCount())
		})
	}
}

func TestNewFile_InvalidUTF8(t *testing.T) {
	t.Parallel()

	_, err := source.NewFile("bad.py", []byte{0xff, 0xfe, 0x00})
	require.Error(t, err)
	assert.True(t, errors.Is(err, source.ErrFileAccess))

	var accessErr *source.FileAccessError
	require.ErrorAs(t, err, &accessErr)
	assert.Equal(t, "bad.py", accessErr.Path)
}

func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("should read file from disk", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "a.py")
		require.NoError(t, os.WriteFile(path, []byte("def f():\n    pass\n"), 0644))

		f, err := source.Load(path)
		require.NoError(t, err)
		assert.Equal(t, path, f.Path())
		assert.Equal(t, 2, f.LineCount())
		assert.Equal(t, "def f():\n    pass\n", f.Text())
	})

	t.Run("should fail with FileAccessError for missing file", func(t *testing.T) {
		_, err := source.Load(filepath.Join(t.TempDir(), "missing.py"))
		require.Error(t, err)
		assert.ErrorIs(t, err, source.ErrFileAccess)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestFile_Slice(t *testing.T) {
	t.Parallel()

	lines := []string{"one", "two", "three", "four", "five"}
	f, err := source.NewFile("x.txt", []byte(strings.Join(lines, "\n")+"\n"))
	require.NoError(t, err)

	t.Run("should return exact lines for every valid range", func(t *testing.T) {
		n := f.LineCount()
		for s := 1; s <= n; s++ {
			for e := s; e <= n; e++ {
				assert.Equal(t, strings.Join(lines[s-1:e], "\n"), f.Slice(s, e), "range %d-%d", s, e)
			}
		}
	})

	tests := []struct {
		name       string
		start, end int
		want       string
	}{
		{"end past last line is clamped", 4, 99, "four\nfive"},
		{"start below one is clamped", 0, 2, "one\ntwo"},
		{"negative start is clamped", -5, 1, "one"},
		{"inverted range is empty", 3, 2, ""},
		{"start past last line is empty", 7, 9, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.Slice(tt.start, tt.end))
		})
	}
}

func TestFile_LineAndClamp(t *testing.T) {
	t.Parallel()

	f, err := source.NewFile("x.txt", []byte("a\nb\nc"))
	require.NoError(t, err)

	assert.Equal(t, "b", f.Line(2))
	assert.Equal(t, "", f.Line(0))
	assert.Equal(t, "", f.Line(4))
	assert.Equal(t, 3, f.ClampLine(10))
	assert.Equal(t, 1, f.ClampLine(-1))
	assert.Equal(t, 2, f.ClampLine(2))
}

func TestLocalSource(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.js"), []byte("function a() {}\n"), 0644))

	src, err := source.NewLocalSource(dir)
	require.NoError(t, err)
	defer src.Close()

	rc, err := src.Open(context.Background(), "a.js")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, "function a() {}\n", string(data))

	_, err = src.Open(context.Background(), "missing.js")
	assert.ErrorIs(t, err, source.ErrFileAccess)

	_, err = source.NewLocalSource(filepath.Join(dir, "a.js"))
	assert.ErrorIs(t, err, source.ErrFileAccess)
}
