package parser

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/specvital/codelens/pkg/domain"
	"github.com/specvital/codelens/pkg/parser/strategies"
	"github.com/specvital/codelens/pkg/source"
)

// ExtractOptions configures single-file extraction.
type ExtractOptions struct {
	// Registry is the extractor registry used for dispatch.
	// If nil, uses strategies.DefaultRegistry().
	Registry *strategies.Registry
}

// ExtractOption is a functional option for Extract and ExtractFile.
type ExtractOption func(*ExtractOptions)

// WithExtractorRegistry sets the registry used to select an extractor.
func WithExtractorRegistry(registry *strategies.Registry) ExtractOption {
	return func(o *ExtractOptions) {
		o.Registry = registry
	}
}

// Select returns the extractor registered in the default registry for the
// extension of path.
func Select(path string) (strategies.Extractor, error) {
	return SelectFrom(strategies.DefaultRegistry(), path)
}

// SelectFrom returns the extractor registered in registry for the extension of path.
// The extension is compared case-insensitively.
func SelectFrom(registry *strategies.Registry, path string) (strategies.Extractor, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != "" {
		if e := registry.Find(ext); e != nil {
			return e, nil
		}
	}
	return nil, &UnsupportedFileTypeError{Path: path, Ext: ext}
}

// Extract selects an extractor by the path of file and runs it.
func Extract(ctx context.Context, file *source.File, opts ...ExtractOption) (*domain.Result, error) {
	options := newExtractOptions(opts)

	extractor, err := SelectFrom(options.Registry, file.Path())
	if err != nil {
		return nil, err
	}
	return extractor.Extract(ctx, file)
}

// ExtractFile loads the file at path, selects an extractor by its extension and runs it.
// The extension is checked before the file is read.
func ExtractFile(ctx context.Context, path string, opts ...ExtractOption) (*domain.Result, error) {
	options := newExtractOptions(opts)

	extractor, err := SelectFrom(options.Registry, path)
	if err != nil {
		return nil, err
	}

	file, err := source.Load(path)
	if err != nil {
		return nil, err
	}
	return extractor.Extract(ctx, file)
}

func newExtractOptions(opts []ExtractOption) ExtractOptions {
	options := ExtractOptions{}
	for _, opt := range opts {
		opt(&options)
	}
	if options.Registry == nil {
		options.Registry = strategies.DefaultRegistry()
	}
	return options
}
