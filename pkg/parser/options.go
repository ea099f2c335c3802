package parser

import (
	"io"
	"log/slog"
	"time"

	"github.com/specvital/codelens/pkg/parser/strategies"
)

// ScanOptions controls discovery and extraction during a scan.
type ScanOptions struct {
	// ExcludePatterns names directories pruned from the walk, in addition to
	// DefaultSkipPatterns.
	ExcludePatterns []string

	// Logger receives per-file failures and the scan summary.
	// If nil, nothing is logged.
	Logger *slog.Logger

	// MaxFileSize is the size in bytes above which a file is skipped, not extracted.
	MaxFileSize int64

	// Patterns specifies doublestar glob patterns, relative to the source root,
	// that discovered files must match. Empty means every supported file is extracted.
	Patterns []string

	// Registry is the extractor registry used for dispatch.
	// If nil, uses strategies.DefaultRegistry().
	Registry *strategies.Registry

	// Timeout bounds the whole scan. Zero or negative values use DefaultTimeout.
	Timeout time.Duration

	// Workers specifies the number of concurrent extractions.
	// Zero or negative values use runtime.GOMAXPROCS(0).
	Workers int
}

// ScanOption mutates ScanOptions.
type ScanOption func(*ScanOptions)

// WithWorkers sets the number of concurrent extractions.
// Negative values are ignored.
func WithWorkers(n int) ScanOption {
	return func(o *ScanOptions) {
		if n >= 0 {
			o.Workers = n
		}
	}
}

// WithTimeout bounds the duration of a scan. Negative values are ignored.
func WithTimeout(d time.Duration) ScanOption {
	return func(o *ScanOptions) {
		if d >= 0 {
			o.Timeout = d
		}
	}
}

// WithExcludePatterns adds directory names to skip during file discovery.
func WithExcludePatterns(patterns []string) ScanOption {
	return func(o *ScanOptions) {
		o.ExcludePatterns = patterns
	}
}

// WithMaxFileSize sets the size limit in bytes. Negative values are ignored.
func WithMaxFileSize(size int64) ScanOption {
	return func(o *ScanOptions) {
		if size >= 0 {
			o.MaxFileSize = size
		}
	}
}

// WithPatterns sets glob patterns to filter discovered files.
func WithPatterns(patterns []string) ScanOption {
	return func(o *ScanOptions) {
		o.Patterns = patterns
	}
}

// WithRegistry sets the extractor registry to use.
func WithRegistry(registry *strategies.Registry) ScanOption {
	return func(o *ScanOptions) {
		o.Registry = registry
	}
}

// WithLogger sets the logger used for scan diagnostics.
func WithLogger(logger *slog.Logger) ScanOption {
	return func(o *ScanOptions) {
		o.Logger = logger
	}
}

func applyDefaults(opts *ScanOptions) {
	if opts.MaxFileSize <= 0 {
		opts.MaxFileSize = DefaultMaxFileSize
	}
	if opts.Registry == nil {
		opts.Registry = strategies.DefaultRegistry()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
}
