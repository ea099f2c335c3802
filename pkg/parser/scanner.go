package parser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/specvital/codelens/pkg/domain"
	"github.com/specvital/codelens/pkg/source"
)

const (
	// DefaultWorkers selects runtime.GOMAXPROCS(0) workers.
	DefaultWorkers = 0
	// DefaultTimeout bounds a scan when no timeout is configured.
	DefaultTimeout = 5 * time.Minute
	// MaxWorkers caps the configured worker count.
	MaxWorkers = 1024
	// DefaultMaxFileSize is the default per-file size limit (10MB).
	DefaultMaxFileSize = 10 * 1024 * 1024
)

// Scan error phases.
const (
	PhaseDiscovery  = "discovery"
	PhaseRead       = "read"
	PhaseSelection  = "selection"
	PhaseExtraction = "extraction"
)

// DefaultSkipPatterns lists directory names never descended into.
var DefaultSkipPatterns = []string{
	"node_modules",
	".git",
	"vendor",
	"dist",
	".next",
	"__pycache__",
	".venv",
	"venv",
	".tox",
	"coverage",
	".cache",
}

var (
	// ErrScanCancelled is returned when the caller's context is cancelled mid-scan.
	ErrScanCancelled = errors.New("scanner: scan cancelled")
	// ErrScanTimeout is returned when a scan outlives ScanOptions.Timeout.
	ErrScanTimeout = errors.New("scanner: scan timeout")
)

// Scanner extracts code elements from every supported file of a source tree.
type Scanner struct {
	options *ScanOptions
}

// ScanResult is everything a scan produced, including partial output on timeout.
type ScanResult struct {
	// Inventory contains the results of all extracted files, sorted by path.
	Inventory *domain.Inventory

	// Errors holds per-file failures; they never abort the scan.
	Errors []ScanError

	// Stats provides scan statistics.
	Stats ScanStats
}

// ScanError is a failure tied to one file (or to discovery) and the phase it hit.
type ScanError struct {
	// Err is the underlying error.
	Err error

	// Path is relative to the source root; empty for discovery errors.
	Path string

	// Phase indicates which phase the error occurred in.
	// Values: "discovery", "read", "selection", "extraction"
	Phase string
}

// Error implements the error interface.
func (e ScanError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("[%s] %v", e.Phase, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %v", e.Phase, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e ScanError) Unwrap() error { return e.Err }

// ScanStats counts what a scan did.
type ScanStats struct {
	// FilesScanned is the total number of supported files discovered.
	FilesScanned int

	// FilesExtracted is the number of files that were successfully extracted.
	FilesExtracted int

	// FilesFailed is the number of files that could not be read or extracted.
	FilesFailed int

	// FilesSkipped is the number of files skipped for size or cancellation.
	FilesSkipped int

	// ElementsFound is the number of functions, classes, methods and interfaces extracted.
	ElementsFound int

	// Duration is the wall time of the scan.
	Duration time.Duration
}

// NewScanner returns a Scanner configured by opts.
func NewScanner(opts ...ScanOption) *Scanner {
	options := &ScanOptions{}
	for _, opt := range opts {
		opt(options)
	}
	applyDefaults(options)

	return &Scanner{options: options}
}

// Scan discovers every file under src whose extension has a registered extractor
// and extracts them in parallel. Per-file failures are collected in
// ScanResult.Errors; the returned error is only set on timeout or cancellation,
// in which case the partial result is still returned.
//
// The caller is responsible for calling src.Close() when done.
func (s *Scanner) Scan(ctx context.Context, src source.Source) (*ScanResult, error) {
	startTime := time.Now()

	ctx, cancel := context.WithTimeout(ctx, s.options.Timeout)
	defer cancel()

	result := newScanResult(src.Root())

	files, errs := s.discoverFiles(ctx, src)
	for _, err := range errs {
		result.Errors = append(result.Errors, ScanError{
			Err:   err,
			Phase: PhaseDiscovery,
		})
	}
	result.Stats.FilesScanned = len(files)

	return s.finish(ctx, src, files, result, startTime)
}

// ScanFiles extracts specific files, bypassing discovery.
// Paths are relative to src.Root(); files without a registered extractor are
// reported as selection errors.
//
// The caller is responsible for calling src.Close() when done.
func (s *Scanner) ScanFiles(ctx context.Context, src source.Source, files []string) (*ScanResult, error) {
	startTime := time.Now()

	ctx, cancel := context.WithTimeout(ctx, s.options.Timeout)
	defer cancel()

	result := newScanResult(src.Root())
	result.Stats.FilesScanned = len(files)

	return s.finish(ctx, src, files, result, startTime)
}

func newScanResult(root string) *ScanResult {
	return &ScanResult{
		Inventory: &domain.Inventory{
			RootPath: root,
			Files:    []*domain.Result{},
		},
		Errors: []ScanError{},
	}
}

func (s *Scanner) finish(ctx context.Context, src source.Source, files []string, result *ScanResult, startTime time.Time) (*ScanResult, error) {
	if len(files) > 0 {
		extracted, scanErrors := s.extractFilesParallel(ctx, src, files)
		result.Inventory.Files = extracted
		result.Errors = append(result.Errors, scanErrors...)

		result.Stats.FilesExtracted = len(extracted)
		result.Stats.FilesFailed = len(scanErrors)
		result.Stats.FilesSkipped = result.Stats.FilesScanned - result.Stats.FilesExtracted - result.Stats.FilesFailed
		result.Stats.ElementsFound = result.Inventory.CountElements()
	}
	result.Stats.Duration = time.Since(startTime)

	s.options.Logger.Debug("scan finished",
		slog.String("root", src.Root()),
		slog.Int("scanned", result.Stats.FilesScanned),
		slog.Int("extracted", result.Stats.FilesExtracted),
		slog.Int("failed", result.Stats.FilesFailed),
		slog.Int("skipped", result.Stats.FilesSkipped),
		slog.Duration("duration", result.Stats.Duration),
	)

	if err := ctx.Err(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return result, ErrScanTimeout
		}
		if errors.Is(err, context.Canceled) {
			return result, ErrScanCancelled
		}
	}

	return result, nil
}

// discoverFiles walks the source root to find files with a registered extension.
// Returns relative paths from the source root for consistent Source.Open() usage.
func (s *Scanner) discoverFiles(ctx context.Context, src source.Source) ([]string, []error) {
	rootPath := src.Root()
	skipSet := buildSkipSet(append(append([]string{}, DefaultSkipPatterns...), s.options.ExcludePatterns...))

	var (
		files []string
		errs  []error
	)

	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, walkErr error) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if walkErr != nil {
			errs = append(errs, fmt.Errorf("access error at %s: %w", path, walkErr))
			return nil
		}

		if d.IsDir() {
			if shouldSkipDir(path, rootPath, skipSet) {
				return filepath.SkipDir
			}
			return nil
		}

		if s.options.Registry.FindForPath(path) == nil {
			return nil
		}

		relPath, err := filepath.Rel(rootPath, path)
		if err != nil {
			errs = append(errs, fmt.Errorf("compute relative path for %s: %w", path, err))
			return nil
		}

		if len(s.options.Patterns) > 0 && !matchesAnyPattern(relPath, s.options.Patterns) {
			return nil
		}

		files = append(files, relPath)
		return nil
	})

	if err != nil {
		if !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
			errs = append(errs, err)
		}
	}

	return files, errs
}

func (s *Scanner) extractFilesParallel(ctx context.Context, src source.Source, files []string) ([]*domain.Result, []ScanError) {
	workers := s.options.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > MaxWorkers {
		workers = MaxWorkers
	}

	sem := semaphore.NewWeighted(int64(workers))
	g, gCtx := errgroup.WithContext(ctx)

	var (
		mu         sync.Mutex
		results    = make([]*domain.Result, 0, len(files))
		scanErrors = make([]ScanError, 0)
	)

	for _, file := range files {
		file := file
		g.Go(func() error {
			if err := sem.Acquire(gCtx, 1); err != nil {
				return nil
			}
			defer sem.Release(1)

			result, scanErr := s.extractFile(gCtx, src, file)

			mu.Lock()
			defer mu.Unlock()

			if scanErr != nil {
				s.options.Logger.Warn("extraction failed",
					slog.String("path", scanErr.Path),
					slog.String("phase", scanErr.Phase),
					slog.Any("error", scanErr.Err),
				)
				scanErrors = append(scanErrors, *scanErr)
				return nil
			}

			if result != nil {
				results = append(results, result)
			}

			return nil
		})
	}

	_ = g.Wait()

	// Goroutines complete in arbitrary order.
	sort.Slice(results, func(i, j int) bool {
		return results[i].Path < results[j].Path
	})
	sort.SliceStable(scanErrors, func(i, j int) bool {
		return scanErrors[i].Path < scanErrors[j].Path
	})

	return results, scanErrors
}

// extractFile returns (nil, nil) for files skipped because of their size.
func (s *Scanner) extractFile(ctx context.Context, src source.Source, path string) (*domain.Result, *ScanError) {
	extractor, err := SelectFrom(s.options.Registry, path)
	if err != nil {
		return nil, &ScanError{Err: err, Path: path, Phase: PhaseSelection}
	}

	content, err := readFileFromSource(ctx, src, path, s.options.MaxFileSize)
	if err != nil {
		if errors.Is(err, errFileTooLarge) {
			s.options.Logger.Debug("skipping large file", slog.String("path", path))
			return nil, nil
		}
		return nil, &ScanError{Err: err, Path: path, Phase: PhaseRead}
	}

	file, err := source.NewFile(path, content)
	if err != nil {
		return nil, &ScanError{Err: err, Path: path, Phase: PhaseRead}
	}

	result, err := extractor.Extract(ctx, file)
	if err != nil {
		return nil, &ScanError{Err: err, Path: path, Phase: PhaseExtraction}
	}

	return result, nil
}

var errFileTooLarge = errors.New("scanner: file exceeds size limit")

// readFileFromSource reads relPath (relative to src.Root()) up to maxSize bytes.
// Larger files yield errFileTooLarge.
func readFileFromSource(ctx context.Context, src source.Source, relPath string, maxSize int64) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reader, err := src.Open(ctx, relPath)
	if err != nil {
		return nil, err
	}
	defer func() { _ = reader.Close() }()

	content, err := io.ReadAll(io.LimitReader(reader, maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", relPath, err)
	}
	if int64(len(content)) > maxSize {
		return nil, errFileTooLarge
	}

	return content, nil
}

func buildSkipSet(patterns []string) map[string]bool {
	skipSet := make(map[string]bool, len(patterns))
	for _, p := range patterns {
		skipSet[p] = true
	}
	return skipSet
}

func shouldSkipDir(path, rootPath string, skipSet map[string]bool) bool {
	if path == rootPath {
		return false
	}

	base := filepath.Base(path)
	return skipSet[base]
}

func matchesAnyPattern(relPath string, patterns []string) bool {
	relPath = filepath.ToSlash(relPath)

	for _, pattern := range patterns {
		matched, err := doublestar.Match(pattern, relPath)
		if err != nil {
			continue
		}
		if matched {
			return true
		}
	}
	return false
}

// Scan is a convenience wrapper around NewScanner(opts...).Scan.
func Scan(ctx context.Context, src source.Source, opts ...ScanOption) (*ScanResult, error) {
	scanner := NewScanner(opts...)
	return scanner.Scan(ctx, src)
}
