// Package strategies provides the extractor registry.
// Each language (Python, JavaScript, TypeScript) has its own extractor that registers
// the file extensions it handles.
package strategies

import (
	"context"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/specvital/codelens/pkg/domain"
	"github.com/specvital/codelens/pkg/source"
)

var defaultRegistry = NewRegistry()

// Extractor defines the interface for language-specific element extractors.
type Extractor interface {
	// Name returns the extractor identifier (e.g., "python").
	Name() string
	// Language returns the language this extractor produces results for.
	Language() domain.Language
	// Extensions returns the file extensions handled, including the leading dot.
	Extensions() []string
	// Extract extracts code elements from file.
	Extract(ctx context.Context, file *source.File) (*domain.Result, error)
}

// Registry maps file extensions to extractors.
// It is read-mostly: populate it at start-up, then share it freely.
type Registry struct {
	mu         sync.RWMutex
	extractors []Extractor
	byExt      map[string]Extractor
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{byExt: make(map[string]Extractor)}
}

// DefaultRegistry returns the global default registry.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// Register adds an extractor to the default registry.
func Register(e Extractor) {
	defaultRegistry.Register(e)
}

// Register adds an extractor. Extensions already registered are taken over by e.
func (r *Registry) Register(e Extractor) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, existing := range r.extractors {
		if existing.Name() == e.Name() {
			for ext, owner := range r.byExt {
				if owner == existing {
					delete(r.byExt, ext)
				}
			}
			r.extractors = append(r.extractors[:i], r.extractors[i+1:]...)
			break
		}
	}
	r.extractors = append(r.extractors, e)

	for _, ext := range e.Extensions() {
		r.byExt[NormalizeExt(ext)] = e
	}
}

// Find returns the extractor registered for ext, or nil.
func (r *Registry) Find(ext string) Extractor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byExt[NormalizeExt(ext)]
}

// FindForPath returns the extractor registered for the extension of path, or nil.
func (r *Registry) FindForPath(path string) Extractor {
	return r.Find(filepath.Ext(path))
}

// FindByName returns the extractor with the given name, or nil.
func (r *Registry) FindByName(name string) Extractor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, e := range r.extractors {
		if e.Name() == name {
			return e
		}
	}
	return nil
}

// All returns the registered extractors in registration order.
func (r *Registry) All() []Extractor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]Extractor, len(r.extractors))
	copy(result, r.extractors)
	return result
}

// Extensions returns the registered extensions, sorted.
func (r *Registry) Extensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Clear removes all registered extractors.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.extractors = nil
	r.byExt = make(map[string]Extractor)
}

// NormalizeExt lower-cases ext and ensures a leading dot.
func NormalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
