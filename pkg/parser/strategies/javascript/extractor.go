// Package javascript extracts functions and classes from JavaScript sources by header
// pattern and brace counting.
package javascript

import (
	"context"
	"regexp"

	"github.com/specvital/codelens/pkg/domain"
	"github.com/specvital/codelens/pkg/parser/strategies"
	"github.com/specvital/codelens/pkg/parser/strategies/shared/bracescan"
	"github.com/specvital/codelens/pkg/source"
)

const extractorName = "javascript"

var (
	// function NAME(params) {
	functionPattern = regexp.MustCompile(`\bfunction\s+(\w+)\s*\([^)]*\)\s*\{`)
	// class NAME [extends Base] {
	classPattern = regexp.MustCompile(`\bclass\s+(\w+)(?:\s+extends\s+[\w.]+)?\s*\{`)
)

// Table holds the JavaScript header patterns.
var Table = bracescan.Table{
	Functions: functionPattern,
	Classes:   classPattern,
}

func init() {
	strategies.Register(NewExtractor())
}

// Extractor is the pattern-based extractor for .js and .jsx files.
// Methods, arrow functions, decorators and call sites are not extracted.
type Extractor struct{}

// NewExtractor creates a JavaScript extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

func (e *Extractor) Name() string { return extractorName }

func (e *Extractor) Language() domain.Language { return domain.LanguageJavaScript }

func (e *Extractor) Extensions() []string { return []string{".js", ".jsx"} }

func (e *Extractor) Extract(ctx context.Context, file *source.File) (*domain.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return bracescan.Extract(file, domain.LanguageJavaScript, Table), nil
}
