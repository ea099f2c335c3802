// Package typescript extracts functions, classes and interfaces from TypeScript sources
// by header pattern and brace counting.
package typescript

import (
	"context"
	"regexp"

	"github.com/specvital/codelens/pkg/domain"
	"github.com/specvital/codelens/pkg/parser/strategies"
	"github.com/specvital/codelens/pkg/parser/strategies/shared/bracescan"
	"github.com/specvital/codelens/pkg/source"
)

const extractorName = "typescript"

// typeRef matches a possibly qualified type name with optional type arguments.
const typeRef = `[\w.]+(?:<[^>{]*>)?`

var (
	// function NAME<T>(params): ReturnType {
	functionPattern = regexp.MustCompile(`\bfunction\s+(\w+)\s*(?:<[^>(]*>)?\s*\([^)]*\)\s*(?::\s*\w+(?:\[\]|<.*>)?)?\s*\{`)
	// class NAME<T> [extends Base] [implements A, B] {
	classPattern = regexp.MustCompile(`\bclass\s+(\w+)(?:\s*<[^>{]*>)?(?:\s+(?:extends|implements)\s+` + typeRef + `(?:\s*,\s*` + typeRef + `)*)*\s*\{`)
	// interface NAME<T> [extends A, B] {
	interfacePattern = regexp.MustCompile(`\binterface\s+(\w+)(?:\s*<[^>{]*>)?(?:\s+extends\s+` + typeRef + `(?:\s*,\s*` + typeRef + `)*)?\s*\{`)
)

// Table holds the TypeScript header patterns.
var Table = bracescan.Table{
	Functions:  functionPattern,
	Classes:    classPattern,
	Interfaces: interfacePattern,
}

func init() {
	strategies.Register(NewExtractor())
}

// Extractor is the pattern-based extractor for .ts and .tsx files.
// Methods, decorators and call sites are not extracted.
type Extractor struct{}

// NewExtractor creates a TypeScript extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

func (e *Extractor) Name() string { return extractorName }

func (e *Extractor) Language() domain.Language { return domain.LanguageTypeScript }

func (e *Extractor) Extensions() []string { return []string{".ts", ".tsx"} }

func (e *Extractor) Extract(ctx context.Context, file *source.File) (*domain.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return bracescan.Extract(file, domain.LanguageTypeScript, Table), nil
}
