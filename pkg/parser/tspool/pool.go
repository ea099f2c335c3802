// Package tspool provides tree-sitter parsers for the grammar-backed languages.
//
// Parsers are created fresh for every parse. A parser whose ParseCtx was cancelled keeps
// its internal cancel flag set, so reusing parsers across calls is not safe.
//
// Thread-safety: Parsers returned by Get are NOT safe for concurrent use.
// Each goroutine must Get its own parser or use the Parse helper.
package tspool

import (
	"context"
	"fmt"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/specvital/codelens/pkg/domain"
)

// MaxTreeDepth is the maximum recursion depth when walking AST trees.
const MaxTreeDepth = 1000

var (
	pyLang *sitter.Language

	langOnce sync.Once
)

func initLanguages() {
	langOnce.Do(func() {
		pyLang = python.GetLanguage()
	})
}

// GetLanguage returns the tree-sitter language for lang, or nil if lang has no grammar.
func GetLanguage(lang domain.Language) *sitter.Language {
	initLanguages()
	switch lang {
	case domain.LanguagePython:
		return pyLang
	default:
		return nil
	}
}

// Get returns a parser for the given language, or nil if lang has no grammar.
// The returned parser is NOT safe for concurrent use.
// Caller MUST call parser.Close() when done to free resources.
func Get(lang domain.Language) *sitter.Parser {
	sitterLang := GetLanguage(lang)
	if sitterLang == nil {
		return nil
	}
	parser := sitter.NewParser()
	parser.SetLanguage(sitterLang)
	return parser
}

// Parse parses source using a fresh parser.
// Caller MUST call tree.Close() to free resources.
func Parse(ctx context.Context, lang domain.Language, source []byte) (*sitter.Tree, error) {
	parser := Get(lang)
	if parser == nil {
		return nil, fmt.Errorf("no grammar for %s", lang)
	}
	defer parser.Close()

	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("parse %s failed: %w", lang, err)
	}

	return tree, nil
}
