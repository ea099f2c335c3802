package tspool

import (
	"fmt"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/specvital/codelens/pkg/domain"
)

// Match is one match of a query, keyed by capture name.
type Match map[string]*sitter.Node

// compiledQuery compiles its pattern at most once and is then shared read-only.
type compiledQuery struct {
	once  sync.Once
	query *sitter.Query
	err   error
}

type queryKey struct {
	lang    domain.Language
	pattern string
}

var compiled sync.Map // queryKey -> *compiledQuery

// Compile returns the compiled query for pattern, compiling it on first use.
// The returned query is owned by the cache and must NOT be closed.
func Compile(lang domain.Language, pattern string) (*sitter.Query, error) {
	entry, _ := compiled.LoadOrStore(queryKey{lang: lang, pattern: pattern}, &compiledQuery{})
	cq := entry.(*compiledQuery)

	cq.once.Do(func() {
		sitterLang := GetLanguage(lang)
		if sitterLang == nil {
			cq.err = fmt.Errorf("no grammar for %s", lang)
			return
		}
		cq.query, cq.err = sitter.NewQuery([]byte(pattern), sitterLang)
	})
	return cq.query, cq.err
}

// Matches runs the cached query for pattern over root and returns its matches
// in the order the query cursor reports them.
func Matches(root *sitter.Node, lang domain.Language, pattern string) ([]Match, error) {
	query, err := Compile(lang, pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid query: %w", err)
	}

	cursor := sitter.NewQueryCursor()
	defer cursor.Close()
	cursor.Exec(query, root)

	var matches []Match
	for {
		m, ok := cursor.NextMatch()
		if !ok {
			return matches, nil
		}

		match := make(Match, len(m.Captures))
		for _, c := range m.Captures {
			match[query.CaptureNameForId(c.Index)] = c.Node
		}
		matches = append(matches, match)
	}
}

// ClearQueryCache closes and forgets every compiled query. Only for testing.
func ClearQueryCache() {
	compiled.Range(func(key, value any) bool {
		compiled.Delete(key)
		cq := value.(*compiledQuery)
		cq.once.Do(func() {})
		if cq.query != nil {
			cq.query.Close()
		}
		return true
	})
}
