// Package python extracts code elements from Python sources using the tree-sitter grammar.
package python

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/specvital/codelens/pkg/domain"
	"github.com/specvital/codelens/pkg/parser"
	"github.com/specvital/codelens/pkg/parser/strategies"
	"github.com/specvital/codelens/pkg/parser/strategies/shared/pyast"
	"github.com/specvital/codelens/pkg/parser/tspool"
	"github.com/specvital/codelens/pkg/source"
)

const extractorName = "python"

// DefaultTrackedCalls lists the callees recorded as call sites by default.
var DefaultTrackedCalls = []string{"print"}

const callQuery = `(call function: (identifier) @callee arguments: (_) @args) @call`

func init() {
	strategies.Register(NewExtractor())
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithTrackedCalls replaces the set of tracked callee names.
func WithTrackedCalls(names ...string) Option {
	return func(e *Extractor) {
		e.tracked = make(map[string]bool, len(names))
		for _, name := range names {
			if name != "" {
				e.tracked[name] = true
			}
		}
	}
}

// Extractor is the grammar-based extractor for .py files.
// It is safe for concurrent use.
type Extractor struct {
	tracked map[string]bool
}

// NewExtractor creates a Python extractor.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{}
	WithTrackedCalls(DefaultTrackedCalls...)(e)
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Extractor) Name() string { return extractorName }

func (e *Extractor) Language() domain.Language { return domain.LanguagePython }

func (e *Extractor) Extensions() []string { return []string{".py"} }

// Extract parses file and collects functions, classes with their methods, decorators
// and tracked call sites in tree-walk order. Input the grammar rejects is reported as
// a *parser.ParseError.
func (e *Extractor) Extract(ctx context.Context, file *source.File) (*domain.Result, error) {
	content := file.Content()

	tree, err := tspool.Parse(ctx, domain.LanguagePython, content)
	if err != nil {
		return nil, &parser.ParseError{Path: file.Path(), Err: err}
	}
	defer tree.Close()

	root := tree.RootNode()
	if err := parser.CheckSyntax(file.Path(), root, content); err != nil {
		return nil, err
	}

	c := &collector{
		file:    file,
		source:  content,
		result:  domain.NewResult(file, domain.LanguagePython),
		classes: make(map[nodeKey]int),
	}

	parser.WalkTree(root, func(node *sitter.Node) bool {
		switch node.Type() {
		case pyast.NodeClassDefinition:
			c.addClass(node)
		case pyast.NodeFunctionDefinition:
			c.addFunction(node)
		}
		return true
	})

	if err := c.addCallSites(root, e.tracked); err != nil {
		return nil, fmt.Errorf("python extractor: %s: %w", file.Path(), err)
	}

	return c.result, nil
}

type nodeKey struct {
	start, end uint32
}

func keyOf(node *sitter.Node) nodeKey {
	return nodeKey{start: node.StartByte(), end: node.EndByte()}
}

type collector struct {
	file    *source.File
	source  []byte
	result  *domain.Result
	classes map[nodeKey]int
}

func (c *collector) element(node *sitter.Node, kind domain.ElementKind) domain.Element {
	start, end := parser.GetLines(node)
	start = c.file.ClampLine(start)
	end = c.file.ClampLine(end)
	if end < start {
		end = start
	}

	return domain.Element{
		Name:      pyast.GetName(node, c.source),
		Kind:      kind,
		LineStart: start,
		LineEnd:   end,
		Source:    c.file.Slice(start, end),
	}
}

func (c *collector) addClass(node *sitter.Node) {
	class := c.element(node, domain.KindClass)
	if class.Name == "" {
		return
	}
	class.Methods = []domain.Element{}

	c.classes[keyOf(node)] = len(c.result.Classes)
	c.result.Classes = append(c.result.Classes, class)
}

// addFunction records a function. A function nested anywhere inside a class is a
// method of every enclosing class, so an outer class also lists the methods of its
// inner classes; it never appears in Functions.
func (c *collector) addFunction(node *sitter.Node) {
	var owners []int
	for n := parser.FindAncestor(node, pyast.NodeClassDefinition); n != nil; n = parser.FindAncestor(n, pyast.NodeClassDefinition) {
		if idx, ok := c.classes[keyOf(n)]; ok {
			owners = append(owners, idx)
		}
	}

	kind := domain.KindFunction
	if len(owners) > 0 {
		kind = domain.KindMethod
	}

	fn := c.element(node, kind)
	if fn.Name == "" {
		return
	}
	fn.Decorators = c.decorators(node, fn.Name)

	if len(owners) == 0 {
		c.result.Functions = append(c.result.Functions, fn)
		return
	}
	for _, idx := range owners {
		class := &c.result.Classes[idx]
		class.Methods = append(class.Methods, fn)
	}
}

func (c *collector) decorators(definition *sitter.Node, parent string) []domain.DecoratorRef {
	nodes := pyast.GetDefinitionDecorators(definition)
	if len(nodes) == 0 {
		return nil
	}

	refs := make([]domain.DecoratorRef, 0, len(nodes))
	for _, dec := range nodes {
		name := pyast.DecoratorName(dec, c.source)
		if name == "" {
			continue
		}

		line := c.file.ClampLine(int(dec.StartPoint().Row) + 1)
		refs = append(refs, domain.DecoratorRef{Name: name, Line: line})
		c.result.Decorators = append(c.result.Decorators, domain.Decorator{
			Name:   name,
			Line:   line,
			Parent: parent,
		})
	}
	return refs
}

func (c *collector) addCallSites(root *sitter.Node, tracked map[string]bool) error {
	if len(tracked) == 0 {
		return nil
	}

	matches, err := tspool.Matches(root, domain.LanguagePython, callQuery)
	if err != nil {
		return err
	}

	for _, m := range matches {
		callee := parser.GetNodeText(m["callee"], c.source)
		if !tracked[callee] {
			continue
		}

		call := m["call"]
		if call == nil {
			continue
		}

		c.result.CallSites = append(c.result.CallSites, domain.CallSite{
			Name:     callee,
			Line:     c.file.ClampLine(int(call.StartPoint().Row) + 1),
			ArgCount: pyast.CountPositionalArgs(m["args"]),
		})
	}
	return nil
}
