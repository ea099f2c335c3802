package parser

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/specvital/codelens/pkg/parser/tspool"
)

const MaxTreeDepth = tspool.MaxTreeDepth

// NodeTypeError is the tree-sitter type of a node the grammar could not match.
const NodeTypeError = "ERROR"

// GetNodeText returns the source text for the given AST node.
// Returns empty string if the node's byte range exceeds the source length.
func GetNodeText(node *sitter.Node, source []byte) (result string) {
	if node == nil {
		return ""
	}

	start := node.StartByte()
	end := node.EndByte()
	sourceLen := uint32(len(source))

	// Validate bounds before calling tree-sitter C code
	if start > sourceLen || end > sourceLen {
		return ""
	}

	defer func() {
		if r := recover(); r != nil {
			result = ""
		}
	}()

	return node.Content(source)
}

// GetLines returns the 1-based first and last line of node.
// A node that ends at column 0 of a following line ends on the line before.
func GetLines(node *sitter.Node) (start, end int) {
	startPoint := node.StartPoint()
	endPoint := node.EndPoint()

	start = int(startPoint.Row) + 1
	end = int(endPoint.Row) + 1
	if endPoint.Column == 0 && endPoint.Row > startPoint.Row {
		end--
	}
	return start, end
}

// FindChildByType returns the first direct child with the given node type.
func FindChildByType(node *sitter.Node, nodeType string) *sitter.Node {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == nodeType {
			return child
		}
	}
	return nil
}

// FindChildrenByType returns all direct children with the given node type.
func FindChildrenByType(node *sitter.Node, nodeType string) []*sitter.Node {
	var children []*sitter.Node
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == nodeType {
			children = append(children, child)
		}
	}
	return children
}

// FindAncestor returns the closest ancestor of node whose type is one of types.
func FindAncestor(node *sitter.Node, types ...string) *sitter.Node {
	for p := node.Parent(); p != nil; p = p.Parent() {
		for _, t := range types {
			if p.Type() == t {
				return p
			}
		}
	}
	return nil
}

// FirstErrorNode returns the first ERROR or MISSING node in document order, or nil.
func FirstErrorNode(root *sitter.Node) *sitter.Node {
	if root == nil || !root.HasError() {
		return nil
	}

	var found *sitter.Node
	WalkTree(root, func(n *sitter.Node) bool {
		if found != nil {
			return false
		}
		if n.Type() == NodeTypeError || n.IsMissing() {
			found = n
			return false
		}
		return n.HasError()
	})
	return found
}

func walkTreeWithDepth(node *sitter.Node, visitor func(*sitter.Node) bool, depth int) {
	if depth > tspool.MaxTreeDepth {
		return
	}

	if !visitor(node) {
		return
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		walkTreeWithDepth(node.Child(i), visitor, depth+1)
	}
}

// WalkTree recursively visits all nodes in the AST in document order.
// The visitor function returns false to stop traversing into children.
func WalkTree(node *sitter.Node, visitor func(*sitter.Node) bool) {
	walkTreeWithDepth(node, visitor, 0)
}

const maxSnippetLen = 40

// CheckSyntax returns a *ParseError describing the first rejected node under root,
// or nil when the tree is free of errors.
func CheckSyntax(path string, root *sitter.Node, source []byte) error {
	node := FirstErrorNode(root)
	if node == nil {
		return nil
	}

	point := node.StartPoint()
	snippet := GetNodeText(node, source)
	if node.IsMissing() {
		snippet = "missing " + node.Type()
	}
	if len(snippet) > maxSnippetLen {
		snippet = snippet[:maxSnippetLen] + "..."
	}

	return &ParseError{
		Path:    path,
		Line:    int(point.Row) + 1,
		Column:  int(point.Column) + 1,
		Snippet: snippet,
	}
}
