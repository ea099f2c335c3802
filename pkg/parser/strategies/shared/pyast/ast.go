// Package pyast provides shared Python AST traversal utilities for element extraction.
package pyast

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/specvital/codelens/pkg/parser"
)

// Python AST node types.
const (
	NodeArgumentList        = "argument_list"
	NodeCall                = "call"
	NodeClassDefinition     = "class_definition"
	NodeComment             = "comment"
	NodeDecoratedDefinition = "decorated_definition"
	NodeDecorator           = "decorator"
	NodeDictionarySplat     = "dictionary_splat"
	NodeFunctionDefinition  = "function_definition"
	NodeGeneratorExpression = "generator_expression"
	NodeIdentifier          = "identifier"
	NodeKeywordArgument     = "keyword_argument"
)

// GetDecoratedDefinition extracts the actual definition from a decorated_definition node.
func GetDecoratedDefinition(node *sitter.Node) *sitter.Node {
	definition := node.ChildByFieldName("definition")
	if definition != nil {
		return definition
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == NodeFunctionDefinition || child.Type() == NodeClassDefinition {
			return child
		}
	}
	return nil
}

// GetDecorators extracts all decorator nodes from a decorated_definition.
func GetDecorators(node *sitter.Node) []*sitter.Node {
	var decorators []*sitter.Node
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == NodeDecorator {
			decorators = append(decorators, child)
		}
	}
	return decorators
}

// GetDefinitionDecorators returns the decorators applied to a function or class
// definition, or nil if it is not decorated.
func GetDefinitionDecorators(definition *sitter.Node) []*sitter.Node {
	parent := definition.Parent()
	if parent == nil || parent.Type() != NodeDecoratedDefinition {
		return nil
	}
	return GetDecorators(parent)
}

// GetName returns the name of a function or class definition.
func GetName(definition *sitter.Node, source []byte) string {
	return parser.GetNodeText(definition.ChildByFieldName("name"), source)
}

// DecoratorName resolves the name a decorator refers to.
//
//	@cache                 -> "cache"
//	@retry(times=3)        -> "retry"
//	@app.route("/")        -> ""
//
// Only a bare identifier or a call of a bare identifier resolves; any other
// expression yields "".
func DecoratorName(decorator *sitter.Node, source []byte) string {
	expr := decoratorExpression(decorator)
	if expr == nil {
		return ""
	}

	if expr.Type() == NodeCall {
		expr = expr.ChildByFieldName("function")
		if expr == nil {
			return ""
		}
	}
	if expr.Type() != NodeIdentifier {
		return ""
	}
	return parser.GetNodeText(expr, source)
}

func decoratorExpression(decorator *sitter.Node) *sitter.Node {
	for i := 0; i < int(decorator.NamedChildCount()); i++ {
		child := decorator.NamedChild(i)
		if child.Type() != NodeComment {
			return child
		}
	}
	return nil
}

// CountPositionalArgs counts the positional arguments of a call's arguments node.
// Starred arguments count; keyword arguments and **kwargs do not. A bare generator
// argument, as in f(x for x in y), counts as one.
func CountPositionalArgs(args *sitter.Node) int {
	if args == nil {
		return 0
	}
	if args.Type() == NodeGeneratorExpression {
		return 1
	}

	count := 0
	for i := 0; i < int(args.NamedChildCount()); i++ {
		switch args.NamedChild(i).Type() {
		case NodeKeywordArgument, NodeDictionarySplat, NodeComment:
			continue
		default:
			count++
		}
	}
	return count
}
