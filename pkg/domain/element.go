package domain

import "encoding/json"

// ElementKind classifies an extracted element.
type ElementKind string

const (
	KindFunction  ElementKind = "function"
	KindClass     ElementKind = "class"
	KindMethod    ElementKind = "method"
	KindInterface ElementKind = "interface"
)

// Element is one extracted function, method, class or interface.
type Element struct {
	// Name is the declared identifier.
	Name string `json:"name"`
	// Kind is the element classification.
	Kind ElementKind `json:"kind"`
	// LineStart is the 1-based first line of the element.
	LineStart int `json:"line_start"`
	// LineEnd is the 1-based last line of the element (inclusive).
	LineEnd int `json:"line_end"`
	// Source is the literal text of lines [LineStart, LineEnd].
	Source string `json:"source_code"`
	// Methods holds the methods of a class in source order. Empty for other kinds.
	// Classes always encode the list, even when empty; see MarshalJSON.
	Methods []Element `json:"methods,omitempty"`
	// Decorators lists the decorators applied to a function or method.
	Decorators []DecoratorRef `json:"decorators,omitempty"`
}

// Contains reports whether line lies within the element span.
func (e Element) Contains(line int) bool {
	return line >= e.LineStart && line <= e.LineEnd
}

// MarshalJSON encodes a class with a "methods" array, empty when it has no
// methods. Other kinds omit the field.
func (e Element) MarshalJSON() ([]byte, error) {
	type plain Element
	if e.Kind != KindClass {
		return json.Marshal(plain(e))
	}

	methods := e.Methods
	if methods == nil {
		methods = []Element{}
	}
	return json.Marshal(struct {
		plain
		Methods []Element `json:"methods"`
	}{plain(e), methods})
}

// DecoratorRef is a decorator as seen from the element it modifies.
type DecoratorRef struct {
	Name string `json:"name"`
	Line int    `json:"line"`
}

// Decorator is one decorator application.
// Parent holds the name of the decorated element, or "" when it could not be resolved.
type Decorator struct {
	Name   string `json:"name"`
	Line   int    `json:"line"`
	Parent string `json:"parent"`
}

// CallSite is one occurrence of a tracked call such as print(...).
type CallSite struct {
	Name     string `json:"name"`
	Line     int    `json:"line"`
	ArgCount int    `json:"args"`
}
