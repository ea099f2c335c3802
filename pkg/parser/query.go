package parser

import "github.com/specvital/codelens/pkg/domain"

// FindByName returns the first element named name of the given kind.
//
// KindFunction searches top-level functions first, then the methods of each class
// in order. KindClass searches classes. Interfaces are never searched.
func FindByName(result *domain.Result, name string, kind domain.ElementKind) (*domain.Element, bool) {
	if result == nil {
		return nil, false
	}

	switch kind {
	case domain.KindFunction:
		for i := range result.Functions {
			if result.Functions[i].Name == name {
				return &result.Functions[i], true
			}
		}
		for i := range result.Classes {
			methods := result.Classes[i].Methods
			for j := range methods {
				if methods[j].Name == name {
					return &methods[j], true
				}
			}
		}
	case domain.KindClass:
		for i := range result.Classes {
			if result.Classes[i].Name == name {
				return &result.Classes[i], true
			}
		}
	}
	return nil, false
}

// SourceByName returns the source text of the element FindByName locates.
func SourceByName(result *domain.Result, name string, kind domain.ElementKind) (string, bool) {
	element, ok := FindByName(result, name, kind)
	if !ok {
		return "", false
	}
	return element.Source, true
}

// SliceByLines returns lines start through end (1-based, inclusive) of the file
// result was extracted from.
func SliceByLines(result *domain.Result, start, end int) string {
	file := result.File()
	if file == nil {
		return ""
	}
	return file.Slice(start, end)
}
