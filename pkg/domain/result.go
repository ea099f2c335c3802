package domain

import "github.com/specvital/codelens/pkg/source"

// Result is the extraction output for a single source file.
type Result struct {
	// Path is the path of the extracted file.
	Path string `json:"path"`
	// Language is the language the file was extracted as.
	Language Language `json:"language"`
	// Functions contains functions that are not methods of a class.
	Functions []Element `json:"functions"`
	// Classes contains classes with their methods.
	Classes []Element `json:"classes"`
	// Decorators contains every resolved decorator application.
	Decorators []Decorator `json:"decorators"`
	// Interfaces is nil for languages without interfaces.
	Interfaces []Element `json:"interfaces,omitempty"`
	// CallSites contains occurrences of tracked calls.
	CallSites []CallSite `json:"print_calls"`

	file *source.File
}

// NewResult creates an empty result bound to file.
func NewResult(file *source.File, lang Language) *Result {
	return &Result{
		Path:       file.Path(),
		Language:   lang,
		Functions:  []Element{},
		Classes:    []Element{},
		Decorators: []Decorator{},
		CallSites:  []CallSite{},
		file:       file,
	}
}

// File returns the source file the result was extracted from.
func (r *Result) File() *source.File {
	if r == nil {
		return nil
	}
	return r.file
}

// HasInterfaces reports whether the language of this result models interfaces.
func (r *Result) HasInterfaces() bool {
	return r.Interfaces != nil
}

// CountElements returns the number of functions, classes, methods and interfaces.
func (r *Result) CountElements() int {
	count := len(r.Functions) + len(r.Interfaces)
	for _, c := range r.Classes {
		count += 1 + len(c.Methods)
	}
	return count
}
