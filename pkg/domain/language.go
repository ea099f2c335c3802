// Package domain defines the record types produced by code element extraction.
package domain

// Language represents a programming language.
type Language string

// Supported languages for element extraction.
const (
	LanguageJavaScript Language = "javascript"
	LanguagePython     Language = "python"
	LanguageTypeScript Language = "typescript"
)
