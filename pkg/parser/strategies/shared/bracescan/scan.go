// Package bracescan provides header-pattern extraction for brace-delimited languages
// that are handled without a grammar.
//
// A construct is located by a regular expression that captures the element name and
// ends on the opening brace of its body. Starting from that brace, lines after the
// header are scanned until the brace count returns to zero. Braces are counted per line;
// braces inside string literals or comments are counted too.
package bracescan

import (
	"regexp"
	"strings"

	"github.com/specvital/codelens/pkg/domain"
	"github.com/specvital/codelens/pkg/parser"
	"github.com/specvital/codelens/pkg/source"
)

const (
	openBrace  = '{'
	closeBrace = '}'
)

// Table lists the header patterns of a language. Each pattern must capture the
// element name in group 1 and end with the opening brace.
type Table struct {
	Functions *regexp.Regexp
	Classes   *regexp.Regexp
	// Interfaces is nil for languages without interfaces.
	Interfaces *regexp.Regexp
}

// Extract applies table to file.
// Classes carry no methods; decorators and call sites are always empty.
func Extract(file *source.File, lang domain.Language, table Table) *domain.Result {
	result := domain.NewResult(file, lang)

	if table.Functions != nil {
		result.Functions = FindElements(file, table.Functions, domain.KindFunction)
	}
	if table.Classes != nil {
		classes := FindElements(file, table.Classes, domain.KindClass)
		for i := range classes {
			classes[i].Methods = []domain.Element{}
		}
		result.Classes = classes
	}
	if table.Interfaces != nil {
		result.Interfaces = FindElements(file, table.Interfaces, domain.KindInterface)
	}

	return result
}

// FindElements returns an element for every match of pattern in file, in match order.
func FindElements(file *source.File, pattern *regexp.Regexp, kind domain.ElementKind) []domain.Element {
	text := file.Text()
	elements := []domain.Element{}

	for _, m := range pattern.FindAllStringSubmatchIndex(text, -1) {
		if len(m) < 4 || m[2] < 0 {
			continue
		}

		start, end := span(file, text, m[0], m[1])
		elements = append(elements, domain.Element{
			Name:      text[m[2]:m[3]],
			Kind:      kind,
			LineStart: start,
			LineEnd:   end,
			Source:    file.Slice(start, end),
		})
	}

	return elements
}

// span returns the 1-based line span of the construct whose header occupies
// text[matchStart:matchEnd]. The header ends just after its opening brace, which
// counts as the single open brace; the rest of the header line is not counted and
// scanning starts on the following line.
func span(file *source.File, text string, matchStart, matchEnd int) (int, int) {
	start := strings.Count(text[:matchStart], "\n") + 1
	headerLine := strings.Count(text[:matchEnd], "\n") + 1

	end := headerLine
	// headerLine is also the 0-based index of the line after the header.
	if idx := parser.ScanToClose(file.Lines(), headerLine, 1, openBrace, closeBrace); idx >= 0 {
		end = idx + 1
	}

	start = file.ClampLine(start)
	end = file.ClampLine(end)
	if end < start {
		end = start
	}
	return start, end
}
