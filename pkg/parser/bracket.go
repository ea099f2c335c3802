package parser

import "strings"

// CountDelimiters returns the number of open and close delimiters in s.
func CountDelimiters(s string, open, close rune) (opens, closes int) {
	return strings.Count(s, string(open)), strings.Count(s, string(close))
}

// ScanToClose finds the line on which an already opened delimiter is closed.
//
// Scanning starts at lines[startIdx] with openCount unmatched open delimiters. Every
// line adds its open delimiters and subtracts its close delimiters; the index of the
// first line on which the count drops to zero or below is returned, so a line that
// overshoots (`}}` with one brace open) also stops the scan. Delimiters are counted
// per line, without regard to string literals or comments.
//
// If the count never reaches zero the last line index is returned. An empty lines
// slice returns -1; a startIdx past the end returns the last line index.
func ScanToClose(lines []string, startIdx, openCount int, open, close rune) int {
	last := len(lines) - 1
	if last < 0 {
		return -1
	}
	if startIdx < 0 {
		startIdx = 0
	}

	count := openCount
	for i := startIdx; i <= last; i++ {
		opens, closes := CountDelimiters(lines[i], open, close)
		count += opens - closes
		if count <= 0 {
			return i
		}
	}

	return last
}
