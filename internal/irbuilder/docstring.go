package irbuilder

import (
	"strings"

	gofast "github.com/t14raptor/go-fast/parser"
)

// docstringOf scans raw source bytes backward from a definition's start
// offset for an immediately preceding comment block: a /* */ or /** */
// run, or a contiguous run of // or # line comments. For JavaScript and
// TypeScript the heuristic is gated on go-fast confirming the file
// re-lexes cleanly first — the same ExtractSymbols/fallback split the
// teacher's javascript_gofast_analyzer.go uses, applied here to skip
// comment scanning on input go-fast can't parse (ES modules, some
// TypeScript syntax) rather than to extract symbols.
func docstringOf(content []byte, startByte uint, language string) string {
	if language == "javascript" || language == "typescript" {
		if _, err := gofast.ParseFile(string(content)); err != nil {
			return ""
		}
	}

	limit := min(int(startByte), len(content))
	lines := strings.Split(string(content[:limit]), "\n")

	end := len(lines) - 1
	for end >= 0 && strings.TrimSpace(lines[end]) == "" {
		end--
	}
	if end < 0 {
		return ""
	}

	trimmed := strings.TrimSpace(lines[end])
	switch {
	case strings.HasSuffix(trimmed, "*/"):
		start := end
		for start >= 0 && !strings.Contains(lines[start], "/*") {
			start--
		}
		if start < 0 {
			return ""
		}
		return strings.TrimSpace(strings.Join(lines[start:end+1], "\n"))

	case strings.HasPrefix(trimmed, "//") || strings.HasPrefix(trimmed, "#"):
		prefix := trimmed[:1]
		if strings.HasPrefix(trimmed, "//") {
			prefix = "//"
		}
		start := end
		for start >= 0 && strings.HasPrefix(strings.TrimSpace(lines[start]), prefix) {
			start--
		}
		start++
		return strings.TrimSpace(strings.Join(lines[start:end+1], "\n"))

	default:
		return ""
	}
}
