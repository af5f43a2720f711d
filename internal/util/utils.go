package util

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// LineAndColumn converts a byte offset in src to a 1-based line and a 1-based
// column counted in runes.
func LineAndColumn(src string, pos int) (line int, column int) {
	line = 1
	column = 1
	for i, char := range src {
		if i >= pos {
			break
		}
		if char == '\n' {
			line++
			column = 1
		} else {
			column++
		}
	}
	return
}

// ContextLines renders up to two lines before the line holding pos, then the
// line itself with a caret under the offending column.
func ContextLines(src string, pos int) string {
	line, column := LineAndColumn(src, pos)
	lines := strings.Split(strings.TrimSuffix(src, "\n"), "\n")
	if line > len(lines) {
		line = len(lines)
	}

	var result strings.Builder
	for i := max(line-2, 1); i <= line; i++ {
		content := lines[i-1]
		if i != line {
			fmt.Fprintf(&result, "     %3d | %s\n", i, content)
			continue
		}

		margin := fmt.Sprintf("  >  %3d | ", i)
		fmt.Fprintf(&result, "%s%s\n", margin, content)
		result.WriteString(blankVisible(margin + runePrefix(content, column-1)))
		result.WriteString("^ here\n")
	}
	return result.String()
}

func runePrefix(s string, n int) string {
	i := 0
	for n > 0 && i < len(s) {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
		n--
	}
	return s[:i]
}

// blankVisible replaces everything but tabs with spaces so a caret printed
// after it lines up with the text above.
func blankVisible(s string) string {
	var buf strings.Builder
	for _, c := range s {
		if c == '\t' {
			buf.WriteRune('\t')
		} else {
			buf.WriteRune(' ')
		}
	}
	return buf.String()
}
