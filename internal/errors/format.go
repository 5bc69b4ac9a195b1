package errors

import (
	"fmt"
	"strings"
)

// FormatWithSource renders an error with a source-line excerpt and a caret
// pointing at the offending column, in the teacher's CLI diagnostic style
// (see the original project's internal/errors package). Used for
// ParseError-shaped diagnostics handed in from the external front-end, and
// for runtime errors once top-level evaluation has file/line context.
func FormatWithSource(e *Error, source, file string) string {
	var sb strings.Builder

	if file != "" {
		fmt.Fprintf(&sb, "Error in %s:%d:%d\n", file, e.Pos.Line, e.Pos.Column)
	} else {
		fmt.Fprintf(&sb, "Error at line %d:%d\n", e.Pos.Line, e.Pos.Column)
	}

	if line := sourceLine(source, e.Pos.Line); line != "" {
		prefix := fmt.Sprintf("%4d | ", e.Pos.Line)
		sb.WriteString(prefix)
		sb.WriteString(line)
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat(" ", len(prefix)+e.Pos.Column-1))
		sb.WriteString("^\n")
	}

	sb.WriteString(string(e.Kind))
	sb.WriteString(": ")
	sb.WriteString(e.Message)

	for _, f := range e.Stack {
		sb.WriteString("\n")
		sb.WriteString(f.String())
	}

	return sb.String()
}

func sourceLine(source string, lineNum int) string {
	if source == "" || lineNum < 1 {
		return ""
	}
	lines := strings.Split(source, "\n")
	if lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}
