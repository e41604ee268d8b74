package syntax

import (
	"fmt"
	"strings"
)

// Pos is a 1-based position in a source file.
type Pos struct {
	Filename string
	Line     int
	Column   int
}

func (p Pos) String() string {
	if p.Filename == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
}

// Error is a lexing or parsing failure.
type Error struct {
	Pos    Pos
	Msg    string
	Source string
}

func (e *Error) Error() string {
	return e.Pos.String() + ": " + e.Msg
}

// Snippet renders the lines around the error with a caret under the
// offending column.
func (e *Error) Snippet() string {
	lines := strings.Split(e.Source, "\n")
	if e.Pos.Line < 1 || e.Pos.Line > len(lines) {
		return ""
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, " %s |\n", padLeft("", 3))
	for i := max(1, e.Pos.Line-2); i <= e.Pos.Line; i++ {
		fmt.Fprintf(&sb, " %s | %s\n", padLeft(fmt.Sprint(i), 3), lines[i-1])
	}
	// 1 space + 3 for the line number + " | "
	fmt.Fprintf(&sb, "%s^\n", strings.Repeat(" ", 1+3+3+e.Pos.Column-1))
	return sb.String()
}

func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}
