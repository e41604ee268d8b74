package main

import (
	"fmt"
	"io"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/pkg/errors"

	"github.com/vito/formal/pkg/book"
	"github.com/vito/formal/pkg/syntax"
	"github.com/vito/formal/pkg/term"
)

var (
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	failStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	nameStyle  = lipgloss.NewStyle().Bold(true)
	typeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("117"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// output writes styled lines, downsampled to what w supports.
type output struct {
	w       io.Writer
	noColor bool
}

func newOutput(w io.Writer, noColor bool) *output {
	return &output{w: w, noColor: noColor}
}

func (o *output) Println(s string) {
	if o.noColor {
		_, _ = fmt.Fprintln(o.w, ansi.Strip(s))
		return
	}
	_, _ = lipgloss.Fprintln(o.w, s)
}

func (o *output) Term(t term.Term) {
	o.Println(t.String())
}

// Result prints one line per checked definition, followed by the indented
// failure when there is one.
func (o *output) Result(r book.Result) {
	if r.Err == nil {
		o.Println(okStyle.Render("ok") + "   " + nameStyle.Render(r.Name) + " : " + typeStyle.Render(r.Type.String()))
		return
	}
	o.Println(failStyle.Render("FAIL") + " " + nameStyle.Render(r.Name))
	o.Println(indent(renderError(r.Err), "     "))
}

// renderError formats err for the terminal, with a source snippet for
// syntax errors.
func renderError(err error) string {
	var serr *syntax.Error
	if errors.As(err, &serr) {
		msg := errorStyle.Render(serr.Error())
		if snippet := serr.Snippet(); snippet != "" {
			msg += "\n" + renderLines(dimStyle, strings.TrimSuffix(snippet, "\n"))
		}
		return msg
	}
	header, rest, _ := strings.Cut(err.Error(), "\n")
	if rest == "" {
		return errorStyle.Render(header)
	}
	return errorStyle.Render(header) + "\n" + renderLines(dimStyle, rest)
}

// renderLines styles each line on its own so lines are not padded to a
// common width.
func renderLines(style lipgloss.Style, s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = style.Render(line)
	}
	return strings.Join(lines, "\n")
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}
