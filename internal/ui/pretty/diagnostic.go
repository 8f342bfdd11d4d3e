package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/phpast/pkg/xhpast"
)

// Kinds shown in diagnostics.
const (
	KindSyntax  = "syntax-error"
	KindFailure = "parser-failure"
)

// FormatSyntaxError formats a rejected file for terminal output.
func (s *Styles) FormatSyntaxError(path string, syntaxErr *xhpast.SyntaxError, showContext bool, sourceLine string) string {
	var builder strings.Builder

	// Location: path:line
	location := fmt.Sprintf("%s:%d", s.FilePath.Render(path), syntaxErr.Line)

	// Main line: location  severity  message  (kind)
	builder.WriteString(fmt.Sprintf("  %s  %s  %s  %s\n",
		location,
		s.Error.Render("error"),
		s.Message.Render(syntaxErr.Message),
		s.Kind.Render("("+KindSyntax+")"),
	))

	if showContext && sourceLine != "" {
		builder.WriteString(s.FormatSourceContext(sourceLine, FirstColumn(sourceLine)))
	}

	return builder.String()
}

// FormatFailure formats a file the parser could not process.
func (s *Styles) FormatFailure(path string, err error) string {
	return fmt.Sprintf("  %s  %s  %s  %s\n",
		s.FilePath.Render(path),
		s.Error.Render("error"),
		s.Message.Render(err.Error()),
		s.Kind.Render("("+KindFailure+")"),
	)
}

// FormatSourceContext formats the source line with a caret marker.
func (s *Styles) FormatSourceContext(line string, column int) string {
	var builder strings.Builder

	// Indent to align with diagnostic output
	const indent = "        "

	// Tabs would misalign the caret.
	line = strings.ReplaceAll(line, "\t", " ")

	// Source line
	builder.WriteString(indent + s.SourceLine.Render(line) + "\n")

	// Caret marker
	if column > 0 {
		padding := indent + strings.Repeat(" ", column-1)
		builder.WriteString(padding + s.Caret.Render("^") + "\n")
	}

	return builder.String()
}

// FirstColumn returns the 1-based column of the first non-blank character,
// or 0 for a blank line.
func FirstColumn(line string) int {
	for i, r := range line {
		if r != ' ' && r != '\t' {
			return i + 1
		}
	}
	return 0
}

// FormatFileHeader formats a file header for grouped output.
func (s *Styles) FormatFileHeader(path string, summary string) string {
	header := s.FilePath.Render(path)
	if summary != "" {
		header += s.Dim.Render(" (" + summary + ")")
	}
	return header
}
