package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/phpast/pkg/runner"
)

const (
	summaryDividerWidth = 40
	wordFile            = "file"
	wordFiles           = "files"
)

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "2 syntax errors, 1 failure in 14 files".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	checked := stats.FilesParsed + stats.FilesWithSyntaxErrors + stats.FilesErrored
	filesPart := fmt.Sprintf("%d %s", checked, plural(checked, wordFile, wordFiles))

	if stats.FilesWithSyntaxErrors == 0 && stats.FilesErrored == 0 {
		return s.Success.Render("No syntax errors") + s.Dim.Render(" ("+filesPart+" parsed)") + "\n"
	}

	var parts []string
	if n := stats.FilesWithSyntaxErrors; n > 0 {
		parts = append(parts, s.Error.Render(fmt.Sprintf("%d %s", n, plural(n, "syntax error", "syntax errors"))))
	}
	if n := stats.FilesErrored; n > 0 {
		parts = append(parts, s.Failure.Render(fmt.Sprintf("%d %s", n, plural(n, "failure", "failures"))))
	}

	return strings.Join(parts, ", ") + " in " + filesPart + "\n"
}

// FormatSummary formats run statistics as a summary block.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var builder strings.Builder

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	// Files
	builder.WriteString("  Files discovered:  " +
		s.SummaryValue.Render(strconv.Itoa(stats.FilesDiscovered)) + "\n")
	builder.WriteString("  Files parsed:      " +
		s.SummaryValue.Render(strconv.Itoa(stats.FilesParsed)) + "\n")

	if stats.FilesWithSyntaxErrors > 0 {
		builder.WriteString("  Syntax errors:     " +
			s.Error.Render(strconv.Itoa(stats.FilesWithSyntaxErrors)) + "\n")
	}
	if stats.FilesErrored > 0 {
		builder.WriteString("  Failures:          " +
			s.Failure.Render(strconv.Itoa(stats.FilesErrored)) + "\n")
	}
	if stats.FilesUntiled > 0 {
		builder.WriteString("  Partial streams:   " +
			s.Warning.Render(strconv.Itoa(stats.FilesUntiled)) + "\n")
	}

	builder.WriteString("\n")

	builder.WriteString("  Nodes:             " +
		s.SummaryValue.Render(strconv.Itoa(stats.NodesTotal)) + "\n")
	builder.WriteString("  Tokens:            " +
		s.SummaryValue.Render(strconv.Itoa(stats.TokensTotal)) + "\n")
	builder.WriteString("  Lines:             " +
		s.SummaryValue.Render(strconv.Itoa(stats.LinesTotal)) + "\n")

	builder.WriteString("\n")

	// Overall status
	switch {
	case stats.FilesErrored > 0:
		builder.WriteString(s.Failure.Render("Parser failed on some files"))
	case stats.FilesWithSyntaxErrors > 0:
		builder.WriteString(s.Failure.Render("Check failed with syntax errors"))
	default:
		builder.WriteString(s.Success.Render("Check passed"))
	}
	builder.WriteString("\n")

	return builder.String()
}
