package pretty

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/yaklabco/phpast/pkg/runner"
)

// Table formatting constants.
const (
	tablePadding     = 2
	tableColumnCount = 6 // FILE, STATUS, NODES, TOKENS, LINES, DETAIL
	numberWidth      = 7
	minFileWidth     = 20
	minStatusWidth   = 8
	minDetailWidth   = 20
	heavySeparator   = "="
	defaultTermWidth = 100
)

// Row statuses.
const (
	StatusOK      = "ok"
	StatusPartial = "partial"
	StatusSyntax  = "syntax"
	StatusFailed  = "failed"
)

// TableRow represents a single file in the table.
type TableRow struct {
	File   string
	Status string
	Nodes  int
	Tokens int
	Lines  int
	Detail string
}

// OutcomeToTableRow converts a file outcome to a table row.
func OutcomeToTableRow(path string, outcome runner.FileOutcome) TableRow {
	row := TableRow{File: path}

	switch {
	case outcome.Error != nil:
		row.Status = StatusFailed
		row.Detail = outcome.Error.Error()
	case outcome.Syntax != nil:
		row.Status = StatusSyntax
		row.Detail = fmt.Sprintf("line %d: %s", outcome.Syntax.Line, outcome.Syntax.Message)
	default:
		row.Status = StatusOK
		if !outcome.Tiled {
			row.Status = StatusPartial
		}
		row.Nodes = outcome.Nodes
		row.Tokens = outcome.Tokens
		row.Lines = outcome.Lines
		row.Detail = outcome.Duration.Round(time.Microsecond).String()
	}

	return row
}

// TableFormatter formats per-file outcomes as a styled table.
type TableFormatter struct {
	styles    *Styles
	termWidth int
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(styles *Styles, termWidth int) *TableFormatter {
	if termWidth <= 0 {
		termWidth = defaultTermWidth
	}
	return &TableFormatter{
		styles:    styles,
		termWidth: termWidth,
	}
}

type columnWidths struct {
	file   int
	status int
	detail int
}

// FormatTable formats rows as a table with a header and separators.
func (t *TableFormatter) FormatTable(rows []TableRow) string {
	if len(rows) == 0 {
		return ""
	}

	widths := t.calculateColumnWidths(rows)

	var builder strings.Builder

	builder.WriteString(t.formatHeader(widths))
	builder.WriteString("\n")
	builder.WriteString(t.formatSeparator(widths))
	builder.WriteString("\n")

	for _, row := range rows {
		builder.WriteString(t.formatRow(row, widths))
		builder.WriteString("\n")
	}

	builder.WriteString(t.formatSeparator(widths))
	builder.WriteString("\n")

	return builder.String()
}

// calculateColumnWidths determines column widths based on content.
func (t *TableFormatter) calculateColumnWidths(rows []TableRow) columnWidths {
	widths := columnWidths{
		file:   minFileWidth,
		status: minStatusWidth,
		detail: minDetailWidth,
	}

	for _, row := range rows {
		widths.file = max(widths.file, len(row.File))
		widths.status = max(widths.status, len(row.Status))
		widths.detail = max(widths.detail, len(row.Detail))
	}

	// Constrain to terminal width, shrinking detail first.
	if excess := t.calculateTotalWidth(widths) - t.termWidth; excess > 0 {
		widths.detail = max(minDetailWidth, widths.detail-excess)
	}
	if excess := t.calculateTotalWidth(widths) - t.termWidth; excess > 0 {
		widths.file = max(minFileWidth, widths.file-excess)
	}

	return widths
}

// calculateTotalWidth calculates the total table width from column widths.
func (t *TableFormatter) calculateTotalWidth(widths columnWidths) int {
	return widths.file + widths.status + widths.detail + 3*numberWidth +
		tablePadding*tableColumnCount
}

// formatHeader formats the table header row.
func (t *TableFormatter) formatHeader(widths columnWidths) string {
	header := fmt.Sprintf(" %-*s  %-*s  %*s  %*s  %*s  %-*s",
		widths.file, "FILE",
		widths.status, "STATUS",
		numberWidth, "NODES",
		numberWidth, "TOKENS",
		numberWidth, "LINES",
		widths.detail, "DETAIL",
	)
	return t.styles.TableHeader.Render(header)
}

// formatSeparator formats a separator line.
func (t *TableFormatter) formatSeparator(widths columnWidths) string {
	return t.styles.TableSeparator.Render(strings.Repeat(heavySeparator, t.calculateTotalWidth(widths)))
}

// formatRow formats a single row with status-based styling.
func (t *TableFormatter) formatRow(row TableRow, widths columnWidths) string {
	number := func(n int) string {
		if row.Status == StatusSyntax || row.Status == StatusFailed {
			return "-"
		}
		return strconv.Itoa(n)
	}

	content := fmt.Sprintf(" %-*s  %-*s  %*s  %*s  %*s  %-*s",
		widths.file, truncateFilePath(row.File, widths.file),
		widths.status, row.Status,
		numberWidth, number(row.Nodes),
		numberWidth, number(row.Tokens),
		numberWidth, number(row.Lines),
		widths.detail, truncateString(row.Detail, widths.detail),
	)

	return t.rowStyle(row.Status).Render(content)
}

// rowStyle returns the style for a status.
func (t *TableFormatter) rowStyle(status string) lipgloss.Style {
	switch status {
	case StatusSyntax, StatusFailed:
		return t.styles.TableErrorRow
	case StatusPartial:
		return t.styles.TableWarnRow
	default:
		return lipgloss.NewStyle()
	}
}

// FormatTableSummary formats a summary line for table output.
func (t *TableFormatter) FormatTableSummary(stats runner.Stats, duration string) string {
	var parts []string

	parts = append(parts, fmt.Sprintf("%d files parsed", stats.FilesParsed))

	if stats.FilesWithSyntaxErrors > 0 {
		parts = append(parts, t.styles.Error.Render(fmt.Sprintf("%d syntax errors", stats.FilesWithSyntaxErrors)))
	}
	if stats.FilesErrored > 0 {
		parts = append(parts, t.styles.Failure.Render(fmt.Sprintf("%d failures", stats.FilesErrored)))
	}
	if stats.FilesUntiled > 0 {
		parts = append(parts, t.styles.Warning.Render(fmt.Sprintf("%d partial", stats.FilesUntiled)))
	}

	if duration != "" {
		parts = append(parts, t.styles.Dim.Render(duration))
	}

	return " " + strings.Join(parts, " | ")
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(str string, maxLen int) string {
	if len(str) <= maxLen {
		return str
	}
	if maxLen <= 3 {
		return str[:maxLen]
	}
	return str[:maxLen-3] + "..."
}

// truncateFilePath truncates a file path, preserving the end (filename) rather than beginning.
func truncateFilePath(path string, maxLen int) string {
	if len(path) <= maxLen {
		return path
	}
	if maxLen <= 3 {
		return path[len(path)-maxLen:]
	}
	return "..." + path[len(path)-maxLen+3:]
}
