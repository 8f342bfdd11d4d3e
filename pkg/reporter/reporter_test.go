package reporter_test

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/phpast/pkg/reporter"
	"github.com/yaklabco/phpast/pkg/runner"
	"github.com/yaklabco/phpast/pkg/xhpast"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    reporter.Format
		wantErr bool
	}{
		{name: "empty defaults to text", input: "", want: reporter.FormatText},
		{name: "text", input: "text", want: reporter.FormatText},
		{name: "table", input: "table", want: reporter.FormatTable},
		{name: "json", input: "json", want: reporter.FormatJSON},
		{name: "sarif", input: "sarif", want: reporter.FormatSARIF},
		{name: "unknown format", input: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := reporter.ParseFormat(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormat_IsValid(t *testing.T) {
	tests := []struct {
		format reporter.Format
		want   bool
	}{
		{reporter.FormatText, true},
		{reporter.FormatTable, true},
		{reporter.FormatJSON, true},
		{reporter.FormatSARIF, true},
		{reporter.Format("diff"), false},
		{reporter.Format(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.format.IsValid())
		})
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		format  reporter.Format
		wantErr bool
	}{
		{name: "text reporter", format: reporter.FormatText},
		{name: "table reporter", format: reporter.FormatTable},
		{name: "json reporter", format: reporter.FormatJSON},
		{name: "sarif reporter", format: reporter.FormatSARIF},
		{name: "empty defaults to text", format: ""},
		{name: "unknown format", format: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			rep, err := reporter.New(reporter.Options{Writer: &buf, Format: tt.format, Color: "never"})
			if tt.wantErr {
				require.Error(t, err)
				require.Nil(t, rep)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, rep)
		})
	}
}

func TestDefaultOptions(t *testing.T) {
	opts := reporter.DefaultOptions()

	assert.NotNil(t, opts.Writer)
	assert.Equal(t, reporter.FormatText, opts.Format)
	assert.Equal(t, "auto", opts.Color)
	assert.True(t, opts.ShowContext)
	assert.True(t, opts.ShowSummary)
	assert.False(t, opts.Compact)
	assert.False(t, opts.Verbose)
}

func TestTextReporter_NilResult(t *testing.T) {
	var buf bytes.Buffer
	rep := reporter.NewTextReporter(reporter.Options{Writer: &buf, Color: "never", ShowSummary: true})

	count, err := rep.Report(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Contains(t, buf.String(), "No files to check")
}

func TestTextReporter_WithProblems(t *testing.T) {
	var buf bytes.Buffer
	rep := reporter.NewTextReporter(reporter.Options{
		Writer:      &buf,
		Color:       "never",
		ShowSummary: true,
		ShowContext: true,
	})

	count, err := rep.Report(context.Background(), createTestResult())
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	output := buf.String()
	assert.Contains(t, output, "src/Broken.php:3")
	assert.Contains(t, output, "syntax error, unexpected ';'")
	assert.Contains(t, output, "(syntax-error)")
	assert.Contains(t, output, "        foo(;\n")
	assert.Contains(t, output, "src/Crash.php")
	assert.Contains(t, output, "(parser-failure)")
	assert.NotContains(t, output, "src/Ok.php")
	assert.Contains(t, output, "1 syntax error, 1 failure in 3 files")
}

func TestTextReporter_Verbose(t *testing.T) {
	var buf bytes.Buffer
	rep := reporter.NewTextReporter(reporter.Options{Writer: &buf, Color: "never", Verbose: true})

	_, err := rep.Report(context.Background(), createTestResult())
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "src/Ok.php (12 nodes, 30 tokens, 4 lines)")
}

func TestTextReporter_RelativePaths(t *testing.T) {
	root := filepath.Join(string(filepath.Separator), "work")

	var buf bytes.Buffer
	rep := reporter.NewTextReporter(reporter.Options{Writer: &buf, Color: "never", WorkingDir: root})

	result := &runner.Result{Files: []runner.FileOutcome{{
		Path:   filepath.Join(root, "lib", "a.php"),
		Syntax: &xhpast.SyntaxError{Line: 1, Message: "syntax error"},
	}}}

	_, err := rep.Report(context.Background(), result)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "lib/a.php:1")
	assert.NotContains(t, buf.String(), root)
}

func TestTableReporter(t *testing.T) {
	var buf bytes.Buffer
	rep := reporter.NewTableReporter(reporter.Options{Writer: &buf, Color: "never", ShowSummary: true})

	count, err := rep.Report(context.Background(), createTestResult())
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	output := buf.String()
	assert.Contains(t, output, "FILE")
	assert.Contains(t, output, "src/Ok.php")
	assert.Contains(t, output, "line 3: syntax error")
	assert.Contains(t, output, "1 files parsed")
}

func TestJSONReporter_NilResult(t *testing.T) {
	var buf bytes.Buffer
	rep := reporter.NewJSONReporter(reporter.Options{Writer: &buf})

	count, err := rep.Report(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	// Should still produce valid JSON
	var output reporter.JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &output))
	assert.Equal(t, "1.0.0", output.Version)
	assert.Empty(t, output.Files)
}

func TestJSONReporter_WithProblems(t *testing.T) {
	var buf bytes.Buffer
	rep := reporter.NewJSONReporter(reporter.Options{Writer: &buf})

	count, err := rep.Report(context.Background(), createTestResult())
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	var output reporter.JSONOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &output))
	require.Len(t, output.Files, 3)

	ok, broken, crash := output.Files[0], output.Files[1], output.Files[2]

	assert.Equal(t, "ok", ok.Status)
	assert.Equal(t, 12, ok.Nodes)
	assert.True(t, ok.Tiled)
	assert.InDelta(t, 1.5, ok.DurationMS, 0.001)

	assert.Equal(t, "syntax-error", broken.Status)
	require.NotNil(t, broken.SyntaxError)
	assert.Equal(t, 3, broken.SyntaxError.Line)
	assert.Equal(t, "    foo(;", broken.SyntaxError.SourceLine)

	assert.Equal(t, "failed", crash.Status)
	assert.Contains(t, crash.Error, "exit 139")

	assert.Equal(t, 3, output.Summary.FilesDiscovered)
	assert.Equal(t, 1, output.Summary.FilesWithSyntaxErrors)
	assert.Equal(t, 12, output.Summary.Nodes)
}

func TestJSONReporter_Compact(t *testing.T) {
	var buf bytes.Buffer
	rep := reporter.NewJSONReporter(reporter.Options{Writer: &buf, Compact: true})

	_, err := rep.Report(context.Background(), createTestResult())
	require.NoError(t, err)

	// Compact output should be a single line
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 1)
}

func TestSARIFReporter(t *testing.T) {
	var buf bytes.Buffer
	opts := reporter.DefaultOptions()
	opts.Writer = &buf
	opts.ToolVersion = "1.2.3"

	count, err := reporter.NewSARIFReporter(opts).Report(context.Background(), createTestResult())
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	var output reporter.SARIFOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &output))
	assert.Equal(t, "2.1.0", output.Version)
	require.Len(t, output.Runs, 1)

	run := output.Runs[0]
	assert.Equal(t, "phpast", run.Tool.Driver.Name)
	assert.Equal(t, "1.2.3", run.Tool.Driver.Version)
	assert.Len(t, run.Tool.Driver.Rules, 2)

	require.Len(t, run.Results, 2)
	syntax := run.Results[0]
	assert.Equal(t, "syntax-error", syntax.RuleID)
	assert.Equal(t, "error", syntax.Level)
	require.NotNil(t, syntax.Locations[0].PhysicalLocation.Region)
	assert.Equal(t, 3, syntax.Locations[0].PhysicalLocation.Region.StartLine)
	assert.Equal(t, 5, syntax.Locations[0].PhysicalLocation.Region.StartColumn)

	failure := run.Results[1]
	assert.Equal(t, "parser-failure", failure.RuleID)
	assert.Nil(t, failure.Locations[0].PhysicalLocation.Region)
}

func TestSARIFReporter_NilResult(t *testing.T) {
	var buf bytes.Buffer
	count, err := reporter.NewSARIFReporter(reporter.Options{Writer: &buf}).Report(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Contains(t, buf.String(), `"results": []`)
}

// createTestResult returns one clean file, one syntax error and one failure.
func createTestResult() *runner.Result {
	return &runner.Result{
		Files: []runner.FileOutcome{
			{
				Path:     "src/Ok.php",
				Nodes:    12,
				Tokens:   30,
				Lines:    4,
				Tiled:    true,
				Duration: 1500 * time.Microsecond,
			},
			{
				Path:       "src/Broken.php",
				Syntax:     &xhpast.SyntaxError{Line: 3, Message: "syntax error, unexpected ';'"},
				SourceLine: "    foo(;",
			},
			{
				Path:  "src/Crash.php",
				Error: &xhpast.InfrastructureError{ExitCode: 139, Stderr: "segmentation fault"},
			},
		},
		Stats: runner.Stats{
			FilesDiscovered:       3,
			FilesParsed:           1,
			FilesWithSyntaxErrors: 1,
			FilesErrored:          1,
			NodesTotal:            12,
			TokensTotal:           30,
			LinesTotal:            4,
		},
	}
}
