package cli

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"text/template"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/yaklabco/phpast/internal/configloader"
	"github.com/yaklabco/phpast/internal/ui/pretty"
)

// HelpFormatter renders Cobra help with lipgloss styling. The root
// command's help also lists exit statuses and PHPAST_* variables.
type HelpFormatter struct {
	heading lipgloss.Style
	command lipgloss.Style
	flag    lipgloss.Style
	dim     lipgloss.Style
}

// NewHelpFormatter creates a help formatter for the given color mode.
func NewHelpFormatter(colorMode string, writer io.Writer) *HelpFormatter {
	if !pretty.IsColorEnabled(colorMode, writer) {
		plain := lipgloss.NewStyle()
		return &HelpFormatter{heading: plain, command: plain, flag: plain, dim: plain}
	}
	return &HelpFormatter{
		heading: lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		command: lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
		flag:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		dim:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

const usageTemplate = `{{ heading "Usage:" }}
{{- if .Runnable}}
  {{ command .UseLine }}{{end}}
{{- if .HasAvailableSubCommands}}
  {{ command .CommandPath }} [command]{{end}}

{{- if .HasAvailableSubCommands}}

{{ heading "Commands:" }}{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{ command (rpad .Name .NamePadding) }} {{ .Short }}{{end}}{{end}}
{{- end}}

{{- if .HasAvailableLocalFlags}}

{{ heading "Flags:" }}
{{ flags .LocalFlags }}
{{- end}}

{{- if .HasAvailableInheritedFlags}}

{{ heading "Global Flags:" }}
{{ flags .InheritedFlags }}
{{- end}}

{{- if not .HasParent}}

{{ heading "Exit Status:" }}
{{ exitStatus }}

{{ heading "Environment:" }}
{{ environment }}
{{- end}}

{{- if .HasAvailableSubCommands}}

Use "{{ command (print .CommandPath " [command] --help") }}" for more information about a command.
{{- end}}
`

const helpTemplate = `{{ command .CommandPath }}{{if .Version}} {{ dim .Version }}{{end}}

{{with (or .Long .Short)}}{{ trimRight . }}

{{end}}` + usageTemplate

func (h *HelpFormatter) funcs() template.FuncMap {
	return template.FuncMap{
		"heading":     h.heading.Render,
		"command":     h.command.Render,
		"dim":         h.dim.Render,
		"flags":       h.formatFlags,
		"exitStatus":  h.exitStatus,
		"environment": h.environment,
		"rpad": func(s string, width int) string {
			return fmt.Sprintf("%-*s", width, s)
		},
		"trimRight": func(s string) string {
			lines := strings.Split(s, "\n")
			for i, line := range lines {
				lines[i] = strings.TrimRight(line, " \t")
			}
			return strings.Join(lines, "\n")
		},
	}
}

// formatFlags colors the flag names in pflag's usage block, dimming the
// value type and leaving the description alone.
func (h *HelpFormatter) formatFlags(flags interface{ FlagUsages() string }) string {
	lines := strings.Split(strings.TrimRight(flags.FlagUsages(), "\n"), "\n")
	for i, line := range lines {
		// pflag separates the flag column from the description with 3+ spaces.
		column, desc, found := strings.Cut(strings.TrimLeft(line, " "), "   ")
		if !found {
			continue
		}
		var styled []string
		for _, field := range strings.Fields(column) {
			if name, ok := strings.CutSuffix(field, ","); ok {
				styled = append(styled, h.flag.Render(name)+",")
			} else if strings.HasPrefix(field, "-") {
				styled = append(styled, h.flag.Render(field))
			} else {
				styled = append(styled, h.dim.Render(field))
			}
		}
		lines[i] = "  " + strings.Join(styled, " ") + "   " + strings.TrimLeft(desc, " ")
	}
	return strings.Join(lines, "\n")
}

func (h *HelpFormatter) exitStatus() string {
	rows := []struct {
		code int
		text string
	}{
		{ExitSuccess, "every file parsed"},
		{ExitSyntaxErrors, "syntax errors found"},
		{ExitInvalidUsage, "invalid usage"},
		{ExitConfigError, "invalid configuration"},
		{ExitParserFailure, "xhpast could not be run or misbehaved"},
		{ExitIOError, "input or output error"},
	}
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, fmt.Sprintf("  %-3d %s", row.code, row.text))
	}
	return strings.Join(lines, "\n")
}

func (h *HelpFormatter) environment() string {
	vars := configloader.ListEnvVars()
	names := make([]string, 0, len(vars))
	width := 0
	for name := range vars {
		names = append(names, name)
		width = max(width, len(name))
	}
	slices.Sort(names)

	lines := make([]string, 0, len(names))
	for _, name := range names {
		lines = append(lines, "  "+h.flag.Render(fmt.Sprintf("%-*s", width, name))+"   "+vars[name])
	}
	return strings.Join(lines, "\n")
}

// ApplyToCommand installs the styled help on cmd; subcommands inherit it.
func (h *HelpFormatter) ApplyToCommand(cmd *cobra.Command) {
	funcs := h.funcs()

	render := func(name, text string, w io.Writer, command *cobra.Command) error {
		tmpl, err := template.New(name).Funcs(funcs).Parse(text)
		if err != nil {
			return fmt.Errorf("parse %s template: %w", name, err)
		}
		return tmpl.Execute(w, command)
	}

	cmd.SetUsageFunc(func(command *cobra.Command) error {
		return render("usage", usageTemplate, command.OutOrStderr(), command)
	})
	cmd.SetHelpFunc(func(command *cobra.Command, _ []string) {
		if err := render("help", helpTemplate, command.OutOrStdout(), command); err != nil {
			command.PrintErrln(err)
		}
	})
}
