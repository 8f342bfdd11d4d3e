package config

import (
	"fmt"
	"strings"
)

// ProjectFileName is the project configuration file written by `phpast init`.
const ProjectFileName = ".phpast.yml"

// DefaultTemplateHeader returns the default header for generated configs.
func DefaultTemplateHeader() string {
	return `# phpast configuration
# See: https://github.com/yaklabco/phpast`
}

// GenerateTemplate creates a commented configuration file.
// With full set every option is written out with its default value;
// otherwise the options are listed but commented out.
func GenerateTemplate(full bool) []byte {
	defaults := NewConfig()

	prefix := "# "
	if full {
		prefix = ""
	}

	var b strings.Builder
	b.WriteString(DefaultTemplateHeader())
	b.WriteString("\n\n")

	section := func(comment string, lines ...string) {
		b.WriteString("# " + comment + "\n")
		for _, line := range lines {
			b.WriteString(prefix + line + "\n")
		}
		b.WriteString("\n")
	}

	section("Parser executable, run once per file with the source on stdin",
		"parser:",
		"  binary: "+defaults.Parser.Binary,
		"  timeout: "+defaults.Parser.Timeout.String(),
	)
	section("In-memory cache of parser output, keyed by source hash",
		"cache:",
		"  enabled: true",
		fmt.Sprintf("  max_bytes: %d", defaults.Cache.MaxBytes),
	)
	section("File extensions treated as PHP",
		"extensions:",
		`  - ".php"`,
	)
	section("Glob patterns to skip",
		"ignore:",
		`  - "vendor/**"`,
		`  - "node_modules/**"`,
	)
	section("Also check extension-less scripts with a PHP shebang",
		"detect_shebang: false",
	)
	section("Skip vendored dependency directories",
		"skip_vendor: true",
	)
	section("Number of parallel workers (0 = one per CPU)",
		"jobs: 0",
	)
	section("Output format: text, table, json, or sarif",
		"format: text",
	)

	return []byte(strings.TrimRight(b.String(), "\n") + "\n")
}
