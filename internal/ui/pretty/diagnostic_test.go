package pretty_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yaklabco/phpast/internal/ui/pretty"
	"github.com/yaklabco/phpast/pkg/xhpast"
)

func TestFormatSyntaxError_Basic(t *testing.T) {
	styles := pretty.NewStyles(false)

	syntaxErr := &xhpast.SyntaxError{Line: 10, Message: "syntax error, unexpected ')'"}
	result := styles.FormatSyntaxError("src/App.php", syntaxErr, false, "")

	assert.Contains(t, result, "src/App.php:10")
	assert.Contains(t, result, "error")
	assert.Contains(t, result, "syntax error, unexpected ')'")
	assert.Contains(t, result, "("+pretty.KindSyntax+")")
	assert.NotContains(t, result, "^")
}

func TestFormatSyntaxError_WithContext(t *testing.T) {
	styles := pretty.NewStyles(false)

	syntaxErr := &xhpast.SyntaxError{Line: 3, Message: "syntax error"}
	result := styles.FormatSyntaxError("a.php", syntaxErr, true, "    foo(;")

	lines := strings.Split(strings.TrimSuffix(result, "\n"), "\n")
	assert.Len(t, lines, 3)
	assert.Equal(t, "            foo(;", lines[1])
	assert.Equal(t, "            ^", lines[2])
}

func TestFormatFailure(t *testing.T) {
	styles := pretty.NewStyles(false)

	result := styles.FormatFailure("a.php", errors.New("xhpast failed (exit 139)"))
	assert.Contains(t, result, "a.php")
	assert.Contains(t, result, "exit 139")
	assert.Contains(t, result, "("+pretty.KindFailure+")")
}

func TestFormatSourceContext_WithCaret(t *testing.T) {
	styles := pretty.NewStyles(false)

	result := styles.FormatSourceContext("test line", 5)

	lines := strings.Split(result, "\n")
	assert.GreaterOrEqual(t, len(lines), 2)
	assert.Equal(t, "            ^", lines[1])
}

func TestFormatSourceContext_ZeroColumn(t *testing.T) {
	styles := pretty.NewStyles(false)

	result := styles.FormatSourceContext("test line", 0)

	assert.Contains(t, result, "test line")
	assert.NotContains(t, result, "^")
}

func TestFirstColumn(t *testing.T) {
	assert.Equal(t, 1, pretty.FirstColumn("echo 1;"))
	assert.Equal(t, 3, pretty.FirstColumn("\t\techo 1;"))
	assert.Equal(t, 0, pretty.FirstColumn("   "))
	assert.Equal(t, 0, pretty.FirstColumn(""))
}

func TestFormatFileHeader(t *testing.T) {
	styles := pretty.NewStyles(false)

	assert.Equal(t, "src/App.php (42 nodes)", styles.FormatFileHeader("src/App.php", "42 nodes"))
	assert.Equal(t, "src/App.php", styles.FormatFileHeader("src/App.php", ""))
}
