package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/phpast/pkg/xhpast"
)

// FormatTree renders a node and its descendants one per line, two spaces
// of indent per level. Without color it matches Tree.RenderAsText.
func (s *Styles) FormatTree(root *xhpast.Node) string {
	var builder strings.Builder
	s.formatNode(&builder, root, 0)
	return builder.String()
}

func (s *Styles) formatNode(builder *strings.Builder, node *xhpast.Node, depth int) {
	builder.WriteString(strings.Repeat("  ", depth))
	builder.WriteString(node.DescribeStyled(
		func(typ string) string { return s.NodeType.Render(typ) },
		func(value string) string { return s.NodeValue.Render(value) },
		func(token string) string { return s.TokenText.Render(token) },
	))
	builder.WriteString("\n")

	for _, child := range node.Children() {
		s.formatNode(builder, child, depth+1)
	}
}

// FormatTokens renders one token per line as "id kind line:offset text".
func (s *Styles) FormatTokens(tokens []xhpast.Token) string {
	var builder strings.Builder
	idWidth := len(strconv.Itoa(len(tokens)))

	for _, tok := range tokens {
		location := fmt.Sprintf("%d:%d", tok.LineNumber(), tok.Offset)
		builder.WriteString(fmt.Sprintf("%*d  %s  %s  %s\n",
			idWidth, tok.ID,
			s.TokenKind.Render(tok.Kind),
			s.Location.Render(location),
			s.TokenText.Render(strconv.Quote(tok.Text())),
		))
	}

	return builder.String()
}
