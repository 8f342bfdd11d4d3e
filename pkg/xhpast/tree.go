// Package xhpast builds navigable syntax trees from the output of the XHPAST
// PHP parser. It provides:
//   - Classify: splits a parser run into success, syntax error, or infrastructure failure
//   - Tree: the indexed node and token tables, plus a lazy offset-to-line index
//   - EvalStaticString: parses a one-statement fragment and evaluates it statically
//
// The package performs no I/O; running the parser belongs to an Invoker.
package xhpast

import (
	"strings"
)

// Tree owns every Node and Token produced from one parser run.
// A Tree is immutable after construction except for Dispose, and is safe for
// concurrent reads as long as Dispose is not called concurrently.
type Tree struct {
	source   []byte
	nodes    []Node
	tokens   []Token
	lines    *LineIndex
	disposed bool
}

// newTree materializes tokens, then nodes, from a decoded payload.
func newTree(source []byte, payload *Payload) (*Tree, error) {
	tree := &Tree{
		source: source,
		lines:  NewLineIndex(source),
	}

	tokens, err := materializeTokens(payload.stream, source, tree)
	if err != nil {
		return nil, err
	}
	tree.tokens = tokens

	b := newBuilder(tree, payload.NodeCount(), len(tokens))
	if _, err := b.build(payload.tree); err != nil {
		return nil, err
	}
	tree.nodes = b.nodes

	return tree, nil
}

// Root returns the root node.
// It fails with a UsageError if the tree is empty or has been disposed.
func (t *Tree) Root() (*Node, error) {
	if t.disposed {
		return nil, &UsageError{Op: "root", Err: ErrDisposed}
	}
	if len(t.nodes) == 0 {
		return nil, &UsageError{Op: "root", Err: ErrEmptyTree}
	}
	return &t.nodes[0], nil
}

// Tokens returns the raw token stream in order.
// The returned slice is shared and must not be modified.
func (t *Tree) Tokens() ([]Token, error) {
	if t.disposed {
		return nil, &UsageError{Op: "tokens", Err: ErrDisposed}
	}
	return t.tokens, nil
}

// Node returns the node with the given identity, or nil.
func (t *Tree) Node(id int) *Node {
	if id < 0 || id >= len(t.nodes) {
		return nil
	}
	return &t.nodes[id]
}

func (t *Tree) token(id int) *Token {
	if id < 0 || id >= len(t.tokens) {
		return nil
	}
	return &t.tokens[id]
}

// NodeCount returns the size of the node table.
func (t *Tree) NodeCount() int {
	return len(t.nodes)
}

// TokenCount returns the size of the token table.
func (t *Tree) TokenCount() int {
	return len(t.tokens)
}

// Source returns the raw source text the tree was built from.
func (t *Tree) Source() []byte {
	return t.source
}

// Dispose releases the node and token tables. The tree stays valid to hold,
// but Root and Tokens fail afterward. Calling Dispose more than once is a no-op.
func (t *Tree) Dispose() {
	t.nodes = nil
	t.tokens = nil
	t.disposed = true
}

// Disposed reports whether Dispose has been called.
func (t *Tree) Disposed() bool {
	return t.disposed
}

// OffsetToLineNumberMap returns the offset-to-line table for the source.
// It is computed on first call and shared afterward.
func (t *Tree) OffsetToLineNumberMap() []int {
	return t.lines.Map()
}

// LineAt returns the 1-based line of a byte offset.
func (t *Tree) LineAt(offset int) (int, bool) {
	return t.lines.LineAt(offset)
}

// LineCount returns the number of source lines.
func (t *Tree) LineCount() int {
	return t.lines.LineCount()
}

// LineContent returns a 1-based source line without its line ending.
func (t *Tree) LineContent(line int) []byte {
	return t.lines.LineContent(line)
}

// RenderAsText renders the tree depth-first, one node per line, indenting
// two spaces per level. The output is for debugging and cannot be parsed back.
func (t *Tree) RenderAsText() (string, error) {
	root, err := t.Root()
	if err != nil {
		return "", err
	}

	var b strings.Builder
	renderNodes(&b, []*Node{root}, 0)
	return b.String(), nil
}

func renderNodes(b *strings.Builder, nodes []*Node, depth int) {
	for _, node := range nodes {
		b.WriteString(strings.Repeat("  ", depth))
		b.WriteString(node.Description())
		b.WriteByte('\n')
		renderNodes(b, node.Children(), depth+1)
	}
}
