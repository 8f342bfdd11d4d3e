package xhpast

import (
	"strconv"
	"strings"
)

// Sentinel identities for absent references.
const (
	NoToken  = -1
	NoParent = -1
)

// Node is one construct in the AST.
// Parent and child links are identities into the owning Tree's node table.
type Node struct {
	// ID is the node's identity, assigned in construction order.
	ID int

	// Type is the parser's node tag (e.g. "n_STATEMENT").
	Type string

	// Value is the literal value, meaningful only when HasValue is set.
	Value    string
	HasValue bool

	// TokenIndex is the anchored token's ID, or NoToken.
	TokenIndex int

	// ChildIDs lists the identities of the direct children, in source order.
	ChildIDs []int

	// ParentID is the parent's identity, or NoParent for the root.
	ParentID int

	tree *Tree
}

// Tree returns the tree that owns this node.
func (n *Node) Tree() *Tree {
	return n.tree
}

// IsRoot reports whether the node has no parent.
func (n *Node) IsRoot() bool {
	return n.ParentID == NoParent
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool {
	return len(n.ChildIDs) == 0
}

// Parent returns the parent node, or nil for the root or a disposed tree.
func (n *Node) Parent() *Node {
	if n.ParentID == NoParent {
		return nil
	}
	return n.tree.Node(n.ParentID)
}

// ChildCount returns the number of direct children.
func (n *Node) ChildCount() int {
	return len(n.ChildIDs)
}

// Child returns the i-th child, or nil if out of range.
func (n *Node) Child(i int) *Node {
	if i < 0 || i >= len(n.ChildIDs) {
		return nil
	}
	return n.tree.Node(n.ChildIDs[i])
}

// Children returns the direct children in order.
// It returns nil once the tree has been disposed.
func (n *Node) Children() []*Node {
	if len(n.ChildIDs) == 0 || n.tree.Disposed() {
		return nil
	}
	children := make([]*Node, 0, len(n.ChildIDs))
	for _, id := range n.ChildIDs {
		children = append(children, n.tree.Node(id))
	}
	return children
}

// Token returns the anchored token, or nil.
func (n *Node) Token() *Token {
	if n.TokenIndex == NoToken {
		return nil
	}
	return n.tree.token(n.TokenIndex)
}

// tokenSpan returns the lowest and highest token IDs anchored in this subtree.
func (n *Node) tokenSpan() (int, int) {
	first, last := NoToken, NoToken

	//nolint:errcheck,revive // Walk only returns nil errors in this usage
	Walk(n, func(node *Node) error {
		if node.TokenIndex == NoToken {
			return nil
		}
		if first == NoToken || node.TokenIndex < first {
			first = node.TokenIndex
		}
		if node.TokenIndex > last {
			last = node.TokenIndex
		}
		return nil
	})

	return first, last
}

// ConcreteString returns the source text spanned by the tokens in this subtree.
func (n *Node) ConcreteString() string {
	first, last := n.tokenSpan()
	if first == NoToken {
		return ""
	}
	start, end := n.tree.token(first), n.tree.token(last)
	if start == nil || end == nil {
		return ""
	}
	return string(n.tree.source[start.Offset:end.End()])
}

// LineNumber returns the line of the first token in this subtree, or 0 if none.
func (n *Node) LineNumber() int {
	first, _ := n.tokenSpan()
	if first == NoToken {
		return 0
	}
	tok := n.tree.token(first)
	if tok == nil {
		return 0
	}
	return tok.LineNumber()
}

// Description renders the node as a single line: its type, then its literal value
// if it has one, then the anchored token text in angle brackets. Line breaks in
// the token text are escaped so the description never spans lines.
func (n *Node) Description() string {
	return n.DescribeStyled(nil, nil, nil)
}

// DescribeStyled builds Description, passing the type, the quoted value and the
// bracketed token text through the given functions. A nil function leaves its
// piece unchanged.
func (n *Node) DescribeStyled(typ, value, token func(string) string) string {
	var b strings.Builder
	b.WriteString(apply(typ, n.Type))
	if n.HasValue {
		b.WriteByte(' ')
		b.WriteString(apply(value, strconv.Quote(n.Value)))
	}
	if tok := n.Token(); tok != nil {
		b.WriteByte(' ')
		b.WriteString(apply(token, "<"+lineBreakEscaper.Replace(tok.Text())+">"))
	}
	return b.String()
}

var lineBreakEscaper = strings.NewReplacer("\r", `\r`, "\n", `\n`)

func apply(style func(string) string, s string) string {
	if style == nil {
		return s
	}
	return style(s)
}
