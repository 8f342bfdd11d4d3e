package runner

import "github.com/yaklabco/phpast/pkg/xhpast"

// Histogram counts what one tree is made of.
type Histogram struct {
	// NodeTypes maps each node type to its number of occurrences.
	NodeTypes map[string]int

	// TokenKinds maps each token kind to its number of occurrences.
	TokenKinds map[string]int

	// MaxDepth is the depth of the deepest node; the root is depth 0.
	MaxDepth int
}

func histogram(tree *xhpast.Tree, tokens []xhpast.Token) *Histogram {
	hist := &Histogram{
		NodeTypes:  make(map[string]int),
		TokenKinds: make(map[string]int),
	}

	// A parent's ID is always lower than its children's.
	depth := make([]int, tree.NodeCount())
	for id := range depth {
		node := tree.Node(id)
		hist.NodeTypes[node.Type]++
		if node.ParentID != xhpast.NoParent {
			depth[id] = depth[node.ParentID] + 1
			hist.MaxDepth = max(hist.MaxDepth, depth[id])
		}
	}

	for i := range tokens {
		hist.TokenKinds[tokens[i].Kind]++
	}

	return hist
}
