package xhpast

import "fmt"

// builder materializes node descriptions into a tree's node table.
type builder struct {
	tree       *Tree
	nodes      []Node
	tokenCount int
}

func newBuilder(tree *Tree, capacity, tokenCount int) *builder {
	return &builder{
		tree:       tree,
		nodes:      make([]Node, 0, capacity),
		tokenCount: tokenCount,
	}
}

// build allocates one node per sibling description, then descends into each
// node's children. A node's identity is fixed before any descendant is built,
// so every child can record a parent that already exists in the table.
// It returns the identities assigned to descs, in order.
func (b *builder) build(descs []nodeDescription) ([]int, error) {
	ids := make([]int, len(descs))

	// Assign.
	for i := range descs {
		desc := &descs[i]
		if desc.HasToken && (desc.TokenIndex < 0 || desc.TokenIndex >= b.tokenCount) {
			return nil, &InfrastructureError{
				Err: fmt.Errorf("%w: node %s references token %d, stream has %d",
					ErrTokenOutOfRange, desc.Type, desc.TokenIndex, b.tokenCount),
			}
		}

		id := len(b.nodes)
		tokenIndex := NoToken
		if desc.HasToken {
			tokenIndex = desc.TokenIndex
		}

		b.nodes = append(b.nodes, Node{
			ID:         id,
			Type:       desc.Type,
			Value:      desc.Value,
			HasValue:   desc.HasValue,
			TokenIndex: tokenIndex,
			ParentID:   NoParent,
			tree:       b.tree,
		})
		ids[i] = id
	}

	// Descend.
	for i := range descs {
		if !descs[i].HasChildren {
			continue
		}

		childIDs, err := b.build(descs[i].Children)
		if err != nil {
			return nil, err
		}

		for _, childID := range childIDs {
			b.nodes[childID].ParentID = ids[i]
		}
		b.nodes[ids[i]].ChildIDs = childIDs
	}

	return ids, nil
}
