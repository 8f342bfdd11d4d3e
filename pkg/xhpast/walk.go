package xhpast

// WalkFunc is the function signature for Walk callbacks.
// Return a non-nil error to stop the walk.
type WalkFunc func(n *Node) error

// Walk performs a pre-order traversal starting at root.
// If walkFunc returns a non-nil error, the walk stops and returns it.
func Walk(root *Node, walkFunc WalkFunc) error {
	if root == nil {
		return nil
	}

	if err := walkFunc(root); err != nil {
		return err
	}

	for _, child := range root.Children() {
		if err := Walk(child, walkFunc); err != nil {
			return err
		}
	}

	return nil
}

// FindAll returns all nodes under and including root that match predicate.
func FindAll(root *Node, predicate func(n *Node) bool) []*Node {
	var result []*Node

	//nolint:errcheck,revive // Walk only returns nil errors in this usage
	Walk(root, func(node *Node) error {
		if predicate(node) {
			result = append(result, node)
		}
		return nil
	})

	return result
}

// FindFirst returns the first node in pre-order matching predicate, or nil.
func FindFirst(root *Node, predicate func(n *Node) bool) *Node {
	var found *Node

	//nolint:errcheck,revive // errStopWalk is expected and intentionally ignored
	Walk(root, func(node *Node) error {
		if predicate(node) {
			found = node
			return errStopWalk
		}
		return nil
	})

	return found
}

// SelectDescendantsOfType returns every descendant of n (not n itself) whose
// type is typ, in pre-order.
func (n *Node) SelectDescendantsOfType(typ string) []*Node {
	var result []*Node
	for _, child := range n.Children() {
		result = append(result, FindAll(child, func(node *Node) bool {
			return node.Type == typ
		})...)
	}
	return result
}

// SelectChildrenOfType returns the direct children of n whose type is typ.
func (n *Node) SelectChildrenOfType(typ string) []*Node {
	var result []*Node
	for _, child := range n.Children() {
		if child.Type == typ {
			result = append(result, child)
		}
	}
	return result
}

// errStopWalk is a sentinel error used to stop walking early.
var errStopWalk = &stopWalkError{}

type stopWalkError struct{}

func (e *stopWalkError) Error() string {
	return "stop walk"
}
