package page

// Visitor receives the nodes of a tree. Leave is called after the body of
// the node has been visited.
type Visitor interface {
	Enter(n *Node) error
	Leave(n *Node) error
}

// Walk visits n and its body depth first.
func Walk(n *Node, v Visitor) error {
	if n == nil {
		return nil
	}

	if err := v.Enter(n); err != nil {
		return err
	}

	for _, child := range n.Body {
		if err := Walk(child, v); err != nil {
			return err
		}
	}

	return v.Leave(n)
}

// Inspect calls f for n and its descendants in document order. Returning
// false skips the body of the node.
func Inspect(n *Node, f func(*Node) bool) {
	if n == nil || !f(n) {
		return
	}

	for _, child := range n.Body {
		Inspect(child, f)
	}
}
