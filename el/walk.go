package el

// Visitor is called by Walk for each node. If Visit returns a non-nil visitor
// for a *Root, Walk visits the root's body with it.
type Visitor interface {
	Visit(node Node) (w Visitor)
}

// Walk traverses nodes in document order.
func Walk(v Visitor, nodes *Nodes) {
	if nodes == nil {
		return
	}

	for _, node := range nodes.Items {
		w := v.Visit(node)
		if w == nil {
			continue
		}

		if root, ok := node.(*Root); ok {
			Walk(w, root.Body)
		}
	}
}

type inspector func(Node) bool

func (f inspector) Visit(node Node) Visitor {
	if f(node) {
		return f
	}

	return nil
}

// Inspect traverses nodes in document order, calling f for each node. When f
// returns true for a *Root, Inspect descends into its body.
func Inspect(nodes *Nodes, f func(Node) bool) {
	Walk(inspector(f), nodes)
}

// Functions returns every function call site in document order.
func Functions(nodes *Nodes) []*Function {
	var functions []*Function

	Inspect(nodes, func(node Node) bool {
		if fn, ok := node.(*Function); ok {
			functions = append(functions, fn)
		}

		return true
	})

	return functions
}
