// Package el structures text that mixes template literals with ${...} and
// #{...} expression language blocks.
//
// Parse produces a Nodes sequence: *Text for literal runs and *Root for each
// expression. A Root body holds *ELText runs and *Function call sites. Render
// turns a sequence back into source-equivalent text.
package el

import (
	"fmt"

	"github.com/shibukawa/snappage"
	"github.com/shibukawa/snappage/message"
)

// Node is one of *Text, *Root, *ELText or *Function.
type Node interface {
	elNode()
}

// Text is template text outside any expression, with EL escapes resolved.
type Text struct {
	Text string
}

// Root is one ${...} or #{...} block.
type Root struct {
	Body *Nodes
	Type rune // '$' or '#'
}

// ELText is expression text that is not a function call.
type ELText struct {
	Text string
}

// Function is a prefix:name( call site. The argument list is not parsed; it
// follows as ordinary expression nodes.
type Function struct {
	Prefix       string
	Name         string
	OriginalText string // source text up to, not including, '('

	// Filled by Resolve
	URI        string
	ClassName  string
	MethodName string
	Parameters []string
	Resolved   bool
}

func (*Text) elNode()     {}
func (*Root) elNode()     {}
func (*ELText) elNode()   {}
func (*Function) elNode() {}

// QualifiedName returns "prefix:name" (":name" when there is no prefix).
func (f *Function) QualifiedName() string {
	return f.Prefix + ":" + f.Name
}

// Nodes is an ordered node sequence.
type Nodes struct {
	Items    []Node
	mapName  string
	messages *message.Catalog
}

// NewNodes creates a sequence holding items
func NewNodes(items ...Node) *Nodes {
	return &Nodes{Items: items}
}

// Add appends a node
func (n *Nodes) Add(node Node) {
	n.Items = append(n.Items, node)
}

// Len returns the number of top-level nodes
func (n *Nodes) Len() int {
	if n == nil {
		return 0
	}

	return len(n.Items)
}

// IsEmpty reports whether the sequence has no nodes
func (n *Nodes) IsEmpty() bool {
	return n.Len() == 0
}

// ContainsExpression reports whether the sequence holds at least one Root.
func (n *Nodes) ContainsExpression() bool {
	if n == nil {
		return false
	}

	for _, item := range n.Items {
		if _, ok := item.(*Root); ok {
			return true
		}
	}

	return false
}

// MapName returns the function map identifier assigned by the function mapper.
func (n *Nodes) MapName() string {
	return n.mapName
}

// SetMapName assigns the function map identifier. It can be set once;
// assigning the same name again is a no-op.
func (n *Nodes) SetMapName(name string) error {
	if n.mapName != "" && n.mapName != name {
		msg := n.messages.Message(message.FunctionMapAlreadyAssign, name, n.mapName)
		return fmt.Errorf("%w: %s", snappage.ErrMapNameAlreadySet, msg)
	}

	n.mapName = name

	return nil
}
