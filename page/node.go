// Package page holds the node tree of one compilation unit after code
// generation: every node knows where it came from in the template source and
// which lines of the generated program it produced.
package page

import (
	"fmt"
	"path"
	"strings"

	"github.com/shibukawa/snappage/el"
)

// Kind identifies the syntactic element a node was parsed from.
type Kind int

const (
	KindRoot Kind = iota
	KindTemplateText
	KindScriptlet
	KindDeclaration
	KindScriptExpression
	KindELExpression
	KindCustomTag
	KindIncludeAction
	KindForwardAction
	KindUseBean
	KindSetProperty
	KindGetProperty
	KindComment
)

var kindNames = map[Kind]string{
	KindRoot:             "root",
	KindTemplateText:     "text",
	KindScriptlet:        "scriptlet",
	KindDeclaration:      "declaration",
	KindScriptExpression: "expression",
	KindELExpression:     "el",
	KindCustomTag:        "custom_tag",
	KindIncludeAction:    "include",
	KindForwardAction:    "forward",
	KindUseBean:          "use_bean",
	KindSetProperty:      "set_property",
	KindGetProperty:      "get_property",
	KindComment:          "comment",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}

	return "unknown"
}

// ParseKind returns the kind named name.
func ParseKind(name string) (Kind, error) {
	for kind, n := range kindNames {
		if n == name {
			return kind, nil
		}
	}

	return 0, fmt.Errorf("%w: %s", ErrUnknownKind, name)
}

// UnmarshalYAML reads a kind from its name
func (k *Kind) UnmarshalYAML(unmarshal func(any) error) error {
	var name string
	if err := unmarshal(&name); err != nil {
		return err
	}

	kind, err := ParseKind(strings.ToLower(strings.TrimSpace(name)))
	if err != nil {
		return err
	}

	*k = kind

	return nil
}

// MarshalYAML writes a kind as its name
func (k Kind) MarshalYAML() (any, error) {
	return k.String(), nil
}

// IsScript reports whether the node body is program text copied into the
// generated source verbatim.
func (k Kind) IsScript() bool {
	return k == KindScriptlet || k == KindDeclaration || k == KindScriptExpression
}

// Attribute is one attribute of an action or custom tag.
type Attribute struct {
	Name   string `yaml:"name"`
	Value  string `yaml:"value"`
	Quote  string `yaml:"quote,omitempty"`
	Line   int    `yaml:"line,omitempty"`
	Column int    `yaml:"column,omitempty"`

	// Unquoted value, set during analysis
	Unquoted string `yaml:"-"`
	// EL is set during analysis when the value holds an expression.
	EL *el.Nodes `yaml:"-"`
}

// QuoteChar returns the quote rune, 0 when the value was not quoted.
func (a *Attribute) QuoteChar() rune {
	for _, r := range a.Quote {
		return r
	}

	return 0
}

// Node is one element of the unit tree.
type Node struct {
	Kind Kind   `yaml:"kind"`
	Name string `yaml:"name,omitempty"`
	// File is the template file the node was read from. Empty means the file
	// of the parent node.
	File string `yaml:"file,omitempty"`
	Line int    `yaml:"line"`
	Text string `yaml:"text,omitempty"`

	// Generated lines, [BeginGeneratedLine, EndGeneratedLine). Zero when the node
	// produced no code.
	BeginGeneratedLine int `yaml:"begin"`
	EndGeneratedLine   int `yaml:"end"`

	// InnerScope names the nested generated scope the body of the node is
	// emitted into (a tag handler body, for example).
	InnerScope string `yaml:"inner_scope,omitempty"`

	Attributes []*Attribute `yaml:"attributes,omitempty"`
	Body       []*Node      `yaml:"body,omitempty"`

	// EL is the parsed expression of a KindELExpression node.
	EL *el.Nodes `yaml:"-"`

	parent *Node
}

// Parent returns the enclosing node, nil for the root.
func (n *Node) Parent() *Node {
	return n.parent
}

// SourceFile returns the file of the node, inherited from its ancestors.
func (n *Node) SourceFile() string {
	for node := n; node != nil; node = node.parent {
		if node.File != "" {
			return node.File
		}
	}

	return ""
}

// HasInnerScope reports whether the body of the node is generated into its
// own scope.
func (n *Node) HasInnerScope() bool {
	return n.InnerScope != ""
}

// Append adds children to the body of n.
func (n *Node) Append(children ...*Node) {
	for _, child := range children {
		child.parent = n
		n.Body = append(n.Body, child)
	}
}

// Unit is one compilation unit.
type Unit struct {
	// Artifact is the name of the generated program artifact, e.g. a class name.
	Artifact string `yaml:"artifact"`
	// Output is the file name of the generated program source.
	Output string `yaml:"output,omitempty"`
	// Prefixes binds function prefixes to library URIs.
	Prefixes map[string]string `yaml:"prefixes,omitempty"`
	Root     *Node             `yaml:"root"`
}

// OutputFileName returns Output, or the last element of Artifact with a .go
// extension when Output is empty.
func (u *Unit) OutputFileName() string {
	if u.Output != "" {
		return u.Output
	}

	return path.Base(u.Artifact) + ".go"
}

// link sets the parent pointers of the whole tree.
func (u *Unit) link() {
	if u.Root == nil {
		return
	}

	var visit func(n *Node)

	visit = func(n *Node) {
		for _, child := range n.Body {
			child.parent = n
			visit(child)
		}
	}

	u.Root.parent = nil
	visit(u.Root)
}
