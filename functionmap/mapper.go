// Package functionmap assigns function map declarations to the expressions of
// a compilation unit. Expressions that call the same functions of the same
// libraries share one declaration.
package functionmap

import (
	"fmt"
	"strconv"

	"github.com/shibukawa/snappage/el"
	"github.com/shibukawa/snappage/page"
	"github.com/sirupsen/logrus"
)

// DefaultPrefix is the prefix of generated map names
const DefaultPrefix = "_fnmap_"

// Binding is one function registered in a map.
type Binding struct {
	QualifiedName string
	URI           string
	ClassName     string
	MethodName    string
	Parameters    []string
	// Resolved is false for functions without a library binding; they are
	// registered with empty values and looked up at run time.
	Resolved bool
}

// Declaration is one generated function map.
type Declaration struct {
	Name     string
	Bindings []Binding
}

// IsSingle reports whether the map holds exactly one function and can be
// created with a single lookup call.
func (d Declaration) IsSingle() bool {
	return len(d.Bindings) == 1
}

// Mapper allocates function maps for one compilation unit.
type Mapper struct {
	// Prefix of generated map names, DefaultPrefix when empty.
	Prefix string
	Logger logrus.FieldLogger

	declarations []Declaration
	// prefix:name:uri -> map name
	global map[string]string
}

// NewMapper creates a mapper for one compilation unit
func NewMapper(prefix string) *Mapper {
	if prefix == "" {
		prefix = DefaultPrefix
	}

	return &Mapper{
		Prefix: prefix,
		global: map[string]string{},
	}
}

// Declarations returns the declarations allocated so far
func (m *Mapper) Declarations() []Declaration {
	return m.declarations
}

// Map visits every expression of the unit in document order: attribute values
// of each node first, then the expression of the node, then its body.
func (m *Mapper) Map(unit *page.Unit) ([]Declaration, error) {
	var err error

	page.Inspect(unit.Root, func(n *page.Node) bool {
		if err != nil {
			return false
		}

		for _, attr := range n.Attributes {
			if err = m.MapExpression(attr.EL); err != nil {
				return false
			}
		}

		if err = m.MapExpression(n.EL); err != nil {
			return false
		}

		return true
	})

	if err != nil {
		return nil, err
	}

	return m.declarations, nil
}

// MapExpression assigns a map name to nodes if they call any function.
func (m *Mapper) MapExpression(nodes *el.Nodes) error {
	if nodes == nil {
		return nil
	}

	functions := uniqueFunctions(nodes)
	if len(functions) == 0 {
		return nil
	}

	if name, ok := m.match(functions); ok {
		m.logger().WithField("map", name).Debug("reusing function map")
		return nodes.SetMapName(name)
	}

	decl := Declaration{Name: m.Prefix + strconv.Itoa(len(m.declarations))}

	for _, fn := range functions {
		decl.Bindings = append(decl.Bindings, Binding{
			QualifiedName: fn.QualifiedName(),
			URI:           fn.URI,
			ClassName:     fn.ClassName,
			MethodName:    fn.MethodName,
			Parameters:    fn.Parameters,
			Resolved:      fn.Resolved,
		})

		m.global[globalKey(fn)] = decl.Name
	}

	m.declarations = append(m.declarations, decl)

	m.logger().WithFields(logrus.Fields{
		"map":       decl.Name,
		"functions": len(decl.Bindings),
	}).Debug("allocated function map")

	if err := nodes.SetMapName(decl.Name); err != nil {
		return fmt.Errorf("failed to assign %s: %w", decl.Name, err)
	}

	return nil
}

// match returns the map every function is already registered in, if any.
func (m *Mapper) match(functions []*el.Function) (string, bool) {
	var name string

	for _, fn := range functions {
		found, ok := m.global[globalKey(fn)]
		if !ok {
			return "", false
		}

		if name == "" {
			name = found
		} else if found != name {
			return "", false
		}
	}

	return name, true
}

func (m *Mapper) logger() logrus.FieldLogger {
	if m.Logger == nil {
		return logrus.StandardLogger()
	}

	return m.Logger
}

func globalKey(fn *el.Function) string {
	return fn.QualifiedName() + ":" + fn.URI
}

// uniqueFunctions returns the first call site of every prefix:name in nodes.
func uniqueFunctions(nodes *el.Nodes) []*el.Function {
	seen := map[string]struct{}{}

	var functions []*el.Function

	for _, fn := range el.Functions(nodes) {
		key := fn.QualifiedName()
		if _, ok := seen[key]; ok {
			continue
		}

		seen[key] = struct{}{}
		functions = append(functions, fn)
	}

	return functions
}
