package fnmap

import (
	"fmt"
	"reflect"
	"strings"
)

// Function is one qualified name bound to a class and method
type Function struct {
	QualifiedName string
	ClassName     string
	MethodName    string
	Parameters    []string

	registry *Registry
}

// Call invokes the registered implementation. A function returning
// (value, error) has its error returned.
func (f *Function) Call(args ...any) (any, error) {
	impl, err := f.resolve()
	if err != nil {
		return nil, err
	}

	fnType := impl.Type()
	if !fnType.IsVariadic() && len(args) != fnType.NumIn() {
		return nil, fmt.Errorf("%w: %s takes %d, got %d", ErrArgumentCount, f.QualifiedName, fnType.NumIn(), len(args))
	}

	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		if arg == nil {
			in[i] = reflect.Zero(argType(fnType, i))
		} else {
			in[i] = reflect.ValueOf(arg)
		}
	}

	out := impl.Call(in)

	switch len(out) {
	case 0:
		return nil, nil
	case 1:
		return out[0].Interface(), nil
	default:
		if err, ok := out[len(out)-1].Interface().(error); ok && err != nil {
			return nil, err
		}

		return out[0].Interface(), nil
	}
}

func (f *Function) resolve() (reflect.Value, error) {
	registry := f.registry
	if registry == nil {
		registry = GetGlobalRegistry()
	}

	impl, ok := registry.Lookup(f.ClassName, f.MethodName)
	if !ok {
		return reflect.Value{}, fmt.Errorf("%w: %s (%s.%s)", ErrFunctionNotRegistered, f.QualifiedName, f.ClassName, f.MethodName)
	}

	if f.Parameters != nil && !impl.Type().IsVariadic() && impl.Type().NumIn() != len(f.Parameters) {
		return reflect.Value{}, fmt.Errorf("%w: %s declares %d", ErrParameterCount, f.QualifiedName, len(f.Parameters))
	}

	return impl, nil
}

func argType(fnType reflect.Type, i int) reflect.Type {
	if fnType.IsVariadic() && i >= fnType.NumIn()-1 {
		return fnType.In(fnType.NumIn() - 1).Elem()
	}

	return fnType.In(i)
}

// Mapper resolves the functions called by one expression
type Mapper struct {
	registry  *Registry
	functions map[string]*Function
	// single is set by MapForFunction
	single *Function
}

// NewMapper creates a mapper for an expression that calls several functions
func NewMapper() *Mapper {
	return &Mapper{functions: make(map[string]*Function)}
}

// MapForFunction creates a mapper for an expression that calls exactly one
// function. It resolves that function whatever name is asked for. A binding
// with an empty qualified name was not resolved at compile time and yields a
// mapper that resolves nothing.
func MapForFunction(qualifiedName, className, methodName string, parameters []string) *Mapper {
	m := NewMapper()
	if qualifiedName == "" {
		return m
	}

	m.single = m.add(qualifiedName, className, methodName, parameters)

	return m
}

// WithRegistry makes m resolve implementations from registry instead of the
// global one.
func (m *Mapper) WithRegistry(registry *Registry) *Mapper {
	m.registry = registry

	for _, fn := range m.functions {
		fn.registry = registry
	}

	return m
}

// MapFunction adds a binding. Bindings of functions that could not be
// resolved at compile time have an empty qualified name and are ignored.
func (m *Mapper) MapFunction(qualifiedName, className, methodName string, parameters []string) {
	if qualifiedName == "" {
		return
	}

	m.add(qualifiedName, className, methodName, parameters)
}

func (m *Mapper) add(qualifiedName, className, methodName string, parameters []string) *Function {
	fn := &Function{
		QualifiedName: qualifiedName,
		ClassName:     className,
		MethodName:    methodName,
		Parameters:    parameters,
		registry:      m.registry,
	}

	m.functions[qualifiedName] = fn

	return fn
}

// ResolveFunction returns the function called as prefix:localName
func (m *Mapper) ResolveFunction(prefix, localName string) (*Function, bool) {
	if m.single != nil {
		return m.single, true
	}

	fn, ok := m.functions[prefix+":"+localName]

	return fn, ok
}

// Call resolves and invokes qualifiedName ("prefix:name" or "name")
func (m *Mapper) Call(qualifiedName string, args ...any) (any, error) {
	prefix, name, found := strings.Cut(qualifiedName, ":")
	if !found {
		prefix, name = "", qualifiedName
	}

	fn, ok := m.ResolveFunction(prefix, name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrFunctionNotRegistered, qualifiedName)
	}

	return fn.Call(args...)
}
