// Package fnmap is the runtime behind generated function map declarations.
//
// Generated code binds qualified names such as "fn:trim" to a class and
// method. The class and method are looked up in a Registry when an
// expression evaluator resolves the function.
package fnmap

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
)

// Sentinel errors
var (
	ErrFunctionNotRegistered = errors.New("function is not registered")
	ErrNotAFunction          = errors.New("registered value is not a function")
	ErrArgumentCount         = errors.New("wrong number of arguments")
	ErrParameterCount        = errors.New("declared parameters do not match function signature")
)

// Registry holds Go implementations keyed by class and method name
type Registry struct {
	mu    sync.RWMutex
	funcs map[string]reflect.Value
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		funcs: make(map[string]reflect.Value),
	}
}

// Register binds fn as the implementation of className.methodName
func (r *Registry) Register(className, methodName string, fn any) error {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func {
		return fmt.Errorf("%w: %s.%s", ErrNotAFunction, className, methodName)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.funcs[registryKey(className, methodName)] = v

	return nil
}

// Lookup returns the implementation of className.methodName
func (r *Registry) Lookup(className, methodName string) (reflect.Value, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.funcs[registryKey(className, methodName)]

	return v, ok
}

func registryKey(className, methodName string) string {
	return className + "." + methodName
}

// Global registry used by mappers created by generated code
var (
	globalMu       sync.RWMutex
	globalRegistry = NewRegistry()
)

// SetGlobalRegistry sets the global registry
func SetGlobalRegistry(registry *Registry) {
	globalMu.Lock()
	defer globalMu.Unlock()

	globalRegistry = registry
}

// GetGlobalRegistry returns the global registry
func GetGlobalRegistry() *Registry {
	globalMu.RLock()
	defer globalMu.RUnlock()

	return globalRegistry
}

// Register binds fn in the global registry
func Register(className, methodName string, fn any) error {
	return GetGlobalRegistry().Register(className, methodName, fn)
}
