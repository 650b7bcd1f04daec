package functionmap

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/shibukawa/snappage/el"
)

// Library is a function library file.
type Library struct {
	URI       string     `yaml:"uri"`
	Prefix    string     `yaml:"prefix"`
	Functions []Function `yaml:"functions"`
}

// Function is one function of a library.
type Function struct {
	Name   string   `yaml:"name"`
	Class  string   `yaml:"class"`
	Method string   `yaml:"method"`
	Params []string `yaml:"params"`
}

// StaticResolver resolves functions from libraries loaded up front.
type StaticResolver struct {
	prefixes  map[string]string
	functions map[string]map[string]el.FunctionInfo
}

var _ el.FunctionResolver = (*StaticResolver)(nil)

// NewStaticResolver creates a resolver holding libraries
func NewStaticResolver(libraries ...Library) (*StaticResolver, error) {
	r := &StaticResolver{
		prefixes:  map[string]string{},
		functions: map[string]map[string]el.FunctionInfo{},
	}

	for _, lib := range libraries {
		if err := r.Add(lib); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// LoadResolver reads library files
func LoadResolver(paths ...string) (*StaticResolver, error) {
	libraries := make([]Library, 0, len(paths))

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read function library: %w", err)
		}

		var lib Library
		if err := yaml.UnmarshalWithOptions(data, &lib, yaml.Strict()); err != nil {
			return nil, fmt.Errorf("failed to parse function library %s: %w", path, err)
		}

		libraries = append(libraries, lib)
	}

	return NewStaticResolver(libraries...)
}

// Add registers a library. Its prefix, if any, is bound to its URI.
func (r *StaticResolver) Add(lib Library) error {
	if lib.URI == "" {
		return fmt.Errorf("%w: uri is required", ErrInvalidLibrary)
	}

	functions, ok := r.functions[lib.URI]
	if !ok {
		functions = map[string]el.FunctionInfo{}
		r.functions[lib.URI] = functions
	}

	for _, fn := range lib.Functions {
		if fn.Name == "" || fn.Method == "" {
			return fmt.Errorf("%w: function of %s needs name and method", ErrInvalidLibrary, lib.URI)
		}

		functions[fn.Name] = el.FunctionInfo{
			ClassName:  fn.Class,
			MethodName: fn.Method,
			Parameters: fn.Params,
		}
	}

	if lib.Prefix != "" {
		r.prefixes[lib.Prefix] = lib.URI
	}

	return nil
}

// Bind binds prefix to uri, replacing an earlier binding.
func (r *StaticResolver) Bind(prefix, uri string) {
	r.prefixes[prefix] = uri
}

// URI implements el.FunctionResolver
func (r *StaticResolver) URI(prefix string) (string, bool) {
	uri, ok := r.prefixes[prefix]
	return uri, ok
}

// Function implements el.FunctionResolver
func (r *StaticResolver) Function(uri, name string) (el.FunctionInfo, bool) {
	info, ok := r.functions[uri][name]
	return info, ok
}

// WithPrefixes returns a resolver sharing the libraries of r with prefixes
// bound in addition to those of r.
func (r *StaticResolver) WithPrefixes(prefixes map[string]string) *StaticResolver {
	merged := make(map[string]string, len(r.prefixes)+len(prefixes))
	for prefix, uri := range r.prefixes {
		merged[prefix] = uri
	}

	for prefix, uri := range prefixes {
		merged[prefix] = uri
	}

	return &StaticResolver{prefixes: merged, functions: r.functions}
}
