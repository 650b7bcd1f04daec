package el

import (
	"github.com/shibukawa/snappage"
	"github.com/shibukawa/snappage/message"
	tok "github.com/shibukawa/snappage/tokenizer"
)

// FunctionInfo describes the callable a function reference is bound to.
type FunctionInfo struct {
	ClassName  string
	MethodName string
	Parameters []string
}

// FunctionResolver looks up function libraries. It is implemented by the tag
// library layer of the host.
type FunctionResolver interface {
	// URI returns the library URI bound to prefix.
	URI(prefix string) (string, bool)
	// Function returns the function called name in the library at uri.
	Function(uri, name string) (FunctionInfo, bool)
}

// ResolveOptions are options for Resolve
type ResolveOptions struct {
	// Position is reported in errors; it is the position of the expression.
	Position tok.Mark
	Messages *message.Catalog
}

// Resolve binds every function of nodes to its library. A function without a
// prefix whose library is unknown stays unresolved and is looked up at run time.
func Resolve(nodes *Nodes, resolver FunctionResolver, options ...ResolveOptions) error {
	var opts ResolveOptions
	if len(options) > 0 {
		opts = options[0]
	}

	for _, fn := range Functions(nodes) {
		uri, ok := resolver.URI(fn.Prefix)
		if !ok {
			if fn.Prefix == "" {
				continue
			}

			return sourceError(opts, snappage.ErrUnknownFunctionPrefix, message.ELUnknownFunctionPrefix, fn.Prefix)
		}

		info, ok := resolver.Function(uri, fn.Name)
		if !ok {
			return sourceError(opts, snappage.ErrUnknownFunction, message.ELUnknownFunction, fn.QualifiedName())
		}

		fn.URI = uri
		fn.ClassName = info.ClassName
		fn.MethodName = info.MethodName
		fn.Parameters = info.Parameters
		fn.Resolved = true
	}

	return nil
}

func sourceError(opts ResolveOptions, err error, key string, args ...any) error {
	pos := opts.Position
	msg := opts.Messages.Message(key, args...)

	return snappage.NewSourceError(err, pos.Source, pos.Line, pos.Column, msg)
}
