package functionmap

import (
	"bytes"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"
	"text/template"
)

// DefaultRuntimePackage is the import path of the runtime the generated maps use.
const DefaultRuntimePackage = "github.com/shibukawa/snappage/runtime/fnmap"

// RenderOptions controls the generated source.
type RenderOptions struct {
	Package string
	// RuntimePackage is the import path of the function map runtime.
	RuntimePackage string
}

const declarationsTemplate = `// Code generated by snappage. DO NOT EDIT.

package {{ .Package }}
{{- if .Declarations }}

import {{ quote .RuntimeImport }}

var (
{{- range .Declarations }}
	{{ .Name }} *{{ $.Runtime }}.Mapper
{{- end }}
)

func init() {
{{- range .Declarations }}
{{- $decl := . }}
{{- if .IsSingle }}
{{- with index .Bindings 0 }}
	{{ $decl.Name }} = {{ $.Runtime }}.MapForFunction({{ binding . }})
{{- end }}
{{- else }}
	{{ .Name }} = {{ $.Runtime }}.NewMapper()
{{- range .Bindings }}
	{{ $decl.Name }}.MapFunction({{ binding . }})
{{- end }}
{{- end }}
{{- end }}
}
{{- end }}
`

var declarationsTmpl = template.Must(template.New("functionmap").Funcs(template.FuncMap{
	"quote":   strconv.Quote,
	"binding": bindingArgs,
}).Parse(declarationsTemplate))

// RenderDeclarations writes a Go source file declaring and initializing the
// function maps.
func RenderDeclarations(w io.Writer, decls []Declaration, opts RenderOptions) error {
	if opts.Package == "" {
		opts.Package = "pages"
	}

	if opts.RuntimePackage == "" {
		opts.RuntimePackage = DefaultRuntimePackage
	}

	data := struct {
		Package       string
		RuntimeImport string
		Runtime       string
		Declarations  []Declaration
	}{
		Package:       opts.Package,
		RuntimeImport: opts.RuntimePackage,
		Runtime:       path.Base(opts.RuntimePackage),
		Declarations:  decls,
	}

	if err := declarationsTmpl.Execute(w, data); err != nil {
		return fmt.Errorf("failed to render function maps: %w", err)
	}

	return nil
}

// Render returns the initialization statements of one declaration.
func (d Declaration) Render(runtime string) string {
	var buf bytes.Buffer

	if d.IsSingle() {
		fmt.Fprintf(&buf, "%s = %s.MapForFunction(%s)\n", d.Name, runtime, bindingArgs(d.Bindings[0]))
		return buf.String()
	}

	fmt.Fprintf(&buf, "%s = %s.NewMapper()\n", d.Name, runtime)

	for _, b := range d.Bindings {
		fmt.Fprintf(&buf, "%s.MapFunction(%s)\n", d.Name, bindingArgs(b))
	}

	return buf.String()
}

func bindingArgs(b Binding) string {
	if !b.Resolved {
		return `"", "", "", nil`
	}

	params := make([]string, len(b.Parameters))
	for i, p := range b.Parameters {
		params[i] = strconv.Quote(p)
	}

	return fmt.Sprintf("%s, %s, %s, []string{%s}",
		strconv.Quote(b.QualifiedName),
		strconv.Quote(b.ClassName),
		strconv.Quote(b.MethodName),
		strings.Join(params, ", "))
}
