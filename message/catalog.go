// Package message holds the localized diagnostic messages of the template front end.
//
// A Catalog is an explicit value handed to the code that builds errors. Looking up
// a key that the catalog does not know returns the key itself.
package message

import (
	"fmt"
	"os"
	"sort"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"gopkg.in/yaml.v3"
)

// Message keys used by the analyzer packages
const (
	AttributeNoEscape        = "attribute.noescape"
	ELInvalidQuoting         = "el.invalid_quoting"
	ELUnterminatedQuote      = "el.unterminated_quote"
	ELInvalidLiteralQuotes   = "el.invalid_literal_quotes"
	ELUnterminated           = "el.unterminated"
	ELUnknownFunctionPrefix  = "el.unknown_function_prefix"
	ELUnknownFunction        = "el.unknown_function"
	SMAPUnknownFile          = "smap.unknown_file"
	FunctionMapAlreadyAssign = "fnmap.already_assigned"
)

var defaultMessages = map[string]string{
	AttributeNoEscape:        "Attribute value %[1]s is quoted with %[2]s which must be escaped when used within the value",
	ELInvalidQuoting:         "Invalid quoting in expression %[1]s",
	ELUnterminatedQuote:      "Unterminated quoted string in expression %[1]s",
	ELInvalidLiteralQuotes:   "The string literal %[1]s is not valid. It must be contained within single or double quotes",
	ELUnterminated:           "Unterminated %[1]s expression",
	ELUnknownFunctionPrefix:  "The function prefix %[1]s does not correspond to any imported function library",
	ELUnknownFunction:        "The function %[1]s cannot be located with the specified prefix",
	SMAPUnknownFile:          "Source file %[1]s is not registered in stratum %[2]s",
	FunctionMapAlreadyAssign: "Function map %[1]s cannot replace already assigned map %[2]s",
}

// Catalog resolves message keys for one language.
type Catalog struct {
	tag     language.Tag
	known   map[string]struct{}
	printer *message.Printer
}

var defaultCatalog = mustNew(language.English, nil)

// Default returns the built-in English catalog.
func Default() *Catalog {
	return defaultCatalog
}

// New builds a catalog for tag. Overrides replace or add messages; keys without an
// override use the built-in English text.
func New(tag language.Tag, overrides map[string]string) (*Catalog, error) {
	messages := make(map[string]string, len(defaultMessages)+len(overrides))
	for key, msg := range defaultMessages {
		messages[key] = msg
	}

	for key, msg := range overrides {
		messages[key] = msg
	}

	builder := catalog.NewBuilder(catalog.Fallback(language.English))
	known := make(map[string]struct{}, len(messages))

	for _, key := range sortedKeys(messages) {
		if err := builder.SetString(tag, key, messages[key]); err != nil {
			return nil, fmt.Errorf("failed to register message %s: %w", key, err)
		}

		known[key] = struct{}{}
	}

	return &Catalog{
		tag:     tag,
		known:   known,
		printer: message.NewPrinter(tag, message.Catalog(builder)),
	}, nil
}

// Load builds a catalog for the language code with overrides read from a YAML
// file of key: message pairs. An empty path yields the built-in messages.
func Load(lang, path string) (*Catalog, error) {
	tag, err := language.Parse(lang)
	if err != nil {
		return nil, fmt.Errorf("invalid message language %q: %w", lang, err)
	}

	var overrides map[string]string

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read message file: %w", err)
		}

		if err := yaml.Unmarshal(data, &overrides); err != nil {
			return nil, fmt.Errorf("failed to parse message file: %w", err)
		}
	}

	return New(tag, overrides)
}

func mustNew(tag language.Tag, overrides map[string]string) *Catalog {
	c, err := New(tag, overrides)
	if err != nil {
		panic(err)
	}

	return c
}

// Language returns the language tag of the catalog
func (c *Catalog) Language() language.Tag {
	if c == nil {
		return defaultCatalog.tag
	}

	return c.tag
}

// Message formats the message registered for key. A nil catalog uses Default().
func (c *Catalog) Message(key string, args ...any) string {
	if c == nil {
		c = defaultCatalog
	}

	if _, ok := c.known[key]; !ok {
		return key
	}

	return c.printer.Sprintf(key, args...)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}
