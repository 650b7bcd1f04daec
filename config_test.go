package snappage

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestParseConfig_AppliesDefaults(t *testing.T) {
	config, err := ParseConfig([]byte("smap:\n  dump: true\n"))
	assert.NoError(t, err)

	assert.Equal(t, "./units", config.InputDir)
	assert.Equal(t, "JSP", config.SMAP.DefaultStratum)
	assert.Equal(t, "./generated", config.SMAP.OutputDir)
	assert.True(t, config.SMAP.Dump)
	assert.Equal(t, "en", config.Messages.Language)
	assert.Equal(t, "pages", config.Generation.Package)
	assert.Equal(t, "github.com/shibukawa/snappage/runtime/fnmap", config.Generation.RuntimePackage)
	assert.True(t, config.Attributes.StrictQuoteEscaping)
	assert.True(t, config.Attributes.QuoteAttributeEL)
}

func TestParseConfig_MatchesDefaultWithoutAttributes(t *testing.T) {
	config, err := ParseConfig([]byte("generation:\n  package: views\n"))
	assert.NoError(t, err)

	assert.Equal(t, DefaultConfig().Attributes, config.Attributes)
	assert.Equal(t, "views", config.Generation.Package)
}

func TestParseConfig_ExpandsEnvVars(t *testing.T) {
	t.Setenv("SNAPPAGE_OUT", "/tmp/out")
	t.Setenv("SNAPPAGE_LIB", "lib")

	config, err := ParseConfig([]byte(`
smap:
  output_dir: "${SNAPPAGE_OUT}/smap"
functions:
  libraries:
    - "$SNAPPAGE_LIB/fn.yaml"
`))
	assert.NoError(t, err)
	assert.Equal(t, "/tmp/out/smap", config.SMAP.OutputDir)
	assert.Equal(t, []string{"lib/fn.yaml"}, config.Functions.Libraries)
}

func TestSMAPConfig_IsEnabled(t *testing.T) {
	disabled := true
	enabled := false

	tests := []struct {
		name     string
		disabled *bool
		expected bool
	}{
		{"unset", nil, true},
		{"disabled", &disabled, false},
		{"explicitly enabled", &enabled, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := SMAPConfig{Disabled: tt.disabled}
			assert.Equal(t, tt.expected, c.IsEnabled())
		})
	}
}

func TestSourceError(t *testing.T) {
	err := NewSourceError(ErrTruncatedExpression, "index.jsp", 3, 7, "")
	assert.Equal(t, "index.jsp:3:7: unterminated expression", err.Error())
	assert.IsError(t, err, ErrTruncatedExpression)

	err = NewSourceError(ErrAmbiguousQuote, "", 2, 1, "quote found")
	assert.Equal(t, "2:1: quote found", err.Error())

	err = NewSourceError(ErrInvalidLiteralQuoting, "", 0, 0, "")
	assert.Equal(t, "mismatched quotes for string literal", err.Error())
}
