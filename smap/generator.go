package smap

import (
	"strings"

	"github.com/shibukawa/snappage"
)

// DefaultStratumName is the default stratum of a generator that has no
// default stratum added.
const DefaultStratumName = "Go"

// Generator assembles a complete source map from strata and embedded maps.
type Generator struct {
	OutputFileName string
	DefaultStratum string
	// DoEmbedded includes maps added with AddEmbedded.
	DoEmbedded bool

	strata   []*Stratum
	embedded []string
}

// NewGenerator creates a generator for the named output file
func NewGenerator(outputFileName string) *Generator {
	return &Generator{
		OutputFileName: outputFileName,
		DefaultStratum: DefaultStratumName,
		DoEmbedded:     true,
	}
}

// AddStratum appends a stratum. When isDefault is set its name becomes the
// default stratum.
func (g *Generator) AddStratum(s *Stratum, isDefault bool) {
	g.strata = append(g.strata, s)
	if isDefault {
		g.DefaultStratum = s.Name()
	}
}

// AddEmbedded embeds a complete source map produced for stratumName.
func (g *Generator) AddEmbedded(smap, stratumName string) {
	g.embedded = append(g.embedded, "*O "+stratumName+"\n"+smap+"*C "+stratumName+"\n")
}

// String renders the source map.
func (g *Generator) String() (string, error) {
	if g.OutputFileName == "" {
		return "", snappage.ErrNoOutputFileName
	}

	var builder strings.Builder

	builder.WriteString("SMAP\n")
	builder.WriteString(g.OutputFileName + "\n")
	builder.WriteString(g.DefaultStratum + "\n")

	if g.DoEmbedded {
		for _, e := range g.embedded {
			builder.WriteString(e)
		}
	}

	for _, s := range g.strata {
		builder.WriteString(s.String())
	}

	builder.WriteString("*E\n")

	return builder.String(), nil
}

// Render renders a source map for outputFileName holding strata.
func Render(outputFileName, defaultStratum string, strata ...*Stratum) (string, error) {
	g := NewGenerator(outputFileName)
	if defaultStratum != "" {
		g.DefaultStratum = defaultStratum
	}

	for _, s := range strata {
		g.AddStratum(s, false)
	}

	return g.String()
}
