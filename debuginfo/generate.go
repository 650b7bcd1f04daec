package debuginfo

import (
	"fmt"

	"github.com/shibukawa/snappage/page"
	"github.com/shibukawa/snappage/smap"
)

// Generate returns the source map of the unit artifact followed by one per
// inner scope, named <artifact>$<scope>.
func Generate(unit *page.Unit, opts Options) ([]smap.Artifact, error) {
	result, err := Correlate(unit, opts)
	if err != nil {
		return nil, err
	}

	return result.Artifacts(unit)
}

// Artifacts renders the strata of the result.
func (r *Result) Artifacts(unit *page.Unit) ([]smap.Artifact, error) {
	output := unit.OutputFileName()

	artifacts := make([]smap.Artifact, 0, len(r.Scopes)+1)

	main, err := render(output, r.Main)
	if err != nil {
		return nil, fmt.Errorf("failed to render source map of %s: %w", unit.Artifact, err)
	}

	artifacts = append(artifacts, smap.Artifact{Name: unit.Artifact, SMAP: main})

	for _, scope := range r.Scopes {
		name := unit.Artifact + "$" + scope.Name

		text, err := render(output, scope.Stratum)
		if err != nil {
			return nil, fmt.Errorf("failed to render source map of %s: %w", name, err)
		}

		artifacts = append(artifacts, smap.Artifact{Name: name, SMAP: text})
	}

	return artifacts, nil
}

func render(output string, s *smap.Stratum) (string, error) {
	g := smap.NewGenerator(output)
	g.AddStratum(s, true)

	return g.String()
}
