package page

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/sirupsen/logrus"
)

// Load reads a unit from a YAML file.
func Load(path string) (*Unit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read unit file: %w", err)
	}

	unit, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if unit.Root.File == "" {
		logrus.Debugf("unit %s has no source file, nodes are attributed to %s", unit.Artifact, path)
		unit.Root.File = path
	}

	return unit, nil
}

// Parse decodes a unit. Unknown fields are rejected.
func Parse(data []byte) (*Unit, error) {
	var unit Unit

	if err := yaml.UnmarshalWithOptions(data, &unit, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("failed to parse unit: %w", err)
	}

	if err := validate(&unit); err != nil {
		return nil, err
	}

	unit.link()

	return &unit, nil
}

// Marshal encodes a unit as YAML.
func Marshal(unit *Unit) ([]byte, error) {
	return yaml.Marshal(unit)
}

func validate(unit *Unit) error {
	if unit.Artifact == "" {
		return ErrNoArtifact
	}

	if unit.Root == nil {
		return ErrNoRoot
	}

	var err error

	Inspect(unit.Root, func(n *Node) bool {
		if err != nil {
			return false
		}

		if n.EndGeneratedLine < n.BeginGeneratedLine {
			err = fmt.Errorf("%w: %s node at line %d ends at %d before %d",
				ErrInvalidGeneratedLines, n.Kind, n.Line, n.EndGeneratedLine, n.BeginGeneratedLine)
		}

		return true
	})

	return err
}
