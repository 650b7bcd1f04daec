package page

import "errors"

var (
	// ErrUnknownKind is returned for a node kind name that does not exist
	ErrUnknownKind = errors.New("unknown node kind")
	// ErrNoArtifact is returned when a unit has no artifact name
	ErrNoArtifact = errors.New("unit artifact name is required")
	// ErrNoRoot is returned when a unit has no root node
	ErrNoRoot = errors.New("unit has no root node")
	// ErrInvalidGeneratedLines is returned when a node ends before it begins
	ErrInvalidGeneratedLines = errors.New("generated line range is invalid")
)
