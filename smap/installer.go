package smap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/encoding/charmap"
)

// Artifact pairs a generated artifact with the source map to embed into it.
type Artifact struct {
	Name string
	SMAP string
}

// Installer writes source maps into compiled artifacts.
type Installer interface {
	Install(ctx context.Context, artifact Artifact) error
}

// FileInstaller writes each source map next to its artifact as
// <Dir>/<artifact>.smap, encoded as ISO-8859-1.
type FileInstaller struct {
	Dir    string
	Logger logrus.FieldLogger
}

// Install implements Installer
func (f *FileInstaller) Install(ctx context.Context, artifact Artifact) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := Encode(artifact.SMAP)
	if err != nil {
		return fmt.Errorf("failed to encode source map of %s: %w", artifact.Name, err)
	}

	path := filepath.Join(f.Dir, filepath.FromSlash(artifact.Name)+".smap")

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write source map: %w", err)
	}

	logger := f.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	logger.WithField("path", path).Debug("installed source map")

	return nil
}

// Encode returns the ISO-8859-1 bytes of a rendered source map.
func Encode(smap string) ([]byte, error) {
	return charmap.ISO8859_1.NewEncoder().Bytes([]byte(smap))
}
