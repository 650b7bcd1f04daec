package smap

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/google/go-cmp/cmp"
	"github.com/neelance/sourcemap"
	"github.com/shibukawa/snappage"
)

func newIndexStratum(t *testing.T) *Stratum {
	t.Helper()

	s := NewStratum("JSP")
	s.AddFile("index.jsp", "/index.jsp")
	assert.NoError(t, s.AddLineData(1, "/index.jsp", 2, 10, 1))
	assert.NoError(t, s.AddLineData(3, "/index.jsp", 1, 12, 2))

	return s
}

func TestGenerator(t *testing.T) {
	g := NewGenerator("index_jsp.go")
	g.AddStratum(newIndexStratum(t), true)

	actual, err := g.String()
	assert.NoError(t, err)

	expected := "SMAP\n" +
		"index_jsp.go\n" +
		"JSP\n" +
		"*S JSP\n" +
		"*F\n" +
		"+ 0 index.jsp\n" +
		"index.jsp\n" +
		"*L\n" +
		"1,2:10\n" +
		"3:12,2\n" +
		"*E\n"

	assert.Equal(t, expected, actual)
}

func TestGenerator_DefaultStratum(t *testing.T) {
	g := NewGenerator("out.go")
	g.AddStratum(NewStratum("Empty"), false)

	actual, err := g.String()
	assert.NoError(t, err)
	assert.Equal(t, "SMAP\nout.go\nGo\n*E\n", actual)
}

func TestGenerator_Embedded(t *testing.T) {
	inner, err := Render("inner.go", "Tag", NewStratum("Tag"))
	assert.NoError(t, err)

	g := NewGenerator("outer.go")
	g.AddEmbedded(inner, "Tag")
	g.AddStratum(newIndexStratum(t), true)

	actual, err := g.String()
	assert.NoError(t, err)
	assert.Contains(t, actual, "JSP\n*O Tag\nSMAP\ninner.go\nTag\n*E\n*C Tag\n*S JSP\n")

	g.DoEmbedded = false
	actual, err = g.String()
	assert.NoError(t, err)
	assert.NotContains(t, actual, "*O Tag")
}

func TestGenerator_NoOutputFileName(t *testing.T) {
	_, err := NewGenerator("").String()
	assert.IsError(t, err, snappage.ErrNoOutputFileName)
}

func TestRender(t *testing.T) {
	actual, err := Render("index_jsp.go", "JSP", newIndexStratum(t))
	assert.NoError(t, err)
	assert.True(t, len(actual) > 0)
	assert.Equal(t, "SMAP\nindex_jsp.go\nJSP\n*S JSP\n", actual[:len("SMAP\nindex_jsp.go\nJSP\n*S JSP\n")])
}

func TestToSourceMap(t *testing.T) {
	m := ToSourceMap(newIndexStratum(t), "index_jsp.go")

	expected := []*sourcemap.Mapping{
		{GeneratedLine: 10, OriginalFile: "index.jsp", OriginalLine: 1},
		{GeneratedLine: 11, OriginalFile: "index.jsp", OriginalLine: 2},
		{GeneratedLine: 12, OriginalFile: "index.jsp", OriginalLine: 3},
		{GeneratedLine: 13, OriginalFile: "index.jsp", OriginalLine: 3},
	}
	if diff := cmp.Diff(expected, m.DecodedMappings()); diff != "" {
		t.Errorf("mappings mismatch (-want +got):\n%s", diff)
	}

	var buf bytes.Buffer
	assert.NoError(t, m.WriteTo(&buf))

	decoded, err := sourcemap.ReadFrom(&buf)
	assert.NoError(t, err)
	assert.Equal(t, 3, decoded.Version)
	assert.Equal(t, "index_jsp.go", decoded.File)
	assert.Equal(t, []string{"index.jsp"}, decoded.Sources)
	assert.Equal(t, 4, len(decoded.DecodedMappings()))
}

func TestFileInstaller(t *testing.T) {
	dir := t.TempDir()
	installer := &FileInstaller{Dir: dir}

	err := installer.Install(context.Background(), Artifact{Name: "pages/index_jsp$Helper", SMAP: "SMAP\ncafé.go\nJSP\n*E\n"})
	assert.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "pages", "index_jsp$Helper.smap"))
	assert.NoError(t, err)
	assert.Equal(t, []byte("SMAP\ncaf\xe9.go\nJSP\n*E\n"), data)
}

func TestFileInstaller_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := (&FileInstaller{Dir: t.TempDir()}).Install(ctx, Artifact{Name: "x", SMAP: "SMAP\n"})
	assert.IsError(t, err, context.Canceled)
}
