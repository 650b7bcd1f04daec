package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shibukawa/snappage"
)

func newTestContext(t *testing.T) (*Context, *bytes.Buffer) {
	t.Helper()

	var out bytes.Buffer

	return &Context{Config: filepath.Join(t.TempDir(), "missing.yaml"), Quiet: true, Stdout: &out}, &out
}

func TestUnquoteCmd(t *testing.T) {
	ctx, out := newTestContext(t)

	cmd := &UnquoteCmd{Value: `it\'s &quot;fine&quot;`, Quote: "'"}
	assert.NoError(t, cmd.Run(ctx))
	assert.Equal(t, "it's \"fine\"\n", out.String())
}

func TestUnquoteCmd_Ambiguous(t *testing.T) {
	ctx, _ := newTestContext(t)

	err := (&UnquoteCmd{Value: `a"b`, Quote: `"`}).Run(ctx)
	assert.True(t, errors.Is(err, snappage.ErrAmbiguousQuote))

	ctx, out := newTestContext(t)
	assert.NoError(t, (&UnquoteCmd{Value: `a"b`, Quote: `"`, Lenient: true}).Run(ctx))
	assert.Equal(t, "a\"b\n", out.String())
}

func TestUnquoteCmd_InvalidQuote(t *testing.T) {
	ctx, _ := newTestContext(t)

	err := (&UnquoteCmd{Value: "x", Quote: "ab"}).Run(ctx)
	assert.IsError(t, err, ErrInvalidQuoteChar)
}

func TestParseCmd(t *testing.T) {
	ctx, out := newTestContext(t)

	cmd := &ParseCmd{Expression: "a ${fn:trim(x)} b"}
	assert.NoError(t, cmd.Run(ctx))

	assert.Equal(t, "text \"a \"\n"+
		"root $\n"+
		"  function fn:trim\n"+
		"  eltext \"x\"\n"+
		"  eltext \")\"\n"+
		"text \" b\"\n", out.String())
}

func TestParseCmd_Eval(t *testing.T) {
	ctx, out := newTestContext(t)

	cmd := &ParseCmd{Expression: "sum ${1 + 2} and ${fn:m()}", Eval: true}
	assert.NoError(t, cmd.Run(ctx))

	assert.Contains(t, out.String(), "1 + 2 = 3\n")
	assert.Contains(t, out.String(), "fn:m() = (calls functions)\n")
}

func TestParseCmd_Unterminated(t *testing.T) {
	ctx, _ := newTestContext(t)

	err := (&ParseCmd{Expression: "${a"}).Run(ctx)
	assert.True(t, errors.Is(err, snappage.ErrTruncatedExpression))
}

func TestScanCmd(t *testing.T) {
	ctx, out := newTestContext(t)

	file := filepath.Join(t.TempDir(), "hello.jsp")
	assert.NoError(t, os.WriteFile(file, []byte("Hi ${user}!"), 0o644))

	assert.NoError(t, (&ScanCmd{File: file}).Run(ctx))
	assert.Equal(t, "1:1 TEXT \"Hi \"\n1:4 EXPRESSION \"user\"\n1:11 TEXT \"!\"\n", out.String())
}

func TestSmapCmd(t *testing.T) {
	ctx, out := newTestContext(t)

	assert.NoError(t, (&SmapCmd{Unit: "testdata/index.yaml"}).Run(ctx))
	assert.Contains(t, out.String(), "SMAP\nindex_jsp.go\nJSP\n*S JSP\n")
	assert.Contains(t, out.String(), "+ 1 header.jspf\n")

	ctx, out = newTestContext(t)
	assert.NoError(t, (&SmapCmd{Unit: "testdata/index.yaml", JSON: true}).Run(ctx))
	assert.Contains(t, out.String(), `"version":3`)
	assert.Contains(t, out.String(), `"index.jsp"`)
}

func TestCompileCmd(t *testing.T) {
	dir := t.TempDir()

	functions, err := filepath.Abs("testdata/functions.yaml")
	assert.NoError(t, err)

	unit, err := filepath.Abs("testdata/index.yaml")
	assert.NoError(t, err)

	config := filepath.Join(dir, "snappage.yaml")
	assert.NoError(t, os.WriteFile(config, []byte("functions:\n  libraries:\n    - "+functions+"\n"), 0o644))

	var out bytes.Buffer

	ctx := &Context{Config: config, Quiet: true, Stdout: &out}
	output := filepath.Join(dir, "gen")

	assert.NoError(t, (&CompileCmd{Units: []string{unit}, Output: output}).Run(ctx))

	data, err := os.ReadFile(filepath.Join(output, "index_jsp_fnmap.go"))
	assert.NoError(t, err)
	assert.Contains(t, string(data), `_fnmap_1 = fnmap.MapForFunction("fn:split", "strings", "Split", []string{"string", "string"})`)
}

func TestCompileCmd_NoUnits(t *testing.T) {
	dir := t.TempDir()

	units := filepath.Join(dir, "units")
	assert.NoError(t, os.MkdirAll(units, 0o755))

	config := filepath.Join(dir, "snappage.yaml")
	assert.NoError(t, os.WriteFile(config, []byte("input_dir: "+units+"\n"), 0o644))

	err := (&CompileCmd{}).Run(&Context{Config: config, Quiet: true, Stdout: &bytes.Buffer{}})
	assert.IsError(t, err, ErrNoUnits)
}

func TestVersionCmd(t *testing.T) {
	ctx, out := newTestContext(t)

	assert.NoError(t, (&VersionCmd{}).Run(ctx))
	assert.Equal(t, "snappage v0.1.0\n", out.String())
}
