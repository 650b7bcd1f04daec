package main

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/shibukawa/snappage/attribute"
	"github.com/shibukawa/snappage/compile"
	"github.com/shibukawa/snappage/debuginfo"
	"github.com/shibukawa/snappage/el"
	"github.com/shibukawa/snappage/page"
	"github.com/shibukawa/snappage/smap"
	tok "github.com/shibukawa/snappage/tokenizer"
)

// UnquoteCmd represents the unquote command
type UnquoteCmd struct {
	Value           string `arg:"" help:"Attribute value without its surrounding quotes"`
	Quote           string `help:"Quote character the value was written with" default:"\""`
	ELIgnored       bool   `help:"Treat ${...} and #{...} as plain text"`
	DeferredLiteral bool   `help:"Treat #{...} as plain text"`
	Lenient         bool   `help:"Accept unescaped quote characters inside the value"`
}

func (cmd *UnquoteCmd) Run(ctx *Context) error {
	env, err := loadEnvironment(ctx)
	if err != nil {
		return err
	}

	if utf8.RuneCountInString(cmd.Quote) > 1 {
		return fmt.Errorf("%w: %q", ErrInvalidQuoteChar, cmd.Quote)
	}

	var quote rune
	for _, r := range cmd.Quote {
		quote = r
	}

	attrs := env.config.Attributes

	result, err := attribute.Unquote(cmd.Value, attribute.Options{
		Quote:                          quote,
		ELIgnored:                      attrs.ELIgnored || cmd.ELIgnored,
		DeferredSyntaxAllowedAsLiteral: attrs.DeferredSyntaxAllowedAsLiteral || cmd.DeferredLiteral,
		Strict:                         attrs.StrictQuoteEscaping && !cmd.Lenient,
		QuoteAttributeEL:               attrs.QuoteAttributeEL,
		Messages:                       env.messages,
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(ctx.Stdout, result)

	return nil
}

// ParseCmd represents the parse command
type ParseCmd struct {
	Expression      string `arg:"" help:"Text containing ${...} or #{...} expressions"`
	DeferredLiteral bool   `help:"Treat #{...} as plain text"`
	Eval            bool   `help:"Evaluate expressions that call no functions"`
}

func (cmd *ParseCmd) Run(ctx *Context) error {
	env, err := loadEnvironment(ctx)
	if err != nil {
		return err
	}

	deferred := env.config.Attributes.DeferredSyntaxAllowedAsLiteral || cmd.DeferredLiteral

	nodes, err := el.Parse(cmd.Expression, deferred, el.ParseOptions{Messages: env.messages})
	if err != nil {
		return err
	}

	el.Walk(&treePrinter{w: ctx.Stdout}, nodes)

	if !cmd.Eval {
		return nil
	}

	for _, node := range nodes.Items {
		root, ok := node.(*el.Root)
		if !ok {
			continue
		}

		body, err := el.Render(root.Body, deferred)
		if err != nil {
			return err
		}

		if len(el.Functions(root.Body)) > 0 {
			fmt.Fprintf(ctx.Stdout, "%s = (calls functions)\n", strings.TrimSpace(body))
			continue
		}

		value, err := evaluate(body)
		if err != nil {
			return err
		}

		fmt.Fprintf(ctx.Stdout, "%s = %v\n", strings.TrimSpace(body), value)
	}

	return nil
}

type treePrinter struct {
	w     io.Writer
	depth int
}

func (p *treePrinter) Visit(node el.Node) el.Visitor {
	indent := strings.Repeat("  ", p.depth)

	switch n := node.(type) {
	case *el.Text:
		fmt.Fprintf(p.w, "%stext %q\n", indent, n.Text)
	case *el.Root:
		fmt.Fprintf(p.w, "%sroot %c\n", indent, n.Type)
		return &treePrinter{w: p.w, depth: p.depth + 1}
	case *el.ELText:
		fmt.Fprintf(p.w, "%seltext %q\n", indent, n.Text)
	case *el.Function:
		fmt.Fprintf(p.w, "%sfunction %s\n", indent, n.QualifiedName())
	}

	return nil
}

// ScanCmd represents the scan command
type ScanCmd struct {
	File string `arg:"" help:"Template file" type:"existingfile"`
}

func (cmd *ScanCmd) Run(ctx *Context) error {
	env, err := loadEnvironment(ctx)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(cmd.File)
	if err != nil {
		return fmt.Errorf("failed to read template: %w", err)
	}

	segments, err := tok.ScanTemplate(cmd.File, string(data), tok.ScanOptions{
		ELIgnored:                      env.config.Attributes.ELIgnored,
		DeferredSyntaxAllowedAsLiteral: env.config.Attributes.DeferredSyntaxAllowedAsLiteral,
		Messages:                       env.messages,
	})
	if err != nil {
		return err
	}

	for _, seg := range segments {
		fmt.Fprintf(ctx.Stdout, "%d:%d %s %q\n", seg.Start.Line, seg.Start.Column, seg.Kind, seg.Text)
	}

	return nil
}

// CompileCmd represents the compile command
type CompileCmd struct {
	Units  []string `arg:"" optional:"" help:"Compilation unit files (defaults to every .yaml file under input_dir)" type:"path"`
	Output string   `short:"o" help:"Directory of the generated function map sources (stdout when empty)" type:"path"`
	Dump   bool     `help:"Write source maps to smap.output_dir"`
}

func (cmd *CompileCmd) Run(ctx *Context) error {
	env, err := loadEnvironment(ctx)
	if err != nil {
		return err
	}

	if cmd.Dump {
		env.config.SMAP.Dump = true
	}

	units := cmd.Units
	if len(units) == 0 {
		units, err = findUnits(env.config.InputDir)
		if err != nil {
			return err
		}
	}

	if len(units) == 0 {
		return ErrNoUnits
	}

	pipeline := compile.NewDefaultPipeline(env.config,
		compile.WithResolver(env.resolver),
		compile.WithMessages(env.messages))

	for _, file := range units {
		if ctx.Verbose {
			color.Blue("Compiling %s", file)
		}

		unit, err := page.Load(file)
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", file, err)
		}

		output, err := pipeline.Execute(context.Background(), unit)
		if err != nil {
			return err
		}

		if err := cmd.writeFunctionMaps(ctx, unit, output.FunctionMapCode); err != nil {
			return err
		}
	}

	if !ctx.Quiet {
		color.Green("Compiled %d unit(s)", len(units))
	}

	return nil
}

func (cmd *CompileCmd) writeFunctionMaps(ctx *Context, unit *page.Unit, code string) error {
	if cmd.Output == "" {
		_, err := io.WriteString(ctx.Stdout, code)
		return err
	}

	if err := os.MkdirAll(cmd.Output, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file := filepath.Join(cmd.Output, path.Base(unit.Artifact)+"_fnmap.go")

	if err := os.WriteFile(file, []byte(code), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", file, err)
	}

	if ctx.Verbose {
		color.Cyan("Wrote %s", file)
	}

	return nil
}

func findUnits(dir string) ([]string, error) {
	var units []string

	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() && (strings.HasSuffix(p, ".yaml") || strings.HasSuffix(p, ".yml")) {
			units = append(units, p)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to process input directory: %w", err)
	}

	return units, nil
}

// SmapCmd represents the smap command
type SmapCmd struct {
	Unit      string `arg:"" help:"Compilation unit file" type:"existingfile"`
	JSON      bool   `help:"Print the main stratum as a version 3 JSON source map"`
	BreakAtLF bool   `help:"Template text lines were generated one per output line"`
}

func (cmd *SmapCmd) Run(ctx *Context) error {
	env, err := loadEnvironment(ctx)
	if err != nil {
		return err
	}

	unit, err := page.Load(cmd.Unit)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", cmd.Unit, err)
	}

	result, err := debuginfo.Correlate(unit, debuginfo.Options{
		BreakAtLF:   env.config.SMAP.BreakAtLF || cmd.BreakAtLF,
		StratumName: env.config.SMAP.DefaultStratum,
		Messages:    env.messages,
	})
	if err != nil {
		return err
	}

	if cmd.JSON {
		return smap.ToSourceMap(result.Main, unit.OutputFileName()).WriteTo(ctx.Stdout)
	}

	artifacts, err := result.Artifacts(unit)
	if err != nil {
		return err
	}

	for _, artifact := range artifacts {
		if ctx.Verbose {
			color.Cyan("# %s", artifact.Name)
		}

		if _, err := io.WriteString(ctx.Stdout, artifact.SMAP); err != nil {
			return err
		}
	}

	return nil
}
