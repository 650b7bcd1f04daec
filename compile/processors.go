package compile

import (
	"fmt"
	"strings"

	"github.com/shibukawa/snappage/attribute"
	"github.com/shibukawa/snappage/debuginfo"
	"github.com/shibukawa/snappage/el"
	"github.com/shibukawa/snappage/functionmap"
	"github.com/shibukawa/snappage/page"
	"github.com/shibukawa/snappage/smap"
	tok "github.com/shibukawa/snappage/tokenizer"
)

// ExpressionAnalyzer unquotes attribute values and parses the expressions of
// attributes and EL nodes.
type ExpressionAnalyzer struct{}

func (a *ExpressionAnalyzer) Name() string {
	return "ExpressionAnalyzer"
}

func (a *ExpressionAnalyzer) Process(ctx *ProcessingContext) error {
	attrs := ctx.Config.Attributes

	var walkErr error

	page.Inspect(ctx.Unit.Root, func(n *page.Node) bool {
		if walkErr != nil {
			return false
		}

		file := n.SourceFile()

		for _, attr := range n.Attributes {
			pos := attributePosition(file, n, attr)

			unquoted, err := attribute.Unquote(attr.Value, attribute.Options{
				Quote:                          attr.QuoteChar(),
				ELIgnored:                      attrs.ELIgnored,
				DeferredSyntaxAllowedAsLiteral: attrs.DeferredSyntaxAllowedAsLiteral,
				Strict:                         attrs.StrictQuoteEscaping,
				QuoteAttributeEL:               attrs.QuoteAttributeEL,
				Position:                       pos,
				Messages:                       ctx.Messages,
			})
			if err != nil {
				walkErr = err
				return false
			}

			attr.Unquoted = unquoted

			if attrs.ELIgnored || !mayContainExpression(unquoted, attrs.DeferredSyntaxAllowedAsLiteral) {
				continue
			}

			nodes, err := el.Parse(unquoted, attrs.DeferredSyntaxAllowedAsLiteral, el.ParseOptions{Start: pos, Messages: ctx.Messages})
			if err != nil {
				walkErr = err
				return false
			}

			if nodes.ContainsExpression() {
				attr.EL = nodes
			}
		}

		if n.Kind == page.KindELExpression && !attrs.ELIgnored {
			nodes, err := el.Parse(n.Text, attrs.DeferredSyntaxAllowedAsLiteral, el.ParseOptions{
				Start:    tok.Mark{Line: n.Line, Column: 1, Source: file},
				Messages: ctx.Messages,
			})
			if err != nil {
				walkErr = err
				return false
			}

			n.EL = nodes
		}

		return true
	})

	return walkErr
}

// FunctionResolver binds the functions called by expressions to the
// configured libraries and the prefixes declared by the unit.
type FunctionResolver struct{}

func (r *FunctionResolver) Name() string {
	return "FunctionResolver"
}

func (r *FunctionResolver) Process(ctx *ProcessingContext) error {
	resolver := ctx.Resolver.WithPrefixes(ctx.Unit.Prefixes)

	var walkErr error

	page.Inspect(ctx.Unit.Root, func(n *page.Node) bool {
		if walkErr != nil {
			return false
		}

		file := n.SourceFile()

		for _, attr := range n.Attributes {
			if attr.EL == nil {
				continue
			}

			err := el.Resolve(attr.EL, resolver, el.ResolveOptions{Position: attributePosition(file, n, attr), Messages: ctx.Messages})
			if err != nil {
				walkErr = err
				return false
			}
		}

		if n.EL != nil {
			err := el.Resolve(n.EL, resolver, el.ResolveOptions{Position: tok.Mark{Line: n.Line, Column: 1, Source: file}, Messages: ctx.Messages})
			if err != nil {
				walkErr = err
				return false
			}
		}

		return true
	})

	return walkErr
}

// FunctionMapper assigns function maps to expressions and renders their
// declarations.
type FunctionMapper struct{}

func (m *FunctionMapper) Name() string {
	return "FunctionMapper"
}

func (m *FunctionMapper) Process(ctx *ProcessingContext) error {
	mapper := functionmap.NewMapper(ctx.Config.Generation.MapNamePrefix)
	mapper.Logger = ctx.Logger

	decls, err := mapper.Map(ctx.Unit)
	if err != nil {
		return err
	}

	ctx.Declarations = decls

	code, err := renderFunctionMaps(ctx)
	if err != nil {
		return fmt.Errorf("failed to render function maps: %w", err)
	}

	ctx.FunctionMapCode = code

	return nil
}

// DebugInfoGenerator renders the source maps of the unit
type DebugInfoGenerator struct{}

func (g *DebugInfoGenerator) Name() string {
	return "DebugInfoGenerator"
}

func (g *DebugInfoGenerator) Process(ctx *ProcessingContext) error {
	if !ctx.Config.SMAP.IsEnabled() {
		ctx.Logger.Debug("source map generation is disabled")
		return nil
	}

	artifacts, err := debuginfo.Generate(ctx.Unit, debuginfo.Options{
		BreakAtLF:   ctx.Config.SMAP.BreakAtLF,
		StratumName: ctx.Config.SMAP.DefaultStratum,
		Logger:      ctx.Logger,
		Messages:    ctx.Messages,
	})
	if err != nil {
		return err
	}

	ctx.Artifacts = artifacts

	return nil
}

// DebugInfoInstaller hands the rendered source maps to the installer. Without
// an explicit installer, maps are written to smap.output_dir when smap.dump is set.
type DebugInfoInstaller struct{}

func (i *DebugInfoInstaller) Name() string {
	return "DebugInfoInstaller"
}

func (i *DebugInfoInstaller) Process(ctx *ProcessingContext) error {
	installer := ctx.Installer
	if installer == nil {
		if !ctx.Config.SMAP.Dump {
			return nil
		}

		installer = &smap.FileInstaller{Dir: ctx.Config.SMAP.OutputDir, Logger: ctx.Logger}
	}

	for _, artifact := range ctx.Artifacts {
		if err := installer.Install(ctx.Context, artifact); err != nil {
			return fmt.Errorf("failed to install source map of %s: %w", artifact.Name, err)
		}
	}

	return nil
}

func attributePosition(file string, n *page.Node, attr *page.Attribute) tok.Mark {
	line, column := attr.Line, attr.Column
	if line == 0 {
		line = n.Line
	}

	if column == 0 {
		column = 1
	}

	return tok.Mark{Line: line, Column: column, Source: file}
}

func mayContainExpression(text string, deferredAsLiteral bool) bool {
	if strings.Contains(text, "${") {
		return true
	}

	return !deferredAsLiteral && strings.Contains(text, "#{")
}
