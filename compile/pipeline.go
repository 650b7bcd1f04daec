// Package compile runs the analysis stages of a compilation unit in order:
// expression analysis, function resolution and mapping, and debug information.
package compile

import (
	"bytes"
	"context"
	"fmt"

	"github.com/shibukawa/snappage"
	"github.com/shibukawa/snappage/functionmap"
	"github.com/shibukawa/snappage/message"
	"github.com/shibukawa/snappage/page"
	"github.com/shibukawa/snappage/smap"
	"github.com/sirupsen/logrus"
)

// Pipeline represents a unit processing pipeline
type Pipeline struct {
	config     *snappage.Config
	resolver   *functionmap.StaticResolver
	messages   *message.Catalog
	installer  smap.Installer
	logger     logrus.FieldLogger
	processors []Processor
}

// Processor defines the interface for processing stages
type Processor interface {
	Process(ctx *ProcessingContext) error
	Name() string
}

// ProcessingContext holds the state shared by the stages of one run
type ProcessingContext struct {
	Context   context.Context
	Unit      *page.Unit
	Config    *snappage.Config
	Resolver  *functionmap.StaticResolver
	Messages  *message.Catalog
	Installer smap.Installer
	Logger    logrus.FieldLogger

	// Processing results
	Declarations    []functionmap.Declaration
	FunctionMapCode string
	Artifacts       []smap.Artifact
}

// Output is the result of a pipeline run
type Output struct {
	Unit *page.Unit
	// Declarations of the function maps used by the expressions of the unit
	Declarations []functionmap.Declaration
	// FunctionMapCode is the generated source declaring the function maps
	FunctionMapCode string
	// Artifacts holds the rendered source maps, empty when SMAP is disabled
	Artifacts []smap.Artifact
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithResolver sets the function libraries used by ResolveFunctions
func WithResolver(resolver *functionmap.StaticResolver) Option {
	return func(p *Pipeline) {
		p.resolver = resolver
	}
}

// WithMessages sets the catalog used for diagnostics
func WithMessages(messages *message.Catalog) Option {
	return func(p *Pipeline) {
		p.messages = messages
	}
}

// WithInstaller sets where InstallDebugInfo writes source maps
func WithInstaller(installer smap.Installer) Option {
	return func(p *Pipeline) {
		p.installer = installer
	}
}

// WithLogger sets the logger of every stage
func WithLogger(logger logrus.FieldLogger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// NewPipeline creates an empty pipeline
func NewPipeline(config *snappage.Config, options ...Option) *Pipeline {
	if config == nil {
		config = snappage.DefaultConfig()
	}

	p := &Pipeline{
		config:   config,
		messages: message.Default(),
		logger:   logrus.StandardLogger(),
	}

	for _, option := range options {
		option(p)
	}

	return p
}

// NewDefaultPipeline creates a pipeline with every standard stage
func NewDefaultPipeline(config *snappage.Config, options ...Option) *Pipeline {
	p := NewPipeline(config, options...)

	p.AddProcessor(&ExpressionAnalyzer{})
	p.AddProcessor(&FunctionResolver{})
	p.AddProcessor(&FunctionMapper{})
	p.AddProcessor(&DebugInfoGenerator{})
	p.AddProcessor(&DebugInfoInstaller{})

	return p
}

// AddProcessor adds a processor to the pipeline
func (p *Pipeline) AddProcessor(processor Processor) {
	p.processors = append(p.processors, processor)
}

// Execute runs the pipeline over unit
func (p *Pipeline) Execute(ctx context.Context, unit *page.Unit) (*Output, error) {
	if unit == nil || unit.Root == nil {
		return nil, page.ErrNoRoot
	}

	resolver := p.resolver
	if resolver == nil {
		empty, err := functionmap.NewStaticResolver()
		if err != nil {
			return nil, fmt.Errorf("failed to create function resolver: %w", err)
		}

		resolver = empty
	}

	pctx := &ProcessingContext{
		Context:   ctx,
		Unit:      unit,
		Config:    p.config,
		Resolver:  resolver,
		Messages:  p.messages,
		Installer: p.installer,
		Logger:    p.logger.WithField("artifact", unit.Artifact),
	}

	for _, processor := range p.processors {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		pctx.Logger.WithField("processor", processor.Name()).Debug("running processor")

		err := processor.Process(pctx)
		if err != nil {
			return nil, fmt.Errorf("processor %s failed: %w", processor.Name(), err)
		}
	}

	return &Output{
		Unit:            unit,
		Declarations:    pctx.Declarations,
		FunctionMapCode: pctx.FunctionMapCode,
		Artifacts:       pctx.Artifacts,
	}, nil
}

// renderFunctionMaps renders the declaration source of the run
func renderFunctionMaps(ctx *ProcessingContext) (string, error) {
	var buf bytes.Buffer

	err := functionmap.RenderDeclarations(&buf, ctx.Declarations, functionmap.RenderOptions{
		Package:        ctx.Config.Generation.Package,
		RuntimePackage: ctx.Config.Generation.RuntimePackage,
	})
	if err != nil {
		return "", err
	}

	return buf.String(), nil
}
