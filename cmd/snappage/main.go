package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/sirupsen/logrus"
)

// Context represents the global context for commands
type Context struct {
	Config  string
	Verbose bool
	Quiet   bool
	Stdout  io.Writer
}

// CLI represents the command-line interface
var CLI struct {
	Config  string     `help:"Configuration file path" default:"snappage.yaml"`
	Verbose bool       `help:"Enable verbose output" short:"v"`
	Quiet   bool       `help:"Suppress output" short:"q"`
	Unquote UnquoteCmd `cmd:"" help:"Unquote an attribute value"`
	Parse   ParseCmd   `cmd:"" help:"Parse an expression and print its node tree"`
	Scan    ScanCmd    `cmd:"" help:"Split a template file into text and expressions"`
	Compile CompileCmd `cmd:"" help:"Analyze compilation units and generate function maps and source maps"`
	Smap    SmapCmd    `cmd:"" help:"Print the source map of a compilation unit"`
	Version VersionCmd `cmd:"" help:"Show version information"`
}

// VersionCmd represents the version command
type VersionCmd struct{}

// Run executes the version command
func (cmd *VersionCmd) Run(ctx *Context) error {
	fmt.Fprintln(ctx.Stdout, "snappage v0.1.0")
	return nil
}

func configureLogging(verbose, quiet bool) {
	logrus.SetOutput(os.Stderr)

	switch {
	case quiet:
		logrus.SetLevel(logrus.ErrorLevel)
	case verbose:
		logrus.SetLevel(logrus.DebugLevel)
	default:
		logrus.SetLevel(logrus.InfoLevel)
	}
}

func main() {
	ctx := kong.Parse(&CLI, kong.Name("snappage"), kong.Description("Template expression and debug information toolkit"))

	configureLogging(CLI.Verbose, CLI.Quiet)

	appCtx := &Context{
		Config:  CLI.Config,
		Verbose: CLI.Verbose,
		Quiet:   CLI.Quiet,
		Stdout:  os.Stdout,
	}

	err := ctx.Run(appCtx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
