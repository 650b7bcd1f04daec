package main

import (
	"fmt"

	"github.com/shibukawa/snappage"
	"github.com/shibukawa/snappage/functionmap"
	"github.com/shibukawa/snappage/message"
)

// environment bundles what the commands load from the configuration file
type environment struct {
	config   *snappage.Config
	messages *message.Catalog
	resolver *functionmap.StaticResolver
}

func loadEnvironment(ctx *Context) (*environment, error) {
	config, err := snappage.LoadConfig(ctx.Config)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	messages, err := message.Load(config.Messages.Language, config.Messages.File)
	if err != nil {
		return nil, err
	}

	resolver, err := functionmap.LoadResolver(config.Functions.Libraries...)
	if err != nil {
		return nil, fmt.Errorf("failed to load function libraries: %w", err)
	}

	return &environment{config: config, messages: messages, resolver: resolver}, nil
}
