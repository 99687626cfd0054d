package di

import (
	"context"
	"fmt"

	"github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"
	markdowncmd "github.com/goliatone/go-sitecms/internal/commands/markdown"
	seedcmd "github.com/goliatone/go-sitecms/internal/commands/seed"
	"github.com/goliatone/go-sitecms/internal/logging"
)

// CommandSubscription allows hosts to tear down dispatcher subscriptions.
type CommandSubscription interface {
	Unsubscribe()
}

func (c *Container) configureCommands(context.Context) error {
	logger := logging.CommandsLogger(c.loggerProvider)

	seed, err := seedcmd.NewHandler(c.pageSvc, c.menuSvc, logger)
	if err != nil {
		return fmt.Errorf("di: seed handler: %w", err)
	}
	c.seedHandler = seed

	if c.markdownSvc != nil {
		handler, err := markdowncmd.NewImportDirectoryHandler(c.markdownSvc, logger)
		if err != nil {
			return fmt.Errorf("di: markdown handler: %w", err)
		}
		c.markdownHandler = handler
	}

	if !c.Config.Commands.AutoRegisterDispatcher {
		return nil
	}
	retries := runner.WithMaxRetries(c.Config.Commands.MaxRetries)
	c.subscriptions = append(c.subscriptions, dispatcher.SubscribeCommand(c.seedHandler, retries))
	if c.markdownHandler != nil {
		c.subscriptions = append(c.subscriptions, dispatcher.SubscribeCommand(c.markdownHandler, retries))
	}
	logger.Debug("commands.dispatcher.registered", "subscriptions", len(c.subscriptions))
	return nil
}

// SeedHandler creates the system pages and default menus.
func (c *Container) SeedHandler() *seedcmd.Handler { return c.seedHandler }

// MarkdownHandler is nil unless Markdown import is enabled.
func (c *Container) MarkdownHandler() *markdowncmd.ImportDirectoryHandler { return c.markdownHandler }

// Subscriptions lists the dispatcher subscriptions held by the container.
func (c *Container) Subscriptions() []CommandSubscription {
	return append([]CommandSubscription(nil), c.subscriptions...)
}
