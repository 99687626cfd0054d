// Package markdowncmd exposes the Markdown page import as a command.
package markdowncmd

import (
	"context"
	"errors"

	command "github.com/goliatone/go-command"
	"github.com/goliatone/go-sitecms/internal/commands"
	"github.com/goliatone/go-sitecms/internal/logging"
	"github.com/goliatone/go-sitecms/pkg/interfaces"
)

const importOperation = "markdown.import_directory"

var ErrServiceRequired = errors.New("markdown command: service is required")

var _ command.Commander[ImportDirectoryCommand] = (*ImportDirectoryHandler)(nil)

type ImportDirectoryHandler struct {
	inner *commands.Handler[ImportDirectoryCommand]
}

func NewImportDirectoryHandler(service interfaces.MarkdownService, logger interfaces.Logger, opts ...commands.HandlerOption[ImportDirectoryCommand]) (*ImportDirectoryHandler, error) {
	if service == nil {
		return nil, ErrServiceRequired
	}
	if logger == nil {
		logger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg ImportDirectoryCommand) error {
		result, err := service.ImportDirectory(ctx, msg.Directory, interfaces.MarkdownImportOptions{
			Actor:          msg.Actor,
			DryRun:         msg.DryRun,
			UpdateExisting: msg.UpdateExisting,
		})
		if err != nil {
			return err
		}
		for _, failure := range result.Errors {
			logger.Warn("markdown.command.import_directory.file_failed", "path", failure.Path, "error", failure.Err)
		}
		logging.WithFields(logger, map[string]any{
			"created_count": len(result.Created),
			"updated_count": len(result.Updated),
			"skipped_count": len(result.Skipped),
			"error_count":   len(result.Errors),
			"dry_run":       msg.DryRun,
		}).Info("markdown.command.import_directory.completed")
		return nil
	}

	handlerOpts := []commands.HandlerOption[ImportDirectoryCommand]{
		commands.WithLogger[ImportDirectoryCommand](logger),
		commands.WithOperation[ImportDirectoryCommand](importOperation),
		commands.WithMessageFields(func(msg ImportDirectoryCommand) map[string]any {
			fields := map[string]any{"directory": msg.Directory}
			if msg.UpdateExisting {
				fields["update_existing"] = true
			}
			if msg.DryRun {
				fields["dry_run"] = true
			}
			return fields
		}),
	}
	return &ImportDirectoryHandler{
		inner: commands.NewHandler(exec, append(handlerOpts, opts...)...),
	}, nil
}

func (h *ImportDirectoryHandler) Execute(ctx context.Context, msg ImportDirectoryCommand) error {
	return h.inner.Execute(ctx, msg)
}
