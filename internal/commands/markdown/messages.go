package markdowncmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

const importDirectoryMessageType = "sitecms.markdown.import_directory"

// ImportDirectoryCommand imports every Markdown file under Directory as pages.
type ImportDirectoryCommand struct {
	Directory string    `json:"directory"`
	Actor     uuid.UUID `json:"actor,omitempty"`
	// UpdateExisting replaces the imported section of pages that exist.
	UpdateExisting bool `json:"update_existing,omitempty"`
	DryRun         bool `json:"dry_run,omitempty"`
}

func (ImportDirectoryCommand) Type() string { return importDirectoryMessageType }

func (cmd ImportDirectoryCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Directory, validation.Required, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("sitecms.markdown.import_directory.directory_required", "directory is required")
			}
			if strings.Contains(value.(string), "..") {
				return validation.NewError("sitecms.markdown.import_directory.directory_invalid", "directory must not leave the base path")
			}
			return nil
		})),
	)
}
