package cms

import "github.com/goliatone/go-sitecms/internal/runtimeconfig"

var (
	ErrDefaultLocaleRequired      = runtimeconfig.ErrDefaultLocaleRequired
	ErrDefaultLocaleNotListed     = runtimeconfig.ErrDefaultLocaleNotListed
	ErrStorageProviderUnknown     = runtimeconfig.ErrStorageProviderUnknown
	ErrStorageDSNRequired         = runtimeconfig.ErrStorageDSNRequired
	ErrCacheTTLInvalid            = runtimeconfig.ErrCacheTTLInvalid
	ErrMenuNamesRequired          = runtimeconfig.ErrMenuNamesRequired
	ErrEditorConcurrencyInvalid   = runtimeconfig.ErrEditorConcurrencyInvalid
	ErrMediaDirRequired           = runtimeconfig.ErrMediaDirRequired
	ErrMediaLimitInvalid          = runtimeconfig.ErrMediaLimitInvalid
	ErrAuthSecretTooShort         = runtimeconfig.ErrAuthSecretTooShort
	ErrAuthPasswordRequired       = runtimeconfig.ErrAuthPasswordRequired
	ErrMarkdownContentDirRequired = runtimeconfig.ErrMarkdownContentDirRequired
	ErrLoggingProviderRequired    = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown     = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid        = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid       = runtimeconfig.ErrLoggingFormatInvalid
)

const (
	StorageMemory   = runtimeconfig.StorageMemory
	StorageSQLite   = runtimeconfig.StorageSQLite
	StoragePostgres = runtimeconfig.StoragePostgres
)

type (
	Config               = runtimeconfig.Config
	I18NConfig           = runtimeconfig.I18NConfig
	StorageConfig        = runtimeconfig.StorageConfig
	CacheConfig          = runtimeconfig.CacheConfig
	NavigationConfig     = runtimeconfig.NavigationConfig
	URLKitResolverConfig = runtimeconfig.URLKitResolverConfig
	RenderConfig         = runtimeconfig.RenderConfig
	MediaConfig          = runtimeconfig.MediaConfig
	EditorConfig         = runtimeconfig.EditorConfig
	AuthConfig           = runtimeconfig.AuthConfig
	HTTPConfig           = runtimeconfig.HTTPConfig
	MarkdownConfig       = runtimeconfig.MarkdownConfig
	MarkdownParserConfig = runtimeconfig.MarkdownParserConfig
	SeedConfig           = runtimeconfig.SeedConfig
	CommandsConfig       = runtimeconfig.CommandsConfig
	LoggingConfig        = runtimeconfig.LoggingConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
