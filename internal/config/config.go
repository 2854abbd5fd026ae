// Package config loads generator settings from defaults, an optional
// .delegate.yaml file, DELEGATE_* environment variables and CLI flags.
package config

// DefaultFile is the configuration file looked up in the working directory
const DefaultFile = ".delegate.yaml"

// EnvPrefix prefixes every environment variable the loader reads
const EnvPrefix = "DELEGATE_"

// Config holds the configuration for one generation pass
type Config struct {
	// Module overrides the module path read from go.mod
	Module string `koanf:"module"`

	// Tags are build tags used when loading packages
	Tags []string `koanf:"tags"`

	// Exclude lists doublestar patterns of directories to skip, relative to each scanned root
	Exclude []string `koanf:"exclude" validate:"dive,globpattern"`

	// Strict turns name collisions between forwarders into errors
	Strict bool `koanf:"strict"`

	// DryRun prints generated units instead of writing them
	DryRun bool `koanf:"dry_run"`

	// InlineDirective is written above forwarders of members marked -Inline.
	// The default //go:inline only marks them; the gc compiler ignores it and
	// inlines by its own cost model.
	InlineDirective string `koanf:"inline_directive" validate:"required,startswith=//"`

	// DefaultReceiver is used for containers that declare no methods of their own
	DefaultReceiver string `koanf:"default_receiver" validate:"oneof=pointer value"`

	// FilePrefix names generated units: <prefix><snake_type>.go
	FilePrefix string `koanf:"file_prefix" validate:"required,excludesall=/\\"`

	LogLevel string `koanf:"log_level" validate:"oneof=silent error warn info verbose debug"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Tags:            []string{},
		Exclude:         []string{},
		InlineDirective: "//go:inline",
		DefaultReceiver: "pointer",
		FilePrefix:      "autogen_delegate_",
		LogLevel:        "info",
	}
}
