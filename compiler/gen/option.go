package gen

import (
	"path"
	"path/filepath"

	"github.com/rs/zerolog"
)

// DefaultHeader is the header comment added at the top of each generated file.
const DefaultHeader = "Code generated by typegen. DO NOT EDIT."

// Config holds the settings of a generation run. All state is explicit;
// there are no process-wide flags.
type Config struct {
	// Package is the import path of the generated entry package,
	// e.g. "github.com/org/project/content". The declaration and client
	// packages live under it at <Package>/schema and <Package>/client.
	Package string
	// Target is the output directory the entry package is written to.
	Target string
	// Entry overrides the entry package name. Defaults to the base of Package.
	Entry string
	// Header is the comment at the top of every generated file.
	Header string
	// NoFormat skips the cosmetic formatter pass. Formatting never gates
	// correctness, so this only affects output cosmetics.
	NoFormat bool
	// Logger receives non-fatal progress and fallback events.
	Logger zerolog.Logger
}

// Option configures code generation.
type Option func(*Config) error

// WithPackage sets the import path of the generated entry package.
func WithPackage(pkg string) Option {
	return func(c *Config) error {
		if pkg == "" {
			return NewConfigError("Package", nil, "package cannot be empty")
		}
		c.Package = pkg
		return nil
	}
}

// WithTarget sets the output directory.
func WithTarget(dir string) Option {
	return func(c *Config) error {
		if dir == "" {
			return NewConfigError("Target", nil, "target directory cannot be empty")
		}
		c.Target = dir
		return nil
	}
}

// WithEntry sets the entry package name.
func WithEntry(name string) Option {
	return func(c *Config) error {
		c.Entry = name
		return nil
	}
}

// WithHeader sets the file header comment.
func WithHeader(header string) Option {
	return func(c *Config) error {
		c.Header = header
		return nil
	}
}

// WithLogger sets the logger used for non-fatal events.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Config) error {
		c.Logger = l
		return nil
	}
}

// WithoutFormat disables the cosmetic formatter pass.
func WithoutFormat() Option {
	return func(c *Config) error {
		c.NoFormat = true
		return nil
	}
}

// NewConfig builds a Config from options and validates it.
func NewConfig(opts ...Option) (*Config, error) {
	c := &Config{
		Header: DefaultHeader,
		Logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if c.Package == "" {
		return nil, NewConfigError("Package", nil, "package import path is required")
	}
	if c.Target == "" {
		return nil, NewConfigError("Target", nil, "target directory is required")
	}
	return c, nil
}

// schemaPkg is the import path of the generated declarations package.
func (c *Config) schemaPkg() string { return c.Package + "/schema" }

// clientPkg is the import path of the generated access-layer package.
func (c *Config) clientPkg() string { return c.Package + "/client" }

// entryName is the package name of the entry module.
func (c *Config) entryName() string {
	if c.Entry != "" {
		return c.Entry
	}
	return path.Base(c.Package)
}

// Generated file names, relative to Target. The layout is a stable contract:
// consumers import the entry package path; the schema and client packages are
// reached through it.
func (c *Config) schemaFile() string { return filepath.Join("schema", "schema.go") }
func (c *Config) clientFile() string { return filepath.Join("client", "client.go") }
func (c *Config) entryFile() string  { return c.entryName() + ".go" }
