// Package config provides configuration management for the member selector.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/ikari-pl/go-olap-memberselect/internal/olap"
)

// ErrNoCatalog is returned when neither a catalog URL nor a catalog file is
// configured.
var ErrNoCatalog = errors.New("no catalog configured: set --catalog-url or --catalog-file")

// Config holds the application configuration.
type Config struct {
	// Catalog options
	CatalogURL     string        `yaml:"catalogUrl,omitempty" validate:"omitempty,url"`
	CatalogFile    string        `yaml:"catalogFile,omitempty"`
	RequestTimeout time.Duration `yaml:"timeout" validate:"gte=0"`

	// Hierarchy the selector navigates
	Cube      string `yaml:"cube,omitempty"`
	Dimension string `yaml:"dimension,omitempty"`
	Hierarchy string `yaml:"hierarchy,omitempty"`

	// Prior selection; same keys as the yaml output format
	UniqueName  string   `yaml:"uniqueName,omitempty"`
	Breadcrumbs []string `yaml:"breadcrumbs,omitempty"`

	// Output options
	OutputFormat string `yaml:"format" validate:"oneof=json yaml text markdown"`
	OutputFile   string `yaml:"output,omitempty"`

	// UI options
	FilterDebounce time.Duration `yaml:"filterDebounce" validate:"gte=0"`
	Theme          string        `yaml:"theme" validate:"oneof=default neon"`
	NerdFonts      bool          `yaml:"nerdFonts"`
	AltScreen      bool          `yaml:"altScreen"`

	// Server options
	ListenAddr string `yaml:"listen" validate:"required,hostname_port"`
	Watch      bool   `yaml:"watch"`

	// Lint options
	LintFormat      string   `yaml:"lintFormat" validate:"oneof=text text-no-color json github"`
	LintStrict      bool     `yaml:"lintStrict"`
	LintMinSeverity string   `yaml:"lintMinSeverity" validate:"oneof=info warning error"`
	LintDisable     []string `yaml:"lintDisable,omitempty"`
	LintMaxFanOut   int      `yaml:"lintMaxFanOut" validate:"gte=0"`

	// Debug options
	Verbose bool   `yaml:"verbose"`
	Debug   bool   `yaml:"debug"`
	LogFile string `yaml:"logFile,omitempty"`
}

// NewConfig creates a new configuration with default values.
func NewConfig() *Config {
	return &Config{
		RequestTimeout:  30 * time.Second,
		OutputFormat:    "text",
		FilterDebounce:  250 * time.Millisecond,
		Theme:           "default",
		NerdFonts:       false,
		AltScreen:       true,
		ListenAddr:      "127.0.0.1:8080",
		LintFormat:      "text",
		LintMinSeverity: "info",
		LintMaxFanOut:   500,
		Verbose:         false,
		Debug:           false,
	}
}

// BindFlags registers the configuration flags on fs, using the current
// values as defaults.
func (c *Config) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.CatalogURL, "catalog-url", c.CatalogURL, "Base URL of the catalog discover API")
	fs.StringVar(&c.CatalogFile, "catalog-file", c.CatalogFile, "YAML catalog file")
	fs.DurationVar(&c.RequestTimeout, "timeout", c.RequestTimeout, "Timeout for a single catalog request")

	fs.StringVar(&c.Cube, "cube", c.Cube, "Cube name")
	fs.StringVar(&c.Dimension, "dimension", c.Dimension, "Dimension name")
	fs.StringVar(&c.Hierarchy, "hierarchy", c.Hierarchy, "Hierarchy name")

	fs.StringVar(&c.UniqueName, "unique-name", c.UniqueName, "Previously chosen member to resume from")
	fs.StringArrayVar(&c.Breadcrumbs, "breadcrumb", c.Breadcrumbs, "Previously saved breadcrumb (repeatable)")

	fs.StringVarP(&c.OutputFormat, "format", "f", c.OutputFormat, "Output format (json, yaml, text, markdown)")
	fs.StringVarP(&c.OutputFile, "output", "o", c.OutputFile, "Output file (defaults to stdout)")

	fs.DurationVar(&c.FilterDebounce, "filter-debounce", c.FilterDebounce, "Delay before a typed unique name is looked up (0 looks up every keystroke)")
	fs.StringVar(&c.Theme, "theme", c.Theme, "Color theme (default, neon)")
	fs.BoolVar(&c.NerdFonts, "nerd-fonts", c.NerdFonts, "Use Nerd Font icons")
	fs.BoolVar(&c.AltScreen, "alt-screen", c.AltScreen, "Draw the selector on the alternate screen")

	fs.StringVar(&c.ListenAddr, "listen", c.ListenAddr, "Address the catalog server listens on")
	fs.BoolVar(&c.Watch, "watch", c.Watch, "Reload the catalog file when it changes")

	fs.BoolVarP(&c.Verbose, "verbose", "v", c.Verbose, "Verbose output")
	fs.BoolVar(&c.Debug, "debug", c.Debug, "Debug output with source locations")
	fs.StringVar(&c.LogFile, "log-file", c.LogFile, "Write logs to this file")
}

// BindLintFlags registers the flags of the lint command on fs.
func (c *Config) BindLintFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.LintFormat, "lint-format", c.LintFormat, "Lint report format (text, text-no-color, json, github)")
	fs.BoolVar(&c.LintStrict, "strict", c.LintStrict, "Fail on warnings")
	fs.StringVar(&c.LintMinSeverity, "min-severity", c.LintMinSeverity, "Minimum severity to report (info, warning, error)")
	fs.StringSliceVar(&c.LintDisable, "disable", c.LintDisable, "Rule IDs to skip (comma separated)")
	fs.IntVar(&c.LintMaxFanOut, "max-fan-out", c.LintMaxFanOut, "Children per member before high-fan-out is reported")
}

// LoadFile merges a YAML config file into c. Flags set on the command line
// keep precedence over the file.
func (c *Config) LoadFile(path string, fs *pflag.FlagSet) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	cli := *c
	cli.Breadcrumbs = append([]string(nil), c.Breadcrumbs...)
	cli.LintDisable = append([]string(nil), c.LintDisable...)

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}

	if fs == nil {
		return nil
	}
	current, given := c.fields(), cli.fields()
	fs.Visit(func(f *pflag.Flag) {
		dst, ok := current[f.Name]
		if !ok {
			return
		}
		switch p := dst.(type) {
		case *string:
			*p = *given[f.Name].(*string)
		case *bool:
			*p = *given[f.Name].(*bool)
		case *int:
			*p = *given[f.Name].(*int)
		case *time.Duration:
			*p = *given[f.Name].(*time.Duration)
		case *[]string:
			*p = *given[f.Name].(*[]string)
		}
	})
	return nil
}

// fields maps flag names to the fields they set.
func (c *Config) fields() map[string]any {
	return map[string]any{
		"catalog-url":     &c.CatalogURL,
		"catalog-file":    &c.CatalogFile,
		"timeout":         &c.RequestTimeout,
		"cube":            &c.Cube,
		"dimension":       &c.Dimension,
		"hierarchy":       &c.Hierarchy,
		"unique-name":     &c.UniqueName,
		"breadcrumb":      &c.Breadcrumbs,
		"format":          &c.OutputFormat,
		"output":          &c.OutputFile,
		"filter-debounce": &c.FilterDebounce,
		"theme":           &c.Theme,
		"nerd-fonts":      &c.NerdFonts,
		"alt-screen":      &c.AltScreen,
		"listen":          &c.ListenAddr,
		"watch":           &c.Watch,
		"lint-format":     &c.LintFormat,
		"strict":          &c.LintStrict,
		"min-severity":    &c.LintMinSeverity,
		"disable":         &c.LintDisable,
		"max-fan-out":     &c.LintMaxFanOut,
		"verbose":         &c.Verbose,
		"debug":           &c.Debug,
		"log-file":        &c.LogFile,
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate validates the configuration.
func (c *Config) Validate() error {
	c.OutputFormat = strings.ToLower(c.OutputFormat)
	c.Theme = strings.ToLower(c.Theme)
	c.LintFormat = strings.ToLower(c.LintFormat)
	c.LintMinSeverity = strings.ToLower(c.LintMinSeverity)
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// ToSelectorOptions converts the config to options for the select and
// resolve commands.
func (c *Config) ToSelectorOptions() (SelectorOptions, error) {
	if c.CatalogURL == "" && c.CatalogFile == "" {
		return SelectorOptions{}, ErrNoCatalog
	}
	opts := SelectorOptions{
		CatalogURL:     c.CatalogURL,
		CatalogFile:    c.CatalogFile,
		RequestTimeout: c.RequestTimeout,
		Cube:           c.Cube,
		Dimension:      c.Dimension,
		Hierarchy:      c.Hierarchy,
		UniqueName:     c.UniqueName,
		Breadcrumbs:    c.Breadcrumbs,
		FilterDebounce: c.FilterDebounce,
	}
	if err := validate.Struct(opts); err != nil {
		return SelectorOptions{}, fmt.Errorf("invalid selector options: %w", err)
	}
	return opts, nil
}

// ToServerOptions converts the config to options for the serve command.
func (c *Config) ToServerOptions() (ServerOptions, error) {
	if c.CatalogFile == "" {
		return ServerOptions{}, ErrNoCatalog
	}
	opts := ServerOptions{
		CatalogFile: c.CatalogFile,
		ListenAddr:  c.ListenAddr,
		Watch:       c.Watch,
	}
	if err := validate.Struct(opts); err != nil {
		return ServerOptions{}, fmt.Errorf("invalid server options: %w", err)
	}
	return opts, nil
}

// ToLintOptions converts the config to options for the lint command.
func (c *Config) ToLintOptions() (LintOptions, error) {
	if c.CatalogFile == "" {
		return LintOptions{}, ErrNoCatalog
	}
	opts := LintOptions{
		CatalogFile: c.CatalogFile,
		Format:      c.LintFormat,
		Strict:      c.LintStrict,
		MinSeverity: c.LintMinSeverity,
		Disable:     c.LintDisable,
		MaxFanOut:   c.LintMaxFanOut,
	}
	if err := validate.Struct(opts); err != nil {
		return LintOptions{}, fmt.Errorf("invalid lint options: %w", err)
	}
	return opts, nil
}

// SelectorOptions represents options for one selector session.
type SelectorOptions struct {
	CatalogURL     string        `validate:"omitempty,url"`
	CatalogFile    string        `validate:"omitempty"`
	RequestTimeout time.Duration `validate:"gte=0"`

	Cube      string `validate:"required"`
	Dimension string `validate:"required"`
	Hierarchy string `validate:"required"`

	UniqueName  string
	Breadcrumbs []string

	FilterDebounce time.Duration `validate:"gte=0"`
}

// Coordinates returns the hierarchy the session navigates.
func (o SelectorOptions) Coordinates() olap.Coordinates {
	return olap.Coordinates{Cube: o.Cube, Dimension: o.Dimension, Hierarchy: o.Hierarchy}
}

// ServerOptions represents options for the catalog server.
type ServerOptions struct {
	CatalogFile string `validate:"required"`
	ListenAddr  string `validate:"required,hostname_port"`
	Watch       bool
}

// LintOptions represents options for the catalog linter.
type LintOptions struct {
	CatalogFile string `validate:"required"`
	Format      string `validate:"required"`
	Strict      bool
	MinSeverity string
	Disable     []string
	MaxFanOut   int `validate:"gte=0"`
}
