package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// FileName is the base name of the configuration file, without extension.
const FileName = "verilog_tmpl"

// EnvPrefix prefixes environment overrides, e.g. VERILOG_TMPL_INDENT.
const EnvPrefix = "VERILOG_TMPL"

// Config is the top-level configuration for verilog-tmpl
type Config struct {
	// Indent is one level of indentation in generated code
	Indent string `yaml:"indent" mapstructure:"indent"`

	// InstancePrefix is prepended to the module name of unnamed instances
	InstancePrefix string `yaml:"instance_prefix" mapstructure:"instance_prefix"`

	Template TemplateConfig `yaml:"template" mapstructure:"template"`
	Render   RenderConfig   `yaml:"render" mapstructure:"render"`
}

// TemplateConfig controls how templates are parsed and executed
type TemplateConfig struct {
	LeftDelim  string `yaml:"left_delim" mapstructure:"left_delim"`
	RightDelim string `yaml:"right_delim" mapstructure:"right_delim"`

	// MissingKey is passed to template.Option as missingkey=<value>:
	// "default", "zero" or "error"
	MissingKey string `yaml:"missing_key" mapstructure:"missing_key"`

	// Extension is stripped from a template path to name its output
	Extension string `yaml:"extension" mapstructure:"extension"`
}

// RenderConfig lists the templates rendered when no template is named on
// the command line
type RenderConfig struct {
	// Templates is a list of glob patterns; ** matches across directories
	Templates []string `yaml:"templates" mapstructure:"templates"`

	// Exclude is a list of glob patterns removed from Templates
	Exclude []string `yaml:"exclude" mapstructure:"exclude"`

	// Data is the default data file handed to every template
	Data string `yaml:"data" mapstructure:"data"`

	// Strict fails a render when any operation reported an error
	Strict bool `yaml:"strict" mapstructure:"strict"`
}

// DefaultConfig returns a sensible default configuration
func DefaultConfig() *Config {
	return &Config{
		Indent:         "  ",
		InstancePrefix: "i_",
		Template: TemplateConfig{
			LeftDelim:  "{{",
			RightDelim: "}}",
			MissingKey: "error",
			Extension:  ".tmpl",
		},
		Render: RenderConfig{
			Templates: []string{"**/*.v.tmpl", "**/*.sv.tmpl"},
			Exclude:   []string{},
		},
	}
}

// Load finds and loads the configuration file
// Search order:
//  1. ./verilog_tmpl.{yaml,yml,json} (current working directory)
//  2. <rootPath>/verilog_tmpl.{yaml,yml,json}
//  3. ~/.config/verilog_tmpl/verilog_tmpl.{yaml,yml,json}
//
// VERILOG_TMPL_* environment variables override file values.
// Returns DefaultConfig plus overrides if no config file is found
func Load(rootPath string) (*Config, error) {
	v := newViper()
	v.SetConfigName(FileName)

	cwd, _ := os.Getwd()
	v.AddConfigPath(cwd)
	if info, err := os.Stat(rootPath); err == nil && info.IsDir() {
		v.AddConfigPath(rootPath)
	}
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", FileName))
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}
	return decode(v)
}

// LoadFile loads configuration from a specific file
func LoadFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// setDefaults registers every key so environment overrides reach Unmarshal.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("indent", d.Indent)
	v.SetDefault("instance_prefix", d.InstancePrefix)
	v.SetDefault("template.left_delim", d.Template.LeftDelim)
	v.SetDefault("template.right_delim", d.Template.RightDelim)
	v.SetDefault("template.missing_key", d.Template.MissingKey)
	v.SetDefault("template.extension", d.Template.Extension)
	v.SetDefault("render.templates", d.Render.Templates)
	v.SetDefault("render.exclude", d.Render.Exclude)
	v.SetDefault("render.data", d.Render.Data)
	v.SetDefault("render.strict", d.Render.Strict)
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Apply defaults for fields set to empty values
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// applyDefaults fills in missing configuration with defaults
func (c *Config) applyDefaults() {
	d := DefaultConfig()
	if c.Indent == "" {
		c.Indent = d.Indent
	}
	if c.Template.LeftDelim == "" && c.Template.RightDelim == "" {
		c.Template.LeftDelim = d.Template.LeftDelim
		c.Template.RightDelim = d.Template.RightDelim
	}
	if c.Template.MissingKey == "" {
		c.Template.MissingKey = d.Template.MissingKey
	}
	if c.Template.Extension == "" {
		c.Template.Extension = d.Template.Extension
	}
	if c.Render.Exclude == nil {
		c.Render.Exclude = []string{}
	}
}

// Validate checks values that would otherwise fail deep inside a render.
func (c *Config) Validate() error {
	var errs []error
	if strings.Trim(c.Indent, " \t") != "" {
		errs = append(errs, fmt.Errorf("indent must be spaces or tabs, got %q", c.Indent))
	}
	if (c.Template.LeftDelim == "") != (c.Template.RightDelim == "") {
		errs = append(errs, errors.New("template.left_delim and template.right_delim must be set together"))
	}
	switch c.Template.MissingKey {
	case "default", "zero", "error":
	default:
		errs = append(errs, fmt.Errorf("template.missing_key must be default, zero or error, got %q", c.Template.MissingKey))
	}
	return errors.Join(errs...)
}

// Save writes the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// OutputPath names the file a template renders to: the template path
// without the template extension, or with ".out" appended when the
// extension is absent.
func (c *Config) OutputPath(templatePath string) string {
	if trimmed, ok := strings.CutSuffix(templatePath, c.Template.Extension); ok && trimmed != "" {
		return trimmed
	}
	return templatePath + ".out"
}
