// Package config loads docpal settings from viper: defaults, the config file,
// DOCPAL_ environment variables and bound flags, with optional named profiles
// layered on top.
package config

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/jingkaihe/docpal/pkg/index"
	"github.com/jingkaihe/docpal/pkg/logger"
	"github.com/jingkaihe/docpal/pkg/palette"
	"github.com/jingkaihe/docpal/pkg/search"
)

// EnvPrefix is the prefix for environment overrides, e.g. DOCPAL_PAGE
const EnvPrefix = "DOCPAL"

// PaletteConfig holds palette behaviour settings
type PaletteConfig struct {
	Debounce time.Duration `mapstructure:"debounce" json:"debounce" yaml:"debounce"`
}

// SearchConfig holds ranking settings
type SearchConfig struct {
	Weights search.Weights `mapstructure:"weights" json:"weights" yaml:"weights"`
}

// Config is the resolved docpal configuration
type Config struct {
	// Page is an HTML documentation page. Empty means the page is synthesised
	// from the index.
	Page            string                `mapstructure:"page" json:"page" yaml:"page"`
	Title           string                `mapstructure:"title" json:"title" yaml:"title"`
	Root            string                `mapstructure:"root" json:"root" yaml:"root"`
	CommandsSection string                `mapstructure:"commands_section" json:"commands_section" yaml:"commands_section"`
	CommandGlobs    []string              `mapstructure:"command_globs" json:"command_globs" yaml:"command_globs"`
	SkillDirs       []string              `mapstructure:"skill_dirs" json:"skill_dirs" yaml:"skill_dirs"`
	Exclude         []string              `mapstructure:"exclude" json:"exclude" yaml:"exclude"`
	Sections        []index.SectionSpec   `mapstructure:"sections" json:"sections" yaml:"sections"`
	Palette         PaletteConfig         `mapstructure:"palette" json:"palette" yaml:"palette"`
	Search          SearchConfig          `mapstructure:"search" json:"search" yaml:"search"`
	LogLevel        string                `mapstructure:"log_level" json:"log_level" yaml:"log_level"`
	LogFormat       string                `mapstructure:"log_format" json:"log_format" yaml:"log_format"`
	LogFile         string                `mapstructure:"log_file" json:"log_file" yaml:"log_file"`
	Profile         string                `mapstructure:"profile" json:"profile,omitempty" yaml:"profile,omitempty"`
	Profiles        map[string]ProfileMap `mapstructure:"profiles" json:"profiles,omitempty" yaml:"profiles,omitempty"`
}

// ProfileMap is a partial configuration applied over the base config
type ProfileMap map[string]interface{}

// SetDefaults registers the default values on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault("title", "Documentation")
	v.SetDefault("root", ".")
	v.SetDefault("commands_section", palette.DefaultCommandsSection)
	v.SetDefault("command_globs", []string{index.DefaultCommandGlob})
	v.SetDefault("skill_dirs", []string{filepath.Join(".claude", "skills")})
	v.SetDefault("palette.debounce", palette.DefaultDebounce)
	v.SetDefault("search.weights.base", search.DefaultWeights.Base)
	v.SetDefault("search.weights.consecutive_bonus", search.DefaultWeights.ConsecutiveBonus)
	v.SetDefault("search.weights.boundary_bonus", search.DefaultWeights.BoundaryBonus)
	v.SetDefault("search.weights.camel_bonus", search.DefaultWeights.CamelBonus)
	v.SetDefault("search.weights.length_cap", search.DefaultWeights.LengthCap)
	v.SetDefault("search.weights.title_weight", search.DefaultWeights.TitleWeight)
	v.SetDefault("search.weights.description_weight", search.DefaultWeights.DescriptionWeight)
	v.SetDefault("search.weights.keywords_weight", search.DefaultWeights.KeywordsWeight)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "fmt")
}

// Init wires v to the config file locations and environment
func Init(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.docpal")
	v.AddConfigPath(".")

	SetDefaults(v)
}

// Load decodes v into a Config and applies the active profile
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, errors.Wrap(err, "failed to unmarshal configuration")
	}

	if name := activeProfile(cfg.Profile); name != "" {
		profile, ok := cfg.Profiles[name]
		if !ok {
			return cfg, errors.Errorf("profile %q not found", name)
		}
		if err := applyProfile(&cfg, profile); err != nil {
			return cfg, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects settings no component can work with
func (c Config) Validate() error {
	if c.Palette.Debounce < 0 {
		return errors.Errorf("palette.debounce must not be negative, got %s", c.Palette.Debounce)
	}
	w := c.Search.Weights
	if w.Base <= 0 {
		return errors.Errorf("search.weights.base must be positive, got %d", w.Base)
	}
	for name, value := range map[string]int{
		"base":               w.Base,
		"consecutive_bonus":  w.ConsecutiveBonus,
		"boundary_bonus":     w.BoundaryBonus,
		"camel_bonus":        w.CamelBonus,
		"length_cap":         w.LengthCap,
		"title_weight":       w.TitleWeight,
		"description_weight": w.DescriptionWeight,
		"keywords_weight":    w.KeywordsWeight,
	} {
		if value < 0 {
			return errors.Errorf("search.weights.%s must not be negative, got %d", name, value)
		}
	}
	switch c.LogFormat {
	case "", "fmt", "text", "json":
	default:
		return errors.Errorf("unsupported log format %q", c.LogFormat)
	}
	return nil
}

// Matcher returns a matcher using the configured weights
func (c Config) Matcher() *search.Matcher {
	return search.NewMatcher(c.Search.Weights)
}

// LoggerOptions maps the log settings onto logger.Options
func (c Config) LoggerOptions() logger.Options {
	return logger.Options{
		Level:  c.LogLevel,
		Format: c.LogFormat,
		File:   c.LogFile,
	}
}

// IndexOptions maps the source settings onto index builder options. The
// page is passed separately because it is loaded before the index is built.
func (c Config) IndexOptions() []index.Option {
	root := c.Root
	if root == "" {
		root = "."
	}
	opts := []index.Option{
		index.WithRoot(root),
		index.WithCommandGlobs(c.CommandGlobs...),
		index.WithSkillDirs(c.SkillDirs...),
	}
	if len(c.Sections) > 0 {
		opts = append(opts, index.WithSections(c.Sections...))
	}
	if len(c.Exclude) > 0 {
		opts = append(opts, index.WithExclude(c.Exclude...))
	}
	return opts
}

// PagePath resolves the page path against Root
func (c Config) PagePath() string {
	if c.Page == "" || filepath.IsAbs(c.Page) {
		return c.Page
	}
	return filepath.Join(c.Root, c.Page)
}

func activeProfile(name string) string {
	if name == "default" {
		return ""
	}
	return name
}

func applyProfile(cfg *Config, profile ProfileMap) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		ZeroFields:       false,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return errors.Wrap(err, "failed to create profile decoder")
	}

	if err := decoder.Decode(map[string]interface{}(profile)); err != nil {
		return errors.Wrap(err, "failed to apply profile configuration")
	}

	return nil
}
