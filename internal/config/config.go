package config

import (
	"errors"
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes environment overrides, e.g. RUBYCORESOURCE_ROOT.
	EnvPrefix = "RUBYCORESOURCE"
	// FileName is the config file looked up in the working directory.
	FileName = "rubycoresource"

	OutputText = "text"
	OutputYAML = "yaml"
)

// Config holds the settings shared by every command.
type Config struct {
	// Root is the packaged-sources root whose subdirectories form the catalog.
	Root    string `mapstructure:"root"`
	Verbose bool   `mapstructure:"verbose"`
	Output  string `mapstructure:"output"`
}

// LoadOptions controls where configuration is read from.
type LoadOptions struct {
	// ConfigFile, when set, is read exclusively and must exist.
	ConfigFile string
	// SearchDir is where FileName.yaml is looked up. Defaults to ".".
	SearchDir string
	// Flags are bound over file and environment values when changed.
	Flags *pflag.FlagSet
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{Output: OutputText}
}

// Load merges defaults, the config file, RUBYCORESOURCE_* environment
// variables and flags, in increasing order of precedence.
func Load(opts LoadOptions) (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("root", defaults.Root)
	v.SetDefault("verbose", defaults.Verbose)
	v.SetDefault("output", defaults.Output)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", opts.ConfigFile, err)
		}
	} else {
		dir := opts.SearchDir
		if dir == "" {
			dir = "."
		}
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(dir)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	if opts.Flags != nil {
		for _, key := range []string{"root", "verbose", "output"} {
			if f := opts.Flags.Lookup(key); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("binding flag %s: %w", key, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that viper cannot constrain.
func (c *Config) Validate() error {
	switch c.Output {
	case OutputText, OutputYAML:
	default:
		return fmt.Errorf("invalid output format %q (want %s or %s)", c.Output, OutputText, OutputYAML)
	}
	return nil
}

// RequireRoot fails when no packaged-sources root was configured.
func (c *Config) RequireRoot() error {
	if c.Root == "" {
		return fmt.Errorf("no packaged-sources root configured (use --root or %s_ROOT)", EnvPrefix)
	}
	return nil
}
