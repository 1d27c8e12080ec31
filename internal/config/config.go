package config

import (
	"errors"
	"fmt"
	"go/token"
	"os"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

// CharMatch selects how pointee descriptors are compared with character markers.
type CharMatch string

const (
	// MatchSubstring classifies a pointee as a character buffer when its
	// descriptor contains any marker. A pointee type whose name merely embeds
	// a marker (c_char_wrapper) is classified the same way.
	MatchSubstring CharMatch = "substring"
	// MatchExact compares only the last path segment of the descriptor.
	MatchExact CharMatch = "exact"
)

type Config struct {
	OutputDir   string    `mapstructure:"output_dir"`
	FileSuffix  string    `mapstructure:"file_suffix"`
	HookName    string    `mapstructure:"hook_name"`
	CharMarkers []string  `mapstructure:"char_markers"`
	CharMatch   CharMatch `mapstructure:"char_match"`
	Recursive   bool      `mapstructure:"recursive"`
	LogLevel    string    `mapstructure:"log_level"`
}

const (
	DefaultConfigName = "destructgen"
	EnvPrefix         = "DESTRUCTGEN"
)

var (
	config     *Config
	configErr  error
	configOnce sync.Once
)

// GetConfig returns the process-wide configuration, loaded once from
// destructgen.yaml in the working directory. A malformed or invalid file is
// reported on every call; it never falls back to the defaults.
func GetConfig() (*Config, error) {
	configOnce.Do(func() {
		config, configErr = Load("")
	})
	return config, configErr
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		FileSuffix:  "_destruct_gen.go",
		HookName:    "Destruct",
		CharMarkers: []string{"c_char", "C.char"},
		CharMatch:   MatchSubstring,
		LogLevel:    "info",
	}
}

// Load reads configuration from path, or from destructgen.{yaml,yml,json,toml}
// in the working directory when path is empty. Environment variables prefixed
// with DESTRUCTGEN_ override file values.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("error reading config %s: %w", path, err)
		}
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(DefaultConfigName)
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("output_dir", d.OutputDir)
	v.SetDefault("file_suffix", d.FileSuffix)
	v.SetDefault("hook_name", d.HookName)
	v.SetDefault("char_markers", d.CharMarkers)
	v.SetDefault("char_match", string(d.CharMatch))
	v.SetDefault("recursive", d.Recursive)
	v.SetDefault("log_level", d.LogLevel)
}

func (c *Config) Validate() error {
	switch c.CharMatch {
	case MatchSubstring, MatchExact:
	default:
		return fmt.Errorf("unsupported char_match %q (supported: substring, exact)", c.CharMatch)
	}
	if len(c.CharMarkers) == 0 {
		return fmt.Errorf("char_markers must not be empty")
	}
	if !token.IsIdentifier(c.HookName) || !token.IsExported(c.HookName) {
		return fmt.Errorf("hook_name %q must be an exported Go identifier", c.HookName)
	}
	if !strings.HasSuffix(c.FileSuffix, ".go") {
		return fmt.Errorf("file_suffix %q must end in .go", c.FileSuffix)
	}
	return nil
}
