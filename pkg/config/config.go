// Package config loads the command line configuration from a JSON, YAML or
// TOML file and applies DATALIB_* environment overrides.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	toml "github.com/pelletier/go-toml/v2"
	yaml "gopkg.in/yaml.v3"

	"github.com/wdm0006/datalib/pkg/clean"
	dl "github.com/wdm0006/datalib/pkg/datalib"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "DATALIB"

var ErrInvalid = fmt.Errorf("%w: invalid config", dl.ErrConfiguration)

type Input struct {
	Path   string `json:"path" yaml:"path" toml:"path" validate:"required"`
	Format string `json:"format" yaml:"format" toml:"format"`
}

type Output struct {
	Path      string `json:"path" yaml:"path" toml:"path" validate:"required"`
	Format    string `json:"format" yaml:"format" toml:"format"`
	Delimiter string `json:"delimiter" yaml:"delimiter" toml:"delimiter"`
	NoHeader  bool   `json:"no_header" yaml:"no_header" toml:"no_header"`
	Sheet     string `json:"sheet" yaml:"sheet" toml:"sheet"`
	Orient    string `json:"orient" yaml:"orient" toml:"orient" validate:"omitempty,oneof=records columns"`
}

type Logging struct {
	Level  string `json:"level" yaml:"level" toml:"level" validate:"omitempty,oneof=debug info warn warning error"`
	Format string `json:"format" yaml:"format" toml:"format" validate:"omitempty,oneof=text json"`
}

// Profile controls the column profile printed after cleaning.
type Profile struct {
	TopK int  `json:"top_k" yaml:"top_k" toml:"top_k" validate:"gte=0"`
	JSON bool `json:"json" yaml:"json" toml:"json"`
}

type Config struct {
	Input    Input        `json:"input" yaml:"input" toml:"input"`
	Output   Output       `json:"output" yaml:"output" toml:"output"`
	Cleaning clean.Config `json:"cleaning" yaml:"cleaning" toml:"cleaning"`
	Logging  Logging      `json:"logging" yaml:"logging" toml:"logging"`
	Profile  Profile      `json:"profile" yaml:"profile" toml:"profile"`
}

// Env lists the settings that can be overridden from the environment,
// e.g. DATALIB_LOG_LEVEL or DATALIB_INPUT_PATH.
type Env struct {
	LogLevel     string `envconfig:"LOG_LEVEL"`
	LogFormat    string `envconfig:"LOG_FORMAT"`
	InputPath    string `envconfig:"INPUT_PATH"`
	InputFormat  string `envconfig:"INPUT_FORMAT"`
	OutputPath   string `envconfig:"OUTPUT_PATH"`
	OutputFormat string `envconfig:"OUTPUT_FORMAT"`
}

// Default returns a config with the cleaning defaults, text logging at info
// level and a top-5 profile.
func Default() Config {
	return Config{
		Cleaning: clean.DefaultConfig(),
		Logging:  Logging{Level: "info", Format: "text"},
		Profile:  Profile{TopK: 5},
	}
}

// Load reads path over Default, applies environment overrides and validates
// the result.
func Load(path string) (*Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := Decode(b, strings.ToLower(filepath.Ext(path)), &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := ApplyEnv(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Decode unmarshals b by file extension (".json", ".yaml", ".yml", ".toml").
func Decode(b []byte, ext string, cfg *Config) error {
	switch ext {
	case ".json":
		return json.Unmarshal(b, cfg)
	case ".yaml", ".yml":
		return yaml.Unmarshal(b, cfg)
	case ".toml":
		return toml.Unmarshal(b, cfg)
	}
	return fmt.Errorf("%w: unsupported config format %q", ErrInvalid, ext)
}

// ApplyEnv overrides cfg with the non-empty DATALIB_* variables.
func ApplyEnv(cfg *Config) error {
	var env Env
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return fmt.Errorf("failed to load config from env: %w", err)
	}
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&cfg.Logging.Level, env.LogLevel)
	set(&cfg.Logging.Format, env.LogFormat)
	set(&cfg.Input.Path, env.InputPath)
	set(&cfg.Input.Format, env.InputFormat)
	set(&cfg.Output.Path, env.OutputPath)
	set(&cfg.Output.Format, env.OutputFormat)
	return nil
}

var validate = validator.New()

func (c *Config) Validate() error {
	if err := c.Cleaning.Validate(); err != nil {
		return err
	}
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// DelimiterRune returns the output delimiter, 0 for the default. A literal
// \t stands for a tab.
func (o Output) DelimiterRune() rune {
	if o.Delimiter == "" {
		return 0
	}
	if o.Delimiter == `\t` {
		return '\t'
	}
	return []rune(o.Delimiter)[0]
}
