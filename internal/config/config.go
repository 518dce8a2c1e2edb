// Package config loads runtime settings for the inscripciones shell.
//
// Sources, later ones winning:
//
//  1. defaults declared in schema.cue
//  2. an optional CUE file, checked against the #Config schema
//  3. INSCRIPCIONES_* environment variables
//
// Command-line flags are applied on top by the cli package.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"github.com/caarlos0/env/v11"
)

//go:embed schema.cue
var schemaCUE string

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "INSCRIPCIONES_"

// Config holds runtime settings.
type Config struct {
	Database Database `json:"database" envPrefix:"DB_"`
	Seed     bool     `json:"seed" env:"SEED"`
	Log      Log      `json:"log" envPrefix:"LOG_"`
}

// Database selects the backing file and driver.
type Database struct {
	Path   string `json:"path" env:"PATH"`
	Driver string `json:"driver" env:"DRIVER"`
}

// Log controls the slog handler.
type Log struct {
	Level  string `json:"level" env:"LEVEL"`
	Format string `json:"format" env:"FORMAT"`
}

// Load builds a Config from the schema defaults, the CUE file at path (if
// path is non-empty) and the environment.
func Load(path string) (*Config, error) {
	cfg, err := loadCUE(path)
	if err != nil {
		return nil, err
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// Default returns the schema defaults without reading any file or env var.
func Default() *Config {
	cfg, err := loadCUE("")
	if err != nil {
		// schema.cue is embedded; a failure here is a build defect.
		panic(fmt.Sprintf("config: invalid embedded schema: %v", err))
	}
	return cfg
}

func loadCUE(path string) (*Config, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compile config schema: %w", err)
	}
	value := schema.LookupPath(cue.ParsePath("#Config"))

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		file := ctx.CompileBytes(data, cue.Filename(path))
		if err := file.Err(); err != nil {
			return nil, fmt.Errorf("parse config file: %s", cueerrors.Details(err, nil))
		}
		value = value.Unify(file)
	}

	if err := value.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %s", cueerrors.Details(err, nil))
	}

	var cfg Config
	if err := value.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// Validate checks values that may have bypassed the schema through the
// environment or flags.
func (c *Config) Validate() error {
	var errs []error
	if c.Database.Path == "" {
		errs = append(errs, errors.New("database.path is required"))
	}
	if !oneOf(c.Database.Driver, "sqlite3", "sqlite") {
		errs = append(errs, fmt.Errorf("database.driver %q must be sqlite3 or sqlite", c.Database.Driver))
	}
	if !oneOf(c.Log.Level, "debug", "info", "warn", "error") {
		errs = append(errs, fmt.Errorf("log.level %q must be debug, info, warn or error", c.Log.Level))
	}
	if !oneOf(c.Log.Format, "text", "json") {
		errs = append(errs, fmt.Errorf("log.format %q must be text or json", c.Log.Format))
	}
	return errors.Join(errs...)
}

func oneOf(v string, allowed ...string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}
