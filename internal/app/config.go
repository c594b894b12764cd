package app

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Commands understood by Run.
const (
	CommandDescribe = "describe"
	CommandDeclare  = "declare"
	CommandList     = "list"
)

// Config holds all the necessary configuration for an App instance to run.
// Fields tagged with env are read from the environment first; CLI flags
// override them.
type Config struct {
	Command       string
	ManifestPaths []string

	Schema    string `env:"SCHEMATEMPLATE_SCHEMA" envDefault:"pipeline"`
	DBPath    string `env:"SCHEMATEMPLATE_DB"`
	DataRoot  string `env:"SCHEMATEMPLATE_DATA_ROOT" envDefault:"."`
	LogFormat string `env:"SCHEMATEMPLATE_LOG_FORMAT" envDefault:"text"`
	LogLevel  string `env:"SCHEMATEMPLATE_LOG_LEVEL" envDefault:"info"`
}

// ConfigFromEnv returns a Config populated from environment variables and
// their defaults.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// NewConfig validates cfg and returns a copy.
func NewConfig(cfg Config) (*Config, error) {
	switch cfg.Command {
	case CommandDescribe, CommandDeclare:
	case CommandList:
		if cfg.DBPath == "" {
			return nil, errors.New("the list command needs a catalog database")
		}
	case "":
		return nil, errors.New("Command is a required configuration field and cannot be empty")
	default:
		return nil, fmt.Errorf("unknown command %q", cfg.Command)
	}
	if cfg.Schema == "" {
		return nil, errors.New("Schema is a required configuration field and cannot be empty")
	}
	return &cfg, nil
}
