// Package config handles loading and parsing application configuration.
// The YAML path comes from (in priority order):
//  1. An environment variable:  CONFIG_PATH=/path/to/config.yaml
//  2. A command-line flag:      --config=/path/to/config.yaml
//
// Before the YAML is read, a .env file in the working directory (if any)
// is loaded into the process environment, so secrets like GOOGLE_API_KEY
// can stay out of the YAML file.
package config

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config is the root configuration structure.
// Every field maps to a key in the YAML file and most can be overridden
// by the corresponding environment variable (env:"...").
//
// env-required:"true" means the app refuses to start if that value is
// missing.
type Config struct {
	// Env controls log format and verbosity.
	// Valid values: "dev", "staging", "prod"
	Env string `yaml:"env" env:"ENV" env-required:"true"`

	// Seed loads a handful of sample engineers when the store is empty.
	Seed bool `yaml:"seed" env:"SEED" env-default:"false"`

	// HTTPServer is embedded so cfg.Addr works as well as cfg.HTTPServer.Addr.
	HTTPServer `yaml:"http_server"`

	Database Database `yaml:"database"`
	AI       AI       `yaml:"ai"`
}

// HTTPServer holds settings specific to the HTTP server.
type HTTPServer struct {
	// Addr is the TCP address the server listens on, e.g. "localhost:8082".
	Addr string `yaml:"address" env:"HTTP_SERVER_ADDR" env-required:"true"`

	// Resource is the collection path the REST routes are mounted under,
	// without leading or trailing slashes.
	Resource string `yaml:"resource" env:"HTTP_RESOURCE" env-default:"api/v1/software-engineers"`

	ReadTimeout time.Duration `yaml:"read_timeout" env-default:"10s"`
	// WriteTimeout has to outlast the AI call made while creating an engineer.
	WriteTimeout time.Duration `yaml:"write_timeout" env-default:"60s"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"  env-default:"60s"`
}

// Database selects and tunes the record store.
type Database struct {
	// Driver is "sqlite3" (a single file, DSN is its path) or "postgres"
	// (DSN is a postgres:// URL).
	Driver string `yaml:"driver" env:"DATABASE_DRIVER" env-default:"sqlite3"`
	DSN    string `yaml:"dsn"    env:"DATABASE_DSN"    env-required:"true"`

	MaxOpenConns       int           `yaml:"max_open_conns"       env:"DATABASE_MAX_OPEN_CONNS"`
	SlowQueryThreshold time.Duration `yaml:"slow_query_threshold" env-default:"200ms"`
}

// AI configures the chat provider that writes learning paths.
type AI struct {
	Provider string `yaml:"provider" env:"AI_PROVIDER"    env-default:"gemini"`
	APIKey   string `yaml:"api_key"  env:"GOOGLE_API_KEY" env-required:"true"`
	Model    string `yaml:"model"    env:"AI_MODEL"       env-default:"gemini-2.5-flash"`
}

// MustLoad reads, validates, and returns the application config.
//
// Functions prefixed with "Must" are allowed to exit on failure: if this
// function returns, the config is valid.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")

	if configPath == "" {
		flags := flag.String("config", "", "Path to the configuration YAML file")
		flag.Parse()
		configPath = *flags
	}

	if configPath == "" {
		log.Fatal("config path is not set: use --config flag or CONFIG_PATH env var")
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot load config: %s", err.Error())
	}
	return cfg
}

// Load reads the YAML file at path, applies environment overrides and
// defaults, and validates the result.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config file does not exist: %s", path)
	}

	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case "sqlite3", "postgres":
	default:
		return fmt.Errorf("database.driver must be sqlite3 or postgres, got %q", c.Database.Driver)
	}

	if c.AI.Provider != "gemini" {
		return fmt.Errorf("ai.provider must be gemini, got %q", c.AI.Provider)
	}

	c.Resource = strings.Trim(c.Resource, "/")
	if c.Resource == "" {
		return errors.New("http_server.resource must not be empty")
	}
	return nil
}
