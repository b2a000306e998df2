// Package config loads indoornav settings from a YAML file and the environment.
//
// Precedence, lowest first: built-in defaults, the YAML file, a .env file in
// the working directory, process environment variables. The merged result is
// validated before it is returned.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"indoornav/internal/render"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Environment variables that override file values
const (
	EnvAddress    = "INDOORNAV_ADDRESS"
	EnvFloorPlan  = "INDOORNAV_FLOORPLAN"
	EnvStrategy   = "INDOORNAV_STRATEGY"
	EnvLogLevel   = "INDOORNAV_LOG_LEVEL"
	EnvLogFormat  = "INDOORNAV_LOG_FORMAT"
	EnvCORSOrigin = "INDOORNAV_CORS_ORIGIN"
)

// Config is the root configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	FloorPlan FloorPlanConfig `yaml:"floorplan"`
	Search    SearchConfig    `yaml:"search"`
	Display   render.Settings `yaml:"display"`
	Log       LogConfig       `yaml:"log"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Address           string `yaml:"address" validate:"required"`
	CORSAllowedOrigin string `yaml:"cors_allowed_origin" validate:"required"`
	Debug             bool   `yaml:"debug"`
}

// FloorPlanConfig points at the floor plan data. An empty path uses the
// embedded reference floor plan.
type FloorPlanConfig struct {
	Path string `yaml:"path"`
}

// SearchConfig selects the default search strategy
type SearchConfig struct {
	Strategy string `yaml:"strategy" validate:"oneof=bfs weighted"`
}

// LogConfig selects the slog handler
type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Address:           ":8080",
			CORSAllowedOrigin: "*",
		},
		Search:  SearchConfig{Strategy: "bfs"},
		Display: render.DefaultSettings(),
		Log:     LogConfig{Level: "info", Format: "text"},
	}
}

// Load builds the configuration. path may be empty to skip the YAML file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("Failed to load .env file", "error", err)
	}
	cfg.ApplyEnv(os.LookupEnv)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from environment variables found by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvAddress); ok && v != "" {
		c.Server.Address = v
	}
	if v, ok := lookup(EnvFloorPlan); ok {
		c.FloorPlan.Path = v
	}
	if v, ok := lookup(EnvStrategy); ok && v != "" {
		c.Search.Strategy = strings.ToLower(v)
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Log.Level = strings.ToLower(v)
	}
	if v, ok := lookup(EnvLogFormat); ok && v != "" {
		c.Log.Format = strings.ToLower(v)
	}
	if v, ok := lookup(EnvCORSOrigin); ok && v != "" {
		c.Server.CORSAllowedOrigin = v
	}
}

// Validate checks field constraints
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(fields, ", "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}
