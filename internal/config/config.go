package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"ctchen222/tictactoe-engine/internal/validator"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel  string    `yaml:"log-level" env:"LOG_LEVEL" env-default:"info" validate:"oneof=debug info warn error"`
	HTTP      HTTP      `yaml:"http"`
	Game      Game      `yaml:"game"`
	Telemetry Telemetry `yaml:"telemetry"`
}

type HTTP struct {
	Addr            string        `yaml:"addr" env:"HTTP_ADDR" env-default:":8080" validate:"required"`
	WebDir          string        `yaml:"web-dir" env:"HTTP_WEB_DIR" env-default:"./web"`
	ShutdownTimeout time.Duration `yaml:"shutdown-timeout" env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"5s" validate:"gt=0"`
}

type Game struct {
	// Difficulty of the first match after start-up.
	Difficulty string `yaml:"difficulty" env:"GAME_DIFFICULTY" env-default:"local" validate:"oneof=local easy normal medium hard"`
	// Seed for the AI's random source. Zero picks a random seed.
	Seed uint64 `yaml:"seed" env:"GAME_SEED" env-default:"0"`
}

type Telemetry struct {
	Enabled        bool   `yaml:"enabled" env:"OTEL_ENABLED" env-default:"false"`
	CollectorAddr  string `yaml:"collector-addr" env:"OTEL_COLLECTOR_ADDR" env-default:"otel-collector:4317" validate:"required_if=Enabled true"`
	ServiceName    string `yaml:"service-name" env:"OTEL_SERVICE_NAME" env-default:"tic-tac-toe"`
	ServiceVersion string `yaml:"service-version" env:"OTEL_SERVICE_VERSION" env-default:"v0.1.0"`
}

// Load reads the configuration from the yaml file at path, falling back to the
// environment alone when the file does not exist. Environment variables
// override file values.
func Load(path string) (*Config, error) {
	config := &Config{}

	_, statErr := os.Stat(path)
	switch {
	case path != "" && statErr == nil:
		if err := cleanenv.ReadConfig(path, config); err != nil {
			return nil, fmt.Errorf("unable to load config file: %w", err)
		}
	case path == "" || errors.Is(statErr, fs.ErrNotExist):
		if err := cleanenv.ReadEnv(config); err != nil {
			return nil, fmt.Errorf("unable to load config from environment: %w", err)
		}
	default:
		return nil, fmt.Errorf("unable to stat config file: %w", statErr)
	}

	if err := validator.Validate(config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return config, nil
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}
	return config
}
