package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = "BLOODBRIDGE"

type (
	Configuration struct {
		Remote RemoteConfiguration
		Log    LogConfiguration
		Web    WebConfiguration
	}

	RemoteConfiguration struct {
		BaseURL    string        `envconfig:"BLOODBRIDGE_BASE_URL" default:"http://localhost:5000" validate:"required,url"`
		Timeout    time.Duration `envconfig:"BLOODBRIDGE_TIMEOUT" default:"0s" validate:"gte=0"`
		SessionDir string        `envconfig:"BLOODBRIDGE_SESSION_DIR"`
	}

	LogConfiguration struct {
		Level  string `envconfig:"BLOODBRIDGE_LOG_LEVEL" default:"warn"`
		Format string `envconfig:"BLOODBRIDGE_LOG_FORMAT" default:"console" validate:"oneof=console json"`
	}

	WebConfiguration struct {
		Port int `envconfig:"BLOODBRIDGE_WEB_PORT" default:"8090" validate:"min=1,max=65535"`
	}
)

var validate = validator.New()

// Load reads an optional .env file from the working directory, then the
// process environment.
func Load() (Configuration, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Configuration{}, fmt.Errorf("failed to read .env file: %w", err)
	}
	return FromEnv()
}

// FromEnv reads the configuration from the process environment only.
func FromEnv() (Configuration, error) {
	var c Configuration
	if err := envconfig.Process(EnvPrefix, &c); err != nil {
		return Configuration{}, fmt.Errorf("failed to parse configuration: %w", err)
	}

	c.Remote.BaseURL = strings.TrimRight(strings.TrimSpace(c.Remote.BaseURL), "/")
	if c.Remote.SessionDir == "" {
		dir, err := DefaultSessionDir()
		if err != nil {
			return Configuration{}, err
		}
		c.Remote.SessionDir = dir
	}

	if err := validate.Struct(c); err != nil {
		return Configuration{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return c, nil
}

func DefaultSessionDir() (string, error) {
	roaming, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config path: %w", err)
	}
	return filepath.Join(roaming, "bloodbridge", "sessions"), nil
}
