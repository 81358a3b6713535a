// Package config loads the settings of the metissync command.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/metis-placement/metis.go/pkg/constants"
)

const EnvPrefix = "METIS_"

type Config struct {
	API     APIConfig     `yaml:"api"`
	Scope   ScopeConfig   `yaml:"scope"`
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
	Storage StorageConfig `yaml:"storage"`
}

type APIConfig struct {
	BaseURL   string        `yaml:"base_url" validate:"required,url"`
	PushURL   string        `yaml:"push_url" validate:"omitempty,url"`
	CSRFToken string        `yaml:"csrf_token"`
	Locale    string        `yaml:"locale" validate:"required,locale"`
	Timeout   time.Duration `yaml:"timeout" validate:"gt=0"`
}

// ScopeConfig points at the education to load. Project 0 selects the latest one.
type ScopeConfig struct {
	Education string `yaml:"education" validate:"required"`
	Project   int    `yaml:"project" validate:"gte=0"`
	Follow    bool   `yaml:"follow"`
}

type LogConfig struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
	Path  string `yaml:"path"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr" validate:"omitempty,hostname_port"`
}

type StorageConfig struct {
	Backend  string `yaml:"backend" validate:"oneof=none memory file redis"`
	Path     string `yaml:"path" validate:"required_if=Backend file"`
	RedisURL string `yaml:"redis_url" validate:"required_if=Backend redis"`
}

func Default() Config {
	return Config{
		API: APIConfig{
			Locale:  constants.DefaultLocale,
			Timeout: constants.DefaultHTTPTimeout,
		},
		Log:     LogConfig{Level: "info"},
		Storage: StorageConfig{Backend: "none"},
	}
}

// Load reads the .env files (missing ones are skipped), then the YAML file named by
// METIS_CONFIG_PATH, then METIS_* variables, and validates the result. Without
// arguments ".env" is read.
func Load(dotenv ...string) (Config, error) {
	if len(dotenv) == 0 {
		dotenv = []string{".env"}
	}
	for _, path := range dotenv {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", path, err)
		}
	}

	cfg := Default()
	if path := os.Getenv(EnvPrefix + "CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	strs := map[string]*string{
		"BASE_URL":        &cfg.API.BaseURL,
		"PUSH_URL":        &cfg.API.PushURL,
		"CSRF_TOKEN":      &cfg.API.CSRFToken,
		"LOCALE":          &cfg.API.Locale,
		"EDUCATION":       &cfg.Scope.Education,
		"LOG_LEVEL":       &cfg.Log.Level,
		"LOG_PATH":        &cfg.Log.Path,
		"METRICS_ADDR":    &cfg.Metrics.Addr,
		"STORAGE_BACKEND": &cfg.Storage.Backend,
		"STORAGE_PATH":    &cfg.Storage.Path,
		"REDIS_URL":       &cfg.Storage.RedisURL,
	}
	for name, dst := range strs {
		if v, ok := os.LookupEnv(EnvPrefix + name); ok {
			*dst = v
		}
	}

	if v, ok := os.LookupEnv(EnvPrefix + "TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %sTIMEOUT: %w", EnvPrefix, err)
		}
		cfg.API.Timeout = d
	}
	if v, ok := os.LookupEnv(EnvPrefix + "PROJECT"); ok {
		id, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %sPROJECT: %w", EnvPrefix, err)
		}
		cfg.Scope.Project = id
	}
	if v, ok := os.LookupEnv(EnvPrefix + "FOLLOW"); ok {
		follow, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %sFOLLOW: %w", EnvPrefix, err)
		}
		cfg.Scope.Follow = follow
	}
	return nil
}

func (c Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("locale", validLocale); err != nil {
		return err
	}
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func validLocale(fl validator.FieldLevel) bool {
	_, err := language.Parse(fl.Field().String())
	return err == nil
}
