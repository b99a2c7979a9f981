// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`

	Database struct {
		URL string `yaml:"url"`
	} `yaml:"database"`

	RabbitMQ struct {
		URL        string `yaml:"url"`
		BuildQueue string `yaml:"build_queue"`
	} `yaml:"rabbitmq"`

	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	Registry struct {
		URL     string        `yaml:"url"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"registry"`

	Subdomain struct {
		// Strict makes an unreachable registry fail the check instead of
		// treating the name as available.
		Strict   bool     `yaml:"strict"`
		Reserved []string `yaml:"reserved"`
	} `yaml:"subdomain"`

	Site struct {
		TemplateDir string `yaml:"template_dir"`
	} `yaml:"site"`

	// Builder runs an in-process consumer of the build queue that writes
	// bundles to OutputDir. Disabled when OutputDir is empty.
	Builder struct {
		OutputDir string `yaml:"output_dir"`
		Workers   int    `yaml:"workers"`
	} `yaml:"builder"`

	Log struct {
		Level       string `yaml:"level"`
		Development bool   `yaml:"development"`
	} `yaml:"log"`

	Auth struct {
		JWTSecret       string        `yaml:"jwt_secret"`
		ProvisioningKey string        `yaml:"provisioning_key"`
		TokenTTL        time.Duration `yaml:"token_ttl"`
	} `yaml:"auth"`
}

func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}
	cfg.Subdomain.Strict = true

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("BABYPOOL_DATABASE_URL"); v != "" {
		c.Database.URL = v
	}
	if v := os.Getenv("BABYPOOL_JWT_SECRET"); v != "" {
		c.Auth.JWTSecret = v
	}
	if v := os.Getenv("BABYPOOL_PROVISIONING_KEY"); v != "" {
		c.Auth.ProvisioningKey = v
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.RabbitMQ.BuildQueue == "" {
		c.RabbitMQ.BuildQueue = "site_builds"
	}
	if c.Registry.Timeout <= 0 {
		c.Registry.Timeout = 3 * time.Second
	}
	if c.Builder.Workers <= 0 {
		c.Builder.Workers = 2
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Auth.TokenTTL <= 0 {
		c.Auth.TokenTTL = 24 * time.Hour
	}
}

// Validate checks the settings the service cannot start without.
func (c *Config) Validate() error {
	var errs []error
	if c.Database.URL == "" {
		errs = append(errs, errors.New("database.url is required"))
	}
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("auth.jwt_secret is required"))
	}
	if c.Auth.ProvisioningKey == "" {
		errs = append(errs, errors.New("auth.provisioning_key is required"))
	}
	if c.Builder.OutputDir != "" && c.RabbitMQ.URL == "" {
		errs = append(errs, errors.New("builder.output_dir requires rabbitmq.url"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
