// Package config loads the application configuration from an optional
// YAML file with environment variable overrides. Environment variables
// always win, so a deployment can ship a base file and tune per
// instance.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Storage selects the repository backend.
type Storage string

const (
	StorageMemory   Storage = "memory"
	StoragePostgres Storage = "postgres"
)

// Config holds the application configuration.
type Config struct {
	// Server settings
	ServerPort string `yaml:"server_port"`

	// Repository backend: memory or postgres.
	Storage     Storage `yaml:"storage"`
	DatabaseDSN string  `yaml:"database_dsn"`

	// OpenTelemetry settings
	OTLPEndpoint string `yaml:"otlp_endpoint"`
	ServiceName  string `yaml:"service_name"`
	Environment  string `yaml:"environment"`
}

// Load returns configuration from the YAML file at path (skipped when
// path is empty or the file does not exist) with environment variable
// overrides and sensible defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{
		ServerPort:   "8080",
		Storage:      StorageMemory,
		OTLPEndpoint: "localhost:4317",
		ServiceName:  "taskboard",
		Environment:  "development",
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("reading config file: %w", err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	overrideEnv(&cfg.ServerPort, "SERVER_PORT")
	overrideEnv((*string)(&cfg.Storage), "STORAGE")
	overrideEnv(&cfg.DatabaseDSN, "DATABASE_DSN")
	overrideEnv(&cfg.OTLPEndpoint, "OTEL_EXPORTER_OTLP_ENDPOINT")
	overrideEnv(&cfg.ServiceName, "OTEL_SERVICE_NAME")
	overrideEnv(&cfg.Environment, "ENVIRONMENT")

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage {
	case StorageMemory:
	case StoragePostgres:
		if c.DatabaseDSN == "" {
			return fmt.Errorf("storage %q requires a database DSN", c.Storage)
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage)
	}
	return nil
}

func overrideEnv(target *string, key string) {
	if value := os.Getenv(key); value != "" {
		*target = value
	}
}
