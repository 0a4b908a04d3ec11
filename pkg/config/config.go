package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/medvertical/records-sub015/pkg/logging"
)

// Config represents the application configuration
type Config struct {
	Server  ServerConfig   `yaml:"server" envconfig:"SERVER"`
	Storage StorageConfig  `yaml:"storage" envconfig:"STORAGE"`
	Logging logging.Config `yaml:"logging" envconfig:"LOGGING"`
	FHIR    FHIRConfig     `yaml:"fhir" envconfig:"FHIR"`
	CORS    CORSConfig     `yaml:"cors" envconfig:"CORS"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host      string `yaml:"host" envconfig:"HOST"`
	Port      int    `yaml:"port" envconfig:"PORT"`
	StaticDir string `yaml:"static_dir" envconfig:"STATIC_DIR"` // empty disables static fallback
}

// Address returns the listen address
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// StorageConfig contains storage configuration
type StorageConfig struct {
	Type     string         `yaml:"type" envconfig:"TYPE"` // memory, mongodb, postgres
	MongoDB  MongoDBConfig  `yaml:"mongodb" envconfig:"MONGODB"`
	Postgres PostgresConfig `yaml:"postgres" envconfig:"POSTGRES"`
}

// MongoDBConfig contains MongoDB-specific configuration
type MongoDBConfig struct {
	URI      string `yaml:"uri" envconfig:"URI"`
	Database string `yaml:"database" envconfig:"DATABASE"`
	Timeout  int    `yaml:"timeout" envconfig:"TIMEOUT"` // seconds
}

// PostgresConfig contains PostgreSQL-specific configuration
type PostgresConfig struct {
	DSN      string `yaml:"dsn" envconfig:"DSN"`
	MaxConns int32  `yaml:"max_conns" envconfig:"MAX_CONNS"`
}

// FHIRConfig contains upstream FHIR client configuration
type FHIRConfig struct {
	BaseURL string `yaml:"base_url" envconfig:"BASE_URL"`
	Timeout int    `yaml:"timeout" envconfig:"TIMEOUT"` // seconds
}

// CORSConfig contains CORS configuration
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS"`
	AllowedMethods []string `yaml:"allowed_methods" envconfig:"ALLOWED_METHODS"`
	AllowedHeaders []string `yaml:"allowed_headers" envconfig:"ALLOWED_HEADERS"`
}

// Load loads configuration from file and environment variables
func Load(configFile string) (*Config, error) {
	// Start with defaults
	cfg := defaultConfig()

	// Load from YAML file if provided (overrides defaults)
	if configFile != "" {
		data, err := os.ReadFile(configFile)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
			// File doesn't exist, that's ok - we'll use defaults and env vars
		} else {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	// Override with environment variables (highest priority)
	if err := envconfig.Process("RECORDS", cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	// Plain PORT is honored for compatibility with existing deployments
	if portStr := os.Getenv("PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT value %q: %w", portStr, err)
		}
		cfg.Server.Port = port
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible default values
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:      "0.0.0.0",
			Port:      3000,
			StaticDir: "public",
		},
		Storage: StorageConfig{
			Type: "memory",
			MongoDB: MongoDBConfig{
				URI:      "mongodb://localhost:27017",
				Database: "records",
				Timeout:  10,
			},
		},
		Logging: logging.DefaultConfig(),
		FHIR: FHIRConfig{
			Timeout: 10,
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type"},
		},
	}
}

// Validate checks the configuration for errors
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535, got %d", c.Server.Port)
	}

	switch c.Storage.Type {
	case "memory", "":
	case "mongodb":
		if c.Storage.MongoDB.URI == "" {
			return fmt.Errorf("storage.mongodb.uri is required when storage type is mongodb")
		}
		if c.Storage.MongoDB.Database == "" {
			return fmt.Errorf("storage.mongodb.database is required when storage type is mongodb")
		}
	case "postgres":
		if c.Storage.Postgres.DSN == "" {
			return fmt.Errorf("storage.postgres.dsn is required when storage type is postgres")
		}
	default:
		return fmt.Errorf("unsupported storage type: %s", c.Storage.Type)
	}

	return nil
}
