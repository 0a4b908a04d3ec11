package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Expected host 0.0.0.0, got %q", cfg.Server.Host)
	}
	if cfg.Server.Port != 3000 {
		t.Errorf("Expected default port 3000, got %d", cfg.Server.Port)
	}
	if cfg.Storage.Type != "memory" {
		t.Errorf("Expected default storage type memory, got %q", cfg.Storage.Type)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Expected default log level info, got %q", cfg.Logging.Level)
	}
}

func TestLoad_PortEnv(t *testing.T) {
	t.Setenv("PORT", "8085")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 8085 {
		t.Errorf("Expected port 8085 from PORT env, got %d", cfg.Server.Port)
	}
}

func TestLoad_PortEnvInvalid(t *testing.T) {
	t.Setenv("PORT", "not-a-port")

	if _, err := Load(""); err == nil {
		t.Fatal("Expected error for non-numeric PORT")
	}
}

func TestLoad_EnvconfigOverride(t *testing.T) {
	t.Setenv("RECORDS_SERVER_PORT", "9090")
	t.Setenv("RECORDS_STORAGE_TYPE", "memory")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Expected port 9090 from env override, got %d", cfg.Server.Port)
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  port: 4000
  static_dir: assets
storage:
  type: mongodb
  mongodb:
    uri: mongodb://db:27017
    database: records_test
logging:
  level: debug
  format: text
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 4000 {
		t.Errorf("Expected port 4000, got %d", cfg.Server.Port)
	}
	if cfg.Server.StaticDir != "assets" {
		t.Errorf("Expected static dir assets, got %q", cfg.Server.StaticDir)
	}
	if cfg.Storage.Type != "mongodb" {
		t.Errorf("Expected storage type mongodb, got %q", cfg.Storage.Type)
	}
	if cfg.Storage.MongoDB.Database != "records_test" {
		t.Errorf("Expected database records_test, got %q", cfg.Storage.MongoDB.Database)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Expected log level debug, got %q", cfg.Logging.Level)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 3000 {
		t.Errorf("Expected default port 3000, got %d", cfg.Server.Port)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid defaults", func(c *Config) {}, false},
		{"port too low", func(c *Config) { c.Server.Port = 0 }, true},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }, true},
		{"unknown storage", func(c *Config) { c.Storage.Type = "cassandra" }, true},
		{"mongodb without uri", func(c *Config) {
			c.Storage.Type = "mongodb"
			c.Storage.MongoDB.URI = ""
		}, true},
		{"postgres without dsn", func(c *Config) { c.Storage.Type = "postgres" }, true},
		{"postgres with dsn", func(c *Config) {
			c.Storage.Type = "postgres"
			c.Storage.Postgres.DSN = "postgres://localhost/records"
		}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := defaultConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.wantErr && err == nil {
				t.Error("Expected validation error")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("Unexpected validation error: %v", err)
			}
		})
	}
}

func TestServerConfig_Address(t *testing.T) {
	s := ServerConfig{Host: "127.0.0.1", Port: 3000}
	if s.Address() != "127.0.0.1:3000" {
		t.Errorf("Expected 127.0.0.1:3000, got %q", s.Address())
	}
}
