package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment override. A double underscore
// separates nested keys: ASKCHART_SQLSERVER__SERVER -> sqlserver.server.
const EnvPrefix = "ASKCHART_"

type Config struct {
	Port      string          `koanf:"port"`
	TestMode  bool            `koanf:"test_mode"`
	Store     StoreConfig     `koanf:"store"`
	Oracle    OracleConfig    `koanf:"oracle"`
	SQLServer SQLServerConfig `koanf:"sqlserver"`
	CORS      CORSConfig      `koanf:"cors"`
	Log       LogConfig       `koanf:"log"`
}

type StoreConfig struct {
	Backend    string `koanf:"backend"` // "badger" or "file"
	BadgerPath string `koanf:"badger_path"`
	FilesDir   string `koanf:"files_dir"`
}

type OracleConfig struct {
	Mode         string        `koanf:"mode"` // "keyword" or "http"
	APIURL       string        `koanf:"api_url"`
	APIKey       string        `koanf:"api_key"`
	Model        string        `koanf:"model"`
	Timeout      time.Duration `koanf:"timeout"`
	MinInterval  time.Duration `koanf:"min_interval"`
	CacheTTL     time.Duration `koanf:"cache_ttl"`
	StubEndpoint bool          `koanf:"stub_endpoint"`
}

type SQLServerConfig struct {
	Server   string `koanf:"server"`
	Port     string `koanf:"port"`
	Database string `koanf:"database"`
	UserID   string `koanf:"user"`
	Password string `koanf:"password"`
	Encrypt  bool   `koanf:"encrypt"`
}

// Enabled reports whether an upstream SQL Server is configured.
func (c SQLServerConfig) Enabled() bool {
	return c.Server != "" && c.Database != ""
}

type CORSConfig struct {
	AllowOrigins []string `koanf:"allow_origins"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"` // "text" or "json"
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"port":                 "8000",
		"test_mode":            false,
		"store.backend":        "file",
		"store.badger_path":    "./data/badger",
		"store.files_dir":      "./user_data",
		"oracle.mode":          "keyword",
		"oracle.api_url":       "http://localhost:8001/v1/chat/completions",
		"oracle.api_key":       "",
		"oracle.model":         "your-model-name",
		"oracle.timeout":       "30s",
		"oracle.min_interval":  "500ms",
		"oracle.cache_ttl":     "5m",
		"oracle.stub_endpoint": true,
		"sqlserver.server":     "",
		"sqlserver.port":       "1433",
		"sqlserver.database":   "",
		"sqlserver.user":       "",
		"sqlserver.password":   "",
		"sqlserver.encrypt":    true,
		"cors.allow_origins":   []string{"*"},
		"log.level":            "info",
		"log.format":           "text",
	}
}

// Load reads defaults, then the optional yaml file at path (or the file
// named by ASKCHART_CONFIG), then ASKCHART_* environment variables.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path == "" {
		path = os.Getenv(EnvPrefix + "CONFIG")
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Store.Backend {
	case "badger", "file":
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	switch c.Oracle.Mode {
	case "keyword", "http":
	default:
		return fmt.Errorf("unknown oracle mode %q", c.Oracle.Mode)
	}
	if c.Oracle.Timeout <= 0 {
		return fmt.Errorf("oracle timeout must be positive")
	}
	return nil
}
