// Package config provides configuration management for the caseflow service.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the master configuration struct.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Postgres   PostgresConfig   `mapstructure:"postgres"`
	OpenSearch OpenSearchConfig `mapstructure:"opensearch"`
	Uploads    UploadsConfig    `mapstructure:"uploads"`
	CORS       CORSConfig       `mapstructure:"cors"`
	NATS       NATSConfig       `mapstructure:"nats"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// StorageConfig selects the storage backend for the whole process.
type StorageConfig struct {
	// Backend is "postgres" or "opensearch".
	Backend string `mapstructure:"backend"`
}

// PostgresConfig holds PostgreSQL connection settings.
type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Database string `mapstructure:"database"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	SSLMode  string `mapstructure:"sslmode"`
}

// ConnString builds a pgx/migrate compatible connection string.
func (p PostgresConfig) ConnString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		p.User, p.Password, p.Host, p.Port, p.Database, p.SSLMode,
	)
}

// OpenSearchConfig holds OpenSearch connection settings.
type OpenSearchConfig struct {
	URL         string `mapstructure:"url"`
	Username    string `mapstructure:"username"`
	Password    string `mapstructure:"password"`
	Insecure    bool   `mapstructure:"insecure"`
	IndexPrefix string `mapstructure:"index_prefix"`
	PoolSize    int    `mapstructure:"pool_size"`
}

// UploadsConfig holds the on-disk attachment storage settings.
type UploadsConfig struct {
	Dir string `mapstructure:"dir"`
}

// CORSConfig holds cross-origin settings for the API.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// NATSConfig holds the optional lifecycle event publisher settings.
type NATSConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	URL     string `mapstructure:"url"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from an optional YAML file and environment
// variables. Environment keys use underscores, e.g. STORAGE_BACKEND,
// OPENSEARCH_URL, POSTGRES_HOST.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath == "" {
		if dir := os.Getenv("CASEFLOW_CONFIG_DIR"); dir != "" {
			configPath = dir + "/config.yaml"
		}
	}
	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.Storage.Backend != "postgres" && cfg.Storage.Backend != "opensearch" {
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.idle_timeout", "60s")

	v.SetDefault("storage.backend", "postgres")

	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.database", "caseflow")
	v.SetDefault("postgres.user", "caseflow")
	v.SetDefault("postgres.password", "")
	v.SetDefault("postgres.sslmode", "disable")

	v.SetDefault("opensearch.url", "https://localhost:9200")
	v.SetDefault("opensearch.username", "admin")
	v.SetDefault("opensearch.password", "admin")
	v.SetDefault("opensearch.insecure", true)
	v.SetDefault("opensearch.index_prefix", "caseflow")
	v.SetDefault("opensearch.pool_size", 10)

	v.SetDefault("uploads.dir", "uploads")

	v.SetDefault("cors.allowed_origins", []string{"*"})

	v.SetDefault("nats.enabled", false)
	v.SetDefault("nats.url", "nats://localhost:4222")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}
