// Package config loads storefront settings from defaults, an optional YAML
// file and environment variables, in that order of precedence (lowest
// first).
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fjod/decohome/internal/storage"
	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Log       LogConfig       `yaml:"log"`
	Storage   StorageConfig   `yaml:"storage"`
	Generator GeneratorConfig `yaml:"generator"`
	Kafka     KafkaConfig     `yaml:"kafka"`
	Clipboard string          `yaml:"clipboard"`
	// Link is a share link or bare fragment the session is loaded from at startup.
	Link string `yaml:"link"`
}

type HTTPConfig struct {
	Port               string        `yaml:"port"`
	RequestTimeout     time.Duration `yaml:"request_timeout"`
	ShutdownTimeout    time.Duration `yaml:"shutdown_timeout"`
	MaxRequestBodySize int64         `yaml:"max_request_body_size"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type StorageConfig struct {
	Backend        string `yaml:"backend"`
	DSN            string `yaml:"dsn"`
	MigrationsPath string `yaml:"migrations_path"`
	RedisAddr      string `yaml:"redis_addr"`
	RedisPassword  string `yaml:"redis_password"`
	RedisDB        int    `yaml:"redis_db"`
	RedisPrefix    string `yaml:"redis_prefix"`
	MongoURI       string `yaml:"mongo_uri"`
	MongoDatabase  string `yaml:"mongo_database"`
}

type GeneratorConfig struct {
	APIKey  string        `yaml:"api_key"`
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
	Workers int           `yaml:"workers"`
}

type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

func Default() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Port:               "8080",
			RequestTimeout:     30 * time.Second,
			ShutdownTimeout:    10 * time.Second,
			MaxRequestBodySize: 8 << 20, // 8MB, product images travel inline
		},
		Log: LogConfig{Level: "info"},
		Storage: StorageConfig{
			Backend:        storage.BackendMemory,
			DSN:            "decohome.db",
			MigrationsPath: "internal/storage/migrations",
			RedisAddr:      "localhost:6379",
			RedisPrefix:    "decohome:",
			MongoURI:       "mongodb://localhost:27017",
			MongoDatabase:  "decohome",
		},
		Generator: GeneratorConfig{
			Model:   "gemini-2.5-flash",
			Timeout: 30 * time.Second,
			Workers: 2,
		},
		Kafka:     KafkaConfig{Topic: "storefront-orders"},
		Clipboard: "memory",
	}
}

// Load builds the configuration. path may be empty, in which case only
// defaults and the environment are used.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.HTTP.Port = getEnv("HTTP_PORT", c.HTTP.Port)
	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)

	c.Storage.Backend = getEnv("STORAGE_BACKEND", c.Storage.Backend)
	c.Storage.DSN = getEnv("STORAGE_DSN", c.Storage.DSN)
	c.Storage.MigrationsPath = getEnv("MIGRATIONS_PATH", c.Storage.MigrationsPath)
	c.Storage.RedisAddr = getEnv("REDIS_ADDR", c.Storage.RedisAddr)
	c.Storage.RedisPassword = getEnv("REDIS_PASSWORD", c.Storage.RedisPassword)
	if db, err := strconv.Atoi(getEnv("REDIS_DB", "")); err == nil {
		c.Storage.RedisDB = db
	}
	c.Storage.MongoURI = getEnv("MONGO_URI", c.Storage.MongoURI)
	c.Storage.MongoDatabase = getEnv("MONGO_DB_NAME", c.Storage.MongoDatabase)

	c.Generator.APIKey = getEnv("GEMINI_API_KEY", c.Generator.APIKey)
	c.Generator.Model = getEnv("GEMINI_MODEL", c.Generator.Model)

	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		c.Kafka.Brokers = strings.Split(brokers, ",")
	}
	c.Kafka.Topic = getEnv("KAFKA_TOPIC", c.Kafka.Topic)

	c.Clipboard = getEnv("CLIPBOARD", c.Clipboard)
	c.Link = getEnv("STOREFRONT_LINK", c.Link)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []string

	if c.HTTP.Port == "" {
		errs = append(errs, "http.port is required")
	}
	if c.HTTP.RequestTimeout <= 0 {
		errs = append(errs, "http.request_timeout must be positive")
	}
	if c.HTTP.MaxRequestBodySize <= 0 {
		errs = append(errs, "http.max_request_body_size must be positive")
	}

	switch c.Storage.Backend {
	case storage.BackendMemory:
	case storage.BackendRedis:
		if c.Storage.RedisAddr == "" {
			errs = append(errs, "storage.redis_addr is required for redis")
		}
	case storage.BackendSQLite, storage.BackendPostgres:
		if c.Storage.DSN == "" {
			errs = append(errs, "storage.dsn is required for "+c.Storage.Backend)
		}
	case storage.BackendMongo:
		if c.Storage.MongoURI == "" || c.Storage.MongoDatabase == "" {
			errs = append(errs, "storage.mongo_uri and storage.mongo_database are required for mongo")
		}
	default:
		errs = append(errs, fmt.Sprintf("unknown storage.backend %q", c.Storage.Backend))
	}

	if c.Generator.Timeout <= 0 {
		errs = append(errs, "generator.timeout must be positive")
	}
	if len(c.Kafka.Brokers) > 0 && c.Kafka.Topic == "" {
		errs = append(errs, "kafka.topic is required when brokers are set")
	}

	switch c.Clipboard {
	case "system", "memory", "none":
	default:
		errs = append(errs, fmt.Sprintf("unknown clipboard %q", c.Clipboard))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errs, "\n"))
	}
	return nil
}

// StorageOptions maps the storage section onto storage.Open options.
func (c *Config) StorageOptions() storage.Options {
	return storage.Options{
		Backend:        c.Storage.Backend,
		DSN:            c.Storage.DSN,
		MigrationsPath: c.Storage.MigrationsPath,
		RedisAddr:      c.Storage.RedisAddr,
		RedisPassword:  c.Storage.RedisPassword,
		RedisDB:        c.Storage.RedisDB,
		RedisPrefix:    c.Storage.RedisPrefix,
		MongoURI:       c.Storage.MongoURI,
		MongoDatabase:  c.Storage.MongoDatabase,
	}
}
