// Package config loads the admin tool settings: defaults, then an optional
// YAML file, then .env and COOKADMIN_* environment variables. Command-line
// flags are applied on top by the CLI.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const EnvPrefix = "COOKADMIN_"

type Config struct {
	API       APIConfig       `yaml:"api"`
	Auth      AuthConfig      `yaml:"auth"`
	Log       LogConfig       `yaml:"log"`
	Kafka     KafkaConfig     `yaml:"kafka"`
	DevServer DevServerConfig `yaml:"devserver"`
}

type APIConfig struct {
	BaseURL         string            `yaml:"base_url"`
	Timeout         time.Duration     `yaml:"timeout"`
	SuccessCode     int               `yaml:"success_code"`
	Headers         map[string]string `yaml:"headers"`
	RequestIDHeader string            `yaml:"request_id_header"`
}

type AuthConfig struct {
	// TokenKey is the key the bearer token is stored under.
	TokenKey string `yaml:"token_key"`
	StoreDir string `yaml:"store_dir"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

type KafkaConfig struct {
	Enabled bool     `yaml:"enabled"`
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
	// GroupID defaults to a per-process id when empty.
	GroupID string   `yaml:"group_id"`
}

type DevServerConfig struct {
	Addr  string `yaml:"addr"`
	Token string `yaml:"token"`
}

func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			BaseURL:         "http://localhost:8080/api",
			Timeout:         10 * time.Second,
			SuccessCode:     200,
			Headers:         map[string]string{"Content-Type": "application/json"},
			RequestIDHeader: "X-Request-Id",
		},
		Auth: AuthConfig{
			TokenKey: "token",
			StoreDir: defaultStoreDir(),
		},
		Log: LogConfig{
			Level: "info",
		},
		Kafka: KafkaConfig{
			Topic: "cookadmin.invalidations",
		},
		DevServer: DevServerConfig{
			Addr: "127.0.0.1:8080",
		},
	}
}

func defaultStoreDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".cookadmin"
	}
	return filepath.Join(home, ".cookadmin", "store")
}

// Load builds the configuration. A missing file or .env is not an error;
// an explicitly named file that cannot be read is.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("load .env: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

type lookupFunc func(key string) (string, bool)

func applyEnv(cfg *Config, lookup lookupFunc) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok {
			*dst = v
		}
	}
	var errs []error
	boolean := func(name string, dst *bool) {
		if v, ok := lookup(EnvPrefix + name); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
				return
			}
			*dst = b
		}
	}

	str("BASE_URL", &cfg.API.BaseURL)
	str("REQUEST_ID_HEADER", &cfg.API.RequestIDHeader)
	str("TOKEN_KEY", &cfg.Auth.TokenKey)
	str("STORE_DIR", &cfg.Auth.StoreDir)
	str("LOG_LEVEL", &cfg.Log.Level)
	boolean("LOG_JSON", &cfg.Log.JSON)
	boolean("KAFKA_ENABLED", &cfg.Kafka.Enabled)
	str("KAFKA_TOPIC", &cfg.Kafka.Topic)
	str("KAFKA_GROUP_ID", &cfg.Kafka.GroupID)
	str("DEVSERVER_ADDR", &cfg.DevServer.Addr)
	str("DEVSERVER_TOKEN", &cfg.DevServer.Token)

	if v, ok := lookup(EnvPrefix + "TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sTIMEOUT: %w", EnvPrefix, err))
		} else {
			cfg.API.Timeout = d
		}
	}
	if v, ok := lookup(EnvPrefix + "SUCCESS_CODE"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sSUCCESS_CODE: %w", EnvPrefix, err))
		} else {
			cfg.API.SuccessCode = n
		}
	}
	if v, ok := lookup(EnvPrefix + "KAFKA_BROKERS"); ok {
		cfg.Kafka.Brokers = splitList(v)
	}
	return errors.Join(errs...)
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.API.BaseURL) == "" {
		errs = append(errs, errors.New("api.base_url is required"))
	}
	if c.API.Timeout <= 0 {
		errs = append(errs, errors.New("api.timeout must be positive"))
	}
	if c.Auth.TokenKey == "" {
		errs = append(errs, errors.New("auth.token_key is required"))
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		errs = append(errs, errors.New("kafka.brokers is required when kafka is enabled"))
	}
	return errors.Join(errs...)
}
