package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Env        string `mapstructure:"app_env"`
	LogLevel   string `mapstructure:"log_level"`
	ServerPort string `mapstructure:"server_port"`

	StoreDriver string `mapstructure:"store_driver"`
	DBHost      string `mapstructure:"db_host"`
	DBPort      string `mapstructure:"db_port"`
	DBUser      string `mapstructure:"db_user"`
	DBPassword  string `mapstructure:"db_password"`
	DBName      string `mapstructure:"db_name"`

	RedisURL string `mapstructure:"redis_url"`

	KafkaBrokers string `mapstructure:"kafka_brokers"`
	KafkaTopic   string `mapstructure:"kafka_topic"`

	JWTSecret string        `mapstructure:"jwt_secret"`
	JWTTTL    time.Duration `mapstructure:"jwt_ttl"`

	CompatRemoteURL   string        `mapstructure:"compat_remote_url"`
	MessageRatePerMin int           `mapstructure:"message_rate_per_min"`
	OutboxInterval    time.Duration `mapstructure:"outbox_interval"`
	CORSOrigins       string        `mapstructure:"cors_origins"`
}

var defaults = map[string]any{
	"app_env":              "dev",
	"log_level":            "info",
	"server_port":          "8080",
	"store_driver":         "postgres",
	"db_host":              "localhost",
	"db_port":              "5432",
	"db_user":              "roomie",
	"db_password":          "roomie_dev_password",
	"db_name":              "roomie",
	"redis_url":            "",
	"kafka_brokers":        "",
	"kafka_topic":          "roomie.events",
	"jwt_secret":           "dev-secret-change-me",
	"jwt_ttl":              24 * time.Hour,
	"compat_remote_url":    "",
	"message_rate_per_min": 30,
	"outbox_interval":      2 * time.Second,
	"cors_origins":         "*",
}

// Load reads defaults, then an optional config.yaml, then environment variables
// (SERVER_PORT, DB_HOST, ...), each overriding the previous.
func Load() (*Config, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if cfg.StoreDriver != "postgres" && cfg.StoreDriver != "memory" {
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
	if cfg.MessageRatePerMin <= 0 {
		cfg.MessageRatePerMin = 30
	}
	return &cfg, nil
}

func (c *Config) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

func (c *Config) IsDev() bool {
	return c.Env == "dev"
}

func (c *Config) Brokers() []string {
	if c.KafkaBrokers == "" {
		return nil
	}
	return strings.Split(c.KafkaBrokers, ",")
}

func (c *Config) AllowedOrigins() []string {
	return strings.Split(c.CORSOrigins, ",")
}
