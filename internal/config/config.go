package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	MySQL    MySQLConfig    `mapstructure:"mysql"`
	RabbitMQ RabbitMQConfig `mapstructure:"rabbitmq"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Store    StoreConfig    `mapstructure:"store"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type MySQLConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

func (c *MySQLConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.Username, c.Password, c.Host, c.Port, c.Database)
}

// RabbitMQConfig with an empty URL disables event publishing.
type RabbitMQConfig struct {
	URL      string `mapstructure:"url"`
	Exchange string `mapstructure:"exchange"`
}

type StorageConfig struct {
	Root          string `mapstructure:"root"`
	PublicBaseURL string `mapstructure:"public_base_url"`
	URLPrefix     string `mapstructure:"url_prefix"`
}

type StoreConfig struct {
	WhatsAppNumber string `mapstructure:"whatsapp_number"`
	WhatsAppURL    string `mapstructure:"whatsapp_url"`
	CurrencySymbol string `mapstructure:"currency_symbol"`
}

type LogConfig struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

var defaults = map[string]any{
	"server.host":             "0.0.0.0",
	"server.port":             8000,
	"server.shutdown_timeout": 10 * time.Second,

	"mysql.host":              "127.0.0.1",
	"mysql.port":              3306,
	"mysql.username":          "storefront",
	"mysql.password":          "",
	"mysql.database":          "storefront",
	"mysql.max_open_conns":    50,
	"mysql.max_idle_conns":    10,
	"mysql.conn_max_lifetime": 5 * time.Minute,

	"rabbitmq.url":      "",
	"rabbitmq.exchange": "storefront.exchange",

	"storage.root":            "media",
	"storage.public_base_url": "http://127.0.0.1:8000",
	"storage.url_prefix":      "/media",

	"store.whatsapp_number": "2348074000598",
	"store.whatsapp_url":    "https://wa.me",
	"store.currency_symbol": "₦",

	"log.level":    "info",
	"log.encoding": "json",
}

// Load reads .env (if present), then the optional YAML file at path, then
// environment variables such as MYSQL_HOST or STORE_WHATSAPP_NUMBER.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Store.WhatsAppNumber == "" {
		return nil, errors.New("store.whatsapp_number must not be empty")
	}
	return &cfg, nil
}
