package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// serverConfig is everything the daemon needs beyond the engine defaults.
// Values come from config.yaml next to the binary (or FTAUTH_CONFIG) with
// FTAUTH_* environment variables taking precedence.
type serverConfig struct {
	Server struct {
		Addr            string        `mapstructure:"addr"`
		APIKey          string        `mapstructure:"api_key"`
		ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	} `mapstructure:"server"`

	Redis struct {
		Addr     string `mapstructure:"addr"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
	} `mapstructure:"redis"`

	Database struct {
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"name"`
		SSLMode  string `mapstructure:"sslmode"`
	} `mapstructure:"database"`

	Brevo struct {
		APIKey    string `mapstructure:"api_key"`
		FromEmail string `mapstructure:"from_email"`
		FromName  string `mapstructure:"from_name"`
	} `mapstructure:"brevo"`

	Frontend struct {
		BaseURL string `mapstructure:"base_url"`
	} `mapstructure:"frontend"`
}

// DSN builds the PostgreSQL connection string.
func (c *serverConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host, c.Database.Port, c.Database.User,
		c.Database.Password, c.Database.Name, c.Database.SSLMode,
	)
}

func loadConfig(path string) (*serverConfig, error) {
	v := viper.New()

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "ftauth")
	v.SetDefault("database.name", "ftauth")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("brevo.from_email", "noreply@footballtalento.com")
	v.SetDefault("brevo.from_name", "FootballTalento")
	v.SetDefault("frontend.base_url", "https://footballtalento.com")

	v.SetEnvPrefix("FTAUTH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/ftauth")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		// Defaults plus environment is a valid configuration.
	}

	var cfg serverConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.Server.APIKey == "" {
		return nil, fmt.Errorf("server.api_key (FTAUTH_SERVER_API_KEY) is required")
	}

	return &cfg, nil
}
