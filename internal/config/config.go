package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the restaurant system
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq"`
	Auth     AuthConfig     `yaml:"auth"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port        int      `yaml:"port"`
	CORSOrigins []string `yaml:"cors_origins"`
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

// RabbitMQConfig holds RabbitMQ connection configuration
type RabbitMQConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

// AuthConfig holds token issuance settings
type AuthConfig struct {
	SecretKey     string        `yaml:"secret_key"`
	Algorithm     string        `yaml:"algorithm"`
	TokenLifetime time.Duration `yaml:"access_token_expire_minutes"`
}

// LoggingConfig holds log level and encoding
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when a key is absent from both file and environment.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        12447,
			CORSOrigins: []string{"http://localhost:5173"},
		},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "postgres",
			Database: "restaurant",
		},
		Auth: AuthConfig{
			Algorithm:     "HS256",
			TokenLifetime: 43200 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads configuration from a YAML file and applies environment overrides.
// A missing file is not an error: defaults plus environment are used instead.
func Load(filename string) (*Config, error) {
	config := Default()

	file, err := os.Open(filename)
	switch {
	case err == nil:
		defer file.Close()
		if err := config.parse(file); err != nil {
			return nil, err
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}

	if err := config.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) parse(r io.Reader) error {
	scanner := bufio.NewScanner(r)

	var currentSection string

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip comments and empty lines
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Check for section headers
		if strings.HasSuffix(line, ":") && !strings.Contains(line, " ") {
			currentSection = strings.TrimSuffix(line, ":")
			continue
		}

		// Parse key-value pairs
		if strings.Contains(line, ":") {
			parts := strings.SplitN(line, ":", 2)
			if len(parts) != 2 {
				continue
			}

			key := strings.TrimSpace(parts[0])
			value := unquote(strings.TrimSpace(parts[1]))

			if err := c.setValue(currentSection, key, value); err != nil {
				return fmt.Errorf("failed to set config value %s.%s: %w", currentSection, key, err)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

// setValue sets a configuration value based on section and key
func (c *Config) setValue(section, key, value string) error {
	switch section {
	case "server":
		return c.setServerValue(key, value)
	case "database":
		return c.setDatabaseValue(key, value)
	case "rabbitmq":
		return c.setRabbitMQValue(key, value)
	case "auth":
		return c.setAuthValue(key, value)
	case "logging":
		return c.setLoggingValue(key, value)
	default:
		return fmt.Errorf("unknown section: %s", section)
	}
}

func (c *Config) setServerValue(key, value string) error {
	switch key {
	case "port":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid port value: %w", err)
		}
		c.Server.Port = port
	case "cors_origins":
		c.Server.CORSOrigins = splitList(value)
	default:
		return fmt.Errorf("unknown server key: %s", key)
	}
	return nil
}

// setDatabaseValue sets database configuration values
func (c *Config) setDatabaseValue(key, value string) error {
	switch key {
	case "url":
		c.Database.URL = value
	case "host":
		c.Database.Host = value
	case "port":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid port value: %w", err)
		}
		c.Database.Port = port
	case "user":
		c.Database.User = value
	case "password":
		c.Database.Password = value
	case "database":
		c.Database.Database = value
	default:
		return fmt.Errorf("unknown database key: %s", key)
	}
	return nil
}

// setRabbitMQValue sets RabbitMQ configuration values
func (c *Config) setRabbitMQValue(key, value string) error {
	switch key {
	case "host":
		c.RabbitMQ.Host = value
	case "port":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid port value: %w", err)
		}
		c.RabbitMQ.Port = port
	case "user":
		c.RabbitMQ.User = value
	case "password":
		c.RabbitMQ.Password = value
	default:
		return fmt.Errorf("unknown rabbitmq key: %s", key)
	}
	return nil
}

func (c *Config) setAuthValue(key, value string) error {
	switch key {
	case "secret_key":
		c.Auth.SecretKey = value
	case "algorithm":
		c.Auth.Algorithm = strings.ToUpper(value)
	case "access_token_expire_minutes":
		minutes, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid token lifetime: %w", err)
		}
		c.Auth.TokenLifetime = time.Duration(minutes) * time.Minute
	default:
		return fmt.Errorf("unknown auth key: %s", key)
	}
	return nil
}

func (c *Config) setLoggingValue(key, value string) error {
	switch key {
	case "level":
		c.Logging.Level = value
	case "format":
		c.Logging.Format = value
	default:
		return fmt.Errorf("unknown logging key: %s", key)
	}
	return nil
}

// envOverrides maps environment variables onto section keys.
var envOverrides = []struct {
	env, section, key string
}{
	{"PORT", "server", "port"},
	{"CORS_ORIGINS", "server", "cors_origins"},
	{"DATABASE_URL", "database", "url"},
	{"DB_HOST", "database", "host"},
	{"DB_PORT", "database", "port"},
	{"DB_USER", "database", "user"},
	{"DB_PASSWORD", "database", "password"},
	{"DB_NAME", "database", "database"},
	{"RABBITMQ_HOST", "rabbitmq", "host"},
	{"RABBITMQ_PORT", "rabbitmq", "port"},
	{"RABBITMQ_USER", "rabbitmq", "user"},
	{"RABBITMQ_PASSWORD", "rabbitmq", "password"},
	{"SECRET_KEY", "auth", "secret_key"},
	{"ALGORITHM", "auth", "algorithm"},
	{"ACCESS_TOKEN_EXPIRE_MINUTES", "auth", "access_token_expire_minutes"},
	{"LOG_LEVEL", "logging", "level"},
	{"LOG_FORMAT", "logging", "format"},
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	for _, o := range envOverrides {
		value, ok := lookup(o.env)
		if !ok || strings.TrimSpace(value) == "" {
			continue
		}
		if err := c.setValue(o.section, o.key, strings.TrimSpace(value)); err != nil {
			return fmt.Errorf("invalid %s: %w", o.env, err)
		}
	}
	return nil
}

// ValidateForAPI checks the settings the HTTP API cannot start without.
func (c *Config) ValidateForAPI() error {
	if c.Auth.SecretKey == "" {
		return fmt.Errorf("auth.secret_key (SECRET_KEY) is required")
	}
	if c.Auth.TokenLifetime <= 0 {
		return fmt.Errorf("auth.access_token_expire_minutes must be positive")
	}
	switch c.Auth.Algorithm {
	case "HS256", "HS384", "HS512":
	default:
		return fmt.Errorf("unsupported token algorithm %q", c.Auth.Algorithm)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d is out of range", c.Server.Port)
	}
	return nil
}

// DatabaseURL returns a PostgreSQL connection URL
func (c *Config) DatabaseURL() string {
	if c.Database.URL != "" {
		return c.Database.URL
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.Database.User, c.Database.Password, c.Database.Host, c.Database.Port, c.Database.Database)
}

// RabbitMQEnabled reports whether a broker is configured.
func (c *Config) RabbitMQEnabled() bool {
	return c.RabbitMQ.Host != ""
}

// RabbitMQURL returns an AMQP connection URL
func (c *Config) RabbitMQURL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%d/",
		c.RabbitMQ.User, c.RabbitMQ.Password, c.RabbitMQ.Host, c.RabbitMQ.Port)
}

func unquote(value string) string {
	if len(value) >= 2 {
		if (value[0] == '"' && value[len(value)-1] == '"') || (value[0] == '\'' && value[len(value)-1] == '\'') {
			return value[1 : len(value)-1]
		}
	}
	return value
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
