// Package config holds the environment-driven configuration for the query
// executors. Credential loading lives here, outside the adapter itself.
package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// HTTPConfig configures the HTTP SQL endpoint executor.
type HTTPConfig struct {
	// URL overrides the endpoint entirely when set; otherwise it is derived
	// from Host.
	URL      string        `env:"AUTHSTORE_HTTP_URL" env-default:""`
	Host     string        `env:"AUTHSTORE_DB_HOST" env-default:"localhost"`
	Username string        `env:"AUTHSTORE_DB_USERNAME" env-default:""`
	Password string        `env:"AUTHSTORE_DB_PASSWORD" env-default:""`
	Timeout  time.Duration `env:"AUTHSTORE_HTTP_TIMEOUT" env-default:"10s"`
}

// Endpoint returns the URL statements are POSTed to.
func (c HTTPConfig) Endpoint() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf("https://%s/sql", c.Host)
}

// MySQLConfig configures the direct-connection executor used for local
// development and integration tests.
type MySQLConfig struct {
	Host     string `env:"AUTHSTORE_MYSQL_HOST" env-default:"localhost"`
	Port     uint16 `env:"AUTHSTORE_MYSQL_PORT" env-default:"3306"`
	Database string `env:"AUTHSTORE_MYSQL_DATABASE" env-default:"authstore"`
	User     string `env:"AUTHSTORE_MYSQL_USER" env-default:"authstore"`
	Password string `env:"AUTHSTORE_MYSQL_PASSWORD" env-default:"pwd"`
}

// ToDSN converts the config to a go-sql-driver DSN. parseTime is always on
// so datetime columns scan as time.Time.
func (c MySQLConfig) ToDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true",
		c.User, c.Password, c.Host, c.Port, c.Database)
}

// Config is the combined executor configuration.
type Config struct {
	HTTP  HTTPConfig
	MySQL MySQLConfig
}

// FromEnv reads the configuration from environment variables.
func FromEnv() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to read config from env: %w", err)
	}
	return cfg, nil
}
