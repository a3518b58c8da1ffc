package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	DB         DBConfig
	JWT        JWTConfig
	Log        LogConfig
	Validation ValidationConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port           string        `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	Environment    string        `mapstructure:"environment"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpen         int           `mapstructure:"max_open"`
	MaxIdle         int           `mapstructure:"max_idle"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	MigrationsPath  string        `mapstructure:"migrations_path"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// JWTConfig holds the settings used to verify caller tokens.
type JWTConfig struct {
	Secret string `mapstructure:"secret"`
	Issuer string `mapstructure:"issuer"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ValidationConfig holds defaults applied to every validation request.
type ValidationConfig struct {
	Strict           bool   `mapstructure:"strict"`
	ThrowOnError     bool   `mapstructure:"throw_on_error"`
	APIVersion       string `mapstructure:"api_version"`
	RestrictedReader string `mapstructure:"restricted_reader_role"`
}

// Load reads configuration from environment variables with the FORMFLOW_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("FORMFLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "formflow")
	v.SetDefault("db.password", "formflow_secret")
	v.SetDefault("db.name", "formflow_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)
	v.SetDefault("db.conn_max_lifetime", "30m")
	v.SetDefault("db.migrations_path", "file://db/migrations")

	// JWT defaults
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.issuer", "formflow")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "text")

	// Validation defaults
	v.SetDefault("validation.strict", true)
	v.SetDefault("validation.throw_on_error", false)
	v.SetDefault("validation.api_version", "v1")
	v.SetDefault("validation.restricted_reader_role", "restricted-reader")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                       "FORMFLOW_SERVER_PORT",
		"server.read_timeout":               "FORMFLOW_SERVER_READ_TIMEOUT",
		"server.write_timeout":              "FORMFLOW_SERVER_WRITE_TIMEOUT",
		"server.environment":                "FORMFLOW_SERVER_ENVIRONMENT",
		"server.allowed_origins":            "FORMFLOW_SERVER_ALLOWED_ORIGINS",
		"db.host":                           "FORMFLOW_DB_HOST",
		"db.port":                           "FORMFLOW_DB_PORT",
		"db.user":                           "FORMFLOW_DB_USER",
		"db.password":                       "FORMFLOW_DB_PASSWORD",
		"db.name":                           "FORMFLOW_DB_NAME",
		"db.sslmode":                        "FORMFLOW_DB_SSLMODE",
		"db.max_open":                       "FORMFLOW_DB_MAX_OPEN",
		"db.max_idle":                       "FORMFLOW_DB_MAX_IDLE",
		"db.conn_max_lifetime":              "FORMFLOW_DB_CONN_MAX_LIFETIME",
		"db.migrations_path":                "FORMFLOW_DB_MIGRATIONS_PATH",
		"jwt.secret":                        "FORMFLOW_JWT_SECRET",
		"jwt.issuer":                        "FORMFLOW_JWT_ISSUER",
		"log.level":                         "FORMFLOW_LOG_LEVEL",
		"log.format":                        "FORMFLOW_LOG_FORMAT",
		"validation.strict":                 "FORMFLOW_VALIDATION_STRICT",
		"validation.throw_on_error":         "FORMFLOW_VALIDATION_THROW_ON_ERROR",
		"validation.api_version":            "FORMFLOW_VALIDATION_API_VERSION",
		"validation.restricted_reader_role": "FORMFLOW_VALIDATION_RESTRICTED_READER_ROLE",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if FORMFLOW_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("FORMFLOW_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:           serverPort,
		ReadTimeout:    v.GetDuration("server.read_timeout"),
		WriteTimeout:   v.GetDuration("server.write_timeout"),
		Environment:    v.GetString("server.environment"),
		AllowedOrigins: splitList(v.GetString("server.allowed_origins")),
	}
	cfg.DB = DBConfig{
		Host:            v.GetString("db.host"),
		Port:            v.GetInt("db.port"),
		User:            v.GetString("db.user"),
		Password:        v.GetString("db.password"),
		Name:            v.GetString("db.name"),
		SSLMode:         v.GetString("db.sslmode"),
		MaxOpen:         v.GetInt("db.max_open"),
		MaxIdle:         v.GetInt("db.max_idle"),
		ConnMaxLifetime: v.GetDuration("db.conn_max_lifetime"),
		MigrationsPath:  v.GetString("db.migrations_path"),
	}
	cfg.JWT = JWTConfig{
		Secret: v.GetString("jwt.secret"),
		Issuer: v.GetString("jwt.issuer"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.Validation = ValidationConfig{
		Strict:           v.GetBool("validation.strict"),
		ThrowOnError:     v.GetBool("validation.throw_on_error"),
		APIVersion:       v.GetString("validation.api_version"),
		RestrictedReader: v.GetString("validation.restricted_reader_role"),
	}

	return cfg, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
