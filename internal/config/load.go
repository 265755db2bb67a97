package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// envPrefix namespaces every environment variable read by Load.
const envPrefix = "MEETINGS"

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	cfg, err := read()
	if err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadAuth reads the same sources as Load but validates only the auth
// settings, for tools that never open a store.
func LoadAuth() (*AuthConfig, error) {
	cfg, err := read()
	if err != nil {
		return nil, err
	}

	if err := validator.New().Struct(&cfg.Auth); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	if err := validateAuth(cfg.Auth); err != nil {
		return nil, err
	}

	return &cfg.Auth, nil
}

func read() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	// Optional config.yaml in the working directory
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}
	return &cfg, nil
}

// setDefaults registers a default for every key. AutomaticEnv only binds
// keys viper already knows about, so each key needs one.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.log_file", "")
	v.SetDefault("server.log_max_size_mb", 100)
	v.SetDefault("server.log_max_backups", 3)
	v.SetDefault("server.shutdown_timeout_seconds", 10)

	v.SetDefault("store.backend", BackendPostgres)
	v.SetDefault("store.auto_migrate", false)

	v.SetDefault("database.url", "")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("auth.provider", ProviderJWT)
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_lifetime_minutes", 60)
	v.SetDefault("auth.project_id", "")
	v.SetDefault("auth.issuer_url", "")
}

// Validate checks struct tags and the settings each selected backend needs.
func Validate(cfg *Config) error {
	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	switch cfg.Store.Backend {
	case BackendPostgres:
		if cfg.Database.URL == "" {
			return errors.New("config validation failed: database.url is required for the postgres store")
		}
	case BackendRedis:
		if cfg.Redis.Addr == "" {
			return errors.New("config validation failed: redis.addr is required for the redis store")
		}
	}

	return validateAuth(cfg.Auth)
}

func validateAuth(auth AuthConfig) error {
	switch auth.Provider {
	case ProviderJWT:
		if auth.JWTSecret == "" {
			return errors.New("config validation failed: auth.jwt_secret is required for the jwt provider")
		}
	case ProviderOIDC:
		if auth.ProjectID == "" {
			return errors.New("config validation failed: auth.project_id is required for the oidc provider")
		}
	}
	return nil
}
