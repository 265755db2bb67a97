package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Store    StoreConfig    `mapstructure:"store" validate:"required"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	// LogFile, when set, receives a copy of every log line with size-based rotation.
	LogFile       string `mapstructure:"log_file"`
	LogMaxSizeMB  int    `mapstructure:"log_max_size_mb" validate:"gte=0"`
	LogMaxBackups int    `mapstructure:"log_max_backups" validate:"gte=0"`
	// ShutdownTimeoutSeconds bounds how long in-flight requests get on shutdown.
	ShutdownTimeoutSeconds int `mapstructure:"shutdown_timeout_seconds" validate:"gt=0"`
}

// Store backends.
const (
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendMemory   = "memory"
)

// StoreConfig selects the document store holding meetings.
type StoreConfig struct {
	Backend     string `mapstructure:"backend" validate:"required,oneof=postgres redis memory"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
}

// DatabaseConfig contains all database-related configuration settings.
// Required when the postgres backend is selected.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"omitempty,url"`
}

// RedisConfig holds connection settings for the redis backend.
type RedisConfig struct {
	Addr     string `mapstructure:"addr" validate:"omitempty,hostname_port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db" validate:"gte=0"`
}

// Identity providers.
const (
	ProviderJWT  = "jwt"
	ProviderOIDC = "oidc"
)

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	Provider string `mapstructure:"provider" validate:"required,oneof=jwt oidc"`

	// HS256 settings, used by the jwt provider.
	JWTSecret            string `mapstructure:"jwt_secret" validate:"omitempty,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"gt=0"`

	// ProjectID is the expected audience of OIDC ID tokens. IssuerURL defaults
	// to the secure token service issuer for the project.
	ProjectID string `mapstructure:"project_id"`
	IssuerURL string `mapstructure:"issuer_url" validate:"omitempty,url"`
}

// Issuer returns the configured issuer or the default for ProjectID.
func (a AuthConfig) Issuer() string {
	if a.IssuerURL != "" {
		return a.IssuerURL
	}
	return "https://securetoken.google.com/" + a.ProjectID
}
