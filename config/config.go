package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the application-wide configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Store     StoreConfig     `mapstructure:"store"`
	Database  DatabaseConfig  `mapstructure:"db"`
	Firestore FirestoreConfig `mapstructure:"firestore"`
	Mongo     MongoConfig     `mapstructure:"mongo"`
	Identity  IdentityConfig  `mapstructure:"identity"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Log       LogConfig       `mapstructure:"log"`
	Bootstrap BootstrapConfig `mapstructure:"bootstrap"`
}

// AppConfig holds domain-level settings.
type AppConfig struct {
	// Timezone is the IANA zone the weekly grid and past cut-off are computed in.
	Timezone string `mapstructure:"timezone"`
}

// Location resolves Timezone, falling back to UTC when it is empty.
func (c *AppConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(c.Timezone)
}

// ServerConfig HTTP server settings.
type ServerConfig struct {
	Port      int             `mapstructure:"port"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// RateLimitConfig per-client request budgets. Zero disables a limit.
type RateLimitConfig struct {
	// AuthPerMinute bounds sign-in, sign-up and refresh calls per address.
	AuthPerMinute int `mapstructure:"auth_per_minute"`
	// SubmitPerHour bounds absence requests submitted per student.
	SubmitPerHour int `mapstructure:"submit_per_hour"`
}

// CORSConfig cross-origin settings.
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// Store drivers.
const (
	StoreDriverPostgres  = "postgres"
	StoreDriverFirestore = "firestore"
	StoreDriverMongo     = "mongo"
)

// StoreConfig selects the document store backend.
type StoreConfig struct {
	Driver string `mapstructure:"driver"`
}

// DatabaseConfig PostgreSQL settings.
type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Name            string `mapstructure:"name"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	SSLMode         string `mapstructure:"sslmode"`
	Timezone        string `mapstructure:"timezone"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`  // minutes
	ConnMaxIdleTime int    `mapstructure:"conn_max_idle_time"` // minutes
}

// DSN builds the PostgreSQL connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode, c.Timezone,
	)
}

// FirestoreConfig Google Cloud Firestore / Firebase project settings.
type FirestoreConfig struct {
	ProjectID       string `mapstructure:"project_id"`
	CredentialsFile string `mapstructure:"credentials_file"`
}

// MongoConfig MongoDB settings.
type MongoConfig struct {
	URI      string `mapstructure:"uri"`
	Database string `mapstructure:"database"`
}

// Identity providers.
const (
	IdentityLocal    = "local"
	IdentityFirebase = "firebase"
)

// IdentityConfig selects where accounts and passwords live.
type IdentityConfig struct {
	Provider string `mapstructure:"provider"`
	// FirebaseAPIKey is the web API key used for password sign-in.
	FirebaseAPIKey    string `mapstructure:"firebase_api_key"`
	MinPasswordLength int    `mapstructure:"min_password_length"`
}

// RedisConfig Redis settings.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AuthConfig JWT settings.
type AuthConfig struct {
	JWTSecret               string        `mapstructure:"jwt_secret"`
	AccessTokenTTL          time.Duration `mapstructure:"access_token_ttl"`
	RefreshTokenTTLDefault  time.Duration `mapstructure:"refresh_token_ttl_default"`
	RefreshTokenTTLRemember time.Duration `mapstructure:"refresh_token_ttl_remember_me"`
}

// BootstrapConfig seeds the first administrator on an empty install.
// It is ignored once any admin exists.
type BootstrapConfig struct {
	AdminEmail    string `mapstructure:"admin_email"`
	AdminPassword string `mapstructure:"admin_password"`
}

// LogConfig logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration.
// Precedence: environment (including .env) > config file > defaults.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()

	// ── defaults ──
	v.SetDefault("app.timezone", "UTC")

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors.allow_origins", []string{"http://localhost:5173"})
	v.SetDefault("server.rate_limit.auth_per_minute", 10)
	v.SetDefault("server.rate_limit.submit_per_hour", 20)

	v.SetDefault("store.driver", StoreDriverPostgres)

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.name", "absence_desk")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.timezone", "UTC")
	v.SetDefault("db.max_open_conns", 25)
	v.SetDefault("db.max_idle_conns", 10)
	v.SetDefault("db.conn_max_lifetime", 60)
	v.SetDefault("db.conn_max_idle_time", 30)

	v.SetDefault("firestore.project_id", "")
	v.SetDefault("firestore.credentials_file", "")

	v.SetDefault("mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("mongo.database", "absence_desk")

	v.SetDefault("identity.provider", IdentityLocal)
	v.SetDefault("identity.firebase_api_key", "")
	v.SetDefault("identity.min_password_length", 6)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("auth.access_token_ttl", "15m")
	v.SetDefault("auth.refresh_token_ttl_default", "24h")
	v.SetDefault("auth.refresh_token_ttl_remember_me", "168h")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("bootstrap.admin_email", "")
	v.SetDefault("bootstrap.admin_password", "")

	// ── config file ──
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// ── environment ──
	v.SetEnvPrefix("ABSENCE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the settings the server cannot start without.
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("config: auth.jwt_secret must not be empty")
	}
	if len(c.Auth.JWTSecret) < 16 {
		return fmt.Errorf("config: auth.jwt_secret must be at least 16 characters")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port must be within 1-65535")
	}
	if c.Server.RateLimit.AuthPerMinute < 0 || c.Server.RateLimit.SubmitPerHour < 0 {
		return fmt.Errorf("config: server.rate_limit values must not be negative")
	}

	switch c.Store.Driver {
	case StoreDriverPostgres:
	case StoreDriverFirestore:
		if c.Firestore.ProjectID == "" {
			return fmt.Errorf("config: firestore.project_id is required for the firestore store")
		}
	case StoreDriverMongo:
		if c.Mongo.URI == "" || c.Mongo.Database == "" {
			return fmt.Errorf("config: mongo.uri and mongo.database are required for the mongo store")
		}
	default:
		return fmt.Errorf("config: unknown store.driver %q", c.Store.Driver)
	}

	switch c.Identity.Provider {
	case IdentityLocal:
	case IdentityFirebase:
		if c.Identity.FirebaseAPIKey == "" {
			return fmt.Errorf("config: identity.firebase_api_key is required for the firebase provider")
		}
	default:
		return fmt.Errorf("config: unknown identity.provider %q", c.Identity.Provider)
	}
	if c.Identity.MinPasswordLength < 6 {
		return fmt.Errorf("config: identity.min_password_length must be at least 6")
	}

	if c.Bootstrap.AdminEmail != "" && c.Bootstrap.AdminPassword == "" {
		return fmt.Errorf("config: bootstrap.admin_password is required with bootstrap.admin_email")
	}

	if _, err := c.App.Location(); err != nil {
		return fmt.Errorf("config: app.timezone: %w", err)
	}
	return nil
}
