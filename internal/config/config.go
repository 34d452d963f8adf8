package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

func init() {
	// Load .env file if it exists (silent fail if not)
	_ = godotenv.Load()
}

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Server  ServerConfig
	App     AppConfig
	Storage StorageConfig
	Cache   CacheConfig
	Session SessionConfig
	Google  GoogleConfig
	Barcode BarcodeConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	Port            int           `envconfig:"SERVER_PORT" default:"8080"`
	ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"30s"`
	IdleTimeout     time.Duration `envconfig:"SERVER_IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`
	AllowedOrigins  []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:5173,http://localhost:8080"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name        string `envconfig:"APP_NAME" default:"freshguard-api"`
	Environment string `envconfig:"APP_ENV" default:"development"`
	Version     string `envconfig:"APP_VERSION" default:"1.0.0"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat   string `envconfig:"LOG_FORMAT" default:"text"` // text or json
	LoginKey    string `envconfig:"LOGIN_KEY" default:""`      // admin stats key
	PublicURL   string `envconfig:"PUBLIC_URL" default:"http://localhost:8080"`
}

// StorageConfig selects and configures the item/user store.
type StorageConfig struct {
	Type string `envconfig:"STORAGE_TYPE" default:"sqlite"` // memory, sqlite, postgres, or mysql
	Path string `envconfig:"SQLITE_PATH" default:"./data/freshguard.db"`

	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     int    `envconfig:"DB_PORT" default:"0"` // 0 picks the driver default
	Name     string `envconfig:"DB_NAME" default:"freshguard"`
	User     string `envconfig:"DB_USER" default:""`
	Password string `envconfig:"DB_PASS" default:""`
	SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
}

// CacheConfig holds cache settings.
type CacheConfig struct {
	Type string `envconfig:"CACHE_TYPE" default:"memory"` // memory or redis

	RedisHost     string `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort     int    `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`
	KeyPrefix     string `envconfig:"REDIS_KEY_PREFIX" default:"freshguard"`
}

// SessionConfig holds session cookie settings.
type SessionConfig struct {
	TTL          time.Duration `envconfig:"SESSION_TTL" default:"168h"`
	CookieName   string        `envconfig:"SESSION_COOKIE_NAME" default:"freshguard_session"`
	CookieSecure bool          `envconfig:"SESSION_COOKIE_SECURE" default:"false"`
}

// GoogleConfig holds Google OAuth credentials. Login is disabled when unset.
type GoogleConfig struct {
	ClientID     string `envconfig:"GOOGLE_CLIENT_ID" default:""`
	ClientSecret string `envconfig:"GOOGLE_CLIENT_SECRET" default:""`
	RedirectURL  string `envconfig:"GOOGLE_REDIRECT_URL" default:""`
}

// BarcodeConfig holds Open Food Facts lookup settings.
type BarcodeConfig struct {
	BaseURL   string        `envconfig:"BARCODE_BASE_URL" default:"https://world.openfoodfacts.org"`
	Timeout   time.Duration `envconfig:"BARCODE_TIMEOUT" default:"5s"`
	PerMinute int           `envconfig:"BARCODE_RATE_PER_MINUTE" default:"60"`
	UserAgent string        `envconfig:"BARCODE_USER_AGENT" default:"FreshGuard/1.0"`
	CacheTTL  time.Duration `envconfig:"BARCODE_CACHE_TTL" default:"24h"`
}

// Address returns the server address in host:port format.
func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// PostgresDSN returns the PostgreSQL connection string.
func (s *StorageConfig) PostgresDSN() string {
	port := s.Port
	if port == 0 {
		port = 5432
	}
	user := s.User
	if user == "" {
		user = "postgres"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.PathEscape(user), url.PathEscape(s.Password), s.Host, port, s.Name, s.SSLMode)
}

// MySQLDSN returns the MySQL data source name. Times are read and written
// in UTC.
func (s *StorageConfig) MySQLDSN() string {
	port := s.Port
	if port == 0 {
		port = 3306
	}
	user := s.User
	if user == "" {
		user = "root"
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&loc=UTC",
		user, s.Password, s.Host, port, s.Name)
}

// RedisAddress returns the Redis address in host:port format.
func (c *CacheConfig) RedisAddress() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// Enabled reports whether Google credentials are present.
func (g *GoogleConfig) Enabled() bool {
	return g.ClientID != "" && g.ClientSecret != ""
}

// IsDevelopment returns true if running in development mode.
func (a *AppConfig) IsDevelopment() bool {
	return a.Environment == "development"
}

// IsProduction returns true if running in production mode.
func (a *AppConfig) IsProduction() bool {
	return a.Environment == "production"
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if cfg.Google.RedirectURL == "" {
		cfg.Google.RedirectURL = strings.TrimRight(cfg.App.PublicURL, "/") + "/api/auth/callback"
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Type {
	case "memory", "sqlite", "postgres", "mysql":
	default:
		return fmt.Errorf("invalid STORAGE_TYPE %q: want memory, sqlite, postgres or mysql", c.Storage.Type)
	}

	switch c.Cache.Type {
	case "memory", "redis":
	default:
		return fmt.Errorf("invalid CACHE_TYPE %q: want memory or redis", c.Cache.Type)
	}

	if c.Session.TTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	return nil
}

// MustLoad loads configuration or panics on error.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}
