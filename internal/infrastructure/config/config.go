// Package config loads the JagoPilih server settings from config.toml, a
// local .env file and JAGO_* environment variables.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	envProduction = "production"
	envPrefix     = "JAGO"
	devSecret     = "jagopilih-development-session-secret"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Session   SessionConfig   `mapstructure:"session"`
	Cookie    CookieConfig    `mapstructure:"cookie"`
	Log       LogConfig       `mapstructure:"log"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Import    ImportConfig    `mapstructure:"import"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Profiling ProfilingConfig `mapstructure:"profiling"`
}

type AppConfig struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
	Port string `mapstructure:"port"`
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password    string        `mapstructure:"password"`
	DB          int           `mapstructure:"db"`
	PoolSize    int           `mapstructure:"pool_size"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
}

// Addr returns host:port
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// SessionConfig holds the admin session token settings
type SessionConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
	Issuer     string        `mapstructure:"issuer"`
	CookieName string        `mapstructure:"cookie_name"`
	LoginPath  string        `mapstructure:"login_path"` // where unauthenticated /admin requests are sent
	HomePath   string        `mapstructure:"home_path"`  // where authenticated visitors of LoginPath are sent
}

// CookieConfig holds the attributes of the session cookie. An empty Domain
// means the current host.
type CookieConfig struct {
	Domain   string `mapstructure:"domain"`
	Path     string `mapstructure:"path"`
	Secure   bool   `mapstructure:"secure"`
	SameSite string `mapstructure:"same_site"` // strict, lax or none
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

type HTTPConfig struct {
	ReadTimeout      time.Duration `mapstructure:"read_timeout"`
	WriteTimeout     time.Duration `mapstructure:"write_timeout"`
	IdleTimeout      time.Duration `mapstructure:"idle_timeout"`
	MaxHeaderBytes   int           `mapstructure:"max_header_bytes"`
	MaxBodySize      int64         `mapstructure:"max_body_size"`
	CORSAllowOrigins []string      `mapstructure:"cors_allow_origins"`
	CORSAllowMethods []string      `mapstructure:"cors_allow_methods"`
	CORSAllowHeaders []string      `mapstructure:"cors_allow_headers"`
	TrustedProxies   []string      `mapstructure:"trusted_proxies"`
	LoginRateLimit   int           `mapstructure:"login_rate_limit"` // attempts per client per window; 0 disables
	LoginRateWindow  time.Duration `mapstructure:"login_rate_window"`
}

// StorageConfig selects and configures the product image host
type StorageConfig struct {
	Provider      string `mapstructure:"provider"`       // cloudinary, s3, stub
	CloudinaryURL string `mapstructure:"cloudinary_url"` // cloudinary://<key>:<secret>@<cloud>
	Folder        string `mapstructure:"folder"`
	MaxImageSize  int64  `mapstructure:"max_image_size"`

	Endpoint      string `mapstructure:"endpoint"`
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	UseSSL        bool   `mapstructure:"use_ssl"`
	UsePathStyle  bool   `mapstructure:"use_path_style"`
	CreateBucket  bool   `mapstructure:"create_bucket"` // create a missing bucket at startup, e.g. local MinIO
	PublicBaseURL string `mapstructure:"public_base_url"` // https base URL objects are served from
}

type ImportConfig struct {
	MaxRows     int   `mapstructure:"max_rows"`
	MaxFileSize int64 `mapstructure:"max_file_size"`
}

// CacheConfig holds storefront page cache settings
type CacheConfig struct {
	Driver  string        `mapstructure:"driver"` // memory, redis, none
	TTL     time.Duration `mapstructure:"ttl"`
	Channel string        `mapstructure:"channel"` // redis pub/sub channel for revalidation
}

type TelemetryConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	CollectorEndpoint string  `mapstructure:"collector_endpoint"` // OTLP gRPC, e.g. localhost:4317
	SamplingRatio     float64 `mapstructure:"sampling_ratio"`
	ServiceName       string  `mapstructure:"service_name"`
	Insecure          bool    `mapstructure:"insecure"`
	DBTraceEnabled    bool    `mapstructure:"db_trace_enabled"`
	DBLogFullSQL      bool    `mapstructure:"db_log_full_sql"` // query variables in spans, never in production
	LogsEnabled       bool    `mapstructure:"logs_enabled"`    // also ship zap logs to the collector
}

// ProfilingConfig enables continuous profiling to a Pyroscope server
type ProfilingConfig struct {
	Enabled       bool     `mapstructure:"enabled"`
	ServerAddress string   `mapstructure:"server_address"` // e.g. http://pyroscope:4040
	BasicAuthUser string   `mapstructure:"basic_auth_user"`
	BasicAuthPass string   `mapstructure:"basic_auth_password"`
	ProfileTypes  []string `mapstructure:"profile_types"` // cpu, alloc_space, inuse_space, goroutines, ...
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Prefix  string `mapstructure:"prefix"`
	Path    string `mapstructure:"path"`
}

// defaults registers every key with viper, which is also what lets
// AutomaticEnv fill keys that have no file value.
var defaults = map[string]any{
	"app.name": "jagopilih",
	"app.env":  "development",
	"app.port": "8080",

	"database.host":               "localhost",
	"database.port":               5432,
	"database.user":               "postgres",
	"database.password":           "",
	"database.dbname":             "jagopilih",
	"database.sslmode":            "disable",
	"database.max_open_conns":     25,
	"database.max_idle_conns":     5,
	"database.conn_max_lifetime":  time.Hour,
	"database.conn_max_idle_time": 30 * time.Minute,

	"redis.host":         "localhost",
	"redis.port":         6379,
	"redis.password":     "",
	"redis.db":           0,
	"redis.pool_size":    10,
	"redis.dial_timeout": 5 * time.Second,

	"session.secret":      "",
	"session.expiration":  24 * time.Hour,
	"session.issuer":      "jagopilih",
	"session.cookie_name": "admin_session",
	"session.login_path":  "/login",
	"session.home_path":   "/admin",

	"cookie.domain":    "",
	"cookie.path":      "/",
	"cookie.secure":    false,
	"cookie.same_site": "lax",

	"log.level":  "info",
	"log.format": "console",
	"log.output": "stdout",

	"http.read_timeout":       15 * time.Second,
	"http.write_timeout":      60 * time.Second,
	"http.idle_timeout":       60 * time.Second,
	"http.max_header_bytes":   1 << 20,
	"http.max_body_size":      int64(32 << 20), // multi-image product forms
	"http.cors_allow_origins": []string{},      // cross-origin requests stay off until configured
	"http.cors_allow_methods": []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
	"http.cors_allow_headers": []string{"Content-Type", "X-Request-ID"},
	"http.trusted_proxies":    []string{},
	"http.login_rate_limit":   0,
	"http.login_rate_window":  time.Minute,

	"storage.provider":        "stub",
	"storage.cloudinary_url":  "",
	"storage.folder":          "jagopilih",
	"storage.max_image_size":  int64(5 << 20),
	"storage.endpoint":        "",
	"storage.region":          "us-east-1",
	"storage.bucket":          "",
	"storage.access_key":      "",
	"storage.secret_key":      "",
	"storage.use_ssl":         true,
	"storage.use_path_style":  false,
	"storage.create_bucket":   false,
	"storage.public_base_url": "",

	"import.max_rows":      5000,
	"import.max_file_size": int64(10 << 20),

	"cache.driver":  "memory",
	"cache.ttl":     5 * time.Minute,
	"cache.channel": "jagopilih:revalidate",

	"telemetry.enabled":            false,
	"telemetry.collector_endpoint": "localhost:4317",
	"telemetry.sampling_ratio":     1.0,
	"telemetry.service_name":       "jagopilih-backend",
	"telemetry.insecure":           false,
	"telemetry.db_trace_enabled":   false,
	"telemetry.db_log_full_sql":    false,
	"telemetry.logs_enabled":       false,

	"profiling.enabled":             false,
	"profiling.server_address":      "",
	"profiling.basic_auth_user":     "",
	"profiling.basic_auth_password": "",
	"profiling.profile_types":       []string{"cpu", "alloc_space", "inuse_space", "goroutines"},

	"metrics.enabled": false,
	"metrics.prefix":  "jagopilih",
	"metrics.path":    "/metrics",
}

// Load reads the configuration. Later sources win:
//
//  1. built-in defaults
//  2. config.toml in the working directory or /app
//  3. .env in the working directory, never overriding the real environment
//  4. JAGO_* environment variables, e.g. JAGO_DATABASE_PASSWORD
func Load() (*Config, error) {
	// A missing .env is normal outside local development
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg, err := decode(v)
	if err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// decode applies the defaults to v and unmarshals it. Outside production an
// empty session secret is replaced by a fixed development secret.
func decode(v *viper.Viper) (*Config, error) {
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}
	if cfg.Session.Secret == "" && !cfg.IsProduction() {
		cfg.Session.Secret = devSecret
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.Database.MaxOpenConns > 0, "database.max_open_conns must be positive")
	check(c.Database.MaxIdleConns >= 0, "database.max_idle_conns cannot be negative")
	check(c.Database.MaxIdleConns <= c.Database.MaxOpenConns,
		"database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
		c.Database.MaxIdleConns, c.Database.MaxOpenConns)

	switch c.Storage.Provider {
	case "cloudinary":
		check(c.Storage.CloudinaryURL != "", "storage.cloudinary_url is required for the cloudinary provider")
	case "s3":
		check(c.Storage.Bucket != "", "storage.bucket is required for the s3 provider")
		check(strings.HasPrefix(c.Storage.PublicBaseURL, "https://"),
			"storage.public_base_url must be an https URL for the s3 provider")
	case "stub":
	default:
		check(false, "storage.provider must be one of cloudinary, s3, stub, got %q", c.Storage.Provider)
	}

	check(slices.Contains([]string{"memory", "redis", "none"}, c.Cache.Driver),
		"cache.driver must be one of memory, redis, none, got %q", c.Cache.Driver)
	check(c.Cookie.SameSite != "none" || c.Cookie.Secure, "cookie.same_site=none requires cookie.secure=true")
	check(c.Telemetry.SamplingRatio >= 0 && c.Telemetry.SamplingRatio <= 1,
		"telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	check(!c.Profiling.Enabled || c.Profiling.ServerAddress != "",
		"profiling.server_address is required when profiling is enabled")

	if c.IsProduction() {
		check(len(c.Session.Secret) >= 32, "session.secret of at least 32 characters is required in production")
		check(c.Database.Password != "", "database.password is required in production")
		check(c.Cookie.Secure, "cookie.secure must be true in production")
		check(c.Storage.Provider != "stub", "storage.provider cannot be 'stub' in production")
		check(!slices.Contains(c.HTTP.CORSAllowOrigins, "*"), "http.cors_allow_origins cannot be '*' in production")
		check(!c.Telemetry.DBLogFullSQL, "telemetry.db_log_full_sql must be false in production")
	}

	return errors.Join(errs...)
}

// IsProduction reports whether the app runs in production
func (c *Config) IsProduction() bool {
	return c.App.Env == envProduction
}

// DSN returns the database URL with user and password escaped
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:     d.DBName,
		RawQuery: url.Values{"sslmode": {d.SSLMode}}.Encode(),
	}
	return u.String()
}
