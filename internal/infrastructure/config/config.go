package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App         AppConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Session     SessionConfig
	Log         LogConfig
	HTTP        HTTPConfig
	Cache       CacheConfig
	Idempotency IdempotencyConfig
	Storage     StorageConfig
	Telemetry   TelemetryConfig
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
	ConnMaxIdleTime int // in minutes
	QueryTimeout    time.Duration
	MigrationsPath  string
}

// RedisConfig holds Redis connection settings.
// When disabled, sessions, idempotency keys and the product cache are kept in memory.
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
	Prefix   string
}

// Addr returns host:port
func (r *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// SessionConfig holds password gate settings
type SessionConfig struct {
	PasswordHash  string // bcrypt hash of the shared password
	Password      string // plain shared password, development only
	TokenSecret   string // HMAC key for the client cookie
	TokenIssuer   string
	CookieName    string
	CookieSecure  bool
	IdleTimeout   time.Duration
	MaxAttempts   int
	WarnFrom      int
	FirstLockout  time.Duration
	RepeatLockout time.Duration
	RecordTTL     time.Duration // how long lockout history is remembered
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout            time.Duration
	WriteTimeout           time.Duration
	IdleTimeout            time.Duration
	MaxHeaderBytes         int
	MaxBodySize            int64
	RateLimitEnabled       bool
	RateLimitRPS           float64
	RateLimitBurst         int
	LoginRateLimitRPS      float64 // stricter limit for the password endpoint
	LoginRateLimitBurst    int
	CORSAllowOrigins       []string
	CORSAllowMethods       []string
	CORSAllowHeaders       []string
	TrustedProxies         []string
	MetricsEnabled         bool
	ShutdownTimeout        time.Duration
	AdminConfirmationValue string
	DocsEnabled            bool     // Serve the Swagger UI at /swagger
	DocsRequireSession     bool     // Docs need an unlocked session
	DocsAllowedIPs         []string // IPs or CIDR ranges allowed to read the docs
}

// CacheConfig holds the product read cache settings
type CacheConfig struct {
	ProductTTL time.Duration
}

// IdempotencyConfig holds double-submit protection settings
type IdempotencyConfig struct {
	Enabled bool
	TTL     time.Duration
}

// StorageConfig holds S3-compatible object storage settings for profile images
type StorageConfig struct {
	Enabled         bool
	Driver          string // s3, or stub for local development
	Endpoint        string
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	UsePathStyle    bool
	PresignExpiry   time.Duration
	CreateBucket    bool
}

// TelemetryConfig holds OpenTelemetry configuration
type TelemetryConfig struct {
	Enabled           bool          // Whether to enable OpenTelemetry
	CollectorEndpoint string        // OTEL Collector endpoint (e.g., "localhost:4317")
	SamplingRatio     float64       // Sampling ratio (0.0-1.0, 1.0 = 100%)
	ServiceName       string        // Service name for traces
	Insecure          bool          // Use insecure (non-TLS) connection (development only)
	DBTraceEnabled    bool          // Enable database query tracing (otelgorm)
	DBLogFullSQL      bool          // Include query variables in DB spans (dev only)
	MetricsEnabled    bool          // Export metrics over OTLP
	MetricsInterval   time.Duration // OTLP metric export period
	LogsEnabled       bool          // Mirror zap logs to the collector
	Profiler          ProfilerConfig
}

// ProfilerConfig holds Pyroscope continuous profiling configuration
type ProfilerConfig struct {
	Enabled              bool     // Push profiles to Pyroscope
	ServerAddress        string   // Pyroscope server address (e.g., "http://pyroscope:4040")
	ApplicationName      string   // Application name for profiles
	BasicAuthUser        string   // Optional basic auth (Grafana Cloud)
	BasicAuthPassword    string   // Optional basic auth (Grafana Cloud)
	ProfileTypes         []string // cpu, alloc_objects, alloc_space, inuse_objects, inuse_space, goroutines, mutex_count, mutex_duration, block_count, block_duration
	MutexProfileFraction int      // runtime.SetMutexProfileFraction when mutex profiles are on
	BlockProfileRate     int      // runtime.SetBlockProfileRate when block profiles are on
	SpanProfiles         bool     // Label CPU samples with the active span (needs tracing)
}

// Load loads configuration from a .env file, a TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with RETAIL_ prefix (e.g., RETAIL_DATABASE_PASSWORD)
// 2. .env in the working directory (exported into the environment)
// 3. config.toml
// 4. Built-in defaults
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("./backend")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("RETAIL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			ConnMaxIdleTime: v.GetInt("database.conn_max_idle_time"),
			QueryTimeout:    v.GetDuration("database.query_timeout"),
			MigrationsPath:  v.GetString("database.migrations_path"),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("redis.enabled"),
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
			Prefix:   v.GetString("redis.prefix"),
		},
		Session: SessionConfig{
			PasswordHash:  v.GetString("session.password_hash"),
			Password:      v.GetString("session.password"),
			TokenSecret:   v.GetString("session.token_secret"),
			TokenIssuer:   v.GetString("session.token_issuer"),
			CookieName:    v.GetString("session.cookie_name"),
			CookieSecure:  v.GetBool("session.cookie_secure"),
			IdleTimeout:   v.GetDuration("session.idle_timeout"),
			MaxAttempts:   v.GetInt("session.max_attempts"),
			WarnFrom:      v.GetInt("session.warn_from"),
			FirstLockout:  v.GetDuration("session.first_lockout"),
			RepeatLockout: v.GetDuration("session.repeat_lockout"),
			RecordTTL:     v.GetDuration("session.record_ttl"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:            v.GetDuration("http.read_timeout"),
			WriteTimeout:           v.GetDuration("http.write_timeout"),
			IdleTimeout:            v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes:         v.GetInt("http.max_header_bytes"),
			MaxBodySize:            v.GetInt64("http.max_body_size"),
			RateLimitEnabled:       v.GetBool("http.rate_limit_enabled"),
			RateLimitRPS:           v.GetFloat64("http.rate_limit_rps"),
			RateLimitBurst:         v.GetInt("http.rate_limit_burst"),
			LoginRateLimitRPS:      v.GetFloat64("http.login_rate_limit_rps"),
			LoginRateLimitBurst:    v.GetInt("http.login_rate_limit_burst"),
			CORSAllowOrigins:       v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods:       v.GetStringSlice("http.cors_allow_methods"),
			CORSAllowHeaders:       v.GetStringSlice("http.cors_allow_headers"),
			TrustedProxies:         v.GetStringSlice("http.trusted_proxies"),
			MetricsEnabled:         v.GetBool("http.metrics_enabled"),
			ShutdownTimeout:        v.GetDuration("http.shutdown_timeout"),
			AdminConfirmationValue: v.GetString("http.admin_confirmation"),
			DocsEnabled:            v.GetBool("http.docs_enabled"),
			DocsRequireSession:     v.GetBool("http.docs_require_session"),
			DocsAllowedIPs:         v.GetStringSlice("http.docs_allowed_ips"),
		},
		Cache: CacheConfig{
			ProductTTL: v.GetDuration("cache.product_ttl"),
		},
		Idempotency: IdempotencyConfig{
			Enabled: v.GetBool("idempotency.enabled"),
			TTL:     v.GetDuration("idempotency.ttl"),
		},
		Storage: StorageConfig{
			Enabled:         v.GetBool("storage.enabled"),
			Driver:          v.GetString("storage.driver"),
			Endpoint:        v.GetString("storage.endpoint"),
			Region:          v.GetString("storage.region"),
			Bucket:          v.GetString("storage.bucket"),
			AccessKeyID:     v.GetString("storage.access_key_id"),
			SecretAccessKey: v.GetString("storage.secret_access_key"),
			UsePathStyle:    v.GetBool("storage.use_path_style"),
			PresignExpiry:   v.GetDuration("storage.presign_expiry"),
			CreateBucket:    v.GetBool("storage.create_bucket"),
		},
		Telemetry: TelemetryConfig{
			Enabled:           v.GetBool("telemetry.enabled"),
			CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
			ServiceName:       v.GetString("telemetry.service_name"),
			Insecure:          v.GetBool("telemetry.insecure"),
			DBTraceEnabled:    v.GetBool("telemetry.db_trace_enabled"),
			DBLogFullSQL:      v.GetBool("telemetry.db_log_full_sql"),
			MetricsEnabled:    v.GetBool("telemetry.metrics_enabled"),
			MetricsInterval:   v.GetDuration("telemetry.metrics_interval"),
			LogsEnabled:       v.GetBool("telemetry.logs_enabled"),
			Profiler: ProfilerConfig{
				Enabled:              v.GetBool("telemetry.profiler.enabled"),
				ServerAddress:        v.GetString("telemetry.profiler.server_address"),
				ApplicationName:      v.GetString("telemetry.profiler.application_name"),
				BasicAuthUser:        v.GetString("telemetry.profiler.basic_auth_user"),
				BasicAuthPassword:    v.GetString("telemetry.profiler.basic_auth_password"),
				ProfileTypes:         v.GetStringSlice("telemetry.profiler.profile_types"),
				MutexProfileFraction: v.GetInt("telemetry.profiler.mutex_profile_fraction"),
				BlockProfileRate:     v.GetInt("telemetry.profiler.block_profile_rate"),
				SpanProfiles:         v.GetBool("telemetry.profiler.span_profiles"),
			},
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "retail-admin"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "retail"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 60
	}
	if cfg.Database.ConnMaxIdleTime == 0 {
		cfg.Database.ConnMaxIdleTime = 30
	}
	if cfg.Database.QueryTimeout == 0 {
		cfg.Database.QueryTimeout = 10 * time.Second
	}
	if cfg.Database.MigrationsPath == "" {
		cfg.Database.MigrationsPath = "migrations"
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Redis.Prefix == "" {
		cfg.Redis.Prefix = "retail"
	}
	if cfg.Session.TokenIssuer == "" {
		cfg.Session.TokenIssuer = "retail-admin"
	}
	if cfg.Session.CookieName == "" {
		cfg.Session.CookieName = "retail_client"
	}
	if cfg.Session.IdleTimeout == 0 {
		cfg.Session.IdleTimeout = 3 * time.Minute
	}
	if cfg.Session.MaxAttempts == 0 {
		cfg.Session.MaxAttempts = 5
	}
	if cfg.Session.WarnFrom == 0 {
		cfg.Session.WarnFrom = 3
	}
	if cfg.Session.FirstLockout == 0 {
		cfg.Session.FirstLockout = 60 * time.Second
	}
	if cfg.Session.RepeatLockout == 0 {
		cfg.Session.RepeatLockout = 600 * time.Second
	}
	if cfg.Session.RecordTTL == 0 {
		cfg.Session.RecordTTL = 24 * time.Hour
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 15 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 1 << 20 // 1MB
	}
	if cfg.HTTP.RateLimitRPS == 0 {
		cfg.HTTP.RateLimitRPS = 20
	}
	if cfg.HTTP.RateLimitBurst == 0 {
		cfg.HTTP.RateLimitBurst = 40
	}
	if cfg.HTTP.LoginRateLimitRPS == 0 {
		cfg.HTTP.LoginRateLimitRPS = 1
	}
	if cfg.HTTP.LoginRateLimitBurst == 0 {
		cfg.HTTP.LoginRateLimitBurst = 5
	}
	if len(cfg.HTTP.CORSAllowMethods) == 0 {
		cfg.HTTP.CORSAllowMethods = []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"}
	}
	if len(cfg.HTTP.CORSAllowHeaders) == 0 {
		cfg.HTTP.CORSAllowHeaders = []string{"Content-Type", "X-Request-ID", "Idempotency-Key"}
	}
	if cfg.HTTP.ShutdownTimeout == 0 {
		cfg.HTTP.ShutdownTimeout = 10 * time.Second
	}
	if cfg.HTTP.AdminConfirmationValue == "" {
		cfg.HTTP.AdminConfirmationValue = "DELETE ALL"
	}
	if cfg.Cache.ProductTTL == 0 {
		cfg.Cache.ProductTTL = 5 * time.Minute
	}
	if cfg.Idempotency.TTL == 0 {
		cfg.Idempotency.TTL = 24 * time.Hour
	}
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = "s3"
	}
	if cfg.Storage.Region == "" {
		cfg.Storage.Region = "us-east-1"
	}
	if cfg.Storage.Bucket == "" {
		cfg.Storage.Bucket = "employee-profiles"
	}
	if cfg.Storage.PresignExpiry == 0 {
		cfg.Storage.PresignExpiry = 15 * time.Minute
	}
	if cfg.Telemetry.CollectorEndpoint == "" {
		cfg.Telemetry.CollectorEndpoint = "localhost:4317"
	}
	if cfg.Telemetry.SamplingRatio == 0 {
		cfg.Telemetry.SamplingRatio = 1.0
	}
	if cfg.Telemetry.MetricsInterval == 0 {
		cfg.Telemetry.MetricsInterval = 60 * time.Second
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = "retail-admin"
	}
	if cfg.Telemetry.Profiler.ServerAddress == "" {
		cfg.Telemetry.Profiler.ServerAddress = "http://localhost:4040"
	}
	if cfg.Telemetry.Profiler.ApplicationName == "" {
		cfg.Telemetry.Profiler.ApplicationName = cfg.Telemetry.ServiceName
	}
	if len(cfg.Telemetry.Profiler.ProfileTypes) == 0 {
		cfg.Telemetry.Profiler.ProfileTypes = []string{"cpu", "alloc_objects", "alloc_space", "inuse_objects", "inuse_space"}
	}
	if cfg.Telemetry.Profiler.MutexProfileFraction == 0 {
		cfg.Telemetry.Profiler.MutexProfileFraction = 5
	}
	if cfg.Telemetry.Profiler.BlockProfileRate == 0 {
		cfg.Telemetry.Profiler.BlockProfileRate = 5
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns < 0 {
		return fmt.Errorf("database.max_idle_conns cannot be negative")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}
	if c.Session.WarnFrom > c.Session.MaxAttempts {
		return fmt.Errorf("session.warn_from (%d) cannot exceed session.max_attempts (%d)",
			c.Session.WarnFrom, c.Session.MaxAttempts)
	}
	if c.Session.RepeatLockout < c.Session.FirstLockout {
		return fmt.Errorf("session.repeat_lockout cannot be shorter than session.first_lockout")
	}

	if c.App.Env == "production" {
		if c.Session.PasswordHash == "" {
			return fmt.Errorf("session.password_hash is required in production")
		}
		if c.Session.Password != "" {
			return fmt.Errorf("session.password must not be set in production, use session.password_hash")
		}
		if len(c.Session.TokenSecret) < 32 {
			return fmt.Errorf("session.token_secret must be at least 32 characters in production")
		}
		if !c.Session.CookieSecure {
			return fmt.Errorf("session.cookie_secure must be true in production")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("database.password is required in production")
		}
		if c.Database.SSLMode == "disable" {
			return fmt.Errorf("database.sslmode cannot be 'disable' in production")
		}
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
			}
		}
		if c.Storage.Enabled && c.Storage.Driver == "stub" {
			return fmt.Errorf("storage.driver 'stub' is not allowed in production")
		}
		if c.Telemetry.DBLogFullSQL {
			return fmt.Errorf("telemetry.db_log_full_sql must be false in production")
		}
	}

	if c.Storage.Driver != "s3" && c.Storage.Driver != "stub" {
		return fmt.Errorf("storage.driver must be 's3' or 'stub', got %q", c.Storage.Driver)
	}

	if c.Telemetry.SamplingRatio < 0.0 || c.Telemetry.SamplingRatio > 1.0 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}
	if c.Telemetry.Profiler.SpanProfiles && !c.Telemetry.Enabled {
		return fmt.Errorf("telemetry.profiler.span_profiles requires telemetry.enabled")
	}

	return nil
}

// IsProduction reports whether the app runs in the production environment
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// DSN returns the database connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}
