package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configEnvKeys = []string{
	"RETAIL_APP_NAME",
	"RETAIL_APP_ENV",
	"RETAIL_APP_PORT",
	"RETAIL_DATABASE_HOST",
	"RETAIL_DATABASE_PORT",
	"RETAIL_DATABASE_PASSWORD",
	"RETAIL_DATABASE_SSLMODE",
	"RETAIL_DATABASE_MAX_OPEN_CONNS",
	"RETAIL_DATABASE_MAX_IDLE_CONNS",
	"RETAIL_SESSION_PASSWORD",
	"RETAIL_SESSION_PASSWORD_HASH",
	"RETAIL_SESSION_TOKEN_SECRET",
	"RETAIL_SESSION_COOKIE_SECURE",
	"RETAIL_SESSION_IDLE_TIMEOUT",
	"RETAIL_REDIS_ENABLED",
	"RETAIL_STORAGE_DRIVER",
	"RETAIL_TELEMETRY_ENABLED",
	"RETAIL_TELEMETRY_SAMPLING_RATIO",
	"RETAIL_TELEMETRY_PROFILER_ENABLED",
	"RETAIL_TELEMETRY_PROFILER_SERVER_ADDRESS",
	"RETAIL_TELEMETRY_PROFILER_SPAN_PROFILES",
	"RETAIL_HTTP_DOCS_ENABLED",
	"RETAIL_HTTP_DOCS_REQUIRE_SESSION",
}

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, k := range configEnvKeys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearConfigEnv(t)

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "retail-admin", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "retail", cfg.Database.DBName)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.False(t, cfg.Redis.Enabled)
		assert.Equal(t, 3*time.Minute, cfg.Session.IdleTimeout)
		assert.Equal(t, 5, cfg.Session.MaxAttempts)
		assert.Equal(t, 3, cfg.Session.WarnFrom)
		assert.Equal(t, 60*time.Second, cfg.Session.FirstLockout)
		assert.Equal(t, 600*time.Second, cfg.Session.RepeatLockout)
		assert.Equal(t, "DELETE ALL", cfg.HTTP.AdminConfirmationValue)
		assert.Equal(t, "s3", cfg.Storage.Driver)
		assert.False(t, cfg.Telemetry.Profiler.Enabled)
		assert.Equal(t, "http://localhost:4040", cfg.Telemetry.Profiler.ServerAddress)
		assert.Equal(t, "retail-admin", cfg.Telemetry.Profiler.ApplicationName)
		assert.Contains(t, cfg.Telemetry.Profiler.ProfileTypes, "cpu")
		assert.False(t, cfg.HTTP.DocsEnabled)
	})

	t.Run("loads API docs settings", func(t *testing.T) {
		clearConfigEnv(t)
		t.Setenv("RETAIL_HTTP_DOCS_ENABLED", "true")
		t.Setenv("RETAIL_HTTP_DOCS_REQUIRE_SESSION", "true")

		cfg, err := Load()
		require.NoError(t, err)

		assert.True(t, cfg.HTTP.DocsEnabled)
		assert.True(t, cfg.HTTP.DocsRequireSession)
	})

	t.Run("loads nested profiler settings", func(t *testing.T) {
		clearConfigEnv(t)
		t.Setenv("RETAIL_TELEMETRY_PROFILER_ENABLED", "true")
		t.Setenv("RETAIL_TELEMETRY_PROFILER_SERVER_ADDRESS", "http://pyroscope:4040")

		cfg, err := Load()
		require.NoError(t, err)

		assert.True(t, cfg.Telemetry.Profiler.Enabled)
		assert.Equal(t, "http://pyroscope:4040", cfg.Telemetry.Profiler.ServerAddress)
	})

	t.Run("span profiles need tracing", func(t *testing.T) {
		clearConfigEnv(t)
		t.Setenv("RETAIL_TELEMETRY_ENABLED", "false")
		t.Setenv("RETAIL_TELEMETRY_PROFILER_SPAN_PROFILES", "true")

		_, err := Load()

		assert.ErrorContains(t, err, "span_profiles")
	})

	t.Run("loads values from environment variables with RETAIL prefix", func(t *testing.T) {
		clearConfigEnv(t)
		t.Setenv("RETAIL_APP_NAME", "test-app")
		t.Setenv("RETAIL_APP_PORT", "9000")
		t.Setenv("RETAIL_DATABASE_HOST", "testdb.local")
		t.Setenv("RETAIL_DATABASE_PORT", "5433")
		t.Setenv("RETAIL_REDIS_ENABLED", "true")
		t.Setenv("RETAIL_SESSION_IDLE_TIMEOUT", "5m")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.True(t, cfg.Redis.Enabled)
		assert.Equal(t, 5*time.Minute, cfg.Session.IdleTimeout)
	})

	t.Run("rejects idle pool larger than open pool", func(t *testing.T) {
		clearConfigEnv(t)
		t.Setenv("RETAIL_DATABASE_MAX_OPEN_CONNS", "5")
		t.Setenv("RETAIL_DATABASE_MAX_IDLE_CONNS", "10")

		_, err := Load()

		assert.ErrorContains(t, err, "cannot exceed database.max_open_conns")
	})

	t.Run("rejects sampling ratio above one", func(t *testing.T) {
		clearConfigEnv(t)
		t.Setenv("RETAIL_TELEMETRY_SAMPLING_RATIO", "1.5")

		_, err := Load()

		assert.ErrorContains(t, err, "sampling_ratio")
	})

	t.Run("rejects unknown storage driver", func(t *testing.T) {
		clearConfigEnv(t)
		t.Setenv("RETAIL_STORAGE_DRIVER", "gcs")

		_, err := Load()

		assert.ErrorContains(t, err, "storage.driver")
	})
}

func TestValidate_Production(t *testing.T) {
	base := func() *Config {
		cfg := &Config{App: AppConfig{Env: "production"}}
		applyDefaults(cfg)
		cfg.Session.PasswordHash = "$2a$10$abcdefghijklmnopqrstuv"
		cfg.Session.TokenSecret = "0123456789abcdef0123456789abcdef"
		cfg.Session.CookieSecure = true
		cfg.Database.Password = "secret"
		cfg.Database.SSLMode = "require"
		return cfg
	}

	t.Run("accepts a complete production config", func(t *testing.T) {
		assert.NoError(t, base().validate())
	})

	t.Run("requires a password hash", func(t *testing.T) {
		cfg := base()
		cfg.Session.PasswordHash = ""
		assert.ErrorContains(t, cfg.validate(), "session.password_hash is required")
	})

	t.Run("refuses plain password", func(t *testing.T) {
		cfg := base()
		cfg.Session.Password = "letmein"
		assert.ErrorContains(t, cfg.validate(), "session.password must not be set")
	})

	t.Run("requires long token secret", func(t *testing.T) {
		cfg := base()
		cfg.Session.TokenSecret = "short"
		assert.ErrorContains(t, cfg.validate(), "token_secret")
	})

	t.Run("refuses wildcard CORS", func(t *testing.T) {
		cfg := base()
		cfg.HTTP.CORSAllowOrigins = []string{"*"}
		assert.ErrorContains(t, cfg.validate(), "cors_allow_origins")
	})

	t.Run("refuses stub storage", func(t *testing.T) {
		cfg := base()
		cfg.Storage.Enabled = true
		cfg.Storage.Driver = "stub"
		assert.ErrorContains(t, cfg.validate(), "storage.driver 'stub'")
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{
		Host:     "db",
		Port:     5432,
		User:     "admin",
		Password: "p@ss word",
		DBName:   "retail",
		SSLMode:  "disable",
	}

	assert.Equal(t, "postgres://admin:p%40ss%20word@db:5432/retail?sslmode=disable", d.DSN())
}
