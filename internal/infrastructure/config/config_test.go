package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "bergizi-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "Asia/Jakarta", cfg.App.Timezone)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "bergizi", cfg.Database.DBName)
		assert.Equal(t, "disable", cfg.Database.SSLMode)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)
	})

	t.Run("applies realtime defaults", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)

		assert.True(t, cfg.Realtime.Enabled)
		assert.True(t, cfg.Redis.Enabled)
		assert.Equal(t, "bergizi", cfg.Realtime.ChannelPrefix)
		assert.Equal(t, []string{"bergizi:*"}, cfg.Realtime.Patterns)
		assert.Equal(t, 30*time.Second, cfg.Realtime.HeartbeatInterval)
		assert.Equal(t, time.Second, cfg.Realtime.InitialBackoff)
		assert.Equal(t, 30*time.Second, cfg.Realtime.MaxBackoff)
		assert.Equal(t, 100, cfg.Realtime.HistorySize)
		assert.Equal(t, 24*time.Hour, cfg.Realtime.HistoryTTL)
		assert.Equal(t, "07:00", cfg.Attendance.ShiftStart)
		assert.Equal(t, 15*time.Minute, cfg.Attendance.GracePeriod)
	})

	t.Run("loads values from environment variables with BERGIZI prefix", func(t *testing.T) {
		t.Setenv("BERGIZI_APP_NAME", "test-app")
		t.Setenv("BERGIZI_APP_PORT", "9000")
		t.Setenv("BERGIZI_DATABASE_HOST", "testdb.local")
		t.Setenv("BERGIZI_DATABASE_PORT", "5433")
		t.Setenv("BERGIZI_DATABASE_MAX_OPEN_CONNS", "50")
		t.Setenv("BERGIZI_DATABASE_MAX_IDLE_CONNS", "10")
		t.Setenv("BERGIZI_REALTIME_CHANNEL_PREFIX", "sppg")
		t.Setenv("BERGIZI_REALTIME_MAX_BACKOFF", "1m")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, 50, cfg.Database.MaxOpenConns)
		assert.Equal(t, 10, cfg.Database.MaxIdleConns)
		assert.Equal(t, "sppg", cfg.Realtime.ChannelPrefix)
		assert.Equal(t, []string{"sppg:*"}, cfg.Realtime.Patterns)
		assert.Equal(t, time.Minute, cfg.Realtime.MaxBackoff)
	})

	t.Run("realtime can be disabled", func(t *testing.T) {
		t.Setenv("BERGIZI_REALTIME_ENABLED", "false")

		cfg, err := Load()
		require.NoError(t, err)
		assert.False(t, cfg.Realtime.Enabled)
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{}
		applyDefaults(cfg)
		return cfg
	}

	t.Run("defaults are valid", func(t *testing.T) {
		assert.NoError(t, valid().validate())
	})

	t.Run("idle conns cannot exceed open conns", func(t *testing.T) {
		cfg := valid()
		cfg.Database.MaxIdleConns = cfg.Database.MaxOpenConns + 1
		assert.Error(t, cfg.validate())
	})

	t.Run("max backoff must not be below initial backoff", func(t *testing.T) {
		cfg := valid()
		cfg.Realtime.InitialBackoff = 10 * time.Second
		cfg.Realtime.MaxBackoff = time.Second
		assert.Error(t, cfg.validate())
	})

	t.Run("realtime needs redis", func(t *testing.T) {
		cfg := valid()
		cfg.Realtime.Enabled = true
		assert.Error(t, cfg.validate())

		cfg.Redis.Enabled = true
		assert.NoError(t, cfg.validate())
	})

	t.Run("shift start must be HH:MM", func(t *testing.T) {
		cfg := valid()
		cfg.Attendance.ShiftStart = "7am"
		assert.Error(t, cfg.validate())
	})

	t.Run("production requires a strong jwt secret", func(t *testing.T) {
		cfg := valid()
		cfg.App.Env = "production"
		cfg.Database.Password = "secret"
		cfg.Database.SSLMode = "require"
		cfg.JWT.Secret = "short"
		assert.Error(t, cfg.validate())

		cfg.JWT.Secret = "0123456789abcdef0123456789abcdef"
		assert.NoError(t, cfg.validate())
	})

	t.Run("production rejects disabled sslmode", func(t *testing.T) {
		cfg := valid()
		cfg.App.Env = "production"
		cfg.Database.Password = "secret"
		cfg.JWT.Secret = "0123456789abcdef0123456789abcdef"
		assert.Error(t, cfg.validate())
	})

	t.Run("sampling ratio must be within bounds", func(t *testing.T) {
		cfg := valid()
		cfg.Telemetry.SamplingRatio = 1.5
		assert.Error(t, cfg.validate())
	})
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{
		Host:     "db",
		Port:     5432,
		User:     "sppg",
		Password: "p@ss word",
		DBName:   "bergizi",
		SSLMode:  "disable",
	}
	assert.Equal(t, "postgres://sppg:p%40ss%20word@db:5432/bergizi?sslmode=disable", d.DSN())
}

func TestShiftOffset(t *testing.T) {
	assert.Equal(t, 7*time.Hour+30*time.Minute, AttendanceConfig{ShiftStart: "07:30"}.ShiftOffset())
	assert.Equal(t, 6*time.Hour, AttendanceConfig{ShiftStart: "06:00"}.ShiftOffset())
	assert.Equal(t, 7*time.Hour, AttendanceConfig{ShiftStart: "seven"}.ShiftOffset())
}
