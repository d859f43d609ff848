package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_FromFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "DB_NAME=campus\n" +
		"DB_USER=scheduler\n" +
		"IMPORT_LOCK_TTL=30s\n" +
		"BOOKING_STRICT_WEEKDAY_FILTER=true\n" +
		"CORS_ALLOWED_ORIGINS=http://a.test, http://b.test\n" +
		"PORT=8081\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("PORT", "9090")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "campus", cfg.Database.Name)
	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, 30*time.Second, cfg.Import.LockTTL)
	assert.True(t, cfg.Booking.StrictWeekdayFilter)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "pgx5://scheduler:@localhost:5432/campus?sslmode=disable", cfg.Database.MigrateURL())
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "local", cfg.Storage.Driver)
	assert.Equal(t, int64(1000000), cfg.Import.MaxUploadBytes)
	assert.Equal(t, int64(1000), cfg.Import.MinUploadBytes)
	assert.Equal(t, 8, cfg.Booking.MaxConcurrentChecks)
	assert.Equal(t, "Learning", cfg.Import.ActivityName)
	assert.Equal(t, 2*time.Minute, cfg.Import.LockTTL)
	assert.False(t, cfg.Redis.Enabled)
}

func TestAppConfig_Location(t *testing.T) {
	loc, err := AppConfig{Timezone: "Africa/Kigali"}.Location()
	require.NoError(t, err)
	assert.Equal(t, "Africa/Kigali", loc.String())

	loc, err = AppConfig{}.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)

	_, err = AppConfig{Timezone: "Mars/Olympus"}.Location()
	assert.Error(t, err)
}
