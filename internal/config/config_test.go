package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
[server]
http_port = 8085

[database]
host = "db"
user = "booking"
password = "secret"
dbname = "houserent"

[logs]
level = "debug"

[auth]
jwt_secret = "file-secret"

[property_service]
url = "http://property-service:8080"
timeout = 3
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_FileAndDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, 8085, cfg.Server.HTTPPort)
	assert.Equal(t, "db", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "debug", cfg.Logs.Level)
	assert.Equal(t, 3, cfg.PropertyService.Timeout)
	assert.Equal(t, "bookings", cfg.RabbitMQ.Exchange)
	assert.False(t, cfg.Scheduler.CompleteStaysEnabled)
	assert.Equal(t, 3, cfg.Booking.SerializableRetries)
	assert.Equal(t, "host=db port=5432 user=booking password=secret dbname=houserent sslmode=disable", cfg.Database.DSN())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("BOOKING_JWT_SECRET", "env-secret")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("BOOKING_COMPLETE_STAYS_ENABLED", "true")

	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "env-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.True(t, cfg.Scheduler.CompleteStaysEnabled)
}

func TestLoad_BadEnvValue(t *testing.T) {
	t.Setenv("DB_PORT", "five")

	_, err := Load(writeConfig(t, sampleConfig))
	assert.ErrorContains(t, err, "DB_PORT")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "auth.jwt_secret")
	assert.Contains(t, err.Error(), "property_service.url")

	cfg.Database.User = "u"
	cfg.Database.DBName = "d"
	cfg.Auth.JWTSecret = "s"
	cfg.PropertyService.URL = "http://p"
	require.NoError(t, cfg.Validate())

	cfg.RabbitMQ.Enabled = true
	assert.ErrorContains(t, cfg.Validate(), "rabbitmq.url")
}
