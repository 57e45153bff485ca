package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_JWTConfig(t *testing.T) {
	// Setup environment variables
	os.Setenv("JWT_SECRET", "test-secret")
	os.Setenv("JWT_TTL", "2h")
	defer func() {
		os.Unsetenv("JWT_SECRET")
		os.Unsetenv("JWT_TTL")
	}()

	cfg, err := Load()
	assert.NoError(t, err)

	assert.Equal(t, "test-secret", cfg.JWT.Secret)
	assert.Equal(t, 2*time.Hour, cfg.JWT.TTL)
}

func TestLoad_Defaults(t *testing.T) {
	// Ensure env vars are cleared
	os.Unsetenv("JWT_SECRET")
	os.Unsetenv("JWT_TTL")
	os.Unsetenv("SUBSCRIPTION_EXPIRY_INTERVAL")

	cfg, err := Load()
	assert.NoError(t, err)

	assert.Equal(t, "dev-secret-do-not-use", cfg.JWT.Secret)
	assert.Equal(t, 24*time.Hour, cfg.JWT.TTL)
	assert.Equal(t, time.Hour, cfg.Jobs.SubscriptionExpiryInterval)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "fit_booking", cfg.Database.Database)
}

func TestDatabaseDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "db",
		Port:     5433,
		User:     "app",
		Password: "pw",
		Database: "fit_booking",
		SSLMode:  "disable",
	}

	assert.Equal(t, "host=db port=5433 user=app password=pw dbname=fit_booking sslmode=disable", cfg.DatabaseDSN())
}
