package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	assert.Equal(t, "blindscommerce-backend", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, 5*time.Second, cfg.Tax.ExternalTimeout)
	assert.Equal(t, 5*time.Minute, cfg.Tax.SettingsCacheTTL)
	assert.Equal(t, "78701", cfg.Tax.OriginZip)
	assert.Equal(t, "TX", cfg.Tax.OriginState)
	assert.Empty(t, cfg.HTTP.CORSAllowOrigins)
}

func TestValidateProduction(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)
	cfg.App.Env = "production"

	// Default sslmode=disable and empty password both fail in production.
	assert.Error(t, cfg.validate())

	cfg.Database.Password = "secret"
	cfg.Database.SSLMode = "require"
	require.NoError(t, cfg.validate())

	cfg.HTTP.CORSAllowOrigins = []string{"*"}
	assert.Error(t, cfg.validate())
}

func TestValidatePoolBounds(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)
	cfg.Database.MaxIdleConns = cfg.Database.MaxOpenConns + 1

	assert.Error(t, cfg.validate())
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{
		Host:     "db.internal",
		Port:     5432,
		User:     "app",
		Password: "p@ss/word",
		DBName:   "blindscommerce",
		SSLMode:  "require",
	}

	dsn := d.DSN()
	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "db.internal:5432")
	assert.Contains(t, dsn, "sslmode=require")
	assert.NotContains(t, dsn, "p@ss/word", "password must be escaped")
}
