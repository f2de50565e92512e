package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "PhotoDish", cfg.App.Name)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, int64(16<<20), cfg.Server.MaxBodyBytes)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "openai", cfg.AI.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.AI.OpenAIModel)
	assert.Equal(t, "photodish", cfg.Auth.Issuer)
	assert.Equal(t, "2h0m0s", cfg.Session.TTL.String())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PHOTODISH_SERVER_PORT", "9090")
	t.Setenv("PHOTODISH_AI_PROVIDER", "mock")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "mock", cfg.AI.Provider)
}

func TestLoadCredentialsFromEnvironment(t *testing.T) {
	// Credential keys have no file-based value in an env-only deployment;
	// they must still resolve through the PHOTODISH_ prefix.
	t.Setenv("PHOTODISH_AI_OPENAI_KEY", "sk-env")
	t.Setenv("PHOTODISH_AUTH_JWT_SECRET", "env-secret")
	t.Setenv("PHOTODISH_STORAGE_BUCKET", "env-bucket")
	t.Setenv("PHOTODISH_REDIS_HOST", "redis.internal")
	t.Setenv("PHOTODISH_DATABASE_PASSWORD", "env-db-pass")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "sk-env", cfg.AI.OpenAIKey)
	assert.Equal(t, "env-db-pass", cfg.Database.Password)
	assert.True(t, cfg.AIConfigured())
	assert.True(t, cfg.AuthConfigured())
	assert.True(t, cfg.StorageConfigured())
	assert.True(t, cfg.RedisConfigured())
}

func TestValidate(t *testing.T) {
	t.Run("InvalidPort", func(t *testing.T) {
		cfg := &Config{}
		cfg.App.Name = "PhotoDish"
		cfg.Server.Port = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("ProductionRequiresJWTSecret", func(t *testing.T) {
		cfg := &Config{}
		cfg.App.Name = "PhotoDish"
		cfg.App.Environment = "production"
		cfg.Server.Port = 8080
		assert.Error(t, cfg.Validate())

		cfg.Auth.JWTSecret = "secret"
		assert.NoError(t, cfg.Validate())
	})
}

func TestFeatureFlags(t *testing.T) {
	cfg := &Config{}

	assert.False(t, cfg.AIConfigured())
	assert.False(t, cfg.StorageConfigured())
	assert.False(t, cfg.AuthConfigured())
	assert.False(t, cfg.RedisConfigured())

	cfg.AI.OpenAIKey = "sk-test"
	cfg.Storage.Bucket = "photos"
	cfg.Auth.JWTSecret = "secret"
	cfg.Redis.Host = "localhost"

	assert.True(t, cfg.AIConfigured())
	assert.True(t, cfg.StorageConfigured())
	assert.True(t, cfg.AuthConfigured())
	assert.True(t, cfg.RedisConfigured())

	// The mock provider needs no key.
	mockCfg := &Config{}
	mockCfg.AI.Provider = "mock"
	assert.True(t, mockCfg.AIConfigured())
}

func TestGetDSN(t *testing.T) {
	cfg := &Config{}
	cfg.Database = DatabaseConfig{
		Host:     "db.internal",
		Port:     5432,
		Username: "photodish",
		Password: "hunter2",
		Database: "photodish",
		SSLMode:  "require",
	}

	dsn := cfg.GetDSN()
	assert.Contains(t, dsn, "host=db.internal")
	assert.Contains(t, dsn, "dbname=photodish")
	assert.Contains(t, dsn, "sslmode=require")
}
