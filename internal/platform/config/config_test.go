package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 70, cfg.Capacity)
	assert.Equal(t, BackendMemory, cfg.StoreBackend)
	assert.Equal(t, "ai-workshop", cfg.MongoDatabase)
	assert.Equal(t, 10, cfg.RegisterRateLimit)
}

func TestLoadValidation(t *testing.T) {
	t.Run("mongo backend requires uri", func(t *testing.T) {
		t.Setenv("STORE_BACKEND", "mongo")
		_, err := Load()
		require.ErrorContains(t, err, "MONGODB_URI")
	})

	t.Run("postgres backend requires dsn", func(t *testing.T) {
		t.Setenv("STORE_BACKEND", "postgres")
		_, err := Load()
		require.ErrorContains(t, err, "POSTGRES_DSN")
	})

	t.Run("unknown backend rejected", func(t *testing.T) {
		t.Setenv("STORE_BACKEND", "dynamo")
		_, err := Load()
		require.ErrorContains(t, err, "unknown STORE_BACKEND")
	})

	t.Run("zero capacity rejected", func(t *testing.T) {
		t.Setenv("WORKSHOP_CAPACITY", "0")
		_, err := Load()
		require.ErrorContains(t, err, "WORKSHOP_CAPACITY")
	})

	t.Run("api key without sender rejected", func(t *testing.T) {
		t.Setenv("BREVO_API_KEY", "key")
		_, err := Load()
		require.ErrorContains(t, err, "BREVO_FROM_EMAIL")
	})

	t.Run("full mongo config accepted", func(t *testing.T) {
		t.Setenv("STORE_BACKEND", "mongo")
		t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
		t.Setenv("WORKSHOP_CAPACITY", "2")
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 2, cfg.Capacity)
		assert.Equal(t, BackendMongo, cfg.StoreBackend)
	})
}
