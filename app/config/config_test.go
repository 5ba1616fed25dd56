package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	s, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", s.App.Port)
	assert.Equal(t, "CentrosAndalucia", s.Mongo.Collection)
	assert.Equal(t, "memory", s.Cache.Backend)
	assert.Equal(t, 168*time.Hour, s.Cache.TTL)
	assert.Equal(t, 8, s.Ranking.Workers)
	assert.Equal(t, 10*time.Second, s.Ranking.LookupTimeout)
	assert.Equal(t, "es", s.Maps.Language)
	assert.False(t, s.IsProduction())
	assert.Equal(t, *s, C)
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := `
app:
  env: production
cache:
  backend: hybrid
ranking:
  workers: 3
  timeout: 5s
datasets:
  base: /srv/centros.csv
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.yaml"), []byte(yaml), 0o644))

	t.Setenv("GOOGLE_MAPS_API_KEY", "AIza-from-env")
	t.Setenv("MONGO_URL", "mongodb://mongo:27017")
	t.Setenv("RANKING_WORKERS", "4")

	s, err := Load(dir)
	require.NoError(t, err)

	assert.True(t, s.IsProduction())
	assert.Equal(t, "hybrid", s.Cache.Backend)
	assert.Equal(t, 4, s.Ranking.Workers)
	assert.Equal(t, 5*time.Second, s.Ranking.Timeout)
	assert.Equal(t, "/srv/centros.csv", s.Datasets.Base)
	assert.Equal(t, "AIza-from-env", s.Maps.APIKey)
	assert.Equal(t, "mongodb://mongo:27017", s.Mongo.URL)
}

func TestLoad_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.yaml"), []byte("app: [unclosed"), 0o644))

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	for _, env := range []string{"production", "development"} {
		logger, err := NewLogger(env)
		require.NoError(t, err)
		assert.NotNil(t, logger)
	}
}
