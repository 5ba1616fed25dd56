package services

import (
	"context"
	"testing"
	"time"

	"github.com/centros-finder/app/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRouteCache_Memory(t *testing.T) {
	cache, err := NewRouteCache(context.Background(), config.CacheConfig{Backend: "memory", TTL: time.Hour}, "", nil, testLogger())
	require.NoError(t, err)
	assert.IsType(t, &CacheService{}, cache)
}

func TestNewRouteCache_Unknown(t *testing.T) {
	_, err := NewRouteCache(context.Background(), config.CacheConfig{Backend: "memcached"}, "", nil, testLogger())
	assert.ErrorContains(t, err, "memcached")
}
