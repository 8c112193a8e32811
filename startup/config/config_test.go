package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewConfigDefaults(t *testing.T) {
	for _, key := range []string{"PROFILE_SERVICE_PORT", "PROFILE_DB_HOST", "PROFILE_CACHE_HOST", "IDENTITY_PROVIDERS", "EDITOR_LOAD_WAIT"} {
		t.Setenv(key, "")
	}
	cfg := NewConfig()

	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, "27017", cfg.ProfileDBPort)
	assert.Equal(t, 5*time.Minute, cfg.ProfileCacheTTL)
	assert.Equal(t, 1024, cfg.EditorSessionLimit)
	assert.Equal(t, 5*time.Second, cfg.StoreTimeout)
	assert.Equal(t, "./rbac_model.conf", cfg.RBACModel)
	assert.True(t, cfg.UseMemoryStore())
	assert.False(t, cfg.UseRedis())
}

func TestNewConfigFromEnvironment(t *testing.T) {
	t.Setenv("PROFILE_SERVICE_PORT", "9100")
	t.Setenv("PROFILE_DB_HOST", "profile_db")
	t.Setenv("PROFILE_CACHE_HOST", "profile_cache")
	t.Setenv("PROFILE_CACHE_TTL", "90s")
	t.Setenv("IDENTITY_PROVIDERS", "google, github ,")
	t.Setenv("EDITOR_SESSION_LIMIT", "16")
	t.Setenv("EDITOR_LOAD_WAIT", "250ms")

	cfg := NewConfig()
	assert.Equal(t, "9100", cfg.Port)
	assert.Equal(t, "profile_db", cfg.ProfileDBHost)
	assert.Equal(t, 90*time.Second, cfg.ProfileCacheTTL)
	assert.Equal(t, []string{"google", "github"}, cfg.IdentityProviders)
	assert.Equal(t, 16, cfg.EditorSessionLimit)
	assert.Equal(t, 250*time.Millisecond, cfg.EditorLoadWait)
	assert.False(t, cfg.UseMemoryStore())
	assert.True(t, cfg.UseRedis())
}
