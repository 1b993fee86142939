package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"APP_ENV", "LOG_LEVEL", "GOMARKETPLACE_STORE", "REDIS_ADDR", "HTTP_ADDR", "GOMARKETPLACE_DATA"} {
		t.Setenv(k, "")
	}
	c := Load()
	assert.Equal(t, "dev", c.AppEnv)
	assert.Equal(t, "warn", c.LogLevel)
	assert.Equal(t, "file", c.Store)
	assert.Equal(t, "localhost:6379", c.RedisAddr)
	assert.Equal(t, ":8080", c.HTTPAddr)
	assert.Empty(t, c.DataPath)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("GOMARKETPLACE_STORE", "redis")
	t.Setenv("REDIS_ADDR", "cache:6380")
	t.Setenv("REDIS_PREFIX", "dev:")

	c := Load()
	assert.Equal(t, "redis", c.Store)
	assert.Equal(t, "cache:6380", c.RedisAddr)
	assert.Equal(t, "dev:", c.RedisPfx)
}
