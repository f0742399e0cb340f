package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "jwt")
	t.Setenv("ENCRYPTION_KEY", "enc")
	t.Setenv("STORAGE_BACKEND", "bolt")
	t.Setenv("BOLT_PATH", "/tmp/v.db")
	t.Setenv("TOKEN_VALIDITY", "48h")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("S3_BUCKET", "b")

	var c Config
	c.LoadDefaults()
	parseEnv(&c)

	assert.Equal(t, "jwt", c.JWTSecret)
	assert.Equal(t, "enc", c.EncryptionKey)
	assert.Equal(t, BackendBolt, c.StorageBackend)
	assert.Equal(t, "/tmp/v.db", c.BoltPath)
	assert.Equal(t, 48*time.Hour, c.TokenValidityDuration)
	assert.True(t, c.CookieSecure)
	assert.Equal(t, "b", c.S3Bucket)
}

func TestParseEnv_EmptyAndInvalidValuesIgnored(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("TOKEN_VALIDITY", "forever")
	t.Setenv("COOKIE_SECURE", "maybe")

	var c Config
	c.LoadDefaults()
	parseEnv(&c)

	assert.Equal(t, DefaultJWTSecret, c.JWTSecret)
	assert.Equal(t, 7*24*time.Hour, c.TokenValidityDuration)
	assert.False(t, c.CookieSecure)
}
