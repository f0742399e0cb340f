package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	path := writeTempJSON(t, dir, "cfg.json", map[string]any{
		"endpoint_addr_http":      "www.example:9000",
		"storage_backend":         "s3",
		"database_dsn":            "vault.db",
		"jwt_secret":              "my_jwt",
		"encryption_key":          "my_key",
		"token_validity_duration": "24h",
		"cookie_secure":           true,
		"s3_bucket":               "bucket",
		"s3_base_endpoint":        "base_endpoint",
	})

	t.Run("loads from json", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", path}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg)

		assert.Equal(t, "www.example:9000", cfg.EndpointAddrHTTP)
		assert.Equal(t, ":50051", cfg.EndpointAddrGRPC, "missing keys keep current value")
		assert.Equal(t, BackendS3, cfg.StorageBackend)
		assert.Equal(t, "vault.db", cfg.DatabaseDSN)
		assert.Equal(t, "my_jwt", cfg.JWTSecret)
		assert.Equal(t, "my_key", cfg.EncryptionKey)
		assert.Equal(t, 24*time.Hour, cfg.TokenValidityDuration)
		assert.True(t, cfg.CookieSecure)
		assert.Equal(t, "bucket", cfg.S3Bucket)
		assert.Equal(t, "base_endpoint", cfg.S3BaseEndpoint)
	})

	t.Run("no config flag leaves config untouched", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{JWTSecret: "key", BoltPath: "x.db"}
		parseJson(cfg)

		assert.Equal(t, &Config{JWTSecret: "key", BoltPath: "x.db"}, cfg)
	})

	t.Run("invalid JSON panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))
		os.Args = []string{"testbin", "-c", bad}

		require.Panics(t, func() { parseJson(&Config{}) })
	})

	t.Run("missing file panics", func(t *testing.T) {
		os.Args = []string{"testbin", "-c", filepath.Join(dir, "nope.json")}

		require.Panics(t, func() { parseJson(&Config{}) })
	})
}
