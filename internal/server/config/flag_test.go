package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{
			name: "all flags",
			args: []string{"cmd",
				"-a", "127.0.0.1:9090", "-g", ":6000", "-b", "bolt", "-d", "db", "-f", "v.db",
				"-j", "jwt", "-k", "enc", "-t", "24", "-l", "debug", "-secure-cookie",
				"-s3-user", "user", "-s3-password", "password", "-s3-bucket", "bucket",
				"-s3-region", "us-west-1", "-s3-endpoint", "http://endpoint",
			},
			expected: &Config{
				EndpointAddrHTTP:      "127.0.0.1:9090",
				EndpointAddrGRPC:      ":6000",
				StorageBackend:        "bolt",
				DatabaseDSN:           "db",
				BoltPath:              "v.db",
				JWTSecret:             "jwt",
				EncryptionKey:         "enc",
				TokenValidityDuration: 24 * time.Hour,
				CookieSecure:          true,
				LogLevel:              "debug",
				S3RootUser:            "user",
				S3RootPassword:        "password",
				S3Bucket:              "bucket",
				S3Region:              "us-west-1",
				S3BaseEndpoint:        "http://endpoint",
			},
		},
		{
			name:     "foreign flags are ignored",
			args:     []string{"cmd", "-c", "cfg.json", "-x", "1", "-j", "jwt"},
			expected: &Config{JWTSecret: "jwt"},
		},
		{
			name:        "bad int panics",
			args:        []string{"cmd", "-t", "soon"},
			expectPanic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args
			config := &Config{}

			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(config) })
				return
			}

			require.NotPanics(t, func() { parseFlags(config) })
			assert.Empty(t, cmp.Diff(tt.expected, config))
		})
	}
}
