package config

import (
	"os"
	"strconv"
	"time"
)

// parseEnv overlays values from the environment. JWT_SECRET and
// ENCRYPTION_KEY are the names earlier deployments already use.
func parseEnv(config *Config) {
	strVars := map[string]*string{
		"HTTP_ADDRESS":     &config.EndpointAddrHTTP,
		"GRPC_ADDRESS":     &config.EndpointAddrGRPC,
		"STORAGE_BACKEND":  &config.StorageBackend,
		"DATABASE_DSN":     &config.DatabaseDSN,
		"BOLT_PATH":        &config.BoltPath,
		"JWT_SECRET":       &config.JWTSecret,
		"ENCRYPTION_KEY":   &config.EncryptionKey,
		"LOG_LEVEL":        &config.LogLevel,
		"S3_ROOT_USER":     &config.S3RootUser,
		"S3_ROOT_PASSWORD": &config.S3RootPassword,
		"S3_BUCKET":        &config.S3Bucket,
		"S3_REGION":        &config.S3Region,
		"S3_BASE_ENDPOINT": &config.S3BaseEndpoint,
	}
	for name, dst := range strVars {
		if v, ok := os.LookupEnv(name); ok && v != "" {
			*dst = v
		}
	}

	if v, ok := os.LookupEnv("TOKEN_VALIDITY"); ok {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			config.TokenValidityDuration = d
		}
	}
	if v, ok := os.LookupEnv("COOKIE_SECURE"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			config.CookieSecure = b
		}
	}
}
