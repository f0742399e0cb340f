package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/passvault/internal/flagx"
	"github.com/dmitrijs2005/passvault/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Durations use
// timex.Duration so both "168h" and integer nanoseconds are accepted. Empty
// values leave the current setting untouched.
type JsonConfig struct {
	EndpointAddrHTTP      string         `json:"endpoint_addr_http"`
	EndpointAddrGRPC      string         `json:"endpoint_addr_grpc"`
	StorageBackend        string         `json:"storage_backend"`
	DatabaseDSN           string         `json:"database_dsn"`
	BoltPath              string         `json:"bolt_path"`
	JWTSecret             string         `json:"jwt_secret"`
	EncryptionKey         string         `json:"encryption_key"`
	TokenValidityDuration timex.Duration `json:"token_validity_duration"`
	CookieSecure          *bool          `json:"cookie_secure"`
	LogLevel              string         `json:"log_level"`
	S3RootUser            string         `json:"s3_root_user"`
	S3RootPassword        string         `json:"s3_root_password"`
	S3Bucket              string         `json:"s3_bucket"`
	S3Region              string         `json:"s3_region"`
	S3BaseEndpoint        string         `json:"s3_base_endpoint"`
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// parseJson loads the file named by -c/-config, if any, into config.
// An unreadable file or invalid JSON panics: the server must not start with
// a half-applied configuration.
func parseJson(config *Config) {
	path := flagx.ConfigPath(os.Args[1:])
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.StorageBackend, c.StorageBackend)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.BoltPath, c.BoltPath)
	setString(&config.JWTSecret, c.JWTSecret)
	setString(&config.EncryptionKey, c.EncryptionKey)
	if c.TokenValidityDuration.Duration > 0 {
		config.TokenValidityDuration = c.TokenValidityDuration.Duration
	}
	if c.CookieSecure != nil {
		config.CookieSecure = *c.CookieSecure
	}
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
}
