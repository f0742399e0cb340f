package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/passvault/internal/flagx"
)

var knownFlags = []string{
	"-a", "-g", "-b", "-d", "-f", "-j", "-k", "-t", "-l", "-secure-cookie",
	"-s3-user", "-s3-password", "-s3-bucket", "-s3-region", "-s3-endpoint",
}

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-a string            HTTP bind address (e.g. ":8080")
//	-g string            gRPC health bind address, "" disables
//	-b string            storage backend: postgres, bolt, s3, memory
//	-d string            PostgreSQL DSN
//	-f string            bolt database file
//	-j string            JWT HMAC secret
//	-k string            vault encryption secret
//	-t int               session token validity, hours
//	-l string            log level
//	-secure-cookie       mark the session cookie Secure
//	-s3-user, -s3-password, -s3-bucket, -s3-region, -s3-endpoint
//
// os.Args is first reduced to these flags with flagx.FilterArgs, so -c and
// foreign flags never reach the flag set.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], knownFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "HTTP address and port")
	fs.StringVar(&config.EndpointAddrGRPC, "g", config.EndpointAddrGRPC, "gRPC health address and port")
	fs.StringVar(&config.StorageBackend, "b", config.StorageBackend, "storage backend")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.BoltPath, "f", config.BoltPath, "bolt database file")
	fs.StringVar(&config.JWTSecret, "j", config.JWTSecret, "JWT secret")
	fs.StringVar(&config.EncryptionKey, "k", config.EncryptionKey, "vault encryption secret")

	tokenValidity := fs.Int("t", int(config.TokenValidityDuration.Hours()), "token validity (in hours)")

	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.BoolVar(&config.CookieSecure, "secure-cookie", config.CookieSecure, "set Secure on the session cookie")

	fs.StringVar(&config.S3RootUser, "s3-user", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "s3-password", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "s3-bucket", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "s3-region", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "s3-endpoint", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	if *tokenValidity > 0 {
		config.TokenValidityDuration = time.Duration(*tokenValidity) * time.Hour
	}
}
