// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (ports, TLS,
// logging level, CORS). AppConfig is everything specific to DevLink:
// database connection, token signing, and the GitHub proxy.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Token configuration
	JWTSecret string        // HMAC signing secret (must be strong in production)
	TokenTTL  time.Duration // Session token lifetime

	// Password hashing
	BcryptCost int

	// GitHub proxy: optional token raises the API rate limit.
	GithubToken string
}
