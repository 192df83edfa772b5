// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"devlink/internal/app/system/auth"
)

// appConfigKeys defines the configuration keys for DevLink.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, jwt_secret, etc.
//   - Environment variables: DEVLINK_MONGO_URI, DEVLINK_JWT_SECRET, etc.
//   - Command-line flags: --mongo_uri, --jwt_secret, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "devlink", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size"},

	{Name: "jwt_secret", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Token signing secret (must be strong in production)"},
	{Name: "token_ttl", Default: "100h", Desc: "Session token lifetime (e.g., 100h, 24h, 90m)"},

	{Name: "bcrypt_cost", Default: bcrypt.DefaultCost, Desc: "bcrypt hashing cost for new passwords"},

	{Name: "github_token", Default: "", Desc: "GitHub API token for the repo proxy (optional; raises rate limits)"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, DEVLINK_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "DEVLINK", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),
		JWTSecret:        appValues.String("jwt_secret"),
		TokenTTL:         appValues.Duration("token_ttl", auth.DefaultTokenTTL),
		BcryptCost:       appValues.Int("bcrypt_cost"),
		GithubToken:      appValues.String("github_token"),
	}

	if appCfg.TokenTTL <= 0 {
		appCfg.TokenTTL = auth.DefaultTokenTTL
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// DevLink validates the MongoDB URI format and hashing cost to catch
// configuration errors early, before attempting to connect.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if appCfg.JWTSecret == "" {
		return fmt.Errorf("jwt_secret must not be empty")
	}
	if coreCfg.Env == "prod" && appCfg.JWTSecret == "dev-only-change-me-please-0123456789ABCDEF" {
		return fmt.Errorf("jwt_secret must be changed from the development default in prod")
	}

	if appCfg.BcryptCost < bcrypt.MinCost || appCfg.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("bcrypt_cost %d outside valid range [%d, %d]",
			appCfg.BcryptCost, bcrypt.MinCost, bcrypt.MaxCost)
	}

	return nil
}
