// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	accountsfeature "devlink/internal/app/features/accounts"
	healthfeature "devlink/internal/app/features/health"
	postsfeature "devlink/internal/app/features/posts"
	profilesfeature "devlink/internal/app/features/profiles"
	sessionfeature "devlink/internal/app/features/session"
	"devlink/internal/app/system/auth"
	"devlink/internal/app/system/githubrepos"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup,
// and any Startup hooks have completed. DevLink mounts the JSON API
// under /api plus a health endpoint; there is no template engine or
// session layer, authentication is a stateless token on each request.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	tokens, err := auth.NewTokenManager(appCfg.JWTSecret, appCfg.TokenTTL)
	if err != nil {
		logger.Error("token manager init failed", zap.Error(err))
		return nil, err
	}

	github := githubrepos.New(appCfg.GithubToken, logger)
	db := deps.MongoDatabase

	r := chi.NewRouter()

	r.Mount("/api/users", accountsfeature.Routes(
		accountsfeature.NewHandler(db, tokens, appCfg.BcryptCost, logger)))
	r.Mount("/api/auth", sessionfeature.Routes(
		sessionfeature.NewHandler(db, tokens, logger)))
	r.Mount("/api/profile", profilesfeature.Routes(
		profilesfeature.NewHandler(db, tokens, github, logger)))
	r.Mount("/api/posts", postsfeature.Routes(
		postsfeature.NewHandler(db, tokens, logger)))

	r.Mount("/health", healthfeature.Routes(
		healthfeature.NewHandler(deps.MongoClient, logger)))

	logger.Info("routes mounted")
	return r, nil
}
