package middleware

import (
	"net/http"

	"vibewire/infrastructure/config"
	"vibewire/pkg/auth"
	"vibewire/pkg/common"
	pkgerrors "vibewire/pkg/errors"

	"go.uber.org/zap"
)

// Authenticate validates bearer tokens on the API subtree. Outside
// production a missing JWT secret falls back to an anonymous caller, so
// local development works without an identity service.
func Authenticate(cfg *config.Config, logger *zap.Logger) func(next http.Handler) http.Handler {
	if cfg.JWTSecret == "" && !cfg.IsProduction() {
		logger.Warn("JWT secret not configured, running with anonymous auth")
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				ctx := auth.WithUser(r.Context(), &auth.UserContext{UserID: "anonymous"})
				next.ServeHTTP(w, r.WithContext(ctx))
			})
		}
	}

	validator, err := auth.NewJWTValidator(cfg.JWTSecret, cfg.JWTIssuer)
	if err != nil {
		logger.Error("Failed to construct JWT validator", zap.Error(err))
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				common.RespondError(w, r, http.StatusUnauthorized,
					string(pkgerrors.ErrorTypeUnauthorized), "authentication unavailable")
			})
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := auth.ExtractBearerToken(r.Header.Get("Authorization"))
			if err != nil {
				common.RespondAppError(w, r, err)
				return
			}
			user, err := validator.Validate(token)
			if err != nil {
				common.RespondAppError(w, r, err)
				return
			}
			ctx := auth.WithUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
