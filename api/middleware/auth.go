package middleware

import (
	"net/http"
	"strings"

	"github.com/gentlecorp/inventory-service/api/responses"
	"github.com/gentlecorp/inventory-service/pkg/auth"
	"github.com/gentlecorp/inventory-service/pkg/config"
	pkgerrors "github.com/gentlecorp/inventory-service/pkg/errors"
	"github.com/gentlecorp/inventory-service/pkg/logger"
)

// Auth validates the bearer token and hydrates the request context with
// the caller's identity.
func Auth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			header := r.Header.Get("Authorization")
			if header == "" {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing authorization header"))
				return
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "malformed authorization header"))
				return
			}

			token := strings.TrimSpace(parts[1])
			claims, err := auth.ParseAccessToken(cfg, token)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			ctx = WithBearerToken(ctx, token)
			ctx = WithUserID(ctx, claims.UserID.String())
			ctx = WithUsername(ctx, claims.Username)
			ctx = WithRole(ctx, claims.Role.String())

			if logg != nil {
				ctx = logg.WithFields(ctx, map[string]any{
					"user_id":    claims.UserID.String(),
					"username":   claims.Username,
					"actor_role": claims.Role.String(),
				})
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
