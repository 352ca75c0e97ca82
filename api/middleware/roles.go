package middleware

import (
	"net/http"

	"github.com/gentlecorp/inventory-service/api/responses"
	"github.com/gentlecorp/inventory-service/pkg/enums"
	pkgerrors "github.com/gentlecorp/inventory-service/pkg/errors"
	"github.com/gentlecorp/inventory-service/pkg/logger"
)

// RequireRole rejects requests whose authenticated role is not in allowed.
func RequireRole(logg *logger.Logger, allowed ...enums.Role) func(http.Handler) http.Handler {
	allowedSet := make(map[enums.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			role, err := enums.ParseRole(RoleFromContext(ctx))
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
				return
			}

			if _, ok := allowedSet[role]; !ok {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "role not permitted"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
