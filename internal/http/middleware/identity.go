package middleware

import (
	"context"
	"docregistry/internal/models"
	"docregistry/internal/utils/httperrors"
	"log/slog"
	"net/http"
)

const pkg = "middleware/"

// IdentityHeader names the already-authenticated caller. The registry trusts
// the fronting authenticator and never verifies the value itself.
const IdentityHeader = "X-Registry-Identity"

// Identity extracts the caller identity into the request context. Requests
// without one are rejected; use this only on routes that mutate state, since
// metadata reads are unrestricted.
func Identity(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			op := pkg + "Identity"

			log := log.With(slog.String("op", op))

			identity := r.Header.Get(IdentityHeader)
			if identity == "" {
				log.Warn("request without caller identity", slog.String("path", r.URL.Path))
				httperrors.WriteJSONError(w, http.StatusForbidden, models.ErrNotAuthorized.Error())
				return
			}

			ctx := context.WithValue(r.Context(), models.IdentityContextKey, identity)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CallerIdentity reads the identity placed by the Identity middleware.
func CallerIdentity(ctx context.Context) string {
	identity, _ := ctx.Value(models.IdentityContextKey).(string)
	return identity
}
