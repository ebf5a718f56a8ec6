package middlewares

import (
	"net/http"
	"strings"

	"github.com/dropDatabas3/hellomail/internal/http/errors"
	"github.com/dropDatabas3/hellomail/internal/jwt"
	"github.com/dropDatabas3/hellomail/internal/observability/logger"
)

// =================================================================================
// AUTHENTICATION
// =================================================================================

// RequireAuth valida Authorization: Bearer <JWT> y guarda id y email en el contexto.
// Sin header responde TOKEN_MISSING; otro esquema, firma mala o token vencido
// responden 401. Sin secreto configurado responde 500.
func RequireAuth(issuer *jwt.Issuer) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ah := strings.TrimSpace(r.Header.Get("Authorization"))
			if ah == "" {
				w.Header().Set("WWW-Authenticate", `Bearer realm="api"`)
				errors.WriteError(w, errors.ErrTokenMissing)
				return
			}
			if len(ah) < len("Bearer ") || !strings.EqualFold(ah[:len("Bearer ")], "bearer ") {
				w.Header().Set("WWW-Authenticate", `Bearer realm="api", error="invalid_token"`)
				errors.WriteError(w, errors.ErrTokenInvalid.WithDetail("authorization scheme must be Bearer"))
				return
			}
			raw := strings.TrimSpace(ah[len("Bearer "):])

			if issuer == nil {
				errors.WriteError(w, errors.ErrAuthNotConfigured)
				return
			}
			claims, err := issuer.Parse(raw)
			if err != nil {
				logger.From(r.Context()).Debug("token rejected", logger.Op("RequireAuth"), logger.Err(err))
				w.Header().Set("WWW-Authenticate", `Bearer realm="api", error="invalid_token"`)
				errors.WriteError(w, err)
				return
			}

			ctx := WithUserID(r.Context(), claims.ID)
			ctx = WithEmail(ctx, claims.Email)
			ctx = logger.ToContext(ctx, logger.From(ctx).With(logger.UserID(claims.ID)))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
