package middlewares

import "context"

type ctxKey string

const (
	// ctxUserIDKey guarda el user ID extraído del token
	ctxUserIDKey ctxKey = "user_id"
	// ctxEmailKey guarda el email del token
	ctxEmailKey ctxKey = "email"
	// ctxRequestIDKey guarda el request ID
	ctxRequestIDKey ctxKey = "request_id"
)

// =================================================================================
// CONTEXT SETTERS
// =================================================================================

// WithUserID inyecta el user ID en el contexto
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ctxUserIDKey, userID)
}

// WithEmail inyecta el email autenticado en el contexto
func WithEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, ctxEmailKey, email)
}

func setRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxRequestIDKey, requestID)
}

// =================================================================================
// CONTEXT GETTERS
// =================================================================================

// GetUserID obtiene el user ID del contexto. "" si no hay.
func GetUserID(ctx context.Context) string {
	return ctxString(ctx, ctxUserIDKey)
}

// GetEmail obtiene el email autenticado. "" si no hay.
func GetEmail(ctx context.Context) string {
	return ctxString(ctx, ctxEmailKey)
}

// GetRequestID obtiene el request ID del contexto. "" si no hay.
func GetRequestID(ctx context.Context) string {
	return ctxString(ctx, ctxRequestIDKey)
}

func ctxString(ctx context.Context, k ctxKey) string {
	if s, ok := ctx.Value(k).(string); ok {
		return s
	}
	return ""
}
