// Package authctx expone el contexto de autenticación del request actual:
// token bearer, session id y user id. Lo llena el middleware de auth y lo
// consumen handlers y services.
package authctx

import "context"

// Identity es la identidad autenticada de un request.
type Identity struct {
	Token     string
	SessionID string
	UserID    string
}

type ctxKey struct{}

// ToContext inyecta la identidad en el contexto.
func ToContext(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// From extrae la identidad del contexto. ok es false si el request no pasó
// por el middleware de auth.
func From(ctx context.Context) (Identity, bool) {
	v, ok := ctx.Value(ctxKey{}).(Identity)
	return v, ok
}

// UserID es un shortcut para la identidad del contexto.
func UserID(ctx context.Context) string {
	id, _ := From(ctx)
	return id.UserID
}

// SessionID es un shortcut para la identidad del contexto.
func SessionID(ctx context.Context) string {
	id, _ := From(ctx)
	return id.SessionID
}
