package auth

import (
	"context"
	"net/http"
)

// SessionVerifier verifica un token de sesión y devuelve claims o error.
type SessionVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}

// SessionManager abre y cierra sesiones sobre la respuesta HTTP.
type SessionManager interface {
	SessionVerifier
	Start(w http.ResponseWriter, c Claims) error
	End(w http.ResponseWriter)
}
