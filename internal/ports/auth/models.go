package auth

// Claims representa la sesión del usuario logueado.
type Claims struct {
	UserID   string
	Username string
}

// SessionCookieName es la cookie donde viaja el token de sesión.
const SessionCookieName = "pets_session"
