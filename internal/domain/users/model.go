package users

import "time"

// User es una cuenta registrada. El password solo se guarda como hash bcrypt.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string

	CreatedAt time.Time
}
