package users

import "context"

// Repository devuelve ErrDuplicate si username o email ya existen,
// y ErrNotFound cuando no encuentra el usuario.
type Repository interface {
	Create(ctx context.Context, u User) error
	GetByID(ctx context.Context, id string) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
}
