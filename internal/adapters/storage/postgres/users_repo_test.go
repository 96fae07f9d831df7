package postgres

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"virtual-pets/internal/domain/users"
)

func TestUsersRepo_Create_DuplicateMapsToErrDuplicate(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUsersRepo(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"})

	err := repo.Create(context.Background(), users.User{ID: "1", Username: "alice", Email: "a@b.com"})
	assert.ErrorIs(t, err, users.ErrDuplicate)
}

func TestUsersRepo_GetByUsername(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUsersRepo(db)
	now := time.Date(2025, 12, 22, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE username = $1")).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "created_at"}).
			AddRow("1", "alice", "a@b.com", "hash", now))

	u, err := repo.GetByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "1", u.ID)
	assert.Equal(t, "hash", u.PasswordHash)
}

func TestUsersRepo_GetByID_NotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUsersRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE id = $1")).
		WithArgs("nope").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "nope")
	assert.ErrorIs(t, err, users.ErrNotFound)

	// id vacío no llega a la DB
	_, err = repo.GetByID(context.Background(), " ")
	assert.ErrorIs(t, err, users.ErrNotFound)
}
