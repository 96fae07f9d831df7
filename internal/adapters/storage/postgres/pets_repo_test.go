package postgres

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"virtual-pets/internal/domain/pets"
)

var petRowColumns = []string{
	"id", "owner_user_id", "name", "species", "rarity",
	"traits", "stats", "image", "created_by", "created_at", "updated_at",
}

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return db, mock
}

func TestBuildWhere(t *testing.T) {
	lo, hi := 10, 90

	tests := []struct {
		name     string
		query    pets.Query
		wantSQL  string
		wantArgs []any
	}{
		{"empty", pets.NewQuery(), "", nil},
		{
			"species and rarity",
			pets.NewQuery(
				pets.Eq{Field: pets.FieldSpecies, Value: "cat"},
				pets.Eq{Field: pets.FieldRarity, Value: "Rare"},
			),
			" WHERE species = $1 AND rarity = $2",
			[]any{"cat", "Rare"},
		},
		{
			"trait membership",
			pets.NewQuery(pets.Has{Field: pets.FieldTraits, Value: "brave"}),
			" WHERE traits @> jsonb_build_array($1::text)",
			[]any{"brave"},
		},
		{
			"happiness range",
			pets.NewQuery(pets.Between{Field: pets.FieldHappiness, Min: &lo, Max: &hi}),
			" WHERE (stats->>'happiness')::int >= $1 AND (stats->>'happiness')::int <= $2",
			[]any{10, 90},
		},
		{
			"owner scoping",
			pets.NewQuery(pets.OwnedBy{UserID: "u1"}).Where(pets.Between{Field: pets.FieldEnergy, Max: &hi}),
			" WHERE owner_user_id = $1 AND (stats->>'energy')::int <= $2",
			[]any{"u1", 90},
		},
		{
			"public",
			pets.NewQuery(pets.Unowned{}),
			" WHERE owner_user_id IS NULL",
			[]any{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			where, args, err := buildWhere(tc.query)
			require.NoError(t, err)
			assert.Equal(t, tc.wantSQL, where)
			if len(tc.wantArgs) == 0 {
				assert.Empty(t, args)
				return
			}
			assert.Equal(t, tc.wantArgs, args)
		})
	}
}

func TestBuildWhere_RejectsUnsupportedFields(t *testing.T) {
	bad := []pets.Filter{
		pets.Eq{Field: pets.FieldHunger, Value: "1"},
		pets.Has{Field: pets.FieldSpecies, Value: "cat"},
		pets.Between{Field: pets.FieldRarity},
	}
	for _, f := range bad {
		_, _, err := buildWhere(pets.NewQuery(f))
		assert.Error(t, err, "%#v", f)
	}
}

func TestPetsRepo_Create(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPetsRepo(db)
	now := time.Date(2025, 12, 22, 10, 0, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO pets")).
		WithArgs("p1", nil, "Ember", "dragon", "Common", `["brave"]`, `{"hunger":50,"happiness":50,"energy":50}`,
			"dragon.png", "api", now, now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), pets.Pet{
		ID: "p1", Name: "Ember", Species: pets.SpeciesDragon, Rarity: "Common",
		Traits: []string{"brave"}, Stats: pets.DefaultStats(), Image: "dragon.png",
		CreatedBy: pets.CreatedByAPI, CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)
}

func TestPetsRepo_GetByID(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPetsRepo(db)
	now := time.Date(2025, 12, 22, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM pets WHERE id = $1")).
		WithArgs("p1").
		WillReturnRows(sqlmock.NewRows(petRowColumns).AddRow(
			"p1", "u1", "Ember", "dragon", "Common",
			[]byte(`["brave","loyal"]`), []byte(`{"hunger":10,"happiness":20,"energy":30}`),
			"dragon.png", "", now, now,
		))

	p, err := repo.GetByID(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "u1", p.OwnerUserID)
	assert.Equal(t, pets.SpeciesDragon, p.Species)
	assert.Equal(t, []string{"brave", "loyal"}, p.Traits)
	assert.Equal(t, pets.Stats{Hunger: 10, Happiness: 20, Energy: 30}, p.Stats)
}

func TestPetsRepo_GetByID_NotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPetsRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM pets WHERE id = $1")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, pets.ErrNotFound)
}

func TestPetsRepo_List_AppliesFilters(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPetsRepo(db)
	now := time.Date(2025, 12, 22, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM pets WHERE owner_user_id IS NULL AND species = $1 ORDER BY created_at ASC, id ASC")).
		WithArgs("cat").
		WillReturnRows(sqlmock.NewRows(petRowColumns).
			AddRow("a", nil, "Tom", "cat", "Common", []byte(`[]`), []byte(`{"hunger":50,"happiness":50,"energy":50}`), "cat.png", "api", now, now).
			AddRow("b", nil, "Kit", "cat", "Rare", nil, []byte(`{"hunger":1,"happiness":2,"energy":3}`), "", "api", now, now))

	list, err := repo.List(context.Background(),
		pets.NewQuery(pets.Unowned{}, pets.Eq{Field: pets.FieldSpecies, Value: "cat"}))
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.True(t, list[0].IsPublic())
	assert.Equal(t, []string{}, list[1].Traits)
}

func TestPetsRepo_Update_NotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPetsRepo(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE pets")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), pets.Pet{ID: "missing", Stats: pets.DefaultStats()})
	assert.ErrorIs(t, err, pets.ErrNotFound)
}

func TestPetsRepo_Delete_ReturnsRemoved(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPetsRepo(db)
	now := time.Date(2025, 12, 22, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("DELETE FROM pets WHERE id = $1 RETURNING")).
		WithArgs("p1").
		WillReturnRows(sqlmock.NewRows(petRowColumns).AddRow(
			"p1", nil, "Ember", "dragon", "Common", []byte(`[]`),
			[]byte(`{"hunger":50,"happiness":50,"energy":50}`), "dragon.png", "api", now, now,
		))

	p, err := repo.Delete(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "Ember", p.Name)
}
