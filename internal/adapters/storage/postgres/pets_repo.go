package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"virtual-pets/internal/domain/pets"
)

// Las mascotas se guardan como documento: traits y stats son JSONB.
const petColumns = `
	id, owner_user_id,
	name, species, rarity,
	traits, stats, image,
	created_by, created_at, updated_at`

type PetsRepo struct {
	db *sql.DB
}

func NewPetsRepo(db *sql.DB) *PetsRepo {
	return &PetsRepo{db: db}
}

func (r *PetsRepo) Create(ctx context.Context, p pets.Pet) error {
	traits, stats, err := encodeDocs(p)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO pets (`+petColumns+`
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`,
		p.ID,
		toNullString(p.OwnerUserID),
		p.Name,
		string(p.Species),
		p.Rarity,
		traits,
		stats,
		p.Image,
		p.CreatedBy,
		p.CreatedAt,
		p.UpdatedAt,
	)
	return err
}

// Update reescribe el documento completo (last-write-wins).
func (r *PetsRepo) Update(ctx context.Context, p pets.Pet) error {
	traits, stats, err := encodeDocs(p)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE pets
		SET
			name = $2,
			species = $3,
			rarity = $4,
			traits = $5,
			stats = $6,
			image = $7,
			updated_at = $8
		WHERE id = $1
	`,
		p.ID,
		p.Name,
		string(p.Species),
		p.Rarity,
		traits,
		stats,
		p.Image,
		p.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return pets.ErrNotFound
	}
	return nil
}

func (r *PetsRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return pets.Pet{}, pets.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `SELECT `+petColumns+` FROM pets WHERE id = $1`, id)

	p, err := scanPet(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return pets.Pet{}, pets.ErrNotFound
		}
		return pets.Pet{}, err
	}
	return p, nil
}

func (r *PetsRepo) List(ctx context.Context, q pets.Query) ([]pets.Pet, error) {
	where, args, err := buildWhere(q)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+petColumns+` FROM pets`+where+` ORDER BY created_at ASC, id ASC`,
		args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]pets.Pet, 0)
	for rows.Next() {
		p, err := scanPet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}

	return out, rows.Err()
}

func (r *PetsRepo) Delete(ctx context.Context, id string) (pets.Pet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return pets.Pet{}, pets.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `DELETE FROM pets WHERE id = $1 RETURNING `+petColumns, id)

	p, err := scanPet(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return pets.Pet{}, pets.ErrNotFound
		}
		return pets.Pet{}, err
	}
	return p, nil
}

// buildWhere traduce cada variante de pets.Filter a una condición SQL.
func buildWhere(q pets.Query) (string, []any, error) {
	if len(q.Filters) == 0 {
		return "", nil, nil
	}

	conds := make([]string, 0, len(q.Filters))
	args := make([]any, 0, len(q.Filters))
	next := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	for _, f := range q.Filters {
		switch f := f.(type) {
		case pets.Eq:
			switch f.Field {
			case pets.FieldSpecies, pets.FieldRarity:
				conds = append(conds, string(f.Field)+" = "+next(f.Value))
			default:
				return "", nil, fmt.Errorf("postgres: unsupported eq field %q", f.Field)
			}
		case pets.Has:
			if f.Field != pets.FieldTraits {
				return "", nil, fmt.Errorf("postgres: unsupported has field %q", f.Field)
			}
			conds = append(conds, "traits @> jsonb_build_array("+next(f.Value)+"::text)")
		case pets.Between:
			key, ok := pets.StatColumn(f.Field)
			if !ok {
				return "", nil, fmt.Errorf("postgres: unsupported range field %q", f.Field)
			}
			expr := "(stats->>'" + key + "')::int"
			if f.Min != nil {
				conds = append(conds, expr+" >= "+next(*f.Min))
			}
			if f.Max != nil {
				conds = append(conds, expr+" <= "+next(*f.Max))
			}
		case pets.OwnedBy:
			conds = append(conds, "owner_user_id = "+next(f.UserID))
		case pets.Unowned:
			conds = append(conds, "owner_user_id IS NULL")
		default:
			return "", nil, fmt.Errorf("postgres: unsupported filter %T", f)
		}
	}

	if len(conds) == 0 {
		return "", nil, nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPet(s rowScanner) (pets.Pet, error) {
	var (
		p       pets.Pet
		owner   sql.NullString
		species string
		traits  []byte
		stats   []byte
	)
	if err := s.Scan(
		&p.ID,
		&owner,
		&p.Name,
		&species,
		&p.Rarity,
		&traits,
		&stats,
		&p.Image,
		&p.CreatedBy,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return pets.Pet{}, err
	}

	p.OwnerUserID = owner.String
	p.Species = pets.Species(species)

	p.Traits = []string{}
	if len(traits) > 0 {
		if err := json.Unmarshal(traits, &p.Traits); err != nil {
			return pets.Pet{}, fmt.Errorf("postgres: decode traits: %w", err)
		}
	}
	if err := json.Unmarshal(stats, &p.Stats); err != nil {
		return pets.Pet{}, fmt.Errorf("postgres: decode stats: %w", err)
	}
	return p, nil
}

func encodeDocs(p pets.Pet) (string, string, error) {
	traits := p.Traits
	if traits == nil {
		traits = []string{}
	}
	tb, err := json.Marshal(traits)
	if err != nil {
		return "", "", err
	}
	sb, err := json.Marshal(p.Stats)
	if err != nil {
		return "", "", err
	}
	return string(tb), string(sb), nil
}

// owner vacío = mascota pública (NULL)
func toNullString(s string) sql.NullString {
	if strings.TrimSpace(s) == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}
