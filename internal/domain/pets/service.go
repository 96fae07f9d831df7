package pets

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CareObserver recibe cada acción de cuidado aplicada (métricas).
type CareObserver func(action Action)

type Service struct {
	repo   Repository
	now    func() time.Time
	onCare CareObserver
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

// WithCareObserver registra un observer para las acciones de cuidado.
func (s *Service) WithCareObserver(fn CareObserver) *Service {
	s.onCare = fn
	return s
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Pet, error) {
	p, err := newPet(in)
	if err != nil {
		return Pet{}, err
	}

	now := s.now()
	p.ID = uuid.NewString()
	p.CreatedAt = now
	p.UpdatedAt = now

	if err := s.repo.Create(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}

func (s *Service) List(ctx context.Context, q Query) ([]Pet, error) {
	return s.repo.List(ctx, q)
}

// ListPublic lista mascotas sin owner.
func (s *Service) ListPublic(ctx context.Context) ([]Pet, error) {
	return s.repo.List(ctx, NewQuery(Unowned{}))
}

func (s *Service) ListByOwner(ctx context.Context, ownerUserID string) ([]Pet, error) {
	ownerUserID = strings.TrimSpace(ownerUserID)
	if ownerUserID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.List(ctx, NewQuery(OwnedBy{UserID: ownerUserID}))
}

func (s *Service) GetByID(ctx context.Context, id string) (Pet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Pet{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

// GetOwned devuelve la mascota solo si pertenece a ownerUserID.
// Si pertenece a otro usuario responde ErrNotFound (no se filtra su existencia).
func (s *Service) GetOwned(ctx context.Context, id, ownerUserID string) (Pet, error) {
	ownerUserID = strings.TrimSpace(ownerUserID)
	if ownerUserID == "" {
		return Pet{}, ErrNotFound
	}
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return Pet{}, err
	}
	if p.OwnerUserID != ownerUserID {
		return Pet{}, ErrNotFound
	}
	return p, nil
}

// Update aplica un update parcial sin chequear owner (API).
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Pet, error) {
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return Pet{}, err
	}
	return s.save(ctx, current, in)
}

// UpdateOwned es Update con scope por owner (web).
func (s *Service) UpdateOwned(ctx context.Context, id, ownerUserID string, in UpdateInput) (Pet, error) {
	current, err := s.GetOwned(ctx, id, ownerUserID)
	if err != nil {
		return Pet{}, err
	}
	return s.save(ctx, current, in)
}

// SetImage reemplaza la imagen (vacío permitido).
func (s *Service) SetImage(ctx context.Context, id, ownerUserID, image string) (Pet, error) {
	return s.UpdateOwned(ctx, id, ownerUserID, UpdateInput{Image: &image})
}

// Care aplica una acción de cuidado a una mascota del owner.
// Read-modify-write sin lock: dos requests concurrentes sobre la misma mascota => last-write-wins.
func (s *Service) Care(ctx context.Context, id, ownerUserID string, action Action) (Pet, error) {
	p, err := s.GetOwned(ctx, id, ownerUserID)
	if err != nil {
		return Pet{}, err
	}

	p.Stats = ApplyCare(p.Stats, action)
	p.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, p); err != nil {
		return Pet{}, err
	}
	if s.onCare != nil {
		s.onCare(action)
	}
	return p, nil
}

// Delete borra por id sin chequear owner (API).
func (s *Service) Delete(ctx context.Context, id string) (Pet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Pet{}, ErrNotFound
	}
	return s.repo.Delete(ctx, id)
}

// DeleteOwned borra solo si la mascota es del owner.
func (s *Service) DeleteOwned(ctx context.Context, id, ownerUserID string) (Pet, error) {
	p, err := s.GetOwned(ctx, id, ownerUserID)
	if err != nil {
		return Pet{}, err
	}
	return s.repo.Delete(ctx, p.ID)
}

func (s *Service) save(ctx context.Context, current Pet, in UpdateInput) (Pet, error) {
	updated, err := applyUpdate(current, in)
	if err != nil {
		return Pet{}, err
	}
	updated.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, updated); err != nil {
		if errors.Is(err, ErrNotFound) {
			return Pet{}, ErrNotFound
		}
		return Pet{}, err
	}
	return updated, nil
}
