package pets

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"virtual-pets/internal/domain/users"
	"virtual-pets/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes monta la API JSON. Es stateless: no consulta la sesión.
func RegisterRoutes(r chi.Router, svc *Service, usersSvc *users.Service, log logger.Logger) {
	r.Route("/api/pets", func(pr chi.Router) {
		pr.Get("/", listPetsHandler(svc, log))
		pr.Get("/public", listPublicPetsHandler(svc, log))
		pr.Post("/", createPetHandler(svc, log))
		pr.Post("/by-username", createPetByUsernameHandler(svc, usersSvc, log))

		pr.Get("/{petID}", getPetHandler(svc, log))
		pr.Put("/{petID}", updatePetHandler(svc, log))

		// Sin chequeo de owner: la API no tiene identidad de caller.
		pr.Delete("/{petID}", deletePetHandler(svc, log))
	})
}

// envelope es el wrapper común de respuestas de la API.
type envelope struct {
	Success bool          `json:"success"`
	Count   *int          `json:"count,omitempty"`
	Data    any           `json:"data,omitempty"`
	Message string        `json:"message,omitempty"`
	Owner   *ownerSummary `json:"owner,omitempty"`
	Error   string        `json:"error,omitempty"`
}

type ownerSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type statsRequest struct {
	Hunger    *int `json:"hunger"`
	Happiness *int `json:"happiness"`
	Energy    *int `json:"energy"`
}

// traitList acepta tanto ["a","b"] como "a".
type traitList []string

func (t *traitList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*t = nil
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = traitList{s}
		return nil
	}
	var list []string
	if err := json.Unmarshal(b, &list); err != nil {
		return errors.New("traits must be a string or an array of strings")
	}
	*t = list
	return nil
}

type createPetRequest struct {
	Name    string        `json:"name"`
	Species string        `json:"species" enums:"dragon,cat,dog,rat,elf,robot,wolf,deer,duck,bear"`
	Rarity  string        `json:"rarity"`
	Traits  traitList     `json:"traits" swaggertype:"array,string"`
	Stats   *statsRequest `json:"stats"`
	Image   string        `json:"image"`
}

type createPetByUsernameRequest struct {
	createPetRequest
	Username string `json:"username"`
}

type updatePetRequest struct {
	// Punteros para update parcial: nil = no tocar.
	Name    *string       `json:"name"`
	Species *string       `json:"species"`
	Rarity  *string       `json:"rarity"`
	Traits  *traitList    `json:"traits" swaggertype:"array,string"`
	Stats   *statsRequest `json:"stats"`
	Image   *string       `json:"image"`
}

// petResponse representa una mascota devuelta por la API.
type petResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Species   Species   `json:"species"`
	Rarity    string    `json:"rarity"`
	Traits    []string  `json:"traits"`
	Stats     Stats     `json:"stats"`
	Image     string    `json:"image"`
	Owner     *string   `json:"owner"`
	CreatedBy string    `json:"created_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// listPetsHandler godoc
// @Summary Listar mascotas
// @Description Lista todas las mascotas. Filtros opcionales combinables (AND): especie, rareza, trait y rango inclusivo de felicidad.
// @Tags pets
// @Produce json
// @Param species query string false "Especie exacta"
// @Param rarity query string false "Rareza exacta"
// @Param trait query string false "Trait que debe contener la mascota"
// @Param minHappiness query int false "Felicidad mínima (inclusive)"
// @Param maxHappiness query int false "Felicidad máxima (inclusive)"
// @Success 200 {object} envelope
// @Failure 400 {object} envelope
// @Failure 500 {object} envelope
// @Router /api/pets [get]
func listPetsHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := parseListQuery(r)
		if err != nil {
			writeFailure(w, http.StatusBadRequest, err.Error(), "")
			return
		}

		items, err := svc.List(r.Context(), q)
		if err != nil {
			log.Error("list pets failed", map[string]any{"error": err})
			writeFailure(w, http.StatusInternalServerError, "Failed to fetch pets", err.Error())
			return
		}

		writeList(w, items)
	}
}

// listPublicPetsHandler godoc
// @Summary Listar mascotas públicas
// @Description Lista las mascotas sin owner.
// @Tags pets
// @Produce json
// @Success 200 {object} envelope
// @Failure 500 {object} envelope
// @Router /api/pets/public [get]
func listPublicPetsHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListPublic(r.Context())
		if err != nil {
			log.Error("list public pets failed", map[string]any{"error": err})
			writeFailure(w, http.StatusInternalServerError, "Failed to fetch public pets", err.Error())
			return
		}

		writeList(w, items)
	}
}

// getPetHandler godoc
// @Summary Obtener mascota
// @Tags pets
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Success 200 {object} envelope
// @Failure 404 {object} envelope
// @Failure 500 {object} envelope
// @Router /api/pets/{petID} [get]
func getPetHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		petID := chi.URLParam(r, "petID")
		p, err := svc.GetByID(r.Context(), petID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				writeFailure(w, http.StatusNotFound, "Pet not found", "")
				return
			}
			log.Error("get pet failed", map[string]any{"pet_id": petID, "error": err})
			writeFailure(w, http.StatusInternalServerError, "Failed to fetch pet", err.Error())
			return
		}

		writeJSON(w, http.StatusOK, envelope{Success: true, Data: toPetResponse(p)})
	}
}

// createPetHandler godoc
// @Summary Crear mascota pública
// @Description Crea una mascota sin owner. name y species son obligatorios; rarity default "Common", stats default 50, image default "<species>.png".
// @Tags pets
// @Accept json
// @Produce json
// @Param payload body createPetRequest true "Datos de la mascota"
// @Success 201 {object} envelope
// @Failure 400 {object} envelope
// @Failure 500 {object} envelope
// @Router /api/pets [post]
func createPetHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createPetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeFailure(w, http.StatusBadRequest, "Invalid JSON body", err.Error())
			return
		}

		in := req.toInput()
		in.CreatedBy = CreatedByAPI

		p, err := svc.Create(r.Context(), in)
		if err != nil {
			writeCreateError(w, log, err)
			return
		}

		writeJSON(w, http.StatusCreated, envelope{
			Success: true,
			Message: "Pet created successfully",
			Data:    toPetResponse(p),
		})
	}
}

// createPetByUsernameHandler godoc
// @Summary Crear mascota para un usuario
// @Description Crea una mascota cuyo owner se resuelve por username. El usuario debe existir (registrado desde la web).
// @Tags pets
// @Accept json
// @Produce json
// @Param payload body createPetByUsernameRequest true "Datos de la mascota + username"
// @Success 201 {object} envelope
// @Failure 400 {object} envelope
// @Failure 404 {object} envelope "usuario no encontrado"
// @Failure 500 {object} envelope
// @Router /api/pets/by-username [post]
func createPetByUsernameHandler(svc *Service, usersSvc *users.Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createPetByUsernameRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeFailure(w, http.StatusBadRequest, "Invalid JSON body", err.Error())
			return
		}

		// Validamos antes de tocar storage.
		if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Species) == "" {
			writeFailure(w, http.StatusBadRequest, "Pet name and species are required fields", "")
			return
		}
		username := strings.TrimSpace(req.Username)
		if username == "" {
			writeFailure(w, http.StatusBadRequest, "Username is required", "")
			return
		}

		u, err := usersSvc.GetByUsername(r.Context(), username)
		if err != nil {
			if errors.Is(err, users.ErrNotFound) {
				writeFailure(w, http.StatusNotFound,
					fmt.Sprintf("User '%s' not found. Please register via the web interface first.", username), "")
				return
			}
			log.Error("lookup user failed", map[string]any{"username": username, "error": err})
			writeFailure(w, http.StatusInternalServerError, "Failed to create pet", err.Error())
			return
		}

		in := req.toInput()
		in.OwnerUserID = u.ID
		in.CreatedBy = CreatedByAPI

		p, err := svc.Create(r.Context(), in)
		if err != nil {
			writeCreateError(w, log, err)
			return
		}

		writeJSON(w, http.StatusCreated, envelope{
			Success: true,
			Message: "Pet created successfully for user: " + u.Username,
			Data:    toPetResponse(p),
			Owner:   &ownerSummary{ID: u.ID, Username: u.Username},
		})
	}
}

// updatePetHandler godoc
// @Summary Actualizar mascota
// @Description Update parcial. Solo se modifican los campos enviados; species se revalida contra la lista permitida.
// @Tags pets
// @Accept json
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Param payload body updatePetRequest true "Campos a modificar"
// @Success 200 {object} envelope
// @Failure 400 {object} envelope
// @Failure 404 {object} envelope
// @Failure 500 {object} envelope
// @Router /api/pets/{petID} [put]
func updatePetHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		petID := chi.URLParam(r, "petID")

		var req updatePetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeFailure(w, http.StatusBadRequest, "Invalid JSON body", err.Error())
			return
		}

		updated, err := svc.Update(r.Context(), petID, req.toInput())
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				writeFailure(w, http.StatusBadRequest, "Failed to update pet", err.Error())
			case errors.Is(err, ErrNotFound):
				writeFailure(w, http.StatusNotFound, "Pet not found", "")
			default:
				log.Error("update pet failed", map[string]any{"pet_id": petID, "error": err})
				writeFailure(w, http.StatusInternalServerError, "Failed to update pet", err.Error())
			}
			return
		}

		writeJSON(w, http.StatusOK, envelope{
			Success: true,
			Message: "Pet updated successfully",
			Data:    toPetResponse(updated),
		})
	}
}

// deletePetHandler godoc
// @Summary Borrar mascota
// @Description Borra por id. No valida owner.
// @Tags pets
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Success 200 {object} envelope
// @Failure 404 {object} envelope
// @Failure 500 {object} envelope
// @Router /api/pets/{petID} [delete]
func deletePetHandler(svc *Service, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		petID := chi.URLParam(r, "petID")
		p, err := svc.Delete(r.Context(), petID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				writeFailure(w, http.StatusNotFound, "Pet not found", "")
				return
			}
			log.Error("delete pet failed", map[string]any{"pet_id": petID, "error": err})
			writeFailure(w, http.StatusInternalServerError, "Failed to delete pet", err.Error())
			return
		}

		writeJSON(w, http.StatusOK, envelope{
			Success: true,
			Message: "Pet deleted successfully",
			Data:    toPetResponse(p),
		})
	}
}

func parseListQuery(r *http.Request) (Query, error) {
	v := r.URL.Query()
	q := NewQuery()

	if s := strings.TrimSpace(v.Get("species")); s != "" {
		q = q.Where(Eq{Field: FieldSpecies, Value: s})
	}
	if s := strings.TrimSpace(v.Get("rarity")); s != "" {
		q = q.Where(Eq{Field: FieldRarity, Value: s})
	}
	if s := strings.TrimSpace(v.Get("trait")); s != "" {
		q = q.Where(Has{Field: FieldTraits, Value: s})
	}

	minH, err := optionalInt(v.Get("minHappiness"), "minHappiness")
	if err != nil {
		return Query{}, err
	}
	maxH, err := optionalInt(v.Get("maxHappiness"), "maxHappiness")
	if err != nil {
		return Query{}, err
	}
	if minH != nil || maxH != nil {
		q = q.Where(Between{Field: FieldHappiness, Min: minH, Max: maxH})
	}

	return q, nil
}

func optionalInt(raw, name string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be an integer", name)
	}
	return &n, nil
}

func (req createPetRequest) toInput() CreateInput {
	in := CreateInput{
		Name:    req.Name,
		Species: req.Species,
		Rarity:  req.Rarity,
		Traits:  req.Traits,
		Image:   req.Image,
	}
	if req.Stats != nil {
		in.Stats = req.Stats.toInput()
	}
	return in
}

func (req updatePetRequest) toInput() UpdateInput {
	in := UpdateInput{
		Name:    req.Name,
		Species: req.Species,
		Rarity:  req.Rarity,
		Image:   req.Image,
	}
	if req.Traits != nil {
		traits := []string(*req.Traits)
		in.Traits = &traits
	}
	if req.Stats != nil {
		in.Stats = req.Stats.toInput()
	}
	return in
}

func (s statsRequest) toInput() StatsInput {
	return StatsInput{Hunger: s.Hunger, Happiness: s.Happiness, Energy: s.Energy}
}

func writeCreateError(w http.ResponseWriter, log logger.Logger, err error) {
	if errors.Is(err, ErrInvalidInput) {
		writeFailure(w, http.StatusBadRequest, err.Error(), "")
		return
	}
	log.Error("create pet failed", map[string]any{"error": err})
	writeFailure(w, http.StatusInternalServerError, "Failed to create pet", err.Error())
}

func toPetResponse(p Pet) petResponse {
	var owner *string
	if !p.IsPublic() {
		o := p.OwnerUserID
		owner = &o
	}
	traits := p.Traits
	if traits == nil {
		traits = []string{}
	}
	return petResponse{
		ID:        p.ID,
		Name:      p.Name,
		Species:   p.Species,
		Rarity:    p.Rarity,
		Traits:    traits,
		Stats:     p.Stats,
		Image:     p.Image,
		Owner:     owner,
		CreatedBy: p.CreatedBy,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func writeList(w http.ResponseWriter, items []Pet) {
	out := make([]petResponse, 0, len(items))
	for _, p := range items {
		out = append(out, toPetResponse(p))
	}
	n := len(out)
	writeJSON(w, http.StatusOK, envelope{Success: true, Count: &n, Data: out})
}

func writeFailure(w http.ResponseWriter, status int, msg, detail string) {
	writeJSON(w, status, envelope{Success: false, Message: msg, Error: detail})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
