package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"virtual-pets/internal/domain/pets"
	"virtual-pets/internal/domain/users"
	"virtual-pets/internal/middleware"
	"virtual-pets/internal/platform/logger"
	"virtual-pets/internal/ports/auth"

	"github.com/go-chi/chi/v5"
)

const loginPath = "/auth/login"

// Deps son las dependencias de las páginas web.
type Deps struct {
	Pets     *pets.Service
	Users    *users.Service
	Sessions auth.SessionManager
	Log      logger.Logger

	// DBStatus se muestra en el footer (postgres / in-memory).
	DBStatus string
}

type handlers struct {
	Deps
	view *renderer
}

// RegisterRoutes monta las páginas. Toda operación sobre mascotas exige sesión
// y se filtra por owner = usuario de la sesión.
func RegisterRoutes(r chi.Router, deps Deps) error {
	view, err := newRenderer()
	if err != nil {
		return err
	}
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	h := &handlers{Deps: deps, view: view}

	r.Get("/", h.home)
	r.Get("/dashboard", h.dashboard)

	r.Route("/auth", func(ar chi.Router) {
		ar.Get("/register", h.registerPage)
		ar.Post("/register", h.register)
		ar.Get("/login", h.loginPage)
		ar.Post("/login", h.login)
		ar.Get("/logout", h.logout)
	})

	r.Route("/pets", func(pr chi.Router) {
		pr.Get("/", h.listPets)
		pr.Get("/create", h.createPage)
		pr.Post("/create", h.createPet)
		pr.Get("/{petID}", h.petDetail)
		pr.Post("/{petID}/care", h.carePet)
		pr.Post("/{petID}/update-image", h.updateImage)
		pr.Post("/{petID}/delete", h.deletePet)
	})

	return nil
}

// currentUser: sin sesión redirige a login y devuelve false.
func (h *handlers) currentUser(w http.ResponseWriter, r *http.Request) (auth.Claims, bool) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok {
		http.Redirect(w, r, loginPath, http.StatusSeeOther)
		return auth.Claims{}, false
	}
	return claims, true
}

func (h *handlers) page(r *http.Request, title string) pageData {
	d := pageData{Title: title, DBStatus: h.DBStatus}
	if c, ok := middleware.GetClaims(r.Context()); ok {
		d.User = &c
	}
	return d
}

func (h *handlers) render(w http.ResponseWriter, status int, name string, data pageData) {
	if err := h.view.render(w, status, name, data); err != nil {
		h.Log.Error("render failed", map[string]any{"page": name, "error": err})
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func (h *handlers) renderError(w http.ResponseWriter, r *http.Request, status int, title, msg string) {
	d := h.page(r, title)
	d.Error = msg
	h.render(w, status, pageError, d)
}

func (h *handlers) home(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetClaims(r.Context()); ok {
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	}
	http.Redirect(w, r, loginPath, http.StatusFound)
}

func (h *handlers) dashboard(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	d := h.page(r, "Dashboard")
	items, err := h.Pets.ListByOwner(r.Context(), claims.UserID)
	if err != nil {
		h.Log.Error("dashboard pets failed", map[string]any{"user_id": claims.UserID, "error": err})
		d.Error = "Failed to get pet list"
	}
	d.PetCount = len(items)
	h.render(w, http.StatusOK, pageDashboard, d)
}

// -------------------------
// Auth
// -------------------------

func (h *handlers) registerPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, pageRegister, h.page(r, "Register"))
}

func (h *handlers) register(w http.ResponseWriter, r *http.Request) {
	d := h.page(r, "Register")
	if err := r.ParseForm(); err != nil {
		d.Error = "Registration failed"
		h.render(w, http.StatusBadRequest, pageRegister, d)
		return
	}
	d.Form = map[string]string{
		"username": r.PostForm.Get("username"),
		"email":    r.PostForm.Get("email"),
	}

	u, err := h.Users.Register(r.Context(), users.RegisterInput{
		Username:        r.PostForm.Get("username"),
		Email:           r.PostForm.Get("email"),
		Password:        r.PostForm.Get("password"),
		ConfirmPassword: r.PostForm.Get("confirmPassword"),
	})
	if err != nil {
		switch {
		case errors.Is(err, users.ErrPasswordMismatch):
			d.Error = "Passwords do not match"
		case errors.Is(err, users.ErrDuplicate):
			d.Error = "Username or email already exists"
		case errors.Is(err, users.ErrInvalidInput):
			d.Error = "Username, a valid email and a password are required"
		default:
			h.Log.Error("register failed", map[string]any{"error": err})
			d.Error = "Registration failed"
		}
		h.render(w, http.StatusOK, pageRegister, d)
		return
	}

	h.startSession(w, r, u)
}

func (h *handlers) loginPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, pageLogin, h.page(r, "Login"))
}

func (h *handlers) login(w http.ResponseWriter, r *http.Request) {
	d := h.page(r, "Login")
	if err := r.ParseForm(); err != nil {
		d.Error = "Login failed"
		h.render(w, http.StatusBadRequest, pageLogin, d)
		return
	}
	d.Form = map[string]string{"username": r.PostForm.Get("username")}

	u, err := h.Users.Authenticate(r.Context(), r.PostForm.Get("username"), r.PostForm.Get("password"))
	if err != nil {
		switch {
		case errors.Is(err, users.ErrNotFound):
			d.Error = "User does not exist"
		case errors.Is(err, users.ErrInvalidPassword):
			d.Error = "Incorrect password"
		default:
			h.Log.Error("login failed", map[string]any{"error": err})
			d.Error = "Login failed"
		}
		h.render(w, http.StatusOK, pageLogin, d)
		return
	}

	h.startSession(w, r, u)
}

func (h *handlers) logout(w http.ResponseWriter, r *http.Request) {
	h.Sessions.End(w)
	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *handlers) startSession(w http.ResponseWriter, r *http.Request, u users.User) {
	if err := h.Sessions.Start(w, auth.Claims{UserID: u.ID, Username: u.Username}); err != nil {
		h.Log.Error("start session failed", map[string]any{"user_id": u.ID, "error": err})
		h.renderError(w, r, http.StatusInternalServerError, "Error", "Login failed")
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// -------------------------
// Pets
// -------------------------

func (h *handlers) listPets(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	d := h.page(r, "My Pets")
	items, err := h.Pets.ListByOwner(r.Context(), claims.UserID)
	if err != nil {
		h.Log.Error("list pets failed", map[string]any{"user_id": claims.UserID, "error": err})
		d.Error = "Failed to get pet list"
		items = nil
	}
	d.Pets = items
	h.render(w, http.StatusOK, pageList, d)
}

func (h *handlers) createPage(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.currentUser(w, r); !ok {
		return
	}
	d := h.page(r, "Adopt New Pet")
	d.Species = pets.AllowedSpecies
	h.render(w, http.StatusOK, pageCreate, d)
}

func (h *handlers) createPet(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	d := h.page(r, "Adopt New Pet")
	d.Species = pets.AllowedSpecies
	if err := r.ParseForm(); err != nil {
		d.Error = "Failed to create pet, please try again"
		h.render(w, http.StatusBadRequest, pageCreate, d)
		return
	}
	d.Form = map[string]string{
		"name":   r.PostForm.Get("name"),
		"rarity": r.PostForm.Get("rarity"),
		"traits": strings.Join(r.PostForm["traits"], ", "),
	}

	// La imagen siempre es la default de la especie en el alta web.
	_, err := h.Pets.Create(r.Context(), pets.CreateInput{
		Name:        r.PostForm.Get("name"),
		Species:     r.PostForm.Get("species"),
		Rarity:      r.PostForm.Get("rarity"),
		Traits:      formTraits(r.PostForm["traits"]),
		OwnerUserID: claims.UserID,
	})
	if err != nil {
		if errors.Is(err, pets.ErrInvalidInput) {
			d.Error = err.Error()
		} else {
			h.Log.Error("create pet failed", map[string]any{"user_id": claims.UserID, "error": err})
			d.Error = "Failed to create pet, please try again"
		}
		h.render(w, http.StatusOK, pageCreate, d)
		return
	}

	http.Redirect(w, r, "/pets", http.StatusSeeOther)
}

func (h *handlers) petDetail(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	petID := chi.URLParam(r, "petID")
	p, err := h.Pets.GetOwned(r.Context(), petID, claims.UserID)
	if err != nil {
		if errors.Is(err, pets.ErrNotFound) {
			h.renderError(w, r, http.StatusNotFound, "Pet Not Found", "Pet not found")
			return
		}
		h.Log.Error("get pet failed", map[string]any{"pet_id": petID, "error": err})
		h.renderError(w, r, http.StatusInternalServerError, "Error", "Failed to get pet details")
		return
	}

	d := h.page(r, "Pet Details - "+p.Name)
	d.Pet = &p
	d.Actions = []pets.Action{pets.ActionFeed, pets.ActionPlay, pets.ActionRest}
	h.render(w, http.StatusOK, pageDetail, d)
}

// carePet es la única mutación web que responde JSON (en not-found).
func (h *handlers) carePet(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	petID := chi.URLParam(r, "petID")
	_ = r.ParseForm()
	action := pets.Action(strings.TrimSpace(r.PostForm.Get("action")))

	p, err := h.Pets.Care(r.Context(), petID, claims.UserID, action)
	if err != nil {
		if errors.Is(err, pets.ErrNotFound) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "Pet not found"})
			return
		}
		h.Log.Error("care pet failed", map[string]any{"pet_id": petID, "action": action, "error": err})
		http.Redirect(w, r, "/pets", http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, "/pets/"+p.ID, http.StatusSeeOther)
}

func (h *handlers) updateImage(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	petID := chi.URLParam(r, "petID")
	_ = r.ParseForm()

	p, err := h.Pets.SetImage(r.Context(), petID, claims.UserID, r.PostForm.Get("image"))
	if err != nil {
		if !errors.Is(err, pets.ErrNotFound) {
			h.Log.Error("update image failed", map[string]any{"pet_id": petID, "error": err})
		}
		http.Redirect(w, r, "/pets", http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, "/pets/"+p.ID, http.StatusSeeOther)
}

func (h *handlers) deletePet(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	petID := chi.URLParam(r, "petID")
	// Mascota ajena o inexistente: no se borra nada y se vuelve a la lista.
	if _, err := h.Pets.DeleteOwned(r.Context(), petID, claims.UserID); err != nil && !errors.Is(err, pets.ErrNotFound) {
		h.Log.Error("delete pet failed", map[string]any{"pet_id": petID, "error": err})
	}
	http.Redirect(w, r, "/pets", http.StatusSeeOther)
}

// formTraits acepta campos repetidos y/o valores separados por coma.
func formTraits(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, strings.Split(v, ",")...)
	}
	return pets.NormalizeTraits(out)
}
