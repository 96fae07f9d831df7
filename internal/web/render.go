package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"virtual-pets/internal/domain/pets"
	"virtual-pets/internal/ports/auth"
)

//go:embed templates/*.html
var templateFiles embed.FS

const (
	pageLogin     = "login.html"
	pageRegister  = "register.html"
	pageDashboard = "dashboard.html"
	pageList      = "pet_list.html"
	pageCreate    = "pet_create.html"
	pageDetail    = "pet_detail.html"
	pageError     = "error.html"
)

var pageNames = []string{
	pageLogin, pageRegister, pageDashboard, pageList, pageCreate, pageDetail, pageError,
}

// pageData es lo que reciben todos los templates.
type pageData struct {
	Title    string
	Error    string
	Message  string
	DBStatus string
	User     *auth.Claims

	Pets     []pets.Pet
	Pet      *pets.Pet
	Species  []pets.Species
	Actions  []pets.Action
	PetCount int

	// Valores previos del formulario para re-render.
	Form map[string]string
}

type renderer struct {
	pages map[string]*template.Template
}

var funcs = template.FuncMap{
	"join":     strings.Join,
	"imageURL": imageURL,
}

// imageURL: las imágenes pueden ser una URL absoluta o un filename servido en /images/.
func imageURL(image string) string {
	image = strings.TrimSpace(image)
	switch {
	case image == "":
		return ""
	case strings.HasPrefix(image, "http://"), strings.HasPrefix(image, "https://"):
		return image
	default:
		return "/images/" + image
	}
}

// Cada página se parsea junto al layout para que todas puedan definir "content".
func newRenderer() (*renderer, error) {
	r := &renderer{pages: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		t, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFiles, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("web: parse %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// render ejecuta a un buffer primero: si falla no queda una respuesta a medias.
func (r *renderer) render(w http.ResponseWriter, status int, name string, data pageData) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("web: unknown page %s", name)
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
