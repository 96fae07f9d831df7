package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"virtual-pets/internal/router"
)

type apiEnvelope struct {
	Success bool            `json:"success"`
	Count   *int            `json:"count"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Owner   *struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	} `json:"owner"`
}

type apiPet struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Species string   `json:"species"`
	Rarity  string   `json:"rarity"`
	Traits  []string `json:"traits"`
	Stats   struct {
		Hunger    int `json:"hunger"`
		Happiness int `json:"happiness"`
		Energy    int `json:"energy"`
	} `json:"stats"`
	Image     string  `json:"image"`
	Owner     *string `json:"owner"`
	CreatedBy string  `json:"created_by"`
}

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	h, err := router.NewRouter(router.Options{})
	if err != nil {
		t.Fatalf("new router: %v", err)
	}
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return ts
}

func TestHTTP_Health(t *testing.T) {
	ts := newServer(t)

	st, body := doReq(t, ts.URL, "GET", "/health", nil)
	if st != http.StatusOK || string(body) != "ok" {
		t.Fatalf("expected 200 ok, got %d %q", st, string(body))
	}

	st, _ = doReq(t, ts.URL, "GET", "/swagger/doc.json", nil)
	if st != http.StatusOK {
		t.Fatalf("expected swagger doc to be served, got %d", st)
	}
}

func TestHTTP_API_CreateListFilter(t *testing.T) {
	ts := newServer(t)

	// 1) Crear con defaults
	ember := createPet(t, ts.URL, map[string]any{"name": "Ember", "species": "dragon"})
	if ember.Rarity != "Common" || ember.Image != "dragon.png" || ember.CreatedBy != "api" {
		t.Fatalf("unexpected defaults: %+v", ember)
	}
	if ember.Stats.Hunger != 50 || ember.Stats.Happiness != 50 || ember.Stats.Energy != 50 {
		t.Fatalf("expected default stats 50, got %+v", ember.Stats)
	}
	if ember.Owner != nil {
		t.Fatalf("expected public pet, got owner %v", *ember.Owner)
	}

	// 2) traits como string suelto
	tom := createPet(t, ts.URL, map[string]any{
		"name": "Tom", "species": "cat", "rarity": "Rare",
		"traits": "lazy",
		"stats":  map[string]any{"happiness": 90},
	})
	if len(tom.Traits) != 1 || tom.Traits[0] != "lazy" {
		t.Fatalf("expected traits [lazy], got %#v", tom.Traits)
	}
	_ = createPet(t, ts.URL, map[string]any{
		"name": "Kit", "species": "cat",
		"traits": []string{"brave", "lazy"},
		"stats":  map[string]any{"happiness": 10},
	})

	// 3) Listado completo en orden de creación
	list := listPets(t, ts.URL, "/api/pets")
	if len(list) != 3 || list[0].Name != "Ember" || list[2].Name != "Kit" {
		t.Fatalf("expected 3 pets in creation order, got %+v", list)
	}

	// 4) Filtros combinados
	cats := listPets(t, ts.URL, "/api/pets?species=cat")
	if len(cats) != 2 {
		t.Fatalf("expected 2 cats, got %d", len(cats))
	}
	lazyHappy := listPets(t, ts.URL, "/api/pets?trait=lazy&minHappiness=50")
	if len(lazyHappy) != 1 || lazyHappy[0].Name != "Tom" {
		t.Fatalf("expected only Tom, got %+v", lazyHappy)
	}
	mid := listPets(t, ts.URL, "/api/pets?minHappiness=50&maxHappiness=50")
	if len(mid) != 1 || mid[0].Name != "Ember" {
		t.Fatalf("expected inclusive range to match Ember, got %+v", mid)
	}
	band := listPets(t, ts.URL, "/api/pets?minHappiness=60&maxHappiness=80")
	if len(band) != 0 {
		t.Fatalf("expected no pets with happiness in [60,80], got %+v", band)
	}
	rare := listPets(t, ts.URL, "/api/pets?rarity=Rare")
	if len(rare) != 1 || rare[0].Name != "Tom" {
		t.Fatalf("expected only Tom as Rare, got %+v", rare)
	}

	// 5) Filtro inválido
	{
		st, body := doReq(t, ts.URL, "GET", "/api/pets?minHappiness=abc", nil)
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 for bad minHappiness, got %d body=%s", st, string(body))
		}
	}

	// 6) Públicas
	public := listPets(t, ts.URL, "/api/pets/public")
	if len(public) != 3 {
		t.Fatalf("expected 3 public pets, got %d", len(public))
	}
}

func TestHTTP_API_Validation(t *testing.T) {
	ts := newServer(t)

	cases := []struct {
		name    string
		payload map[string]any
		msg     string
	}{
		{"missing name", map[string]any{"species": "cat"}, "Pet name and species are required fields"},
		{"invalid species", map[string]any{"name": "X", "species": "unicorn"},
			"Invalid species. Must be one of: dragon, cat, dog, rat, elf, robot, wolf, deer, duck, bear"},
		{"stat out of range", map[string]any{"name": "X", "species": "cat", "stats": map[string]any{"energy": 150}},
			"Stats must be between 0 and 100"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			st, body := doReq(t, ts.URL, "POST", "/api/pets", tc.payload)
			if st != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d body=%s", st, string(body))
			}
			env := decodeEnvelope(t, body)
			if env.Success || env.Message != tc.msg {
				t.Fatalf("expected message %q, got %+v", tc.msg, env)
			}
		})
	}

	// Nada se persistió
	if list := listPets(t, ts.URL, "/api/pets"); len(list) != 0 {
		t.Fatalf("expected no pets persisted, got %d", len(list))
	}
}

func TestHTTP_API_UpdateAndDelete(t *testing.T) {
	ts := newServer(t)
	p := createPet(t, ts.URL, map[string]any{"name": "Rex", "species": "dog"})

	// Update parcial
	{
		st, body := doReq(t, ts.URL, "PUT", "/api/pets/"+p.ID, map[string]any{
			"name":  "",
			"stats": map[string]any{"hunger": 0},
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 update, got %d body=%s", st, string(body))
		}
		var got apiPet
		decodeData(t, body, &got)
		if got.Name != "Rex" || got.Stats.Hunger != 0 || got.Stats.Energy != 50 {
			t.Fatalf("unexpected merge result: %+v", got)
		}
	}

	// Species inválida en update
	{
		st, _ := doReq(t, ts.URL, "PUT", "/api/pets/"+p.ID, map[string]any{"species": "unicorn"})
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 invalid species on update, got %d", st)
		}
	}

	// Update de inexistente
	{
		st, _ := doReq(t, ts.URL, "PUT", "/api/pets/does-not-exist", map[string]any{"name": "X"})
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 update missing pet, got %d", st)
		}
	}

	// Delete + delete repetido
	{
		st, body := doReq(t, ts.URL, "DELETE", "/api/pets/"+p.ID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 delete, got %d body=%s", st, string(body))
		}
		if env := decodeEnvelope(t, body); env.Message != "Pet deleted successfully" {
			t.Fatalf("unexpected delete message: %q", env.Message)
		}
	}
	{
		st, _ := doReq(t, ts.URL, "DELETE", "/api/pets/"+p.ID, nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 on second delete, got %d", st)
		}
	}
	{
		st, _ := doReq(t, ts.URL, "GET", "/api/pets/"+p.ID, nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 get deleted pet, got %d", st)
		}
	}
}

func TestHTTP_API_CreateByUsername(t *testing.T) {
	ts := newServer(t)

	// Usuario inexistente
	{
		st, body := doReq(t, ts.URL, "POST", "/api/pets/by-username", map[string]any{
			"username": "ghost", "name": "Boo", "species": "elf",
		})
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 unknown user, got %d body=%s", st, string(body))
		}
		env := decodeEnvelope(t, body)
		if env.Message != "User 'ghost' not found. Please register via the web interface first." {
			t.Fatalf("unexpected message: %q", env.Message)
		}
	}

	// Falta username
	{
		st, _ := doReq(t, ts.URL, "POST", "/api/pets/by-username", map[string]any{"name": "Boo", "species": "elf"})
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 missing username, got %d", st)
		}
	}

	alice := newBrowser(t, ts.URL)
	alice.register("alice", "alice@example.com", "pw")

	st, body := doReq(t, ts.URL, "POST", "/api/pets/by-username", map[string]any{
		"username": "alice", "name": "Boo", "species": "elf",
	})
	if st != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", st, string(body))
	}
	env := decodeEnvelope(t, body)
	if env.Owner == nil || env.Owner.Username != "alice" {
		t.Fatalf("expected owner summary for alice, got %+v", env.Owner)
	}
	if env.Message != "Pet created successfully for user: alice" {
		t.Fatalf("unexpected message %q", env.Message)
	}

	// Aparece en la web de alice y no en públicas
	if page := alice.get("/pets"); !strings.Contains(page, "Boo") {
		t.Fatalf("expected Boo on alice's pet list")
	}
	if public := listPets(t, ts.URL, "/api/pets/public"); len(public) != 0 {
		t.Fatalf("expected no public pets, got %d", len(public))
	}
}

func TestHTTP_Web_AuthFlow(t *testing.T) {
	ts := newServer(t)
	b := newBrowser(t, ts.URL)

	// Sin sesión => login
	if st, loc := b.status("GET", "/pets", nil); st != http.StatusSeeOther || loc != "/auth/login" {
		t.Fatalf("expected redirect to login, got %d %q", st, loc)
	}
	if st, loc := b.status("GET", "/", nil); st != http.StatusFound || loc != "/auth/login" {
		t.Fatalf("expected / to redirect to login, got %d %q", st, loc)
	}

	// Registro con passwords distintos
	{
		st, _ := b.status("POST", "/auth/register", url.Values{
			"username": {"alice"}, "email": {"alice@example.com"},
			"password": {"a"}, "confirmPassword": {"b"},
		})
		if st != http.StatusOK {
			t.Fatalf("expected form re-render, got %d", st)
		}
	}

	b.register("alice", "alice@example.com", "pw")
	if st, loc := b.status("GET", "/", nil); st != http.StatusFound || loc != "/dashboard" {
		t.Fatalf("expected / to redirect to dashboard, got %d %q", st, loc)
	}

	// Logout y login
	b.status("GET", "/auth/logout", nil)
	if st, _ := b.status("GET", "/dashboard", nil); st != http.StatusSeeOther {
		t.Fatalf("expected dashboard to require session after logout, got %d", st)
	}

	other := newBrowser(t, ts.URL)
	if page := other.post("/auth/login", url.Values{"username": {"nobody"}, "password": {"pw"}}); !strings.Contains(page, "User does not exist") {
		t.Fatalf("expected unknown user message")
	}
	if page := other.post("/auth/login", url.Values{"username": {"alice"}, "password": {"bad"}}); !strings.Contains(page, "Incorrect password") {
		t.Fatalf("expected incorrect password message")
	}
	if st, loc := b.status("POST", "/auth/login", url.Values{"username": {"alice"}, "password": {"pw"}}); st != http.StatusSeeOther || loc != "/dashboard" {
		t.Fatalf("expected login redirect to dashboard, got %d %q", st, loc)
	}

	// Duplicado
	if page := other.post("/auth/register", url.Values{
		"username": {"alice"}, "email": {"x@example.com"},
		"password": {"pw"}, "confirmPassword": {"pw"},
	}); !strings.Contains(page, "Username or email already exists") {
		t.Fatalf("expected duplicate message")
	}
}

func TestHTTP_Web_OwnerScoping(t *testing.T) {
	ts := newServer(t)

	alice := newBrowser(t, ts.URL)
	alice.register("alice", "alice@example.com", "pw")
	bob := newBrowser(t, ts.URL)
	bob.register("bob", "bob@example.com", "pw")

	// 1) Alice adopta desde el formulario
	if st, loc := alice.status("POST", "/pets/create", url.Values{
		"name": {"Milo"}, "species": {"dog"}, "traits": {"loyal, brave"},
	}); st != http.StatusSeeOther || loc != "/pets" {
		t.Fatalf("expected redirect to /pets after create, got %d %q", st, loc)
	}

	// Formulario inválido re-renderiza con el mensaje
	if page := alice.post("/pets/create", url.Values{"name": {"X"}, "species": {"unicorn"}}); !strings.Contains(page, "Invalid species") {
		t.Fatalf("expected invalid species message on form")
	}

	// 2) La mascota aparece para alice, no para bob
	all := listPets(t, ts.URL, "/api/pets")
	if len(all) != 1 {
		t.Fatalf("expected one pet, got %d", len(all))
	}
	milo := all[0]
	if milo.Image != "dog.png" || len(milo.Traits) != 2 {
		t.Fatalf("unexpected web-created pet: %+v", milo)
	}

	if page := alice.get("/pets"); !strings.Contains(page, "Milo") {
		t.Fatalf("expected Milo on alice's list")
	}
	if page := bob.get("/pets"); strings.Contains(page, "Milo") {
		t.Fatalf("bob must not see alice's pet")
	}

	// 3) Detalle ajeno => 404
	if st, _ := bob.status("GET", "/pets/"+milo.ID, nil); st != http.StatusNotFound {
		t.Fatalf("expected 404 for foreign pet detail, got %d", st)
	}
	if st, _ := alice.status("GET", "/pets/"+milo.ID, nil); st != http.StatusOK {
		t.Fatalf("expected 200 for own pet detail, got %d", st)
	}

	// 4) Cuidado ajeno => 404 JSON, stats intactas
	{
		st, body := bob.raw("POST", "/pets/"+milo.ID+"/care", url.Values{"action": {"feed"}})
		if st != http.StatusNotFound || !strings.Contains(body, `"Pet not found"`) {
			t.Fatalf("expected 404 JSON on foreign care, got %d %s", st, body)
		}
	}

	// 5) Cuidado propio
	if st, loc := alice.status("POST", "/pets/"+milo.ID+"/care", url.Values{"action": {"play"}}); st != http.StatusSeeOther || loc != "/pets/"+milo.ID {
		t.Fatalf("expected redirect to detail after care, got %d %q", st, loc)
	}
	got := getPet(t, ts.URL, milo.ID)
	if got.Stats.Happiness != 80 || got.Stats.Energy != 30 || got.Stats.Hunger != 50 {
		t.Fatalf("expected play deltas applied, got %+v", got.Stats)
	}

	// 6) Imagen
	alice.status("POST", "/pets/"+milo.ID+"/update-image", url.Values{"image": {"https://example.com/milo.png"}})
	if got := getPet(t, ts.URL, milo.ID); got.Image != "https://example.com/milo.png" {
		t.Fatalf("expected image updated, got %q", got.Image)
	}
	bob.status("POST", "/pets/"+milo.ID+"/update-image", url.Values{"image": {"hacked.png"}})
	if got := getPet(t, ts.URL, milo.ID); got.Image != "https://example.com/milo.png" {
		t.Fatalf("bob must not change alice's image")
	}

	// 7) Delete ajeno no borra; delete propio sí
	bob.status("POST", "/pets/"+milo.ID+"/delete", nil)
	if st, _ := doReq(t, ts.URL, "GET", "/api/pets/"+milo.ID, nil); st != http.StatusOK {
		t.Fatalf("foreign delete must not remove the pet, got %d", st)
	}
	if st, loc := alice.status("POST", "/pets/"+milo.ID+"/delete", nil); st != http.StatusSeeOther || loc != "/pets" {
		t.Fatalf("expected redirect after delete, got %d %q", st, loc)
	}
	if st, _ := doReq(t, ts.URL, "GET", "/api/pets/"+milo.ID, nil); st != http.StatusNotFound {
		t.Fatalf("expected pet removed, got %d", st)
	}
}

// -------------------------
// Helpers
// -------------------------

func createPet(t *testing.T, baseURL string, payload map[string]any) apiPet {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/api/pets", payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create pet, got %d body=%s", st, string(body))
	}
	var p apiPet
	decodeData(t, body, &p)
	if p.ID == "" {
		t.Fatalf("create pet: missing id, body=%s", string(body))
	}
	return p
}

func getPet(t *testing.T, baseURL, id string) apiPet {
	t.Helper()

	st, body := doReq(t, baseURL, "GET", "/api/pets/"+id, nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 get pet, got %d body=%s", st, string(body))
	}
	var p apiPet
	decodeData(t, body, &p)
	return p
}

func listPets(t *testing.T, baseURL, path string) []apiPet {
	t.Helper()

	st, body := doReq(t, baseURL, "GET", path, nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 list %s, got %d body=%s", path, st, string(body))
	}
	env := decodeEnvelope(t, body)
	var out []apiPet
	if err := json.Unmarshal(env.Data, &out); err != nil {
		t.Fatalf("decode list: %v body=%s", err, string(body))
	}
	if env.Count == nil || *env.Count != len(out) {
		t.Fatalf("expected count to match data length, body=%s", string(body))
	}
	return out
}

func decodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		t.Fatalf("decode envelope: %v body=%s", err, string(body))
	}
	return env
}

func decodeData(t *testing.T, body []byte, out any) {
	t.Helper()
	env := decodeEnvelope(t, body)
	if err := json.Unmarshal(env.Data, out); err != nil {
		t.Fatalf("decode data: %v body=%s", err, string(body))
	}
}

func doReq(t *testing.T, baseURL, method, path string, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}

// browser es un cliente con cookie jar que no sigue redirects.
type browser struct {
	t       *testing.T
	baseURL string
	client  *http.Client
}

func newBrowser(t *testing.T, baseURL string) *browser {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return &browser{
		t:       t,
		baseURL: baseURL,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (b *browser) do(method, path string, form url.Values) *http.Response {
	b.t.Helper()

	var rdr io.Reader
	if form != nil {
		rdr = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequest(method, b.baseURL+path, rdr)
	if err != nil {
		b.t.Fatalf("new request: %v", err)
	}
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	res, err := b.client.Do(req)
	if err != nil {
		b.t.Fatalf("do request: %v", err)
	}
	return res
}

// status devuelve el status y el Location (si hay redirect).
func (b *browser) status(method, path string, form url.Values) (int, string) {
	b.t.Helper()
	res := b.do(method, path, form)
	defer res.Body.Close()
	_, _ = io.Copy(io.Discard, res.Body)
	return res.StatusCode, res.Header.Get("Location")
}

func (b *browser) raw(method, path string, form url.Values) (int, string) {
	b.t.Helper()
	res := b.do(method, path, form)
	defer res.Body.Close()
	body, _ := io.ReadAll(res.Body)
	return res.StatusCode, string(body)
}

func (b *browser) get(path string) string {
	b.t.Helper()
	st, body := b.raw("GET", path, nil)
	if st != http.StatusOK {
		b.t.Fatalf("expected 200 GET %s, got %d", path, st)
	}
	return body
}

func (b *browser) post(path string, form url.Values) string {
	b.t.Helper()
	_, body := b.raw("POST", path, form)
	return body
}

func (b *browser) register(username, email, password string) {
	b.t.Helper()
	st, loc := b.status("POST", "/auth/register", url.Values{
		"username":        {username},
		"email":           {email},
		"password":        {password},
		"confirmPassword": {password},
	})
	if st != http.StatusSeeOther || loc != "/dashboard" {
		b.t.Fatalf("expected register redirect to dashboard, got %d %q", st, loc)
	}
}
