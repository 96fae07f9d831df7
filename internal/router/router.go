package router

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "virtual-pets/docs"
	"virtual-pets/internal/adapters/auth/session"
	mem "virtual-pets/internal/adapters/storage/memory"
	pg "virtual-pets/internal/adapters/storage/postgres"
	"virtual-pets/internal/domain/pets"
	"virtual-pets/internal/domain/users"
	"virtual-pets/internal/middleware"
	"virtual-pets/internal/platform/logger"
	"virtual-pets/internal/platform/metrics"
	"virtual-pets/internal/ports/auth"
	"virtual-pets/internal/web"
)

const (
	storagePostgres = "postgres"
	storageMemory   = "in-memory"
)

type Options struct {
	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	Logger logger.Logger

	// Puede ser nil: se usa un manager con secret aleatorio (solo dev/tests).
	Sessions auth.SessionManager

	// Directorio servido en /images/. Vacío => no se monta.
	ImagesDir string
}

func NewRouter(opts Options) (http.Handler, error) {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	sessions := opts.Sessions
	if sessions == nil {
		sessions = session.NewManager(session.Config{Secret: uuid.NewString()})
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(chimw.Recoverer)
	r.Use(metrics.Instrument)

	r.Use(middleware.AuthContext(sessions))

	var (
		petRepo  pets.Repository
		userRepo users.Repository
		storage  string
	)
	if opts.DB != nil {
		petRepo = pg.NewPetsRepo(opts.DB)
		userRepo = pg.NewUsersRepo(opts.DB)
		storage = storagePostgres
	} else {
		petRepo = mem.NewPetRepo()
		userRepo = mem.NewUserRepo()
		storage = storageMemory
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", metrics.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	if dir := strings.TrimSpace(opts.ImagesDir); dir != "" {
		r.Handle("/images/*", http.StripPrefix("/images/", http.FileServer(http.Dir(dir))))
	}

	// Services por módulo
	petsSvc := pets.NewService(petRepo).WithCareObserver(observeCare)
	usersSvc := users.NewService(userRepo)

	// Rutas por módulo
	pets.RegisterRoutes(r, petsSvc, usersSvc, log)
	if err := web.RegisterRoutes(r, web.Deps{
		Pets:     petsSvc,
		Users:    usersSvc,
		Sessions: sessions,
		Log:      log,
		DBStatus: storage,
	}); err != nil {
		return nil, err
	}

	log.Info("router ready", map[string]any{"storage": storage})
	return r, nil
}

// observeCare acota el label de la métrica a las acciones conocidas.
func observeCare(a pets.Action) {
	switch a {
	case pets.ActionFeed, pets.ActionPlay, pets.ActionRest:
		metrics.RecordCareAction(string(a))
	default:
		metrics.RecordCareAction("other")
	}
}
