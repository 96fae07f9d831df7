package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

const devSessionSecret = "dev-secret-change-me"

// Config se carga desde env (opcionalmente desde un .env).
type Config struct {
	Port  string `env:"PORT,default=8080"`
	DBDSN string `env:"DB_DSN"` // vacío => storage in-memory

	SessionSecret string        `env:"SESSION_SECRET,default=dev-secret-change-me"`
	SessionTTL    time.Duration `env:"SESSION_TTL,default=24h"`
	CookieSecure  bool          `env:"COOKIE_SECURE,default=false"`

	AutoMigrate bool `env:"AUTO_MIGRATE,default=false"`

	// ImagesDir se sirve en /images/. Vacío => no se sirven imágenes.
	ImagesDir string `env:"IMAGES_DIR,default=public/images"`

	LogLevel  string `env:"LOG_LEVEL,default=info"`
	LogFormat string `env:"LOG_FORMAT,default=text"`
	AppName   string `env:"APP_NAME,default=virtual-pets"`
	Env       string `env:"APP_ENV,default=development"`
}

// Load lee envFile si existe (no es error que falte) y decodifica el entorno.
func Load(envFile string) (Config, error) {
	if envFile = strings.TrimSpace(envFile); envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, err
		}
	}

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Config{}, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c Config) IsProd() bool {
	return c.Env == "production"
}

func (c Config) Addr() string {
	return ":" + strings.TrimPrefix(c.Port, ":")
}

// Validate rechaza el secret de desarrollo en producción.
func (c Config) Validate() error {
	if c.IsProd() && c.SessionSecret == devSessionSecret {
		return errors.New("config: SESSION_SECRET must be set in production")
	}
	if c.SessionTTL <= 0 {
		return errors.New("config: SESSION_TTL must be positive")
	}
	return nil
}

// envdecode no aplica defaults si ninguna variable está seteada.
func (c *Config) applyDefaults() {
	if c.Port == "" {
		c.Port = "8080"
	}
	if c.SessionSecret == "" {
		c.SessionSecret = devSessionSecret
	}
	if c.SessionTTL == 0 {
		c.SessionTTL = 24 * time.Hour
	}
	if c.ImagesDir == "" {
		c.ImagesDir = "public/images"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogFormat == "" {
		c.LogFormat = "text"
	}
	if c.AppName == "" {
		c.AppName = "virtual-pets"
	}
	if c.Env == "" {
		c.Env = "development"
	}
}
