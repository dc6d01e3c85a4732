package config // package config loads application configuration from environment variables

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable named in its envconfig tag.
type Config struct {
	Env  string `envconfig:"APP_ENV" default:"dev"`   // application environment (dev/test/prod)
	Port string `envconfig:"APP_PORT" default:"3001"` // HTTP port to listen on

	DBDriver string `envconfig:"DB_DRIVER" default:"mysql"` // mysql | sqlite
	DBUser   string `envconfig:"DB_USER"`
	DBPass   string `envconfig:"DB_PASS"` // empty allowed
	DBHost   string `envconfig:"DB_HOST" default:"127.0.0.1"`
	DBPort   string `envconfig:"DB_PORT" default:"3306"`
	DBName   string `envconfig:"DB_NAME" default:"lodging"`
	DBPath   string `envconfig:"DB_PATH" default:"lodging.db"` // sqlite file, or :memory:

	JWTSecret       string `envconfig:"JWT_SECRET" required:"true"`
	SessionTTLHours int    `envconfig:"SESSION_TTL_HOURS" default:"24"`
	CookieSecure    bool   `envconfig:"COOKIE_SECURE" default:"false"`
	BcryptCost      int    `envconfig:"BCRYPT_COST" default:"10"`

	AdminEmail        string `envconfig:"ADMIN_EMAIL" default:"admin@lodging.com"`
	AdminPassword     string `envconfig:"ADMIN_PASSWORD"`      // plain, for local setups
	AdminPasswordHash string `envconfig:"ADMIN_PASSWORD_HASH"` // bcrypt, preferred

	CORSOrigins []string `envconfig:"CORS_ORIGINS" default:"http://localhost:3000"`
	Timezone    string   `envconfig:"CALENDAR_TZ" default:"UTC"` // zone that decides "today"

	RabbitURL     string `envconfig:"RABBITMQ_URL"`
	EventsEnabled bool   `envconfig:"EVENTS_ENABLED" default:"false"`
	EventLogPath  string `envconfig:"EVENT_LOG_PATH" default:"logs/booking.log"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`
}

// LoadDotEnv loads variables from the given files into the process
// environment.  Missing files are skipped and variables that are already set
// win over file contents.
func LoadDotEnv(files ...string) error {
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// Load reads configuration values from environment variables and returns a
// Config.  Missing required variables and invalid values are returned as an
// error so that main can decide how to exit.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	if strings.TrimSpace(cfg.JWTSecret) == "" {
		return Config{}, errors.New("missing required env var: JWT_SECRET")
	}
	cfg.DBDriver = strings.ToLower(strings.TrimSpace(cfg.DBDriver))
	switch cfg.DBDriver {
	case "mysql":
		if cfg.DBUser == "" {
			return Config{}, errors.New("missing required env var: DB_USER")
		}
	case "sqlite":
	default:
		return Config{}, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	if cfg.AdminPassword == "" && cfg.AdminPasswordHash == "" {
		return Config{}, errors.New("missing required env var: ADMIN_PASSWORD_HASH or ADMIN_PASSWORD")
	}
	if cfg.SessionTTLHours <= 0 {
		cfg.SessionTTLHours = 24
	}
	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return Config{}, fmt.Errorf("invalid CALENDAR_TZ %q: %w", cfg.Timezone, err)
	}
	return cfg, nil
}

// SessionTTL is the lifetime of the session cookie and its token.
func (c Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLHours) * time.Hour
}

// Location returns the calendar zone.  Load has already validated it.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
