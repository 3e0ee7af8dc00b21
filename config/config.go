// Package config loads the server settings from the environment.
package config

import (
	"errors"
	"net"
	"net/url"
	"runtime"
	"strings"
	"time"

	auth "github.com/goliatone/go-campus-auth"
	"github.com/goliatone/go-campus-auth/records"
	"github.com/goliatone/go-campus-auth/repository"
)

// ErrMissingSigningKey is returned when JWT_SECRET is unset
var ErrMissingSigningKey = errors.New("config: JWT_SECRET is required")

const defaultSQLiteDSN = "file:campus.db?cache=shared"

type Database struct {
	Driver   string
	DSN      string
	Name     string
	MaxConns int
	Migrate  bool
}

type Config struct {
	Port            string
	SigningKey      string
	PreviousKey     string
	Issuer          string
	TokenTTL        time.Duration
	ShutdownTimeout time.Duration
	DB              Database
	HashConcurrency int
	UseHashid       bool
	ExportTables    []string
	LogLevel        string
	Debug           bool
}

var _ auth.Config = (*Config)(nil)

// Load reads the environment and validates the result
func Load() (*Config, error) {
	cfg := &Config{
		Port:            EnvString("PORT", "3000"),
		SigningKey:      EnvString("JWT_SECRET", ""),
		PreviousKey:     EnvString("JWT_PREVIOUS_SECRET", ""),
		Issuer:          EnvString("JWT_ISSUER", ""),
		TokenTTL:        EnvDuration("TOKEN_TTL", auth.DefaultTokenTTL),
		ShutdownTimeout: EnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		HashConcurrency: EnvInt("HASH_CONCURRENCY", runtime.NumCPU()),
		UseHashid:       EnvBool("STUDENT_HASHID_IDS", false),
		ExportTables:    EnvList("EXPORT_TABLES", records.DefaultExportTables),
		LogLevel:        EnvString("LOG_LEVEL", "info"),
		Debug:           EnvBool("DEBUG", false),
		DB: Database{
			Driver:   strings.ToLower(EnvString("DB_DRIVER", repository.DriverSQLite)),
			Name:     EnvString("DB_DATABASE", "campus"),
			MaxConns: EnvInt("DB_MAX_CONNS", 10),
			Migrate:  EnvBool("DB_MIGRATE", true),
		},
	}

	cfg.DB.DSN = EnvString("DB_DSN", "")
	if cfg.DB.DSN == "" {
		cfg.DB.DSN = defaultDSN(cfg.DB)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings that have no sane default
func (c *Config) Validate() error {
	if c.SigningKey == "" {
		return ErrMissingSigningKey
	}
	switch c.DB.Driver {
	case repository.DriverSQLite, repository.DriverPostgres:
	default:
		return errors.New("config: DB_DRIVER must be sqlite or postgres")
	}
	return nil
}

func defaultDSN(db Database) string {
	if db.Driver != repository.DriverPostgres {
		return defaultSQLiteDSN
	}

	u := url.URL{
		Scheme:   "postgres",
		Host:     net.JoinHostPort(EnvString("DB_HOST", "localhost"), EnvString("DB_PORT", "5432")),
		Path:     "/" + db.Name,
		RawQuery: "sslmode=" + EnvString("DB_SSLMODE", "disable"),
	}
	user := EnvString("DB_USER", "")
	if pass := EnvString("DB_PASSWORD", ""); pass != "" {
		u.User = url.UserPassword(user, pass)
	} else if user != "" {
		u.User = url.User(user)
	}
	return u.String()
}

// Addr is the listen address
func (c *Config) Addr() string {
	return ":" + c.Port
}

// RepositoryOptions maps the database settings for repository.Open
func (c *Config) RepositoryOptions() repository.Options {
	return repository.Options{
		Driver:       c.DB.Driver,
		DSN:          c.DB.DSN,
		MaxOpenConns: c.DB.MaxConns,
	}
}

func (c *Config) GetSigningKey() string {
	return c.SigningKey
}

func (c *Config) GetTokenExpiration() time.Duration {
	return c.TokenTTL
}

func (c *Config) GetIssuer() string {
	return c.Issuer
}

func (c *Config) GetContextKey() string {
	return "user"
}

func (c *Config) GetTokenLookup() string {
	return "header:Authorization"
}

func (c *Config) GetAuthScheme() string {
	return "Bearer"
}
