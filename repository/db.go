package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	auth "github.com/goliatone/go-campus-auth"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	migrationsDir = auth.MigrationsDir
)

// Options selects and tunes the database connection
type Options struct {
	Driver       string
	DSN          string
	MaxOpenConns int
	PingTimeout  time.Duration
}

// Open connects to the configured database and wraps it with the
// matching bun dialect.
func Open(ctx context.Context, opts Options) (*bun.DB, error) {
	var (
		sqldb *sql.DB
		err   error
		d     func(*sql.DB) *bun.DB
	)

	switch strings.ToLower(strings.TrimSpace(opts.Driver)) {
	case "", DriverSQLite, "sqlite3":
		sqldb, err = sql.Open(sqliteshim.ShimName, opts.DSN)
		d = func(db *sql.DB) *bun.DB { return bun.NewDB(db, sqlitedialect.New()) }
	case DriverPostgres, "pg", "pgx":
		sqldb, err = sql.Open("pgx", opts.DSN)
		d = func(db *sql.DB) *bun.DB { return bun.NewDB(db, pgdialect.New()) }
	default:
		return nil, fmt.Errorf("unsupported database driver %q", opts.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if opts.MaxOpenConns > 0 {
		sqldb.SetMaxOpenConns(opts.MaxOpenConns)
	}

	timeout := opts.PingTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := sqldb.PingContext(pingCtx); err != nil {
		_ = sqldb.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return d(sqldb), nil
}

// goose keeps its base FS and dialect in package globals
var gooseMu sync.Mutex

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// Migrate applies the embedded migrations using the dialect of db
func Migrate(ctx context.Context, db *bun.DB, logger auth.Logger) error {
	if db == nil {
		return errors.New("migrate: nil database")
	}

	gooseDialect, err := gooseDialectFor(db.Dialect().Name())
	if err != nil {
		return err
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(auth.MigrationsFS())
	goose.SetLogger(&gooseLogger{logger: auth.ResolveLogger("repository.migrate", nil, logger)})
	if err := goose.SetDialect(gooseDialect); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	if err := gooseUpContext(ctx, db.DB, migrationsDir); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func gooseDialectFor(name dialect.Name) (string, error) {
	switch name {
	case dialect.SQLite:
		return "sqlite3", nil
	case dialect.PG:
		return "postgres", nil
	default:
		return "", fmt.Errorf("migrate: unsupported dialect %s", name)
	}
}

type gooseLogger struct {
	logger auth.Logger
}

func (g *gooseLogger) Printf(format string, v ...any) {
	g.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

// Fatalf is only reached from goose command helpers we never call
func (g *gooseLogger) Fatalf(format string, v ...any) {
	g.logger.Error(strings.TrimSpace(fmt.Sprintf(format, v...)))
	panic(fmt.Sprintf(format, v...))
}
