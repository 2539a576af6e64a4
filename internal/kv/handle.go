package kv

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/dmitrijs2005/invoicekeeper/internal/dbx"
	"github.com/dmitrijs2005/invoicekeeper/internal/filex"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrations embed.FS

// Supported database/sql driver names.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)

// Options selects the database behind a Handle.
type Options struct {
	Driver string
	DSN    string
}

// Handle is an open store. It embeds the pool-bound Store and adds
// transactional updates on top of it.
type Handle struct {
	Store
	db   *sql.DB
	bind func(dbx.DBTX) Store
}

// Open connects to the configured database, applies the embedded migrations
// for its dialect and returns a ready Handle.
func Open(ctx context.Context, opts Options) (*Handle, error) {
	var (
		dialect goose.Dialect
		dir     string
		bind    func(dbx.DBTX) Store
	)

	switch opts.Driver {
	case DriverSQLite, "":
		opts.Driver = DriverSQLite
		dialect, dir = goose.DialectSQLite3, "migrations/sqlite"
		bind = func(db dbx.DBTX) Store { return NewSQLiteStore(db) }
	case DriverPostgres:
		dialect, dir = goose.DialectPostgres, "migrations/postgres"
		bind = func(db dbx.DBTX) Store { return NewPostgresStore(db) }
	default:
		return nil, fmt.Errorf("unsupported driver %q", opts.Driver)
	}

	if opts.Driver == DriverSQLite {
		if err := filex.EnsureParentDir(filex.SQLitePath(opts.DSN)); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open(opts.Driver, opts.DSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	if opts.Driver == DriverSQLite {
		// one writer at a time; also keeps a :memory: database alive on a single connection
		db.SetMaxOpenConns(1)
	}

	if err := RunMigrations(ctx, db, dialect, dir); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	return &Handle{Store: bind(db), db: db, bind: bind}, nil
}

// OpenMemory returns a fresh private in-memory SQLite store.
func OpenMemory(ctx context.Context) (*Handle, error) {
	return Open(ctx, Options{Driver: DriverSQLite, DSN: ":memory:"})
}

// RunMigrations applies the migrations found under dir of the embedded
// migration tree. Already applied versions are skipped.
func RunMigrations(ctx context.Context, db *sql.DB, dialect goose.Dialect, dir string) error {
	fsys, err := fs.Sub(migrations, dir)
	if err != nil {
		return err
	}
	provider, err := goose.NewProvider(dialect, db, fsys)
	if err != nil {
		return err
	}
	_, err = provider.Up(ctx)
	return err
}

// Update runs fn against a store bound to a single transaction. Everything fn
// writes is committed together, or nothing is when fn fails. fn must not use
// the Handle itself: with SQLite the pool has a single connection and the
// transaction already holds it.
func (h *Handle) Update(ctx context.Context, fn func(ctx context.Context, s Store) error) error {
	return dbx.WithTx(ctx, h.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, h.bind(tx))
	})
}

// DB exposes the underlying pool.
func (h *Handle) DB() *sql.DB {
	return h.db
}

func (h *Handle) Close() error {
	return h.db.Close()
}
