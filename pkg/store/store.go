package store

import (
	"context"
	"embed"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver for goose
	"github.com/pressly/goose/v3"

	"github.com/revaer/revaer/pkg/revaerr"
)

// Migrations embeds the goose SQL migration set, consumed both by
// cmd/revaer-migrate and, for test setup, by package tests that want an
// ephemeral schema without shelling out to a CLI.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// singletonID is the fixed, well-known primary key every AppProfile/
// EngineProfile/FsPolicy row is stored and looked up under — these are
// true singletons, never a set.
var singletonID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

// Store owns the connection pool behind every data-access operation in
// this package.
type Store struct {
	pool *pgxpool.Pool
}

// Open connects to Postgres at dsn and returns a ready Store. Connection
// pool acquire is bounded at 10s per spec §5's "configuration pool
// acquire ≤ 10s".
func Open(ctx context.Context, dsn string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, &revaerr.DatabaseError{Operation: "parse_dsn", Source: err}
	}
	cfg.MaxConnLifetime = time.Hour
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, &revaerr.DatabaseError{Operation: "connect", Source: err}
	}
	return &Store{pool: pool}, nil
}

// Pool exposes the underlying pool for pkg/health's DBChecker.
func (s *Store) Pool() *pgxpool.Pool { return s.pool }

// Close releases all pooled connections.
func (s *Store) Close() { s.pool.Close() }

// Migrate runs every pending goose migration embedded in Migrations
// against the store's database.
func Migrate(ctx context.Context, dsn string) error {
	db, err := goose.OpenDBWithDriver("pgx", dsn)
	if err != nil {
		return &revaerr.DatabaseError{Operation: "migrate_open", Source: err}
	}
	defer db.Close()

	goose.SetBaseFS(Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return &revaerr.DatabaseError{Operation: "migrate_dialect", Source: err}
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return &revaerr.DatabaseError{Operation: "migrate_up", Source: err}
	}
	return nil
}

// querier is satisfied by both *pgxpool.Pool and pgx.Tx, letting every
// read/write helper in this package run either standalone or inside
// ApplyInTx without duplicating itself.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgx.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Queries is a handle bound to either the pool or a single transaction;
// every typed data-access method hangs off it.
type Queries struct {
	q querier
}

// Q returns a Queries bound directly to the pool (auto-committing every
// statement), for reads and single-statement writes outside a changeset.
func (s *Store) Q() *Queries { return &Queries{q: s.pool} }

// ApplyInTx runs fn with a Queries bound to a single transaction,
// committing on a nil return and rolling back otherwise. This is the
// only sanctioned way to combine more than one write into one
// revision/notify outcome.
func (s *Store) ApplyInTx(ctx context.Context, fn func(ctx context.Context, q *Queries) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return &revaerr.DatabaseError{Operation: "begin_tx", Source: err}
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op once committed

	if err := fn(ctx, &Queries{q: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return &revaerr.DatabaseError{Operation: "commit_tx", Source: err}
	}
	return nil
}

// wrapDB turns a raw pgx error into a revaerr.DatabaseError, unless it
// is already a typed revaerr error (passed through so callers can
// errors.As against the more specific type, e.g. pgx.ErrNoRows callers
// that want to distinguish "missing" from "database down").
func wrapDB(op string, err error) error {
	if err == nil {
		return nil
	}
	return &revaerr.DatabaseError{Operation: op, Source: err}
}

// ErrNoRows re-exports pgx.ErrNoRows so callers outside this package
// never need to import jackc/pgx/v5 directly just to check for it.
var ErrNoRows = pgx.ErrNoRows

// FormatDSN builds a postgres:// DSN from discrete components, for
// cmd/revaerd and cmd/revaer-migrate's discrete --db-* flags.
func FormatDSN(host string, port int, user, password, dbname, sslmode string) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s", user, password, host, port, dbname, sslmode)
}
