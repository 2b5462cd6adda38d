// Package sqlite implements the repository interfaces using SQLite as the storage backend.
//
// WHY modernc.org/sqlite INSTEAD OF github.com/mattn/go-sqlite3?
// mattn/go-sqlite3 uses CGo, which means you need a C compiler installed and
// cross-compilation becomes painful. modernc.org/sqlite is a pure Go
// translation of the SQLite C code.
//
// WHY sqlx ON TOP OF database/sql?
// sqlx keeps the database/sql API (ExecContext, QueryRowContext, ...) and adds
// GetContext/SelectContext, which scan rows straight into structs using their
// `db:"..."` tags. The course projections join users and embed the owner, and
// sqlx maps the aliased "owner.id" style columns onto the nested struct for us.
//
// SCHEMA:
// The schema lives in migrations/*.sql, embedded into the binary and applied
// by goose when the database is opened. goose records applied versions in
// its own table, so reopening an existing file is a no-op.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	sqlitedriver "modernc.org/sqlite" // registers the "sqlite" driver
	sqlite3 "modernc.org/sqlite/lib"
)

//go:embed migrations/*.sql
var migrations embed.FS

// driverName is the name modernc.org/sqlite registers with database/sql.
const driverName = "sqlite"

// DB wraps a sqlx connection handle and provides repository methods.
// It implements both repository.UserRepository and repository.CourseRepository.
type DB struct {
	conn *sqlx.DB
}

// New opens (creating if needed) the SQLite database at dbPath and brings the
// schema up to date.
//
// dbPath examples:
//   - "data/coursehub.db"  → file-based database (persistent)
//   - ":memory:"           → in-memory database (tests, lost on close)
func New(ctx context.Context, dbPath string, logger *slog.Logger) (*DB, error) {
	conn, err := sqlx.Open(driverName, dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// ONE CONNECTION:
	// Every new connection to ":memory:" gets its own empty database, so the
	// pool must never open a second one. For file databases it also means
	// writes are serialised, which is what SQLite does anyway.
	conn.SetMaxOpenConns(1)

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	if err := migrate(ctx, conn.DB, logger); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return &DB{conn: conn}, nil
}

// NewFromConn wraps an already-open connection without running migrations.
// Tests use it with go-sqlmock.
func NewFromConn(conn *sql.DB) *DB {
	return &DB{conn: sqlx.NewDb(conn, driverName)}
}

// Close releases the underlying connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// dsn appends the connection pragmas modernc.org/sqlite understands:
// foreign keys are off by default in SQLite, WAL lets readers proceed during
// a write, and _time_format makes DATETIME columns round-trip as time.Time.
func dsn(dbPath string) string {
	sep := "?"
	if strings.ContainsRune(dbPath, '?') {
		sep = "&"
	}
	return dbPath + sep + "_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_time_format=sqlite"
}

func migrate(ctx context.Context, conn *sql.DB, logger *slog.Logger) error {
	goose.SetLogger(slog.NewLogLogger(logger.Handler(), slog.LevelDebug))
	goose.SetBaseFS(migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("setting migration dialect: %w", err)
	}
	return goose.UpContext(ctx, conn, "migrations")
}

// isUniqueViolation reports whether err is SQLite rejecting a duplicate
// value in a UNIQUE column.
func isUniqueViolation(err error) bool {
	var sqliteErr *sqlitedriver.Error
	return errors.As(err, &sqliteErr) && sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}
