package storage

import (
	"context"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // Registers the sqlite driver
)

func init() {
	// modernc registers as "sqlite", which sqlx does not know.
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// Error reports a failure of the underlying storage medium.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return "storage: " + e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}

// DB represents a wrapper around the SQL database connection.
// It is opened and closed once per command invocation.
type DB struct {
	conn *sqlx.DB
	now  func() time.Time
}

// Open creates a new database connection and ensures the schema is up to date.
// A path that does not exist yet yields an empty store.
func Open(dsn string) (*DB, error) {
	if err := ensureDir(dsn); err != nil {
		return nil, wrap("create database directory", err)
	}

	conn, err := sqlx.Open("sqlite", withPragmas(dsn))
	if err != nil {
		return nil, wrap("open database", err)
	}
	// A single connection serialises writes and keeps :memory: databases intact.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, wrap("connect to database", err)
	}

	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, wrap("apply schema", err)
	}

	slog.Debug("database opened", "dsn", dsn)
	return &DB{conn: conn, now: time.Now}, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return wrap("close database", db.conn.Close())
}

// Count returns the number of stored cards.
func (db *DB) Count(ctx context.Context) (int, error) {
	var n int
	if err := db.conn.GetContext(ctx, &n, `SELECT COUNT(*) FROM cards`); err != nil {
		return 0, wrap("count cards", err)
	}
	return n, nil
}

func ensureDir(dsn string) error {
	if dsn == ":memory:" || strings.HasPrefix(dsn, "file:") {
		return nil
	}
	dir := filepath.Dir(dsn)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func withPragmas(dsn string) string {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=busy_timeout(5000)"
}

// toUnix and fromUnix convert between time.Time and float seconds since the
// epoch, at microsecond precision so values survive a round trip exactly.
func toUnix(t time.Time) float64 {
	return float64(t.UnixMicro()) / 1e6
}

func fromUnix(sec float64) time.Time {
	return time.UnixMicro(int64(math.Round(sec * 1e6)))
}
