package db

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"go.opentelemetry.io/otel"
)

//go:embed schema.sql
var schemaSQL string

var tracer = otel.Tracer("github.com/yousefammmar/zenith-flow/internal/db")

// Supported database/sql driver names
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// ErrNotFound is returned when the addressed row does not exist
var ErrNotFound = errors.New("record not found")

// Options configures how the gateway connects
type Options struct {
	Driver string
	DSN    string // empty means the default sqlite file under the data dir

	// Now and NewID are replaced in tests
	Now   func() time.Time
	NewID func() string
}

// DB wraps the database connection
type DB struct {
	*sql.DB
	driver string
	now    func() time.Time
	newID  func() string
}

// New opens the database and initializes the schema
func New(ctx context.Context, opts Options) (*DB, error) {
	driver := opts.Driver
	if driver == "" {
		driver = DriverSQLite
	}

	dsn := opts.DSN
	switch driver {
	case DriverSQLite:
		if dsn == "" {
			path, err := DefaultPath()
			if err != nil {
				return nil, err
			}
			dsn = path
		}
		if !strings.Contains(dsn, "_foreign_keys") {
			dsn += sep(dsn) + "_foreign_keys=on"
		}
	case DriverPostgres:
		if dsn == "" {
			return nil, errors.New("postgres driver requires a dsn")
		}
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if driver == DriverSQLite {
		conn.SetMaxOpenConns(1)
	}

	if _, err := conn.ExecContext(ctx, schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	db := &DB{DB: conn, driver: driver, now: opts.Now, newID: opts.NewID}
	if db.now == nil {
		db.now = time.Now
	}
	if db.newID == nil {
		db.newID = func() string { return uuid.New().String() }
	}
	return db, nil
}

func sep(dsn string) string {
	if strings.Contains(dsn, "?") {
		return "&"
	}
	return "?"
}

// DefaultPath returns the path to the default sqlite database file
func DefaultPath() (string, error) {
	appDir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(appDir, "zenith.db"), nil
}

// DataDir returns the application data directory, creating it if needed
func DataDir() (string, error) {
	// Use XDG data directory or fallback to home directory
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataDir = filepath.Join(home, ".local", "share")
	}

	appDir := filepath.Join(dataDir, "zenith")
	if err := os.MkdirAll(appDir, 0755); err != nil {
		return "", err
	}
	return appDir, nil
}

// rebind rewrites ? placeholders into $n for postgres
func (db *DB) rebind(query string) string {
	if db.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (db *DB) timestamp() time.Time {
	return db.now().UTC()
}

// GetSetting retrieves a setting value by key
func (db *DB) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := db.QueryRowContext(ctx, db.rebind("SELECT value FROM settings WHERE key = ?"), key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

// SetSetting sets a setting value
func (db *DB) SetSetting(ctx context.Context, key, value string) error {
	_, err := db.ExecContext(ctx, db.rebind(`
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`), key, value)
	return err
}

func utcPtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}

func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func affected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
