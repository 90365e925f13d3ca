package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/pkg/errors"

	// Import the pure-Go SQLite driver.
	_ "modernc.org/sqlite"

	"github.com/chatodo/chatodo/internal/profile"
	"github.com/chatodo/chatodo/store"
)

type DB struct {
	db      *sql.DB
	profile *profile.Profile
}

// NewDB opens the SQLite database referenced by the profile DSN.
func NewDB(profile *profile.Profile) (store.Driver, error) {
	if profile == nil {
		return nil, errors.New("profile is nil")
	}

	// WAL keeps readers unblocked during the scheduler's periodic writes;
	// busy_timeout covers the occasional writer overlap.
	dsn := profile.DSN + "?_pragma=busy_timeout(10000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open database: %s", profile.DSN)
	}

	// modernc.org/sqlite serializes writes; a single connection avoids
	// SQLITE_BUSY churn entirely.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		return nil, errors.Wrap(err, "failed to ping database")
	}

	return &DB{db: db, profile: profile}, nil
}

func (d *DB) GetDB() *sql.DB {
	return d.db
}

func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) IsInitialized(ctx context.Context) (bool, error) {
	var name string
	err := d.db.QueryRowContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'todo'`,
	).Scan(&name)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(err, "failed to inspect schema")
	}
	return true, nil
}

const schemaDDL = `
CREATE TABLE todo (
	id TEXT PRIMARY KEY,
	conversation_key TEXT NOT NULL,
	content TEXT NOT NULL,
	created_ts BIGINT NOT NULL,
	deadline_ts BIGINT,
	done INTEGER NOT NULL DEFAULT 0,
	done_ts BIGINT,
	reminded INTEGER NOT NULL DEFAULT 0,
	reminder_ts BIGINT
);

CREATE INDEX idx_todo_conversation_key ON todo (conversation_key);

CREATE TABLE conversation_setting (
	conversation_key TEXT NOT NULL,
	name TEXT NOT NULL,
	value TEXT NOT NULL,
	PRIMARY KEY (conversation_key, name)
);
`

func (d *DB) Migrate(ctx context.Context) error {
	if _, err := d.db.ExecContext(ctx, schemaDDL); err != nil {
		return errors.Wrap(err, "failed to apply schema")
	}
	return nil
}

// placeholders returns n SQLite placeholders.
func placeholders(n int) string {
	list := make([]string, n)
	for i := range list {
		list[i] = "?"
	}
	return strings.Join(list, ", ")
}

// placeholder returns the n-th placeholder (SQLite ignores the position).
func placeholder(int) string {
	return "?"
}
