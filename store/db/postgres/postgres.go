package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	// Import the PostgreSQL driver.
	_ "github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/chatodo/chatodo/internal/profile"
	"github.com/chatodo/chatodo/store"
)

type DB struct {
	db      *sql.DB
	profile *profile.Profile
}

// NewDB opens a PostgreSQL connection using the profile DSN.
func NewDB(profile *profile.Profile) (store.Driver, error) {
	if profile == nil {
		return nil, errors.New("profile is nil")
	}

	db, err := sql.Open("postgres", profile.DSN)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open database: %s", profile.DSN)
	}

	// Conservative pool sizing: a single bot instance with a couple of
	// background loops never needs more.
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(2 * time.Hour)
	db.SetConnMaxIdleTime(15 * time.Minute)

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
	var exists bool
	err := d.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = 'todo')`,
	).Scan(&exists)
	if err != nil {
		return false, errors.Wrap(err, "failed to inspect schema")
	}
	return exists, nil
}

const schemaDDL = `
CREATE TABLE todo (
	id TEXT PRIMARY KEY,
	conversation_key TEXT NOT NULL,
	content TEXT NOT NULL,
	created_ts BIGINT NOT NULL,
	deadline_ts BIGINT,
	done BOOLEAN NOT NULL DEFAULT FALSE,
	done_ts BIGINT,
	reminded BOOLEAN NOT NULL DEFAULT FALSE,
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

// placeholder returns the n-th PostgreSQL placeholder ($1, $2, ...).
func placeholder(n int) string {
	return fmt.Sprintf("$%d", n)
}

// placeholders returns n PostgreSQL placeholders.
func placeholders(n int) string {
	list := make([]string, n)
	for i := range list {
		list[i] = placeholder(i + 1)
	}
	return strings.Join(list, ", ")
}
