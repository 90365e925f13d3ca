package store

import (
	"context"
	"database/sql"
)

// Driver is an interface for store driver.
// It contains all methods that store database driver should implement.
type Driver interface {
	GetDB() *sql.DB
	Close() error

	IsInitialized(ctx context.Context) (bool, error)
	Migrate(ctx context.Context) error

	// Todo model related methods.
	CreateTodo(ctx context.Context, create *Todo) (*Todo, error)
	ListTodos(ctx context.Context, find *FindTodo) ([]*Todo, error)
	UpdateTodo(ctx context.Context, update *UpdateTodo) error
	DeleteTodos(ctx context.Context, delete *DeleteTodo) (int, error)
	ListConversationKeys(ctx context.Context) ([]string, error)

	// ConversationSetting model related methods.
	UpsertConversationSetting(ctx context.Context, upsert *ConversationSetting) (*ConversationSetting, error)
	GetConversationSetting(ctx context.Context, find *FindConversationSetting) (*ConversationSetting, error)
}
