package store

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Todo is the object representing a todo item. Timestamps are Unix seconds;
// optional instants are nil when unset.
type Todo struct {
	ID              string
	ConversationKey string
	Content         string
	CreatedTs       int64
	DeadlineTs      *int64
	Done            bool
	DoneTs          *int64
	Reminded        bool
	ReminderTs      *int64 // custom reminder, independent of the deadline
}

// FindTodo is the find condition for todos.
type FindTodo struct {
	ID              *string
	ConversationKey *string
	Done            *bool
	Limit           *int
}

// UpdateTodo is the update request for a todo. Nil fields are left untouched;
// the Clear flags reset the corresponding optional instant.
type UpdateTodo struct {
	ID            string
	Content       *string
	DeadlineTs    *int64
	Done          *bool
	DoneTs        *int64
	Reminded      *bool
	ReminderTs    *int64
	ClearReminder bool
}

// DeleteTodo is the delete request for a todo.
type DeleteTodo struct {
	ID              *string
	ConversationKey *string
	Done            *bool
}

// NewTodoID returns a fresh 8-character todo identifier.
func NewTodoID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// CreateTodo creates a new todo.
func (s *Store) CreateTodo(ctx context.Context, create *Todo) (*Todo, error) {
	if create.ID == "" {
		create.ID = NewTodoID()
	}
	if create.CreatedTs == 0 {
		create.CreatedTs = time.Now().Unix()
	}
	return s.driver.CreateTodo(ctx, create)
}

// ListTodos lists todos with filter, ordered by creation time ascending.
func (s *Store) ListTodos(ctx context.Context, find *FindTodo) ([]*Todo, error) {
	return s.driver.ListTodos(ctx, find)
}

// GetTodo gets a single todo, or nil when not found.
func (s *Store) GetTodo(ctx context.Context, find *FindTodo) (*Todo, error) {
	list, err := s.driver.ListTodos(ctx, find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// UpdateTodo updates a todo.
func (s *Store) UpdateTodo(ctx context.Context, update *UpdateTodo) error {
	return s.driver.UpdateTodo(ctx, update)
}

// DeleteTodos deletes todos matching the request and reports how many rows
// were removed.
func (s *Store) DeleteTodos(ctx context.Context, delete *DeleteTodo) (int, error) {
	return s.driver.DeleteTodos(ctx, delete)
}

// ListConversationKeys returns every conversation key that has todos.
func (s *Store) ListConversationKeys(ctx context.Context) ([]string, error) {
	return s.driver.ListConversationKeys(ctx)
}

// Deadline returns the deadline as a time.Time, or nil when unset.
func (t *Todo) Deadline() *time.Time {
	return unixPtr(t.DeadlineTs)
}

// DoneAt returns the completion instant, or nil.
func (t *Todo) DoneAt() *time.Time {
	return unixPtr(t.DoneTs)
}

// Reminder returns the custom reminder instant, or nil.
func (t *Todo) Reminder() *time.Time {
	return unixPtr(t.ReminderTs)
}

func unixPtr(ts *int64) *time.Time {
	if ts == nil {
		return nil
	}
	t := time.Unix(*ts, 0)
	return &t
}
