package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/chatodo/chatodo/store"
)

func (d *DB) CreateTodo(ctx context.Context, create *store.Todo) (*store.Todo, error) {
	fields := []string{
		"id", "conversation_key", "content", "created_ts",
		"deadline_ts", "done", "done_ts", "reminded", "reminder_ts",
	}
	args := []any{
		create.ID, create.ConversationKey, create.Content, create.CreatedTs,
		create.DeadlineTs, create.Done, create.DoneTs, create.Reminded, create.ReminderTs,
	}

	stmt := `INSERT INTO todo (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(args)) + `)`
	if _, err := d.db.ExecContext(ctx, stmt, args...); err != nil {
		return nil, fmt.Errorf("failed to create todo: %w", err)
	}

	return create, nil
}

func (d *DB) ListTodos(ctx context.Context, find *store.FindTodo) ([]*store.Todo, error) {
	where, args := []string{"TRUE"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "todo.id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.ConversationKey; v != nil {
		where, args = append(where, "todo.conversation_key = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.Done; v != nil {
		where, args = append(where, "todo.done = "+placeholder(len(args)+1)), append(args, *v)
	}

	query := `
		SELECT
			id, conversation_key, content, created_ts,
			deadline_ts, done, done_ts, reminded, reminder_ts
		FROM todo
		WHERE ` + strings.Join(where, " AND ") + ` ORDER BY todo.created_ts ASC`

	if find.Limit != nil {
		query = fmt.Sprintf("%s LIMIT %d", query, *find.Limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query todos: %w", err)
	}
	defer rows.Close()

	list := make([]*store.Todo, 0)
	for rows.Next() {
		var todo store.Todo
		if err := rows.Scan(
			&todo.ID,
			&todo.ConversationKey,
			&todo.Content,
			&todo.CreatedTs,
			&todo.DeadlineTs,
			&todo.Done,
			&todo.DoneTs,
			&todo.Reminded,
			&todo.ReminderTs,
		); err != nil {
			return nil, fmt.Errorf("failed to scan todo: %w", err)
		}
		list = append(list, &todo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate todos: %w", err)
	}

	return list, nil
}

func (d *DB) UpdateTodo(ctx context.Context, update *store.UpdateTodo) error {
	set, args := []string{}, []any{}

	if v := update.Content; v != nil {
		set, args = append(set, "content = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.DeadlineTs; v != nil {
		set, args = append(set, "deadline_ts = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Done; v != nil {
		set, args = append(set, "done = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.DoneTs; v != nil {
		set, args = append(set, "done_ts = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.Reminded; v != nil {
		set, args = append(set, "reminded = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := update.ReminderTs; v != nil {
		set, args = append(set, "reminder_ts = "+placeholder(len(args)+1)), append(args, *v)
	}
	if update.ClearReminder {
		set = append(set, "reminder_ts = NULL")
	}
	if len(set) == 0 {
		return nil
	}

	args = append(args, update.ID)
	stmt := `UPDATE todo SET ` + strings.Join(set, ", ") + ` WHERE id = ` + placeholder(len(args))
	if _, err := d.db.ExecContext(ctx, stmt, args...); err != nil {
		return fmt.Errorf("failed to update todo: %w", err)
	}
	return nil
}

func (d *DB) DeleteTodos(ctx context.Context, delete *store.DeleteTodo) (int, error) {
	where, args := []string{"TRUE"}, []any{}

	if v := delete.ID; v != nil {
		where, args = append(where, "id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := delete.ConversationKey; v != nil {
		where, args = append(where, "conversation_key = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := delete.Done; v != nil {
		where, args = append(where, "done = "+placeholder(len(args)+1)), append(args, *v)
	}

	stmt := `DELETE FROM todo WHERE ` + strings.Join(where, " AND ")
	result, err := d.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete todos: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted todos: %w", err)
	}
	return int(affected), nil
}

func (d *DB) ListConversationKeys(ctx context.Context) ([]string, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT DISTINCT conversation_key FROM todo`)
	if err != nil {
		return nil, fmt.Errorf("failed to query conversation keys: %w", err)
	}
	defer rows.Close()

	keys := make([]string, 0)
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan conversation key: %w", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate conversation keys: %w", err)
	}
	return keys, nil
}
