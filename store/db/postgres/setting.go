package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/chatodo/chatodo/store"
)

func (d *DB) UpsertConversationSetting(ctx context.Context, upsert *store.ConversationSetting) (*store.ConversationSetting, error) {
	stmt := `
		INSERT INTO conversation_setting (conversation_key, name, value)
		VALUES ($1, $2, $3)
		ON CONFLICT (conversation_key, name) DO UPDATE SET value = EXCLUDED.value`
	if _, err := d.db.ExecContext(ctx, stmt, upsert.ConversationKey, upsert.Name, upsert.Value); err != nil {
		return nil, fmt.Errorf("failed to upsert conversation setting: %w", err)
	}
	return upsert, nil
}

func (d *DB) GetConversationSetting(ctx context.Context, find *store.FindConversationSetting) (*store.ConversationSetting, error) {
	setting := store.ConversationSetting{
		ConversationKey: find.ConversationKey,
		Name:            find.Name,
	}
	err := d.db.QueryRowContext(ctx,
		`SELECT value FROM conversation_setting WHERE conversation_key = $1 AND name = $2`,
		find.ConversationKey, find.Name,
	).Scan(&setting.Value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get conversation setting: %w", err)
	}
	return &setting, nil
}
