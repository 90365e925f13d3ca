package store

import "context"

// ConversationSetting is a per-conversation flag, e.g. whether group
// reminders mention everyone.
type ConversationSetting struct {
	ConversationKey string
	Name            string
	Value           string
}

// FindConversationSetting is the find condition for conversation settings.
type FindConversationSetting struct {
	ConversationKey string
	Name            string
}

// Well-known setting names.
const (
	SettingMentionAll = "mention_all"
)

// UpsertConversationSetting creates or replaces a conversation setting.
func (s *Store) UpsertConversationSetting(ctx context.Context, upsert *ConversationSetting) (*ConversationSetting, error) {
	return s.driver.UpsertConversationSetting(ctx, upsert)
}

// GetConversationSetting returns a setting, or nil when unset.
func (s *Store) GetConversationSetting(ctx context.Context, find *FindConversationSetting) (*ConversationSetting, error) {
	return s.driver.GetConversationSetting(ctx, find)
}
