// Package todo provides the business operations over stored todo items:
// adding with natural-language deadline extraction, listing, completion,
// reminder bookkeeping, and the date-window queries the background loops
// are built on.
package todo

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/chatodo/chatodo/plugin/timeparse"
	"github.com/chatodo/chatodo/store"
)

// Store is the interface for store operations needed by the todo service.
type Store interface {
	CreateTodo(ctx context.Context, create *store.Todo) (*store.Todo, error)
	ListTodos(ctx context.Context, find *store.FindTodo) ([]*store.Todo, error)
	UpdateTodo(ctx context.Context, update *store.UpdateTodo) error
	DeleteTodos(ctx context.Context, delete *store.DeleteTodo) (int, error)
	ListConversationKeys(ctx context.Context) ([]string, error)
	UpsertConversationSetting(ctx context.Context, upsert *store.ConversationSetting) (*store.ConversationSetting, error)
	GetConversationSetting(ctx context.Context, find *store.FindConversationSetting) (*store.ConversationSetting, error)
}

// Service implements todo operations on top of a Store.
type Service struct {
	store    Store
	splitter timeparse.Splitter
	now      func() time.Time
}

// NewService creates a new todo service.
func NewService(store Store) *Service {
	return &Service{
		store:    store,
		splitter: timeparse.NewPrefixSplitter(),
		now:      time.Now,
	}
}

// Add creates a todo from free text. A leading time expression becomes the
// deadline; the remainder is the content.
func (s *Service) Add(ctx context.Context, key string, text string) (*store.Todo, error) {
	content, deadline := s.splitter.Split(text, s.now())

	create := &store.Todo{
		ConversationKey: key,
		Content:         content,
		CreatedTs:       s.now().Unix(),
	}
	if deadline != nil {
		ts := deadline.Unix()
		create.DeadlineTs = &ts
	}
	return s.store.CreateTodo(ctx, create)
}

// List returns the conversation's todos, oldest first. Completed items are
// included only when includeDone is set.
func (s *Service) List(ctx context.Context, key string, includeDone bool) ([]*store.Todo, error) {
	find := &store.FindTodo{ConversationKey: &key}
	if !includeDone {
		undone := false
		find.Done = &undone
	}
	return s.store.ListTodos(ctx, find)
}

// MarkDone completes the index-th undone todo (1-based). Returns nil when
// the index is out of range.
func (s *Service) MarkDone(ctx context.Context, key string, index int) (*store.Todo, error) {
	target, err := s.undoneAt(ctx, key, index)
	if err != nil || target == nil {
		return nil, err
	}

	done := true
	doneTs := s.now().Unix()
	if err := s.store.UpdateTodo(ctx, &store.UpdateTodo{
		ID:     target.ID,
		Done:   &done,
		DoneTs: &doneTs,
	}); err != nil {
		return nil, fmt.Errorf("failed to mark todo done: %w", err)
	}
	target.Done = true
	target.DoneTs = &doneTs
	return target, nil
}

// Delete removes the index-th undone todo (1-based). Returns nil when the
// index is out of range.
func (s *Service) Delete(ctx context.Context, key string, index int) (*store.Todo, error) {
	target, err := s.undoneAt(ctx, key, index)
	if err != nil || target == nil {
		return nil, err
	}
	if _, err := s.store.DeleteTodos(ctx, &store.DeleteTodo{ID: &target.ID}); err != nil {
		return nil, fmt.Errorf("failed to delete todo: %w", err)
	}
	return target, nil
}

// DeleteAllUndone removes every undone todo and reports how many were
// removed.
func (s *Service) DeleteAllUndone(ctx context.Context, key string) (int, error) {
	undone := false
	return s.store.DeleteTodos(ctx, &store.DeleteTodo{ConversationKey: &key, Done: &undone})
}

// History returns completed todos, most recently completed first, capped at
// limit.
func (s *Service) History(ctx context.Context, key string, limit int) ([]*store.Todo, error) {
	done := true
	items, err := s.store.ListTodos(ctx, &store.FindTodo{ConversationKey: &key, Done: &done})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool {
		return doneTsOrZero(items[i]) > doneTsOrZero(items[j])
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

// ClearHistory removes all completed todos and reports how many were
// removed.
func (s *Service) ClearHistory(ctx context.Context, key string) (int, error) {
	done := true
	return s.store.DeleteTodos(ctx, &store.DeleteTodo{ConversationKey: &key, Done: &done})
}

// SetReminder attaches a custom reminder instant to the index-th undone
// todo (1-based). Returns nil when the index is out of range.
func (s *Service) SetReminder(ctx context.Context, key string, index int, at time.Time) (*store.Todo, error) {
	target, err := s.undoneAt(ctx, key, index)
	if err != nil || target == nil {
		return nil, err
	}

	ts := at.Unix()
	if err := s.store.UpdateTodo(ctx, &store.UpdateTodo{ID: target.ID, ReminderTs: &ts}); err != nil {
		return nil, fmt.Errorf("failed to set reminder: %w", err)
	}
	target.ReminderTs = &ts
	return target, nil
}

// MarkReminded records that the deadline reminder for a todo has fired.
func (s *Service) MarkReminded(ctx context.Context, id string) error {
	reminded := true
	return s.store.UpdateTodo(ctx, &store.UpdateTodo{ID: id, Reminded: &reminded})
}

// ClearReminder removes a fired custom reminder.
func (s *Service) ClearReminder(ctx context.Context, id string) error {
	return s.store.UpdateTodo(ctx, &store.UpdateTodo{ID: id, ClearReminder: true})
}

// Counts returns the number of undone and done todos.
func (s *Service) Counts(ctx context.Context, key string) (undone int, done int, err error) {
	items, err := s.store.ListTodos(ctx, &store.FindTodo{ConversationKey: &key})
	if err != nil {
		return 0, 0, err
	}
	for _, item := range items {
		if item.Done {
			done++
		} else {
			undone++
		}
	}
	return undone, done, nil
}

// ConversationKeys returns every conversation that has todos.
func (s *Service) ConversationKeys(ctx context.Context) ([]string, error) {
	return s.store.ListConversationKeys(ctx)
}

// SetMentionAll toggles whether group reminders mention everyone.
func (s *Service) SetMentionAll(ctx context.Context, key string, enabled bool) error {
	value := "false"
	if enabled {
		value = "true"
	}
	_, err := s.store.UpsertConversationSetting(ctx, &store.ConversationSetting{
		ConversationKey: key,
		Name:            store.SettingMentionAll,
		Value:           value,
	})
	return err
}

// MentionAll reports whether group reminders mention everyone.
func (s *Service) MentionAll(ctx context.Context, key string) (bool, error) {
	setting, err := s.store.GetConversationSetting(ctx, &store.FindConversationSetting{
		ConversationKey: key,
		Name:            store.SettingMentionAll,
	})
	if err != nil {
		return false, err
	}
	return setting != nil && setting.Value == "true", nil
}

// DueToday returns undone todos whose deadline falls on the current day.
func (s *Service) DueToday(ctx context.Context, key string) ([]*store.Todo, error) {
	now := s.now()
	start := startOfDay(now).Unix()
	end := endOfDay(now).Unix()
	return s.filterUndone(ctx, key, func(t *store.Todo) bool {
		return t.DeadlineTs != nil && start <= *t.DeadlineTs && *t.DeadlineTs <= end
	})
}

// Overdue returns undone todos whose deadline has passed.
func (s *Service) Overdue(ctx context.Context, key string) ([]*store.Todo, error) {
	now := s.now().Unix()
	return s.filterUndone(ctx, key, func(t *store.Todo) bool {
		return t.DeadlineTs != nil && *t.DeadlineTs < now
	})
}

// Upcoming returns undone todos due within the next days days, excluding
// today.
func (s *Service) Upcoming(ctx context.Context, key string, days int) ([]*store.Todo, error) {
	now := s.now()
	todayEnd := endOfDay(now).Unix()
	horizon := now.AddDate(0, 0, days).Unix()
	return s.filterUndone(ctx, key, func(t *store.Todo) bool {
		return t.DeadlineTs != nil && todayEnd < *t.DeadlineTs && *t.DeadlineTs <= horizon
	})
}

// NoDeadline returns undone todos without a deadline.
func (s *Service) NoDeadline(ctx context.Context, key string) ([]*store.Todo, error) {
	return s.filterUndone(ctx, key, func(t *store.Todo) bool {
		return t.DeadlineTs == nil
	})
}

// NeedsReminder returns undone, not-yet-reminded todos whose deadline falls
// within the advance window from now.
func (s *Service) NeedsReminder(ctx context.Context, key string, advance time.Duration) ([]*store.Todo, error) {
	now := s.now().Unix()
	threshold := s.now().Add(advance).Unix()
	return s.filterUndone(ctx, key, func(t *store.Todo) bool {
		return !t.Reminded && t.DeadlineTs != nil && now <= *t.DeadlineTs && *t.DeadlineTs <= threshold
	})
}

// ReminderDue returns undone todos whose custom reminder time has arrived.
func (s *Service) ReminderDue(ctx context.Context, key string) ([]*store.Todo, error) {
	now := s.now().Unix()
	return s.filterUndone(ctx, key, func(t *store.Todo) bool {
		return t.ReminderTs != nil && *t.ReminderTs <= now
	})
}

func (s *Service) filterUndone(ctx context.Context, key string, keep func(*store.Todo) bool) ([]*store.Todo, error) {
	undone := false
	items, err := s.store.ListTodos(ctx, &store.FindTodo{ConversationKey: &key, Done: &undone})
	if err != nil {
		return nil, err
	}
	result := make([]*store.Todo, 0, len(items))
	for _, item := range items {
		if keep(item) {
			result = append(result, item)
		}
	}
	return result, nil
}

// undoneAt returns the index-th undone todo (1-based), or nil when out of
// range.
func (s *Service) undoneAt(ctx context.Context, key string, index int) (*store.Todo, error) {
	undone := false
	items, err := s.store.ListTodos(ctx, &store.FindTodo{ConversationKey: &key, Done: &undone})
	if err != nil {
		return nil, err
	}
	if index < 1 || index > len(items) {
		return nil, nil
	}
	return items[index-1], nil
}

func doneTsOrZero(t *store.Todo) int64 {
	if t.DoneTs == nil {
		return 0
	}
	return *t.DoneTs
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}
