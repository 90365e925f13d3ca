package todo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatodo/chatodo/store"
)

// mockStore is an in-memory implementation of the Store interface.
type mockStore struct {
	todos    []*store.Todo
	settings map[string]string
}

func newMockStore() *mockStore {
	return &mockStore{settings: map[string]string{}}
}

func (m *mockStore) CreateTodo(_ context.Context, create *store.Todo) (*store.Todo, error) {
	if create.ID == "" {
		create.ID = store.NewTodoID()
	}
	m.todos = append(m.todos, create)
	return create, nil
}

func (m *mockStore) ListTodos(_ context.Context, find *store.FindTodo) ([]*store.Todo, error) {
	result := make([]*store.Todo, 0)
	for _, t := range m.todos {
		if find.ID != nil && t.ID != *find.ID {
			continue
		}
		if find.ConversationKey != nil && t.ConversationKey != *find.ConversationKey {
			continue
		}
		if find.Done != nil && t.Done != *find.Done {
			continue
		}
		result = append(result, t)
		if find.Limit != nil && len(result) >= *find.Limit {
			break
		}
	}
	return result, nil
}

func (m *mockStore) UpdateTodo(_ context.Context, update *store.UpdateTodo) error {
	for _, t := range m.todos {
		if t.ID != update.ID {
			continue
		}
		if update.Content != nil {
			t.Content = *update.Content
		}
		if update.DeadlineTs != nil {
			t.DeadlineTs = update.DeadlineTs
		}
		if update.Done != nil {
			t.Done = *update.Done
		}
		if update.DoneTs != nil {
			t.DoneTs = update.DoneTs
		}
		if update.Reminded != nil {
			t.Reminded = *update.Reminded
		}
		if update.ReminderTs != nil {
			t.ReminderTs = update.ReminderTs
		}
		if update.ClearReminder {
			t.ReminderTs = nil
		}
	}
	return nil
}

func (m *mockStore) DeleteTodos(_ context.Context, delete *store.DeleteTodo) (int, error) {
	kept := make([]*store.Todo, 0, len(m.todos))
	removed := 0
	for _, t := range m.todos {
		match := true
		if delete.ID != nil && t.ID != *delete.ID {
			match = false
		}
		if delete.ConversationKey != nil && t.ConversationKey != *delete.ConversationKey {
			match = false
		}
		if delete.Done != nil && t.Done != *delete.Done {
			match = false
		}
		if match {
			removed++
		} else {
			kept = append(kept, t)
		}
	}
	m.todos = kept
	return removed, nil
}

func (m *mockStore) ListConversationKeys(context.Context) ([]string, error) {
	seen := map[string]bool{}
	keys := make([]string, 0)
	for _, t := range m.todos {
		if !seen[t.ConversationKey] {
			seen[t.ConversationKey] = true
			keys = append(keys, t.ConversationKey)
		}
	}
	return keys, nil
}

func (m *mockStore) UpsertConversationSetting(_ context.Context, upsert *store.ConversationSetting) (*store.ConversationSetting, error) {
	m.settings[upsert.ConversationKey+"/"+upsert.Name] = upsert.Value
	return upsert, nil
}

func (m *mockStore) GetConversationSetting(_ context.Context, find *store.FindConversationSetting) (*store.ConversationSetting, error) {
	value, ok := m.settings[find.ConversationKey+"/"+find.Name]
	if !ok {
		return nil, nil
	}
	return &store.ConversationSetting{
		ConversationKey: find.ConversationKey,
		Name:            find.Name,
		Value:           value,
	}, nil
}

// fixedNow is 2026-02-18 10:00 local, a Wednesday.
var fixedNow = time.Date(2026, 2, 18, 10, 0, 0, 0, time.Local)

func newTestService(m *mockStore) *Service {
	svc := NewService(m)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestAddSplitsDeadline(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newMockStore())

	item, err := svc.Add(ctx, "conv1", "明天下午三点 交报告")
	require.NoError(t, err)
	assert.Equal(t, "交报告", item.Content)
	require.NotNil(t, item.DeadlineTs)
	assert.Equal(t, time.Date(2026, 2, 19, 15, 0, 0, 0, time.Local).Unix(), *item.DeadlineTs)
}

func TestAddWithoutDeadline(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newMockStore())

	item, err := svc.Add(ctx, "conv1", "买牛奶")
	require.NoError(t, err)
	assert.Equal(t, "买牛奶", item.Content)
	assert.Nil(t, item.DeadlineTs)
	assert.NotEmpty(t, item.ID)
}

func TestMarkDoneByIndex(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newMockStore())

	first, err := svc.Add(ctx, "conv1", "任务一")
	require.NoError(t, err)
	_, err = svc.Add(ctx, "conv1", "任务二")
	require.NoError(t, err)

	item, err := svc.MarkDone(ctx, "conv1", 1)
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, first.ID, item.ID)
	assert.True(t, item.Done)

	// 完成后未完成列表重新编号
	remaining, err := svc.List(ctx, "conv1", false)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "任务二", remaining[0].Content)

	// 越界序号返回 nil 而不是错误
	item, err = svc.MarkDone(ctx, "conv1", 5)
	require.NoError(t, err)
	assert.Nil(t, item)
}

func TestDeleteByIndex(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newMockStore())

	_, err := svc.Add(ctx, "conv1", "任务一")
	require.NoError(t, err)

	item, err := svc.Delete(ctx, "conv1", 1)
	require.NoError(t, err)
	require.NotNil(t, item)

	remaining, err := svc.List(ctx, "conv1", true)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestHistoryOrderAndLimit(t *testing.T) {
	ctx := context.Background()
	m := newMockStore()
	svc := newTestService(m)

	for i, content := range []string{"旧", "中", "新"} {
		ts := fixedNow.Add(time.Duration(i) * time.Hour).Unix()
		m.todos = append(m.todos, &store.Todo{
			ID: store.NewTodoID(), ConversationKey: "conv1",
			Content: content, Done: true, DoneTs: &ts,
		})
	}

	items, err := svc.History(ctx, "conv1", 2)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "新", items[0].Content)
	assert.Equal(t, "中", items[1].Content)
}

func TestDateWindowQueries(t *testing.T) {
	ctx := context.Background()
	m := newMockStore()
	svc := newTestService(m)

	addWithDeadline := func(content string, deadline time.Time) {
		ts := deadline.Unix()
		m.todos = append(m.todos, &store.Todo{
			ID: store.NewTodoID(), ConversationKey: "conv1",
			Content: content, DeadlineTs: &ts,
		})
	}

	addWithDeadline("已逾期", fixedNow.Add(-2*time.Hour))
	addWithDeadline("今天到期", fixedNow.Add(3*time.Hour))
	addWithDeadline("近几天", fixedNow.AddDate(0, 0, 2))
	addWithDeadline("很远", fixedNow.AddDate(0, 0, 30))
	m.todos = append(m.todos, &store.Todo{
		ID: store.NewTodoID(), ConversationKey: "conv1", Content: "无截止",
	})

	overdue, err := svc.Overdue(ctx, "conv1")
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, "已逾期", overdue[0].Content)

	dueToday, err := svc.DueToday(ctx, "conv1")
	require.NoError(t, err)
	// 已逾期的截止时间也落在今天窗口内
	require.Len(t, dueToday, 2)

	upcoming, err := svc.Upcoming(ctx, "conv1", 3)
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	assert.Equal(t, "近几天", upcoming[0].Content)

	noDeadline, err := svc.NoDeadline(ctx, "conv1")
	require.NoError(t, err)
	require.Len(t, noDeadline, 1)
	assert.Equal(t, "无截止", noDeadline[0].Content)
}

func TestNeedsReminderWindow(t *testing.T) {
	ctx := context.Background()
	m := newMockStore()
	svc := newTestService(m)

	soon := fixedNow.Add(20 * time.Minute).Unix()
	later := fixedNow.Add(2 * time.Hour).Unix()
	m.todos = append(m.todos,
		&store.Todo{ID: "a", ConversationKey: "conv1", Content: "快到期", DeadlineTs: &soon},
		&store.Todo{ID: "b", ConversationKey: "conv1", Content: "还早", DeadlineTs: &later},
		&store.Todo{ID: "c", ConversationKey: "conv1", Content: "已提醒", DeadlineTs: &soon, Reminded: true},
	)

	items, err := svc.NeedsReminder(ctx, "conv1", 30*time.Minute)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "快到期", items[0].Content)

	require.NoError(t, svc.MarkReminded(ctx, "a"))
	items, err = svc.NeedsReminder(ctx, "conv1", 30*time.Minute)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestReminderDueAndClear(t *testing.T) {
	ctx := context.Background()
	m := newMockStore()
	svc := newTestService(m)

	_, err := svc.Add(ctx, "conv1", "复习")
	require.NoError(t, err)

	item, err := svc.SetReminder(ctx, "conv1", 1, fixedNow.Add(-time.Minute))
	require.NoError(t, err)
	require.NotNil(t, item)

	due, err := svc.ReminderDue(ctx, "conv1")
	require.NoError(t, err)
	require.Len(t, due, 1)

	require.NoError(t, svc.ClearReminder(ctx, due[0].ID))
	due, err = svc.ReminderDue(ctx, "conv1")
	require.NoError(t, err)
	assert.Empty(t, due)
}

func TestMentionAllSetting(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newMockStore())

	enabled, err := svc.MentionAll(ctx, "group1")
	require.NoError(t, err)
	assert.False(t, enabled)

	require.NoError(t, svc.SetMentionAll(ctx, "group1", true))
	enabled, err = svc.MentionAll(ctx, "group1")
	require.NoError(t, err)
	assert.True(t, enabled)
}

func TestCounts(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(newMockStore())

	_, err := svc.Add(ctx, "conv1", "一")
	require.NoError(t, err)
	_, err = svc.Add(ctx, "conv1", "二")
	require.NoError(t, err)
	_, err = svc.MarkDone(ctx, "conv1", 1)
	require.NoError(t, err)

	undone, done, err := svc.Counts(ctx, "conv1")
	require.NoError(t, err)
	assert.Equal(t, 1, undone)
	assert.Equal(t, 1, done)
}
