package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/chatodo/chatodo/plugin/timeparse"
)

const upcomingDays = 3

// buildDailyReport assembles the morning report for one conversation. It
// returns an empty string when the conversation has no undone todos.
func (d *Dispatcher) buildDailyReport(ctx context.Context, key string) (string, error) {
	undone, done, err := d.svc.Counts(ctx, key)
	if err != nil {
		return "", fmt.Errorf("failed to count todos: %w", err)
	}
	if undone == 0 {
		return "", nil
	}

	overdue, err := d.svc.Overdue(ctx, key)
	if err != nil {
		return "", fmt.Errorf("failed to query overdue todos: %w", err)
	}
	dueToday, err := d.svc.DueToday(ctx, key)
	if err != nil {
		return "", fmt.Errorf("failed to query due-today todos: %w", err)
	}
	upcoming, err := d.svc.Upcoming(ctx, key, upcomingDays)
	if err != nil {
		return "", fmt.Errorf("failed to query upcoming todos: %w", err)
	}
	noDeadline, err := d.svc.NoDeadline(ctx, key)
	if err != nil {
		return "", fmt.Errorf("failed to query no-deadline todos: %w", err)
	}

	now := d.now()
	lines := []string{"每日待办早报", ""}

	if len(overdue) > 0 {
		lines = append(lines, fmt.Sprintf("[已逾期] (%d 项)：", len(overdue)))
		for _, item := range overdue {
			lines = append(lines, fmt.Sprintf("   - %s (%s)",
				item.Content, timeparse.FormatRelative(item.Deadline(), now)))
		}
		lines = append(lines, "")
	}

	if len(dueToday) > 0 {
		lines = append(lines, fmt.Sprintf("[今日到期] (%d 项)：", len(dueToday)))
		for _, item := range dueToday {
			lines = append(lines, fmt.Sprintf("   - %s (%s)",
				item.Content, timeparse.FormatAbsolute(item.Deadline())))
		}
		lines = append(lines, "")
	}

	if len(upcoming) > 0 {
		lines = append(lines, fmt.Sprintf("[近%d天到期] (%d 项)：", upcomingDays, len(upcoming)))
		for _, item := range upcoming {
			lines = append(lines, fmt.Sprintf("   - %s (%s)",
				item.Content, timeparse.FormatAbsolute(item.Deadline())))
		}
		lines = append(lines, "")
	}

	if len(noDeadline) > 0 {
		lines = append(lines, fmt.Sprintf("[无截止时间] (%d 项)：", len(noDeadline)))
		for _, item := range noDeadline {
			lines = append(lines, fmt.Sprintf("   - %s", item.Content))
		}
		lines = append(lines, "")
	}

	lines = append(lines, fmt.Sprintf("待办总计：未完成 %d 项 | 已完成 %d 项", undone, done))
	return strings.Join(lines, "\n"), nil
}

// OnDailyReport pushes the morning report to every conversation that has
// undone todos. Per-conversation failures are logged and skipped.
func (d *Dispatcher) OnDailyReport(ctx context.Context) error {
	d.logger.Info("开始推送每日早报")
	keys, err := d.svc.ConversationKeys(ctx)
	if err != nil {
		return fmt.Errorf("failed to list conversations: %w", err)
	}

	for _, key := range keys {
		report, err := d.buildDailyReport(ctx, key)
		if err != nil {
			d.logger.Warn("早报生成失败", "key", key, "error", err)
			continue
		}
		if report == "" {
			continue
		}
		if err := d.sender.Send(ctx, key, report, d.mentionAll(ctx, key)); err != nil {
			d.logger.Warn("早报推送失败", "key", key, "error", err)
		}
	}
	return nil
}

// OnReminderCheck pushes deadline reminders for todos entering the advance
// window and fires due custom reminders, clearing them afterwards.
func (d *Dispatcher) OnReminderCheck(ctx context.Context) error {
	keys, err := d.svc.ConversationKeys(ctx)
	if err != nil {
		return fmt.Errorf("failed to list conversations: %w", err)
	}

	now := d.now()
	for _, key := range keys {
		pending, err := d.svc.NeedsReminder(ctx, key, d.advance)
		if err != nil {
			d.logger.Warn("截止提醒查询失败", "key", key, "error", err)
			continue
		}
		for _, item := range pending {
			msg := fmt.Sprintf("待办即将到期提醒\n%s\n截止：%s (%s)",
				item.Content,
				timeparse.FormatAbsolute(item.Deadline()),
				timeparse.FormatRelative(item.Deadline(), now))
			if err := d.sender.Send(ctx, key, msg, d.mentionAll(ctx, key)); err != nil {
				d.logger.Warn("截止提醒发送失败", "key", key, "error", err)
				continue
			}
			if err := d.svc.MarkReminded(ctx, item.ID); err != nil {
				d.logger.Warn("截止提醒状态更新失败", "id", item.ID, "error", err)
			}
		}

		due, err := d.svc.ReminderDue(ctx, key)
		if err != nil {
			d.logger.Warn("自定义提醒查询失败", "key", key, "error", err)
			continue
		}
		for _, item := range due {
			msg := fmt.Sprintf("自定义提醒\n%s", item.Content)
			if deadline := item.Deadline(); deadline != nil {
				msg += fmt.Sprintf("\n截止：%s", timeparse.FormatAbsolute(deadline))
			}
			if err := d.sender.Send(ctx, key, msg, false); err != nil {
				d.logger.Warn("自定义提醒发送失败", "key", key, "error", err)
				continue
			}
			if err := d.svc.ClearReminder(ctx, item.ID); err != nil {
				d.logger.Warn("自定义提醒清理失败", "id", item.ID, "error", err)
			}
		}
	}
	return nil
}

// OnOverdueCheck pushes a summary of overdue todos per conversation.
func (d *Dispatcher) OnOverdueCheck(ctx context.Context) error {
	keys, err := d.svc.ConversationKeys(ctx)
	if err != nil {
		return fmt.Errorf("failed to list conversations: %w", err)
	}

	now := d.now()
	for _, key := range keys {
		overdue, err := d.svc.Overdue(ctx, key)
		if err != nil {
			d.logger.Warn("逾期查询失败", "key", key, "error", err)
			continue
		}
		if len(overdue) == 0 {
			continue
		}

		lines := []string{fmt.Sprintf("你有 %d 条逾期待办：", len(overdue)), ""}
		for _, item := range overdue {
			lines = append(lines, fmt.Sprintf("- %s", item.Content))
			lines = append(lines, fmt.Sprintf("   截止：%s (%s)",
				timeparse.FormatAbsolute(item.Deadline()),
				timeparse.FormatRelative(item.Deadline(), now)))
		}
		if err := d.sender.Send(ctx, key, strings.Join(lines, "\n"), d.mentionAll(ctx, key)); err != nil {
			d.logger.Warn("逾期提醒发送失败", "key", key, "error", err)
		}
	}
	return nil
}
