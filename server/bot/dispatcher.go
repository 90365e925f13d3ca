package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/chatodo/chatodo/plugin/timeparse"
)

const historyLimit = 20

const helpText = `使用帮助

基础指令：

/todo add [截止时间] <内容>
   添加待办事项
   示例：/todo add 明天下午三点 交报告

/todo list
   查看未完成的待办列表

/todo done <序号>
   标记某条待办为已完成

/todo del <序号>
   删除某条待办

/todo del_all
   删除所有未完成的待办

/todo history
   查看已完成记录（最近20条）

/todo history_clear
   清空所有已完成记录

/todo remind <序号> <时间>
   设置自定义提醒（仅私聊）

/todo report
   立即推送一次早报到当前会话

/todo at_all y/n
   设置群聊提醒是否@全体成员（仅群聊）

支持的时间格式：
   标准格式：2026-02-20 18:00
   中文日期：明天、后天、3天后、下周一
   中文时间：下午三点、晚上8点半
   组合使用：明天下午三点、后天晚上8点`

// Dispatch handles one inbound message. It returns the reply text, or an
// empty string when the message is not a todo command. private marks direct
// conversations as opposed to group chats.
func (d *Dispatcher) Dispatch(ctx context.Context, key string, text string, private bool) (string, error) {
	fields := strings.Fields(text)
	if len(fields) == 0 || fields[0] != "/todo" {
		return "", nil
	}
	if !d.allow(key) {
		return "操作太频繁，请稍后再试。", nil
	}
	if len(fields) == 1 {
		return helpText, nil
	}

	sub, args := fields[1], fields[2:]
	switch sub {
	case "add":
		return d.handleAdd(ctx, key, args, private)
	case "list":
		return d.handleList(ctx, key)
	case "done":
		return d.handleDone(ctx, key, args)
	case "del":
		return d.handleDelete(ctx, key, args)
	case "del_all":
		return d.handleDeleteAll(ctx, key)
	case "history":
		return d.handleHistory(ctx, key)
	case "history_clear":
		return d.handleHistoryClear(ctx, key)
	case "remind":
		return d.handleRemind(ctx, key, args, private)
	case "report":
		return d.handleReport(ctx, key)
	case "at_all":
		return d.handleMentionAll(ctx, key, args, private)
	case "help":
		return helpText, nil
	default:
		return "未知指令，请使用 /todo help 查看帮助。", nil
	}
}

func (d *Dispatcher) handleAdd(ctx context.Context, key string, args []string, private bool) (string, error) {
	if len(args) == 0 {
		return "请输入待办内容。\n示例：/todo add 明天下午三点 交报告", nil
	}

	item, err := d.svc.Add(ctx, key, strings.Join(args, " "))
	if err != nil {
		return "", fmt.Errorf("failed to add todo: %w", err)
	}

	items, err := d.svc.List(ctx, key, false)
	if err != nil {
		return "", fmt.Errorf("failed to list todos: %w", err)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "待办已添加 (序号 %d)\n%s", len(items), item.Content)
	if deadline := item.Deadline(); deadline != nil {
		fmt.Fprintf(&sb, "\n截止：%s", timeparse.FormatAbsolute(deadline))
		if private {
			fmt.Fprintf(&sb, "\n将在截止前 %d 分钟提醒", int(d.advance.Minutes()))
		}
	} else {
		sb.WriteString("\n未设置截止时间")
	}

	sb.WriteString("\n\n当前待办列表：")
	for idx, it := range items {
		fmt.Fprintf(&sb, "\n%d. %s", idx+1, it.Content)
		if deadline := it.Deadline(); deadline != nil {
			fmt.Fprintf(&sb, " (%s)", timeparse.FormatAbsolute(deadline))
		}
		if it.ID == item.ID {
			sb.WriteString(" <-- 新增")
		}
	}
	return sb.String(), nil
}

func (d *Dispatcher) handleList(ctx context.Context, key string) (string, error) {
	items, err := d.svc.List(ctx, key, false)
	if err != nil {
		return "", fmt.Errorf("failed to list todos: %w", err)
	}
	if len(items) == 0 {
		return "暂无待办事项！", nil
	}

	now := d.now()
	lines := []string{"待办事项列表：", ""}
	for idx, item := range items {
		line := fmt.Sprintf("%d. %s", idx+1, item.Content)
		if deadline := item.Deadline(); deadline != nil {
			line += fmt.Sprintf("\n   %s (%s)",
				timeparse.FormatAbsolute(deadline),
				timeparse.FormatRelative(deadline, now))
		}
		lines = append(lines, line)
	}

	undone, done, err := d.svc.Counts(ctx, key)
	if err != nil {
		return "", fmt.Errorf("failed to count todos: %w", err)
	}
	lines = append(lines, fmt.Sprintf("\n未完成 %d 项 | 已完成 %d 项", undone, done))
	return strings.Join(lines, "\n"), nil
}

func (d *Dispatcher) handleDone(ctx context.Context, key string, args []string) (string, error) {
	index, ok := parseIndex(args)
	if !ok {
		return "请输入待办序号。\n示例：/todo done 1", nil
	}
	item, err := d.svc.MarkDone(ctx, key, index)
	if err != nil {
		return "", fmt.Errorf("failed to mark todo done: %w", err)
	}
	if item == nil {
		return fmt.Sprintf("序号 %d 不存在，请用 /todo list 查看列表。", index), nil
	}
	return fmt.Sprintf("已完成：%s", item.Content), nil
}

func (d *Dispatcher) handleDelete(ctx context.Context, key string, args []string) (string, error) {
	index, ok := parseIndex(args)
	if !ok {
		return "请输入待办序号。\n示例：/todo del 1", nil
	}
	item, err := d.svc.Delete(ctx, key, index)
	if err != nil {
		return "", fmt.Errorf("failed to delete todo: %w", err)
	}
	if item == nil {
		return fmt.Sprintf("序号 %d 不存在，请用 /todo list 查看列表。", index), nil
	}
	return fmt.Sprintf("已删除：%s", item.Content), nil
}

func (d *Dispatcher) handleDeleteAll(ctx context.Context, key string) (string, error) {
	count, err := d.svc.DeleteAllUndone(ctx, key)
	if err != nil {
		return "", fmt.Errorf("failed to delete todos: %w", err)
	}
	if count == 0 {
		return "暂无待办事项可删除。", nil
	}
	return fmt.Sprintf("已删除全部 %d 条待办事项。", count), nil
}

func (d *Dispatcher) handleHistory(ctx context.Context, key string) (string, error) {
	items, err := d.svc.History(ctx, key, historyLimit)
	if err != nil {
		return "", fmt.Errorf("failed to list history: %w", err)
	}
	if len(items) == 0 {
		return "暂无已完成记录！", nil
	}

	lines := []string{fmt.Sprintf("已完成记录（最近%d条）：", historyLimit), ""}
	for idx, item := range items {
		doneTime := "未知"
		if at := item.DoneAt(); at != nil {
			doneTime = timeparse.FormatAbsolute(at)
		}
		lines = append(lines, fmt.Sprintf("%d. %s", idx+1, item.Content))
		lines = append(lines, fmt.Sprintf("   完成于 %s", doneTime))
	}
	return strings.Join(lines, "\n"), nil
}

func (d *Dispatcher) handleHistoryClear(ctx context.Context, key string) (string, error) {
	count, err := d.svc.ClearHistory(ctx, key)
	if err != nil {
		return "", fmt.Errorf("failed to clear history: %w", err)
	}
	if count == 0 {
		return "没有需要清空的已完成记录。", nil
	}
	return fmt.Sprintf("已清空 %d 条已完成记录。", count), nil
}

func (d *Dispatcher) handleRemind(ctx context.Context, key string, args []string, private bool) (string, error) {
	if !private {
		return "自定义提醒功能仅在私聊中可用。", nil
	}
	if len(args) < 2 {
		return "用法：/todo remind <序号> <时间>\n示例：/todo remind 1 明天上午九点", nil
	}
	index, err := strconv.Atoi(args[0])
	if err != nil {
		return "用法：/todo remind <序号> <时间>\n示例：/todo remind 1 明天上午九点", nil
	}

	timeText := strings.Join(args[1:], " ")
	at, ok := timeparse.Parse(timeText, d.now())
	if !ok {
		return fmt.Sprintf("无法识别时间：「%s」\n支持：明天下午三点、2026-02-20 18:00、3天后 等", timeText), nil
	}

	item, err := d.svc.SetReminder(ctx, key, index, at)
	if err != nil {
		return "", fmt.Errorf("failed to set reminder: %w", err)
	}
	if item == nil {
		return fmt.Sprintf("序号 %d 不存在，请用 /todo list 查看列表。", index), nil
	}
	return fmt.Sprintf("已设置提醒\n%s\n提醒时间：%s", item.Content, timeparse.FormatAbsolute(&at)), nil
}

func (d *Dispatcher) handleReport(ctx context.Context, key string) (string, error) {
	report, err := d.buildDailyReport(ctx, key)
	if err != nil {
		return "", err
	}
	if report == "" {
		return "暂无待办事项，无需生成早报。", nil
	}
	return report, nil
}

func (d *Dispatcher) handleMentionAll(ctx context.Context, key string, args []string, private bool) (string, error) {
	if private {
		return "该指令仅在群聊中可用。", nil
	}
	if len(args) == 0 {
		return "请输入 y 或 n。\n示例：/todo at_all y", nil
	}
	switch strings.ToLower(args[0]) {
	case "y":
		if err := d.svc.SetMentionAll(ctx, key, true); err != nil {
			return "", fmt.Errorf("failed to update setting: %w", err)
		}
		return "群聊提醒@全体成员已开启。", nil
	case "n":
		if err := d.svc.SetMentionAll(ctx, key, false); err != nil {
			return "", fmt.Errorf("failed to update setting: %w", err)
		}
		return "群聊提醒@全体成员已关闭。", nil
	default:
		return "请输入 y 或 n。\n示例：/todo at_all y", nil
	}
}

func parseIndex(args []string) (int, bool) {
	if len(args) == 0 {
		return 0, false
	}
	index, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, false
	}
	return index, true
}

// mentionAll reads the group setting, defaulting to off on lookup failure.
func (d *Dispatcher) mentionAll(ctx context.Context, key string) bool {
	enabled, err := d.svc.MentionAll(ctx, key)
	if err != nil {
		d.logger.Warn("failed to read mention_all setting", "key", key, "error", err)
		return false
	}
	return enabled
}
