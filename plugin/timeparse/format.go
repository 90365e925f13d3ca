package timeparse

import (
	"fmt"
	"time"
)

// AbsoluteLayout is the display layout for resolved instants.
const AbsoluteLayout = "2006-01-02 15:04"

// notSetPlaceholder is rendered for an absent instant.
const notSetPlaceholder = "未设置"

// FormatAbsolute renders an instant as an absolute display string.
// A nil instant renders the fixed "not set" placeholder.
func FormatAbsolute(t *time.Time) string {
	if t == nil {
		return notSetPlaceholder
	}
	return t.Format(AbsoluteLayout)
}

// FormatRelative renders the distance between t and now as a human-readable
// phrase, e.g. "2小时后到期" or "已逾期3天". A nil instant renders empty.
func FormatRelative(t *time.Time, now time.Time) string {
	if t == nil {
		return ""
	}

	diff := t.Sub(now)
	if diff <= 0 {
		past := -diff
		days := int(past / (24 * time.Hour))
		hours := int(past / time.Hour)
		switch {
		case days >= 1:
			return fmt.Sprintf("已逾期%d天", days)
		case hours >= 1:
			return fmt.Sprintf("已逾期%d小时", hours)
		default:
			return "刚刚逾期"
		}
	}

	days := int(diff / (24 * time.Hour))
	hours := int(diff / time.Hour)
	switch {
	case days >= 1:
		return fmt.Sprintf("%d天后到期", days)
	case hours >= 1:
		return fmt.Sprintf("%d小时后到期", hours)
	default:
		minutes := int(diff / time.Minute)
		return fmt.Sprintf("%d分钟后到期", minutes)
	}
}

// FormatRelativeNow renders the distance from the current wall-clock time.
func FormatRelativeNow(t *time.Time) string {
	return FormatRelative(t, time.Now())
}
