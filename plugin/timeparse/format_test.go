package timeparse

import (
	"testing"
	"time"
)

func TestFormatAbsolute(t *testing.T) {
	if got := FormatAbsolute(nil); got != "未设置" {
		t.Errorf("FormatAbsolute(nil) = %q", got)
	}

	ts := time.Date(2026, 2, 20, 18, 5, 0, 0, time.Local)
	if got := FormatAbsolute(&ts); got != "2026-02-20 18:05" {
		t.Errorf("FormatAbsolute = %q", got)
	}
}

func TestFormatRelative(t *testing.T) {
	now := time.Date(2026, 2, 18, 10, 0, 0, 0, time.Local)

	shift := func(d time.Duration) *time.Time {
		ts := now.Add(d)
		return &ts
	}

	tests := []struct {
		name string
		t    *time.Time
		want string
	}{
		{"nil", nil, ""},
		{"overdue days", shift(-3 * 24 * time.Hour), "已逾期3天"},
		{"overdue just over a day", shift(-25 * time.Hour), "已逾期1天"},
		{"overdue hours", shift(-2 * time.Hour), "已逾期2小时"},
		{"just overdue", shift(-30 * time.Minute), "刚刚逾期"},
		{"exactly now", shift(0), "刚刚逾期"},
		{"due in days", shift(3 * 24 * time.Hour), "3天后到期"},
		{"due in hours", shift(2 * time.Hour), "2小时后到期"},
		{"due in minutes", shift(10 * time.Minute), "10分钟后到期"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatRelative(tt.t, now); got != tt.want {
				t.Errorf("FormatRelative = %q, want %q", got, tt.want)
			}
		})
	}
}
