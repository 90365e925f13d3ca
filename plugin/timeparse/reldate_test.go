package timeparse

import (
	"testing"
	"time"
)

// base for relative tests: 2026-02-18 10:00, a Wednesday.
var testBase = time.Date(2026, 2, 18, 10, 0, 0, 0, time.Local)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func TestResolveRelativeDate(t *testing.T) {
	tests := []struct {
		phrase string
		want   time.Time
		ok     bool
	}{
		{"今天", date(2026, 2, 18), true},
		{"今日", date(2026, 2, 18), true},
		{"明天", date(2026, 2, 19), true},
		{"明日", date(2026, 2, 19), true},
		{"后天", date(2026, 2, 20), true},
		{"大后天", date(2026, 2, 21), true},
		{"3天后", date(2026, 2, 21), true},
		{"三天后", date(2026, 2, 21), true},
		{"十天后", date(2026, 2, 28), true},
		{"2日后", date(2026, 2, 20), true},
		{"下周一", date(2026, 3, 2), true}, // (0-2) mod 7 = 5，再 +7 = 12 天后
		{"下周三", date(2026, 2, 25), true}, // 今天周三，下周三恰好 +7
		{"下周日", date(2026, 3, 1), true},
		{"下周天", date(2026, 3, 1), true},
		{"周五", date(2026, 2, 20), true},
		{"本周五", date(2026, 2, 20), true},
		{"这周五", date(2026, 2, 20), true},
		{"周三", date(2026, 2, 18), true}, // 今天就是周三
		{"周一", date(2026, 2, 23), true}, // 本周一已过，(0-2) mod 7 = 5
		{"胡说", time.Time{}, false},
		{"", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.phrase, func(t *testing.T) {
			got, ok := ResolveRelativeDate(tt.phrase, testBase)
			if ok != tt.ok {
				t.Fatalf("ResolveRelativeDate(%q) ok = %v, want %v", tt.phrase, ok, tt.ok)
			}
			if ok && !got.Equal(tt.want) {
				t.Errorf("ResolveRelativeDate(%q) = %v, want %v", tt.phrase, got, tt.want)
			}
		})
	}
}

// 下周X 永远落在下一个周（7–13 天后），周X 落在本周（0–6 天后）。
func TestResolveRelativeDateWeekdayProperty(t *testing.T) {
	weekdays := []string{"一", "二", "三", "四", "五", "六", "日"}

	for offset := 0; offset < 7; offset++ {
		base := testBase.AddDate(0, 0, offset)
		today := midnight(base)
		for _, wd := range weekdays {
			next, ok := ResolveRelativeDate("下周"+wd, base)
			if !ok {
				t.Fatalf("下周%s failed for base %v", wd, base)
			}
			ahead := int(next.Sub(today) / (24 * time.Hour))
			if ahead < 7 || ahead > 13 {
				t.Errorf("下周%s from %v: %d days ahead, want 7..13", wd, base, ahead)
			}

			this, ok := ResolveRelativeDate("周"+wd, base)
			if !ok {
				t.Fatalf("周%s failed for base %v", wd, base)
			}
			ahead = int(this.Sub(today) / (24 * time.Hour))
			if ahead < 0 || ahead > 6 {
				t.Errorf("周%s from %v: %d days ahead, want 0..6", wd, base, ahead)
			}
		}
	}
}
