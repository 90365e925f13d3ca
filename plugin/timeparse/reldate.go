package timeparse

import (
	"regexp"
	"time"
)

// cnWeekday maps a weekday character to its index, Monday = 0. Both 日 and
// 天 mean Sunday.
var cnWeekday = map[string]int{
	"一": 0, "二": 1, "三": 2, "四": 3,
	"五": 4, "六": 5, "日": 6, "天": 6,
}

var (
	nDaysLaterRegexp = regexp.MustCompile(`^(\d+|[一二三四五六七八九十百]+)\s*[天日]后`)
	nextWeekRegexp   = regexp.MustCompile(`^下周([一二三四五六日天])`)
	thisWeekRegexp   = regexp.MustCompile(`^(?:这|本)?周([一二三四五六日天])`)
)

// ResolveRelativeDate resolves a relative date phrase (明天, 后天, 3天后,
// 下周一, ...) against the base instant. The result is truncated to midnight
// in base's location. 下周X always lands in the week after the current one;
// 周X/本周X resolves within the current week and yields today when today is
// already the target weekday.
func ResolveRelativeDate(phrase string, base time.Time) (time.Time, bool) {
	today := midnight(base)

	switch phrase {
	case "今天", "今日":
		return today, true
	case "明天", "明日":
		return today.AddDate(0, 0, 1), true
	case "后天":
		return today.AddDate(0, 0, 2), true
	case "大后天":
		return today.AddDate(0, 0, 3), true
	}

	// N天后 / N日后
	if m := nDaysLaterRegexp.FindStringSubmatch(phrase); m != nil {
		if n, ok := CnToInt(m[1]); ok {
			return today.AddDate(0, 0, n), true
		}
		return time.Time{}, false
	}

	// 下周X：一定落在下一个周
	if m := nextWeekRegexp.FindStringSubmatch(phrase); m != nil {
		target := cnWeekday[m[1]]
		ahead := mod7(target-weekdayIndex(base)) + 7
		return today.AddDate(0, 0, ahead), true
	}

	// 这周X / 本周X / 周X：今天就是目标星期时返回今天
	if m := thisWeekRegexp.FindStringSubmatch(phrase); m != nil {
		target := cnWeekday[m[1]]
		ahead := mod7(target - weekdayIndex(base))
		return today.AddDate(0, 0, ahead), true
	}

	return time.Time{}, false
}

// weekdayIndex converts Go's Sunday-based weekday to the Monday = 0 scheme
// used by cnWeekday.
func weekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

func mod7(n int) int {
	return ((n % 7) + 7) % 7
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
