package timeparse

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// strictLayouts are tried first and must match the whole input. The
// non-padded verbs also accept zero-padded fields, so "2026-2-5" and
// "2026-02-05" both parse.
var strictLayouts = []string{
	"2006-1-2 15:4:5",
	"2006-1-2 15:4",
	"2006-1-2",
	"2006/1/2 15:4:5",
	"2006/1/2 15:4",
	"2006/1/2",
}

var (
	fullDateRegexp = regexp.MustCompile(`^(\d{4})\s*年\s*(\d{1,2})\s*月\s*(\d{1,2})\s*[日号]`)
	monthDayRegexp = regexp.MustCompile(`^(\d{1,2})\s*月\s*(\d{1,2})\s*[日号]?`)

	// 相对日期候选，按优先级排列（大后天 必须先于 后天）
	relDateRegexps = []*regexp.Regexp{
		regexp.MustCompile(`大后天`),
		regexp.MustCompile(`后天`),
		regexp.MustCompile(`明天|明日`),
		regexp.MustCompile(`今天|今日`),
		regexp.MustCompile(`(\d+|[一二三四五六七八九十百]+)\s*[天日]后`),
		regexp.MustCompile(`下周[一二三四五六日天]`),
		regexp.MustCompile(`(?:这|本)?周[一二三四五六日天]`),
	}

	hoursLaterRegexp   = regexp.MustCompile(`(\d+|[一二三四五六七八九十]+)\s*(?:个)?小时后`)
	minutesLaterRegexp = regexp.MustCompile(`(\d+|[一二三四五六七八九十]+)\s*分钟后`)
)

// matcher is one strategy in the ordered fallback chain. Strategies are
// tried in sequence with first-success-wins semantics.
type matcher func(text string, base time.Time) (time.Time, bool)

var matchers = []matcher{
	matchStrictLayouts,
	matchFullDate,
	matchMonthDay,
	matchRelative,
	matchDuration,
}

// Parse resolves a Chinese natural-language time expression against the base
// instant. The second result is false when the text contains no recognizable
// time expression; parsing never returns an error.
func Parse(text string, base time.Time) (time.Time, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}, false
	}

	for _, match := range matchers {
		if t, ok := match(text, base); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseNow resolves against the current wall-clock time.
func ParseNow(text string) (time.Time, bool) {
	return Parse(text, time.Now())
}

// matchStrictLayouts tries the numeric layouts. The whole input must match;
// trailing text fails this branch.
func matchStrictLayouts(text string, base time.Time) (time.Time, bool) {
	for _, layout := range strictLayouts {
		if t, err := time.ParseInLocation(layout, text, base.Location()); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// matchFullDate handles YYYY年MM月DD日 with an optional trailing clock.
func matchFullDate(text string, base time.Time) (time.Time, bool) {
	loc := fullDateRegexp.FindStringSubmatchIndex(text)
	if loc == nil {
		return time.Time{}, false
	}
	year := atoiGroup(text, loc, 1)
	month := atoiGroup(text, loc, 2)
	day := atoiGroup(text, loc, 3)
	if !validMonthDay(month, day) {
		return time.Time{}, false
	}

	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, base.Location())
	if date.Day() != day || date.Month() != time.Month(month) {
		// time.Date 会把 2月30日 这类溢出归一化到下个月，这里视为无效
		return time.Time{}, false
	}
	return mergeClockSuffix(date, text[loc[1]:]), true
}

// matchMonthDay handles MM月DD日 without a year. The date anchors to base's
// year; a date already in the past rolls forward one year.
func matchMonthDay(text string, base time.Time) (time.Time, bool) {
	loc := monthDayRegexp.FindStringSubmatchIndex(text)
	if loc == nil {
		return time.Time{}, false
	}
	month := atoiGroup(text, loc, 1)
	day := atoiGroup(text, loc, 2)
	if !validMonthDay(month, day) {
		return time.Time{}, false
	}

	date := time.Date(base.Year(), time.Month(month), day, 0, 0, 0, 0, base.Location())
	if date.Day() != day || date.Month() != time.Month(month) {
		return time.Time{}, false
	}
	if date.Before(base) {
		date = date.AddDate(1, 0, 0)
	}
	return mergeClockSuffix(date, text[loc[1]:]), true
}

// matchRelative combines an optional relative date with an optional clock.
// Date and clock are searched independently over the whole text, not
// positionally constrained against each other.
func matchRelative(text string, base time.Time) (time.Time, bool) {
	var date time.Time
	haveDate := false
	for _, re := range relDateRegexps {
		if m := re.FindString(text); m != "" {
			if d, ok := ResolveRelativeDate(m, base); ok {
				date = d
				haveDate = true
			}
			break
		}
	}

	clock, haveClock := ExtractClock(text)

	switch {
	case haveDate && haveClock:
		return withClock(date, clock), true
	case haveDate:
		return date, true
	case haveClock:
		// 只有时间没有日期：时间已过就是明天
		result := withClock(midnight(base), clock)
		if !result.After(base) {
			result = result.AddDate(0, 0, 1)
		}
		return result, true
	}
	return time.Time{}, false
}

// matchDuration handles N小时后 and N分钟后, tried only after everything
// else has failed.
func matchDuration(text string, base time.Time) (time.Time, bool) {
	if m := hoursLaterRegexp.FindStringSubmatch(text); m != nil {
		if n, ok := CnToInt(m[1]); ok {
			return base.Add(time.Duration(n) * time.Hour), true
		}
	}
	if m := minutesLaterRegexp.FindStringSubmatch(text); m != nil {
		if n, ok := CnToInt(m[1]); ok {
			return base.Add(time.Duration(n) * time.Minute), true
		}
	}
	return time.Time{}, false
}

// withClock replaces the hour and minute of a midnight date fragment.
// Fragments compose by replacement, never by adding durations.
func withClock(date time.Time, clock Clock) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), clock.Hour, clock.Minute, 0, 0, date.Location())
}

func mergeClockSuffix(date time.Time, suffix string) time.Time {
	if clock, ok := ExtractClock(suffix); ok {
		return withClock(date, clock)
	}
	return date
}

func validMonthDay(month, day int) bool {
	return month >= 1 && month <= 12 && day >= 1 && day <= 31
}

func atoiGroup(text string, loc []int, group int) int {
	n, _ := strconv.Atoi(text[loc[2*group]:loc[2*group+1]])
	return n
}
