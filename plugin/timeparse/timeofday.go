package timeparse

import (
	"regexp"
	"strconv"
	"strings"
)

// Clock is a time-of-day fragment: an hour/minute pair with no date attached.
type Clock struct {
	Hour   int
	Minute int
}

var (
	// 数字时间 HH:MM，允许出现在文本任意位置
	digitalClockRegexp = regexp.MustCompile(`(\d{1,2}):(\d{2})`)

	// 中文时间：X点Y分 / X点半 / X点，可带时段前缀
	lexicalClockRegexp = regexp.MustCompile(
		`(?:凌晨|早上|早晨|上午|中午|下午|傍晚|晚上|晚)?` +
			`\s*` +
			`(\d{1,2}|[一二三四五六七八九十两]+)` +
			`\s*[点时]` +
			`(?:\s*(\d{1,2}|[一二三四五六七八九十]+)\s*分?)?` +
			`(半)?`,
	)

	periodRegexp = regexp.MustCompile(`凌晨|早上|早晨|上午|中午|下午|傍晚|晚上|晚`)
)

// ExtractClock extracts a time-of-day fragment from text. A digital HH:MM
// match wins over the lexical Chinese form. A period-of-day word anywhere in
// the text disambiguates the 12-hour reading: afternoon and evening words
// push an hour below 12 up by twelve, 凌晨 pulls 12 down to 0, 中午 leaves
// 12 alone.
func ExtractClock(text string) (Clock, bool) {
	if m := digitalClockRegexp.FindStringSubmatch(text); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		if hour < 12 && containsAfternoonWord(text) {
			hour += 12
		}
		return Clock{Hour: hour, Minute: minute}, true
	}

	m := lexicalClockRegexp.FindStringSubmatch(text)
	if m == nil {
		return Clock{}, false
	}

	hour, ok := CnToInt(m[1])
	if !ok {
		return Clock{}, false
	}

	minute := 0
	switch {
	case m[3] != "": // "半"
		minute = 30
	case m[2] != "":
		if v, ok := CnToInt(m[2]); ok {
			minute = v
		}
	}

	// 时段修正：取全文第一个时段词，与数字的相对位置无关
	switch periodRegexp.FindString(text) {
	case "下午", "傍晚", "晚上", "晚":
		if hour < 12 {
			hour += 12
		}
	case "凌晨":
		if hour == 12 {
			hour = 0
		}
	}

	return Clock{Hour: hour, Minute: minute}, true
}

func containsAfternoonWord(text string) bool {
	// "晚" 同时覆盖 晚上/傍晚
	return strings.Contains(text, "下午") || strings.Contains(text, "晚")
}
