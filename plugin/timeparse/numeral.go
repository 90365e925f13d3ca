// Package timeparse implements a lightweight parser for Chinese
// natural-language time expressions.
//
// Supported forms:
//   - standard layouts: 2026-02-20 18:00 / 2026/02/20 18:00
//   - relative dates:   明天、后天、大后天、N天后、下周X
//   - clock times:      下午三点、晚上8点半、上午十点三十分
//   - combinations:     明天下午三点、后天晚上8点
//
// Parsing is pure and reentrant: every call takes an explicit base instant
// and failure is reported as a missing value, never as an error.
package timeparse

import "strconv"

// cnNumeral maps Chinese numeral characters to their values, including the
// formal accounting variants (壹贰叁...) and 两 for two.
var cnNumeral = map[rune]int{
	'零': 0, '〇': 0,
	'一': 1, '壹': 1,
	'二': 2, '两': 2, '贰': 2,
	'三': 3, '叁': 3,
	'四': 4, '肆': 4,
	'五': 5, '伍': 5,
	'六': 6, '陆': 6,
	'七': 7, '柒': 7,
	'八': 8, '捌': 8,
	'九': 9, '玖': 9,
	'十': 10, '拾': 10,
}

// CnToInt converts a Chinese numeral token, or a plain decimal string, to an
// integer. Tokens built around 十/拾 cover 10 through 99 (X十Y = X*10+Y, with
// the tens digit defaulting to 1 and the ones digit to 0). Any other
// multi-character token is accumulated digit by digit, so 二三 reads as 23.
// The second result is false when the token does not resolve to a value.
func CnToInt(token string) (int, bool) {
	if token == "" {
		return 0, false
	}

	if isASCIIDigits(token) {
		n, err := strconv.Atoi(token)
		if err != nil {
			return 0, false
		}
		return n, true
	}

	runes := []rune(token)

	// 单个中文数字直接查表（零 在这里合法）
	if len(runes) == 1 {
		if v, ok := cnNumeral[runes[0]]; ok {
			return v, true
		}
		return 0, false
	}

	// X十 / 十X / X十X
	if idx := indexTen(runes); idx >= 0 {
		tens, ones := 1, 0
		if idx > 0 {
			tens = lookupPart(runes[:idx], 1)
		}
		if idx < len(runes)-1 {
			ones = lookupPart(runes[idx+1:], 0)
		}
		result := tens*10 + ones
		if result <= 0 {
			return 0, false
		}
		return result, true
	}

	// 逐字按十进制位累加（如 "二三" → 23）
	result := 0
	for _, r := range runes {
		v, ok := cnNumeral[r]
		if !ok {
			return 0, false
		}
		result = result*10 + v
	}
	if result <= 0 {
		return 0, false
	}
	return result, true
}

func isASCIIDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func indexTen(runes []rune) int {
	for i, r := range runes {
		if r == '十' || r == '拾' {
			return i
		}
	}
	return -1
}

// lookupPart resolves a single-character tens/ones part, falling back to the
// given default for anything it cannot resolve.
func lookupPart(part []rune, fallback int) int {
	if len(part) != 1 {
		return fallback
	}
	if v, ok := cnNumeral[part[0]]; ok {
		return v
	}
	return fallback
}
