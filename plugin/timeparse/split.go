package timeparse

import (
	"strings"
	"time"
)

// Splitter separates a free-text command argument into task content and an
// optional deadline. Implementations must leave non-empty content behind;
// input that is nothing but a time expression stays content with no time.
type Splitter interface {
	Split(text string, base time.Time) (content string, deadline *time.Time)
}

// PrefixSplitter splits on whitespace and grows a candidate time prefix word
// by word from the start, keeping the longest prefix that parses as a time
// expression. The remainder becomes the content.
//
// 采用按空格分词后逐步组合的方式，避免 Parse 内部的子串匹配造成误判。
type PrefixSplitter struct{}

// NewPrefixSplitter returns the canonical splitter.
func NewPrefixSplitter() *PrefixSplitter {
	return &PrefixSplitter{}
}

func (*PrefixSplitter) Split(text string, base time.Time) (string, *time.Time) {
	text = strings.TrimSpace(text)
	if text == "" {
		return text, nil
	}

	parts := strings.Fields(text)
	if len(parts) <= 1 {
		// 只有一个词：整体即使能解析成时间也没有内容可拆，按纯内容处理
		return text, nil
	}

	bestSplit := 0
	var bestTime time.Time
	for i := 1; i < len(parts); i++ {
		candidate := strings.Join(parts[:i], " ")
		if t, ok := Parse(candidate, base); ok {
			bestSplit = i
			bestTime = t
		}
	}

	if bestSplit > 0 {
		content := strings.TrimSpace(strings.Join(parts[bestSplit:], " "))
		if content != "" {
			t := bestTime
			return content, &t
		}
	}

	return text, nil
}
