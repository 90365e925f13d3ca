package timeparse

import (
	"testing"
	"time"
)

func TestPrefixSplitterSplit(t *testing.T) {
	base := testBase
	splitter := NewPrefixSplitter()

	tests := []struct {
		name        string
		text        string
		wantContent string
		wantTime    *time.Time
	}{
		{
			name:        "time then content",
			text:        "明天下午三点 交报告",
			wantContent: "交报告",
			wantTime:    timePtr(at(2026, 2, 19, 15, 0)),
		},
		{
			name:        "days later",
			text:        "3天后 写周报",
			wantContent: "写周报",
			wantTime:    timePtr(at(2026, 2, 21, 0, 0)),
		},
		{
			// 时间词后跟的词并不阻止候选前缀整体解析，
			// 所以最长可解析前缀获胜，内容只剩最后一个词
			name:        "greedy prefix wins",
			text:        "3天后 写 周报",
			wantContent: "周报",
			wantTime:    timePtr(at(2026, 2, 21, 0, 0)),
		},
		{
			name:        "multi word time prefix",
			text:        "2026-02-20 18:00 开会",
			wantContent: "开会",
			wantTime:    timePtr(at(2026, 2, 20, 18, 0)),
		},
		{
			name:        "content only",
			text:        "买牛奶",
			wantContent: "买牛奶",
		},
		{
			name:        "pure time keeps content",
			text:        "明天下午三点",
			wantContent: "明天下午三点",
		},
		{
			// 歧义输入：前缀无法解析成时间时整体按内容处理
			name:        "leading number is content",
			text:        "5 作业 明天交",
			wantContent: "5 作业 明天交",
		},
		{
			name:        "empty",
			text:        "",
			wantContent: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content, deadline := splitter.Split(tt.text, base)
			if content != tt.wantContent {
				t.Errorf("content = %q, want %q", content, tt.wantContent)
			}
			if (deadline == nil) != (tt.wantTime == nil) {
				t.Fatalf("deadline = %v, want %v", deadline, tt.wantTime)
			}
			if deadline != nil && !deadline.Equal(*tt.wantTime) {
				t.Errorf("deadline = %v, want %v", deadline, tt.wantTime)
			}
		})
	}
}

func timePtr(t time.Time) *time.Time {
	return &t
}
