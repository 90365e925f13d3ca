package timeparse

import "testing"

func TestExtractClock(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Clock
		ok   bool
	}{
		{"digital 24h", "18:00", Clock{18, 0}, true},
		{"digital single digit hour", "9:30", Clock{9, 30}, true},
		{"digital with afternoon word", "下午3:00", Clock{15, 0}, true},
		{"digital with evening word", "晚上8:15", Clock{20, 15}, true},
		{"digital already pm", "下午18:00", Clock{18, 0}, true},
		{"lexical afternoon", "下午三点", Clock{15, 0}, true},
		{"lexical half", "晚上8点半", Clock{20, 30}, true},
		{"lexical minutes", "上午十点三十分", Clock{10, 30}, true},
		{"lexical digit minutes", "8点15", Clock{8, 15}, true},
		{"lexical hour marker 时", "下午三时", Clock{15, 0}, true},
		{"noon stays noon", "中午12点", Clock{12, 0}, true},
		{"noon before twelve unchanged", "中午11点", Clock{11, 0}, true},
		{"early dawn twelve becomes zero", "凌晨12点", Clock{0, 0}, true},
		{"early dawn normal hour", "凌晨3点", Clock{3, 0}, true},
		{"morning no shift", "早上8点", Clock{8, 0}, true},
		{"period word after clock", "三点 晚上", Clock{15, 0}, true},
		{"no clock", "洗衣服", Clock{}, false},
		{"empty", "", Clock{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractClock(tt.text)
			if ok != tt.ok {
				t.Fatalf("ExtractClock(%q) ok = %v, want %v", tt.text, ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("ExtractClock(%q) = %+v, want %+v", tt.text, got, tt.want)
			}
		})
	}
}
