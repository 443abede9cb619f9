package linker

import (
	"html"
	"strings"
)

// Segment 步驟文字的一段，Highlighted 表示屬於命中區間
type Segment struct {
	Text        string `json:"text"`
	Highlighted bool   `json:"highlighted"`
}

// Segments 依命中區間將文字切段；區間須已排序且不重疊
func Segments(text string, spans []MatchSpan) []Segment {
	runes := []rune(text)
	segments := make([]Segment, 0, len(spans)*2+1)

	cursor := 0
	for _, span := range spans {
		start, end := clampSpan(span, len(runes))
		if start < cursor || start >= end {
			continue
		}
		if start > cursor {
			segments = append(segments, Segment{Text: string(runes[cursor:start])})
		}
		segments = append(segments, Segment{Text: string(runes[start:end]), Highlighted: true})
		cursor = end
	}
	if cursor < len(runes) {
		segments = append(segments, Segment{Text: string(runes[cursor:])})
	}

	return segments
}

// Mark 以 open/close 標記包覆命中區間，其餘文字做 HTML 轉義
func Mark(text string, spans []MatchSpan, open, close string) string {
	var b strings.Builder
	for _, seg := range Segments(text, spans) {
		if seg.Highlighted {
			b.WriteString(open)
			b.WriteString(html.EscapeString(seg.Text))
			b.WriteString(close)
			continue
		}
		b.WriteString(html.EscapeString(seg.Text))
	}
	return b.String()
}

func clampSpan(span MatchSpan, length int) (int, int) {
	start, end := span.Start, span.End
	if start < 0 {
		start = 0
	}
	if end > length {
		end = length
	}
	return start, end
}
