package linker

import (
	"sort"
	"strings"
)

// MatchSpan 步驟文字中的命中區間 [Start, End)，以字元（rune）位移表示
type MatchSpan struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len 區間長度
func (s MatchSpan) Len() int {
	return s.End - s.Start
}

// Overlaps 兩區間是否重疊
func (s MatchSpan) Overlaps(other MatchSpan) bool {
	return s.Start < other.End && other.Start < s.End
}

// Matches 文字中是否存在任一變體的完整單字命中（已套用歧義排除）
func (l *Linker) Matches(text string, variants VariantSet) bool {
	if text == "" || len(variants) == 0 {
		return false
	}
	return len(l.scan(lowerRunes(text), variants, true)) > 0
}

// FindMatches 找出文字中所有不重疊的命中區間，依起點排序
//
// 重疊時優先保留較長的命中，同長則保留較早出現者。
func (l *Linker) FindMatches(text string, variants VariantSet) []MatchSpan {
	if text == "" || len(variants) == 0 {
		return []MatchSpan{}
	}
	return resolveOverlaps(l.scan(lowerRunes(text), variants, false))
}

// scan 收集所有候選命中；firstOnly 時找到第一個即返回
func (l *Linker) scan(text []rune, variants VariantSet, firstOnly bool) []MatchSpan {
	var spans []MatchSpan
	for _, variant := range variants {
		word := []rune(variant)
		if len(word) == 0 || len(word) > len(text) {
			continue
		}
		prefixes := l.disqualifiers(variant)
		for i := 0; i+len(word) <= len(text); i++ {
			if !wordAt(text, word, i) {
				continue
			}
			if suppressed(text[:i], prefixes) {
				continue
			}
			spans = append(spans, MatchSpan{Start: i, End: i + len(word)})
			if firstOnly {
				return spans
			}
		}
	}
	return spans
}

// disqualifiers 查詢變體的歧義前置詞，依序嘗試原形、去 s、去 es
func (l *Linker) disqualifiers(variant string) [][]rune {
	if len(l.ambiguous) == 0 {
		return nil
	}

	keys := []string{variant}
	if strings.HasSuffix(variant, "s") {
		keys = append(keys, strings.TrimSuffix(variant, "s"))
	}
	if strings.HasSuffix(variant, "es") {
		keys = append(keys, strings.TrimSuffix(variant, "es"))
	}

	var prefixes [][]rune
	for _, key := range keys {
		prefixes = append(prefixes, l.ambiguous[key]...)
	}
	return prefixes
}

// suppressed 命中前的文字（去尾端空白、合併連續空白）是否以任一前置詞結尾
func suppressed(before []rune, prefixes [][]rune) bool {
	if len(prefixes) == 0 {
		return false
	}
	before = collapseSpace(trimRightSpace(before))
	for _, p := range prefixes {
		if endsWithWord(before, p) {
			return true
		}
	}
	return false
}

// resolveOverlaps 依長度遞減、起點遞增貪婪挑選不重疊的區間，最後依起點排序
func resolveOverlaps(candidates []MatchSpan) []MatchSpan {
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Len() != candidates[j].Len() {
			return candidates[i].Len() > candidates[j].Len()
		}
		return candidates[i].Start < candidates[j].Start
	})

	accepted := make([]MatchSpan, 0, len(candidates))
	for _, c := range candidates {
		overlap := false
		for _, a := range accepted {
			if c.Overlaps(a) {
				overlap = true
				break
			}
		}
		if !overlap {
			accepted = append(accepted, c)
		}
	}

	sort.Slice(accepted, func(i, j int) bool {
		return accepted[i].Start < accepted[j].Start
	})
	return accepted
}
