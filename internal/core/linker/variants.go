package linker

import (
	"sort"
	"strings"
)

const (
	// minVariantLength 少於此字元數的變體不參與比對
	minVariantLength = 3
	// maxSpellingExpansions 單一名稱拼法展開的上限
	maxSpellingExpansions = 64
)

// VariantSet 某食材名稱的所有可比對形式（小寫、去重、依產生順序）
type VariantSet []string

// Contains 是否包含指定變體
func (vs VariantSet) Contains(v string) bool {
	for _, item := range vs {
		if item == v {
			return true
		}
	}
	return false
}

// Linker 食材與步驟連結引擎；建構後唯讀，可在多個 goroutine 間共用
type Linker struct {
	modifiers [][]rune
	spellings map[string][]string
	ambiguous map[string][][]rune
}

// New 依詞彙表建立連結引擎
func New(vocab Vocabulary) *Linker {
	vocab = Vocabulary{}.Merge(vocab)

	l := &Linker{
		modifiers: make([][]rune, 0, len(vocab.Modifiers)),
		spellings: make(map[string][]string),
		ambiguous: make(map[string][][]rune, len(vocab.Ambiguous)),
	}

	// 長修飾詞先移除，避免 "extra virgin" 被 "virgin" 之類的短詞拆開
	sort.SliceStable(vocab.Modifiers, func(i, j int) bool {
		return runeLen(vocab.Modifiers[i]) > runeLen(vocab.Modifiers[j])
	})
	for _, m := range vocab.Modifiers {
		l.modifiers = append(l.modifiers, []rune(m))
	}

	for _, group := range vocab.Spellings {
		members := appendUnique(nil, group...)
		if len(members) < 2 {
			continue
		}
		for _, word := range members {
			l.spellings[word] = appendUnique(l.spellings[word], members...)
		}
	}

	for word, prefixes := range vocab.Ambiguous {
		for _, p := range prefixes {
			l.ambiguous[word] = append(l.ambiguous[word], []rune(normalizeTerm(p)))
		}
	}

	return l
}

// NewDefault 使用預設詞彙表建立連結引擎
func NewDefault() *Linker {
	return New(DefaultVocabulary())
}

// Variants 產生食材名稱的所有比對變體
//
// 候選依序為：完整名稱、去修飾詞後的核心名稱、核心名稱的尾詞/首詞
// （兩詞以上）、末詞/首詞（三詞以上）；再展開替代拼法與單複數。
func (l *Linker) Variants(name string) VariantSet {
	name = normalizeTerm(name)
	if name == "" {
		return VariantSet{}
	}

	candidates := newOrderedSet()
	candidates.add(name)

	core := l.stripModifiers(name)
	if core != name && runeLen(core) >= minVariantLength {
		candidates.add(core)
	}

	words := strings.Fields(core)
	var parts []string
	if len(words) >= 2 {
		parts = append(parts, strings.Join(words[1:], " "), strings.Join(words[:len(words)-1], " "))
	}
	if len(words) >= 3 {
		parts = append(parts, words[len(words)-1], words[0])
	}
	for _, p := range parts {
		if runeLen(p) >= minVariantLength {
			candidates.add(p)
		}
	}

	result := newOrderedSet()
	for _, c := range l.expandSpellings(candidates.items) {
		for _, v := range pluralForms(c) {
			if runeLen(v) >= minVariantLength {
				result.add(v)
			}
		}
	}

	return VariantSet(result.items)
}

// stripModifiers 移除所有修飾詞並整理空白
func (l *Linker) stripModifiers(name string) string {
	text := []rune(name)
	for _, m := range l.modifiers {
		text = removeWord(text, m)
	}
	return strings.Join(strings.Fields(string(text)), " ")
}

// expandSpellings 對每個候選詞的每個單字套用替代拼法，直到不再產生新組合
func (l *Linker) expandSpellings(candidates []string) []string {
	if len(l.spellings) == 0 {
		return candidates
	}

	seen := make(map[string]bool)
	out := make([]string, 0, len(candidates))
	queue := append([]string{}, candidates...)

	for len(queue) > 0 && len(out) < maxSpellingExpansions {
		current := queue[0]
		queue = queue[1:]
		if seen[current] {
			continue
		}
		seen[current] = true
		out = append(out, current)

		words := strings.Split(current, " ")
		for i, w := range words {
			for _, alt := range l.alternates(w) {
				next := append([]string{}, words...)
				next[i] = alt
				queue = append(queue, strings.Join(next, " "))
			}
		}
	}

	return out
}

// alternates 回傳單字的替代拼法；複數形以單數查詢後補回 s
func (l *Linker) alternates(word string) []string {
	if group, ok := l.spellings[word]; ok {
		return withoutWord(group, word)
	}
	if strings.HasSuffix(word, "s") {
		singular := strings.TrimSuffix(word, "s")
		if group, ok := l.spellings[singular]; ok {
			alts := withoutWord(group, singular)
			for i := range alts {
				alts[i] += "s"
			}
			return alts
		}
	}
	return nil
}

func withoutWord(group []string, word string) []string {
	out := make([]string, 0, len(group))
	for _, g := range group {
		if g != word {
			out = append(out, g)
		}
	}
	return out
}

// pluralForms 產生單複數形式，多條規則可同時成立且結果全部保留
func pluralForms(word string) []string {
	forms := []string{word}

	if strings.HasSuffix(word, "s") {
		forms = append(forms, strings.TrimSuffix(word, "s"))
	} else {
		forms = append(forms, word+"s", word+"es")
	}
	if strings.HasSuffix(word, "es") {
		forms = append(forms, strings.TrimSuffix(word, "es"))
	}
	if strings.HasSuffix(word, "ies") {
		forms = append(forms, strings.TrimSuffix(word, "ies")+"y")
	}
	if strings.HasSuffix(word, "y") && !strings.HasSuffix(word, "ey") {
		forms = append(forms, strings.TrimSuffix(word, "y")+"ies")
	}

	return forms
}
