package linker

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// isWordRune 字母或數字視為單字字元；邊界即兩側皆非單字字元
func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// normalizeTerm NFC 正規化、轉小寫、去頭尾空白並合併連續空白
func normalizeTerm(s string) string {
	s = norm.NFC.String(s)
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// lowerRunes 逐字元轉小寫；字元數不變，因此位移可直接對應原文
func lowerRunes(s string) []rune {
	runes := []rune(s)
	for i, r := range runes {
		runes[i] = unicode.ToLower(r)
	}
	return runes
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

// wordAt 檢查 word 是否在 text[i:] 處以完整單字出現
func wordAt(text, word []rune, i int) bool {
	if len(word) == 0 || i < 0 || i+len(word) > len(text) {
		return false
	}
	for j, r := range word {
		if text[i+j] != r {
			return false
		}
	}
	if i > 0 && isWordRune(text[i-1]) {
		return false
	}
	end := i + len(word)
	if end < len(text) && isWordRune(text[end]) {
		return false
	}
	return true
}

// endsWithWord 檢查 text 是否以完整單字 word 結尾
func endsWithWord(text, word []rune) bool {
	start := len(text) - len(word)
	if len(word) == 0 || start < 0 {
		return false
	}
	for j, r := range word {
		if text[start+j] != r {
			return false
		}
	}
	return start == 0 || !isWordRune(text[start-1])
}

// trimRightSpace 去除尾端空白
func trimRightSpace(text []rune) []rune {
	end := len(text)
	for end > 0 && unicode.IsSpace(text[end-1]) {
		end--
	}
	return text[:end]
}

// collapseSpace 將連續空白合併為單一空格
func collapseSpace(text []rune) []rune {
	out := make([]rune, 0, len(text))
	for i, r := range text {
		if unicode.IsSpace(r) {
			if i > 0 && unicode.IsSpace(text[i-1]) {
				continue
			}
			r = ' '
		}
		out = append(out, r)
	}
	return out
}

// removeWord 移除所有以完整單字出現的 word，連同其後的空白
func removeWord(text, word []rune) []rune {
	out := make([]rune, 0, len(text))
	for i := 0; i < len(text); {
		if wordAt(text, word, i) {
			i += len(word)
			for i < len(text) && unicode.IsSpace(text[i]) {
				i++
			}
			continue
		}
		out = append(out, text[i])
		i++
	}
	return out
}

// orderedSet 保留插入順序的字串集合
type orderedSet struct {
	seen  map[string]bool
	items []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]bool)}
}

func (s *orderedSet) add(v string) {
	if s.seen[v] {
		return
	}
	s.seen[v] = true
	s.items = append(s.items, v)
}
