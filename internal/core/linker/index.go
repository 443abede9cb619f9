package linker

import (
	"sort"

	"recipe-viewer/internal/pkg/common"
)

// Entry 已準備好的食材：原始索引、名稱與比對變體
type Entry struct {
	Index    int        `json:"index"`
	Name     string     `json:"name"`
	Variants VariantSet `json:"variants"`
}

// Index 食材與步驟的雙向連結索引
type Index struct {
	IngredientToSteps [][]int `json:"ingredientToSteps"`
	StepToIngredients [][]int `json:"stepToIngredients"`
}

// Prepare 為名稱至少三個字元的食材產生變體，依名稱長度遞減排序（同長保持原順序）
func (l *Linker) Prepare(ingredients []common.ParsedIngredient) []Entry {
	entries := make([]Entry, 0, len(ingredients))
	for i, ing := range ingredients {
		name := normalizeTerm(ing.Name)
		if runeLen(name) < minVariantLength {
			continue
		}
		entries = append(entries, Entry{
			Index:    i,
			Name:     name,
			Variants: l.Variants(name),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return runeLen(entries[i].Name) > runeLen(entries[j].Name)
	})
	return entries
}

// BuildIndex 建立食材與步驟的連結索引
func (l *Linker) BuildIndex(ingredients []common.ParsedIngredient, steps []string) *Index {
	return l.IndexEntries(l.Prepare(ingredients), len(ingredients), steps)
}

// IndexEntries 以已準備的食材建立索引；ingredientCount 為原始食材數量
func (l *Linker) IndexEntries(entries []Entry, ingredientCount int, steps []string) *Index {
	idx := &Index{
		IngredientToSteps: make([][]int, ingredientCount),
		StepToIngredients: make([][]int, len(steps)),
	}
	for i := range idx.IngredientToSteps {
		idx.IngredientToSteps[i] = []int{}
	}

	for s, step := range steps {
		idx.StepToIngredients[s] = []int{}
		if step == "" {
			continue
		}
		text := lowerRunes(step)
		for _, entry := range entries {
			if entry.Index < 0 || entry.Index >= ingredientCount {
				continue
			}
			if len(l.scan(text, entry.Variants, true)) == 0 {
				continue
			}
			idx.IngredientToSteps[entry.Index] = append(idx.IngredientToSteps[entry.Index], s)
			idx.StepToIngredients[s] = append(idx.StepToIngredients[s], entry.Index)
		}
	}

	for s := range idx.StepToIngredients {
		sort.Ints(idx.StepToIngredients[s])
	}
	return idx
}

// Highlight 找出步驟文字中屬於指定食材的命中區間
func (l *Linker) Highlight(entries []Entry, stepText string, ingredients []int) []MatchSpan {
	wanted := make(map[int]bool, len(ingredients))
	for _, i := range ingredients {
		wanted[i] = true
	}

	union := newOrderedSet()
	for _, entry := range entries {
		if !wanted[entry.Index] {
			continue
		}
		for _, v := range entry.Variants {
			union.add(v)
		}
	}

	return l.FindMatches(stepText, VariantSet(union.items))
}

// LinkedIngredients 至少出現在一個步驟中的食材索引
func (idx *Index) LinkedIngredients() []int {
	linked := []int{}
	for i, steps := range idx.IngredientToSteps {
		if len(steps) > 0 {
			linked = append(linked, i)
		}
	}
	return linked
}

// LinkedSteps 至少提及一個食材的步驟索引
func (idx *Index) LinkedSteps() []int {
	linked := []int{}
	for s, ings := range idx.StepToIngredients {
		if len(ings) > 0 {
			linked = append(linked, s)
		}
	}
	return linked
}

// Consistent 兩個方向的對應是否互為鏡像
func (idx *Index) Consistent() bool {
	forward := make(map[[2]int]bool)
	for i, steps := range idx.IngredientToSteps {
		for _, s := range steps {
			if s < 0 || s >= len(idx.StepToIngredients) {
				return false
			}
			forward[[2]int{i, s}] = true
		}
	}

	count := 0
	for s, ings := range idx.StepToIngredients {
		for _, i := range ings {
			if !forward[[2]int{i, s}] {
				return false
			}
			count++
		}
	}
	return count == len(forward)
}
