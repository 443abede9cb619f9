package linker

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Vocabulary 連結引擎使用的詞彙表，於建構時注入，建構後不可變
type Vocabulary struct {
	// Modifiers 食材名稱前常見、但步驟中常被省略的修飾詞
	Modifiers []string `mapstructure:"modifiers" json:"modifiers"`
	// Spellings 同一食材的替代拼法，每組內的詞彼此等價
	Spellings [][]string `mapstructure:"spellings" json:"spellings"`
	// Ambiguous 複合詞歧義表：中心詞 → 使其成為另一種食材的前置詞
	Ambiguous map[string][]string `mapstructure:"ambiguous" json:"ambiguous"`
}

// vocabularyFile 詞彙覆寫檔格式
type vocabularyFile struct {
	Vocabulary `mapstructure:",squash"`
	// Replace 為 true 時不與預設詞彙合併
	Replace bool `mapstructure:"replace"`
}

// DefaultVocabulary 預設詞彙表
//
// 修飾詞排除了顏色（red、black、green），因為顏色常是食材本身的一部分
// （red pepper 不等於 pepper）。
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Modifiers: []string{
			"salted", "unsalted", "dried", "fresh", "freshly", "cracked",
			"crushed", "ground", "light", "dark", "all purpose", "all-purpose",
			"granulated", "powdered", "confectioners", "packed", "large",
			"medium", "small", "extra virgin", "extra-virgin", "pure", "raw",
			"organic", "whole", "boneless", "skinless", "frozen", "canned",
			"toasted", "roasted", "smoked", "sharp", "mild", "sweet", "plain",
			"heavy", "white", "low-fat", "nonfat", "reduced-fat", "low-sodium",
			"extra-large", "finely", "coarsely", "kosher",
		},
		Spellings: [][]string{
			{"chili", "chilli", "chile"},
			{"chilies", "chillies", "chiles"},
			{"yogurt", "yoghurt"},
			{"jalapeno", "jalapeño"},
			{"whiskey", "whisky"},
			{"doughnut", "donut"},
			{"ketchup", "catsup"},
			{"phyllo", "filo", "fillo"},
			{"omelet", "omelette"},
			{"creme", "crème"},
			{"fraiche", "fraîche"},
			{"puree", "purée"},
			{"caster", "castor"},
		},
		Ambiguous: map[string][]string{
			"pepper": {"bell", "cayenne", "chili", "chilli", "chile", "jalapeño", "jalapeno",
				"poblano", "serrano", "habanero", "salt and"},
			"powder": {"baking", "chili", "chilli", "chile", "curry", "garlic", "onion",
				"cocoa", "mustard", "five spice", "cinnamon", "protein"},
			"cream":   {"ice", "sour", "coconut"},
			"sauce":   {"hot", "soy", "fish", "oyster", "hoisin", "worcestershire"},
			"oil":     {"essential", "olive", "sesame", "coconut", "chili", "truffle"},
			"sugar":   {"brown", "powdered", "confectioners", "icing"},
			"milk":    {"coconut", "almond", "oat", "soy", "condensed", "evaporated"},
			"butter":  {"peanut", "almond", "cashew", "apple", "cocoa"},
			"onion":   {"green", "spring"},
			"vinegar": {"balsamic", "rice", "apple cider", "wine"},
		},
	}
}

// Merge 將另一份詞彙併入，回傳新的詞彙表（不修改接收者）
func (v Vocabulary) Merge(other Vocabulary) Vocabulary {
	merged := Vocabulary{
		Modifiers: make([]string, 0, len(v.Modifiers)+len(other.Modifiers)),
		Spellings: make([][]string, 0, len(v.Spellings)+len(other.Spellings)),
		Ambiguous: make(map[string][]string, len(v.Ambiguous)+len(other.Ambiguous)),
	}

	seen := make(map[string]bool)
	for _, m := range append(append([]string{}, v.Modifiers...), other.Modifiers...) {
		key := normalizeTerm(m)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		merged.Modifiers = append(merged.Modifiers, key)
	}

	for _, group := range append(append([][]string{}, v.Spellings...), other.Spellings...) {
		merged.Spellings = append(merged.Spellings, append([]string{}, group...))
	}

	for _, table := range []map[string][]string{v.Ambiguous, other.Ambiguous} {
		for word, prefixes := range table {
			key := normalizeTerm(word)
			if key == "" {
				continue
			}
			merged.Ambiguous[key] = appendUnique(merged.Ambiguous[key], prefixes...)
		}
	}

	return merged
}

// LoadVocabulary 讀取詞彙覆寫檔（yaml/json/toml），預設與內建詞彙合併
func LoadVocabulary(path string) (Vocabulary, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultVocabulary(), nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return Vocabulary{}, fmt.Errorf("failed to read vocabulary file: %w", err)
	}

	var file vocabularyFile
	if err := v.Unmarshal(&file); err != nil {
		return Vocabulary{}, fmt.Errorf("failed to unmarshal vocabulary file: %w", err)
	}

	if file.Replace {
		return Vocabulary{}.Merge(file.Vocabulary), nil
	}
	return DefaultVocabulary().Merge(file.Vocabulary), nil
}

func appendUnique(dst []string, values ...string) []string {
	for _, value := range values {
		value = normalizeTerm(value)
		if value == "" {
			continue
		}
		exists := false
		for _, d := range dst {
			if d == value {
				exists = true
				break
			}
		}
		if !exists {
			dst = append(dst, value)
		}
	}
	return dst
}
