package common

import (
	"strings"
)

// ParsedIngredient 已解析的食材（由上游解析器提供，不可變）
type ParsedIngredient struct {
	Name        string   `json:"name"`
	Unit        *string  `json:"unit"`
	Amount      *float64 `json:"amount"`      // nil 表示不可縮放（例如「適量」）
	AmountMax   *float64 `json:"amount_max"`  // 範圍上限（例如 2-3 瓣）
	Preparation *string  `json:"preparation"` // 處理方式
	Comment     *string  `json:"comment"`     // 備註
	Raw         string   `json:"raw"`         // 原始文字
}

// RecipePayload 食譜資料（食材列表與步驟）
type RecipePayload struct {
	ParsedIngredients []ParsedIngredient `json:"parsedIngredients"`
	Steps             []string           `json:"steps"`
}

// UnitString 取得單位字串，nil 時回傳空字串
func (p ParsedIngredient) UnitString() string {
	if p.Unit == nil {
		return ""
	}
	return strings.TrimSpace(*p.Unit)
}

// PreparationString 取得處理方式字串
func (p ParsedIngredient) PreparationString() string {
	if p.Preparation == nil {
		return ""
	}
	return strings.TrimSpace(*p.Preparation)
}

// CommentString 取得備註字串
func (p ParsedIngredient) CommentString() string {
	if p.Comment == nil {
		return ""
	}
	return strings.TrimSpace(*p.Comment)
}

// Scalable 是否可縮放
func (p ParsedIngredient) Scalable() bool {
	return p.Amount != nil
}

// IsEmpty 是否沒有任何食材或步驟
func (r *RecipePayload) IsEmpty() bool {
	return r == nil || (len(r.ParsedIngredients) == 0 && len(r.Steps) == 0)
}

// StringPtr 回傳字串指標
func StringPtr(s string) *string {
	return &s
}

// FloatPtr 回傳浮點數指標
func FloatPtr(f float64) *float64 {
	return &f
}
