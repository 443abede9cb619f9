package scaler

import (
	"math"
	"strings"

	"go.uber.org/zap"

	"recipe-viewer/internal/pkg/common"
)

// ConversionTip 縮放後數量與其換算結果，由呈現層決定如何顯示
type ConversionTip struct {
	Quantity   string `json:"quantity"`
	Equivalent string `json:"equivalent"`
}

// Label 提示文字，例如 "10 tbsp = ½ cup + 2 tbsp"
func (t ConversionTip) Label() string {
	return t.Quantity + " = " + t.Equivalent
}

// ScaledDisplay 單一食材在某縮放倍數下的顯示結果
type ScaledDisplay struct {
	Index   int            `json:"index"`
	Text    string         `json:"text"`
	Scaled  bool           `json:"scaled"`
	Tooltip *ConversionTip `json:"tooltip,omitempty"`
}

// Preset 預設縮放倍數
type Preset struct {
	Factor float64 `json:"factor"`
	Label  string  `json:"label"`
}

// DefaultPresets ½×、1×、2×、3×
var DefaultPresets = []float64{0.5, 1, 2, 3}

// Scaler 食材數量縮放引擎
type Scaler struct {
	formatter *Formatter
	converter *Converter
	presets   []float64
}

// Option Scaler 設定選項
type Option func(*Scaler)

// WithFormatter 指定分數格式化器
func WithFormatter(f *Formatter) Option {
	return func(s *Scaler) {
		if f != nil {
			s.formatter = f
		}
	}
}

// WithConverter 指定單位換算器
func WithConverter(c *Converter) Option {
	return func(s *Scaler) {
		if c != nil {
			s.converter = c
		}
	}
}

// WithPresets 指定預設倍數，非正數會被忽略
func WithPresets(presets []float64) Option {
	return func(s *Scaler) {
		valid := make([]float64, 0, len(presets))
		for _, p := range presets {
			if validFactor(p) {
				valid = append(valid, p)
			}
		}
		if len(valid) > 0 {
			s.presets = valid
		}
	}
}

// New 建立縮放引擎
func New(opts ...Option) *Scaler {
	s := &Scaler{
		formatter: DefaultFormatter(),
		converter: NewConverter(DefaultTolerance),
		presets:   append([]float64{}, DefaultPresets...),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Formatter 目前的分數格式化器
func (s *Scaler) Formatter() *Formatter {
	return s.formatter
}

// Converter 目前的單位換算器
func (s *Scaler) Converter() *Converter {
	return s.converter
}

// Presets 預設倍數與顯示標籤
func (s *Scaler) Presets() []Preset {
	presets := make([]Preset, 0, len(s.presets))
	for _, p := range s.presets {
		presets = append(presets, Preset{Factor: p, Label: s.formatter.FormatFraction(p) + "×"})
	}
	return presets
}

// Scale 以倍數縮放所有食材；倍數必須為正的有限數
func (s *Scaler) Scale(ingredients []common.ParsedIngredient, factor float64) ([]ScaledDisplay, error) {
	if !validFactor(factor) {
		common.LogWarn("無效的縮放倍數", zap.Float64("factor", factor))
		return nil, common.ErrInvalidScale
	}

	displays := make([]ScaledDisplay, 0, len(ingredients))
	for i, ing := range ingredients {
		displays = append(displays, s.ScaleOne(i, ing, factor))
	}
	return displays, nil
}

// ScaleOne 縮放單一食材；倍數為 1 或無數量時回傳原始文字
func (s *Scaler) ScaleOne(index int, ing common.ParsedIngredient, factor float64) ScaledDisplay {
	display := ScaledDisplay{Index: index}

	if factor == 1 || !ing.Scalable() || !validFactor(factor) {
		display.Text = ing.Raw
		if display.Text == "" {
			display.Text = s.compose(ing, ing.Amount, ing.AmountMax)
		}
		return display
	}

	amount := *ing.Amount * factor
	var amountMax *float64
	if ing.AmountMax != nil {
		scaledMax := *ing.AmountMax * factor
		amountMax = &scaledMax
	}

	display.Text = s.compose(ing, &amount, amountMax)
	display.Scaled = true

	if equivalent, ok := s.converter.Convert(amount, ing.UnitString()); ok {
		quantity := s.quantity(amount, amountMax)
		if unit := ing.UnitString(); unit != "" {
			quantity += " " + unit
		}
		display.Tooltip = &ConversionTip{Quantity: quantity, Equivalent: equivalent}
	}

	return display
}

// HasScalable 是否至少有一個食材帶有數量（無則不顯示縮放控制）
func HasScalable(ingredients []common.ParsedIngredient) bool {
	for _, ing := range ingredients {
		if ing.Scalable() {
			return true
		}
	}
	return false
}

// compose 組合 "數量 單位 名稱, 處理方式 備註"
func (s *Scaler) compose(ing common.ParsedIngredient, amount, amountMax *float64) string {
	parts := make([]string, 0, 4)
	if amount != nil {
		parts = append(parts, s.quantity(*amount, amountMax))
	}
	if unit := ing.UnitString(); unit != "" {
		parts = append(parts, unit)
	}
	if name := strings.TrimSpace(ing.Name); name != "" {
		parts = append(parts, name)
	}

	text := strings.Join(parts, " ")
	if prep := ing.PreparationString(); prep != "" {
		text += ", " + prep
	}
	if comment := ing.CommentString(); comment != "" {
		text += " " + comment
	}
	return text
}

func (s *Scaler) quantity(amount float64, amountMax *float64) string {
	if amountMax == nil {
		return s.formatter.FormatFraction(amount)
	}
	return s.formatter.FormatFraction(amount) + "-" + s.formatter.FormatFraction(*amountMax)
}

func validFactor(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0) && f > 0
}
