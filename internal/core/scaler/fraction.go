package scaler

import (
	"math"
	"strconv"
	"strings"
)

// DefaultTolerance 分數比對的絕對誤差
const DefaultTolerance = 0.03

// minQuantity 小於此值視為 0；小數部分小於此值視為整數
//
// 不足一且低於最小分數（扣除誤差）的值同樣顯示為 0。
const minQuantity = 0.01

// Fraction 常用烹飪分數與其顯示字元
type Fraction struct {
	Value float64 `json:"value"`
	Glyph string  `json:"glyph"`
}

// DefaultFractions 由小到大排列，第一個落在誤差內的項目勝出
func DefaultFractions() []Fraction {
	return []Fraction{
		{1.0 / 16, "1/16"},
		{1.0 / 8, "⅛"},
		{1.0 / 6, "⅙"},
		{1.0 / 4, "¼"},
		{1.0 / 3, "⅓"},
		{3.0 / 8, "⅜"},
		{1.0 / 2, "½"},
		{5.0 / 8, "⅝"},
		{2.0 / 3, "⅔"},
		{3.0 / 4, "¾"},
		{5.0 / 6, "⅚"},
		{7.0 / 8, "⅞"},
	}
}

// Formatter 將小數轉為帶分數字串
type Formatter struct {
	fractions []Fraction
	tolerance float64
}

// NewFormatter 建立格式化器；fractions 為空時使用預設表，tolerance <= 0 時使用預設誤差
func NewFormatter(fractions []Fraction, tolerance float64) *Formatter {
	if len(fractions) == 0 {
		fractions = DefaultFractions()
	}
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	return &Formatter{
		fractions: append([]Fraction{}, fractions...),
		tolerance: tolerance,
	}
}

// DefaultFormatter 使用預設分數表
func DefaultFormatter() *Formatter {
	return NewFormatter(nil, DefaultTolerance)
}

// FormatFraction 將數量格式化為 "1¼"、"⅔"、"3" 或小數
func (f *Formatter) FormatFraction(n float64) string {
	if math.IsNaN(n) || math.IsInf(n, 0) || n < minQuantity {
		return "0"
	}

	whole, decimal := splitWhole(n)
	if decimal < minQuantity {
		return strconv.FormatFloat(whole, 'f', 0, 64)
	}

	if frac, ok := f.Match(decimal); ok {
		return withWhole(whole, frac.Glyph)
	}
	if whole == 0 && n < f.smallest()-f.tolerance {
		return "0"
	}

	rounded := math.Round(n*100) / 100
	if rounded == math.Round(rounded*10)/10 {
		return strconv.FormatFloat(rounded, 'f', 1, 64)
	}
	return strconv.FormatFloat(rounded, 'f', 2, 64)
}

// Match 找出第一個與 decimal 相差小於誤差的分數
func (f *Formatter) Match(decimal float64) (Fraction, bool) {
	return matchFraction(f.fractions, decimal, f.tolerance)
}

// smallest 分數表中的最小值
func (f *Formatter) smallest() float64 {
	min := f.fractions[0].Value
	for _, frac := range f.fractions[1:] {
		if frac.Value < min {
			min = frac.Value
		}
	}
	return min
}

// Tolerance 目前使用的誤差
func (f *Formatter) Tolerance() float64 {
	return f.tolerance
}

func matchFraction(table []Fraction, decimal, tolerance float64) (Fraction, bool) {
	for _, frac := range table {
		if math.Abs(decimal-frac.Value) < tolerance {
			return frac, true
		}
	}
	return Fraction{}, false
}

// splitWhole 拆成整數與小數部分；極接近下一個整數時進位
func splitWhole(n float64) (float64, float64) {
	whole := math.Floor(n)
	decimal := n - whole
	if 1-decimal < minQuantity {
		return whole + 1, 0
	}
	return whole, decimal
}

// withWhole 組合整數與分數字元；ASCII 分數前加空白以免與整數相連
func withWhole(whole float64, glyph string) string {
	if whole == 0 {
		return glyph
	}
	w := strconv.FormatFloat(whole, 'f', 0, 64)
	if strings.Contains(glyph, "/") {
		return w + " " + glyph
	}
	return w + glyph
}
