package scaler

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	cupUnitPattern  = regexp.MustCompile(`(?i)^(cups?|c)\.?$`)
	tbspUnitPattern = regexp.MustCompile(`(?i)^(tbsps?|tablespoons?)\.?$`)
	tspUnitPattern  = regexp.MustCompile(`(?i)^(tsps?|teaspoons?)\.?$`)
)

const (
	tbspPerCup = 16
	tspPerTbsp = 3
	// unitSlack 換算門檻的容許誤差（例如 3.7 大匙即可換算為 ¼ 杯）
	unitSlack = 0.3
	// tbspRoundTolerance 小匙換大匙時與整數的容許差距
	tbspRoundTolerance = 0.1
)

// CupRemainder 非標準量杯分數的拆解方式
type CupRemainder struct {
	Fraction float64 `json:"fraction"`
	// CupGlyph 可用量杯量取的部分，空字串表示沒有
	CupGlyph string `json:"cupGlyph"`
	// Extra 其餘部分以大匙/小匙表示
	Extra string `json:"extra"`
}

// DefaultCupRemainders ⅛、⅙、⅜、⅝、⅚、⅞ 杯的拆解
func DefaultCupRemainders() []CupRemainder {
	return []CupRemainder{
		{1.0 / 8, "", "2 tbsp"},
		{1.0 / 6, "", "2 tbsp + 2 tsp"},
		{3.0 / 8, "¼", "2 tbsp"},
		{5.0 / 8, "½", "2 tbsp"},
		{5.0 / 6, "⅔", "2 tbsp"},
		{7.0 / 8, "¾", "2 tbsp"},
	}
}

// StandardCupFractions 標準量杯可直接量取的分數
func StandardCupFractions() []Fraction {
	return []Fraction{
		{1.0 / 4, "¼"},
		{1.0 / 3, "⅓"},
		{1.0 / 2, "½"},
		{2.0 / 3, "⅔"},
		{3.0 / 4, "¾"},
	}
}

// Converter 判斷縮放後的數量是否有更好讀的單位表示
type Converter struct {
	remainders []CupRemainder
	standard   []Fraction
	tolerance  float64
}

// NewConverter 建立單位換算器
func NewConverter(tolerance float64) *Converter {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	return &Converter{
		remainders: DefaultCupRemainders(),
		standard:   StandardCupFractions(),
		tolerance:  tolerance,
	}
}

// Convert 依序嘗試：杯的非標準分數 → 大匙換杯 → 小匙換大匙，回傳第一個成立的結果
func (c *Converter) Convert(amount float64, unit string) (string, bool) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return "", false
	}

	unit = strings.TrimSpace(unit)
	switch {
	case cupUnitPattern.MatchString(unit):
		return c.cupRemainder(amount)
	case tbspUnitPattern.MatchString(unit):
		return c.tbspToCup(amount)
	case tspUnitPattern.MatchString(unit):
		return c.tspToTbsp(amount)
	default:
		return "", false
	}
}

// cupRemainder ⅝ 杯 → "½ cup + 2 tbsp"；整數部分併入杯數
func (c *Converter) cupRemainder(cups float64) (string, bool) {
	whole, frac := splitWhole(cups)
	if frac < minQuantity {
		return "", false
	}

	for _, r := range c.remainders {
		if math.Abs(frac-r.Fraction) >= c.tolerance {
			continue
		}
		if whole == 0 && r.CupGlyph == "" {
			return r.Extra, true
		}
		measure := withWhole(whole, r.CupGlyph)
		return measure + " " + cupWord(whole, r.CupGlyph) + " + " + r.Extra, true
	}
	return "", false
}

// tbspToCup 16 大匙 = 1 杯；只接受整杯、標準分數或可拆解的非標準分數
func (c *Converter) tbspToCup(tbsp float64) (string, bool) {
	if tbsp < 4-unitSlack {
		return "", false
	}

	cups := tbsp / tbspPerCup
	whole, frac := splitWhole(cups)
	if frac < minQuantity {
		return formatCount(whole) + " " + cupWord(whole, ""), true
	}

	if std, ok := matchFraction(c.standard, frac, c.tolerance); ok {
		return withWhole(whole, std.Glyph) + " " + cupWord(whole, std.Glyph), true
	}

	return c.cupRemainder(cups)
}

// tspToTbsp 3 小匙 = 1 大匙；只接受接近整數的結果
func (c *Converter) tspToTbsp(tsp float64) (string, bool) {
	if tsp < tspPerTbsp-unitSlack {
		return "", false
	}

	tbsp := tsp / tspPerTbsp
	rounded := math.Round(tbsp)
	if math.Abs(tbsp-rounded) > tbspRoundTolerance {
		return "", false
	}
	return fmt.Sprintf("%s tbsp", formatCount(rounded)), true
}

// cupWord 單數只用於不足一杯或剛好一杯
func cupWord(whole float64, glyph string) string {
	if whole == 0 || (whole == 1 && glyph == "") {
		return "cup"
	}
	return "cups"
}

func formatCount(n float64) string {
	return strconv.FormatFloat(n, 'f', 0, 64)
}
