// Package format renders amounts and percentages for display in the
// request's locale. The finance package never formats; this one does.
package format

import (
	"math"
	"strconv"

	"github.com/shopspring/decimal"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"dompet/internal/i18n"
)

// Placeholder is shown for values that cannot be displayed (NaN, ±Inf).
const Placeholder = "–"

func printer(l i18n.Locale) *message.Printer {
	return message.NewPrinter(l.Tag())
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Rupiah formats amount as whole rupiah, e.g. "Rp 1.500.000" in Indonesian
// and "Rp 1,500,000" in English.
func Rupiah(amount float64, l i18n.Locale) string {
	if !finite(amount) {
		return Placeholder
	}
	whole := decimal.NewFromFloat(amount).Round(0)
	sign := ""
	if whole.IsNegative() {
		sign = "-"
		whole = whole.Neg()
	}
	return sign + "Rp " + printer(l).Sprintf("%d", whole.IntPart())
}

// Percent formats v with one fraction digit, e.g. "62,4%" or "62.4%".
func Percent(v float64, l i18n.Locale) string {
	if !finite(v) {
		return Placeholder
	}
	return percent(v, l) + "%"
}

// SignedPercent is Percent with an explicit "+" for growth.
func SignedPercent(v float64, l i18n.Locale) string {
	if !finite(v) {
		return Placeholder
	}
	rounded := round1(v)
	s := printDecimal(rounded, l) + "%"
	if rounded > 0 {
		return "+" + s
	}
	return s
}

func percent(v float64, l i18n.Locale) string {
	return printDecimal(round1(v), l)
}

func round1(v float64) float64 {
	return decimal.NewFromFloat(v).Round(1).InexactFloat64()
}

func printDecimal(v float64, l i18n.Locale) string {
	return printer(l).Sprint(number.Decimal(v, number.MinFractionDigits(1), number.MaxFractionDigits(1)))
}

// MonthYear renders a period label such as "Agustus 2025".
func MonthYear(b *i18n.Bundle, year, month int) string {
	return b.Month(month) + " " + strconv.Itoa(year)
}
