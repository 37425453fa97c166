// Package money parses locale-ambiguous monetary text into exact decimals
// and formats decimals back into currency strings. Parsing is deliberately
// lossy-but-available: corrupt input yields zero, never an error, so one bad
// row cannot fail an aggregate.
package money

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

const symbol = "R$"

var (
	plainNumber = regexp.MustCompile(`^\d+\.?\d*$`)
	symbolRe    = regexp.MustCompile(`(?i)R\$`)
	whitespace  = regexp.MustCompile(`\s`)
	nonNumeric  = regexp.MustCompile(`[^0-9.-]`)
)

// Parse converts amount text into a decimal. It accepts the plain form
// (1234.56), the grouped European form (1.234,56) and currency-prefixed
// variants of both. Empty or unparseable input returns zero.
func Parse(raw string) decimal.Decimal {
	str := strings.TrimSpace(raw)
	if str == "" {
		return decimal.Zero
	}

	if plainNumber.MatchString(str) {
		d, err := decimal.NewFromString(str)
		if err != nil {
			return decimal.Zero
		}
		return d
	}

	cleaned := symbolRe.ReplaceAllString(str, "")
	cleaned = whitespace.ReplaceAllString(cleaned, "")

	if strings.Contains(cleaned, ",") {
		// European form: dots group thousands, the comma is the decimal point.
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.Replace(cleaned, ",", ".", 1)
	} else if strings.Contains(cleaned, ".") {
		// More than one dot group, or a single dot followed by exactly three
		// digits, means the dots are thousands separators (1.234.567, 1.234).
		parts := strings.Split(cleaned, ".")
		if len(parts) > 2 || (len(parts) == 2 && len(parts[1]) == 3) {
			cleaned = strings.ReplaceAll(cleaned, ".", "")
		}
	}

	cleaned = nonNumeric.ReplaceAllString(cleaned, "")

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Format renders a decimal with two fraction digits, comma decimal separator
// and dot thousands grouping, optionally prefixed with the currency symbol.
func Format(d decimal.Decimal, withSymbol bool) string {
	fixed := d.StringFixed(2)

	negative := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")

	intPart, fracPart, _ := strings.Cut(fixed, ".")
	grouped := groupThousands(intPart)

	out := grouped + "," + fracPart
	if negative {
		out = "-" + out
	}
	if withSymbol {
		out = symbol + " " + out
	}
	return out
}

// FormatCompact renders large values with a K/M/B suffix for dense widgets.
func FormatCompact(d decimal.Decimal) string {
	abs := d.Abs()

	switch {
	case abs.GreaterThanOrEqual(decimal.NewFromInt(1_000_000_000)):
		return symbol + " " + d.Div(decimal.NewFromInt(1_000_000_000)).StringFixed(2) + "B"
	case abs.GreaterThanOrEqual(decimal.NewFromInt(1_000_000)):
		return symbol + " " + d.Div(decimal.NewFromInt(1_000_000)).StringFixed(2) + "M"
	case abs.GreaterThanOrEqual(decimal.NewFromInt(1_000)):
		return symbol + " " + d.Div(decimal.NewFromInt(1_000)).StringFixed(2) + "K"
	}

	return Format(d, true)
}

// Percentage returns part/total as a percentage rounded to two places.
// A zero total yields zero.
func Percentage(part, total decimal.Decimal) decimal.Decimal {
	if total.IsZero() {
		return decimal.Zero
	}
	return part.Div(total).Mul(decimal.NewFromInt(100)).Round(2)
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
