// Package money handles prices in the one display locale the app
// supports (pt-BR, "R$ 1.250,00") using exact decimal arithmetic.
package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const currencySymbol = "R$"

var ErrInvalidPrice = errors.New("money: invalid price")

// ParsePrice reads a locale-formatted price. The currency symbol and
// spaces are dropped, "." is a thousands separator and "," the decimal
// separator.
func ParsePrice(s string) (decimal.Decimal, error) {
	raw := strings.TrimSpace(s)
	raw = strings.Replace(raw, currencySymbol, "", 1)
	raw = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\u00a0', '\t':
			return -1
		}
		return r
	}, raw)

	neg := strings.HasPrefix(raw, "-")
	raw = strings.TrimPrefix(raw, "-")

	raw = strings.ReplaceAll(raw, ".", "")
	if strings.Count(raw, ",") > 1 {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidPrice, s)
	}
	raw = strings.Replace(raw, ",", ".", 1)

	if raw == "" || raw == "." || strings.HasPrefix(raw, ".") || strings.HasSuffix(raw, ".") {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidPrice, s)
	}
	for _, r := range raw {
		if (r < '0' || r > '9') && r != '.' {
			return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidPrice, s)
		}
	}

	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidPrice, s)
	}
	if neg {
		d = d.Neg()
	}
	return d, nil
}

// FormatAmount renders d with two fraction digits, "," as the decimal
// separator and "." between thousands: 1250.5 -> "1.250,50".
// Totals are grouped as well, never "1250,50", so a payments total reads
// like the catalog prices it sums and survives ParsePrice unchanged.
func FormatAmount(d decimal.Decimal) string {
	fixed := d.StringFixed(2)

	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign = "-"
		fixed = fixed[1:]
	}

	intPart, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	b.WriteString(sign)
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	b.WriteByte(',')
	b.WriteString(frac)

	return b.String()
}

// FormatPrice is FormatAmount with the currency symbol.
func FormatPrice(d decimal.Decimal) string {
	return currencySymbol + " " + FormatAmount(d)
}
