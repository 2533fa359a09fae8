package money

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"github.com/registrapos/register-api/pkg/apperror"
)

// Format renders an amount for display: rounded half-up to the given number
// of decimal places, thousands separated, currency code appended.
// Intermediate arithmetic stays at full precision; rounding happens here only.
func Format(amount decimal.Decimal, currency string, places int32) string {
	s := amount.StringFixed(places)

	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	intPart := s
	fracPart := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i:]
	}

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteString(fracPart)
	if currency != "" {
		b.WriteByte(' ')
		b.WriteString(currency)
	}
	return b.String()
}

// Parse reads a formatted display string back into a decimal. Grouping
// commas, surrounding whitespace and a trailing or leading currency code or
// symbol are tolerated; anything else is rejected.
func Parse(display string) (decimal.Decimal, error) {
	s := strings.TrimSpace(display)
	s = strings.ReplaceAll(s, ",", "")

	// Strip a non-numeric prefix/suffix such as "KES" or "$".
	s = strings.TrimFunc(s, func(r rune) bool {
		return !unicode.IsDigit(r) && r != '.' && r != '-'
	})

	if s == "" {
		return decimal.Zero, apperror.NewBadRequestError("Amount is empty")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, apperror.NewBadRequestError("Invalid amount: " + display)
	}
	return d, nil
}

// ToMinorUnits converts an amount to integer minor units (e.g. cents),
// rounding half-up at the given precision.
func ToMinorUnits(amount decimal.Decimal, places int32) int64 {
	return amount.Shift(places).Round(0).IntPart()
}

// FromMinorUnits converts integer minor units back to a decimal amount.
func FromMinorUnits(minor int64, places int32) decimal.Decimal {
	return decimal.New(minor, -places)
}
