package money

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// CurrencyPrefix is the token statements print in front of amounts.
const CurrencyPrefix = "R$"

// ErrValueFormat is matched by every ValueFormatError.
var ErrValueFormat = errors.New("invalid monetary value")

// ValueFormatError reports a monetary cell that could not be parsed.
// Text is the original, uncleaned input.
type ValueFormatError struct {
	Text string
}

func (e *ValueFormatError) Error() string {
	return fmt.Sprintf("invalid monetary value: %q", e.Text)
}

// Is lets callers match with errors.Is(err, ErrValueFormat).
func (e *ValueFormatError) Is(target error) bool {
	return target == ErrValueFormat
}

// brazilianAmount matches the unsigned body of "1.234,56": dot-grouped
// thousands and an optional comma decimal part.
var brazilianAmount = regexp.MustCompile(`^\d+(\.\d{3})*(,\d+)?$`)

// ParseAmount converts a statement amount such as "R$ 1.234,56" or "-45,00"
// into an exact decimal value.
func ParseAmount(text string) (decimal.Decimal, error) {
	s := strings.ReplaceAll(text, CurrencyPrefix, "")
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)

	negative := strings.HasPrefix(s, "-")
	if negative {
		s = s[1:]
	}

	if !brazilianAmount.MatchString(s) {
		return decimal.Zero, &ValueFormatError{Text: text}
	}

	s = strings.ReplaceAll(s, ".", "")
	s = strings.Replace(s, ",", ".", 1)

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, &ValueFormatError{Text: text}
	}

	if negative {
		d = d.Neg()
	}
	return d, nil
}

// FormatAmount renders a value with two decimal places and a dot separator,
// the form written to output files.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// FormatNullAmount renders an optional value; unavailable values are empty.
func FormatNullAmount(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return FormatAmount(d.Decimal)
}
