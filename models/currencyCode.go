package models

import (
	"errors"
	"strings"
)

// CurrencyCode is a normalized 3-letter ISO-like currency code.
//
// Rate observations store currencies as free-form strings: a bare code
// ("USD", "usd") or the scraper's "Display Name (CODE)" form
// ("Canadian Dollar (CAD)"). All comparisons in the conversion engine
// go through ParseCurrencyCode so the extraction lives in one place.
type CurrencyCode string

func (c CurrencyCode) String() string { return string(c) }

func ParseCurrencyCode(raw string) (CurrencyCode, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", errors.New("empty currency")
	}

	// "Display Name (CODE)": take the last parenthesized group.
	if open := strings.LastIndex(s, "("); open >= 0 {
		if close := strings.Index(s[open:], ")"); close > 0 {
			s = strings.TrimSpace(s[open+1 : open+close])
		}
	}

	if len(s) != 3 {
		return "", errors.New("currency code must be 3 letters: " + raw)
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return "", errors.New("currency code must be 3 letters: " + raw)
		}
	}
	return CurrencyCode(strings.ToUpper(s)), nil
}

// SameCurrency reports whether two raw currency strings normalize to
// the same code. Unparseable input never matches.
func SameCurrency(a, b string) bool {
	ca, err := ParseCurrencyCode(a)
	if err != nil {
		return false
	}
	cb, err := ParseCurrencyCode(b)
	if err != nil {
		return false
	}
	return ca == cb
}
