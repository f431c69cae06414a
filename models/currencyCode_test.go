package models

import "testing"

func TestParseCurrencyCode(t *testing.T) {
	cases := []struct {
		raw  string
		want CurrencyCode
		ok   bool
	}{
		{"USD", "USD", true},
		{"usd", "USD", true},
		{" eur ", "EUR", true},
		{"Canadian Dollar (CAD)", "CAD", true},
		{"canadian dollar (cad)", "CAD", true},
		{"Something (Weird) (JPY)", "JPY", true},
		{"", "", false},
		{"US", "", false},
		{"USDT", "", false},
		{"U$D", "", false},
		{"Dollar ()", "", false},
	}
	for _, tc := range cases {
		got, err := ParseCurrencyCode(tc.raw)
		if tc.ok && err != nil {
			t.Errorf("ParseCurrencyCode(%q) unexpected error: %v", tc.raw, err)
			continue
		}
		if !tc.ok {
			if err == nil {
				t.Errorf("ParseCurrencyCode(%q) expected error, got %q", tc.raw, got)
			}
			continue
		}
		if got != tc.want {
			t.Errorf("ParseCurrencyCode(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestSameCurrency(t *testing.T) {
	if !SameCurrency("usd", "US Dollar (USD)") {
		t.Error("usd should match US Dollar (USD)")
	}
	if SameCurrency("USD", "EUR") {
		t.Error("USD should not match EUR")
	}
	if SameCurrency("not-a-code", "not-a-code") {
		t.Error("unparseable input must never match")
	}
}
