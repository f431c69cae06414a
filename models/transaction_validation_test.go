package models

import (
	"testing"
)

func TestNewTransaction_ValidateAmount(t *testing.T) {
	cases := []struct {
		name            string
		amount          string
		transactionType TransactionType
		wantErr         bool
	}{
		{"positive income", "100", TransactionTypeIncome, false},
		{"negative expense", "-45.50", TransactionTypeExpense, false},
		{"transfer either sign", "-10", TransactionTypeTransfer, false},
		{"zero rejected", "0", TransactionTypeIncome, true},
		{"negative income rejected", "-100", TransactionTypeIncome, true},
		{"positive expense rejected", "45.50", TransactionTypeExpense, true},
		{"unknown type rejected", "10", TransactionType("refund"), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := NewTransaction{
				Amount:          d(tc.amount),
				TransactionType: tc.transactionType,
			}
			err := input.validateAmount()
			if tc.wantErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestNewTransaction_ValidateSplits(t *testing.T) {
	splits := func(amounts ...string) []CategoryAmount {
		out := make([]CategoryAmount, len(amounts))
		for i, a := range amounts {
			out[i] = CategoryAmount{CategoryId: i + 1, Amount: d(a)}
		}
		return out
	}

	cases := []struct {
		name    string
		amount  string
		splits  []CategoryAmount
		wantErr bool
	}{
		{"no splits is fine", "-100", nil, false},
		{"exact sum", "-100", splits("-60", "-40"), false},
		{"off by a cent passes", "-100", splits("-60", "-39.99"), false},
		{"off by exactly the tolerance passes", "-100", splits("-60", "-39.99", "0.00"), false},
		{"off by two cents fails", "-100", splits("-60", "-39.98"), true},
		{"single split must still match", "-100", splits("-90"), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := NewTransaction{
				Amount:     d(tc.amount),
				Categories: tc.splits,
			}
			err := input.validateSplits()
			if tc.wantErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestNewTransaction_SplitToleranceBoundary(t *testing.T) {
	// 0.01 off passes, anything beyond does not.
	base := d("250.00")
	ok := NewTransaction{
		Amount:     base,
		Categories: []CategoryAmount{{CategoryId: 1, Amount: d("250.01")}},
	}
	if err := ok.validateSplits(); err != nil {
		t.Errorf("0.01 over should pass: %v", err)
	}
	bad := NewTransaction{
		Amount:     base,
		Categories: []CategoryAmount{{CategoryId: 1, Amount: d("250.011")}},
	}
	if err := bad.validateSplits(); err == nil {
		t.Error("0.011 over should fail")
	}
}
