package models

import "errors"

type TransactionType string

const (
	TransactionTypeIncome   TransactionType = "income"
	TransactionTypeExpense  TransactionType = "expense"
	TransactionTypeTransfer TransactionType = "transfer"
)

func ParseTransactionType(s string) (TransactionType, error) {
	switch TransactionType(s) {
	case TransactionTypeIncome, TransactionTypeExpense, TransactionTypeTransfer:
		return TransactionType(s), nil
	}
	return "", errors.New("invalid transaction type")
}

type AccountType string

const (
	AccountTypeChecking   AccountType = "checking"
	AccountTypeSavings    AccountType = "savings"
	AccountTypeCreditCard AccountType = "credit_card"
)

func ParseAccountType(s string) (AccountType, error) {
	switch AccountType(s) {
	case AccountTypeChecking, AccountTypeSavings, AccountTypeCreditCard:
		return AccountType(s), nil
	}
	return "", errors.New("invalid account type")
}

// Frequency is the recurrence period of a template.
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyYearly  Frequency = "yearly"
)

func ParseFrequency(s string) (Frequency, error) {
	switch Frequency(s) {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyYearly:
		return Frequency(s), nil
	}
	return "", errors.New("invalid frequency")
}

// RateSource tags where an exchange-rate observation came from.
type RateSource string

const (
	RateSourceApi     RateSource = "api"
	RateSourceBank    RateSource = "bank"
	RateSourceManual  RateSource = "manual"
	RateSourceScraper RateSource = "scraper"
)

func ParseRateSource(s string) (RateSource, error) {
	switch RateSource(s) {
	case RateSourceApi, RateSourceBank, RateSourceManual, RateSourceScraper:
		return RateSource(s), nil
	}
	return "", errors.New("invalid rate source")
}
