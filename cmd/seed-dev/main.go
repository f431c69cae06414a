// seed-dev populates a development database with a demo user, a pair
// of accounts in different currencies, spending categories, sample
// transactions, recurring templates and two days of exchange rates.
//
// Usage:
//
//	DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... go run ./cmd/seed-dev
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/moneydesk/ledger_backend/config"
	"github.com/moneydesk/ledger_backend/models"
	"github.com/moneydesk/ledger_backend/utils"
	"github.com/shopspring/decimal"
)

func main() {
	ctx := context.Background()
	config.ConnectDatabaseWithRetry()
	if config.GetDB() == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}

	if err := models.AutoMigrate(); err != nil {
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}

	user, err := models.CreateUser(ctx, &models.NewUser{
		Username: "demo",
		Email:    "demo@example.com",
		Password: "demo-password",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create demo user: %v\n", err)
		os.Exit(1)
	}
	ctx = utils.SetUserIdInContext(ctx, user.ID)
	ctx = utils.SetUsernameInContext(ctx, user.Username)

	checking, err := models.CreateAccount(ctx, &models.NewAccount{
		Name:           "Everyday Checking",
		AccountType:    models.AccountTypeChecking,
		BankName:       "First Demo Bank",
		Currency:       "USD",
		InitialBalance: decimal.NewFromInt(2500),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create account: %v\n", err)
		os.Exit(1)
	}
	if _, err := models.CreateAccount(ctx, &models.NewAccount{
		Name:           "Travel Savings",
		AccountType:    models.AccountTypeSavings,
		BankName:       "First Demo Bank",
		Currency:       "EUR",
		InitialBalance: decimal.NewFromInt(1200),
	}); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create account: %v\n", err)
		os.Exit(1)
	}

	var rent, salary *models.Category
	for _, name := range []string{"Rent", "Salary", "Groceries", "Utilities"} {
		category, err := models.CreateCategory(ctx, &models.NewCategory{Name: name})
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to create category %s: %v\n", name, err)
			os.Exit(1)
		}
		switch name {
		case "Rent":
			rent = category
		case "Salary":
			salary = category
		}
	}

	lastWeek := time.Now().UTC().AddDate(0, 0, -7)
	transactions := []*models.NewTransaction{
		{
			AccountId:       checking.ID,
			Amount:          decimal.NewFromFloat(-82.45),
			TransactionType: models.TransactionTypeExpense,
			Description:     "Weekly groceries",
			TransactionDate: &lastWeek,
		},
		{
			AccountId:       checking.ID,
			Amount:          decimal.NewFromInt(4200),
			TransactionType: models.TransactionTypeIncome,
			Description:     "Salary deposit",
			TransactionDate: &lastWeek,
		},
	}
	for _, input := range transactions {
		if _, err := models.CreateTransaction(ctx, input); err != nil {
			fmt.Fprintf(os.Stderr, "failed to create transaction: %v\n", err)
			os.Exit(1)
		}
	}

	firstOfMonth := time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, 1-time.Now().UTC().Day())
	recurring := []*models.NewRecurringTransaction{
		{
			AccountId:       checking.ID,
			CategoryId:      rent.ID,
			Amount:          decimal.NewFromInt(-1450),
			TransactionType: models.TransactionTypeExpense,
			Description:     "Monthly rent",
			Frequency:       models.FrequencyMonthly,
			StartDate:       firstOfMonth,
		},
		{
			AccountId:       checking.ID,
			CategoryId:      salary.ID,
			Amount:          decimal.NewFromInt(4200),
			TransactionType: models.TransactionTypeIncome,
			Description:     "Salary",
			Frequency:       models.FrequencyMonthly,
			StartDate:       firstOfMonth,
		},
	}
	for _, input := range recurring {
		if _, err := models.CreateRecurringTransaction(ctx, input); err != nil {
			fmt.Fprintf(os.Stderr, "failed to create recurring transaction: %v\n", err)
			os.Exit(1)
		}
	}

	// Two days of rates so the latest-wins dedup has something to chew on.
	today := time.Now().UTC().Truncate(24 * time.Hour)
	yesterday := today.AddDate(0, 0, -1)
	rates := []struct {
		from, to string
		rate     string
		date     time.Time
	}{
		{"US Dollar (USD)", "Euro (EUR)", "0.91", yesterday},
		{"US Dollar (USD)", "Euro (EUR)", "0.92", today},
		{"USD", "CAD", "1.36", today},
		{"GBP", "USD", "1.27", today},
		{"EUR", "JPY", "161.50", today},
	}
	for _, r := range rates {
		rateDate := r.date
		rate, err := decimal.NewFromString(r.rate)
		if err != nil {
			fmt.Fprintf(os.Stderr, "bad seed rate %s: %v\n", r.rate, err)
			os.Exit(1)
		}
		if _, err := models.CreateExchangeRate(ctx, &models.NewExchangeRate{
			FromCurrency: r.from,
			ToCurrency:   r.to,
			Rate:         rate,
			RateDate:     &rateDate,
			Source:       models.RateSourceManual,
		}); err != nil {
			fmt.Fprintf(os.Stderr, "failed to create exchange rate %s->%s: %v\n", r.from, r.to, err)
			os.Exit(1)
		}
	}

	fmt.Printf("seeded user %q (id=%d) with accounts, categories, recurring templates and rates\n", user.Username, user.ID)
}
