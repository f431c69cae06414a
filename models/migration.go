package models

import "github.com/moneydesk/ledger_backend/config"

func AutoMigrate() error {
	db := config.GetDB()
	return db.AutoMigrate(
		&User{},
		&Account{},
		&Category{},
		&Transaction{},
		&TransactionCategory{},
		&RecurringTransaction{},
		&ExchangeRate{},
	)
}
