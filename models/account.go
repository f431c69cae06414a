package models

import (
	"context"
	"errors"
	"time"

	"github.com/moneydesk/ledger_backend/config"
	"github.com/moneydesk/ledger_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Account. CurrentBalance is a cached aggregate: it must always equal
// InitialBalance plus the signed sum of all live transactions on the
// account. Only ApplyAccountBalanceChange may write it.
type Account struct {
	ID             int             `gorm:"primary_key" json:"id"`
	UserId         int             `gorm:"index;not null" json:"user_id"`
	Name           string          `gorm:"size:100;not null" json:"name" binding:"required"`
	AccountType    AccountType     `gorm:"type:enum('checking', 'savings', 'credit_card');not null" json:"account_type" binding:"required"`
	BankName       string          `gorm:"size:100" json:"bank_name"`
	Currency       string          `gorm:"size:3;not null" json:"currency"`
	InitialBalance decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"initial_balance"`
	CurrentBalance decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"current_balance"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewAccount struct {
	Name           string          `json:"name" binding:"required"`
	AccountType    AccountType     `json:"account_type" binding:"required"`
	BankName       string          `json:"bank_name"`
	Currency       string          `json:"currency"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
}

func (input *NewAccount) validate() error {
	if input.Name == "" {
		return errors.New("account name cannot be empty")
	}
	if _, err := ParseAccountType(string(input.AccountType)); err != nil {
		return err
	}
	if input.Currency != "" {
		if _, err := ParseCurrencyCode(input.Currency); err != nil {
			return err
		}
	}
	return nil
}

func CreateAccount(ctx context.Context, input *NewAccount) (*Account, error) {
	db := config.GetDB()

	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId <= 0 {
		return nil, errors.New("user id is required")
	}

	if err := input.validate(); err != nil {
		return nil, err
	}

	currency := "USD"
	if input.Currency != "" {
		code, _ := ParseCurrencyCode(input.Currency)
		currency = code.String()
	}

	account := Account{
		UserId:         userId,
		Name:           input.Name,
		AccountType:    input.AccountType,
		BankName:       input.BankName,
		Currency:       currency,
		InitialBalance: input.InitialBalance,
		CurrentBalance: input.InitialBalance,
	}

	if err := db.WithContext(ctx).Create(&account).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

func UpdateAccount(ctx context.Context, id int, input *NewAccount) (*Account, error) {
	db := config.GetDB()

	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId <= 0 {
		return nil, errors.New("user id is required")
	}

	if err := input.validate(); err != nil {
		return nil, err
	}

	account, err := utils.FetchModelForChange[Account](ctx, userId, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"Name":        input.Name,
		"AccountType": input.AccountType,
		"BankName":    input.BankName,
	}
	if input.Currency != "" {
		code, _ := ParseCurrencyCode(input.Currency)
		updates["Currency"] = code.String()
	}

	if err := db.WithContext(ctx).Model(&account).Updates(updates).Error; err != nil {
		return nil, err
	}
	return account, nil
}

func DeleteAccount(ctx context.Context, id int) (*Account, error) {
	db := config.GetDB()

	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId <= 0 {
		return nil, errors.New("user id is required")
	}

	account, err := utils.FetchModelForChange[Account](ctx, userId, id)
	if err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Delete(&account).Error; err != nil {
		return nil, err
	}
	return account, nil
}

func GetAccount(ctx context.Context, id int) (*Account, error) {
	db := config.GetDB()

	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId <= 0 {
		return nil, errors.New("user id is required")
	}

	var result Account
	err := db.WithContext(ctx).Where("user_id = ?", userId).First(&result, id).Error
	if err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &result, nil
}

func GetAccounts(ctx context.Context) ([]*Account, error) {
	db := config.GetDB()
	var results []*Account

	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId <= 0 {
		return nil, errors.New("user id is required")
	}

	err := db.WithContext(ctx).
		Where("user_id = ?", userId).
		Order("created_at desc").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

// ApplyAccountBalanceChange is the single write path for
// current_balance. The update is relative (computed in SQL from the
// stored value), so two concurrent mutations of the same account
// serialize on the row instead of losing one of the writes. Must run
// inside the transaction that creates or deletes the ledger rows.
func ApplyAccountBalanceChange(tx *gorm.DB, accountId int, delta decimal.Decimal) error {
	result := tx.Model(&Account{}).
		Where("id = ?", accountId).
		UpdateColumn("current_balance", gorm.Expr("current_balance + ?", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return utils.ErrorRecordNotFound
	}
	return nil
}
