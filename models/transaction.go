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

// Transaction amounts are stored signed: income positive, expense
// negative, zero rejected. The account's current_balance moves by the
// signed amount on create and by its negation on delete, always inside
// the same DB transaction as the row change.
type Transaction struct {
	ID              int                   `gorm:"primary_key" json:"id"`
	AccountId       int                   `gorm:"index;not null" json:"account_id" binding:"required"`
	Amount          decimal.Decimal       `gorm:"type:decimal(20,4);not null" json:"amount"`
	TransactionType TransactionType       `gorm:"type:enum('income', 'expense', 'transfer');not null" json:"transaction_type" binding:"required"`
	Description     string                `gorm:"size:255" json:"description"`
	TransactionDate time.Time             `gorm:"index;not null" json:"transaction_date"`
	Categories      []TransactionCategory `gorm:"foreignKey:TransactionId" json:"categories"`
	CreatedAt       time.Time             `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time             `gorm:"autoUpdateTime" json:"updated_at"`
}

// TransactionCategory is one split: part of a transaction's amount
// allocated to a category.
type TransactionCategory struct {
	ID            int             `gorm:"primary_key" json:"id"`
	TransactionId int             `gorm:"index;not null" json:"transaction_id"`
	CategoryId    int             `gorm:"index;not null" json:"category_id"`
	Amount        decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"amount"`
}

type CategoryAmount struct {
	CategoryId int             `json:"category_id" binding:"required"`
	Amount     decimal.Decimal `json:"amount"`
}

type NewTransaction struct {
	AccountId       int              `json:"account_id" binding:"required"`
	Amount          decimal.Decimal  `json:"amount"`
	TransactionType TransactionType  `json:"transaction_type" binding:"required"`
	Description     string           `json:"description"`
	TransactionDate *time.Time       `json:"transaction_date"`
	Categories      []CategoryAmount `json:"categories"`
}

// validateAmount checks sign/type consistency without touching the DB.
func (input *NewTransaction) validateAmount() error {
	if _, err := ParseTransactionType(string(input.TransactionType)); err != nil {
		return err
	}
	if input.Amount.IsZero() {
		return errors.New("transaction amount cannot be zero")
	}
	switch input.TransactionType {
	case TransactionTypeIncome:
		if input.Amount.IsNegative() {
			return errors.New("income amount must be positive")
		}
	case TransactionTypeExpense:
		if input.Amount.IsPositive() {
			return errors.New("expense amount must be negative")
		}
	}
	return nil
}

// validateSplits checks that split amounts sum to the transaction
// amount within the 0.01 tolerance. Pure; no DB access.
func (input *NewTransaction) validateSplits() error {
	if len(input.Categories) == 0 {
		return nil
	}
	var sum decimal.Decimal
	for _, split := range input.Categories {
		sum = sum.Add(split.Amount)
	}
	if !utils.WithinTolerance(sum, input.Amount) {
		return errors.New("category amounts (" + sum.String() + ") must sum to transaction amount (" + input.Amount.String() + ")")
	}
	return nil
}

func (input *NewTransaction) validate(ctx context.Context, userId int) error {
	if err := input.validateAmount(); err != nil {
		return err
	}
	if err := input.validateSplits(); err != nil {
		return err
	}
	if err := utils.ValidateResourceId[Account](ctx, userId, input.AccountId); err != nil {
		return errors.New("account not found")
	}
	for _, split := range input.Categories {
		if err := utils.ValidateResourceId[Category](ctx, userId, split.CategoryId); err != nil {
			return errors.New("category not found")
		}
	}
	return nil
}

func CreateTransaction(ctx context.Context, input *NewTransaction) (*Transaction, error) {
	db := config.GetDB()

	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId <= 0 {
		return nil, errors.New("user id is required")
	}

	if err := input.validate(ctx, userId); err != nil {
		return nil, err
	}

	txnDate := time.Now().UTC()
	if input.TransactionDate != nil {
		txnDate = *input.TransactionDate
	}

	transaction := Transaction{
		AccountId:       input.AccountId,
		Amount:          input.Amount,
		TransactionType: input.TransactionType,
		Description:     input.Description,
		TransactionDate: txnDate,
	}
	for _, split := range input.Categories {
		transaction.Categories = append(transaction.Categories, TransactionCategory{
			CategoryId: split.CategoryId,
			Amount:     split.Amount,
		})
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&transaction).Error; err != nil {
			return err
		}
		return ApplyAccountBalanceChange(tx, transaction.AccountId, transaction.Amount)
	})
	if err != nil {
		return nil, err
	}
	return &transaction, nil
}

func DeleteTransaction(ctx context.Context, id int) (*Transaction, error) {
	db := config.GetDB()

	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId <= 0 {
		return nil, errors.New("user id is required")
	}

	transaction, err := fetchUserTransaction(ctx, userId, id)
	if err != nil {
		return nil, err
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("transaction_id = ?", transaction.ID).Delete(&TransactionCategory{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&Transaction{}, transaction.ID).Error; err != nil {
			return err
		}
		// Reverse the signed amount originally applied.
		return ApplyAccountBalanceChange(tx, transaction.AccountId, transaction.Amount.Neg())
	})
	if err != nil {
		return nil, err
	}
	return transaction, nil
}

// UpdateTransaction is delete-then-recreate at the balance boundary:
// the old signed amount is reversed and the new one applied in the
// same DB transaction, so the cached balance cannot drift.
func UpdateTransaction(ctx context.Context, id int, input *NewTransaction) (*Transaction, error) {
	db := config.GetDB()

	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId <= 0 {
		return nil, errors.New("user id is required")
	}

	if err := input.validate(ctx, userId); err != nil {
		return nil, err
	}

	existing, err := fetchUserTransaction(ctx, userId, id)
	if err != nil {
		return nil, err
	}

	txnDate := existing.TransactionDate
	if input.TransactionDate != nil {
		txnDate = *input.TransactionDate
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ApplyAccountBalanceChange(tx, existing.AccountId, existing.Amount.Neg()); err != nil {
			return err
		}
		if err := tx.Where("transaction_id = ?", existing.ID).Delete(&TransactionCategory{}).Error; err != nil {
			return err
		}

		updates := map[string]interface{}{
			"AccountId":       input.AccountId,
			"Amount":          input.Amount,
			"TransactionType": input.TransactionType,
			"Description":     input.Description,
			"TransactionDate": txnDate,
		}
		if err := tx.Model(&Transaction{ID: existing.ID}).Updates(updates).Error; err != nil {
			return err
		}
		for _, split := range input.Categories {
			row := TransactionCategory{
				TransactionId: existing.ID,
				CategoryId:    split.CategoryId,
				Amount:        split.Amount,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return ApplyAccountBalanceChange(tx, input.AccountId, input.Amount)
	})
	if err != nil {
		return nil, err
	}

	return fetchUserTransaction(ctx, userId, id)
}

func GetTransaction(ctx context.Context, id int) (*Transaction, error) {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId <= 0 {
		return nil, errors.New("user id is required")
	}
	return fetchUserTransaction(ctx, userId, id)
}

type TransactionFilter struct {
	AccountId       *int
	TransactionType *TransactionType
	Limit           int
	Offset          int
}

func GetTransactions(ctx context.Context, filter *TransactionFilter) ([]*Transaction, error) {
	db := config.GetDB()
	var results []*Transaction

	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId <= 0 {
		return nil, errors.New("user id is required")
	}

	dbCtx := db.WithContext(ctx).
		Joins("JOIN accounts ON accounts.id = transactions.account_id").
		Where("accounts.user_id = ?", userId)
	if filter != nil {
		if filter.AccountId != nil && *filter.AccountId > 0 {
			dbCtx = dbCtx.Where("transactions.account_id = ?", *filter.AccountId)
		}
		if filter.TransactionType != nil && *filter.TransactionType != "" {
			dbCtx = dbCtx.Where("transactions.transaction_type = ?", *filter.TransactionType)
		}
		if filter.Limit > 0 {
			dbCtx = dbCtx.Limit(filter.Limit).Offset(filter.Offset)
		}
	}

	err := dbCtx.Preload("Categories").
		Order("transactions.transaction_date desc").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

// fetchUserTransaction loads a transaction only when its account
// belongs to the given user.
func fetchUserTransaction(ctx context.Context, userId int, id int) (*Transaction, error) {
	db := config.GetDB()

	var result Transaction
	err := db.WithContext(ctx).
		Joins("JOIN accounts ON accounts.id = transactions.account_id").
		Where("accounts.user_id = ?", userId).
		Preload("Categories").
		First(&result, "transactions.id = ?", id).Error
	if err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &result, nil
}
