package models

import (
	"context"
	"errors"
	"time"

	"github.com/moneydesk/ledger_backend/config"
	"github.com/moneydesk/ledger_backend/utils"
	"github.com/shopspring/decimal"
)

// RecurringTransaction is a template the due processor materializes
// into real transactions. NextOccurrence always points at the next
// unprocessed date; it is never rewound.
type RecurringTransaction struct {
	ID              int             `gorm:"primary_key" json:"id"`
	AccountId       int             `gorm:"index;not null" json:"account_id" binding:"required"`
	CategoryId      int             `gorm:"index;default:null" json:"category_id"`
	Amount          decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"amount"`
	TransactionType TransactionType `gorm:"type:enum('income', 'expense');not null" json:"transaction_type" binding:"required"`
	Description     string          `gorm:"size:255" json:"description"`
	Frequency       Frequency       `gorm:"type:enum('daily', 'weekly', 'monthly', 'yearly');not null" json:"frequency" binding:"required"`
	StartDate       time.Time       `gorm:"not null" json:"start_date"`
	EndDate         *time.Time      `json:"end_date"`
	NextOccurrence  time.Time       `gorm:"index;not null" json:"next_occurrence"`
	IsActive        *bool           `gorm:"default:true" json:"is_active"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewRecurringTransaction struct {
	AccountId       int             `json:"account_id" binding:"required"`
	CategoryId      int             `json:"category_id"`
	Amount          decimal.Decimal `json:"amount"`
	TransactionType TransactionType `json:"transaction_type" binding:"required"`
	Description     string          `json:"description"`
	Frequency       Frequency       `json:"frequency" binding:"required"`
	StartDate       time.Time       `json:"start_date" binding:"required"`
	EndDate         *time.Time      `json:"end_date"`
	IsActive        *bool           `json:"is_active"`
}

func (input *NewRecurringTransaction) validate(ctx context.Context, userId int) error {
	transactionType, err := ParseTransactionType(string(input.TransactionType))
	if err != nil {
		return err
	}
	if transactionType == TransactionTypeTransfer {
		return errors.New("recurring transactions must be income or expense")
	}
	if input.Amount.IsZero() {
		return errors.New("recurring amount cannot be zero")
	}
	if transactionType == TransactionTypeIncome && input.Amount.IsNegative() {
		return errors.New("income amount must be positive")
	}
	if transactionType == TransactionTypeExpense && input.Amount.IsPositive() {
		return errors.New("expense amount must be negative")
	}
	if _, err := ParseFrequency(string(input.Frequency)); err != nil {
		return err
	}
	if input.EndDate != nil && !input.EndDate.After(input.StartDate) {
		return errors.New("end date must be after start date")
	}
	if err := utils.ValidateResourceId[Account](ctx, userId, input.AccountId); err != nil {
		return errors.New("account not found")
	}
	if input.CategoryId > 0 {
		if err := utils.ValidateResourceId[Category](ctx, userId, input.CategoryId); err != nil {
			return errors.New("category not found")
		}
	}
	return nil
}

func CreateRecurringTransaction(ctx context.Context, input *NewRecurringTransaction) (*RecurringTransaction, error) {
	db := config.GetDB()

	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId <= 0 {
		return nil, errors.New("user id is required")
	}

	if err := input.validate(ctx, userId); err != nil {
		return nil, err
	}

	isActive := utils.NewTrue()
	if input.IsActive != nil {
		isActive = input.IsActive
	}

	recurring := RecurringTransaction{
		AccountId:       input.AccountId,
		CategoryId:      input.CategoryId,
		Amount:          input.Amount,
		TransactionType: input.TransactionType,
		Description:     input.Description,
		Frequency:       input.Frequency,
		StartDate:       input.StartDate,
		EndDate:         input.EndDate,
		NextOccurrence:  input.StartDate,
		IsActive:        isActive,
	}
	if err := db.WithContext(ctx).Create(&recurring).Error; err != nil {
		return nil, err
	}
	return &recurring, nil
}

// UpdateRecurringTransaction changes the template fields, including
// pause/resume via is_active. NextOccurrence is left untouched so a
// paused template resumes where it stopped.
func UpdateRecurringTransaction(ctx context.Context, id int, input *NewRecurringTransaction) (*RecurringTransaction, error) {
	db := config.GetDB()

	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId <= 0 {
		return nil, errors.New("user id is required")
	}

	if err := input.validate(ctx, userId); err != nil {
		return nil, err
	}

	existing, err := fetchUserRecurringTransaction(ctx, userId, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"AccountId":       input.AccountId,
		"CategoryId":      input.CategoryId,
		"Amount":          input.Amount,
		"TransactionType": input.TransactionType,
		"Description":     input.Description,
		"Frequency":       input.Frequency,
		"EndDate":         input.EndDate,
	}
	if input.IsActive != nil {
		updates["IsActive"] = input.IsActive
	}
	err = db.WithContext(ctx).Model(&RecurringTransaction{ID: existing.ID}).Updates(updates).Error
	if err != nil {
		return nil, err
	}
	return fetchUserRecurringTransaction(ctx, userId, id)
}

func DeleteRecurringTransaction(ctx context.Context, id int) (*RecurringTransaction, error) {
	db := config.GetDB()

	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId <= 0 {
		return nil, errors.New("user id is required")
	}

	existing, err := fetchUserRecurringTransaction(ctx, userId, id)
	if err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Delete(&RecurringTransaction{}, existing.ID).Error; err != nil {
		return nil, err
	}
	return existing, nil
}

func GetRecurringTransaction(ctx context.Context, id int) (*RecurringTransaction, error) {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId <= 0 {
		return nil, errors.New("user id is required")
	}
	return fetchUserRecurringTransaction(ctx, userId, id)
}

func GetRecurringTransactions(ctx context.Context) ([]*RecurringTransaction, error) {
	db := config.GetDB()
	var results []*RecurringTransaction

	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId <= 0 {
		return nil, errors.New("user id is required")
	}

	err := db.WithContext(ctx).
		Joins("JOIN accounts ON accounts.id = recurring_transactions.account_id").
		Where("accounts.user_id = ?", userId).
		Order("recurring_transactions.next_occurrence").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

// DueRecurringTransactions selects the templates the processor must
// materialize at the given instant, across all users. A template past
// its end date is excluded even when still marked active.
func DueRecurringTransactions(ctx context.Context, now time.Time) ([]*RecurringTransaction, error) {
	db := config.GetDB()
	var results []*RecurringTransaction

	err := db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("next_occurrence <= ?", now).
		Where("end_date IS NULL OR next_occurrence <= end_date").
		Order("id").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func fetchUserRecurringTransaction(ctx context.Context, userId int, id int) (*RecurringTransaction, error) {
	db := config.GetDB()

	var result RecurringTransaction
	err := db.WithContext(ctx).
		Joins("JOIN accounts ON accounts.id = recurring_transactions.account_id").
		Where("accounts.user_id = ?", userId).
		First(&result, "recurring_transactions.id = ?", id).Error
	if err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &result, nil
}
