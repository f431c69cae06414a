package workflow

import (
	"context"
	"time"

	"github.com/bsm/redislock"
	"github.com/moneydesk/ledger_backend/config"
	"github.com/moneydesk/ledger_backend/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// RecurringFailure records one template the processor could not
// materialize. Failures never abort the batch.
type RecurringFailure struct {
	RecurringTransactionId int    `json:"recurring_transaction_id"`
	AccountId              int    `json:"account_id"`
	Reason                 string `json:"reason"`
}

type RecurringProcessReport struct {
	Due       int                `json:"due"`
	Processed int                `json:"processed"`
	Created   []int              `json:"created_transaction_ids"`
	Failures  []RecurringFailure `json:"failures"`
}

const recurringRunLockKey = "lock:recurring_process"

// ProcessDueRecurring materializes every due template as of now: one
// real transaction dated at the template's next occurrence, the
// account balance moved by the signed amount, and the template
// advanced one period. Each template commits in its own DB
// transaction, so one bad template cannot hold back the rest.
//
// Safe under concurrent runs: the advance is an optimistic claim
// (UPDATE ... WHERE next_occurrence still equals the value we read),
// so a template another run already advanced is skipped, not posted
// twice. The Redis run lock on top is best-effort backpressure, not
// the correctness mechanism.
func ProcessDueRecurring(ctx context.Context, now time.Time) (*RecurringProcessReport, error) {
	db := config.GetDB()
	logger := config.GetLogger()

	if lock := obtainRunLock(ctx, logger); lock != nil {
		defer func() {
			if err := lock.Release(ctx); err != nil {
				logger.WithFields(logrus.Fields{"field": "ProcessDueRecurring"}).
					Warn("failed to release recurring run lock: " + err.Error())
			}
		}()
	}

	due, err := models.DueRecurringTransactions(ctx, now)
	if err != nil {
		return nil, err
	}

	report := RecurringProcessReport{
		Due:      len(due),
		Created:  []int{},
		Failures: []RecurringFailure{},
	}

	for _, recurring := range due {
		createdId, processed, err := processOneRecurring(ctx, db, recurring)
		if err != nil {
			config.LogError(logger, "workflow", "ProcessDueRecurring", "process recurring transaction", recurring.ID, err)
			report.Failures = append(report.Failures, RecurringFailure{
				RecurringTransactionId: recurring.ID,
				AccountId:              recurring.AccountId,
				Reason:                 err.Error(),
			})
			continue
		}
		if !processed {
			// Claimed by a concurrent run between the due query and
			// the advance. Nothing to post.
			continue
		}
		report.Processed++
		report.Created = append(report.Created, createdId)
	}

	logger.WithFields(logrus.Fields{
		"field":     "ProcessDueRecurring",
		"due":       report.Due,
		"processed": report.Processed,
		"failed":    len(report.Failures),
	}).Info("recurring processing run complete")

	return &report, nil
}

// processOneRecurring posts one occurrence atomically: claim the
// template, create the transaction dated at the occurrence, move the
// balance. Returns processed=false when another run claimed it first.
func processOneRecurring(ctx context.Context, db *gorm.DB, recurring *models.RecurringTransaction) (int, bool, error) {
	occurrence := recurring.NextOccurrence
	advanced := NextOccurrence(occurrence, recurring.Frequency)

	isActive := true
	if recurring.EndDate != nil && advanced.After(*recurring.EndDate) {
		isActive = false
	}

	var createdId int
	claimed := false

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		claim := tx.Model(&models.RecurringTransaction{}).
			Where("id = ? AND next_occurrence = ?", recurring.ID, occurrence).
			Updates(map[string]interface{}{
				"NextOccurrence": advanced,
				"IsActive":       isActive,
			})
		if claim.Error != nil {
			return claim.Error
		}
		if claim.RowsAffected == 0 {
			return nil
		}
		claimed = true

		transaction := models.Transaction{
			AccountId:       recurring.AccountId,
			Amount:          recurring.Amount,
			TransactionType: recurring.TransactionType,
			Description:     recurring.Description,
			TransactionDate: occurrence,
		}
		if recurring.CategoryId > 0 {
			transaction.Categories = []models.TransactionCategory{{
				CategoryId: recurring.CategoryId,
				Amount:     recurring.Amount,
			}}
		}
		if err := tx.Create(&transaction).Error; err != nil {
			return err
		}
		if err := models.ApplyAccountBalanceChange(tx, recurring.AccountId, recurring.Amount); err != nil {
			return err
		}
		createdId = transaction.ID
		return nil
	})
	if err != nil {
		return 0, false, err
	}
	return createdId, claimed, nil
}

func obtainRunLock(ctx context.Context, logger *logrus.Logger) *redislock.Lock {
	locker := config.GetRedisLock()
	if locker == nil {
		return nil
	}
	lock, err := locker.Obtain(ctx, recurringRunLockKey, 60*time.Second, nil)
	if err == redislock.ErrNotObtained {
		logger.WithFields(logrus.Fields{"field": "ProcessDueRecurring"}).
			Warn("could not obtain recurring run lock; proceeding, claims will dedupe")
		return nil
	} else if err != nil {
		logger.WithFields(logrus.Fields{"field": "ProcessDueRecurring"}).
			Warn("error obtaining recurring run lock; proceeding: " + err.Error())
		return nil
	}
	return lock
}
