package utils

import (
	"context"

	"github.com/moneydesk/ledger_backend/config"
)

// ResourceCountWhere counts rows of T owned by userId matching cond.
func ResourceCountWhere[T any](ctx context.Context, userId int, cond string, values ...interface{}) (int64, error) {
	db := config.GetDB()
	var model T
	var count int64
	err := db.WithContext(ctx).Model(&model).
		Where("user_id = ?", userId).
		Where(cond, values...).
		Count(&count).Error
	return count, err
}

// ValidateResourceId checks that the row exists under the given user scope.
func ValidateResourceId[T any](ctx context.Context, userId int, id interface{}) error {
	count, err := ResourceCountWhere[T](ctx, userId, "id = ?", id)
	if err != nil {
		return err
	}
	if count <= 0 {
		return ErrorRecordNotFound
	}
	return nil
}

// FetchModelForChange loads a user-scoped row prior to update/delete.
func FetchModelForChange[T any](ctx context.Context, userId int, id int) (*T, error) {
	db := config.GetDB()
	var result T
	err := db.WithContext(ctx).
		Where("user_id = ?", userId).
		First(&result, id).Error
	if err != nil {
		return nil, ErrorRecordNotFound
	}
	return &result, nil
}
