package models

import (
	"context"
	"errors"
	"time"

	"github.com/moneydesk/ledger_backend/config"
	"github.com/moneydesk/ledger_backend/utils"
)

// Category is type-agnostic: the same category can appear on income
// and expense transactions.
type Category struct {
	ID        int       `gorm:"primary_key" json:"id"`
	UserId    int       `gorm:"index;not null" json:"user_id"`
	Name      string    `gorm:"size:100;not null" json:"name" binding:"required"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewCategory struct {
	Name string `json:"name" binding:"required"`
}

func CreateCategory(ctx context.Context, input *NewCategory) (*Category, error) {
	db := config.GetDB()

	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId <= 0 {
		return nil, errors.New("user id is required")
	}
	if input.Name == "" {
		return nil, errors.New("category name cannot be empty")
	}

	category := Category{
		UserId: userId,
		Name:   input.Name,
	}
	if err := db.WithContext(ctx).Create(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func UpdateCategory(ctx context.Context, id int, input *NewCategory) (*Category, error) {
	db := config.GetDB()

	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId <= 0 {
		return nil, errors.New("user id is required")
	}
	if input.Name == "" {
		return nil, errors.New("category name cannot be empty")
	}

	category, err := utils.FetchModelForChange[Category](ctx, userId, id)
	if err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Model(&category).Update("Name", input.Name).Error; err != nil {
		return nil, err
	}
	return category, nil
}

func DeleteCategory(ctx context.Context, id int) (*Category, error) {
	db := config.GetDB()

	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId <= 0 {
		return nil, errors.New("user id is required")
	}

	category, err := utils.FetchModelForChange[Category](ctx, userId, id)
	if err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Delete(&category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

func GetCategory(ctx context.Context, id int) (*Category, error) {
	db := config.GetDB()

	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId <= 0 {
		return nil, errors.New("user id is required")
	}

	var result Category
	err := db.WithContext(ctx).Where("user_id = ?", userId).First(&result, id).Error
	if err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &result, nil
}

func GetCategories(ctx context.Context) ([]*Category, error) {
	db := config.GetDB()
	var results []*Category

	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId <= 0 {
		return nil, errors.New("user id is required")
	}

	err := db.WithContext(ctx).
		Where("user_id = ?", userId).
		Order("name").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
