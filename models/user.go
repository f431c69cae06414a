package models

import (
	"context"
	"errors"
	"time"

	"github.com/moneydesk/ledger_backend/config"
	"github.com/moneydesk/ledger_backend/utils"
)

type User struct {
	ID           int       `gorm:"primary_key" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:100;not null" json:"username" binding:"required"`
	Email        string    `gorm:"uniqueIndex;size:100;not null" json:"email" binding:"required"`
	PasswordHash string    `gorm:"size:100;not null" json:"-"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewUser struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (input *NewUser) validate() error {
	if input.Username == "" {
		return errors.New("username cannot be empty")
	}
	if !utils.IsValidEmail(input.Email) {
		return errors.New("invalid email format")
	}
	if len(input.Password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	return nil
}

func CreateUser(ctx context.Context, input *NewUser) (*User, error) {
	db := config.GetDB()

	if err := input.validate(); err != nil {
		return nil, err
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hashed),
	}
	if err := db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func UpdateUser(ctx context.Context, id int, input *NewUser) (*User, error) {
	db := config.GetDB()

	if err := input.validate(); err != nil {
		return nil, err
	}

	var user User
	if err := db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	err = db.WithContext(ctx).Model(&user).Updates(map[string]interface{}{
		"Username":     input.Username,
		"Email":        input.Email,
		"PasswordHash": string(hashed),
	}).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func DeleteUser(ctx context.Context, id int) (*User, error) {
	db := config.GetDB()

	var user User
	if err := db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	if err := db.WithContext(ctx).Delete(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func GetUser(ctx context.Context, id int) (*User, error) {
	db := config.GetDB()

	var user User
	if err := db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &user, nil
}

func GetUsers(ctx context.Context) ([]*User, error) {
	db := config.GetDB()
	var results []*User

	err := db.WithContext(ctx).Order("created_at desc").Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
