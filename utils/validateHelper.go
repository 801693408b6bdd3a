package utils

import (
	"context"
	"errors"
	"fmt"

	"github.com/mmdatafocus/dispatch_backend/config"
)

// check a referenced row exists (0 id is treated as "not set" and passes)
func ValidateResourceId[T any](ctx context.Context, id int) error {
	if id == 0 {
		return nil
	}
	db := config.GetDB()
	var model T
	var count int64
	if err := db.WithContext(ctx).Model(&model).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrorRecordNotFound
	}
	return nil
}

// check uniqueness of a column value, ignoring the row with exceptId (0 for create)
func ValidateUnique[T any](ctx context.Context, column string, value interface{}, exceptId interface{}) error {
	db := config.GetDB()
	var model T
	var count int64
	err := db.WithContext(ctx).Model(&model).
		Where(fmt.Sprintf("%s = ?", column), value).
		Where("id != ?", exceptId).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return errors.New(column + " must be unique")
	}
	return nil
}

func ResourceCountWhere[T any](ctx context.Context, condition string, value ...interface{}) (int64, error) {
	db := config.GetDB()
	var model T
	var count int64
	err := db.WithContext(ctx).Model(&model).Where(condition, value...).Count(&count).Error
	return count, err
}
