package models

import (
	"gorm.io/gorm"
)

const defaultPageLimit = 50

type PageInfo struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalCount int64 `json:"totalCount"`
	TotalPages int   `json:"totalPages"`
}

type PageConnection[T any] struct {
	PageInfo *PageInfo `json:"pageInfo"`
	Items    []*T      `json:"items"`
}

// offset pagination over a prepared query
func FetchPage[T any](dbCtx *gorm.DB, page, limit int) (*PageConnection[T], error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}

	var model T
	var total int64
	if err := dbCtx.Model(&model).Count(&total).Error; err != nil {
		return nil, err
	}

	var items []*T
	if err := dbCtx.Offset((page - 1) * limit).Limit(limit).Find(&items).Error; err != nil {
		return nil, err
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &PageConnection[T]{
		PageInfo: &PageInfo{
			Page:       page,
			Limit:      limit,
			TotalCount: total,
			TotalPages: totalPages,
		},
		Items: items,
	}, nil
}
