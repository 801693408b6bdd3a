package models

import (
	"context"
	"errors"
	"time"

	"github.com/mmdatafocus/dispatch_backend/config"
	"github.com/mmdatafocus/dispatch_backend/utils"
	"github.com/shopspring/decimal"
)

// VariableCost is a one-off expense, optionally tied to a project.
type VariableCost struct {
	ID           int              `gorm:"primary_key" json:"id"`
	Name         string           `gorm:"size:100;not null" json:"name" binding:"required"`
	CostType     VariableCostType `gorm:"size:20;default:'other'" json:"cost_type"`
	Amount       decimal.Decimal  `gorm:"type:decimal(20,4);default:0" json:"amount"`
	IncurredDate DateString       `gorm:"not null;index" json:"incurred_date" binding:"required"`
	ProjectId    *int             `gorm:"index" json:"project_id"`
	Notes        string           `gorm:"type:text" json:"notes"`
	CreatedAt    time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewVariableCost struct {
	Name         string           `json:"name" binding:"required"`
	CostType     VariableCostType `json:"cost_type"`
	Amount       decimal.Decimal  `json:"amount"`
	IncurredDate DateString       `json:"incurred_date" binding:"required"`
	ProjectId    *int             `json:"project_id"`
	Notes        string           `json:"notes"`
}

func (obj VariableCost) GetId() int {
	return obj.ID
}

func (input *NewVariableCost) validate(ctx context.Context) error {
	if input.IncurredDate.IsZero() {
		return errors.New("incurred date is required")
	}
	if input.CostType == "" {
		input.CostType = VariableCostOther
	}
	if input.ProjectId != nil && *input.ProjectId > 0 {
		if err := utils.ValidateResourceId[Project](ctx, *input.ProjectId); err != nil {
			return errors.New("project not found")
		}
	}
	return nil
}

func CreateVariableCost(ctx context.Context, input *NewVariableCost) (*VariableCost, error) {

	if err := input.validate(ctx); err != nil {
		return nil, err
	}

	cost := VariableCost{
		Name:         input.Name,
		CostType:     input.CostType,
		Amount:       input.Amount,
		IncurredDate: input.IncurredDate,
		ProjectId:    input.ProjectId,
		Notes:        input.Notes,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&cost).Error; err != nil {
		return nil, err
	}

	if err := ClearResourceCache[VariableCost](cost.ID); err != nil {
		return nil, err
	}
	return &cost, nil
}

func UpdateVariableCost(ctx context.Context, id int, input *NewVariableCost) (*VariableCost, error) {

	before, err := utils.FetchModel[VariableCost](ctx, id)
	if err != nil {
		return nil, err
	}
	if err := input.validate(ctx); err != nil {
		return nil, err
	}

	update := VariableCost{
		ID:           id,
		Name:         input.Name,
		CostType:     input.CostType,
		Amount:       input.Amount,
		IncurredDate: input.IncurredDate,
		ProjectId:    input.ProjectId,
		Notes:        input.Notes,
		CreatedAt:    before.CreatedAt,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Save(&update).Error; err != nil {
		return nil, err
	}

	if err := ClearResourceCache[VariableCost](id); err != nil {
		return nil, err
	}
	return &update, nil
}

func DeleteVariableCost(ctx context.Context, id int) (*VariableCost, error) {

	result, err := utils.FetchModel[VariableCost](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(&result).Error; err != nil {
		return nil, err
	}

	if err := ClearResourceCache[VariableCost](id); err != nil {
		return nil, err
	}
	return result, nil
}

func GetVariableCost(ctx context.Context, id int) (*VariableCost, error) {
	return GetResource[VariableCost](ctx, id)
}

func PaginateVariableCost(ctx context.Context, page, limit int, costType *VariableCostType, projectId *int, fromDate *DateString, toDate *DateString) (*PageConnection[VariableCost], error) {

	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Order("incurred_date DESC")

	if err := fromDate.StartOfDayUTCTime(""); err != nil {
		return nil, err
	}
	if err := toDate.EndOfDayUTCTime(""); err != nil {
		return nil, err
	}

	if costType != nil && *costType != "" {
		dbCtx = dbCtx.Where("cost_type = ?", *costType)
	}
	if projectId != nil && *projectId > 0 {
		dbCtx = dbCtx.Where("project_id = ?", *projectId)
	}
	if fromDate != nil && toDate != nil {
		dbCtx = dbCtx.Where("incurred_date BETWEEN ? AND ?", fromDate, toDate)
	}

	return FetchPage[VariableCost](dbCtx, page, limit)
}

// sum of variable costs incurred inside [from, to]
func VariableCostTotalBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	db := config.GetDB()
	var costs []*VariableCost
	err := db.WithContext(ctx).
		Where("incurred_date BETWEEN ? AND ?", from, to).
		Find(&costs).Error
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, c := range costs {
		total = total.Add(c.Amount)
	}
	return total, nil
}

func RecentVariableCosts(ctx context.Context, limit int) ([]*VariableCost, error) {
	if limit < 1 {
		limit = 10
	}
	db := config.GetDB()
	var costs []*VariableCost
	err := db.WithContext(ctx).
		Order("incurred_date DESC").
		Limit(limit).
		Find(&costs).Error
	if err != nil {
		return nil, err
	}
	return costs, nil
}
