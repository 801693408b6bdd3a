package models

import (
	"context"
	"errors"
	"time"

	"github.com/mmdatafocus/dispatch_backend/config"
	"github.com/mmdatafocus/dispatch_backend/utils"
	"github.com/shopspring/decimal"
)

// FixedCost is a recurring monthly cost (rent, salary, insurance, ...).
type FixedCost struct {
	ID            int             `gorm:"primary_key" json:"id"`
	Name          string          `gorm:"size:100;not null" json:"name" binding:"required"`
	CostType      FixedCostType   `gorm:"size:20;default:'other'" json:"cost_type"`
	MonthlyAmount decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"monthly_amount"`
	StartDate     DateString      `gorm:"not null" json:"start_date" binding:"required"`
	EndDate       *DateString     `json:"end_date"`
	IsActive      *bool           `gorm:"default:true" json:"is_active"`
	Notes         string          `gorm:"type:text" json:"notes"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewFixedCost struct {
	Name          string          `json:"name" binding:"required"`
	CostType      FixedCostType   `json:"cost_type"`
	MonthlyAmount decimal.Decimal `json:"monthly_amount"`
	StartDate     DateString      `json:"start_date" binding:"required"`
	EndDate       *DateString     `json:"end_date"`
	IsActive      *bool           `json:"is_active"`
	Notes         string          `json:"notes"`
}

func (obj FixedCost) GetId() int {
	return obj.ID
}

// IsActiveInMonth reports whether this cost applies in the given month.
// Boundaries are inclusive: a cost starting on the first of the month counts,
// a cost ending on the first of the month still counts.
func (c *FixedCost) IsActiveInMonth(year int, month time.Month) bool {
	if c.IsActive == nil || !*c.IsActive {
		return false
	}
	firstOfMonth := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	start := utils.DateOnly(c.StartDate.Time())
	if start.After(firstOfMonth) {
		return false
	}
	if c.EndDate != nil && !c.EndDate.IsZero() {
		end := utils.DateOnly(c.EndDate.Time())
		if end.Before(firstOfMonth) {
			return false
		}
	}
	return true
}

func (input *NewFixedCost) validate() error {
	if input.StartDate.IsZero() {
		return errors.New("start date is required")
	}
	if input.EndDate != nil && !input.EndDate.IsZero() &&
		input.EndDate.Time().Before(input.StartDate.Time()) {
		return errors.New("end date must not be before start date")
	}
	if input.CostType == "" {
		input.CostType = FixedCostOther
	}
	return nil
}

func CreateFixedCost(ctx context.Context, input *NewFixedCost) (*FixedCost, error) {

	if err := input.validate(); err != nil {
		return nil, err
	}

	cost := FixedCost{
		Name:          input.Name,
		CostType:      input.CostType,
		MonthlyAmount: input.MonthlyAmount,
		StartDate:     input.StartDate,
		EndDate:       input.EndDate,
		IsActive:      input.IsActive,
		Notes:         input.Notes,
	}
	if cost.IsActive == nil {
		cost.IsActive = utils.NewTrue()
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&cost).Error; err != nil {
		return nil, err
	}

	if err := ClearResourceCache[FixedCost](cost.ID); err != nil {
		return nil, err
	}
	return &cost, nil
}

func UpdateFixedCost(ctx context.Context, id int, input *NewFixedCost) (*FixedCost, error) {

	before, err := utils.FetchModel[FixedCost](ctx, id)
	if err != nil {
		return nil, err
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	update := FixedCost{
		ID:            id,
		Name:          input.Name,
		CostType:      input.CostType,
		MonthlyAmount: input.MonthlyAmount,
		StartDate:     input.StartDate,
		EndDate:       input.EndDate,
		IsActive:      input.IsActive,
		Notes:         input.Notes,
		CreatedAt:     before.CreatedAt,
	}
	if update.IsActive == nil {
		update.IsActive = before.IsActive
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Save(&update).Error; err != nil {
		return nil, err
	}

	if err := ClearResourceCache[FixedCost](id); err != nil {
		return nil, err
	}
	return &update, nil
}

func DeleteFixedCost(ctx context.Context, id int) (*FixedCost, error) {

	result, err := utils.FetchModel[FixedCost](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(&result).Error; err != nil {
		return nil, err
	}

	if err := ClearResourceCache[FixedCost](id); err != nil {
		return nil, err
	}
	return result, nil
}

func GetFixedCost(ctx context.Context, id int) (*FixedCost, error) {
	return GetResource[FixedCost](ctx, id)
}

func ListFixedCosts(ctx context.Context) ([]*FixedCost, error) {
	return ListAllResource[FixedCost](ctx, "start_date ASC")
}

// total monthly amount of costs active in the given month
func ActiveFixedCostTotal(ctx context.Context, year int, month time.Month) (decimal.Decimal, error) {
	costs, err := ListFixedCosts(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, c := range costs {
		if c.IsActiveInMonth(year, month) {
			total = total.Add(c.MonthlyAmount)
		}
	}
	return total, nil
}
