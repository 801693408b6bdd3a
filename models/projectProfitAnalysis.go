package models

import (
	"context"
	"time"

	"github.com/mmdatafocus/dispatch_backend/config"
	"github.com/shopspring/decimal"
)

// ProjectProfitAnalysis is a per-project rollup refreshed on subcontract writes.
type ProjectProfitAnalysis struct {
	ID                   int             `gorm:"primary_key" json:"id"`
	ProjectId            int             `gorm:"uniqueIndex;not null" json:"project_id"`
	TotalRevenue         decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_revenue"`
	TotalSubcontractCost decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_subcontract_cost"`
	TotalMaterialCost    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_material_cost"`
	TotalExpense         decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_expense"`
	GrossProfit          decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"gross_profit"`
	ProfitRate           decimal.Decimal `gorm:"type:decimal(7,2);default:0" json:"profit_rate"`
	UpdatedAt            time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// top profitable projects for the ultimate dashboard
func TopProfitableProjects(ctx context.Context, limit int) ([]*ProjectProfitAnalysis, error) {
	if limit < 1 {
		limit = 5
	}
	db := config.GetDB()
	var results []*ProjectProfitAnalysis
	err := db.WithContext(ctx).
		Order("gross_profit DESC").
		Limit(limit).
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
