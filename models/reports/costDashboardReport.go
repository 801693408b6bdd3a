package reports

import (
	"context"
	"time"

	"github.com/mmdatafocus/dispatch_backend/models"
	"github.com/mmdatafocus/dispatch_backend/utils"
	"github.com/shopspring/decimal"
)

type CostDashboard struct {
	Year              int                    `json:"year"`
	Month             int                    `json:"month"`
	FixedCostTotal    decimal.Decimal        `json:"fixed_cost_total"`
	VariableThisMonth decimal.Decimal        `json:"variable_this_month"`
	VariableFiscalYTD decimal.Decimal        `json:"variable_fiscal_ytd"`
	MonthlyTotal      decimal.Decimal        `json:"monthly_total"`
	RecentCosts       []*models.VariableCost `json:"recent_costs"`
}

// GetCostDashboard summarizes overhead for one month: the active fixed cost
// total, the month's variable spend and the fiscal year-to-date variable spend.
func GetCostDashboard(ctx context.Context, year int, month time.Month) (*CostDashboard, error) {
	started := time.Now()
	defer logSlowReport(ctx, "cost_dashboard", started, map[string]any{"year": year, "month": int(month)})

	fixedTotal, err := models.ActiveFixedCostTotal(ctx, year, month)
	if err != nil {
		return nil, err
	}

	monthStart, monthEnd := utils.MonthRange(year, month)
	variableMonth, err := models.VariableCostTotalBetween(ctx, monthStart, monthEnd)
	if err != nil {
		return nil, err
	}

	fyStart, _ := utils.FiscalYearRange(utils.FiscalYearOf(monthStart))
	variableYTD, err := models.VariableCostTotalBetween(ctx, fyStart, monthEnd)
	if err != nil {
		return nil, err
	}

	recent, err := models.RecentVariableCosts(ctx, 10)
	if err != nil {
		return nil, err
	}

	return &CostDashboard{
		Year:              year,
		Month:             int(month),
		FixedCostTotal:    fixedTotal,
		VariableThisMonth: variableMonth,
		VariableFiscalYTD: variableYTD,
		MonthlyTotal:      fixedTotal.Add(variableMonth),
		RecentCosts:       recent,
	}, nil
}
