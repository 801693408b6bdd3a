package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/mmdatafocus/dispatch_backend/config"
	"github.com/mmdatafocus/dispatch_backend/models"
	"github.com/mmdatafocus/dispatch_backend/utils"
	"github.com/shopspring/decimal"
)

type ProjectStats struct {
	Total          int64           `json:"total"`
	Active         int64           `json:"active"`
	Completed      int64           `json:"completed"`
	StatusCounts   map[string]int64 `json:"status_counts"`
	CompletionRate decimal.Decimal `json:"completion_rate"`
	PipelineValue  decimal.Decimal `json:"pipeline_value"`
}

type MonthlyTrend struct {
	Name      string `json:"name"`
	New       int64  `json:"new"`
	Completed int64  `json:"completed"`
}

type MonthlyCostTotal struct {
	Name     string          `json:"name"`
	Fixed    decimal.Decimal `json:"fixed"`
	Variable decimal.Decimal `json:"variable"`
	Total    decimal.Decimal `json:"total"`
}

type UltimateDashboard struct {
	Stats         *ProjectStats                  `json:"stats"`
	Trends        []*MonthlyTrend                `json:"trends"`
	Ledger        []*LedgerEntry                 `json:"ledger"`
	LedgerBalance decimal.Decimal                `json:"ledger_balance"`
	Annual        *AnnualPerformance             `json:"annual"`
	TopProjects   []*models.ProjectProfitAnalysis `json:"top_projects"`
	MonthlyCosts  []*MonthlyCostTotal            `json:"monthly_costs"`
}

const ultimateLedgerEntries = 20

func getProjectStats(ctx context.Context) (*ProjectStats, error) {
	db := config.GetDB().WithContext(ctx)

	stats := &ProjectStats{
		StatusCounts:   map[string]int64{},
		CompletionRate: decimal.Zero,
		PipelineValue:  decimal.Zero,
	}
	if err := db.Model(&models.Project{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}

	type statusCount struct {
		OrderStatus string
		Count       int64
	}
	var counts []statusCount
	err := db.Model(&models.Project{}).
		Select("order_status, COUNT(*) AS count").
		Group("order_status").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	for _, c := range counts {
		stats.StatusCounts[c.OrderStatus] = c.Count
	}

	err = db.Model(&models.Project{}).
		Where("order_status = ? AND (work_end_completed IS NULL OR work_end_completed = false)", models.OrderStatusReceived).
		Count(&stats.Active).Error
	if err != nil {
		return nil, err
	}
	err = db.Model(&models.Project{}).
		Where("work_end_completed = true").
		Count(&stats.Completed).Error
	if err != nil {
		return nil, err
	}
	if stats.Total > 0 {
		stats.CompletionRate = decimal.NewFromInt(stats.Completed).
			Div(decimal.NewFromInt(stats.Total)).
			Mul(decimal.NewFromInt(100)).Round(2)
	}

	// open pipeline: estimates on prospects still being considered
	var pipeline []*models.Project
	err = db.Where("order_status IN ?", []models.OrderStatus{models.OrderStatusProspect, models.OrderStatusConsidering}).
		Find(&pipeline).Error
	if err != nil {
		return nil, err
	}
	for _, p := range pipeline {
		stats.PipelineValue = stats.PipelineValue.Add(p.EstimateAmount)
	}
	return stats, nil
}

func getMonthlyTrends(ctx context.Context, months int) ([]*MonthlyTrend, error) {
	db := config.GetDB().WithContext(ctx)
	now := time.Now()
	trends := make([]*MonthlyTrend, 0, months)
	for i := months - 1; i >= 0; i-- {
		ref := now.AddDate(0, -i, 0)
		from, to := utils.MonthRange(ref.Year(), ref.Month())
		trend := &MonthlyTrend{Name: fmt.Sprintf("%d-%02d", ref.Year(), int(ref.Month()))}
		err := db.Model(&models.Project{}).
			Where("contract_date BETWEEN ? AND ?", from, to).
			Count(&trend.New).Error
		if err != nil {
			return nil, err
		}
		err = db.Model(&models.Project{}).
			Where("work_end_completed = true AND work_end_date BETWEEN ? AND ?", from, to).
			Count(&trend.Completed).Error
		if err != nil {
			return nil, err
		}
		trends = append(trends, trend)
	}
	return trends, nil
}

func getMonthlyCostTotals(ctx context.Context, months int) ([]*MonthlyCostTotal, error) {
	now := time.Now()
	totals := make([]*MonthlyCostTotal, 0, months)
	for i := months - 1; i >= 0; i-- {
		ref := now.AddDate(0, -i, 0)
		fixed, err := models.ActiveFixedCostTotal(ctx, ref.Year(), ref.Month())
		if err != nil {
			return nil, err
		}
		from, to := utils.MonthRange(ref.Year(), ref.Month())
		variable, err := models.VariableCostTotalBetween(ctx, from, to)
		if err != nil {
			return nil, err
		}
		totals = append(totals, &MonthlyCostTotal{
			Name:     fmt.Sprintf("%d-%02d", ref.Year(), int(ref.Month())),
			Fixed:    fixed,
			Variable: variable,
			Total:    fixed.Add(variable),
		})
	}
	return totals, nil
}

// GetUltimateDashboard assembles the combined management view: project stats,
// six-month trends, the current month's ledger head, the fiscal year P&L and
// the profitability leaders.
func GetUltimateDashboard(ctx context.Context) (*UltimateDashboard, error) {
	started := time.Now()
	defer logSlowReport(ctx, "ultimate_dashboard", started, nil)

	cacheKey := "UltimateDashboard"
	if reportCacheEnabled() {
		var cached UltimateDashboard
		if ok, err := cacheGet(cacheKey, &cached); err == nil && ok {
			return &cached, nil
		}
	}

	stats, err := getProjectStats(ctx)
	if err != nil {
		return nil, err
	}
	trends, err := getMonthlyTrends(ctx, 6)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	ledger, err := GetAccountingDashboard(ctx, now.Year(), now.Month())
	if err != nil {
		return nil, err
	}
	display := ledger.Display
	if len(display) > ultimateLedgerEntries {
		display = display[:ultimateLedgerEntries]
	}

	annual, err := GetAnnualPerformance(ctx, utils.FiscalYearOf(now))
	if err != nil {
		return nil, err
	}
	topProjects, err := models.TopProfitableProjects(ctx, 5)
	if err != nil {
		return nil, err
	}
	monthlyCosts, err := getMonthlyCostTotals(ctx, 6)
	if err != nil {
		return nil, err
	}

	dashboard := &UltimateDashboard{
		Stats:         stats,
		Trends:        trends,
		Ledger:        display,
		LedgerBalance: ledger.FinalBalance,
		Annual:        annual,
		TopProjects:   topProjects,
		MonthlyCosts:  monthlyCosts,
	}

	if reportCacheEnabled() {
		if err := cacheSet(cacheKey, dashboard, reportCacheTTL()); err != nil {
			config.LogError(config.GetLogger(), "reports", "GetUltimateDashboard", "cache set", cacheKey, err)
		}
	}

	return dashboard, nil
}
