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

// FiscalMonthIndex maps a calendar date into the Apr..Mar fiscal year starting
// April of fiscalYear. Returns 0..11, or -1 when the date falls outside.
func FiscalMonthIndex(date time.Time, fiscalYear int) int {
	m := int(date.Month())
	switch {
	case m >= 4 && date.Year() == fiscalYear:
		return m - 4
	case m <= 3 && date.Year() == fiscalYear+1:
		return m + 8
	default:
		return -1
	}
}

type MonthlyPerformance struct {
	Year              int             `json:"year"`
	Month             int             `json:"month"`
	Name              string          `json:"name"`
	Revenue           decimal.Decimal `json:"revenue"`
	CostOfSales       decimal.Decimal `json:"cost_of_sales"`
	LaborCost         decimal.Decimal `json:"labor_cost"`
	MaterialCost      decimal.Decimal `json:"material_cost"`
	GrossProfit       decimal.Decimal `json:"gross_profit"`
	VariableCost      decimal.Decimal `json:"variable_cost"`
	FixedCost         decimal.Decimal `json:"fixed_cost"`
	OperatingProfit   decimal.Decimal `json:"operating_profit"`
	IsActual          bool            `json:"is_actual"`
	IsCurrent         bool            `json:"is_current"`
	NewProjects       int             `json:"new_projects"`
	CompletedProjects int             `json:"completed_projects"`
}

type AnnualPerformance struct {
	FiscalYear      int                   `json:"fiscal_year"`
	Months          []*MonthlyPerformance `json:"months"`
	YTDRevenue      decimal.Decimal       `json:"ytd_revenue"`
	YTDGrossProfit  decimal.Decimal       `json:"ytd_gross_profit"`
	YTDOperating    decimal.Decimal       `json:"ytd_operating_profit"`
	YTDFixedCost    decimal.Decimal       `json:"ytd_fixed_cost"`
	YTDVariableCost decimal.Decimal       `json:"ytd_variable_cost"`
	GrossMargin     decimal.Decimal       `json:"gross_margin"`
	OperatingMargin decimal.Decimal       `json:"operating_margin"`
}

func newAnnualBuckets(fiscalYear int) []*MonthlyPerformance {
	months := make([]*MonthlyPerformance, 0, 12)
	for i := 0; i < 12; i++ {
		m := i + 4
		y := fiscalYear
		if m > 12 {
			m -= 12
			y++
		}
		months = append(months, &MonthlyPerformance{
			Year:            y,
			Month:           m,
			Name:            fmt.Sprintf("%d-%02d", y, m),
			Revenue:         decimal.Zero,
			CostOfSales:     decimal.Zero,
			LaborCost:       decimal.Zero,
			MaterialCost:    decimal.Zero,
			GrossProfit:     decimal.Zero,
			VariableCost:    decimal.Zero,
			FixedCost:       decimal.Zero,
			OperatingProfit: decimal.Zero,
		})
	}
	return months
}

// revenueDate picks the month a project's revenue lands in.
func revenueDate(p *models.Project) *time.Time {
	if p.PaymentDueDate != nil && !p.PaymentDueDate.IsZero() {
		t := p.PaymentDueDate.Time()
		return &t
	}
	if p.WorkEndDate != nil && !p.WorkEndDate.IsZero() {
		t := p.WorkEndDate.Time()
		return &t
	}
	return nil
}

// GetAnnualPerformance aggregates the Apr..Mar profit and loss for one fiscal
// year. Confirmed projects with a billing amount drive revenue; their
// subcontracts drive cost of sales, split into labor and material.
func GetAnnualPerformance(ctx context.Context, fiscalYear int) (*AnnualPerformance, error) {
	started := time.Now()
	defer logSlowReport(ctx, "annual_performance", started, map[string]any{"fiscal_year": fiscalYear})

	cacheKey := fmt.Sprintf("AnnualPerformance:%d", fiscalYear)
	if reportCacheEnabled() {
		var cached AnnualPerformance
		if ok, err := cacheGet(cacheKey, &cached); err == nil && ok {
			return &cached, nil
		}
	}

	db := config.GetDB()
	fyStart, fyEnd := utils.FiscalYearRange(fiscalYear)

	var projects []*models.Project
	err := db.WithContext(ctx).
		Where("order_status = ? AND billing_amount > 0", models.OrderStatusReceived).
		Find(&projects).Error
	if err != nil {
		return nil, err
	}

	report := &AnnualPerformance{
		FiscalYear:      fiscalYear,
		Months:          newAnnualBuckets(fiscalYear),
		YTDRevenue:      decimal.Zero,
		YTDGrossProfit:  decimal.Zero,
		YTDOperating:    decimal.Zero,
		YTDFixedCost:    decimal.Zero,
		YTDVariableCost: decimal.Zero,
		GrossMargin:     decimal.Zero,
		OperatingMargin: decimal.Zero,
	}

	// revenue and cost of sales, bucketed per project
	projectMonth := map[int]int{}
	for _, p := range projects {
		d := revenueDate(p)
		if d == nil {
			continue
		}
		idx := FiscalMonthIndex(*d, fiscalYear)
		if idx < 0 {
			continue
		}
		projectMonth[p.ID] = idx
		report.Months[idx].Revenue = report.Months[idx].Revenue.Add(p.BillingAmount)
	}

	if len(projectMonth) > 0 {
		ids := make([]int, 0, len(projectMonth))
		for id := range projectMonth {
			ids = append(ids, id)
		}
		var subcontracts []*models.Subcontract
		if err := db.WithContext(ctx).Where("project_id IN ?", ids).Find(&subcontracts).Error; err != nil {
			return nil, err
		}
		for _, sc := range subcontracts {
			idx, ok := projectMonth[sc.ProjectId]
			if !ok {
				continue
			}
			amount := sc.ResolveAmount()
			if amount.IsZero() {
				continue
			}
			bucket := report.Months[idx]
			bucket.CostOfSales = bucket.CostOfSales.Add(amount)
			if sc.WorkerType == models.WorkerTypeExternal {
				bucket.LaborCost = bucket.LaborCost.Add(amount)
			}
			bucket.MaterialCost = bucket.MaterialCost.Add(sc.TotalMaterialCost)
		}
	}

	// new / completed project counts per month
	var allProjects []*models.Project
	if err := db.WithContext(ctx).Find(&allProjects).Error; err != nil {
		return nil, err
	}
	for _, p := range allProjects {
		if p.ContractDate != nil && !p.ContractDate.IsZero() {
			if idx := FiscalMonthIndex(p.ContractDate.Time(), fiscalYear); idx >= 0 {
				report.Months[idx].NewProjects++
			}
		}
		if p.WorkEndDate != nil && !p.WorkEndDate.IsZero() && utils.DereferencePtr(p.WorkEndCompleted) {
			if idx := FiscalMonthIndex(p.WorkEndDate.Time(), fiscalYear); idx >= 0 {
				report.Months[idx].CompletedProjects++
			}
		}
	}

	// variable costs by incurred date
	var variableCosts []*models.VariableCost
	err = db.WithContext(ctx).
		Where("incurred_date BETWEEN ? AND ?", fyStart, fyEnd).
		Find(&variableCosts).Error
	if err != nil {
		return nil, err
	}
	for _, vc := range variableCosts {
		if vc.IncurredDate.IsZero() {
			continue
		}
		if idx := FiscalMonthIndex(vc.IncurredDate.Time(), fiscalYear); idx >= 0 {
			report.Months[idx].VariableCost = report.Months[idx].VariableCost.Add(vc.Amount)
		}
	}

	// fixed costs per active month
	var fixedCosts []*models.FixedCost
	if err := db.WithContext(ctx).Find(&fixedCosts).Error; err != nil {
		return nil, err
	}
	for _, bucket := range report.Months {
		for _, fc := range fixedCosts {
			if fc.IsActiveInMonth(bucket.Year, time.Month(bucket.Month)) {
				bucket.FixedCost = bucket.FixedCost.Add(fc.MonthlyAmount)
			}
		}
	}

	today := utils.DateOnly(time.Now())
	for _, bucket := range report.Months {
		bucket.GrossProfit = bucket.Revenue.Sub(bucket.CostOfSales)
		bucket.OperatingProfit = bucket.GrossProfit.Sub(bucket.VariableCost).Sub(bucket.FixedCost)
		first := time.Date(bucket.Year, time.Month(bucket.Month), 1, 0, 0, 0, 0, time.UTC)
		bucket.IsActual = !first.After(today)
		bucket.IsCurrent = bucket.Year == today.Year() && bucket.Month == int(today.Month())
		if bucket.IsActual {
			report.YTDRevenue = report.YTDRevenue.Add(bucket.Revenue)
			report.YTDGrossProfit = report.YTDGrossProfit.Add(bucket.GrossProfit)
			report.YTDOperating = report.YTDOperating.Add(bucket.OperatingProfit)
			report.YTDFixedCost = report.YTDFixedCost.Add(bucket.FixedCost)
			report.YTDVariableCost = report.YTDVariableCost.Add(bucket.VariableCost)
		}
	}

	hundred := decimal.NewFromInt(100)
	if !report.YTDRevenue.IsZero() {
		report.GrossMargin = report.YTDGrossProfit.Div(report.YTDRevenue).Mul(hundred).Round(2)
		report.OperatingMargin = report.YTDOperating.Div(report.YTDRevenue).Mul(hundred).Round(2)
	}

	if reportCacheEnabled() {
		if err := cacheSet(cacheKey, report, reportCacheTTL()); err != nil {
			config.LogError(config.GetLogger(), "reports", "GetAnnualPerformance", "cache set", cacheKey, err)
		}
	}

	return report, nil
}
