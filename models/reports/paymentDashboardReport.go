package reports

import (
	"context"
	"sort"
	"time"

	"github.com/mmdatafocus/dispatch_backend/config"
	"github.com/mmdatafocus/dispatch_backend/models"
	"github.com/mmdatafocus/dispatch_backend/utils"
	"github.com/shopspring/decimal"
)

// PaymentDashboardFilter narrows the payable listing. Zero values mean "no
// filter" for every field.
type PaymentDashboardFilter struct {
	Status       string              `form:"status"`
	ContractorId int                 `form:"contractor_id"`
	WorkerType   models.WorkerType   `form:"worker_type"`
	PaymentCycle models.PaymentCycle `form:"payment_cycle"`
	MinAmount    *decimal.Decimal    `form:"min_amount"`
	MaxAmount    *decimal.Decimal    `form:"max_amount"`
	HasBankInfo  *bool               `form:"has_bank_info"`
}

type PaymentEntry struct {
	SubcontractId   int               `json:"subcontract_id"`
	ManagementNo    string            `json:"management_no"`
	SiteName        string            `json:"site_name"`
	PayeeName       string            `json:"payee_name"`
	WorkerType      models.WorkerType `json:"worker_type"`
	Amount          decimal.Decimal   `json:"amount"`
	PaymentDate     *string           `json:"payment_date"`
	Status          string            `json:"status"`
	NextPaymentDate *string           `json:"next_payment_date"`
	HasBankInfo     bool              `json:"has_bank_info"`
}

type PayeeGroup struct {
	PayeeName   string          `json:"payee_name"`
	WorkerType  models.WorkerType `json:"worker_type"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	PaidAmount  decimal.Decimal `json:"paid_amount"`
	Count       int             `json:"count"`
}

type AmountByName struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

type PaymentDashboard struct {
	Year         int             `json:"year"`
	Month        int             `json:"month"`
	Entries      []*PaymentEntry `json:"entries"`
	PayeeGroups  []*PayeeGroup   `json:"payee_groups"`
	PaidSites    []*AmountByName `json:"paid_sites"`
	PendingSites []*AmountByName `json:"pending_sites"`
	PaidPayees   []*AmountByName `json:"paid_payees"`
	PendingPayees []*AmountByName `json:"pending_payees"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	PaidTotal    decimal.Decimal `json:"paid_total"`
	PendingTotal decimal.Decimal `json:"pending_total"`
	OverdueTotal decimal.Decimal `json:"overdue_total"`
}

// normalizePaymentStatus collapses everything short of "paid" into "pending".
// The split between scheduled and overdue comes from the date comparison, not
// from the stored status.
func normalizePaymentStatus(s *models.Subcontract, today time.Time) string {
	if s.IsPaid() {
		return "paid"
	}
	if s.IsPaymentOverdue(today) {
		return "overdue"
	}
	return "pending"
}

func matchesPaymentFilter(s *models.Subcontract, filter PaymentDashboardFilter, status string) bool {
	if filter.Status != "" {
		switch filter.Status {
		case "paid":
			if status != "paid" {
				return false
			}
		default:
			// pending, scheduled, overdue and cancelled all select unpaid rows
			if status == "paid" {
				return false
			}
		}
	}
	if filter.ContractorId != 0 {
		if s.ContractorId == nil || *s.ContractorId != filter.ContractorId {
			return false
		}
	}
	if filter.WorkerType != "" && s.WorkerType != filter.WorkerType {
		return false
	}
	if filter.PaymentCycle != "" {
		if s.Contractor == nil || s.Contractor.PaymentCycle != filter.PaymentCycle {
			return false
		}
	}
	amount := s.ResolveAmount()
	if filter.MinAmount != nil && amount.LessThan(*filter.MinAmount) {
		return false
	}
	if filter.MaxAmount != nil && amount.GreaterThan(*filter.MaxAmount) {
		return false
	}
	if filter.HasBankInfo != nil {
		has := s.Contractor != nil && s.Contractor.HasBankInfo()
		if has != *filter.HasBankInfo {
			return false
		}
	}
	return true
}

func sortedAmounts(m map[string]decimal.Decimal) []*AmountByName {
	out := make([]*AmountByName, 0, len(m))
	for name, amount := range m {
		out = append(out, &AmountByName{Name: name, Amount: amount})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Amount.GreaterThan(out[j].Amount)
	})
	return out
}

// GetPaymentDashboard lists the month's subcontractor payments with payee
// rollups and paid/pending breakdowns by site and payee.
func GetPaymentDashboard(ctx context.Context, year int, month time.Month, filter PaymentDashboardFilter) (*PaymentDashboard, error) {
	started := time.Now()
	defer logSlowReport(ctx, "payment_dashboard", started, map[string]any{"year": year, "month": int(month)})

	periodStart, periodEnd := utils.MonthRange(year, month)

	var subcontracts []*models.Subcontract
	err := config.GetDB().WithContext(ctx).
		Preload("Contractor").
		Preload("InternalWorker").
		Where("(payment_date BETWEEN ? AND ?) OR billed_amount > 0", periodStart, periodEnd).
		Order("payment_date ASC").
		Find(&subcontracts).Error
	if err != nil {
		return nil, err
	}

	today := utils.DateOnly(time.Now())
	dashboard := &PaymentDashboard{
		Year:         year,
		Month:        int(month),
		Entries:      []*PaymentEntry{},
		TotalAmount:  decimal.Zero,
		PaidTotal:    decimal.Zero,
		PendingTotal: decimal.Zero,
		OverdueTotal: decimal.Zero,
	}

	groups := map[string]*PayeeGroup{}
	groupOrder := []string{}
	paidSites := map[string]decimal.Decimal{}
	pendingSites := map[string]decimal.Decimal{}
	paidPayees := map[string]decimal.Decimal{}
	pendingPayees := map[string]decimal.Decimal{}

	for _, sc := range subcontracts {
		payee := sc.PayeeName()
		if payee == "" {
			continue
		}
		amount := sc.ResolveAmount()
		if amount.IsZero() {
			continue
		}
		status := normalizePaymentStatus(sc, today)
		if !matchesPaymentFilter(sc, filter, status) {
			continue
		}

		entry := &PaymentEntry{
			SubcontractId: sc.ID,
			ManagementNo:  sc.ManagementNo,
			SiteName:      sc.SiteName,
			PayeeName:     payee,
			WorkerType:    sc.WorkerType,
			Amount:        amount,
			Status:        status,
			HasBankInfo:   sc.Contractor != nil && sc.Contractor.HasBankInfo(),
		}
		if sc.PaymentDate != nil && !sc.PaymentDate.IsZero() {
			s := sc.PaymentDate.Time().Format("2006-01-02")
			entry.PaymentDate = &s
		}
		if sc.Contractor != nil && !sc.IsPaid() {
			next := sc.Contractor.NextPaymentDate(today)
			s := next.Format("2006-01-02")
			entry.NextPaymentDate = &s
		}
		dashboard.Entries = append(dashboard.Entries, entry)

		dashboard.TotalAmount = dashboard.TotalAmount.Add(amount)
		switch status {
		case "paid":
			dashboard.PaidTotal = dashboard.PaidTotal.Add(amount)
			paidSites[sc.SiteName] = paidSites[sc.SiteName].Add(amount)
			paidPayees[payee] = paidPayees[payee].Add(amount)
		case "overdue":
			dashboard.OverdueTotal = dashboard.OverdueTotal.Add(amount)
			dashboard.PendingTotal = dashboard.PendingTotal.Add(amount)
			pendingSites[sc.SiteName] = pendingSites[sc.SiteName].Add(amount)
			pendingPayees[payee] = pendingPayees[payee].Add(amount)
		default:
			dashboard.PendingTotal = dashboard.PendingTotal.Add(amount)
			pendingSites[sc.SiteName] = pendingSites[sc.SiteName].Add(amount)
			pendingPayees[payee] = pendingPayees[payee].Add(amount)
		}

		key := string(sc.WorkerType) + ":" + payee
		group, ok := groups[key]
		if !ok {
			group = &PayeeGroup{PayeeName: payee, WorkerType: sc.WorkerType, TotalAmount: decimal.Zero, PaidAmount: decimal.Zero}
			groups[key] = group
			groupOrder = append(groupOrder, key)
		}
		group.TotalAmount = group.TotalAmount.Add(amount)
		if status == "paid" {
			group.PaidAmount = group.PaidAmount.Add(amount)
		}
		group.Count++
	}

	for _, key := range groupOrder {
		dashboard.PayeeGroups = append(dashboard.PayeeGroups, groups[key])
	}
	sort.SliceStable(dashboard.PayeeGroups, func(i, j int) bool {
		return dashboard.PayeeGroups[i].TotalAmount.GreaterThan(dashboard.PayeeGroups[j].TotalAmount)
	})

	dashboard.PaidSites = sortedAmounts(paidSites)
	dashboard.PendingSites = sortedAmounts(pendingSites)
	dashboard.PaidPayees = sortedAmounts(paidPayees)
	dashboard.PendingPayees = sortedAmounts(pendingPayees)

	return dashboard, nil
}
