package reports

import (
	"context"
	"time"

	"github.com/mmdatafocus/dispatch_backend/config"
	"github.com/mmdatafocus/dispatch_backend/models"
	"github.com/mmdatafocus/dispatch_backend/utils"
	"github.com/shopspring/decimal"
)

type ReceiptStatus string

const (
	ReceiptStatusReceived ReceiptStatus = "received"
	ReceiptStatusPending  ReceiptStatus = "pending"
	ReceiptStatusOverdue  ReceiptStatus = "overdue"
)

type ReceiptEntry struct {
	ProjectId      int             `json:"project_id"`
	ManagementNo   string          `json:"management_no"`
	SiteName       string          `json:"site_name"`
	ClientName     string          `json:"client_name"`
	Amount         decimal.Decimal `json:"amount"`
	PaymentDueDate *string         `json:"payment_due_date"`
	Status         ReceiptStatus   `json:"status"`
}

type ClientReceiptSummary struct {
	ClientName    string          `json:"client_name"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	ReceivedCount int             `json:"received_count"`
	PendingCount  int             `json:"pending_count"`
}

type ReceiptDashboard struct {
	Year          int                     `json:"year"`
	Month         int                     `json:"month"`
	Entries       []*ReceiptEntry         `json:"entries"`
	ClientSummary []*ClientReceiptSummary `json:"client_summary"`
	TotalAmount   decimal.Decimal         `json:"total_amount"`
	ReceivedTotal decimal.Decimal         `json:"received_total"`
	PendingTotal  decimal.Decimal         `json:"pending_total"`
	OverdueTotal  decimal.Decimal         `json:"overdue_total"`
}

func receiptStatusOf(p *models.Project, today time.Time) ReceiptStatus {
	if utils.DereferencePtr(p.WorkEndCompleted) {
		return ReceiptStatusReceived
	}
	if p.PaymentDueDate != nil && !p.PaymentDueDate.IsZero() && p.PaymentDueDate.Time().Before(today) {
		return ReceiptStatusOverdue
	}
	return ReceiptStatusPending
}

// GetReceiptDashboard lists the month's expected receipts with per-client
// rollups. statusFilter narrows to received/pending/overdue when set.
func GetReceiptDashboard(ctx context.Context, year int, month time.Month, statusFilter string) (*ReceiptDashboard, error) {
	started := time.Now()
	defer logSlowReport(ctx, "receipt_dashboard", started, map[string]any{"year": year, "month": int(month)})

	periodStart, periodEnd := utils.MonthRange(year, month)

	var projects []*models.Project
	err := config.GetDB().WithContext(ctx).
		Where("client_name != ''").
		Where("estimate_amount > 0 OR billing_amount > 0").
		Where("payment_due_date BETWEEN ? AND ?", periodStart, periodEnd).
		Order("payment_due_date ASC").
		Find(&projects).Error
	if err != nil {
		return nil, err
	}

	today := utils.DateOnly(time.Now())
	dashboard := &ReceiptDashboard{
		Year:          year,
		Month:         int(month),
		Entries:       []*ReceiptEntry{},
		TotalAmount:   decimal.Zero,
		ReceivedTotal: decimal.Zero,
		PendingTotal:  decimal.Zero,
		OverdueTotal:  decimal.Zero,
	}
	clients := map[string]*ClientReceiptSummary{}
	clientOrder := []string{}

	for _, p := range projects {
		amount := p.BillingAmount
		if amount.IsZero() {
			amount = p.EstimateAmount
		}
		if amount.IsZero() {
			continue
		}
		status := receiptStatusOf(p, today)
		if statusFilter != "" && string(status) != statusFilter {
			continue
		}
		entry := &ReceiptEntry{
			ProjectId:    p.ID,
			ManagementNo: p.ManagementNo,
			SiteName:     p.SiteName,
			ClientName:   p.ClientName,
			Amount:       amount,
			Status:       status,
		}
		if p.PaymentDueDate != nil && !p.PaymentDueDate.IsZero() {
			s := p.PaymentDueDate.Time().Format("2006-01-02")
			entry.PaymentDueDate = &s
		}
		dashboard.Entries = append(dashboard.Entries, entry)

		dashboard.TotalAmount = dashboard.TotalAmount.Add(amount)
		switch status {
		case ReceiptStatusReceived:
			dashboard.ReceivedTotal = dashboard.ReceivedTotal.Add(amount)
		case ReceiptStatusOverdue:
			dashboard.OverdueTotal = dashboard.OverdueTotal.Add(amount)
		default:
			dashboard.PendingTotal = dashboard.PendingTotal.Add(amount)
		}

		summary, ok := clients[p.ClientName]
		if !ok {
			summary = &ClientReceiptSummary{ClientName: p.ClientName, TotalAmount: decimal.Zero}
			clients[p.ClientName] = summary
			clientOrder = append(clientOrder, p.ClientName)
		}
		summary.TotalAmount = summary.TotalAmount.Add(amount)
		if status == ReceiptStatusReceived {
			summary.ReceivedCount++
		} else {
			summary.PendingCount++
		}
	}

	for _, name := range clientOrder {
		dashboard.ClientSummary = append(dashboard.ClientSummary, clients[name])
	}

	return dashboard, nil
}
