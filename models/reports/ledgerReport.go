package reports

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/mmdatafocus/dispatch_backend/config"
	"github.com/mmdatafocus/dispatch_backend/models"
	"github.com/mmdatafocus/dispatch_backend/utils"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionReceivable TransactionType = "receivable"
	TransactionPayable    TransactionType = "payable"
)

// AmountSource names which fallback produced a resolved amount.
type AmountSource string

const (
	AmountSourceBilled    AmountSource = "billed"
	AmountSourceEstimated AmountSource = "estimated"
	AmountSourceContract  AmountSource = "contract"
	AmountSourceNone      AmountSource = "none"
)

type DateSource string

const (
	DateSourceDueDate     DateSource = "due_date"
	DateSourcePaymentDate DateSource = "payment_date"
	DateSourceContract    DateSource = "contract_date"
	DateSourcePeriodStart DateSource = "period_start"
)

// ReceivableRecord is an already-fetched order row reduced to the fields
// the reconciliation needs.
type ReceivableRecord struct {
	ID             int
	ManagementNo   string
	SiteName       string
	Counterparty   string
	BillingAmount  decimal.Decimal
	EstimateAmount decimal.Decimal
	PaymentDueDate *time.Time
	ContractDate   *time.Time
	Completed      bool
}

// PayableRecord is an already-fetched subcontract row reduced likewise.
type PayableRecord struct {
	ID             int
	ManagementNo   string
	SiteName       string
	ContractorName string
	WorkerName     string
	BilledAmount   decimal.Decimal
	ContractAmount decimal.Decimal
	PaymentDate    *time.Time
	Paid           bool
}

// LedgerEntry is one annotated transaction in the reconciled ledger.
type LedgerEntry struct {
	Type         TransactionType `json:"type"`
	RecordId     int             `json:"record_id"`
	ManagementNo string          `json:"management_no"`
	SiteName     string          `json:"site_name"`
	Counterparty string          `json:"counterparty"`
	Amount       decimal.Decimal `json:"amount"`
	AmountSource AmountSource    `json:"amount_source"`
	Date         time.Time       `json:"date"`
	DateSource   DateSource      `json:"date_source"`
	Settled      bool            `json:"settled"`
	Balance      decimal.Decimal `json:"balance"`
}

type LedgerSummary struct {
	ReceiptTotal   decimal.Decimal `json:"receipt_total"`
	ReceiptDone    decimal.Decimal `json:"receipt_done"`
	ReceiptPending decimal.Decimal `json:"receipt_pending"`
	PaymentTotal   decimal.Decimal `json:"payment_total"`
	PaymentDone    decimal.Decimal `json:"payment_done"`
	PaymentPending decimal.Decimal `json:"payment_pending"`
	NetCashflow    decimal.Decimal `json:"net_cashflow"`
	// both sides fully settled
	ProjectedCashflow decimal.Decimal `json:"projected_cashflow"`
}

type LedgerResult struct {
	FinalBalance decimal.Decimal `json:"final_balance"`
	Entries      []*LedgerEntry  `json:"entries"`
	Display      []*LedgerEntry  `json:"display"`
	Summary      LedgerSummary   `json:"summary"`
}

// IntegrityWarning flags a payable with no resolvable counterparty.
type IntegrityWarning struct {
	PayableId    int    `json:"payable_id"`
	ManagementNo string `json:"management_no"`
	Reason       string `json:"reason"`
}

// resolveReceivableAmount: billing, then estimate, then zero.
func resolveReceivableAmount(r *ReceivableRecord) (decimal.Decimal, AmountSource) {
	if !r.BillingAmount.IsZero() {
		return r.BillingAmount, AmountSourceBilled
	}
	if !r.EstimateAmount.IsZero() {
		return r.EstimateAmount, AmountSourceEstimated
	}
	return decimal.Zero, AmountSourceNone
}

// resolveReceivableDate: due date, then contract date, then period start.
func resolveReceivableDate(r *ReceivableRecord, periodStart time.Time) (time.Time, DateSource) {
	if r.PaymentDueDate != nil && !r.PaymentDueDate.IsZero() {
		return *r.PaymentDueDate, DateSourceDueDate
	}
	if r.ContractDate != nil && !r.ContractDate.IsZero() {
		return *r.ContractDate, DateSourceContract
	}
	return periodStart, DateSourcePeriodStart
}

// resolvePayableAmount: billed, then contract, then zero.
func resolvePayableAmount(p *PayableRecord) (decimal.Decimal, AmountSource) {
	if !p.BilledAmount.IsZero() {
		return p.BilledAmount, AmountSourceBilled
	}
	if !p.ContractAmount.IsZero() {
		return p.ContractAmount, AmountSourceContract
	}
	return decimal.Zero, AmountSourceNone
}

// resolvePayableDate: payment date, then period start.
func resolvePayableDate(p *PayableRecord, periodStart time.Time) (time.Time, DateSource) {
	if p.PaymentDate != nil && !p.PaymentDate.IsZero() {
		return *p.PaymentDate, DateSourcePaymentDate
	}
	return periodStart, DateSourcePeriodStart
}

// BuildLedger reconciles receivables against payables into one running-balance
// ledger. It is a pure function of its inputs: no database access, no clock.
//
// The balance pass walks strictly in ascending date order; the display list is
// the same annotated entries re-sorted descending, balances untouched. The
// final balance always equals the sum of completed receivable amounts minus
// the sum of paid payable amounts.
func BuildLedger(periodStart time.Time, receivables []*ReceivableRecord, payables []*PayableRecord) (*LedgerResult, []IntegrityWarning) {

	var warnings []IntegrityWarning
	entries := make([]*LedgerEntry, 0, len(receivables)+len(payables))
	summary := LedgerSummary{
		ReceiptTotal:      decimal.Zero,
		ReceiptDone:       decimal.Zero,
		ReceiptPending:    decimal.Zero,
		PaymentTotal:      decimal.Zero,
		PaymentDone:       decimal.Zero,
		PaymentPending:    decimal.Zero,
		NetCashflow:       decimal.Zero,
		ProjectedCashflow: decimal.Zero,
	}

	for _, r := range receivables {
		amount, amountSource := resolveReceivableAmount(r)
		if amount.IsZero() {
			continue
		}
		date, dateSource := resolveReceivableDate(r, periodStart)
		entries = append(entries, &LedgerEntry{
			Type:         TransactionReceivable,
			RecordId:     r.ID,
			ManagementNo: r.ManagementNo,
			SiteName:     r.SiteName,
			Counterparty: r.Counterparty,
			Amount:       amount,
			AmountSource: amountSource,
			Date:         date,
			DateSource:   dateSource,
			Settled:      r.Completed,
		})
		summary.ReceiptTotal = summary.ReceiptTotal.Add(amount)
		if r.Completed {
			summary.ReceiptDone = summary.ReceiptDone.Add(amount)
		} else {
			summary.ReceiptPending = summary.ReceiptPending.Add(amount)
		}
	}

	for _, p := range payables {
		counterparty := p.ContractorName
		if counterparty == "" {
			counterparty = p.WorkerName
		}
		if counterparty == "" {
			warnings = append(warnings, IntegrityWarning{
				PayableId:    p.ID,
				ManagementNo: p.ManagementNo,
				Reason:       "payable has neither contractor nor internal worker",
			})
			continue
		}
		amount, amountSource := resolvePayableAmount(p)
		if amount.IsZero() {
			continue
		}
		date, dateSource := resolvePayableDate(p, periodStart)
		entries = append(entries, &LedgerEntry{
			Type:         TransactionPayable,
			RecordId:     p.ID,
			ManagementNo: p.ManagementNo,
			SiteName:     p.SiteName,
			Counterparty: counterparty,
			Amount:       amount,
			AmountSource: amountSource,
			Date:         date,
			DateSource:   dateSource,
			Settled:      p.Paid,
		})
		summary.PaymentTotal = summary.PaymentTotal.Add(amount)
		if p.Paid {
			summary.PaymentDone = summary.PaymentDone.Add(amount)
		} else {
			summary.PaymentPending = summary.PaymentPending.Add(amount)
		}
	}

	// balance pass, ascending; stable keeps insertion order on date ties
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.Before(entries[j].Date)
	})
	balance := decimal.Zero
	for _, e := range entries {
		if e.Settled {
			if e.Type == TransactionReceivable {
				balance = balance.Add(e.Amount)
			} else {
				balance = balance.Sub(e.Amount)
			}
		}
		e.Balance = balance
	}

	// display pass: cosmetic re-sort only, balances are never recomputed
	display := make([]*LedgerEntry, len(entries))
	copy(display, entries)
	sort.SliceStable(display, func(i, j int) bool {
		return display[i].Date.After(display[j].Date)
	})

	summary.NetCashflow = summary.ReceiptDone.Sub(summary.PaymentDone)
	summary.ProjectedCashflow = summary.ReceiptTotal.Sub(summary.PaymentTotal)

	return &LedgerResult{
		FinalBalance: balance,
		Entries:      entries,
		Display:      display,
		Summary:      summary,
	}, warnings
}

// GetAccountingDashboard fetches the month's receivables and payables, runs
// the reconciliation and caches the result.
//
// Receivable filter: due date inside the month, or a confirmed order with a
// billing amount; rows without a client are excluded. Payable filter: payment
// date inside the month, or any billed amount.
func GetAccountingDashboard(ctx context.Context, year int, month time.Month) (*LedgerResult, error) {
	started := time.Now()
	defer logSlowReport(ctx, "accounting_dashboard", started, map[string]any{"year": year, "month": int(month)})

	cacheKey := fmt.Sprintf("AccountingDashboard:%d-%02d", year, int(month))
	if reportCacheEnabled() {
		var cached LedgerResult
		if ok, err := cacheGet(cacheKey, &cached); err == nil && ok {
			return &cached, nil
		}
	}

	periodStart, periodEnd := utils.MonthRange(year, month)

	db := config.GetDB()

	var projects []*models.Project
	err := db.WithContext(ctx).
		Where("client_name != ''").
		Where("(payment_due_date BETWEEN ? AND ?) OR (order_status = ? AND billing_amount > 0)",
			periodStart, periodEnd, models.OrderStatusReceived).
		Find(&projects).Error
	if err != nil {
		return nil, err
	}

	var subcontracts []*models.Subcontract
	err = db.WithContext(ctx).
		Preload("Contractor").
		Preload("InternalWorker").
		Where("(payment_date BETWEEN ? AND ?) OR billed_amount > 0", periodStart, periodEnd).
		Find(&subcontracts).Error
	if err != nil {
		return nil, err
	}

	recs := make([]*ReceivableRecord, 0, len(projects))
	for _, p := range projects {
		rec := &ReceivableRecord{
			ID:             p.ID,
			ManagementNo:   p.ManagementNo,
			SiteName:       p.SiteName,
			Counterparty:   p.ClientName,
			BillingAmount:  p.BillingAmount,
			EstimateAmount: p.EstimateAmount,
			Completed:      utils.DereferencePtr(p.WorkEndCompleted),
		}
		if p.PaymentDueDate != nil && !p.PaymentDueDate.IsZero() {
			t := p.PaymentDueDate.Time()
			rec.PaymentDueDate = &t
		}
		if p.ContractDate != nil && !p.ContractDate.IsZero() {
			t := p.ContractDate.Time()
			rec.ContractDate = &t
		}
		recs = append(recs, rec)
	}

	pays := make([]*PayableRecord, 0, len(subcontracts))
	for _, sc := range subcontracts {
		pay := &PayableRecord{
			ID:             sc.ID,
			ManagementNo:   sc.ManagementNo,
			SiteName:       sc.SiteName,
			BilledAmount:   sc.BilledAmount,
			ContractAmount: sc.ContractAmount,
			Paid:           sc.IsPaid(),
		}
		if sc.Contractor != nil {
			pay.ContractorName = sc.Contractor.Name
		}
		if sc.InternalWorker != nil {
			pay.WorkerName = sc.InternalWorker.Name
		} else if sc.InternalWorkerName != "" {
			pay.WorkerName = sc.InternalWorkerName
		}
		if sc.PaymentDate != nil && !sc.PaymentDate.IsZero() {
			t := sc.PaymentDate.Time()
			pay.PaymentDate = &t
		}
		pays = append(pays, pay)
	}

	result, warnings := BuildLedger(periodStart, recs, pays)
	for _, w := range warnings {
		config.LogWarn(config.GetLogger(), "reports", "GetAccountingDashboard", "integrity warning", w, w.Reason)
	}

	if reportCacheEnabled() {
		if err := cacheSet(cacheKey, result, reportCacheTTL()); err != nil {
			config.LogError(config.GetLogger(), "reports", "GetAccountingDashboard", "cache set", cacheKey, err)
		}
	}

	return result, nil
}
