package reports

import (
	"testing"
	"time"

	"github.com/mmdatafocus/dispatch_backend/models"
	"github.com/shopspring/decimal"
)

func dsp(s string) *models.DateString {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	d := models.DateString(t)
	return &d
}

func TestNormalizePaymentStatus(t *testing.T) {
	today := day("2025-06-15")

	paid := &models.Subcontract{PaymentStatus: models.SubcontractPaymentPaid}
	if got := normalizePaymentStatus(paid, today); got != "paid" {
		t.Errorf("got %q, want paid", got)
	}

	overdue := &models.Subcontract{
		PaymentStatus:  models.SubcontractPaymentPending,
		PaymentDueDate: dsp("2025-06-01"),
	}
	if got := normalizePaymentStatus(overdue, today); got != "overdue" {
		t.Errorf("got %q, want overdue", got)
	}

	pending := &models.Subcontract{
		PaymentStatus:  models.SubcontractPaymentProcessing,
		PaymentDueDate: dsp("2025-07-01"),
	}
	if got := normalizePaymentStatus(pending, today); got != "pending" {
		t.Errorf("processing collapses to pending, got %q", got)
	}
}

func TestMatchesPaymentFilterStatusCollapse(t *testing.T) {
	sc := &models.Subcontract{
		PaymentStatus: models.SubcontractPaymentPending,
		BilledAmount:  decimal.NewFromInt(50000),
	}
	// scheduled, overdue and cancelled all select unpaid rows
	for _, status := range []string{"pending", "scheduled", "overdue", "cancelled"} {
		filter := PaymentDashboardFilter{Status: status}
		if !matchesPaymentFilter(sc, filter, "pending") {
			t.Errorf("filter %q should match an unpaid row", status)
		}
	}
	if matchesPaymentFilter(sc, PaymentDashboardFilter{Status: "paid"}, "pending") {
		t.Error("paid filter should not match an unpaid row")
	}
}

func TestMatchesPaymentFilterAmountBounds(t *testing.T) {
	sc := &models.Subcontract{BilledAmount: decimal.NewFromInt(50000)}
	low := decimal.NewFromInt(60000)
	high := decimal.NewFromInt(40000)
	if matchesPaymentFilter(sc, PaymentDashboardFilter{MinAmount: &low}, "pending") {
		t.Error("min amount filter should exclude smaller rows")
	}
	if matchesPaymentFilter(sc, PaymentDashboardFilter{MaxAmount: &high}, "pending") {
		t.Error("max amount filter should exclude larger rows")
	}
	min := decimal.NewFromInt(40000)
	max := decimal.NewFromInt(60000)
	if !matchesPaymentFilter(sc, PaymentDashboardFilter{MinAmount: &min, MaxAmount: &max}, "pending") {
		t.Error("row inside bounds should match")
	}
}

func TestMatchesPaymentFilterContractor(t *testing.T) {
	id := 3
	sc := &models.Subcontract{ContractorId: &id, BilledAmount: decimal.NewFromInt(1000)}
	if !matchesPaymentFilter(sc, PaymentDashboardFilter{ContractorId: 3}, "pending") {
		t.Error("matching contractor id should pass")
	}
	if matchesPaymentFilter(sc, PaymentDashboardFilter{ContractorId: 4}, "pending") {
		t.Error("other contractor id should be excluded")
	}
	noContractor := &models.Subcontract{BilledAmount: decimal.NewFromInt(1000)}
	if matchesPaymentFilter(noContractor, PaymentDashboardFilter{ContractorId: 3}, "pending") {
		t.Error("row without contractor should be excluded")
	}
}

func TestSortedAmounts(t *testing.T) {
	m := map[string]decimal.Decimal{
		"small": decimal.NewFromInt(10),
		"big":   decimal.NewFromInt(100),
		"mid":   decimal.NewFromInt(50),
	}
	out := sortedAmounts(m)
	if len(out) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(out))
	}
	if out[0].Name != "big" || out[1].Name != "mid" || out[2].Name != "small" {
		t.Errorf("not sorted by amount descending: %s, %s, %s", out[0].Name, out[1].Name, out[2].Name)
	}
}
