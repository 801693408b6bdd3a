package reports

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func dayPtr(s string) *time.Time {
	t := day(s)
	return &t
}

func dec(n int64) decimal.Decimal {
	return decimal.NewFromInt(n)
}

func TestBuildLedgerBalanceWalk(t *testing.T) {
	periodStart := day("2025-01-01")

	receivables := []*ReceivableRecord{
		{ID: 1, ManagementNo: "P250001", Counterparty: "A", BillingAmount: dec(100), PaymentDueDate: dayPtr("2025-01-05"), Completed: true},
	}
	payables := []*PayableRecord{
		{ID: 1, ManagementNo: "P250001", ContractorName: "B", BilledAmount: dec(40), PaymentDate: dayPtr("2025-01-03"), Paid: true},
		{ID: 2, ManagementNo: "P250002", ContractorName: "C", BilledAmount: dec(20), PaymentDate: dayPtr("2025-01-10"), Paid: false},
	}

	result, warnings := BuildLedger(periodStart, receivables, payables)
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if len(result.Entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(result.Entries))
	}

	wantBalances := []int64{-40, 60, 60}
	for i, want := range wantBalances {
		if !result.Entries[i].Balance.Equal(dec(want)) {
			t.Errorf("entry %d: balance = %s, want %d", i, result.Entries[i].Balance, want)
		}
	}
	if !result.FinalBalance.Equal(dec(60)) {
		t.Errorf("final balance = %s, want 60", result.FinalBalance)
	}

	// display is reverse chronological with balances untouched
	wantDisplay := []struct {
		counterparty string
		balance      int64
	}{
		{"C", 60},
		{"A", 60},
		{"B", -40},
	}
	for i, want := range wantDisplay {
		e := result.Display[i]
		if e.Counterparty != want.counterparty || !e.Balance.Equal(dec(want.balance)) {
			t.Errorf("display %d: got %s/%s, want %s/%d", i, e.Counterparty, e.Balance, want.counterparty, want.balance)
		}
	}
}

func TestBuildLedgerEmptyInputs(t *testing.T) {
	result, warnings := BuildLedger(day("2025-01-01"), nil, nil)
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if !result.FinalBalance.IsZero() {
		t.Errorf("final balance = %s, want 0", result.FinalBalance)
	}
	if len(result.Entries) != 0 || len(result.Display) != 0 {
		t.Errorf("expected empty lists, got %d/%d", len(result.Entries), len(result.Display))
	}
}

func TestBuildLedgerAmountFallbacks(t *testing.T) {
	receivables := []*ReceivableRecord{
		{ID: 1, Counterparty: "A", EstimateAmount: dec(500), PaymentDueDate: dayPtr("2025-02-01"), Completed: true},
	}
	result, _ := BuildLedger(day("2025-02-01"), receivables, nil)
	if len(result.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(result.Entries))
	}
	e := result.Entries[0]
	if !e.Amount.Equal(dec(500)) {
		t.Errorf("amount = %s, want 500 from estimate", e.Amount)
	}
	if e.AmountSource != AmountSourceEstimated {
		t.Errorf("amount source = %s, want estimated", e.AmountSource)
	}

	payables := []*PayableRecord{
		{ID: 1, ContractorName: "B", ContractAmount: dec(300), Paid: true},
	}
	result, _ = BuildLedger(day("2025-02-01"), nil, payables)
	e = result.Entries[0]
	if !e.Amount.Equal(dec(300)) || e.AmountSource != AmountSourceContract {
		t.Errorf("got %s/%s, want 300/contract", e.Amount, e.AmountSource)
	}
	if e.DateSource != DateSourcePeriodStart {
		t.Errorf("date source = %s, want period_start", e.DateSource)
	}
}

func TestBuildLedgerZeroAmountExcluded(t *testing.T) {
	receivables := []*ReceivableRecord{
		{ID: 1, Counterparty: "A", PaymentDueDate: dayPtr("2025-03-01"), Completed: true},
	}
	payables := []*PayableRecord{
		{ID: 1, ContractorName: "B", PaymentDate: dayPtr("2025-03-02"), Paid: true},
	}
	result, warnings := BuildLedger(day("2025-03-01"), receivables, payables)
	if len(result.Entries) != 0 {
		t.Errorf("expected zero-amount records excluded, got %d entries", len(result.Entries))
	}
	if len(warnings) != 0 {
		t.Errorf("zero amounts are not integrity warnings: %v", warnings)
	}
}

func TestBuildLedgerMissingCounterpartyWarns(t *testing.T) {
	payables := []*PayableRecord{
		{ID: 7, ManagementNo: "P250007", BilledAmount: dec(100), PaymentDate: dayPtr("2025-03-02"), Paid: true},
	}
	result, warnings := BuildLedger(day("2025-03-01"), nil, payables)
	if len(result.Entries) != 0 {
		t.Errorf("payable without counterparty must be skipped, got %d entries", len(result.Entries))
	}
	if len(warnings) != 1 {
		t.Fatalf("expected 1 integrity warning, got %d", len(warnings))
	}
	if warnings[0].PayableId != 7 {
		t.Errorf("warning payable id = %d, want 7", warnings[0].PayableId)
	}
}

func TestBuildLedgerInputOrderIndependence(t *testing.T) {
	receivables := []*ReceivableRecord{
		{ID: 1, Counterparty: "A", BillingAmount: dec(100), PaymentDueDate: dayPtr("2025-01-05"), Completed: true},
		{ID: 2, Counterparty: "D", BillingAmount: dec(30), PaymentDueDate: dayPtr("2025-01-02"), Completed: true},
	}
	payables := []*PayableRecord{
		{ID: 1, ContractorName: "B", BilledAmount: dec(40), PaymentDate: dayPtr("2025-01-03"), Paid: true},
	}

	forward, _ := BuildLedger(day("2025-01-01"), receivables, payables)

	reversedRecv := []*ReceivableRecord{receivables[1], receivables[0]}
	backward, _ := BuildLedger(day("2025-01-01"), reversedRecv, payables)

	if !forward.FinalBalance.Equal(backward.FinalBalance) {
		t.Fatalf("final balance depends on input order: %s vs %s", forward.FinalBalance, backward.FinalBalance)
	}
	for i := range forward.Entries {
		f, b := forward.Entries[i], backward.Entries[i]
		if f.Counterparty != b.Counterparty || !f.Balance.Equal(b.Balance) {
			t.Errorf("entry %d differs by input order: %s/%s vs %s/%s",
				i, f.Counterparty, f.Balance, b.Counterparty, b.Balance)
		}
	}
}

func TestBuildLedgerUnsettledDoesNotMoveBalance(t *testing.T) {
	receivables := []*ReceivableRecord{
		{ID: 1, Counterparty: "A", BillingAmount: dec(100), PaymentDueDate: dayPtr("2025-01-05"), Completed: false},
	}
	payables := []*PayableRecord{
		{ID: 1, ContractorName: "B", BilledAmount: dec(40), PaymentDate: dayPtr("2025-01-03"), Paid: false},
	}
	result, _ := BuildLedger(day("2025-01-01"), receivables, payables)
	if len(result.Entries) != 2 {
		t.Fatalf("unsettled entries still appear, got %d", len(result.Entries))
	}
	for i, e := range result.Entries {
		if !e.Balance.IsZero() {
			t.Errorf("entry %d: balance = %s, want 0 for unsettled", i, e.Balance)
		}
	}
	if !result.FinalBalance.IsZero() {
		t.Errorf("final balance = %s, want 0", result.FinalBalance)
	}
	if !result.Summary.ReceiptPending.Equal(dec(100)) || !result.Summary.PaymentPending.Equal(dec(40)) {
		t.Errorf("pending summary wrong: %s / %s", result.Summary.ReceiptPending, result.Summary.PaymentPending)
	}
}

func TestBuildLedgerIdempotent(t *testing.T) {
	receivables := []*ReceivableRecord{
		{ID: 1, Counterparty: "A", BillingAmount: dec(100), PaymentDueDate: dayPtr("2025-01-05"), Completed: true},
	}
	payables := []*PayableRecord{
		{ID: 1, ContractorName: "B", BilledAmount: dec(40), PaymentDate: dayPtr("2025-01-03"), Paid: true},
	}
	first, _ := BuildLedger(day("2025-01-01"), receivables, payables)
	second, _ := BuildLedger(day("2025-01-01"), receivables, payables)
	if !first.FinalBalance.Equal(second.FinalBalance) {
		t.Fatalf("re-running changed the balance: %s vs %s", first.FinalBalance, second.FinalBalance)
	}
	for i := range first.Entries {
		if !first.Entries[i].Balance.Equal(second.Entries[i].Balance) {
			t.Errorf("entry %d balance drifted on re-run", i)
		}
	}
}

func TestFiscalMonthIndex(t *testing.T) {
	cases := []struct {
		date string
		fy   int
		want int
	}{
		{"2025-04-01", 2025, 0},
		{"2025-12-15", 2025, 8},
		{"2026-01-10", 2025, 9},
		{"2026-03-31", 2025, 11},
		{"2026-04-01", 2025, -1},
		{"2025-03-31", 2025, -1},
		{"2024-12-01", 2025, -1},
	}
	for _, c := range cases {
		if got := FiscalMonthIndex(day(c.date), c.fy); got != c.want {
			t.Errorf("FiscalMonthIndex(%s, %d) = %d, want %d", c.date, c.fy, got, c.want)
		}
	}
}
