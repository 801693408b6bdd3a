package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func d(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func ds(s string) DateString {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return DateString(t)
}

func TestProjectComputeAmounts(t *testing.T) {
	p := &Project{
		EstimateAmount: d(1000000),
		ParkingFee:     d(20000),
		ExpenseAmount1: d(5000),
		ExpenseAmount2: d(3000),
	}
	p.computeAmounts()

	if !p.BillingAmount.Equal(d(1028000)) {
		t.Errorf("billing amount = %s, want 1028000", p.BillingAmount)
	}
	if !p.AmountDifference.Equal(d(28000)) {
		t.Errorf("amount difference = %s, want 28000", p.AmountDifference)
	}
}

func TestProjectComputeAmountsZeroEstimate(t *testing.T) {
	p := &Project{ParkingFee: d(20000)}
	p.computeAmounts()
	if !p.BillingAmount.Equal(d(20000)) {
		t.Errorf("billing amount = %s, want 20000", p.BillingAmount)
	}
	if !p.AmountDifference.Equal(d(20000)) {
		t.Errorf("amount difference = %s, want 20000", p.AmountDifference)
	}
}
