package models

import (
	"context"
	"strings"
	"testing"
	"time"
)

func baseDay(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

func TestNextPaymentDateNoPaymentDay(t *testing.T) {
	c := &Contractor{PaymentDay: 0, PaymentCycle: PaymentCycleMonthly}
	base := baseDay("2025-06-10")
	if got := c.NextPaymentDate(base); !got.Equal(base) {
		t.Errorf("got %s, want base date", got)
	}
}

func TestNextPaymentDateLaterThisMonth(t *testing.T) {
	c := &Contractor{PaymentDay: 25, PaymentCycle: PaymentCycleMonthly}
	got := c.NextPaymentDate(baseDay("2025-06-10"))
	if got.Format("2006-01-02") != "2025-06-25" {
		t.Errorf("got %s, want 2025-06-25", got.Format("2006-01-02"))
	}
}

func TestNextPaymentDateRollsToNextCycle(t *testing.T) {
	cases := []struct {
		cycle PaymentCycle
		want  string
	}{
		{PaymentCycleMonthly, "2025-07-25"},
		{PaymentCycleBimonthly, "2025-08-25"},
		{PaymentCycleQuarterly, "2025-09-25"},
	}
	for _, tc := range cases {
		c := &Contractor{PaymentDay: 25, PaymentCycle: tc.cycle}
		got := c.NextPaymentDate(baseDay("2025-06-26"))
		if got.Format("2006-01-02") != tc.want {
			t.Errorf("%s: got %s, want %s", tc.cycle, got.Format("2006-01-02"), tc.want)
		}
	}
}

func TestNextPaymentDateClampsToMonthEnd(t *testing.T) {
	c := &Contractor{PaymentDay: 31, PaymentCycle: PaymentCycleMonthly}
	// Jan 31 base: the 31st is not after the base, so roll one month and clamp to Feb 28.
	got := c.NextPaymentDate(baseDay("2025-01-31"))
	if got.Format("2006-01-02") != "2025-02-28" {
		t.Errorf("got %s, want 2025-02-28", got.Format("2006-01-02"))
	}
}

func TestNextPaymentDateClampsFromMonthEndBase(t *testing.T) {
	// A 29th-31st base date must not let month arithmetic overflow past
	// short months on any cycle length.
	cases := []struct {
		cycle PaymentCycle
		base  string
		want  string
	}{
		{PaymentCycleMonthly, "2025-01-31", "2025-02-28"},
		{PaymentCycleMonthly, "2024-01-31", "2024-02-29"},
		{PaymentCycleBimonthly, "2024-12-31", "2025-02-28"},
		{PaymentCycleQuarterly, "2024-11-30", "2025-02-28"},
		{PaymentCycleMonthly, "2025-03-31", "2025-04-30"},
	}
	for _, tc := range cases {
		c := &Contractor{PaymentDay: 31, PaymentCycle: tc.cycle}
		got := c.NextPaymentDate(baseDay(tc.base))
		if got.Format("2006-01-02") != tc.want {
			t.Errorf("%s from %s: got %s, want %s", tc.cycle, tc.base, got.Format("2006-01-02"), tc.want)
		}
	}
}

func TestContractorPaymentDayOutOfRange(t *testing.T) {
	for _, day := range []int{-1, 32} {
		input := &NewContractor{Name: "test", PaymentDay: day}
		err := input.validate(context.Background(), 0)
		if err == nil {
			t.Fatalf("payment day %d should be rejected", day)
		}
		if !strings.Contains(err.Error(), "0 (unset)") {
			t.Errorf("error should name the 0-means-unset convention, got %q", err.Error())
		}
	}
}

func TestNextPaymentDateCustomCycle(t *testing.T) {
	c := &Contractor{PaymentDay: 25, PaymentCycle: PaymentCycleCustom}
	base := baseDay("2025-06-26")
	if got := c.NextPaymentDate(base); !got.Equal(base) {
		t.Errorf("custom cycle should return base date, got %s", got)
	}
}
