package utils

import (
	"testing"
	"time"
)

func TestFiscalYearOf(t *testing.T) {
	cases := []struct {
		date string
		want int
	}{
		{"2025-04-01", 2025},
		{"2025-12-31", 2025},
		{"2026-01-15", 2025},
		{"2026-03-31", 2025},
		{"2026-04-01", 2026},
	}
	for _, c := range cases {
		d, _ := time.Parse("2006-01-02", c.date)
		if got := FiscalYearOf(d); got != c.want {
			t.Errorf("FiscalYearOf(%s) = %d, want %d", c.date, got, c.want)
		}
	}
}

func TestFiscalYearRange(t *testing.T) {
	start, end := FiscalYearRange(2025)
	if start.Format("2006-01-02") != "2025-04-01" {
		t.Errorf("start = %s, want 2025-04-01", start.Format("2006-01-02"))
	}
	if end.Format("2006-01-02") != "2026-03-31" {
		t.Errorf("end = %s, want 2026-03-31", end.Format("2006-01-02"))
	}
}

func TestMonthRange(t *testing.T) {
	start, end := MonthRange(2025, time.February)
	if start.Format("2006-01-02") != "2025-02-01" {
		t.Errorf("start = %s, want 2025-02-01", start.Format("2006-01-02"))
	}
	if end.Format("2006-01-02") != "2025-02-28" {
		t.Errorf("end = %s, want 2025-02-28", end.Format("2006-01-02"))
	}
}

func TestClampDayToMonth(t *testing.T) {
	cases := []struct {
		year  int
		month time.Month
		day   int
		want  string
	}{
		{2025, time.February, 31, "2025-02-28"},
		{2024, time.February, 31, "2024-02-29"},
		{2025, time.April, 31, "2025-04-30"},
		{2025, time.June, 15, "2025-06-15"},
	}
	for _, c := range cases {
		got := ClampDayToMonth(c.year, c.month, c.day)
		if got.Format("2006-01-02") != c.want {
			t.Errorf("ClampDayToMonth(%d, %s, %d) = %s, want %s",
				c.year, c.month, c.day, got.Format("2006-01-02"), c.want)
		}
	}
}

func TestParseDecimal(t *testing.T) {
	d, err := ParseDecimal("1,234,567.89")
	if err != nil {
		t.Fatal(err)
	}
	if d.String() != "1234567.89" {
		t.Errorf("got %s, want 1234567.89", d)
	}
	if _, err := ParseDecimal("abc"); err == nil {
		t.Error("invalid input should fail")
	}
}

func TestDereferencePtr(t *testing.T) {
	if DereferencePtr(NewTrue()) != true {
		t.Error("set pointer should yield its value")
	}
	if DereferencePtr[bool](nil) != false {
		t.Error("nil pointer should yield the zero value")
	}
	if got := DereferencePtr(nil, 42); got != 42 {
		t.Errorf("nil pointer with default: got %d, want 42", got)
	}
}

func TestIsValidEmail(t *testing.T) {
	if !IsValidEmail("dev@example.com") {
		t.Error("valid address rejected")
	}
	if IsValidEmail("not-an-email") {
		t.Error("invalid address accepted")
	}
}
