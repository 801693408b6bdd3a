package reports

import (
	"testing"
	"time"

	"github.com/mmdatafocus/dispatch_backend/models"
)

func TestNewAnnualBuckets(t *testing.T) {
	months := newAnnualBuckets(2025)
	if len(months) != 12 {
		t.Fatalf("expected 12 buckets, got %d", len(months))
	}
	if months[0].Year != 2025 || months[0].Month != 4 {
		t.Errorf("first bucket = %d-%02d, want 2025-04", months[0].Year, months[0].Month)
	}
	if months[8].Year != 2025 || months[8].Month != 12 {
		t.Errorf("ninth bucket = %d-%02d, want 2025-12", months[8].Year, months[8].Month)
	}
	if months[9].Year != 2026 || months[9].Month != 1 {
		t.Errorf("tenth bucket = %d-%02d, want 2026-01", months[9].Year, months[9].Month)
	}
	if months[11].Year != 2026 || months[11].Month != 3 {
		t.Errorf("last bucket = %d-%02d, want 2026-03", months[11].Year, months[11].Month)
	}
}

func TestRevenueDateFallback(t *testing.T) {
	due := models.DateString(time.Date(2025, 7, 31, 0, 0, 0, 0, time.UTC))
	end := models.DateString(time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC))

	p := &models.Project{PaymentDueDate: &due, WorkEndDate: &end}
	if got := revenueDate(p); got == nil || got.Month() != time.July {
		t.Errorf("payment due date should win, got %v", got)
	}

	p = &models.Project{WorkEndDate: &end}
	if got := revenueDate(p); got == nil || got.Month() != time.June {
		t.Errorf("work end date fallback, got %v", got)
	}

	p = &models.Project{}
	if got := revenueDate(p); got != nil {
		t.Errorf("no dates should return nil, got %v", got)
	}
}
