package reports

import (
	"testing"

	"github.com/mmdatafocus/dispatch_backend/models"
	"github.com/mmdatafocus/dispatch_backend/utils"
)

func TestReceiptStatusOf(t *testing.T) {
	today := day("2025-06-15")

	completed := &models.Project{WorkEndCompleted: utils.NewTrue()}
	if got := receiptStatusOf(completed, today); got != ReceiptStatusReceived {
		t.Errorf("got %s, want received", got)
	}

	overdue := &models.Project{PaymentDueDate: dsp("2025-06-01")}
	if got := receiptStatusOf(overdue, today); got != ReceiptStatusOverdue {
		t.Errorf("got %s, want overdue", got)
	}

	pending := &models.Project{PaymentDueDate: dsp("2025-07-01")}
	if got := receiptStatusOf(pending, today); got != ReceiptStatusPending {
		t.Errorf("got %s, want pending", got)
	}

	noDate := &models.Project{}
	if got := receiptStatusOf(noDate, today); got != ReceiptStatusPending {
		t.Errorf("no due date should be pending, got %s", got)
	}
}
