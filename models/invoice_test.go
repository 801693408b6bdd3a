package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestBuildInvoiceItemsTotals(t *testing.T) {
	inputs := []*NewInvoiceItem{
		{ProjectId: 1, Description: "Interior work", Quantity: d(2), UnitPrice: d(150000)},
		{ProjectId: 1, Description: "Cleanup", UnitPrice: d(33333)},
	}
	items, subtotal, tax, total := buildInvoiceItems(inputs, decimal.NewFromInt(10))

	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	// quantity defaults to 1, unit to "set"
	if !items[1].Quantity.Equal(d(1)) || items[1].Unit != "set" {
		t.Errorf("defaults not applied: qty=%s unit=%q", items[1].Quantity, items[1].Unit)
	}
	if items[0].DisplayOrder != 1 || items[1].DisplayOrder != 2 {
		t.Errorf("display order not assigned: %d, %d", items[0].DisplayOrder, items[1].DisplayOrder)
	}
	if !subtotal.Equal(d(333333)) {
		t.Errorf("subtotal = %s, want 333333", subtotal)
	}
	// 10% of 333333 is 33333.3, truncated to whole yen
	if !tax.Equal(d(33333)) {
		t.Errorf("tax = %s, want 33333 (truncated)", tax)
	}
	if !total.Equal(d(366666)) {
		t.Errorf("total = %s, want 366666", total)
	}
}

func TestBuildInvoiceItemsEmpty(t *testing.T) {
	items, subtotal, tax, total := buildInvoiceItems(nil, decimal.NewFromInt(10))
	if len(items) != 0 || !subtotal.IsZero() || !tax.IsZero() || !total.IsZero() {
		t.Errorf("empty input should produce zero totals: %s/%s/%s", subtotal, tax, total)
	}
}
