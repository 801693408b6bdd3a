package models

import "testing"

func TestBuildOrderItems(t *testing.T) {
	inputs := []*NewMaterialOrderItem{
		{MaterialName: "Plasterboard", Quantity: d(10), UnitPrice: d(800)},
		{MaterialName: "Screws", UnitPrice: d(500)},
	}
	items, total := buildOrderItems(inputs)

	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if !items[0].TotalPrice.Equal(d(8000)) {
		t.Errorf("item total = %s, want 8000", items[0].TotalPrice)
	}
	if !items[1].Quantity.Equal(d(1)) {
		t.Errorf("quantity should default to 1, got %s", items[1].Quantity)
	}
	if !total.Equal(d(8500)) {
		t.Errorf("order total = %s, want 8500", total)
	}
}
