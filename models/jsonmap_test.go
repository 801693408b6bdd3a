package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestJSONListSumCosts(t *testing.T) {
	l := JSONList{
		{"name": "paint", "cost": float64(3000)},
		{"name": "tape", "cost": "1500.50"},
		{"name": "no cost key"},
		{"name": "bad value", "cost": "abc"},
	}
	if got := l.SumCosts(); !got.Equal(decimalFromString(t, "4500.50")) {
		t.Errorf("sum = %s, want 4500.50", got)
	}
}

func TestJSONListSumCostsEmpty(t *testing.T) {
	if got := (JSONList{}).SumCosts(); !got.IsZero() {
		t.Errorf("empty list sum = %s, want 0", got)
	}
}

func TestJSONMapScanValue(t *testing.T) {
	m := JSONMap{"key": "value", "n": float64(3)}
	v, err := m.Value()
	if err != nil {
		t.Fatal(err)
	}
	var back JSONMap
	if err := back.Scan(v); err != nil {
		t.Fatal(err)
	}
	if back["key"] != "value" {
		t.Errorf("round trip lost data: %v", back)
	}
}

func decimalFromString(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatal(err)
	}
	return d
}
