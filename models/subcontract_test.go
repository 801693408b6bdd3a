package models

import (
	"testing"
	"time"
)

func TestSubcontractResolveAmount(t *testing.T) {
	s := &Subcontract{BilledAmount: d(80000), ContractAmount: d(100000)}
	if !s.ResolveAmount().Equal(d(80000)) {
		t.Errorf("billed amount should win, got %s", s.ResolveAmount())
	}
	s = &Subcontract{ContractAmount: d(100000)}
	if !s.ResolveAmount().Equal(d(100000)) {
		t.Errorf("contract amount fallback, got %s", s.ResolveAmount())
	}
	s = &Subcontract{}
	if !s.ResolveAmount().IsZero() {
		t.Errorf("no amounts should resolve to zero, got %s", s.ResolveAmount())
	}
}

func TestSubcontractPayeeName(t *testing.T) {
	s := &Subcontract{
		Contractor:         &Contractor{Name: "Yamada Construction"},
		InternalWorkerName: "Sato",
	}
	if got := s.PayeeName(); got != "Yamada Construction" {
		t.Errorf("contractor should win, got %q", got)
	}
	s = &Subcontract{InternalWorker: &InternalWorker{Name: "Sato Kenji"}}
	if got := s.PayeeName(); got != "Sato Kenji" {
		t.Errorf("internal worker fallback, got %q", got)
	}
	s = &Subcontract{InternalWorkerName: "Sato"}
	if got := s.PayeeName(); got != "Sato" {
		t.Errorf("denormalized name fallback, got %q", got)
	}
	s = &Subcontract{}
	if got := s.PayeeName(); got != "" {
		t.Errorf("no payee should be empty, got %q", got)
	}
}

func TestSubcontractIsPaymentOverdue(t *testing.T) {
	today := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	due := ds("2025-06-10")
	s := &Subcontract{PaymentDueDate: &due, PaymentStatus: SubcontractPaymentPending}
	if !s.IsPaymentOverdue(today) {
		t.Error("past unpaid payment should be overdue")
	}
	s.PaymentStatus = SubcontractPaymentPaid
	if s.IsPaymentOverdue(today) {
		t.Error("paid payment is never overdue")
	}
	future := ds("2025-06-20")
	s = &Subcontract{PaymentDueDate: &future, PaymentStatus: SubcontractPaymentPending}
	if s.IsPaymentOverdue(today) {
		t.Error("future payment is not overdue")
	}
	s = &Subcontract{PaymentStatus: SubcontractPaymentPending}
	if s.IsPaymentOverdue(today) {
		t.Error("payment without date is not overdue")
	}
}

func TestSubcontractComputeAmountsMaterials(t *testing.T) {
	s := &Subcontract{
		MaterialCost1: d(10000),
		MaterialCost2: d(5000),
		DynamicMaterialCosts: JSONList{
			{"name": "paint", "cost": float64(3000)},
			{"name": "tape", "cost": "1500"},
		},
	}
	s.computeAmounts()
	if !s.TotalMaterialCost.Equal(d(19500)) {
		t.Errorf("total material cost = %s, want 19500", s.TotalMaterialCost)
	}
}

func TestSubcontractComputeAmountsInternalPricing(t *testing.T) {
	s := &Subcontract{
		WorkerType:          WorkerTypeInternal,
		InternalPricingType: InternalPricingHourly,
		InternalHourlyRate:  d(2500),
		EstimatedHours:      d(8),
		DynamicCostItems: JSONList{
			{"name": "allowance", "cost": float64(2000)},
		},
	}
	s.computeAmounts()
	if !s.ContractAmount.Equal(d(22000)) {
		t.Errorf("hourly contract amount = %s, want 22000", s.ContractAmount)
	}

	s = &Subcontract{
		WorkerType:          WorkerTypeInternal,
		InternalPricingType: InternalPricingProject,
		InternalHourlyRate:  d(2500),
		EstimatedHours:      d(8),
		DynamicCostItems: JSONList{
			{"name": "flat fee", "cost": float64(50000)},
		},
	}
	s.computeAmounts()
	if !s.ContractAmount.Equal(d(50000)) {
		t.Errorf("project pricing contract amount = %s, want 50000", s.ContractAmount)
	}
}
