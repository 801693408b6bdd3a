package models

import (
	"testing"
	"time"

	"github.com/mmdatafocus/dispatch_backend/utils"
)

func TestFixedCostIsActiveInMonth(t *testing.T) {
	end := ds("2025-09-30")
	cases := []struct {
		name   string
		cost   FixedCost
		year   int
		month  time.Month
		active bool
	}{
		{
			name:   "open ended cost active later in year",
			cost:   FixedCost{StartDate: ds("2025-04-01"), IsActive: utils.NewTrue()},
			year:   2025, month: time.September, active: true,
		},
		{
			name:   "start month itself is active",
			cost:   FixedCost{StartDate: ds("2025-04-01"), IsActive: utils.NewTrue()},
			year:   2025, month: time.April, active: true,
		},
		{
			name:   "before start",
			cost:   FixedCost{StartDate: ds("2025-04-01"), IsActive: utils.NewTrue()},
			year:   2025, month: time.March, active: false,
		},
		{
			name:   "end month inclusive",
			cost:   FixedCost{StartDate: ds("2025-04-01"), EndDate: &end, IsActive: utils.NewTrue()},
			year:   2025, month: time.September, active: true,
		},
		{
			name:   "after end",
			cost:   FixedCost{StartDate: ds("2025-04-01"), EndDate: &end, IsActive: utils.NewTrue()},
			year:   2025, month: time.October, active: false,
		},
		{
			name:   "inactive flag wins",
			cost:   FixedCost{StartDate: ds("2025-04-01"), IsActive: utils.NewFalse()},
			year:   2025, month: time.June, active: false,
		},
		{
			name:   "nil flag means inactive",
			cost:   FixedCost{StartDate: ds("2025-04-01")},
			year:   2025, month: time.June, active: false,
		},
		{
			name:   "mid month start still counts for that month",
			cost:   FixedCost{StartDate: ds("2025-04-15"), IsActive: utils.NewTrue()},
			year:   2025, month: time.May, active: true,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.cost.IsActiveInMonth(tc.year, tc.month); got != tc.active {
				t.Errorf("IsActiveInMonth(%d, %s) = %v, want %v", tc.year, tc.month, got, tc.active)
			}
		})
	}
}
