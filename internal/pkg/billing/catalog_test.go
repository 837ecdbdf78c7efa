package billing

import (
	"errors"
	"testing"
)

func TestLookupPlanKnownCombinations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		planID   string
		interval string
		amount   int64
		cycles   int
	}{
		{"fin-silver", "monthly", 9900, 12},
		{"fin-silver", "yearly", 99000, 1},
		{"fin-gold", "monthly", 19900, 12},
		{"fin-gold", "yearly", 199000, 1},
		{"fin-platinum", "monthly", 49900, 12},
		{"fin-platinum", "yearly", 499000, 1},
	}

	for _, tc := range tests {
		entry, err := LookupPlan(tc.planID, tc.interval)
		if err != nil {
			t.Fatalf("LookupPlan(%s, %s): unexpected error: %v", tc.planID, tc.interval, err)
		}
		if entry.AmountMinorUnits != tc.amount {
			t.Fatalf("LookupPlan(%s, %s): amount = %d, want %d", tc.planID, tc.interval, entry.AmountMinorUnits, tc.amount)
		}
		if entry.CurrencyCode != "INR" {
			t.Fatalf("LookupPlan(%s, %s): currency = %s, want INR", tc.planID, tc.interval, entry.CurrencyCode)
		}
		if entry.BillingCycles() != tc.cycles {
			t.Fatalf("LookupPlan(%s, %s): cycles = %d, want %d", tc.planID, tc.interval, entry.BillingCycles(), tc.cycles)
		}
		if entry.GatewayPlanRef == "" {
			t.Fatalf("LookupPlan(%s, %s): empty gateway plan ref", tc.planID, tc.interval)
		}
	}
}

func TestLookupPlanNormalizesInput(t *testing.T) {
	t.Parallel()

	entry, err := LookupPlan("  FIN-Silver ", "Monthly")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.PlanID != "fin-silver" || entry.Interval != "monthly" {
		t.Fatalf("normalization failed: got %s/%s", entry.PlanID, entry.Interval)
	}
}

func TestLookupPlanUnknownCombinations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		planID   string
		interval string
	}{
		{"fin-diamond", "monthly"},
		{"fin-silver", "weekly"},
		{"fin-silver", ""},
		{"", "monthly"},
		{"", ""},
	}

	for _, tc := range tests {
		if _, err := LookupPlan(tc.planID, tc.interval); !errors.Is(err, ErrInvalidPlan) {
			t.Fatalf("LookupPlan(%q, %q): got %v, want ErrInvalidPlan", tc.planID, tc.interval, err)
		}
	}
}

func TestPlansReturnsCopy(t *testing.T) {
	t.Parallel()

	plans := Plans()
	if len(plans) != len(planCatalog) {
		t.Fatalf("Plans() returned %d entries, want %d", len(plans), len(planCatalog))
	}

	plans[0].AmountMinorUnits = 1
	if planCatalog[0].AmountMinorUnits == 1 {
		t.Fatalf("Plans() leaked a reference to the catalog")
	}
}
