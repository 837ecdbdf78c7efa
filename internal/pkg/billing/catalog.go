package billing

import (
	"fmt"
	"strings"

	"github.com/finsightlabs/finsight/app/models"
)

// PlanEntry is one immutable row of the plan catalog. GatewayPlanRef is the
// plan identifier registered with the payment gateway for this tier/interval.
type PlanEntry struct {
	PlanID           string
	Interval         string
	AmountMinorUnits int64
	CurrencyCode     string
	GatewayPlanRef   string
}

// BillingCycles returns the number of recurring charges the gateway should
// schedule: twelve monthly charges or a single yearly one. Fixed policy, not
// configurable per plan.
func (e PlanEntry) BillingCycles() int {
	if e.Interval == models.SubscriptionIntervalYearly {
		return 1
	}
	return 12
}

// planCatalog is the single source of truth for plan pricing. The creation
// handler never derives an amount from request input.
var planCatalog = []PlanEntry{
	{PlanID: "fin-silver", Interval: models.SubscriptionIntervalMonthly, AmountMinorUnits: 9900, CurrencyCode: "INR", GatewayPlanRef: "plan_finsilver_m"},
	{PlanID: "fin-silver", Interval: models.SubscriptionIntervalYearly, AmountMinorUnits: 99000, CurrencyCode: "INR", GatewayPlanRef: "plan_finsilver_y"},
	{PlanID: "fin-gold", Interval: models.SubscriptionIntervalMonthly, AmountMinorUnits: 19900, CurrencyCode: "INR", GatewayPlanRef: "plan_fingold_m"},
	{PlanID: "fin-gold", Interval: models.SubscriptionIntervalYearly, AmountMinorUnits: 199000, CurrencyCode: "INR", GatewayPlanRef: "plan_fingold_y"},
	{PlanID: "fin-platinum", Interval: models.SubscriptionIntervalMonthly, AmountMinorUnits: 49900, CurrencyCode: "INR", GatewayPlanRef: "plan_finplatinum_m"},
	{PlanID: "fin-platinum", Interval: models.SubscriptionIntervalYearly, AmountMinorUnits: 499000, CurrencyCode: "INR", GatewayPlanRef: "plan_finplatinum_y"},
}

// LookupPlan resolves (planID, interval) to its catalog entry. Unknown
// combinations return ErrInvalidPlan; callers reject the enclosing request
// with a client error and never retry.
func LookupPlan(planID, interval string) (PlanEntry, error) {
	id := strings.ToLower(strings.TrimSpace(planID))
	iv := normalizeInterval(interval)
	for _, entry := range planCatalog {
		if entry.PlanID == id && entry.Interval == iv {
			return entry, nil
		}
	}
	return PlanEntry{}, fmt.Errorf("lookup %q/%q: %w", planID, interval, ErrInvalidPlan)
}

// Plans returns a copy of the catalog for pricing pages.
func Plans() []PlanEntry {
	out := make([]PlanEntry, len(planCatalog))
	copy(out, planCatalog)
	return out
}

func normalizeInterval(interval string) string {
	switch strings.ToLower(strings.TrimSpace(interval)) {
	case models.SubscriptionIntervalMonthly, models.SubscriptionIntervalYearly:
		return strings.ToLower(strings.TrimSpace(interval))
	default:
		return ""
	}
}
