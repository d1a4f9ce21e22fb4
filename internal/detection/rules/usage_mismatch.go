package rules

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/smallbiznis/revlens/internal/clock"
	"github.com/smallbiznis/revlens/internal/detection/domain"
)

// UsageMismatchRule finds billing amounts inconsistent with aggregated
// usage for the same customer, service and calendar day.
type UsageMismatchRule struct {
	clock     clock.Clock
	unitPrice float64
	tolerance float64
}

// NewUsageMismatchRule builds the rule. unitPrice converts aggregated
// quantity into an expected billed amount; the 1.0 default encodes the
// 1 unit = 1 currency unit simplification until real tariffs exist.
func NewUsageMismatchRule(clk clock.Clock, unitPrice, tolerance float64) *UsageMismatchRule {
	return &UsageMismatchRule{clock: clk, unitPrice: unitPrice, tolerance: tolerance}
}

func (r *UsageMismatchRule) Name() string {
	return string(domain.IncidentTypeUsageMismatch)
}

type usageKey struct {
	customerID string
	serviceID  string
	day        time.Time
}

// Check aggregates usage quantity by (customer, service, day) and
// compares each billing amount against the aggregate for its billing
// date. Absent usage aggregates default to zero.
func (r *UsageMismatchRule) Check(_ context.Context, snapshot domain.Snapshot) []domain.Incident {
	totals := make(map[usageKey]float64, len(snapshot.UsageRecords))
	for _, usage := range snapshot.UsageRecords {
		key := usageKey{
			customerID: usage.CustomerID,
			serviceID:  usage.ServiceID,
			day:        domain.DayKey(usage.UsageDate),
		}
		totals[key] += usage.Quantity
	}

	var incidents []domain.Incident
	for _, bill := range snapshot.BillingRecords {
		day := domain.DayKey(bill.BillingDate)
		actual := totals[usageKey{
			customerID: bill.CustomerID,
			serviceID:  bill.ServiceID,
			day:        day,
		}]

		expected := actual * r.unitPrice
		deviation := math.Abs(bill.Amount - expected)
		if deviation <= r.tolerance {
			continue
		}

		incidents = append(incidents, newIncident(
			r.clock,
			domain.IncidentTypeUsageMismatch,
			domain.SeverityMedium,
			fmt.Sprintf("Usage mismatch for service %s, customer %s", bill.ServiceID, bill.CustomerID),
			deviation,
			bill.Currency,
			map[string]string{
				domain.RelatedBillingID: bill.ID,
				domain.RelatedUsageDate: day.Format(time.DateOnly),
			},
		))
	}

	return incidents
}
