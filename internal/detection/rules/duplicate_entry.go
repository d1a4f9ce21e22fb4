package rules

import (
	"context"
	"fmt"

	"github.com/smallbiznis/revlens/internal/clock"
	"github.com/smallbiznis/revlens/internal/detection/domain"
)

// DuplicateEntryRule finds billing records that are exact duplicates
// along the defining key (customer, service, period bounds, amount).
type DuplicateEntryRule struct {
	clock clock.Clock
}

func NewDuplicateEntryRule(clk clock.Clock) *DuplicateEntryRule {
	return &DuplicateEntryRule{clock: clk}
}

func (r *DuplicateEntryRule) Name() string {
	return string(domain.IncidentTypeDuplicateEntry)
}

type duplicateKey struct {
	customerID  string
	serviceID   string
	periodStart int64
	periodEnd   int64
	amount      float64
}

// Check groups billing records by the defining key in input order. The
// first record of a group is canonical; every later record yields one
// incident pointing back at it. Callers relying on a specific canonical
// choice must pre-sort their input.
func (r *DuplicateEntryRule) Check(_ context.Context, snapshot domain.Snapshot) []domain.Incident {
	groups := make(map[duplicateKey][]domain.BillingRecord, len(snapshot.BillingRecords))
	order := make([]duplicateKey, 0, len(snapshot.BillingRecords))

	for _, bill := range snapshot.BillingRecords {
		key := duplicateKey{
			customerID:  bill.CustomerID,
			serviceID:   bill.ServiceID,
			periodStart: bill.PeriodStart.UTC().UnixNano(),
			periodEnd:   bill.PeriodEnd.UTC().UnixNano(),
			amount:      bill.Amount,
		}
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], bill)
	}

	var incidents []domain.Incident
	for _, key := range order {
		records := groups[key]
		if len(records) < 2 {
			continue
		}
		canonical := records[0]
		for _, duplicate := range records[1:] {
			incidents = append(incidents, newIncident(
				r.clock,
				domain.IncidentTypeDuplicateEntry,
				domain.SeverityHigh,
				fmt.Sprintf("Duplicate billing entry for service %s, customer %s", duplicate.ServiceID, duplicate.CustomerID),
				duplicate.Amount,
				duplicate.Currency,
				map[string]string{
					domain.RelatedBillingID:   duplicate.ID,
					domain.RelatedDuplicateOf: canonical.ID,
				},
			))
		}
	}

	return incidents
}
