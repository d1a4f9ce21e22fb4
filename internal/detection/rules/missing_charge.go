package rules

import (
	"context"
	"fmt"

	"github.com/smallbiznis/revlens/internal/clock"
	"github.com/smallbiznis/revlens/internal/detection/domain"
)

// MissingChargeRule finds provisioned services never billed for their
// active period.
type MissingChargeRule struct {
	clock clock.Clock
}

func NewMissingChargeRule(clk clock.Clock) *MissingChargeRule {
	return &MissingChargeRule{clock: clk}
}

func (r *MissingChargeRule) Name() string {
	return string(domain.IncidentTypeMissingCharge)
}

// Check emits one incident per provisioning record with no billing record
// matching customer, service and a period covering the start date.
// Multiple matching billing records still count as a single match.
func (r *MissingChargeRule) Check(_ context.Context, snapshot domain.Snapshot) []domain.Incident {
	var incidents []domain.Incident

	for _, provision := range snapshot.ProvisioningRecords {
		if billedFor(provision, snapshot.BillingRecords) {
			continue
		}

		incidents = append(incidents, newIncident(
			r.clock,
			domain.IncidentTypeMissingCharge,
			domain.SeverityHigh,
			fmt.Sprintf("Service %s provisioned for customer %s but not billed", provision.ServiceID, provision.CustomerID),
			// Impact sizing needs a contract rate lookup; left at zero
			// until rate extraction exists.
			0.0,
			defaultCurrency,
			map[string]string{
				domain.RelatedProvisioningID: provision.ID,
				domain.RelatedCustomerID:     provision.CustomerID,
				domain.RelatedServiceID:      provision.ServiceID,
			},
		))
	}

	return incidents
}

// billedFor reports whether any billing record covers the provisioning
// start date for the same customer and service. Date-only comparison;
// time of day is ignored.
func billedFor(provision domain.ProvisioningRecord, billing []domain.BillingRecord) bool {
	startDay := domain.DayKey(provision.StartDate)
	for _, bill := range billing {
		if bill.CustomerID != provision.CustomerID || bill.ServiceID != provision.ServiceID {
			continue
		}
		if !domain.DayKey(bill.PeriodStart).After(startDay) && !domain.DayKey(bill.PeriodEnd).Before(startDay) {
			return true
		}
	}
	return false
}
