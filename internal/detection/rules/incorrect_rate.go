package rules

import (
	"context"
	"fmt"
	"math"

	"github.com/smallbiznis/revlens/internal/clock"
	"github.com/smallbiznis/revlens/internal/detection/domain"
)

// RateSource yields the expected rate governed by a contract's rate
// clause. The second return is false when no rate can be derived.
type RateSource interface {
	ExpectedRate(clause domain.ContractClause) (float64, bool)
}

// StaticRateSource returns a fixed expected rate regardless of clause
// content. It is a deliberately visible stand-in: deriving the real rate
// means parsing the clause text, which no component does yet.
type StaticRateSource struct {
	Rate float64
}

func (s StaticRateSource) ExpectedRate(domain.ContractClause) (float64, bool) {
	return s.Rate, true
}

// IncorrectRateRule finds billing records whose amount disagrees with the
// rate the customer's active contract specifies.
type IncorrectRateRule struct {
	clock     clock.Clock
	rates     RateSource
	tolerance float64
}

// NewIncorrectRateRule builds the rule. Tolerance absorbs rounding noise
// in the amount comparison.
func NewIncorrectRateRule(clk clock.Clock, rates RateSource, tolerance float64) *IncorrectRateRule {
	return &IncorrectRateRule{clock: clk, rates: rates, tolerance: tolerance}
}

func (r *IncorrectRateRule) Name() string {
	return string(domain.IncidentTypeIncorrectRate)
}

// Check resolves the contract active on each billing date and compares
// the billed amount against the rate clause. No active contract or no
// rate clause is a valid negative result, not an error.
func (r *IncorrectRateRule) Check(_ context.Context, snapshot domain.Snapshot) []domain.Incident {
	var incidents []domain.Incident

	for _, bill := range snapshot.BillingRecords {
		contract, ok := activeContract(snapshot.Contracts, bill)
		if !ok {
			continue
		}
		clause, ok := contract.RateClause()
		if !ok {
			continue
		}
		expected, ok := r.rates.ExpectedRate(clause)
		if !ok {
			continue
		}

		deviation := math.Abs(bill.Amount - expected)
		if deviation <= r.tolerance {
			continue
		}

		incidents = append(incidents, newIncident(
			r.clock,
			domain.IncidentTypeIncorrectRate,
			domain.SeverityMedium,
			fmt.Sprintf("Incorrect rate for service %s, customer %s", bill.ServiceID, bill.CustomerID),
			deviation,
			bill.Currency,
			map[string]string{
				domain.RelatedBillingID:  bill.ID,
				domain.RelatedContractID: contract.ID,
				domain.RelatedClauseID:   clause.ID,
			},
		))
	}

	return incidents
}

// activeContract returns the first contract, in input order, belonging to
// the customer and active on the billing date. Overlapping contracts are
// not expected; when they occur the first found wins.
func activeContract(contracts []domain.Contract, bill domain.BillingRecord) (domain.Contract, bool) {
	for _, contract := range contracts {
		if contract.CustomerID != bill.CustomerID {
			continue
		}
		if contract.ActiveOn(bill.BillingDate) {
			return contract, true
		}
	}
	return domain.Contract{}, false
}
