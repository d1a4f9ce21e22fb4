package rules

import (
	"testing"
	"time"

	"github.com/smallbiznis/revlens/internal/clock"
	"github.com/smallbiznis/revlens/internal/detection/domain"
)

func day(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.DateOnly, value)
	if err != nil {
		t.Fatalf("bad date %q: %v", value, err)
	}
	return parsed
}

func testClock(t *testing.T) *clock.FakeClock {
	t.Helper()
	return clock.NewFakeClock(time.Date(2023, 7, 1, 12, 0, 0, 0, time.UTC))
}

func billingRecord(t *testing.T, id, customerID, serviceID string, amount float64, billingDate, periodStart, periodEnd string) domain.BillingRecord {
	t.Helper()
	return domain.BillingRecord{
		ID:          id,
		CustomerID:  customerID,
		InvoiceID:   "INV-" + id,
		ServiceID:   serviceID,
		Amount:      amount,
		Currency:    "USD",
		BillingDate: day(t, billingDate),
		DueDate:     day(t, periodEnd).AddDate(0, 0, 14),
		Status:      domain.BillingStatusUnpaid,
		PeriodStart: day(t, periodStart),
		PeriodEnd:   day(t, periodEnd),
	}
}

func provisioningRecord(t *testing.T, id, customerID, serviceID, startDate string) domain.ProvisioningRecord {
	t.Helper()
	start := day(t, startDate)
	return domain.ProvisioningRecord{
		ID:            id,
		CustomerID:    customerID,
		ServiceID:     serviceID,
		ProvisionDate: start,
		Status:        domain.ProvisioningStatusActive,
		PlanID:        "PLAN-BASIC",
		StartDate:     start,
	}
}

func usageRecord(t *testing.T, id, customerID, serviceID, usageDate string, quantity float64) domain.UsageRecord {
	t.Helper()
	return domain.UsageRecord{
		ID:         id,
		CustomerID: customerID,
		ServiceID:  serviceID,
		UsageDate:  day(t, usageDate),
		UsageType:  "api_calls",
		Quantity:   quantity,
		Unit:       "call",
		Cost:       quantity,
	}
}

func contractWithRate(t *testing.T, id, customerID, effectiveDate string, expiryDate *string) domain.Contract {
	t.Helper()
	effective := day(t, effectiveDate)
	contract := domain.Contract{
		ID:            id,
		CustomerID:    customerID,
		ContractDate:  effective,
		EffectiveDate: effective,
		Status:        domain.ContractStatusActive,
		Clauses: []domain.ContractClause{
			{
				ID:            id + "-rate",
				ContractID:    id,
				ClauseType:    domain.ClauseTypeRate,
				Content:       "Standard monthly rate applies per service.",
				EffectiveDate: effective,
			},
		},
	}
	if expiryDate != nil {
		expiry := day(t, *expiryDate)
		contract.ExpiryDate = &expiry
	}
	return contract
}
