package rules

import (
	"context"
	"testing"

	"github.com/smallbiznis/revlens/internal/detection/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuplicateEntry_ThreeIdenticalRecords(t *testing.T) {
	rule := NewDuplicateEntryRule(testClock(t))

	snapshot := domain.Snapshot{
		BillingRecords: []domain.BillingRecord{
			billingRecord(t, "BILL-1", "CUST-123", "SERVICE-001", 100, "2023-06-15", "2023-06-01", "2023-06-30"),
			billingRecord(t, "BILL-2", "CUST-123", "SERVICE-001", 100, "2023-06-16", "2023-06-01", "2023-06-30"),
			billingRecord(t, "BILL-3", "CUST-123", "SERVICE-001", 100, "2023-06-17", "2023-06-01", "2023-06-30"),
		},
	}

	incidents := rule.Check(context.Background(), snapshot)
	require.Len(t, incidents, 2)

	assert.Equal(t, "BILL-2", incidents[0].RelatedEntities[domain.RelatedBillingID])
	assert.Equal(t, "BILL-3", incidents[1].RelatedEntities[domain.RelatedBillingID])
	for _, incident := range incidents {
		assert.Equal(t, domain.IncidentTypeDuplicateEntry, incident.Type)
		assert.Equal(t, domain.SeverityHigh, incident.Severity)
		assert.Equal(t, 100.0, incident.FinancialImpact)
		assert.Equal(t, "BILL-1", incident.RelatedEntities[domain.RelatedDuplicateOf])
	}
}

func TestDuplicateEntry_DifferentAmountsAreNotDuplicates(t *testing.T) {
	rule := NewDuplicateEntryRule(testClock(t))

	snapshot := domain.Snapshot{
		BillingRecords: []domain.BillingRecord{
			billingRecord(t, "BILL-1", "CUST-123", "SERVICE-001", 100, "2023-06-15", "2023-06-01", "2023-06-30"),
			billingRecord(t, "BILL-2", "CUST-123", "SERVICE-001", 101, "2023-06-15", "2023-06-01", "2023-06-30"),
		},
	}

	assert.Empty(t, rule.Check(context.Background(), snapshot))
}

func TestDuplicateEntry_GroupsFollowInputOrder(t *testing.T) {
	rule := NewDuplicateEntryRule(testClock(t))

	snapshot := domain.Snapshot{
		BillingRecords: []domain.BillingRecord{
			billingRecord(t, "BILL-A1", "CUST-1", "SERVICE-001", 100, "2023-06-15", "2023-06-01", "2023-06-30"),
			billingRecord(t, "BILL-B1", "CUST-2", "SERVICE-002", 200, "2023-06-15", "2023-06-01", "2023-06-30"),
			billingRecord(t, "BILL-A2", "CUST-1", "SERVICE-001", 100, "2023-06-15", "2023-06-01", "2023-06-30"),
			billingRecord(t, "BILL-B2", "CUST-2", "SERVICE-002", 200, "2023-06-15", "2023-06-01", "2023-06-30"),
		},
	}

	incidents := rule.Check(context.Background(), snapshot)
	require.Len(t, incidents, 2)
	assert.Equal(t, "BILL-A2", incidents[0].RelatedEntities[domain.RelatedBillingID])
	assert.Equal(t, "BILL-A1", incidents[0].RelatedEntities[domain.RelatedDuplicateOf])
	assert.Equal(t, "BILL-B2", incidents[1].RelatedEntities[domain.RelatedBillingID])
	assert.Equal(t, "BILL-B1", incidents[1].RelatedEntities[domain.RelatedDuplicateOf])
}

func TestDuplicateEntry_DistinctPeriodsNotGrouped(t *testing.T) {
	rule := NewDuplicateEntryRule(testClock(t))

	snapshot := domain.Snapshot{
		BillingRecords: []domain.BillingRecord{
			billingRecord(t, "BILL-1", "CUST-123", "SERVICE-001", 100, "2023-06-15", "2023-06-01", "2023-06-30"),
			billingRecord(t, "BILL-2", "CUST-123", "SERVICE-001", 100, "2023-07-15", "2023-07-01", "2023-07-31"),
		},
	}

	assert.Empty(t, rule.Check(context.Background(), snapshot))
}
