// Package rules implements the leakage detectors. Every rule is a pure
// function of the snapshot; the injected clock only stamps incidents.
package rules

import (
	"github.com/google/uuid"
	"github.com/smallbiznis/revlens/internal/clock"
	"github.com/smallbiznis/revlens/internal/detection/domain"
)

// defaultCurrency is used when an incident has no billing record to
// take the currency from.
const defaultCurrency = "USD"

func newIncident(clk clock.Clock, incidentType domain.IncidentType, severity domain.Severity, description string, impact float64, currency string, related map[string]string) domain.Incident {
	now := clk.Now().UTC()
	return domain.Incident{
		ID:              uuid.NewString(),
		Type:            incidentType,
		Severity:        severity,
		Status:          domain.IncidentStatusDetected,
		Description:     description,
		FinancialImpact: impact,
		Currency:        currency,
		DetectionDate:   now,
		RelatedEntities: related,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}
