package domain

import "time"

// IncidentType classifies the leakage pattern a rule detected.
type IncidentType string

const (
	IncidentTypeMissingCharge  IncidentType = "missing_charge"
	IncidentTypeIncorrectRate  IncidentType = "incorrect_rate"
	IncidentTypeUsageMismatch  IncidentType = "usage_mismatch"
	IncidentTypeDuplicateEntry IncidentType = "duplicate_entry"
)

// Severity ranks incident urgency.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Rank orders severities for sorting and filtering; higher is worse.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// IncidentStatusDetected is the only status the engine assigns; every
// later transition belongs to the ticketing layer.
const IncidentStatusDetected = "detected"

// Related-entity role names used in Incident.RelatedEntities.
const (
	RelatedBillingID      = "billing_id"
	RelatedProvisioningID = "provisioning_id"
	RelatedCustomerID     = "customer_id"
	RelatedServiceID      = "service_id"
	RelatedContractID     = "contract_id"
	RelatedClauseID       = "clause_id"
	RelatedUsageDate      = "usage_date"
	RelatedDuplicateOf    = "duplicate_of"
)

// Incident is the uniform output record a rule produces for one detected
// leakage instance. Created exactly once; the engine never mutates it.
type Incident struct {
	ID              string            `json:"id"`
	Type            IncidentType      `json:"type"`
	Severity        Severity          `json:"severity"`
	Status          string            `json:"status"`
	Description     string            `json:"description"`
	FinancialImpact float64           `json:"financial_impact"`
	Currency        string            `json:"currency"`
	DetectionDate   time.Time         `json:"detection_date"`
	RelatedEntities map[string]string `json:"related_entities"`
	Evidence        []string          `json:"evidence,omitempty"`
	RootCause       *string           `json:"root_cause,omitempty"`
	Resolution      *string           `json:"resolution,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// Report is the wire shape returned to callers of one detection run.
type Report struct {
	Incidents []Incident `json:"incidents"`
	Count     int        `json:"count"`
}

// Summary aggregates a report for dashboards and logging. Derived data
// only; no additional detection happens here.
type Summary struct {
	Total            int                  `json:"total"`
	ByType           map[IncidentType]int `json:"by_type"`
	BySeverity       map[Severity]int     `json:"by_severity"`
	ImpactByCurrency map[string]float64   `json:"impact_by_currency"`
}

// Summarize folds a report into per-type, per-severity and per-currency
// aggregates.
func Summarize(report Report) Summary {
	summary := Summary{
		Total:            report.Count,
		ByType:           make(map[IncidentType]int),
		BySeverity:       make(map[Severity]int),
		ImpactByCurrency: make(map[string]float64),
	}
	for _, incident := range report.Incidents {
		summary.ByType[incident.Type]++
		summary.BySeverity[incident.Severity]++
		if incident.FinancialImpact > 0 {
			summary.ImpactByCurrency[incident.Currency] += incident.FinancialImpact
		}
	}
	return summary
}
