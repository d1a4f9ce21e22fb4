// Package domain contains the record snapshot and incident model for the
// revenue leakage rule engine. Records are immutable value snapshots; they
// are correlated only by shared identifiers and date windows, never by
// ownership.
package domain

import "time"

// BillingStatus represents billing record lifecycle states.
type BillingStatus string

const (
	BillingStatusPaid    BillingStatus = "paid"
	BillingStatusUnpaid  BillingStatus = "unpaid"
	BillingStatusOverdue BillingStatus = "overdue"
)

// ProvisioningStatus represents provisioning lifecycle states.
type ProvisioningStatus string

const (
	ProvisioningStatusActive    ProvisioningStatus = "active"
	ProvisioningStatusInactive  ProvisioningStatus = "inactive"
	ProvisioningStatusSuspended ProvisioningStatus = "suspended"
)

// ContractStatus represents contract lifecycle states.
type ContractStatus string

const (
	ContractStatusActive     ContractStatus = "active"
	ContractStatusExpired    ContractStatus = "expired"
	ContractStatusTerminated ContractStatus = "terminated"
)

// ClauseTypeRate marks the clause carrying price terms for a contract.
const ClauseTypeRate = "rate"

// BillingRecord is one charge raised against a customer for a service
// over a billing period. Invariant: PeriodStart <= PeriodEnd.
type BillingRecord struct {
	ID          string        `json:"id" validate:"required"`
	CustomerID  string        `json:"customer_id" validate:"required"`
	InvoiceID   string        `json:"invoice_id" validate:"required"`
	ServiceID   string        `json:"service_id" validate:"required"`
	Amount      float64       `json:"amount"`
	Currency    string        `json:"currency" validate:"required"`
	BillingDate time.Time     `json:"billing_date" validate:"required"`
	DueDate     time.Time     `json:"due_date" validate:"required"`
	Status      BillingStatus `json:"status" validate:"required,oneof=paid unpaid overdue"`
	PeriodStart time.Time     `json:"billing_period_start" validate:"required"`
	PeriodEnd   time.Time     `json:"billing_period_end" validate:"required"`
}

// ProvisioningRecord is one service activation for a customer.
// EndDate is open-ended when nil; when set, EndDate >= StartDate.
type ProvisioningRecord struct {
	ID            string             `json:"id" validate:"required"`
	CustomerID    string             `json:"customer_id" validate:"required"`
	ServiceID     string             `json:"service_id" validate:"required"`
	ProvisionDate time.Time          `json:"provision_date" validate:"required"`
	Status        ProvisioningStatus `json:"status" validate:"required,oneof=active inactive suspended"`
	PlanID        string             `json:"plan_id" validate:"required"`
	StartDate     time.Time          `json:"start_date" validate:"required"`
	EndDate       *time.Time         `json:"end_date,omitempty"`
}

// UsageRecord is a single dated usage observation.
type UsageRecord struct {
	ID         string    `json:"id" validate:"required"`
	CustomerID string    `json:"customer_id" validate:"required"`
	ServiceID  string    `json:"service_id" validate:"required"`
	UsageDate  time.Time `json:"usage_date" validate:"required"`
	UsageType  string    `json:"usage_type" validate:"required"`
	Quantity   float64   `json:"quantity" validate:"gte=0"`
	Unit       string    `json:"unit" validate:"required"`
	Cost       float64   `json:"cost" validate:"gte=0"`
}

// ContractClause is a contract sub-record; clauses of type "rate" carry
// the price terms that should govern billing.
type ContractClause struct {
	ID            string     `json:"id" validate:"required"`
	ContractID    string     `json:"contract_id" validate:"required"`
	ClauseType    string     `json:"clause_type" validate:"required"`
	Content       string     `json:"content"`
	EffectiveDate time.Time  `json:"effective_date" validate:"required"`
	ExpiryDate    *time.Time `json:"expiry_date,omitempty"`
}

// Contract groups the clauses agreed with one customer. A customer may
// hold several contracts; ActiveOn decides which one governs a date.
type Contract struct {
	ID            string           `json:"id" validate:"required"`
	CustomerID    string           `json:"customer_id" validate:"required"`
	ContractDate  time.Time        `json:"contract_date" validate:"required"`
	EffectiveDate time.Time        `json:"effective_date" validate:"required"`
	ExpiryDate    *time.Time       `json:"expiry_date,omitempty"`
	Status        ContractStatus   `json:"status" validate:"required,oneof=active expired terminated"`
	Clauses       []ContractClause `json:"clauses" validate:"dive"`
}

// ActiveOn reports whether the contract governs the given date:
// EffectiveDate <= date <= ExpiryDate, open-ended when ExpiryDate is nil.
func (c Contract) ActiveOn(date time.Time) bool {
	if c.EffectiveDate.After(date) {
		return false
	}
	return c.ExpiryDate == nil || !c.ExpiryDate.Before(date)
}

// RateClause returns the first rate clause, or false when none exists.
func (c Contract) RateClause() (ContractClause, bool) {
	for _, clause := range c.Clauses {
		if clause.ClauseType == ClauseTypeRate {
			return clause, true
		}
	}
	return ContractClause{}, false
}

// Snapshot is the complete record set supplied to one detection run.
// Nil collections are valid and treated as empty.
type Snapshot struct {
	BillingRecords      []BillingRecord      `json:"billing_records"`
	ProvisioningRecords []ProvisioningRecord `json:"provisioning_records"`
	UsageRecords        []UsageRecord        `json:"usage_records"`
	Contracts           []Contract           `json:"contracts"`
}

// DayKey truncates a timestamp to its UTC calendar day. Day-keyed joins
// between billing and usage must share this truncation.
func DayKey(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
