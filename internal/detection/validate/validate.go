// Package validate rejects malformed snapshots before any rule runs.
// A nil collection is valid and treated as empty; a record missing a
// required field fails fast with the offending record id and field.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/smallbiznis/revlens/internal/detection/domain"
)

const (
	tagPeriodOrder = "periodorder"
	tagWindowOrder = "windoworder"
)

// Validator applies strict record-level validation to snapshots.
type Validator struct {
	validate *validator.Validate
}

// New builds a Validator with the engine's record rules registered.
func New() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" || tag == "-" {
			return f.Name
		}
		return tag
	})

	v.RegisterStructValidation(billingPeriodOrder, domain.BillingRecord{})
	v.RegisterStructValidation(provisioningWindowOrder, domain.ProvisioningRecord{})
	v.RegisterStructValidation(clauseWindowOrder, domain.ContractClause{})
	v.RegisterStructValidation(contractWindowOrder, domain.Contract{})

	return &Validator{validate: v}
}

// Snapshot checks every record in the snapshot and returns the first
// violation as a *domain.RecordError.
func (v *Validator) Snapshot(snapshot domain.Snapshot) error {
	for i := range snapshot.BillingRecords {
		record := snapshot.BillingRecords[i]
		if err := v.record("billing_record", record.ID, record); err != nil {
			return err
		}
	}
	for i := range snapshot.ProvisioningRecords {
		record := snapshot.ProvisioningRecords[i]
		if err := v.record("provisioning_record", record.ID, record); err != nil {
			return err
		}
	}
	for i := range snapshot.UsageRecords {
		record := snapshot.UsageRecords[i]
		if err := v.record("usage_record", record.ID, record); err != nil {
			return err
		}
	}
	for i := range snapshot.Contracts {
		contract := snapshot.Contracts[i]
		if err := v.record("contract", contract.ID, contract); err != nil {
			return err
		}
	}
	return nil
}

func (v *Validator) record(kind, id string, record any) error {
	err := v.validate.Struct(record)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		first := fieldErrs[0]
		return &domain.RecordError{
			Kind:     kind,
			RecordID: id,
			Field:    fieldPath(first),
			Reason:   reason(first),
		}
	}
	return fmt.Errorf("validate %s %q: %w", kind, id, err)
}

// fieldPath strips the root struct name from the error namespace so the
// caller sees json field paths like "clauses[0].effective_date".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if idx := strings.Index(ns, "."); idx >= 0 {
		return ns[idx+1:]
	}
	return fe.Field()
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "gte":
		return fmt.Sprintf("must be >= %s", fe.Param())
	case tagPeriodOrder:
		return "must not precede billing_period_start"
	case tagWindowOrder:
		return "must not precede the window start"
	default:
		return fmt.Sprintf("failed %q validation", fe.Tag())
	}
}

func billingPeriodOrder(sl validator.StructLevel) {
	record := sl.Current().Interface().(domain.BillingRecord)
	if record.PeriodEnd.Before(record.PeriodStart) {
		sl.ReportError(record.PeriodEnd, "billing_period_end", "PeriodEnd", tagPeriodOrder, "")
	}
}

func provisioningWindowOrder(sl validator.StructLevel) {
	record := sl.Current().Interface().(domain.ProvisioningRecord)
	if record.EndDate != nil && record.EndDate.Before(record.StartDate) {
		sl.ReportError(record.EndDate, "end_date", "EndDate", tagWindowOrder, "")
	}
}

func clauseWindowOrder(sl validator.StructLevel) {
	clause := sl.Current().Interface().(domain.ContractClause)
	if clause.ExpiryDate != nil && clause.ExpiryDate.Before(clause.EffectiveDate) {
		sl.ReportError(clause.ExpiryDate, "expiry_date", "ExpiryDate", tagWindowOrder, "")
	}
}

func contractWindowOrder(sl validator.StructLevel) {
	contract := sl.Current().Interface().(domain.Contract)
	if contract.ExpiryDate != nil && contract.ExpiryDate.Before(contract.EffectiveDate) {
		sl.ReportError(contract.ExpiryDate, "expiry_date", "ExpiryDate", tagWindowOrder, "")
	}
}
