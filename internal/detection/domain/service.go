package domain

import (
	"context"
	"errors"
	"fmt"
)

// Rule is one leakage detector. Check is a pure function of the snapshot:
// no mutation of inputs, no shared state across calls, empty result when
// nothing is found.
type Rule interface {
	Name() string
	Check(ctx context.Context, snapshot Snapshot) []Incident
}

// Service runs the configured rule set against one snapshot.
type Service interface {
	// Scan validates the snapshot, runs every rule in the fixed list
	// order and returns the concatenated incidents. Incidents are never
	// deduplicated across rules.
	Scan(ctx context.Context, snapshot Snapshot) (Report, error)
}

var (
	ErrMalformedSnapshot = errors.New("malformed_snapshot")
)

// RecordError reports a malformed record, naming the offending record
// and field so data-quality problems surface instead of being masked.
type RecordError struct {
	Kind     string
	RecordID string
	Field    string
	Reason   string
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("%s %q: field %q %s", e.Kind, e.RecordID, e.Field, e.Reason)
}

func (e *RecordError) Unwrap() error {
	return ErrMalformedSnapshot
}
