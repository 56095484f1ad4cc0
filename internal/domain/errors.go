package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedRecord is returned when a record fails a structural precondition before encoding
	ErrMalformedRecord = errors.New("malformed record")

	// ErrRuleViolation is returned when a state transition precondition fails
	ErrRuleViolation = errors.New("rule violation")

	// ErrInsufficientValue is returned when value arithmetic would go negative
	ErrInsufficientValue = errors.New("insufficient value")

	// ErrResourceNotFound is returned when a referenced on-chain output cannot be located
	ErrResourceNotFound = errors.New("resource not found")

	// ErrContractUnavailable is returned when a required validator is missing from the registry
	ErrContractUnavailable = errors.New("contract unavailable")

	// ErrExternalServiceFailure is returned when the ledger interaction service fails
	ErrExternalServiceFailure = errors.New("external service failure")
)

// NewMalformedRecordError reports which field of a record is malformed
func NewMalformedRecordError(field string, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrMalformedRecord, field, reason)
}

// Invariant names a protocol invariant enforced by the transition rules
type Invariant string

const (
	InvariantPositiveFractions   Invariant = "positive_fractions"
	InvariantPositiveAmount      Invariant = "positive_amount"
	InvariantPositivePrice       Invariant = "positive_price"
	InvariantNumericRange        Invariant = "numeric_range"
	InvariantSellerOnly          Invariant = "seller_only"
	InvariantManagerOnly         Invariant = "manager_only"
	InvariantFundraisingState    Invariant = "fundraising_state"
	InvariantBeforeDeadline      Invariant = "before_deadline"
	InvariantMinInvestment       Invariant = "min_investment"
	InvariantMaxInvestment       Invariant = "max_investment"
	InvariantTargetNotExceeded   Invariant = "target_not_exceeded"
	InvariantRaisedMatchesLedger Invariant = "raised_matches_investors"
	InvariantSyndicateTerms      Invariant = "syndicate_terms"
	InvariantFractionBound       Invariant = "fraction_bound"
	InvariantHoldsFractions      Invariant = "holds_fractions"
	InvariantKnownStablecoin     Invariant = "known_stablecoin"
	InvariantTokenNameLength     Invariant = "token_name_length"
)

// RuleViolation is a failed state transition precondition
type RuleViolation struct {
	Invariant Invariant
	Detail    string
}

// NewRuleViolation creates a rule violation for the given invariant
func NewRuleViolation(invariant Invariant, format string, args ...interface{}) *RuleViolation {
	return &RuleViolation{
		Invariant: invariant,
		Detail:    fmt.Sprintf(format, args...),
	}
}

func (e *RuleViolation) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrRuleViolation, e.Invariant, e.Detail)
}

// Unwrap allows errors.Is(err, ErrRuleViolation)
func (e *RuleViolation) Unwrap() error {
	return ErrRuleViolation
}

// ViolatedInvariant returns the invariant carried by err, if it is a rule violation
func ViolatedInvariant(err error) (Invariant, bool) {
	var violation *RuleViolation
	if errors.As(err, &violation) {
		return violation.Invariant, true
	}
	return "", false
}

// ErrorKind names the kind of err, "internal" when it is none of the known kinds
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrMalformedRecord):
		return "malformed_record"
	case errors.Is(err, ErrRuleViolation):
		return "rule_violation"
	case errors.Is(err, ErrInsufficientValue):
		return "insufficient_value"
	case errors.Is(err, ErrResourceNotFound):
		return "resource_not_found"
	case errors.Is(err, ErrContractUnavailable):
		return "contract_unavailable"
	case errors.Is(err, ErrExternalServiceFailure):
		return "external_service_failure"
	default:
		return "internal"
	}
}
