package plutus

import (
	"fmt"

	"github.com/feral-file/propfi-txbuilder/internal/domain"
)

// RedeemerKind names a redeemer variant across all validators
type RedeemerKind string

const (
	RedeemerMintProperty     RedeemerKind = "MintProperty"
	RedeemerBuy              RedeemerKind = "Buy"
	RedeemerCancel           RedeemerKind = "Cancel"
	RedeemerSyndicateDeposit RedeemerKind = "Deposit"
	RedeemerDepositYield     RedeemerKind = "DepositYield"
	RedeemerClaimYield       RedeemerKind = "ClaimYield"
)

// redeemerTags maps each redeemer variant to the constructor index its validator expects.
// Indices are scoped per validator, so tags repeat across kinds.
var redeemerTags = map[RedeemerKind]uint64{
	// minting policy
	RedeemerMintProperty: 0,
	// marketplace
	RedeemerBuy:    0,
	RedeemerCancel: 1,
	// syndicate escrow
	RedeemerSyndicateDeposit: 0,
	// yield treasury
	RedeemerDepositYield: 0,
	RedeemerClaimYield:   1,
}

// RedeemerTag returns the constructor index of a redeemer kind
func RedeemerTag(kind RedeemerKind) (uint64, bool) {
	tag, ok := redeemerTags[kind]
	return tag, ok
}

// syndicateStateTags fixes the order Fundraising, Locked, Finalized, Refunded
var syndicateStateTags = map[domain.SyndicateState]uint64{
	domain.SyndicateFundraising: 0,
	domain.SyndicateLocked:      1,
	domain.SyndicateFinalized:   2,
	domain.SyndicateRefunded:    3,
}

var syndicateStatesByTag = func() map[uint64]domain.SyndicateState {
	m := make(map[uint64]domain.SyndicateState, len(syndicateStateTags))
	for state, tag := range syndicateStateTags {
		m[tag] = state
	}
	return m
}()

// SyndicateStateTag returns the constructor index of a syndicate state
func SyndicateStateTag(state domain.SyndicateState) (uint64, bool) {
	tag, ok := syndicateStateTags[state]
	return tag, ok
}

// Redeemer is a typed redeemer value. The set of variants is closed.
type Redeemer interface {
	Kind() RedeemerKind
	fields() ([]Data, error)
}

// MintProperty authorizes minting the token pair of a property
type MintProperty struct {
	// PropertyID is the hex encoded property identifier
	PropertyID string
}

// Buy consumes a listing by paying the seller
type Buy struct{}

// Cancel returns a listing to its seller
type Cancel struct{}

// SyndicateDeposit adds an investor contribution to a syndicate escrow
type SyndicateDeposit struct {
	Amount int64
}

// DepositYield adds rental income to a yield treasury
type DepositYield struct {
	Amount int64
}

// ClaimYield withdraws a holder's proportional share from a yield treasury
type ClaimYield struct {
	Holder         domain.PubKeyHash
	FractionAmount int64
}

func (MintProperty) Kind() RedeemerKind     { return RedeemerMintProperty }
func (Buy) Kind() RedeemerKind              { return RedeemerBuy }
func (Cancel) Kind() RedeemerKind           { return RedeemerCancel }
func (SyndicateDeposit) Kind() RedeemerKind { return RedeemerSyndicateDeposit }
func (DepositYield) Kind() RedeemerKind     { return RedeemerDepositYield }
func (ClaimYield) Kind() RedeemerKind       { return RedeemerClaimYield }

func (r MintProperty) fields() ([]Data, error) {
	id, err := hexField("property id", r.PropertyID)
	if err != nil {
		return nil, err
	}
	return []Data{id}, nil
}

func (Buy) fields() ([]Data, error)    { return nil, nil }
func (Cancel) fields() ([]Data, error) { return nil, nil }

func (r SyndicateDeposit) fields() ([]Data, error) {
	return []Data{NewInt(r.Amount)}, nil
}

func (r DepositYield) fields() ([]Data, error) {
	return []Data{NewInt(r.Amount)}, nil
}

func (r ClaimYield) fields() ([]Data, error) {
	holder, err := keyHashField("holder", r.Holder)
	if err != nil {
		return nil, err
	}
	return []Data{holder, NewInt(r.FractionAmount)}, nil
}

// EncodeRedeemer encodes a redeemer as a constructor using the tag table
func EncodeRedeemer(r Redeemer) (Data, error) {
	if r == nil {
		return nil, malformed("redeemer", "missing")
	}
	tag, ok := RedeemerTag(r.Kind())
	if !ok {
		return nil, malformed("redeemer", fmt.Sprintf("unknown kind %q", r.Kind()))
	}
	fields, err := r.fields()
	if err != nil {
		return nil, err
	}
	return NewConstr(tag, fields...), nil
}
