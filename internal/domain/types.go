package domain

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// Network represents the Cardano network the protocol is deployed on
type Network string

const (
	NetworkPreprod Network = "preprod"
	NetworkPreview Network = "preview"
	NetworkMainnet Network = "mainnet"
)

// IsValidNetwork checks if a network is supported
func IsValidNetwork(network Network) bool {
	return network == NetworkPreprod ||
		network == NetworkPreview ||
		network == NetworkMainnet
}

// PubKeyHash is a hex encoded 28-byte verification key hash identifying a party
type PubKeyHash string

// Bytes decodes the key hash and validates its length
func (h PubKeyHash) Bytes() ([]byte, error) {
	return decodeFixedHex("key hash", string(h), KEY_HASH_LENGTH)
}

// String returns the hex form of the key hash
func (h PubKeyHash) String() string {
	return string(h)
}

// Hash32 is a hex encoded 32-byte digest (e.g. a governance document hash)
type Hash32 string

// Bytes decodes the digest and validates its length
func (h Hash32) Bytes() ([]byte, error) {
	return decodeFixedHex("document hash", string(h), DOCUMENT_HASH_LENGTH)
}

// PolicyID is a hex encoded 28-byte minting policy hash
type PolicyID string

// AssetName is a hex encoded asset name of at most 32 bytes
type AssetName string

// AssetRef identifies a token by minting policy and asset name.
// The zero AssetRef denotes the base coin (lovelace).
type AssetRef struct {
	PolicyID  PolicyID  `json:"policy_id"`
	AssetName AssetName `json:"asset_name"`
}

// Lovelace is the asset reference of the base coin
var Lovelace = AssetRef{}

// IsLovelace reports whether the reference denotes the base coin
func (a AssetRef) IsLovelace() bool {
	return a.PolicyID == "" && a.AssetName == ""
}

// Normalize returns the reference with lowercase hex, the form ledger units use
func (a AssetRef) Normalize() AssetRef {
	return AssetRef{
		PolicyID:  PolicyID(strings.ToLower(string(a.PolicyID))),
		AssetName: AssetName(strings.ToLower(string(a.AssetName))),
	}
}

// Unit returns the on-chain unit identifier: policy id concatenated with asset name
func (a AssetRef) Unit() string {
	if a.IsLovelace() {
		return LOVELACE_UNIT
	}
	return strings.ToLower(string(a.PolicyID) + string(a.AssetName))
}

// String returns the unit of the asset
func (a AssetRef) String() string {
	return a.Unit()
}

// Validate checks that the policy id and asset name are well-formed hex of the right size
func (a AssetRef) Validate() error {
	if a.IsLovelace() {
		return nil
	}
	if _, err := decodeFixedHex("policy id", string(a.PolicyID), POLICY_ID_LENGTH); err != nil {
		return err
	}
	name, err := hex.DecodeString(string(a.AssetName))
	if err != nil {
		return NewMalformedRecordError("asset name", "invalid hex")
	}
	if len(name) > MAX_ASSET_NAME_LENGTH {
		return NewMalformedRecordError("asset name", fmt.Sprintf("length %d exceeds %d bytes", len(name), MAX_ASSET_NAME_LENGTH))
	}
	return nil
}

// OutputRef identifies a transaction output
type OutputRef struct {
	TxHash string `json:"tx_hash"`
	Index  uint32 `json:"output_index"`
}

// String returns the reference in txhash#index form
func (o OutputRef) String() string {
	return fmt.Sprintf("%s#%d", o.TxHash, o.Index)
}

// Valid checks that the transaction hash is a 32-byte hex digest
func (o OutputRef) Valid() bool {
	_, err := decodeFixedHex("tx hash", o.TxHash, DOCUMENT_HASH_LENGTH)
	return err == nil
}

// Stablecoin describes a stablecoin accepted by the marketplace and treasuries
type Stablecoin struct {
	Name     string   `json:"name"`
	Asset    AssetRef `json:"asset"`
	Decimals int      `json:"decimals"`
}

// PropertyMetadata describes a real-estate property
type PropertyMetadata struct {
	Name             string `json:"name"`
	Description      string `json:"description"`
	Image            string `json:"image"`
	Location         string `json:"location"`
	TotalValue       int64  `json:"total_value"`
	TotalFractions   int64  `json:"total_fractions"`
	PricePerFraction int64  `json:"price_per_fraction"`
	// LegalDocumentCID is an optional reference to the legal documents bundle
	LegalDocumentCID string `json:"legal_document_cid,omitempty"`
}

// PropertyDatum is the state held by the fractionalize validator next to the reference token
type PropertyDatum struct {
	Owner          PubKeyHash       `json:"owner"`
	Price          int64            `json:"price"`
	FractionToken  AssetRef         `json:"fraction_token"`
	TotalFractions int64            `json:"total_fractions"`
	Metadata       PropertyMetadata `json:"metadata"`
}

// Property is a fractionalized property and its CIP-68 token pair
type Property struct {
	ID             string           `json:"id"`
	Metadata       PropertyMetadata `json:"metadata"`
	Owner          PubKeyHash       `json:"owner"`
	ReferenceToken AssetRef         `json:"reference_token"`
	FractionToken  AssetRef         `json:"fraction_token"`
}

// Listing is the marketplace datum: fractions offered by a seller for a fixed total price
type Listing struct {
	Seller PubKeyHash `json:"seller"`
	// Price is the total price for FractionAmount, captured at listing time
	Price          int64    `json:"price"`
	Stablecoin     AssetRef `json:"stablecoin"`
	FractionAsset  AssetRef `json:"fraction_asset"`
	FractionAmount int64    `json:"fraction_amount"`
}

// SyndicateState is the lifecycle state of a syndicate escrow
type SyndicateState string

const (
	SyndicateFundraising SyndicateState = "Fundraising"
	SyndicateLocked      SyndicateState = "Locked"
	SyndicateFinalized   SyndicateState = "Finalized"
	SyndicateRefunded    SyndicateState = "Refunded"
)

// IsValidSyndicateState checks if a syndicate state is known
func IsValidSyndicateState(state SyndicateState) bool {
	return state == SyndicateFundraising ||
		state == SyndicateLocked ||
		state == SyndicateFinalized ||
		state == SyndicateRefunded
}

// InvestmentLimits bounds a single investor's contribution
type InvestmentLimits struct {
	MinInvestment int64 `json:"min_investment"`
	MaxInvestment int64 `json:"max_investment"`
	// MaxPercentage is a whole percentage of the target, e.g. 50 for 50%
	MaxPercentage int64 `json:"max_percentage"`
}

// InvestorRecord is a single deposit into a syndicate
type InvestorRecord struct {
	Investor PubKeyHash `json:"investor"`
	Amount   int64      `json:"amount"`
}

// SyndicateEscrow is the syndicate escrow datum
type SyndicateEscrow struct {
	State         SyndicateState   `json:"state"`
	Target        int64            `json:"target"`
	CurrentRaised int64            `json:"current_raised"`
	Deadline      time.Time        `json:"deadline"`
	Investors     []InvestorRecord `json:"investors"`
	Seller        PubKeyHash       `json:"seller"`
	Stablecoin    AssetRef         `json:"stablecoin"`
	FractionAsset AssetRef         `json:"fraction_asset"`
	GovernanceDoc Hash32           `json:"governance_doc"`
	Limits        InvestmentLimits `json:"limits"`
}

// YieldTreasury is the yield treasury datum
type YieldTreasury struct {
	PropertyToken    AssetRef   `json:"property_token"`
	TotalFractions   int64      `json:"total_fractions"`
	AccumulatedYield int64      `json:"accumulated_yield"`
	LastDistribution time.Time  `json:"last_distribution"`
	Stablecoin       AssetRef   `json:"stablecoin"`
	Manager          PubKeyHash `json:"manager"`
}

// Action names a protocol action that produces a transaction
type Action string

const (
	ActionFractionalize       Action = "fractionalize"
	ActionList                Action = "list"
	ActionBuy                 Action = "buy"
	ActionCancel              Action = "cancel"
	ActionCreateSyndicate     Action = "create_syndicate"
	ActionSyndicateDeposit    Action = "syndicate_deposit"
	ActionCreateYieldTreasury Action = "create_yield_treasury"
	ActionDepositYield        Action = "deposit_yield"
	ActionClaimYield          Action = "claim_yield"
)

// IsValidAction checks if an action is known
func IsValidAction(action Action) bool {
	switch action {
	case ActionFractionalize, ActionList, ActionBuy, ActionCancel,
		ActionCreateSyndicate, ActionSyndicateDeposit,
		ActionCreateYieldTreasury, ActionDepositYield, ActionClaimYield:
		return true
	default:
		return false
	}
}

// TransactionPreparedEvent is published whenever an unsigned transaction has been prepared
type TransactionPreparedEvent struct {
	ID             string     `json:"id"`
	Action         Action     `json:"action"`
	Actor          PubKeyHash `json:"actor"`
	Subject        string     `json:"subject"`
	SkeletonDigest string     `json:"skeleton_digest"`
	PreparedAt     time.Time  `json:"prepared_at"`
}

// decodeFixedHex decodes a hex string and checks it has exactly size bytes
func decodeFixedHex(field string, s string, size int) ([]byte, error) {
	if s == "" {
		return nil, NewMalformedRecordError(field, "missing")
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, NewMalformedRecordError(field, "invalid hex")
	}
	if len(b) != size {
		return nil, NewMalformedRecordError(field, fmt.Sprintf("expected %d bytes, got %d", size, len(b)))
	}
	return b, nil
}
