// Package ledger defines the contract of the external ledger interaction service: it
// resolves addresses, lists unspent outputs and turns a transaction skeleton into a
// balanced, unsigned transaction. Coin selection, fees and signing live behind it.
package ledger

import (
	"context"
	"math/big"
	"time"

	"github.com/feral-file/propfi-txbuilder/internal/domain"
	"github.com/feral-file/propfi-txbuilder/internal/value"
)

// Service is the ledger interaction service consumed by the composer
//
//go:generate mockgen -source=ledger.go -destination=../mocks/ledger.go -package=mocks -mock_names=Service=MockLedgerService
type Service interface {
	// FetchUnspentOutputs lists the unspent outputs currently held at an address
	FetchUnspentOutputs(ctx context.Context, address string) ([]UTxO, error)

	// BuildUnsignedTransaction selects inputs, balances change, computes fees and returns
	// the serialized unsigned transaction
	BuildUnsignedTransaction(ctx context.Context, skeleton Skeleton) (UnsignedTransaction, error)

	// ResolveAddress encodes a script or key hash as an address on the network
	ResolveAddress(ctx context.Context, destination Destination) (string, error)

	// PaymentKeyHash extracts the payment key hash of a wallet address
	PaymentKeyHash(ctx context.Context, address string) (domain.PubKeyHash, error)
}

// Asset is a quantity of one unit, quantities are decimal strings
type Asset struct {
	Unit     string `json:"unit"`
	Quantity string `json:"quantity"`
}

// UTxO is an unspent output as reported by the ledger service
type UTxO struct {
	Input   domain.OutputRef `json:"input"`
	Address string           `json:"address"`
	Amount  []Asset          `json:"amount"`
	// InlineDatum is the hex CBOR inline datum, if any
	InlineDatum string `json:"inline_datum,omitempty"`
}

// Value converts the output amount into a Value
func (u UTxO) Value() (value.Value, error) {
	return ValueOf(u.Amount)
}

// ValueOf converts a wire amount into a Value
func ValueOf(amount []Asset) (value.Value, error) {
	v := value.Empty()
	for _, a := range amount {
		asset, err := value.ParseUnit(a.Unit)
		if err != nil {
			return value.Value{}, err
		}
		qty, ok := new(big.Int).SetString(a.Quantity, 10)
		if !ok || qty.Sign() < 0 {
			return value.Value{}, domain.NewMalformedRecordError("quantity", "invalid quantity "+a.Quantity+" of "+a.Unit)
		}
		v = value.Add(v, value.SingletonBig(asset, qty))
	}
	return v, nil
}

// AmountOf converts a Value into its wire amount, base coin first
func AmountOf(v value.Value) []Asset {
	entries := v.Entries()
	amount := make([]Asset, 0, len(entries))
	for _, e := range entries {
		amount = append(amount, Asset{Unit: e.Asset.Unit(), Quantity: e.Quantity.String()})
	}
	return amount
}

// Find locates an output by reference
func Find(utxos []UTxO, ref domain.OutputRef) (UTxO, bool) {
	for _, u := range utxos {
		if u.Input == ref {
			return u, true
		}
	}
	return UTxO{}, false
}

// Destination names what an address should pay to: a script hash or a key hash
type Destination struct {
	Network    domain.Network    `json:"network"`
	ScriptHash string            `json:"script_hash,omitempty"`
	PubKeyHash domain.PubKeyHash `json:"pub_key_hash,omitempty"`
}

// Script is a validator attached to an input or mint
type Script struct {
	Hash    string `json:"hash"`
	Code    string `json:"code"`
	Version string `json:"version,omitempty"`
}

// ScriptInput is a script-locked output consumed with a redeemer
type ScriptInput struct {
	OutRef domain.OutputRef `json:"out_ref"`
	Script Script           `json:"script"`
	// Redeemer is hex CBOR
	Redeemer string `json:"redeemer"`
	// InlineDatumPresent tells the builder the datum is inlined in the consumed output
	InlineDatumPresent bool `json:"inline_datum_present"`
}

// Mint is a minted (positive) or burned (negative) quantity under a minting policy
type Mint struct {
	PolicyID  domain.PolicyID  `json:"policy_id"`
	AssetName domain.AssetName `json:"asset_name"`
	Quantity  string           `json:"quantity"`
	Script    Script           `json:"script"`
	// Redeemer is hex CBOR
	Redeemer string `json:"redeemer"`
}

// Output is a transaction output
type Output struct {
	Address string  `json:"address"`
	Amount  []Asset `json:"amount"`
	// InlineDatum is hex CBOR, empty for outputs without a datum
	InlineDatum string `json:"inline_datum,omitempty"`
}

// Skeleton is the ordered description of a transaction handed to the ledger service
type Skeleton struct {
	Network       domain.Network `json:"network"`
	ChangeAddress string         `json:"change_address"`
	// SelectFrom are the wallet outputs the builder may pick from for balancing and fees
	SelectFrom   []UTxO        `json:"select_from"`
	ScriptInputs []ScriptInput `json:"script_inputs"`
	// Inputs are plain inputs that must be spent, e.g. fraction tokens proving a holding
	Inputs          []domain.OutputRef  `json:"inputs"`
	Mints           []Mint              `json:"mints"`
	Outputs         []Output            `json:"outputs"`
	RequiredSigners []domain.PubKeyHash `json:"required_signers"`
	// ValidTo is the upper bound of the validity interval
	ValidTo *time.Time `json:"valid_to,omitempty"`
}

// UnsignedTransaction is the serialized transaction returned by the ledger service
type UnsignedTransaction struct {
	// CBOR is the hex encoded unsigned transaction
	CBOR   string `json:"cbor"`
	TxHash string `json:"tx_hash,omitempty"`
	Fee    string `json:"fee,omitempty"`
}
