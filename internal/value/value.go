package value

import (
	"fmt"
	"math/big"
	"sort"
	"strings"

	"github.com/feral-file/propfi-txbuilder/internal/domain"
)

// Value is an immutable multi-asset amount: base coin plus native tokens.
// Quantities are never negative; zero quantities are not stored. Assets are
// keyed by their normalized (lowercase hex) reference.
type Value struct {
	quantities map[domain.AssetRef]*big.Int
}

// Entry is a single asset quantity of a value
type Entry struct {
	Asset    domain.AssetRef
	Quantity *big.Int
}

// Empty returns a value holding nothing
func Empty() Value {
	return Value{}
}

// Singleton returns a value holding qty of a single asset
func Singleton(asset domain.AssetRef, qty int64) Value {
	return SingletonBig(asset, big.NewInt(qty))
}

// SingletonBig returns a value holding qty of a single asset.
// Negative quantities are a modeling error and panic.
func SingletonBig(asset domain.AssetRef, qty *big.Int) Value {
	if qty.Sign() < 0 {
		panic(fmt.Sprintf("value: negative quantity %s for %s", qty, asset.Unit()))
	}
	if qty.Sign() == 0 {
		return Empty()
	}
	return Value{quantities: map[domain.AssetRef]*big.Int{asset.Normalize(): new(big.Int).Set(qty)}}
}

// Lovelace returns a value holding only base coin
func Lovelace(qty int64) Value {
	return Singleton(domain.Lovelace, qty)
}

// UnitOf returns the on-chain unit identifier of an asset
func UnitOf(asset domain.AssetRef) string {
	return asset.Unit()
}

// ParseUnit splits an on-chain unit identifier back into an asset reference
func ParseUnit(unit string) (domain.AssetRef, error) {
	if unit == domain.LOVELACE_UNIT || unit == "" {
		return domain.Lovelace, nil
	}
	policyHexLen := domain.POLICY_ID_LENGTH * 2
	if len(unit) < policyHexLen {
		return domain.AssetRef{}, domain.NewMalformedRecordError("unit", fmt.Sprintf("%q is shorter than a policy id", unit))
	}
	unit = strings.ToLower(unit)
	asset := domain.AssetRef{
		PolicyID:  domain.PolicyID(unit[:policyHexLen]),
		AssetName: domain.AssetName(unit[policyHexLen:]),
	}
	if err := asset.Validate(); err != nil {
		return domain.AssetRef{}, err
	}
	return asset, nil
}

// Quantity returns the quantity held of an asset (zero if absent)
func (v Value) Quantity(asset domain.AssetRef) *big.Int {
	if q, ok := v.quantities[asset.Normalize()]; ok {
		return new(big.Int).Set(q)
	}
	return new(big.Int)
}

// IsZero reports whether the value holds nothing
func (v Value) IsZero() bool {
	return len(v.quantities) == 0
}

// Add returns a + b
func Add(a, b Value) Value {
	out := make(map[domain.AssetRef]*big.Int, len(a.quantities)+len(b.quantities))
	for asset, q := range a.quantities {
		out[asset] = new(big.Int).Set(q)
	}
	for asset, q := range b.quantities {
		if cur, ok := out[asset]; ok {
			cur.Add(cur, q)
			continue
		}
		out[asset] = new(big.Int).Set(q)
	}
	return Value{quantities: out}
}

// Subtract returns a - b, failing with ErrInsufficientValue if any quantity would go negative
func Subtract(a, b Value) (Value, error) {
	out := make(map[domain.AssetRef]*big.Int, len(a.quantities))
	for asset, q := range a.quantities {
		out[asset] = new(big.Int).Set(q)
	}
	for asset, q := range b.quantities {
		cur, ok := out[asset]
		if !ok {
			cur = new(big.Int)
		}
		if cur.Cmp(q) < 0 {
			return Value{}, fmt.Errorf("%w: have %s of %s, need %s", domain.ErrInsufficientValue, cur, asset.Unit(), q)
		}
		cur.Sub(cur, q)
		if cur.Sign() == 0 {
			delete(out, asset)
			continue
		}
		out[asset] = cur
	}
	return Value{quantities: out}, nil
}

// Entries returns the quantities ordered by unit with the base coin first
func (v Value) Entries() []Entry {
	entries := make([]Entry, 0, len(v.quantities))
	for asset, q := range v.quantities {
		entries = append(entries, Entry{Asset: asset, Quantity: new(big.Int).Set(q)})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Asset.IsLovelace() != entries[j].Asset.IsLovelace() {
			return entries[i].Asset.IsLovelace()
		}
		return entries[i].Asset.Unit() < entries[j].Asset.Unit()
	})
	return entries
}

// Equal reports whether two values hold exactly the same quantities
func Equal(a, b Value) bool {
	if len(a.quantities) != len(b.quantities) {
		return false
	}
	for asset, q := range a.quantities {
		other, ok := b.quantities[asset]
		if !ok || other.Cmp(q) != 0 {
			return false
		}
	}
	return true
}

// String renders the value as unit:quantity pairs
func (v Value) String() string {
	parts := make([]string, 0, len(v.quantities))
	for _, e := range v.Entries() {
		parts = append(parts, fmt.Sprintf("%s:%s", e.Asset.Unit(), e.Quantity))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
