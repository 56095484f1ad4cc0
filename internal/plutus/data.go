// Package plutus encodes protocol records into the Plutus data values the validators
// expect as datums and redeemers, and decodes on-chain datums back into records.
package plutus

import (
	"bytes"
	"encoding/hex"
	"math/big"
)

// Data is a Plutus data value. The set of variants is closed:
// Constr, Int, Bytes, List and Map.
type Data interface {
	isData()
}

// Constr is a constructor application: a tag selecting the variant and its ordered fields
type Constr struct {
	Tag    uint64
	Fields []Data
}

// Int is an unbounded integer
type Int struct {
	Value *big.Int
}

// Bytes is a byte string
type Bytes []byte

// List is an ordered list of values
type List []Data

// Map is an ordered association list; key order is preserved on the wire
type Map []Pair

// Pair is a single map entry
type Pair struct {
	Key   Data
	Value Data
}

func (Constr) isData() {}
func (Int) isData()    {}
func (Bytes) isData()  {}
func (List) isData()   {}
func (Map) isData()    {}

// NewConstr builds a constructor value
func NewConstr(tag uint64, fields ...Data) Constr {
	if fields == nil {
		fields = []Data{}
	}
	return Constr{Tag: tag, Fields: fields}
}

// NewInt builds an integer value
func NewInt(v int64) Int {
	return Int{Value: big.NewInt(v)}
}

// Text builds a byte string from UTF-8 text
func Text(s string) Bytes {
	return Bytes(s)
}

// Equal reports whether two data values are structurally identical
func Equal(a, b Data) bool {
	switch x := a.(type) {
	case Constr:
		y, ok := b.(Constr)
		if !ok || x.Tag != y.Tag || len(x.Fields) != len(y.Fields) {
			return false
		}
		for i := range x.Fields {
			if !Equal(x.Fields[i], y.Fields[i]) {
				return false
			}
		}
		return true
	case Int:
		y, ok := b.(Int)
		return ok && x.Value.Cmp(y.Value) == 0
	case Bytes:
		y, ok := b.(Bytes)
		return ok && bytes.Equal(x, y)
	case List:
		y, ok := b.(List)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	case Map:
		y, ok := b.(Map)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i].Key, y[i].Key) || !Equal(x[i].Value, y[i].Value) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// MarshalHex encodes a data value as hex CBOR, the form carried in transaction skeletons
func MarshalHex(d Data) (string, error) {
	b, err := Marshal(d)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// UnmarshalHex decodes a hex CBOR data value
func UnmarshalHex(s string) (Data, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, malformed("datum", "invalid hex")
	}
	return Unmarshal(b)
}
