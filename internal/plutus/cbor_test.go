package plutus_test

import (
	"bytes"
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/propfi-txbuilder/internal/domain"
	"github.com/feral-file/propfi-txbuilder/internal/plutus"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

func TestMarshal(t *testing.T) {
	twoPow64, _ := new(big.Int).SetString("18446744073709551616", 10)
	maxUint64, _ := new(big.Int).SetString("18446744073709551615", 10)

	tests := []struct {
		name     string
		data     plutus.Data
		expected string
	}{
		{
			name:     "empty constructor 0",
			data:     plutus.NewConstr(0),
			expected: "d87980",
		},
		{
			name:     "constructor 1",
			data:     plutus.NewConstr(1),
			expected: "d87a80",
		},
		{
			name:     "constructor 6 is the last compact tag",
			data:     plutus.NewConstr(6),
			expected: "d87f80",
		},
		{
			name:     "constructor 7 uses the extended range",
			data:     plutus.NewConstr(7),
			expected: "d9050080",
		},
		{
			name:     "constructor 127 is the last extended tag",
			data:     plutus.NewConstr(127),
			expected: "d9057880",
		},
		{
			name:     "constructor 200 uses the general form",
			data:     plutus.NewConstr(200),
			expected: "d8668218c880",
		},
		{
			name:     "constructor with fields is an indefinite list",
			data:     plutus.NewConstr(0, plutus.NewInt(5)),
			expected: "d8799f05ff",
		},
		{
			name:     "small positive integer",
			data:     plutus.NewInt(1),
			expected: "01",
		},
		{
			name:     "negative integer",
			data:     plutus.NewInt(-1),
			expected: "20",
		},
		{
			name:     "integer 2400",
			data:     plutus.NewInt(2400),
			expected: "190960",
		},
		{
			name:     "largest unsigned integer stays a plain integer",
			data:     plutus.Int{Value: maxUint64},
			expected: "1bffffffffffffffff",
		},
		{
			name:     "integer beyond 64 bits is a bignum",
			data:     plutus.Int{Value: twoPow64},
			expected: "c249010000000000000000",
		},
		{
			name:     "empty list",
			data:     plutus.List{},
			expected: "80",
		},
		{
			name:     "non-empty list",
			data:     plutus.List{plutus.NewInt(1), plutus.NewInt(2)},
			expected: "9f0102ff",
		},
		{
			name:     "short bytes",
			data:     plutus.Text("a"),
			expected: "4161",
		},
		{
			name:     "map",
			data:     plutus.Map{{Key: plutus.Text("a"), Value: plutus.NewInt(1)}},
			expected: "a1416101",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded, err := plutus.Marshal(tt.data)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, hex.EncodeToString(encoded))

			decoded, err := plutus.Unmarshal(encoded)
			require.NoError(t, err)
			assert.True(t, plutus.Equal(tt.data, decoded), "decoded %#v", decoded)
		})
	}
}

func TestMarshal_LongBytesAreChunked(t *testing.T) {
	long := bytes.Repeat([]byte{0xab}, 65)

	encoded, err := plutus.Marshal(plutus.Bytes(long))
	require.NoError(t, err)

	expected := append([]byte{0x5f, 0x58, 0x40}, bytes.Repeat([]byte{0xab}, 64)...)
	expected = append(expected, 0x41, 0xab, 0xff)
	assert.Equal(t, expected, encoded)

	decoded, err := plutus.Unmarshal(encoded)
	require.NoError(t, err)
	assert.Equal(t, plutus.Bytes(long), decoded)
}

func TestUnmarshal_AcceptsDefiniteLengthForms(t *testing.T) {
	// Constr0[1, [2]] with definite-length arrays
	decoded, err := plutus.Unmarshal(mustHex(t, "d87982018102"))
	require.NoError(t, err)
	assert.True(t, plutus.Equal(plutus.NewConstr(0, plutus.NewInt(1), plutus.List{plutus.NewInt(2)}), decoded))

	// indefinite-length map
	decoded, err = plutus.Unmarshal(mustHex(t, "bf416101ff"))
	require.NoError(t, err)
	assert.True(t, plutus.Equal(plutus.Map{{Key: plutus.Text("a"), Value: plutus.NewInt(1)}}, decoded))

	// general constructor form with a small index
	decoded, err = plutus.Unmarshal(mustHex(t, "d866820080"))
	require.NoError(t, err)
	assert.True(t, plutus.Equal(plutus.NewConstr(0), decoded))
}

func TestUnmarshal_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty input", input: ""},
		{name: "text string", input: "6161"},
		{name: "unknown tag", input: "d9010080"},
		{name: "constructor fields not a list", input: "d87901"},
		{name: "trailing bytes", input: "0101"},
		{name: "truncated list", input: "9f01"},
		{name: "general constructor with one item", input: "d8668100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := plutus.Unmarshal(mustHex(t, tt.input))
			assert.ErrorIs(t, err, domain.ErrMalformedRecord)
		})
	}
}

func TestMarshalHex(t *testing.T) {
	s, err := plutus.MarshalHex(plutus.NewConstr(1))
	require.NoError(t, err)
	assert.Equal(t, "d87a80", s)

	d, err := plutus.UnmarshalHex(s)
	require.NoError(t, err)
	assert.True(t, plutus.Equal(plutus.NewConstr(1), d))

	_, err = plutus.UnmarshalHex("zz")
	assert.ErrorIs(t, err, domain.ErrMalformedRecord)
}

func TestMarshal_MissingInteger(t *testing.T) {
	_, err := plutus.Marshal(plutus.Int{})
	assert.ErrorIs(t, err, domain.ErrMalformedRecord)
}
