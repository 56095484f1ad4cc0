package domain

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidNetwork(t *testing.T) {
	tests := []struct {
		name     string
		network  Network
		expected bool
	}{
		{
			name:     "valid preprod",
			network:  NetworkPreprod,
			expected: true,
		},
		{
			name:     "valid preview",
			network:  NetworkPreview,
			expected: true,
		},
		{
			name:     "valid mainnet",
			network:  NetworkMainnet,
			expected: true,
		},
		{
			name:     "invalid empty network",
			network:  Network(""),
			expected: false,
		},
		{
			name:     "invalid testnet",
			network:  Network("testnet"),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsValidNetwork(tt.network))
		})
	}
}

func TestPubKeyHash_Bytes(t *testing.T) {
	tests := []struct {
		name        string
		hash        PubKeyHash
		expectedLen int
		expectError bool
	}{
		{
			name:        "valid key hash",
			hash:        PubKeyHash(strings.Repeat("ab", 28)),
			expectedLen: 28,
		},
		{
			name:        "missing",
			hash:        PubKeyHash(""),
			expectError: true,
		},
		{
			name:        "invalid hex",
			hash:        PubKeyHash(strings.Repeat("zz", 28)),
			expectError: true,
		},
		{
			name:        "too short",
			hash:        PubKeyHash(strings.Repeat("ab", 27)),
			expectError: true,
		},
		{
			name:        "document hash length",
			hash:        PubKeyHash(strings.Repeat("ab", 32)),
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := tt.hash.Bytes()
			if tt.expectError {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrMalformedRecord))
				return
			}
			require.NoError(t, err)
			assert.Len(t, b, tt.expectedLen)
		})
	}
}

func TestHash32_Bytes(t *testing.T) {
	b, err := Hash32(strings.Repeat("01", 32)).Bytes()
	require.NoError(t, err)
	assert.Len(t, b, 32)

	_, err = Hash32(strings.Repeat("01", 28)).Bytes()
	assert.ErrorIs(t, err, ErrMalformedRecord)
	assert.Contains(t, err.Error(), "document hash")
}

func TestAssetRef_Unit(t *testing.T) {
	tests := []struct {
		name     string
		asset    AssetRef
		expected string
	}{
		{
			name:     "lovelace",
			asset:    Lovelace,
			expected: LOVELACE_UNIT,
		},
		{
			name: "policy and name concatenated",
			asset: AssetRef{
				PolicyID:  PolicyID(strings.Repeat("c4", 28)),
				AssetName: AssetName("5553444d"),
			},
			expected: strings.Repeat("c4", 28) + "5553444d",
		},
		{
			name: "lowercased",
			asset: AssetRef{
				PolicyID:  PolicyID(strings.Repeat("AB", 28)),
				AssetName: AssetName("000DE140"),
			},
			expected: strings.Repeat("ab", 28) + "000de140",
		},
		{
			name: "empty asset name",
			asset: AssetRef{
				PolicyID: PolicyID(strings.Repeat("ab", 28)),
			},
			expected: strings.Repeat("ab", 28),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.asset.Unit())
			assert.Equal(t, tt.expected, tt.asset.String())
		})
	}
}

func TestAssetRef_Normalize(t *testing.T) {
	asset := AssetRef{
		PolicyID:  PolicyID(strings.Repeat("AB", 28)),
		AssetName: AssetName("000DE140"),
	}
	assert.Equal(t, AssetRef{
		PolicyID:  PolicyID(strings.Repeat("ab", 28)),
		AssetName: AssetName("000de140"),
	}, asset.Normalize())
	assert.Equal(t, Lovelace, Lovelace.Normalize())
}

func TestAssetRef_Validate(t *testing.T) {
	policy := PolicyID(strings.Repeat("ab", 28))

	tests := []struct {
		name        string
		asset       AssetRef
		expectError string
	}{
		{
			name:  "lovelace",
			asset: Lovelace,
		},
		{
			name:  "valid asset",
			asset: AssetRef{PolicyID: policy, AssetName: "5553444d"},
		},
		{
			name:  "empty name under a policy",
			asset: AssetRef{PolicyID: policy},
		},
		{
			name:  "32 byte name",
			asset: AssetRef{PolicyID: policy, AssetName: AssetName(strings.Repeat("00", 32))},
		},
		{
			name:        "name too long",
			asset:       AssetRef{PolicyID: policy, AssetName: AssetName(strings.Repeat("00", 33))},
			expectError: "exceeds 32 bytes",
		},
		{
			name:        "name not hex",
			asset:       AssetRef{PolicyID: policy, AssetName: "PROP"},
			expectError: "asset name: invalid hex",
		},
		{
			name:        "short policy",
			asset:       AssetRef{PolicyID: "abcd", AssetName: "00"},
			expectError: "policy id: expected 28 bytes, got 2",
		},
		{
			name:        "name without policy",
			asset:       AssetRef{AssetName: "5553444d"},
			expectError: "policy id: missing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.asset.Validate()
			if tt.expectError != "" {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrMalformedRecord)
				assert.Contains(t, err.Error(), tt.expectError)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestOutputRef(t *testing.T) {
	txHash := strings.Repeat("0f", 32)

	tests := []struct {
		name          string
		ref           OutputRef
		expectedStr   string
		expectedValid bool
	}{
		{
			name:          "valid reference",
			ref:           OutputRef{TxHash: txHash, Index: 1},
			expectedStr:   txHash + "#1",
			expectedValid: true,
		},
		{
			name:          "missing hash",
			ref:           OutputRef{Index: 0},
			expectedStr:   "#0",
			expectedValid: false,
		},
		{
			name:          "short hash",
			ref:           OutputRef{TxHash: "abcd", Index: 3},
			expectedStr:   "abcd#3",
			expectedValid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectedStr, tt.ref.String())
			assert.Equal(t, tt.expectedValid, tt.ref.Valid())
		})
	}
}

func TestIsValidSyndicateState(t *testing.T) {
	for _, state := range []SyndicateState{SyndicateFundraising, SyndicateLocked, SyndicateFinalized, SyndicateRefunded} {
		assert.True(t, IsValidSyndicateState(state), string(state))
	}
	assert.False(t, IsValidSyndicateState("fundraising"))
	assert.False(t, IsValidSyndicateState(""))
}

func TestIsValidAction(t *testing.T) {
	valid := []Action{
		ActionFractionalize,
		ActionList,
		ActionBuy,
		ActionCancel,
		ActionCreateSyndicate,
		ActionSyndicateDeposit,
		ActionCreateYieldTreasury,
		ActionDepositYield,
		ActionClaimYield,
	}
	for _, action := range valid {
		t.Run(string(action), func(t *testing.T) {
			assert.True(t, IsValidAction(action))
		})
	}

	assert.False(t, IsValidAction(""))
	assert.False(t, IsValidAction("refund"))
}

func TestErrorKind(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "nil",
			err:      nil,
			expected: "ok",
		},
		{
			name:     "malformed record",
			err:      NewMalformedRecordError("seller", "missing"),
			expected: "malformed_record",
		},
		{
			name:     "rule violation",
			err:      NewRuleViolation(InvariantSellerOnly, "signer is not the seller"),
			expected: "rule_violation",
		},
		{
			name:     "wrapped rule violation",
			err:      fmt.Errorf("buy: %w", NewRuleViolation(InvariantPositivePrice, "price 0")),
			expected: "rule_violation",
		},
		{
			name:     "insufficient value",
			err:      fmt.Errorf("%w: lovelace", ErrInsufficientValue),
			expected: "insufficient_value",
		},
		{
			name:     "not found",
			err:      ErrResourceNotFound,
			expected: "resource_not_found",
		},
		{
			name:     "contract unavailable",
			err:      ErrContractUnavailable,
			expected: "contract_unavailable",
		},
		{
			name:     "external service",
			err:      fmt.Errorf("%w: timeout", ErrExternalServiceFailure),
			expected: "external_service_failure",
		},
		{
			name:     "unknown",
			err:      errors.New("boom"),
			expected: "internal",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ErrorKind(tt.err))
		})
	}
}

func TestViolatedInvariant(t *testing.T) {
	err := fmt.Errorf("deposit: %w", NewRuleViolation(InvariantMaxInvestment, "amount %d above %d", 600, 500))

	invariant, ok := ViolatedInvariant(err)
	require.True(t, ok)
	assert.Equal(t, InvariantMaxInvestment, invariant)
	assert.ErrorIs(t, err, ErrRuleViolation)
	assert.Contains(t, err.Error(), "rule violation: max_investment: amount 600 above 500")

	_, ok = ViolatedInvariant(ErrInsufficientValue)
	assert.False(t, ok)
}
