package plutus_test

import (
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/propfi-txbuilder/internal/domain"
	"github.com/feral-file/propfi-txbuilder/internal/plutus"
)

var (
	ownerPKH  = domain.PubKeyHash("1d3c7dbb2e8e4e2fa4fd0e2c3f2d8a0c34ac9b8d8c1e30d54b1e7f01")
	sellerPKH = domain.PubKeyHash("5a0d19b9c37e3b1d2bc56f9e7b91a3df4b0d8ea6ed10c8e66fb1a2c4")
	usdm      = domain.AssetRef{
		PolicyID:  "c48cbb3d5e57ed56e276bc45f99ab39abe94e6cd7ac39fb402da47ad",
		AssetName: "0014df105553444d",
	}
	fraction = domain.AssetRef{
		PolicyID:  "0123456789abcdef0123456789abcdef0123456789abcdef01234567",
		AssetName: "000de14070726f70",
	}
	governance = domain.Hash32(strings.Repeat("ab", 32))
)

// roundTrip pushes a datum through CBOR and back
func roundTrip(t *testing.T, d plutus.Data) plutus.Data {
	t.Helper()
	encoded, err := plutus.Marshal(d)
	require.NoError(t, err)
	decoded, err := plutus.Unmarshal(encoded)
	require.NoError(t, err)
	return decoded
}

func TestReferenceDatum(t *testing.T) {
	metadata := domain.PropertyMetadata{
		Name:             "Harbor Loft",
		Description:      "Two bedroom loft",
		Image:            "ipfs://bafyimage",
		Location:         "Lisbon",
		TotalValue:       10000,
		TotalFractions:   1000,
		PricePerFraction: 10,
	}

	t.Run("round trip", func(t *testing.T) {
		d, err := plutus.EncodeReferenceDatum(metadata)
		require.NoError(t, err)

		c, ok := d.(plutus.Constr)
		require.True(t, ok)
		assert.Equal(t, uint64(0), c.Tag)
		require.Len(t, c.Fields, 2)
		assert.Len(t, c.Fields[0].(plutus.Map), 7)
		assert.True(t, plutus.Equal(plutus.NewInt(1), c.Fields[1]))

		decoded, err := plutus.DecodeReferenceDatum(roundTrip(t, d))
		require.NoError(t, err)
		assert.Equal(t, metadata, decoded)
	})

	t.Run("legal document is appended last", func(t *testing.T) {
		withDoc := metadata
		withDoc.LegalDocumentCID = "ipfs://bafylegal"

		d, err := plutus.EncodeReferenceDatum(withDoc)
		require.NoError(t, err)
		entries := d.(plutus.Constr).Fields[0].(plutus.Map)
		require.Len(t, entries, 8)
		assert.True(t, plutus.Equal(plutus.Text("legal_document"), entries[7].Key))

		decoded, err := plutus.DecodeReferenceDatum(roundTrip(t, d))
		require.NoError(t, err)
		assert.Equal(t, withDoc, decoded)
	})

	t.Run("missing image", func(t *testing.T) {
		noImage := metadata
		noImage.Image = ""
		_, err := plutus.EncodeReferenceDatum(noImage)
		assert.ErrorIs(t, err, domain.ErrMalformedRecord)
	})
}

func TestPropertyDatum(t *testing.T) {
	datum := domain.PropertyDatum{
		Owner:          ownerPKH,
		Price:          10,
		FractionToken:  fraction,
		TotalFractions: 1000,
		Metadata: domain.PropertyMetadata{
			Name:           "Harbor Loft",
			Description:    "Two bedroom loft",
			Location:       "Lisbon",
			TotalValue:     10000,
			TotalFractions: 1000,
		},
	}

	t.Run("round trip", func(t *testing.T) {
		d, err := plutus.EncodePropertyDatum(datum)
		require.NoError(t, err)

		decoded, err := plutus.DecodePropertyDatum(roundTrip(t, d))
		require.NoError(t, err)
		assert.Equal(t, datum, decoded)
	})

	t.Run("field order", func(t *testing.T) {
		d, err := plutus.EncodePropertyDatum(datum)
		require.NoError(t, err)
		fields := d.(plutus.Constr).Fields
		require.Len(t, fields, 5)
		assert.IsType(t, plutus.Bytes{}, fields[0])
		assert.True(t, plutus.Equal(plutus.NewInt(10), fields[1]))
		assert.IsType(t, plutus.Constr{}, fields[2])
		assert.True(t, plutus.Equal(plutus.NewInt(1000), fields[3]))
		assert.Len(t, fields[4].(plutus.Constr).Fields, 5)
	})

	t.Run("owner with wrong length", func(t *testing.T) {
		bad := datum
		bad.Owner = "abcd"
		_, err := plutus.EncodePropertyDatum(bad)
		assert.ErrorIs(t, err, domain.ErrMalformedRecord)
	})

	t.Run("missing fraction token", func(t *testing.T) {
		bad := datum
		bad.FractionToken = domain.AssetRef{}
		_, err := plutus.EncodePropertyDatum(bad)
		assert.ErrorIs(t, err, domain.ErrMalformedRecord)
	})
}

func TestMarketplaceDatum(t *testing.T) {
	listing := domain.Listing{
		Seller:         sellerPKH,
		Price:          2400,
		Stablecoin:     usdm,
		FractionAsset:  fraction,
		FractionAmount: 200,
	}

	d, err := plutus.EncodeMarketplaceDatum(listing)
	require.NoError(t, err)

	decoded, err := plutus.DecodeMarketplaceDatum(roundTrip(t, d))
	require.NoError(t, err)
	assert.Equal(t, listing, decoded)

	t.Run("asset name longer than 32 bytes", func(t *testing.T) {
		bad := listing
		bad.FractionAsset.AssetName = domain.AssetName(strings.Repeat("00", 33))
		_, err := plutus.EncodeMarketplaceDatum(bad)
		assert.ErrorIs(t, err, domain.ErrMalformedRecord)
	})

	t.Run("wrong constructor", func(t *testing.T) {
		_, err := plutus.DecodeMarketplaceDatum(plutus.NewConstr(1))
		assert.ErrorIs(t, err, domain.ErrMalformedRecord)
	})

	t.Run("price outside int64", func(t *testing.T) {
		huge, _ := new(big.Int).SetString("99999999999999999999", 10)
		fields := append([]plutus.Data{}, d.(plutus.Constr).Fields...)
		fields[1] = plutus.Int{Value: huge}
		_, err := plutus.DecodeMarketplaceDatum(plutus.NewConstr(0, fields...))
		assert.ErrorIs(t, err, domain.ErrMalformedRecord)
	})
}

func TestSyndicateDatum(t *testing.T) {
	escrow := domain.SyndicateEscrow{
		State:         domain.SyndicateFundraising,
		Target:        100000,
		CurrentRaised: 7000,
		Deadline:      time.UnixMilli(1767225600000).UTC(),
		Investors: []domain.InvestorRecord{
			{Investor: ownerPKH, Amount: 5000},
			{Investor: holderPKH, Amount: 2000},
		},
		Seller:        sellerPKH,
		Stablecoin:    usdm,
		FractionAsset: fraction,
		GovernanceDoc: governance,
		Limits: domain.InvestmentLimits{
			MinInvestment: 1000,
			MaxInvestment: 50000,
			MaxPercentage: 50,
		},
	}

	t.Run("round trip every state", func(t *testing.T) {
		for i, state := range []domain.SyndicateState{
			domain.SyndicateFundraising,
			domain.SyndicateLocked,
			domain.SyndicateFinalized,
			domain.SyndicateRefunded,
		} {
			s := escrow
			s.State = state

			d, err := plutus.EncodeSyndicateDatum(s)
			require.NoError(t, err)
			stateField := d.(plutus.Constr).Fields[0].(plutus.Constr)
			assert.Equal(t, uint64(i), stateField.Tag)
			assert.Empty(t, stateField.Fields)

			decoded, err := plutus.DecodeSyndicateDatum(roundTrip(t, d))
			require.NoError(t, err)
			assert.Equal(t, s, decoded)
		}
	})

	t.Run("investors are pairs", func(t *testing.T) {
		d, err := plutus.EncodeSyndicateDatum(escrow)
		require.NoError(t, err)
		investors := d.(plutus.Constr).Fields[4].(plutus.List)
		require.Len(t, investors, 2)
		first := investors[0].(plutus.List)
		require.Len(t, first, 2)
		assert.True(t, plutus.Equal(plutus.NewInt(5000), first[1]))
	})

	t.Run("deadline in milliseconds", func(t *testing.T) {
		d, err := plutus.EncodeSyndicateDatum(escrow)
		require.NoError(t, err)
		assert.True(t, plutus.Equal(plutus.NewInt(1767225600000), d.(plutus.Constr).Fields[3]))
	})

	t.Run("fresh syndicate has no investors", func(t *testing.T) {
		fresh := escrow
		fresh.CurrentRaised = 0
		fresh.Investors = []domain.InvestorRecord{}

		d, err := plutus.EncodeSyndicateDatum(fresh)
		require.NoError(t, err)
		decoded, err := plutus.DecodeSyndicateDatum(roundTrip(t, d))
		require.NoError(t, err)
		assert.Equal(t, fresh, decoded)
	})

	t.Run("unknown state", func(t *testing.T) {
		bad := escrow
		bad.State = "Paused"
		_, err := plutus.EncodeSyndicateDatum(bad)
		assert.ErrorIs(t, err, domain.ErrMalformedRecord)
	})

	t.Run("short governance hash", func(t *testing.T) {
		bad := escrow
		bad.GovernanceDoc = "abcd"
		_, err := plutus.EncodeSyndicateDatum(bad)
		assert.ErrorIs(t, err, domain.ErrMalformedRecord)
	})

	t.Run("unknown state constructor on chain", func(t *testing.T) {
		d, err := plutus.EncodeSyndicateDatum(escrow)
		require.NoError(t, err)
		fields := append([]plutus.Data{}, d.(plutus.Constr).Fields...)
		fields[0] = plutus.NewConstr(4)
		_, err = plutus.DecodeSyndicateDatum(plutus.NewConstr(0, fields...))
		assert.ErrorIs(t, err, domain.ErrMalformedRecord)
	})
}

func TestYieldTreasuryDatum(t *testing.T) {
	treasury := domain.YieldTreasury{
		PropertyToken:    fraction,
		TotalFractions:   1000,
		AccumulatedYield: 999,
		LastDistribution: time.UnixMilli(1760000000123).UTC(),
		Stablecoin:       usdm,
		Manager:          ownerPKH,
	}

	d, err := plutus.EncodeYieldTreasuryDatum(treasury)
	require.NoError(t, err)
	require.Len(t, d.(plutus.Constr).Fields, 6)

	decoded, err := plutus.DecodeYieldTreasuryDatum(roundTrip(t, d))
	require.NoError(t, err)
	assert.Equal(t, treasury, decoded)

	t.Run("missing manager", func(t *testing.T) {
		bad := treasury
		bad.Manager = ""
		_, err := plutus.EncodeYieldTreasuryDatum(bad)
		assert.ErrorIs(t, err, domain.ErrMalformedRecord)
	})

	t.Run("wrong arity", func(t *testing.T) {
		_, err := plutus.DecodeYieldTreasuryDatum(plutus.NewConstr(0, plutus.NewInt(1)))
		assert.ErrorIs(t, err, domain.ErrMalformedRecord)
	})
}
