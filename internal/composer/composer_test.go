package composer_test

import (
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/propfi-txbuilder/internal/composer"
	"github.com/feral-file/propfi-txbuilder/internal/domain"
	"github.com/feral-file/propfi-txbuilder/internal/ledger"
	"github.com/feral-file/propfi-txbuilder/internal/mocks"
	"github.com/feral-file/propfi-txbuilder/internal/plutus"
	"github.com/feral-file/propfi-txbuilder/internal/registry"
	"github.com/feral-file/propfi-txbuilder/internal/rules"
)

const (
	walletAddress      = "addr_test1qwallet"
	sellerAddress      = "addr_test1qseller"
	fractionalizeAddr  = "addr_test1wfractionalize"
	marketplaceAddr    = "addr_test1wmarketplace"
	syndicateAddr      = "addr_test1wsyndicate"
	treasuryAddr       = "addr_test1wtreasury"
	compiledScript     = "59010f0100003232"
	propertyID         = "70726f7031"
	unsignedTxCBOR     = "84a400818258200000"
	minUserLovelace    = 2_000_000
	minScriptLovelace  = 5_000_000
	lovelaceUnit       = "lovelace"
	stablecoinNameUSDM = "USDM"
)

var (
	mintingHash   = strings.Repeat("a1", 28)
	fractionHash  = strings.Repeat("b2", 28)
	marketHash    = strings.Repeat("c3", 28)
	syndicateHash = strings.Repeat("d4", 28)
	treasuryHash  = strings.Repeat("e5", 28)

	walletPKH = domain.PubKeyHash(strings.Repeat("01", 28))
	sellerPKH = domain.PubKeyHash(strings.Repeat("02", 28))

	usdm = domain.AssetRef{
		PolicyID:  "c48cbb3d5e57ed56e276bc45f99ab39abe94e6cd7ac39fb402da47ad",
		AssetName: "5553444d",
	}
	fraction  = domain.AssetRef{PolicyID: domain.PolicyID(mintingHash), AssetName: domain.AssetName("000de140" + propertyID)}
	reference = domain.AssetRef{PolicyID: domain.PolicyID(mintingHash), AssetName: domain.AssetName("000643b0" + propertyID)}

	now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
)

func txHash(b string) string {
	return strings.Repeat(b, 32)
}

func script(title, hash string) registry.Script {
	return registry.Script{Title: title, Hash: hash, Code: compiledScript, PlutusVersion: "v3"}
}

func allContracts() *registry.Contracts {
	return registry.NewContracts(map[registry.Role]registry.Script{
		registry.RoleMintingPolicy: script("fractionalize.cip68_minting.mint", mintingHash),
		registry.RoleFractionalize: script("fractionalize.fractionalize.spend", fractionHash),
		registry.RoleMarketplace:   script("fractionalize.marketplace.spend", marketHash),
		registry.RoleSyndicate:     script("syndicate.syndicate_escrow.spend", syndicateHash),
		registry.RoleYieldTreasury: script("yield_distribution.yield_treasury.spend", treasuryHash),
	})
}

type fixture struct {
	ledger   *mocks.MockLedgerService
	composer composer.Composer
	built    *ledger.Skeleton
}

func newFixture(t *testing.T, contracts *registry.Contracts) *fixture {
	ctrl := gomock.NewController(t)

	loader := mocks.NewMockContractsLoader(ctrl)
	loader.
		EXPECT().
		Load("plutus.json").
		Return(contracts, nil).
		AnyTimes()

	clock := mocks.NewMockClock(ctrl)
	clock.
		EXPECT().
		Now().
		Return(now).
		AnyTimes()

	ledgerService := mocks.NewMockLedgerService(ctrl)
	c := composer.New(composer.Config{
		Network: domain.NetworkPreprod,
		Labels:  rules.DefaultLabels(),
		Stablecoins: []domain.Stablecoin{
			{Name: stablecoinNameUSDM, Asset: usdm, Decimals: 6},
		},
		MinUserLovelace:   minUserLovelace,
		MinScriptLovelace: minScriptLovelace,
		FetchWorkers:      2,
	}, registry.NewLazy(loader, "plutus.json"), ledgerService, clock)
	t.Cleanup(c.Close)

	return &fixture{ledger: ledgerService, composer: c}
}

func (f *fixture) expectCaller(pkh domain.PubKeyHash) {
	f.ledger.
		EXPECT().
		PaymentKeyHash(gomock.Any(), walletAddress).
		Return(pkh, nil)
}

func (f *fixture) expectScriptAddress(hash, address string) {
	f.ledger.
		EXPECT().
		ResolveAddress(gomock.Any(), ledger.Destination{Network: domain.NetworkPreprod, ScriptHash: hash}).
		Return(address, nil)
}

func (f *fixture) expectUTxOs(address string, utxos []ledger.UTxO) {
	f.ledger.
		EXPECT().
		FetchUnspentOutputs(gomock.Any(), address).
		Return(utxos, nil)
}

func (f *fixture) expectBuild() {
	f.ledger.
		EXPECT().
		BuildUnsignedTransaction(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, skeleton ledger.Skeleton) (ledger.UnsignedTransaction, error) {
			f.built = &skeleton
			return ledger.UnsignedTransaction{CBOR: unsignedTxCBOR, Fee: "180000"}, nil
		})
}

func walletUTxOs() []ledger.UTxO {
	return []ledger.UTxO{
		{
			Input:   domain.OutputRef{TxHash: txHash("aa"), Index: 0},
			Address: walletAddress,
			Amount: []ledger.Asset{
				{Unit: lovelaceUnit, Quantity: "50000000"},
				{Unit: usdm.Unit(), Quantity: "10000"},
			},
		},
		{
			Input:   domain.OutputRef{TxHash: txHash("aa"), Index: 1},
			Address: walletAddress,
			Amount: []ledger.Asset{
				{Unit: lovelaceUnit, Quantity: "2000000"},
				{Unit: fraction.Unit(), Quantity: "500"},
			},
		},
	}
}

func quantity(out ledger.Output, unit string) string {
	for _, a := range out.Amount {
		if a.Unit == unit {
			return a.Quantity
		}
	}
	return ""
}

func encodedHex(t *testing.T, d plutus.Data, err error) string {
	t.Helper()
	require.NoError(t, err)
	h, err := plutus.MarshalHex(d)
	require.NoError(t, err)
	return h
}

func decodeHex(t *testing.T, h string) plutus.Data {
	t.Helper()
	d, err := plutus.UnmarshalHex(h)
	require.NoError(t, err)
	return d
}

func requireViolation(t *testing.T, err error, expected domain.Invariant) {
	t.Helper()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRuleViolation)
	invariant, ok := domain.ViolatedInvariant(err)
	require.True(t, ok)
	assert.Equal(t, expected, invariant)
}

func TestComposer_Fractionalize(t *testing.T) {
	f := newFixture(t, allContracts())
	f.expectCaller(walletPKH)
	f.expectScriptAddress(fractionHash, fractionalizeAddr)
	f.expectUTxOs(walletAddress, walletUTxOs())
	f.expectBuild()

	metadata := domain.PropertyMetadata{
		Name:             "Harbor Loft",
		Description:      "Two bedroom loft",
		Image:            "ipfs://bafyimage",
		Location:         "Lisbon",
		TotalValue:       10000,
		PricePerFraction: 10,
	}

	prepared, err := f.composer.Fractionalize(context.Background(), composer.FractionalizeRequest{
		WalletAddress:  walletAddress,
		PropertyID:     propertyID,
		Metadata:       metadata,
		TotalFractions: 1000,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.ActionFractionalize, prepared.Action)
	assert.Equal(t, walletPKH, prepared.Actor)
	assert.Equal(t, propertyID, prepared.Subject)
	assert.Equal(t, unsignedTxCBOR, prepared.Tx.CBOR)
	require.NotNil(t, f.built)
	assert.Equal(t, *f.built, prepared.Skeleton)

	skeleton := prepared.Skeleton
	assert.Equal(t, walletAddress, skeleton.ChangeAddress)
	assert.Equal(t, []domain.PubKeyHash{walletPKH}, skeleton.RequiredSigners)
	assert.Len(t, skeleton.SelectFrom, 2)
	assert.Empty(t, skeleton.ScriptInputs)

	redeemerData, redeemerErr := plutus.EncodeRedeemer(plutus.MintProperty{PropertyID: propertyID})
	redeemer := encodedHex(t, redeemerData, redeemerErr)
	require.Len(t, skeleton.Mints, 2)
	assert.Equal(t, reference.AssetName, skeleton.Mints[0].AssetName)
	assert.Equal(t, "1", skeleton.Mints[0].Quantity)
	assert.Equal(t, fraction.AssetName, skeleton.Mints[1].AssetName)
	assert.Equal(t, "1000", skeleton.Mints[1].Quantity)
	for _, mint := range skeleton.Mints {
		assert.Equal(t, domain.PolicyID(mintingHash), mint.PolicyID)
		assert.Equal(t, mintingHash, mint.Script.Hash)
		assert.Equal(t, redeemer, mint.Redeemer)
	}

	require.Len(t, skeleton.Outputs, 2)
	refOut := skeleton.Outputs[0]
	assert.Equal(t, fractionalizeAddr, refOut.Address)
	assert.Equal(t, "1", quantity(refOut, reference.Unit()))
	assert.Equal(t, "2000000", quantity(refOut, lovelaceUnit))
	assert.Equal(t, prepared.Datums[composer.DatumProperty], refOut.InlineDatum)

	datum, err := plutus.DecodePropertyDatum(decodeHex(t, refOut.InlineDatum))
	require.NoError(t, err)
	assert.Equal(t, walletPKH, datum.Owner)
	assert.Equal(t, int64(10), datum.Price)
	assert.Equal(t, fraction, datum.FractionToken)
	assert.Equal(t, int64(1000), datum.TotalFractions)

	userOut := skeleton.Outputs[1]
	assert.Equal(t, walletAddress, userOut.Address)
	assert.Equal(t, "1000", quantity(userOut, fraction.Unit()))
	assert.Empty(t, userOut.InlineDatum)

	refMetadata, err := plutus.DecodeReferenceDatum(decodeHex(t, prepared.Datums[composer.DatumReference]))
	require.NoError(t, err)
	assert.Equal(t, "Harbor Loft", refMetadata.Name)
	assert.Equal(t, int64(1000), refMetadata.TotalFractions)

	// the reference datum is returned alongside the transaction but never attached to an output
	for _, out := range skeleton.Outputs {
		assert.NotEqual(t, prepared.Datums[composer.DatumReference], out.InlineDatum)
	}
}

func TestComposer_Fractionalize_RuleViolation(t *testing.T) {
	f := newFixture(t, allContracts())
	f.expectCaller(walletPKH)

	_, err := f.composer.Fractionalize(context.Background(), composer.FractionalizeRequest{
		WalletAddress:  walletAddress,
		PropertyID:     propertyID,
		Metadata:       domain.PropertyMetadata{Name: "x", Image: "y", Location: "z"},
		TotalFractions: 0,
	})
	requireViolation(t, err, domain.InvariantPositiveFractions)
}

func TestComposer_ContractUnavailable(t *testing.T) {
	contracts := registry.NewContracts(map[registry.Role]registry.Script{
		registry.RoleMintingPolicy: script("fractionalize.cip68_minting.mint", mintingHash),
		registry.RoleFractionalize: script("fractionalize.fractionalize.spend", fractionHash),
	})

	tests := []struct {
		name string
		call func(c composer.Composer) error
	}{
		{
			name: "list",
			call: func(c composer.Composer) error {
				_, err := c.ListForSale(context.Background(), composer.ListRequest{WalletAddress: walletAddress})
				return err
			},
		},
		{
			name: "buy",
			call: func(c composer.Composer) error {
				_, err := c.Buy(context.Background(), composer.BuyRequest{WalletAddress: walletAddress})
				return err
			},
		},
		{
			name: "syndicate deposit",
			call: func(c composer.Composer) error {
				_, err := c.DepositToSyndicate(context.Background(), composer.SyndicateDepositRequest{WalletAddress: walletAddress})
				return err
			},
		},
		{
			name: "claim yield",
			call: func(c composer.Composer) error {
				_, err := c.ClaimYield(context.Background(), composer.ClaimYieldRequest{WalletAddress: walletAddress})
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// no ledger expectations: nothing may be fetched before the validators are known
			f := newFixture(t, contracts)
			err := tt.call(f.composer)
			assert.ErrorIs(t, err, domain.ErrContractUnavailable)
		})
	}
}

func TestComposer_ListForSale(t *testing.T) {
	f := newFixture(t, allContracts())
	f.expectCaller(sellerPKH)
	f.expectScriptAddress(marketHash, marketplaceAddr)
	f.expectUTxOs(walletAddress, walletUTxOs())
	f.expectBuild()

	prepared, err := f.composer.ListForSale(context.Background(), composer.ListRequest{
		WalletAddress:    walletAddress,
		FractionAsset:    fraction,
		Amount:           200,
		PricePerFraction: 12,
		Stablecoin:       "usdm",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.ActionList, prepared.Action)
	assert.Empty(t, prepared.Skeleton.RequiredSigners)
	require.Len(t, prepared.Skeleton.Outputs, 1)

	out := prepared.Skeleton.Outputs[0]
	assert.Equal(t, marketplaceAddr, out.Address)
	assert.Equal(t, "200", quantity(out, fraction.Unit()))
	assert.Equal(t, "2000000", quantity(out, lovelaceUnit))

	listing, err := plutus.DecodeMarketplaceDatum(decodeHex(t, out.InlineDatum))
	require.NoError(t, err)
	assert.Equal(t, domain.Listing{
		Seller:         sellerPKH,
		Price:          2400,
		Stablecoin:     usdm,
		FractionAsset:  fraction,
		FractionAmount: 200,
	}, listing)
}

func TestComposer_ListForSale_UpperCaseAsset(t *testing.T) {
	f := newFixture(t, allContracts())
	f.expectCaller(sellerPKH)
	f.expectScriptAddress(marketHash, marketplaceAddr)
	f.expectUTxOs(walletAddress, walletUTxOs())
	f.expectBuild()

	prepared, err := f.composer.ListForSale(context.Background(), composer.ListRequest{
		WalletAddress: walletAddress,
		FractionAsset: domain.AssetRef{
			PolicyID:  domain.PolicyID(strings.ToUpper(string(fraction.PolicyID))),
			AssetName: domain.AssetName(strings.ToUpper(string(fraction.AssetName))),
		},
		Amount:           200,
		PricePerFraction: 12,
		Stablecoin:       "usdm",
	})
	require.NoError(t, err)

	require.Len(t, prepared.Skeleton.Outputs, 1)
	assert.Equal(t, "200", quantity(prepared.Skeleton.Outputs[0], fraction.Unit()))
	assert.Equal(t, fraction.Unit(), prepared.Subject)

	listing, err := plutus.DecodeMarketplaceDatum(decodeHex(t, prepared.Skeleton.Outputs[0].InlineDatum))
	require.NoError(t, err)
	assert.Equal(t, fraction, listing.FractionAsset)
}

func TestComposer_ListForSale_Failures(t *testing.T) {
	t.Run("unknown stablecoin", func(t *testing.T) {
		f := newFixture(t, allContracts())
		_, err := f.composer.ListForSale(context.Background(), composer.ListRequest{
			WalletAddress:    walletAddress,
			FractionAsset:    fraction,
			Amount:           1,
			PricePerFraction: 1,
			Stablecoin:       "DJED",
		})
		requireViolation(t, err, domain.InvariantKnownStablecoin)
	})

	t.Run("lovelace is not a fraction asset", func(t *testing.T) {
		f := newFixture(t, allContracts())
		_, err := f.composer.ListForSale(context.Background(), composer.ListRequest{
			WalletAddress:    walletAddress,
			FractionAsset:    domain.Lovelace,
			Amount:           1,
			PricePerFraction: 1,
			Stablecoin:       stablecoinNameUSDM,
		})
		assert.ErrorIs(t, err, domain.ErrMalformedRecord)
	})

	t.Run("wallet does not hold the fractions", func(t *testing.T) {
		f := newFixture(t, allContracts())
		f.expectCaller(sellerPKH)
		f.expectScriptAddress(marketHash, marketplaceAddr)
		f.expectUTxOs(walletAddress, walletUTxOs())

		_, err := f.composer.ListForSale(context.Background(), composer.ListRequest{
			WalletAddress:    walletAddress,
			FractionAsset:    fraction,
			Amount:           501,
			PricePerFraction: 1,
			Stablecoin:       stablecoinNameUSDM,
		})
		assert.ErrorIs(t, err, domain.ErrInsufficientValue)
	})

	t.Run("missing wallet address", func(t *testing.T) {
		f := newFixture(t, allContracts())
		_, err := f.composer.ListForSale(context.Background(), composer.ListRequest{
			FractionAsset:    fraction,
			Amount:           1,
			PricePerFraction: 1,
			Stablecoin:       stablecoinNameUSDM,
		})
		assert.ErrorIs(t, err, domain.ErrMalformedRecord)
	})
}

func listingUTxO(t *testing.T, ref domain.OutputRef) ledger.UTxO {
	datumData, datumErr := plutus.EncodeMarketplaceDatum(domain.Listing{
		Seller:         sellerPKH,
		Price:          2400,
		Stablecoin:     usdm,
		FractionAsset:  fraction,
		FractionAmount: 200,
	})
	datum := encodedHex(t, datumData, datumErr)
	return ledger.UTxO{
		Input:   ref,
		Address: marketplaceAddr,
		Amount: []ledger.Asset{
			{Unit: lovelaceUnit, Quantity: "2000000"},
			{Unit: fraction.Unit(), Quantity: "200"},
		},
		InlineDatum: datum,
	}
}

func TestComposer_Buy(t *testing.T) {
	ref := domain.OutputRef{TxHash: txHash("bb"), Index: 0}

	f := newFixture(t, allContracts())
	f.expectCaller(walletPKH)
	f.expectScriptAddress(marketHash, marketplaceAddr)
	f.expectUTxOs(marketplaceAddr, []ledger.UTxO{listingUTxO(t, ref)})
	f.expectUTxOs(walletAddress, walletUTxOs())
	f.ledger.
		EXPECT().
		ResolveAddress(gomock.Any(), ledger.Destination{Network: domain.NetworkPreprod, PubKeyHash: sellerPKH}).
		Return(sellerAddress, nil)
	f.expectBuild()

	prepared, err := f.composer.Buy(context.Background(), composer.BuyRequest{
		WalletAddress: walletAddress,
		Listing:       ref,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.ActionBuy, prepared.Action)
	assert.Equal(t, ref.String(), prepared.Subject)

	skeleton := prepared.Skeleton
	require.Len(t, skeleton.ScriptInputs, 1)
	assert.Equal(t, ref, skeleton.ScriptInputs[0].OutRef)
	assert.Equal(t, marketHash, skeleton.ScriptInputs[0].Script.Hash)
	assert.Equal(t, "d87980", skeleton.ScriptInputs[0].Redeemer)
	assert.True(t, skeleton.ScriptInputs[0].InlineDatumPresent)

	require.Len(t, skeleton.Outputs, 2)
	assert.Equal(t, sellerAddress, skeleton.Outputs[0].Address)
	assert.Equal(t, "2400", quantity(skeleton.Outputs[0], usdm.Unit()))
	assert.Equal(t, walletAddress, skeleton.Outputs[1].Address)
	assert.Equal(t, "200", quantity(skeleton.Outputs[1], fraction.Unit()))
}

func TestComposer_Buy_ListingNotFound(t *testing.T) {
	f := newFixture(t, allContracts())
	f.expectCaller(walletPKH)
	f.expectScriptAddress(marketHash, marketplaceAddr)
	f.expectUTxOs(marketplaceAddr, []ledger.UTxO{listingUTxO(t, domain.OutputRef{TxHash: txHash("bb"), Index: 1})})
	f.expectUTxOs(walletAddress, walletUTxOs())

	_, err := f.composer.Buy(context.Background(), composer.BuyRequest{
		WalletAddress: walletAddress,
		Listing:       domain.OutputRef{TxHash: txHash("bb"), Index: 0},
	})
	assert.ErrorIs(t, err, domain.ErrResourceNotFound)
}

func TestComposer_Buy_ListingWithoutDatum(t *testing.T) {
	ref := domain.OutputRef{TxHash: txHash("bb"), Index: 0}
	utxo := listingUTxO(t, ref)
	utxo.InlineDatum = ""

	f := newFixture(t, allContracts())
	f.expectCaller(walletPKH)
	f.expectScriptAddress(marketHash, marketplaceAddr)
	f.expectUTxOs(marketplaceAddr, []ledger.UTxO{utxo})
	f.expectUTxOs(walletAddress, walletUTxOs())

	_, err := f.composer.Buy(context.Background(), composer.BuyRequest{WalletAddress: walletAddress, Listing: ref})
	assert.ErrorIs(t, err, domain.ErrMalformedRecord)
}

func TestComposer_Buy_InvalidReference(t *testing.T) {
	f := newFixture(t, allContracts())
	_, err := f.composer.Buy(context.Background(), composer.BuyRequest{
		WalletAddress: walletAddress,
		Listing:       domain.OutputRef{TxHash: "abc"},
	})
	assert.ErrorIs(t, err, domain.ErrMalformedRecord)
}

func TestComposer_Buy_LedgerFailure(t *testing.T) {
	ref := domain.OutputRef{TxHash: txHash("bb"), Index: 0}

	f := newFixture(t, allContracts())
	f.expectCaller(walletPKH)
	f.expectScriptAddress(marketHash, marketplaceAddr)
	f.ledger.
		EXPECT().
		FetchUnspentOutputs(gomock.Any(), marketplaceAddr).
		Return(nil, domain.ErrExternalServiceFailure)
	f.ledger.
		EXPECT().
		FetchUnspentOutputs(gomock.Any(), walletAddress).
		Return(walletUTxOs(), nil).
		MaxTimes(1)

	_, err := f.composer.Buy(context.Background(), composer.BuyRequest{WalletAddress: walletAddress, Listing: ref})
	assert.ErrorIs(t, err, domain.ErrExternalServiceFailure)
}

func TestComposer_CancelListing(t *testing.T) {
	ref := domain.OutputRef{TxHash: txHash("bb"), Index: 0}

	t.Run("seller withdraws", func(t *testing.T) {
		f := newFixture(t, allContracts())
		f.expectCaller(sellerPKH)
		f.expectScriptAddress(marketHash, marketplaceAddr)
		f.expectUTxOs(marketplaceAddr, []ledger.UTxO{listingUTxO(t, ref)})
		f.expectUTxOs(walletAddress, walletUTxOs())
		f.expectBuild()

		prepared, err := f.composer.CancelListing(context.Background(), composer.CancelRequest{
			WalletAddress: walletAddress,
			Listing:       ref,
		})
		require.NoError(t, err)

		skeleton := prepared.Skeleton
		assert.Equal(t, []domain.PubKeyHash{sellerPKH}, skeleton.RequiredSigners)
		require.Len(t, skeleton.ScriptInputs, 1)
		assert.Equal(t, "d87a80", skeleton.ScriptInputs[0].Redeemer)
		require.Len(t, skeleton.Outputs, 1)
		assert.Equal(t, walletAddress, skeleton.Outputs[0].Address)
		assert.Equal(t, "200", quantity(skeleton.Outputs[0], fraction.Unit()))
		assert.Equal(t, "2000000", quantity(skeleton.Outputs[0], lovelaceUnit))
	})

	t.Run("only the seller", func(t *testing.T) {
		f := newFixture(t, allContracts())
		f.expectCaller(walletPKH)
		f.expectScriptAddress(marketHash, marketplaceAddr)
		f.expectUTxOs(marketplaceAddr, []ledger.UTxO{listingUTxO(t, ref)})
		f.expectUTxOs(walletAddress, walletUTxOs())

		_, err := f.composer.CancelListing(context.Background(), composer.CancelRequest{
			WalletAddress: walletAddress,
			Listing:       ref,
		})
		requireViolation(t, err, domain.InvariantSellerOnly)
	})
}

func TestComposer_CreateSyndicate(t *testing.T) {
	f := newFixture(t, allContracts())
	f.expectCaller(walletPKH)
	f.expectScriptAddress(syndicateHash, syndicateAddr)
	f.expectUTxOs(walletAddress, walletUTxOs())
	f.expectBuild()

	deadline := now.Add(30 * 24 * time.Hour)
	prepared, err := f.composer.CreateSyndicate(context.Background(), composer.CreateSyndicateRequest{
		WalletAddress: walletAddress,
		Target:        100000,
		Deadline:      deadline,
		Seller:        sellerPKH,
		Stablecoin:    stablecoinNameUSDM,
		FractionAsset: fraction,
		GovernanceDoc: domain.Hash32(strings.Repeat("cd", 32)),
		Limits:        domain.InvestmentLimits{MinInvestment: 100, MaxInvestment: 20000, MaxPercentage: 25},
	})
	require.NoError(t, err)

	skeleton := prepared.Skeleton
	assert.Equal(t, []domain.PubKeyHash{walletPKH}, skeleton.RequiredSigners)
	require.Len(t, skeleton.Outputs, 1)
	out := skeleton.Outputs[0]
	assert.Equal(t, syndicateAddr, out.Address)
	assert.Equal(t, []ledger.Asset{{Unit: lovelaceUnit, Quantity: "5000000"}}, out.Amount)

	escrow, err := plutus.DecodeSyndicateDatum(decodeHex(t, out.InlineDatum))
	require.NoError(t, err)
	assert.Equal(t, domain.SyndicateFundraising, escrow.State)
	assert.Equal(t, int64(0), escrow.CurrentRaised)
	assert.Empty(t, escrow.Investors)
	assert.True(t, deadline.Equal(escrow.Deadline))
	assert.Equal(t, sellerPKH, escrow.Seller)
	assert.Equal(t, usdm, escrow.Stablecoin)
}

func syndicateUTxO(t *testing.T, ref domain.OutputRef, escrow domain.SyndicateEscrow) ledger.UTxO {
	datumData, datumErr := plutus.EncodeSyndicateDatum(escrow)
	return ledger.UTxO{
		Input:   ref,
		Address: syndicateAddr,
		Amount: []ledger.Asset{
			{Unit: lovelaceUnit, Quantity: "5000000"},
			{Unit: usdm.Unit(), Quantity: "1500"},
		},
		InlineDatum: encodedHex(t, datumData, datumErr),
	}
}

func fundraising(deadline time.Time) domain.SyndicateEscrow {
	return domain.SyndicateEscrow{
		State:         domain.SyndicateFundraising,
		Target:        10000,
		CurrentRaised: 1500,
		Deadline:      deadline,
		Investors: []domain.InvestorRecord{
			{Investor: sellerPKH, Amount: 1500},
		},
		Seller:        sellerPKH,
		Stablecoin:    usdm,
		FractionAsset: fraction,
		GovernanceDoc: domain.Hash32(strings.Repeat("cd", 32)),
		Limits:        domain.InvestmentLimits{MinInvestment: 100, MaxInvestment: 5000, MaxPercentage: 50},
	}
}

func TestComposer_DepositToSyndicate(t *testing.T) {
	ref := domain.OutputRef{TxHash: txHash("cc"), Index: 2}
	deadline := now.Add(48 * time.Hour)

	f := newFixture(t, allContracts())
	f.expectCaller(walletPKH)
	f.expectScriptAddress(syndicateHash, syndicateAddr)
	f.expectUTxOs(syndicateAddr, []ledger.UTxO{syndicateUTxO(t, ref, fundraising(deadline))})
	f.expectUTxOs(walletAddress, walletUTxOs())
	f.expectBuild()

	prepared, err := f.composer.DepositToSyndicate(context.Background(), composer.SyndicateDepositRequest{
		WalletAddress: walletAddress,
		Syndicate:     ref,
		Amount:        2500,
	})
	require.NoError(t, err)

	skeleton := prepared.Skeleton
	assert.Equal(t, []domain.PubKeyHash{walletPKH}, skeleton.RequiredSigners)
	require.NotNil(t, skeleton.ValidTo)
	assert.True(t, deadline.Equal(*skeleton.ValidTo))

	require.Len(t, skeleton.ScriptInputs, 1)
	redeemerData, redeemerErr := plutus.EncodeRedeemer(plutus.SyndicateDeposit{Amount: 2500})
	redeemer := encodedHex(t, redeemerData, redeemerErr)
	assert.Equal(t, redeemer, skeleton.ScriptInputs[0].Redeemer)

	require.Len(t, skeleton.Outputs, 1)
	out := skeleton.Outputs[0]
	assert.Equal(t, syndicateAddr, out.Address)
	assert.Equal(t, "4000", quantity(out, usdm.Unit()))
	assert.Equal(t, "5000000", quantity(out, lovelaceUnit))

	escrow, err := plutus.DecodeSyndicateDatum(decodeHex(t, out.InlineDatum))
	require.NoError(t, err)
	assert.Equal(t, int64(4000), escrow.CurrentRaised)
	assert.Equal(t, []domain.InvestorRecord{
		{Investor: sellerPKH, Amount: 1500},
		{Investor: walletPKH, Amount: 2500},
	}, escrow.Investors)
	assert.Equal(t, domain.SyndicateFundraising, escrow.State)
}

func TestComposer_DepositToSyndicate_Violations(t *testing.T) {
	ref := domain.OutputRef{TxHash: txHash("cc"), Index: 2}

	tests := []struct {
		name     string
		escrow   domain.SyndicateEscrow
		amount   int64
		expected domain.Invariant
	}{
		{
			name:     "deadline passed",
			escrow:   fundraising(now.Add(-time.Minute)),
			amount:   500,
			expected: domain.InvariantBeforeDeadline,
		},
		{
			name:     "above per-investor cap",
			escrow:   fundraising(now.Add(time.Hour)),
			amount:   5001,
			expected: domain.InvariantMaxInvestment,
		},
		{
			name: "not fundraising",
			escrow: func() domain.SyndicateEscrow {
				e := fundraising(now.Add(time.Hour))
				e.State = domain.SyndicateLocked
				return e
			}(),
			amount:   500,
			expected: domain.InvariantFundraisingState,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, allContracts())
			f.expectCaller(walletPKH)
			f.expectScriptAddress(syndicateHash, syndicateAddr)
			f.expectUTxOs(syndicateAddr, []ledger.UTxO{syndicateUTxO(t, ref, tt.escrow)})
			f.expectUTxOs(walletAddress, walletUTxOs())

			_, err := f.composer.DepositToSyndicate(context.Background(), composer.SyndicateDepositRequest{
				WalletAddress: walletAddress,
				Syndicate:     ref,
				Amount:        tt.amount,
			})
			requireViolation(t, err, tt.expected)
		})
	}
}

func TestComposer_CreateYieldTreasury(t *testing.T) {
	f := newFixture(t, allContracts())
	f.expectCaller(walletPKH)
	f.expectScriptAddress(treasuryHash, treasuryAddr)
	f.expectUTxOs(walletAddress, walletUTxOs())
	f.expectBuild()

	prepared, err := f.composer.CreateYieldTreasury(context.Background(), composer.CreateTreasuryRequest{
		WalletAddress:  walletAddress,
		PropertyToken:  fraction,
		TotalFractions: 1000,
		Stablecoin:     stablecoinNameUSDM,
	})
	require.NoError(t, err)

	require.Len(t, prepared.Skeleton.Outputs, 1)
	out := prepared.Skeleton.Outputs[0]
	assert.Equal(t, treasuryAddr, out.Address)
	assert.Equal(t, "5000000", quantity(out, lovelaceUnit))

	treasury, err := plutus.DecodeYieldTreasuryDatum(decodeHex(t, out.InlineDatum))
	require.NoError(t, err)
	assert.Equal(t, domain.YieldTreasury{
		PropertyToken:    fraction,
		TotalFractions:   1000,
		AccumulatedYield: 0,
		LastDistribution: now,
		Stablecoin:       usdm,
		Manager:          walletPKH,
	}, treasury)
}

func treasuryUTxO(t *testing.T, ref domain.OutputRef, accumulated int64) ledger.UTxO {
	datumData, datumErr := plutus.EncodeYieldTreasuryDatum(domain.YieldTreasury{
		PropertyToken:    fraction,
		TotalFractions:   1000,
		AccumulatedYield: accumulated,
		LastDistribution: now.Add(-24 * time.Hour),
		Stablecoin:       usdm,
		Manager:          sellerPKH,
	})
	datum := encodedHex(t, datumData, datumErr)
	amount := []ledger.Asset{{Unit: lovelaceUnit, Quantity: "5000000"}}
	if accumulated > 0 {
		amount = append(amount, ledger.Asset{Unit: usdm.Unit(), Quantity: strconv.FormatInt(accumulated, 10)})
	}
	return ledger.UTxO{Input: ref, Address: treasuryAddr, Amount: amount, InlineDatum: datum}
}

func TestComposer_DepositYield(t *testing.T) {
	ref := domain.OutputRef{TxHash: txHash("dd"), Index: 0}

	t.Run("manager deposits", func(t *testing.T) {
		f := newFixture(t, allContracts())
		f.expectCaller(sellerPKH)
		f.expectScriptAddress(treasuryHash, treasuryAddr)
		f.expectUTxOs(treasuryAddr, []ledger.UTxO{treasuryUTxO(t, ref, 999)})
		f.expectUTxOs(walletAddress, walletUTxOs())
		f.expectBuild()

		prepared, err := f.composer.DepositYield(context.Background(), composer.DepositYieldRequest{
			WalletAddress: walletAddress,
			Treasury:      ref,
			Amount:        1001,
		})
		require.NoError(t, err)

		skeleton := prepared.Skeleton
		assert.Equal(t, []domain.PubKeyHash{sellerPKH}, skeleton.RequiredSigners)
		require.Len(t, skeleton.ScriptInputs, 1)
		redeemerData, redeemerErr := plutus.EncodeRedeemer(plutus.DepositYield{Amount: 1001})
		redeemer := encodedHex(t, redeemerData, redeemerErr)
		assert.Equal(t, redeemer, skeleton.ScriptInputs[0].Redeemer)

		require.Len(t, skeleton.Outputs, 1)
		assert.Equal(t, "2000", quantity(skeleton.Outputs[0], usdm.Unit()))

		treasury, err := plutus.DecodeYieldTreasuryDatum(decodeHex(t, skeleton.Outputs[0].InlineDatum))
		require.NoError(t, err)
		assert.Equal(t, int64(2000), treasury.AccumulatedYield)
		assert.True(t, now.Equal(treasury.LastDistribution))
	})

	t.Run("only the manager", func(t *testing.T) {
		f := newFixture(t, allContracts())
		f.expectCaller(walletPKH)
		f.expectScriptAddress(treasuryHash, treasuryAddr)
		f.expectUTxOs(treasuryAddr, []ledger.UTxO{treasuryUTxO(t, ref, 999)})
		f.expectUTxOs(walletAddress, walletUTxOs())

		_, err := f.composer.DepositYield(context.Background(), composer.DepositYieldRequest{
			WalletAddress: walletAddress,
			Treasury:      ref,
			Amount:        10,
		})
		requireViolation(t, err, domain.InvariantManagerOnly)
	})
}

func TestComposer_ClaimYield(t *testing.T) {
	ref := domain.OutputRef{TxHash: txHash("dd"), Index: 0}
	tokenRef := domain.OutputRef{TxHash: txHash("ee"), Index: 3}
	holdings := []ledger.UTxO{
		{
			Input:   domain.OutputRef{TxHash: txHash("ee"), Index: 0},
			Address: walletAddress,
			Amount:  []ledger.Asset{{Unit: lovelaceUnit, Quantity: "20000000"}},
		},
		{
			Input:   tokenRef,
			Address: walletAddress,
			Amount: []ledger.Asset{
				{Unit: lovelaceUnit, Quantity: "2000000"},
				{Unit: fraction.Unit(), Quantity: "333"},
			},
		},
	}

	t.Run("holder claims the floor share", func(t *testing.T) {
		f := newFixture(t, allContracts())
		f.expectCaller(walletPKH)
		f.expectScriptAddress(treasuryHash, treasuryAddr)
		f.expectUTxOs(treasuryAddr, []ledger.UTxO{treasuryUTxO(t, ref, 999)})
		f.expectUTxOs(walletAddress, holdings)
		f.expectBuild()

		prepared, err := f.composer.ClaimYield(context.Background(), composer.ClaimYieldRequest{
			WalletAddress:  walletAddress,
			Treasury:       ref,
			FractionAmount: 333,
		})
		require.NoError(t, err)

		skeleton := prepared.Skeleton
		assert.Equal(t, []domain.PubKeyHash{walletPKH}, skeleton.RequiredSigners)
		assert.Equal(t, []domain.OutputRef{tokenRef}, skeleton.Inputs)

		require.Len(t, skeleton.ScriptInputs, 1)
		redeemerData, redeemerErr := plutus.EncodeRedeemer(plutus.ClaimYield{Holder: walletPKH, FractionAmount: 333})
		redeemer := encodedHex(t, redeemerData, redeemerErr)
		assert.Equal(t, redeemer, skeleton.ScriptInputs[0].Redeemer)

		require.Len(t, skeleton.Outputs, 2)
		assert.Equal(t, treasuryAddr, skeleton.Outputs[0].Address)
		assert.Equal(t, "667", quantity(skeleton.Outputs[0], usdm.Unit()))
		assert.Equal(t, walletAddress, skeleton.Outputs[1].Address)
		assert.Equal(t, "332", quantity(skeleton.Outputs[1], usdm.Unit()))
		assert.Equal(t, "2000000", quantity(skeleton.Outputs[1], lovelaceUnit))

		treasury, err := plutus.DecodeYieldTreasuryDatum(decodeHex(t, skeleton.Outputs[0].InlineDatum))
		require.NoError(t, err)
		assert.Equal(t, int64(667), treasury.AccumulatedYield)
	})

	t.Run("share below one unit pays minimum coin only", func(t *testing.T) {
		f := newFixture(t, allContracts())
		f.expectCaller(walletPKH)
		f.expectScriptAddress(treasuryHash, treasuryAddr)
		f.expectUTxOs(treasuryAddr, []ledger.UTxO{treasuryUTxO(t, ref, 999)})
		f.expectUTxOs(walletAddress, holdings)
		f.expectBuild()

		prepared, err := f.composer.ClaimYield(context.Background(), composer.ClaimYieldRequest{
			WalletAddress:  walletAddress,
			Treasury:       ref,
			FractionAmount: 1,
		})
		require.NoError(t, err)

		skeleton := prepared.Skeleton
		require.Len(t, skeleton.Outputs, 2)
		assert.Equal(t, "999", quantity(skeleton.Outputs[0], usdm.Unit()))
		assert.Equal(t, walletAddress, skeleton.Outputs[1].Address)
		assert.Empty(t, quantity(skeleton.Outputs[1], usdm.Unit()))
		assert.Equal(t, "2000000", quantity(skeleton.Outputs[1], lovelaceUnit))

		treasury, err := plutus.DecodeYieldTreasuryDatum(decodeHex(t, skeleton.Outputs[0].InlineDatum))
		require.NoError(t, err)
		assert.Equal(t, int64(999), treasury.AccumulatedYield)
	})

	t.Run("claim beyond holdings", func(t *testing.T) {
		f := newFixture(t, allContracts())
		f.expectCaller(walletPKH)
		f.expectScriptAddress(treasuryHash, treasuryAddr)
		f.expectUTxOs(treasuryAddr, []ledger.UTxO{treasuryUTxO(t, ref, 999)})
		f.expectUTxOs(walletAddress, holdings)

		_, err := f.composer.ClaimYield(context.Background(), composer.ClaimYieldRequest{
			WalletAddress:  walletAddress,
			Treasury:       ref,
			FractionAmount: 334,
		})
		requireViolation(t, err, domain.InvariantHoldsFractions)
	})

	t.Run("treasury not found", func(t *testing.T) {
		f := newFixture(t, allContracts())
		f.expectCaller(walletPKH)
		f.expectScriptAddress(treasuryHash, treasuryAddr)
		f.expectUTxOs(treasuryAddr, []ledger.UTxO{})
		f.expectUTxOs(walletAddress, holdings)

		_, err := f.composer.ClaimYield(context.Background(), composer.ClaimYieldRequest{
			WalletAddress:  walletAddress,
			Treasury:       ref,
			FractionAmount: 1,
		})
		assert.ErrorIs(t, err, domain.ErrResourceNotFound)
	})
}
