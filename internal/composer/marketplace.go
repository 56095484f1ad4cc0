package composer

import (
	"context"

	"github.com/feral-file/propfi-txbuilder/internal/domain"
	"github.com/feral-file/propfi-txbuilder/internal/ledger"
	"github.com/feral-file/propfi-txbuilder/internal/plutus"
	"github.com/feral-file/propfi-txbuilder/internal/registry"
	"github.com/feral-file/propfi-txbuilder/internal/rules"
	"github.com/feral-file/propfi-txbuilder/internal/value"
)

// ListRequest offers fractions held by the wallet for sale
type ListRequest struct {
	WalletAddress    string
	FractionAsset    domain.AssetRef
	Amount           int64
	PricePerFraction int64
	// Stablecoin is the name of an accepted stablecoin, e.g. USDM
	Stablecoin string
}

// BuyRequest settles a listing in full, paid from the wallet
type BuyRequest struct {
	WalletAddress string
	Listing       domain.OutputRef
}

// CancelRequest withdraws a listing owned by the wallet
type CancelRequest struct {
	WalletAddress string
	Listing       domain.OutputRef
}

func (c *composer) ListForSale(ctx context.Context, req ListRequest) (*Prepared, error) {
	scripts, err := c.scripts(registry.RoleMarketplace)
	if err != nil {
		return nil, err
	}
	marketplace := scripts[0]

	req.FractionAsset = req.FractionAsset.Normalize()
	if err := requireToken("fraction asset", req.FractionAsset); err != nil {
		return nil, err
	}
	stablecoin, err := rules.ResolveStablecoin(c.cfg.Stablecoins, req.Stablecoin)
	if err != nil {
		return nil, err
	}

	seller, err := c.caller(ctx, req.WalletAddress)
	if err != nil {
		return nil, err
	}

	listing, err := rules.List(rules.ListParams{
		Seller:           seller,
		FractionAsset:    req.FractionAsset,
		Stablecoin:       stablecoin.Asset,
		Amount:           req.Amount,
		PricePerFraction: req.PricePerFraction,
	})
	if err != nil {
		return nil, err
	}
	datum, err := encodeHex(plutus.EncodeMarketplaceDatum(listing))
	if err != nil {
		return nil, err
	}

	scriptAddress, err := c.scriptAddress(ctx, marketplace)
	if err != nil {
		return nil, err
	}
	fetched, err := c.fetch(ctx, req.WalletAddress)
	if err != nil {
		return nil, err
	}
	wallet := fetched[0]

	locked := value.Singleton(listing.FractionAsset, listing.FractionAmount)
	if err := requireWalletHolds(wallet, locked); err != nil {
		return nil, err
	}

	skeleton := c.skeleton(req.WalletAddress, wallet)
	skeleton.Outputs = []ledger.Output{
		c.userOutput(scriptAddress, locked, datum),
	}

	return c.submit(ctx, &Prepared{
		Action:   domain.ActionList,
		Actor:    seller,
		Subject:  listing.FractionAsset.Unit(),
		Skeleton: skeleton,
		Datums:   map[string]string{DatumListing: datum},
	})
}

// Buy pays the seller the price stored in the listing and sends the listed fractions to
// the buyer. Partial fills are not supported.
func (c *composer) Buy(ctx context.Context, req BuyRequest) (*Prepared, error) {
	scripts, err := c.scripts(registry.RoleMarketplace)
	if err != nil {
		return nil, err
	}
	marketplace := scripts[0]

	if err := requireOutputRef("listing", req.Listing); err != nil {
		return nil, err
	}
	buyer, err := c.caller(ctx, req.WalletAddress)
	if err != nil {
		return nil, err
	}
	scriptAddress, err := c.scriptAddress(ctx, marketplace)
	if err != nil {
		return nil, err
	}

	fetched, err := c.fetch(ctx, scriptAddress, req.WalletAddress)
	if err != nil {
		return nil, err
	}
	utxo, err := locate(fetched[0], req.Listing, "listing")
	if err != nil {
		return nil, err
	}
	listing, err := decodeListing(utxo)
	if err != nil {
		return nil, err
	}

	purchase, err := rules.Buy(listing)
	if err != nil {
		return nil, err
	}
	if _, err := requireHolding(utxo, purchase.BuyerReceipt); err != nil {
		return nil, err
	}
	redeemer, err := redeemerHex(plutus.Buy{})
	if err != nil {
		return nil, err
	}
	sellerAddress, err := c.keyAddress(ctx, purchase.Seller)
	if err != nil {
		return nil, err
	}

	skeleton := c.skeleton(req.WalletAddress, fetched[1])
	skeleton.ScriptInputs = []ledger.ScriptInput{spend(utxo, marketplace, redeemer)}
	skeleton.Outputs = []ledger.Output{
		c.userOutput(sellerAddress, purchase.SellerPayout, ""),
		c.userOutput(req.WalletAddress, purchase.BuyerReceipt, ""),
	}

	return c.submit(ctx, &Prepared{
		Action:   domain.ActionBuy,
		Actor:    buyer,
		Subject:  req.Listing.String(),
		Skeleton: skeleton,
		Datums:   map[string]string{},
	})
}

// CancelListing returns everything locked in the listing to the seller, who must sign
func (c *composer) CancelListing(ctx context.Context, req CancelRequest) (*Prepared, error) {
	scripts, err := c.scripts(registry.RoleMarketplace)
	if err != nil {
		return nil, err
	}
	marketplace := scripts[0]

	if err := requireOutputRef("listing", req.Listing); err != nil {
		return nil, err
	}
	caller, err := c.caller(ctx, req.WalletAddress)
	if err != nil {
		return nil, err
	}
	scriptAddress, err := c.scriptAddress(ctx, marketplace)
	if err != nil {
		return nil, err
	}

	fetched, err := c.fetch(ctx, scriptAddress, req.WalletAddress)
	if err != nil {
		return nil, err
	}
	utxo, err := locate(fetched[0], req.Listing, "listing")
	if err != nil {
		return nil, err
	}
	listing, err := decodeListing(utxo)
	if err != nil {
		return nil, err
	}

	released, err := rules.Cancel(listing, caller)
	if err != nil {
		return nil, err
	}
	locked, err := requireHolding(utxo, released)
	if err != nil {
		return nil, err
	}
	redeemer, err := redeemerHex(plutus.Cancel{})
	if err != nil {
		return nil, err
	}

	skeleton := c.skeleton(req.WalletAddress, fetched[1], caller)
	skeleton.ScriptInputs = []ledger.ScriptInput{spend(utxo, marketplace, redeemer)}
	skeleton.Outputs = []ledger.Output{
		c.userOutput(req.WalletAddress, locked, ""),
	}

	return c.submit(ctx, &Prepared{
		Action:   domain.ActionCancel,
		Actor:    caller,
		Subject:  req.Listing.String(),
		Skeleton: skeleton,
		Datums:   map[string]string{},
	})
}

func decodeListing(utxo ledger.UTxO) (domain.Listing, error) {
	d, err := inlineDatum(utxo)
	if err != nil {
		return domain.Listing{}, err
	}
	return plutus.DecodeMarketplaceDatum(d)
}

// requireToken checks that an asset is a well-formed native token, not the base coin
func requireToken(field string, asset domain.AssetRef) error {
	if asset.IsLovelace() {
		return domain.NewMalformedRecordError(field, "must be a native token")
	}
	return asset.Validate()
}

// requireWalletHolds checks the wallet outputs together hold at least v
func requireWalletHolds(wallet []ledger.UTxO, v value.Value) error {
	total := value.Empty()
	for _, u := range wallet {
		held, err := u.Value()
		if err != nil {
			return err
		}
		total = value.Add(total, held)
	}
	_, err := value.Subtract(total, v)
	return err
}
