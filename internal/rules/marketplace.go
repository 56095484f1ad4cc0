package rules

import (
	"github.com/feral-file/propfi-txbuilder/internal/domain"
	"github.com/feral-file/propfi-txbuilder/internal/value"
)

// ListParams describes fractions offered for sale
type ListParams struct {
	Seller           domain.PubKeyHash
	FractionAsset    domain.AssetRef
	Stablecoin       domain.AssetRef
	Amount           int64
	PricePerFraction int64
}

// List creates a listing whose total price is fixed at listing time
func List(p ListParams) (domain.Listing, error) {
	if p.Amount <= 0 {
		return domain.Listing{}, domain.NewRuleViolation(domain.InvariantPositiveAmount, "listed amount must be positive, got %d", p.Amount)
	}
	if p.PricePerFraction <= 0 {
		return domain.Listing{}, domain.NewRuleViolation(domain.InvariantPositivePrice, "price per fraction must be positive, got %d", p.PricePerFraction)
	}
	if err := requireKeyHash("seller", p.Seller); err != nil {
		return domain.Listing{}, err
	}
	total, ok := mulInt64(p.PricePerFraction, p.Amount)
	if !ok {
		return domain.Listing{}, domain.NewRuleViolation(domain.InvariantNumericRange, "total price %d x %d overflows", p.PricePerFraction, p.Amount)
	}

	return domain.Listing{
		Seller:         p.Seller,
		Price:          total,
		Stablecoin:     p.Stablecoin,
		FractionAsset:  p.FractionAsset,
		FractionAmount: p.Amount,
	}, nil
}

// Purchase is the settlement of a listing: the seller is paid the stored price and the
// buyer receives the stored fraction amount
type Purchase struct {
	Seller       domain.PubKeyHash
	SellerPayout value.Value
	BuyerReceipt value.Value
}

// Buy settles a listing in full. Nothing is recomputed from current prices.
func Buy(listing domain.Listing) (Purchase, error) {
	if listing.FractionAmount <= 0 {
		return Purchase{}, domain.NewRuleViolation(domain.InvariantPositiveAmount, "listing holds no fractions")
	}
	if listing.Price <= 0 {
		return Purchase{}, domain.NewRuleViolation(domain.InvariantPositivePrice, "listing has no price")
	}

	return Purchase{
		Seller:       listing.Seller,
		SellerPayout: value.Singleton(listing.Stablecoin, listing.Price),
		BuyerReceipt: value.Singleton(listing.FractionAsset, listing.FractionAmount),
	}, nil
}

// Cancel authorizes the seller to withdraw a listing and returns the fractions released
func Cancel(listing domain.Listing, caller domain.PubKeyHash) (value.Value, error) {
	if caller != listing.Seller {
		return value.Value{}, domain.NewRuleViolation(domain.InvariantSellerOnly, "only the seller %s can cancel the listing", listing.Seller)
	}
	if listing.FractionAmount <= 0 {
		return value.Value{}, domain.NewRuleViolation(domain.InvariantPositiveAmount, "listing holds no fractions")
	}
	return value.Singleton(listing.FractionAsset, listing.FractionAmount), nil
}
