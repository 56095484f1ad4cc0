package rules

import (
	"encoding/hex"
	"strings"

	"github.com/feral-file/propfi-txbuilder/internal/domain"
)

// FractionalizeParams describes a property being split into fraction tokens
type FractionalizeParams struct {
	// PropertyID is the hex encoded identifier shared by the token pair
	PropertyID     string
	Metadata       domain.PropertyMetadata
	TotalFractions int64
	Owner          domain.PubKeyHash
	MintingPolicy  domain.PolicyID
	Labels         Labels
}

// Fractionalization is the outcome of fractionalizing a property
type Fractionalization struct {
	Property domain.Property
	// Datum is locked with the reference token at the fractionalize validator
	Datum domain.PropertyDatum
	// ReferenceQuantity is always 1
	ReferenceQuantity int64
	// UserQuantity equals the total fraction count and is never re-minted
	UserQuantity int64
}

// Fractionalize derives the CIP-68 token pair and the initial property datum
func Fractionalize(p FractionalizeParams) (Fractionalization, error) {
	if p.TotalFractions <= 0 {
		return Fractionalization{}, domain.NewRuleViolation(domain.InvariantPositiveFractions, "total fractions must be positive, got %d", p.TotalFractions)
	}
	if p.Metadata.PricePerFraction < 0 || p.Metadata.TotalValue < 0 {
		return Fractionalization{}, domain.NewRuleViolation(domain.InvariantNumericRange, "property value and price must not be negative")
	}
	if err := requireKeyHash("owner", p.Owner); err != nil {
		return Fractionalization{}, err
	}
	if p.PropertyID == "" {
		return Fractionalization{}, domain.NewMalformedRecordError("property id", "missing")
	}
	propertyID := strings.ToLower(p.PropertyID)
	if _, err := hex.DecodeString(propertyID); err != nil {
		return Fractionalization{}, domain.NewMalformedRecordError("property id", "invalid hex")
	}

	reference := domain.AssetRef{PolicyID: p.MintingPolicy, AssetName: domain.AssetName(p.Labels.Reference + propertyID)}
	user := domain.AssetRef{PolicyID: p.MintingPolicy, AssetName: domain.AssetName(p.Labels.User + propertyID)}
	for _, token := range []domain.AssetRef{reference, user} {
		if len(token.AssetName)/2 > domain.MAX_ASSET_NAME_LENGTH {
			return Fractionalization{}, domain.NewRuleViolation(domain.InvariantTokenNameLength,
				"token name %s exceeds %d bytes", token.AssetName, domain.MAX_ASSET_NAME_LENGTH)
		}
		if err := token.Validate(); err != nil {
			return Fractionalization{}, err
		}
	}

	metadata := p.Metadata
	metadata.TotalFractions = p.TotalFractions

	return Fractionalization{
		Property: domain.Property{
			ID:             propertyID,
			Metadata:       metadata,
			Owner:          p.Owner,
			ReferenceToken: reference,
			FractionToken:  user,
		},
		Datum: domain.PropertyDatum{
			Owner:          p.Owner,
			Price:          metadata.PricePerFraction,
			FractionToken:  user,
			TotalFractions: p.TotalFractions,
			Metadata:       metadata,
		},
		ReferenceQuantity: 1,
		UserQuantity:      p.TotalFractions,
	}, nil
}
