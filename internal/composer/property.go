package composer

import (
	"context"
	"strconv"

	"github.com/feral-file/propfi-txbuilder/internal/domain"
	"github.com/feral-file/propfi-txbuilder/internal/ledger"
	"github.com/feral-file/propfi-txbuilder/internal/plutus"
	"github.com/feral-file/propfi-txbuilder/internal/registry"
	"github.com/feral-file/propfi-txbuilder/internal/rules"
	"github.com/feral-file/propfi-txbuilder/internal/value"
)

// FractionalizeRequest asks to split a property into fraction tokens owned by the wallet
type FractionalizeRequest struct {
	WalletAddress  string
	PropertyID     string
	Metadata       domain.PropertyMetadata
	TotalFractions int64
}

// Fractionalize mints one reference token, locked with the property datum at the
// fractionalize validator, and the full supply of user tokens to the owner.
func (c *composer) Fractionalize(ctx context.Context, req FractionalizeRequest) (*Prepared, error) {
	scripts, err := c.scripts(registry.RoleMintingPolicy, registry.RoleFractionalize)
	if err != nil {
		return nil, err
	}
	mintingPolicy, fractionalize := scripts[0], scripts[1]

	owner, err := c.caller(ctx, req.WalletAddress)
	if err != nil {
		return nil, err
	}

	result, err := rules.Fractionalize(rules.FractionalizeParams{
		PropertyID:     req.PropertyID,
		Metadata:       req.Metadata,
		TotalFractions: req.TotalFractions,
		Owner:          owner,
		MintingPolicy:  domain.PolicyID(mintingPolicy.Hash),
		Labels:         c.cfg.Labels,
	})
	if err != nil {
		return nil, err
	}

	propertyDatum, err := encodeHex(plutus.EncodePropertyDatum(result.Datum))
	if err != nil {
		return nil, err
	}
	// The CIP-68 reference datum is informational: it is returned and journaled with the
	// transaction, while the reference token output carries the property datum.
	referenceDatum, err := encodeHex(plutus.EncodeReferenceDatum(result.Property.Metadata))
	if err != nil {
		return nil, err
	}
	redeemer, err := redeemerHex(plutus.MintProperty{PropertyID: result.Property.ID})
	if err != nil {
		return nil, err
	}

	scriptAddress, err := c.scriptAddress(ctx, fractionalize)
	if err != nil {
		return nil, err
	}
	fetched, err := c.fetch(ctx, req.WalletAddress)
	if err != nil {
		return nil, err
	}

	reference := result.Property.ReferenceToken
	user := result.Property.FractionToken
	policy := toLedgerScript(mintingPolicy)

	skeleton := c.skeleton(req.WalletAddress, fetched[0], owner)
	skeleton.Mints = []ledger.Mint{
		{
			PolicyID:  reference.PolicyID,
			AssetName: reference.AssetName,
			Quantity:  strconv.FormatInt(result.ReferenceQuantity, 10),
			Script:    policy,
			Redeemer:  redeemer,
		},
		{
			PolicyID:  user.PolicyID,
			AssetName: user.AssetName,
			Quantity:  strconv.FormatInt(result.UserQuantity, 10),
			Script:    policy,
			Redeemer:  redeemer,
		},
	}
	skeleton.Outputs = []ledger.Output{
		c.userOutput(scriptAddress, value.Singleton(reference, result.ReferenceQuantity), propertyDatum),
		c.userOutput(req.WalletAddress, value.Singleton(user, result.UserQuantity), ""),
	}

	return c.submit(ctx, &Prepared{
		Action:   domain.ActionFractionalize,
		Actor:    owner,
		Subject:  result.Property.ID,
		Skeleton: skeleton,
		Datums: map[string]string{
			DatumProperty:  propertyDatum,
			DatumReference: referenceDatum,
		},
	})
}
