package composer

import (
	"context"
	"time"

	"github.com/feral-file/propfi-txbuilder/internal/domain"
	"github.com/feral-file/propfi-txbuilder/internal/ledger"
	"github.com/feral-file/propfi-txbuilder/internal/plutus"
	"github.com/feral-file/propfi-txbuilder/internal/registry"
	"github.com/feral-file/propfi-txbuilder/internal/rules"
	"github.com/feral-file/propfi-txbuilder/internal/value"
)

// CreateSyndicateRequest opens a fundraising escrow managed by the wallet
type CreateSyndicateRequest struct {
	WalletAddress string
	Target        int64
	Deadline      time.Time
	// Seller is paid once the syndicate is finalized
	Seller        domain.PubKeyHash
	Stablecoin    string
	FractionAsset domain.AssetRef
	GovernanceDoc domain.Hash32
	Limits        domain.InvestmentLimits
}

// SyndicateDepositRequest contributes stablecoin from the wallet to a syndicate
type SyndicateDepositRequest struct {
	WalletAddress string
	Syndicate     domain.OutputRef
	Amount        int64
}

func (c *composer) CreateSyndicate(ctx context.Context, req CreateSyndicateRequest) (*Prepared, error) {
	scripts, err := c.scripts(registry.RoleSyndicate)
	if err != nil {
		return nil, err
	}
	syndicate := scripts[0]

	req.FractionAsset = req.FractionAsset.Normalize()
	if err := requireToken("fraction asset", req.FractionAsset); err != nil {
		return nil, err
	}
	stablecoin, err := rules.ResolveStablecoin(c.cfg.Stablecoins, req.Stablecoin)
	if err != nil {
		return nil, err
	}
	manager, err := c.caller(ctx, req.WalletAddress)
	if err != nil {
		return nil, err
	}

	escrow, err := rules.CreateSyndicate(rules.SyndicateTerms{
		Target:        req.Target,
		Deadline:      req.Deadline,
		Seller:        req.Seller,
		Stablecoin:    stablecoin.Asset,
		FractionAsset: req.FractionAsset,
		GovernanceDoc: req.GovernanceDoc,
		Limits:        req.Limits,
	}, c.clock.Now())
	if err != nil {
		return nil, err
	}
	datum, err := encodeHex(plutus.EncodeSyndicateDatum(escrow))
	if err != nil {
		return nil, err
	}

	scriptAddress, err := c.scriptAddress(ctx, syndicate)
	if err != nil {
		return nil, err
	}
	fetched, err := c.fetch(ctx, req.WalletAddress)
	if err != nil {
		return nil, err
	}

	skeleton := c.skeleton(req.WalletAddress, fetched[0], manager)
	skeleton.Outputs = []ledger.Output{
		c.scriptOutput(scriptAddress, value.Empty(), datum),
	}

	return c.submit(ctx, &Prepared{
		Action:   domain.ActionCreateSyndicate,
		Actor:    manager,
		Subject:  escrow.FractionAsset.Unit(),
		Skeleton: skeleton,
		Datums:   map[string]string{DatumSyndicate: datum},
	})
}

// DepositToSyndicate spends the escrow with a deposit redeemer and recreates it holding the
// contribution. The transaction is only valid up to the fundraising deadline.
func (c *composer) DepositToSyndicate(ctx context.Context, req SyndicateDepositRequest) (*Prepared, error) {
	scripts, err := c.scripts(registry.RoleSyndicate)
	if err != nil {
		return nil, err
	}
	syndicate := scripts[0]

	if err := requireOutputRef("syndicate", req.Syndicate); err != nil {
		return nil, err
	}
	investor, err := c.caller(ctx, req.WalletAddress)
	if err != nil {
		return nil, err
	}
	scriptAddress, err := c.scriptAddress(ctx, syndicate)
	if err != nil {
		return nil, err
	}

	fetched, err := c.fetch(ctx, scriptAddress, req.WalletAddress)
	if err != nil {
		return nil, err
	}
	utxo, err := locate(fetched[0], req.Syndicate, "syndicate")
	if err != nil {
		return nil, err
	}
	d, err := inlineDatum(utxo)
	if err != nil {
		return nil, err
	}
	escrow, err := plutus.DecodeSyndicateDatum(d)
	if err != nil {
		return nil, err
	}

	next, err := rules.DepositToSyndicate(escrow, investor, req.Amount, c.clock.Now())
	if err != nil {
		return nil, err
	}
	held, err := requireHolding(utxo, value.Singleton(escrow.Stablecoin, escrow.CurrentRaised))
	if err != nil {
		return nil, err
	}
	contribution := value.Singleton(escrow.Stablecoin, req.Amount)
	if err := requireWalletHolds(fetched[1], contribution); err != nil {
		return nil, err
	}

	datum, err := encodeHex(plutus.EncodeSyndicateDatum(next))
	if err != nil {
		return nil, err
	}
	redeemer, err := redeemerHex(plutus.SyndicateDeposit{Amount: req.Amount})
	if err != nil {
		return nil, err
	}

	deadline := next.Deadline
	skeleton := c.skeleton(req.WalletAddress, fetched[1], investor)
	skeleton.ScriptInputs = []ledger.ScriptInput{spend(utxo, syndicate, redeemer)}
	skeleton.Outputs = []ledger.Output{
		c.scriptOutput(scriptAddress, value.Add(held, contribution), datum),
	}
	skeleton.ValidTo = &deadline

	return c.submit(ctx, &Prepared{
		Action:   domain.ActionSyndicateDeposit,
		Actor:    investor,
		Subject:  req.Syndicate.String(),
		Skeleton: skeleton,
		Datums:   map[string]string{DatumSyndicate: datum},
	})
}
