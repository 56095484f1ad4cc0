package composer

import (
	"context"
	"math/big"

	"github.com/feral-file/propfi-txbuilder/internal/domain"
	"github.com/feral-file/propfi-txbuilder/internal/ledger"
	"github.com/feral-file/propfi-txbuilder/internal/plutus"
	"github.com/feral-file/propfi-txbuilder/internal/registry"
	"github.com/feral-file/propfi-txbuilder/internal/rules"
	"github.com/feral-file/propfi-txbuilder/internal/value"
)

// CreateTreasuryRequest opens a yield treasury managed by the wallet
type CreateTreasuryRequest struct {
	WalletAddress  string
	PropertyToken  domain.AssetRef
	TotalFractions int64
	Stablecoin     string
}

// DepositYieldRequest adds rental income from the manager wallet to a treasury
type DepositYieldRequest struct {
	WalletAddress string
	Treasury      domain.OutputRef
	Amount        int64
}

// ClaimYieldRequest claims the share earned by fractions held in the wallet
type ClaimYieldRequest struct {
	WalletAddress  string
	Treasury       domain.OutputRef
	FractionAmount int64
}

func (c *composer) CreateYieldTreasury(ctx context.Context, req CreateTreasuryRequest) (*Prepared, error) {
	scripts, err := c.scripts(registry.RoleYieldTreasury)
	if err != nil {
		return nil, err
	}
	treasuryScript := scripts[0]

	req.PropertyToken = req.PropertyToken.Normalize()
	if err := requireToken("property token", req.PropertyToken); err != nil {
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

	treasury, err := rules.CreateYieldTreasury(rules.TreasuryParams{
		PropertyToken:  req.PropertyToken,
		TotalFractions: req.TotalFractions,
		Stablecoin:     stablecoin.Asset,
		Manager:        manager,
	}, c.clock.Now())
	if err != nil {
		return nil, err
	}
	datum, err := encodeHex(plutus.EncodeYieldTreasuryDatum(treasury))
	if err != nil {
		return nil, err
	}

	scriptAddress, err := c.scriptAddress(ctx, treasuryScript)
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
		Action:   domain.ActionCreateYieldTreasury,
		Actor:    manager,
		Subject:  treasury.PropertyToken.Unit(),
		Skeleton: skeleton,
		Datums:   map[string]string{DatumTreasury: datum},
	})
}

func (c *composer) DepositYield(ctx context.Context, req DepositYieldRequest) (*Prepared, error) {
	scripts, err := c.scripts(registry.RoleYieldTreasury)
	if err != nil {
		return nil, err
	}
	treasuryScript := scripts[0]

	if err := requireOutputRef("treasury", req.Treasury); err != nil {
		return nil, err
	}
	caller, err := c.caller(ctx, req.WalletAddress)
	if err != nil {
		return nil, err
	}
	scriptAddress, err := c.scriptAddress(ctx, treasuryScript)
	if err != nil {
		return nil, err
	}

	fetched, err := c.fetch(ctx, scriptAddress, req.WalletAddress)
	if err != nil {
		return nil, err
	}
	utxo, treasury, err := c.currentTreasury(fetched[0], req.Treasury)
	if err != nil {
		return nil, err
	}

	next, err := rules.DepositYield(treasury, caller, req.Amount, c.clock.Now())
	if err != nil {
		return nil, err
	}
	held, err := requireHolding(utxo, value.Singleton(treasury.Stablecoin, treasury.AccumulatedYield))
	if err != nil {
		return nil, err
	}
	deposit := value.Singleton(treasury.Stablecoin, req.Amount)
	if err := requireWalletHolds(fetched[1], deposit); err != nil {
		return nil, err
	}

	datum, err := encodeHex(plutus.EncodeYieldTreasuryDatum(next))
	if err != nil {
		return nil, err
	}
	redeemer, err := redeemerHex(plutus.DepositYield{Amount: req.Amount})
	if err != nil {
		return nil, err
	}

	skeleton := c.skeleton(req.WalletAddress, fetched[1], caller)
	skeleton.ScriptInputs = []ledger.ScriptInput{spend(utxo, treasuryScript, redeemer)}
	skeleton.Outputs = []ledger.Output{
		c.scriptOutput(scriptAddress, value.Add(held, deposit), datum),
	}

	return c.submit(ctx, &Prepared{
		Action:   domain.ActionDepositYield,
		Actor:    caller,
		Subject:  req.Treasury.String(),
		Skeleton: skeleton,
		Datums:   map[string]string{DatumTreasury: datum},
	})
}

// ClaimYield spends wallet outputs carrying the property token as proof of holding, pays
// the holder their share and recreates the treasury with the remainder.
func (c *composer) ClaimYield(ctx context.Context, req ClaimYieldRequest) (*Prepared, error) {
	scripts, err := c.scripts(registry.RoleYieldTreasury)
	if err != nil {
		return nil, err
	}
	treasuryScript := scripts[0]

	if err := requireOutputRef("treasury", req.Treasury); err != nil {
		return nil, err
	}
	holder, err := c.caller(ctx, req.WalletAddress)
	if err != nil {
		return nil, err
	}
	scriptAddress, err := c.scriptAddress(ctx, treasuryScript)
	if err != nil {
		return nil, err
	}

	fetched, err := c.fetch(ctx, scriptAddress, req.WalletAddress)
	if err != nil {
		return nil, err
	}
	utxo, treasury, err := c.currentTreasury(fetched[0], req.Treasury)
	if err != nil {
		return nil, err
	}

	proofs, held, err := selectHolding(fetched[1], treasury.PropertyToken, req.FractionAmount)
	if err != nil {
		return nil, err
	}
	claim, err := rules.ClaimYield(treasury, req.FractionAmount, held)
	if err != nil {
		return nil, err
	}

	share := value.Singleton(treasury.Stablecoin, claim.Share)
	locked, err := requireHolding(utxo, value.Singleton(treasury.Stablecoin, treasury.AccumulatedYield))
	if err != nil {
		return nil, err
	}
	remaining, err := value.Subtract(locked, share)
	if err != nil {
		return nil, err
	}

	datum, err := encodeHex(plutus.EncodeYieldTreasuryDatum(claim.Treasury))
	if err != nil {
		return nil, err
	}
	redeemer, err := redeemerHex(plutus.ClaimYield{Holder: holder, FractionAmount: req.FractionAmount})
	if err != nil {
		return nil, err
	}

	skeleton := c.skeleton(req.WalletAddress, fetched[1], holder)
	skeleton.ScriptInputs = []ledger.ScriptInput{spend(utxo, treasuryScript, redeemer)}
	skeleton.Inputs = proofs
	skeleton.Outputs = []ledger.Output{
		c.scriptOutput(scriptAddress, remaining, datum),
		c.userOutput(req.WalletAddress, share, ""),
	}

	return c.submit(ctx, &Prepared{
		Action:   domain.ActionClaimYield,
		Actor:    holder,
		Subject:  req.Treasury.String(),
		Skeleton: skeleton,
		Datums:   map[string]string{DatumTreasury: datum},
	})
}

func (c *composer) currentTreasury(utxos []ledger.UTxO, ref domain.OutputRef) (ledger.UTxO, domain.YieldTreasury, error) {
	utxo, err := locate(utxos, ref, "treasury")
	if err != nil {
		return ledger.UTxO{}, domain.YieldTreasury{}, err
	}
	d, err := inlineDatum(utxo)
	if err != nil {
		return ledger.UTxO{}, domain.YieldTreasury{}, err
	}
	treasury, err := plutus.DecodeYieldTreasuryDatum(d)
	if err != nil {
		return ledger.UTxO{}, domain.YieldTreasury{}, err
	}
	return utxo, treasury, nil
}

// selectHolding picks wallet outputs carrying the token until at least amount is covered.
// It returns the picked references and the total they hold.
func selectHolding(wallet []ledger.UTxO, token domain.AssetRef, amount int64) ([]domain.OutputRef, *big.Int, error) {
	target := big.NewInt(amount)
	held := new(big.Int)
	proofs := []domain.OutputRef{}
	for _, u := range wallet {
		if held.Cmp(target) >= 0 {
			break
		}
		v, err := u.Value()
		if err != nil {
			return nil, nil, err
		}
		q := v.Quantity(token)
		if q.Sign() == 0 {
			continue
		}
		proofs = append(proofs, u.Input)
		held.Add(held, q)
	}
	return proofs, held, nil
}
