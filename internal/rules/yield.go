package rules

import (
	"math/big"
	"time"

	"github.com/feral-file/propfi-txbuilder/internal/domain"
)

// TreasuryParams are the parameters a yield treasury is opened with
type TreasuryParams struct {
	PropertyToken  domain.AssetRef
	TotalFractions int64
	Stablecoin     domain.AssetRef
	Manager        domain.PubKeyHash
}

// CreateYieldTreasury opens an empty treasury managed by the caller
func CreateYieldTreasury(p TreasuryParams, now time.Time) (domain.YieldTreasury, error) {
	if p.TotalFractions <= 0 {
		return domain.YieldTreasury{}, domain.NewRuleViolation(domain.InvariantPositiveFractions, "total fractions must be positive, got %d", p.TotalFractions)
	}
	if err := requireKeyHash("manager", p.Manager); err != nil {
		return domain.YieldTreasury{}, err
	}

	return domain.YieldTreasury{
		PropertyToken:    p.PropertyToken,
		TotalFractions:   p.TotalFractions,
		AccumulatedYield: 0,
		LastDistribution: toMillis(now),
		Stablecoin:       p.Stablecoin,
		Manager:          p.Manager,
	}, nil
}

// DepositYield adds rental income to the treasury. Only the manager may deposit.
func DepositYield(treasury domain.YieldTreasury, caller domain.PubKeyHash, amount int64, now time.Time) (domain.YieldTreasury, error) {
	if caller != treasury.Manager {
		return domain.YieldTreasury{}, domain.NewRuleViolation(domain.InvariantManagerOnly, "only the manager %s can deposit yield", treasury.Manager)
	}
	if amount <= 0 {
		return domain.YieldTreasury{}, domain.NewRuleViolation(domain.InvariantPositiveAmount, "deposit must be positive, got %d", amount)
	}
	if treasury.AccumulatedYield < 0 {
		return domain.YieldTreasury{}, domain.NewRuleViolation(domain.InvariantNumericRange, "accumulated yield is negative")
	}
	accumulated, ok := addInt64(treasury.AccumulatedYield, amount)
	if !ok {
		return domain.YieldTreasury{}, domain.NewRuleViolation(domain.InvariantNumericRange, "accumulated yield overflows")
	}

	next := treasury
	next.AccumulatedYield = accumulated
	next.LastDistribution = toMillis(now)
	return next, nil
}

// YieldClaim is the outcome of a holder claim
type YieldClaim struct {
	Treasury domain.YieldTreasury
	// Share is paid to the holder; Treasury.AccumulatedYield is what remains
	Share int64
}

// ClaimYield pays a holder floor(accumulated * fractionAmount / totalFractions).
// A share that floors to zero is a valid claim that leaves the treasury unchanged.
// held is the quantity of fraction tokens the holder proves by spending them as an input.
func ClaimYield(treasury domain.YieldTreasury, fractionAmount int64, held *big.Int) (YieldClaim, error) {
	if fractionAmount <= 0 {
		return YieldClaim{}, domain.NewRuleViolation(domain.InvariantPositiveAmount, "fraction amount must be positive, got %d", fractionAmount)
	}
	if treasury.TotalFractions <= 0 {
		return YieldClaim{}, domain.NewRuleViolation(domain.InvariantPositiveFractions, "treasury has no fractions")
	}
	if fractionAmount > treasury.TotalFractions {
		return YieldClaim{}, domain.NewRuleViolation(domain.InvariantFractionBound,
			"fraction amount %d exceeds total fractions %d", fractionAmount, treasury.TotalFractions)
	}
	if held == nil || held.Cmp(big.NewInt(fractionAmount)) < 0 {
		return YieldClaim{}, domain.NewRuleViolation(domain.InvariantHoldsFractions,
			"holder proves %s fractions but claims %d", held, fractionAmount)
	}
	if treasury.AccumulatedYield < 0 {
		return YieldClaim{}, domain.NewRuleViolation(domain.InvariantNumericRange, "accumulated yield is negative")
	}

	share := new(big.Int).Mul(big.NewInt(treasury.AccumulatedYield), big.NewInt(fractionAmount))
	share.Quo(share, big.NewInt(treasury.TotalFractions))

	next := treasury
	next.AccumulatedYield = treasury.AccumulatedYield - share.Int64()
	return YieldClaim{Treasury: next, Share: share.Int64()}, nil
}
