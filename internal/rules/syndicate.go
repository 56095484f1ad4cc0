package rules

import (
	"math/big"
	"time"

	"github.com/feral-file/propfi-txbuilder/internal/domain"
)

// SyndicateTerms are the parameters a syndicate is opened with
type SyndicateTerms struct {
	Target        int64
	Deadline      time.Time
	Seller        domain.PubKeyHash
	Stablecoin    domain.AssetRef
	FractionAsset domain.AssetRef
	GovernanceDoc domain.Hash32
	Limits        domain.InvestmentLimits
}

// CreateSyndicate opens a syndicate in the Fundraising state with nothing raised
func CreateSyndicate(terms SyndicateTerms, now time.Time) (domain.SyndicateEscrow, error) {
	if terms.Target <= 0 {
		return domain.SyndicateEscrow{}, domain.NewRuleViolation(domain.InvariantSyndicateTerms, "target must be positive, got %d", terms.Target)
	}
	if !terms.Deadline.After(now) {
		return domain.SyndicateEscrow{}, domain.NewRuleViolation(domain.InvariantSyndicateTerms, "deadline %s is not in the future", terms.Deadline.Format(time.RFC3339))
	}
	limits := terms.Limits
	if limits.MinInvestment <= 0 || limits.MinInvestment > limits.MaxInvestment {
		return domain.SyndicateEscrow{}, domain.NewRuleViolation(domain.InvariantSyndicateTerms,
			"investment limits must satisfy 0 < min <= max, got min %d max %d", limits.MinInvestment, limits.MaxInvestment)
	}
	if limits.MaxPercentage < 1 || limits.MaxPercentage > 100 {
		return domain.SyndicateEscrow{}, domain.NewRuleViolation(domain.InvariantSyndicateTerms,
			"max percentage must be within 1..100, got %d", limits.MaxPercentage)
	}
	if limits.MinInvestment > InvestorCap(terms.Target, limits) {
		return domain.SyndicateEscrow{}, domain.NewRuleViolation(domain.InvariantSyndicateTerms,
			"min investment %d exceeds the per-investor cap %d", limits.MinInvestment, InvestorCap(terms.Target, limits))
	}
	if err := requireKeyHash("seller", terms.Seller); err != nil {
		return domain.SyndicateEscrow{}, err
	}
	if _, err := terms.GovernanceDoc.Bytes(); err != nil {
		return domain.SyndicateEscrow{}, err
	}

	return domain.SyndicateEscrow{
		State:         domain.SyndicateFundraising,
		Target:        terms.Target,
		CurrentRaised: 0,
		Deadline:      toMillis(terms.Deadline),
		Investors:     []domain.InvestorRecord{},
		Seller:        terms.Seller,
		Stablecoin:    terms.Stablecoin,
		FractionAsset: terms.FractionAsset,
		GovernanceDoc: terms.GovernanceDoc,
		Limits:        limits,
	}, nil
}

// InvestorCap is the most a single investor may contribute:
// min(maxInvestment, floor(target * maxPercentage / 100))
func InvestorCap(target int64, limits domain.InvestmentLimits) int64 {
	byPercentage := new(big.Int).Mul(big.NewInt(target), big.NewInt(limits.MaxPercentage))
	byPercentage.Quo(byPercentage, big.NewInt(100))
	if byPercentage.Cmp(big.NewInt(limits.MaxInvestment)) < 0 {
		return byPercentage.Int64()
	}
	return limits.MaxInvestment
}

// Contributed sums the amounts recorded for one investor
func Contributed(escrow domain.SyndicateEscrow, investor domain.PubKeyHash) int64 {
	var total int64
	for _, record := range escrow.Investors {
		if record.Investor == investor {
			total += record.Amount
		}
	}
	return total
}

// DepositToSyndicate records an investor contribution. Deposits that would raise more
// than the target are rejected rather than capped.
func DepositToSyndicate(escrow domain.SyndicateEscrow, investor domain.PubKeyHash, amount int64, now time.Time) (domain.SyndicateEscrow, error) {
	if escrow.State != domain.SyndicateFundraising {
		return domain.SyndicateEscrow{}, domain.NewRuleViolation(domain.InvariantFundraisingState, "syndicate is %s", escrow.State)
	}
	if now.After(escrow.Deadline) {
		return domain.SyndicateEscrow{}, domain.NewRuleViolation(domain.InvariantBeforeDeadline, "deadline %s has passed", escrow.Deadline.Format(time.RFC3339))
	}
	if err := requireKeyHash("investor", investor); err != nil {
		return domain.SyndicateEscrow{}, err
	}

	var recorded int64
	for _, record := range escrow.Investors {
		if record.Amount <= 0 {
			return domain.SyndicateEscrow{}, domain.NewRuleViolation(domain.InvariantNumericRange,
				"recorded investment %d of %s is not positive", record.Amount, record.Investor)
		}
		var ok bool
		if recorded, ok = addInt64(recorded, record.Amount); !ok {
			return domain.SyndicateEscrow{}, domain.NewRuleViolation(domain.InvariantNumericRange, "recorded investments overflow")
		}
	}
	if recorded != escrow.CurrentRaised {
		return domain.SyndicateEscrow{}, domain.NewRuleViolation(domain.InvariantRaisedMatchesLedger,
			"current raised %d does not match recorded investments %d", escrow.CurrentRaised, recorded)
	}

	if amount <= 0 {
		return domain.SyndicateEscrow{}, domain.NewRuleViolation(domain.InvariantPositiveAmount, "deposit must be positive, got %d", amount)
	}
	if amount < escrow.Limits.MinInvestment {
		return domain.SyndicateEscrow{}, domain.NewRuleViolation(domain.InvariantMinInvestment,
			"deposit %d is below the minimum %d", amount, escrow.Limits.MinInvestment)
	}
	limit := InvestorCap(escrow.Target, escrow.Limits)
	if contributed := Contributed(escrow, investor); amount > limit-contributed {
		return domain.SyndicateEscrow{}, domain.NewRuleViolation(domain.InvariantMaxInvestment,
			"deposit %d on top of %d exceeds the per-investor cap %d", amount, contributed, limit)
	}
	raised, ok := addInt64(escrow.CurrentRaised, amount)
	if !ok || raised > escrow.Target {
		return domain.SyndicateEscrow{}, domain.NewRuleViolation(domain.InvariantTargetNotExceeded,
			"deposit %d would raise %d of a %d target", amount, escrow.CurrentRaised+amount, escrow.Target)
	}

	next := escrow
	next.CurrentRaised = raised
	next.Investors = make([]domain.InvestorRecord, 0, len(escrow.Investors)+1)
	next.Investors = append(next.Investors, escrow.Investors...)
	next.Investors = append(next.Investors, domain.InvestorRecord{Investor: investor, Amount: amount})
	return next, nil
}
