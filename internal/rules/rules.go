// Package rules holds the protocol state transitions. Every function is pure: it validates
// the current state and the requested action and returns the next state, or a
// *domain.RuleViolation naming the invariant that failed.
package rules

import (
	"math"
	"math/big"
	"strings"
	"time"

	"github.com/feral-file/propfi-txbuilder/internal/domain"
)

// Labels are the CIP-68 asset name prefixes distinguishing reference and user tokens
type Labels struct {
	Reference string
	User      string
}

// DefaultLabels returns the standard (100) reference and (222) user labels
func DefaultLabels() Labels {
	return Labels{
		Reference: domain.DEFAULT_REFERENCE_LABEL,
		User:      domain.DEFAULT_USER_LABEL,
	}
}

// ResolveStablecoin finds a configured stablecoin by name, case-insensitively
func ResolveStablecoin(stablecoins []domain.Stablecoin, name string) (domain.Stablecoin, error) {
	for _, s := range stablecoins {
		if strings.EqualFold(s.Name, name) {
			return s, nil
		}
	}
	return domain.Stablecoin{}, domain.NewRuleViolation(domain.InvariantKnownStablecoin, "stablecoin %q is not accepted", name)
}

// mulInt64 multiplies exactly, failing if the product leaves the int64 domain
func mulInt64(a, b int64) (int64, bool) {
	p := new(big.Int).Mul(big.NewInt(a), big.NewInt(b))
	if !p.IsInt64() {
		return 0, false
	}
	return p.Int64(), true
}

// addInt64 adds exactly, failing on overflow
func addInt64(a, b int64) (int64, bool) {
	if (b > 0 && a > math.MaxInt64-b) || (b < 0 && a < math.MinInt64-b) {
		return 0, false
	}
	return a + b, true
}

// toMillis drops sub-millisecond precision so a time survives the on-chain encoding unchanged
func toMillis(t time.Time) time.Time {
	return time.UnixMilli(t.UnixMilli()).UTC()
}

func requireKeyHash(field string, pkh domain.PubKeyHash) error {
	if _, err := pkh.Bytes(); err != nil {
		return domain.NewMalformedRecordError(field, err.Error())
	}
	return nil
}
