package settlement

import (
	"github.com/parlaybook/engine/internal/domain"
)

// Basis is the fixed-point scale for prices and multipliers: 10000 = x1.
const Basis = 10000

// PriceRule converts a settled leg outcome and its locked price into a payout
// multiplier in basis points. The fractional-win payout math differs between
// market conventions, so the rule in force is configuration, not a constant.
type PriceRule interface {
	Name() string
	// Multiplier returns the payout multiplier in basis points for the given
	// outcome. price is Malaysian odds in basis points and may be negative.
	Multiplier(outcome domain.LegOutcome, price int32) int64
}

// NewPriceRule returns the rule registered under the given name.
func NewPriceRule(name string) (PriceRule, error) {
	switch name {
	case "malay":
		return MalayRule{}, nil
	case "flat":
		return FlatRule{}, nil
	}
	return nil, domain.ErrValidation("unknown price rule: " + name)
}

// MalayRule implements Malaysian-odds payout math.
//
// Positive price (+0.85): a win pays stake*price on top of the stake.
// Negative price (-0.90): the bettor risks stake/|price|; a win pays the full
// stake, and a half loss forfeits half of the risk amount.
type MalayRule struct{}

func (MalayRule) Name() string { return "malay" }

func (MalayRule) Multiplier(outcome domain.LegOutcome, price int32) int64 {
	p := int64(price)
	switch outcome {
	case domain.OutcomeWon:
		if p > 0 {
			return Basis + p
		}
		return 2 * Basis
	case domain.OutcomeHalfWon:
		if p > 0 {
			return Basis + p/2
		}
		return Basis + Basis/2
	case domain.OutcomePush, domain.OutcomeCancelled:
		return Basis
	case domain.OutcomeHalfLost:
		if p > 0 {
			return Basis / 2
		}
		// Half of the risk amount is lost; risk = stake/|price|.
		halfRisk := (Basis * Basis / -p) / 2
		return Basis - halfRisk
	case domain.OutcomeLost:
		return 0
	}
	return 0
}

// FlatRule implements the flat-percentage payout convention: the price
// magnitude is the profit rate for a full win and half wins/losses scale the
// stake linearly, ignoring the risk-amount asymmetry of negative prices.
type FlatRule struct{}

func (FlatRule) Name() string { return "flat" }

func (FlatRule) Multiplier(outcome domain.LegOutcome, price int32) int64 {
	p := int64(price)
	if p < 0 {
		p = -p
	}
	switch outcome {
	case domain.OutcomeWon:
		return Basis + p
	case domain.OutcomeHalfWon:
		return Basis + p/2
	case domain.OutcomePush, domain.OutcomeCancelled:
		return Basis
	case domain.OutcomeHalfLost:
		return Basis / 2
	case domain.OutcomeLost:
		return 0
	}
	return 0
}
