package settlement

import (
	"github.com/parlaybook/engine/internal/domain"
)

// AggregateSlip folds graded legs into the slip-level result. Every leg must
// already be settled; an unsettled leg is a caller bug and fails loudly.
//
// For singles the slip status mirrors the leg outcome. For parlays any lost
// leg collapses the whole slip, otherwise multipliers compound stepwise with
// truncating division at each step so the result is deterministic regardless
// of leg order within the stored sequence.
func AggregateSlip(betType domain.BetType, stake int64, legs []domain.BetLeg) (domain.SlipResult, error) {
	for i := range legs {
		if legs[i].Outcome == domain.OutcomeUnsettled {
			return domain.SlipResult{}, domain.ErrValidation("cannot aggregate slip with unsettled leg")
		}
	}

	switch betType {
	case domain.BetSingle:
		if len(legs) != 1 {
			return domain.SlipResult{}, domain.ErrValidation("single slip must have exactly one leg")
		}
		return aggregateSingle(stake, legs[0]), nil
	case domain.BetParlay:
		if len(legs) < 2 {
			return domain.SlipResult{}, domain.ErrValidation("parlay slip must have at least two legs")
		}
		return aggregateParlay(stake, legs), nil
	}
	return domain.SlipResult{}, domain.ErrValidation("unknown bet type: " + string(betType))
}

func aggregateSingle(stake int64, leg domain.BetLeg) domain.SlipResult {
	switch leg.Outcome {
	case domain.OutcomeLost:
		return domain.SlipResult{Status: domain.SlipLost, Payout: 0, Profit: -stake}
	case domain.OutcomePush:
		return domain.SlipResult{Status: domain.SlipPush, Payout: stake, Profit: 0}
	case domain.OutcomeCancelled:
		return domain.SlipResult{Status: domain.SlipCancelled, Payout: stake, Profit: 0}
	}

	payout := stake * leg.Multiplier / Basis
	result := domain.SlipResult{Payout: payout, Profit: payout - stake}
	switch leg.Outcome {
	case domain.OutcomeWon:
		result.Status = domain.SlipWon
	case domain.OutcomeHalfWon:
		result.Status = domain.SlipHalfWon
	case domain.OutcomeHalfLost:
		result.Status = domain.SlipHalfLost
	}
	return result
}

func aggregateParlay(stake int64, legs []domain.BetLeg) domain.SlipResult {
	total := int64(Basis)
	neutral := 0
	for i := range legs {
		if legs[i].Outcome == domain.OutcomeLost {
			return domain.SlipResult{Status: domain.SlipLost, Payout: 0, Profit: -stake}
		}
		if legs[i].Outcome == domain.OutcomePush || legs[i].Outcome == domain.OutcomeCancelled {
			neutral++
		}
		total = total * legs[i].Multiplier / Basis
	}

	if neutral == len(legs) {
		return domain.SlipResult{Status: domain.SlipPush, Payout: stake, Profit: 0}
	}

	payout := stake * total / Basis
	return domain.SlipResult{Status: domain.SlipWon, Payout: payout, Profit: payout - stake}
}
