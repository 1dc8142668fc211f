package settlement

import (
	"fmt"

	"github.com/parlaybook/engine/internal/domain"
)

// EvaluateLeg grades a single leg against the score board. When the score for
// the leg's match and period has not been recorded yet the leg stays
// unsettled and the multiplier is zero; callers must treat that as a wait
// state, not a loss.
//
// All margin arithmetic is in hundredths of a goal so quarter lines resolve
// without floating point. A whole or half line settles on a 50-hundredth
// boundary, a quarter line on a 25-hundredth boundary.
func EvaluateLeg(leg domain.BetLeg, board domain.ScoreBoard, rule PriceRule) (domain.LegResult, error) {
	score, ok := board.Lookup(leg.MatchID, leg.Period)
	if !ok {
		return domain.LegResult{Outcome: domain.OutcomeUnsettled}, nil
	}

	margin, err := legMargin(leg, score)
	if err != nil {
		return domain.LegResult{}, err
	}

	outcome := classify(margin, leg.Line%50 != 0)
	return domain.LegResult{
		Outcome:    outcome,
		Multiplier: rule.Multiplier(outcome, leg.Price),
	}, nil
}

// legMargin computes the settlement margin in hundredths of a goal. The line
// is stored relative to the side the bettor chose, so a positive margin
// always means the selection covered.
func legMargin(leg domain.BetLeg, score domain.Score) (int64, error) {
	line := int64(leg.Line)
	switch leg.Category {
	case domain.CategoryBody:
		diff := int64(score.Home-score.Away) * 100
		switch leg.Market {
		case domain.MarketHome:
			return diff + line, nil
		case domain.MarketAway:
			return -diff + line, nil
		}
	case domain.CategoryOverUnder:
		total := int64(score.Total()) * 100
		switch leg.Market {
		case domain.MarketOver:
			return total - line, nil
		case domain.MarketUnder:
			return line - total, nil
		}
	}
	return 0, domain.ErrValidation(fmt.Sprintf("unsupported market %s/%s", leg.Category, leg.Market))
}

func classify(margin int64, quarterLine bool) domain.LegOutcome {
	boundary := int64(50)
	if quarterLine {
		boundary = 25
	}
	switch {
	case margin > boundary:
		return domain.OutcomeWon
	case margin == boundary:
		return domain.OutcomeHalfWon
	case margin == 0:
		return domain.OutcomePush
	case margin == -boundary:
		return domain.OutcomeHalfLost
	default:
		return domain.OutcomeLost
	}
}
