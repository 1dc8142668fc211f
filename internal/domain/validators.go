package domain

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateFinalizedMatch checks one entry of a finalized-match batch.
func ValidateFinalizedMatch(m FinalizedMatch) error {
	if err := validate.Struct(m); err != nil {
		return ErrValidation(fmt.Sprintf("finalized match %s: %v", m.MatchID, err))
	}
	return nil
}

// ValidateLeg checks the structural fields of a leg at placement time.
// Market/category combinations that cannot settle are rejected here so they
// never reach the settlement core.
func ValidateLeg(leg BetLeg) error {
	if err := validate.Struct(leg); err != nil {
		return ErrValidation(fmt.Sprintf("leg %d: %v", leg.LegIndex, err))
	}
	switch leg.Category {
	case CategoryBody:
		if leg.Market != MarketHome && leg.Market != MarketAway {
			return ErrValidation(fmt.Sprintf("leg %d: body market must be home or away, got %s", leg.LegIndex, leg.Market))
		}
	case CategoryOverUnder:
		if leg.Market != MarketOver && leg.Market != MarketUnder {
			return ErrValidation(fmt.Sprintf("leg %d: overUnder market must be over or under, got %s", leg.LegIndex, leg.Market))
		}
		if leg.Line < 0 {
			return ErrValidation(fmt.Sprintf("leg %d: overUnder line must not be negative", leg.LegIndex))
		}
	default:
		return ErrValidation(fmt.Sprintf("leg %d: unsupported category %s", leg.LegIndex, leg.Category))
	}
	// Lines settle on quarter-goal boundaries only.
	if leg.Line%25 != 0 {
		return ErrValidation(fmt.Sprintf("leg %d: line %d is not a quarter-goal multiple", leg.LegIndex, leg.Line))
	}
	// Malay odds in basis points. The -0.50 floor on negative prices keeps
	// every half-lost multiplier non-negative.
	switch {
	case leg.Price >= 1 && leg.Price <= 10000:
	case leg.Price >= -10000 && leg.Price <= -5000:
	default:
		return ErrValidation(fmt.Sprintf("leg %d: price %d outside the Malay range", leg.LegIndex, leg.Price))
	}
	return nil
}

// ValidateSlipInput checks a slip and its legs before placement.
func ValidateSlipInput(betType BetType, stake int64, legs []BetLeg) error {
	if stake <= 0 {
		return ErrValidation("stake must be positive")
	}
	switch betType {
	case BetSingle:
		if len(legs) != 1 {
			return ErrValidation(fmt.Sprintf("single slip must have exactly one leg, got %d", len(legs)))
		}
	case BetParlay:
		if len(legs) < 2 {
			return ErrValidation(fmt.Sprintf("parlay slip must have at least two legs, got %d", len(legs)))
		}
	default:
		return ErrValidation(fmt.Sprintf("unknown bet type %s", betType))
	}
	for _, leg := range legs {
		if err := ValidateLeg(leg); err != nil {
			return err
		}
	}
	return nil
}

// ValidatePositiveAmount checks that an amount is positive (minor units).
func ValidatePositiveAmount(amount int64) error {
	if amount <= 0 {
		return ErrValidation(fmt.Sprintf("amount must be positive, got %d", amount))
	}
	return nil
}
