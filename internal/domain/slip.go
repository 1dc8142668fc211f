package domain

import (
	"time"

	"github.com/google/uuid"
)

// BetType distinguishes a one-leg wager from a combination wager.
type BetType string

const (
	BetSingle BetType = "single"
	BetParlay BetType = "parlay"
)

// SlipStatus is the settlement state of a bet slip.
type SlipStatus string

const (
	SlipPending   SlipStatus = "pending"
	SlipWon       SlipStatus = "won"
	SlipLost      SlipStatus = "lost"
	SlipHalfWon   SlipStatus = "half-won"
	SlipHalfLost  SlipStatus = "half-lost"
	SlipPush      SlipStatus = "push"
	SlipCancelled SlipStatus = "cancelled"
)

// Terminal reports whether the status is a settled end state.
func (s SlipStatus) Terminal() bool { return s != SlipPending }

// SlipConditions tracks the payout lifecycle separately from the settlement
// status. A slip flips to paidout only after the ledger and commission side
// effects have committed; this is the idempotency gate for settlement.
type SlipConditions string

const (
	SlipAccepted SlipConditions = "accepted"
	SlipPaidout  SlipConditions = "paidout"
	SlipRejected SlipConditions = "rejected"
)

// BetCategory is the market category of a leg.
type BetCategory string

const (
	CategoryBody      BetCategory = "body"
	CategoryOverUnder BetCategory = "overUnder"
)

// Market is the chosen side within a leg's market.
type Market string

const (
	MarketHome  Market = "home"
	MarketAway  Market = "away"
	MarketOver  Market = "over"
	MarketUnder Market = "under"
)

// Period identifies which portion of the fixture a leg settles against.
type Period string

const (
	PeriodFullTime Period = "full-time"
	PeriodHalfTime Period = "half-time"
)

// LegOutcome is the per-leg settlement result. Legs start unsettled and are
// written once per settlement pass; unsettled doubles as the wait state when
// score data for the leg's period has not arrived yet.
type LegOutcome string

const (
	OutcomeUnsettled LegOutcome = "unsettled"
	OutcomeWon       LegOutcome = "won"
	OutcomeLost      LegOutcome = "lost"
	OutcomeHalfWon   LegOutcome = "half-won"
	OutcomeHalfLost  LegOutcome = "half-lost"
	OutcomePush      LegOutcome = "push"
	OutcomeCancelled LegOutcome = "cancelled"
)

// BetLeg is one market selection within a slip. The line and price are locked
// at placement time. Line is in hundredths of a goal (-250 = -2.5); a quarter
// line has line%50 != 0. Price is Malaysian odds in basis points (8500 = +0.85,
// -9000 = -0.90). Multiplier is the settled payout multiplier in basis points
// (10000 = x1), written together with Outcome.
type BetLeg struct {
	SlipID     uuid.UUID   `json:"slip_id"`
	LegIndex   int         `json:"leg_index"`
	MatchID    uuid.UUID   `json:"match_id"`
	Category   BetCategory `json:"category" validate:"required,oneof=body overUnder"`
	Market     Market      `json:"market" validate:"required,oneof=home away over under"`
	Period     Period      `json:"period" validate:"required,oneof=full-time half-time"`
	Line       int32       `json:"line"`
	Price      int32       `json:"price" validate:"required"`
	Outcome    LegOutcome  `json:"outcome"`
	Multiplier int64       `json:"multiplier"`
}

// BetSlip is one wager, single or parlay. Stake, payout and profit are int64
// minor units; payout and profit are meaningful only once Status is terminal.
type BetSlip struct {
	ID         uuid.UUID      `json:"id"`
	AccountID  uuid.UUID      `json:"account_id"`
	BetType    BetType        `json:"bet_type"`
	Stake      int64          `json:"stake"`
	Legs       []BetLeg       `json:"legs"`
	Status     SlipStatus     `json:"status"`
	Conditions SlipConditions `json:"conditions"`
	Payout     int64          `json:"payout"`
	Profit     int64          `json:"profit"`
	CreatedAt  time.Time      `json:"created_at"`
	SettledAt  *time.Time     `json:"settled_at,omitempty"`
}

// SlipResult is the aggregated settlement outcome for a whole slip.
type SlipResult struct {
	Status SlipStatus
	Payout int64
	Profit int64
}

// LegResult is the evaluated outcome of a single leg. Multiplier is in basis
// points and is only meaningful for settled outcomes.
type LegResult struct {
	Outcome    LegOutcome
	Multiplier int64
}

// Settled reports whether the leg has left the wait state.
func (r LegResult) Settled() bool { return r.Outcome != OutcomeUnsettled }
