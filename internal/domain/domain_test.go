package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Validator Tests ---

func validLeg() BetLeg {
	return BetLeg{
		MatchID:  uuid.New(),
		Category: CategoryBody,
		Market:   MarketHome,
		Period:   PeriodFullTime,
		Line:     -100,
		Price:    8500,
	}
}

func TestValidateLeg(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*BetLeg)
		wantErr bool
	}{
		{"valid body home", func(l *BetLeg) {}, false},
		{"valid body away", func(l *BetLeg) { l.Market = MarketAway; l.Line = 100 }, false},
		{"valid under half-time", func(l *BetLeg) {
			l.Category = CategoryOverUnder
			l.Market = MarketUnder
			l.Period = PeriodHalfTime
			l.Line = 150
		}, false},
		{"valid quarter line", func(l *BetLeg) { l.Line = -75 }, false},
		{"body with over market", func(l *BetLeg) { l.Market = MarketOver }, true},
		{"over-under with home market", func(l *BetLeg) { l.Category = CategoryOverUnder }, true},
		{"negative total line", func(l *BetLeg) {
			l.Category = CategoryOverUnder
			l.Market = MarketOver
			l.Line = -250
		}, true},
		{"line off the quarter grid", func(l *BetLeg) { l.Line = -110 }, true},
		{"missing period", func(l *BetLeg) { l.Period = "" }, true},
		{"unknown category", func(l *BetLeg) { l.Category = "oneX2" }, true},
		{"zero price", func(l *BetLeg) { l.Price = 0 }, true},
		{"valid negative price at floor", func(l *BetLeg) { l.Price = -5000 }, false},
		{"valid negative price at cap", func(l *BetLeg) { l.Price = -10000 }, false},
		{"negative price above floor", func(l *BetLeg) { l.Price = -2500 }, true},
		{"positive price above cap", func(l *BetLeg) { l.Price = 10001 }, true},
		{"negative price below cap", func(l *BetLeg) { l.Price = -10001 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			leg := validLeg()
			tt.mutate(&leg)
			err := ValidateLeg(leg)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, "VALIDATION_ERROR", ErrorCode(err))
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestValidateSlipInput(t *testing.T) {
	single := []BetLeg{validLeg()}
	parlay := []BetLeg{validLeg(), validLeg()}

	assert.NoError(t, ValidateSlipInput(BetSingle, 1000, single))
	assert.NoError(t, ValidateSlipInput(BetParlay, 1000, parlay))

	assert.Error(t, ValidateSlipInput(BetSingle, 0, single))
	assert.Error(t, ValidateSlipInput(BetSingle, -100, single))
	assert.Error(t, ValidateSlipInput(BetSingle, 1000, parlay))
	assert.Error(t, ValidateSlipInput(BetParlay, 1000, single))
	assert.Error(t, ValidateSlipInput("system", 1000, single))
}

func TestValidateFinalizedMatch(t *testing.T) {
	m := FinalizedMatch{MatchID: uuid.New(), Period: PeriodFullTime, HomeScore: 2, AwayScore: 1}
	assert.NoError(t, ValidateFinalizedMatch(m))

	m.Period = "extra-time"
	assert.Error(t, ValidateFinalizedMatch(m))

	m.Period = PeriodFullTime
	m.HomeScore = -1
	assert.Error(t, ValidateFinalizedMatch(m))

	m.HomeScore = 250
	assert.Error(t, ValidateFinalizedMatch(m))
}

// --- Type behavior ---

func TestSlipStatusTerminal(t *testing.T) {
	assert.False(t, SlipPending.Terminal())
	for _, s := range []SlipStatus{SlipWon, SlipLost, SlipHalfWon, SlipHalfLost, SlipPush, SlipCancelled} {
		assert.True(t, s.Terminal(), "status %s", s)
	}
}

func TestLegResultSettled(t *testing.T) {
	assert.False(t, LegResult{Outcome: OutcomeUnsettled}.Settled())
	assert.True(t, LegResult{Outcome: OutcomeWon}.Settled())
	assert.True(t, LegResult{Outcome: OutcomePush}.Settled())
}

func TestCommissionSettingRate(t *testing.T) {
	s := &CommissionSetting{HdpOuFtLg: 300, MixParlay2: 150}
	assert.Equal(t, int32(300), s.Rate(FieldHdpOuFtLg))
	assert.Equal(t, int32(150), s.Rate(FieldMixParlay2))
	assert.Equal(t, int32(0), s.Rate(FieldCsFt))
	assert.Equal(t, int32(0), s.Rate("unknown_field"))

	var nilSetting *CommissionSetting
	assert.Equal(t, int32(0), nilSetting.Rate(FieldHdpOuFtLg))
}

func TestScoreBoardLookup(t *testing.T) {
	matchID := uuid.New()
	board := ScoreBoard{
		{MatchID: matchID, Period: PeriodFullTime}: {Home: 2, Away: 1},
	}

	score, ok := board.Lookup(matchID, PeriodFullTime)
	require.True(t, ok)
	assert.Equal(t, 3, score.Total())

	_, ok = board.Lookup(matchID, PeriodHalfTime)
	assert.False(t, ok)

	_, ok = board.Lookup(uuid.New(), PeriodFullTime)
	assert.False(t, ok)
}

// --- Error tests ---

func TestAppErrorCodes(t *testing.T) {
	assert.Equal(t, "NOT_FOUND", ErrorCode(ErrNotFound("slip", "abc")))
	assert.Equal(t, "INSUFFICIENT_BALANCE", ErrorCode(ErrInsufficientBalance()))
	assert.Equal(t, "", ErrorCode(errors.New("plain")))
}

func TestAppErrorUnwrapsThroughWrapping(t *testing.T) {
	id := uuid.New().String()
	wrapped := fmt.Errorf("settle slip: %w", ErrHierarchyCycle(id))
	assert.True(t, IsHierarchyCycle(wrapped))
	assert.False(t, IsMissingLedgerAccount(wrapped))

	wrapped = fmt.Errorf("credit: %w", ErrMissingLedgerAccount(id))
	assert.True(t, IsMissingLedgerAccount(wrapped))
	assert.Equal(t, "MISSING_LEDGER_ACCOUNT", ErrorCode(wrapped))
}
