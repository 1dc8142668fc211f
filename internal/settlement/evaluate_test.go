package settlement

import (
	"testing"

	"github.com/google/uuid"
	"github.com/parlaybook/engine/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boardWith(matchID uuid.UUID, period domain.Period, home, away int) domain.ScoreBoard {
	return domain.ScoreBoard{
		{MatchID: matchID, Period: period}: {Home: home, Away: away},
	}
}

func bodyLeg(matchID uuid.UUID, market domain.Market, line int32) domain.BetLeg {
	return domain.BetLeg{
		MatchID:  matchID,
		Category: domain.CategoryBody,
		Market:   market,
		Period:   domain.PeriodFullTime,
		Line:     line,
		Price:    8500,
	}
}

func totalLeg(matchID uuid.UUID, market domain.Market, line int32) domain.BetLeg {
	return domain.BetLeg{
		MatchID:  matchID,
		Category: domain.CategoryOverUnder,
		Market:   market,
		Period:   domain.PeriodFullTime,
		Line:     line,
		Price:    -9000,
	}
}

func TestEvaluateLeg_HomeHandicapWins(t *testing.T) {
	matchID := uuid.New()
	// Home -1.0, final 2-0: covers by a full goal.
	leg := bodyLeg(matchID, domain.MarketHome, -100)
	res, err := EvaluateLeg(leg, boardWith(matchID, domain.PeriodFullTime, 2, 0), MalayRule{})
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeWon, res.Outcome)
	assert.Equal(t, int64(18500), res.Multiplier)
}

func TestEvaluateLeg_HomeHandicapPush(t *testing.T) {
	matchID := uuid.New()
	// Home -1.0, final 1-0: wins by exactly the line.
	leg := bodyLeg(matchID, domain.MarketHome, -100)
	res, err := EvaluateLeg(leg, boardWith(matchID, domain.PeriodFullTime, 1, 0), MalayRule{})
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomePush, res.Outcome)
	assert.Equal(t, int64(10000), res.Multiplier)
}

func TestEvaluateLeg_HalfGoalBoundaryIsHalfWon(t *testing.T) {
	matchID := uuid.New()
	// Home -0.5 winning by one lands exactly on the half-goal boundary.
	leg := bodyLeg(matchID, domain.MarketHome, -50)
	res, err := EvaluateLeg(leg, boardWith(matchID, domain.PeriodFullTime, 1, 0), MalayRule{})
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeHalfWon, res.Outcome)
}

func TestEvaluateLeg_HalfGoalBoundaryIsHalfLost(t *testing.T) {
	matchID := uuid.New()
	// Home -0.5 in a draw.
	leg := bodyLeg(matchID, domain.MarketHome, -50)
	res, err := EvaluateLeg(leg, boardWith(matchID, domain.PeriodFullTime, 0, 0), MalayRule{})
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeHalfLost, res.Outcome)
}

func TestEvaluateLeg_QuarterLineHalfWon(t *testing.T) {
	matchID := uuid.New()
	// Home -0.75 winning by one: margin +0.25 on the quarter boundary.
	leg := bodyLeg(matchID, domain.MarketHome, -75)
	res, err := EvaluateLeg(leg, boardWith(matchID, domain.PeriodFullTime, 1, 0), MalayRule{})
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeHalfWon, res.Outcome)
}

func TestEvaluateLeg_QuarterLineHalfLost(t *testing.T) {
	matchID := uuid.New()
	// Home -1.25 winning by one: margin -0.25 on the quarter boundary.
	leg := bodyLeg(matchID, domain.MarketHome, -125)
	res, err := EvaluateLeg(leg, boardWith(matchID, domain.PeriodFullTime, 1, 0), MalayRule{})
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeHalfLost, res.Outcome)
}

func TestEvaluateLeg_AwayHandicapWins(t *testing.T) {
	matchID := uuid.New()
	// Away +1.0 holding a one-goal loss to a draw on the line is a push,
	// so losing by nothing at all is a full win.
	leg := bodyLeg(matchID, domain.MarketAway, 100)
	res, err := EvaluateLeg(leg, boardWith(matchID, domain.PeriodFullTime, 1, 1), MalayRule{})
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeWon, res.Outcome)
}

func TestEvaluateLeg_AwayHandicapLost(t *testing.T) {
	matchID := uuid.New()
	leg := bodyLeg(matchID, domain.MarketAway, 100)
	res, err := EvaluateLeg(leg, boardWith(matchID, domain.PeriodFullTime, 3, 0), MalayRule{})
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeLost, res.Outcome)
	assert.Equal(t, int64(0), res.Multiplier)
}

func TestEvaluateLeg_OverWins(t *testing.T) {
	matchID := uuid.New()
	// Over 2.5 with three goals.
	leg := totalLeg(matchID, domain.MarketOver, 250)
	res, err := EvaluateLeg(leg, boardWith(matchID, domain.PeriodFullTime, 2, 1), MalayRule{})
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeWon, res.Outcome)
}

func TestEvaluateLeg_UnderOnHalfGoalBoundary(t *testing.T) {
	matchID := uuid.New()
	// Under 2.5 with two goals sits on the half-goal boundary.
	leg := totalLeg(matchID, domain.MarketUnder, 250)
	res, err := EvaluateLeg(leg, boardWith(matchID, domain.PeriodFullTime, 1, 1), MalayRule{})
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeHalfWon, res.Outcome)
}

func TestEvaluateLeg_UnderPushOnWholeLine(t *testing.T) {
	matchID := uuid.New()
	leg := totalLeg(matchID, domain.MarketUnder, 200)
	res, err := EvaluateLeg(leg, boardWith(matchID, domain.PeriodFullTime, 2, 0), MalayRule{})
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomePush, res.Outcome)
}

func TestEvaluateLeg_OverQuarterLineHalfLost(t *testing.T) {
	matchID := uuid.New()
	// Over 2.25 with exactly two goals loses half.
	leg := totalLeg(matchID, domain.MarketOver, 225)
	res, err := EvaluateLeg(leg, boardWith(matchID, domain.PeriodFullTime, 2, 0), MalayRule{})
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeHalfLost, res.Outcome)
}

func TestEvaluateLeg_MissingScoreStaysUnsettled(t *testing.T) {
	leg := bodyLeg(uuid.New(), domain.MarketHome, -100)
	res, err := EvaluateLeg(leg, domain.ScoreBoard{}, MalayRule{})
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeUnsettled, res.Outcome)
	assert.Zero(t, res.Multiplier)
}

func TestEvaluateLeg_MissingPeriodScoreStaysUnsettled(t *testing.T) {
	matchID := uuid.New()
	// Full-time score on record, but the leg settles against half-time.
	leg := bodyLeg(matchID, domain.MarketHome, -100)
	leg.Period = domain.PeriodHalfTime
	res, err := EvaluateLeg(leg, boardWith(matchID, domain.PeriodFullTime, 2, 0), MalayRule{})
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeUnsettled, res.Outcome)
}

func TestEvaluateLeg_RejectsMismatchedMarket(t *testing.T) {
	matchID := uuid.New()
	leg := bodyLeg(matchID, domain.MarketOver, -100)
	_, err := EvaluateLeg(leg, boardWith(matchID, domain.PeriodFullTime, 2, 0), MalayRule{})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", domain.ErrorCode(err))
}
