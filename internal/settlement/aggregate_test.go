package settlement

import (
	"testing"

	"github.com/parlaybook/engine/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func settledLeg(outcome domain.LegOutcome, price int32) domain.BetLeg {
	return domain.BetLeg{
		Category:   domain.CategoryBody,
		Market:     domain.MarketHome,
		Period:     domain.PeriodFullTime,
		Price:      price,
		Outcome:    outcome,
		Multiplier: MalayRule{}.Multiplier(outcome, price),
	}
}

func TestAggregateSlip_SingleWon(t *testing.T) {
	// Stake 10.00 at +0.85: payout 18.50, profit 8.50.
	result, err := AggregateSlip(domain.BetSingle, 1000, []domain.BetLeg{settledLeg(domain.OutcomeWon, 8500)})
	require.NoError(t, err)
	assert.Equal(t, domain.SlipWon, result.Status)
	assert.Equal(t, int64(1850), result.Payout)
	assert.Equal(t, int64(850), result.Profit)
}

func TestAggregateSlip_SingleLost(t *testing.T) {
	result, err := AggregateSlip(domain.BetSingle, 1000, []domain.BetLeg{settledLeg(domain.OutcomeLost, 8500)})
	require.NoError(t, err)
	assert.Equal(t, domain.SlipLost, result.Status)
	assert.Equal(t, int64(0), result.Payout)
	assert.Equal(t, int64(-1000), result.Profit)
}

func TestAggregateSlip_SinglePushReturnsStake(t *testing.T) {
	result, err := AggregateSlip(domain.BetSingle, 1000, []domain.BetLeg{settledLeg(domain.OutcomePush, 8500)})
	require.NoError(t, err)
	assert.Equal(t, domain.SlipPush, result.Status)
	assert.Equal(t, int64(1000), result.Payout)
	assert.Equal(t, int64(0), result.Profit)
}

func TestAggregateSlip_SingleHalfWon(t *testing.T) {
	result, err := AggregateSlip(domain.BetSingle, 1000, []domain.BetLeg{settledLeg(domain.OutcomeHalfWon, 8500)})
	require.NoError(t, err)
	assert.Equal(t, domain.SlipHalfWon, result.Status)
	assert.Equal(t, int64(1425), result.Payout)
	assert.Equal(t, int64(425), result.Profit)
}

func TestAggregateSlip_SingleHalfLostNegativeOdds(t *testing.T) {
	// -0.90: half of the risk amount (1000/0.90/2 = 555) is forfeited.
	result, err := AggregateSlip(domain.BetSingle, 1000, []domain.BetLeg{settledLeg(domain.OutcomeHalfLost, -9000)})
	require.NoError(t, err)
	assert.Equal(t, domain.SlipHalfLost, result.Status)
	assert.Equal(t, int64(444), result.Payout)
	assert.Equal(t, int64(-556), result.Profit)
}

func TestAggregateSlip_ParlayAnyLostLegCollapses(t *testing.T) {
	legs := []domain.BetLeg{
		settledLeg(domain.OutcomeWon, 8500),
		settledLeg(domain.OutcomeLost, 8500),
		settledLeg(domain.OutcomeWon, 8500),
	}
	result, err := AggregateSlip(domain.BetParlay, 1000, legs)
	require.NoError(t, err)
	assert.Equal(t, domain.SlipLost, result.Status)
	assert.Equal(t, int64(0), result.Payout)
	assert.Equal(t, int64(-1000), result.Profit)
}

func TestAggregateSlip_ParlayCompoundsMultipliers(t *testing.T) {
	legs := []domain.BetLeg{
		settledLeg(domain.OutcomeWon, 8500),
		settledLeg(domain.OutcomeWon, -9000),
	}
	// 10000 * 18500/10000 * 20000/10000 = 37000; payout 3700 on stake 1000.
	result, err := AggregateSlip(domain.BetParlay, 1000, legs)
	require.NoError(t, err)
	assert.Equal(t, domain.SlipWon, result.Status)
	assert.Equal(t, int64(3700), result.Payout)
	assert.Equal(t, int64(2700), result.Profit)
}

func TestAggregateSlip_ParlayPushLegIsNeutral(t *testing.T) {
	legs := []domain.BetLeg{
		settledLeg(domain.OutcomeWon, 8500),
		settledLeg(domain.OutcomePush, 8500),
	}
	result, err := AggregateSlip(domain.BetParlay, 1000, legs)
	require.NoError(t, err)
	assert.Equal(t, domain.SlipWon, result.Status)
	assert.Equal(t, int64(1850), result.Payout)
}

func TestAggregateSlip_ParlayAllPushReturnsStake(t *testing.T) {
	legs := []domain.BetLeg{
		settledLeg(domain.OutcomePush, 8500),
		settledLeg(domain.OutcomePush, -9000),
	}
	result, err := AggregateSlip(domain.BetParlay, 1000, legs)
	require.NoError(t, err)
	assert.Equal(t, domain.SlipPush, result.Status)
	assert.Equal(t, int64(1000), result.Payout)
	assert.Equal(t, int64(0), result.Profit)
}

func TestAggregateSlip_ParlayHalfOutcomesStayWon(t *testing.T) {
	legs := []domain.BetLeg{
		settledLeg(domain.OutcomeHalfWon, 8500),
		settledLeg(domain.OutcomeHalfLost, 8500),
	}
	// 10000 * 14250/10000 = 14250, * 5000/10000 = 7125.
	result, err := AggregateSlip(domain.BetParlay, 1000, legs)
	require.NoError(t, err)
	assert.Equal(t, domain.SlipWon, result.Status)
	assert.Equal(t, int64(712), result.Payout)
	assert.Equal(t, int64(-288), result.Profit)
}

func TestAggregateSlip_ProfitAlwaysPayoutMinusStake(t *testing.T) {
	outcomes := []domain.LegOutcome{
		domain.OutcomeWon, domain.OutcomeHalfWon, domain.OutcomePush,
		domain.OutcomeHalfLost, domain.OutcomeLost,
	}
	for _, outcome := range outcomes {
		result, err := AggregateSlip(domain.BetSingle, 2500, []domain.BetLeg{settledLeg(outcome, -9000)})
		require.NoError(t, err)
		assert.Equal(t, result.Payout-2500, result.Profit, "outcome %s", outcome)
	}
}

func TestAggregateSlip_RejectsUnsettledLeg(t *testing.T) {
	_, err := AggregateSlip(domain.BetSingle, 1000, []domain.BetLeg{settledLeg(domain.OutcomeUnsettled, 8500)})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", domain.ErrorCode(err))
}

func TestAggregateSlip_RejectsWrongLegCount(t *testing.T) {
	_, err := AggregateSlip(domain.BetParlay, 1000, []domain.BetLeg{settledLeg(domain.OutcomeWon, 8500)})
	assert.Error(t, err)

	_, err = AggregateSlip(domain.BetSingle, 1000, []domain.BetLeg{
		settledLeg(domain.OutcomeWon, 8500),
		settledLeg(domain.OutcomeWon, 8500),
	})
	assert.Error(t, err)
}
