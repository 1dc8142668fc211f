package settlement

import (
	"testing"

	"github.com/parlaybook/engine/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPriceRule(t *testing.T) {
	rule, err := NewPriceRule("malay")
	require.NoError(t, err)
	assert.Equal(t, "malay", rule.Name())

	rule, err = NewPriceRule("flat")
	require.NoError(t, err)
	assert.Equal(t, "flat", rule.Name())

	_, err = NewPriceRule("decimal")
	assert.Error(t, err)
}

func TestMalayRule_WonPositiveOdds(t *testing.T) {
	// +0.85: a win returns stake plus stake*0.85.
	assert.Equal(t, int64(18500), MalayRule{}.Multiplier(domain.OutcomeWon, 8500))
}

func TestMalayRule_WonNegativeOdds(t *testing.T) {
	// -0.90: a win returns stake plus the full stake.
	assert.Equal(t, int64(20000), MalayRule{}.Multiplier(domain.OutcomeWon, -9000))
}

func TestMalayRule_HalfWonPositiveOdds(t *testing.T) {
	assert.Equal(t, int64(14250), MalayRule{}.Multiplier(domain.OutcomeHalfWon, 8500))
}

func TestMalayRule_HalfWonNegativeOdds(t *testing.T) {
	assert.Equal(t, int64(15000), MalayRule{}.Multiplier(domain.OutcomeHalfWon, -9000))
}

func TestMalayRule_Push(t *testing.T) {
	assert.Equal(t, int64(10000), MalayRule{}.Multiplier(domain.OutcomePush, 8500))
	assert.Equal(t, int64(10000), MalayRule{}.Multiplier(domain.OutcomePush, -9000))
}

func TestMalayRule_HalfLostPositiveOdds(t *testing.T) {
	// Half the stake is lost.
	assert.Equal(t, int64(5000), MalayRule{}.Multiplier(domain.OutcomeHalfLost, 8500))
}

func TestMalayRule_HalfLostNegativeOdds(t *testing.T) {
	// -0.90: risk is stake/0.90, half of it is lost.
	// 10000 - (10000*10000/9000)/2 = 10000 - 5555 = 4445.
	assert.Equal(t, int64(4445), MalayRule{}.Multiplier(domain.OutcomeHalfLost, -9000))
}

func TestMalayRule_Lost(t *testing.T) {
	assert.Equal(t, int64(0), MalayRule{}.Multiplier(domain.OutcomeLost, 8500))
	assert.Equal(t, int64(0), MalayRule{}.Multiplier(domain.OutcomeLost, -9000))
}

func TestMalayRule_CancelledIsNeutral(t *testing.T) {
	assert.Equal(t, int64(10000), MalayRule{}.Multiplier(domain.OutcomeCancelled, -9000))
}

func TestFlatRule_IgnoresOddsSign(t *testing.T) {
	assert.Equal(t, int64(19000), FlatRule{}.Multiplier(domain.OutcomeWon, -9000))
	assert.Equal(t, int64(19000), FlatRule{}.Multiplier(domain.OutcomeWon, 9000))
	assert.Equal(t, int64(14500), FlatRule{}.Multiplier(domain.OutcomeHalfWon, -9000))
	assert.Equal(t, int64(5000), FlatRule{}.Multiplier(domain.OutcomeHalfLost, -9000))
	assert.Equal(t, int64(0), FlatRule{}.Multiplier(domain.OutcomeLost, -9000))
}
