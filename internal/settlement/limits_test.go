package settlement

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluateStakeLimits_AllowsWithinLimits(t *testing.T) {
	policy := DefaultStakeLimits()
	result := EvaluateStakeLimits(policy, 50_000, 3)
	assert.True(t, result.Allowed)
}

func TestEvaluateStakeLimits_BlocksBelowMinStake(t *testing.T) {
	policy := DefaultStakeLimits()
	result := EvaluateStakeLimits(policy, 500, 1)
	assert.False(t, result.Allowed)
	assert.Equal(t, "min_stake", result.BreachedLimit)
}

func TestEvaluateStakeLimits_BlocksAboveMaxStake(t *testing.T) {
	policy := DefaultStakeLimits()
	result := EvaluateStakeLimits(policy, 6_000_000, 1)
	assert.False(t, result.Allowed)
	assert.Equal(t, "max_stake", result.BreachedLimit)
}

func TestEvaluateStakeLimits_BlocksOversizedParlay(t *testing.T) {
	policy := DefaultStakeLimits()
	result := EvaluateStakeLimits(policy, 50_000, 12)
	assert.False(t, result.Allowed)
	assert.Equal(t, "max_parlay_leg", result.BreachedLimit)
}

func TestEvaluateStakeLimits_ZeroLimitDisablesCheck(t *testing.T) {
	result := EvaluateStakeLimits(StakeLimitPolicy{}, 1, 50)
	assert.True(t, result.Allowed)
}
