package settlement

// StakeLimitPolicy defines placement limits for a slip.
type StakeLimitPolicy struct {
	MinStake     int64 `json:"min_stake"`      // minor units
	MaxStake     int64 `json:"max_stake"`      // minor units
	MaxParlayLeg int   `json:"max_parlay_leg"` // legs per parlay
}

// DefaultStakeLimits returns the default placement limits (10.00 min stake,
// 50,000.00 max stake, 11-leg parlays).
func DefaultStakeLimits() StakeLimitPolicy {
	return StakeLimitPolicy{
		MinStake:     1_000,
		MaxStake:     5_000_000,
		MaxParlayLeg: 11,
	}
}

// LimitEvaluation holds the result of a placement limits check.
type LimitEvaluation struct {
	Allowed       bool   `json:"allowed"`
	BreachedLimit string `json:"breached_limit,omitempty"`
	LimitValue    int64  `json:"limit_value,omitempty"`
	RequestedAmt  int64  `json:"requested_amount,omitempty"`
}

// EvaluateStakeLimits checks a slip's stake and leg count against the policy.
func EvaluateStakeLimits(policy StakeLimitPolicy, stake int64, legCount int) LimitEvaluation {
	if policy.MinStake > 0 && stake < policy.MinStake {
		return LimitEvaluation{
			Allowed:       false,
			BreachedLimit: "min_stake",
			LimitValue:    policy.MinStake,
			RequestedAmt:  stake,
		}
	}

	if policy.MaxStake > 0 && stake > policy.MaxStake {
		return LimitEvaluation{
			Allowed:       false,
			BreachedLimit: "max_stake",
			LimitValue:    policy.MaxStake,
			RequestedAmt:  stake,
		}
	}

	if policy.MaxParlayLeg > 0 && legCount > policy.MaxParlayLeg {
		return LimitEvaluation{
			Allowed:       false,
			BreachedLimit: "max_parlay_leg",
			LimitValue:    int64(policy.MaxParlayLeg),
			RequestedAmt:  int64(legCount),
		}
	}

	return LimitEvaluation{Allowed: true}
}
