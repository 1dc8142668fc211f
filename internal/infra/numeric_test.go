package infra

import (
	"math"
	"math/big"
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumericRoundtrip_MinorUnitAmounts(t *testing.T) {
	// Stakes, payouts, commissions and negative half-lost profits.
	values := []int64{0, 1, -1, 10_000, 1_850_000, -556, 999_999_999_999_999, math.MaxInt64, math.MinInt64}
	for _, v := range values {
		got, err := NumericToInt64(Int64ToNumeric(v))
		require.NoError(t, err, "value: %d", v)
		assert.Equal(t, v, got, "value: %d", v)
	}
}

func TestNumericToInt64_NullReturnsError(t *testing.T) {
	_, err := NumericToInt64(pgtype.Numeric{Valid: false})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "NULL")
}

func TestNumericToInt64_ScalesPositiveExponent(t *testing.T) {
	// 185 * 10^4 = 1_850_000, a payout stored with a shifted exponent.
	n := pgtype.Numeric{Int: big.NewInt(185), Exp: 4, Valid: true}
	v, err := NumericToInt64(n)
	require.NoError(t, err)
	assert.Equal(t, int64(1_850_000), v)
}

func TestNumericToInt64_TruncatesFractionalDigits(t *testing.T) {
	// 1000150 * 10^-2 = 10001.50, read back as 10001 minor units.
	n := pgtype.Numeric{Int: big.NewInt(1_000_150), Exp: -2, Valid: true}
	v, err := NumericToInt64(n)
	require.NoError(t, err)
	assert.Equal(t, int64(10_001), v)
}

func TestNumericToInt64_Overflow(t *testing.T) {
	over := new(big.Int).Add(big.NewInt(math.MaxInt64), big.NewInt(1))
	_, err := NumericToInt64(pgtype.Numeric{Int: over, Exp: 0, Valid: true})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "overflows")
}

func TestNumericToInt64_ExponentOverflow(t *testing.T) {
	// Fits as mantissa but overflows once scaled up.
	n := pgtype.Numeric{Int: big.NewInt(math.MaxInt64), Exp: 2, Valid: true}
	_, err := NumericToInt64(n)
	assert.Error(t, err)
}
