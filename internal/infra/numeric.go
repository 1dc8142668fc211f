package infra

import (
	"fmt"
	"math/big"

	"github.com/jackc/pgx/v5/pgtype"
)

// NumericToInt64 reads a money column into minor units. Stakes, payouts and
// commissions are stored as numeric(18,0), so a NULL, a fractional exponent
// with lost digits, or an overflow all mean corrupt data rather than a value
// to round.
func NumericToInt64(n pgtype.Numeric) (int64, error) {
	if !n.Valid {
		return 0, fmt.Errorf("numeric value is NULL")
	}

	// pgtype.Numeric stores value as Int * 10^Exp.
	bi := new(big.Int).Set(n.Int)
	switch {
	case n.Exp > 0:
		bi.Mul(bi, pow10(int64(n.Exp)))
	case n.Exp < 0:
		// A fractional amount in a minor-unit column. Truncation here keeps
		// reads deterministic; all multiplier math already truncates.
		bi.Div(bi, pow10(int64(-n.Exp)))
	}

	if !bi.IsInt64() {
		return 0, fmt.Errorf("numeric value %s overflows int64", bi.String())
	}
	return bi.Int64(), nil
}

// Int64ToNumeric wraps a minor-unit amount for a numeric(18,0) column.
func Int64ToNumeric(v int64) pgtype.Numeric {
	return pgtype.Numeric{
		Int:              big.NewInt(v),
		Exp:              0,
		NaN:              false,
		InfinityModifier: pgtype.Finite,
		Valid:            true,
	}
}

func pow10(exp int64) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(exp), nil)
}
