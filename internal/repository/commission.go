package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/parlaybook/engine/internal/domain"
	"github.com/parlaybook/engine/internal/infra"
)

type commissionRepo struct{}

// NewCommissionRepository returns a pgx-backed CommissionRepository.
func NewCommissionRepository() CommissionRepository {
	return &commissionRepo{}
}

func (r *commissionRepo) Insert(ctx context.Context, db DBTX, ct domain.CommissionTransaction) (*domain.CommissionTransaction, error) {
	row := db.QueryRow(ctx, `
		INSERT INTO commission_transactions
		  (account_id, slip_id, rate, amount, original_stake, field)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, account_id, slip_id, rate, amount, original_stake, field, created_at`,
		ct.AccountID, ct.SlipID, ct.Rate,
		infra.Int64ToNumeric(ct.Amount),
		infra.Int64ToNumeric(ct.OriginalStake),
		string(ct.Field),
	)
	var out domain.CommissionTransaction
	var amountNum, stakeNum pgtype.Numeric
	err := row.Scan(&out.ID, &out.AccountID, &out.SlipID, &out.Rate,
		&amountNum, &stakeNum, &out.Field, &out.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert commission transaction: %w", err)
	}
	var convErr error
	out.Amount, convErr = infra.NumericToInt64(amountNum)
	if convErr != nil {
		return nil, fmt.Errorf("convert amount: %w", convErr)
	}
	out.OriginalStake, convErr = infra.NumericToInt64(stakeNum)
	if convErr != nil {
		return nil, fmt.Errorf("convert original_stake: %w", convErr)
	}
	return &out, nil
}
