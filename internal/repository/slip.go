package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/parlaybook/engine/internal/domain"
	"github.com/parlaybook/engine/internal/infra"
)

type slipRepo struct{}

// NewSlipRepository returns a pgx-backed SlipRepository.
func NewSlipRepository() SlipRepository {
	return &slipRepo{}
}

const slipColumns = `id, account_id, bet_type, stake, status, conditions, payout, profit, created_at, settled_at`

func (r *slipRepo) FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.BetSlip, error) {
	row := db.QueryRow(ctx, `
		SELECT `+slipColumns+`
		FROM bet_slips WHERE id = $1`, id)
	slip, err := scanSlip(row)
	if err != nil || slip == nil {
		return slip, err
	}
	legs, err := r.legsFor(ctx, db, []uuid.UUID{slip.ID})
	if err != nil {
		return nil, err
	}
	slip.Legs = legs[slip.ID]
	return slip, nil
}

func (r *slipRepo) ListPendingByMatches(ctx context.Context, db DBTX, matchIDs []uuid.UUID) ([]domain.BetSlip, error) {
	if len(matchIDs) == 0 {
		return nil, nil
	}
	rows, err := db.Query(ctx, `
		SELECT DISTINCT s.id, s.account_id, s.bet_type, s.stake, s.status, s.conditions,
		       s.payout, s.profit, s.created_at, s.settled_at
		FROM bet_slips s
		JOIN bet_legs l ON l.slip_id = s.id
		WHERE s.status = 'pending' AND l.match_id = ANY($1)
		ORDER BY s.created_at ASC, s.id ASC`, matchIDs)
	if err != nil {
		return nil, fmt.Errorf("query pending slips: %w", err)
	}
	defer rows.Close()

	var slips []domain.BetSlip
	var ids []uuid.UUID
	for rows.Next() {
		slip, err := scanSlipValues(rows)
		if err != nil {
			return nil, err
		}
		slips = append(slips, *slip)
		ids = append(ids, slip.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(slips) == 0 {
		return nil, nil
	}

	legsBySlip, err := r.legsFor(ctx, db, ids)
	if err != nil {
		return nil, err
	}
	for i := range slips {
		slips[i].Legs = legsBySlip[slips[i].ID]
	}
	return slips, nil
}

func (r *slipRepo) PendingMatchIDs(ctx context.Context, db DBTX) ([]uuid.UUID, error) {
	rows, err := db.Query(ctx, `
		SELECT DISTINCT l.match_id
		FROM bet_legs l
		JOIN bet_slips s ON s.id = l.slip_id
		WHERE s.status = 'pending'`)
	if err != nil {
		return nil, fmt.Errorf("query pending match ids: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *slipRepo) Insert(ctx context.Context, db DBTX, slip *domain.BetSlip) error {
	_, err := db.Exec(ctx, `
		INSERT INTO bet_slips (id, account_id, bet_type, stake, status, conditions, payout, profit, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		slip.ID, slip.AccountID, string(slip.BetType),
		infra.Int64ToNumeric(slip.Stake),
		string(slip.Status), string(slip.Conditions),
		infra.Int64ToNumeric(slip.Payout), infra.Int64ToNumeric(slip.Profit),
		slip.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert slip: %w", err)
	}
	for _, leg := range slip.Legs {
		_, err := db.Exec(ctx, `
			INSERT INTO bet_legs (slip_id, leg_index, match_id, category, market, period, line, price, outcome, multiplier)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			slip.ID, leg.LegIndex, leg.MatchID,
			string(leg.Category), string(leg.Market), string(leg.Period),
			leg.Line, leg.Price, string(leg.Outcome), leg.Multiplier,
		)
		if err != nil {
			return fmt.Errorf("insert leg %d: %w", leg.LegIndex, err)
		}
	}
	return nil
}

// SettleConditional is the idempotency gate: the status filter makes the
// update a no-op when another pass already settled the slip, and the caller
// must then roll back without side effects.
func (r *slipRepo) SettleConditional(ctx context.Context, tx pgx.Tx, slipID uuid.UUID, result domain.SlipResult) (bool, error) {
	tag, err := tx.Exec(ctx, `
		UPDATE bet_slips
		SET status = $1, payout = $2, profit = $3, conditions = 'paidout', settled_at = now()
		WHERE id = $4 AND status = 'pending'`,
		string(result.Status),
		infra.Int64ToNumeric(result.Payout),
		infra.Int64ToNumeric(result.Profit),
		slipID,
	)
	if err != nil {
		return false, fmt.Errorf("settle slip: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *slipRepo) CancelConditional(ctx context.Context, tx pgx.Tx, slipID uuid.UUID) (bool, error) {
	tag, err := tx.Exec(ctx, `
		UPDATE bet_slips
		SET status = 'cancelled', payout = stake, profit = 0, conditions = 'paidout', settled_at = now()
		WHERE id = $1 AND status = 'pending'`, slipID)
	if err != nil {
		return false, fmt.Errorf("cancel slip: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *slipRepo) UpdateLegOutcomes(ctx context.Context, tx pgx.Tx, slipID uuid.UUID, legs []domain.BetLeg) error {
	for _, leg := range legs {
		_, err := tx.Exec(ctx, `
			UPDATE bet_legs SET outcome = $1, multiplier = $2
			WHERE slip_id = $3 AND leg_index = $4`,
			string(leg.Outcome), leg.Multiplier, slipID, leg.LegIndex)
		if err != nil {
			return fmt.Errorf("update leg %d: %w", leg.LegIndex, err)
		}
	}
	return nil
}

func (r *slipRepo) legsFor(ctx context.Context, db DBTX, slipIDs []uuid.UUID) (map[uuid.UUID][]domain.BetLeg, error) {
	rows, err := db.Query(ctx, `
		SELECT slip_id, leg_index, match_id, category, market, period, line, price, outcome, multiplier
		FROM bet_legs
		WHERE slip_id = ANY($1)
		ORDER BY slip_id, leg_index ASC`, slipIDs)
	if err != nil {
		return nil, fmt.Errorf("query legs: %w", err)
	}
	defer rows.Close()

	legs := make(map[uuid.UUID][]domain.BetLeg)
	for rows.Next() {
		var l domain.BetLeg
		if err := rows.Scan(&l.SlipID, &l.LegIndex, &l.MatchID, &l.Category, &l.Market,
			&l.Period, &l.Line, &l.Price, &l.Outcome, &l.Multiplier); err != nil {
			return nil, fmt.Errorf("scan leg: %w", err)
		}
		legs[l.SlipID] = append(legs[l.SlipID], l)
	}
	return legs, rows.Err()
}

func scanSlip(row pgx.Row) (*domain.BetSlip, error) {
	var s domain.BetSlip
	var stakeNum, payoutNum, profitNum pgtype.Numeric
	err := row.Scan(&s.ID, &s.AccountID, &s.BetType, &stakeNum, &s.Status, &s.Conditions,
		&payoutNum, &profitNum, &s.CreatedAt, &s.SettledAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan slip: %w", err)
	}
	return convertSlip(&s, stakeNum, payoutNum, profitNum)
}

func scanSlipValues(rows pgx.Rows) (*domain.BetSlip, error) {
	var s domain.BetSlip
	var stakeNum, payoutNum, profitNum pgtype.Numeric
	err := rows.Scan(&s.ID, &s.AccountID, &s.BetType, &stakeNum, &s.Status, &s.Conditions,
		&payoutNum, &profitNum, &s.CreatedAt, &s.SettledAt)
	if err != nil {
		return nil, fmt.Errorf("scan slip row: %w", err)
	}
	return convertSlip(&s, stakeNum, payoutNum, profitNum)
}

func convertSlip(s *domain.BetSlip, stakeNum, payoutNum, profitNum pgtype.Numeric) (*domain.BetSlip, error) {
	var convErr error
	s.Stake, convErr = infra.NumericToInt64(stakeNum)
	if convErr != nil {
		return nil, fmt.Errorf("convert stake: %w", convErr)
	}
	s.Payout, convErr = infra.NumericToInt64(payoutNum)
	if convErr != nil {
		return nil, fmt.Errorf("convert payout: %w", convErr)
	}
	s.Profit, convErr = infra.NumericToInt64(profitNum)
	if convErr != nil {
		return nil, fmt.Errorf("convert profit: %w", convErr)
	}
	return s, nil
}
