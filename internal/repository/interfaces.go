package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/parlaybook/engine/internal/domain"
)

// DBTX abstracts pgx.Tx and pgxpool.Pool so repositories work with both.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// SlipRepository provides access to bet_slips and bet_legs.
type SlipRepository interface {
	// FindByID returns a slip with its legs.
	FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.BetSlip, error)

	// ListPendingByMatches returns all pending slips with at least one leg
	// referencing one of the given fixtures, legs included.
	ListPendingByMatches(ctx context.Context, db DBTX, matchIDs []uuid.UUID) ([]domain.BetSlip, error)

	// PendingMatchIDs returns the distinct fixtures referenced by at least
	// one pending slip. The periodic sweep uses this to retry slips left
	// behind by earlier passes.
	PendingMatchIDs(ctx context.Context, db DBTX) ([]uuid.UUID, error)

	// Insert creates a slip and its legs.
	Insert(ctx context.Context, db DBTX, slip *domain.BetSlip) error

	// SettleConditional applies the terminal status, payout, profit and
	// conditions=paidout in one conditional update that only matches while
	// status is still pending. Returns false when another pass already
	// settled the slip.
	SettleConditional(ctx context.Context, tx pgx.Tx, slipID uuid.UUID, result domain.SlipResult) (bool, error)

	// CancelConditional voids a still-pending slip. Returns false when the
	// slip already left the pending state.
	CancelConditional(ctx context.Context, tx pgx.Tx, slipID uuid.UUID) (bool, error)

	// UpdateLegOutcomes writes the settled outcome and multiplier of each leg.
	UpdateLegOutcomes(ctx context.Context, tx pgx.Tx, slipID uuid.UUID, legs []domain.BetLeg) error
}

// LedgerRepository provides atomic access to ledger_accounts.
type LedgerRepository interface {
	// FindByAccount returns the balance record for an account.
	FindByAccount(ctx context.Context, db DBTX, accountID uuid.UUID) (*domain.LedgerAccount, error)

	// Debit atomically decrements both balances iff cash_balance >= amount,
	// using server-side arithmetic. Returns ErrInsufficientBalance or
	// ErrMissingLedgerAccount accordingly.
	Debit(ctx context.Context, tx pgx.Tx, accountID uuid.UUID, amount int64) (*domain.LedgerAccount, error)

	// Credit atomically increments both balances. Returns
	// ErrMissingLedgerAccount when no balance record exists.
	Credit(ctx context.Context, tx pgx.Tx, accountID uuid.UUID, amount int64) (*domain.LedgerAccount, error)

	// InsertBalanceTransaction appends one audit entry. Returns the inserted row.
	InsertBalanceTransaction(ctx context.Context, db DBTX, bt domain.BalanceTransaction) (*domain.BalanceTransaction, error)
}

// AccountRepository provides read access to the reseller hierarchy, which is
// owned by the account-management collaborator.
type AccountRepository interface {
	// FindByID returns an account.
	FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Account, error)

	// Setting returns the commission setting owned by the account, or nil
	// when the account has none assigned.
	Setting(ctx context.Context, db DBTX, accountID uuid.UUID) (*domain.CommissionSetting, error)

	// UplineChain returns the ordered chain of uplines for an account,
	// starting at the immediate upline and ending at the top of the
	// hierarchy. The walk is bounded by domain.MaxChainDepth and fails with
	// ErrHierarchyCycle on cyclic or over-deep chains.
	UplineChain(ctx context.Context, db DBTX, accountID uuid.UUID) ([]domain.UplineEntry, error)
}

// CommissionRepository provides access to commission_transactions.
type CommissionRepository interface {
	// Insert appends one commission audit entry. Returns the inserted row.
	Insert(ctx context.Context, db DBTX, ct domain.CommissionTransaction) (*domain.CommissionTransaction, error)
}

// MatchRepository provides access to finalized match scores.
type MatchRepository interface {
	// UpsertScore stores or replaces the finalized score of one period.
	UpsertScore(ctx context.Context, db DBTX, m domain.FinalizedMatch) error

	// ScoresFor returns all stored period scores for the given fixtures.
	ScoresFor(ctx context.Context, db DBTX, matchIDs []uuid.UUID) (domain.ScoreBoard, error)
}

// OutboxRepository provides access to the event_outbox table.
type OutboxRepository interface {
	// Insert writes an outbox event (within the same transaction as the
	// mutation it describes).
	Insert(ctx context.Context, db DBTX, draft domain.OutboxDraft) error

	// FetchUnpublished returns unpublished events for the outbox poller,
	// together with their sequence ids.
	FetchUnpublished(ctx context.Context, db DBTX, limit int) ([]OutboxRow, error)

	// MarkPublished removes published events.
	MarkPublished(ctx context.Context, db DBTX, ids []int64) error
}

// OutboxRow is an outbox draft joined with its sequence id.
type OutboxRow struct {
	SeqID int64
	domain.OutboxDraft
}
