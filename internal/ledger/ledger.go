package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/parlaybook/engine/internal/domain"
	"github.com/parlaybook/engine/internal/repository"
)

// Engine provides the two foundational ledger operations, Debit and Credit.
// Both are single atomic increments with server-side arithmetic; the
// append-only audit entry and the outbox event are written in the caller's
// transaction, so no mutation can outlive an aborted settlement.
type Engine struct {
	accounts repository.LedgerRepository
	outbox   repository.OutboxRepository
}

// NewEngine creates a ledger engine with the given repositories.
func NewEngine(accounts repository.LedgerRepository, outbox repository.OutboxRepository) *Engine {
	return &Engine{accounts: accounts, outbox: outbox}
}

// EntryParams describes one ledger mutation.
type EntryParams struct {
	AccountID uuid.UUID
	SlipID    uuid.UUID
	Type      domain.BalanceTxType
	Amount    int64
}

// Debit removes amount from the account's cash and account balances. Fails
// with INSUFFICIENT_BALANCE when the cash balance cannot cover the amount,
// checked inside the same atomic statement that moves the money.
func (e *Engine) Debit(ctx context.Context, tx pgx.Tx, params EntryParams) (*domain.BalanceTransaction, error) {
	if err := domain.ValidatePositiveAmount(params.Amount); err != nil {
		return nil, err
	}

	acct, err := e.accounts.Debit(ctx, tx, params.AccountID, params.Amount)
	if err != nil {
		return nil, fmt.Errorf("debit %s: %w", params.AccountID, err)
	}

	// Before-balance derived from the same atomic update, not a prior read.
	entry, err := e.append(ctx, tx, domain.BalanceTransaction{
		AccountID:     params.AccountID,
		SlipID:        params.SlipID,
		Type:          params.Type,
		Amount:        -params.Amount,
		BalanceBefore: acct.CashBalance + params.Amount,
		BalanceAfter:  acct.CashBalance,
	})
	if err != nil {
		return nil, fmt.Errorf("debit %s: %w", params.AccountID, err)
	}
	return entry, nil
}

// Credit adds amount to the account's cash and account balances. A
// non-positive amount is a no-op returning a nil entry. A missing balance
// record fails with MISSING_LEDGER_ACCOUNT, which is fatal for the caller's
// transaction.
func (e *Engine) Credit(ctx context.Context, tx pgx.Tx, params EntryParams) (*domain.BalanceTransaction, error) {
	if params.Amount <= 0 {
		return nil, nil
	}

	acct, err := e.accounts.Credit(ctx, tx, params.AccountID, params.Amount)
	if err != nil {
		return nil, fmt.Errorf("credit %s: %w", params.AccountID, err)
	}

	entry, err := e.append(ctx, tx, domain.BalanceTransaction{
		AccountID:     params.AccountID,
		SlipID:        params.SlipID,
		Type:          params.Type,
		Amount:        params.Amount,
		BalanceBefore: acct.CashBalance - params.Amount,
		BalanceAfter:  acct.CashBalance,
	})
	if err != nil {
		return nil, fmt.Errorf("credit %s: %w", params.AccountID, err)
	}
	return entry, nil
}

func (e *Engine) append(ctx context.Context, tx pgx.Tx, bt domain.BalanceTransaction) (*domain.BalanceTransaction, error) {
	entry, err := e.accounts.InsertBalanceTransaction(ctx, tx, bt)
	if err != nil {
		return nil, err
	}
	if err := e.outbox.Insert(ctx, tx, domain.NewLedgerPostedEvent(entry)); err != nil {
		return nil, fmt.Errorf("insert outbox event: %w", err)
	}
	return entry, nil
}
