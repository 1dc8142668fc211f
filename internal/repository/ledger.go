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

type ledgerRepo struct{}

// NewLedgerRepository returns a pgx-backed LedgerRepository.
func NewLedgerRepository() LedgerRepository {
	return &ledgerRepo{}
}

func (r *ledgerRepo) FindByAccount(ctx context.Context, db DBTX, accountID uuid.UUID) (*domain.LedgerAccount, error) {
	row := db.QueryRow(ctx, `
		SELECT account_id, cash_balance, account_balance, created_at, updated_at
		FROM ledger_accounts WHERE account_id = $1`, accountID)
	return scanLedgerAccount(row)
}

// Debit decrements both balances with server-side arithmetic. The sufficiency
// precondition is part of the same statement, so two concurrent debits can
// never both pass on the same funds.
func (r *ledgerRepo) Debit(ctx context.Context, tx pgx.Tx, accountID uuid.UUID, amount int64) (*domain.LedgerAccount, error) {
	row := tx.QueryRow(ctx, `
		UPDATE ledger_accounts
		SET cash_balance = cash_balance - $1,
		    account_balance = account_balance - $1,
		    updated_at = now()
		WHERE account_id = $2 AND cash_balance >= $1
		RETURNING account_id, cash_balance, account_balance, created_at, updated_at`,
		infra.Int64ToNumeric(amount), accountID)
	acct, err := scanLedgerAccount(row)
	if err != nil {
		return nil, err
	}
	if acct == nil {
		exists, err := r.exists(ctx, tx, accountID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, domain.ErrMissingLedgerAccount(accountID.String())
		}
		return nil, domain.ErrInsufficientBalance()
	}
	return acct, nil
}

// Credit increments both balances with server-side arithmetic.
func (r *ledgerRepo) Credit(ctx context.Context, tx pgx.Tx, accountID uuid.UUID, amount int64) (*domain.LedgerAccount, error) {
	row := tx.QueryRow(ctx, `
		UPDATE ledger_accounts
		SET cash_balance = cash_balance + $1,
		    account_balance = account_balance + $1,
		    updated_at = now()
		WHERE account_id = $2
		RETURNING account_id, cash_balance, account_balance, created_at, updated_at`,
		infra.Int64ToNumeric(amount), accountID)
	acct, err := scanLedgerAccount(row)
	if err != nil {
		return nil, err
	}
	if acct == nil {
		return nil, domain.ErrMissingLedgerAccount(accountID.String())
	}
	return acct, nil
}

func (r *ledgerRepo) InsertBalanceTransaction(ctx context.Context, db DBTX, bt domain.BalanceTransaction) (*domain.BalanceTransaction, error) {
	row := db.QueryRow(ctx, `
		INSERT INTO balance_transactions
		  (account_id, slip_id, type, amount, balance_before, balance_after)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, account_id, slip_id, type, amount, balance_before, balance_after, created_at`,
		bt.AccountID, bt.SlipID, string(bt.Type),
		infra.Int64ToNumeric(bt.Amount),
		infra.Int64ToNumeric(bt.BalanceBefore),
		infra.Int64ToNumeric(bt.BalanceAfter),
	)
	var out domain.BalanceTransaction
	var amountNum, beforeNum, afterNum pgtype.Numeric
	err := row.Scan(&out.ID, &out.AccountID, &out.SlipID, &out.Type,
		&amountNum, &beforeNum, &afterNum, &out.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert balance transaction: %w", err)
	}
	var convErr error
	out.Amount, convErr = infra.NumericToInt64(amountNum)
	if convErr != nil {
		return nil, fmt.Errorf("convert amount: %w", convErr)
	}
	out.BalanceBefore, convErr = infra.NumericToInt64(beforeNum)
	if convErr != nil {
		return nil, fmt.Errorf("convert balance_before: %w", convErr)
	}
	out.BalanceAfter, convErr = infra.NumericToInt64(afterNum)
	if convErr != nil {
		return nil, fmt.Errorf("convert balance_after: %w", convErr)
	}
	return &out, nil
}

func (r *ledgerRepo) exists(ctx context.Context, db DBTX, accountID uuid.UUID) (bool, error) {
	var one int
	err := db.QueryRow(ctx, `SELECT 1 FROM ledger_accounts WHERE account_id = $1`, accountID).Scan(&one)
	if err != nil {
		if err == pgx.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check ledger account: %w", err)
	}
	return true, nil
}

func scanLedgerAccount(row pgx.Row) (*domain.LedgerAccount, error) {
	var a domain.LedgerAccount
	var cashNum, acctNum pgtype.Numeric
	err := row.Scan(&a.AccountID, &cashNum, &acctNum, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan ledger account: %w", err)
	}

	var convErr error
	a.CashBalance, convErr = infra.NumericToInt64(cashNum)
	if convErr != nil {
		return nil, fmt.Errorf("convert cash_balance: %w", convErr)
	}
	a.AccountBalance, convErr = infra.NumericToInt64(acctNum)
	if convErr != nil {
		return nil, fmt.Errorf("convert account_balance: %w", convErr)
	}
	return &a, nil
}
