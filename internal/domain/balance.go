package domain

import (
	"time"

	"github.com/google/uuid"
)

// LedgerAccount is the per-account balance record (integer minor units,
// numeric(15,0) in storage). Mutated exclusively through single atomic
// increments; never read-then-written.
type LedgerAccount struct {
	AccountID      uuid.UUID `json:"account_id"`
	CashBalance    int64     `json:"cash_balance"`
	AccountBalance int64     `json:"account_balance"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// BalanceTxType enumerates ledger mutation types.
type BalanceTxType string

const (
	TxBet        BalanceTxType = "bet"
	TxPayout     BalanceTxType = "payout"
	TxRefund     BalanceTxType = "refund"
	TxCommission BalanceTxType = "commission"
)

// BalanceTransaction is an append-only audit entry for one ledger mutation.
// Before/after amounts are captured from the same atomic statement that moved
// the money, never from a separate read.
type BalanceTransaction struct {
	ID            uuid.UUID     `json:"id"`
	AccountID     uuid.UUID     `json:"account_id"`
	SlipID        uuid.UUID     `json:"slip_id"`
	Type          BalanceTxType `json:"type"`
	Amount        int64         `json:"amount"`
	BalanceBefore int64         `json:"balance_before"`
	BalanceAfter  int64         `json:"balance_after"`
	CreatedAt     time.Time     `json:"created_at"`
}

// CommissionTransaction records one commission payment to one upline level.
// Rate is the earned spread in basis points; Amount = stake * rate / 10000.
type CommissionTransaction struct {
	ID            uuid.UUID       `json:"id"`
	AccountID     uuid.UUID       `json:"account_id"`
	SlipID        uuid.UUID       `json:"slip_id"`
	Rate          int32           `json:"rate"`
	Amount        int64           `json:"amount"`
	OriginalStake int64           `json:"original_stake"`
	Field         CommissionField `json:"field"`
	CreatedAt     time.Time       `json:"created_at"`
}
