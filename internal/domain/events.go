package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EventType enumerates all domain event types.
type EventType string

const (
	EventSlipSettled    EventType = "settlement.slip.settled"
	EventSlipCancelled  EventType = "settlement.slip.cancelled"
	EventCommissionPaid EventType = "settlement.commission.paid"
	EventLedgerPosted   EventType = "ledger.transaction.posted"
)

// AggregateType enumerates the aggregate root types for outbox events.
type AggregateType string

const (
	AggregateSlip   AggregateType = "slip"
	AggregateLedger AggregateType = "ledger"
)

// OutboxDraft is the payload written to the event_outbox table, always in the
// same transaction as the mutation it describes.
type OutboxDraft struct {
	EventID       uuid.UUID       `json:"event_id"`
	AggregateType AggregateType   `json:"aggregate_type"`
	AggregateID   string          `json:"aggregate_id"`
	EventType     EventType       `json:"event_type"`
	PartitionKey  string          `json:"partition_key"`
	Payload       json.RawMessage `json:"payload"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

// NewSlipSettledEvent creates the settlement event for a terminally settled slip.
func NewSlipSettledEvent(slip *BetSlip) OutboxDraft {
	payload, _ := json.Marshal(map[string]interface{}{
		"slip_id":    slip.ID.String(),
		"account_id": slip.AccountID.String(),
		"status":     slip.Status,
		"stake":      slip.Stake,
		"payout":     slip.Payout,
		"profit":     slip.Profit,
	})
	return OutboxDraft{
		EventID:       uuid.New(),
		AggregateType: AggregateSlip,
		AggregateID:   slip.ID.String(),
		EventType:     EventSlipSettled,
		PartitionKey:  slip.AccountID.String(),
		Payload:       payload,
		OccurredAt:    time.Now(),
	}
}

// NewSlipCancelledEvent creates the event for a voided slip whose stake was
// refunded.
func NewSlipCancelledEvent(slip *BetSlip) OutboxDraft {
	payload, _ := json.Marshal(map[string]interface{}{
		"slip_id":    slip.ID.String(),
		"account_id": slip.AccountID.String(),
		"stake":      slip.Stake,
	})
	return OutboxDraft{
		EventID:       uuid.New(),
		AggregateType: AggregateSlip,
		AggregateID:   slip.ID.String(),
		EventType:     EventSlipCancelled,
		PartitionKey:  slip.AccountID.String(),
		Payload:       payload,
		OccurredAt:    time.Now(),
	}
}

// NewCommissionPaidEvent creates the event for one commission payment.
func NewCommissionPaidEvent(ct *CommissionTransaction) OutboxDraft {
	payload, _ := json.Marshal(map[string]interface{}{
		"account_id": ct.AccountID.String(),
		"slip_id":    ct.SlipID.String(),
		"rate":       ct.Rate,
		"amount":     ct.Amount,
		"field":      ct.Field,
	})
	return OutboxDraft{
		EventID:       uuid.New(),
		AggregateType: AggregateLedger,
		AggregateID:   ct.AccountID.String(),
		EventType:     EventCommissionPaid,
		PartitionKey:  ct.AccountID.String(),
		Payload:       payload,
		OccurredAt:    time.Now(),
	}
}

// NewLedgerPostedEvent creates the audit event for one ledger mutation.
func NewLedgerPostedEvent(bt *BalanceTransaction) OutboxDraft {
	payload, _ := json.Marshal(bt)
	return OutboxDraft{
		EventID:       uuid.New(),
		AggregateType: AggregateLedger,
		AggregateID:   bt.AccountID.String(),
		EventType:     EventLedgerPosted,
		PartitionKey:  bt.AccountID.String(),
		Payload:       payload,
		OccurredAt:    time.Now(),
	}
}
