package settlement

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/parlaybook/engine/internal/domain"
	"github.com/parlaybook/engine/internal/ledger"
	"github.com/parlaybook/engine/internal/repository"
)

// PlaceSlipInput is the request to place one wager.
type PlaceSlipInput struct {
	AccountID uuid.UUID       `json:"account_id"`
	BetType   domain.BetType  `json:"bet_type"`
	Stake     int64           `json:"stake"`
	Legs      []domain.BetLeg `json:"legs"`
}

// Placement accepts new slips. The stake debit and the slip insert share one
// transaction so an accepted slip always has its money escrowed.
type Placement struct {
	pool     Database
	slips    repository.SlipRepository
	accounts repository.AccountRepository
	engine   *ledger.Engine
	limits   StakeLimitPolicy
	logger   *slog.Logger
}

// NewPlacement creates a placement service.
func NewPlacement(pool Database, slips repository.SlipRepository, accounts repository.AccountRepository, engine *ledger.Engine, limits StakeLimitPolicy, logger *slog.Logger) *Placement {
	return &Placement{pool: pool, slips: slips, accounts: accounts, engine: engine, limits: limits, logger: logger}
}

// PlaceSlip validates, escrows the stake and stores the slip as pending.
func (p *Placement) PlaceSlip(ctx context.Context, input PlaceSlipInput) (*domain.BetSlip, error) {
	if err := domain.ValidateSlipInput(input.BetType, input.Stake, input.Legs); err != nil {
		return nil, err
	}
	if eval := EvaluateStakeLimits(p.limits, input.Stake, len(input.Legs)); !eval.Allowed {
		return nil, domain.ErrValidation(fmt.Sprintf("%s limit breached: requested %d, limit %d",
			eval.BreachedLimit, eval.RequestedAmt, eval.LimitValue))
	}
	account, err := p.accounts.FindByID(ctx, p.pool, input.AccountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, domain.ErrNotFound("account", input.AccountID.String())
	}

	slip := &domain.BetSlip{
		ID:         uuid.New(),
		AccountID:  input.AccountID,
		BetType:    input.BetType,
		Stake:      input.Stake,
		Legs:       make([]domain.BetLeg, len(input.Legs)),
		Status:     domain.SlipPending,
		Conditions: domain.SlipAccepted,
		CreatedAt:  time.Now(),
	}
	for i, leg := range input.Legs {
		leg.SlipID = slip.ID
		leg.LegIndex = i
		leg.Outcome = domain.OutcomeUnsettled
		leg.Multiplier = 0
		slip.Legs[i] = leg
	}

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin placement tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := p.engine.Debit(ctx, tx, ledger.EntryParams{
		AccountID: slip.AccountID,
		SlipID:    slip.ID,
		Type:      domain.TxBet,
		Amount:    slip.Stake,
	}); err != nil {
		if domain.ErrorCode(err) == "INSUFFICIENT_BALANCE" {
			p.recordRejection(ctx, slip)
		}
		return nil, err
	}
	if err := p.slips.Insert(ctx, tx, slip); err != nil {
		return nil, fmt.Errorf("insert slip: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit placement: %w", err)
	}

	p.logger.Info("slip placed",
		slog.String("slip_id", slip.ID.String()),
		slog.String("account_id", slip.AccountID.String()),
		slog.String("bet_type", string(slip.BetType)),
		slog.Int64("stake", slip.Stake),
		slog.Int("legs", len(slip.Legs)),
	)
	return slip, nil
}

// recordRejection keeps an audit trail of wagers refused for lack of funds.
// The slip lands terminal with conditions=rejected and no money moved; a
// failure to record is logged and must not mask the placement error.
func (p *Placement) recordRejection(ctx context.Context, slip *domain.BetSlip) {
	slip.Status = domain.SlipCancelled
	slip.Conditions = domain.SlipRejected
	if err := p.slips.Insert(ctx, p.pool, slip); err != nil {
		p.logger.Error("record rejected slip failed",
			slog.String("slip_id", slip.ID.String()),
			slog.String("error", err.Error()),
		)
		return
	}
	p.logger.Warn("slip rejected",
		slog.String("slip_id", slip.ID.String()),
		slog.String("account_id", slip.AccountID.String()),
		slog.Int64("stake", slip.Stake),
	)
}
