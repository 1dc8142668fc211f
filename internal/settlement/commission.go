package settlement

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/parlaybook/engine/internal/domain"
	"github.com/parlaybook/engine/internal/ledger"
	"github.com/parlaybook/engine/internal/repository"
)

// CommissionFieldFor maps a slip to the rate-table column its turnover pays
// out under. Parlays are bucketed by leg count; handicap and totals singles
// split by period and assume the large-market column.
func CommissionFieldFor(betType domain.BetType, legs []domain.BetLeg) (domain.CommissionField, error) {
	if betType == domain.BetParlay {
		switch n := len(legs); {
		case n == 2:
			return domain.FieldMixParlay2, nil
		case n >= 3 && n <= 8:
			return domain.FieldMixParlay3to8, nil
		case n >= 9 && n <= 11:
			return domain.FieldMixParlay9to11, nil
		default:
			return "", domain.ErrValidation(fmt.Sprintf("no commission bucket for %d-leg parlay", n))
		}
	}

	if len(legs) != 1 {
		return "", domain.ErrValidation("single slip must have exactly one leg")
	}
	switch legs[0].Period {
	case domain.PeriodFullTime:
		return domain.FieldHdpOuFtLg, nil
	case domain.PeriodHalfTime:
		return domain.FieldHdpOuHtLg, nil
	}
	return "", domain.ErrValidation("unknown period: " + string(legs[0].Period))
}

// Earning is one account's commission share of a slip's stake.
type Earning struct {
	AccountID uuid.UUID
	Rate      int32
	Amount    int64
	Field     domain.CommissionField
}

// ComputeEarnings walks from the betting member up the reseller chain and
// assigns each tier the spread between its own rate and the rate already
// granted below it. The member keeps its full rate; a tier whose rate does
// not exceed the running rate earns nothing but still advances the chain.
// Accounts without a commission setting are treated as rate zero.
func ComputeEarnings(field domain.CommissionField, stake int64, memberID uuid.UUID, memberSetting *domain.CommissionSetting, chain []domain.UplineEntry) []Earning {
	earnings := make([]Earning, 0, len(chain)+1)
	previous := int32(0)

	if rate := memberSetting.Rate(field); rate > 0 {
		earnings = append(earnings, Earning{
			AccountID: memberID,
			Rate:      rate,
			Amount:    stake * int64(rate) / Basis,
			Field:     field,
		})
		previous = rate
	}

	for _, entry := range chain {
		rate := entry.Setting.Rate(field)
		if spread := rate - previous; spread > 0 {
			earnings = append(earnings, Earning{
				AccountID: entry.AccountID,
				Rate:      spread,
				Amount:    stake * int64(spread) / Basis,
				Field:     field,
			})
		}
		previous = rate
	}
	return earnings
}

// Distributor pays commissions on settled stakes. Each payment is a ledger
// credit plus a commission audit row plus an outbox event, all inside the
// settlement transaction handed in by the orchestrator.
type Distributor struct {
	engine      *ledger.Engine
	accounts    repository.AccountRepository
	commissions repository.CommissionRepository
	outbox      repository.OutboxRepository
}

// NewDistributor creates a commission distributor.
func NewDistributor(engine *ledger.Engine, accounts repository.AccountRepository, commissions repository.CommissionRepository, outbox repository.OutboxRepository) *Distributor {
	return &Distributor{engine: engine, accounts: accounts, commissions: commissions, outbox: outbox}
}

// Distribute resolves the slip's commission field and upline chain and pays
// every positive share. Returns the total amount paid.
func (d *Distributor) Distribute(ctx context.Context, tx pgx.Tx, slip *domain.BetSlip) (int64, error) {
	field, err := CommissionFieldFor(slip.BetType, slip.Legs)
	if err != nil {
		return 0, err
	}

	memberSetting, err := d.accounts.Setting(ctx, tx, slip.AccountID)
	if err != nil {
		return 0, fmt.Errorf("load member commission setting: %w", err)
	}
	chain, err := d.accounts.UplineChain(ctx, tx, slip.AccountID)
	if err != nil {
		return 0, fmt.Errorf("resolve upline chain: %w", err)
	}

	var total int64
	for _, e := range ComputeEarnings(field, slip.Stake, slip.AccountID, memberSetting, chain) {
		if err := d.pay(ctx, tx, slip, e); err != nil {
			return 0, err
		}
		total += e.Amount
	}
	return total, nil
}

func (d *Distributor) pay(ctx context.Context, tx pgx.Tx, slip *domain.BetSlip, e Earning) error {
	entry, err := d.commissions.Insert(ctx, tx, domain.CommissionTransaction{
		AccountID:     e.AccountID,
		SlipID:        slip.ID,
		Rate:          e.Rate,
		Amount:        e.Amount,
		OriginalStake: slip.Stake,
		Field:         e.Field,
	})
	if err != nil {
		return fmt.Errorf("insert commission for %s: %w", e.AccountID, err)
	}

	if _, err := d.engine.Credit(ctx, tx, ledger.EntryParams{
		AccountID: e.AccountID,
		SlipID:    slip.ID,
		Type:      domain.TxCommission,
		Amount:    e.Amount,
	}); err != nil {
		return fmt.Errorf("credit commission for %s: %w", e.AccountID, err)
	}

	if err := d.outbox.Insert(ctx, tx, domain.NewCommissionPaidEvent(entry)); err != nil {
		return fmt.Errorf("insert commission event: %w", err)
	}
	return nil
}
