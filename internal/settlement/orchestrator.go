package settlement

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/parlaybook/engine/internal/domain"
	"github.com/parlaybook/engine/internal/infra"
	"github.com/parlaybook/engine/internal/ledger"
	"github.com/parlaybook/engine/internal/repository"
	"golang.org/x/sync/errgroup"
)

// Database is the slice of pgxpool.Pool the settlement services need:
// repository reads plus transaction starts.
type Database interface {
	repository.DBTX
	Begin(ctx context.Context) (pgx.Tx, error)
}

// CommissionFailurePolicy decides what happens to a slip whose commission
// distribution fails on a broken hierarchy.
type CommissionFailurePolicy string

const (
	// PolicyAbort rolls the whole slip back so nothing is paid.
	PolicyAbort CommissionFailurePolicy = "abort"
	// PolicySkip settles the slip and pays the bettor but drops the
	// commission run for later manual repair.
	PolicySkip CommissionFailurePolicy = "skip"
)

// PassReport summarizes one settlement pass.
type PassReport struct {
	Selected   int   `json:"selected"`
	Settled    int   `json:"settled"`
	Skipped    int   `json:"skipped"`
	Conflicted int   `json:"conflicted"`
	Failed     int   `json:"failed"`
	Payout     int64 `json:"payout"`
	Commission int64 `json:"commission"`
}

// Orchestrator drives settlement passes. Pure grading runs outside any
// transaction; each slip is then committed in its own transaction so one
// failure never poisons its batch mates.
type Orchestrator struct {
	pool        Database
	slips       repository.SlipRepository
	matches     repository.MatchRepository
	outbox      repository.OutboxRepository
	engine      *ledger.Engine
	distributor *Distributor
	rule        PriceRule
	workers     int
	policy      CommissionFailurePolicy
	logger      *slog.Logger
	metrics     *infra.Metrics
}

// OrchestratorParams collects the orchestrator's dependencies.
type OrchestratorParams struct {
	Pool        Database
	Slips       repository.SlipRepository
	Matches     repository.MatchRepository
	Outbox      repository.OutboxRepository
	Engine      *ledger.Engine
	Distributor *Distributor
	Rule        PriceRule
	Workers     int
	Policy      CommissionFailurePolicy
	Logger      *slog.Logger
	Metrics     *infra.Metrics
}

// NewOrchestrator creates a settlement orchestrator.
func NewOrchestrator(p OrchestratorParams) *Orchestrator {
	if p.Workers < 1 {
		p.Workers = 1
	}
	return &Orchestrator{
		pool:        p.Pool,
		slips:       p.Slips,
		matches:     p.Matches,
		outbox:      p.Outbox,
		engine:      p.Engine,
		distributor: p.Distributor,
		rule:        p.Rule,
		workers:     p.Workers,
		policy:      p.Policy,
		logger:      p.Logger,
		metrics:     p.Metrics,
	}
}

// RunPass ingests a batch of finalized scores and settles every pending slip
// touched by them. Invalid batch entries fail the pass before any score is
// written.
func (o *Orchestrator) RunPass(ctx context.Context, batch []domain.FinalizedMatch) (*PassReport, error) {
	for i := range batch {
		if err := domain.ValidateFinalizedMatch(batch[i]); err != nil {
			return nil, fmt.Errorf("batch entry %d: %w", i, err)
		}
	}

	matchIDs := make([]uuid.UUID, 0, len(batch))
	seen := make(map[uuid.UUID]struct{}, len(batch))
	for i := range batch {
		if err := o.matches.UpsertScore(ctx, o.pool, batch[i]); err != nil {
			return nil, fmt.Errorf("upsert score for %s: %w", batch[i].MatchID, err)
		}
		if _, ok := seen[batch[i].MatchID]; !ok {
			seen[batch[i].MatchID] = struct{}{}
			matchIDs = append(matchIDs, batch[i].MatchID)
		}
	}

	return o.settleMatches(ctx, matchIDs)
}

// RunSweep settles every pending slip whose referenced fixtures already have
// scores on record. It is the periodic safety net behind RunPass.
func (o *Orchestrator) RunSweep(ctx context.Context) (*PassReport, error) {
	matchIDs, err := o.slips.PendingMatchIDs(ctx, o.pool)
	if err != nil {
		return nil, fmt.Errorf("list pending fixtures: %w", err)
	}
	return o.settleMatches(ctx, matchIDs)
}

func (o *Orchestrator) settleMatches(ctx context.Context, matchIDs []uuid.UUID) (*PassReport, error) {
	start := time.Now()
	report := &PassReport{}

	slips, err := o.slips.ListPendingByMatches(ctx, o.pool, matchIDs)
	if err != nil {
		return nil, fmt.Errorf("list pending slips: %w", err)
	}
	report.Selected = len(slips)

	// Slips may carry legs on fixtures outside the triggering batch; the
	// board must cover all of them so multi-leg parlays grade correctly.
	board, err := o.matches.ScoresFor(ctx, o.pool, legMatchIDs(slips))
	if err != nil {
		return nil, fmt.Errorf("load score board: %w", err)
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)
	for i := range slips {
		slip := &slips[i]
		g.Go(func() error {
			outcome := o.settleSlip(gctx, slip, board)
			mu.Lock()
			outcome.apply(report)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return report, err
	}

	o.metrics.PassesTotal.Inc()
	o.metrics.PassDuration.Observe(time.Since(start).Seconds())
	o.logger.Info("settlement pass complete",
		slog.Int("selected", report.Selected),
		slog.Int("settled", report.Settled),
		slog.Int("skipped", report.Skipped),
		slog.Int("conflicted", report.Conflicted),
		slog.Int("failed", report.Failed),
		slog.Int64("payout", report.Payout),
		slog.Int64("commission", report.Commission),
		slog.Duration("elapsed", time.Since(start)),
	)
	return report, nil
}

type slipOutcome struct {
	settled    bool
	skipped    bool
	conflicted bool
	failed     bool
	payout     int64
	commission int64
}

func (s slipOutcome) apply(r *PassReport) {
	if s.settled {
		r.Settled++
	}
	if s.skipped {
		r.Skipped++
	}
	if s.conflicted {
		r.Conflicted++
	}
	if s.failed {
		r.Failed++
	}
	r.Payout += s.payout
	r.Commission += s.commission
}

// settleSlip grades one slip and, when every leg has a score, commits the
// terminal state in a single transaction. Errors are contained to the slip.
func (o *Orchestrator) settleSlip(ctx context.Context, slip *domain.BetSlip, board domain.ScoreBoard) slipOutcome {
	log := o.logger.With(slog.String("slip_id", slip.ID.String()))

	for i := range slip.Legs {
		res, err := EvaluateLeg(slip.Legs[i], board, o.rule)
		if err != nil {
			log.Error("leg grading failed", slog.Int("leg", i), slog.String("error", err.Error()))
			o.metrics.SlipsFailedTotal.WithLabelValues(errorLabel(err)).Inc()
			return slipOutcome{failed: true}
		}
		if res.Outcome == domain.OutcomeUnsettled {
			// Wait state: some score is still missing, retry next pass.
			o.metrics.SlipsSkippedTotal.Inc()
			return slipOutcome{skipped: true}
		}
		slip.Legs[i].Outcome = res.Outcome
		slip.Legs[i].Multiplier = res.Multiplier
	}

	result, err := AggregateSlip(slip.BetType, slip.Stake, slip.Legs)
	if err != nil {
		log.Error("slip aggregation failed", slog.String("error", err.Error()))
		o.metrics.SlipsFailedTotal.WithLabelValues(errorLabel(err)).Inc()
		return slipOutcome{failed: true}
	}

	outcome, err := o.commitSettlement(ctx, slip, result)
	if err != nil {
		log.Error("slip settlement failed",
			slog.String("status", string(result.Status)),
			slog.String("error", err.Error()),
		)
		o.metrics.SlipsFailedTotal.WithLabelValues(errorLabel(err)).Inc()
		return slipOutcome{failed: true}
	}
	if outcome.settled {
		o.metrics.SlipsSettledTotal.WithLabelValues(string(result.Status)).Inc()
		o.metrics.PayoutAmountTotal.Add(float64(outcome.payout))
		o.metrics.CommissionTotal.Add(float64(outcome.commission))
		log.Info("slip settled",
			slog.String("status", string(result.Status)),
			slog.Int64("payout", result.Payout),
			slog.Int64("profit", result.Profit),
			slog.Int64("commission", outcome.commission),
		)
	}
	return outcome
}

func (o *Orchestrator) commitSettlement(ctx context.Context, slip *domain.BetSlip, result domain.SlipResult) (slipOutcome, error) {
	tx, err := o.pool.Begin(ctx)
	if err != nil {
		return slipOutcome{}, fmt.Errorf("begin settlement tx: %w", err)
	}
	defer tx.Rollback(ctx)

	// The conditional update is the idempotency gate: losing the race means
	// another pass owns this slip and nothing here may have side effects.
	claimed, err := o.slips.SettleConditional(ctx, tx, slip.ID, result)
	if err != nil {
		return slipOutcome{}, fmt.Errorf("settle slip: %w", err)
	}
	if !claimed {
		return slipOutcome{conflicted: true}, nil
	}

	if err := o.slips.UpdateLegOutcomes(ctx, tx, slip.ID, slip.Legs); err != nil {
		return slipOutcome{}, fmt.Errorf("update leg outcomes: %w", err)
	}

	if result.Payout > 0 {
		if _, err := o.engine.Credit(ctx, tx, ledger.EntryParams{
			AccountID: slip.AccountID,
			SlipID:    slip.ID,
			Type:      domain.TxPayout,
			Amount:    result.Payout,
		}); err != nil {
			return slipOutcome{}, fmt.Errorf("credit payout: %w", err)
		}
	}

	commission, err := o.distributeWithPolicy(ctx, tx, slip)
	if err != nil {
		return slipOutcome{}, err
	}

	slip.Status = result.Status
	slip.Payout = result.Payout
	slip.Profit = result.Profit
	if err := o.outbox.Insert(ctx, tx, domain.NewSlipSettledEvent(slip)); err != nil {
		return slipOutcome{}, fmt.Errorf("insert settlement event: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return slipOutcome{}, fmt.Errorf("commit settlement: %w", err)
	}
	return slipOutcome{settled: true, payout: result.Payout, commission: commission}, nil
}

// distributeWithPolicy runs commission distribution in a savepoint so that,
// under the skip policy, a broken hierarchy discards only the commission
// writes while the bettor's settlement commits.
func (o *Orchestrator) distributeWithPolicy(ctx context.Context, tx pgx.Tx, slip *domain.BetSlip) (int64, error) {
	sub, err := tx.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin commission savepoint: %w", err)
	}

	commission, err := o.distributor.Distribute(ctx, sub, slip)
	if err != nil {
		_ = sub.Rollback(ctx)
		if o.policy == PolicySkip {
			o.logger.Warn("commission skipped",
				slog.String("slip_id", slip.ID.String()),
				slog.String("error", err.Error()),
			)
			return 0, nil
		}
		return 0, fmt.Errorf("distribute commission: %w", err)
	}
	if err := sub.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit commission savepoint: %w", err)
	}
	return commission, nil
}

// FindSlip returns a slip with its legs.
func (o *Orchestrator) FindSlip(ctx context.Context, slipID uuid.UUID) (*domain.BetSlip, error) {
	slip, err := o.slips.FindByID(ctx, o.pool, slipID)
	if err != nil {
		return nil, err
	}
	if slip == nil {
		return nil, domain.ErrNotFound("slip", slipID.String())
	}
	return slip, nil
}

// CancelSlip voids a still-pending slip and refunds its stake. Cancelling an
// already settled slip fails with a conflict.
func (o *Orchestrator) CancelSlip(ctx context.Context, slipID uuid.UUID) (*domain.BetSlip, error) {
	slip, err := o.FindSlip(ctx, slipID)
	if err != nil {
		return nil, err
	}

	tx, err := o.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin cancel tx: %w", err)
	}
	defer tx.Rollback(ctx)

	claimed, err := o.slips.CancelConditional(ctx, tx, slip.ID)
	if err != nil {
		return nil, fmt.Errorf("cancel slip: %w", err)
	}
	if !claimed {
		return nil, domain.ErrConflict("slip is no longer pending")
	}

	for i := range slip.Legs {
		slip.Legs[i].Outcome = domain.OutcomeCancelled
		slip.Legs[i].Multiplier = Basis
	}
	if err := o.slips.UpdateLegOutcomes(ctx, tx, slip.ID, slip.Legs); err != nil {
		return nil, fmt.Errorf("update leg outcomes: %w", err)
	}

	if _, err := o.engine.Credit(ctx, tx, ledger.EntryParams{
		AccountID: slip.AccountID,
		SlipID:    slip.ID,
		Type:      domain.TxRefund,
		Amount:    slip.Stake,
	}); err != nil {
		return nil, fmt.Errorf("refund stake: %w", err)
	}

	slip.Status = domain.SlipCancelled
	slip.Payout = slip.Stake
	slip.Profit = 0
	if err := o.outbox.Insert(ctx, tx, domain.NewSlipCancelledEvent(slip)); err != nil {
		return nil, fmt.Errorf("insert cancel event: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit cancel: %w", err)
	}
	o.metrics.SlipsSettledTotal.WithLabelValues(string(domain.SlipCancelled)).Inc()
	return slip, nil
}

func errorLabel(err error) string {
	if code := domain.ErrorCode(err); code != "" {
		return code
	}
	return "INTERNAL_ERROR"
}

func legMatchIDs(slips []domain.BetSlip) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{})
	var ids []uuid.UUID
	for i := range slips {
		for j := range slips[i].Legs {
			id := slips[i].Legs[j].MatchID
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				ids = append(ids, id)
			}
		}
	}
	return ids
}
