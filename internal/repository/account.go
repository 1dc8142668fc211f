package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/parlaybook/engine/internal/domain"
)

type accountRepo struct{}

// NewAccountRepository returns a pgx-backed AccountRepository.
func NewAccountRepository() AccountRepository {
	return &accountRepo{}
}

func (r *accountRepo) FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Account, error) {
	row := db.QueryRow(ctx, `
		SELECT id, username, role, upline_id, commission_setting_id, created_at
		FROM accounts WHERE id = $1`, id)
	return scanAccount(row)
}

func (r *accountRepo) Setting(ctx context.Context, db DBTX, accountID uuid.UUID) (*domain.CommissionSetting, error) {
	row := db.QueryRow(ctx, `
		SELECT cs.id, cs.hdp_ou_ft_lg, cs.hdp_ou_ft_sm, cs.hdp_ou_ht_lg, cs.hdp_ou_ht_sm,
		       cs.mix_parlay_2, cs.mix_parlay_3_8, cs.mix_parlay_9_11,
		       cs.one_x2_ft, cs.cs_ft, cs.eo_ft, cs.created_at
		FROM commission_settings cs
		JOIN accounts a ON a.commission_setting_id = cs.id
		WHERE a.id = $1`, accountID)
	return scanSetting(row)
}

// UplineChain walks the hierarchy one hop at a time. The walk stops at an
// account with a null upline; a repeated id or more than MaxChainDepth hops
// is a fatal configuration error, never an infinite loop.
func (r *accountRepo) UplineChain(ctx context.Context, db DBTX, accountID uuid.UUID) ([]domain.UplineEntry, error) {
	var chain []domain.UplineEntry
	visited := map[uuid.UUID]bool{accountID: true}

	current, err := r.FindByID(ctx, db, accountID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, domain.ErrNotFound("account", accountID.String())
	}

	for current.UplineID != nil {
		if len(chain) >= domain.MaxChainDepth {
			return nil, domain.ErrHierarchyCycle(accountID.String())
		}
		uplineID := *current.UplineID
		if visited[uplineID] {
			return nil, domain.ErrHierarchyCycle(accountID.String())
		}
		visited[uplineID] = true

		upline, err := r.FindByID(ctx, db, uplineID)
		if err != nil {
			return nil, err
		}
		if upline == nil {
			return nil, domain.ErrNotFound("upline account", uplineID.String())
		}

		setting, err := r.Setting(ctx, db, uplineID)
		if err != nil {
			return nil, err
		}

		chain = append(chain, domain.UplineEntry{
			AccountID: upline.ID,
			Role:      upline.Role,
			Setting:   setting,
		})
		current = upline
	}
	return chain, nil
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var a domain.Account
	err := row.Scan(&a.ID, &a.Username, &a.Role, &a.UplineID, &a.CommissionSettingID, &a.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan account: %w", err)
	}
	return &a, nil
}

func scanSetting(row pgx.Row) (*domain.CommissionSetting, error) {
	var s domain.CommissionSetting
	err := row.Scan(&s.ID, &s.HdpOuFtLg, &s.HdpOuFtSm, &s.HdpOuHtLg, &s.HdpOuHtSm,
		&s.MixParlay2, &s.MixParlay3to8, &s.MixParlay9to11,
		&s.OneX2Ft, &s.CsFt, &s.EoFt, &s.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan commission setting: %w", err)
	}
	return &s, nil
}
