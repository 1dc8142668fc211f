package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/parlaybook/engine/internal/domain"
)

type matchRepo struct{}

// NewMatchRepository returns a pgx-backed MatchRepository.
func NewMatchRepository() MatchRepository {
	return &matchRepo{}
}

// UpsertScore replaces the stored score so a corrected feed wins. Settled
// slips are unaffected; only still-pending slips read scores.
func (r *matchRepo) UpsertScore(ctx context.Context, db DBTX, m domain.FinalizedMatch) error {
	_, err := db.Exec(ctx, `
		INSERT INTO match_scores (match_id, period, home_score, away_score, finalized_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (match_id, period)
		DO UPDATE SET home_score = EXCLUDED.home_score,
		              away_score = EXCLUDED.away_score,
		              finalized_at = now()`,
		m.MatchID, string(m.Period), m.HomeScore, m.AwayScore)
	if err != nil {
		return fmt.Errorf("upsert score: %w", err)
	}
	return nil
}

func (r *matchRepo) ScoresFor(ctx context.Context, db DBTX, matchIDs []uuid.UUID) (domain.ScoreBoard, error) {
	if len(matchIDs) == 0 {
		return domain.ScoreBoard{}, nil
	}
	rows, err := db.Query(ctx, `
		SELECT match_id, period, home_score, away_score
		FROM match_scores WHERE match_id = ANY($1)`, matchIDs)
	if err != nil {
		return nil, fmt.Errorf("query scores: %w", err)
	}
	defer rows.Close()

	board := domain.ScoreBoard{}
	for rows.Next() {
		var matchID uuid.UUID
		var period domain.Period
		var home, away int
		if err := rows.Scan(&matchID, &period, &home, &away); err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		board[domain.ScoreKey{MatchID: matchID, Period: period}] = domain.Score{Home: home, Away: away}
	}
	return board, rows.Err()
}
