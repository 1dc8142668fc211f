package domain

import (
	"github.com/google/uuid"
)

// Score is the final score of one period of a fixture.
type Score struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

// Total returns the combined goal count.
func (s Score) Total() int { return s.Home + s.Away }

// FinalizedMatch is one entry of the batch supplied by the data-ingestion
// collaborator once a fixture period is marked complete.
type FinalizedMatch struct {
	MatchID   uuid.UUID `json:"match_id" validate:"required"`
	Period    Period    `json:"period" validate:"required,oneof=full-time half-time"`
	HomeScore int       `json:"home_score" validate:"gte=0,lte=99"`
	AwayScore int       `json:"away_score" validate:"gte=0,lte=99"`
}

// Score returns the period score of the finalized match.
func (m FinalizedMatch) Score() Score {
	return Score{Home: m.HomeScore, Away: m.AwayScore}
}

// ScoreKey identifies a (fixture, period) pair in a score lookup.
type ScoreKey struct {
	MatchID uuid.UUID
	Period  Period
}

// ScoreBoard is an in-memory score lookup for a settlement pass. A missing
// entry means the period has not been finalized yet; the affected slip stays
// pending and is retried on a later pass.
type ScoreBoard map[ScoreKey]Score

// Lookup returns the score for the given fixture and period.
func (b ScoreBoard) Lookup(matchID uuid.UUID, period Period) (Score, bool) {
	s, ok := b[ScoreKey{MatchID: matchID, Period: period}]
	return s, ok
}
