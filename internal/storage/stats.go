package storage

import (
	"database/sql"
	"fmt"
	"time"
)

// PlayerRecord aggregates wins and losses by display name.
type PlayerRecord struct {
	Name       string
	Wins       int
	Losses     int
	LastPlayed time.Time
}

// Played returns the number of finished duels.
func (p PlayerRecord) Played() int {
	return p.Wins + p.Losses
}

// GameStats contains aggregated statistics for a variant.
type GameStats struct {
	GameID      string
	MatchCount  int
	AvgTurns    float64
	LongestDuel int
	LastPlayed  time.Time
}

// PlayerRecords returns win/loss records across all variants,
// best win count first.
func (s *Store) PlayerRecords(limit int) ([]PlayerRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT name, SUM(win), SUM(loss), MAX(created_at) FROM (
			SELECT winner AS name, 1 AS win, 0 AS loss, created_at FROM matches
			UNION ALL
			SELECT loser AS name, 0 AS win, 1 AS loss, created_at FROM matches
		 )
		 GROUP BY name
		 ORDER BY SUM(win) DESC, SUM(loss) ASC, name ASC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query player records: %w", err)
	}
	defer rows.Close()

	var records []PlayerRecord
	for rows.Next() {
		var r PlayerRecord
		var lastPlayed any
		if err := rows.Scan(&r.Name, &r.Wins, &r.Losses, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan player row: %w", err)
		}
		r.LastPlayed = parseTime(lastPlayed)
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return records, nil
}

// GetGameStats retrieves aggregated statistics for a specific variant.
func (s *Store) GetGameStats(gameID string) (*GameStats, error) {
	stats := &GameStats{GameID: gameID}

	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(AVG(turns), 0), COALESCE(MAX(turns), 0)
		 FROM matches WHERE game_id = ?`,
		gameID,
	).Scan(&stats.MatchCount, &stats.AvgTurns, &stats.LongestDuel)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get game stats: %w", err)
	}

	var lastPlayed any
	err = s.db.QueryRow(
		`SELECT created_at FROM matches WHERE game_id = ? ORDER BY created_at DESC, id DESC LIMIT 1`,
		gameID,
	).Scan(&lastPlayed)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("storage: cannot get last played: %w", err)
	}
	if err == nil {
		stats.LastPlayed = parseTime(lastPlayed)
	}

	return stats, nil
}
