// Package storage provides SQLite-based persistence for finished duels.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/tui-tanks/internal/games/tanks/engine"
)

// ErrIncompleteReport is returned by SaveMatch for a duel without a winner.
var ErrIncompleteReport = errors.New("storage: match report has no winner or loser")

// Store manages the SQLite database connection for match history.
type Store struct {
	db *sql.DB
}

// MatchResult is one finished duel.
type MatchResult struct {
	ID        int64
	MatchID   string
	GameID    string
	Winner    string
	Loser     string
	Turns     int
	Events    int // number of journal records stored with the match
	CreatedAt time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS matches (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			match_id TEXT NOT NULL UNIQUE,
			game_id TEXT NOT NULL,
			winner TEXT NOT NULL,
			loser TEXT NOT NULL,
			turns INTEGER NOT NULL DEFAULT 0,
			events INTEGER NOT NULL DEFAULT 0,
			journal BLOB,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_matches_game_id ON matches(game_id);
		CREATE INDEX IF NOT EXISTS idx_matches_winner ON matches(winner);
		CREATE INDEX IF NOT EXISTS idx_matches_loser ON matches(loser);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveMatch records a finished duel together with its event journal,
// msgpack-encoded. A fresh match ID is generated for every call.
func (s *Store) SaveMatch(gameID string, report engine.Report, journal []engine.Record) (MatchResult, error) {
	if report.Winner == "" || report.Loser == "" {
		return MatchResult{}, ErrIncompleteReport
	}

	blob, err := msgpack.Marshal(journal)
	if err != nil {
		return MatchResult{}, fmt.Errorf("storage: cannot encode journal: %w", err)
	}

	result := MatchResult{
		MatchID: uuid.NewString(),
		GameID:  gameID,
		Winner:  report.Winner,
		Loser:   report.Loser,
		Turns:   report.Turns,
		Events:  len(journal),
	}

	res, err := s.db.Exec(
		`INSERT INTO matches (match_id, game_id, winner, loser, turns, events, journal)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		result.MatchID, result.GameID, result.Winner, result.Loser, result.Turns, result.Events, blob,
	)
	if err != nil {
		return MatchResult{}, fmt.Errorf("storage: cannot save match: %w", err)
	}

	result.ID, err = res.LastInsertId()
	if err != nil {
		return MatchResult{}, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	result.CreatedAt = time.Now().UTC()

	return result, nil
}

// MatchByID retrieves a match by its match ID.
// Returns nil without error if no such match exists.
func (s *Store) MatchByID(matchID string) (*MatchResult, error) {
	var result MatchResult
	var createdAt any

	err := s.db.QueryRow(
		`SELECT id, match_id, game_id, winner, loser, turns, events, created_at
		 FROM matches
		 WHERE match_id = ?`,
		matchID,
	).Scan(
		&result.ID,
		&result.MatchID,
		&result.GameID,
		&result.Winner,
		&result.Loser,
		&result.Turns,
		&result.Events,
		&createdAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query match: %w", err)
	}
	result.CreatedAt = parseTime(createdAt)

	return &result, nil
}

// Journal decodes the event journal stored with a match.
// Returns nil without error if no such match exists.
func (s *Store) Journal(matchID string) ([]engine.Record, error) {
	var blob []byte
	err := s.db.QueryRow(`SELECT journal FROM matches WHERE match_id = ?`, matchID).Scan(&blob)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query journal: %w", err)
	}
	if len(blob) == 0 {
		return nil, nil
	}

	var records []engine.Record
	if err := msgpack.Unmarshal(blob, &records); err != nil {
		return nil, fmt.Errorf("storage: cannot decode journal: %w", err)
	}
	return records, nil
}

// RecentMatches retrieves the most recent matches, newest first.
// An empty gameID returns matches of every variant.
func (s *Store) RecentMatches(gameID string, limit int) ([]MatchResult, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, match_id, game_id, winner, loser, turns, events, created_at
		 FROM matches
		 WHERE ? = '' OR game_id = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		gameID, gameID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query matches: %w", err)
	}
	defer rows.Close()

	var results []MatchResult
	for rows.Next() {
		var result MatchResult
		var createdAt any

		if err := rows.Scan(
			&result.ID,
			&result.MatchID,
			&result.GameID,
			&result.Winner,
			&result.Loser,
			&result.Turns,
			&result.Events,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		result.CreatedAt = parseTime(createdAt)

		results = append(results, result)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return results, nil
}

// ClearMatches deletes all matches of the given variant.
func (s *Store) ClearMatches(gameID string) error {
	_, err := s.db.Exec("DELETE FROM matches WHERE game_id = ?", gameID)
	if err != nil {
		return fmt.Errorf("storage: cannot clear matches: %w", err)
	}
	return nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", v); err == nil {
			return parsed
		}
		if parsed, err := time.Parse(time.RFC3339, v); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
