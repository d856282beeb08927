/*
Package leaderboard
File: store.go
Description:
    The top ten final scores, kept in SQLite.
    A season's score is its closing balance. Only finished runs are stored;
    voyage state itself is never written to disk.
*/

package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/everforgeworks/mediterranean-merchant/internal/ids"
)

// Size is how many entries the board keeps.
const Size = 10

// maxNameLen is counted in runes.
const maxNameLen = 32

// Entry is one line of the leaderboard.
type Entry struct {
	ID    string    `json:"id"`
	RunID string    `json:"run_id"`
	Name  string    `json:"name"`
	Score int       `json:"score"`
	Date  time.Time `json:"date"`
}

type entryRow struct {
	ID        string `db:"id"`
	RunID     string `db:"run_id"`
	Name      string `db:"name"`
	Score     int    `db:"score"`
	CreatedAt string `db:"created_at"`
}

func (r entryRow) entry() Entry {
	date, _ := time.Parse(time.RFC3339, r.CreatedAt)
	return Entry{ID: r.ID, RunID: r.RunID, Name: r.Name, Score: r.Score, Date: date}
}

// Store wraps the leaderboard database.
type Store struct {
	conn *sqlx.DB
	now  func() time.Time
}

// Open opens or creates the leaderboard database at path.
func Open(path string) (*Store, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open leaderboard: %w", err)
	}

	s, err := New(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an already open connection and creates the schema.
func New(conn *sqlx.DB) (*Store, error) {
	s := &Store{conn: conn, now: time.Now}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS leaderboard (
		id TEXT PRIMARY KEY,
		run_id TEXT NOT NULL,
		name TEXT NOT NULL,
		score INTEGER NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_leaderboard_score ON leaderboard(score DESC, id);
	`
	_, err := s.conn.Exec(schema)
	return err
}

// Top returns up to n entries, best first. Ties keep the earlier entry first.
func (s *Store) Top(ctx context.Context, n int) ([]Entry, error) {
	if n <= 0 || n > Size {
		n = Size
	}

	var rows []entryRow
	err := s.conn.SelectContext(ctx, &rows,
		`SELECT id, run_id, name, score, created_at FROM leaderboard ORDER BY score DESC, id ASC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("top scores: %w", err)
	}

	entries := make([]Entry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, r.entry())
	}
	return entries, nil
}

// Qualifies reports whether score earns a place: the board has room, or the
// score beats the lowest entry.
func (s *Store) Qualifies(ctx context.Context, score int) (bool, error) {
	var stats struct {
		Count  int `db:"count"`
		Lowest int `db:"lowest"`
	}
	err := s.conn.GetContext(ctx, &stats,
		`SELECT COUNT(*) AS count, COALESCE(MIN(score), 0) AS lowest FROM leaderboard`)
	if err != nil {
		return false, fmt.Errorf("qualifies: %w", err)
	}
	if stats.Count < Size {
		return true, nil
	}
	return score > stats.Lowest, nil
}

// Add records a final score, trims the board back to Size entries and
// returns the new board.
func (s *Store) Add(ctx context.Context, e Entry) ([]Entry, error) {
	e.Name = strings.TrimSpace(e.Name)
	if e.Name == "" {
		return nil, errors.New("add score: name is required")
	}
	if utf8.RuneCountInString(e.Name) > maxNameLen {
		e.Name = string([]rune(e.Name)[:maxNameLen])
	}
	if e.ID == "" {
		e.ID = ids.New()
	}
	if e.Date.IsZero() {
		e.Date = s.now()
	}

	tx, err := s.conn.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("add score: %w", err)
	}
	defer tx.Rollback()

	// 1. Insert the new score
	_, err = tx.ExecContext(ctx,
		`INSERT INTO leaderboard (id, run_id, name, score, created_at) VALUES (?, ?, ?, ?, ?)`,
		e.ID, e.RunID, e.Name, e.Score, e.Date.UTC().Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("insert score: %w", err)
	}

	// 2. Keep only the best entries
	_, err = tx.ExecContext(ctx,
		`DELETE FROM leaderboard WHERE id NOT IN (SELECT id FROM leaderboard ORDER BY score DESC, id ASC LIMIT ?)`, Size)
	if err != nil {
		return nil, fmt.Errorf("trim leaderboard: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("add score: %w", err)
	}

	return s.Top(ctx, Size)
}
