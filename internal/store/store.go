// Package store persists completed interview sessions in a local SQLite
// database so past verdicts can be listed after the process exits.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Irkutsk-Karas/HR-Avatar/internal/ai"

	_ "modernc.org/sqlite"
)

// Session is one stored interview outcome.
type Session struct {
	ID             int64   `json:"id"`
	Role           string  `json:"role"`
	MatchScore     float64 `json:"match_score"`
	OverallScore   int     `json:"overall_score"`
	Recommendation string  `json:"recommendation"`
	Verdict        string  `json:"verdict"`
	CreatedAt      string  `json:"created_at"`
}

// Store wraps the sessions database.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the session database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("store: mkdir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite: single writer

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: init schema: %w", err)
	}

	return &Store{db: db}, nil
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS sessions (
		id             INTEGER PRIMARY KEY AUTOINCREMENT,
		role           TEXT NOT NULL,
		match_score    REAL NOT NULL,
		overall_score  INTEGER NOT NULL,
		recommendation TEXT NOT NULL,
		verdict        TEXT NOT NULL,
		created_at     TEXT NOT NULL
	)`)
	return err
}

// Save records a completed session and returns its id.
func (s *Store) Save(ctx context.Context, role string, matchScore float64, verdict *ai.Verdict) (int64, error) {
	payload, err := json.Marshal(verdict)
	if err != nil {
		return 0, fmt.Errorf("store: marshal verdict: %w", err)
	}

	result, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (role, match_score, overall_score, recommendation, verdict, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		role, matchScore, verdict.OverallScore, verdict.Recommendation, string(payload),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("store: insert session: %w", err)
	}

	return result.LastInsertId()
}

// List returns the most recent sessions, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]Session, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, role, match_score, overall_score, recommendation, verdict, created_at
		 FROM sessions ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("store: list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var session Session
		if err := rows.Scan(
			&session.ID, &session.Role, &session.MatchScore, &session.OverallScore,
			&session.Recommendation, &session.Verdict, &session.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("store: scan session: %w", err)
		}
		sessions = append(sessions, session)
	}

	return sessions, rows.Err()
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
