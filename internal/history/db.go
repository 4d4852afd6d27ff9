// Package history keeps a local log of asked questions and the plans they
// translated into, backed by SQLite.
package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"shipquery/internal/model"
)

// DB is an open history database.
type DB struct {
	db *sql.DB
}

// Open opens (and if needed creates) the history database.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	table := `
	CREATE TABLE IF NOT EXISTS questions (
		id TEXT PRIMARY KEY,
		question TEXT,
		plan TEXT,
		status TEXT,
		created_at DATETIME
	);
	`
	if _, err := db.Exec(table); err != nil {
		db.Close()
		return nil, err
	}
	return &DB{db: db}, nil
}

// Close releases the database handle.
func (d *DB) Close() error {
	return d.db.Close()
}

// Entry is one logged question.
type Entry struct {
	ID        string     `json:"id"`
	Question  string     `json:"question"`
	Plan      model.Plan `json:"plan"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
}

// SaveQuestion records a translated question and its outcome status
// ("answered", "unrecognized", "failed").
func (d *DB) SaveQuestion(question string, plan model.Plan, status string) error {
	planJSON, err := json.Marshal(plan)
	if err != nil {
		return err
	}
	_, err = d.db.Exec(
		`INSERT INTO questions (id, question, plan, status, created_at) VALUES (?, ?, ?, ?, ?)`,
		uuid.New().String(), question, string(planJSON), status, time.Now().UTC(),
	)
	return err
}

// ListQuestions returns the most recent entries, newest first.
func (d *DB) ListQuestions(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := d.db.Query(
		`SELECT id, question, plan, status, created_at FROM questions ORDER BY created_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var planJSON string
		if err := rows.Scan(&e.ID, &e.Question, &planJSON, &e.Status, &e.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(planJSON), &e.Plan); err != nil {
			return nil, fmt.Errorf("corrupt plan for entry %s: %w", e.ID, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
