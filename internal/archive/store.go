// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive keeps past analysis results in a SQLite database so they
// can be searched and exported later. Nothing in the ranking path reads
// from it.
package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/persona-engine/pkg/types"
)

const defaultMaxResults = 20

// Store manages the archive database.
type Store struct {
	db         *sql.DB
	maxResults int
	now        func() time.Time
}

// Run describes one archived analysis.
type Run struct {
	ID          string            `json:"id" yaml:"id"`
	CreatedAt   time.Time         `json:"created_at" yaml:"created_at"`
	Persona     string            `json:"persona" yaml:"persona"`
	Job         string            `json:"job_to_be_done" yaml:"job_to_be_done"`
	PersonaType types.PersonaType `json:"persona_type" yaml:"persona_type"`
	Documents   []string          `json:"documents" yaml:"documents"`
	Sections    int               `json:"sections" yaml:"sections"`
}

// NewStore opens or creates the archive at cfg.Path and creates the schema
// if it does not exist.
func NewStore(cfg types.ArchiveConfig) (*Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("archive path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, fmt.Errorf("creating archive directory: %w", err)
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	s := &Store{db: db, maxResults: maxResults, now: time.Now}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			created_at TEXT NOT NULL,
			persona TEXT NOT NULL,
			job TEXT NOT NULL,
			persona_type TEXT NOT NULL,
			keywords TEXT,
			documents TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS sections (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			rank INTEGER NOT NULL,
			score REAL NOT NULL,
			document TEXT NOT NULL,
			page INTEGER NOT NULL,
			title TEXT NOT NULL,
			content TEXT NOT NULL,
			type TEXT NOT NULL,
			PRIMARY KEY (run_id, rank)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sections_document ON sections(document)`,
		`CREATE INDEX IF NOT EXISTS idx_sections_type ON sections(type)`,
		`CREATE TABLE IF NOT EXISTS subsections (
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			document TEXT NOT NULL,
			page INTEGER NOT NULL,
			refined_text TEXT NOT NULL,
			explanation TEXT NOT NULL,
			PRIMARY KEY (run_id, position)
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Save stores result as a new run and returns its ID.
func (s *Store) Save(ctx context.Context, result types.Result) (string, error) {
	runID := uuid.NewString()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	docs := make([]string, len(result.Metadata.Documents))
	for i, d := range result.Metadata.Documents {
		docs[i] = d.Name
	}
	docsJSON, _ := json.Marshal(docs)
	keywordsJSON, _ := json.Marshal(result.Metadata.Keywords)

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, created_at, persona, job, persona_type, keywords, documents)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		runID, s.now().UTC().Format(time.RFC3339Nano),
		result.Metadata.Persona, result.Metadata.Job, string(result.Metadata.Profile),
		string(keywordsJSON), string(docsJSON),
	)
	if err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}

	secStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO sections (run_id, rank, score, document, page, title, content, type)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("preparing section insert: %w", err)
	}
	defer secStmt.Close()

	for _, sec := range result.Sections {
		_, err := secStmt.ExecContext(ctx,
			runID, sec.Rank, sec.Score, sec.Document, sec.Page,
			sec.Title, sec.Content, string(sec.Type),
		)
		if err != nil {
			return "", fmt.Errorf("inserting section %d: %w", sec.Rank, err)
		}
	}

	subStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO subsections (run_id, position, document, page, refined_text, explanation)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("preparing subsection insert: %w", err)
	}
	defer subStmt.Close()

	for i, sub := range result.Subsections {
		_, err := subStmt.ExecContext(ctx,
			runID, i+1, sub.Document, sub.Page, sub.RefinedText, sub.Explanation,
		)
		if err != nil {
			return "", fmt.Errorf("inserting subsection %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing run: %w", err)
	}
	return runID, nil
}

// Runs lists archived runs, newest first.
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT r.id, r.created_at, r.persona, r.job, r.persona_type, r.documents,
			(SELECT count(*) FROM sections s WHERE s.run_id = r.id)
		FROM runs r
		ORDER BY r.created_at DESC, r.id`)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r           Run
			createdAt   string
			personaType string
			docsJSON    sql.NullString
		)
		if err := rows.Scan(&r.ID, &createdAt, &r.Persona, &r.Job, &personaType, &docsJSON, &r.Sections); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.PersonaType = types.PersonaType(personaType)
		r.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		if docsJSON.Valid {
			json.Unmarshal([]byte(docsJSON.String), &r.Documents)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Subsections returns the refined excerpts stored for runID in rank order.
func (s *Store) Subsections(ctx context.Context, runID string) ([]types.RefinedSubsection, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT document, page, refined_text, explanation
		FROM subsections WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying subsections: %w", err)
	}
	defer rows.Close()

	var subs []types.RefinedSubsection
	for rows.Next() {
		var sub types.RefinedSubsection
		if err := rows.Scan(&sub.Document, &sub.Page, &sub.RefinedText, &sub.Explanation); err != nil {
			return nil, fmt.Errorf("scanning subsection: %w", err)
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}
