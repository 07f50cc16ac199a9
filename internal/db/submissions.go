package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/persona-studio/internal/types"
)

// SubmissionSummary is a lightweight view of a submission for listing
type SubmissionSummary struct {
	ID           uuid.UUID  `json:"id"`
	CompanyName  string     `json:"company_name"`
	Status       string     `json:"status"`
	PersonaCount int        `json:"persona_count"`
	CreatedAt    time.Time  `json:"created_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

// personaRow is one persona as stored in the personas table.
type personaRow struct {
	Position  int
	PersonaID string
	Name      string
	Content   []byte
}

func personaRows(personas []types.Persona) ([]personaRow, error) {
	rows := make([]personaRow, 0, len(personas))
	for i, p := range personas {
		content, err := json.Marshal(p)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal persona %s: %w", p.ID, err)
		}
		rows = append(rows, personaRow{Position: i, PersonaID: p.ID, Name: p.Name, Content: content})
	}
	return rows, nil
}

// SaveSubmission inserts or updates a submission and replaces its personas.
func (db *DB) SaveSubmission(ctx context.Context, s *types.Submission) error {
	input, err := json.Marshal(s.Input)
	if err != nil {
		return fmt.Errorf("failed to marshal submission input: %w", err)
	}
	rows, err := personaRows(s.Personas)
	if err != nil {
		return err
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx,
		`INSERT INTO submissions (id, session_key, generation, company_name, input, status, advisory, created_at, completed_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (id) DO UPDATE SET status = $6, advisory = $7, completed_at = $9`,
		s.ID, s.SessionKey, int64(s.Generation), s.Input.Name, input, s.Status, s.Advisory, s.CreatedAt, s.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save submission: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM personas WHERE submission_id = $1`, s.ID); err != nil {
		return fmt.Errorf("failed to clear personas: %w", err)
	}
	for _, r := range rows {
		_, err := tx.Exec(ctx,
			`INSERT INTO personas (submission_id, position, persona_id, name, content) VALUES ($1, $2, $3, $4, $5)`,
			s.ID, r.Position, r.PersonaID, r.Name, r.Content,
		)
		if err != nil {
			return fmt.Errorf("failed to save persona %s: %w", r.PersonaID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit submission: %w", err)
	}
	return nil
}

// GetSubmission retrieves a submission with its personas. It returns nil, nil when not found.
func (db *DB) GetSubmission(ctx context.Context, id uuid.UUID) (*types.Submission, error) {
	var s types.Submission
	var generation int64
	var input []byte
	err := db.pool.QueryRow(ctx,
		`SELECT id, session_key, generation, input, status, advisory, created_at, completed_at
		 FROM submissions WHERE id = $1`,
		id,
	).Scan(&s.ID, &s.SessionKey, &generation, &input, &s.Status, &s.Advisory, &s.CreatedAt, &s.CompletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	s.Generation = uint64(generation)
	if err := json.Unmarshal(input, &s.Input); err != nil {
		return nil, fmt.Errorf("failed to decode submission input: %w", err)
	}

	rows, err := db.pool.Query(ctx,
		`SELECT content FROM personas WHERE submission_id = $1 ORDER BY position ASC`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get personas: %w", err)
	}
	defer rows.Close()

	s.Personas = []types.Persona{}
	for rows.Next() {
		var content []byte
		if err := rows.Scan(&content); err != nil {
			return nil, fmt.Errorf("failed to scan persona: %w", err)
		}
		var p types.Persona
		if err := json.Unmarshal(content, &p); err != nil {
			return nil, fmt.Errorf("failed to decode persona: %w", err)
		}
		s.Personas = append(s.Personas, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read personas: %w", err)
	}
	return &s, nil
}

// ListSubmissions retrieves recent submissions, newest first
func (db *DB) ListSubmissions(ctx context.Context, limit int) ([]SubmissionSummary, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.pool.Query(ctx,
		`SELECT s.id, s.company_name, s.status, COUNT(p.position), s.created_at, s.completed_at
		 FROM submissions s LEFT JOIN personas p ON p.submission_id = s.id
		 GROUP BY s.id ORDER BY s.created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	defer rows.Close()

	summaries := []SubmissionSummary{}
	for rows.Next() {
		var sum SubmissionSummary
		if err := rows.Scan(&sum.ID, &sum.CompanyName, &sum.Status, &sum.PersonaCount, &sum.CreatedAt, &sum.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		summaries = append(summaries, sum)
	}
	return summaries, rows.Err()
}

// DeleteSubmission deletes a submission and its personas (via cascade)
func (db *DB) DeleteSubmission(ctx context.Context, id uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM submissions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete submission: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("submission not found: %s", id)
	}
	return nil
}
