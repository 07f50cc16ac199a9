// Package types provides type definitions for structured data used throughout the persona-studio system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"time"

	"github.com/google/uuid"
)

// Submission status values
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusEmpty     = "empty"
	StatusFailed    = "failed"
	StatusStale     = "stale"
)

// Submission is one generation run: its inputs and the personas it produced.
type Submission struct {
	ID          uuid.UUID    `json:"id"`
	SessionKey  string       `json:"session_key,omitempty"`
	Generation  uint64       `json:"generation"`
	Input       CompanyInput `json:"input"`
	Personas    []Persona    `json:"personas"`
	Status      string       `json:"status"`
	Advisory    string       `json:"advisory,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	CompletedAt *time.Time   `json:"completed_at,omitempty"`
}

// FindPersona returns the persona with the given ID, or nil.
func (s *Submission) FindPersona(id string) *Persona {
	for i := range s.Personas {
		if s.Personas[i].ID == id {
			return &s.Personas[i]
		}
	}
	return nil
}
