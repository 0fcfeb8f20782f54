package models

import (
	"time"

	"github.com/google/uuid"
)

type SessionStatus string

const (
	StatusNotStarted SessionStatus = "not_started"
	StatusInProgress SessionStatus = "in_progress"
	StatusCompleted  SessionStatus = "completed"
)

// Session is one interview run over a sampled, ordered question list.
// Position only moves forward; it equals len(Questions) once completed.
type Session struct {
	ID        uuid.UUID     `json:"id"`
	Questions []string      `json:"questions"`
	Position  int           `json:"position"`
	Status    SessionStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

func (s *Session) Total() int {
	return len(s.Questions)
}

func (s *Session) IsCompleted() bool {
	return s.Status == StatusCompleted
}

// Snapshot returns a copy that is safe to hand out while the session keeps changing.
func (s *Session) Snapshot() *Session {
	questions := make([]string, len(s.Questions))
	copy(questions, s.Questions)

	return &Session{
		ID:        s.ID,
		Questions: questions,
		Position:  s.Position,
		Status:    s.Status,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}
