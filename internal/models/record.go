package models

import (
	"time"

	"github.com/google/uuid"
)

// Record is the persisted outcome of one evaluated answer.
type Record struct {
	ID               uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	SessionID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_record_session_position" json:"session_id"`
	Position         int       `gorm:"not null;uniqueIndex:idx_record_session_position" json:"position"`
	Question         string    `gorm:"type:text;not null" json:"question"`
	Answer           string    `gorm:"type:text" json:"answer"`
	Score            int       `gorm:"not null;default:0" json:"score"`
	Feedback         string    `gorm:"type:text;not null" json:"feedback"`
	ScoreParsed      bool      `gorm:"not null;default:false" json:"score_parsed"`
	FeedbackParsed   bool      `gorm:"not null;default:false" json:"feedback_parsed"`
	EvaluationFailed bool      `gorm:"not null;default:false" json:"evaluation_failed"`
	CreatedAt        time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Record) TableName() string {
	return "interview_records"
}
