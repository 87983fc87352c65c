package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	ReasonPostCreated    = "post_created"
	ReasonThreadCreated  = "thread_created"
	ReasonPostAccepted   = "post_accepted"
	ReasonPostUnaccepted = "post_unaccepted"
)

// ReputationLog records every delta applied to users.reputation, written in the
// same transaction as the change itself.
type ReputationLog struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index:idx_reputation_user_date,priority:1" json:"user_id"`
	Delta       int       `gorm:"not null" json:"delta"`
	Reason      string    `gorm:"size:50;not null" json:"reason"`
	ReferenceID uuid.UUID `gorm:"type:uuid" json:"reference_id"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index:idx_reputation_user_date,priority:2" json:"created_at"`
}
