package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReportStatus string

const (
	ReportStatusPending  ReportStatus = "PENDING"
	ReportStatusResolved ReportStatus = "RESOLVED"
	ReportStatusRejected ReportStatus = "REJECTED"
)

// IsTerminal reports whether the status closes the report for good.
func (s ReportStatus) IsTerminal() bool {
	return s == ReportStatusResolved || s == ReportStatusRejected
}

type Report struct {
	ID           uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	PostID       uuid.UUID    `gorm:"type:uuid;not null;index" json:"post_id"`
	Post         Post         `gorm:"foreignKey:PostID" json:"-"`
	UserID       uuid.UUID    `gorm:"type:uuid;not null;index" json:"user_id"`
	User         User         `gorm:"foreignKey:UserID" json:"-"`
	Reason       string       `gorm:"type:text;not null" json:"reason"`
	Status       ReportStatus `gorm:"size:20;not null;default:'PENDING';index" json:"status"`
	Resolution   *string      `gorm:"type:text" json:"resolution"`
	ResolvedByID *uuid.UUID   `gorm:"type:uuid" json:"resolved_by_id"`
	ResolvedBy   *User        `gorm:"foreignKey:ResolvedByID" json:"-"`
	ResolvedAt   *time.Time   `json:"resolved_at"`
	CreatedAt    time.Time    `gorm:"autoCreateTime" json:"created_at"`
}

func (r *Report) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID, err = uuid.NewV7()
	}
	if r.Status == "" {
		r.Status = ReportStatusPending
	}
	return
}
