package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	NotificationReplyThread  = "reply_thread"
	NotificationPostAccepted = "post_accepted"
	NotificationReportClosed = "report_closed"
)

type Notification struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;index:idx_notifications_user,priority:1" json:"user_id"` // receiver
	ActorID   uuid.UUID  `gorm:"type:uuid;not null" json:"actor_id"`
	Actor     *User      `gorm:"foreignKey:ActorID" json:"actor,omitempty"`
	Type      string     `gorm:"size:50;not null" json:"type"`
	ThreadID  *uuid.UUID `gorm:"type:uuid" json:"thread_id,omitempty"`
	PostID    *uuid.UUID `gorm:"type:uuid" json:"post_id,omitempty"`
	Message   string     `gorm:"type:text" json:"message"`
	IsRead    bool       `gorm:"not null;default:false;index:idx_notifications_user,priority:2" json:"is_read"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) (err error) {
	if n.ID == uuid.Nil {
		n.ID, err = uuid.NewV7()
	}
	return
}
