package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Thread struct {
	ID         uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	CategoryID uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:idx_threads_category_slug,priority:1" json:"category_id"`
	Category   ForumCategory `gorm:"foreignKey:CategoryID" json:"-"`
	AuthorID   uuid.UUID     `gorm:"type:uuid;not null;index" json:"author_id"`
	Author     User          `gorm:"foreignKey:AuthorID" json:"-"`
	Title      string        `gorm:"size:255;not null" json:"title"`
	Slug       string        `gorm:"size:255;not null;uniqueIndex:idx_threads_category_slug,priority:2" json:"slug"`
	Content    string        `gorm:"type:text;not null" json:"content"`
	IsLocked   bool          `gorm:"not null;default:false" json:"is_locked"`
	IsSticky   bool          `gorm:"not null;default:false;index:idx_threads_listing,priority:1" json:"is_sticky"`
	// AcceptedPostID always references a post of this thread.
	AcceptedPostID *uuid.UUID `gorm:"type:uuid" json:"accepted_post_id"`
	ViewCount      int        `gorm:"not null;default:0" json:"view_count"`
	LastPostAt     time.Time  `gorm:"index:idx_threads_listing,priority:2" json:"last_post_at"`
	LastPostByID   *uuid.UUID `gorm:"type:uuid" json:"last_post_by_id"`
	LastPostBy     *User      `gorm:"foreignKey:LastPostByID" json:"-"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (t *Thread) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == uuid.Nil {
		t.ID, err = uuid.NewV7()
	}
	return
}
