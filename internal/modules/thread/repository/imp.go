package thread

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"slotskolan.se/forum/internal/entity"
	"slotskolan.se/forum/pkg/database"
)

// CompareAndSetAccepted moves accepted_post_id from expected to next in a single
// conditional update. It returns false when another request changed it first.
func (r *repository) CompareAndSetAccepted(ctx context.Context, id uuid.UUID, expected, next *uuid.UUID) (bool, error) {
	query := database.Conn(ctx, r.db).Model(&entity.Thread{}).Where("id = ?", id)
	if expected == nil {
		query = query.Where("accepted_post_id IS NULL")
	} else {
		query = query.Where("accepted_post_id = ?", *expected)
	}

	result := query.UpdateColumn("accepted_post_id", next)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// DeleteCascade removes reports and likes on the thread's posts, the posts and
// finally the thread. It must run inside a transaction.
func (r *repository) DeleteCascade(ctx context.Context, id uuid.UUID) error {
	db := database.Conn(ctx, r.db)
	postIDs := db.Model(&entity.Post{}).Select("id").Where("thread_id = ?", id)

	if err := db.Where("post_id IN (?)", postIDs).Delete(&entity.Report{}).Error; err != nil {
		return err
	}
	if err := db.Where("post_id IN (?)", postIDs).Delete(&entity.Like{}).Error; err != nil {
		return err
	}
	if err := db.Where("thread_id = ?", id).Delete(&entity.Post{}).Error; err != nil {
		return err
	}

	result := db.Where("id = ?", id).Delete(&entity.Thread{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
