package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"slotskolan.se/forum/internal/entity"
	"slotskolan.se/forum/internal/testutil"
)

func TestInsertIgnoresExistingLike(t *testing.T) {
	db := testutil.NewDB(t)
	r := &likeRepository{db: db}
	ctx := context.Background()
	userID, postID := uuid.New(), uuid.New()

	// Two requests that both passed the delete step race to insert.
	for i := 0; i < 2; i++ {
		if err := r.insert(ctx, userID, postID); err != nil {
			t.Fatalf("insert #%d: %v", i+1, err)
		}
	}
	if n := testutil.Count(t, db, &entity.Like{}, "user_id = ? AND post_id = ?", userID, postID); n != 1 {
		t.Errorf("likes = %d, want 1", n)
	}

	liked, err := r.Toggle(ctx, userID, postID)
	if err != nil || liked {
		t.Fatalf("Toggle() = %v, %v; want unliked", liked, err)
	}
	if n := testutil.Count(t, db, &entity.Like{}, ""); n != 0 {
		t.Errorf("likes after unlike = %d, want 0", n)
	}
}
