package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"slotskolan.se/forum/internal/entity"
	"slotskolan.se/forum/pkg/database"
)

type ReputationRepository interface {
	// AddToUser applies reputation = reputation + delta. Missing users yield gorm.ErrRecordNotFound.
	AddToUser(ctx context.Context, userID uuid.UUID, delta int) error
	CreateLog(ctx context.Context, log *entity.ReputationLog) error
	GetTopUsers(ctx context.Context, limit int) ([]entity.User, error)
	SumSince(ctx context.Context, userIDs []uuid.UUID, since time.Time) (map[uuid.UUID]int, error)
	FindLogsByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]entity.ReputationLog, error)
}

type reputationRepository struct {
	db *gorm.DB
}

func NewReputationRepository(db *gorm.DB) ReputationRepository {
	return &reputationRepository{db: db}
}

func (r *reputationRepository) AddToUser(ctx context.Context, userID uuid.UUID, delta int) error {
	res := database.Conn(ctx, r.db).
		Model(&entity.User{}).
		Where("id = ?", userID).
		UpdateColumn("reputation", gorm.Expr("reputation + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *reputationRepository) CreateLog(ctx context.Context, log *entity.ReputationLog) error {
	return database.Conn(ctx, r.db).Create(log).Error
}

func (r *reputationRepository) GetTopUsers(ctx context.Context, limit int) ([]entity.User, error) {
	var users []entity.User
	err := database.Conn(ctx, r.db).
		Order("reputation DESC").
		Order("created_at ASC").
		Limit(limit).
		Find(&users).Error
	return users, err
}

func (r *reputationRepository) SumSince(ctx context.Context, userIDs []uuid.UUID, since time.Time) (map[uuid.UUID]int, error) {
	sums := make(map[uuid.UUID]int, len(userIDs))
	if len(userIDs) == 0 {
		return sums, nil
	}

	type row struct {
		UserID uuid.UUID
		Total  int
	}
	var rows []row

	err := database.Conn(ctx, r.db).
		Model(&entity.ReputationLog{}).
		Select("user_id, COALESCE(SUM(delta), 0) AS total").
		Where("user_id IN ? AND created_at >= ?", userIDs, since).
		Group("user_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, r := range rows {
		sums[r.UserID] = r.Total
	}
	return sums, nil
}

func (r *reputationRepository) FindLogsByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]entity.ReputationLog, error) {
	var logs []entity.ReputationLog
	err := database.Conn(ctx, r.db).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}
