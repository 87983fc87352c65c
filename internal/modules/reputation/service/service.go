package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"slotskolan.se/forum/internal/entity"
	"slotskolan.se/forum/internal/modules/reputation/dto"
	"slotskolan.se/forum/internal/modules/reputation/repository"
	"slotskolan.se/forum/pkg/apperror"
)

// Reputation deltas applied by the forum.
const (
	DeltaPostCreated   = 1
	DeltaThreadCreated = 2
	DeltaPostAccepted  = 15
)

type ReputationService interface {
	// Adjust applies delta to the user's reputation and logs it. It joins the
	// transaction carried by ctx, so callers wrap it together with the action
	// that earned the points.
	Adjust(ctx context.Context, userID uuid.UUID, delta int, reason string, referenceID uuid.UUID) error
	GetLeaderboard(ctx context.Context, limit int) ([]dto.LeaderboardEntry, error)
	GetRankStatus(ctx context.Context, user *entity.User) dto.RankStatus
	GetHistory(ctx context.Context, userID uuid.UUID, limit int) ([]dto.LogEntry, error)
}

type reputationService struct {
	repo repository.ReputationRepository
	now  func() time.Time
}

func NewReputationService(repo repository.ReputationRepository) ReputationService {
	return &reputationService{
		repo: repo,
		now:  time.Now,
	}
}

func (s *reputationService) Adjust(ctx context.Context, userID uuid.UUID, delta int, reason string, referenceID uuid.UUID) error {
	if delta == 0 {
		return nil
	}

	if err := s.repo.AddToUser(ctx, userID, delta); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("Användaren hittades inte")
		}
		return fmt.Errorf("adjust reputation for %s: %w", userID, err)
	}

	logEntry := &entity.ReputationLog{
		UserID:      userID,
		Delta:       delta,
		Reason:      reason,
		ReferenceID: referenceID,
	}
	if err := s.repo.CreateLog(ctx, logEntry); err != nil {
		return fmt.Errorf("log reputation change for %s: %w", userID, err)
	}

	return nil
}

func (s *reputationService) GetLeaderboard(ctx context.Context, limit int) ([]dto.LeaderboardEntry, error) {
	users, err := s.repo.GetTopUsers(ctx, limit)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}

	weekly, err := s.repo.SumSince(ctx, ids, s.now().AddDate(0, 0, -7))
	if err != nil {
		return nil, err
	}

	entries := make([]dto.LeaderboardEntry, 0, len(users))
	for i, u := range users {
		entries = append(entries, dto.LeaderboardEntry{
			UserID:     u.ID,
			Username:   u.Username,
			Role:       string(u.Role),
			Position:   i + 1,
			Reputation: u.Reputation,
			RankStatus: GetRankStatusWithWeekly(u.Reputation, weekly[u.ID]),
		})
	}

	return entries, nil
}

// GetRankStatus falls back to the all-time rank when the weekly sum cannot be read.
func (s *reputationService) GetRankStatus(ctx context.Context, user *entity.User) dto.RankStatus {
	weekly, err := s.repo.SumSince(ctx, []uuid.UUID{user.ID}, s.now().AddDate(0, 0, -7))
	if err != nil {
		return GetRankStatus(user.Reputation)
	}
	return GetRankStatusWithWeekly(user.Reputation, weekly[user.ID])
}

func (s *reputationService) GetHistory(ctx context.Context, userID uuid.UUID, limit int) ([]dto.LogEntry, error) {
	logs, err := s.repo.FindLogsByUserID(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	entries := make([]dto.LogEntry, 0, len(logs))
	for _, l := range logs {
		entries = append(entries, dto.LogEntry{
			Delta:       l.Delta,
			Reason:      l.Reason,
			ReferenceID: l.ReferenceID,
			CreatedAt:   l.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	return entries, nil
}
