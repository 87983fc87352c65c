package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"slotskolan.se/forum/internal/entity"
	reputation "slotskolan.se/forum/internal/modules/reputation/service"
	"slotskolan.se/forum/internal/modules/user/dto"
	"slotskolan.se/forum/internal/modules/user/repository"
	"slotskolan.se/forum/pkg/apperror"
	"slotskolan.se/forum/pkg/token"
)

type UserService interface {
	Register(ctx context.Context, input dto.RegisterInput) (*dto.AuthResponse, error)
	Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*dto.ProfileResponse, error)
	UpdateRole(ctx context.Context, actor *entity.User, userID uuid.UUID, role entity.Role) error
}

type userService struct {
	repo       repository.UserRepository
	tokens     *token.Manager
	reputation reputation.ReputationService
}

func NewUserService(repo repository.UserRepository, tokens *token.Manager, reputationService reputation.ReputationService) UserService {
	return &userService{
		repo:       repo,
		tokens:     tokens,
		reputation: reputationService,
	}
}

func (s *userService) Register(ctx context.Context, input dto.RegisterInput) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	username := strings.TrimSpace(input.Username)

	exists, err := s.repo.ExistsByEmailOrUsername(ctx, email, username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperror.Conflict("Användarnamnet eller e-postadressen används redan")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &entity.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         entity.RoleUser,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return s.buildAuthResponse(ctx, user)
}

func (s *userService) Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error) {
	user, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Unauthorized("Fel e-postadress eller lösenord")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, apperror.Unauthorized("Fel e-postadress eller lösenord")
	}

	return s.buildAuthResponse(ctx, user)
}

func (s *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*dto.ProfileResponse, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Användaren hittades inte")
		}
		return nil, err
	}

	profile := s.toProfile(ctx, user)
	return &profile, nil
}

func (s *userService) UpdateRole(ctx context.Context, actor *entity.User, userID uuid.UUID, role entity.Role) error {
	if actor == nil || actor.Role != entity.RoleAdmin {
		return apperror.Forbidden("Endast administratörer kan ändra roller")
	}
	if !role.Valid() {
		return apperror.BadRequest("Ogiltig roll")
	}
	if actor.ID == userID && role != entity.RoleAdmin {
		return apperror.BadRequest("Du kan inte ta bort din egen administratörsroll")
	}

	if err := s.repo.UpdateRole(ctx, userID, role); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("Användaren hittades inte")
		}
		return err
	}
	return nil
}

func (s *userService) buildAuthResponse(ctx context.Context, user *entity.User) (*dto.AuthResponse, error) {
	accessToken, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.tokens.TTL().Seconds()),
		User:        s.toProfile(ctx, user),
	}, nil
}

func (s *userService) toProfile(ctx context.Context, user *entity.User) dto.ProfileResponse {
	status := reputation.GetRankStatus(user.Reputation)
	if s.reputation != nil {
		status = s.reputation.GetRankStatus(ctx, user)
	}

	return dto.ProfileResponse{
		ID:         user.ID,
		Username:   user.Username,
		Role:       user.Role,
		Reputation: user.Reputation,
		RankName:   status.RankName,
		NextRank:   status.NextRank,
		Progress:   status.Progress,
		CreatedAt:  user.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
