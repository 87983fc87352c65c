package dto

import (
	"github.com/google/uuid"

	"slotskolan.se/forum/internal/entity"
)

type RegisterInput struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdateRoleInput struct {
	Role entity.Role `json:"role" binding:"required,oneof=USER MODERATOR ADMIN"`
}

type AuthResponse struct {
	AccessToken string          `json:"access_token"`
	TokenType   string          `json:"token_type"`
	ExpiresIn   int64           `json:"expires_in"`
	User        ProfileResponse `json:"user"`
}

type ProfileResponse struct {
	ID         uuid.UUID   `json:"id"`
	Username   string      `json:"username"`
	Role       entity.Role `json:"role"`
	Reputation int         `json:"reputation"`
	RankName   string      `json:"rank_name"`
	NextRank   string      `json:"next_rank"`
	Progress   float64     `json:"progress"`
	CreatedAt  string      `json:"created_at"`
}
