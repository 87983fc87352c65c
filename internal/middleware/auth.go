package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"slotskolan.se/forum/internal/entity"
	userRepo "slotskolan.se/forum/internal/modules/user/repository"
	"slotskolan.se/forum/pkg/apperror"
	"slotskolan.se/forum/pkg/response"
	"slotskolan.se/forum/pkg/token"
)

const (
	ContextUserKey   = "user"
	ContextUserIDKey = "user_id"
)

type AuthMiddleware struct {
	userRepo userRepo.UserRepository
	tokens   *token.Manager
}

func NewAuthMiddleware(userRepo userRepo.UserRepository, tokens *token.Manager) *AuthMiddleware {
	return &AuthMiddleware{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

// RequireAuth rejects the request unless it carries a valid token for an existing user.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := m.authenticate(c)
		if err != nil {
			response.ResponseError(c, err)
			return
		}
		if user == nil {
			response.ResponseError(c, apperror.Unauthorized("Du måste vara inloggad"))
			return
		}

		setUser(c, user)
		c.Next()
	}
}

// OptionalAuth attaches the caller when a valid token is present and lets anonymous requests through.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := m.authenticate(c)
		if err == nil && user != nil {
			setUser(c, user)
		}
		c.Next()
	}
}

// RequireStaff must run after RequireAuth.
func (m *AuthMiddleware) RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			response.ResponseError(c, apperror.Unauthorized("Du måste vara inloggad"))
			return
		}
		if !user.Role.IsStaff() {
			response.ResponseError(c, apperror.Forbidden("Endast moderatorer har åtkomst"))
			return
		}
		c.Next()
	}
}

// RequireAdmin must run after RequireAuth.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			response.ResponseError(c, apperror.Unauthorized("Du måste vara inloggad"))
			return
		}
		if user.Role != entity.RoleAdmin {
			response.ResponseError(c, apperror.Forbidden("Endast administratörer har åtkomst"))
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated caller or nil for anonymous requests.
func CurrentUser(c *gin.Context) *entity.User {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil
	}
	user, _ := value.(*entity.User)
	return user
}

func (m *AuthMiddleware) authenticate(c *gin.Context) (*entity.User, error) {
	tokenString := ""
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			tokenString = parts[1]
		}
	}

	// Fallback to query parameter "token" (useful for WebSockets)
	if tokenString == "" {
		tokenString = c.Query("token")
	}
	if tokenString == "" {
		return nil, nil
	}

	userID, err := m.tokens.Parse(tokenString)
	if err != nil {
		return nil, apperror.Unauthorized("Ogiltig eller utgången token")
	}

	user, err := m.userRepo.FindByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Unauthorized("Användaren finns inte längre")
		}
		return nil, err
	}
	return user, nil
}

func setUser(c *gin.Context, user *entity.User) {
	c.Set(ContextUserKey, user)
	c.Set(ContextUserIDKey, user.ID.String())
}
