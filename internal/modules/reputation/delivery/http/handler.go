package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	reputationService "slotskolan.se/forum/internal/modules/reputation/service"
	"slotskolan.se/forum/pkg/apperror"
	"slotskolan.se/forum/pkg/response"
)

type LeaderboardHandler struct {
	service reputationService.ReputationService
}

func NewLeaderboardHandler(service reputationService.ReputationService) *LeaderboardHandler {
	return &LeaderboardHandler{service: service}
}

func (h *LeaderboardHandler) GetLeaderboard(c *gin.Context) {
	limit := limitParam(c)

	leaderboard, err := h.service.GetLeaderboard(c.Request.Context(), limit)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": leaderboard})
}

// GetHistory lists the latest reputation changes of a user.
func (h *LeaderboardHandler) GetHistory(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		response.ResponseError(c, apperror.BadRequest("Ogiltigt användar-ID"))
		return
	}

	history, err := h.service.GetHistory(c.Request.Context(), userID, limitParam(c))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": history})
}

func limitParam(c *gin.Context) int {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if limit < 1 {
		limit = 10
	}
	if limit > 50 {
		limit = 50
	}
	return limit
}
