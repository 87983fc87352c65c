package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"slotskolan.se/forum/internal/middleware"
	like "slotskolan.se/forum/internal/modules/like/service"
	"slotskolan.se/forum/pkg/apperror"
	"slotskolan.se/forum/pkg/response"
)

type LikeHandler struct {
	service like.LikeService
}

func NewLikeHandler(service like.LikeService) *LikeHandler {
	return &LikeHandler{service: service}
}

func (h *LikeHandler) ToggleLike(c *gin.Context) {
	postID, err := uuid.Parse(c.Param("post_id"))
	if err != nil {
		response.ResponseError(c, apperror.BadRequest("Ogiltigt inläggs-ID"))
		return
	}

	res, err := h.service.ToggleLike(c.Request.Context(), middleware.CurrentUser(c), postID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}
