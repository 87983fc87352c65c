package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	statService "slotskolan.se/forum/internal/modules/stat/service"
	"slotskolan.se/forum/pkg/response"
)

type StatHandler struct {
	statService statService.StatService
}

func NewStatHandler(statService statService.StatService) *StatHandler {
	return &StatHandler{statService: statService}
}

func (h *StatHandler) GetForumStats(c *gin.Context) {
	stats, err := h.statService.GetForumStats(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
