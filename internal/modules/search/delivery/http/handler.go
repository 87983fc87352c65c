package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"slotskolan.se/forum/internal/modules/search/dto"
	searchService "slotskolan.se/forum/internal/modules/search/service"
	"slotskolan.se/forum/pkg/apperror"
	"slotskolan.se/forum/pkg/response"
	"slotskolan.se/forum/pkg/validator"
)

type SearchHandler struct {
	service searchService.SearchService
}

// NewSearchHandler accepts a nil service; the endpoint then answers 503.
func NewSearchHandler(service searchService.SearchService) *SearchHandler {
	return &SearchHandler{service: service}
}

func (h *SearchHandler) Search(c *gin.Context) {
	if h.service == nil {
		response.ResponseError(c, apperror.New(http.StatusServiceUnavailable, "Sökningen är inte tillgänglig just nu", nil))
		return
	}

	var query dto.SearchQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.ResponseError(c, validator.BindError(err))
		return
	}

	res, err := h.service.SearchThreads(c.Request.Context(), query)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}
