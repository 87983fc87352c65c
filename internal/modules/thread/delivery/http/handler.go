package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"slotskolan.se/forum/internal/middleware"
	threadDto "slotskolan.se/forum/internal/modules/thread/dto"
	thread "slotskolan.se/forum/internal/modules/thread/service"
	"slotskolan.se/forum/pkg/apperror"
	"slotskolan.se/forum/pkg/dto"
	"slotskolan.se/forum/pkg/response"
	"slotskolan.se/forum/pkg/validator"
)

type ThreadHandler struct {
	service thread.Service
}

func NewThreadHandler(service thread.Service) *ThreadHandler {
	return &ThreadHandler{service: service}
}

func (h *ThreadHandler) CreateThread(c *gin.Context) {
	var req threadDto.CreateThreadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ResponseError(c, validator.BindError(err))
		return
	}

	res, err := h.service.CreateThread(c.Request.Context(), middleware.CurrentUser(c), req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

func (h *ThreadHandler) GetAllThreads(c *gin.Context) {
	var filter threadDto.ThreadFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.ResponseError(c, validator.BindError(err))
		return
	}

	res, err := h.service.GetAllThreads(c.Request.Context(), middleware.CurrentUser(c), filter)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *ThreadHandler) GetThread(c *gin.Context) {
	threadID, ok := threadIDParam(c)
	if !ok {
		return
	}

	var page dto.PageQuery
	if err := c.ShouldBindQuery(&page); err != nil {
		response.ResponseError(c, validator.BindError(err))
		return
	}

	res, err := h.service.GetThread(c.Request.Context(), middleware.CurrentUser(c), threadID, page)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *ThreadHandler) UpdateThread(c *gin.Context) {
	threadID, ok := threadIDParam(c)
	if !ok {
		return
	}

	var req threadDto.UpdateThreadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ResponseError(c, validator.BindError(err))
		return
	}

	res, err := h.service.UpdateThread(c.Request.Context(), middleware.CurrentUser(c), threadID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *ThreadHandler) ModerateThread(c *gin.Context) {
	threadID, ok := threadIDParam(c)
	if !ok {
		return
	}

	var req threadDto.ModerateThreadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ResponseError(c, validator.BindError(err))
		return
	}

	res, err := h.service.ModerateThread(c.Request.Context(), middleware.CurrentUser(c), threadID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *ThreadHandler) DeleteThread(c *gin.Context) {
	threadID, ok := threadIDParam(c)
	if !ok {
		return
	}

	if err := h.service.DeleteThread(c.Request.Context(), middleware.CurrentUser(c), threadID); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Tråden har tagits bort"})
}

// AcceptPost serves both PATCH and POST on /accept-post.
func (h *ThreadHandler) AcceptPost(c *gin.Context) {
	threadID, ok := threadIDParam(c)
	if !ok {
		return
	}

	var req threadDto.AcceptPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ResponseError(c, validator.BindError(err))
		return
	}

	res, err := h.service.AcceptPost(c.Request.Context(), middleware.CurrentUser(c), threadID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func threadIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("thread_id"))
	if err != nil {
		response.ResponseError(c, apperror.BadRequest("Ogiltigt tråd-ID"))
		return uuid.Nil, false
	}
	return id, true
}
