package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"slotskolan.se/forum/internal/middleware"
	postDto "slotskolan.se/forum/internal/modules/post/dto"
	post "slotskolan.se/forum/internal/modules/post/service"
	"slotskolan.se/forum/pkg/apperror"
	"slotskolan.se/forum/pkg/dto"
	"slotskolan.se/forum/pkg/response"
	"slotskolan.se/forum/pkg/validator"
)

type PostHandler struct {
	service post.PostService
}

func NewPostHandler(service post.PostService) *PostHandler {
	return &PostHandler{service: service}
}

func (h *PostHandler) GetPostsByThreadID(c *gin.Context) {
	threadID, err := uuid.Parse(c.Param("thread_id"))
	if err != nil {
		response.ResponseError(c, apperror.BadRequest("Ogiltigt tråd-ID"))
		return
	}

	var page dto.PageQuery
	if err := c.ShouldBindQuery(&page); err != nil {
		response.ResponseError(c, validator.BindError(err))
		return
	}

	res, err := h.service.GetPostsByThreadID(c.Request.Context(), middleware.CurrentUser(c), threadID, page)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *PostHandler) CreatePost(c *gin.Context) {
	threadID, err := uuid.Parse(c.Param("thread_id"))
	if err != nil {
		response.ResponseError(c, apperror.BadRequest("Ogiltigt tråd-ID"))
		return
	}

	var req postDto.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ResponseError(c, validator.BindError(err))
		return
	}

	res, err := h.service.CreatePost(c.Request.Context(), middleware.CurrentUser(c), threadID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

func (h *PostHandler) UpdatePost(c *gin.Context) {
	postID, err := uuid.Parse(c.Param("post_id"))
	if err != nil {
		response.ResponseError(c, apperror.BadRequest("Ogiltigt inläggs-ID"))
		return
	}

	var req postDto.UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ResponseError(c, validator.BindError(err))
		return
	}

	res, err := h.service.UpdatePost(c.Request.Context(), middleware.CurrentUser(c), postID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}
