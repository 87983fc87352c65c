package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"slotskolan.se/forum/internal/modules/category/dto"
	categoryService "slotskolan.se/forum/internal/modules/category/service"
	"slotskolan.se/forum/pkg/response"
	"slotskolan.se/forum/pkg/validator"
)

type CategoryHandler struct {
	service categoryService.CategoryService
}

func NewCategoryHandler(service categoryService.CategoryService) *CategoryHandler {
	return &CategoryHandler{service: service}
}

func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req dto.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ResponseError(c, validator.BindError(err))
		return
	}

	category, err := h.service.CreateCategory(c.Request.Context(), req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, category)
}

func (h *CategoryHandler) GetAllCategories(c *gin.Context) {
	categories, err := h.service.GetAllCategories(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": categories})
}
