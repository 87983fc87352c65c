package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"slotskolan.se/forum/internal/middleware"
	reportDto "slotskolan.se/forum/internal/modules/report/dto"
	report "slotskolan.se/forum/internal/modules/report/service"
	"slotskolan.se/forum/pkg/response"
	"slotskolan.se/forum/pkg/validator"
)

type ReportHandler struct {
	service report.ReportService
}

func NewReportHandler(service report.ReportService) *ReportHandler {
	return &ReportHandler{service: service}
}

func (h *ReportHandler) CreateReport(c *gin.Context) {
	var req reportDto.CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ResponseError(c, validator.BindError(err))
		return
	}

	res, err := h.service.CreateReport(c.Request.Context(), middleware.CurrentUser(c), req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

func (h *ReportHandler) GetReports(c *gin.Context) {
	var filter reportDto.ReportFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.ResponseError(c, validator.BindError(err))
		return
	}

	res, err := h.service.GetReports(c.Request.Context(), middleware.CurrentUser(c), filter)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *ReportHandler) ResolveReport(c *gin.Context) {
	var req reportDto.ResolveReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ResponseError(c, validator.BindError(err))
		return
	}

	res, err := h.service.ResolveReport(c.Request.Context(), middleware.CurrentUser(c), req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}
