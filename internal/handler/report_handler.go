package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-records/internal/dto"
	"github.com/noah-isme/sma-records/internal/service"
	"github.com/noah-isme/sma-records/pkg/response"
)

// ReportHandler exposes reporting endpoints.
type ReportHandler struct {
	reports *service.ReportService
	exports *service.ExportService
}

// NewReportHandler constructs handler.
func NewReportHandler(reports *service.ReportService, exports *service.ExportService) *ReportHandler {
	return &ReportHandler{reports: reports, exports: exports}
}

// Generate godoc
// @Summary Generate report
// @Tags Reports
// @Produce json
// @Param kind path string true "attendance, grades, students or courses"
// @Success 200 {object} response.Envelope
// @Router /reports/{kind} [get]
func (h *ReportHandler) Generate(c *gin.Context) {
	report, err := h.reports.Generate(c.Request.Context(), dto.ReportKind(c.Param("kind")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// Export godoc
// @Summary Download report
// @Tags Reports
// @Produce text/csv
// @Produce application/pdf
// @Param kind path string true "attendance, grades, students or courses"
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} file
// @Router /reports/{kind}/export [get]
func (h *ReportHandler) Export(c *gin.Context) {
	format := dto.ReportFormat(c.DefaultQuery("format", string(dto.ReportFormatCSV)))
	file, err := h.exports.Export(c.Request.Context(), dto.ReportKind(c.Param("kind")), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Body)
}
