package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "financeiro/internal/errors"
	"financeiro/internal/services"
)

// ReportHandler serves dashboard reports.
type ReportHandler struct {
	reportService services.ReportServicer
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService services.ReportServicer) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Summary returns income, expense and fuel totals per month
// @Summary     Monthly summary
// @Description Totals and monthly averages for the last N months, up to today.
// @Tags        reports
// @Produce     json
// @Security    BearerAuth
// @Param       memberId query int false "Only this member's transactions"
// @Param       months   query int false "Number of months, 1 to 36 (default 6)"
// @Success     200 {object} dto.SummaryDTO "Summary"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /reports/summary [get]
func (h *ReportHandler) Summary(c *gin.Context) {
	memberID, err := parseQueryID(c, "memberId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	filter := services.ReportFilter{MemberID: memberID}
	if v := c.Query("months"); v != "" {
		months, convErr := strconv.Atoi(v)
		if convErr != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid months"))
			return
		}
		// The service reads zero as the default.
		if months < 1 {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "months must be between 1 and 36"))
			return
		}
		filter.Months = months
	}

	summary, err := h.reportService.Summary(c.Request.Context(), filter)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
