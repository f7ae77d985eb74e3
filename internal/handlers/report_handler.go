package handlers

import (
	"net/http"
	"strconv"

	"github.com/classtrack/learning-service/internal/models"
	"github.com/classtrack/learning-service/internal/services"
	"github.com/classtrack/learning-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	BaseHandler
	reportService services.ReportService
	statsService  services.StatisticsService
}

func NewReportHandler(reportService services.ReportService, statsService services.StatisticsService, logger utils.Logger) *ReportHandler {
	return &ReportHandler{
		BaseHandler:   NewBaseHandler(logger),
		reportService: reportService,
		statsService:  statsService,
	}
}

// GenerateReport computes and stores a new report for the student.
func (h *ReportHandler) GenerateReport(c *gin.Context) {
	session := SessionFromContext(c)

	period := models.ReportPeriod(c.DefaultQuery("period", string(models.ReportWeekly)))
	if period != models.ReportWeekly && period != models.ReportMonthly {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid period",
			Details: "must be weekly or monthly",
		})
		return
	}

	report, err := h.reportService.GenerateReport(c.Request.Context(), session.UserID, period)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, report)
}

// ListReports returns the student's stored reports, newest first.
func (h *ReportHandler) ListReports(c *gin.Context) {
	session := SessionFromContext(c)

	limit := 10
	if l, err := strconv.Atoi(c.Query("limit")); err == nil && l > 0 {
		limit = l
	}

	reports, err := h.reportService.GetReports(c.Request.Context(), session.UserID, limit)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, reports)
}

// LatestReport returns the most recent stored report.
func (h *ReportHandler) LatestReport(c *gin.Context) {
	session := SessionFromContext(c)

	report, err := h.reportService.GetLatestReport(c.Request.Context(), session.UserID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// GetStatistics returns a live bucketed snapshot without persisting it.
func (h *ReportHandler) GetStatistics(c *gin.Context) {
	session := SessionFromContext(c)

	windowDays := models.ReportWeekly.WindowDays()
	if w, err := strconv.Atoi(c.Query("window_days")); err == nil && w > 0 && w <= 365 {
		windowDays = w
	}

	snapshot := h.statsService.ComputeStatistics(c.Request.Context(), session.UserID, windowDays)
	c.JSON(http.StatusOK, snapshot)
}
