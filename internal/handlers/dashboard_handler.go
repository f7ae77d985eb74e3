package handlers

import (
	"net/http"

	"github.com/classtrack/learning-service/internal/services"
	"github.com/classtrack/learning-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	BaseHandler
	dashboardService services.DashboardService
}

func NewDashboardHandler(dashboardService services.DashboardService, logger utils.Logger) *DashboardHandler {
	return &DashboardHandler{
		BaseHandler:      NewBaseHandler(logger),
		dashboardService: dashboardService,
	}
}

// GetDashboard returns the logged-in student's home screen summary.
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	session := SessionFromContext(c)

	dashboard, err := h.dashboardService.GetStudentDashboard(c.Request.Context(), session.UserID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dashboard)
}

// GetChildSummary is the parent's read-only view of their linked child.
func (h *DashboardHandler) GetChildSummary(c *gin.Context) {
	session := SessionFromContext(c)

	if session.ChildID == nil || *session.ChildID == "" {
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "No child account linked",
		})
		return
	}

	summary, err := h.dashboardService.GetChildSummary(c.Request.Context(), *session.ChildID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
