package handlers

import (
	"net/http"

	"github.com/classtrack/learning-service/internal/services"
	"github.com/classtrack/learning-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type GoalHandler struct {
	BaseHandler
	goalService services.GoalService
}

func NewGoalHandler(goalService services.GoalService, logger utils.Logger) *GoalHandler {
	return &GoalHandler{
		BaseHandler: NewBaseHandler(logger),
		goalService: goalService,
	}
}

// SetGoal creates or replaces the goal for (subject, period).
func (h *GoalHandler) SetGoal(c *gin.Context) {
	session := SessionFromContext(c)

	var req services.SetGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	goal, err := h.goalService.SetGoal(c.Request.Context(), session.UserID, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, goal)
}

// ListGoals returns the student's goals annotated with progress.
func (h *GoalHandler) ListGoals(c *gin.Context) {
	session := SessionFromContext(c)

	progress, err := h.goalService.GetGoalsWithProgress(c.Request.Context(), session.UserID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, progress)
}

// DeleteGoal removes one of the student's own goals.
func (h *GoalHandler) DeleteGoal(c *gin.Context) {
	session := SessionFromContext(c)

	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	if err := h.goalService.DeleteGoal(c.Request.Context(), id, session.UserID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Goal deleted"})
}
