package handlers

import (
	"net/http"
	"strconv"

	"github.com/classtrack/learning-service/internal/models"
	"github.com/classtrack/learning-service/internal/repositories"
	"github.com/classtrack/learning-service/internal/services"
	"github.com/classtrack/learning-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type AssignmentHandler struct {
	BaseHandler
	assignmentService services.AssignmentService
}

func NewAssignmentHandler(assignmentService services.AssignmentService, logger utils.Logger) *AssignmentHandler {
	return &AssignmentHandler{
		BaseHandler:       NewBaseHandler(logger),
		assignmentService: assignmentService,
	}
}

// CreateAssignment registers an assignment for the logged-in student.
func (h *AssignmentHandler) CreateAssignment(c *gin.Context) {
	session := SessionFromContext(c)

	var req services.CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	assignment, err := h.assignmentService.CreateAssignment(c.Request.Context(), session.UserID, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, assignment)
}

// ListAssignments returns the student's assignments with optional filters.
func (h *AssignmentHandler) ListAssignments(c *gin.Context) {
	session := SessionFromContext(c)

	filters := repositories.AssignmentFilters{}
	if subjectID, err := strconv.ParseUint(c.Query("subject_id"), 10, 64); err == nil {
		id := uint(subjectID)
		filters.SubjectID = &id
	}
	if status := c.Query("status"); status != "" {
		s := models.AssignmentStatus(status)
		filters.Status = &s
	}
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil {
		filters.Limit = limit
	}
	if offset, err := strconv.Atoi(c.Query("offset")); err == nil {
		filters.Offset = offset
	}

	assignments, err := h.assignmentService.GetAssignments(c.Request.Context(), session.UserID, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, assignments)
}

// CompleteAssignment marks an assignment done; late completion is recorded.
func (h *AssignmentHandler) CompleteAssignment(c *gin.Context) {
	session := SessionFromContext(c)

	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	assignment, err := h.assignmentService.CompleteAssignment(c.Request.Context(), id, session.UserID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, assignment)
}

// DeleteAssignment removes one of the student's own assignments.
func (h *AssignmentHandler) DeleteAssignment(c *gin.Context) {
	session := SessionFromContext(c)

	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	if err := h.assignmentService.DeleteAssignment(c.Request.Context(), id, session.UserID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Assignment deleted"})
}
