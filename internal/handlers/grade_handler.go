package handlers

import (
	"net/http"
	"strconv"

	"github.com/classtrack/learning-service/internal/repositories"
	"github.com/classtrack/learning-service/internal/services"
	"github.com/classtrack/learning-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type GradeHandler struct {
	BaseHandler
	gradeService services.GradeService
}

func NewGradeHandler(gradeService services.GradeService, logger utils.Logger) *GradeHandler {
	return &GradeHandler{
		BaseHandler:  NewBaseHandler(logger),
		gradeService: gradeService,
	}
}

// RecordGrade is the admin entry point for test results.
func (h *GradeHandler) RecordGrade(c *gin.Context) {
	var req services.RecordGradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	grade, err := h.gradeService.RecordGrade(c.Request.Context(), req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, grade)
}

// ListMyGrades returns the logged-in student's grades.
func (h *GradeHandler) ListMyGrades(c *gin.Context) {
	session := SessionFromContext(c)
	h.listGrades(c, session.UserID)
}

// ListStudentGrades returns any student's grades (admin view).
func (h *GradeHandler) ListStudentGrades(c *gin.Context) {
	studentID := c.Param("student_id")
	if studentID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid student_id"})
		return
	}
	h.listGrades(c, studentID)
}

func (h *GradeHandler) listGrades(c *gin.Context, studentID string) {
	filters := repositories.GradeFilters{}
	if subjectID, err := strconv.ParseUint(c.Query("subject_id"), 10, 64); err == nil {
		id := uint(subjectID)
		filters.SubjectID = &id
	}
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil {
		filters.Limit = limit
	}

	grades, err := h.gradeService.GetGrades(c.Request.Context(), studentID, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, grades)
}

// DeleteGrade removes a recorded grade (admin only).
func (h *GradeHandler) DeleteGrade(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	if err := h.gradeService.DeleteGrade(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Grade deleted"})
}
