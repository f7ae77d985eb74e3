package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/classtrack/learning-service/internal/repositories"
	"github.com/classtrack/learning-service/internal/services"
	"github.com/classtrack/learning-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type StudyLogHandler struct {
	BaseHandler
	studyLogService services.StudyLogService
}

func NewStudyLogHandler(studyLogService services.StudyLogService, logger utils.Logger) *StudyLogHandler {
	return &StudyLogHandler{
		BaseHandler:     NewBaseHandler(logger),
		studyLogService: studyLogService,
	}
}

// CreateLog records a study session for the logged-in student.
func (h *StudyLogHandler) CreateLog(c *gin.Context) {
	session := SessionFromContext(c)

	var req services.CreateStudyLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	log, err := h.studyLogService.CreateLog(c.Request.Context(), session.UserID, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, log)
}

// ListLogs returns the student's study logs, newest first by default.
func (h *StudyLogHandler) ListLogs(c *gin.Context) {
	session := SessionFromContext(c)

	filters := repositories.StudyLogFilters{
		SortOrder: c.DefaultQuery("sort", "desc"),
	}
	if subjectID, err := strconv.ParseUint(c.Query("subject_id"), 10, 64); err == nil {
		id := uint(subjectID)
		filters.SubjectID = &id
	}
	if from, err := time.Parse("2006-01-02", c.Query("from")); err == nil {
		filters.From = &from
	}
	if to, err := time.Parse("2006-01-02", c.Query("to")); err == nil {
		filters.To = &to
	}
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil {
		filters.Limit = limit
	}
	if offset, err := strconv.Atoi(c.Query("offset")); err == nil {
		filters.Offset = offset
	}

	logs, err := h.studyLogService.GetLogs(c.Request.Context(), session.UserID, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, logs)
}

// DeleteLog removes one of the student's own study logs.
func (h *StudyLogHandler) DeleteLog(c *gin.Context) {
	session := SessionFromContext(c)

	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	if err := h.studyLogService.DeleteLog(c.Request.Context(), id, session.UserID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Study log deleted"})
}
