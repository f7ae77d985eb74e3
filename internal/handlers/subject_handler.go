package handlers

import (
	"net/http"

	"github.com/classtrack/learning-service/internal/services"
	"github.com/classtrack/learning-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type SubjectHandler struct {
	BaseHandler
	subjectService services.SubjectService
}

func NewSubjectHandler(subjectService services.SubjectService, logger utils.Logger) *SubjectHandler {
	return &SubjectHandler{
		BaseHandler:    NewBaseHandler(logger),
		subjectService: subjectService,
	}
}

// CreateSubject adds a subject to the catalog (admin only).
func (h *SubjectHandler) CreateSubject(c *gin.Context) {
	var req services.CreateSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	subject, err := h.subjectService.CreateSubject(c.Request.Context(), req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, subject)
}

// ListSubjects returns the full subject catalog.
func (h *SubjectHandler) ListSubjects(c *gin.Context) {
	subjects, err := h.subjectService.GetSubjects(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, subjects)
}

// DeleteSubject removes a subject not referenced by any records (admin only).
func (h *SubjectHandler) DeleteSubject(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	if err := h.subjectService.DeleteSubject(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Subject deleted"})
}
