package handlers

import (
	"net/http"
	"time"

	"github.com/classtrack/learning-service/internal/services"
	"github.com/classtrack/learning-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type ReflectionHandler struct {
	BaseHandler
	reflectionService services.ReflectionService
}

func NewReflectionHandler(reflectionService services.ReflectionService, logger utils.Logger) *ReflectionHandler {
	return &ReflectionHandler{
		BaseHandler:       NewBaseHandler(logger),
		reflectionService: reflectionService,
	}
}

// SaveReflection creates or replaces today's reflection.
func (h *ReflectionHandler) SaveReflection(c *gin.Context) {
	session := SessionFromContext(c)

	var req services.SaveReflectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	reflection, err := h.reflectionService.SaveReflection(c.Request.Context(), session.UserID, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, reflection)
}

// ListReflections returns the student's reflections, newest first. With
// ?date=YYYY-MM-DD it returns the single reflection for that day.
func (h *ReflectionHandler) ListReflections(c *gin.Context) {
	session := SessionFromContext(c)

	if dateStr := c.Query("date"); dateStr != "" {
		date, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Message: "Invalid date",
				Details: "expected YYYY-MM-DD",
			})
			return
		}

		reflection, err := h.reflectionService.GetReflectionByDate(c.Request.Context(), session.UserID, date)
		if err != nil {
			h.handleServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, reflection)
		return
	}

	reflections, err := h.reflectionService.GetReflections(c.Request.Context(), session.UserID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, reflections)
}

// DeleteReflection removes one of the student's own reflections.
func (h *ReflectionHandler) DeleteReflection(c *gin.Context) {
	session := SessionFromContext(c)

	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	if err := h.reflectionService.DeleteReflection(c.Request.Context(), id, session.UserID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Reflection deleted"})
}
