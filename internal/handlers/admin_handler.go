package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/classtrack/learning-service/internal/models"
	"github.com/classtrack/learning-service/internal/repositories"
	"github.com/classtrack/learning-service/internal/services"
	"github.com/classtrack/learning-service/internal/utils"
	"github.com/gin-gonic/gin"
)

// AdminHandler is the account management and data exchange surface.
type AdminHandler struct {
	BaseHandler
	accountService services.AccountService
	exportService  services.ImportExportService
}

func NewAdminHandler(accountService services.AccountService, exportService services.ImportExportService, logger utils.Logger) *AdminHandler {
	return &AdminHandler{
		BaseHandler:    NewBaseHandler(logger),
		accountService: accountService,
		exportService:  exportService,
	}
}

// ===== ACCOUNT MANAGEMENT =====

func (h *AdminHandler) CreateStudent(c *gin.Context) {
	var req services.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	student, err := h.accountService.CreateStudent(c.Request.Context(), req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, student)
}

func (h *AdminHandler) BulkCreateStudents(c *gin.Context) {
	var req services.BulkCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	students, err := h.accountService.BulkCreateStudents(c.Request.Context(), req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse{
		Message: fmt.Sprintf("Created %d student accounts", len(students)),
		Data:    students,
	})
}

func (h *AdminHandler) CreateParent(c *gin.Context) {
	var req services.CreateParentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	parent, err := h.accountService.CreateParent(c.Request.Context(), req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, parent)
}

func (h *AdminHandler) CreateAdmin(c *gin.Context) {
	var req services.CreateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	admin, err := h.accountService.CreateAdmin(c.Request.Context(), req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, admin)
}

func (h *AdminHandler) ListAccounts(c *gin.Context) {
	filters := repositories.AccountFilters{
		Query: c.Query("q"),
	}
	if role := c.Query("role"); role != "" {
		r := models.UserRole(role)
		filters.Role = &r
	}
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil {
		filters.Limit = limit
	}
	if offset, err := strconv.Atoi(c.Query("offset")); err == nil {
		filters.Offset = offset
	}

	accounts, total, err := h.accountService.ListAccounts(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"accounts": accounts,
		"total":    total,
	})
}

func (h *AdminHandler) GetAccount(c *gin.Context) {
	id := c.Param("id")

	account, err := h.accountService.GetAccount(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, account)
}

func (h *AdminHandler) UpdateAccount(c *gin.Context) {
	id := c.Param("id")

	var req services.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	account, err := h.accountService.UpdateAccount(c.Request.Context(), id, req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, account)
}

// ResetPassword returns the replacement password exactly once.
func (h *AdminHandler) ResetPassword(c *gin.Context) {
	id := c.Param("id")

	password, err := h.accountService.ResetPassword(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"password": password})
}

func (h *AdminHandler) DeleteAccount(c *gin.Context) {
	id := c.Param("id")

	if err := h.accountService.DeleteAccount(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Account deleted"})
}

// ===== DATA EXCHANGE =====

// ImportStudents accepts a CSV or Excel upload of student accounts.
func (h *AdminHandler) ImportStudents(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Missing file upload",
			Details: err.Error(),
		})
		return
	}
	defer file.Close()

	result, err := h.exportService.ImportStudentsFromFile(c.Request.Context(), file, header.Filename)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *AdminHandler) ExportStudyLogs(c *gin.Context) {
	studentID := c.Param("student_id")

	data, err := h.exportService.ExportStudyLogsToCSV(c.Request.Context(), studentID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.sendFile(c, data, "text/csv", fmt.Sprintf("study_logs_%s.csv", studentID))
}

func (h *AdminHandler) ExportGrades(c *gin.Context) {
	studentID := c.Param("student_id")

	data, err := h.exportService.ExportGradesToCSV(c.Request.Context(), studentID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	h.sendFile(c, data, "text/csv", fmt.Sprintf("grades_%s.csv", studentID))
}

func (h *AdminHandler) ExportStudentSummary(c *gin.Context) {
	data, err := h.exportService.ExportStudentSummaryToExcel(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("students_%s.xlsx", time.Now().UTC().Format("2006-01-02"))
	h.sendFile(c, data, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", filename)
}

func (h *AdminHandler) sendFile(c *gin.Context, data []byte, contentType, filename string) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, data)
}
