package services

import (
	"errors"
	"fmt"

	apperrors "github.com/classtrack/learning-service/internal/errors"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrNotFound         = errors.New("resource not found")
	ErrUnauthorized     = errors.New("unauthorized access")
	ErrForbidden        = errors.New("forbidden - insufficient permissions")
	ErrValidationFailed = errors.New("validation failed")
	ErrInternalError    = errors.New("internal server error")
	ErrBadRequest       = errors.New("bad request")
	ErrConflict         = errors.New("resource conflict")

	// Auth specific errors
	ErrInvalidCredentials = errors.New("invalid user id or password")
	ErrSessionExpired     = errors.New("session expired or not found")

	// User/account specific errors
	ErrUserNotFound    = errors.New("user not found")
	ErrUserExists      = errors.New("user id already exists")
	ErrInvalidRole     = errors.New("invalid user role")
	ErrChildNotFound   = errors.New("linked child account not found")
	ErrNotParentOf     = errors.New("user is not a parent of this student")
	ErrStudentRequired = errors.New("target user is not a student")

	// Subject specific errors
	ErrSubjectNotFound = errors.New("subject not found")
	ErrSubjectExists   = errors.New("subject name already exists")
	ErrSubjectInUse    = errors.New("subject cannot be deleted - referenced by existing records")

	// Study log specific errors
	ErrStudyLogNotFound = errors.New("study log not found")

	// Assignment specific errors
	ErrAssignmentNotFound  = errors.New("assignment not found")
	ErrAssignmentCompleted = errors.New("assignment already completed")

	// Grade specific errors
	ErrGradeNotFound = errors.New("grade not found")

	// Goal specific errors
	ErrGoalNotFound = errors.New("study goal not found")

	// Reflection specific errors
	ErrReflectionNotFound = errors.New("daily reflection not found")

	// Report specific errors
	ErrReportNotFound = errors.New("report not found")

	// Notification specific errors
	ErrNotificationNotFound = errors.New("notification not found")
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

type BusinessRuleError struct {
	Rule    string                 `json:"rule"`
	Message string                 `json:"message"`
	Context map[string]interface{} `json:"context,omitempty"`
}

func (bre *BusinessRuleError) Error() string {
	return fmt.Sprintf("business rule violation (%s): %s", bre.Rule, bre.Message)
}

type PermissionError struct {
	UserID   string `json:"user_id"`
	Resource string `json:"resource"`
	Action   string `json:"action"`
	Reason   string `json:"reason"`
}

func (pe *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: user %s cannot %s %s - %s",
		pe.UserID, pe.Action, pe.Resource, pe.Reason)
}

// ===== ERROR HELPERS =====

// NewValidationError creates a new validation error using the shared type
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return apperrors.NewValidationError(field, message, value)
}

func NewBusinessRuleError(rule, message string, context map[string]interface{}) *BusinessRuleError {
	return &BusinessRuleError{
		Rule:    rule,
		Message: message,
		Context: context,
	}
}

func NewPermissionError(userID, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:   userID,
		Resource: resource,
		Action:   action,
		Reason:   reason,
	}
}

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrSubjectNotFound) ||
		errors.Is(err, ErrStudyLogNotFound) ||
		errors.Is(err, ErrAssignmentNotFound) ||
		errors.Is(err, ErrGradeNotFound) ||
		errors.Is(err, ErrGoalNotFound) ||
		errors.Is(err, ErrReflectionNotFound) ||
		errors.Is(err, ErrReportNotFound) ||
		errors.Is(err, ErrNotificationNotFound)
}

// IsUnauthorized checks if error represents an "unauthorized" condition
func IsUnauthorized(err error) bool {
	if errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrForbidden) ||
		errors.Is(err, ErrSessionExpired) ||
		errors.Is(err, ErrNotParentOf) {
		return true
	}
	var pe *PermissionError
	return errors.As(err, &pe)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) {
		return true
	}
	var single *apperrors.ValidationError
	if errors.As(err, &single) {
		return true
	}
	var many apperrors.ValidationErrors
	return errors.As(err, &many)
}

// IsBusinessRule checks if error represents a business rule violation
func IsBusinessRule(err error) bool {
	var bre *BusinessRuleError
	return errors.As(err, &bre)
}

// IsConflict checks if error represents a resource conflict
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrUserExists) ||
		errors.Is(err, ErrSubjectExists) ||
		errors.Is(err, ErrSubjectInUse) ||
		errors.Is(err, ErrAssignmentCompleted)
}
