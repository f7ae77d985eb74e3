package utils

import (
	"reflect"
	"regexp"
	"strings"

	apperrors "github.com/classtrack/learning-service/internal/errors"
	"github.com/classtrack/learning-service/internal/models"
	"github.com/go-playground/validator/v10"
)

// Validator wraps struct-tag validation with domain custom rules registered.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	validate := validator.New()
	RegisterCustomValidators(validate)
	return &Validator{validate: validate}
}

// ValidateStruct validates struct tags and returns field-level errors.
func (v *Validator) ValidateStruct(s interface{}) error {
	if err := v.validate.Struct(s); err != nil {
		return apperrors.ToValidationErrors(err)
	}
	return nil
}

// Var validates a single value against a tag expression.
func (v *Validator) Var(field interface{}, tag string) error {
	return v.validate.Var(field, tag)
}

// Custom validation functions

// Student ids are s{grade}{class:02}{number:02} with grades 1-12.
var studentIDPattern = regexp.MustCompile(`^s([1-9]|1[0-2])\d{4}$`)

func ValidateUserRole(fl validator.FieldLevel) bool {
	return models.UserRole(fl.Field().String()).Valid()
}

func ValidateGoalPeriod(fl validator.FieldLevel) bool {
	switch models.GoalPeriod(fl.Field().String()) {
	case models.GoalDaily, models.GoalWeekly, models.GoalMonthly:
		return true
	}
	return false
}

func ValidateReportPeriod(fl validator.FieldLevel) bool {
	switch models.ReportPeriod(fl.Field().String()) {
	case models.ReportWeekly, models.ReportMonthly:
		return true
	}
	return false
}

func ValidateAssignmentStatus(fl validator.FieldLevel) bool {
	switch models.AssignmentStatus(fl.Field().String()) {
	case models.AssignmentPending, models.AssignmentCompleted, models.AssignmentLate:
		return true
	}
	return false
}

func ValidateNotificationType(fl validator.FieldLevel) bool {
	switch models.NotificationType(fl.Field().String()) {
	case models.NotificationAssignment, models.NotificationGrade,
		models.NotificationGoal, models.NotificationSystem, models.NotificationReflection:
		return true
	}
	return false
}

func ValidateStudentID(fl validator.FieldLevel) bool {
	return studentIDPattern.MatchString(fl.Field().String())
}

// RegisterCustomValidators registers all custom validators
func RegisterCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("user_role", ValidateUserRole)
	validate.RegisterValidation("goal_period", ValidateGoalPeriod)
	validate.RegisterValidation("report_period", ValidateReportPeriod)
	validate.RegisterValidation("assignment_status", ValidateAssignmentStatus)
	validate.RegisterValidation("notification_type", ValidateNotificationType)
	validate.RegisterValidation("student_id", ValidateStudentID)

	// Register custom tag name function for better error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}
