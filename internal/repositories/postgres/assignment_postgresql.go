package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/classtrack/learning-service/internal/models"
	"github.com/classtrack/learning-service/internal/repositories"
	"gorm.io/gorm"
)

type AssignmentPostgreSQL struct {
	db *gorm.DB
}

func NewAssignmentPostgreSQL(db *gorm.DB) repositories.AssignmentRepository {
	return &AssignmentPostgreSQL{db: db}
}

func (a *AssignmentPostgreSQL) Create(ctx context.Context, assignment *models.Assignment) error {
	if assignment.Status == "" {
		assignment.Status = models.AssignmentPending
	}
	if err := a.db.WithContext(ctx).Create(assignment).Error; err != nil {
		return fmt.Errorf("failed to create assignment: %w", err)
	}
	return nil
}

func (a *AssignmentPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Assignment, error) {
	var assignment models.Assignment
	err := a.db.WithContext(ctx).
		Preload("Subject").
		First(&assignment, id).Error
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (a *AssignmentPostgreSQL) Update(ctx context.Context, assignment *models.Assignment) error {
	if err := a.db.WithContext(ctx).Save(assignment).Error; err != nil {
		return fmt.Errorf("failed to update assignment: %w", err)
	}
	return nil
}

func (a *AssignmentPostgreSQL) Delete(ctx context.Context, id uint) error {
	if err := a.db.WithContext(ctx).Delete(&models.Assignment{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete assignment: %w", err)
	}
	return nil
}

func (a *AssignmentPostgreSQL) GetByStudent(ctx context.Context, studentID string, filters repositories.AssignmentFilters) ([]*models.Assignment, error) {
	query := a.db.WithContext(ctx).
		Preload("Subject").
		Where("student_id = ?", studentID)

	if filters.SubjectID != nil {
		query = query.Where("subject_id = ?", *filters.SubjectID)
	}
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.DueFrom != nil {
		query = query.Where("due_date >= ?", *filters.DueFrom)
	}
	if filters.DueTo != nil {
		query = query.Where("due_date <= ?", *filters.DueTo)
	}
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	var assignments []*models.Assignment
	if err := query.Order("due_date ASC").Find(&assignments).Error; err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	return assignments, nil
}

func (a *AssignmentPostgreSQL) GetByStudentDueBetween(ctx context.Context, studentID string, from, to time.Time) ([]*models.Assignment, error) {
	var assignments []*models.Assignment
	err := a.db.WithContext(ctx).
		Where("student_id = ? AND due_date >= ? AND due_date <= ?", studentID, from, to).
		Order("due_date ASC").
		Find(&assignments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments in window: %w", err)
	}
	return assignments, nil
}

func (a *AssignmentPostgreSQL) ListAll(ctx context.Context) ([]*models.Assignment, error) {
	var assignments []*models.Assignment
	if err := a.db.WithContext(ctx).Order("due_date ASC").Find(&assignments).Error; err != nil {
		return nil, fmt.Errorf("failed to list all assignments: %w", err)
	}
	return assignments, nil
}

func (a *AssignmentPostgreSQL) GetCounts(ctx context.Context, studentID string) (*repositories.AssignmentCounts, error) {
	var rows []struct {
		Status models.AssignmentStatus
		Count  int
	}
	err := a.db.WithContext(ctx).Model(&models.Assignment{}).
		Select("status, COUNT(*) AS count").
		Where("student_id = ?", studentID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count assignments: %w", err)
	}

	counts := &repositories.AssignmentCounts{}
	for _, row := range rows {
		counts.Total += row.Count
		switch row.Status {
		case models.AssignmentCompleted:
			counts.Completed = row.Count
		case models.AssignmentPending:
			counts.Pending = row.Count
		case models.AssignmentLate:
			counts.Late = row.Count
		}
	}
	return counts, nil
}

func (a *AssignmentPostgreSQL) DeleteByStudent(ctx context.Context, studentID string) error {
	if err := a.db.WithContext(ctx).Where("student_id = ?", studentID).Delete(&models.Assignment{}).Error; err != nil {
		return fmt.Errorf("failed to delete assignments for student: %w", err)
	}
	return nil
}
