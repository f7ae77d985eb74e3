package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/classtrack/learning-service/internal/models"
	"github.com/classtrack/learning-service/internal/repositories"
	"gorm.io/gorm"
)

type GradePostgreSQL struct {
	db *gorm.DB
}

func NewGradePostgreSQL(db *gorm.DB) repositories.GradeRepository {
	return &GradePostgreSQL{db: db}
}

func (g *GradePostgreSQL) Create(ctx context.Context, grade *models.Grade) error {
	if err := g.db.WithContext(ctx).Create(grade).Error; err != nil {
		return fmt.Errorf("failed to create grade: %w", err)
	}
	return nil
}

func (g *GradePostgreSQL) GetByID(ctx context.Context, id uint) (*models.Grade, error) {
	var grade models.Grade
	err := g.db.WithContext(ctx).
		Preload("Subject").
		First(&grade, id).Error
	if err != nil {
		return nil, err
	}
	return &grade, nil
}

func (g *GradePostgreSQL) Delete(ctx context.Context, id uint) error {
	if err := g.db.WithContext(ctx).Delete(&models.Grade{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete grade: %w", err)
	}
	return nil
}

func (g *GradePostgreSQL) GetByStudent(ctx context.Context, studentID string, filters repositories.GradeFilters) ([]*models.Grade, error) {
	query := g.db.WithContext(ctx).
		Preload("Subject").
		Where("student_id = ?", studentID)

	if filters.SubjectID != nil {
		query = query.Where("subject_id = ?", *filters.SubjectID)
	}
	if filters.From != nil {
		query = query.Where("taken_at >= ?", *filters.From)
	}
	if filters.To != nil {
		query = query.Where("taken_at <= ?", *filters.To)
	}
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	var grades []*models.Grade
	if err := query.Order("taken_at DESC").Find(&grades).Error; err != nil {
		return nil, fmt.Errorf("failed to list grades: %w", err)
	}
	return grades, nil
}

func (g *GradePostgreSQL) GetByStudentTakenBetween(ctx context.Context, studentID string, from, to time.Time) ([]*models.Grade, error) {
	var grades []*models.Grade
	err := g.db.WithContext(ctx).
		Where("student_id = ? AND taken_at >= ? AND taken_at <= ?", studentID, from, to).
		Order("taken_at DESC").
		Find(&grades).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list grades in window: %w", err)
	}
	return grades, nil
}

func (g *GradePostgreSQL) ListAll(ctx context.Context) ([]*models.Grade, error) {
	var grades []*models.Grade
	if err := g.db.WithContext(ctx).Order("taken_at DESC").Find(&grades).Error; err != nil {
		return nil, fmt.Errorf("failed to list all grades: %w", err)
	}
	return grades, nil
}

func (g *GradePostgreSQL) DeleteByStudent(ctx context.Context, studentID string) error {
	if err := g.db.WithContext(ctx).Where("student_id = ?", studentID).Delete(&models.Grade{}).Error; err != nil {
		return fmt.Errorf("failed to delete grades for student: %w", err)
	}
	return nil
}
