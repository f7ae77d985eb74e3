package postgres

import (
	"context"
	"fmt"

	"github.com/classtrack/learning-service/internal/models"
	"github.com/classtrack/learning-service/internal/repositories"
	"gorm.io/gorm"
)

type ReportPostgreSQL struct {
	db *gorm.DB
}

func NewReportPostgreSQL(db *gorm.DB) repositories.ReportRepository {
	return &ReportPostgreSQL{db: db}
}

func (r *ReportPostgreSQL) Create(ctx context.Context, report *models.Report) error {
	if err := r.db.WithContext(ctx).Create(report).Error; err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	return nil
}

func (r *ReportPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Report, error) {
	var report models.Report
	if err := r.db.WithContext(ctx).First(&report, id).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *ReportPostgreSQL) GetByStudent(ctx context.Context, studentID string, limit int) ([]*models.Report, error) {
	query := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var reports []*models.Report
	if err := query.Find(&reports).Error; err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	return reports, nil
}

func (r *ReportPostgreSQL) GetLatest(ctx context.Context, studentID string) (*models.Report, error) {
	var report models.Report
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		First(&report).Error
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *ReportPostgreSQL) DeleteByStudent(ctx context.Context, studentID string) error {
	if err := r.db.WithContext(ctx).Where("student_id = ?", studentID).Delete(&models.Report{}).Error; err != nil {
		return fmt.Errorf("failed to delete reports for student: %w", err)
	}
	return nil
}
