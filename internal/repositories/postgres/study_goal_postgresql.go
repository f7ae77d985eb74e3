package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/classtrack/learning-service/internal/models"
	"github.com/classtrack/learning-service/internal/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StudyGoalPostgreSQL struct {
	db *gorm.DB
}

func NewStudyGoalPostgreSQL(db *gorm.DB) repositories.StudyGoalRepository {
	return &StudyGoalPostgreSQL{db: db}
}

// Upsert relies on the unique (student_id, subject_id, period) index so
// concurrent writers cannot create duplicate rows.
func (s *StudyGoalPostgreSQL) Upsert(ctx context.Context, goal *models.StudyGoal) error {
	goal.UpdatedAt = time.Now().UTC()
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "student_id"},
			{Name: "subject_id"},
			{Name: "period"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"target_minutes", "updated_at"}),
	}).Create(goal).Error
	if err != nil {
		return fmt.Errorf("failed to upsert study goal: %w", err)
	}
	return nil
}

func (s *StudyGoalPostgreSQL) GetByID(ctx context.Context, id uint) (*models.StudyGoal, error) {
	var goal models.StudyGoal
	if err := s.db.WithContext(ctx).First(&goal, id).Error; err != nil {
		return nil, err
	}
	return &goal, nil
}

func (s *StudyGoalPostgreSQL) GetByStudent(ctx context.Context, studentID string) ([]*models.StudyGoal, error) {
	var goals []*models.StudyGoal
	err := s.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&goals).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list study goals: %w", err)
	}
	return goals, nil
}

func (s *StudyGoalPostgreSQL) ListAll(ctx context.Context) ([]*models.StudyGoal, error) {
	var goals []*models.StudyGoal
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&goals).Error; err != nil {
		return nil, fmt.Errorf("failed to list all study goals: %w", err)
	}
	return goals, nil
}

func (s *StudyGoalPostgreSQL) Delete(ctx context.Context, id uint) error {
	if err := s.db.WithContext(ctx).Delete(&models.StudyGoal{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete study goal: %w", err)
	}
	return nil
}

func (s *StudyGoalPostgreSQL) IsOwner(ctx context.Context, id uint, studentID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.StudyGoal{}).
		Where("id = ? AND student_id = ?", id, studentID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check study goal ownership: %w", err)
	}
	return count > 0, nil
}

func (s *StudyGoalPostgreSQL) DeleteByStudent(ctx context.Context, studentID string) error {
	if err := s.db.WithContext(ctx).Where("student_id = ?", studentID).Delete(&models.StudyGoal{}).Error; err != nil {
		return fmt.Errorf("failed to delete study goals for student: %w", err)
	}
	return nil
}
