package postgres

import (
	"context"
	"fmt"

	"github.com/classtrack/learning-service/internal/models"
	"github.com/classtrack/learning-service/internal/repositories"
	"gorm.io/gorm"
)

type SubjectPostgreSQL struct {
	db *gorm.DB
}

func NewSubjectPostgreSQL(db *gorm.DB) repositories.SubjectRepository {
	return &SubjectPostgreSQL{db: db}
}

func (s *SubjectPostgreSQL) Create(ctx context.Context, subject *models.Subject) error {
	if err := s.db.WithContext(ctx).Create(subject).Error; err != nil {
		return fmt.Errorf("failed to create subject: %w", err)
	}
	return nil
}

func (s *SubjectPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Subject, error) {
	var subject models.Subject
	if err := s.db.WithContext(ctx).First(&subject, id).Error; err != nil {
		return nil, err
	}
	return &subject, nil
}

func (s *SubjectPostgreSQL) List(ctx context.Context) ([]*models.Subject, error) {
	var subjects []*models.Subject
	if err := s.db.WithContext(ctx).Order("name").Find(&subjects).Error; err != nil {
		return nil, fmt.Errorf("failed to list subjects: %w", err)
	}
	return subjects, nil
}

func (s *SubjectPostgreSQL) Delete(ctx context.Context, id uint) error {
	if err := s.db.WithContext(ctx).Delete(&models.Subject{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete subject: %w", err)
	}
	return nil
}

func (s *SubjectPostgreSQL) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Subject{}).
		Where("name = ?", name).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check subject name: %w", err)
	}
	return count > 0, nil
}
