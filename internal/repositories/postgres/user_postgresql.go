package postgres

import (
	"context"
	"fmt"

	"github.com/classtrack/learning-service/internal/models"
	"github.com/classtrack/learning-service/internal/repositories"
	"gorm.io/gorm"
)

type UserPostgreSQL struct {
	db *gorm.DB
}

func NewUserPostgreSQL(db *gorm.DB) repositories.UserRepository {
	return &UserPostgreSQL{db: db}
}

func (u *UserPostgreSQL) Create(ctx context.Context, user *models.User) error {
	if err := u.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (u *UserPostgreSQL) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := u.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (u *UserPostgreSQL) Update(ctx context.Context, user *models.User) error {
	if err := u.db.WithContext(ctx).Save(user).Error; err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

func (u *UserPostgreSQL) UpdatePassword(ctx context.Context, id string, passwordHash string) error {
	result := u.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update("password", passwordHash)
	if result.Error != nil {
		return fmt.Errorf("failed to update password: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (u *UserPostgreSQL) Delete(ctx context.Context, id string) error {
	if err := u.db.WithContext(ctx).Delete(&models.User{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

func (u *UserPostgreSQL) List(ctx context.Context, filters repositories.AccountFilters) ([]*models.User, int64, error) {
	query := u.db.WithContext(ctx).Model(&models.User{})

	if filters.Role != nil {
		query = query.Where("role = ?", *filters.Role)
	}
	if filters.Query != "" {
		pattern := "%" + filters.Query + "%"
		query = query.Where("name ILIKE ? OR id ILIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	var users []*models.User
	err := query.
		Order("role").
		Order("grade").
		Order("class").
		Order("number").
		Find(&users).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return users, total, nil
}

func (u *UserPostgreSQL) GetStudents(ctx context.Context) ([]*models.User, error) {
	var users []*models.User
	err := u.db.WithContext(ctx).
		Where("role = ?", models.RoleStudent).
		Order("grade").
		Order("class").
		Order("number").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	return users, nil
}

func (u *UserPostgreSQL) GetParentsOfChild(ctx context.Context, childID string) ([]*models.User, error) {
	var users []*models.User
	err := u.db.WithContext(ctx).
		Where("role = ? AND child_id = ?", models.RoleParent, childID).
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list parents: %w", err)
	}
	return users, nil
}

func (u *UserPostgreSQL) Search(ctx context.Context, query string) ([]*models.User, error) {
	pattern := "%" + query + "%"
	var users []*models.User
	err := u.db.WithContext(ctx).
		Where("name ILIKE ? OR id ILIKE ?", pattern, pattern).
		Order("role").
		Order("grade").
		Order("class").
		Order("number").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	return users, nil
}

func (u *UserPostgreSQL) ExistsByID(ctx context.Context, id string) (bool, error) {
	var count int64
	err := u.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	return count > 0, nil
}

func (u *UserPostgreSQL) UnlinkChild(ctx context.Context, childID string) error {
	err := u.db.WithContext(ctx).Model(&models.User{}).
		Where("child_id = ?", childID).
		Update("child_id", nil).Error
	if err != nil {
		return fmt.Errorf("failed to unlink child: %w", err)
	}
	return nil
}
