package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/classtrack/learning-service/internal/models"
	"github.com/classtrack/learning-service/internal/repositories"
	"github.com/classtrack/learning-service/internal/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const passwordAlphabet = "abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"
const generatedPasswordLength = 10

// AccountService is the admin surface for managing user accounts.
type AccountService interface {
	CreateStudent(ctx context.Context, req CreateStudentRequest) (*models.User, error)

	// BulkCreateStudents creates one student per (class, number) slot. Each
	// account's initial password equals its generated id.
	BulkCreateStudents(ctx context.Context, req BulkCreateRequest) ([]*models.User, error)

	CreateParent(ctx context.Context, req CreateParentRequest) (*models.User, error)
	CreateAdmin(ctx context.Context, req CreateAdminRequest) (*models.User, error)

	ListAccounts(ctx context.Context, filters repositories.AccountFilters) ([]*models.User, int64, error)
	SearchAccounts(ctx context.Context, query string) ([]*models.User, error)
	GetAccount(ctx context.Context, id string) (*models.User, error)
	UpdateAccount(ctx context.Context, id string, req UpdateAccountRequest) (*models.User, error)

	// ResetPassword replaces the password with a random one and returns it
	// in plain text exactly once.
	ResetPassword(ctx context.Context, id string) (string, error)

	// DeleteAccount removes the user. Deleting a student also removes all
	// their study data and unlinks any parents, atomically.
	DeleteAccount(ctx context.Context, id string) error
}

type CreateStudentRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Grade    int    `json:"grade" validate:"required,min=1,max=12"`
	Class    int    `json:"class" validate:"required,min=1,max=99"`
	Number   int    `json:"number" validate:"required,min=1,max=99"`
	Password string `json:"password" validate:"omitempty,min=4,max=72"`
}

type BulkCreateRequest struct {
	Grade      int `json:"grade" validate:"required,min=1,max=12"`
	Class      int `json:"class" validate:"required,min=1,max=99"`
	FromNumber int `json:"from_number" validate:"required,min=1,max=99"`
	ToNumber   int `json:"to_number" validate:"required,min=1,max=99"`
}

type CreateParentRequest struct {
	ID       string `json:"id" validate:"required,min=3,max=64"`
	Name     string `json:"name" validate:"required,min=1,max=100"`
	ChildID  string `json:"child_id" validate:"required,student_id"`
	Password string `json:"password" validate:"required,min=4,max=72"`
}

type CreateAdminRequest struct {
	ID       string `json:"id" validate:"required,min=3,max=64"`
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Password string `json:"password" validate:"required,min=4,max=72"`
}

type UpdateAccountRequest struct {
	Name   *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Grade  *int    `json:"grade,omitempty" validate:"omitempty,min=1,max=12"`
	Class  *int    `json:"class,omitempty" validate:"omitempty,min=1,max=99"`
	Number *int    `json:"number,omitempty" validate:"omitempty,min=1,max=99"`
}

type accountService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *utils.Validator
}

func NewAccountService(repo repositories.Repository, logger *slog.Logger, validator *utils.Validator) AccountService {
	return &accountService{
		repo:      repo,
		logger:    logger,
		validator: validator,
	}
}

// StudentID derives the canonical account id from grade, class and
// attendance number, e.g. grade 2 class 3 number 7 -> "s20307".
func StudentID(grade, class, number int) string {
	return fmt.Sprintf("s%d%02d%02d", grade, class, number)
}

func (s *accountService) CreateStudent(ctx context.Context, req CreateStudentRequest) (*models.User, error) {
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	id := StudentID(req.Grade, req.Class, req.Number)
	exists, err := s.repo.User().ExistsByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to check user id: %w", err)
	}
	if exists {
		return nil, ErrUserExists
	}

	password := req.Password
	if password == "" {
		password = id
	}
	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           id,
		Name:         req.Name,
		Role:         models.RoleStudent,
		PasswordHash: hash,
		Grade:        &req.Grade,
		Class:        &req.Class,
		Number:       &req.Number,
	}

	if err := s.repo.User().Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create student: %w", err)
	}

	s.logger.Info("Created student account", "user_id", id)
	return user, nil
}

func (s *accountService) BulkCreateStudents(ctx context.Context, req BulkCreateRequest) ([]*models.User, error) {
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}
	if req.ToNumber < req.FromNumber {
		return nil, NewValidationError("to_number", "must not be less than from_number", req.ToNumber)
	}

	var created []*models.User
	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		for number := req.FromNumber; number <= req.ToNumber; number++ {
			id := StudentID(req.Grade, req.Class, number)

			exists, err := tx.User().ExistsByID(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to check user id %s: %w", id, err)
			}
			if exists {
				return fmt.Errorf("%w: %s", ErrUserExists, id)
			}

			hash, err := hashPassword(id)
			if err != nil {
				return err
			}

			grade, class, num := req.Grade, req.Class, number
			user := &models.User{
				ID:           id,
				Name:         fmt.Sprintf("Student %s", id),
				Role:         models.RoleStudent,
				PasswordHash: hash,
				Grade:        &grade,
				Class:        &class,
				Number:       &num,
			}
			if err := tx.User().Create(ctx, user); err != nil {
				return fmt.Errorf("failed to create student %s: %w", id, err)
			}
			created = append(created, user)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Bulk created student accounts",
		"grade", req.Grade, "class", req.Class, "count", len(created))
	return created, nil
}

func (s *accountService) CreateParent(ctx context.Context, req CreateParentRequest) (*models.User, error) {
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	child, err := s.repo.User().GetByID(ctx, req.ChildID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChildNotFound
		}
		return nil, fmt.Errorf("failed to get child account: %w", err)
	}
	if !child.IsStudent() {
		return nil, ErrStudentRequired
	}

	exists, err := s.repo.User().ExistsByID(ctx, req.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check user id: %w", err)
	}
	if exists {
		return nil, ErrUserExists
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           req.ID,
		Name:         req.Name,
		Role:         models.RoleParent,
		PasswordHash: hash,
		ChildID:      &req.ChildID,
	}

	if err := s.repo.User().Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create parent: %w", err)
	}

	s.logger.Info("Created parent account", "user_id", req.ID, "child_id", req.ChildID)
	return user, nil
}

func (s *accountService) CreateAdmin(ctx context.Context, req CreateAdminRequest) (*models.User, error) {
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	exists, err := s.repo.User().ExistsByID(ctx, req.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check user id: %w", err)
	}
	if exists {
		return nil, ErrUserExists
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           req.ID,
		Name:         req.Name,
		Role:         models.RoleAdmin,
		PasswordHash: hash,
	}

	if err := s.repo.User().Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}

	s.logger.Info("Created admin account", "user_id", req.ID)
	return user, nil
}

func (s *accountService) ListAccounts(ctx context.Context, filters repositories.AccountFilters) ([]*models.User, int64, error) {
	return s.repo.User().List(ctx, filters)
}

func (s *accountService) SearchAccounts(ctx context.Context, query string) ([]*models.User, error) {
	return s.repo.User().Search(ctx, query)
}

func (s *accountService) GetAccount(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.User().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *accountService) UpdateAccount(ctx context.Context, id string, req UpdateAccountRequest) (*models.User, error) {
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	user, err := s.GetAccount(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if user.IsStudent() {
		if req.Grade != nil {
			user.Grade = req.Grade
		}
		if req.Class != nil {
			user.Class = req.Class
		}
		if req.Number != nil {
			user.Number = req.Number
		}
	}

	if err := s.repo.User().Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

func (s *accountService) ResetPassword(ctx context.Context, id string) (string, error) {
	if _, err := s.GetAccount(ctx, id); err != nil {
		return "", err
	}

	password, err := generatePassword(generatedPasswordLength)
	if err != nil {
		return "", err
	}
	hash, err := hashPassword(password)
	if err != nil {
		return "", err
	}

	if err := s.repo.User().UpdatePassword(ctx, id, hash); err != nil {
		return "", fmt.Errorf("failed to reset password: %w", err)
	}

	s.logger.Info("Reset account password", "user_id", id)
	return password, nil
}

func (s *accountService) DeleteAccount(ctx context.Context, id string) error {
	user, err := s.GetAccount(ctx, id)
	if err != nil {
		return err
	}

	if !user.IsStudent() {
		return s.repo.User().Delete(ctx, id)
	}

	// A student's data is removed in one transaction with the account so a
	// partial failure never strands orphaned rows.
	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if err := tx.StudyLog().DeleteByStudent(ctx, id); err != nil {
			return err
		}
		if err := tx.Assignment().DeleteByStudent(ctx, id); err != nil {
			return err
		}
		if err := tx.Grade().DeleteByStudent(ctx, id); err != nil {
			return err
		}
		if err := tx.Report().DeleteByStudent(ctx, id); err != nil {
			return err
		}
		if err := tx.StudyGoal().DeleteByStudent(ctx, id); err != nil {
			return err
		}
		if err := tx.Reflection().DeleteByStudent(ctx, id); err != nil {
			return err
		}
		if err := tx.Notification().DeleteByUser(ctx, id); err != nil {
			return err
		}
		if err := tx.User().UnlinkChild(ctx, id); err != nil {
			return err
		}
		return tx.User().Delete(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("failed to delete student account: %w", err)
	}

	s.logger.Info("Deleted student account and all associated data", "user_id", id)
	return nil
}

// ===== HELPERS =====

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func generatePassword(length int) (string, error) {
	out := make([]byte, length)
	max := big.NewInt(int64(len(passwordAlphabet)))
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate password: %w", err)
		}
		out[i] = passwordAlphabet[n.Int64()]
	}
	return string(out), nil
}
