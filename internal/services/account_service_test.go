package services

import (
	"context"
	"strings"
	"testing"

	"github.com/classtrack/learning-service/internal/models"
	"github.com/classtrack/learning-service/internal/utils"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

func TestStudentID(t *testing.T) {
	assert.Equal(t, "s10101", StudentID(1, 1, 1))
	assert.Equal(t, "s20307", StudentID(2, 3, 7))
	assert.Equal(t, "s61599", StudentID(6, 15, 99))
	assert.Equal(t, "s120102", StudentID(12, 1, 2))
}

func TestCreateStudent(t *testing.T) {
	ctx := context.Background()

	newService := func(repo *fakeRepository) AccountService {
		return NewAccountService(repo, testLogger(), utils.NewValidator())
	}

	t.Run("DefaultPasswordIsAccountID", func(t *testing.T) {
		repo := newFakeRepository()
		service := newService(repo)

		user, err := service.CreateStudent(ctx, CreateStudentRequest{
			Name: "Kim Minji", Grade: 2, Class: 3, Number: 7,
		})

		assert.NoError(t, err)
		assert.Equal(t, "s20307", user.ID)
		assert.Equal(t, models.RoleStudent, user.Role)
		assert.Equal(t, 2, *user.Grade)
		assert.Equal(t, 3, *user.Class)
		assert.Equal(t, 7, *user.Number)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s20307")))
	})

	t.Run("ExplicitPasswordIsUsed", func(t *testing.T) {
		repo := newFakeRepository()
		service := newService(repo)

		user, err := service.CreateStudent(ctx, CreateStudentRequest{
			Name: "Kim Minji", Grade: 1, Class: 1, Number: 1, Password: "secret99",
		})

		assert.NoError(t, err)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret99")))
	})

	t.Run("DuplicateIDIsRejected", func(t *testing.T) {
		repo := newFakeRepository()
		repo.user.users = map[string]*models.User{
			"s10101": {ID: "s10101", Role: models.RoleStudent},
		}
		service := newService(repo)

		_, err := service.CreateStudent(ctx, CreateStudentRequest{
			Name: "Dup", Grade: 1, Class: 1, Number: 1,
		})

		assert.ErrorIs(t, err, ErrUserExists)
	})

	t.Run("InvalidGradeFailsValidation", func(t *testing.T) {
		repo := newFakeRepository()
		service := newService(repo)

		_, err := service.CreateStudent(ctx, CreateStudentRequest{
			Name: "Bad", Grade: 13, Class: 1, Number: 1,
		})

		assert.Error(t, err)
		assert.True(t, IsValidation(err))
		assert.Empty(t, repo.user.created)
	})
}

func TestBulkCreateStudents(t *testing.T) {
	ctx := context.Background()

	newService := func(repo *fakeRepository) AccountService {
		return NewAccountService(repo, testLogger(), utils.NewValidator())
	}

	t.Run("CreatesOneAccountPerSlot", func(t *testing.T) {
		repo := newFakeRepository()
		service := newService(repo)

		created, err := service.BulkCreateStudents(ctx, BulkCreateRequest{
			Grade: 3, Class: 2, FromNumber: 1, ToNumber: 5,
		})

		assert.NoError(t, err)
		assert.Len(t, created, 5)
		assert.Equal(t, "s30201", created[0].ID)
		assert.Equal(t, "s30205", created[4].ID)
		assert.Equal(t, "Student s30203", created[2].Name)
		// The initial password equals the id.
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created[0].PasswordHash), []byte("s30201")))
	})

	t.Run("ExistingSlotFailsTheWholeBatch", func(t *testing.T) {
		repo := newFakeRepository()
		repo.user.users = map[string]*models.User{
			"s30203": {ID: "s30203", Role: models.RoleStudent},
		}
		service := newService(repo)

		_, err := service.BulkCreateStudents(ctx, BulkCreateRequest{
			Grade: 3, Class: 2, FromNumber: 1, ToNumber: 5,
		})

		assert.ErrorIs(t, err, ErrUserExists)
	})

	t.Run("InvertedRangeIsRejected", func(t *testing.T) {
		repo := newFakeRepository()
		service := newService(repo)

		_, err := service.BulkCreateStudents(ctx, BulkCreateRequest{
			Grade: 3, Class: 2, FromNumber: 10, ToNumber: 5,
		})

		assert.True(t, IsValidation(err))
	})
}

func TestCreateParent(t *testing.T) {
	ctx := context.Background()
	service := func(repo *fakeRepository) AccountService {
		return NewAccountService(repo, testLogger(), utils.NewValidator())
	}

	t.Run("LinksChild", func(t *testing.T) {
		repo := newFakeRepository()
		repo.user.users = map[string]*models.User{
			"s10101": {ID: "s10101", Role: models.RoleStudent},
		}

		user, err := service(repo).CreateParent(ctx, CreateParentRequest{
			ID: "parent.kim", Name: "Kim Parent", ChildID: "s10101", Password: "hunter22",
		})

		assert.NoError(t, err)
		assert.Equal(t, models.RoleParent, user.Role)
		assert.Equal(t, "s10101", *user.ChildID)
	})

	t.Run("MalformedChildID", func(t *testing.T) {
		repo := newFakeRepository()

		for _, childID := range []string{"notanid", "s0 101", "s01301", "10101", "s131415"} {
			_, err := service(repo).CreateParent(ctx, CreateParentRequest{
				ID: "parent.kim", Name: "Kim Parent", ChildID: childID, Password: "hunter22",
			})
			assert.True(t, IsValidation(err), "child id %q should fail validation", childID)
		}
	})

	t.Run("TwelfthGradeChildID", func(t *testing.T) {
		repo := newFakeRepository()
		repo.user.users = map[string]*models.User{
			"s120102": {ID: "s120102", Role: models.RoleStudent},
		}

		user, err := service(repo).CreateParent(ctx, CreateParentRequest{
			ID: "parent.lee", Name: "Lee Parent", ChildID: "s120102", Password: "hunter22",
		})

		assert.NoError(t, err)
		assert.Equal(t, "s120102", *user.ChildID)
	})

	t.Run("MissingChild", func(t *testing.T) {
		repo := newFakeRepository()

		_, err := service(repo).CreateParent(ctx, CreateParentRequest{
			ID: "parent.kim", Name: "Kim Parent", ChildID: "s99999", Password: "hunter22",
		})

		assert.ErrorIs(t, err, ErrChildNotFound)
	})

	t.Run("ChildMustBeStudent", func(t *testing.T) {
		repo := newFakeRepository()
		repo.user.users = map[string]*models.User{
			"admin1": {ID: "admin1", Role: models.RoleAdmin},
		}

		_, err := service(repo).CreateParent(ctx, CreateParentRequest{
			ID: "parent.kim", Name: "Kim Parent", ChildID: "admin1", Password: "hunter22",
		})

		assert.ErrorIs(t, err, ErrStudentRequired)
	})
}

func TestResetPassword(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepository()
	repo.user.users = map[string]*models.User{
		"s10101": {ID: "s10101", Role: models.RoleStudent},
	}
	service := NewAccountService(repo, testLogger(), utils.NewValidator())

	password, err := service.ResetPassword(ctx, "s10101")

	assert.NoError(t, err)
	assert.Len(t, password, generatedPasswordLength)
	for _, r := range password {
		assert.True(t, strings.ContainsRune(passwordAlphabet, r), "unexpected character %q", r)
	}
	// The stored hash matches the returned plain text.
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.user.passwords["s10101"]), []byte(password)))

	_, err = service.ResetPassword(ctx, "nobody")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestDeleteAccount(t *testing.T) {
	ctx := context.Background()

	t.Run("StudentDeleteCascadesAndUnlinksParents", func(t *testing.T) {
		repo := newFakeRepository()
		childID := "s10101"
		repo.user.users = map[string]*models.User{
			"s10101":     {ID: "s10101", Role: models.RoleStudent},
			"parent.kim": {ID: "parent.kim", Role: models.RoleParent, ChildID: &childID},
		}
		service := NewAccountService(repo, testLogger(), utils.NewValidator())

		err := service.DeleteAccount(ctx, "s10101")

		assert.NoError(t, err)
		assert.Contains(t, repo.user.deleted, "s10101")
		assert.Contains(t, repo.user.unlinked, "s10101")
		assert.Nil(t, repo.user.users["parent.kim"].ChildID)
	})

	t.Run("NonStudentDeleteIsSimple", func(t *testing.T) {
		repo := newFakeRepository()
		repo.user.users = map[string]*models.User{
			"admin1": {ID: "admin1", Role: models.RoleAdmin},
		}
		service := NewAccountService(repo, testLogger(), utils.NewValidator())

		err := service.DeleteAccount(ctx, "admin1")

		assert.NoError(t, err)
		assert.Contains(t, repo.user.deleted, "admin1")
		assert.Empty(t, repo.user.unlinked)
	})

	t.Run("UnknownAccount", func(t *testing.T) {
		repo := newFakeRepository()
		service := NewAccountService(repo, testLogger(), utils.NewValidator())

		err := service.DeleteAccount(ctx, "ghost")

		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}
