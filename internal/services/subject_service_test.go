package services

import (
	"context"
	"testing"

	"github.com/classtrack/learning-service/internal/models"
	"github.com/classtrack/learning-service/internal/utils"
	"github.com/stretchr/testify/assert"
)

func newSubjectService(repo *fakeRepository) SubjectService {
	return NewSubjectService(repo, testLogger(), utils.NewValidator())
}

func TestCreateSubject(t *testing.T) {
	ctx := context.Background()

	t.Run("Creates", func(t *testing.T) {
		repo := newFakeRepository()
		service := newSubjectService(repo)

		subject, err := service.CreateSubject(ctx, CreateSubjectRequest{Name: "Math"})

		assert.NoError(t, err)
		assert.NotZero(t, subject.ID)
		assert.Equal(t, "Math", subject.Name)
	})

	t.Run("DuplicateName", func(t *testing.T) {
		repo := newFakeRepository()
		repo.subject.subjects = map[uint]*models.Subject{1: {ID: 1, Name: "Math"}}
		service := newSubjectService(repo)

		_, err := service.CreateSubject(ctx, CreateSubjectRequest{Name: "Math"})

		assert.ErrorIs(t, err, ErrSubjectExists)
	})

	t.Run("EmptyName", func(t *testing.T) {
		service := newSubjectService(newFakeRepository())

		_, err := service.CreateSubject(ctx, CreateSubjectRequest{})

		assert.True(t, IsValidation(err))
	})
}

func TestDeleteSubject(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepository()
	repo.subject.subjects = map[uint]*models.Subject{1: {ID: 1, Name: "Math"}}
	service := newSubjectService(repo)

	assert.NoError(t, service.DeleteSubject(ctx, 1))
	assert.Contains(t, repo.subject.deleted, uint(1))

	assert.ErrorIs(t, service.DeleteSubject(ctx, 9), ErrSubjectNotFound)
}
