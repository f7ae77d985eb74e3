package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/classtrack/learning-service/internal/cache"
	"github.com/classtrack/learning-service/internal/models"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

// fakeSessionStore keeps sessions in a map, standing in for Redis.
type fakeSessionStore struct {
	sessions map[string]cache.Session
	next     int
}

func (f *fakeSessionStore) Create(ctx context.Context, session cache.Session) (string, error) {
	if f.sessions == nil {
		f.sessions = make(map[string]cache.Session)
	}
	f.next++
	token := fmt.Sprintf("token-%d", f.next)
	f.sessions[token] = session
	return token, nil
}

func (f *fakeSessionStore) Get(ctx context.Context, token string) (*cache.Session, error) {
	session, ok := f.sessions[token]
	if !ok {
		return nil, cache.ErrSessionNotFound
	}
	return &session, nil
}

func (f *fakeSessionStore) Destroy(ctx context.Context, token string) error {
	delete(f.sessions, token)
	return nil
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	return string(hash)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("ValidCredentialsYieldResolvableSession", func(t *testing.T) {
		repo := newFakeRepository()
		childID := "s10101"
		repo.user.users = map[string]*models.User{
			"parent.kim": {
				ID:           "parent.kim",
				Role:         models.RoleParent,
				ChildID:      &childID,
				PasswordHash: mustHash(t, "hunter22"),
			},
		}
		sessions := &fakeSessionStore{}
		service := NewAuthService(repo, sessions, testLogger())

		token, user, err := service.Login(ctx, "parent.kim", "hunter22")

		assert.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, "parent.kim", user.ID)

		session, err := service.Resolve(ctx, token)
		assert.NoError(t, err)
		assert.Equal(t, "parent.kim", session.UserID)
		assert.Equal(t, models.RoleParent, session.Role)
		assert.Equal(t, "s10101", *session.ChildID)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		repo := newFakeRepository()
		repo.user.users = map[string]*models.User{
			"s10101": {ID: "s10101", Role: models.RoleStudent, PasswordHash: mustHash(t, "right")},
		}
		service := NewAuthService(repo, &fakeSessionStore{}, testLogger())

		_, _, err := service.Login(ctx, "s10101", "wrong")

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("UnknownUserLooksLikeWrongPassword", func(t *testing.T) {
		repo := newFakeRepository()
		service := NewAuthService(repo, &fakeSessionStore{}, testLogger())

		_, _, err := service.Login(ctx, "nobody", "anything")

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepository()
	repo.user.users = map[string]*models.User{
		"s10101": {ID: "s10101", Role: models.RoleStudent, PasswordHash: mustHash(t, "pw1234")},
	}
	sessions := &fakeSessionStore{}
	service := NewAuthService(repo, sessions, testLogger())

	token, _, err := service.Login(ctx, "s10101", "pw1234")
	assert.NoError(t, err)

	assert.NoError(t, service.Logout(ctx, token))

	_, err = service.Resolve(ctx, token)
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestResolveUnknownToken(t *testing.T) {
	service := NewAuthService(newFakeRepository(), &fakeSessionStore{}, testLogger())

	_, err := service.Resolve(context.Background(), "not-a-token")

	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()

	newService := func(repo *fakeRepository) AuthService {
		return NewAuthService(repo, &fakeSessionStore{}, testLogger())
	}

	t.Run("RotatesHash", func(t *testing.T) {
		repo := newFakeRepository()
		repo.user.users = map[string]*models.User{
			"s10101": {ID: "s10101", Role: models.RoleStudent, PasswordHash: mustHash(t, "old-pass")},
		}
		service := newService(repo)

		err := service.ChangePassword(ctx, "s10101", "old-pass", "new-pass")

		assert.NoError(t, err)
		assert.NoError(t, bcrypt.CompareHashAndPassword(
			[]byte(repo.user.passwords["s10101"]), []byte("new-pass")))
	})

	t.Run("WrongCurrentPassword", func(t *testing.T) {
		repo := newFakeRepository()
		repo.user.users = map[string]*models.User{
			"s10101": {ID: "s10101", Role: models.RoleStudent, PasswordHash: mustHash(t, "old-pass")},
		}
		service := newService(repo)

		err := service.ChangePassword(ctx, "s10101", "nope", "new-pass")

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("TooShortNewPassword", func(t *testing.T) {
		service := newService(newFakeRepository())

		err := service.ChangePassword(ctx, "s10101", "old-pass", "ab")

		assert.True(t, IsValidation(err))
	})
}
