package services_test

import (
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"story-chat/auth"
	"story-chat/domain"
	"story-chat/errors"
	"story-chat/mocks"
	"story-chat/services"
)

func newAuthService(t *testing.T) (*mocks.MockIUserRepository, services.IAuthService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	mockUsers := mocks.NewMockIUserRepository(ctrl)
	tokens := auth.NewTokenManager([]byte("secret_123"), time.Hour)
	return mockUsers, services.NewAuthService(mockUsers, tokens, slog.Default())
}

func TestAuthService_Login(t *testing.T) {
	t.Run("should register unseen username exactly once", func(t *testing.T) {
		req := require.New(t)
		mockUsers, svc := newAuthService(t)

		created := domain.User{ID: uuid.New(), Username: "alice", Password: "pw"}
		mockUsers.EXPECT().
			FindUserByUsername("alice").
			Return(domain.User{}, errors.ErrUserNotFound).
			Times(1)
		mockUsers.EXPECT().
			CreateUser("alice", "pw").
			Return(created, nil).
			Times(1)

		token, identity, err := svc.Login("alice", "pw")

		req.NoError(err)
		req.NotEmpty(token)
		req.Equal("alice", identity.Username)
		req.Equal(created.ID, identity.UserID)
	})

	t.Run("should never create a second account for a known username", func(t *testing.T) {
		req := require.New(t)
		mockUsers, svc := newAuthService(t)

		existing := domain.User{ID: uuid.New(), Username: "bob", Password: "original"}
		mockUsers.EXPECT().
			FindUserByUsername("bob").
			Return(existing, nil).
			Times(1)
		mockUsers.EXPECT().CreateUser(gomock.Any(), gomock.Any()).Times(0)

		token, identity, err := svc.Login("bob", "original")

		req.NoError(err)
		req.NotEmpty(token)
		req.Equal(existing.ID, identity.UserID)
	})

	t.Run("should accept a known username with a different password", func(t *testing.T) {
		req := require.New(t)
		mockUsers, svc := newAuthService(t)

		existing := domain.User{ID: uuid.New(), Username: "bob", Password: "original"}
		mockUsers.EXPECT().
			FindUserByUsername("bob").
			Return(existing, nil).
			Times(1)
		mockUsers.EXPECT().CreateUser(gomock.Any(), gomock.Any()).Times(0)

		token, identity, err := svc.Login("bob", "not-the-original")

		req.NoError(err)
		req.NotEmpty(token)
		req.Equal("bob", identity.Username)
	})

	t.Run("should reject an empty username before touching the repository", func(t *testing.T) {
		req := require.New(t)
		mockUsers, svc := newAuthService(t)

		mockUsers.EXPECT().FindUserByUsername(gomock.Any()).Times(0)
		mockUsers.EXPECT().CreateUser(gomock.Any(), gomock.Any()).Times(0)

		token, _, err := svc.Login("", "pw")

		req.Error(err)
		req.ErrorIs(err, errors.ErrInvalidLogin)
		req.Empty(token)
	})

	t.Run("should propagate a persistence failure on registration", func(t *testing.T) {
		req := require.New(t)
		mockUsers, svc := newAuthService(t)

		mockUsers.EXPECT().
			FindUserByUsername("carol").
			Return(domain.User{}, errors.ErrUserNotFound).
			Times(1)
		mockUsers.EXPECT().
			CreateUser("carol", "pw").
			Return(domain.User{}, errors.ErrPersistence).
			Times(1)

		token, _, err := svc.Login("carol", "pw")

		req.Error(err)
		req.ErrorIs(err, errors.ErrPersistence)
		req.Empty(token)
	})
}

func TestAuthService_Identify(t *testing.T) {
	t.Run("should resolve a freshly issued token back to its identity", func(t *testing.T) {
		req := require.New(t)
		mockUsers, svc := newAuthService(t)

		user := domain.User{ID: uuid.New(), Username: "alice", Password: "pw"}
		mockUsers.EXPECT().FindUserByUsername("alice").Return(user, nil)

		token, _, err := svc.Login("alice", "pw")
		req.NoError(err)

		identity, err := svc.Identify(string(token))

		req.NoError(err)
		req.Equal(user.ID, identity.UserID)
		req.Equal("alice", identity.Username)
	})

	t.Run("should reject a garbage token", func(t *testing.T) {
		req := require.New(t)
		_, svc := newAuthService(t)

		_, err := svc.Identify("not-a-token")

		req.Error(err)
		req.ErrorIs(err, errors.ErrUnauthenticated)
	})
}
