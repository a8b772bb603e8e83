package repositories

import (
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"

	"story-chat/errors"
)

func openTestDB(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func Test_Create_And_Find_User(t *testing.T) {
	req := require.New(t)
	repository := NewUserRepository(openTestDB(t))

	created, err := repository.CreateUser("alice", "hunter2")
	req.NoError(err)
	req.NotEqual(created.ID.String(), "00000000-0000-0000-0000-000000000000")

	fetched, err := repository.FindUserByUsername("alice")
	req.NoError(err)
	req.Equal(created, fetched)
	req.Equal("hunter2", fetched.Password)
}

func Test_Create_User_Twice_Fails(t *testing.T) {
	req := require.New(t)
	repository := NewUserRepository(openTestDB(t))

	_, err := repository.CreateUser("alice", "first")
	req.NoError(err)

	_, err = repository.CreateUser("alice", "second")
	req.ErrorIs(err, errors.ErrUserAlreadyExists)

	users, err := repository.ListUsers()
	req.NoError(err)
	req.Len(users, 1)
	req.Equal("first", users[0].Password)
}

func Test_Find_Unknown_User(t *testing.T) {
	req := require.New(t)
	repository := NewUserRepository(openTestDB(t))

	_, err := repository.FindUserByUsername("nobody")
	req.ErrorIs(err, errors.ErrUserNotFound)
}
