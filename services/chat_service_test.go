package services_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"story-chat/domain"
	"story-chat/domain/event"
	"story-chat/errors"
	"story-chat/mocks"
	"story-chat/services"
)

type chatFixture struct {
	messages    *mocks.MockIMessageRepository
	stories     *mocks.MockIStoryRepository
	broadcaster *mocks.MockBroadcaster
	service     *services.ChatService
}

func newChatFixture(t *testing.T, at time.Time) chatFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := chatFixture{
		messages:    mocks.NewMockIMessageRepository(ctrl),
		stories:     mocks.NewMockIStoryRepository(ctrl),
		broadcaster: mocks.NewMockBroadcaster(ctrl),
	}
	f.service = services.NewChatService(f.messages, f.stories, f.broadcaster, nil, nil, slog.Default()).
		WithClock(func() time.Time { return at })
	return f
}

func TestChatService_PostMessage(t *testing.T) {
	at := time.Date(2024, 3, 1, 14, 5, 30, 0, time.UTC)

	t.Run("should persist then broadcast the message with its wall clock", func(t *testing.T) {
		req := require.New(t)
		f := newChatFixture(t, at)
		alice := domain.Identity{UserID: uuid.New(), Username: "alice"}

		var stored domain.Message
		f.messages.EXPECT().
			StoreMessage(gomock.Any()).
			DoAndReturn(func(m domain.Message) error {
				stored = m
				return nil
			}).
			Times(1)
		f.broadcaster.EXPECT().
			Broadcast(event.MessagePosted{User: "alice", Text: "hi", Time: "14:05"}).
			Times(1)

		message, err := f.service.PostMessage(context.Background(), alice, "hi")

		req.NoError(err)
		req.Equal("alice", message.Username)
		req.Equal("hi", message.Text)
		req.Equal("14:05", message.Time)
		req.Equal(stored, message)
	})

	t.Run("should reject an anonymous identity without touching the store", func(t *testing.T) {
		req := require.New(t)
		f := newChatFixture(t, at)

		f.messages.EXPECT().StoreMessage(gomock.Any()).Times(0)
		f.broadcaster.EXPECT().Broadcast(gomock.Any()).Times(0)

		_, err := f.service.PostMessage(context.Background(), domain.Identity{}, "hi")

		req.ErrorIs(err, errors.ErrUnauthenticated)
	})

	t.Run("should not broadcast when persistence fails", func(t *testing.T) {
		req := require.New(t)
		f := newChatFixture(t, at)
		alice := domain.Identity{UserID: uuid.New(), Username: "alice"}

		f.messages.EXPECT().StoreMessage(gomock.Any()).Return(errors.ErrPersistence)
		f.broadcaster.EXPECT().Broadcast(gomock.Any()).Times(0)

		_, err := f.service.PostMessage(context.Background(), alice, "hi")

		req.ErrorIs(err, errors.ErrPersistence)
	})
}

func TestChatService_PostStory(t *testing.T) {
	at := time.Date(2024, 3, 1, 14, 5, 0, 0, time.UTC)

	t.Run("should broadcast the full grouped view after storing", func(t *testing.T) {
		req := require.New(t)
		f := newChatFixture(t, at)
		bob := domain.Identity{UserID: uuid.New(), Username: "bob"}

		f.stories.EXPECT().StoreStory(gomock.Any()).Return(nil).Times(1)
		f.stories.EXPECT().ListStories().Return([]domain.Story{
			{Username: "bob", Content: "QUJD"},
			{Username: "bob", Content: "REVG"},
			{Username: "alice", Content: "SEVZ"},
		}, nil)
		f.broadcaster.EXPECT().
			Broadcast(event.StoriesRefreshed{Grouped: map[string][]string{
				"bob":   {"QUJD", "REVG"},
				"alice": {"SEVZ"},
			}}).
			Times(1)

		story, err := f.service.PostStory(context.Background(), bob, "REVG")

		req.NoError(err)
		req.Equal("bob", story.Username)
		req.Equal("REVG", story.Content)
	})

	t.Run("should store non-base64 content verbatim", func(t *testing.T) {
		req := require.New(t)
		f := newChatFixture(t, at)
		bob := domain.Identity{UserID: uuid.New(), Username: "bob"}

		var stored domain.Story
		f.stories.EXPECT().
			StoreStory(gomock.Any()).
			DoAndReturn(func(s domain.Story) error {
				stored = s
				return nil
			})
		f.stories.EXPECT().ListStories().Return([]domain.Story{{Username: "bob", Content: "not base64!!"}}, nil)
		f.broadcaster.EXPECT().Broadcast(gomock.Any()).Times(1)

		_, err := f.service.PostStory(context.Background(), bob, "not base64!!")

		req.NoError(err)
		req.Equal("not base64!!", stored.Content)
	})

	t.Run("should reject an anonymous identity", func(t *testing.T) {
		req := require.New(t)
		f := newChatFixture(t, at)

		f.stories.EXPECT().StoreStory(gomock.Any()).Times(0)
		f.broadcaster.EXPECT().Broadcast(gomock.Any()).Times(0)

		_, err := f.service.PostStory(context.Background(), domain.Identity{}, "QUJD")

		req.ErrorIs(err, errors.ErrUnauthenticated)
	})
}

func TestChatService_Snapshot(t *testing.T) {
	at := time.Date(2024, 3, 1, 14, 5, 0, 0, time.UTC)

	t.Run("should return history in insertion order and grouped stories", func(t *testing.T) {
		req := require.New(t)
		f := newChatFixture(t, at)

		f.stories.EXPECT().ListStories().Return([]domain.Story{
			{Username: "bob", Content: "QUJD"},
		}, nil)
		f.messages.EXPECT().ListMessages().Return([]domain.Message{
			{Username: "alice", Text: "first", Time: "09:00"},
			{Username: "bob", Text: "second", Time: "09:00"},
		}, nil)

		grouped, history, err := f.service.Snapshot(context.Background())

		req.NoError(err)
		req.Equal(map[string][]string{"bob": {"QUJD"}}, grouped.Grouped)
		req.Len(history.Messages, 2)
		req.Equal("first", history.Messages[0].Text)
		req.Equal("second", history.Messages[1].Text)
	})

	t.Run("should return non-nil containers on an empty store", func(t *testing.T) {
		req := require.New(t)
		f := newChatFixture(t, at)

		f.stories.EXPECT().ListStories().Return(nil, nil)
		f.messages.EXPECT().ListMessages().Return(nil, nil)

		grouped, history, err := f.service.Snapshot(context.Background())

		req.NoError(err)
		req.NotNil(grouped.Grouped)
		req.Empty(grouped.Grouped)
		req.NotNil(history.Messages)
		req.Empty(history.Messages)
	})
}
