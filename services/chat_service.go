//go:generate go run go.uber.org/mock/mockgen -source=chat_service.go -destination=../mocks/mock_chat_service.go -package=mocks
package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"time"

	"github.com/abadojack/whatlanggo"
	"github.com/gabriel-vasile/mimetype"
	"github.com/samber/lo"

	"story-chat/contract"
	"story-chat/domain"
	"story-chat/domain/event"
	"story-chat/errors"
	"story-chat/moderation"
	"story-chat/repositories"
	"story-chat/search"
)

type IChatService interface {
	PostMessage(ctx context.Context, identity domain.Identity, text string) (domain.Message, error)
	PostStory(ctx context.Context, identity domain.Identity, content string) (domain.Story, error)
	Snapshot(ctx context.Context) (event.StoriesRefreshed, event.MessageHistory, error)
}

// ChatService orchestrates the session gate, the store and the
// broadcast channel for the two realtime write operations.
type ChatService struct {
	messages    repositories.IMessageRepository
	stories     repositories.IStoryRepository
	broadcaster contract.Broadcaster
	moderator   *moderation.Moderator
	index       *search.Index
	clock       func() time.Time
	log         *slog.Logger
}

func NewChatService(
	messages repositories.IMessageRepository,
	stories repositories.IStoryRepository,
	broadcaster contract.Broadcaster,
	moderator *moderation.Moderator,
	index *search.Index,
	log *slog.Logger,
) *ChatService {
	return &ChatService{
		messages:    messages,
		stories:     stories,
		broadcaster: broadcaster,
		moderator:   moderator,
		index:       index,
		clock:       func() time.Time { return time.Now().UTC() },
		log:         log,
	}
}

// WithClock replaces the wall clock, used by tests to pin message times.
func (s *ChatService) WithClock(clock func() time.Time) *ChatService {
	s.clock = clock
	return s
}

// PostMessage persists a message stamped with the current HH:MM and
// broadcasts it to every connected client, sender included.
func (s *ChatService) PostMessage(_ context.Context, identity domain.Identity, text string) (domain.Message, error) {
	if identity.Anonymous() {
		return domain.Message{}, errors.ErrUnauthenticated
	}

	censored, found := s.moderator.Censor(text)
	message := domain.NewMessage(identity.Username, censored, s.clock())

	if err := s.messages.StoreMessage(message); err != nil {
		return domain.Message{}, fmt.Errorf("storing message: %w", err)
	}

	if err := s.index.IndexMessage(message); err != nil {
		// Search is a side channel; the message is already durable.
		s.log.Warn("indexing message failed", "id", message.ID, "error", err)
	}

	info := whatlanggo.Detect(text)
	s.log.Debug("message posted",
		"user", identity.Username,
		"lang", info.Lang.Iso6391(),
		"censored_words", len(found))

	s.broadcaster.Broadcast(event.MessagePosted{
		User: message.Username,
		Text: message.Text,
		Time: message.Time,
	})
	return message, nil
}

// PostStory persists the content verbatim, then recomputes the full
// grouped-stories view and broadcasts it to everyone. Re-sending the
// whole mapping on every write is deliberate: it keeps clients trivially
// consistent at the cost of O(total stories) per post.
func (s *ChatService) PostStory(_ context.Context, identity domain.Identity, content string) (domain.Story, error) {
	if identity.Anonymous() {
		return domain.Story{}, errors.ErrUnauthenticated
	}

	story := domain.NewStory(identity.Username, content, s.clock())
	if err := s.stories.StoreStory(story); err != nil {
		return domain.Story{}, fmt.Errorf("storing story: %w", err)
	}

	if raw, err := base64.StdEncoding.DecodeString(content); err == nil {
		s.log.Debug("story posted",
			"user", identity.Username,
			"mime", mimetype.Detect(raw).String(),
			"bytes", len(raw))
	} else {
		s.log.Debug("story posted with non-base64 content", "user", identity.Username)
	}

	grouped, err := s.groupedStories()
	if err != nil {
		return domain.Story{}, err
	}
	s.broadcaster.Broadcast(grouped)
	return story, nil
}

// Snapshot builds the two bootstrap payloads for a new connection.
// Both containers are non-nil even when the store is empty.
func (s *ChatService) Snapshot(_ context.Context) (event.StoriesRefreshed, event.MessageHistory, error) {
	grouped, err := s.groupedStories()
	if err != nil {
		return event.StoriesRefreshed{}, event.MessageHistory{}, err
	}

	messages, err := s.messages.ListMessages()
	if err != nil {
		return event.StoriesRefreshed{}, event.MessageHistory{}, fmt.Errorf("listing messages: %w", err)
	}

	history := event.MessageHistory{
		Messages: lo.Map(messages, func(m domain.Message, _ int) event.MessagePosted {
			return event.MessagePosted{User: m.Username, Text: m.Text, Time: m.Time}
		}),
	}
	if history.Messages == nil {
		history.Messages = []event.MessagePosted{}
	}
	return grouped, history, nil
}

func (s *ChatService) groupedStories() (event.StoriesRefreshed, error) {
	stories, err := s.stories.ListStories()
	if err != nil {
		return event.StoriesRefreshed{}, fmt.Errorf("listing stories: %w", err)
	}
	return event.StoriesRefreshed{Grouped: domain.GroupStories(stories)}, nil
}
