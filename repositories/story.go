//go:generate go run go.uber.org/mock/mockgen -source=story.go -destination=../mocks/mock_story_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"story-chat/domain"
	"story-chat/errors"
)

const storyPrefix = "story:"

type IStoryRepository interface {
	StoreStory(s domain.Story) error
	ListStories() ([]domain.Story, error)
}

type StoryRepository struct {
	db *badger.DB
}

func NewStoryRepository(db *badger.DB) IStoryRepository {
	return &StoryRepository{db: db}
}

// StoreStory persists a story under "story:{timestamp_padded}:{uuid}",
// the same key scheme used for messages. Stories never expire and are
// never deleted.
func (r StoryRepository) StoreStory(s domain.Story) error {
	key := fmt.Sprintf("%s%019d:%s", storyPrefix, s.CreatedAt.UnixNano(), s.ID)

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	err = r.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
	if err != nil {
		return fmt.Errorf("%w: %v", errors.ErrPersistence, err)
	}
	return nil
}

// ListStories returns every story in insertion order, which callers
// rely on when grouping contents per author.
func (r StoryRepository) ListStories() ([]domain.Story, error) {
	var stories []domain.Story

	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(storyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var s domain.Story
				if err := json.Unmarshal(val, &s); err != nil {
					return err
				}
				stories = append(stories, s)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrPersistence, err)
	}
	return stories, nil
}
