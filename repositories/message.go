//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"story-chat/domain"
	"story-chat/errors"
)

const messagePrefix = "msg:"

type IMessageRepository interface {
	StoreMessage(m domain.Message) error
	ListMessages() ([]domain.Message, error)
}

type MessageRepository struct {
	db *badger.DB
}

func NewMessageRepository(db *badger.DB) IMessageRepository {
	return &MessageRepository{db: db}
}

// StoreMessage persists a message under "msg:{timestamp_padded}:{uuid}".
// The 19-digit zero padding keeps keys in chronological order under
// Badger's lexicographic iteration; the UUID disconnects collisions
// when two messages land on the same nanosecond.
func (r MessageRepository) StoreMessage(m domain.Message) error {
	key := fmt.Sprintf("%s%019d:%s", messagePrefix, m.CreatedAt.UnixNano(), m.ID)

	data, err := json.Marshal(m)
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

// ListMessages returns every message in insertion order.
// A forward prefix scan over the padded keys is already chronological,
// so no sort step is needed.
func (r MessageRepository) ListMessages() ([]domain.Message, error) {
	var messages []domain.Message

	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(messagePrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var m domain.Message
				if err := json.Unmarshal(val, &m); err != nil {
					return err
				}
				messages = append(messages, m)
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
	return messages, nil
}
