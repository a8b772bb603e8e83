package domain

import (
	"time"

	"github.com/google/uuid"
)

// ClockFormat is the wall-clock granularity shown next to messages.
// Ordering within the same minute is resolved by insertion order.
const ClockFormat = "15:04"

// Message is an immutable chat event. Insertion order equals
// chronological order for the lifetime of the store.
type Message struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Text      string    `json:"text"`
	Time      string    `json:"time"`
	CreatedAt time.Time `json:"at"`
}

func NewMessage(username, text string, at time.Time) Message {
	return Message{
		ID:        uuid.New(),
		Username:  username,
		Text:      text,
		Time:      at.Format(ClockFormat),
		CreatedAt: at,
	}
}
