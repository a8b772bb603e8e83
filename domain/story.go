package domain

import (
	"time"

	"github.com/google/uuid"
)

// Story is a media post attached to its author by username.
// The content is stored untyped and verbatim; callers are expected
// to submit base64 media but nothing enforces it.
type Story struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"at"`
}

func NewStory(username, content string, at time.Time) Story {
	return Story{
		ID:        uuid.New(),
		Username:  username,
		Content:   content,
		CreatedAt: at,
	}
}

// GroupStories builds the username -> ordered story contents mapping.
// Per-author order follows the order of the input slice.
func GroupStories(stories []Story) map[string][]string {
	grouped := make(map[string][]string, len(stories))
	for _, s := range stories {
		grouped[s.Username] = append(grouped[s.Username], s.Content)
	}
	return grouped
}
