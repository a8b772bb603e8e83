package repositories

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"story-chat/domain"
)

func Test_Record_Multiple_Messages_In_Insertion_Order(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openTestDB(t))

	at := time.Now().UTC()
	messages := []domain.Message{
		domain.NewMessage("alice", "hi", at),
		domain.NewMessage("bob", "hello", at.Add(1*time.Second)),
		domain.NewMessage("clara", "hey", at.Add(2*time.Second)),
	}
	for _, m := range messages {
		req.NoError(repository.StoreMessage(m))
	}

	fetched, err := repository.ListMessages()
	req.NoError(err)
	req.Len(fetched, len(messages))
	for i := range messages {
		req.Equal(messages[i].ID, fetched[i].ID)
		req.Equal(messages[i].Username, fetched[i].Username)
		req.Equal(messages[i].Text, fetched[i].Text)
		req.Equal(messages[i].Time, fetched[i].Time)
	}
}

func Test_Same_Minute_Messages_Keep_Insertion_Order(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openTestDB(t))

	// All three land within the same wall-clock minute; only the
	// nanosecond part of the key disambiguates them.
	at := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	first := domain.NewMessage("alice", "one", at)
	second := domain.NewMessage("alice", "two", at.Add(10*time.Millisecond))
	third := domain.NewMessage("alice", "three", at.Add(20*time.Millisecond))
	for _, m := range []domain.Message{first, second, third} {
		req.NoError(repository.StoreMessage(m))
	}

	fetched, err := repository.ListMessages()
	req.NoError(err)
	req.Equal([]string{"one", "two", "three"},
		[]string{fetched[0].Text, fetched[1].Text, fetched[2].Text})
	req.Equal("09:30", fetched[0].Time)
}

func Test_List_Messages_Empty_Store(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openTestDB(t))

	fetched, err := repository.ListMessages()
	req.NoError(err)
	req.Empty(fetched)
}
