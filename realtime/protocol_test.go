package realtime

import (
	"testing"

	"github.com/stretchr/testify/require"

	"story-chat/domain/event"
)

func TestEncodeEvent(t *testing.T) {
	t.Run("should frame a posted message as its bare object", func(t *testing.T) {
		req := require.New(t)

		raw, err := EncodeEvent(event.MessagePosted{User: "alice", Text: "hi", Time: "14:05"})

		req.NoError(err)
		req.JSONEq(`{"event":"new_message","data":{"user":"alice","text":"hi","time":"14:05"}}`, string(raw))
	})

	t.Run("should frame grouped stories as the bare mapping", func(t *testing.T) {
		req := require.New(t)

		raw, err := EncodeEvent(event.StoriesRefreshed{Grouped: map[string][]string{
			"bob": {"QUJD", "REVG"},
		}})

		req.NoError(err)
		req.JSONEq(`{"event":"stories","data":{"bob":["QUJD","REVG"]}}`, string(raw))
	})

	t.Run("should frame history as the bare list", func(t *testing.T) {
		req := require.New(t)

		raw, err := EncodeEvent(event.MessageHistory{Messages: []event.MessagePosted{
			{User: "alice", Text: "hi", Time: "09:00"},
		}})

		req.NoError(err)
		req.JSONEq(`{"event":"messages","data":[{"user":"alice","text":"hi","time":"09:00"}]}`, string(raw))
	})

	t.Run("should keep empty containers non-null", func(t *testing.T) {
		req := require.New(t)

		raw, err := EncodeEvent(event.StoriesRefreshed{})
		req.NoError(err)
		req.JSONEq(`{"event":"stories","data":{}}`, string(raw))

		raw, err = EncodeEvent(event.MessageHistory{})
		req.NoError(err)
		req.JSONEq(`{"event":"messages","data":[]}`, string(raw))
	})
}
