package realtime

import (
	"encoding/json"

	"story-chat/domain/event"
)

// Envelope is the frame exchanged on the websocket: an event name and
// an event-specific JSON payload.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type outgoingEnvelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// SendMessagePayload is the client payload for "send_message".
type SendMessagePayload struct {
	Text string `json:"text"`
}

// AddStoryPayload is the client payload for "add_story".
type AddStoryPayload struct {
	Content string `json:"content"`
}

// EncodeEvent marshals a server event into its wire frame.
func EncodeEvent(e event.DomainEvent) ([]byte, error) {
	return json.Marshal(outgoingEnvelope{Event: e.Name(), Data: payloadOf(e)})
}

// payloadOf unwraps the event into the payload shape clients expect:
// "new_message" carries the single message object, "stories" the bare
// grouped mapping, "messages" the bare list. Empty containers are kept
// non-nil so clients receive {} and [] instead of null.
func payloadOf(e event.DomainEvent) any {
	switch evt := e.(type) {
	case event.MessagePosted:
		return evt
	case event.StoriesRefreshed:
		if evt.Grouped == nil {
			return map[string][]string{}
		}
		return evt.Grouped
	case event.MessageHistory:
		if evt.Messages == nil {
			return []event.MessagePosted{}
		}
		return evt.Messages
	default:
		return evt
	}
}
