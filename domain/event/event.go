// Package event defines the events exchanged over the realtime channel.
// Server-to-client events implement DomainEvent; the name is the wire
// event name seen by connected clients.
package event

// Wire event names.
const (
	StoriesName    = "stories"
	MessagesName   = "messages"
	NewMessageName = "new_message"

	SendMessageName = "send_message"
	AddStoryName    = "add_story"
)

type DomainEvent interface {
	Name() string
}

// MessagePosted carries a single new message, broadcast to every
// connected client including the sender.
type MessagePosted struct {
	User string `json:"user"`
	Text string `json:"text"`
	Time string `json:"time"`
}

func (MessagePosted) Name() string { return NewMessageName }

// StoriesRefreshed carries the full grouped-stories view. It is sent
// on connect and re-sent to everyone after each new story.
type StoriesRefreshed struct {
	Grouped map[string][]string
}

func (StoriesRefreshed) Name() string { return StoriesName }

// MessageHistory carries the full ordered message list, sent once to a
// newly connected client.
type MessageHistory struct {
	Messages []MessagePosted
}

func (MessageHistory) Name() string { return MessagesName }
