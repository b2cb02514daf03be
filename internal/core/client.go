package core

// Client is one live connection as seen by the core layer. Identity (channel,
// username, user id) lives in the Session the hub keeps for the client, not on
// the client itself.
type Client struct {
	ID       string
	Commands chan *Command
	Events   chan *Event
}

// NewClient constructs a client with initialized channels.
func NewClient(id string) *Client {
	return &Client{
		ID:       id,
		Commands: make(chan *Command, 16),
		Events:   make(chan *Event, 32),
	}
}

// send delivers an event without blocking; slow consumers drop.
func (c *Client) send(ev *Event) {
	select {
	case c.Events <- ev:
	default:
		// Drop if slow consumer.
	}
}
