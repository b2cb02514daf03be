package core

// Room is the pub/sub topic for one channel id: the set of connections that
// receive broadcasts addressed to that channel.
type Room struct {
	ChannelID string
	clients   map[*Client]struct{}
}

// NewRoom constructs a room with no subscribers.
func NewRoom(channelID string) *Room {
	return &Room{
		ChannelID: channelID,
		clients:   make(map[*Client]struct{}),
	}
}

// Subscribe inserts a client into the room. Returns true if newly added.
func (r *Room) Subscribe(c *Client) bool {
	if _, exists := r.clients[c]; exists {
		return false
	}
	r.clients[c] = struct{}{}
	return true
}

// Unsubscribe removes a client from the room. Returns true if removed.
func (r *Room) Unsubscribe(c *Client) bool {
	if _, exists := r.clients[c]; !exists {
		return false
	}
	delete(r.clients, c)
	return true
}

// Broadcast sends an event to every subscriber.
func (r *Room) Broadcast(event *Event) {
	for client := range r.clients {
		client.send(event)
	}
}

// Empty returns true if no clients remain subscribed.
func (r *Room) Empty() bool {
	return len(r.clients) == 0
}
