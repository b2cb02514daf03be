package core

import "time"

// HistoryLimit caps how many messages a channel retains. Older messages are
// evicted first-in-first-out.
const HistoryLimit = 100

// Participant is a user currently joined to a channel.
type Participant struct {
	Username  string
	UserID    int64 // 0 when unknown
	AvatarURL string
	IsTyping  bool
}

// ChannelRecord owns one channel's participants, bounded message history and
// typing set. A channel maps to a single live game-server instance; its id is
// the game server's job id.
type ChannelRecord struct {
	ChannelID string
	PlaceID   int64 // 0 when unknown; groups server instances under one game
	CreatedBy string
	CreatedAt time.Time

	participants map[string]*Participant
	history      []ChatMessage
	typing       map[string]struct{}
}

// NewChannelRecord constructs an empty channel created by the given user.
func NewChannelRecord(channelID, createdBy string, placeID int64) *ChannelRecord {
	return &ChannelRecord{
		ChannelID:    channelID,
		PlaceID:      placeID,
		CreatedBy:    createdBy,
		CreatedAt:    time.Now(),
		participants: make(map[string]*Participant),
		typing:       make(map[string]struct{}),
	}
}

// UpsertParticipant inserts or overwrites the participant entry for username.
// Last join wins on conflicting user id and avatar URL. The typing flag is
// reset on every upsert.
func (c *ChannelRecord) UpsertParticipant(username string, userID int64, avatarURL string) {
	delete(c.typing, username)
	c.participants[username] = &Participant{
		Username:  username,
		UserID:    userID,
		AvatarURL: avatarURL,
	}
}

// RemoveParticipant drops the participant and its typing flag.
func (c *ChannelRecord) RemoveParticipant(username string) {
	delete(c.participants, username)
	delete(c.typing, username)
}

// Participant returns the live entry for username, or nil if absent.
func (c *ChannelRecord) Participant(username string) *Participant {
	return c.participants[username]
}

// Participants returns a snapshot of all participant entries. The snapshot
// does not alias the live records.
func (c *ChannelRecord) Participants() []Participant {
	out := make([]Participant, 0, len(c.participants))
	for _, p := range c.participants {
		out = append(out, *p)
	}
	return out
}

// ParticipantCount reports how many users are joined.
func (c *ChannelRecord) ParticipantCount() int {
	return len(c.participants)
}

// AppendMessage pushes a message onto the history, evicting the oldest entry
// once the cap is exceeded.
func (c *ChannelRecord) AppendMessage(msg ChatMessage) {
	c.history = append(c.history, msg)
	if len(c.history) > HistoryLimit {
		c.history = c.history[1:]
	}
}

// History returns an independent copy of the message history, safe to hand to
// callers without risk of later mutation.
func (c *ChannelRecord) History() []ChatMessage {
	out := make([]ChatMessage, len(c.history))
	copy(out, c.history)
	return out
}

// SetTyping toggles the typing flag for a known participant. Unknown usernames
// are ignored so the typing set never references an absent participant.
func (c *ChannelRecord) SetTyping(username string, isTyping bool) {
	p, ok := c.participants[username]
	if !ok {
		return
	}
	p.IsTyping = isTyping
	if isTyping {
		c.typing[username] = struct{}{}
	} else {
		delete(c.typing, username)
	}
}

// SetAvatarURL updates the stored avatar for a known participant. Returns
// false when the participant is no longer present.
func (c *ChannelRecord) SetAvatarURL(username, avatarURL string) bool {
	p, ok := c.participants[username]
	if !ok {
		return false
	}
	p.AvatarURL = avatarURL
	return true
}

// TypingUsernames lists users currently composing a message.
func (c *ChannelRecord) TypingUsernames() []string {
	out := make([]string, 0, len(c.typing))
	for username := range c.typing {
		out = append(out, username)
	}
	return out
}
