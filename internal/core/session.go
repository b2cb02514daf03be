package core

// Session records which channel and user identity a connection currently
// represents. Exactly one session exists per registered client; it is mutated
// in place when the connection re-joins a different channel.
type Session struct {
	ChannelID string
	Username  string
	UserID    int64 // 0 when the client never identified itself
}

// bound reports whether the session is attached to a channel.
func (s *Session) bound() bool {
	return s.ChannelID != "" && s.Username != ""
}
