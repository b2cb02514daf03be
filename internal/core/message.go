package core

import "time"

// ChatMessage is the domain model for a message in a channel. Messages are
// immutable once appended to a channel's history.
type ChatMessage struct {
	ChannelID string
	Username  string
	UserID    int64 // 0 when unknown
	Content   string
	CreatedAt time.Time
	AvatarURL string
}

// PrivateMessage is a point-to-point message addressed by user ids instead of
// a channel.
type PrivateMessage struct {
	FromUserID   int64
	FromUsername string
	ToUserID     int64
	Content      string
	CreatedAt    time.Time
}
