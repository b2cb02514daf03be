package core

// CommandKind describes what the client wants to do.
type CommandKind int

const (
	// CommandJoinChannel binds the connection to a channel as a participant.
	CommandJoinChannel CommandKind = iota
	// CommandSendMessage delivers a chat message to a channel, or routes a
	// direct message when the channel id is a DM sentinel.
	CommandSendMessage
	// CommandNotifyTyping toggles the sender's typing flag in a channel.
	CommandNotifyTyping
	// CommandSearchUsers looks up participants by username substring.
	CommandSearchUsers
	// CommandGetGames requests the live game/server aggregation.
	CommandGetGames
	// CommandSendPrivateMessage delivers a DM addressed by explicit user ids.
	CommandSendPrivateMessage
	// CommandCreateGroup creates an ad-hoc group chat.
	CommandCreateGroup
	// CommandSendGroupMessage delivers a message to a group chat.
	CommandSendGroupMessage
	// CommandGetGroups requests the caller's group list.
	CommandGetGroups

	// Internal commands posted by the hub's own machinery. They re-enter the
	// dispatch loop so all registry mutation stays on one goroutine.
	commandRegister
	commandDisconnect
	commandPresenceExpired
	commandAvatarResolved
	commandCreateChannel
	commandListGames
)

// Command represents an action requested by a client or an internal timer.
type Command struct {
	Kind CommandKind

	ChannelID string
	Username  string
	UserID    int64
	PlaceID   int64
	Content   string
	IsTyping  bool

	Query string

	ToUserID     int64
	FromUserID   int64
	FromUsername string

	GroupID        string
	GroupName      string
	ParticipantIDs []int64

	// internal fields
	client    *Client
	avatarURL string
	gen       uint64
	reply     chan any
}
