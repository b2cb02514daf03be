package proto

import "encoding/json"

// Inbound is the envelope for messages coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

const (
	InboundTypeJoinChannel        = "joinChannel"
	InboundTypeSendMessage        = "sendMessage"
	InboundTypeNotifyTyping       = "notifyTyping"
	InboundTypeSearchUsers        = "searchUsers"
	InboundTypeGetGames           = "getGames"
	InboundTypeSendPrivateMessage = "sendPrivateMessage"
	InboundTypeCreateGroup        = "createGroup"
	InboundTypeSendGroupMessage   = "sendGroupMessage"
	InboundTypeGetGroups          = "getGroups"

	OutboundTypeEvent = "event"
	OutboundTypeError = "error"

	EventChannelSnapshot       = "channelSnapshot"
	EventParticipantsChanged   = "participantsChanged"
	EventReceiveMessage        = "receiveMessage"
	EventTypingIndicator       = "typingIndicator"
	EventSearchResults         = "searchResults"
	EventGamesList             = "gamesList"
	EventReceivePrivateMessage = "receivePrivateMessage"
	EventGroupCreated          = "groupCreated"
	EventReceiveGroupMessage   = "receiveGroupMessage"
	EventUserGroups            = "userGroups"
)

// JoinChannelData requests to join a channel, creating it on first use.
type JoinChannelData struct {
	ChannelID string `json:"channelId"`
	Username  string `json:"username"`
	UserID    int64  `json:"userId,omitempty"`
	PlaceID   int64  `json:"placeId,omitempty"`
}

// SendMessageData is a chat message from the client. A channel id of the form
// "-"+userId routes the message as a DM instead of through a channel.
type SendMessageData struct {
	ChannelID string `json:"channelId"`
	Username  string `json:"username"`
	Content   string `json:"content"`
	UserID    int64  `json:"userId,omitempty"`
}

// NotifyTypingData toggles the sender's typing flag.
type NotifyTypingData struct {
	ChannelID string `json:"channelId"`
	Username  string `json:"username"`
	IsTyping  bool   `json:"isTyping"`
}

// SearchUsersData looks up participants by username substring.
type SearchUsersData struct {
	Query string `json:"query"`
}

// SendPrivateMessageData is a DM addressed by explicit user ids.
type SendPrivateMessageData struct {
	ToUserID     int64  `json:"toUserId"`
	Content      string `json:"content"`
	FromUsername string `json:"fromUsername"`
	FromUserID   int64  `json:"fromUserId"`
}

// CreateGroupData creates an ad-hoc group chat.
type CreateGroupData struct {
	ParticipantUserIDs []int64 `json:"participantUserIds"`
	Name               string  `json:"name,omitempty"`
}

// SendGroupMessageData is a message to a group chat.
type SendGroupMessageData struct {
	GroupID string `json:"groupId"`
	Content string `json:"content"`
}

// Outbound is the envelope for messages sent to the client.
type Outbound struct {
	Type  string `json:"type"`
	Event string `json:"event,omitempty"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// ParticipantData is one channel participant as seen on the wire.
type ParticipantData struct {
	Username  string `json:"username"`
	UserID    int64  `json:"userId,omitempty"`
	AvatarURL string `json:"avatarUrl,omitempty"`
	IsTyping  bool   `json:"isTyping"`
}

// MessageData is one chat message as seen on the wire.
type MessageData struct {
	ChannelID string `json:"channelId"`
	Username  string `json:"username"`
	UserID    int64  `json:"userId,omitempty"`
	Content   string `json:"content"`
	TS        int64  `json:"ts"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// ChannelSnapshotData is the reply to a join.
type ChannelSnapshotData struct {
	ChannelID    string            `json:"channelId"`
	CreatedAt    int64             `json:"createdAt"`
	CreatedBy    string            `json:"createdBy"`
	History      []MessageData     `json:"history"`
	Participants []ParticipantData `json:"participants"`
}

// ParticipantsChangedData notifies a room that its participant list moved.
type ParticipantsChangedData struct {
	ChannelID    string            `json:"channelId"`
	Participants []ParticipantData `json:"participants"`
}

// TypingIndicatorData lists users composing in a channel.
type TypingIndicatorData struct {
	ChannelID string   `json:"channelId"`
	Usernames []string `json:"usernames"`
}

// GameServerData is one live server under a game listing.
type GameServerData struct {
	ChannelID   string   `json:"channelId"`
	PlayerCount int      `json:"playerCount"`
	AvatarURLs  []string `json:"avatarUrls"`
}

// GameData aggregates live servers sharing a place id.
type GameData struct {
	PlaceID     int64            `json:"placeId"`
	Name        string           `json:"name"`
	ImageURL    string           `json:"imageUrl,omitempty"`
	ServerCount int              `json:"serverCount"`
	PlayerCount int              `json:"playerCount"`
	Servers     []GameServerData `json:"servers"`
}

// PrivateMessageData is a DM as seen on the wire.
type PrivateMessageData struct {
	FromUserID   int64  `json:"fromUserId"`
	FromUsername string `json:"fromUsername"`
	ToUserID     int64  `json:"toUserId"`
	Content      string `json:"content"`
	TS           int64  `json:"ts"`
}

// GroupMessageData is a group chat message as seen on the wire.
type GroupMessageData struct {
	GroupID      string `json:"groupId"`
	FromUserID   int64  `json:"fromUserId"`
	FromUsername string `json:"fromUsername"`
	Content      string `json:"content"`
	TS           int64  `json:"ts"`
}

// GroupChatData is a group chat as seen on the wire.
type GroupChatData struct {
	GroupID      string             `json:"groupId"`
	Name         string             `json:"name,omitempty"`
	Participants []int64            `json:"participants"`
	Messages     []GroupMessageData `json:"messages"`
	CreatedBy    int64              `json:"createdBy"`
	CreatedAt    int64              `json:"createdAt"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}
