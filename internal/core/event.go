package core

import "time"

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventChannelSnapshot delivers channel state to a freshly joined client.
	EventChannelSnapshot EventKind = iota
	// EventParticipantsChanged notifies a room that its participant list moved.
	EventParticipantsChanged
	// EventReceiveMessage delivers a chat message to room members.
	EventReceiveMessage
	// EventTypingIndicator delivers the current typing set of a room.
	EventTypingIndicator
	// EventSearchResults answers a user search.
	EventSearchResults
	// EventGamesList answers a game/server aggregation request.
	EventGamesList
	// EventReceivePrivateMessage delivers a direct message.
	EventReceivePrivateMessage
	// EventGroupCreated notifies group members about a new group.
	EventGroupCreated
	// EventReceiveGroupMessage delivers a group chat message.
	EventReceiveGroupMessage
	// EventUserGroups answers a group listing request.
	EventUserGroups
	// EventError notifies a client about a protocol-level error.
	EventError
)

// ChannelSnapshot is the reply to a join: history plus participants as of the
// moment the join was processed.
type ChannelSnapshot struct {
	ChannelID    string
	CreatedAt    time.Time
	CreatedBy    string
	History      []ChatMessage
	Participants []Participant
}

// Event is sent to clients to describe what happened in the system.
type Event struct {
	Kind      EventKind
	ChannelID string

	Snapshot     *ChannelSnapshot
	Participants []Participant
	Message      *ChatMessage
	Typing       []string
	Results      []Participant
	Games        []Game
	Private      *PrivateMessage
	Group        *GroupChat
	Groups       []GroupChat
	GroupMessage *GroupMessage
	Error        *CoreError
}
