package core

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// GroupHistoryLimit caps how many messages a group retains.
const GroupHistoryLimit = 50

// GroupMessage is a message inside an ad-hoc group chat.
type GroupMessage struct {
	GroupID      string
	FromUserID   int64
	FromUsername string
	Content      string
	CreatedAt    time.Time
}

// GroupChat is an ad-hoc multi-user conversation, independent of channels.
// The participant set always includes the creator.
type GroupChat struct {
	GroupID      string
	Name         string
	Participants []int64
	Messages     []GroupMessage
	CreatedBy    int64
	CreatedAt    time.Time
}

// HasParticipant reports whether userID belongs to the group.
func (g *GroupChat) HasParticipant(userID int64) bool {
	for _, id := range g.Participants {
		if id == userID {
			return true
		}
	}
	return false
}

// snapshot returns a copy whose slices do not alias the live group.
func (g *GroupChat) snapshot() GroupChat {
	out := *g
	out.Participants = append([]int64(nil), g.Participants...)
	out.Messages = append([]GroupMessage(nil), g.Messages...)
	return out
}

// GroupRegistry owns ad-hoc group chats keyed by generated group id. Groups
// are never auto-deleted; their memory is bounded by the message cap.
type GroupRegistry struct {
	groups map[string]*GroupChat
}

// NewGroupRegistry constructs an empty registry.
func NewGroupRegistry() *GroupRegistry {
	return &GroupRegistry{groups: make(map[string]*GroupChat)}
}

// Create builds a group with a generated id. The participant set is the union
// of participantUserIDs and the creator, without duplicates.
func (r *GroupRegistry) Create(creatorID int64, participantUserIDs []int64, name string) GroupChat {
	seen := map[int64]struct{}{creatorID: {}}
	members := []int64{creatorID}
	for _, id := range participantUserIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		members = append(members, id)
	}
	sort.Slice(members, func(i, j int) bool { return members[i] < members[j] })

	group := &GroupChat{
		GroupID:      uuid.NewString(),
		Name:         name,
		Participants: members,
		CreatedBy:    creatorID,
		CreatedAt:    time.Now(),
	}
	r.groups[group.GroupID] = group
	return group.snapshot()
}

// Get returns the live group for groupID, or nil if it does not exist.
func (r *GroupRegistry) Get(groupID string) *GroupChat {
	return r.groups[groupID]
}

// AddMessage appends to the group's history, evicting the oldest message past
// the cap. Returns false when the group does not exist.
func (r *GroupRegistry) AddMessage(groupID string, fromUserID int64, fromUsername, content string) (GroupMessage, bool) {
	group, ok := r.groups[groupID]
	if !ok {
		return GroupMessage{}, false
	}
	msg := GroupMessage{
		GroupID:      groupID,
		FromUserID:   fromUserID,
		FromUsername: fromUsername,
		Content:      content,
		CreatedAt:    time.Now(),
	}
	group.Messages = append(group.Messages, msg)
	if len(group.Messages) > GroupHistoryLimit {
		group.Messages = group.Messages[1:]
	}
	return msg, true
}

// UserGroups returns snapshots of every group userID belongs to, ordered by
// creation time then id so the listing is stable.
func (r *GroupRegistry) UserGroups(userID int64) []GroupChat {
	var out []GroupChat
	for _, group := range r.groups {
		if group.HasParticipant(userID) {
			out = append(out, group.snapshot())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].GroupID < out[j].GroupID
	})
	return out
}
