package core

import (
	"sort"
	"strings"
)

// searchResultLimit caps user search responses.
const searchResultLimit = 10

// maxServerAvatars is how many participant avatars a server listing carries.
const maxServerAvatars = 4

// GameServer is one live channel under a game listing.
type GameServer struct {
	ChannelID   string
	PlayerCount int
	AvatarURLs  []string
}

// Game aggregates the live channels that share a place id.
type Game struct {
	PlaceID     int64
	Name        string
	ImageURL    string
	ServerCount int
	PlayerCount int
	Servers     []GameServer
}

// ChannelRegistry owns the set of live channels keyed by channel id. It is
// mutated only from the hub's dispatch goroutine and therefore needs no
// locking.
type ChannelRegistry struct {
	channels map[string]*ChannelRecord
}

// NewChannelRegistry constructs an empty registry.
func NewChannelRegistry() *ChannelRegistry {
	return &ChannelRegistry{channels: make(map[string]*ChannelRecord)}
}

// CreateOrGet returns the channel for channelID, creating it on first use,
// and upserts the participant entry for username in either case.
func (r *ChannelRegistry) CreateOrGet(channelID, username string, userID int64, avatarURL string, placeID int64) *ChannelRecord {
	ch, ok := r.channels[channelID]
	if !ok {
		ch = NewChannelRecord(channelID, username, placeID)
		r.channels[channelID] = ch
	}
	ch.UpsertParticipant(username, userID, avatarURL)
	return ch
}

// Get returns the channel for channelID, or nil if it does not exist.
func (r *ChannelRegistry) Get(channelID string) *ChannelRecord {
	return r.channels[channelID]
}

// RemoveParticipant drops username from the channel. Removing the last
// participant deletes the channel itself.
func (r *ChannelRegistry) RemoveParticipant(channelID, username string) {
	ch, ok := r.channels[channelID]
	if !ok {
		return
	}
	ch.RemoveParticipant(username)
	if ch.ParticipantCount() == 0 {
		delete(r.channels, channelID)
	}
}

// Participants returns a snapshot of the channel's participants, or nil for an
// unknown channel.
func (r *ChannelRegistry) Participants(channelID string) []Participant {
	ch, ok := r.channels[channelID]
	if !ok {
		return nil
	}
	return ch.Participants()
}

// SetTyping toggles the typing flag. Unknown channels and participants are
// silently ignored.
func (r *ChannelRegistry) SetTyping(channelID, username string, isTyping bool) {
	if ch, ok := r.channels[channelID]; ok {
		ch.SetTyping(username, isTyping)
	}
}

// TypingUsernames lists users composing in the channel, or nil for an unknown
// channel.
func (r *ChannelRegistry) TypingUsernames(channelID string) []string {
	ch, ok := r.channels[channelID]
	if !ok {
		return nil
	}
	return ch.TypingUsernames()
}

// Games aggregates live channels by place id. Channels without a place id,
// with no participants, or addressed by a direct-message sentinel id are
// excluded. The result is ordered by server count descending with place id
// ascending as the tie-break, so repeated calls over the same state agree.
func (r *ChannelRegistry) Games() []Game {
	byPlace := make(map[int64]*Game)
	for _, ch := range r.channels {
		if ch.PlaceID == 0 || ch.ParticipantCount() == 0 || IsSentinelChannelID(ch.ChannelID) {
			continue
		}
		game, ok := byPlace[ch.PlaceID]
		if !ok {
			game = &Game{PlaceID: ch.PlaceID}
			byPlace[ch.PlaceID] = game
		}
		participants := ch.Participants()
		avatars := make([]string, 0, maxServerAvatars)
		for _, p := range participants {
			if p.AvatarURL == "" {
				continue
			}
			avatars = append(avatars, p.AvatarURL)
			if len(avatars) == maxServerAvatars {
				break
			}
		}
		game.ServerCount++
		game.PlayerCount += len(participants)
		game.Servers = append(game.Servers, GameServer{
			ChannelID:   ch.ChannelID,
			PlayerCount: len(participants),
			AvatarURLs:  avatars,
		})
	}

	games := make([]Game, 0, len(byPlace))
	for _, game := range byPlace {
		sort.Slice(game.Servers, func(i, j int) bool {
			return game.Servers[i].ChannelID < game.Servers[j].ChannelID
		})
		games = append(games, *game)
	}
	sort.Slice(games, func(i, j int) bool {
		if games[i].ServerCount != games[j].ServerCount {
			return games[i].ServerCount > games[j].ServerCount
		}
		return games[i].PlaceID < games[j].PlaceID
	})
	return games
}

// SearchUsers matches usernames by case-insensitive substring. When
// scopeChannelID is non-empty only that channel is searched; otherwise all
// channels are, de-duplicating by username on first occurrence. At most ten
// entries are returned.
func (r *ChannelRegistry) SearchUsers(query, scopeChannelID string) []Participant {
	if query == "" {
		return nil
	}
	lower := strings.ToLower(query)

	var scoped []*ChannelRecord
	if scopeChannelID != "" {
		ch, ok := r.channels[scopeChannelID]
		if !ok {
			return nil
		}
		scoped = []*ChannelRecord{ch}
	} else {
		scoped = make([]*ChannelRecord, 0, len(r.channels))
		for _, ch := range r.channels {
			scoped = append(scoped, ch)
		}
		// Map order is not stable; fix the scan order so de-duplication is
		// deterministic across calls.
		sort.Slice(scoped, func(i, j int) bool {
			return scoped[i].ChannelID < scoped[j].ChannelID
		})
	}

	seen := make(map[string]struct{})
	var results []Participant
	for _, ch := range scoped {
		participants := ch.Participants()
		sort.Slice(participants, func(i, j int) bool {
			return participants[i].Username < participants[j].Username
		})
		for _, p := range participants {
			if !strings.Contains(strings.ToLower(p.Username), lower) {
				continue
			}
			if _, dup := seen[p.Username]; dup {
				continue
			}
			seen[p.Username] = struct{}{}
			results = append(results, p)
			if len(results) == searchResultLimit {
				return results
			}
		}
	}
	return results
}
