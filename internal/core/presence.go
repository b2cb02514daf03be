package core

import "time"

// DefaultDebounceWindow is the grace period after a disconnect before the
// participant is treated as having genuinely left. Transport reconnects
// (brief network loss, app backgrounding) must not flap presence in viewers'
// UIs.
const DefaultDebounceWindow = 5 * time.Second

// presenceKey identifies one pending departure.
type presenceKey struct {
	channelID string
	username  string
}

// pendingRemoval is a scheduled participant removal. The generation is unique
// for the lifetime of the hub, so a timer that fires after it was superseded
// is detected even if cancellation and firing overlap.
type pendingRemoval struct {
	gen   uint64
	timer *time.Timer
}

// armRemoval schedules a delayed departure for (channelID, username),
// superseding any earlier timer for the same key.
func (h *Hub) armRemoval(channelID, username string) {
	key := presenceKey{channelID: channelID, username: username}
	if prev, ok := h.pending[key]; ok {
		prev.timer.Stop()
	}
	h.genCounter++
	gen := h.genCounter
	entry := &pendingRemoval{gen: gen}
	entry.timer = time.AfterFunc(h.debounce, func() {
		h.post(nil, &Command{
			Kind:      commandPresenceExpired,
			ChannelID: channelID,
			Username:  username,
			gen:       gen,
		})
	})
	h.pending[key] = entry
}

// cancelRemoval disarms a pending departure, if any. Called on rejoin so the
// participant is never observed as having left.
func (h *Hub) cancelRemoval(channelID, username string) {
	key := presenceKey{channelID: channelID, username: username}
	if entry, ok := h.pending[key]; ok {
		entry.timer.Stop()
		delete(h.pending, key)
	}
}

// handlePresenceExpired finalizes a departure once the debounce window has
// elapsed without a rejoin.
func (h *Hub) handlePresenceExpired(cmd *Command) {
	key := presenceKey{channelID: cmd.ChannelID, username: cmd.Username}
	entry, ok := h.pending[key]
	if !ok || entry.gen != cmd.gen {
		// Superseded by a rejoin or a newer disconnect.
		return
	}
	delete(h.pending, key)

	h.channels.RemoveParticipant(cmd.ChannelID, cmd.Username)
	h.broadcastParticipants(cmd.ChannelID)
	h.broadcastTyping(cmd.ChannelID)
}
