package core

import (
	"context"
	"time"
)

// lookupTimeout bounds the external metadata calls spawned by the hub.
const lookupTimeout = 10 * time.Second

// envelope pairs a command with the client that issued it. Internal commands
// (timers, async lookups, REST requests) carry a nil client.
type envelope struct {
	client *Client
	cmd    *Command
}

// Options configures a Hub.
type Options struct {
	// DebounceWindow overrides the presence departure grace period.
	DebounceWindow time.Duration
	// Avatars resolves participant headshots on join. Optional.
	Avatars AvatarLookup
	// Games resolves icons and names for the game listing. Optional.
	Games GameMetadata
}

// Hub owns every registry and dispatches all inbound events on a single
// goroutine, so handlers mutate state without locking. The only suspension
// points are debounce timers and external metadata lookups, both of which
// re-enter the loop through the inbox and re-validate state before writing.
type Hub struct {
	inbox chan envelope
	done  chan struct{}

	debounce time.Duration
	avatars  AvatarLookup
	games    GameMetadata

	channels *ChannelRegistry
	groups   *GroupRegistry

	clients  map[*Client]struct{}
	sessions map[*Client]*Session
	rooms    map[string]*Room
	users    map[int64]*Client

	pending    map[presenceKey]*pendingRemoval
	genCounter uint64
}

// NewHub creates a hub with empty registries.
func NewHub(opts Options) *Hub {
	window := opts.DebounceWindow
	if window <= 0 {
		window = DefaultDebounceWindow
	}
	return &Hub{
		inbox:    make(chan envelope, 256),
		done:     make(chan struct{}),
		debounce: window,
		avatars:  opts.Avatars,
		games:    opts.Games,
		channels: NewChannelRegistry(),
		groups:   NewGroupRegistry(),
		clients:  make(map[*Client]struct{}),
		sessions: make(map[*Client]*Session),
		rooms:    make(map[string]*Room),
		users:    make(map[int64]*Client),
		pending:  make(map[presenceKey]*pendingRemoval),
	}
}

// Run processes commands until the context is cancelled. Every inbound event
// is handled to completion before the next one.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case env := <-h.inbox:
			h.dispatch(env.client, env.cmd)
		case <-ctx.Done():
			return
		}
	}
}

// post queues an internal command. Returns false once the hub has stopped.
func (h *Hub) post(client *Client, cmd *Command) bool {
	select {
	case h.inbox <- envelope{client: client, cmd: cmd}:
		return true
	case <-h.done:
		return false
	}
}

// RegisterClient attaches a connection to the hub and starts forwarding its
// commands into the dispatch loop.
func (h *Hub) RegisterClient(c *Client) {
	h.post(nil, &Command{Kind: commandRegister, client: c})
	go h.forward(c)
}

// UnregisterClient detaches a connection. The caller must have stopped
// writing to the client's command channel.
func (h *Hub) UnregisterClient(c *Client) {
	close(c.Commands)
}

// forward funnels one client's commands into the shared inbox. When the
// command channel closes the client is treated as disconnected.
func (h *Hub) forward(c *Client) {
	for cmd := range c.Commands {
		if !h.post(c, cmd) {
			return
		}
	}
	h.post(nil, &Command{Kind: commandDisconnect, client: c})
}

func (h *Hub) dispatch(client *Client, cmd *Command) {
	switch cmd.Kind {
	case commandRegister:
		h.handleRegister(cmd.client)
	case commandDisconnect:
		h.handleDisconnect(cmd.client)
	case CommandJoinChannel:
		h.handleJoin(client, cmd)
	case CommandSendMessage:
		h.handleSendMessage(client, cmd)
	case CommandNotifyTyping:
		h.handleTyping(cmd)
	case CommandSearchUsers:
		h.handleSearchUsers(client, cmd)
	case CommandGetGames:
		h.handleGetGames(client)
	case CommandSendPrivateMessage:
		h.handleSendPrivateMessage(client, cmd)
	case CommandCreateGroup:
		h.handleCreateGroup(client, cmd)
	case CommandSendGroupMessage:
		h.handleSendGroupMessage(client, cmd)
	case CommandGetGroups:
		h.handleGetGroups(client)
	case commandPresenceExpired:
		h.handlePresenceExpired(cmd)
	case commandAvatarResolved:
		h.handleAvatarResolved(cmd)
	case commandCreateChannel:
		h.handleCreateChannel(cmd)
	case commandListGames:
		cmd.reply <- h.channels.Games()
	}
}

func (h *Hub) handleRegister(c *Client) {
	h.clients[c] = struct{}{}
	h.sessions[c] = &Session{}
}

// handleDisconnect tears down the session immediately but defers the
// participant's departure to the debounce timer, so a quick reconnect is
// never observed as a leave.
func (h *Hub) handleDisconnect(c *Client) {
	sess := h.sessions[c]
	if sess != nil {
		if sess.UserID != 0 && h.users[sess.UserID] == c {
			delete(h.users, sess.UserID)
		}
		if sess.bound() {
			h.unsubscribe(c, sess.ChannelID)
			h.armRemoval(sess.ChannelID, sess.Username)
		}
	}
	delete(h.sessions, c)
	delete(h.clients, c)
}

func (h *Hub) handleJoin(c *Client, cmd *Command) {
	if c == nil || cmd.ChannelID == "" || cmd.Username == "" {
		return
	}
	sess := h.sessions[c]
	if sess == nil {
		return
	}

	if cmd.UserID != 0 {
		// Last write wins: a reconnect from a new connection supersedes the
		// old one without actively killing it.
		sess.UserID = cmd.UserID
		h.users[cmd.UserID] = c
	}

	// A connection switching channel (or identity) must leave no ghost
	// presence behind in the prior room.
	if sess.bound() && (sess.ChannelID != cmd.ChannelID || sess.Username != cmd.Username) {
		prevChannel, prevUsername := sess.ChannelID, sess.Username
		h.channels.RemoveParticipant(prevChannel, prevUsername)
		h.unsubscribe(c, prevChannel)
		h.broadcastParticipants(prevChannel)
	}

	// A rejoin within the window disarms the pending departure.
	h.cancelRemoval(cmd.ChannelID, cmd.Username)

	ch := h.channels.CreateOrGet(cmd.ChannelID, cmd.Username, cmd.UserID, "", cmd.PlaceID)
	h.subscribe(c, cmd.ChannelID)
	sess.ChannelID = cmd.ChannelID
	sess.Username = cmd.Username

	c.send(&Event{
		Kind:      EventChannelSnapshot,
		ChannelID: ch.ChannelID,
		Snapshot: &ChannelSnapshot{
			ChannelID:    ch.ChannelID,
			CreatedAt:    ch.CreatedAt,
			CreatedBy:    ch.CreatedBy,
			History:      ch.History(),
			Participants: ch.Participants(),
		},
	})
	h.broadcastParticipants(cmd.ChannelID)

	if cmd.UserID != 0 && h.avatars != nil {
		h.resolveAvatar(cmd.ChannelID, cmd.Username, cmd.UserID)
	}
}

// resolveAvatar fetches the participant's headshot off the dispatch
// goroutine and posts the result back as an internal command.
func (h *Hub) resolveAvatar(channelID, username string, userID int64) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
		defer cancel()
		url, err := h.avatars.HeadshotURL(ctx, userID)
		if err != nil || url == "" {
			return
		}
		h.post(nil, &Command{
			Kind:      commandAvatarResolved,
			ChannelID: channelID,
			Username:  username,
			avatarURL: url,
		})
	}()
}

// handleAvatarResolved writes a fetched avatar back, re-validating that the
// participant still exists: the channel may have been torn down while the
// lookup was in flight.
func (h *Hub) handleAvatarResolved(cmd *Command) {
	ch := h.channels.Get(cmd.ChannelID)
	if ch == nil {
		return
	}
	if !ch.SetAvatarURL(cmd.Username, cmd.avatarURL) {
		return
	}
	h.broadcastParticipants(cmd.ChannelID)
}

func (h *Hub) handleSendMessage(c *Client, cmd *Command) {
	if cmd.ChannelID == "" || cmd.Username == "" || cmd.Content == "" {
		return
	}
	if IsSentinelChannelID(cmd.ChannelID) {
		h.routeSentinelDM(c, cmd)
		return
	}

	ch := h.channels.Get(cmd.ChannelID)
	if ch == nil {
		return
	}

	userID := cmd.UserID
	avatarURL := ""
	if p := ch.Participant(cmd.Username); p != nil {
		if userID == 0 {
			userID = p.UserID
		}
		avatarURL = p.AvatarURL
	}

	msg := ChatMessage{
		ChannelID: cmd.ChannelID,
		Username:  cmd.Username,
		UserID:    userID,
		Content:   cmd.Content,
		CreatedAt: time.Now(),
		AvatarURL: avatarURL,
	}
	ch.AppendMessage(msg)
	h.broadcastToRoom(cmd.ChannelID, &Event{
		Kind:      EventReceiveMessage,
		ChannelID: cmd.ChannelID,
		Message:   &msg,
	})
}

// routeSentinelDM handles the sentinel-channel DM form. The id each party
// sees is rewritten to name the other party; an offline target drops the
// message while the sender still gets the echo.
func (h *Hub) routeSentinelDM(c *Client, cmd *Command) {
	targetID, ok := ParseSentinelChannelID(cmd.ChannelID)
	if !ok {
		// Malformed target: dropped without notifying the sender.
		return
	}

	senderID := cmd.UserID
	if sess := h.sessions[c]; sess != nil && sess.UserID != 0 {
		senderID = sess.UserID
	}

	msg := ChatMessage{
		Username:  cmd.Username,
		UserID:    senderID,
		Content:   cmd.Content,
		CreatedAt: time.Now(),
	}

	if target, online := h.users[targetID]; online && target != c {
		delivered := msg
		delivered.ChannelID = SentinelChannelID(senderID)
		target.send(&Event{
			Kind:      EventReceiveMessage,
			ChannelID: delivered.ChannelID,
			Message:   &delivered,
		})
	}

	echo := msg
	echo.ChannelID = SentinelChannelID(targetID)
	if c != nil {
		c.send(&Event{
			Kind:      EventReceiveMessage,
			ChannelID: echo.ChannelID,
			Message:   &echo,
		})
	}
}

func (h *Hub) handleTyping(cmd *Command) {
	if cmd.ChannelID == "" || cmd.Username == "" {
		return
	}
	if h.channels.Get(cmd.ChannelID) == nil {
		return
	}
	h.channels.SetTyping(cmd.ChannelID, cmd.Username, cmd.IsTyping)
	h.broadcastTyping(cmd.ChannelID)
}

func (h *Hub) handleSearchUsers(c *Client, cmd *Command) {
	if c == nil {
		return
	}
	scope := ""
	if sess := h.sessions[c]; sess != nil {
		scope = sess.ChannelID
	}
	c.send(&Event{
		Kind:    EventSearchResults,
		Results: h.channels.SearchUsers(cmd.Query, scope),
	})
}

func (h *Hub) handleGetGames(c *Client) {
	if c == nil {
		return
	}
	games := h.channels.Games()
	if h.games == nil {
		EnrichGames(context.Background(), nil, games)
		c.send(&Event{Kind: EventGamesList, Games: games})
		return
	}
	// Enrich on a separate goroutine against the detached snapshot; the
	// dispatcher must never block on an external service.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
		defer cancel()
		EnrichGames(ctx, h.games, games)
		c.send(&Event{Kind: EventGamesList, Games: games})
	}()
}

func (h *Hub) handleSendPrivateMessage(c *Client, cmd *Command) {
	if cmd.ToUserID == 0 || cmd.FromUserID == 0 || cmd.Content == "" {
		return
	}
	msg := PrivateMessage{
		FromUserID:   cmd.FromUserID,
		FromUsername: cmd.FromUsername,
		ToUserID:     cmd.ToUserID,
		Content:      cmd.Content,
		CreatedAt:    time.Now(),
	}
	if target, online := h.users[cmd.ToUserID]; online && target != c {
		target.send(&Event{Kind: EventReceivePrivateMessage, Private: &msg})
	}
	if c != nil {
		c.send(&Event{Kind: EventReceivePrivateMessage, Private: &msg})
	}
}

func (h *Hub) handleCreateGroup(c *Client, cmd *Command) {
	sess := h.sessions[c]
	if sess == nil || sess.UserID == 0 {
		return
	}
	group := h.groups.Create(sess.UserID, cmd.ParticipantIDs, cmd.GroupName)
	ev := &Event{Kind: EventGroupCreated, Group: &group}
	for _, id := range group.Participants {
		if member, online := h.users[id]; online {
			member.send(ev)
		}
	}
}

func (h *Hub) handleSendGroupMessage(c *Client, cmd *Command) {
	sess := h.sessions[c]
	if sess == nil || sess.UserID == 0 || sess.Username == "" {
		return
	}
	if cmd.GroupID == "" || cmd.Content == "" {
		return
	}
	msg, ok := h.groups.AddMessage(cmd.GroupID, sess.UserID, sess.Username, cmd.Content)
	if !ok {
		return
	}
	group := h.groups.Get(cmd.GroupID)
	ev := &Event{Kind: EventReceiveGroupMessage, GroupMessage: &msg}
	for _, id := range group.Participants {
		if member, online := h.users[id]; online {
			member.send(ev)
		}
	}
}

func (h *Hub) handleGetGroups(c *Client) {
	sess := h.sessions[c]
	if sess == nil || sess.UserID == 0 {
		return
	}
	c.send(&Event{Kind: EventUserGroups, Groups: h.groups.UserGroups(sess.UserID)})
}

// handleCreateChannel backs the REST pre-create endpoint. The participant it
// seeds gets a debounce entry immediately unless a live connection already
// represents that identity, so a pre-created participant never joined over
// the realtime connection cleans itself up even in a channel with other
// members.
func (h *Hub) handleCreateChannel(cmd *Command) {
	ch := h.channels.CreateOrGet(cmd.ChannelID, cmd.Username, cmd.UserID, "", cmd.PlaceID)
	if !h.hasLiveSession(cmd.ChannelID, cmd.Username) {
		h.armRemoval(cmd.ChannelID, cmd.Username)
	}
	cmd.reply <- &ChannelSnapshot{
		ChannelID:    ch.ChannelID,
		CreatedAt:    ch.CreatedAt,
		CreatedBy:    ch.CreatedBy,
		History:      ch.History(),
		Participants: ch.Participants(),
	}
	h.broadcastParticipants(cmd.ChannelID)
}

// CreateChannel pre-creates a channel before the realtime connection opens.
// Superseded by create-on-join but kept for clients that still call it.
func (h *Hub) CreateChannel(ctx context.Context, channelID, username string, userID, placeID int64) (*ChannelSnapshot, error) {
	if channelID == "" || username == "" || IsSentinelChannelID(channelID) {
		return nil, ErrChannelNotFound
	}
	reply := make(chan any, 1)
	if !h.post(nil, &Command{
		Kind:      commandCreateChannel,
		ChannelID: channelID,
		Username:  username,
		UserID:    userID,
		PlaceID:   placeID,
		reply:     reply,
	}) {
		return nil, ErrHubStopped
	}
	select {
	case out := <-reply:
		return out.(*ChannelSnapshot), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-h.done:
		return nil, ErrHubStopped
	}
}

// ListGames returns the raw aggregation snapshot for REST callers. Use
// EnrichGames to decorate it.
func (h *Hub) ListGames(ctx context.Context) ([]Game, error) {
	reply := make(chan any, 1)
	if !h.post(nil, &Command{Kind: commandListGames, reply: reply}) {
		return nil, ErrHubStopped
	}
	select {
	case out := <-reply:
		return out.([]Game), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-h.done:
		return nil, ErrHubStopped
	}
}

// Metadata exposes the hub's game metadata client for callers that enrich a
// ListGames snapshot themselves. May be nil.
func (h *Hub) Metadata() GameMetadata {
	return h.games
}

// hasLiveSession reports whether any connection currently represents the
// given participant identity.
func (h *Hub) hasLiveSession(channelID, username string) bool {
	for _, sess := range h.sessions {
		if sess.ChannelID == channelID && sess.Username == username {
			return true
		}
	}
	return false
}

func (h *Hub) subscribe(c *Client, channelID string) {
	room, ok := h.rooms[channelID]
	if !ok {
		room = NewRoom(channelID)
		h.rooms[channelID] = room
	}
	room.Subscribe(c)
}

func (h *Hub) unsubscribe(c *Client, channelID string) {
	room, ok := h.rooms[channelID]
	if !ok {
		return
	}
	room.Unsubscribe(c)
	if room.Empty() {
		delete(h.rooms, channelID)
	}
}

func (h *Hub) broadcastToRoom(channelID string, ev *Event) {
	if room, ok := h.rooms[channelID]; ok {
		room.Broadcast(ev)
	}
}

func (h *Hub) broadcastParticipants(channelID string) {
	h.broadcastToRoom(channelID, &Event{
		Kind:         EventParticipantsChanged,
		ChannelID:    channelID,
		Participants: h.channels.Participants(channelID),
	})
}

func (h *Hub) broadcastTyping(channelID string) {
	h.broadcastToRoom(channelID, &Event{
		Kind:      EventTypingIndicator,
		ChannelID: channelID,
		Typing:    h.channels.TypingUsernames(channelID),
	})
}
