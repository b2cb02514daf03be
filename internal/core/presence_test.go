package core

import (
	"context"
	"testing"
	"time"
)

func TestDisconnectDebouncedDeparture(t *testing.T) {
	hub := startTestHub(t, Options{DebounceWindow: 80 * time.Millisecond})

	alice := NewClient("a")
	bob := NewClient("b")
	hub.RegisterClient(alice)
	hub.RegisterClient(bob)

	join(alice, "J1", "alice", 1, 0)
	join(bob, "J1", "bob", 2, 0)
	mustEvent(t, alice.Events, EventChannelSnapshot)
	mustEvent(t, bob.Events, EventChannelSnapshot)

	hub.UnregisterClient(alice)

	// Before the window elapses alice is still listed.
	for _, ev := range collectEvents(bob.Events, EventParticipantsChanged, 40*time.Millisecond) {
		if !hasParticipant(ev.Participants, "alice") {
			t.Fatalf("departure broadcast before the debounce window elapsed")
		}
	}

	// After the window the departure is broadcast, typing list included.
	deadline := time.Now().Add(2 * time.Second)
	for {
		ev := mustEvent(t, bob.Events, EventParticipantsChanged)
		if !hasParticipant(ev.Participants, "alice") {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("alice never removed after debounce expiry")
		}
	}
	mustEvent(t, bob.Events, EventTypingIndicator)
}

func TestRejoinWithinWindowNeverObservedAsLeave(t *testing.T) {
	hub := startTestHub(t, Options{DebounceWindow: 150 * time.Millisecond})

	alice := NewClient("a")
	bob := NewClient("b")
	hub.RegisterClient(alice)
	hub.RegisterClient(bob)

	join(alice, "J1", "alice", 1, 0)
	join(bob, "J1", "bob", 2, 0)
	mustEvent(t, alice.Events, EventChannelSnapshot)
	mustEvent(t, bob.Events, EventChannelSnapshot)

	hub.UnregisterClient(alice)

	// Reconnect as alice on a fresh connection inside the window.
	alice2 := NewClient("a2")
	hub.RegisterClient(alice2)
	join(alice2, "J1", "alice", 1, 0)
	mustEvent(t, alice2.Events, EventChannelSnapshot)

	// Watch well past the original window: no participantsChanged may ever
	// drop alice.
	for _, ev := range collectEvents(bob.Events, EventParticipantsChanged, 400*time.Millisecond) {
		if ev.ChannelID == "J1" && !hasParticipant(ev.Participants, "alice") {
			t.Fatalf("rejoin within window must not be observed as a leave: %+v", ev.Participants)
		}
	}
}

func TestDisconnectRemovesUserDirectoryImmediately(t *testing.T) {
	hub := startTestHub(t, Options{DebounceWindow: 500 * time.Millisecond})

	alice := NewClient("a")
	sender := NewClient("b")
	hub.RegisterClient(alice)
	hub.RegisterClient(sender)

	join(alice, "J1", "alice", 42, 0)
	join(sender, "J2", "seven", 7, 0)
	mustEvent(t, alice.Events, EventChannelSnapshot)
	mustEvent(t, sender.Events, EventChannelSnapshot)

	hub.UnregisterClient(alice)
	// Alice is still a participant (debounce pending) but no longer
	// addressable for direct delivery.
	time.Sleep(50 * time.Millisecond)

	sender.Commands <- &Command{
		Kind:         CommandSendPrivateMessage,
		ToUserID:     42,
		FromUserID:   7,
		FromUsername: "seven",
		Content:      "hello?",
	}

	// Sender still gets the echo; nothing is queued for alice.
	mustEvent(t, sender.Events, EventReceivePrivateMessage)
	if evs := collectEvents(alice.Events, EventReceivePrivateMessage, 80*time.Millisecond); len(evs) != 0 {
		t.Fatalf("disconnected user must not receive direct messages")
	}
}

func TestPreCreatedParticipantExpiresInLiveChannel(t *testing.T) {
	hub := startTestHub(t, Options{DebounceWindow: 80 * time.Millisecond})

	bob := NewClient("b")
	hub.RegisterClient(bob)
	join(bob, "J1", "bob", 2, 0)
	mustEvent(t, bob.Events, EventChannelSnapshot)

	// Pre-create into the already-live channel. No connection will ever
	// claim this identity.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := hub.CreateChannel(ctx, "J1", "ghost", 99, 0); err != nil {
		t.Fatalf("CreateChannel: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		ev := mustEvent(t, bob.Events, EventParticipantsChanged)
		if !hasParticipant(ev.Participants, "ghost") {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("pre-created participant never expired")
		}
	}

	// A late joiner must not see the expired identity either.
	carol := NewClient("c")
	hub.RegisterClient(carol)
	join(carol, "J1", "carol", 3, 0)
	snap := mustEvent(t, carol.Events, EventChannelSnapshot)
	if hasParticipant(snap.Snapshot.Participants, "ghost") {
		t.Fatalf("snapshot still lists expired pre-created participant: %+v", snap.Snapshot.Participants)
	}
}

func TestPreCreateOfLiveParticipantArmsNoRemoval(t *testing.T) {
	hub := startTestHub(t, Options{DebounceWindow: 80 * time.Millisecond})

	alice := NewClient("a")
	hub.RegisterClient(alice)
	join(alice, "J1", "alice", 1, 0)
	mustEvent(t, alice.Events, EventChannelSnapshot)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := hub.CreateChannel(ctx, "J1", "alice", 1, 0); err != nil {
		t.Fatalf("CreateChannel: %v", err)
	}

	// The live connection keeps the identity; no expiry may remove it.
	for _, ev := range collectEvents(alice.Events, EventParticipantsChanged, 300*time.Millisecond) {
		if ev.ChannelID == "J1" && !hasParticipant(ev.Participants, "alice") {
			t.Fatalf("pre-create of a live participant must not schedule removal: %+v", ev.Participants)
		}
	}
}

func TestReconnectSupersedesOldConnection(t *testing.T) {
	hub := startTestHub(t, Options{})

	old := NewClient("old")
	fresh := NewClient("fresh")
	sender := NewClient("s")
	hub.RegisterClient(old)
	hub.RegisterClient(fresh)
	hub.RegisterClient(sender)

	join(old, "J1", "alice", 42, 0)
	mustEvent(t, old.Events, EventChannelSnapshot)
	join(fresh, "J1", "alice", 42, 0)
	mustEvent(t, fresh.Events, EventChannelSnapshot)
	join(sender, "J2", "seven", 7, 0)
	mustEvent(t, sender.Events, EventChannelSnapshot)

	sender.Commands <- &Command{
		Kind:         CommandSendPrivateMessage,
		ToUserID:     42,
		FromUserID:   7,
		FromUsername: "seven",
		Content:      "which one",
	}

	// Only the most recent connection for the user id gets the delivery.
	mustEvent(t, fresh.Events, EventReceivePrivateMessage)
	drained := collectEvents(old.Events, EventReceivePrivateMessage, 80*time.Millisecond)
	if len(drained) != 0 {
		t.Fatalf("stale connection must be superseded, got %d deliveries", len(drained))
	}
}
