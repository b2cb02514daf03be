package core

import (
	"fmt"
	"testing"
)

func TestCreateOrGetIsIdempotent(t *testing.T) {
	r := NewChannelRegistry()

	first := r.CreateOrGet("J1", "alice", 1, "", 500)
	second := r.CreateOrGet("J1", "bob", 2, "", 500)

	if first != second {
		t.Fatal("expected the same channel record")
	}
	if second.CreatedBy != "alice" {
		t.Fatalf("creator must be the first joiner, got %q", second.CreatedBy)
	}
	if second.ParticipantCount() != 2 {
		t.Fatalf("expected 2 participants, got %d", second.ParticipantCount())
	}
}

func TestUpsertParticipantLastJoinWins(t *testing.T) {
	r := NewChannelRegistry()

	r.CreateOrGet("J1", "alice", 1, "http://old", 0)
	ch := r.CreateOrGet("J1", "alice", 99, "http://new", 0)

	p := ch.Participant("alice")
	if p.UserID != 99 || p.AvatarURL != "http://new" {
		t.Fatalf("conflicting identity must be overwritten: %+v", p)
	}
	if ch.ParticipantCount() != 1 {
		t.Fatalf("upsert must not duplicate, got %d", ch.ParticipantCount())
	}
}

func TestRemovingLastParticipantDeletesChannel(t *testing.T) {
	r := NewChannelRegistry()

	r.CreateOrGet("J1", "alice", 0, "", 0)
	r.CreateOrGet("J1", "bob", 0, "", 0)

	r.RemoveParticipant("J1", "alice")
	if r.Get("J1") == nil {
		t.Fatal("channel deleted while a participant remains")
	}
	r.RemoveParticipant("J1", "bob")
	if r.Get("J1") != nil {
		t.Fatal("empty channel must be deleted")
	}
}

func TestHistoryCapKeepsLastHundredInOrder(t *testing.T) {
	r := NewChannelRegistry()
	ch := r.CreateOrGet("J1", "alice", 0, "", 0)

	for i := 0; i < 150; i++ {
		ch.AppendMessage(ChatMessage{ChannelID: "J1", Username: "alice", Content: fmt.Sprintf("m%d", i)})
	}

	history := ch.History()
	if len(history) != HistoryLimit {
		t.Fatalf("expected %d messages, got %d", HistoryLimit, len(history))
	}
	if history[0].Content != "m50" || history[len(history)-1].Content != "m149" {
		t.Fatalf("oldest must be evicted first: first=%q last=%q", history[0].Content, history[len(history)-1].Content)
	}
}

func TestHistorySnapshotDoesNotAliasLiveBuffer(t *testing.T) {
	r := NewChannelRegistry()
	ch := r.CreateOrGet("J1", "alice", 0, "", 0)
	ch.AppendMessage(ChatMessage{ChannelID: "J1", Username: "alice", Content: "original"})

	snapshot := ch.History()
	snapshot[0].Content = "tampered"

	if got := ch.History()[0].Content; got != "original" {
		t.Fatalf("live history mutated through a snapshot: %q", got)
	}
}

func TestTypingSetStaysWithinParticipants(t *testing.T) {
	r := NewChannelRegistry()
	ch := r.CreateOrGet("J1", "alice", 0, "", 0)

	r.SetTyping("J1", "alice", true)
	r.SetTyping("J1", "ghost", true)

	if got := ch.TypingUsernames(); len(got) != 1 || got[0] != "alice" {
		t.Fatalf("unexpected typing set: %v", got)
	}

	ch.RemoveParticipant("alice")
	if got := ch.TypingUsernames(); len(got) != 0 {
		t.Fatalf("removal must clear the typing flag: %v", got)
	}
}

func TestGamesGroupsByPlaceWithExclusions(t *testing.T) {
	r := NewChannelRegistry()

	r.CreateOrGet("S1", "a", 0, "http://av/a", 500)
	r.CreateOrGet("S1", "b", 0, "", 500)
	r.CreateOrGet("S1", "c", 0, "http://av/c", 500)
	r.CreateOrGet("S2", "d", 0, "", 500)
	r.CreateOrGet("S2", "e", 0, "", 500)
	// Sentinel DM id and missing place id must be excluded.
	r.CreateOrGet("-99", "f", 0, "", 500)
	r.CreateOrGet("S3", "g", 0, "", 0)

	games := r.Games()
	if len(games) != 1 {
		t.Fatalf("expected one game, got %+v", games)
	}
	game := games[0]
	if game.PlaceID != 500 || game.ServerCount != 2 || game.PlayerCount != 5 {
		t.Fatalf("unexpected aggregation: %+v", game)
	}
	if len(game.Servers) != 2 {
		t.Fatalf("expected two server entries, got %+v", game.Servers)
	}
	for _, srv := range game.Servers {
		if srv.ChannelID == "S1" && len(srv.AvatarURLs) != 2 {
			t.Fatalf("expected two non-empty avatars for S1, got %v", srv.AvatarURLs)
		}
	}
}

func TestGamesSortDeterministicTieBreak(t *testing.T) {
	r := NewChannelRegistry()

	// place 900: two servers; places 100 and 200: one server each (tie).
	r.CreateOrGet("A1", "a", 0, "", 900)
	r.CreateOrGet("A2", "b", 0, "", 900)
	r.CreateOrGet("B1", "c", 0, "", 200)
	r.CreateOrGet("C1", "d", 0, "", 100)

	for i := 0; i < 10; i++ {
		games := r.Games()
		if len(games) != 3 {
			t.Fatalf("expected three games, got %+v", games)
		}
		if games[0].PlaceID != 900 || games[1].PlaceID != 100 || games[2].PlaceID != 200 {
			t.Fatalf("unexpected order: %d %d %d", games[0].PlaceID, games[1].PlaceID, games[2].PlaceID)
		}
	}
}

func TestSearchUsersMatchingAndCap(t *testing.T) {
	r := NewChannelRegistry()

	r.CreateOrGet("J1", "Alice", 0, "", 0)
	r.CreateOrGet("J1", "Albert", 0, "", 0)
	r.CreateOrGet("J1", "Bob", 0, "", 0)

	results := r.SearchUsers("al", "J1")
	if len(results) != 2 {
		t.Fatalf("expected {Alice, Albert}, got %+v", results)
	}

	// Global search de-duplicates by username on first occurrence.
	r.CreateOrGet("J2", "Alice", 7, "", 0)
	global := r.SearchUsers("alice", "")
	if len(global) != 1 {
		t.Fatalf("expected one de-duplicated entry, got %+v", global)
	}

	// More than ten matches cap at ten.
	for i := 0; i < 15; i++ {
		r.CreateOrGet("J3", fmt.Sprintf("malcolm%02d", i), 0, "", 0)
	}
	capped := r.SearchUsers("malcolm", "")
	if len(capped) != 10 {
		t.Fatalf("expected cap of 10, got %d", len(capped))
	}

	if got := r.SearchUsers("", "J1"); len(got) != 0 {
		t.Fatalf("empty query must return nothing, got %+v", got)
	}
}
