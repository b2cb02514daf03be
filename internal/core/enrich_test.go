package core

import (
	"context"
	"errors"
	"testing"
)

type stubMetadata struct {
	icons map[int64]string
	names map[int64]string
	err   error
}

func (s *stubMetadata) GameIcons(ctx context.Context, placeIDs []int64) (map[int64]string, error) {
	return s.icons, s.err
}

func (s *stubMetadata) GameNames(ctx context.Context, placeIDs []int64) (map[int64]string, error) {
	return s.names, s.err
}

type stubAvatars struct {
	url string
	err error
}

func (s *stubAvatars) HeadshotURL(ctx context.Context, userID int64) (string, error) {
	return s.url, s.err
}

func TestEnrichGamesAppliesMetadataAndFallback(t *testing.T) {
	games := []Game{{PlaceID: 500}, {PlaceID: 700}}
	meta := &stubMetadata{
		icons: map[int64]string{500: "http://icon/500"},
		names: map[int64]string{500: "Natural Disaster Survival"},
	}

	EnrichGames(context.Background(), meta, games)

	if games[0].ImageURL != "http://icon/500" || games[0].Name != "Natural Disaster Survival" {
		t.Fatalf("metadata not applied: %+v", games[0])
	}
	if games[1].Name != "Game 700" {
		t.Fatalf("expected fallback name, got %q", games[1].Name)
	}
}

func TestEnrichGamesSurvivesLookupFailure(t *testing.T) {
	games := []Game{{PlaceID: 500}}
	meta := &stubMetadata{err: errors.New("boom")}

	EnrichGames(context.Background(), meta, games)

	if games[0].Name != "Game 500" || games[0].ImageURL != "" {
		t.Fatalf("failure must leave absent values: %+v", games[0])
	}
}

func TestEnrichGamesWithoutClient(t *testing.T) {
	games := []Game{{PlaceID: 1}}
	EnrichGames(context.Background(), nil, games)
	if games[0].Name != "Game 1" {
		t.Fatalf("expected fallback name, got %q", games[0].Name)
	}
}

func TestHubResolvesAvatarAfterJoin(t *testing.T) {
	hub := startTestHub(t, Options{Avatars: &stubAvatars{url: "http://av/alice"}})

	alice := NewClient("a")
	hub.RegisterClient(alice)
	join(alice, "J1", "alice", 1, 0)
	mustEvent(t, alice.Events, EventChannelSnapshot)

	deadline := mustEvent(t, alice.Events, EventParticipantsChanged)
	for {
		var withAvatar bool
		for _, p := range deadline.Participants {
			if p.Username == "alice" && p.AvatarURL == "http://av/alice" {
				withAvatar = true
			}
		}
		if withAvatar {
			return
		}
		deadline = mustEvent(t, alice.Events, EventParticipantsChanged)
	}
}

func TestHubAvatarFailureLeavesParticipantUntouched(t *testing.T) {
	hub := startTestHub(t, Options{Avatars: &stubAvatars{err: errors.New("offline")}})

	alice := NewClient("a")
	hub.RegisterClient(alice)
	join(alice, "J1", "alice", 1, 0)

	snap := mustEvent(t, alice.Events, EventChannelSnapshot)
	if snap.Snapshot.Participants[0].AvatarURL != "" {
		t.Fatalf("avatar must stay absent on failure")
	}
}
