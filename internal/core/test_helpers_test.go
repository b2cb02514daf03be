package core

import (
	"context"
	"testing"
	"time"
)

// startTestHub runs a hub with a short debounce window so departure tests
// stay fast.
func startTestHub(t *testing.T, opts Options) *Hub {
	t.Helper()

	if opts.DebounceWindow == 0 {
		opts.DebounceWindow = 100 * time.Millisecond
	}
	hub := NewHub(opts)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)
	return hub
}

func mustEvent(t *testing.T, ch <-chan *Event, kind EventKind) *Event {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		select {
		case ev := <-ch:
			if ev == nil {
				continue
			}
			if ev.Kind == kind {
				return ev
			}
		default:
			time.Sleep(5 * time.Millisecond)
		}
	}
	t.Fatalf("expected event kind %v not received", kind)
	return nil
}

// collectEvents drains every event of the given kind that arrives within the
// window.
func collectEvents(ch <-chan *Event, kind EventKind, window time.Duration) []*Event {
	var out []*Event
	deadline := time.Now().Add(window)
	for time.Now().Before(deadline) {
		select {
		case ev := <-ch:
			if ev != nil && ev.Kind == kind {
				out = append(out, ev)
			}
		default:
			time.Sleep(5 * time.Millisecond)
		}
	}
	return out
}

func hasParticipant(participants []Participant, username string) bool {
	for _, p := range participants {
		if p.Username == username {
			return true
		}
	}
	return false
}

func join(c *Client, channelID, username string, userID, placeID int64) {
	c.Commands <- &Command{
		Kind:      CommandJoinChannel,
		ChannelID: channelID,
		Username:  username,
		UserID:    userID,
		PlaceID:   placeID,
	}
}
