package http

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/bloxcord/bloxcord-server/internal/proto"
)

func TestCreateChannelEndpoint(t *testing.T) {
	ts := startTestServer(t)

	body := `{"channelId":"S1","username":"alice","userId":1,"placeId":1000}`
	resp, err := ts.Client().Post(ts.URL+"/api/channels", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}

	var snap proto.ChannelSnapshotData
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if snap.ChannelID != "S1" || len(snap.Participants) != 1 || snap.Participants[0].Username != "alice" {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}

func TestCreateChannelEndpointRejectsMissingFields(t *testing.T) {
	ts := startTestServer(t)

	resp, err := ts.Client().Post(ts.URL+"/api/channels", "application/json", strings.NewReader(`{"channelId":"S1"}`))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestListGamesEndpoint(t *testing.T) {
	ts := startTestServer(t)

	for _, body := range []string{
		`{"channelId":"S1","username":"alice","userId":1,"placeId":1000}`,
		`{"channelId":"S2","username":"bob","userId":2,"placeId":1000}`,
	} {
		resp, err := ts.Client().Post(ts.URL+"/api/channels", "application/json", strings.NewReader(body))
		if err != nil {
			t.Fatalf("post: %v", err)
		}
		resp.Body.Close()
	}

	resp, err := ts.Client().Get(ts.URL + "/api/games")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var games []proto.GameData
	if err := json.NewDecoder(resp.Body).Decode(&games); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(games) != 1 {
		t.Fatalf("games = %+v, want one entry", games)
	}
	if games[0].PlaceID != 1000 || games[0].ServerCount != 2 || games[0].PlayerCount != 2 {
		t.Fatalf("unexpected aggregation: %+v", games[0])
	}
}
