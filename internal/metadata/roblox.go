// Package metadata talks to the game platform's public thumbnail and game
// info services. Every lookup is best-effort: failures surface as errors to
// the caller, which converts them into absent values, never into registry
// state or protocol errors.
package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	defaultThumbnailsBaseURL = "https://thumbnails.roblox.com"
	defaultUniversesBaseURL  = "https://apis.roblox.com"
	defaultGamesBaseURL      = "https://games.roblox.com"

	defaultRequestTimeout = 10 * time.Second
)

// Options configures a Client. Zero values fall back to the production
// service endpoints.
type Options struct {
	ThumbnailsBaseURL string
	UniversesBaseURL  string
	GamesBaseURL      string
	RequestTimeout    time.Duration
}

// Client resolves avatars, game icons and game names over HTTP.
type Client struct {
	thumbnails string
	universes  string
	games      string
	http       *http.Client
	log        *zerolog.Logger
}

// NewClient builds a metadata client.
func NewClient(opts Options, logger *zerolog.Logger) *Client {
	thumbnails := opts.ThumbnailsBaseURL
	if thumbnails == "" {
		thumbnails = defaultThumbnailsBaseURL
	}
	universes := opts.UniversesBaseURL
	if universes == "" {
		universes = defaultUniversesBaseURL
	}
	games := opts.GamesBaseURL
	if games == "" {
		games = defaultGamesBaseURL
	}
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &Client{
		thumbnails: strings.TrimRight(thumbnails, "/"),
		universes:  strings.TrimRight(universes, "/"),
		games:      strings.TrimRight(games, "/"),
		http:       &http.Client{Timeout: timeout},
		log:        logger,
	}
}

type thumbnailBatch struct {
	Data []struct {
		TargetID int64  `json:"targetId"`
		ImageURL string `json:"imageUrl"`
	} `json:"data"`
}

// HeadshotURL fetches the circular 48x48 headshot for a user.
func (c *Client) HeadshotURL(ctx context.Context, userID int64) (string, error) {
	q := url.Values{
		"userIds":    {strconv.FormatInt(userID, 10)},
		"size":       {"48x48"},
		"format":     {"Png"},
		"isCircular": {"true"},
	}
	var batch thumbnailBatch
	if err := c.getJSON(ctx, c.thumbnails+"/v1/users/avatar-headshot?"+q.Encode(), &batch); err != nil {
		return "", fmt.Errorf("avatar headshot: %w", err)
	}
	if len(batch.Data) == 0 {
		return "", nil
	}
	return batch.Data[0].ImageURL, nil
}

// GameIcons fetches 150x150 place icons keyed by place id.
func (c *Client) GameIcons(ctx context.Context, placeIDs []int64) (map[int64]string, error) {
	if len(placeIDs) == 0 {
		return nil, nil
	}
	q := url.Values{
		"placeIds":     {joinIDs(placeIDs)},
		"returnPolicy": {"PlaceHolder"},
		"size":         {"150x150"},
		"format":       {"Png"},
		"isCircular":   {"false"},
	}
	var batch thumbnailBatch
	if err := c.getJSON(ctx, c.thumbnails+"/v1/places/gameicons?"+q.Encode(), &batch); err != nil {
		return nil, fmt.Errorf("game icons: %w", err)
	}
	icons := make(map[int64]string, len(batch.Data))
	for _, item := range batch.Data {
		if item.ImageURL != "" {
			icons[item.TargetID] = item.ImageURL
		}
	}
	return icons, nil
}

// GameNames resolves display names for places. Names hang off universes, so
// each place id is first mapped to its universe, then universes are resolved
// in one batch. Places that fail either hop are just left out of the result.
func (c *Client) GameNames(ctx context.Context, placeIDs []int64) (map[int64]string, error) {
	if len(placeIDs) == 0 {
		return nil, nil
	}

	placesByUniverse := make(map[int64][]int64)
	for _, placeID := range placeIDs {
		universeID, err := c.universeID(ctx, placeID)
		if err != nil {
			c.log.Debug().Err(err).Int64("place_id", placeID).Msg("universe lookup failed")
			continue
		}
		placesByUniverse[universeID] = append(placesByUniverse[universeID], placeID)
	}
	if len(placesByUniverse) == 0 {
		return nil, nil
	}

	universeIDs := make([]int64, 0, len(placesByUniverse))
	for id := range placesByUniverse {
		universeIDs = append(universeIDs, id)
	}

	var games struct {
		Data []struct {
			ID   int64  `json:"id"`
			Name string `json:"name"`
		} `json:"data"`
	}
	q := url.Values{"universeIds": {joinIDs(universeIDs)}}
	if err := c.getJSON(ctx, c.games+"/v1/games?"+q.Encode(), &games); err != nil {
		return nil, fmt.Errorf("game names: %w", err)
	}

	names := make(map[int64]string)
	for _, info := range games.Data {
		for _, placeID := range placesByUniverse[info.ID] {
			names[placeID] = info.Name
		}
	}
	return names, nil
}

func (c *Client) universeID(ctx context.Context, placeID int64) (int64, error) {
	var out struct {
		UniverseID int64 `json:"universeId"`
	}
	endpoint := fmt.Sprintf("%s/universes/v1/places/%d/universe", c.universes, placeID)
	if err := c.getJSON(ctx, endpoint, &out); err != nil {
		return 0, err
	}
	return out.UniverseID, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func joinIDs(ids []int64) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, strconv.FormatInt(id, 10))
	}
	return strings.Join(parts, ",")
}
