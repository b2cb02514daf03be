package core

import (
	"context"
	"fmt"
)

// AvatarLookup resolves a user's avatar headshot URL. Implementations call an
// external service; failures are reported as errors and never written into
// registry state.
type AvatarLookup interface {
	HeadshotURL(ctx context.Context, userID int64) (string, error)
}

// GameMetadata resolves display metadata for places. Implementations call
// external services; partial results are fine.
type GameMetadata interface {
	// GameIcons returns icon URLs keyed by place id.
	GameIcons(ctx context.Context, placeIDs []int64) (map[int64]string, error)
	// GameNames returns display names keyed by place id.
	GameNames(ctx context.Context, placeIDs []int64) (map[int64]string, error)
}

// EnrichGames decorates an aggregation snapshot with icons and display names.
// The snapshot is detached from the registry, so entries whose channels have
// since disappeared are enriched harmlessly. Lookup failures leave fields at
// their fallback values; every game ends up with a non-empty name.
func EnrichGames(ctx context.Context, meta GameMetadata, games []Game) {
	if meta != nil && len(games) > 0 {
		placeIDs := make([]int64, 0, len(games))
		for _, g := range games {
			placeIDs = append(placeIDs, g.PlaceID)
		}

		if icons, err := meta.GameIcons(ctx, placeIDs); err == nil {
			for i := range games {
				if url, ok := icons[games[i].PlaceID]; ok {
					games[i].ImageURL = url
				}
			}
		}
		if names, err := meta.GameNames(ctx, placeIDs); err == nil {
			for i := range games {
				if name, ok := names[games[i].PlaceID]; ok {
					games[i].Name = name
				}
			}
		}
	}

	for i := range games {
		if games[i].Name == "" {
			games[i].Name = fmt.Sprintf("Game %d", games[i].PlaceID)
		}
	}
}
