package index

import (
	"context"
	"fmt"

	"playlist-archiver/core/youtube"

	"go.uber.org/zap"
)

// Source is the remote listing API of one authorized account.
type Source interface {
	ListPlaylists(ctx context.Context) ([]youtube.Playlist, error)
	ListPlaylistItems(ctx context.Context, playlistID string) ([]youtube.PlaylistItem, error)
	ListLikedVideos(ctx context.Context) ([]youtube.PlaylistItem, error)
}

// Collect fetches every playlist, its items and the liked videos of account.
// Any fetch error aborts the whole collection.
func Collect(ctx context.Context, src Source, account string, logger *zap.Logger) (AccountSnapshot, error) {
	snap := AccountSnapshot{Account: account}
	logger = logger.With(zap.String("account", account))

	logger.Info("Requesting playlist info")
	playlists, err := src.ListPlaylists(ctx)
	if err != nil {
		return AccountSnapshot{}, fmt.Errorf("fetch playlists of %s: %w", account, err)
	}

	for _, pl := range playlists {
		logger.Info("Fetching playlist", zap.String("title", pl.Title), zap.String("playlist_id", pl.ID))
		items, err := src.ListPlaylistItems(ctx, pl.ID)
		if err != nil {
			return AccountSnapshot{}, fmt.Errorf("fetch playlist %q of %s: %w", pl.Title, account, err)
		}
		snap.Playlists = append(snap.Playlists, PlaylistSnapshot{Playlist: pl, Items: items})
	}

	logger.Info("Fetching liked videos")
	liked, err := src.ListLikedVideos(ctx)
	if err != nil {
		return AccountSnapshot{}, fmt.Errorf("fetch liked videos of %s: %w", account, err)
	}
	snap.Liked = liked

	return snap, nil
}
