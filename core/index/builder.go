package index

import (
	"playlist-archiver/core/records"
	"playlist-archiver/core/utils"
	"playlist-archiver/core/youtube"

	"go.uber.org/zap"
)

// PlaylistSnapshot is a playlist together with every item fetched from it.
type PlaylistSnapshot struct {
	Playlist youtube.Playlist
	Items    []youtube.PlaylistItem
}

// AccountSnapshot is everything fetched for one account in one run.
type AccountSnapshot struct {
	// Account is the display name of the channel that was fetched.
	Account string
	// Playlists holds the account's own playlists in listing order.
	Playlists []PlaylistSnapshot
	// Liked holds the videos rated "like" by the account.
	Liked []youtube.PlaylistItem
}

// Builder converts fetched snapshots into index rows.
type Builder struct {
	logger *zap.Logger
}

// NewBuilder creates a builder that reports data anomalies to logger.
func NewBuilder(logger *zap.Logger) *Builder {
	return &Builder{logger: logger}
}

// Build returns the index rows of one account: every playlist item in
// playlist order, followed by the liked videos pseudo-playlist.
func (b *Builder) Build(snap AccountSnapshot) []records.VideoRecord {
	var rows []records.VideoRecord

	for _, pl := range snap.Playlists {
		if pl.Playlist.Owner != snap.Account {
			b.logger.Warn("Playlist owner does not match account",
				zap.String("account", snap.Account),
				zap.String("owner", pl.Playlist.Owner),
				zap.String("playlist_id", pl.Playlist.ID),
				zap.Int("items", len(pl.Items)),
			)
		}

		for _, item := range pl.Items {
			rec := records.VideoRecord{
				Account:            pl.Playlist.Owner,
				PlaylistTitle:      pl.Playlist.Title,
				PlaylistID:         pl.Playlist.ID,
				PlaylistVideoCount: utils.ToString(pl.Playlist.VideoCount),
				Position:           item.Position,
				DateAdded:          item.AddedAt,
				Title:              item.Title,
				VideoID:            item.VideoID,
				Status:             item.Status,
				Description:        item.Description,
			}
			if rec.Account == "" {
				rec.Account = snap.Account
			}
			b.fillOwner(&rec, item)
			b.checkStatus(rec)
			rows = append(rows, rec)
		}
	}

	likedID := records.LikedPlaylistID(snap.Account)
	for _, item := range snap.Liked {
		rec := records.VideoRecord{
			Account:       snap.Account,
			PlaylistTitle: records.LikedPlaylistTitle,
			PlaylistID:    likedID,
			Title:         item.Title,
			VideoID:       item.VideoID,
			Status:        item.Status,
			Description:   item.Description,
		}
		b.fillOwner(&rec, item)
		b.checkStatus(rec)
		rows = append(rows, rec)
	}

	return rows
}

// BuildAll concatenates the rows of every snapshot in order.
func (b *Builder) BuildAll(snaps []AccountSnapshot) []records.VideoRecord {
	var rows []records.VideoRecord
	for _, s := range snaps {
		rows = append(rows, b.Build(s)...)
	}
	return rows
}

// fillOwner copies owner and publish metadata unless the status withholds it.
func (b *Builder) fillOwner(rec *records.VideoRecord, item youtube.PlaylistItem) {
	if records.HidesMetadata(rec.Status) {
		return
	}
	rec.Uploader = item.Uploader
	rec.UploaderID = item.UploaderID
	rec.DatePublished = item.PublishedAt
}

func (b *Builder) checkStatus(rec records.VideoRecord) {
	if records.IsKnownStatus(rec.Status) {
		return
	}
	b.logger.Warn("New privacy status detected",
		zap.String("account", rec.Account),
		zap.String("playlist_id", rec.PlaylistID),
		zap.String("video_id", rec.VideoID),
		zap.String("status", rec.Status),
	)
}
