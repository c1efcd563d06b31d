package youtube

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"playlist-archiver/core/retry"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

const pageSize = 50

// Client wraps the YouTube Data API calls the archiver relies on.
// One client serves one authorized account.
type Client struct {
	service *youtube.Service
	limiter *rate.Limiter
	retry   retry.Config
	logger  *zap.Logger
}

// NewClient creates a client. Credentials and endpoints are supplied through opts.
func NewClient(ctx context.Context, cfg Config, logger *zap.Logger, opts ...option.ClientOption) (*Client, error) {
	service, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}

	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 5
	}

	rc := retry.DefaultConfig()
	if cfg.MaxRetries >= 0 {
		rc.MaxRetries = cfg.MaxRetries
	}

	return &Client{
		service: service,
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		retry:   rc,
		logger:  logger,
	}, nil
}

// AccountName returns the channel title of the authorized account.
func (c *Client) AccountName(ctx context.Context) (string, error) {
	var name string
	err := c.call(ctx, func(ctx context.Context) error {
		resp, err := c.service.Channels.List([]string{"snippet"}).Mine(true).Context(ctx).Do()
		if err != nil {
			return err
		}
		if len(resp.Items) == 0 || resp.Items[0].Snippet == nil {
			return retry.Permanent(errors.New("authorized user has no channel"))
		}
		name = resp.Items[0].Snippet.Title
		return nil
	})
	return name, err
}

// ListPlaylists returns every playlist of the authorized account.
func (c *Client) ListPlaylists(ctx context.Context) ([]Playlist, error) {
	var playlists []Playlist
	pageToken := ""
	for {
		var next string
		err := c.call(ctx, func(ctx context.Context) error {
			resp, err := c.service.Playlists.List([]string{"snippet", "contentDetails"}).
				Mine(true).
				MaxResults(pageSize).
				PageToken(pageToken).
				Context(ctx).
				Do()
			if err != nil {
				return err
			}
			for _, p := range resp.Items {
				pl := Playlist{ID: p.Id}
				if p.Snippet != nil {
					pl.Title = p.Snippet.Title
					pl.Owner = p.Snippet.ChannelTitle
				}
				if p.ContentDetails != nil {
					pl.VideoCount = p.ContentDetails.ItemCount
				}
				playlists = append(playlists, pl)
			}
			next = resp.NextPageToken
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("list playlists: %w", err)
		}
		if next == "" {
			return playlists, nil
		}
		pageToken = next
	}
}

// ListPlaylistItems returns every item of a playlist.
func (c *Client) ListPlaylistItems(ctx context.Context, playlistID string) ([]PlaylistItem, error) {
	var items []PlaylistItem
	pageToken := ""
	for {
		var next string
		err := c.call(ctx, func(ctx context.Context) error {
			resp, err := c.service.PlaylistItems.List([]string{"snippet", "contentDetails", "status"}).
				PlaylistId(playlistID).
				MaxResults(pageSize).
				PageToken(pageToken).
				Context(ctx).
				Do()
			if err != nil {
				return err
			}
			for _, it := range resp.Items {
				items = append(items, convertPlaylistItem(it))
			}
			next = resp.NextPageToken
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("list playlist items of %s: %w", playlistID, err)
		}
		if next == "" {
			return items, nil
		}
		pageToken = next
	}
}

// ListLikedVideos returns the videos the authorized account rated "like".
// Position and added date have no meaning for this list and stay empty.
func (c *Client) ListLikedVideos(ctx context.Context) ([]PlaylistItem, error) {
	var items []PlaylistItem
	pageToken := ""
	for {
		var next string
		err := c.call(ctx, func(ctx context.Context) error {
			resp, err := c.service.Videos.List([]string{"snippet", "status"}).
				MyRating("like").
				MaxResults(pageSize).
				PageToken(pageToken).
				Context(ctx).
				Do()
			if err != nil {
				return err
			}
			for _, v := range resp.Items {
				item := PlaylistItem{VideoID: v.Id}
				if v.Snippet != nil {
					item.Title = v.Snippet.Title
					item.Uploader = v.Snippet.ChannelTitle
					item.UploaderID = v.Snippet.ChannelId
					item.PublishedAt = v.Snippet.PublishedAt
					item.Description = v.Snippet.Description
				}
				if v.Status != nil {
					item.Status = v.Status.PrivacyStatus
				}
				items = append(items, item)
			}
			next = resp.NextPageToken
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("list liked videos: %w", err)
		}
		if next == "" {
			return items, nil
		}
		pageToken = next
	}
}

// VideoStatus returns the privacy status of a video. found is false when the
// platform no longer knows the video.
func (c *Client) VideoStatus(ctx context.Context, videoID string) (status string, found bool, err error) {
	err = c.call(ctx, func(ctx context.Context) error {
		resp, err := c.service.Videos.List([]string{"status"}).Id(videoID).Context(ctx).Do()
		if err != nil {
			return err
		}
		if len(resp.Items) == 0 {
			found = false
			return nil
		}
		found = true
		if resp.Items[0].Status != nil {
			status = resp.Items[0].Status.PrivacyStatus
		}
		return nil
	})
	if err != nil {
		return "", false, fmt.Errorf("video status of %s: %w", videoID, err)
	}
	return status, found, nil
}

func (c *Client) call(ctx context.Context, fn func(context.Context) error) error {
	return retry.Do(ctx, c.retry, apiErrorClassifier, func(ctx context.Context) error {
		if err := c.limiter.Wait(ctx); err != nil {
			return retry.Permanent(err)
		}
		err := fn(ctx)
		if err != nil && apiErrorClassifier(err) {
			c.logger.Debug("Retrying YouTube API call", zap.Error(err))
		}
		return err
	})
}

func convertPlaylistItem(it *youtube.PlaylistItem) PlaylistItem {
	item := PlaylistItem{}
	if it.Snippet != nil {
		item.Position = strconv.FormatInt(it.Snippet.Position, 10)
		item.AddedAt = it.Snippet.PublishedAt
		item.Title = it.Snippet.Title
		item.Description = it.Snippet.Description
		item.Uploader = it.Snippet.VideoOwnerChannelTitle
		item.UploaderID = it.Snippet.VideoOwnerChannelId
		if it.Snippet.ResourceId != nil {
			item.VideoID = it.Snippet.ResourceId.VideoId
		}
	}
	if it.ContentDetails != nil {
		item.PublishedAt = it.ContentDetails.VideoPublishedAt
		if item.VideoID == "" {
			item.VideoID = it.ContentDetails.VideoId
		}
	}
	if it.Status != nil {
		item.Status = it.Status.PrivacyStatus
	}
	return item
}

// apiErrorClassifier retries throttling and server errors only.
func apiErrorClassifier(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		if apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= 500 {
			return true
		}
		return false
	}

	// transport failures
	return true
}
