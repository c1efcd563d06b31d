package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(context.Background(), Config{RequestsPerSecond: 1000, MaxRetries: 3}, zap.NewNop(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	return client
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestClient_AccountName(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/channels"))
		assert.Equal(t, "true", r.URL.Query().Get("mine"))
		writeJSON(t, w, map[string]any{
			"items": []any{map[string]any{"id": "UC1", "snippet": map[string]any{"title": "alice"}}},
		})
	})

	name, err := client.AccountName(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "alice", name)
}

func TestClient_AccountName_NoChannel(t *testing.T) {
	var hits int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		writeJSON(t, w, map[string]any{"items": []any{}})
	})

	_, err := client.AccountName(context.Background())
	assert.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestClient_ListPlaylists_Paginates(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/playlists"))
		assert.Equal(t, "50", r.URL.Query().Get("maxResults"))
		switch r.URL.Query().Get("pageToken") {
		case "":
			writeJSON(t, w, map[string]any{
				"nextPageToken": "page2",
				"items": []any{map[string]any{
					"id":             "PL1",
					"snippet":        map[string]any{"title": "Music", "channelTitle": "alice"},
					"contentDetails": map[string]any{"itemCount": 12},
				}},
			})
		case "page2":
			writeJSON(t, w, map[string]any{
				"items": []any{map[string]any{
					"id":      "PL2",
					"snippet": map[string]any{"title": "Talks", "channelTitle": "alice"},
				}},
			})
		default:
			t.Errorf("unexpected page token %q", r.URL.Query().Get("pageToken"))
		}
	})

	playlists, err := client.ListPlaylists(context.Background())
	require.NoError(t, err)
	require.Len(t, playlists, 2)
	assert.Equal(t, Playlist{ID: "PL1", Title: "Music", VideoCount: 12, Owner: "alice"}, playlists[0])
	assert.Equal(t, Playlist{ID: "PL2", Title: "Talks", Owner: "alice"}, playlists[1])
}

func TestClient_ListPlaylistItems(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/playlistItems"))
		assert.Equal(t, "PL1", r.URL.Query().Get("playlistId"))
		writeJSON(t, w, map[string]any{
			"items": []any{
				map[string]any{
					"snippet": map[string]any{
						"position":               3,
						"publishedAt":            "2023-01-02T00:00:00Z",
						"title":                  "Song",
						"description":            "desc",
						"videoOwnerChannelTitle": "bob",
						"videoOwnerChannelId":    "UCbob",
						"resourceId":             map[string]any{"videoId": "v1"},
					},
					"contentDetails": map[string]any{"videoId": "v1", "videoPublishedAt": "2020-05-05T00:00:00Z"},
					"status":         map[string]any{"privacyStatus": "public"},
				},
				map[string]any{
					"snippet":        map[string]any{"title": "Private video"},
					"contentDetails": map[string]any{"videoId": "v2"},
					"status":         map[string]any{"privacyStatus": "private"},
				},
			},
		})
	})

	items, err := client.ListPlaylistItems(context.Background(), "PL1")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, PlaylistItem{
		Position:    "3",
		AddedAt:     "2023-01-02T00:00:00Z",
		Title:       "Song",
		VideoID:     "v1",
		Status:      "public",
		Uploader:    "bob",
		UploaderID:  "UCbob",
		PublishedAt: "2020-05-05T00:00:00Z",
		Description: "desc",
	}, items[0])
	assert.Equal(t, "v2", items[1].VideoID)
	assert.Equal(t, "private", items[1].Status)
	assert.Equal(t, "0", items[1].Position)
}

func TestClient_ListLikedVideos(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/videos"))
		assert.Equal(t, "like", r.URL.Query().Get("myRating"))
		writeJSON(t, w, map[string]any{
			"items": []any{map[string]any{
				"id": "v9",
				"snippet": map[string]any{
					"title":        "Liked",
					"channelTitle": "carol",
					"channelId":    "UCcarol",
					"publishedAt":  "2019-01-01T00:00:00Z",
				},
				"status": map[string]any{"privacyStatus": "unlisted"},
			}},
		})
	})

	items, err := client.ListLikedVideos(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "v9", items[0].VideoID)
	assert.Equal(t, "unlisted", items[0].Status)
	assert.Equal(t, "carol", items[0].Uploader)
	assert.Empty(t, items[0].Position)
	assert.Empty(t, items[0].AddedAt)
}

func TestClient_VideoStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("id") {
		case "gone":
			writeJSON(t, w, map[string]any{"items": []any{}})
		default:
			writeJSON(t, w, map[string]any{
				"items": []any{map[string]any{"id": "v1", "status": map[string]any{"privacyStatus": "private"}}},
			})
		}
	})

	status, found, err := client.VideoStatus(context.Background(), "v1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "private", status)

	status, found, err = client.VideoStatus(context.Background(), "gone")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, status)
}

func TestClient_DoesNotRetryClientErrors(t *testing.T) {
	var hits int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":403,"message":"quotaExceeded"}}`))
	})

	_, err := client.ListPlaylists(context.Background())
	require.Error(t, err)

	var apiErr *googleapi.Error
	assert.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusForbidden, apiErr.Code)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestAPIErrorClassifier(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"canceled", context.Canceled, false},
		{"deadline", context.DeadlineExceeded, false},
		{"throttled", &googleapi.Error{Code: http.StatusTooManyRequests}, true},
		{"server error", &googleapi.Error{Code: http.StatusServiceUnavailable}, true},
		{"not found", &googleapi.Error{Code: http.StatusNotFound}, false},
		{"forbidden", &googleapi.Error{Code: http.StatusForbidden}, false},
		{"transport", errors.New("connection reset by peer"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, apiErrorClassifier(tt.err))
		})
	}
}
