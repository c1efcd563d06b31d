// Package index turns fetched playlists and liked videos into index rows.
//
// Owner and publish metadata are blanked for private and unspecified videos,
// unknown statuses and playlist owner mismatches are logged as warnings, and
// liked videos are grouped under the "{account}_liked" pseudo-playlist.
package index
