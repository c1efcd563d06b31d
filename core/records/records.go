package records

import "time"

// Video statuses reported by the platform.
const (
	StatusPublic      = "public"
	StatusUnlisted    = "unlisted"
	StatusPrivate     = "private"
	StatusUnspecified = "privacyStatusUnspecified"

	// StatusDeleted is the label used in transition annotations for videos
	// that no longer exist remotely.
	StatusDeleted = "deleted"
)

// ArchiveDateLayout is the layout of the date_archived column.
const ArchiveDateLayout = "20060102_150405"

// LikedPlaylistTitle is the title of the liked videos pseudo-playlist.
const LikedPlaylistTitle = "Liked videos"

// VideoRecord is one (playlist, video) row of an index.
type VideoRecord struct {
	Account            string `json:"user"`
	PlaylistTitle      string `json:"p_title"`
	PlaylistID         string `json:"p_id"`
	PlaylistVideoCount string `json:"p_video_count"`
	Position           string `json:"p_index"`
	DateAdded          string `json:"p_date_added"`
	Title              string `json:"v_title"`
	VideoID            string `json:"v_id"`
	Status             string `json:"v_status"`
	Uploader           string `json:"v_uploader"`
	UploaderID         string `json:"v_uploader_id"`
	DatePublished      string `json:"v_date_published"`
	Description        string `json:"v_description"`
}

// Key returns the identity of the record within one index.
func (r VideoRecord) Key() Key {
	return Key{PlaylistID: r.PlaylistID, VideoID: r.VideoID}
}

// Annotated returns a copy of the record whose status reads "{from} -> {to}".
func (r VideoRecord) Annotated(from, to string) VideoRecord {
	r.Status = from + " -> " + to
	return r
}

// LedgerEntry is a VideoRecord stamped with the time it entered a ledger.
type LedgerEntry struct {
	VideoRecord
	DateArchived string `json:"date_archived"`
}

// NewLedgerEntry stamps a record with the given time.
func NewLedgerEntry(r VideoRecord, at time.Time) LedgerEntry {
	return LedgerEntry{VideoRecord: r, DateArchived: at.Format(ArchiveDateLayout)}
}

// Key identifies a record by playlist and video.
type Key struct {
	PlaylistID string
	VideoID    string
}

// String returns the key as "playlist/video".
func (k Key) String() string {
	return k.PlaylistID + "/" + k.VideoID
}

// IsKnownStatus reports whether status is one of the four statuses the
// platform is known to return.
func IsKnownStatus(status string) bool {
	switch status {
	case StatusPublic, StatusUnlisted, StatusPrivate, StatusUnspecified:
		return true
	default:
		return false
	}
}

// IsDeletedStatus reports whether status means the video no longer exists.
func IsDeletedStatus(status string) bool {
	switch status {
	case StatusUnspecified, StatusDeleted, "":
		return true
	default:
		return false
	}
}

// HidesMetadata reports whether the platform withholds owner and publish
// metadata for a video with this status.
func HidesMetadata(status string) bool {
	return status == StatusPrivate || status == StatusUnspecified
}

// LikedPlaylistID returns the synthetic playlist id of an account's liked videos.
func LikedPlaylistID(account string) string {
	return account + "_liked"
}

// Accounts returns the distinct accounts of rows in first-seen order.
func Accounts(rows []VideoRecord) []string {
	seen := make(map[string]struct{})
	var accounts []string
	for _, r := range rows {
		if _, ok := seen[r.Account]; ok {
			continue
		}
		seen[r.Account] = struct{}{}
		accounts = append(accounts, r.Account)
	}
	return accounts
}

// AccountSet returns the given accounts as a set.
func AccountSet(accounts []string) map[string]struct{} {
	set := make(map[string]struct{}, len(accounts))
	for _, a := range accounts {
		set[a] = struct{}{}
	}
	return set
}

// FilterAccounts returns the rows whose account is (keep=true) or is not
// (keep=false) in the given set, preserving order.
func FilterAccounts(rows []VideoRecord, accounts map[string]struct{}, keep bool) []VideoRecord {
	out := make([]VideoRecord, 0, len(rows))
	for _, r := range rows {
		_, ok := accounts[r.Account]
		if ok == keep {
			out = append(out, r)
		}
	}
	return out
}

// IndexByKey maps each key to the position of its first row.
func IndexByKey(rows []VideoRecord) map[Key]int {
	idx := make(map[Key]int, len(rows))
	for i, r := range rows {
		if _, ok := idx[r.Key()]; !ok {
			idx[r.Key()] = i
		}
	}
	return idx
}

// Records strips the archive dates from ledger entries.
func Records(entries []LedgerEntry) []VideoRecord {
	out := make([]VideoRecord, len(entries))
	for i, e := range entries {
		out[i] = e.VideoRecord
	}
	return out
}
