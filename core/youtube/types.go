package youtube

import "errors"

// Playlist is one playlist owned by an account.
type Playlist struct {
	ID         string
	Title      string
	VideoCount int64
	// Owner is the channel title the platform reports for the playlist.
	Owner string
}

// PlaylistItem is one video inside a playlist or the liked list.
// Owner and publish fields are empty when the platform withholds them.
type PlaylistItem struct {
	Position    string
	AddedAt     string
	Title       string
	VideoID     string
	Status      string
	Uploader    string
	UploaderID  string
	PublishedAt string
	Description string
}

var (
	// ErrNoAccounts is returned when no account has been authorized yet.
	ErrNoAccounts = errors.New("no accounts have been archived yet")
	// ErrAccountMismatch is returned when fresh credentials belong to another channel.
	ErrAccountMismatch = errors.New("credentials do not match the account")
	// ErrOverwriteDeclined is returned when the user keeps an existing token.
	ErrOverwriteDeclined = errors.New("overwrite of existing account declined")
	// ErrMissingClientSecrets is returned when the OAuth client file is absent.
	ErrMissingClientSecrets = errors.New("missing OAuth client secrets, see https://support.google.com/cloud/answer/6158849")
)
