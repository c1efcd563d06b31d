// Package youtube talks to the YouTube Data API on behalf of archived accounts.
//
// Client wraps the list calls needed to build an index (playlists, playlist
// items, liked videos) and the single-video status lookup. Every call goes
// through a rate limiter and is retried on throttling and server errors.
//
// Authenticator runs the installed-app OAuth flow and keeps one token per
// account under the token directory:
//
//	data/tokens/
//	    client_secrets.json
//	    <account>/token.json
//
// Connector caches one Client per account for the duration of a run.
package youtube
