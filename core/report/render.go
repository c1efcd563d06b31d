package report

import (
	"fmt"
	"io"

	"playlist-archiver/core/records"
	"playlist-archiver/core/reconcile"
	"playlist-archiver/core/utils"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Section headings, in print order.
const (
	HeadingRecovered        = "Recovered (found)"
	HeadingDeleted          = "Deleted (lost)"
	HeadingPrivated         = "Privated (untracked)"
	HeadingUnlisted         = "Unlisted (other)"
	HeadingRemovedLiked     = "Manually removed liked videos (other)"
	HeadingRemovedUntracked = "Notice: The following unrecovered videos were removed from your playlists"
)

const (
	titleWidth = 50
	watchURL   = "www.youtube.com/watch?v="
)

// MessageNoTransitions is printed when the index changed but no status did.
const MessageNoTransitions = "Playlists have been modified since the last check and will be saved. No status changes were detected"

// Render prints every non-empty transition list of plan as a table.
func Render(w io.Writer, plan *reconcile.Plan) {
	if !plan.Summary.HasTransitions() {
		fmt.Fprintf(w, "\n%s\n", MessageNoTransitions)
		return
	}

	fmt.Fprintln(w, "\nThe Following Changes were Detected:")
	sections := []struct {
		heading string
		rows    []records.VideoRecord
	}{
		{HeadingRecovered, plan.Recovered},
		{HeadingDeleted, plan.Deleted},
		{HeadingPrivated, plan.Privated},
		{HeadingUnlisted, plan.Unlisted},
		{HeadingRemovedLiked, plan.RemovedLiked},
		{HeadingRemovedUntracked, plan.RemovedUntracked},
	}
	for _, s := range sections {
		if len(s.rows) > 0 {
			renderRows(w, s.heading+" videos", s.rows, nil)
		}
	}
}

// RenderLedger prints the entries of one ledger with their archive dates.
func RenderLedger(w io.Writer, ledger records.Ledger, entries []records.LedgerEntry) {
	if len(entries) == 0 {
		fmt.Fprintf(w, "%s is empty\n", ledger)
		return
	}
	rows := make([]records.VideoRecord, len(entries))
	dates := make([]string, len(entries))
	for i, e := range entries {
		rows[i] = e.VideoRecord
		dates[i] = e.DateArchived
	}
	renderRows(w, string(ledger), rows, dates)
}

func renderRows(w io.Writer, heading string, rows []records.VideoRecord, dates []string) {
	fmt.Fprintf(w, "\n%s:\n", heading)

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	header := table.Row{"#", "Status", "URL", "Title", "Playlist", "Account"}
	if dates != nil {
		header = append(header, "Archived")
	}
	t.AppendHeader(header)

	for i, r := range rows {
		row := table.Row{
			i + 1,
			r.Status,
			WatchURL(r.VideoID),
			utils.Truncate(r.Title, titleWidth),
			r.PlaylistTitle,
			r.Account,
		}
		if dates != nil {
			row = append(row, dates[i])
		}
		t.AppendRow(row)
	}

	t.Render()
}

// WatchURL returns the watch page of a video.
func WatchURL(videoID string) string {
	return watchURL + videoID
}
