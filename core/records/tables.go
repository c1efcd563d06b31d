package records

import "fmt"

// Table names of the persisted snapshot and ledgers.
const (
	TableIndex = "prev_index"
)

// Ledger names a persisted transition ledger.
type Ledger string

const (
	LedgerRecovered Ledger = "recovered_videos"
	LedgerDeleted   Ledger = "deleted_videos"
	LedgerPrivated  Ledger = "privated_videos"
	LedgerUnlisted  Ledger = "unlisted_videos"
)

// Ledgers lists every persisted ledger in report order.
var Ledgers = []Ledger{LedgerRecovered, LedgerDeleted, LedgerPrivated, LedgerUnlisted}

// Tables lists every table a complete archive holds.
func Tables() []string {
	tables := []string{TableIndex}
	for _, l := range Ledgers {
		tables = append(tables, string(l))
	}
	return tables
}

// ParseLedger resolves a ledger from its table name or short name
// ("privated" or "privated_videos").
func ParseLedger(name string) (Ledger, error) {
	for _, l := range Ledgers {
		if name == string(l) || name+"_videos" == string(l) {
			return l, nil
		}
	}
	return "", &UnknownLedgerError{Name: name}
}

// UnknownLedgerError is returned by ParseLedger for names that match no ledger.
type UnknownLedgerError struct {
	Name string
}

func (e *UnknownLedgerError) Error() string {
	return fmt.Sprintf("unknown ledger %q", e.Name)
}

// IndexColumns is the header of the index table.
var IndexColumns = []string{
	"user", "p_title", "p_id", "p_video_count", "p_index", "p_date_added",
	"v_title", "v_id", "v_status", "v_uploader", "v_uploader_id", "v_date_published", "v_description",
}

// LedgerColumns is the header of every ledger table.
var LedgerColumns = append(append([]string{}, IndexColumns...), "date_archived")

// ColumnsFor returns the header of a table.
func ColumnsFor(table string) []string {
	if table == TableIndex {
		return IndexColumns
	}
	return LedgerColumns
}

// Values returns the record's fields in IndexColumns order.
func (r VideoRecord) Values() []string {
	return []string{
		r.Account, r.PlaylistTitle, r.PlaylistID, r.PlaylistVideoCount, r.Position, r.DateAdded,
		r.Title, r.VideoID, r.Status, r.Uploader, r.UploaderID, r.DatePublished, r.Description,
	}
}

// Values returns the entry's fields in LedgerColumns order.
func (e LedgerEntry) Values() []string {
	return append(e.VideoRecord.Values(), e.DateArchived)
}

// Set assigns a field by column name. Unknown columns are ignored.
func (r *VideoRecord) Set(column, value string) {
	switch column {
	case "user":
		r.Account = value
	case "p_title":
		r.PlaylistTitle = value
	case "p_id":
		r.PlaylistID = value
	case "p_video_count":
		r.PlaylistVideoCount = value
	case "p_index":
		r.Position = value
	case "p_date_added":
		r.DateAdded = value
	case "v_title":
		r.Title = value
	case "v_id":
		r.VideoID = value
	case "v_status":
		r.Status = value
	case "v_uploader":
		r.Uploader = value
	case "v_uploader_id":
		r.UploaderID = value
	case "v_date_published":
		r.DatePublished = value
	case "v_description":
		r.Description = value
	}
}

// Set assigns a field by column name, including date_archived.
func (e *LedgerEntry) Set(column, value string) {
	if column == "date_archived" {
		e.DateArchived = value
		return
	}
	e.VideoRecord.Set(column, value)
}
