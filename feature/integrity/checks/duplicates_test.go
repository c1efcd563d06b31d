package checks

import (
	"context"
	"testing"

	"playlist-archiver/core/records"
	"playlist-archiver/core/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func ledgerEntry(playlist, video, archived string) records.LedgerEntry {
	return records.LedgerEntry{
		VideoRecord:  records.VideoRecord{Account: "alice", PlaylistID: playlist, VideoID: video},
		DateArchived: archived,
	}
}

func TestDuplicates(t *testing.T) {
	ctx := context.Background()
	st := store.NewFileStore(t.TempDir())

	require.NoError(t, st.SaveLedger(ctx, records.LedgerDeleted, []records.LedgerEntry{
		ledgerEntry("p1", "v1", "20240101_000000"),
		ledgerEntry("p1", "v2", "20240101_000000"),
		ledgerEntry("p1", "v1", "20240202_000000"),
		ledgerEntry("p1", "v1", "20240303_000000"),
	}))
	require.NoError(t, st.SaveLedger(ctx, records.LedgerPrivated, []records.LedgerEntry{
		ledgerEntry("p1", "v1", "20240101_000000"),
	}))

	report, err := CheckDuplicates(ctx, st)
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{string(records.LedgerDeleted): {"p1/v1"}}, report)

	require.NoError(t, FixDuplicates(ctx, st, zap.NewNop(), []string{string(records.LedgerDeleted)}))

	entries, err := st.LoadLedger(ctx, records.LedgerDeleted)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "20240101_000000", entries[0].DateArchived)
	assert.Equal(t, "v2", entries[1].VideoID)

	report, err = CheckDuplicates(ctx, st)
	require.NoError(t, err)
	assert.Empty(t, report)
}
