package report

import (
	"bytes"
	"context"
	"testing"

	"playlist-archiver/core/records"
	"playlist-archiver/core/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportWorkbook(t *testing.T) {
	ctx := context.Background()
	st := store.NewFileStore(t.TempDir())

	row := video("v1", "public", "Song")
	row.PlaylistVideoCount = "12"
	row.Position = "3"
	require.NoError(t, st.SaveIndex(ctx, []records.VideoRecord{row}))
	require.NoError(t, st.SaveLedger(ctx, records.LedgerPrivated, []records.LedgerEntry{
		{VideoRecord: video("v2", "private", ""), DateArchived: "20240101_000000"},
	}))

	var buf bytes.Buffer
	require.NoError(t, ExportWorkbook(ctx, st, &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, records.Tables(), f.GetSheetList())

	header, err := f.GetCellValue(records.TableIndex, "A1")
	require.NoError(t, err)
	assert.Equal(t, "user", header)

	count, err := f.GetCellValue(records.TableIndex, "D2")
	require.NoError(t, err)
	assert.Equal(t, "12", count)

	title, err := f.GetCellValue(records.TableIndex, "G2")
	require.NoError(t, err)
	assert.Equal(t, "Song", title)

	archived, err := f.GetCellValue(string(records.LedgerPrivated), "N2")
	require.NoError(t, err)
	assert.Equal(t, "20240101_000000", archived)

	rows, err := f.GetRows(string(records.LedgerDeleted))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, records.LedgerColumns, rows[0])
}
