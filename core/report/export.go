package report

import (
	"context"
	"fmt"
	"io"

	"playlist-archiver/core/records"
	"playlist-archiver/core/store"
	"playlist-archiver/core/utils"

	"github.com/xuri/excelize/v2"
)

// numericColumns are written as numbers so spreadsheets can sort them.
var numericColumns = map[string]bool{
	"p_video_count": true,
	"p_index":       true,
}

// ExportWorkbook writes the previous index and every ledger to w as an xlsx
// workbook with one sheet per table.
func ExportWorkbook(ctx context.Context, st store.Store, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := st.LoadIndex(ctx)
	if err != nil {
		return fmt.Errorf("load index: %w", err)
	}
	if err := f.SetSheetName("Sheet1", records.TableIndex); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	indexRows := make([][]string, len(index))
	for i, r := range index {
		indexRows[i] = r.Values()
	}
	if err := writeSheet(f, records.TableIndex, records.IndexColumns, indexRows); err != nil {
		return err
	}

	for _, ledger := range records.Ledgers {
		entries, err := st.LoadLedger(ctx, ledger)
		if err != nil {
			return fmt.Errorf("load %s: %w", ledger, err)
		}
		if _, err := f.NewSheet(string(ledger)); err != nil {
			return fmt.Errorf("create sheet %s: %w", ledger, err)
		}
		rows := make([][]string, len(entries))
		for i, e := range entries {
			rows[i] = e.Values()
		}
		if err := writeSheet(f, string(ledger), records.LedgerColumns, rows); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, header []string, rows [][]string) error {
	for col, h := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("set header of %s: %w", sheet, err)
		}
	}

	for r, values := range rows {
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, r+2)
			if err != nil {
				return err
			}
			var value any = v
			if numericColumns[header[col]] && v != "" {
				value = utils.ToInt(v)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("set cell %s of %s: %w", cell, sheet, err)
			}
		}
	}
	return nil
}
