package workbook

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/accrualworks/wd-accruals/internal/shared/types"
	"github.com/xuri/excelize/v2"
)

// convertWithExcelize writes the 1-based sheet of src to dst as UTF-8 CSV.
// Cells are written with their displayed value, so "1,234.56" stays formatted.
func convertWithExcelize(src string, sheet int, dst string) error {
	f, err := excelize.OpenFile(src)
	if err != nil {
		return fmt.Errorf("%w: opening %s: %v", types.ErrConversionFailure, src, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if sheet < 1 || sheet > len(sheets) {
		return fmt.Errorf("%w: %s has %d sheet(s), sheet %d requested",
			types.ErrConversionFailure, src, len(sheets), sheet)
	}

	rows, err := f.GetRows(sheets[sheet-1])
	if err != nil {
		return fmt.Errorf("%w: reading sheet %q of %s: %v", types.ErrConversionFailure, sheets[sheet-1], src, err)
	}

	file, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("%w: creating %s: %v", types.ErrConversionFailure, dst, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	for i, row := range rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("%w: writing row %d of %s: %v", types.ErrConversionFailure, i+1, dst, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("%w: flushing %s: %v", types.ErrConversionFailure, dst, err)
	}

	return nil
}
