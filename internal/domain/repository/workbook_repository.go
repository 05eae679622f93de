package repository

import (
	"context"

	"github.com/accrualworks/wd-accruals/internal/domain/entity"
	"github.com/accrualworks/wd-accruals/internal/shared/types"
)

// WorkbookRepository turns workbook sheets into delimited text and reads them back.
type WorkbookRepository interface {
	// ConvertSheet writes the 1-based sheet of src as a CSV file at dst.
	ConvertSheet(ctx context.Context, conv types.ConverterConfig, src string, sheet int, dst string) error
	// ReadTable reads a converted file, skipping headerOffset records before the header.
	ReadTable(path, encoding string, headerOffset int) (entity.Sheet, error)
}
