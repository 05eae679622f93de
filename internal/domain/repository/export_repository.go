package repository

import (
	"github.com/accrualworks/wd-accruals/internal/domain/entity"
	"github.com/accrualworks/wd-accruals/internal/shared/types"
)

// ExportRepository writes the pipeline results. Every method returns the absolute path written.
type ExportRepository interface {
	ExportReportA(rows []entity.ReportARow, cfg *types.Config) (string, error)
	ExportReportB(rows []entity.ReportBRow, cfg *types.Config) (string, error)

	// Side files
	ExportDuplicates(entries []entity.DuplicateEntry, cfg *types.Config) (string, error)
	ExportUnresolved(rows []entity.UnresolvedRow, cfg *types.Config) (string, error)

	// Run summary
	ExportSummaryToCSV(summary *entity.RunSummary, filename, outputDir string) (string, error)
	ExportSummaryToJSON(summary *entity.RunSummary, filename, outputDir string) (string, error)
	ExportSummaryToPDF(summary *entity.RunSummary, filename, outputDir string) (string, error)
}
