package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/accrualworks/wd-accruals/internal/domain/entity"
	"github.com/accrualworks/wd-accruals/internal/domain/repository"
	"github.com/accrualworks/wd-accruals/internal/shared/types"
	"github.com/xuri/excelize/v2"
)

// ExportRepositoryImpl implementa o ExportRepository.
type ExportRepositoryImpl struct{}

// NewExportRepository cria uma nova implementação do ExportRepository.
func NewExportRepository() repository.ExportRepository {
	return &ExportRepositoryImpl{}
}

// --- Workbooks de resultado ---

// ReportAHeader returns the output columns of Report-A, in order.
func ReportAHeader(cfg *types.Config) []string {
	header := append([]string{}, cfg.ReportA.Columns.List()...)
	return append(header,
		cfg.Output.AccountColumn,
		cfg.Master.Columns.BusinessArea,
		cfg.Master.Columns.ProfitCenter,
		cfg.Master.Columns.MRU,
		cfg.Master.Columns.FunctionalArea,
		cfg.Output.ChecksumColumn,
	)
}

// ReportBHeader returns the output columns of Report-B, in order.
func ReportBHeader(cfg *types.Config) []string {
	header := append([]string{}, cfg.ReportB.Columns.List()...)
	return append(header,
		cfg.Output.CompanyCodeColumn,
		cfg.Master.Columns.BusinessArea,
		cfg.Master.Columns.ProfitCenter,
		cfg.Master.Columns.MRU,
		cfg.Master.Columns.FunctionalArea,
		cfg.Output.ChecksumColumn,
	)
}

func (r *ExportRepositoryImpl) ExportReportA(rows []entity.ReportARow, cfg *types.Config) (string, error) {
	values := make([][]interface{}, 0, len(rows))
	for _, row := range rows {
		var account interface{}
		if row.Account != nil {
			account = *row.Account
		}
		values = append(values, append([]interface{}{
			row.EntityCode,
			row.CostCenter,
			row.ReportNumber,
			row.ExpenseItem,
			row.NetAmount.InexactFloat64(),
			account,
		}, masterCells(row.Master)...))
	}

	return writeWorkbook(filepath.Join(cfg.OutputDir, cfg.ReportA.FileName), cfg.Output.SheetName, ReportAHeader(cfg), values)
}

func (r *ExportRepositoryImpl) ExportReportB(rows []entity.ReportBRow, cfg *types.Config) (string, error) {
	values := make([][]interface{}, 0, len(rows))
	for _, row := range rows {
		values = append(values, append([]interface{}{
			row.TransactionID,
			row.BillingAmount.InexactFloat64(),
			row.Currency,
			row.CostLocation,
			row.CompanyCode,
		}, masterCells(row.Master)...))
	}

	return writeWorkbook(filepath.Join(cfg.OutputDir, cfg.ReportB.FileName), cfg.Output.SheetName, ReportBHeader(cfg), values)
}

// masterCells returns business area, profit center, MRU, functional area and checksum.
// Everything is written as text so codes such as "2E00" are not read as numbers.
func masterCells(m *entity.MasterData) []interface{} {
	if m == nil {
		return []interface{}{"", "", "", "", ""}
	}
	return []interface{}{m.BusinessArea, m.ProfitCenter, m.MRU, m.FunctionalArea, m.Checksum()}
}

func writeWorkbook(path, sheetName string, header []string, rows [][]interface{}) (string, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("error creating output directory '%s': %w", filepath.Dir(path), err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return "", fmt.Errorf("error naming sheet %q: %w", sheetName, err)
	}

	headerRow := make([]interface{}, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(sheetName, "A1", &headerRow); err != nil {
		return "", fmt.Errorf("error writing header: %w", err)
	}

	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return "", err
		}
		if err := f.SetSheetRow(sheetName, cell, &rows[i]); err != nil {
			return "", fmt.Errorf("error writing row %d: %w", i+2, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("error saving workbook %s: %w", path, err)
	}

	return filepath.Abs(path)
}

// --- Arquivos auxiliares ---

func (r *ExportRepositoryImpl) ExportDuplicates(entries []entity.DuplicateEntry, cfg *types.Config) (string, error) {
	header := append([]string{"Duplicate Group", "Line"}, cfg.ReportA.Columns.List()...)
	header = append(header, cfg.Output.AccountColumn)

	records := make([][]string, 0, len(entries))
	for _, e := range entries {
		account := ""
		if e.Row.Account != nil {
			account = strconv.FormatInt(*e.Row.Account, 10)
		}
		records = append(records, []string{
			strconv.Itoa(e.Group),
			strconv.Itoa(e.Row.Line),
			e.Row.EntityCode,
			e.Row.CostCenter,
			e.Row.ReportNumber,
			e.Row.ExpenseItem,
			e.Row.NetAmount.String(),
			account,
		})
	}

	return writeCSV(filepath.Join(cfg.OutputDir, cfg.Output.DuplicatesFile), header, records)
}

func (r *ExportRepositoryImpl) ExportUnresolved(rows []entity.UnresolvedRow, cfg *types.Config) (string, error) {
	header := []string{"Table", "Line", "Reason", "Key", "Detail"}

	records := make([][]string, 0, len(rows))
	for _, u := range rows {
		records = append(records, []string{u.Table, strconv.Itoa(u.Line), string(u.Reason), u.Key, u.Detail})
	}

	return writeCSV(filepath.Join(cfg.OutputDir, cfg.Output.UnresolvedFile), header, records)
}

func writeCSV(path string, header []string, records [][]string) (string, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("error creating output directory '%s': %w", filepath.Dir(path), err)
	}

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("error creating CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(header); err != nil {
		return "", fmt.Errorf("error writing CSV header: %w", err)
	}
	if err := writer.WriteAll(records); err != nil {
		return "", fmt.Errorf("error writing CSV records: %w", err)
	}

	return filepath.Abs(path)
}

// --- Funções Auxiliares ---

// generateFilename cria um nome de arquivo único com timestamp e garante que o diretório exista.
func generateFilename(base, dir, ext string) (string, error) {
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("could not get current working directory: %w", err)
		}
		dir = cwd
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("error creating output directory '%s': %w", dir, err)
	}
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.%s", base, timestamp, ext)
	return filepath.Join(dir, filename), nil
}
