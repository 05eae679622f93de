package usecase

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/accrualworks/wd-accruals/internal/domain/entity"
	"github.com/accrualworks/wd-accruals/internal/shared/types"
)

// Table names used in errors, logs and the summary.
const (
	TableReportA    = "report_a"
	TableReportB    = "report_b"
	TableMasterData = "master_data"
	TableAccounts   = "accounts"
	TableTemplate   = "je_template"
)

// RawSheets are the converted worksheets of one run, before typing.
type RawSheets struct {
	ReportA     entity.Sheet
	ReportB     entity.Sheet
	CostCenters entity.Sheet
	Accounts    entity.Sheet
	Template    entity.Sheet
}

// LoadSources types every converted sheet. Missing columns fail with a SchemaError
// wrapped in a StageError naming the workbook.
func LoadSources(raw RawSheets, cfg *types.Config) (entity.SourceTables, error) {
	var tables entity.SourceTables
	var err error

	if tables.ReportA, err = LoadReportA(raw.ReportA, cfg.ReportA.Columns); err != nil {
		return tables, types.NewStageError(types.StageLoad, cfg.ReportA.FileName, err)
	}
	if tables.ReportB, err = LoadReportB(raw.ReportB, cfg.ReportB.Columns); err != nil {
		return tables, types.NewStageError(types.StageLoad, cfg.ReportB.FileName, err)
	}
	if tables.Master, err = LoadMasterData(raw.CostCenters, cfg.Master.Columns); err != nil {
		return tables, types.NewStageError(types.StageLoad, cfg.Master.FileName, err)
	}
	if tables.Accounts, err = LoadAccounts(raw.Accounts, cfg.Master.AccountColumns); err != nil {
		return tables, types.NewStageError(types.StageLoad, cfg.Master.FileName, err)
	}
	tables.Template = raw.Template

	return tables, nil
}

// LoadReportA keeps the five Report-A columns.
func LoadReportA(sheet entity.Sheet, cols types.ReportAColumns) ([]entity.ReportALine, error) {
	idx, err := requireColumns(sheet, TableReportA, cols.List()...)
	if err != nil {
		return nil, err
	}

	lines := make([]entity.ReportALine, 0, sheet.Len())
	for i := range sheet.Rows {
		lines = append(lines, entity.ReportALine{
			Line:         sheet.Line(i),
			EntityCode:   sheet.Cell(i, idx[0]),
			CostCenter:   sheet.Cell(i, idx[1]),
			ReportNumber: sheet.Cell(i, idx[2]),
			ExpenseItem:  sheet.Cell(i, idx[3]),
			NetAmount:    sheet.Cell(i, idx[4]),
		})
	}
	return lines, nil
}

// LoadReportB keeps the four Report-B columns.
func LoadReportB(sheet entity.Sheet, cols types.ReportBColumns) ([]entity.ReportBLine, error) {
	idx, err := requireColumns(sheet, TableReportB, cols.List()...)
	if err != nil {
		return nil, err
	}

	lines := make([]entity.ReportBLine, 0, sheet.Len())
	for i := range sheet.Rows {
		lines = append(lines, entity.ReportBLine{
			Line:          sheet.Line(i),
			TransactionID: sheet.Cell(i, idx[0]),
			BillingAmount: sheet.Cell(i, idx[1]),
			Currency:      sheet.Cell(i, idx[2]),
			CostLocation:  sheet.Cell(i, idx[3]),
		})
	}
	return lines, nil
}

// LoadMasterData reads the cost-center sheet. Rows without a cost center cannot be joined
// and are skipped.
func LoadMasterData(sheet entity.Sheet, cols types.MasterColumns) ([]entity.MasterData, error) {
	idx, err := requireColumns(sheet, TableMasterData,
		cols.CostCenter, cols.BusinessArea, cols.ProfitCenter, cols.MRU, cols.FunctionalArea)
	if err != nil {
		return nil, err
	}

	rows := make([]entity.MasterData, 0, sheet.Len())
	for i := range sheet.Rows {
		costCenter := sheet.Cell(i, idx[0])
		if costCenter == "" {
			continue
		}
		rows = append(rows, entity.MasterData{
			CostCenter:     costCenter,
			BusinessArea:   sheet.Cell(i, idx[1]),
			ProfitCenter:   sheet.Cell(i, idx[2]),
			MRU:            sheet.Cell(i, idx[3]),
			FunctionalArea: sheet.Cell(i, idx[4]),
		})
	}
	return rows, nil
}

// LoadAccounts reads the account-mapping sheet. Account numbers must be integral;
// "46540000.0" is accepted, "4654A" is a ParseError. Rows without an expense item or
// without an account carry no mapping and are skipped.
func LoadAccounts(sheet entity.Sheet, cols types.AccountColumns) ([]entity.AccountMapping, error) {
	idx, err := requireColumns(sheet, TableAccounts, cols.ExpenseItem, cols.Subsidiary, cols.Account)
	if err != nil {
		return nil, err
	}

	rows := make([]entity.AccountMapping, 0, sheet.Len())
	for i := range sheet.Rows {
		item := sheet.Cell(i, idx[0])
		raw := sheet.Cell(i, idx[2])
		if item == "" || raw == "" {
			continue
		}

		account, err := ParseAccount(raw)
		if err != nil {
			return nil, &types.ParseError{Table: TableAccounts, Column: cols.Account, Line: sheet.Line(i), Value: raw, Err: err}
		}

		rows = append(rows, entity.AccountMapping{
			ExpenseItem: item,
			Subsidiary:  sheet.Cell(i, idx[1]),
			Account:     account,
		})
	}
	return rows, nil
}

// ParseAccount converts an account cell to an integer account number.
func ParseAccount(raw string) (int64, error) {
	d, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(raw), ",", ""))
	if err != nil {
		return 0, err
	}
	if !d.IsInteger() {
		return 0, fmt.Errorf("account %s is not an integer", d)
	}
	return d.IntPart(), nil
}

func requireColumns(sheet entity.Sheet, table string, names ...string) ([]int, error) {
	idx := make([]int, len(names))
	for i, name := range names {
		j, ok := sheet.ColumnIndex(name)
		if !ok {
			return nil, &types.SchemaError{Table: table, Column: name}
		}
		idx[i] = j
	}
	return idx, nil
}
