package usecase

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/accrualworks/wd-accruals/internal/domain/entity"
	"github.com/accrualworks/wd-accruals/internal/shared/types"
)

var errBlankAmount = errors.New("blank amount")

// ParseAmount strips thousands separators and parses the rest as a decimal.
// "1,234.56" and "1234.56" give the same value.
func ParseAmount(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))
	if s == "" {
		return decimal.Zero, errBlankAmount
	}
	return decimal.NewFromString(s)
}

// CostCenterToken keeps the first whitespace-separated token: "1234 Finance Dept" -> "1234".
func CostCenterToken(raw string) string {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// CompanyCode derives the company code from a cost location token.
func CompanyCode(costLocation string) string {
	r := []rune(costLocation)
	if len(r) > 4 {
		return string(r[:4])
	}
	return costLocation
}

// NormalizeReportA drops rows without a cost center, with a blank amount or with an
// amount <= 0. An amount that cannot be parsed fails the whole table.
func NormalizeReportA(lines []entity.ReportALine) ([]entity.ReportARow, entity.NormalizeStats, error) {
	stats := entity.NewNormalizeStats(TableReportA)
	stats.Input = len(lines)

	rows := make([]entity.ReportARow, 0, len(lines))
	for _, line := range lines {
		costCenter := CostCenterToken(line.CostCenter)
		if costCenter == "" {
			stats.Dropped[entity.DropMissingCostCenter]++
			continue
		}

		amount, err := ParseAmount(line.NetAmount)
		if errors.Is(err, errBlankAmount) {
			stats.Dropped[entity.DropBlankAmount]++
			continue
		}
		if err != nil {
			return nil, stats, &types.ParseError{Table: TableReportA, Column: "net amount", Line: line.Line, Value: line.NetAmount, Err: err}
		}
		if !amount.IsPositive() {
			stats.Dropped[entity.DropNonPositive]++
			continue
		}

		rows = append(rows, entity.ReportARow{
			Line:         line.Line,
			EntityCode:   line.EntityCode,
			CostCenter:   costCenter,
			ReportNumber: line.ReportNumber,
			ExpenseItem:  line.ExpenseItem,
			NetAmount:    amount,
		})
	}

	stats.Kept = len(rows)
	return rows, stats, nil
}

// NormalizeReportB drops rows without a cost location, with a blank amount or with an
// amount written in parentheses (negative in the source system). The parenthesis test
// runs on the raw text, before parsing.
func NormalizeReportB(lines []entity.ReportBLine) ([]entity.ReportBRow, entity.NormalizeStats, error) {
	stats := entity.NewNormalizeStats(TableReportB)
	stats.Input = len(lines)

	rows := make([]entity.ReportBRow, 0, len(lines))
	for _, line := range lines {
		location := CostCenterToken(line.CostLocation)
		if location == "" {
			stats.Dropped[entity.DropMissingCostCenter]++
			continue
		}
		if strings.TrimSpace(line.BillingAmount) == "" {
			stats.Dropped[entity.DropBlankAmount]++
			continue
		}
		if strings.Contains(line.BillingAmount, "(") {
			stats.Dropped[entity.DropParenthesised]++
			continue
		}

		amount, err := ParseAmount(line.BillingAmount)
		if err != nil {
			return nil, stats, &types.ParseError{Table: TableReportB, Column: "billing amount", Line: line.Line, Value: line.BillingAmount, Err: err}
		}

		rows = append(rows, entity.ReportBRow{
			Line:          line.Line,
			TransactionID: line.TransactionID,
			BillingAmount: amount,
			Currency:      line.Currency,
			CostLocation:  location,
			CompanyCode:   CompanyCode(location),
		})
	}

	stats.Kept = len(rows)
	return rows, stats, nil
}
