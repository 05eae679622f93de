package usecase

import (
	"fmt"
	"strings"

	"github.com/accrualworks/wd-accruals/internal/domain/entity"
	"github.com/accrualworks/wd-accruals/internal/shared/types"
)

// ResolveExceptions runs the account rules in order: category overrides, entity
// overrides, then the item-only fallback for rows still without an account.
// Rows that remain unresolved are counted but kept.
func ResolveExceptions(rows []entity.ReportARow, rules types.AccountRules, accounts *AccountIndex) ([]entity.ReportARow, entity.ResolveStats) {
	out, stats := ApplyOverrides(rows, rules)
	out, stats.FallbackResolved = ResolveFallback(out, accounts)
	for _, row := range out {
		if !row.HasAccount() {
			stats.Unresolved++
		}
	}
	return out, stats
}

// ApplyOverrides rewrites accounts by rule. Category rules match when the expense item
// contains the marker; when several match, the one listed last wins. Entity rules run
// after all category rules, so an entity rule beats any category rule on the same row.
// Each row is counted once, under the rule that set its final account.
func ApplyOverrides(rows []entity.ReportARow, rules types.AccountRules) ([]entity.ReportARow, entity.ResolveStats) {
	stats := entity.ResolveStats{
		CategoryOverrides: map[string]int{},
		EntityOverrides:   map[string]int{},
	}

	out := make([]entity.ReportARow, len(rows))
	for i, row := range rows {
		var category *types.CategoryOverride
		for j := range rules.CategoryOverrides {
			if strings.Contains(row.ExpenseItem, rules.CategoryOverrides[j].Marker) {
				category = &rules.CategoryOverrides[j]
			}
		}

		var byEntity *types.EntityOverride
		for j := range rules.EntityOverrides {
			if row.EntityCode == rules.EntityOverrides[j].EntityCode {
				byEntity = &rules.EntityOverrides[j]
			}
		}

		switch {
		case byEntity != nil:
			row = row.WithAccount(byEntity.Account, entity.AccountFromEntityRule)
			stats.EntityOverrides[byEntity.EntityCode]++
		case category != nil:
			row = row.WithAccount(category.Account, entity.AccountFromCategoryRule)
			stats.CategoryOverrides[category.Marker]++
		}
		out[i] = row
	}
	return out, stats
}

// ResolveFallback fills rows without an account from the item-only index.
func ResolveFallback(rows []entity.ReportARow, accounts *AccountIndex) ([]entity.ReportARow, int) {
	resolved := 0
	out := make([]entity.ReportARow, len(rows))
	for i, row := range rows {
		if !row.HasAccount() {
			if account, ok := accounts.LookupByItem(row.ExpenseItem); ok {
				row = row.WithAccount(account, entity.AccountFromFallback)
				resolved++
			}
		}
		out[i] = row
	}
	return out, resolved
}

// CollectUnresolved lists every row still missing an account or master data.
// A Report-A row missing both appears twice.
func CollectUnresolved(reportA []entity.ReportARow, reportB []entity.ReportBRow) []entity.UnresolvedRow {
	var out []entity.UnresolvedRow
	for _, row := range reportA {
		if !row.HasAccount() {
			out = append(out, entity.UnresolvedRow{
				Table:  TableReportA,
				Line:   row.Line,
				Reason: entity.UnresolvedAccount,
				Key:    accountKey{item: row.ExpenseItem, subsidiary: row.EntityCode}.String(),
				Detail: fmt.Sprintf("%s: no account for expense item %q", types.ErrUnresolvedAccount, row.ExpenseItem),
			})
		}
		if row.Master == nil {
			out = append(out, entity.UnresolvedRow{
				Table:  TableReportA,
				Line:   row.Line,
				Reason: entity.UnresolvedMasterData,
				Key:    row.CostCenter,
				Detail: fmt.Sprintf("cost center %q not in master data", row.CostCenter),
			})
		}
	}
	for _, row := range reportB {
		if row.Master == nil {
			out = append(out, entity.UnresolvedRow{
				Table:  TableReportB,
				Line:   row.Line,
				Reason: entity.UnresolvedMasterData,
				Key:    row.CostLocation,
				Detail: fmt.Sprintf("cost location %q not in master data", row.CostLocation),
			})
		}
	}
	return out
}
