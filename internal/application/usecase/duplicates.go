package usecase

import "github.com/accrualworks/wd-accruals/internal/domain/entity"

type duplicateKey struct {
	reportNumber string
	expenseItem  string
	amount       string
}

// FindDuplicates returns every Report-A row whose report number, expense item and
// amount are shared by at least one other row. Amounts compare by value, so "12.5"
// and "12.50" collide. Entries keep input order; groups are numbered by first appearance.
func FindDuplicates(rows []entity.ReportARow) []entity.DuplicateEntry {
	keys := make([]duplicateKey, len(rows))
	counts := map[duplicateKey]int{}
	for i, row := range rows {
		keys[i] = duplicateKey{
			reportNumber: row.ReportNumber,
			expenseItem:  row.ExpenseItem,
			amount:       row.NetAmount.String(),
		}
		counts[keys[i]]++
	}

	groups := map[duplicateKey]int{}
	var out []entity.DuplicateEntry
	for i, row := range rows {
		if counts[keys[i]] < 2 {
			continue
		}
		group, ok := groups[keys[i]]
		if !ok {
			group = len(groups) + 1
			groups[keys[i]] = group
		}
		out = append(out, entity.DuplicateEntry{Group: group, Row: row})
	}
	return out
}
