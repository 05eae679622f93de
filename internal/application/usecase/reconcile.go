package usecase

import (
	"strconv"

	"github.com/accrualworks/wd-accruals/internal/domain/entity"
	"github.com/accrualworks/wd-accruals/internal/shared/types"
)

type accountKey struct {
	item       string
	subsidiary string
}

func (k accountKey) String() string {
	return k.item + " / " + k.subsidiary
}

// AccountIndex answers account lookups by (expense item, subsidiary) and, for the
// fallback step, by expense item alone.
type AccountIndex struct {
	byKey     map[accountKey]int64
	byItem    map[string]int64
	ambiguous int
}

// BuildAccountIndex indexes the account-mapping table. Identical duplicate mappings
// collapse. A key mapped to two different accounts fails with an AmbiguousKeyError when
// strict is set; otherwise the first mapping in table order wins and the key is counted.
// The item-only index always keeps the first account seen for an item.
func BuildAccountIndex(accounts []entity.AccountMapping, strict bool) (*AccountIndex, error) {
	idx := &AccountIndex{
		byKey:  make(map[accountKey]int64, len(accounts)),
		byItem: make(map[string]int64),
	}
	conflicts := map[accountKey]bool{}

	for _, m := range accounts {
		key := accountKey{item: m.ExpenseItem, subsidiary: m.Subsidiary}
		if existing, ok := idx.byKey[key]; ok {
			if existing != m.Account {
				if strict {
					return nil, &types.AmbiguousKeyError{
						Table:  TableAccounts,
						Key:    key.String(),
						Values: []string{strconv.FormatInt(existing, 10), strconv.FormatInt(m.Account, 10)},
					}
				}
				if !conflicts[key] {
					conflicts[key] = true
					idx.ambiguous++
				}
			}
		} else {
			idx.byKey[key] = m.Account
		}

		if _, ok := idx.byItem[m.ExpenseItem]; !ok {
			idx.byItem[m.ExpenseItem] = m.Account
		}
	}
	return idx, nil
}

// Lookup returns the account mapped to item for subsidiary.
func (i *AccountIndex) Lookup(item, subsidiary string) (int64, bool) {
	account, ok := i.byKey[accountKey{item: item, subsidiary: subsidiary}]
	return account, ok
}

// LookupByItem returns the first account mapped to item for any subsidiary.
func (i *AccountIndex) LookupByItem(item string) (int64, bool) {
	account, ok := i.byItem[item]
	return account, ok
}

// Ambiguous returns how many keys had conflicting accounts.
func (i *AccountIndex) Ambiguous() int { return i.ambiguous }

// MasterIndex answers master-data lookups by cost center. The first row for a cost
// center wins.
type MasterIndex struct {
	byCostCenter map[string]entity.MasterData
	ambiguous    int
}

// BuildMasterIndex indexes the cost-center sheet.
func BuildMasterIndex(rows []entity.MasterData) *MasterIndex {
	idx := &MasterIndex{byCostCenter: make(map[string]entity.MasterData, len(rows))}
	conflicts := map[string]bool{}

	for _, m := range rows {
		existing, ok := idx.byCostCenter[m.CostCenter]
		if !ok {
			idx.byCostCenter[m.CostCenter] = m
			continue
		}
		if existing != m && !conflicts[m.CostCenter] {
			conflicts[m.CostCenter] = true
			idx.ambiguous++
		}
	}
	return idx
}

// Lookup returns a copy of the master data of costCenter.
func (i *MasterIndex) Lookup(costCenter string) (*entity.MasterData, bool) {
	m, ok := i.byCostCenter[costCenter]
	if !ok {
		return nil, false
	}
	return &m, true
}

// Ambiguous returns how many cost centers had conflicting rows.
func (i *MasterIndex) Ambiguous() int { return i.ambiguous }

// Reconcile left-joins Report-A with the account mapping and both reports with the
// master data. Row count and order are preserved; misses leave Account or Master nil.
func Reconcile(reportA []entity.ReportARow, reportB []entity.ReportBRow, accounts *AccountIndex, master *MasterIndex) ([]entity.ReportARow, []entity.ReportBRow, entity.JoinStats) {
	stats := entity.JoinStats{
		AmbiguousAccountKeys: accounts.Ambiguous(),
		AmbiguousCostCenters: master.Ambiguous(),
	}

	outA := make([]entity.ReportARow, len(reportA))
	for i, row := range reportA {
		if account, ok := accounts.Lookup(row.ExpenseItem, row.EntityCode); ok {
			row = row.WithAccount(account, entity.AccountFromJoin)
			stats.AccountMatched++
		} else {
			stats.AccountUnmatched++
		}

		if m, ok := master.Lookup(row.CostCenter); ok {
			row.Master = m
			stats.MasterMatchedA++
		} else {
			stats.MasterUnmatchedA++
		}
		outA[i] = row
	}

	outB := make([]entity.ReportBRow, len(reportB))
	for i, row := range reportB {
		if m, ok := master.Lookup(row.CostLocation); ok {
			row.Master = m
			stats.MasterMatchedB++
		} else {
			stats.MasterUnmatchedB++
		}
		outB[i] = row
	}

	return outA, outB, stats
}
