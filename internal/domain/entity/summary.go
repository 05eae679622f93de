package entity

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// DropReason explains why the normalizer removed a row.
type DropReason string

const (
	DropMissingCostCenter DropReason = "missing_cost_center"
	DropBlankAmount       DropReason = "blank_amount"
	DropNonPositive       DropReason = "non_positive_amount"
	DropParenthesised     DropReason = "parenthesised_amount"
)

// NormalizeStats counts what the normalizer kept and dropped for one table.
type NormalizeStats struct {
	Table   string             `json:"table"`
	Input   int                `json:"input"`
	Kept    int                `json:"kept"`
	Dropped map[DropReason]int `json:"dropped"`
}

// NewNormalizeStats returns empty stats for table.
func NewNormalizeStats(table string) NormalizeStats {
	return NormalizeStats{Table: table, Dropped: map[DropReason]int{}}
}

// TotalDropped sums the drops over all reasons.
func (s NormalizeStats) TotalDropped() int {
	total := 0
	for _, n := range s.Dropped {
		total += n
	}
	return total
}

// JoinStats counts lookup matches.
type JoinStats struct {
	AccountMatched       int `json:"account_matched"`
	AccountUnmatched     int `json:"account_unmatched"`
	MasterMatchedA       int `json:"master_matched_a"`
	MasterUnmatchedA     int `json:"master_unmatched_a"`
	MasterMatchedB       int `json:"master_matched_b"`
	MasterUnmatchedB     int `json:"master_unmatched_b"`
	AmbiguousAccountKeys int `json:"ambiguous_account_keys"`
	AmbiguousCostCenters int `json:"ambiguous_cost_centers"`
}

// ResolveStats counts how the exception resolver assigned accounts.
type ResolveStats struct {
	CategoryOverrides map[string]int `json:"category_overrides"`
	EntityOverrides   map[string]int `json:"entity_overrides"`
	FallbackResolved  int            `json:"fallback_resolved"`
	Unresolved        int            `json:"unresolved"`
}

// UnresolvedReason tells which lookup failed for a row.
type UnresolvedReason string

const (
	UnresolvedAccount    UnresolvedReason = "account"
	UnresolvedMasterData UnresolvedReason = "master_data"
)

// UnresolvedRow is one entry of the unresolved side file.
type UnresolvedRow struct {
	Table  string           `json:"table"`
	Line   int              `json:"line"`
	Reason UnresolvedReason `json:"reason"`
	Key    string           `json:"key"`
	Detail string           `json:"detail"`
}

// DuplicateEntry is a Report-A row that shares report number, expense item and amount
// with at least one other row. Group numbers start at 1 in order of first appearance.
type DuplicateEntry struct {
	Group int        `json:"group"`
	Row   ReportARow `json:"row"`
}

// RunSummary describes one pipeline run for the console and the summary report.
type RunSummary struct {
	RunID          string           `json:"run_id"`
	StartedAt      time.Time        `json:"started_at"`
	FinishedAt     time.Time        `json:"finished_at"`
	CallerIdentity string           `json:"caller_identity,omitempty"`
	Inputs         []string         `json:"inputs"`
	Loaded         map[string]int   `json:"loaded"`
	Normalize      []NormalizeStats `json:"normalize"`
	Join           JoinStats        `json:"join"`
	Resolve        ResolveStats     `json:"resolve"`
	Unresolved     int              `json:"unresolved"`
	Duplicates     int              `json:"duplicates"`
	ReportARows    int              `json:"report_a_rows"`
	ReportBRows    int              `json:"report_b_rows"`
	Outputs        []string         `json:"outputs"`
}

// Metric is a flattened name/value pair used by tabular summary exports.
type Metric struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Metrics flattens the summary into ordered name/value pairs.
func (s *RunSummary) Metrics() []Metric {
	metrics := []Metric{
		{"Run ID", s.RunID},
		{"Started", s.StartedAt.Format(time.RFC3339)},
		{"Finished", s.FinishedAt.Format(time.RFC3339)},
	}
	if s.CallerIdentity != "" {
		metrics = append(metrics, Metric{"Caller identity", s.CallerIdentity})
	}
	metrics = append(metrics, Metric{"Inputs", strings.Join(s.Inputs, ", ")})

	for _, table := range sortedKeys(s.Loaded) {
		metrics = append(metrics, Metric{fmt.Sprintf("Loaded rows (%s)", table), fmt.Sprint(s.Loaded[table])})
	}
	for _, n := range s.Normalize {
		metrics = append(metrics, Metric{fmt.Sprintf("Kept rows (%s)", n.Table), fmt.Sprint(n.Kept)})
		reasons := make([]string, 0, len(n.Dropped))
		for reason := range n.Dropped {
			reasons = append(reasons, string(reason))
		}
		sort.Strings(reasons)
		for _, reason := range reasons {
			metrics = append(metrics, Metric{fmt.Sprintf("Dropped rows (%s, %s)", n.Table, reason), fmt.Sprint(n.Dropped[DropReason(reason)])})
		}
	}

	metrics = append(metrics,
		Metric{"Account matches", fmt.Sprint(s.Join.AccountMatched)},
		Metric{"Account misses", fmt.Sprint(s.Join.AccountUnmatched)},
		Metric{"Master-data matches (Report-A)", fmt.Sprint(s.Join.MasterMatchedA)},
		Metric{"Master-data misses (Report-A)", fmt.Sprint(s.Join.MasterUnmatchedA)},
		Metric{"Master-data matches (Report-B)", fmt.Sprint(s.Join.MasterMatchedB)},
		Metric{"Master-data misses (Report-B)", fmt.Sprint(s.Join.MasterUnmatchedB)},
		Metric{"Ambiguous account keys", fmt.Sprint(s.Join.AmbiguousAccountKeys)},
		Metric{"Ambiguous cost centers", fmt.Sprint(s.Join.AmbiguousCostCenters)},
	)

	for _, marker := range sortedKeys(s.Resolve.CategoryOverrides) {
		metrics = append(metrics, Metric{fmt.Sprintf("Category override (%s)", marker), fmt.Sprint(s.Resolve.CategoryOverrides[marker])})
	}
	for _, code := range sortedKeys(s.Resolve.EntityOverrides) {
		metrics = append(metrics, Metric{fmt.Sprintf("Entity override (%s)", code), fmt.Sprint(s.Resolve.EntityOverrides[code])})
	}

	metrics = append(metrics,
		Metric{"Fallback accounts", fmt.Sprint(s.Resolve.FallbackResolved)},
		Metric{"Unresolved accounts", fmt.Sprint(s.Resolve.Unresolved)},
		Metric{"Unresolved rows (side file)", fmt.Sprint(s.Unresolved)},
		Metric{"Duplicate rows", fmt.Sprint(s.Duplicates)},
		Metric{"Report-A output rows", fmt.Sprint(s.ReportARows)},
		Metric{"Report-B output rows", fmt.Sprint(s.ReportBRows)},
	)
	for _, out := range s.Outputs {
		metrics = append(metrics, Metric{"Output", out})
	}
	return metrics
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
