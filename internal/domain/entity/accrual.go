package entity

import "github.com/shopspring/decimal"

// ReportALine is a Report-A row as it was read: all cells are still text.
type ReportALine struct {
	Line         int    `json:"line"`
	EntityCode   string `json:"entity_code"`
	CostCenter   string `json:"cost_center"`
	ReportNumber string `json:"report_number"`
	ExpenseItem  string `json:"expense_item"`
	NetAmount    string `json:"net_amount"`
}

// ReportBLine is a Report-B row as it was read.
type ReportBLine struct {
	Line          int    `json:"line"`
	TransactionID string `json:"transaction_id"`
	BillingAmount string `json:"billing_amount"`
	Currency      string `json:"currency"`
	CostLocation  string `json:"cost_location"`
}

// AccountSource records which step assigned the account of a Report-A row.
type AccountSource string

const (
	AccountUnresolved       AccountSource = ""
	AccountFromJoin         AccountSource = "join"
	AccountFromCategoryRule AccountSource = "category_override"
	AccountFromEntityRule   AccountSource = "entity_override"
	AccountFromFallback     AccountSource = "fallback"
)

// ReportARow is a normalized expense item, enriched as it moves through the pipeline.
type ReportARow struct {
	Line          int             `json:"line"`
	EntityCode    string          `json:"entity_code"`
	CostCenter    string          `json:"cost_center"`
	ReportNumber  string          `json:"report_number"`
	ExpenseItem   string          `json:"expense_item"`
	NetAmount     decimal.Decimal `json:"net_amount"`
	Account       *int64          `json:"account,omitempty"`
	AccountSource AccountSource   `json:"account_source,omitempty"`
	Master        *MasterData     `json:"master,omitempty"`
}

// AsLine converts the row back to its text form.
func (r ReportARow) AsLine() ReportALine {
	return ReportALine{
		Line:         r.Line,
		EntityCode:   r.EntityCode,
		CostCenter:   r.CostCenter,
		ReportNumber: r.ReportNumber,
		ExpenseItem:  r.ExpenseItem,
		NetAmount:    r.NetAmount.String(),
	}
}

// WithAccount returns a copy of the row carrying account.
func (r ReportARow) WithAccount(account int64, source AccountSource) ReportARow {
	r.Account = &account
	r.AccountSource = source
	return r
}

// HasAccount reports whether an account number was resolved.
func (r ReportARow) HasAccount() bool {
	return r.Account != nil
}

// Checksum concatenates profit center and business area.
func (r ReportARow) Checksum() string {
	return r.Master.Checksum()
}

// ReportBRow is a normalized billing transaction.
type ReportBRow struct {
	Line          int             `json:"line"`
	TransactionID string          `json:"transaction_id"`
	BillingAmount decimal.Decimal `json:"billing_amount"`
	Currency      string          `json:"currency"`
	CostLocation  string          `json:"cost_location"`
	CompanyCode   string          `json:"company_code"`
	Master        *MasterData     `json:"master,omitempty"`
}

// AsLine converts the row back to its text form.
func (r ReportBRow) AsLine() ReportBLine {
	return ReportBLine{
		Line:          r.Line,
		TransactionID: r.TransactionID,
		BillingAmount: r.BillingAmount.String(),
		Currency:      r.Currency,
		CostLocation:  r.CostLocation,
	}
}

// Checksum concatenates profit center and business area.
func (r ReportBRow) Checksum() string {
	return r.Master.Checksum()
}

// AccountMapping maps an expense item for one subsidiary to a GL account.
type AccountMapping struct {
	ExpenseItem string `json:"expense_item"`
	Subsidiary  string `json:"subsidiary"`
	Account     int64  `json:"account"`
}

// MasterData holds the accounting dimensions of a cost center.
// Business area and profit center stay text so codes like "2E00" survive export.
type MasterData struct {
	CostCenter     string `json:"cost_center"`
	BusinessArea   string `json:"business_area"`
	ProfitCenter   string `json:"profit_center"`
	MRU            string `json:"mru"`
	FunctionalArea string `json:"functional_area"`
}

// Checksum returns profit center followed by business area. A nil receiver yields "".
func (m *MasterData) Checksum() string {
	if m == nil {
		return ""
	}
	return m.ProfitCenter + m.BusinessArea
}

// SourceTables holds everything the loader produced for one run.
type SourceTables struct {
	ReportA  []ReportALine    `json:"report_a"`
	ReportB  []ReportBLine    `json:"report_b"`
	Master   []MasterData     `json:"master"`
	Accounts []AccountMapping `json:"accounts"`
	Template Sheet            `json:"template"`
}
