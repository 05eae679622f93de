package types

// Config represents the application configuration that can be loaded from a file.
type Config struct {
	WorkDir           string          `json:"work_dir" yaml:"work_dir" toml:"work_dir"`
	OutputDir         string          `json:"output_dir" yaml:"output_dir" toml:"output_dir" validate:"required"`
	ScratchDir        string          `json:"scratch_dir" yaml:"scratch_dir" toml:"scratch_dir" validate:"required"`
	KeepTemp          bool            `json:"keep_temp" yaml:"keep_temp" toml:"keep_temp"`
	Encoding          string          `json:"encoding" yaml:"encoding" toml:"encoding" validate:"omitempty,oneof=utf-8 latin-1 windows-1252"`
	StrictAccountKeys bool            `json:"strict_account_keys" yaml:"strict_account_keys" toml:"strict_account_keys"`
	Converter         ConverterConfig `json:"converter" yaml:"converter" toml:"converter"`

	ReportA ReportAConfig `json:"report_a" yaml:"report_a" toml:"report_a"`
	ReportB ReportBConfig `json:"report_b" yaml:"report_b" toml:"report_b"`
	Master  MasterConfig  `json:"master" yaml:"master" toml:"master"`
	Rules   AccountRules  `json:"rules" yaml:"rules" toml:"rules"`
	Output  OutputConfig  `json:"output" yaml:"output" toml:"output"`

	ReportName string   `json:"report_name" yaml:"report_name" toml:"report_name"`
	ReportType []string `json:"report_type" yaml:"report_type" toml:"report_type" validate:"dive,oneof=csv json pdf"`

	S3      S3Config `json:"s3" yaml:"s3" toml:"s3"`
	Verbose bool     `json:"verbose" yaml:"verbose" toml:"verbose"`
}

// ConverterConfig selects how workbook sheets are turned into delimited text.
// Kind "command" runs Command with Args, where {src}, {dst} and {sheet} are substituted.
type ConverterConfig struct {
	Kind    string   `json:"kind" yaml:"kind" toml:"kind" validate:"oneof=excelize command"`
	Command string   `json:"command" yaml:"command" toml:"command" validate:"required_if=Kind command"`
	Args    []string `json:"args" yaml:"args" toml:"args"`
}

// ReportAConfig describes the expense-item extract (EXP031).
type ReportAConfig struct {
	FileName     string         `json:"file_name" yaml:"file_name" toml:"file_name" validate:"required"`
	Sheet        int            `json:"sheet" yaml:"sheet" toml:"sheet" validate:"min=1"`
	HeaderOffset int            `json:"header_offset" yaml:"header_offset" toml:"header_offset" validate:"min=0"`
	Columns      ReportAColumns `json:"columns" yaml:"columns" toml:"columns"`
}

// ReportAColumns names the Report-A columns the pipeline reads.
type ReportAColumns struct {
	EntityCode   string `json:"entity_code" yaml:"entity_code" toml:"entity_code" validate:"required"`
	CostCenter   string `json:"cost_center" yaml:"cost_center" toml:"cost_center" validate:"required"`
	ReportNumber string `json:"report_number" yaml:"report_number" toml:"report_number" validate:"required"`
	ExpenseItem  string `json:"expense_item" yaml:"expense_item" toml:"expense_item" validate:"required"`
	NetAmount    string `json:"net_amount" yaml:"net_amount" toml:"net_amount" validate:"required"`
}

// List returns the required columns in output order.
func (c ReportAColumns) List() []string {
	return []string{c.EntityCode, c.CostCenter, c.ReportNumber, c.ExpenseItem, c.NetAmount}
}

// ReportBConfig describes the billing-transaction extract (EXP032).
type ReportBConfig struct {
	FileName     string         `json:"file_name" yaml:"file_name" toml:"file_name" validate:"required"`
	Sheet        int            `json:"sheet" yaml:"sheet" toml:"sheet" validate:"min=1"`
	HeaderOffset int            `json:"header_offset" yaml:"header_offset" toml:"header_offset" validate:"min=0"`
	Columns      ReportBColumns `json:"columns" yaml:"columns" toml:"columns"`
}

// ReportBColumns names the Report-B columns the pipeline reads.
type ReportBColumns struct {
	TransactionID string `json:"transaction_id" yaml:"transaction_id" toml:"transaction_id" validate:"required"`
	BillingAmount string `json:"billing_amount" yaml:"billing_amount" toml:"billing_amount" validate:"required"`
	Currency      string `json:"currency" yaml:"currency" toml:"currency" validate:"required"`
	CostLocation  string `json:"cost_location" yaml:"cost_location" toml:"cost_location" validate:"required"`
}

// List returns the required columns in output order.
func (c ReportBColumns) List() []string {
	return []string{c.TransactionID, c.BillingAmount, c.Currency, c.CostLocation}
}

// MasterConfig describes the master-data workbook and its three positional sheets.
type MasterConfig struct {
	FileName        string         `json:"file_name" yaml:"file_name" toml:"file_name" validate:"required"`
	CostCenterSheet int            `json:"cost_center_sheet" yaml:"cost_center_sheet" toml:"cost_center_sheet" validate:"min=1"`
	AccountSheet    int            `json:"account_sheet" yaml:"account_sheet" toml:"account_sheet" validate:"min=1"`
	TemplateSheet   int            `json:"template_sheet" yaml:"template_sheet" toml:"template_sheet" validate:"min=1"`
	Columns         MasterColumns  `json:"columns" yaml:"columns" toml:"columns"`
	AccountColumns  AccountColumns `json:"account_columns" yaml:"account_columns" toml:"account_columns"`
}

// MasterColumns names the cost-center sheet columns.
type MasterColumns struct {
	CostCenter     string `json:"cost_center" yaml:"cost_center" toml:"cost_center" validate:"required"`
	BusinessArea   string `json:"business_area" yaml:"business_area" toml:"business_area" validate:"required"`
	ProfitCenter   string `json:"profit_center" yaml:"profit_center" toml:"profit_center" validate:"required"`
	MRU            string `json:"mru" yaml:"mru" toml:"mru" validate:"required"`
	FunctionalArea string `json:"functional_area" yaml:"functional_area" toml:"functional_area" validate:"required"`
}

// AccountColumns names the account-mapping sheet columns.
type AccountColumns struct {
	ExpenseItem string `json:"expense_item" yaml:"expense_item" toml:"expense_item" validate:"required"`
	Subsidiary  string `json:"subsidiary" yaml:"subsidiary" toml:"subsidiary" validate:"required"`
	Account     string `json:"account" yaml:"account" toml:"account" validate:"required"`
}

// AccountRules holds the account overrides applied after the account join.
// Category overrides run in order (a later match wins); entity overrides run last.
type AccountRules struct {
	CategoryOverrides []CategoryOverride `json:"category_overrides" yaml:"category_overrides" toml:"category_overrides" validate:"dive"`
	EntityOverrides   []EntityOverride   `json:"entity_overrides" yaml:"entity_overrides" toml:"entity_overrides" validate:"dive"`
}

// CategoryOverride forces Account on rows whose expense item contains Marker.
type CategoryOverride struct {
	Marker  string `json:"marker" yaml:"marker" toml:"marker" validate:"required"`
	Account int64  `json:"account" yaml:"account" toml:"account" validate:"gt=0"`
}

// EntityOverride forces Account on rows whose entity code equals EntityCode.
type EntityOverride struct {
	EntityCode string `json:"entity_code" yaml:"entity_code" toml:"entity_code" validate:"required"`
	Account    int64  `json:"account" yaml:"account" toml:"account" validate:"gt=0"`
}

// OutputConfig names the derived columns and the side files.
type OutputConfig struct {
	AccountColumn     string `json:"account_column" yaml:"account_column" toml:"account_column" validate:"required"`
	CompanyCodeColumn string `json:"company_code_column" yaml:"company_code_column" toml:"company_code_column" validate:"required"`
	ChecksumColumn    string `json:"checksum_column" yaml:"checksum_column" toml:"checksum_column" validate:"required"`
	SheetName         string `json:"sheet_name" yaml:"sheet_name" toml:"sheet_name" validate:"required"`
	DuplicatesFile    string `json:"duplicates_file" yaml:"duplicates_file" toml:"duplicates_file" validate:"required"`
	UnresolvedFile    string `json:"unresolved_file" yaml:"unresolved_file" toml:"unresolved_file" validate:"required"`
}

// S3Config enables fetching the input workbooks from a bucket before the run.
type S3Config struct {
	Bucket  string `json:"bucket" yaml:"bucket" toml:"bucket"`
	Prefix  string `json:"prefix" yaml:"prefix" toml:"prefix"`
	Profile string `json:"profile" yaml:"profile" toml:"profile"`
	Region  string `json:"region" yaml:"region" toml:"region"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		OutputDir:         "Result",
		ScratchDir:        ".wd-accruals",
		Encoding:          "utf-8",
		StrictAccountKeys: true,
		Converter: ConverterConfig{
			Kind: "excelize",
		},
		ReportA: ReportAConfig{
			FileName:     "EXP031-RPT-Process-Accruals_with_Expense_Report.xlsx",
			Sheet:        1,
			HeaderOffset: 1,
			Columns: ReportAColumns{
				EntityCode:   "Entity Code",
				CostCenter:   "Cost Center",
				ReportNumber: "Expense Report Number",
				ExpenseItem:  "Expense Item",
				NetAmount:    "Net Amount LC",
			},
		},
		ReportB: ReportBConfig{
			FileName: "EXP032-RPT-Process-Accruals-_No_Expense.xlsx",
			Sheet:    1,
			Columns: ReportBColumns{
				TransactionID: "Transaction ID",
				BillingAmount: "Billing Amount",
				Currency:      "Currency",
				CostLocation:  "Report Cost Location",
			},
		},
		Master: MasterConfig{
			FileName:        "WD_Accruals_Master.xlsm",
			CostCenterSheet: 1,
			AccountSheet:    2,
			TemplateSheet:   3,
			Columns: MasterColumns{
				CostCenter:     "Cost Center",
				BusinessArea:   "Business Area",
				ProfitCenter:   "Profit Center",
				MRU:            "MRU",
				FunctionalArea: "Functional Area",
			},
			AccountColumns: AccountColumns{
				ExpenseItem: "Expense Item name",
				Subsidiary:  "Subsidiary",
				Account:     "Account",
			},
		},
		Rules: AccountRules{
			CategoryOverrides: []CategoryOverride{
				{Marker: "Travel Journal Item", Account: 46540000},
				{Marker: "Company Celebration", Account: 46900000},
			},
			EntityOverrides: []EntityOverride{
				{EntityCode: "DESA", Account: 46920000},
			},
		},
		Output: OutputConfig{
			AccountColumn:     "Acc#",
			CompanyCodeColumn: "Company code",
			ChecksumColumn:    "Checksum",
			SheetName:         "Sheet1",
			DuplicatesFile:    "duplicates.csv",
			UnresolvedFile:    "unresolved.csv",
		},
		ReportName: "accruals_summary",
	}
}

// ApplyArgs overrides configuration values with the flags given on the command line.
func (c *Config) ApplyArgs(args *CLIArgs) {
	if args == nil {
		return
	}
	if args.WorkDir != "" {
		c.WorkDir = args.WorkDir
	}
	if args.OutputDir != "" {
		c.OutputDir = args.OutputDir
	}
	if args.ReportName != "" {
		c.ReportName = args.ReportName
	}
	if len(args.ReportType) > 0 {
		c.ReportType = args.ReportType
	}
	if args.Converter != "" {
		c.Converter.Kind = args.Converter
	}
	if args.Encoding != "" {
		c.Encoding = args.Encoding
	}
	if args.KeepTemp != nil {
		c.KeepTemp = *args.KeepTemp
	}
	if args.StrictAccountKeys != nil {
		c.StrictAccountKeys = *args.StrictAccountKeys
	}
	if args.S3Bucket != "" {
		c.S3.Bucket = args.S3Bucket
	}
	if args.S3Prefix != "" {
		c.S3.Prefix = args.S3Prefix
	}
	if args.Profile != "" {
		c.S3.Profile = args.Profile
	}
	if args.Verbose {
		c.Verbose = true
	}
}
