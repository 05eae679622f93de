package usecase

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/accrualworks/wd-accruals/internal/adapter/driven/config"
	"github.com/accrualworks/wd-accruals/internal/adapter/driven/export"
	"github.com/accrualworks/wd-accruals/internal/adapter/driven/workbook"
	"github.com/accrualworks/wd-accruals/internal/domain/repository"
	"github.com/accrualworks/wd-accruals/internal/logger"
	"github.com/accrualworks/wd-accruals/internal/shared/types"
)

// --- Dublês de teste ---

type quietConsole struct {
	successes []string
	warnings  []string
}

func (c *quietConsole) Print(a ...interface{}) {}
func (c *quietConsole) Printf(format string, a ...interface{}) {}
func (c *quietConsole) Println(a ...interface{}) {}
func (c *quietConsole) LogInfo(format string, a ...interface{}) {}
func (c *quietConsole) LogError(format string, a ...interface{}) {}
func (c *quietConsole) LogWarning(format string, a ...interface{}) {
	c.warnings = append(c.warnings, fmt.Sprintf(format, a...))
}
func (c *quietConsole) LogSuccess(format string, a ...interface{}) {
	c.successes = append(c.successes, fmt.Sprintf(format, a...))
}
func (c *quietConsole) Status(message string) types.StatusHandle { return quietHandle{} }
func (c *quietConsole) ProgressWithTotal(total int) types.ProgressHandle { return quietHandle{} }
func (c *quietConsole) CreateTable() types.TableInterface { return &quietTable{} }

type quietHandle struct{}

func (quietHandle) Update(message string) {}
func (quietHandle) Increment() {}
func (quietHandle) Stop() {}

type quietTable struct{ rows int }

func (t *quietTable) AddColumn(name string, options ...interface{}) {}
func (t *quietTable) AddRow(cells ...interface{}) { t.rows++ }
func (t *quietTable) Render() string { return "" }

type mockStorage struct {
	mock.Mock
}

func (m *mockStorage) GetCallerIdentity(ctx context.Context, profile, region string) (string, error) {
	args := m.Called(ctx, profile, region)
	return args.String(0), args.Error(1)
}

func (m *mockStorage) DownloadObjects(ctx context.Context, profile, region, bucket, prefix string, names []string, destDir string) ([]string, error) {
	args := m.Called(ctx, profile, region, bucket, prefix, names, destDir)
	paths, _ := args.Get(0).([]string)
	return paths, args.Error(1)
}

// --- Fixtures ---

func saveWorkbook(t *testing.T, path string, sheets ...[][]interface{}) {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, rows := range sheets {
		sheetName := f.GetSheetName(0)
		if i > 0 {
			sheetName = fmt.Sprintf("Sheet%d", i+1)
			_, err := f.NewSheet(sheetName)
			require.NoError(t, err)
		}
		for r := range rows {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(sheetName, cell, &rows[r]))
		}
	}
	require.NoError(t, f.SaveAs(path))
}

// writeInputs saves the three input workbooks under dir with the default names.
func writeInputs(t *testing.T, dir string, accounts [][]interface{}) {
	t.Helper()
	cfg := types.DefaultConfig()

	saveWorkbook(t, filepath.Join(dir, cfg.ReportA.FileName), [][]interface{}{
		{"Process Accruals with Expense Report"},
		{"Entity Code", "Cost Center", "Expense Report Number", "Expense Item", "Net Amount LC", "Approver"},
		{"US", "1234 Finance Dept", "ER-1", "Meals", "1,234.56", "A"},
		{"US", "1234", "ER-1", "Meals", "1234.56", "A"},
		{"DE", "5678 Ops", "ER-2", "Meals", "20", "B"},
		{"DESA", "5678", "ER-3", "Travel Journal Item - Hotel", "30", "B"},
		{"US", "", "ER-4", "Meals", "5", "C"},
		{"US", "1234", "ER-5", "Taxi", "0", "C"},
		{"US", "9999", "ER-6", "Gifts", "15", "C"},
	})

	saveWorkbook(t, filepath.Join(dir, cfg.ReportB.FileName), [][]interface{}{
		{"Transaction ID", "Billing Amount", "Currency", "Report Cost Location"},
		{"T1", "(50.00)", "EUR", "1234"},
		{"T2", "50.00", "EUR", "DESA1234 Berlin"},
		{"T3", "20", "USD", "1234"},
	})

	saveWorkbook(t, filepath.Join(dir, cfg.Master.FileName),
		[][]interface{}{
			{"Cost Center", "Business Area", "Profit Center", "MRU", "Functional Area"},
			{"1234", "1000", "4500", "M1", "FA1"},
			{"5678", "2E00", "4600", "M2", "FA2"},
			{"DESA1234", "2E00", "7100", "M3", "FA3"},
		},
		accounts,
		[][]interface{}{
			{"Posting Key", "Account", "Text"},
			{"40", "", "Accrual"},
		},
	)
}

func defaultAccounts() [][]interface{} {
	return [][]interface{}{
		{"Expense Item name", "Subsidiary", "Account"},
		{"Meals", "US", 1001},
		{"Meals", "UK", 1002},
		{"Taxi", "US", "46540000.0"},
	}
}

func newTestUseCase(storage repository.StorageRepository) (*AccrualUseCase, *quietConsole) {
	console := &quietConsole{}
	log := logger.Nop()
	uc := NewAccrualUseCase(
		workbook.NewWorkbookRepository(log),
		export.NewExportRepository(),
		config.NewConfigRepository(),
		storage,
		console,
		log,
	)
	return uc, console
}

func readCSVFile(t *testing.T, path string) [][]string {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()
	records, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	return records
}

// --- Testes ---

func TestRunAccruals_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	writeInputs(t, dir, defaultAccounts())

	cfg := types.DefaultConfig()
	cfg.WorkDir = dir
	cfg.ReportType = []string{"json"}

	uc, console := newTestUseCase(nil)
	summary, err := uc.RunAccruals(context.Background(), cfg)
	require.NoError(t, err)

	assert.NotEmpty(t, summary.RunID)
	assert.Equal(t, map[string]int{
		TableReportA: 7, TableReportB: 3, TableMasterData: 3, TableAccounts: 3, TableTemplate: 1,
	}, summary.Loaded)

	require.Len(t, summary.Normalize, 2)
	assert.Equal(t, 5, summary.Normalize[0].Kept)
	assert.Equal(t, 2, summary.Normalize[0].TotalDropped())
	assert.Equal(t, 2, summary.Normalize[1].Kept)
	assert.Equal(t, 1, summary.Normalize[1].Dropped["parenthesised_amount"])

	assert.Equal(t, 2, summary.Join.AccountMatched)
	assert.Equal(t, 3, summary.Join.AccountUnmatched)
	assert.Equal(t, 1, summary.Join.MasterUnmatchedA)
	assert.Equal(t, 0, summary.Join.MasterUnmatchedB)
	assert.Equal(t, map[string]int{"DESA": 1}, summary.Resolve.EntityOverrides)
	assert.Empty(t, summary.Resolve.CategoryOverrides)
	assert.Equal(t, 1, summary.Resolve.FallbackResolved)
	assert.Equal(t, 1, summary.Resolve.Unresolved)
	assert.Equal(t, 2, summary.Unresolved)
	assert.Equal(t, 2, summary.Duplicates)
	assert.Equal(t, 5, summary.ReportARows)
	assert.Equal(t, 2, summary.ReportBRows)
	assert.Len(t, summary.Outputs, 4)

	assert.Contains(t, console.successes[0], "All files loaded")
	assert.Contains(t, console.successes[1], "Data cleaned")
	assert.Contains(t, console.successes[2], "Lookups complete")

	resultDir := filepath.Join(dir, "Result")

	// Report-A
	fa, err := excelize.OpenFile(filepath.Join(resultDir, cfg.ReportA.FileName))
	require.NoError(t, err)
	defer fa.Close()
	rowsA, err := fa.GetRows("Sheet1")
	require.NoError(t, err)
	require.Len(t, rowsA, 6)
	assert.Equal(t, "Acc#", rowsA[0][5])
	assert.Equal(t, "Checksum", rowsA[0][10])
	assert.Equal(t, []string{"US", "1234", "ER-1", "Meals", "1234.56", "1001", "1000", "4500", "M1", "FA1", "45001000"}, rowsA[1])
	assert.Equal(t, "1001", rowsA[3][5], "fallback by expense item")
	assert.Equal(t, "46920000", rowsA[4][5], "entity override")
	assert.Equal(t, "46002E00", rowsA[4][10])
	assert.Equal(t, []string{"US", "9999", "ER-6", "Gifts", "15"}, rowsA[5][:5])
	for _, cell := range rowsA[5][5:] {
		assert.Empty(t, cell)
	}

	// Report-B
	fb, err := excelize.OpenFile(filepath.Join(resultDir, cfg.ReportB.FileName))
	require.NoError(t, err)
	defer fb.Close()
	rowsB, err := fb.GetRows("Sheet1")
	require.NoError(t, err)
	require.Len(t, rowsB, 3)
	assert.Equal(t, []string{"T2", "50", "EUR", "DESA1234", "DESA", "2E00", "7100", "M3", "FA3", "71002E00"}, rowsB[1])
	assert.Equal(t, "1234", rowsB[2][4])

	// Arquivos auxiliares
	dups := readCSVFile(t, filepath.Join(resultDir, cfg.Output.DuplicatesFile))
	require.Len(t, dups, 3)
	assert.Equal(t, "ER-1", dups[1][4])
	assert.Equal(t, "ER-1", dups[2][4])

	unresolved := readCSVFile(t, filepath.Join(resultDir, cfg.Output.UnresolvedFile))
	require.Len(t, unresolved, 3)
	assert.Equal(t, "account", unresolved[1][2])
	assert.Equal(t, "master_data", unresolved[2][2])

	// the row without a cost center (ER-4) appears nowhere
	for _, row := range append(rowsA, dups...) {
		assert.NotContains(t, row, "ER-4")
	}
	for _, row := range unresolved {
		assert.NotContains(t, row[3], "ER-4")
	}

	summaries, err := filepath.Glob(filepath.Join(resultDir, "accruals_summary_*.json"))
	require.NoError(t, err)
	assert.Len(t, summaries, 1)

	_, err = os.Stat(filepath.Join(dir, cfg.ScratchDir))
	assert.True(t, os.IsNotExist(err), "scratch directory must be removed")
}

func TestRunAccruals_KeepTemp(t *testing.T) {
	dir := t.TempDir()
	writeInputs(t, dir, defaultAccounts())

	cfg := types.DefaultConfig()
	cfg.WorkDir = dir
	cfg.KeepTemp = true

	uc, _ := newTestUseCase(nil)
	summary, err := uc.RunAccruals(context.Background(), cfg)
	require.NoError(t, err)

	kept, err := filepath.Glob(filepath.Join(dir, cfg.ScratchDir, summary.RunID, "*.csv"))
	require.NoError(t, err)
	assert.Len(t, kept, 5)
}

func TestRunAccruals_MissingInput(t *testing.T) {
	dir := t.TempDir()
	writeInputs(t, dir, defaultAccounts())

	cfg := types.DefaultConfig()
	cfg.WorkDir = dir
	require.NoError(t, os.Remove(filepath.Join(dir, cfg.ReportB.FileName)))

	uc, _ := newTestUseCase(nil)
	_, err := uc.RunAccruals(context.Background(), cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrMissingFile)

	var stageErr *types.StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, types.StageExtract, stageErr.Stage)
	assert.Equal(t, cfg.ReportB.FileName, stageErr.Source)

	_, err = os.Stat(filepath.Join(dir, "Result"))
	assert.True(t, os.IsNotExist(err), "no output on failure")
}

func TestRunAccruals_AmbiguousAccounts(t *testing.T) {
	accounts := append(defaultAccounts(), []interface{}{"Meals", "US", 2002})

	t.Run("strict fails in reconcile", func(t *testing.T) {
		dir := t.TempDir()
		writeInputs(t, dir, accounts)

		cfg := types.DefaultConfig()
		cfg.WorkDir = dir

		uc, _ := newTestUseCase(nil)
		_, err := uc.RunAccruals(context.Background(), cfg)
		require.Error(t, err)
		assert.ErrorIs(t, err, types.ErrAmbiguousAccount)

		var stageErr *types.StageError
		require.ErrorAs(t, err, &stageErr)
		assert.Equal(t, types.StageReconcile, stageErr.Stage)

		_, err = os.Stat(filepath.Join(dir, cfg.ScratchDir))
		assert.True(t, os.IsNotExist(err), "scratch directory must be removed on failure")
	})

	t.Run("lenient keeps first mapping", func(t *testing.T) {
		dir := t.TempDir()
		writeInputs(t, dir, accounts)

		cfg := types.DefaultConfig()
		cfg.WorkDir = dir
		cfg.StrictAccountKeys = false

		uc, console := newTestUseCase(nil)
		summary, err := uc.RunAccruals(context.Background(), cfg)
		require.NoError(t, err)
		assert.Equal(t, 1, summary.Join.AmbiguousAccountKeys)
		assert.NotEmpty(t, console.warnings)
	})
}

func TestRunAccruals_SchemaMismatch(t *testing.T) {
	dir := t.TempDir()
	writeInputs(t, dir, defaultAccounts())

	cfg := types.DefaultConfig()
	cfg.WorkDir = dir
	cfg.ReportA.Columns.NetAmount = "Net Amount EUR"

	uc, _ := newTestUseCase(nil)
	_, err := uc.RunAccruals(context.Background(), cfg)
	assert.ErrorIs(t, err, types.ErrSchemaMismatch)
}

func TestRunAccruals_StagesFromS3(t *testing.T) {
	dir := t.TempDir()
	writeInputs(t, dir, defaultAccounts())

	cfg := types.DefaultConfig()
	cfg.WorkDir = dir
	cfg.S3 = types.S3Config{Bucket: "finance-drop", Prefix: "2024-01", Profile: "finance"}

	storage := &mockStorage{}
	storage.On("GetCallerIdentity", mock.Anything, "finance", "").
		Return("arn:aws:iam::123456789012:user/accruals", nil)
	storage.On("DownloadObjects", mock.Anything, "finance", "", "finance-drop", "2024-01",
		[]string{cfg.ReportA.FileName, cfg.ReportB.FileName, cfg.Master.FileName}, dir).
		Return([]string{"a", "b", "c"}, nil)

	uc, _ := newTestUseCase(storage)
	summary, err := uc.RunAccruals(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, "arn:aws:iam::123456789012:user/accruals", summary.CallerIdentity)
	storage.AssertExpectations(t)
}

func TestRunAccruals_S3Failure(t *testing.T) {
	cfg := types.DefaultConfig()
	cfg.WorkDir = t.TempDir()
	cfg.S3.Bucket = "finance-drop"

	storage := &mockStorage{}
	storage.On("GetCallerIdentity", mock.Anything, "", "").Return("", errors.New("no credentials"))
	storage.On("DownloadObjects", mock.Anything, "", "", "finance-drop", "", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: s3://finance-drop/x", types.ErrMissingFile))

	uc, _ := newTestUseCase(storage)
	_, err := uc.RunAccruals(context.Background(), cfg)
	require.Error(t, err)

	var stageErr *types.StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, types.StageFetch, stageErr.Stage)
	assert.ErrorIs(t, err, types.ErrMissingFile)
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	uc, _ := newTestUseCase(nil)

	keep := true
	cfg, err := uc.LoadConfig(&types.CLIArgs{WorkDir: dir, OutputDir: "out", KeepTemp: &keep, Encoding: "latin-1"})
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.WorkDir)
	assert.Equal(t, filepath.Join(dir, "out"), cfg.OutputDir)
	assert.True(t, cfg.KeepTemp)
	assert.Equal(t, "latin-1", cfg.Encoding)
	assert.True(t, cfg.StrictAccountKeys)
}

func TestLoadConfig_FileThenFlags(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "accruals.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output_dir: /tmp/accruals\nencoding: windows-1252\n"), 0644))

	uc, _ := newTestUseCase(nil)
	cfg, err := uc.LoadConfig(&types.CLIArgs{ConfigFile: path, WorkDir: dir, Encoding: "utf-8"})
	require.NoError(t, err)
	assert.Equal(t, "/tmp/accruals", cfg.OutputDir)
	assert.Equal(t, "utf-8", cfg.Encoding)
}

func TestLoadConfig_Invalid(t *testing.T) {
	uc, _ := newTestUseCase(nil)
	_, err := uc.LoadConfig(&types.CLIArgs{WorkDir: t.TempDir(), Encoding: "ebcdic"})
	assert.ErrorIs(t, err, types.ErrInvalidConfig)
}
