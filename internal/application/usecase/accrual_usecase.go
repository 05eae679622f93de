package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/accrualworks/wd-accruals/internal/domain/entity"
	"github.com/accrualworks/wd-accruals/internal/domain/repository"
	"github.com/accrualworks/wd-accruals/internal/shared/types"
)

// AccrualUseCase runs the accrual pipeline: extract, load, normalize, reconcile,
// resolve exceptions and export.
type AccrualUseCase struct {
	workbookRepo repository.WorkbookRepository
	exportRepo   repository.ExportRepository
	configRepo   repository.ConfigRepository
	storageRepo  repository.StorageRepository
	console      types.ConsoleInterface
	log          zerolog.Logger
}

// NewAccrualUseCase creates a new accrual use case. storageRepo may be nil when inputs
// are never staged from S3.
func NewAccrualUseCase(
	workbookRepo repository.WorkbookRepository,
	exportRepo repository.ExportRepository,
	configRepo repository.ConfigRepository,
	storageRepo repository.StorageRepository,
	console types.ConsoleInterface,
	log zerolog.Logger,
) *AccrualUseCase {
	return &AccrualUseCase{
		workbookRepo: workbookRepo,
		exportRepo:   exportRepo,
		configRepo:   configRepo,
		storageRepo:  storageRepo,
		console:      console,
		log:          log,
	}
}

// LoadConfig monta a configuração: padrões, arquivo opcional, flags da CLI e validação.
func (uc *AccrualUseCase) LoadConfig(args *types.CLIArgs) (*types.Config, error) {
	cfg := types.DefaultConfig()
	if args != nil && args.ConfigFile != "" {
		loaded, err := uc.configRepo.LoadConfigFile(args.ConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	cfg.ApplyArgs(args)

	if err := resolvePaths(cfg); err != nil {
		return nil, err
	}
	if err := uc.configRepo.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolvePaths makes WorkDir absolute and anchors a relative OutputDir under it.
func resolvePaths(cfg *types.Config) error {
	workDir := cfg.WorkDir
	if workDir == "" {
		workDir = "."
	}
	abs, err := filepath.Abs(workDir)
	if err != nil {
		return fmt.Errorf("%w: work directory %q: %v", types.ErrInvalidConfig, cfg.WorkDir, err)
	}
	cfg.WorkDir = abs

	if cfg.OutputDir != "" && !filepath.IsAbs(cfg.OutputDir) {
		cfg.OutputDir = filepath.Join(cfg.WorkDir, cfg.OutputDir)
	}
	return nil
}

// RunAccruals executes one pipeline run. The returned summary is filled as far as the
// run got, also when an error is returned. Errors are *types.StageError values.
func (uc *AccrualUseCase) RunAccruals(ctx context.Context, cfg *types.Config) (*entity.RunSummary, error) {
	run := *cfg
	if err := resolvePaths(&run); err != nil {
		return nil, err
	}

	summary := &entity.RunSummary{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
		Inputs:    []string{run.ReportA.FileName, run.ReportB.FileName, run.Master.FileName},
		Loaded:    map[string]int{},
	}
	log := uc.log.With().Str("run_id", summary.RunID).Logger()
	log.Debug().Str("work_dir", run.WorkDir).Str("output_dir", run.OutputDir).Msg("starting accrual run")

	if run.S3.Bucket != "" {
		if err := uc.stageInputs(ctx, &run, summary); err != nil {
			return summary, err
		}
	}

	for _, name := range summary.Inputs {
		if _, err := os.Stat(filepath.Join(run.WorkDir, name)); err != nil {
			return summary, types.NewStageError(types.StageExtract, name, fmt.Errorf("%w: %s", types.ErrMissingFile, filepath.Join(run.WorkDir, name)))
		}
	}

	scratch := filepath.Join(run.WorkDir, run.ScratchDir, summary.RunID)
	if !run.KeepTemp {
		defer func() {
			if err := os.RemoveAll(scratch); err != nil {
				log.Warn().Err(err).Str("dir", scratch).Msg("could not remove scratch directory")
			}
			// Só remove o diretório pai se estiver vazio
			_ = os.Remove(filepath.Dir(scratch))
		}()
	} else {
		defer uc.console.LogInfo("Intermediate files kept in %s", scratch)
	}

	// Extração e carga
	raw, err := uc.extractSheets(ctx, &run, scratch)
	if err != nil {
		return summary, err
	}
	tables, err := LoadSources(raw, &run)
	if err != nil {
		return summary, err
	}
	summary.Loaded[TableReportA] = len(tables.ReportA)
	summary.Loaded[TableReportB] = len(tables.ReportB)
	summary.Loaded[TableMasterData] = len(tables.Master)
	summary.Loaded[TableAccounts] = len(tables.Accounts)
	summary.Loaded[TableTemplate] = tables.Template.Len()
	uc.console.LogSuccess("All files loaded (Report-A: %d rows, Report-B: %d rows, master data: %d cost centers, %d account mappings)",
		len(tables.ReportA), len(tables.ReportB), len(tables.Master), len(tables.Accounts))

	// Limpeza
	reportA, statsA, err := NormalizeReportA(tables.ReportA)
	if err != nil {
		return summary, types.NewStageError(types.StageNormalize, run.ReportA.FileName, err)
	}
	reportB, statsB, err := NormalizeReportB(tables.ReportB)
	if err != nil {
		return summary, types.NewStageError(types.StageNormalize, run.ReportB.FileName, err)
	}
	summary.Normalize = []entity.NormalizeStats{statsA, statsB}
	uc.console.LogSuccess("Data cleaned (Report-A: %d kept, %d dropped; Report-B: %d kept, %d dropped)",
		statsA.Kept, statsA.TotalDropped(), statsB.Kept, statsB.TotalDropped())
	for _, stats := range summary.Normalize {
		for reason, n := range stats.Dropped {
			log.Debug().Str("table", stats.Table).Str("reason", string(reason)).Int("rows", n).Msg("rows dropped")
		}
	}

	// Cruzamento com os dados mestre
	accounts, err := BuildAccountIndex(tables.Accounts, run.StrictAccountKeys)
	if err != nil {
		return summary, types.NewStageError(types.StageReconcile, run.Master.FileName, err)
	}
	master := BuildMasterIndex(tables.Master)
	reportA, reportB, summary.Join = Reconcile(reportA, reportB, accounts, master)
	uc.console.LogSuccess("Lookups complete (accounts: %d matched, %d missing)",
		summary.Join.AccountMatched, summary.Join.AccountUnmatched)
	if summary.Join.AmbiguousAccountKeys > 0 {
		uc.console.LogWarning("%d account key(s) map to more than one account; the first mapping was used", summary.Join.AmbiguousAccountKeys)
	}
	if summary.Join.AmbiguousCostCenters > 0 {
		uc.console.LogWarning("%d cost center(s) appear more than once in the master data; the first row was used", summary.Join.AmbiguousCostCenters)
	}

	// Exceções
	reportA, summary.Resolve = ResolveExceptions(reportA, run.Rules, accounts)
	unresolved := CollectUnresolved(reportA, reportB)
	duplicates := FindDuplicates(reportA)
	summary.Unresolved = len(unresolved)
	summary.Duplicates = len(duplicates)
	if summary.Resolve.Unresolved > 0 {
		uc.console.LogWarning("%d Report-A row(s) still have no account, see %s", summary.Resolve.Unresolved, run.Output.UnresolvedFile)
	}
	if len(duplicates) > 0 {
		uc.console.LogWarning("%d Report-A row(s) look like duplicates, see %s", len(duplicates), run.Output.DuplicatesFile)
	}

	// Exportação
	if err := uc.export(&run, reportA, reportB, duplicates, unresolved, summary); err != nil {
		return summary, err
	}
	summary.ReportARows = len(reportA)
	summary.ReportBRows = len(reportB)
	summary.FinishedAt = time.Now()

	uc.displaySummary(summary)
	uc.exportSummary(&run, summary)

	log.Debug().Dur("elapsed", summary.FinishedAt.Sub(summary.StartedAt)).Msg("accrual run finished")
	return summary, nil
}

// stageInputs baixa as planilhas do S3 para o diretório de trabalho.
func (uc *AccrualUseCase) stageInputs(ctx context.Context, cfg *types.Config, summary *entity.RunSummary) error {
	if uc.storageRepo == nil {
		return types.NewStageError(types.StageFetch, cfg.S3.Bucket, fmt.Errorf("%w: no storage configured", types.ErrInvalidConfig))
	}

	status := uc.console.Status(fmt.Sprintf("Fetching input workbooks from s3://%s/%s", cfg.S3.Bucket, cfg.S3.Prefix))
	defer status.Stop()

	identity, err := uc.storageRepo.GetCallerIdentity(ctx, cfg.S3.Profile, cfg.S3.Region)
	if err != nil {
		// A identidade é apenas informativa
		uc.log.Warn().Err(err).Msg("could not resolve caller identity")
	} else {
		summary.CallerIdentity = identity
	}

	paths, err := uc.storageRepo.DownloadObjects(ctx, cfg.S3.Profile, cfg.S3.Region, cfg.S3.Bucket, cfg.S3.Prefix, summary.Inputs, cfg.WorkDir)
	if err != nil {
		return types.NewStageError(types.StageFetch, "s3://"+cfg.S3.Bucket, err)
	}
	uc.console.LogSuccess("Fetched %d workbook(s) from s3://%s", len(paths), cfg.S3.Bucket)
	return nil
}

type conversionJob struct {
	file         string
	sheet        int
	headerOffset int
	target       *entity.Sheet
}

// extractSheets converts every needed sheet into the scratch directory and reads it back.
func (uc *AccrualUseCase) extractSheets(ctx context.Context, cfg *types.Config, scratch string) (RawSheets, error) {
	var raw RawSheets
	jobs := []conversionJob{
		{cfg.ReportA.FileName, cfg.ReportA.Sheet, cfg.ReportA.HeaderOffset, &raw.ReportA},
		{cfg.ReportB.FileName, cfg.ReportB.Sheet, cfg.ReportB.HeaderOffset, &raw.ReportB},
		{cfg.Master.FileName, cfg.Master.CostCenterSheet, 0, &raw.CostCenters},
		{cfg.Master.FileName, cfg.Master.AccountSheet, 0, &raw.Accounts},
		{cfg.Master.FileName, cfg.Master.TemplateSheet, 0, &raw.Template},
	}

	progress := uc.console.ProgressWithTotal(len(jobs))
	defer progress.Stop()

	for _, job := range jobs {
		if err := ctx.Err(); err != nil {
			return raw, types.NewStageError(types.StageExtract, job.file, err)
		}

		src := filepath.Join(cfg.WorkDir, job.file)
		dst := filepath.Join(scratch, fmt.Sprintf("%s_%d.csv", strings.TrimSuffix(job.file, filepath.Ext(job.file)), job.sheet))
		if err := uc.workbookRepo.ConvertSheet(ctx, cfg.Converter, src, job.sheet, dst); err != nil {
			return raw, types.NewStageError(types.StageExtract, job.file, err)
		}

		sheet, err := uc.workbookRepo.ReadTable(dst, convertedEncoding(cfg), job.headerOffset)
		if err != nil {
			return raw, types.NewStageError(types.StageLoad, job.file, err)
		}
		sheet.Name = fmt.Sprintf("%s#%d", job.file, job.sheet)
		*job.target = sheet

		uc.log.Debug().Str("file", job.file).Int("sheet", job.sheet).Int("rows", sheet.Len()).Msg("sheet loaded")
		progress.Increment()
	}
	return raw, nil
}

// convertedEncoding returns the encoding of the converted files. The excelize converter
// always writes UTF-8; the configured encoding describes external command output.
func convertedEncoding(cfg *types.Config) string {
	if cfg.Converter.Kind == "command" {
		return cfg.Encoding
	}
	return "utf-8"
}

func (uc *AccrualUseCase) export(
	cfg *types.Config,
	reportA []entity.ReportARow,
	reportB []entity.ReportBRow,
	duplicates []entity.DuplicateEntry,
	unresolved []entity.UnresolvedRow,
	summary *entity.RunSummary,
) error {
	path, err := uc.exportRepo.ExportReportA(reportA, cfg)
	if err != nil {
		return types.NewStageError(types.StageExport, cfg.ReportA.FileName, err)
	}
	summary.Outputs = append(summary.Outputs, path)

	if path, err = uc.exportRepo.ExportReportB(reportB, cfg); err != nil {
		return types.NewStageError(types.StageExport, cfg.ReportB.FileName, err)
	}
	summary.Outputs = append(summary.Outputs, path)

	if path, err = uc.exportRepo.ExportDuplicates(duplicates, cfg); err != nil {
		return types.NewStageError(types.StageExport, cfg.Output.DuplicatesFile, err)
	}
	summary.Outputs = append(summary.Outputs, path)

	if path, err = uc.exportRepo.ExportUnresolved(unresolved, cfg); err != nil {
		return types.NewStageError(types.StageExport, cfg.Output.UnresolvedFile, err)
	}
	summary.Outputs = append(summary.Outputs, path)

	uc.console.LogSuccess("Results written to %s", cfg.OutputDir)
	return nil
}

// displaySummary exibe o resumo da execução em uma tabela.
func (uc *AccrualUseCase) displaySummary(summary *entity.RunSummary) {
	table := uc.console.CreateTable()
	table.AddColumn("Metric")
	table.AddColumn("Value")
	for _, m := range summary.Metrics() {
		table.AddRow(m.Name, m.Value)
	}
	uc.console.Print(table.Render())
}

// exportSummary grava o relatório da execução nos formatos pedidos. Falhas aqui não
// invalidam a execução.
func (uc *AccrualUseCase) exportSummary(cfg *types.Config, summary *entity.RunSummary) {
	if cfg.ReportName == "" || len(cfg.ReportType) == 0 {
		return
	}

	for _, reportType := range cfg.ReportType {
		switch reportType {
		case "csv":
			csvPath, err := uc.exportRepo.ExportSummaryToCSV(summary, cfg.ReportName, cfg.OutputDir)
			if err != nil {
				uc.console.LogError("Failed to export summary to CSV: %s", err)
			} else {
				uc.console.LogSuccess("Successfully exported summary to CSV: %s", csvPath)
			}
		case "json":
			jsonPath, err := uc.exportRepo.ExportSummaryToJSON(summary, cfg.ReportName, cfg.OutputDir)
			if err != nil {
				uc.console.LogError("Failed to export summary to JSON: %s", err)
			} else {
				uc.console.LogSuccess("Successfully exported summary to JSON: %s", jsonPath)
			}
		case "pdf":
			pdfPath, err := uc.exportRepo.ExportSummaryToPDF(summary, cfg.ReportName, cfg.OutputDir)
			if err != nil {
				uc.console.LogError("Failed to export summary to PDF: %s", err)
			} else {
				uc.console.LogSuccess("Successfully exported summary to PDF: %s", pdfPath)
			}
		}
	}
}
