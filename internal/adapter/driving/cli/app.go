package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/accrualworks/wd-accruals/internal/application/usecase"
	"github.com/accrualworks/wd-accruals/internal/logger"
	"github.com/accrualworks/wd-accruals/internal/shared/types"
	"github.com/accrualworks/wd-accruals/pkg/version"
)

// CLIApp represents the command-line interface application.
type CLIApp struct {
	rootCmd        *cobra.Command
	accrualUseCase *usecase.AccrualUseCase
	version        string
}

// NewCLIApp cria uma nova aplicação CLI.
func NewCLIApp(versionStr string) *CLIApp {
	app := &CLIApp{
		version: versionStr,
	}

	rootCmd := &cobra.Command{
		Use:   "wd-accruals",
		Short: "Reconcile expense accruals against master data",
		Long: "wd-accruals converts the expense accrual reports and the master-data workbook, " +
			"cleans them, looks up GL accounts and accounting dimensions, applies the override rules " +
			"and writes the enriched reports to the output directory.",
		Version:       version.FormatVersion(),
		RunE:          app.runCommand,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{printf "wd-accruals version: %s\n" .Version}}`)

	// Adiciona flags de linha de comando
	flags := rootCmd.PersistentFlags()
	flags.StringP("config-file", "C", "", "Path to a TOML, YAML, or JSON configuration file")
	flags.StringP("work-dir", "w", "", "Directory holding the input workbooks (default: current directory)")
	flags.StringP("output-dir", "o", "", "Directory for the result files, relative to the work directory (default: Result)")
	flags.StringP("report-name", "n", "", "Base name for the run summary report (without extension)")
	flags.StringSliceP("report-type", "y", nil, "Run summary report types: csv, json, pdf")
	flags.String("converter", "", "Workbook converter: excelize or command")
	flags.String("encoding", "", "Encoding of the converted files: utf-8, latin-1 or windows-1252")
	flags.Bool("keep-temp", false, "Keep the converted intermediate files")
	flags.Bool("strict-account-keys", true, "Fail when an expense item and subsidiary map to more than one account")
	flags.String("s3-bucket", "", "Fetch the input workbooks from this S3 bucket before running")
	flags.String("s3-prefix", "", "Key prefix of the input workbooks in the S3 bucket")
	flags.StringP("profile", "p", "", "AWS profile used for S3 access")
	flags.BoolP("verbose", "v", false, "Print diagnostic logs to stderr")
	flags.Bool("print-config", false, "Print the effective configuration as YAML and exit")

	app.rootCmd = rootCmd
	return app
}

// Execute runs the CLI application.
func (app *CLIApp) Execute() error {
	return app.rootCmd.Execute()
}

// parseArgs parses command-line arguments into a CLIArgs struct.
// Boolean overrides are only set when the flag was given, so a config file keeps its value.
func (app *CLIApp) parseArgs() (*types.CLIArgs, error) {
	flags := app.rootCmd.Flags()

	configFile, _ := flags.GetString("config-file")
	workDir, _ := flags.GetString("work-dir")
	outputDir, _ := flags.GetString("output-dir")
	reportName, _ := flags.GetString("report-name")
	reportType, _ := flags.GetStringSlice("report-type")
	converter, _ := flags.GetString("converter")
	encoding, _ := flags.GetString("encoding")
	s3Bucket, _ := flags.GetString("s3-bucket")
	s3Prefix, _ := flags.GetString("s3-prefix")
	profile, _ := flags.GetString("profile")
	verbose, _ := flags.GetBool("verbose")
	printConfig, _ := flags.GetBool("print-config")

	if workDir != "" {
		absDir, err := filepath.Abs(workDir)
		if err != nil {
			return nil, err
		}
		workDir = absDir
	}

	args := &types.CLIArgs{
		ConfigFile:  configFile,
		WorkDir:     workDir,
		OutputDir:   outputDir,
		ReportName:  reportName,
		ReportType:  reportType,
		Converter:   converter,
		Encoding:    encoding,
		S3Bucket:    s3Bucket,
		S3Prefix:    s3Prefix,
		Profile:     profile,
		Verbose:     verbose,
		PrintConfig: printConfig,
	}

	if flags.Changed("keep-temp") {
		keepTemp, _ := flags.GetBool("keep-temp")
		args.KeepTemp = &keepTemp
	}
	if flags.Changed("strict-account-keys") {
		strict, _ := flags.GetBool("strict-account-keys")
		args.StrictAccountKeys = &strict
	}

	return args, nil
}

// runCommand é o ponto de entrada principal para o comando CLI.
func (app *CLIApp) runCommand(cmd *cobra.Command, args []string) error {
	if app.accrualUseCase == nil {
		return fmt.Errorf("accrual use case not configured")
	}

	cliArgs, err := app.parseArgs()
	if err != nil {
		return err
	}

	cfg, err := app.accrualUseCase.LoadConfig(cliArgs)
	if err != nil {
		return err
	}
	logger.SetVerbose(cfg.Verbose)

	if cliArgs.PrintConfig {
		out, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("error encoding configuration: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), string(out))
		return nil
	}

	// Exibe o banner de boas-vindas
	displayWelcomeBanner(app.version)

	// Ctrl+C interrompe a conversão em andamento
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	_, err = app.accrualUseCase.RunAccruals(ctx, cfg)
	return err
}

// SetAccrualUseCase sets the accrual use case for the CLI app.
func (app *CLIApp) SetAccrualUseCase(useCase *usecase.AccrualUseCase) {
	app.accrualUseCase = useCase
}
