package main

import (
	"fmt"
	"os"

	"github.com/accrualworks/wd-accruals/internal/adapter/driven/aws"
	"github.com/accrualworks/wd-accruals/internal/adapter/driven/config"
	"github.com/accrualworks/wd-accruals/internal/adapter/driven/export"
	"github.com/accrualworks/wd-accruals/internal/adapter/driven/workbook"
	"github.com/accrualworks/wd-accruals/internal/adapter/driving/cli"
	"github.com/accrualworks/wd-accruals/internal/application/usecase"
	"github.com/accrualworks/wd-accruals/internal/logger"
	"github.com/accrualworks/wd-accruals/pkg/console"
	"github.com/accrualworks/wd-accruals/pkg/version"
)

func main() {
	// Inicializa o aplicativo CLI
	app := cli.NewCLIApp(version.Version)

	// O nível efetivo é definido pela flag --verbose
	log := logger.New(true)
	logger.SetVerbose(false)

	// Inicializa os repositórios
	workbookRepo := workbook.NewWorkbookRepository(log)
	exportRepo := export.NewExportRepository()
	configRepo := config.NewConfigRepository()
	storageRepo := aws.NewS3Repository(log)
	consoleImpl := console.NewConsole()

	// Inicializa o caso de uso
	accrualUseCase := usecase.NewAccrualUseCase(
		workbookRepo,
		exportRepo,
		configRepo,
		storageRepo,
		consoleImpl,
		log,
	)

	app.SetAccrualUseCase(accrualUseCase)

	// Executa o aplicativo
	if err := app.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
