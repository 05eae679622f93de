package workbook

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/accrualworks/wd-accruals/internal/domain/repository"
	"github.com/accrualworks/wd-accruals/internal/shared/types"
	"github.com/rs/zerolog"
)

// WorkbookRepositoryImpl implementa o WorkbookRepository.
type WorkbookRepositoryImpl struct {
	log zerolog.Logger
}

// NewWorkbookRepository cria uma nova implementação do WorkbookRepository.
func NewWorkbookRepository(log zerolog.Logger) repository.WorkbookRepository {
	return &WorkbookRepositoryImpl{log: log}
}

// ConvertSheet dispatches to the converter selected in conv.
func (r *WorkbookRepositoryImpl) ConvertSheet(ctx context.Context, conv types.ConverterConfig, src string, sheet int, dst string) error {
	if _, err := os.Stat(src); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", types.ErrMissingFile, src)
		}
		return fmt.Errorf("%w: %s: %v", types.ErrConversionFailure, src, err)
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("%w: creating %s: %v", types.ErrConversionFailure, filepath.Dir(dst), err)
	}

	var err error
	switch conv.Kind {
	case "", "excelize":
		err = convertWithExcelize(src, sheet, dst)
	case "command":
		err = convertWithCommand(ctx, conv, src, sheet, dst)
	default:
		return fmt.Errorf("%w: unknown converter %q", types.ErrConversionFailure, conv.Kind)
	}
	if err != nil {
		return err
	}

	r.log.Debug().
		Str("source", src).
		Int("sheet", sheet).
		Str("target", dst).
		Str("converter", conv.Kind).
		Msg("sheet converted")
	return nil
}
