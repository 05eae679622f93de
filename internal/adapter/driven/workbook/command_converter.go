package workbook

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/accrualworks/wd-accruals/internal/shared/types"
)

// convertWithCommand runs an external converter such as
// `cscript.exe ExcelToCsv.vbs {src} {dst} {sheet} //B`.
// The command must leave a file at dst; its exit status alone is not trusted.
func convertWithCommand(ctx context.Context, conv types.ConverterConfig, src string, sheet int, dst string) error {
	absSrc, err := filepath.Abs(src)
	if err != nil {
		return fmt.Errorf("%w: %v", types.ErrConversionFailure, err)
	}
	absDst, err := filepath.Abs(dst)
	if err != nil {
		return fmt.Errorf("%w: %v", types.ErrConversionFailure, err)
	}

	replacer := strings.NewReplacer(
		"{src}", absSrc,
		"{dst}", absDst,
		"{sheet}", strconv.Itoa(sheet),
	)
	args := make([]string, len(conv.Args))
	for i, a := range conv.Args {
		args[i] = replacer.Replace(a)
	}

	// Remove stale output so a silent failure cannot pass for a conversion.
	_ = os.Remove(absDst)

	cmd := exec.CommandContext(ctx, conv.Command, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v: %s", types.ErrConversionFailure,
			conv.Command, strings.Join(args, " "), err, strings.TrimSpace(string(out)))
	}

	if _, err := os.Stat(absDst); err != nil {
		return fmt.Errorf("%w: %s produced no output for sheet %d of %s",
			types.ErrConversionFailure, conv.Command, sheet, src)
	}
	return nil
}
