package workbook

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/accrualworks/wd-accruals/internal/domain/entity"
	"github.com/accrualworks/wd-accruals/internal/shared/types"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ReadTable reads a converted sheet. headerOffset records are skipped before the header
// (Report-A carries a title line above its header). Blank records are ignored.
func (r *WorkbookRepositoryImpl) ReadTable(path, enc string, headerOffset int) (entity.Sheet, error) {
	sheet := entity.Sheet{Name: filepath.Base(path), Source: path}

	decoder, err := decoderFor(enc)
	if err != nil {
		return sheet, err
	}

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return sheet, fmt.Errorf("%w: %s", types.ErrMissingFile, path)
		}
		return sheet, fmt.Errorf("error opening %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(transform.NewReader(file, decoder))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	skipped := 0
	headerRead := false
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return sheet, fmt.Errorf("%w: reading %s: %v", types.ErrConversionFailure, path, err)
		}

		if skipped < headerOffset {
			skipped++
			continue
		}
		if isBlank(record) {
			continue
		}

		if !headerRead {
			sheet.Header = make([]string, len(record))
			for i, h := range record {
				sheet.Header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
			}
			headerRead = true
			continue
		}

		line, _ := reader.FieldPos(0)
		sheet.Rows = append(sheet.Rows, record)
		sheet.Lines = append(sheet.Lines, line)
	}

	if !headerRead {
		return sheet, fmt.Errorf("%w: %s has no header row after skipping %d record(s)",
			types.ErrSchemaMismatch, path, headerOffset)
	}

	r.log.Debug().
		Str("file", path).
		Str("encoding", enc).
		Int("columns", len(sheet.Header)).
		Int("rows", len(sheet.Rows)).
		Msg("table read")
	return sheet, nil
}

func decoderFor(enc string) (*encoding.Decoder, error) {
	switch strings.ToLower(enc) {
	case "", "utf-8", "utf8":
		return unicode.UTF8BOM.NewDecoder(), nil
	case "latin-1", "latin1", "iso-8859-1":
		return charmap.ISO8859_1.NewDecoder(), nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252.NewDecoder(), nil
	default:
		return nil, fmt.Errorf("%w: unsupported encoding %q", types.ErrInvalidConfig, enc)
	}
}

func isBlank(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
