package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/accrualworks/wd-accruals/internal/domain/entity"
	"github.com/jung-kurt/gofpdf"
)

// --- Funções de Exportação do Resumo da Execução ---

func (r *ExportRepositoryImpl) ExportSummaryToCSV(summary *entity.RunSummary, filename, outputDir string) (string, error) {
	outputFilename, err := generateFilename(filename, outputDir, "csv")
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	writer.Write([]string{"Metric", "Value"})
	for _, m := range summary.Metrics() {
		writer.Write([]string{m.Name, m.Value})
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("error writing CSV file: %w", err)
	}

	return filepath.Abs(outputFilename)
}

func (r *ExportRepositoryImpl) ExportSummaryToJSON(summary *entity.RunSummary, filename, outputDir string) (string, error) {
	outputFilename, err := generateFilename(filename, outputDir, "json")
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating JSON file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(summary); err != nil {
		return "", fmt.Errorf("error encoding JSON data: %w", err)
	}

	return filepath.Abs(outputFilename)
}

func (r *ExportRepositoryImpl) ExportSummaryToPDF(summary *entity.RunSummary, filename, outputDir string) (string, error) {
	outputFilename, err := generateFilename(filename, outputDir, "pdf")
	if err != nil {
		return "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	headerColor := [3]int{40, 40, 40}
	headerTextColor := [3]int{255, 255, 255}
	bodyTextColor := [3]int{50, 50, 50}
	lineColor := [3]int{200, 200, 200}

	pdf.AddPage()

	pdf.SetFillColor(headerColor[0], headerColor[1], headerColor[2])
	pdf.SetTextColor(headerTextColor[0], headerTextColor[1], headerTextColor[2])
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 12, tr("  Expense Accrual Reconciliation"), "", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.SetFillColor(240, 240, 240)
	pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
	pdf.CellFormat(0, 8, tr(fmt.Sprintf("  Run %s", summary.RunID)), "", 1, "L", true, 0, "")
	pdf.Ln(6)

	nameWidth := 110.0
	valueWidth := 80.0
	pdf.SetDrawColor(lineColor[0], lineColor[1], lineColor[2])

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(nameWidth, 7, "Metric", "B", 0, "L", false, 0, "")
	pdf.CellFormat(valueWidth, 7, "Value", "B", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 9)
	for _, m := range summary.Metrics() {
		value := m.Value
		// Caminhos longos quebram a tabela
		if len(value) > 60 {
			value = "..." + value[len(value)-57:]
		}
		pdf.CellFormat(nameWidth, 6, tr(m.Name), "B", 0, "L", false, 0, "")
		pdf.CellFormat(valueWidth, 6, tr(value), "B", 1, "L", false, 0, "")
	}

	if err := pdf.OutputFileAndClose(outputFilename); err != nil {
		return "", fmt.Errorf("error writing PDF file: %w", err)
	}

	return filepath.Abs(outputFilename)
}
