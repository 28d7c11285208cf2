package report

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// BuildPDF renders a one-page metrics sheet for a single signal.
func BuildPDF(e Entry) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "ADC Comparison")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Signal: %s", e.SignalName))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Nominal Vrms: %.3f mV", e.NominalRMS*1000))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("CT primary: %.0f A", e.IPrimary))
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(45, 6, "Metric", "1", 0, "C", false, 0, "")
	pdf.CellFormat(45, 6, "Reference", "1", 0, "C", false, 0, "")
	pdf.CellFormat(45, 6, "ADS1015", "1", 0, "C", false, 0, "")
	pdf.CellFormat(45, 6, "ADS1115", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 10)
	for _, row := range MetricsRows(e) {
		pdf.CellFormat(45, 6, row.Label, "1", 0, "L", false, 0, "")
		pdf.CellFormat(45, 6, row.Reference, "1", 0, "R", false, 0, "")
		pdf.CellFormat(45, 6, row.ADS1015, "1", 0, "R", false, 0, "")
		pdf.CellFormat(45, 6, row.ADS1115, "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("build pdf: %w", err)
	}

	return buf.Bytes(), nil
}
