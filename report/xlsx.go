package report

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// BuildWorkbook renders the batch metrics summary as an XLSX workbook with
// one row per signal and a column group per device.
func BuildWorkbook(entries []Entry) ([]byte, error) {
	f := excelize.NewFile()
	sheet := "metrics"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{
		"Signal", "Nominal Vrms (mV)", "I primary (A)",
		"Ref Vrms (mV)", "Ref Vpeak (mV)", "Ref Vpp (mV)", "Ref I (A)",
		"ADS1015 Vrms (mV)", "ADS1015 Vpeak (mV)", "ADS1015 Vpp (mV)", "ADS1015 I (A)",
		"ADS1115 Vrms (mV)", "ADS1115 Vpeak (mV)", "ADS1115 Vpp (mV)", "ADS1115 I (A)",
	}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, fmt.Errorf("build workbook: %w", err)
		}
		_ = f.SetCellValue(sheet, cell, h)
	}

	for r, e := range entries {
		values := []interface{}{
			e.SignalName, e.NominalRMS * 1000, e.IPrimary,
			e.Reference.RMS * 1000, e.Reference.Peak * 1000, e.Reference.PeakToPeak * 1000, e.Reference.Current,
			e.ADS1015.RMS * 1000, e.ADS1015.Peak * 1000, e.ADS1015.PeakToPeak * 1000, e.ADS1015.Current,
			e.ADS1115.RMS * 1000, e.ADS1115.Peak * 1000, e.ADS1115.PeakToPeak * 1000, e.ADS1115.Current,
		}
		for c, v := range values {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return nil, fmt.Errorf("build workbook: %w", err)
			}
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("build workbook: %w", err)
	}

	return buf.Bytes(), nil
}
