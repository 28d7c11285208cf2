package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/cwbudde/ct-compare/metrics"
)

func testEntry() Entry {
	return Entry{
		SignalName: "sine_60hz_33.85mVrms",
		NominalRMS: 0.03385,
		IPrimary:   100,
		Reference: metrics.Result{
			RMS: 0.03385, Peak: 0.04787, PeakToPeak: 0.09574, Current: 10.1652,
		},
		ADS1015: metrics.Result{
			RMS: 0.0336, Peak: 0.0475, PeakToPeak: 0.0952, Current: 10.0901,
		},
		ADS1115: metrics.Result{
			RMS: 0.03384, Peak: 0.04786, PeakToPeak: 0.09572, Current: 10.1622,
		},
	}
}

func TestMetricsRows(t *testing.T) {
	rows := MetricsRows(testEntry())
	require.Len(t, rows, 4)

	assert.Equal(t, "Vrms (mV)", rows[0].Label)
	assert.Equal(t, "33.850", rows[0].Reference) // nominal, not computed
	assert.Equal(t, "33.600", rows[0].ADS1015)
	assert.Equal(t, "33.840", rows[0].ADS1115)

	assert.Equal(t, "Vpeak (mV)", rows[1].Label)
	assert.Equal(t, "47.870", rows[1].Reference)

	assert.Equal(t, "Vpp (mV)", rows[2].Label)
	assert.Equal(t, "95.740", rows[2].Reference)

	assert.Equal(t, "Current (A)", rows[3].Label)
	assert.Equal(t, "10.1652", rows[3].Reference)
	assert.Equal(t, "10.0901", rows[3].ADS1015)
}

func TestToDisplay(t *testing.T) {
	s := ToDisplay("Reference", []float64{0, 0.001}, []float64{0.05, -0.05}, true)
	assert.Equal(t, []float64{0, 1}, s.X)
	assert.Equal(t, []float64{50, -50}, s.Y)
	assert.True(t, s.Dash)

	u := ToDisplayUS("ADS1115", []float64{0, 1000}, []float64{0.05, -0.05}, false)
	assert.Equal(t, []float64{0, 1}, u.X)
	assert.False(t, u.Dash)
}

func TestWriteHTML(t *testing.T) {
	e := testEntry()
	page := Page{
		SignalName: e.SignalName,
		IPrimary:   e.IPrimary,
		Rows:       MetricsRows(e),
		Traces: []Series{
			{Name: "Reference", X: []float64{0, 1}, Y: []float64{0, 33.85}, Dash: true},
			{Name: "ADS1115", X: []float64{0, 1}, Y: []float64{0.1, 33.6}},
		},
		Spectra: []Series{
			{Name: "Reference", X: []float64{0, 60}, Y: []float64{0, 47.8}},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, page.WriteHTML(&buf))
	html := buf.String()

	assert.Contains(t, html, "cdn.plot.ly")
	assert.Contains(t, html, `id="chart"`)
	assert.Contains(t, html, `id="spectrum"`)
	assert.Contains(t, html, "sine_60hz_33.85mVrms")
	assert.Contains(t, html, "33.850")
	assert.Contains(t, html, `dash: "dash"`)
	assert.Contains(t, html, "CT primary: 100 A")
}

func TestWriteHTMLNoSpectra(t *testing.T) {
	e := testEntry()
	page := Page{SignalName: e.SignalName, IPrimary: e.IPrimary, Rows: MetricsRows(e)}

	var buf bytes.Buffer
	require.NoError(t, page.WriteHTML(&buf))
	assert.NotContains(t, buf.String(), `id="spectrum"`)
}

func TestBuildWorkbook(t *testing.T) {
	data, err := BuildWorkbook([]Entry{testEntry()})
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	name, err := f.GetCellValue("metrics", "A2")
	require.NoError(t, err)
	assert.Equal(t, "sine_60hz_33.85mVrms", name)

	header, err := f.GetCellValue("metrics", "D1")
	require.NoError(t, err)
	assert.Equal(t, "Ref Vrms (mV)", header)
}

func TestBuildPDF(t *testing.T) {
	data, err := BuildPDF(testEntry())
	require.NoError(t, err)
	require.NotEmpty(t, data)
	assert.True(t, strings.HasPrefix(string(data), "%PDF"))
}
