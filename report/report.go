// Package report renders the per-signal comparison page and the batch
// exports. The HTML page carries an interactive overlay chart (Plotly loaded
// from its CDN, matching the reference tooling), a spectrum panel, and the
// comparative metrics table; workbook and PDF exports summarize the same
// metrics for archival.
package report

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"

	"github.com/cwbudde/ct-compare/metrics"
)

// Series is one chart trace in display units (milliseconds, millivolts).
type Series struct {
	Name string
	X    []float64
	Y    []float64
	Dash bool // dashed reference styling
}

// Row is one line of the comparative metrics table, pre-formatted.
type Row struct {
	Label     string
	Reference string
	ADS1015   string
	ADS1115   string
}

// Entry carries the computed metrics of one signal for table building and
// batch exports.
type Entry struct {
	SignalName string
	NominalRMS float64 // descriptor target RMS (V)
	IPrimary   float64 // CT nominal primary current (A)
	Reference  metrics.Result
	ADS1015    metrics.Result
	ADS1115    metrics.Result
}

// Page is the full view model of one comparison page.
type Page struct {
	SignalName string
	IPrimary   float64
	Traces     []Series
	Spectra    []Series
	Rows       []Row
}

// MetricsRows formats the four-row comparison table: Vrms, Vpeak and Vpp in
// millivolts to three decimals, current in amperes to four. The reference
// Vrms column shows the nominal value the reference was synthesized to.
func MetricsRows(e Entry) []Row {
	mv := func(v float64) string { return fmt.Sprintf("%.3f", v*1000) }
	amps := func(i float64) string { return fmt.Sprintf("%.4f", i) }

	return []Row{
		{
			Label:     "Vrms (mV)",
			Reference: mv(e.NominalRMS),
			ADS1015:   mv(e.ADS1015.RMS),
			ADS1115:   mv(e.ADS1115.RMS),
		},
		{
			Label:     "Vpeak (mV)",
			Reference: mv(e.Reference.Peak),
			ADS1015:   mv(e.ADS1015.Peak),
			ADS1115:   mv(e.ADS1115.Peak),
		},
		{
			Label:     "Vpp (mV)",
			Reference: mv(e.Reference.PeakToPeak),
			ADS1015:   mv(e.ADS1015.PeakToPeak),
			ADS1115:   mv(e.ADS1115.PeakToPeak),
		},
		{
			Label:     "Current (A)",
			Reference: amps(e.Reference.Current),
			ADS1015:   amps(e.ADS1015.Current),
			ADS1115:   amps(e.ADS1115.Current),
		},
	}
}

// ToDisplay converts a (seconds, volts) pair into a chart trace in
// milliseconds and millivolts.
func ToDisplay(name string, timesS, volts []float64, dash bool) Series {
	x := make([]float64, len(timesS))
	y := make([]float64, len(volts))
	for i := range timesS {
		x[i] = timesS[i] * 1000
	}
	for i := range volts {
		y[i] = volts[i] * 1000
	}

	return Series{Name: name, X: x, Y: y, Dash: dash}
}

// ToDisplayUS is ToDisplay for microsecond timestamps.
func ToDisplayUS(name string, timesUS, volts []float64, dash bool) Series {
	x := make([]float64, len(timesUS))
	y := make([]float64, len(volts))
	for i := range timesUS {
		x[i] = timesUS[i] / 1000
	}
	for i := range volts {
		y[i] = volts[i] * 1000
	}

	return Series{Name: name, X: x, Y: y, Dash: dash}
}

// WriteHTML renders the complete page.
func (p *Page) WriteHTML(w io.Writer) error {
	if err := pageTemplate.Execute(w, p); err != nil {
		return fmt.Errorf("render report: %w", err)
	}

	return nil
}

// jsFloats marshals a float slice for direct embedding in the page script.
func jsFloats(v []float64) (template.JS, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}

	return template.JS(b), nil
}

var pageTemplate = template.Must(template.New("page").Funcs(template.FuncMap{
	"floats": jsFloats,
}).Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>ADC comparison — {{.SignalName}}</title>
  <script src="https://cdn.plot.ly/plotly-2.32.0.min.js"></script>
  <style>
    body{font-family:sans-serif;margin:20px}
    h3{text-align:center}
    table{width:100%;border-collapse:collapse;text-align:center}
    th,td{padding:8px;border:1px solid #ccc}
    th{background:#f0f0f0}
    td:first-child{font-weight:bold}
    .wrap{max-width:700px;margin:20px auto}
  </style>
</head>
<body>
<div id="chart" style="height:450px"></div>
{{if .Spectra}}<div id="spectrum" style="height:350px"></div>{{end}}
<div class="wrap">
  <h3>Comparative metrics (CT primary: {{printf "%.0f" .IPrimary}} A)</h3>
  <table>
    <thead>
      <tr><th>Metric</th><th>Reference</th><th>ADS1015</th><th>ADS1115</th></tr>
    </thead>
    <tbody>
{{range .Rows}}      <tr><td>{{.Label}}</td><td>{{.Reference}}</td><td>{{.ADS1015}}</td><td>{{.ADS1115}}</td></tr>
{{end}}    </tbody>
  </table>
</div>
<script>
Plotly.newPlot("chart", [
{{range .Traces}}  {
    x: {{floats .X}},
    y: {{floats .Y}},
    mode: {{if .Dash}}"lines"{{else}}"lines+markers"{{end}},
    name: "{{.Name}}",
    {{if .Dash}}line: {color: "gray", width: 1.5, dash: "dash"}{{else}}marker: {size: 2}, line: {width: 1}{{end}}
  },
{{end}}], {
  title: "ADC comparison — {{.SignalName}}",
  xaxis: {title: "Time (ms)"},
  yaxis: {title: "Voltage (mV)"},
  hovermode: "x unified",
  legend: {orientation: "h", yanchor: "bottom", y: 1.02, xanchor: "center", x: 0.5}
});
{{if .Spectra}}
Plotly.newPlot("spectrum", [
{{range .Spectra}}  {
    x: {{floats .X}},
    y: {{floats .Y}},
    mode: "lines",
    name: "{{.Name}}"
  },
{{end}}], {
  title: "Magnitude spectrum",
  xaxis: {title: "Frequency (Hz)", type: "log"},
  yaxis: {title: "Amplitude (mV)"},
  legend: {orientation: "h", yanchor: "bottom", y: 1.02, xanchor: "center", x: 0.5}
});
{{end}}
</script>
</body>
</html>
`))
