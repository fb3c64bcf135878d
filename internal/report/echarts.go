package report

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/clearsky-data/radiance.report/internal/grid"
)

// WriteHTML renders the flux spectrum as a self-contained interactive HTML
// line chart, one series per altitude layer.
func WriteHTML(w io.Writer, flux *grid.FluxField) error {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Upward spectral flux",
			Width:     "1200px",
			Height:    "600px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Upward spectral flux",
			Subtitle: fmt.Sprintf("layers=%d bins=%d", len(flux.Altitudes), len(flux.WaveNos)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Wavenumber (cm⁻¹)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Flux (W m⁻² (cm⁻¹)⁻¹)", NameLocation: "middle", NameGap: 45}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)

	line.SetXAxis(flux.WaveNos)
	for i, alt := range flux.Altitudes {
		series := make([]opts.LineData, len(flux.WaveNos))
		for j := range flux.WaveNos {
			series[j] = opts.LineData{Value: flux.Total[i][j]}
		}
		line.AddSeries(fmt.Sprintf("%g m", alt), series)
	}

	if err := line.Render(w); err != nil {
		return fmt.Errorf("failed to render flux chart: %w", err)
	}
	return nil
}
