// Package report renders a propagated flux field into its output artifacts:
// a CSV table, a PNG spectrum plot and a standalone HTML chart.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/clearsky-data/radiance.report/internal/grid"
)

// WriteCSV writes the flux table with one row per integer wavenumber bin and
// one column per altitude layer, in the grid's layer order. The first column
// is the wavenumber in cm^-1; layer columns are headed by their altitude in
// meters.
func WriteCSV(w io.Writer, flux *grid.FluxField) error {
	cw := csv.NewWriter(w)

	header := make([]string, 0, len(flux.Altitudes)+1)
	header = append(header, "wave_no")
	for _, alt := range flux.Altitudes {
		header = append(header, strconv.FormatFloat(alt, 'g', -1, 64))
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	record := make([]string, len(header))
	for bin, waveNo := range flux.WaveNos {
		record[0] = strconv.Itoa(waveNo)
		for layer := range flux.Altitudes {
			record[layer+1] = strconv.FormatFloat(flux.Total[layer][bin], 'g', -1, 64)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row for wavenumber %d: %w", waveNo, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
