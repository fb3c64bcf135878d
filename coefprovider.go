package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/clearsky-data/radiance.report/internal/db"
)

// csvCoefficientProvider reads precomputed absorption coefficients from CSV
// fixtures, one file per (gas, altitude) named <gas>_<altitude>.csv with
// wave_no,abs_coef rows. The line-by-line spectroscopy computation that
// produces these files lives outside this system.
type csvCoefficientProvider struct {
	dir string
}

func (p *csvCoefficientProvider) AbsorptionCoefficients(_ context.Context, gas db.Gas, altitude float64) ([]float64, []float64, error) {
	path := filepath.Join(p.dir, fmt.Sprintf("%s_%g.csv", gas.Name, altitude))
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("no coefficient fixture for %s at %g m: %w", gas.Name, altitude, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	var waveNos, coefs []float64
	for i, rec := range records {
		if len(rec) != 2 {
			return nil, nil, fmt.Errorf("%s line %d: expected 2 columns, got %d", path, i+1, len(rec))
		}
		if i == 0 && rec[0] == "wave_no" {
			continue // optional header
		}
		waveNo, err := strconv.ParseFloat(rec[0], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("%s line %d: bad wavenumber %q: %w", path, i+1, rec[0], err)
		}
		coef, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("%s line %d: bad coefficient %q: %w", path, i+1, rec[1], err)
		}
		waveNos = append(waveNos, waveNo)
		coefs = append(coefs, coef)
	}
	return waveNos, coefs, nil
}
