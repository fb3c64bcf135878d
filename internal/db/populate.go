package db

import (
	"context"
	"fmt"
	"log"

	"github.com/clearsky-data/radiance.report/internal/atmosphere"
)

// BlockHalfWidth is half the vertical extent of one atmospheric block in
// meters. Stored altitudes are block midpoints; optical depths cover
// [alt-BlockHalfWidth, alt+BlockHalfWidth].
const BlockHalfWidth = 500.0

// DefaultGases are the bundled greenhouse gases with their HITRAN molecule
// ids and the constant mixing ratios assumed up to the model ceiling. The
// same constant-abundance assumption is made by MODTRAN, which still reaches
// sub-kelvin accuracy on thermal brightness temperature.
var DefaultGases = []Gas{
	{ID: 1, Name: "H2O", PPM: 25e9},
	{ID: 2, Name: "CO2", PPM: 411},
	{ID: 4, Name: "N2O", PPM: 0.327},
	{ID: 6, Name: "CH4", PPM: 1.893},
}

// CoefficientProvider supplies per-molecule absorption coefficients for one
// gas at one block-midpoint altitude. The line-by-line computation behind it
// (spectroscopy database access, Voigt profiles) is outside this system; it
// is consumed as a black box returning parallel wavenumber/coefficient
// arrays.
type CoefficientProvider interface {
	AbsorptionCoefficients(ctx context.Context, gas Gas, altitude float64) (waveNos, coefs []float64, err error)
}

// PopulateGas fills the store with optical depths for one gas at each block
// midpoint altitude, deriving depths from the provider's absorption
// coefficients and the ISA column density of the block. Altitudes already
// populated for the gas are skipped, so interrupted runs can resume.
func (db *DB) PopulateGas(ctx context.Context, provider CoefficientProvider, gas Gas, altitudes []float64, verbose bool) error {
	if err := db.AddGas(ctx, gas); err != nil {
		return err
	}

	for _, alt := range altitudes {
		done, err := db.HasSamples(ctx, gas.ID, alt)
		if err != nil {
			return err
		}
		if done {
			continue
		}

		waveNos, coefs, err := provider.AbsorptionCoefficients(ctx, gas, alt)
		if err != nil {
			return fmt.Errorf("coefficient computation failed for %s at %g m: %w", gas.Name, alt, err)
		}
		if len(waveNos) != len(coefs) {
			return fmt.Errorf("provider returned mismatched arrays for %s at %g m: %d wavenumbers, %d coefficients",
				gas.Name, alt, len(waveNos), len(coefs))
		}

		depths, err := atmosphere.OpticalDepth(alt-BlockHalfWidth, alt+BlockHalfWidth, gas.PPM, coefs)
		if err != nil {
			return fmt.Errorf("optical depth integration failed for %s at %g m: %w", gas.Name, alt, err)
		}

		samples := make([]Sample, len(waveNos))
		for i := range waveNos {
			samples[i] = Sample{
				Altitude:     alt,
				WaveNo:       waveNos[i],
				OpticalDepth: depths[i],
				AbsCoef:      coefs[i],
			}
		}
		if err := db.InsertSamples(ctx, gas.ID, samples); err != nil {
			return err
		}
		if verbose {
			log.Printf("Populated %s at %g m (%d lines)", gas.Name, alt, len(samples))
		}
	}
	return nil
}

// Populate runs PopulateGas for every gas in order.
func (db *DB) Populate(ctx context.Context, provider CoefficientProvider, gases []Gas, altitudes []float64, verbose bool) error {
	for _, gas := range gases {
		if verbose {
			log.Printf("Populating %s", gas.Name)
		}
		if err := db.PopulateGas(ctx, provider, gas, altitudes, verbose); err != nil {
			return err
		}
	}
	return nil
}
