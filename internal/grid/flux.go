package grid

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/clearsky-data/radiance.report/internal/planck"
)

// FluxOptions selects between the two supported surface-attenuation models.
type FluxOptions struct {
	// CumulativeSurfaceTransmission switches the surface term to a running
	// product of per-layer transmissions, so the surface flux reaching layer
	// i is ground * prod(transmission[0..i]).
	//
	// The default (false) keeps the in-place self-squaring of the surface
	// term during the layer walk. That update has no clear physical
	// derivation, but existing result tables were produced with it, so it
	// stays the default.
	CumulativeSurfaceTransmission bool
}

// FluxField is the propagated result: total upward spectral flux per layer,
// aligned to the grid's axis and layer order.
type FluxField struct {
	Altitudes []float64
	WaveNos   []int
	Total     Field // [layer][bin], W m^-2 (cm^-1)^-1
}

// FluxUp computes total upward spectral flux at every layer: surface emission
// attenuated on its way up, plus each layer's own thermal emission
// accumulated over all layers below. The layer walk is order-dependent, so
// the grid is integrity-checked before any accumulation starts.
func (ag *AtmosphereGrid) FluxUp(opts FluxOptions) (*FluxField, error) {
	if err := ag.checkIntegrity(); err != nil {
		return nil, err
	}

	waveNos := ag.Axis.Wavenumbers()
	groundFlux, err := planck.FluxRow(waveNos, ag.SurfaceTemp)
	if err != nil {
		return nil, fmt.Errorf("%w: ground flux: %v", ErrDataIntegrity, err)
	}

	n := len(ag.Altitudes)
	bins := ag.Axis.Len()

	// Per-layer transmission: the fraction exp(-tau) of incident flux each
	// layer passes; the rest is absorbed and re-emitted at the layer's own
	// temperature (LTE).
	transmission := zeroField(n, bins)
	for i, row := range ag.OpticalDepth {
		for j, od := range row {
			transmission[i][j] = math.Exp(-od)
		}
	}

	// fluxSurf[i] = surface emission as attenuated at layer i.
	// fluxLayer[i] = layer i's own emission after its transmission factor.
	fluxSurf := zeroField(n, bins)
	fluxLayer := zeroField(n, bins)
	for i := 0; i < n; i++ {
		floats.MulTo(fluxSurf[i], transmission[i], groundFlux)
		floats.MulTo(fluxLayer[i], transmission[i], ag.Blackbody[i])
	}

	if opts.CumulativeSurfaceTransmission {
		// Corrected model: attenuate the ground flux by the product of all
		// transmissions up to and including each layer.
		running := make([]float64, bins)
		copy(running, groundFlux)
		for i := 0; i < n; i++ {
			floats.Mul(running, transmission[i])
			copy(fluxSurf[i], running)
		}
	}

	// Walk layers surface-upward, accumulating every lower layer's emission
	// into the running total. In the default model the surface term at the
	// previous layer is squared in place on each step.
	for i := 1; i < n; i++ {
		floats.Add(fluxLayer[i], fluxLayer[i-1])
		if !opts.CumulativeSurfaceTransmission {
			floats.Mul(fluxSurf[i-1], fluxSurf[i-1])
		}
	}

	total := zeroField(n, bins)
	for i := 0; i < n; i++ {
		floats.AddTo(total[i], fluxSurf[i], fluxLayer[i])
	}

	return &FluxField{
		Altitudes: ag.Altitudes,
		WaveNos:   waveNos,
		Total:     total,
	}, nil
}

// checkIntegrity validates the preconditions of the flux walk. A grid that
// fails any of these cannot produce a meaningful partial result.
func (ag *AtmosphereGrid) checkIntegrity() error {
	n := len(ag.Altitudes)
	if n == 0 {
		return fmt.Errorf("%w: grid has no altitude layers", ErrDataIntegrity)
	}
	if len(ag.OpticalDepth) != n || len(ag.Blackbody) != n {
		return fmt.Errorf("%w: field layer counts (od=%d, blackbody=%d) do not match %d altitudes",
			ErrDataIntegrity, len(ag.OpticalDepth), len(ag.Blackbody), n)
	}

	for i := 1; i < n; i++ {
		if ag.Altitudes[i] <= ag.Altitudes[i-1] {
			return fmt.Errorf("%w: altitude layers not strictly ascending at index %d (%g after %g)",
				ErrDataIntegrity, i, ag.Altitudes[i], ag.Altitudes[i-1])
		}
	}

	bins := ag.Axis.Len()
	for i := 0; i < n; i++ {
		if len(ag.OpticalDepth[i]) != bins || len(ag.Blackbody[i]) != bins {
			return fmt.Errorf("%w: row %d length (od=%d, blackbody=%d) does not match axis length %d",
				ErrDataIntegrity, i, len(ag.OpticalDepth[i]), len(ag.Blackbody[i]), bins)
		}
		for j, od := range ag.OpticalDepth[i] {
			if math.IsNaN(od) {
				return fmt.Errorf("%w: NaN optical depth at layer %g m, wavenumber %d",
					ErrDataIntegrity, ag.Altitudes[i], ag.Axis.Min+j)
			}
			if od < 0 {
				return fmt.Errorf("%w: negative optical depth %g at layer %g m, wavenumber %d",
					ErrDataIntegrity, od, ag.Altitudes[i], ag.Axis.Min+j)
			}
		}
	}
	return nil
}
