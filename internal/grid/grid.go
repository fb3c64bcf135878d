// Package grid assembles the altitude-by-wavenumber radiative-transfer grid
// and propagates thermal flux through it.
//
// An AtmosphereGrid is built once from the spectral store for a fixed
// (altitude range, wavenumber range, gas set) and is read-only afterwards;
// recomputing means building a new instance. The store connection is only
// used during Build.
package grid

import (
	"context"
	"fmt"
	"log"
	"sort"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"

	"github.com/clearsky-data/radiance.report/internal/atmosphere"
	"github.com/clearsky-data/radiance.report/internal/db"
	"github.com/clearsky-data/radiance.report/internal/planck"
	"github.com/clearsky-data/radiance.report/internal/spectral"
)

// Source is the read-only view of the spectral store the grid needs at
// construction time. *db.DB satisfies it.
type Source interface {
	GasID(ctx context.Context, name string) (int64, error)
	SamplesForGas(ctx context.Context, gasID int64, altMin, altMax, waveMin, waveMax float64) ([]db.Sample, error)
	DistinctAltitudes(ctx context.Context) ([]float64, error)
}

// Config holds the grid construction parameters.
type Config struct {
	// AltMin and AltMax bound the altitude window in meters. The interval is
	// open: stored altitudes equal to either bound are excluded.
	AltMin float64
	AltMax float64

	// WaveNoMin and WaveNoMax bound the wavenumber window in cm^-1. The
	// interval is closed, with a fixed 1 cm^-1 resolution.
	WaveNoMin int
	WaveNoMax int

	// Gases are the store gas names to superpose, in summation order.
	Gases []string

	// Workers caps parallel per-gas resampling. Zero or negative means one
	// worker per gas.
	Workers int

	// Verbose gates progress logging only; it has no behavioral effect.
	Verbose bool
}

// Field is a per-layer, per-wavenumber-bin value grid. Rows are layers in
// ascending altitude order; every row is aligned to the grid's Axis.
type Field [][]float64

// AtmosphereGrid is the assembled read-only grid.
type AtmosphereGrid struct {
	Config    Config
	Axis      spectral.Axis
	Altitudes []float64 // layer midpoints, strictly ascending

	// OpticalDepth holds the per-cell total optical depth, summed over the
	// configured gases (Beer-Lambert superposition of independent
	// absorbers).
	OpticalDepth Field

	// Blackbody holds per-cell hemispheric Planck flux at each layer's ISA
	// temperature.
	Blackbody Field

	// SurfaceTemp is the ISA temperature at AltMin, used as the emitting
	// ground temperature.
	SurfaceTemp float64
}

// Build constructs the grid: it selects the altitude layers, fetches and
// resamples every gas onto the shared axis, sums the per-gas optical depths,
// and evaluates the blackbody field.
func Build(ctx context.Context, src Source, cfg Config) (*AtmosphereGrid, error) {
	axis, err := spectral.NewAxis(cfg.WaveNoMin, cfg.WaveNoMax)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	if cfg.AltMax <= cfg.AltMin {
		return nil, fmt.Errorf("%w: empty altitude range [%g, %g]", ErrConfiguration, cfg.AltMin, cfg.AltMax)
	}
	if len(cfg.Gases) == 0 {
		return nil, fmt.Errorf("%w: no gases requested", ErrConfiguration)
	}

	layers, err := selectLayers(ctx, src, cfg.AltMin, cfg.AltMax)
	if err != nil {
		return nil, err
	}

	// Resolve every gas before doing any heavy work, so a misconfigured gas
	// list fails fast.
	gasIDs := make([]int64, len(cfg.Gases))
	for i, name := range cfg.Gases {
		id, err := src.GasID(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
		}
		gasIDs[i] = id
	}

	perGas := make([]Field, len(cfg.Gases))
	g, gctx := errgroup.WithContext(ctx)
	if cfg.Workers > 0 {
		g.SetLimit(cfg.Workers)
	}
	for i := range cfg.Gases {
		i := i
		g.Go(func() error {
			if cfg.Verbose {
				log.Printf("Loading %s from spectral store", cfg.Gases[i])
			}
			field, err := resampleGas(gctx, src, cfg.Gases[i], gasIDs[i], cfg, layers, axis)
			if err != nil {
				return err
			}
			perGas[i] = field
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Reduce serially in configured gas order so float summation order, and
	// therefore the result, is deterministic.
	total := zeroField(len(layers), axis.Len())
	for _, field := range perGas {
		for row := range total {
			floats.Add(total[row], field[row])
		}
	}

	blackbody, err := blackbodyField(layers, axis)
	if err != nil {
		return nil, err
	}

	surfaceTemp, err := atmosphere.Temperature(cfg.AltMin)
	if err != nil {
		return nil, fmt.Errorf("%w: surface temperature: %v", ErrConfiguration, err)
	}

	return &AtmosphereGrid{
		Config:       cfg,
		Axis:         axis,
		Altitudes:    layers,
		OpticalDepth: total,
		Blackbody:    blackbody,
		SurfaceTemp:  surfaceTemp,
	}, nil
}

// selectLayers returns the stored altitudes strictly inside (altMin, altMax),
// ascending. The store already orders its altitudes, but the flux walk
// depends on layer order, so ascending order is enforced here rather than
// trusted.
func selectLayers(ctx context.Context, src Source, altMin, altMax float64) ([]float64, error) {
	alts, err := src.DistinctAltitudes(ctx)
	if err != nil {
		return nil, err
	}

	var layers []float64
	for _, alt := range alts {
		if alt > altMin && alt < altMax {
			layers = append(layers, alt)
		}
	}
	if len(layers) == 0 {
		return nil, fmt.Errorf("%w: no stored altitudes strictly inside (%g, %g)", ErrConfiguration, altMin, altMax)
	}

	sort.Float64s(layers)
	for i := 1; i < len(layers); i++ {
		if layers[i] == layers[i-1] {
			return nil, fmt.Errorf("%w: duplicate altitude layer %g", ErrDataIntegrity, layers[i])
		}
	}
	return layers, nil
}

// resampleGas fetches one gas's raw samples over the window and produces its
// per-layer optical-depth field aligned to the axis.
func resampleGas(ctx context.Context, src Source, name string, gasID int64, cfg Config, layers []float64, axis spectral.Axis) (Field, error) {
	samples, err := src.SamplesForGas(ctx, gasID,
		cfg.AltMin, cfg.AltMax,
		float64(cfg.WaveNoMin), float64(cfg.WaveNoMax))
	if err != nil {
		return nil, err
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("%w: gas %s has no samples in the requested window", ErrConfiguration, name)
	}

	// Group raw samples by stored altitude. Samples on the open-interval
	// boundary arrive here (the store query is closed) and simply have no
	// matching layer.
	byAlt := make(map[float64][]db.Sample)
	for _, s := range samples {
		byAlt[s.Altitude] = append(byAlt[s.Altitude], s)
	}

	field := make(Field, len(layers))
	missing := 0
	for i, alt := range layers {
		raw := byAlt[alt]
		waveNos := make([]float64, len(raw))
		depths := make([]float64, len(raw))
		for j, s := range raw {
			waveNos[j] = s.WaveNo
			depths[j] = s.OpticalDepth
		}
		row, filled, err := spectral.Resample(waveNos, depths, axis)
		if err != nil {
			return nil, fmt.Errorf("resampling %s at %g m: %w", name, alt, err)
		}
		field[i] = row
		missing += filled
	}
	if missing > 0 {
		// Zero absorption for bins with no measured lines; expected for
		// narrow absorbers, so warn rather than fail.
		log.Printf("Warning: %s: %d empty wavenumber bins zero-filled across %d layers", name, missing, len(layers))
	}
	return field, nil
}

// blackbodyField evaluates hemispheric Planck flux per layer across the axis
// at each layer's ISA temperature.
func blackbodyField(layers []float64, axis spectral.Axis) (Field, error) {
	temps, err := atmosphere.TemperatureProfile(layers)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	waveNos := axis.Wavenumbers()
	field := make(Field, len(layers))
	for i, temp := range temps {
		row, err := planck.FluxRow(waveNos, temp)
		if err != nil {
			return nil, fmt.Errorf("%w: blackbody at %g m: %v", ErrConfiguration, layers[i], err)
		}
		field[i] = row
	}
	return field, nil
}

func zeroField(layers, bins int) Field {
	field := make(Field, layers)
	for i := range field {
		field[i] = make([]float64, bins)
	}
	return field
}
