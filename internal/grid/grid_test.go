package grid

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/clearsky-data/radiance.report/internal/db"
)

// fakeSource is an in-memory Source with SQL BETWEEN window semantics.
type fakeSource struct {
	gases   map[string]int64
	samples map[int64][]db.Sample
	alts    []float64
}

func (f *fakeSource) GasID(_ context.Context, name string) (int64, error) {
	id, ok := f.gases[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", db.ErrGasNotFound, name)
	}
	return id, nil
}

func (f *fakeSource) SamplesForGas(_ context.Context, gasID int64, altMin, altMax, waveMin, waveMax float64) ([]db.Sample, error) {
	var out []db.Sample
	for _, s := range f.samples[gasID] {
		if s.Altitude >= altMin && s.Altitude <= altMax && s.WaveNo >= waveMin && s.WaveNo <= waveMax {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSource) DistinctAltitudes(_ context.Context) ([]float64, error) {
	return f.alts, nil
}

// twoGasSource covers altitudes 500/1500 with constant per-bin depths over a
// small window for two gases.
func twoGasSource(t *testing.T) *fakeSource {
	t.Helper()

	src := &fakeSource{
		gases:   map[string]int64{"CO2": 2, "CH4": 6},
		samples: map[int64][]db.Sample{},
		alts:    []float64{500, 1500},
	}
	for _, alt := range src.alts {
		for waveNo := 600; waveNo <= 610; waveNo++ {
			src.samples[2] = append(src.samples[2], db.Sample{
				Altitude: alt, WaveNo: float64(waveNo), OpticalDepth: 0.5,
			})
			src.samples[6] = append(src.samples[6], db.Sample{
				Altitude: alt, WaveNo: float64(waveNo), OpticalDepth: 0.25,
			})
		}
	}
	return src
}

func baseConfig() Config {
	return Config{
		AltMin: 0, AltMax: 10000,
		WaveNoMin: 600, WaveNoMax: 610,
		Gases: []string{"CO2", "CH4"},
	}
}

func TestBuild_Superposition(t *testing.T) {
	src := twoGasSource(t)

	both, err := Build(context.Background(), src, baseConfig())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	cfgCO2 := baseConfig()
	cfgCO2.Gases = []string{"CO2"}
	co2, err := Build(context.Background(), src, cfgCO2)
	if err != nil {
		t.Fatalf("Build(CO2) failed: %v", err)
	}

	cfgCH4 := baseConfig()
	cfgCH4.Gases = []string{"CH4"}
	ch4, err := Build(context.Background(), src, cfgCH4)
	if err != nil {
		t.Fatalf("Build(CH4) failed: %v", err)
	}

	for i := range both.OpticalDepth {
		for j := range both.OpticalDepth[i] {
			want := co2.OpticalDepth[i][j] + ch4.OpticalDepth[i][j]
			got := both.OpticalDepth[i][j]
			if math.Abs(got-want) > 1e-9*math.Max(math.Abs(want), 1) {
				t.Errorf("cell [%d][%d] = %v, want %v", i, j, got, want)
			}
		}
	}
}

func TestBuild_OpenIntervalLayerSelection(t *testing.T) {
	src := twoGasSource(t)
	src.alts = []float64{0, 500, 1500, 10000}
	// Boundary altitudes carry samples too; they must still be excluded.
	for _, alt := range []float64{0, 10000} {
		src.samples[2] = append(src.samples[2], db.Sample{Altitude: alt, WaveNo: 605, OpticalDepth: 1})
		src.samples[6] = append(src.samples[6], db.Sample{Altitude: alt, WaveNo: 605, OpticalDepth: 1})
	}

	ag, err := Build(context.Background(), src, baseConfig())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if diff := cmp.Diff([]float64{500, 1500}, ag.Altitudes); diff != "" {
		t.Errorf("layer selection mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_SortsStoreAltitudes(t *testing.T) {
	src := twoGasSource(t)
	src.alts = []float64{1500, 500} // store returns descending

	ag, err := Build(context.Background(), src, baseConfig())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if diff := cmp.Diff([]float64{500, 1500}, ag.Altitudes); diff != "" {
		t.Errorf("layers not sorted ascending (-want +got):\n%s", diff)
	}
}

func TestBuild_MissingGasFatal(t *testing.T) {
	src := twoGasSource(t)
	cfg := baseConfig()
	cfg.Gases = []string{"CO2", "O3"}

	_, err := Build(context.Background(), src, cfg)
	if !errors.Is(err, ErrConfiguration) {
		t.Errorf("Build error = %v, want ErrConfiguration", err)
	}
}

func TestBuild_GasWithNoSamplesInWindowFatal(t *testing.T) {
	src := twoGasSource(t)
	cfg := baseConfig()
	// CH4 exists but far outside this wavenumber window.
	cfg.WaveNoMin, cfg.WaveNoMax = 3000, 3010
	cfg.Gases = []string{"CH4"}

	_, err := Build(context.Background(), src, cfg)
	if !errors.Is(err, ErrConfiguration) {
		t.Errorf("Build error = %v, want ErrConfiguration", err)
	}
}

func TestBuild_ConfigValidation(t *testing.T) {
	src := twoGasSource(t)
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"inverted wavenumber range", func(c *Config) { c.WaveNoMin, c.WaveNoMax = 610, 600 }},
		{"empty altitude range", func(c *Config) { c.AltMin, c.AltMax = 5000, 5000 }},
		{"inverted altitude range", func(c *Config) { c.AltMin, c.AltMax = 10000, 0 }},
		{"no gases", func(c *Config) { c.Gases = nil }},
		{"no layers inside window", func(c *Config) { c.AltMin, c.AltMax = 6000, 7000 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := baseConfig()
			tc.mutate(&cfg)
			if _, err := Build(context.Background(), src, cfg); !errors.Is(err, ErrConfiguration) {
				t.Errorf("Build error = %v, want ErrConfiguration", err)
			}
		})
	}
}

func TestBuild_ResamplesIrregularLines(t *testing.T) {
	// Two raw lines rounding into bin 605 are averaged; all other bins are
	// zero-filled.
	src := &fakeSource{
		gases: map[string]int64{"CO2": 2},
		samples: map[int64][]db.Sample{2: {
			{Altitude: 500, WaveNo: 604.6, OpticalDepth: 1.0},
			{Altitude: 500, WaveNo: 605.4, OpticalDepth: 3.0},
		}},
		alts: []float64{500},
	}
	cfg := Config{AltMin: 0, AltMax: 10000, WaveNoMin: 604, WaveNoMax: 606, Gases: []string{"CO2"}}

	ag, err := Build(context.Background(), src, cfg)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if diff := cmp.Diff(Field{{0, 2, 0}}, ag.OpticalDepth); diff != "" {
		t.Errorf("optical depth mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_ParallelMatchesSequential(t *testing.T) {
	src := twoGasSource(t)

	cfgSeq := baseConfig()
	cfgSeq.Workers = 1
	seq, err := Build(context.Background(), src, cfgSeq)
	if err != nil {
		t.Fatalf("Build(sequential) failed: %v", err)
	}

	cfgPar := baseConfig()
	cfgPar.Workers = 4
	par, err := Build(context.Background(), src, cfgPar)
	if err != nil {
		t.Fatalf("Build(parallel) failed: %v", err)
	}

	if diff := cmp.Diff(seq.OpticalDepth, par.OpticalDepth); diff != "" {
		t.Errorf("parallel build differs from sequential (-seq +par):\n%s", diff)
	}
}

func TestBuild_BlackbodyMatchesLayerTemperatures(t *testing.T) {
	src := twoGasSource(t)

	ag, err := Build(context.Background(), src, baseConfig())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(ag.Blackbody) != len(ag.Altitudes) {
		t.Fatalf("blackbody layers = %d, want %d", len(ag.Blackbody), len(ag.Altitudes))
	}
	// Lower layer is warmer in the troposphere, so its emission is larger
	// everywhere on the axis.
	for j := range ag.Blackbody[0] {
		if ag.Blackbody[0][j] <= ag.Blackbody[1][j] {
			t.Errorf("bin %d: blackbody[0]=%v not above blackbody[1]=%v",
				j, ag.Blackbody[0][j], ag.Blackbody[1][j])
		}
	}
	if ag.SurfaceTemp != 288.15 {
		t.Errorf("SurfaceTemp = %v, want 288.15", ag.SurfaceTemp)
	}
}
