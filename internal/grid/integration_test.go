package grid

import (
	"context"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/clearsky-data/radiance.report/internal/db"
)

// setupStore builds a real SQLite store with two gases over three altitude
// blocks, exercising the same query path the CLI uses.
func setupStore(t *testing.T) *db.DB {
	t.Helper()

	store, err := db.NewDB(filepath.Join(t.TempDir(), "integration.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	ctx := context.Background()
	require.NoError(t, store.AddGas(ctx, db.Gas{ID: 2, Name: "CO2", PPM: 411}))
	require.NoError(t, store.AddGas(ctx, db.Gas{ID: 6, Name: "CH4", PPM: 1.893}))

	for _, alt := range []float64{500, 1500, 2500} {
		var co2, ch4 []db.Sample
		for waveNo := 660; waveNo <= 680; waveNo++ {
			// Irregular line positions around each integer bin.
			co2 = append(co2, db.Sample{
				Altitude: alt, WaveNo: float64(waveNo) + 0.2, OpticalDepth: 0.4,
			})
			ch4 = append(ch4, db.Sample{
				Altitude: alt, WaveNo: float64(waveNo) - 0.3, OpticalDepth: 0.1,
			})
		}
		require.NoError(t, store.InsertSamples(ctx, 2, co2))
		require.NoError(t, store.InsertSamples(ctx, 6, ch4))
	}
	return store
}

func TestBuildFromSQLiteStore(t *testing.T) {
	store := setupStore(t)

	ag, err := Build(context.Background(), store, Config{
		AltMin: 0, AltMax: 10000,
		WaveNoMin: 660, WaveNoMax: 680,
		Gases: []string{"CO2", "CH4"},
	})
	require.NoError(t, err)

	require.Equal(t, []float64{500, 1500, 2500}, ag.Altitudes)
	require.Equal(t, 21, ag.Axis.Len())

	// Every interior cell carries both gases: 0.4 + 0.1.
	for i := range ag.OpticalDepth {
		for j := 1; j < ag.Axis.Len()-1; j++ {
			require.InDeltaf(t, 0.5, ag.OpticalDepth[i][j], 1e-9,
				"cell [%d][%d]", i, j)
		}
	}
}

func TestFluxUpFromSQLiteStore(t *testing.T) {
	store := setupStore(t)

	ag, err := Build(context.Background(), store, Config{
		AltMin: 0, AltMax: 10000,
		WaveNoMin: 660, WaveNoMax: 680,
		Gases: []string{"CO2", "CH4"},
	})
	require.NoError(t, err)

	flux, err := ag.FluxUp(FluxOptions{})
	require.NoError(t, err)

	require.Len(t, flux.Total, len(ag.Altitudes))
	for i := range flux.Total {
		require.Len(t, flux.Total[i], ag.Axis.Len())
		for j, v := range flux.Total[i] {
			require.Falsef(t, math.IsNaN(v), "NaN flux at [%d][%d]", i, j)
			require.GreaterOrEqualf(t, v, 0.0, "negative flux at [%d][%d]", i, j)
		}
	}
}

func TestBuildFromSQLiteStore_OpenIntervalAgainstStoredBoundary(t *testing.T) {
	store := setupStore(t)

	// 500 sits exactly on the boundary: it must drop out of the layer set.
	ag, err := Build(context.Background(), store, Config{
		AltMin: 500, AltMax: 10000,
		WaveNoMin: 660, WaveNoMax: 680,
		Gases: []string{"CO2", "CH4"},
	})
	require.NoError(t, err)
	require.Equal(t, []float64{1500, 2500}, ag.Altitudes)
}
