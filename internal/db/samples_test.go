package db

import (
	"context"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func seedSamples(t *testing.T, db *DB) {
	t.Helper()
	insertTestGas(t, db, Gas{ID: 2, Name: "CO2", PPM: 411})
	insertTestSamples(t, db, 2, []Sample{
		{Altitude: 500, WaveNo: 600.2, OpticalDepth: 1.5, AbsCoef: 1e-22},
		{Altitude: 500, WaveNo: 700.8, OpticalDepth: 0.5, AbsCoef: 2e-22},
		{Altitude: 1500, WaveNo: 650.0, OpticalDepth: 0.25, AbsCoef: 3e-23},
		{Altitude: 2500, WaveNo: 800.0, OpticalDepth: 0.1, AbsCoef: 1e-23},
	})
}

func TestSamplesForGas_ClosedWindow(t *testing.T) {
	db := setupTestDB(t)
	seedSamples(t, db)
	ctx := context.Background()

	// BETWEEN is a closed interval on both axes: boundary values stay in.
	samples, err := db.SamplesForGas(ctx, 2, 500, 1500, 600.2, 650.0)
	if err != nil {
		t.Fatalf("SamplesForGas failed: %v", err)
	}
	if len(samples) != 2 {
		t.Fatalf("len(samples) = %d, want 2", len(samples))
	}
	if samples[0].WaveNo != 600.2 || samples[1].WaveNo != 650.0 {
		t.Errorf("unexpected samples: %+v", samples)
	}
}

func TestSamplesForGas_OrderedByAltitudeThenWaveNo(t *testing.T) {
	db := setupTestDB(t)
	seedSamples(t, db)

	samples, err := db.SamplesForGas(context.Background(), 2, 0, 10000, 0, 4000)
	if err != nil {
		t.Fatalf("SamplesForGas failed: %v", err)
	}
	if len(samples) != 4 {
		t.Fatalf("len(samples) = %d, want 4", len(samples))
	}
	ordered := sort.SliceIsSorted(samples, func(i, j int) bool {
		if samples[i].Altitude != samples[j].Altitude {
			return samples[i].Altitude < samples[j].Altitude
		}
		return samples[i].WaveNo < samples[j].WaveNo
	})
	if !ordered {
		t.Errorf("samples not ordered: %+v", samples)
	}
}

func TestSamplesForGas_UnknownGasEmpty(t *testing.T) {
	db := setupTestDB(t)
	seedSamples(t, db)

	samples, err := db.SamplesForGas(context.Background(), 99, 0, 10000, 0, 4000)
	if err != nil {
		t.Fatalf("SamplesForGas failed: %v", err)
	}
	if len(samples) != 0 {
		t.Errorf("len(samples) = %d, want 0", len(samples))
	}
}

func TestDistinctAltitudes(t *testing.T) {
	db := setupTestDB(t)
	seedSamples(t, db)

	alts, err := db.DistinctAltitudes(context.Background())
	if err != nil {
		t.Fatalf("DistinctAltitudes failed: %v", err)
	}
	if diff := cmp.Diff([]float64{500, 1500, 2500}, alts); diff != "" {
		t.Errorf("altitudes mismatch (-want +got):\n%s", diff)
	}
}

func TestHasSamples(t *testing.T) {
	db := setupTestDB(t)
	seedSamples(t, db)
	ctx := context.Background()

	has, err := db.HasSamples(ctx, 2, 500)
	if err != nil {
		t.Fatalf("HasSamples failed: %v", err)
	}
	if !has {
		t.Error("HasSamples(2, 500) = false, want true")
	}

	has, err = db.HasSamples(ctx, 2, 9500)
	if err != nil {
		t.Fatalf("HasSamples failed: %v", err)
	}
	if has {
		t.Error("HasSamples(2, 9500) = true, want false")
	}
}

func TestInsertSamples_DuplicateKeyFails(t *testing.T) {
	db := setupTestDB(t)
	seedSamples(t, db)

	err := db.InsertSamples(context.Background(), 2, []Sample{
		{Altitude: 500, WaveNo: 600.2, OpticalDepth: 9, AbsCoef: 0},
	})
	if err == nil {
		t.Fatal("expected composite primary key violation")
	}
}
