package db

import (
	"context"
	"fmt"
)

// Sample is one stored optical-depth record for a single gas. AbsCoef is the
// per-molecule absorption cross-section the depth was derived from; the grid
// engine ignores it but the populate path stores it for re-derivation.
type Sample struct {
	Altitude     float64
	WaveNo       float64
	OpticalDepth float64
	AbsCoef      float64
}

// SamplesForGas fetches all samples for one gas with altitude in
// [altMin, altMax] and wavenumber in [waveMin, waveMax] (closed intervals,
// SQL BETWEEN semantics), ordered by altitude then wavenumber.
//
// The caller applies its own open-interval altitude selection on top of
// this; the query window is deliberately the wider closed one so boundary
// handling lives in one place.
func (db *DB) SamplesForGas(ctx context.Context, gasID int64, altMin, altMax, waveMin, waveMax float64) ([]Sample, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT altitude, wave_no, optical_depth, abs_coef FROM optical_depths
		WHERE (wave_no BETWEEN ? AND ?)
		  AND (altitude BETWEEN ? AND ?)
		  AND (mol_id = ?)
		ORDER BY altitude, wave_no`,
		waveMin, waveMax, altMin, altMax, gasID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query samples for gas %d: %w", gasID, err)
	}
	defer rows.Close()

	var samples []Sample
	for rows.Next() {
		var s Sample
		if err := rows.Scan(&s.Altitude, &s.WaveNo, &s.OpticalDepth, &s.AbsCoef); err != nil {
			return nil, fmt.Errorf("failed to scan sample row: %w", err)
		}
		samples = append(samples, s)
	}
	return samples, rows.Err()
}

// DistinctAltitudes returns every distinct altitude present in the store, in
// ascending order.
func (db *DB) DistinctAltitudes(ctx context.Context) ([]float64, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT DISTINCT altitude FROM optical_depths ORDER BY altitude`)
	if err != nil {
		return nil, fmt.Errorf("failed to query distinct altitudes: %w", err)
	}
	defer rows.Close()

	var alts []float64
	for rows.Next() {
		var alt float64
		if err := rows.Scan(&alt); err != nil {
			return nil, fmt.Errorf("failed to scan altitude row: %w", err)
		}
		alts = append(alts, alt)
	}
	return alts, rows.Err()
}

// HasSamples reports whether any optical-depth rows exist for the given gas
// and altitude. The populate path uses it to make re-runs idempotent.
func (db *DB) HasSamples(ctx context.Context, gasID int64, altitude float64) (bool, error) {
	var count int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM optical_depths WHERE mol_id = ? AND altitude = ?`,
		gasID, altitude,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to count samples: %w", err)
	}
	return count > 0, nil
}

// InsertSamples bulk-inserts optical-depth rows for one gas inside a single
// transaction.
func (db *DB) InsertSamples(ctx context.Context, gasID int64, samples []Sample) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin insert transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO optical_depths (mol_id, altitude, wave_no, optical_depth, abs_coef)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, s := range samples {
		if _, err := stmt.ExecContext(ctx, gasID, s.Altitude, s.WaveNo, s.OpticalDepth, s.AbsCoef); err != nil {
			return fmt.Errorf("failed to insert sample (gas=%d alt=%g wave_no=%g): %w",
				gasID, s.Altitude, s.WaveNo, err)
		}
	}
	return tx.Commit()
}
