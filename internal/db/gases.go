package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrGasNotFound is returned when a requested gas has no row in the gases
// table. Callers treat this as a configuration error: a grid cannot be built
// over a gas the store was never populated with.
var ErrGasNotFound = errors.New("gas not found in spectral store")

// Gas is one greenhouse-gas entry. ID is the HITRAN molecule number and PPM
// the mixing ratio used when its optical depths were computed.
type Gas struct {
	ID   int64
	Name string
	PPM  float64
}

// AddGas inserts a gas definition. Inserting the same molecule twice is not
// an error if the definition matches; a conflicting redefinition is.
func (db *DB) AddGas(ctx context.Context, gas Gas) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO gases (mol_id, mol_name, mol_ppm) VALUES (?, ?, ?)
		 ON CONFLICT (mol_id) DO NOTHING`,
		gas.ID, gas.Name, gas.PPM,
	)
	if err != nil {
		return fmt.Errorf("failed to add gas %s: %w", gas.Name, err)
	}

	existing, err := db.GasByID(ctx, gas.ID)
	if err != nil {
		return err
	}
	if existing.Name != gas.Name || existing.PPM != gas.PPM {
		return fmt.Errorf("gas id %d already defined as %s (%g ppm), refusing to redefine as %s (%g ppm)",
			gas.ID, existing.Name, existing.PPM, gas.Name, gas.PPM)
	}
	return nil
}

// GasID resolves a gas name to its molecule id, or ErrGasNotFound.
func (db *DB) GasID(ctx context.Context, name string) (int64, error) {
	var id int64
	err := db.QueryRowContext(ctx,
		`SELECT mol_id FROM gases WHERE mol_name = ?`, name,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w: %s", ErrGasNotFound, name)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to look up gas %s: %w", name, err)
	}
	return id, nil
}

// GasByID fetches a gas definition by molecule id.
func (db *DB) GasByID(ctx context.Context, id int64) (Gas, error) {
	var gas Gas
	err := db.QueryRowContext(ctx,
		`SELECT mol_id, mol_name, mol_ppm FROM gases WHERE mol_id = ?`, id,
	).Scan(&gas.ID, &gas.Name, &gas.PPM)
	if errors.Is(err, sql.ErrNoRows) {
		return Gas{}, fmt.Errorf("%w: id %d", ErrGasNotFound, id)
	}
	if err != nil {
		return Gas{}, fmt.Errorf("failed to look up gas id %d: %w", id, err)
	}
	return gas, nil
}

// ListGases returns all gas definitions ordered by molecule id.
func (db *DB) ListGases(ctx context.Context) ([]Gas, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT mol_id, mol_name, mol_ppm FROM gases ORDER BY mol_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list gases: %w", err)
	}
	defer rows.Close()

	var gases []Gas
	for rows.Next() {
		var gas Gas
		if err := rows.Scan(&gas.ID, &gas.Name, &gas.PPM); err != nil {
			return nil, fmt.Errorf("failed to scan gas row: %w", err)
		}
		gases = append(gases, gas)
	}
	return gases, rows.Err()
}
