package atmosphere

import (
	"fmt"

	"gonum.org/v1/gonum/integrate/quad"
)

// quadNodes is the Gauss-Legendre node count for the column integral. A 1 km
// atmospheric block is smooth at this scale, so a fixed rule is plenty.
const quadNodes = 64

// NumberDensity returns air molecules per m^3 at the given altitude,
// assuming ideal gas.
func NumberDensity(alt float64) (float64, error) {
	rho, err := Density(alt)
	if err != nil {
		return 0, err
	}
	return rho * avogadro / airMolarMass, nil
}

// ColumnDensity integrates NumberDensity between two altitudes, giving
// molecules per m^2 along a vertical path.
func ColumnDensity(alt0, alt1 float64) (float64, error) {
	if alt0 < 0 || alt1 >= MaxAltitude || alt1 < alt0 {
		return 0, fmt.Errorf("invalid column [%g, %g] m", alt0, alt1)
	}
	n := quad.Fixed(func(alt float64) float64 {
		nd, err := NumberDensity(alt)
		if err != nil {
			return 0
		}
		return nd
	}, alt0, alt1, quadNodes, nil, 0)
	return n, nil
}

// OpticalDepth converts per-molecule absorption coefficients (cm^2/molecule)
// into the dimensionless optical depth of the gas between two altitudes, at
// the given mixing ratio in ppm. The 1e-4 factor converts the coefficient
// cross-section from cm^2 to m^2.
func OpticalDepth(alt0, alt1, ppm float64, coefs []float64) ([]float64, error) {
	column, err := ColumnDensity(alt0, alt1)
	if err != nil {
		return nil, err
	}
	particles := column * ppm * 1e-6
	out := make([]float64, len(coefs))
	for i, c := range coefs {
		out[i] = particles * c * 1e-4
	}
	return out, nil
}
