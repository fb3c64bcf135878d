// Package atmosphere implements the International Standard Atmosphere 1976
// temperature, pressure and density profiles, plus the column-density
// integrals used to turn absorption coefficients into optical depths.
//
// All altitudes are geometric meters above sea level. The table tops out at
// 84852 m; queries above that are out of domain and return an error.
package atmosphere

import (
	"fmt"
	"math"
)

// MaxAltitude is the ceiling of the 1976 ISA table in meters.
const MaxAltitude = 84852.0

const (
	gasConstant  = 8.3144598  // J/(mol K)
	gravity      = 9.80665    // m/s^2
	airMolarMass = 0.0289644  // kg/mol
	avogadro     = 6.02214076e23
)

// isaLayer is one band of the piecewise barometric model.
type isaLayer struct {
	baseAlt     float64 // m
	baseTemp    float64 // K
	baseDensity float64 // kg/m^3
	lapseRate   float64 // K/m, 0 for isothermal bands
}

// Layer bases per the 1976 standard (barometric formula tables).
var isaLayers = []isaLayer{
	{0, 288.15, 1.225, -0.0065},
	{11000, 216.65, 0.36391, 0},
	{20000, 216.65, 0.08803, 0.001},
	{32000, 228.65, 0.01322, 0.0028},
	{47000, 270.65, 0.00143, 0},
	{51000, 270.65, 0.00086, -0.0028},
	{71000, 214.65, 0.000064, -0.002},
}

func layerFor(alt float64) (isaLayer, error) {
	if alt < 0 || alt >= MaxAltitude {
		return isaLayer{}, fmt.Errorf("altitude %g m outside ISA domain [0, %g)", alt, MaxAltitude)
	}
	band := isaLayers[0]
	for _, l := range isaLayers {
		if alt < l.baseAlt {
			break
		}
		band = l
	}
	return band, nil
}

// Temperature returns the ISA temperature in Kelvin at the given altitude.
func Temperature(alt float64) (float64, error) {
	l, err := layerFor(alt)
	if err != nil {
		return 0, err
	}
	return l.baseTemp + l.lapseRate*(alt-l.baseAlt), nil
}

// TemperatureProfile evaluates Temperature at each altitude. It fails on the
// first out-of-domain altitude.
func TemperatureProfile(alts []float64) ([]float64, error) {
	out := make([]float64, len(alts))
	for i, alt := range alts {
		t, err := Temperature(alt)
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}

// Density returns the ISA mass density in kg/m^3 at the given altitude.
func Density(alt float64) (float64, error) {
	l, err := layerFor(alt)
	if err != nil {
		return 0, err
	}
	if l.lapseRate == 0 {
		// Isothermal band: exponential falloff.
		return l.baseDensity * math.Exp(-gravity*airMolarMass*(alt-l.baseAlt)/(gasConstant*l.baseTemp)), nil
	}
	t := l.baseTemp + l.lapseRate*(alt-l.baseAlt)
	exponent := 1 + gravity*airMolarMass/(gasConstant*l.lapseRate)
	return l.baseDensity * math.Pow(l.baseTemp/t, exponent), nil
}

// Pressure returns the ISA pressure in Pa at the given altitude, from the
// ideal gas law applied to Density and Temperature.
func Pressure(alt float64) (float64, error) {
	rho, err := Density(alt)
	if err != nil {
		return 0, err
	}
	t, err := Temperature(alt)
	if err != nil {
		return 0, err
	}
	return rho * gasConstant * t / airMolarMass, nil
}

// PressureRatio returns pressure at alt relative to sea level, the form the
// external absorption-coefficient computation expects.
func PressureRatio(alt float64) (float64, error) {
	p, err := Pressure(alt)
	if err != nil {
		return 0, err
	}
	p0, err := Pressure(0)
	if err != nil {
		return 0, err
	}
	return p / p0, nil
}
