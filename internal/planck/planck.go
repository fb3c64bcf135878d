// Package planck evaluates the Planck blackbody law in the wavenumber and
// wavelength domains, in the centimeter-based units the grid engine works in.
//
// Flux forms integrate radiance over the hemisphere (a factor of pi), giving
// W m^-2 (cm^-1)^-1 on a wavenumber axis with 1 cm^-1 bins, so no bin-width
// multiplication is needed downstream. Valid domain is temperature > 0 K and
// wavenumber/wavelength > 0; zero arguments would divide by zero in the
// exponential term.
package planck

import (
	"fmt"
	"math"
)

// CODATA 2018 exact values.
const (
	planckConstant = 6.62607015e-34 // J s
	lightSpeed     = 2.99792458e8   // m/s
	boltzmann      = 1.380649e-23   // J/K
)

// Wavenumbers arrive in cm^-1 and are scaled by 100 to m^-1; the leading
// constant absorbs the inverse square of that scale, and the trailing 1e6
// converts the result to per-cm^-1 spectral density.
const (
	c1 = 2 * planckConstant * lightSpeed * lightSpeed / 1e4
	c2 = planckConstant * lightSpeed / boltzmann
)

func checkDomain(x, tempK float64, what string) error {
	if tempK <= 0 {
		return fmt.Errorf("temperature %g K outside Planck domain (> 0)", tempK)
	}
	if x <= 0 {
		return fmt.Errorf("%s %g outside Planck domain (> 0)", what, x)
	}
	return nil
}

// Radiance returns spectral radiance at the given wavenumber (cm^-1) and
// temperature (K), in W m^-2 (cm^-1)^-1 sr^-1.
func Radiance(waveNo, tempK float64) (float64, error) {
	if err := checkDomain(waveNo, tempK, "wavenumber"); err != nil {
		return 0, err
	}
	return radiance(waveNo, tempK), nil
}

// Flux returns hemispheric spectral flux at the given wavenumber (cm^-1) and
// temperature (K), in W m^-2 (cm^-1)^-1.
func Flux(waveNo, tempK float64) (float64, error) {
	r, err := Radiance(waveNo, tempK)
	if err != nil {
		return 0, err
	}
	return math.Pi * r, nil
}

func radiance(waveNo, tempK float64) float64 {
	nu := waveNo * 100 // cm^-1 -> m^-1
	return c1 * nu * nu * nu / (math.Exp(c2*nu/tempK) - 1) * 1e6
}

// FluxRow evaluates Flux at one temperature across ascending integer
// wavenumbers, validating the domain once up front.
func FluxRow(waveNos []int, tempK float64) ([]float64, error) {
	if tempK <= 0 {
		return nil, fmt.Errorf("temperature %g K outside Planck domain (> 0)", tempK)
	}
	if len(waveNos) > 0 && waveNos[0] <= 0 {
		return nil, fmt.Errorf("wavenumber %d outside Planck domain (> 0)", waveNos[0])
	}
	out := make([]float64, len(waveNos))
	for i, w := range waveNos {
		out[i] = math.Pi * radiance(float64(w), tempK)
	}
	return out, nil
}

// RadianceWavelength returns spectral radiance as a function of wavelength in
// cm, in W m^-2 cm^-1 sr^-1. Kept for diagnostics; the grid works in
// wavenumber space.
func RadianceWavelength(wavelengthCM, tempK float64) (float64, error) {
	if err := checkDomain(wavelengthCM, tempK, "wavelength"); err != nil {
		return 0, err
	}
	wl := wavelengthCM / 100 // cm -> m
	const k = 1.0 / 100
	num := 2 * planckConstant * lightSpeed * lightSpeed * k
	return num / math.Pow(wl, 5) / (math.Exp(c2/(wl*tempK)) - 1), nil
}

// FluxWavelength is the hemispheric form of RadianceWavelength.
func FluxWavelength(wavelengthCM, tempK float64) (float64, error) {
	r, err := RadianceWavelength(wavelengthCM, tempK)
	if err != nil {
		return 0, err
	}
	return math.Pi * r, nil
}
