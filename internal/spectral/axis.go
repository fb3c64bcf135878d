// Package spectral provides the shared wavenumber axis and the resampling
// kernel that bins irregular spectral-line samples onto it.
//
// All optical-depth and blackbody fields in the grid engine share one Axis,
// so every row produced here is aligned 1:1 with every other row.
package spectral

import "fmt"

// Axis is a closed integer wavenumber interval [Min, Max] in cm^-1 with a
// fixed step of 1 cm^-1.
type Axis struct {
	Min int
	Max int
}

// NewAxis validates the interval and returns the axis. An inverted or empty
// interval is a configuration error.
func NewAxis(min, max int) (Axis, error) {
	if max < min {
		return Axis{}, fmt.Errorf("inverted wavenumber range [%d, %d]", min, max)
	}
	return Axis{Min: min, Max: max}, nil
}

// Len returns the number of integer bins on the axis.
func (a Axis) Len() int {
	return a.Max - a.Min + 1
}

// Contains reports whether waveNo falls on the axis.
func (a Axis) Contains(waveNo int) bool {
	return waveNo >= a.Min && waveNo <= a.Max
}

// Index returns the bin index of waveNo, or false if it is off-axis.
func (a Axis) Index(waveNo int) (int, bool) {
	if !a.Contains(waveNo) {
		return 0, false
	}
	return waveNo - a.Min, true
}

// Wavenumbers materialises the axis as an ascending slice of integer
// wavenumbers.
func (a Axis) Wavenumbers() []int {
	out := make([]int, a.Len())
	for i := range out {
		out[i] = a.Min + i
	}
	return out
}
