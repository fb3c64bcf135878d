package spectral

import (
	"fmt"
	"math"
	"sort"
)

// BinMeans rounds each wavenumber to the nearest integer bin (ties away from
// zero) and averages all values landing in the same bin. Returned keys are
// ascending; values[i] is the mean for keys[i].
//
// Collisions are expected: line lists are irregular and several samples
// usually round into one 1 cm^-1 bin. Averaging, not summing, keeps the bin
// value an optical depth rather than a line count artefact.
func BinMeans(waveNos, values []float64) ([]int, []float64, error) {
	if len(waveNos) != len(values) {
		return nil, nil, fmt.Errorf("wavenumber/value length mismatch: %d vs %d", len(waveNos), len(values))
	}

	sums := make(map[int]float64, len(waveNos))
	counts := make(map[int]int, len(waveNos))
	for i, w := range waveNos {
		bin := int(math.Round(w))
		sums[bin] += values[i]
		counts[bin]++
	}

	keys := make([]int, 0, len(sums))
	for k := range sums {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	means := make([]float64, len(keys))
	for i, k := range keys {
		means[i] = sums[k] / float64(counts[k])
	}
	return keys, means, nil
}

// CoerceToAxis aligns a sorted (key, value) pair list onto the target axis.
// Axis bins with no source key are zero-filled; source keys off the axis are
// dropped. The returned slice has exactly axis.Len() entries in ascending
// wavenumber order. filled reports how many bins were zero-filled, so callers
// can log missing-sample coverage.
func CoerceToAxis(keys []int, values []float64, axis Axis) (row []float64, filled int, err error) {
	if len(keys) != len(values) {
		return nil, 0, fmt.Errorf("key/value length mismatch: %d vs %d", len(keys), len(values))
	}

	row = make([]float64, axis.Len())
	present := make([]bool, axis.Len())
	for i, k := range keys {
		if idx, ok := axis.Index(k); ok {
			row[idx] = values[i]
			present[idx] = true
		}
	}
	for _, p := range present {
		if !p {
			filled++
		}
	}
	return row, filled, nil
}

// Resample bins raw (wavenumber, opticalDepth) samples and coerces the result
// onto the axis. Empty input is not an error: an altitude/gas pair with no
// measured lines in the window yields an all-zero row.
func Resample(waveNos, values []float64, axis Axis) ([]float64, int, error) {
	keys, means, err := BinMeans(waveNos, values)
	if err != nil {
		return nil, 0, err
	}
	return CoerceToAxis(keys, means, axis)
}
