/*
 * grid.go, part of aLENS-analysis.
 *
 * Copyright 2024 The aLENS-analysis authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package sfactor

import (
	"math"

	nematic "github.com/flatironinstitute/aLENS-analysis"
	v3 "github.com/flatironinstitute/aLENS-analysis/v3"
	"gonum.org/v1/gonum/floats"
)

// Linear returns n wavevector magnitudes evenly spaced in [kmin, kmax].
func Linear(kmin, kmax float64, n int) ([]float64, error) {
	if n < 1 {
		return nil, nematic.NewError(nematic.ErrDegenerate, "Linear", "need at least one wavevector, got %d", n)
	}
	if math.IsNaN(kmin) || math.IsNaN(kmax) || math.IsInf(kmin, 0) || math.IsInf(kmax, 0) || kmin < 0 || kmax < kmin {
		return nil, nematic.NewError(nematic.ErrMalformedInput, "Linear", "invalid wavevector range [%g, %g]", kmin, kmax)
	}
	if n == 1 {
		return []float64{kmin}, nil
	}
	return floats.Span(make([]float64, n), kmin, kmax), nil
}

// Commensurate returns the n smallest non-zero magnitudes commensurate with the
// shortest box length L, 2πm/L for m = 1..n.
func Commensurate(box nematic.Box, n int) ([]float64, error) {
	if err := box.Check(); err != nil {
		return nil, nematic.Decorate(err, "Commensurate")
	}
	if n < 1 {
		return nil, nematic.NewError(nematic.ErrDegenerate, "Commensurate", "need at least one wavevector, got %d", n)
	}
	dk := 2 * math.Pi / box.MinExtent()
	ret := make([]float64, n)
	for m := range ret {
		ret[m] = dk * float64(m+1)
	}
	return ret, nil
}

// Sweep returns the wavevectors with the given magnitudes along a cartesian axis
// (0, 1 or 2). It returns nil for an empty mags, which the engine reports as a degeneracy.
// It panics for an invalid axis.
func Sweep(mags []float64, axis int) *v3.Matrix {
	if axis < 0 || axis > 2 {
		panic(v3.ErrIndexOutOfRange)
	}
	if len(mags) == 0 {
		return nil
	}
	k := v3.Zeros(len(mags))
	for i, m := range mags {
		k.Set(i, axis, m)
	}
	return k
}

// AxisSweeps returns the sweeps of mags along x, y and z.
func AxisSweeps(mags []float64) [3]*v3.Matrix {
	return [3]*v3.Matrix{Sweep(mags, 0), Sweep(mags, 1), Sweep(mags, 2)}
}
