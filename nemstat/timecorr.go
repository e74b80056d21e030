/*
 * timecorr.go, part of aLENS-analysis.
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

// Package nemstat contains statistics for the time series produced by
// the nematic analysis: correlation functions, steady states and
// intervals of growth.
package nemstat

import (
	"fmt"
	"math"
	"math/cmplx"

	nematic "github.com/flatironinstitute/aLENS-analysis"
	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/stat"
)

func cmplxMulConj(dst, b []complex128) {
	if len(dst) != len(b) {
		panic(fmt.Sprintf("complex conjugate multiplication of slices: Both slices should have the same len %d, %d", len(dst), len(b)))
	}
	for i, v := range b {
		dst[i] *= cmplx.Conj(v)
	}
}

// CrossCorr returns the normalized cross-correlation of the series c1 and c2
// for the lags 0 to len(c1)-1, obtained by FFT over zero-padded copies, so
// the series are not treated as periodic. Both series must have the same
// length, at least 2, and a non-zero standard deviation.
func CrossCorr(c1, c2 []float64) ([]float64, error) {
	n := len(c1)
	if n != len(c2) {
		return nil, nematic.NewError(nematic.ErrMalformedInput, "CrossCorr", "series of different lengths %d and %d", n, len(c2))
	}
	if n < 2 {
		return nil, nematic.NewError(nematic.ErrInsufficientData, "CrossCorr", "need at least 2 points, got %d", n)
	}
	c1mean, c1var := stat.PopMeanVariance(c1, nil)
	c2mean, c2var := stat.PopMeanVariance(c2, nil)
	if c1var == 0 || c2var == 0 {
		return nil, nematic.NewError(nematic.ErrDegenerate, "CrossCorr", "constant series have no correlation function")
	}
	c1pad := make([]complex128, 2*n)
	c2pad := make([]complex128, 2*n)
	for i := range c1 {
		c1pad[i] = complex(c1[i]-c1mean, 0)
		c2pad[i] = complex(c2[i]-c2mean, 0)
	}
	f := fourier.NewCmplxFFT(len(c1pad))
	f.Coefficients(c1pad, c1pad)
	f.Coefficients(c2pad, c2pad)
	//the lag is the shift of c2 with respect to c1.
	cmplxMulConj(c2pad, c1pad)
	f.Sequence(c2pad, c2pad)
	norm := float64(len(c2pad)) * math.Sqrt(c1var*c2var) * float64(n)
	ret := make([]float64, n)
	for i := range ret {
		ret[i] = real(c2pad[i]) / norm
	}
	return ret, nil
}

// AutoCorr returns the normalized autocorrelation function of x for
// the lags 0 to len(x)-1. The value at lag 0 is 1.
func AutoCorr(x []float64) ([]float64, error) {
	ret, err := CrossCorr(x, x)
	if err != nil {
		return nil, nematic.Decorate(err, "AutoCorr")
	}
	return ret, nil
}

// CorrelationTime returns the first lag, times dt, at which the correlation
// function ac drops below 1/e, and false if it never does.
func CorrelationTime(ac []float64, dt float64) (float64, bool) {
	for i, v := range ac {
		if v < 1/math.E {
			return float64(i) * dt, true
		}
	}
	return float64(len(ac)) * dt, false
}
