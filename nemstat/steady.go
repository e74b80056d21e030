/*
 * steady.go, part of aLENS-analysis.
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

package nemstat

import (
	"math"

	nematic "github.com/flatironinstitute/aLENS-analysis"
	"gonum.org/v1/gonum/stat"
)

// SteadyStateIndex returns the first index at which x reaches the average of
// the window x[from:to] within one (population) standard deviation. A series that
// starts below the average has to rise to avg-std, one that starts above it
// has to fall to avg+std. A to of 0 or less means len(x).
func SteadyStateIndex(x []float64, from, to int) (int, error) {
	if to <= 0 {
		to = len(x)
	}
	if from < 0 || from >= to || to > len(x) {
		return 0, nematic.NewError(nematic.ErrMalformedInput, "SteadyStateIndex", "invalid window [%d:%d) for %d points", from, to, len(x))
	}
	avg, variance := stat.PopMeanVariance(x[from:to], nil)
	std := math.Sqrt(variance)
	rising := avg > x[0]
	for i, v := range x {
		if (rising && v >= avg-std) || (!rising && v <= avg+std) {
			return i, nil
		}
	}
	return 0, nematic.NewError(nematic.ErrDegenerate, "SteadyStateIndex", "the series never reaches %g +/- %g", avg, std)
}

// ContiguousRegions returns the [start, end) index pairs of the runs of
// true values in cond.
func ContiguousRegions(cond []bool) [][2]int {
	var ret [][2]int
	start := -1
	for i, c := range cond {
		switch {
		case c && start < 0:
			start = i
		case !c && start >= 0:
			ret = append(ret, [2]int{start, i})
			start = -1
		}
	}
	if start >= 0 {
		ret = append(ret, [2]int{start, len(cond)})
	}
	return ret
}

// Gradient returns the derivative of x sampled every delta, with central
// differences inside and one-sided differences at the ends.
func Gradient(x []float64, delta float64) []float64 {
	n := len(x)
	ret := make([]float64, n)
	if n < 2 {
		return ret
	}
	ret[0] = (x[1] - x[0]) / delta
	ret[n-1] = (x[n-1] - x[n-2]) / delta
	for i := 1; i < n-1; i++ {
		ret[i] = (x[i+1] - x[i-1]) / (2 * delta)
	}
	return ret
}

// Intervals describes the intervals in which a series grows.
type Intervals struct {
	Deriv    []float64
	Regions  [][2]int  //[start, end) of each run of positive derivative
	Positive []float64 //length of each region
	Negative []float64 //length of the gaps between consecutive regions
}

// GrowthIntervals finds the runs of positive derivative in x, sampled every delta.
func GrowthIntervals(x []float64, delta float64) Intervals {
	var in Intervals
	in.Deriv = Gradient(x, delta)
	pos := make([]bool, len(x))
	for i, d := range in.Deriv {
		pos[i] = d > 0
	}
	in.Regions = ContiguousRegions(pos)
	for i, r := range in.Regions {
		in.Positive = append(in.Positive, float64(r[1]-r[0]))
		if i > 0 {
			in.Negative = append(in.Negative, float64(r[0]-in.Regions[i-1][1]))
		}
	}
	return in
}
