/*
 * director.go, part of aLENS-analysis.
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

package nematic

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

const (
	// Eigenvalues closer than this are considered tied.
	tieTol = 1e-9
	// Director components smaller than this are treated as zero by the sign convention.
	signTol = 1e-12
)

// Order contains the scalar order parameter and the director of one order tensor.
type Order struct {
	S          float64    //scalar order parameter, 1.5 times the largest eigenvalue of Q.
	Eigenvalue float64    //largest eigenvalue of Q.
	Director   [3]float64 //unit eigenvector of the largest eigenvalue, with Director[2] >= 0.
	Tied       bool       //the two largest eigenvalues were tied, see Extract.
}

func (o Order) String() string {
	return fmt.Sprintf("S=%.4f n=[%.4f %.4f %.4f]", o.S, o.Director[0], o.Director[1], o.Director[2])
}

// This is a facility to sort Eigenvectors/Eigenvalues pairs
// It satisfies the sort.Interface interface. evecs holds one eigenvector per row.
type eigenpair struct {
	evecs [][3]float64
	evals []float64
}

func (E eigenpair) Less(i, j int) bool { return E.evals[i] < E.evals[j] }
func (E eigenpair) Swap(i, j int) {
	E.evals[i], E.evals[j] = E.evals[j], E.evals[i]
	E.evecs[i], E.evecs[j] = E.evecs[j], E.evecs[i]
}
func (E eigenpair) Len() int { return len(E.evals) }

// eigen returns the eigenpairs of the symmetric 3x3 Q sorted by ascending eigenvalue.
func eigen(Q mat.Symmetric) (eigenpair, error) {
	if r := Q.SymmetricDim(); r != 3 {
		return eigenpair{}, NewError(ErrMalformedInput, "eigen", "order tensor must be 3x3, got %dx%d", r, r)
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if v := Q.At(i, j); math.IsNaN(v) || math.IsInf(v, 0) {
				return eigenpair{}, NewError(ErrDegenerate, "eigen", "non-finite order tensor element (%d,%d)", i, j)
			}
		}
	}
	var es mat.EigenSym
	if ok := es.Factorize(Q, true); !ok {
		return eigenpair{}, NewError(ErrDegenerate, "eigen", "eigendecomposition of the order tensor failed")
	}
	var V mat.Dense
	es.VectorsTo(&V)
	E := eigenpair{evecs: make([][3]float64, 3), evals: es.Values(nil)}
	for k := 0; k < 3; k++ {
		E.evecs[k] = [3]float64{V.At(0, k), V.At(1, k), V.At(2, k)}
	}
	sort.Sort(E)
	return E, nil
}

// Extract obtains the scalar order parameter and the director of the order tensor Q
// from an exact symmetric eigendecomposition.
//
// If the two largest eigenvalues are tied (within 1e-9), the director is not
// defined by Q alone. In that case the director is the normalized projection of the first
// cartesian axis (x, then y, then z) with a non-negligible projection on the tied eigenspace,
// and Tied is set in the result. This only depends on Q, never on the basis returned
// by the eigensolver.
//
// The director's sign is fixed so its z component is non-negative. If z is zero, the first
// non-zero of y, x is made positive.
func Extract(Q mat.Symmetric) (Order, error) {
	E, err := eigen(Q)
	if err != nil {
		return Order{}, errDecorate(err, "Extract")
	}
	var o Order
	o.Eigenvalue = E.evals[2]
	o.S = math.Max(0, 1.5*E.evals[2])
	n := E.evecs[2]
	if E.evals[2]-E.evals[1] <= tieTol {
		o.Tied = true
		var space [][3]float64
		if E.evals[2]-E.evals[0] <= tieTol {
			space = [][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
		} else {
			space = E.evecs[1:]
		}
		n = tieBreak(space)
	}
	o.Director = signConvention(n)
	return o, nil
}

// tieBreak returns the unit projection, on the space spanned by the orthonormal
// vectors in space, of the first cartesian axis that has one.
func tieBreak(space [][3]float64) [3]float64 {
	for axis := 0; axis < 3; axis++ {
		var p [3]float64
		for _, v := range space {
			for a := 0; a < 3; a++ {
				p[a] += v[axis] * v[a]
			}
		}
		norm := math.Sqrt(p[0]*p[0] + p[1]*p[1] + p[2]*p[2])
		if norm > 1e-6 {
			return [3]float64{p[0] / norm, p[1] / norm, p[2] / norm}
		}
	}
	return space[0] //unreachable for orthonormal input
}

// signConvention flips n so that its z component is non-negative. For a z of zero
// the y component decides, and then the x one.
func signConvention(n [3]float64) [3]float64 {
	for a := 2; a >= 0; a-- {
		if n[a] < -signTol {
			n = [3]float64{-n[0], -n[1], -n[2]}
			break
		}
		if n[a] > signTol {
			break
		}
	}
	//a residual sub-tolerance negative z is rounding noise.
	if n[2] < 0 {
		n[2] = 0
	}
	return n
}

// ExtractSeries applies Extract to each tensor. The sign convention is applied to each
// frame on its own: directors are not tracked or smoothed over time.
// It stops at the first failing tensor, and the error names its index.
func ExtractSeries(Qs []*mat.SymDense) ([]Order, error) {
	ret := make([]Order, len(Qs))
	for i, Q := range Qs {
		o, err := Extract(Q)
		if err != nil {
			return nil, errDecorate(err, fmt.Sprintf("ExtractSeries: tensor %d", i))
		}
		ret[i] = o
	}
	return ret, nil
}

// ScalarOrder returns the scalar order parameter in the invariant form sqrt(1.5 Q:Q).
// It equals Extract(Q).S when Q is uniaxial, and needs no eigendecomposition.
func ScalarOrder(Q mat.Symmetric) float64 {
	var s float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			s += Q.At(i, j) * Q.At(i, j)
		}
	}
	return math.Sqrt(1.5 * s)
}
