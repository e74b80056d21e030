/*
 * tensor.go, part of aLENS-analysis.
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
	v3 "github.com/flatironinstitute/aLENS-analysis/v3"
	"gonum.org/v1/gonum/mat"
)

// Bonds shorter than this have no defined orientation.
const minBond = 1e-12

// TensorCols is the number of columns of a per-particle tensor field: the 3x3
// tensor of each sylinder, flattened row-major.
const TensorCols = 9

// Orientations returns the unit orientation of each sylinder in the frame.
// A zero-length bond is a numerical degeneracy error, reported with the row
// of the offending sylinder. No sylinder is ever dropped.
func Orientations(f *Frame) (*v3.Matrix, error) {
	if err := f.Check(); err != nil {
		return nil, errDecorate(err, "Orientations")
	}
	b := f.Bonds()
	for i := 0; i < b.NVecs(); i++ {
		if b.Norm(i) <= minBond {
			return nil, NewError(ErrDegenerate, "Orientations", "sylinder %d (gid %g) has a zero-length bond", i, f.Fields.At(i, GIDField))
		}
	}
	b.Unit(b)
	return b, nil
}

// ParticleTensors returns the per-sylinder nematic tensor field, u⊗u - I/3
// for each unit orientation u, as an Nx9 matrix (one flattened tensor per row).
// This is the field the structure factor is computed from.
func ParticleTensors(u *v3.Matrix) *mat.Dense {
	n := u.NVecs()
	q := mat.NewDense(n, TensorCols, nil)
	raw := q.RawMatrix()
	for i := 0; i < n; i++ {
		row := raw.Data[i*raw.Stride : i*raw.Stride+TensorCols]
		for a := 0; a < 3; a++ {
			for b := 0; b < 3; b++ {
				row[3*a+b] = u.At(i, a) * u.At(i, b)
			}
			row[4*a] -= 1.0 / 3.0
		}
	}
	return q
}

// OrderTensor returns the ensemble nematic order tensor of the unit
// orientations u, Q = (1/N) Σ u⊗u - I/3.
func OrderTensor(u *v3.Matrix) (*mat.SymDense, error) {
	n := u.NVecs()
	if n == 0 {
		return nil, NewError(ErrDegenerate, "OrderTensor", "no sylinders")
	}
	Q := mat.NewSymDense(3, nil)
	Q.SymOuterK(1.0/float64(n), u.Dense.T())
	for a := 0; a < 3; a++ {
		Q.SetSym(a, a, Q.At(a, a)-1.0/3.0)
	}
	return Q, nil
}

// FrameOrderTensor returns the order tensor of the sylinders in f.
func FrameOrderTensor(f *Frame) (*mat.SymDense, error) {
	u, err := Orientations(f)
	if err != nil {
		return nil, errDecorate(err, "FrameOrderTensor")
	}
	return OrderTensor(u)
}

// MeanTensor returns the particle average of a tensor field, as a 1x9 row.
// For the field of ParticleTensors this is the flattened order tensor.
func MeanTensor(q *mat.Dense) []float64 {
	n, c := q.Dims()
	mean := make([]float64, c)
	for i := 0; i < n; i++ {
		for j := range mean {
			mean[j] += q.At(i, j)
		}
	}
	for j := range mean {
		mean[j] /= float64(n)
	}
	return mean
}
