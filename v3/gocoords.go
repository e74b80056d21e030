/*
 * gocoords.go, part of aLENS-analysis.
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

package v3

import (
	"fmt"
	"math"
	"strings"
)

// Everything with a norm equal or less than this is considered zero.
const appzero float64 = 1e-12

// METHODS

// NVecs returns the number of vecs in F.
func (F *Matrix) NVecs() int {
	r, c := F.Dims()
	if c != 3 {
		panic(ErrNotXx3Matrix)
	}
	return r
}

// Norm returns the euclidean norm of the ith vector of F.
func (F *Matrix) Norm(i int) float64 {
	x, y, z := F.At(i, 0), F.At(i, 1), F.At(i, 2)
	return math.Sqrt(x*x + y*y + z*z)
}

// Unit puts in each vector of the receiver the corresponding vector of A
// scaled to unit length. It panics with ErrZeroNorm on a zero vector, so callers
// that can get zero-length input should check the norms first.
func (F *Matrix) Unit(A *Matrix) {
	ar := A.NVecs()
	if F.NVecs() != ar {
		panic(ErrShape)
	}
	for i := 0; i < ar; i++ {
		n := A.Norm(i)
		if n <= appzero {
			panic(ErrZeroNorm)
		}
		for j := 0; j < 3; j++ {
			F.Set(i, j, A.At(i, j)/n)
		}
	}
}

// String returns a neat string representation of a Matrix
func (F *Matrix) String() string {
	r := F.NVecs()
	v := make([]string, 0, r)
	for i := 0; i < r; i++ {
		v = append(v, fmt.Sprintf("%8.4f %8.4f %8.4f", F.At(i, 0), F.At(i, 1), F.At(i, 2)))
	}
	return "\n[" + strings.Join(v, "\n ") + " ]"
}
