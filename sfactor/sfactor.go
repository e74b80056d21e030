/*
 * sfactor.go, part of aLENS-analysis.
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

// Package sfactor computes structure factors of per-particle fields
// (the nematic tensor field, or the plain density) at a set of wavevectors.
//
// For a field with c components f_i (one row per particle) at positions r_i,
//
//	S(k) = (Σ_c |Σ_i f_ic exp(-i k·r_i)|² - C) / N²
//
// where C removes the self terms (see SelfTerm). The wavevectors are processed
// in chunks, so only an N x chunk block of phases is alive at any time per worker.
package sfactor

import (
	"math"

	nematic "github.com/flatironinstitute/aLENS-analysis"
	v3 "github.com/flatironinstitute/aLENS-analysis/v3"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

// Tensor returns the structure factor of the Nx9 tensor field q (see nematic.ParticleTensors)
// of particles at positions r, at each wavevector in k.
func Tensor(q *mat.Dense, r, k *v3.Matrix, o *Options) ([]float64, error) {
	if q != nil {
		if _, c := q.Dims(); c != nematic.TensorCols {
			return nil, nematic.NewError(nematic.ErrMalformedInput, "Tensor", "tensor field needs %d columns, got %d", nematic.TensorCols, c)
		}
	}
	s, err := Field(q, r, k, o)
	if err != nil {
		return nil, nematic.Decorate(err, "Tensor")
	}
	return s, nil
}

// Fluctuation returns the structure factor of the fluctuations of the tensor field q,
// q minus its particle average. q is not modified.
// A field without fluctuations gives FluctuationFloor at every wavevector, which
// is -2/N, not zero, under SelfTermReference.
func Fluctuation(q *mat.Dense, r, k *v3.Matrix, o *Options) ([]float64, error) {
	if q == nil {
		return nil, nematic.NewError(nematic.ErrMalformedInput, "Fluctuation", "nil tensor field")
	}
	mean := nematic.MeanTensor(q)
	dq := mat.DenseCopyOf(q)
	n, _ := dq.Dims()
	for i := 0; i < n; i++ {
		row := dq.RawRowView(i)
		for j := range row {
			row[j] -= mean[j]
		}
	}
	s, err := Tensor(dq, r, k, o)
	if err != nil {
		return nil, nematic.Decorate(err, "Fluctuation")
	}
	return s, nil
}

// Density returns the structure factor of the particle density, the field
// with a single component equal to 1 for every particle.
func Density(r, k *v3.Matrix, o *Options) ([]float64, error) {
	if r == nil || r.Dense == nil {
		return nil, nematic.NewError(nematic.ErrMalformedInput, "Density", "nil positions")
	}
	ones := make([]float64, r.NVecs())
	for i := range ones {
		ones[i] = 1
	}
	s, err := Field(mat.NewDense(len(ones), 1, ones), r, k, o)
	if err != nil {
		return nil, nematic.Decorate(err, "Density")
	}
	return s, nil
}

// Field returns the structure factor of an arbitrary per-particle field
// (one row per particle, any number of columns). A nil o means DefaultOptions.
// The result does not depend on the chunk size or the number of workers.
func Field(field *mat.Dense, r, k *v3.Matrix, o *Options) ([]float64, error) {
	if o == nil {
		o = DefaultOptions()
	}
	if field == nil || r == nil || r.Dense == nil {
		return nil, nematic.NewError(nematic.ErrMalformedInput, "Field", "nil field or positions")
	}
	if k == nil || k.Dense == nil || k.NVecs() == 0 {
		return nil, nematic.NewError(nematic.ErrDegenerate, "Field", "no wavevectors to evaluate")
	}
	n, _ := field.Dims()
	if n == 0 {
		return nil, nematic.NewError(nematic.ErrDegenerate, "Field", "no particles")
	}
	if n != r.NVecs() {
		return nil, nematic.NewError(nematic.ErrMalformedInput, "Field", "field has %d rows for %d positions", n, r.NVecs())
	}
	if err := o.Check(n); err != nil {
		return nil, nematic.Decorate(err, "Field")
	}
	m := k.NVecs()
	ret := make([]float64, m)
	var g errgroup.Group
	g.SetLimit(o.Device().Workers)
	for start := 0; start < m; start += o.ChunkSize() {
		end := min(start+o.ChunkSize(), m)
		g.Go(func() error {
			fourierPower(field, r, k, start, end, ret[start:end])
			return nil
		})
	}
	g.Wait() //the chunks never fail
	self := selfTerm(field, o.Self())
	norm := float64(n) * float64(n)
	for i := range ret {
		ret[i] = (ret[i] - self) / norm
	}
	return ret, nil
}

// fourierPower puts in dst, for each wavevector q of k in [q0,q1), the sum over the
// field components of |Σ_i f_i exp(-i k_q·r_i)|².
func fourierPower(field *mat.Dense, r, k *v3.Matrix, q0, q1 int, dst []float64) {
	n, c := field.Dims()
	m := q1 - q0
	kc := k.Dense.Slice(q0, q1, 0, 3)
	phase := mat.NewDense(n, m, nil)
	phase.Mul(r.Dense, kc.T())
	sin := mat.NewDense(n, m, nil)
	sin.Apply(func(_, _ int, v float64) float64 { return math.Sin(v) }, phase)
	phase.Apply(func(_, _ int, v float64) float64 { return math.Cos(v) }, phase)
	re := mat.NewDense(c, m, nil)
	re.Mul(field.T(), phase)
	im := mat.NewDense(c, m, nil) //the sign of the imaginary part is lost in the square.
	im.Mul(field.T(), sin)
	for j := 0; j < m; j++ {
		var s float64
		for a := 0; a < c; a++ {
			x, y := re.At(a, j), im.At(a, j)
			s += x*x + y*y
		}
		dst[j] = s
	}
}

// FluctuationFloor returns the structure factor that Fluctuation gives for a
// homogeneous field of n particles with the self-term correction kind. Values
// at the floor carry no signal.
func FluctuationFloor(n int, kind SelfTerm) float64 {
	if n < 1 || kind != SelfTermReference {
		return 0
	}
	return -2 / float64(n)
}

// selfTerm returns the constant C for the field and correction kind.
func selfTerm(field *mat.Dense, kind SelfTerm) float64 {
	n, _ := field.Dims()
	switch kind {
	case SelfTermReference:
		return 2 * float64(n)
	case SelfTermExact:
		f := mat.Norm(field, 2)
		return f * f
	}
	return 0
}
