/*
 * nematic_test.go, part of aLENS-analysis.
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
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// frameFromEnds builds a frame with 9 fields per sylinder (an extra trailing field
// checks that untouched columns survive) from minus/plus end pairs.
func frameFromEnds(minus, plus [][3]float64) *Frame {
	f := NewFrame(len(minus), 9)
	for i := range minus {
		f.Fields.Set(i, GIDField, float64(i))
		f.Fields.Set(i, GroupField, 0)
		for a := 0; a < 3; a++ {
			f.Fields.Set(i, MinusField+a, minus[i][a])
			f.Fields.Set(i, PlusField+a, plus[i][a])
		}
		f.Fields.Set(i, 8, 42)
	}
	return f
}

// randomUnit returns a vector uniformly distributed on the unit sphere.
func randomUnit(r *rand.Rand) [3]float64 {
	z := 2*r.Float64() - 1
	phi := 2 * math.Pi * r.Float64()
	s := math.Sqrt(1 - z*z)
	return [3]float64{s * math.Cos(phi), s * math.Sin(phi), z}
}

// rodFrame places n rods of length l with the orientations given by orient at random
// centers inside box.
func rodFrame(r *rand.Rand, n int, l float64, box Box, orient func(int) [3]float64) *Frame {
	minus := make([][3]float64, n)
	plus := make([][3]float64, n)
	ext := box.Extent()
	for i := 0; i < n; i++ {
		u := orient(i)
		for a := 0; a < 3; a++ {
			c := box.Lower[a] + r.Float64()*ext[a]
			minus[i][a] = c - 0.5*l*u[a]
			plus[i][a] = c + 0.5*l*u[a]
		}
	}
	return frameFromEnds(minus, plus)
}

func cube(h float64) Box {
	return Box{Lower: [3]float64{-h, -h, -h}, Upper: [3]float64{h, h, h}}
}

func TestBox(Te *testing.T) {
	_, err := NewBox([]float64{0, 0, 0}, []float64{1, 1, 0})
	assert.True(Te, errors.Is(err, ErrMalformedInput))
	_, err = NewBox([]float64{0, 0}, []float64{1, 1, 1})
	assert.True(Te, errors.Is(err, ErrMalformedInput))
	b, err := NewBox([]float64{-1, -2, -3}, []float64{1, 2, 3})
	require.NoError(Te, err)
	assert.Equal(Te, 2.0, b.MinExtent())
	assert.Equal(Te, [3]float64{2, 4, 6}, b.Extent())
}

func TestDevice(Te *testing.T) {
	assert.NoError(Te, DefaultDevice().Check())
	assert.True(Te, errors.Is(Device{Name: "cuda", Workers: 1}.Check(), ErrMalformedInput))
	assert.True(Te, errors.Is(Device{Name: "cpu"}.Check(), ErrMalformedInput))
}

func TestErrorDecorate(Te *testing.T) {
	err := NewError(ErrDegenerate, "inner", "bad bond %d", 3)
	out := errDecorate(err, "outer")
	var e *Error
	require.True(Te, errors.As(out, &e))
	assert.Equal(Te, []string{"inner", "outer"}, e.Decorate(""))
	assert.True(Te, e.Critical())
	assert.False(Te, NewError(ErrInsufficientData, "x", "short").Critical())
	assert.Contains(Te, out.Error(), "bad bond 3")
}

func TestPBCWrappedBond(Te *testing.T) {
	box := cube(1)
	f := frameFromEnds([][3]float64{{0.9, 0, 0}}, [][3]float64{{-0.9, 0, 0}})
	c, err := CorrectFramePBC(f, box)
	require.NoError(Te, err)
	bond := c.Bonds()
	assert.InDelta(Te, 0.2, bond.Norm(0), 1e-12)
	center := c.Centers()
	for a := 0; a < 3; a++ {
		assert.True(Te, center.At(0, a) >= box.Lower[a] && center.At(0, a) <= box.Upper[a])
	}
	assert.Equal(Te, 42.0, c.Fields.At(0, 8), "extra fields are passed through")
	assert.Equal(Te, -0.9, f.Fields.At(0, PlusField), "input is not modified")
}

func TestPBCRecenter(Te *testing.T) {
	box := cube(1)
	//bond unwrapped by moving the plus end, which leaves the center outside the box.
	f := frameFromEnds(
		[][3]float64{{0.95, 0, 0}, {-0.95, 0.1, 0}},
		[][3]float64{{-0.75, 0, 0}, {0.85, 0.1, 0}},
	)
	c, err := CorrectFramePBC(f, box)
	require.NoError(Te, err)
	b := c.Bonds()
	assert.InDelta(Te, 0.3, b.Norm(0), 1e-12)
	assert.InDelta(Te, 0.2, b.Norm(1), 1e-12)
	centers := c.Centers()
	assert.InDelta(Te, -0.9, centers.At(0, 0), 1e-12)
	assert.InDelta(Te, 0.95, centers.At(1, 0), 1e-12)
}

func TestPBCShortCircuit(Te *testing.T) {
	r := rand.New(rand.NewSource(1))
	box := cube(5)
	frames := make([]*Frame, 3)
	for i := range frames {
		frames[i] = rodFrame(r, 50, 1, cube(6), func(int) [3]float64 { return randomUnit(r) })
	}
	out, err := CorrectPBC(frames, box)
	require.NoError(Te, err)
	for i := range frames {
		assert.True(Te, mat.Equal(frames[i].Fields, out[i].Fields), "short circuit must not touch the data")
		assert.NotSame(Te, frames[i].Fields, out[i].Fields)
	}
}

func TestPBCIdempotent(Te *testing.T) {
	r := rand.New(rand.NewSource(2))
	box := cube(2)
	ext := box.Extent()
	frames := make([]*Frame, 4)
	for k := range frames {
		f := rodFrame(r, 100, 1.5, box, func(int) [3]float64 { return randomUnit(r) })
		//wrap every endpoint back into the box, like the simulation output does.
		raw := f.Fields.RawMatrix()
		for i := 0; i < f.Len(); i++ {
			for _, col := range []int{MinusField, PlusField} {
				for a := 0; a < 3; a++ {
					v := &raw.Data[i*raw.Stride+col+a]
					if *v > box.Upper[a] {
						*v -= ext[a]
					} else if *v < box.Lower[a] {
						*v += ext[a]
					}
				}
			}
		}
		frames[k] = f
	}
	once, err := CorrectPBC(frames, box)
	require.NoError(Te, err)
	twice, err := CorrectPBC(once, box)
	require.NoError(Te, err)
	for k := range once {
		assert.True(Te, mat.EqualApprox(once[k].Fields, twice[k].Fields, 1e-12))
		b := once[k].Bonds()
		for i := 0; i < b.NVecs(); i++ {
			assert.InDelta(Te, 1.5, b.Norm(i), 1e-9)
		}
	}
}

func TestPBCMalformed(Te *testing.T) {
	f := NewFrame(2, 5)
	_, err := CorrectPBC([]*Frame{f}, cube(1))
	assert.True(Te, errors.Is(err, ErrMalformedInput))
	_, err = CorrectPBC(nil, cube(1))
	assert.True(Te, errors.Is(err, ErrMalformedInput))
	g := frameFromEnds([][3]float64{{0, 0, 0}}, [][3]float64{{1, 0, 0}})
	_, err = CorrectPBC([]*Frame{g}, Box{Lower: [3]float64{0, 0, 0}, Upper: [3]float64{1, -1, 1}})
	assert.True(Te, errors.Is(err, ErrMalformedInput))
	h := frameFromEnds([][3]float64{{0, 0, 0}, {0, 0, 0}}, [][3]float64{{1, 0, 0}, {1, 0, 0}})
	_, err = CorrectPBC([]*Frame{g, h}, cube(1))
	assert.True(Te, errors.Is(err, ErrMalformedInput))
}

func TestOrientationsDegenerate(Te *testing.T) {
	f := frameFromEnds([][3]float64{{0, 0, 0}, {1, 1, 1}}, [][3]float64{{1, 0, 0}, {1, 1, 1}})
	_, err := Orientations(f)
	require.Error(Te, err)
	assert.True(Te, errors.Is(err, ErrDegenerate))
	assert.Contains(Te, err.Error(), "sylinder 1")
	_, err = FrameOrderTensor(f)
	assert.True(Te, errors.Is(err, ErrDegenerate))
}

func TestParticleTensors(Te *testing.T) {
	f := frameFromEnds([][3]float64{{0, 0, 0}, {0, 0, 0}}, [][3]float64{{2, 0, 0}, {0, 0, -3}})
	u, err := Orientations(f)
	require.NoError(Te, err)
	q := ParticleTensors(u)
	assert.True(Te, floats.EqualApprox(mat.Row(nil, 0, q), []float64{2.0 / 3, 0, 0, 0, -1.0 / 3, 0, 0, 0, -1.0 / 3}, 1e-15))
	assert.True(Te, floats.EqualApprox(mat.Row(nil, 1, q), []float64{-1.0 / 3, 0, 0, 0, -1.0 / 3, 0, 0, 0, 2.0 / 3}, 1e-15))
	Q, err := OrderTensor(u)
	require.NoError(Te, err)
	mean := MeanTensor(q)
	for a := 0; a < 3; a++ {
		for b := 0; b < 3; b++ {
			assert.InDelta(Te, mean[3*a+b], Q.At(a, b), 1e-15)
		}
	}
}

func TestOrderTensorTraceless(Te *testing.T) {
	r := rand.New(rand.NewSource(3))
	f := rodFrame(r, 500, 1, cube(10), func(int) [3]float64 { return randomUnit(r) })
	Q, err := FrameOrderTensor(f)
	require.NoError(Te, err)
	assert.InDelta(Te, 0, mat.Trace(Q), 1e-12)
	for a := 0; a < 3; a++ {
		for b := 0; b < 3; b++ {
			assert.Equal(Te, Q.At(a, b), Q.At(b, a))
		}
	}
}

func TestAlignedAlongX(Te *testing.T) {
	r := rand.New(rand.NewSource(4))
	f := rodFrame(r, 200, 1, cube(10), func(int) [3]float64 { return [3]float64{1, 0, 0} })
	Q, err := FrameOrderTensor(f)
	require.NoError(Te, err)
	o, err := Extract(Q)
	require.NoError(Te, err)
	assert.InDelta(Te, 1.0, o.S, 1e-12)
	assert.InDelta(Te, 2.0/3.0, o.Eigenvalue, 1e-12)
	assert.InDelta(Te, 1.0, o.Director[0], 1e-12)
	assert.InDelta(Te, 0.0, o.Director[1], 1e-12)
	assert.InDelta(Te, 0.0, o.Director[2], 1e-12)
	assert.False(Te, o.Tied)
	assert.InDelta(Te, o.S, ScalarOrder(Q), 1e-12)
}

func TestIsotropic(Te *testing.T) {
	r := rand.New(rand.NewSource(5))
	f := rodFrame(r, 20000, 1, cube(10), func(int) [3]float64 { return randomUnit(r) })
	Q, err := FrameOrderTensor(f)
	require.NoError(Te, err)
	o, err := Extract(Q)
	require.NoError(Te, err)
	assert.Less(Te, o.S, 0.05)
	assert.GreaterOrEqual(Te, o.S, 0.0)
	assert.Less(Te, ScalarOrder(Q), 0.05)
}

// Random valid tensors: S non-negative, unit director with non-negative z.
func TestExtractProperties(Te *testing.T) {
	r := rand.New(rand.NewSource(6))
	for k := 0; k < 200; k++ {
		n := 1 + r.Intn(30)
		u := make([][3]float64, n)
		bias := randomUnit(r)
		for i := range u {
			v := randomUnit(r)
			w := r.Float64()
			for a := 0; a < 3; a++ {
				v[a] = w*v[a] + (1-w)*bias[a]
			}
			u[i] = v
		}
		f := frameFromEnds(make([][3]float64, n), u)
		Q, err := FrameOrderTensor(f)
		require.NoError(Te, err)
		o, err := Extract(Q)
		require.NoError(Te, err)
		assert.GreaterOrEqual(Te, o.S, 0.0)
		d := o.Director
		assert.InDelta(Te, 1.0, math.Sqrt(d[0]*d[0]+d[1]*d[1]+d[2]*d[2]), 1e-9)
		assert.GreaterOrEqual(Te, d[2], 0.0)
		//it is an eigenvector of the largest eigenvalue.
		if !o.Tied {
			for a := 0; a < 3; a++ {
				qn := Q.At(a, 0)*d[0] + Q.At(a, 1)*d[1] + Q.At(a, 2)*d[2]
				assert.InDelta(Te, o.Eigenvalue*d[a], qn, 1e-9)
			}
		}
	}
}

func TestSignConvention(Te *testing.T) {
	//director along -z must come out along +z.
	f := frameFromEnds([][3]float64{{0, 0, 1}, {0, 0, 2}}, [][3]float64{{0, 0, 0}, {0, 0.1, 0}})
	Q, err := FrameOrderTensor(f)
	require.NoError(Te, err)
	o, err := Extract(Q)
	require.NoError(Te, err)
	assert.Greater(Te, o.Director[2], 0.9)
	assert.Equal(Te, [3]float64{1, 2, 3}, signConvention([3]float64{-1, -2, -3}))
	assert.Equal(Te, [3]float64{1, 2, 0}, signConvention([3]float64{-1, -2, 0}))
	assert.Equal(Te, [3]float64{1, 0, 0}, signConvention([3]float64{-1, 0, 0}))
	assert.Equal(Te, [3]float64{-1, 2, 0}, signConvention([3]float64{1, -2, 0}))
}

func TestTieBreak(Te *testing.T) {
	//half along x, half along y: the x-y plane is the tied top eigenspace.
	f := frameFromEnds(
		[][3]float64{{0, 0, 0}, {0, 0, 0}, {0, 0, 0}, {0, 0, 0}},
		[][3]float64{{1, 0, 0}, {-1, 0, 0}, {0, 1, 0}, {0, -1, 0}},
	)
	Q, err := FrameOrderTensor(f)
	require.NoError(Te, err)
	o, err := Extract(Q)
	require.NoError(Te, err)
	assert.True(Te, o.Tied)
	assert.InDelta(Te, 0.25, o.S, 1e-12)
	assert.InDelta(Te, 1.0, o.Director[0], 1e-12)
	assert.InDelta(Te, 0.0, o.Director[1], 1e-12)
	assert.InDelta(Te, 0.0, o.Director[2], 1e-12)
	//y-z plane: x has no projection, so y is picked.
	g := frameFromEnds(
		[][3]float64{{0, 0, 0}, {0, 0, 0}},
		[][3]float64{{0, 0, 1}, {0, 1, 0}},
	)
	Q, err = FrameOrderTensor(g)
	require.NoError(Te, err)
	o, err = Extract(Q)
	require.NoError(Te, err)
	assert.True(Te, o.Tied)
	assert.InDelta(Te, 1.0, o.Director[1], 1e-12)
	//zero tensor: everything tied.
	o, err = Extract(mat.NewSymDense(3, nil))
	require.NoError(Te, err)
	assert.Equal(Te, [3]float64{1, 0, 0}, o.Director)
	assert.Equal(Te, 0.0, o.S)
}

func TestExtractSeries(Te *testing.T) {
	Qs := []*mat.SymDense{
		mat.NewSymDense(3, []float64{2.0 / 3, 0, 0, 0, -1.0 / 3, 0, 0, 0, -1.0 / 3}),
		mat.NewSymDense(3, []float64{-1.0 / 3, 0, 0, 0, -1.0 / 3, 0, 0, 0, 2.0 / 3}),
	}
	os, err := ExtractSeries(Qs)
	require.NoError(Te, err)
	require.Len(Te, os, 2)
	assert.InDelta(Te, 1.0, os[0].Director[0], 1e-12)
	assert.InDelta(Te, 1.0, os[1].Director[2], 1e-12)
	bad := mat.NewSymDense(3, []float64{math.NaN(), 0, 0, 0, 0, 0, 0, 0, 0})
	_, err = ExtractSeries(append(Qs, bad))
	assert.True(Te, errors.Is(err, ErrDegenerate))
	assert.Contains(Te, err.Error(), "tensor 2")
}
