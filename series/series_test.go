/*
 * series_test.go, part of aLENS-analysis.
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

package series

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"path/filepath"
	"testing"

	nematic "github.com/flatironinstitute/aLENS-analysis"
	"github.com/flatironinstitute/aLENS-analysis/sfactor"
	"github.com/flatironinstitute/aLENS-analysis/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

var box = nematic.Box{Lower: [3]float64{-5, -5, -5}, Upper: [3]float64{5, 5, 5}}

// rods returns a frame with n unit rods at random centers. With aligned set,
// all rods point along x, otherwise their orientations are random.
func rods(rnd *rand.Rand, n int, aligned bool, time float64) *nematic.Frame {
	f := nematic.NewFrame(n, nematic.MinFields)
	f.Time = time
	for i := 0; i < n; i++ {
		u := [3]float64{1, 0, 0}
		if !aligned {
			u = [3]float64{rnd.NormFloat64(), rnd.NormFloat64(), rnd.NormFloat64()}
			l := math.Sqrt(u[0]*u[0] + u[1]*u[1] + u[2]*u[2])
			for a := range u {
				u[a] /= l
			}
		}
		f.Fields.Set(i, nematic.GIDField, float64(i))
		for a := 0; a < 3; a++ {
			c := 8*rnd.Float64() - 4
			f.Fields.Set(i, nematic.MinusField+a, c-0.5*u[a])
			f.Fields.Set(i, nematic.PlusField+a, c+0.5*u[a])
		}
	}
	return f
}

func trajectory(seed int64, frames, n int, aligned bool) []*nematic.Frame {
	rnd := rand.New(rand.NewSource(seed))
	ret := make([]*nematic.Frame, frames)
	for i := range ret {
		ret[i] = rods(rnd, n, aligned, 0.1*float64(i))
	}
	return ret
}

func options(start, samples, workers int) *Options {
	o := DefaultOptions()
	o.Start(start)
	o.Samples(samples)
	o.SF().ChunkSize(3)
	o.SF().Device(nematic.Device{Name: "cpu", Workers: workers})
	return o
}

var mags = []float64{0.5, 1, 1.5, 2}

func TestSample(Te *testing.T) {
	cases := []struct {
		total, start, n int
		stride          int
		idx             []int
	}{
		{10, 2, 4, 2, []int{2, 4, 6, 8}},
		{10, 0, 100, 1, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}},
		{11, 1, 3, 3, []int{1, 4, 7}},
		{5, 4, 3, 1, []int{4}},
	}
	for _, c := range cases {
		idx, stride, err := Sample(c.total, c.start, c.n)
		require.NoError(Te, err)
		assert.Equal(Te, c.stride, stride)
		assert.Equal(Te, c.idx, idx)
	}
	for _, total := range []int{0, 3, 10} {
		_, _, err := Sample(total, 10, 100)
		require.Error(Te, err)
		assert.True(Te, errors.Is(err, nematic.ErrInsufficientData))
		var e *nematic.Error
		require.True(Te, errors.As(err, &e))
		assert.False(Te, e.Critical())
	}
	_, _, err := Sample(10, 0, 0)
	assert.True(Te, errors.Is(err, nematic.ErrMalformedInput))
}

func TestInsufficientData(Te *testing.T) {
	frames := trajectory(1, 3, 5, true)
	r, err := AnalyzeFrames(context.Background(), frames, box, mags, options(10, 100, 1))
	assert.Nil(Te, r)
	assert.True(Te, errors.Is(err, nematic.ErrInsufficientData), "%v", err)
}

func TestAlignedSeries(Te *testing.T) {
	frames := trajectory(2, 6, 30, true)
	r, err := AnalyzeFrames(context.Background(), frames, box, mags, options(1, 2, 2))
	require.NoError(Te, err)
	assert.Equal(Te, []int{1, 3}, r.FrameIndex)
	assert.InDeltaSlice(Te, []float64{0.1, 0.3}, r.Time, 1e-12)
	assert.Equal(Te, 2, r.Stride)
	assert.Empty(Te, r.SkippedFrames)
	for _, o := range r.Orders {
		assert.InDelta(Te, 1.0, o.S, 1e-9)
		assert.InDeltaSlice(Te, []float64{1, 0, 0}, o.Director[:], 1e-9)
	}
	for axis := 0; axis < 3; axis++ {
		rows, cols := r.StructFactor[axis].Dims()
		assert.Equal(Te, len(mags), rows)
		assert.Equal(Te, 2, cols)
		rows, cols = r.FluctStructFactor[axis].Dims()
		assert.Equal(Te, len(mags), rows)
		assert.Equal(Te, 2, cols)
		//perfectly aligned rods have no tensor fluctuations, only the self-term is left.
		for i := 0; i < rows; i++ {
			for j := 0; j < cols; j++ {
				assert.InDelta(Te, sfactor.FluctuationFloor(30, sfactor.SelfTermReference), r.FluctStructFactor[axis].At(i, j), 1e-9)
			}
		}
	}
	//the input frames are not touched.
	assert.Equal(Te, 0.1, frames[1].Time)
}

func TestWorkersKeepOrder(Te *testing.T) {
	frames := trajectory(3, 12, 20, false)
	one, err := AnalyzeFrames(context.Background(), frames, box, mags, options(0, 12, 1))
	require.NoError(Te, err)
	many, err := AnalyzeFrames(context.Background(), frames, box, mags, options(0, 12, 5))
	require.NoError(Te, err)
	assert.Equal(Te, one.FrameIndex, many.FrameIndex)
	assert.Equal(Te, one.Orders, many.Orders)
	for axis := 0; axis < 3; axis++ {
		assert.True(Te, mat.EqualApprox(one.StructFactor[axis], many.StructFactor[axis], 1e-12))
		assert.True(Te, mat.EqualApprox(one.DensityStructFactor[axis], many.DensityStructFactor[axis], 1e-12))
	}
	for i, fi := range one.FrameIndex {
		assert.Equal(Te, i, fi)
	}
}

// collapse makes the bond of one sylinder zero-length in each of the given frames.
func collapse(frames []*nematic.Frame, which ...int) {
	for _, i := range which {
		f := frames[i]
		for a := 0; a < 3; a++ {
			f.Fields.Set(0, nematic.PlusField+a, f.Fields.At(0, nematic.MinusField+a))
		}
	}
}

func TestDegenerateFrames(Te *testing.T) {
	frames := trajectory(4, 4, 10, false)
	collapse(frames, 2)

	r, err := AnalyzeFrames(context.Background(), frames, box, mags, options(0, 4, 2))
	require.NoError(Te, err)
	assert.Equal(Te, []int{2}, r.SkippedFrames)
	assert.Equal(Te, []int{0, 1, 3}, r.FrameIndex)
	_, cols := r.StructFactor[0].Dims()
	assert.Equal(Te, 3, cols)

	o := options(0, 4, 2)
	o.Degenerate(FailOnDegenerate)
	_, err = AnalyzeFrames(context.Background(), frames, box, mags, o)
	assert.True(Te, errors.Is(err, nematic.ErrDegenerate), "%v", err)

	collapse(frames, 0, 3)
	_, err = AnalyzeFrames(context.Background(), frames, box, mags, options(0, 4, 2))
	assert.True(Te, errors.Is(err, nematic.ErrDegenerate), "%v", err)
}

func TestBadInput(Te *testing.T) {
	frames := trajectory(5, 3, 4, true)
	_, err := AnalyzeFrames(context.Background(), frames, nematic.Box{}, mags, nil)
	assert.True(Te, errors.Is(err, nematic.ErrMalformedInput), "%v", err)
	_, err = AnalyzeFrames(context.Background(), frames, box, nil, nil)
	assert.True(Te, errors.Is(err, nematic.ErrDegenerate), "%v", err)
	o := options(0, 3, 1)
	o.SF().ChunkSize(0)
	_, err = AnalyzeFrames(context.Background(), frames, box, mags, o)
	assert.True(Te, errors.Is(err, nematic.ErrMalformedInput), "%v", err)
}

func TestMemoryBoundCountsFrameWorkers(Te *testing.T) {
	frames := trajectory(9, 16, 50, false)
	o := options(0, 16, 8)
	o.SF().MaxBytes(50 * 3 * 16) //phase blocks of a single worker
	_, err := AnalyzeFrames(context.Background(), frames, box, mags, o)
	assert.True(Te, errors.Is(err, nematic.ErrResource), "%v", err)
	o.SF().MaxBytes(50 * 3 * 16 * 8)
	R, err := AnalyzeFrames(context.Background(), frames, box, mags, o)
	require.NoError(Te, err)
	assert.Len(Te, R.FrameIndex, 16)
}

func TestCancelled(Te *testing.T) {
	frames := trajectory(6, 5, 10, false)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := AnalyzeFrames(ctx, frames, box, mags, options(0, 5, 2))
	assert.True(Te, errors.Is(err, context.Canceled), "%v", err)
}

// memTraj is a trajectory kept in memory.
type memTraj struct {
	frames []*nematic.Frame
	next   int
}

type endOfTraj struct{}

func (endOfTraj) Error() string { return "EOF" }
func (endOfTraj) Decorate(string) []string { return nil }
func (endOfTraj) Critical() bool { return false }
func (endOfTraj) FileName() string { return "memory" }
func (endOfTraj) Format() string { return "memory" }
func (endOfTraj) NormalLastFrameTermination() {}

func (M *memTraj) Readable() bool { return M.next < len(M.frames) }
func (M *memTraj) Len() int { return M.frames[0].Len() }
func (M *memTraj) Fields() int { return M.frames[0].NFields() }
func (M *memTraj) Next(f *nematic.Frame) error {
	if M.next >= len(M.frames) {
		return endOfTraj{}
	}
	if f != nil {
		f.Fields.Copy(M.frames[M.next].Fields)
		f.Time = M.frames[M.next].Time
	}
	M.next++
	return nil
}

func TestAnalyzeTrajAndSave(Te *testing.T) {
	frames := trajectory(7, 8, 12, false)
	r, err := Analyze(context.Background(), &memTraj{frames: frames}, box, mags, options(2, 3, 3))
	require.NoError(Te, err)
	assert.Equal(Te, []int{2, 4, 6}, r.FrameIndex)

	name := filepath.Join(Te.TempDir(), "nematic.json.zst")
	require.NoError(Te, r.Save(name))
	A, err := store.Load(name)
	require.NoError(Te, err)
	for _, n := range []string{TimeName, OrderName, DirectorName, KMagName, FrameIndexName} {
		assert.NotNil(Te, A.Array(n), n)
	}
	for axis := 0; axis < 3; axis++ {
		sf := A.Array(StructFactorName(axis))
		require.NotNil(Te, sf)
		assert.Equal(Te, []int{len(mags), 3}, sf.Shape)
		assert.NotNil(Te, A.Array(FluctStructFactorName(axis)))
		assert.NotNil(Te, A.Array(DensityStructFactorName(axis)))
	}
	assert.Equal(Te, []int{3, 3}, A.Array(DirectorName).Shape)
	assert.InDelta(Te, r.Orders[1].S, A.Array(OrderName).Data[1], 0)
	start, err := A.Int("ts_start")
	require.NoError(Te, err)
	assert.Equal(Te, 2, start)
	st, err := A.String("self_term")
	require.NoError(Te, err)
	assert.Equal(Te, "reference", st)
	floor, err := A.Float("fluct_sf_floor")
	require.NoError(Te, err)
	assert.InDelta(Te, -2.0/12, floor, 1e-15)
	low, err := A.Floats("box_lower")
	require.NoError(Te, err)
	assert.Equal(Te, []float64{-5, -5, -5}, low)
	sk, err := A.Floats("skipped_frames")
	require.NoError(Te, err)
	assert.Empty(Te, sk)
}
