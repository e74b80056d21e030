/*
 * series.go, part of aLENS-analysis.
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

// Package series drives the nematic analysis over a trajectory: it samples frames
// uniformly, and obtains for each sampled frame the order parameter, the director
// and the structure factors along the three cartesian wavevector sweeps.
package series

import (
	"context"
	"errors"
	"fmt"
	"log"

	nematic "github.com/flatironinstitute/aLENS-analysis"
	"github.com/flatironinstitute/aLENS-analysis/sfactor"
	v3 "github.com/flatironinstitute/aLENS-analysis/v3"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

// Result contains the values derived from each sampled frame, in trajectory order.
// The structure factor matrices have one row per wavevector magnitude and
// one column per kept frame. Axis 0, 1 and 2 are the sweeps along x, y and z.
type Result struct {
	Time       []float64
	FrameIndex []int
	Orders     []nematic.Order
	KMag       []float64

	StructFactor        [3]*mat.Dense
	FluctStructFactor   [3]*mat.Dense
	DensityStructFactor [3]*mat.Dense

	//trajectory indexes of the sampled frames left out for being degenerate.
	SkippedFrames []int

	//particles per frame.
	Particles int

	Start     int
	Samples   int
	Stride    int
	ChunkSize int
	SelfTerm  sfactor.SelfTerm
	Box       nematic.Box
}

// Len returns the number of frames in the result.
func (R *Result) Len() int {
	return len(R.FrameIndex)
}

// Sample returns the indexes of at most n frames, evenly spaced from start,
// of a trajectory with total frames, and the stride between them.
// The stride is (total-start)/n, but never less than 1.
// A trajectory with no frames at or after start gives an insufficient data error.
func Sample(total, start, n int) ([]int, int, error) {
	if n < 1 {
		return nil, 0, nematic.NewError(nematic.ErrMalformedInput, "Sample", "number of samples must be positive, got %d", n)
	}
	if start < 0 {
		return nil, 0, nematic.NewError(nematic.ErrMalformedInput, "Sample", "negative start frame %d", start)
	}
	if total <= start {
		return nil, 0, nematic.NewError(nematic.ErrInsufficientData, "Sample", "trajectory has %d frames, the analysis starts at frame %d", total, start)
	}
	stride := max((total-start)/n, 1)
	idx := make([]int, 0, n)
	for i := start; i < total && len(idx) < n; i += stride {
		idx = append(idx, i)
	}
	return idx, stride, nil
}

// ReadAll reads all the remaining frames of t.
func ReadAll(t nematic.Traj) ([]*nematic.Frame, error) {
	if t == nil || !t.Readable() {
		return nil, nematic.NewError(nematic.ErrMalformedInput, "ReadAll", "trajectory not readable")
	}
	if t.Len() < 1 {
		return nil, nematic.NewError(nematic.ErrDegenerate, "ReadAll", "trajectory frames have no sylinders")
	}
	if t.Fields() < nematic.MinFields {
		return nil, nematic.NewError(nematic.ErrMalformedInput, "ReadAll", "sylinder data needs at least %d fields, got %d", nematic.MinFields, t.Fields())
	}
	var frames []*nematic.Frame
	for {
		f := nematic.NewFrame(t.Len(), t.Fields())
		err := t.Next(f)
		if err != nil {
			var last nematic.LastFrameError
			if errors.As(err, &last) {
				break
			}
			return nil, nematic.Decorate(err, "ReadAll")
		}
		frames = append(frames, f)
	}
	return frames, nil
}

// Analyze reads the whole trajectory t and analyzes it with AnalyzeFrames.
func Analyze(ctx context.Context, t nematic.Traj, box nematic.Box, mags []float64, o *Options) (*Result, error) {
	frames, err := ReadAll(t)
	if err != nil {
		return nil, nematic.Decorate(err, "Analyze")
	}
	r, err := AnalyzeFrames(ctx, frames, box, mags, o)
	if err != nil {
		return nil, nematic.Decorate(err, "Analyze")
	}
	return r, nil
}

// per-frame results.
type frameResult struct {
	order   nematic.Order
	sf      [3][]float64
	fluct   [3][]float64
	density [3][]float64
	skipped bool
}

// AnalyzeFrames corrects the periodic boundaries of frames as one batch, samples them
// as Sample does, and analyzes each sampled frame at the wavevectors with the magnitudes
// in mags along each cartesian axis. frames is not modified. A nil o means DefaultOptions.
//
// Frames are analyzed concurrently by the workers of the structure factor device.
// Degenerate frames are handled following the options' DegeneratePolicy.
// If there are no frames to analyze, an insufficient data error is returned.
// The analysis stops when ctx is cancelled.
func AnalyzeFrames(ctx context.Context, frames []*nematic.Frame, box nematic.Box, mags []float64, o *Options) (*Result, error) {
	if o == nil {
		o = DefaultOptions()
	}
	idx, stride, err := Sample(len(frames), o.Start(), o.Samples())
	if err != nil {
		return nil, nematic.Decorate(err, "AnalyzeFrames")
	}
	if len(mags) == 0 {
		return nil, nematic.NewError(nematic.ErrDegenerate, "AnalyzeFrames", "no wavevector magnitudes")
	}
	corrected, err := nematic.CorrectPBC(frames, box)
	if err != nil {
		return nil, nematic.Decorate(err, "AnalyzeFrames")
	}
	dev := o.SF().Device()
	if err := dev.Check(); err != nil {
		return nil, nematic.Decorate(err, "AnalyzeFrames")
	}
	//up to dev.Workers frames, or one frame on dev.Workers workers, hold phase blocks at once.
	if err := o.SF().Check(corrected[0].Len()); err != nil {
		return nil, nematic.Decorate(err, "AnalyzeFrames")
	}
	inner := *o.SF()
	if len(idx) > 1 {
		inner.Device(nematic.Device{Name: dev.Name, Workers: 1})
	}
	sweeps := sfactor.AxisSweeps(mags)
	slots := make([]frameResult, len(idx))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(dev.Workers)
	for j, fi := range idx {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := analyzeFrame(corrected[fi], sweeps, &inner)
			if err != nil {
				if errors.Is(err, nematic.ErrDegenerate) && o.Degenerate() == SkipDegenerate {
					log.Printf("AnalyzeFrames: frame %d skipped: %s", fi, err.Error())
					slots[j].skipped = true
					return nil
				}
				return nematic.Decorate(err, fmt.Sprintf("AnalyzeFrames: frame %d", fi))
			}
			if o.Verbose() {
				log.Printf("frame %d t=%g %s", fi, corrected[fi].Time, res.order)
			}
			slots[j] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return collect(corrected, idx, slots, stride, mags, box, o)
}

// collect builds the result from the per-frame slots.
func collect(frames []*nematic.Frame, idx []int, slots []frameResult, stride int, mags []float64, box nematic.Box, o *Options) (*Result, error) {
	R := &Result{
		KMag:          append([]float64(nil), mags...),
		SkippedFrames: []int{},
		Start:         o.Start(),
		Samples:       o.Samples(),
		Stride:        stride,
		ChunkSize:     o.SF().ChunkSize(),
		SelfTerm:      o.SF().Self(),
		Box:           box,
		Particles:     frames[0].Len(),
	}
	var kept []frameResult
	for j, s := range slots {
		if s.skipped {
			R.SkippedFrames = append(R.SkippedFrames, idx[j])
			continue
		}
		kept = append(kept, s)
		R.FrameIndex = append(R.FrameIndex, idx[j])
		R.Time = append(R.Time, frames[idx[j]].Time)
		R.Orders = append(R.Orders, s.order)
	}
	if ns := len(R.SkippedFrames); float64(ns) > o.MaxDegenerateFraction()*float64(len(idx)) || len(kept) == 0 {
		return nil, nematic.NewError(nematic.ErrDegenerate, "AnalyzeFrames", "%d of the %d sampled frames are degenerate", ns, len(idx))
	}
	if len(R.SkippedFrames) > 0 {
		log.Printf("AnalyzeFrames: %d of %d sampled frames skipped", len(R.SkippedFrames), len(idx))
	}
	for axis := 0; axis < 3; axis++ {
		R.StructFactor[axis] = mat.NewDense(len(mags), len(kept), nil)
		R.FluctStructFactor[axis] = mat.NewDense(len(mags), len(kept), nil)
		R.DensityStructFactor[axis] = mat.NewDense(len(mags), len(kept), nil)
		for c, s := range kept {
			R.StructFactor[axis].SetCol(c, s.sf[axis])
			R.FluctStructFactor[axis].SetCol(c, s.fluct[axis])
			R.DensityStructFactor[axis].SetCol(c, s.density[axis])
		}
	}
	return R, nil
}

// analyzeFrame obtains all the values derived from one frame.
func analyzeFrame(f *nematic.Frame, sweeps [3]*v3.Matrix, o *sfactor.Options) (frameResult, error) {
	var ret frameResult
	u, err := nematic.Orientations(f)
	if err != nil {
		return ret, err
	}
	Q, err := nematic.OrderTensor(u)
	if err != nil {
		return ret, err
	}
	if ret.order, err = nematic.Extract(Q); err != nil {
		return ret, err
	}
	q := nematic.ParticleTensors(u)
	r := f.Centers()
	for axis, k := range sweeps {
		if ret.sf[axis], err = sfactor.Tensor(q, r, k, o); err != nil {
			return ret, err
		}
		if ret.fluct[axis], err = sfactor.Fluctuation(q, r, k, o); err != nil {
			return ret, err
		}
		if ret.density[axis], err = sfactor.Density(r, k, o); err != nil {
			return ret, err
		}
	}
	return ret, nil
}
