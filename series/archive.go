/*
 * archive.go, part of aLENS-analysis.
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
	nematic "github.com/flatironinstitute/aLENS-analysis"
	"github.com/flatironinstitute/aLENS-analysis/sfactor"
	"github.com/flatironinstitute/aLENS-analysis/store"
)

// Names of the arrays in a stored result.
const (
	TimeName          = "time"
	OrderName         = "nematic_order"
	DirectorName      = "nematic_director"
	KMagName          = "k_mag"
	FrameIndexName    = "frame_index"
	structFactorBase  = "struct_factor_"
	fluctFactorBase   = "fluct_struct_factor_"
	densityFactorBase = "density_struct_factor_"
)

var axisSuffix = [3]string{"x", "y", "z"}

// StructFactorName returns the name of the stored tensor structure factor along the axis.
func StructFactorName(axis int) string { return structFactorBase + axisSuffix[axis] }

// FluctStructFactorName returns the name of the stored fluctuation structure factor along the axis.
func FluctStructFactorName(axis int) string { return fluctFactorBase + axisSuffix[axis] }

// DensityStructFactorName returns the name of the stored density structure factor along the axis.
func DensityStructFactorName(axis int) string { return densityFactorBase + axisSuffix[axis] }

// Archive returns the result as named arrays, with the analysis parameters
// as attributes.
func (R *Result) Archive() (*store.Archive, error) {
	A := store.New()
	n := R.Len()
	S := make([]float64, n)
	dir := make([]float64, 0, 3*n)
	fi := make([]float64, n)
	for i, o := range R.Orders {
		S[i] = o.S
		dir = append(dir, o.Director[:]...)
		fi[i] = float64(R.FrameIndex[i])
	}
	errs := []error{
		A.Put(TimeName, append([]float64{}, R.Time...)),
		A.Put(OrderName, S),
		A.Put(DirectorName, dir, n, 3),
		A.Put(KMagName, append([]float64{}, R.KMag...)),
		A.Put(FrameIndexName, fi),
	}
	for axis := 0; axis < 3; axis++ {
		errs = append(errs,
			A.PutDense(StructFactorName(axis), R.StructFactor[axis]),
			A.PutDense(FluctStructFactorName(axis), R.FluctStructFactor[axis]),
			A.PutDense(DensityStructFactorName(axis), R.DensityStructFactor[axis]))
	}
	for _, err := range errs {
		if err != nil {
			return nil, nematic.Decorate(err, "Result.Archive")
		}
	}
	A.SetAttr("ts_start", R.Start)
	A.SetAttr("n_samples", R.Samples)
	A.SetAttr("stride", R.Stride)
	A.SetAttr("chunk_size", R.ChunkSize)
	A.SetAttr("self_term", R.SelfTerm.String())
	//fluctuation structure factor of a homogeneous field, the baseline of the fluct arrays.
	A.SetAttr("fluct_sf_floor", sfactor.FluctuationFloor(R.Particles, R.SelfTerm))
	A.SetAttr("box_lower", append([]float64{}, R.Box.Lower[:]...))
	A.SetAttr("box_upper", append([]float64{}, R.Box.Upper[:]...))
	A.SetAttr("skipped_frames", append([]int{}, R.SkippedFrames...))
	return A, nil
}

// Save writes the result archive to the file name.
func (R *Result) Save(name string) error {
	A, err := R.Archive()
	if err != nil {
		return nematic.Decorate(err, "Result.Save")
	}
	if err := A.Save(name); err != nil {
		return nematic.Decorate(err, "Result.Save")
	}
	return nil
}
