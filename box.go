/*
 * box.go, part of aLENS-analysis.
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
	"math"
	"runtime"
)

// Box is the axis-aligned, periodic simulation box.
type Box struct {
	Lower [3]float64
	Upper [3]float64
}

// NewBox builds a Box from the lower and upper corners, as stored in
// aLENS run configurations (simBoxLow, simBoxHigh), and checks it.
func NewBox(lower, upper []float64) (Box, error) {
	var b Box
	if len(lower) != 3 || len(upper) != 3 {
		return b, NewError(ErrMalformedInput, "NewBox", "box corners need 3 components each, got %d and %d", len(lower), len(upper))
	}
	copy(b.Lower[:], lower)
	copy(b.Upper[:], upper)
	return b, b.Check()
}

// Check returns a malformed input error unless Lower < Upper on every axis.
func (b Box) Check() error {
	for i := 0; i < 3; i++ {
		if math.IsNaN(b.Lower[i]) || math.IsNaN(b.Upper[i]) || math.IsInf(b.Lower[i], 0) || math.IsInf(b.Upper[i], 0) {
			return NewError(ErrMalformedInput, "Box.Check", "non-finite box bound on axis %d", i)
		}
		if b.Lower[i] >= b.Upper[i] {
			return NewError(ErrMalformedInput, "Box.Check", "box lower bound %g not below upper bound %g on axis %d", b.Lower[i], b.Upper[i], i)
		}
	}
	return nil
}

// Extent returns the box length along each axis.
func (b Box) Extent() [3]float64 {
	return [3]float64{b.Upper[0] - b.Lower[0], b.Upper[1] - b.Lower[1], b.Upper[2] - b.Lower[2]}
}

// MinExtent returns the smallest box length.
func (b Box) MinExtent() float64 {
	e := b.Extent()
	return math.Min(e[0], math.Min(e[1], e[2]))
}

// Device is the compute back-end used by the numeric components. It is
// passed explicitly to whatever needs it.
type Device struct {
	Name    string //only "cpu" (gonum's pure-Go BLAS) is available.
	Workers int    //goroutines used for frame and chunk parallelism.
}

// DefaultDevice returns the cpu back-end with all logical CPUs.
func DefaultDevice() Device {
	return Device{Name: "cpu", Workers: runtime.NumCPU()}
}

// Check returns a malformed input error for unknown back-ends or a
// non-positive number of workers.
func (d Device) Check() error {
	if d.Name != "cpu" {
		return NewError(ErrMalformedInput, "Device.Check", "unsupported compute device %q, only \"cpu\" is available", d.Name)
	}
	if d.Workers < 1 {
		return NewError(ErrMalformedInput, "Device.Check", "device needs at least 1 worker, got %d", d.Workers)
	}
	return nil
}
