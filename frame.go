/*
 * frame.go, part of aLENS-analysis.
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

// Column layout of the raw sylinder data.
const (
	GIDField   = 0
	GroupField = 1
	MinusField = 2 //minus end, columns 2,3,4
	PlusField  = 5 //plus end, columns 5,6,7
	MinFields  = 8
)

// Frame is one snapshot of the sylinders: one row per sylinder, and the
// simulation time of the snapshot.
type Frame struct {
	Fields *mat.Dense
	Time   float64
}

// NewFrame returns a zero-filled frame for sylinders rows with fields columns.
func NewFrame(sylinders, fields int) *Frame {
	return &Frame{Fields: mat.NewDense(sylinders, fields, nil)}
}

// Len returns the number of sylinders in the frame.
func (f *Frame) Len() int {
	r, _ := f.Fields.Dims()
	return r
}

// NFields returns the number of fields per sylinder.
func (f *Frame) NFields() int {
	_, c := f.Fields.Dims()
	return c
}

// Check returns a malformed input error if the frame can't hold endpoints.
func (f *Frame) Check() error {
	if f == nil || f.Fields == nil {
		return NewError(ErrMalformedInput, "Frame.Check", "nil frame")
	}
	if f.NFields() < MinFields {
		return NewError(ErrMalformedInput, "Frame.Check", "sylinder data needs at least %d fields, got %d", MinFields, f.NFields())
	}
	return nil
}

// Copy returns a deep copy of the frame.
func (f *Frame) Copy() *Frame {
	return &Frame{Fields: mat.DenseCopyOf(f.Fields), Time: f.Time}
}

// MinusEnds returns a view of the minus ends. Changes in the view are
// reflected in the frame.
func (f *Frame) MinusEnds() *v3.Matrix {
	return v3.Dense2Matrix(f.Fields.Slice(0, f.Len(), MinusField, MinusField+3).(*mat.Dense))
}

// PlusEnds returns a view of the plus ends.
func (f *Frame) PlusEnds() *v3.Matrix {
	return v3.Dense2Matrix(f.Fields.Slice(0, f.Len(), PlusField, PlusField+3).(*mat.Dense))
}

// Bonds returns a new matrix with the bond vectors, plus end minus minus end.
func (f *Frame) Bonds() *v3.Matrix {
	b := v3.Zeros(f.Len())
	b.Sub(f.PlusEnds().Dense, f.MinusEnds().Dense)
	return b
}

// Centers returns a new matrix with the center of each sylinder, the midpoint
// of its endpoints.
func (f *Frame) Centers() *v3.Matrix {
	c := v3.Zeros(f.Len())
	c.Add(f.PlusEnds().Dense, f.MinusEnds().Dense)
	c.Scale(0.5, c.Dense)
	return c
}
