/*
 * pbc.go, part of aLENS-analysis.
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
	"log"
	"math"
)

// MaxBondLength returns the length of the longest bond (plus end minus
// minus end) in all the given frames.
func MaxBondLength(frames []*Frame) float64 {
	var longest float64
	for _, f := range frames {
		fields := f.Fields.RawMatrix()
		for i := 0; i < f.Len(); i++ {
			row := fields.Data[i*fields.Stride : i*fields.Stride+MinFields]
			var n2 float64
			for a := 0; a < 3; a++ {
				d := row[PlusField+a] - row[MinusField+a]
				n2 += d * d
			}
			longest = math.Max(longest, math.Sqrt(n2))
		}
	}
	return longest
}

// checkBatch verifies that all frames can be processed as one batch.
func checkBatch(frames []*Frame, caller string) error {
	if len(frames) == 0 {
		return NewError(ErrMalformedInput, caller, "no frames given")
	}
	for i, f := range frames {
		if err := f.Check(); err != nil {
			return errDecorate(err, caller)
		}
		if f.Len() != frames[0].Len() || f.NFields() != frames[0].NFields() {
			return NewError(ErrMalformedInput, caller, "frame %d has %dx%d fields, frame 0 has %dx%d", i, f.Len(), f.NFields(), frames[0].Len(), frames[0].NFields())
		}
	}
	return nil
}

// CorrectPBC removes the periodic wrap-around from the sylinder endpoints
// of a batch of frames. The returned frames are new; the input is not modified.
//
// If the longest bond in the whole batch is shorter than half the smallest box
// length, the data is already unwrapped and the copies are returned with no
// change. Otherwise, for each sylinder, frame and axis, the plus end is first
// moved by one box length whenever the bond component exceeds half the box
// length, and then both ends are moved by one box length if the recomputed
// center lies outside the box. The bond correction must come first.
func CorrectPBC(frames []*Frame, box Box) ([]*Frame, error) {
	if err := box.Check(); err != nil {
		return nil, errDecorate(err, "CorrectPBC")
	}
	if err := checkBatch(frames, "CorrectPBC"); err != nil {
		return nil, err
	}
	ret := make([]*Frame, len(frames))
	for i, f := range frames {
		ret[i] = f.Copy()
	}
	ext := box.Extent()
	if MaxBondLength(frames) < 0.5*box.MinExtent() {
		log.Printf("CorrectPBC: no periodic boundary correction needed")
		return ret, nil
	}
	for _, f := range ret {
		fields := f.Fields.RawMatrix()
		for i := 0; i < f.Len(); i++ {
			row := fields.Data[i*fields.Stride : i*fields.Stride+MinFields]
			for a := 0; a < 3; a++ {
				minus, plus := row[MinusField+a], row[PlusField+a]
				bond := plus - minus
				if bond > 0.5*ext[a] {
					plus -= ext[a]
				} else if bond < -0.5*ext[a] {
					plus += ext[a]
				}
				center := 0.5 * (plus + minus)
				if center > box.Upper[a] {
					plus -= ext[a]
					minus -= ext[a]
				} else if center < box.Lower[a] {
					plus += ext[a]
					minus += ext[a]
				}
				row[MinusField+a], row[PlusField+a] = minus, plus
			}
		}
	}
	return ret, nil
}

// CorrectFramePBC is CorrectPBC for a single frame. The short-circuit
// only looks at this frame.
func CorrectFramePBC(f *Frame, box Box) (*Frame, error) {
	r, err := CorrectPBC([]*Frame{f}, box)
	if err != nil {
		return nil, errDecorate(err, "CorrectFramePBC")
	}
	return r[0], nil
}
