/*
 * interfaces.go, part of aLENS-analysis.
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

// Traj is an interface for any sylinder trajectory object.
type Traj interface {

	//Is the trajectory ready to be read?
	Readable() bool

	//Next reads the next frame into f. If f is nil, the frame is read and discarded.
	//At the end of the trajectory it returns an error implementing LastFrameError.
	Next(f *Frame) error

	//Returns the number of sylinders per frame
	Len() int

	//Returns the number of fields per sylinder
	Fields() int
}

// BoxTraj is a trajectory that also knows the simulation box.
type BoxTraj interface {
	Traj
	Box() (Box, error)
}

// TrajError is the interface for errors in trajectories
type TrajError interface {
	Error() string
	Decorate(string) []string
	Critical() bool
	FileName() string
	Format() string
}

// LastFrameError has a useless function to distinguish the harmless errors (i.e. last frame) so they can be
// filtered in a typeswitch that looks for this interface.
type LastFrameError interface {
	TrajError
	NormalLastFrameTermination() //does nothing, just to separate this interface from other TrajError's
}
