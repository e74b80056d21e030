/*
 * doc.go, part of aLENS-analysis.
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

/*
Package nematic is the main package of aLENS-analysis. It provides the frame and box
types for sylinder (rod-like particle) trajectories produced by aLENS, and the
orientational-order core built on them:

	Periodic boundary correction of sylinder endpoints (CorrectPBC).

	Unit orientations, centers of mass and the per-particle nematic tensor field.

	The ensemble nematic order tensor Q = <u u> - I/3.

	The scalar order parameter and the director, from an exact symmetric
	eigendecomposition, with the director sign fixed so that its z component
	is never negative.

The structure factor of the tensor field lives in the sfactor package, and the
per-frame time series driver in the series package. Trajectory files are read with
the traj/syl package, and results are stored with the store package.

Each row of a Frame is one sylinder. Columns 2 to 4 hold the minus end and columns 5 to 7
the plus end; any other column is carried along untouched.
*/
package nematic
