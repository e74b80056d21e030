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
Package v3 implements a Matrix type representing a row-major set of 3D vectors (i.e. a Nx3 matrix).
The v3.Matrix is used for particle endpoints, centers of mass, unit orientations and
wavevectors throughout aLENS-analysis. It is based on gonum's Dense type, with the additional
restriction of a fixed number of columns, and some functions that are useful
when handling sylinder data.

Each row of a Matrix is one vector. Prefer the Vec* methods over the Row* methods of
the embedded Dense when manipulating a Matrix.
*/
package v3
