/*
 * options.go, part of aLENS-analysis.
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

package sfactor

import (
	"strings"

	nematic "github.com/flatironinstitute/aLENS-analysis"
)

// SelfTerm selects the constant subtracted from the squared Fourier sums to
// remove the i=j (same particle) terms.
type SelfTerm int

const (
	// SelfTermReference subtracts 2N, for both the tensor and the density fields.
	// The fluctuation structure factor is then bounded below by -2/N, see FluctuationFloor.
	SelfTermReference SelfTerm = iota
	// SelfTermExact subtracts the exact diagonal, the sum over particles of the
	// squared field (Σ Q:Q for tensors, N for the density).
	SelfTermExact
	// SelfTermNone subtracts nothing.
	SelfTermNone
)

func (s SelfTerm) String() string {
	switch s {
	case SelfTermReference:
		return "reference"
	case SelfTermExact:
		return "exact"
	case SelfTermNone:
		return "none"
	}
	return "unknown"
}

// ParseSelfTerm returns the SelfTerm with the given name (see String).
func ParseSelfTerm(name string) (SelfTerm, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "reference":
		return SelfTermReference, nil
	case "exact":
		return SelfTermExact, nil
	case "none":
		return SelfTermNone, nil
	}
	return SelfTermReference, nematic.NewError(nematic.ErrMalformedInput, "ParseSelfTerm", "unknown self-term correction %q", name)
}

// Bytes of the phase block (k·r, then cos and sin) per particle and wavevector.
const bytesPerPhase = 16

// Options contains the tunables of the structure factor engine.
// None of them changes the result, except the self-term correction.
type Options struct {
	chunk    int
	selfTerm SelfTerm
	maxBytes int64
	device   nematic.Device
}

// DefaultOptions returns chunks of 10 wavevectors, the reference self-term,
// a 1 GiB bound on the phase blocks, and the default device.
func DefaultOptions() *Options {
	return &Options{
		chunk:    10,
		selfTerm: SelfTermReference,
		maxBytes: 1 << 30,
		device:   nematic.DefaultDevice(),
	}
}

// ChunkSize returns the number of wavevectors processed together,
// and sets it to a new value, if given.
// Invalid values are not filtered here, Check reports them.
func (O *Options) ChunkSize(n ...int) int {
	if len(n) > 0 {
		O.chunk = n[0]
	}
	return O.chunk
}

// Self returns the self-term correction, and sets it, if given.
func (O *Options) Self(s ...SelfTerm) SelfTerm {
	if len(s) > 0 {
		O.selfTerm = s[0]
	}
	return O.selfTerm
}

// MaxBytes returns the bound on the memory used by the phase blocks of the
// concurrently processed chunks, and sets it to a new value, if a positive one is given.
func (O *Options) MaxBytes(b ...int64) int64 {
	if len(b) > 0 && b[0] > 0 {
		O.maxBytes = b[0]
	}
	return O.maxBytes
}

// Device returns the compute device, and sets it, if given.
func (O *Options) Device(d ...nematic.Device) nematic.Device {
	if len(d) > 0 {
		O.device = d[0]
	}
	return O.device
}

// Check validates the options for n particles. A non-positive chunk size is a
// configuration error; a chunk too large for the memory bound is a resource error.
func (O *Options) Check(n int) error {
	if err := O.device.Check(); err != nil {
		return nematic.Decorate(err, "Options.Check")
	}
	if O.chunk < 1 {
		return nematic.NewError(nematic.ErrMalformedInput, "Options.Check", "chunk size must be positive, got %d", O.chunk)
	}
	if O.selfTerm < SelfTermReference || O.selfTerm > SelfTermNone {
		return nematic.NewError(nematic.ErrMalformedInput, "Options.Check", "unknown self-term correction %d", int(O.selfTerm))
	}
	need := int64(n) * int64(O.chunk) * bytesPerPhase * int64(O.device.Workers)
	if need > O.maxBytes {
		return nematic.NewError(nematic.ErrResource, "Options.Check",
			"chunks of %d wavevectors for %d particles on %d workers need %d bytes, over the %d bytes bound: reduce the chunk size or the workers",
			O.chunk, n, O.device.Workers, need, O.maxBytes)
	}
	return nil
}
