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

package series

import (
	"strings"

	nematic "github.com/flatironinstitute/aLENS-analysis"
	"github.com/flatironinstitute/aLENS-analysis/sfactor"
)

// DegeneratePolicy decides what happens to a sampled frame with a
// numerical degeneracy (a zero-length bond, for instance).
type DegeneratePolicy int

const (
	// SkipDegenerate leaves the frame out of the results and records its index.
	SkipDegenerate DegeneratePolicy = iota
	// FailOnDegenerate aborts the analysis.
	FailOnDegenerate
)

func (p DegeneratePolicy) String() string {
	if p == FailOnDegenerate {
		return "fail"
	}
	return "skip"
}

// ParseDegeneratePolicy returns the policy named "skip" or "fail".
func ParseDegeneratePolicy(name string) (DegeneratePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "skip":
		return SkipDegenerate, nil
	case "fail":
		return FailOnDegenerate, nil
	}
	return SkipDegenerate, nematic.NewError(nematic.ErrMalformedInput, "ParseDegeneratePolicy", "unknown degenerate frame policy %q", name)
}

// Options contains the parameters of a time series analysis.
type Options struct {
	start         int
	samples       int
	degenerate    DegeneratePolicy
	maxDegenerate float64
	verbose       bool
	sf            *sfactor.Options
}

// DefaultOptions returns options that sample 100 frames from the first one,
// skip degenerate frames unless more than half of them are, and use the
// default structure factor options.
func DefaultOptions() *Options {
	return &Options{
		samples:       100,
		degenerate:    SkipDegenerate,
		maxDegenerate: 0.5,
		sf:            sfactor.DefaultOptions(),
	}
}

// Start returns the index of the first frame analyzed, and sets it to a new value, if
// a non-negative one is given.
func (O *Options) Start(n ...int) int {
	if len(n) > 0 && n[0] >= 0 {
		O.start = n[0]
	}
	return O.start
}

// Samples returns the target number of sampled frames, and sets it, if given.
func (O *Options) Samples(n ...int) int {
	if len(n) > 0 {
		O.samples = n[0]
	}
	return O.samples
}

// Degenerate returns the degenerate frame policy, and sets it, if given.
func (O *Options) Degenerate(p ...DegeneratePolicy) DegeneratePolicy {
	if len(p) > 0 {
		O.degenerate = p[0]
	}
	return O.degenerate
}

// MaxDegenerateFraction returns the largest fraction of sampled frames that
// can be skipped before the whole analysis fails, and sets it if a value
// in [0,1] is given.
func (O *Options) MaxDegenerateFraction(f ...float64) float64 {
	if len(f) > 0 && f[0] >= 0 && f[0] <= 1 {
		O.maxDegenerate = f[0]
	}
	return O.maxDegenerate
}

// Verbose returns whether progress is logged for each frame, and sets it, if given.
func (O *Options) Verbose(v ...bool) bool {
	if len(v) > 0 {
		O.verbose = v[0]
	}
	return O.verbose
}

// SF returns the structure factor options. Changes to the returned
// value affect O. Its device also sets the frame parallelism.
func (O *Options) SF() *sfactor.Options {
	if O.sf == nil {
		O.sf = sfactor.DefaultOptions()
	}
	return O.sf
}
