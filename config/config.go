/*
 * config.go, part of aLENS-analysis.
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

// Package config reads the analysis parameters (an INI-style file) and
// the simulation box from aLENS run configurations.
package config

import (
	"runtime"
	"strings"

	nematic "github.com/flatironinstitute/aLENS-analysis"
	"github.com/flatironinstitute/aLENS-analysis/series"
	"github.com/flatironinstitute/aLENS-analysis/sfactor"
	"gopkg.in/gcfg.v1"
)

// ExampleAnalysisFile is a commented analysis file with the default values.
const ExampleAnalysisFile = `[Analysis]

# First frame analyzed. Shorter trajectories are skipped.
Start = 0
# Number of frames sampled, evenly spaced, from Start to the end.
Samples = 100

#######################
# Optional Parameters #
#######################

# Number of wavevectors whose phases are held in memory together, per worker.
# ChunkSize = 10
# Goroutines used. 0 means one per CPU.
# Workers = 0
# Device = cpu
# Self-term correction of the structure factors: reference (2N), exact or none.
# SelfTerm = reference
# What to do with frames with zero-length sylinders: skip or fail.
# Degenerate = skip
# The analysis fails if a larger fraction of the sampled frames is skipped.
# MaxDegenerateFraction = 0.5
# Bound, in bytes, on the phase blocks held in memory at the same time.
# MaxBytes = 1073741824
# Verbose = false

[Wavevectors]
# Magnitudes of the wavevectors along each axis. Spacing can be linear
# (Count values from Min to Max) or commensurate (the first Count multiples
# of 2*pi/L, for the shortest box length L; Min and Max are ignored).
Spacing = linear
Min = 0.1
Max = 10
Count = 100`

// AnalysisConfig holds the [Analysis] section.
type AnalysisConfig struct {
	Start                 int
	Samples               int
	ChunkSize             int
	Workers               int
	Device                string
	SelfTerm              string
	Degenerate            string
	MaxDegenerateFraction float64
	MaxBytes              int64
	Verbose               bool
}

// WavevectorConfig holds the [Wavevectors] section.
type WavevectorConfig struct {
	Spacing string
	Min     float64
	Max     float64
	Count   int
}

// Wrapper holds a whole analysis file.
type Wrapper struct {
	Analysis    AnalysisConfig
	Wavevectors WavevectorConfig
}

// DefaultWrapper returns the values used for parameters missing from a file.
func DefaultWrapper() *Wrapper {
	so := series.DefaultOptions()
	return &Wrapper{
		Analysis: AnalysisConfig{
			Start:                 so.Start(),
			Samples:               so.Samples(),
			ChunkSize:             so.SF().ChunkSize(),
			Device:                "cpu",
			SelfTerm:              so.SF().Self().String(),
			Degenerate:            so.Degenerate().String(),
			MaxDegenerateFraction: so.MaxDegenerateFraction(),
			MaxBytes:              so.SF().MaxBytes(),
		},
		Wavevectors: WavevectorConfig{
			Spacing: "linear",
			Min:     0.1,
			Max:     10,
			Count:   100,
		},
	}
}

// ReadFile reads the analysis file name on top of the defaults, and checks it.
func ReadFile(name string) (*Wrapper, error) {
	w := DefaultWrapper()
	if err := gcfg.ReadFileInto(w, name); err != nil {
		return nil, nematic.NewError(nematic.ErrMalformedInput, "config.ReadFile", "%s: %s", name, err.Error())
	}
	if err := w.CheckInit(); err != nil {
		return nil, nematic.Decorate(err, "config.ReadFile "+name)
	}
	return w, nil
}

// ReadString is ReadFile for the contents of a file.
func ReadString(str string) (*Wrapper, error) {
	w := DefaultWrapper()
	if err := gcfg.ReadStringInto(w, str); err != nil {
		return nil, nematic.NewError(nematic.ErrMalformedInput, "config.ReadString", "%s", err.Error())
	}
	if err := w.CheckInit(); err != nil {
		return nil, nematic.Decorate(err, "config.ReadString")
	}
	return w, nil
}

// CheckInit fills in the values that depend on the machine (Workers = 0 means
// one per CPU) and returns an error for any invalid value.
func (w *Wrapper) CheckInit() error {
	con := &w.Analysis
	if con.Workers == 0 {
		con.Workers = runtime.NumCPU()
	}
	if con.Device == "" {
		con.Device = "cpu"
	}
	if _, err := w.SeriesOptions(); err != nil {
		return nematic.Decorate(err, "CheckInit")
	}
	wv := &w.Wavevectors
	wv.Spacing = strings.ToLower(strings.TrimSpace(wv.Spacing))
	switch wv.Spacing {
	case "linear":
		if _, err := sfactor.Linear(wv.Min, wv.Max, wv.Count); err != nil {
			return nematic.Decorate(err, "CheckInit")
		}
	case "commensurate":
		if wv.Count < 1 {
			return nematic.NewError(nematic.ErrMalformedInput, "CheckInit", "Count must be positive, got %d", wv.Count)
		}
	default:
		return nematic.NewError(nematic.ErrMalformedInput, "CheckInit", "unknown wavevector Spacing %q, use linear or commensurate", wv.Spacing)
	}
	return nil
}

// SeriesOptions returns the time series options described by the [Analysis] section.
func (w *Wrapper) SeriesOptions() (*series.Options, error) {
	con := &w.Analysis
	o := series.DefaultOptions()
	if con.Start < 0 {
		return nil, nematic.NewError(nematic.ErrMalformedInput, "SeriesOptions", "negative Start %d", con.Start)
	}
	if con.Samples < 1 {
		return nil, nematic.NewError(nematic.ErrMalformedInput, "SeriesOptions", "Samples must be positive, got %d", con.Samples)
	}
	if con.MaxDegenerateFraction < 0 || con.MaxDegenerateFraction > 1 {
		return nil, nematic.NewError(nematic.ErrMalformedInput, "SeriesOptions", "MaxDegenerateFraction must be in [0,1], got %g", con.MaxDegenerateFraction)
	}
	if con.ChunkSize < 1 {
		return nil, nematic.NewError(nematic.ErrMalformedInput, "SeriesOptions", "ChunkSize must be positive, got %d", con.ChunkSize)
	}
	if con.MaxBytes <= 0 {
		return nil, nematic.NewError(nematic.ErrMalformedInput, "SeriesOptions", "MaxBytes must be positive, got %d", con.MaxBytes)
	}
	o.Start(con.Start)
	o.Samples(con.Samples)
	o.MaxDegenerateFraction(con.MaxDegenerateFraction)
	o.Verbose(con.Verbose)
	p, err := series.ParseDegeneratePolicy(con.Degenerate)
	if err != nil {
		return nil, nematic.Decorate(err, "SeriesOptions")
	}
	o.Degenerate(p)
	st, err := sfactor.ParseSelfTerm(con.SelfTerm)
	if err != nil {
		return nil, nematic.Decorate(err, "SeriesOptions")
	}
	sf := o.SF()
	sf.Self(st)
	sf.ChunkSize(con.ChunkSize)
	sf.MaxBytes(con.MaxBytes)
	dev := nematic.Device{Name: strings.ToLower(con.Device), Workers: con.Workers}
	if err := dev.Check(); err != nil {
		return nil, nematic.Decorate(err, "SeriesOptions")
	}
	sf.Device(dev)
	return o, nil
}

// Magnitudes returns the wavevector magnitudes described by the [Wavevectors]
// section, for the given box.
func (w *Wrapper) Magnitudes(box nematic.Box) ([]float64, error) {
	wv := w.Wavevectors
	var mags []float64
	var err error
	if wv.Spacing == "commensurate" {
		mags, err = sfactor.Commensurate(box, wv.Count)
	} else {
		mags, err = sfactor.Linear(wv.Min, wv.Max, wv.Count)
	}
	if err != nil {
		return nil, nematic.Decorate(err, "Magnitudes")
	}
	return mags, nil
}
