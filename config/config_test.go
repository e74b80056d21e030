/*
 * config_test.go, part of aLENS-analysis.
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

package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	nematic "github.com/flatironinstitute/aLENS-analysis"
	"github.com/flatironinstitute/aLENS-analysis/series"
	"github.com/flatironinstitute/aLENS-analysis/sfactor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExampleFile(Te *testing.T) {
	name := filepath.Join(Te.TempDir(), "analysis.cfg")
	require.NoError(Te, os.WriteFile(name, []byte(ExampleAnalysisFile), 0o644))
	w, err := ReadFile(name)
	require.NoError(Te, err)
	assert.Equal(Te, 100, w.Analysis.Samples)
	assert.Equal(Te, 10, w.Analysis.ChunkSize)
	assert.Equal(Te, runtime.NumCPU(), w.Analysis.Workers)
	o, err := w.SeriesOptions()
	require.NoError(Te, err)
	assert.Equal(Te, series.SkipDegenerate, o.Degenerate())
	assert.Equal(Te, sfactor.SelfTermReference, o.SF().Self())
	mags, err := w.Magnitudes(nematic.Box{Upper: [3]float64{1, 1, 1}})
	require.NoError(Te, err)
	require.Len(Te, mags, 100)
	assert.InDelta(Te, 0.1, mags[0], 1e-15)
	assert.InDelta(Te, 10, mags[99], 1e-15)
}

func TestCustomValues(Te *testing.T) {
	w, err := ReadString(`[Analysis]
Start = 40
Samples = 7
ChunkSize = 3
Workers = 2
SelfTerm = exact
Degenerate = fail
MaxDegenerateFraction = 0.25
MaxBytes = 2048
Verbose = true

[Wavevectors]
Spacing = commensurate
Count = 4
`)
	require.NoError(Te, err)
	o, err := w.SeriesOptions()
	require.NoError(Te, err)
	assert.Equal(Te, 40, o.Start())
	assert.Equal(Te, 7, o.Samples())
	assert.Equal(Te, series.FailOnDegenerate, o.Degenerate())
	assert.Equal(Te, 0.25, o.MaxDegenerateFraction())
	assert.True(Te, o.Verbose())
	assert.Equal(Te, 3, o.SF().ChunkSize())
	assert.Equal(Te, sfactor.SelfTermExact, o.SF().Self())
	assert.Equal(Te, int64(2048), o.SF().MaxBytes())
	assert.Equal(Te, nematic.Device{Name: "cpu", Workers: 2}, o.SF().Device())

	box := nematic.Box{Lower: [3]float64{0, 0, 0}, Upper: [3]float64{2, 4, 4}}
	mags, err := w.Magnitudes(box)
	require.NoError(Te, err)
	assert.InDeltaSlice(Te, []float64{math.Pi, 2 * math.Pi, 3 * math.Pi, 4 * math.Pi}, mags, 1e-12)
}

func TestInvalidValues(Te *testing.T) {
	bad := []string{
		"[Analysis]\nSamples = 0\n",
		"[Analysis]\nStart = -1\n",
		"[Analysis]\nChunkSize = 0\n",
		"[Analysis]\nWorkers = -2\n",
		"[Analysis]\nDevice = cuda\n",
		"[Analysis]\nSelfTerm = half\n",
		"[Analysis]\nDegenerate = ignore\n",
		"[Analysis]\nMaxDegenerateFraction = 1.5\n",
		"[Analysis]\nMaxBytes = 0\n",
		"[Wavevectors]\nSpacing = log\n",
		"[Wavevectors]\nMin = 2\nMax = 1\n",
		"[Wavevectors]\nCount = 0\n",
		"[Analysis]\nUnknownKey = 1\n",
	}
	for _, str := range bad {
		_, err := ReadString(str)
		require.Error(Te, err, str)
		assert.True(Te, errors.Is(err, nematic.ErrMalformedInput) || errors.Is(err, nematic.ErrDegenerate), "%q: %v", str, err)
	}
}

const runConfig = `# aLENS run configuration
rngSeed: 1234
simBoxHigh: [1.0, 1.0, 50.0]
simBoxLow: [-1.0, -1.0, 0.0]
simBoxPBC: [true, true, false]
dt: 0.0001
timeSnap: 0.1
sylinderLength: 0.5
`

func TestRunConfig(Te *testing.T) {
	name := filepath.Join(Te.TempDir(), "RunConfig.yaml")
	require.NoError(Te, os.WriteFile(name, []byte(runConfig), 0o644))
	rc, err := ReadRunConfig(name)
	require.NoError(Te, err)
	assert.Equal(Te, []bool{true, true, false}, rc.SimBoxPBC)
	assert.Equal(Te, 0.1, rc.TimeSnap)
	b, err := rc.Box()
	require.NoError(Te, err)
	assert.Equal(Te, [3]float64{-1, -1, 0}, b.Lower)
	assert.Equal(Te, [3]float64{1, 1, 50}, b.Upper)

	rc, err = ParseRunConfig([]byte("simBoxLow: [0, 0]\nsimBoxHigh: [1, 1, 1]\n"))
	require.NoError(Te, err)
	_, err = rc.Box()
	assert.True(Te, errors.Is(err, nematic.ErrMalformedInput))
	_, err = ParseRunConfig([]byte("simBoxLow: [0, 0\n"))
	assert.True(Te, errors.Is(err, nematic.ErrMalformedInput))
	_, err = ReadRunConfig(filepath.Join(Te.TempDir(), "missing.yaml"))
	assert.Error(Te, err)
}
