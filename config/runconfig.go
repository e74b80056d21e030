/*
 * runconfig.go, part of aLENS-analysis.
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
	"os"

	nematic "github.com/flatironinstitute/aLENS-analysis"
	"gopkg.in/yaml.v3"
)

// RunConfig holds the parts of an aLENS RunConfig.yaml used by the analysis.
// Other keys are ignored.
type RunConfig struct {
	SimBoxLow  []float64 `yaml:"simBoxLow"`
	SimBoxHigh []float64 `yaml:"simBoxHigh"`
	SimBoxPBC  []bool    `yaml:"simBoxPBC"`
	Dt         float64   `yaml:"dt"`
	TimeSnap   float64   `yaml:"timeSnap"`
}

// ParseRunConfig decodes a run configuration.
func ParseRunConfig(data []byte) (*RunConfig, error) {
	rc := new(RunConfig)
	if err := yaml.Unmarshal(data, rc); err != nil {
		return nil, nematic.NewError(nematic.ErrMalformedInput, "ParseRunConfig", "%s", err.Error())
	}
	return rc, nil
}

// ReadRunConfig reads the run configuration file name.
func ReadRunConfig(name string) (*RunConfig, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, nematic.NewError(nematic.ErrMalformedInput, "ReadRunConfig", "%s", err.Error())
	}
	rc, err := ParseRunConfig(data)
	if err != nil {
		return nil, nematic.Decorate(err, "ReadRunConfig "+name)
	}
	return rc, nil
}

// Box returns the simulation box.
func (rc *RunConfig) Box() (nematic.Box, error) {
	b, err := nematic.NewBox(rc.SimBoxLow, rc.SimBoxHigh)
	if err != nil {
		return b, nematic.Decorate(err, "RunConfig.Box")
	}
	return b, nil
}
