/*
 * plot.go, part of aLENS-analysis.
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

// Package nemplot draws the results of the nematic analysis: the order
// parameter along a trajectory and the structure factor curves.
// The image format is taken from the extension of the file name
// (png, svg, pdf, eps...).
package nemplot

import (
	"image/color"
	"math"

	nematic "github.com/flatironinstitute/aLENS-analysis"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Size of the saved plots.
var (
	Width  = 5 * vg.Inch
	Height = 4 * vg.Inch
)

var axisNames = [3]string{"x", "y", "z"}

func basicPlot(title, xlabel, ylabel string) *plot.Plot {
	p := plot.New()
	p.Title.Padding = 3 * vg.Millimeter
	p.Title.Text = title
	p.X.Label.Text = xlabel
	p.Y.Label.Text = ylabel
	p.Add(plotter.NewGrid())
	p.Legend.Top = true
	return p
}

func xys(x, y []float64) plotter.XYs {
	ret := make(plotter.XYs, len(x))
	for i := range x {
		ret[i].X = x[i]
		ret[i].Y = y[i]
	}
	return ret
}

func checkLens(caller string, x []float64, ys ...[]float64) error {
	if len(x) == 0 {
		return nematic.NewError(nematic.ErrInsufficientData, caller, "nothing to plot")
	}
	for _, y := range ys {
		if len(y) != len(x) {
			return nematic.NewError(nematic.ErrMalformedInput, caller, "%d abscissas for %d values", len(x), len(y))
		}
	}
	return nil
}

func addLine(p *plot.Plot, x, y []float64, c color.Color, legend string) error {
	l, err := plotter.NewLine(xys(x, y))
	if err != nil {
		return err
	}
	l.LineStyle.Color = c
	l.LineStyle.Width = vg.Points(1.5)
	p.Add(l)
	if legend != "" {
		p.Legend.Add(legend, l)
	}
	return nil
}

// Order plots the scalar order parameter S against the time t and saves it to name.
func Order(t, S []float64, title, name string) error {
	if err := checkLens("nemplot.Order", t, S); err != nil {
		return err
	}
	p := basicPlot(title, "time", "S")
	p.Y.Min = math.Min(0, floatsMin(S))
	p.Y.Max = 1
	if err := addLine(p, t, S, hue(0, 1), ""); err != nil {
		return err
	}
	sc, err := plotter.NewScatter(xys(t, S))
	if err != nil {
		return err
	}
	sc.GlyphStyle.Color = hue(0, 1)
	p.Add(sc)
	return p.Save(Width, Height, name)
}

// StructFactor plots, for the x, y and z sweeps, the average over frames of
// the structure factor in sf (one row per wavevector magnitude in k, one
// column per frame) and saves it to name.
func StructFactor(k []float64, sf [3]*mat.Dense, title, name string) error {
	p := basicPlot(title, "|k|", "S(k)")
	for axis, m := range sf {
		if m == nil {
			return nematic.NewError(nematic.ErrMalformedInput, "nemplot.StructFactor", "no data for the %s sweep", axisNames[axis])
		}
		mean := RowMeans(m)
		if err := checkLens("nemplot.StructFactor", k, mean); err != nil {
			return err
		}
		if err := addLine(p, k, mean, hue(axis, 3), axisNames[axis]); err != nil {
			return err
		}
	}
	return p.Save(Width, Height, name)
}

// Frames plots one structure factor curve per column of sf, the frames,
// colored from red (first) to violet (last), and saves it to name.
func Frames(k []float64, sf *mat.Dense, title, name string) error {
	if sf == nil {
		return nematic.NewError(nematic.ErrMalformedInput, "nemplot.Frames", "nil structure factor")
	}
	r, c := sf.Dims()
	if err := checkLens("nemplot.Frames", k, make([]float64, r)); err != nil {
		return err
	}
	p := basicPlot(title, "|k|", "S(k)")
	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, sf)
		if err := addLine(p, k, col, hue(j, c), ""); err != nil {
			return err
		}
	}
	return p.Save(Width, Height, name)
}

// RowMeans returns the mean of each row of m.
func RowMeans(m *mat.Dense) []float64 {
	r, _ := m.Dims()
	ret := make([]float64, r)
	for i := range ret {
		ret[i] = stat.Mean(m.RawRowView(i), nil)
	}
	return ret
}

func floatsMin(x []float64) float64 {
	ret := math.Inf(1)
	for _, v := range x {
		if v < ret {
			ret = v
		}
	}
	return ret
}
