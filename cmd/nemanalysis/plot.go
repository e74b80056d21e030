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

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/flatironinstitute/aLENS-analysis/nemplot"
	"github.com/flatironinstitute/aLENS-analysis/series"
	"github.com/flatironinstitute/aLENS-analysis/store"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"
)

func newPlotCmd() *cobra.Command {
	var in, dir, format string
	cmd := &cobra.Command{
		Use:   "plot",
		Short: "Plot the order parameter and the structure factors",
		Long: `plot reads a result archive written by analyze and draws, in --dir,
order.FORMAT with the order parameter against time, and sf.FORMAT,
fluct_sf.FORMAT and density_sf.FORMAT with the frame-averaged structure
factors of the three sweeps.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			A, err := store.Load(in)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(dir, 0755); err != nil {
				return err
			}
			out := func(base string) string { return filepath.Join(dir, base+"."+format) }
			S, t := A.Array(series.OrderName), A.Array(series.TimeName)
			if S == nil || t == nil {
				return fmt.Errorf("%s has no %s or %s array", in, series.OrderName, series.TimeName)
			}
			if err := nemplot.Order(t.Data, S.Data, "Nematic order", out("order")); err != nil {
				return err
			}
			k := A.Array(series.KMagName)
			if k == nil {
				return fmt.Errorf("%s has no %s array", in, series.KMagName)
			}
			sets := []struct {
				base, title string
				name        func(int) string
			}{
				{"sf", "Order tensor structure factor", series.StructFactorName},
				{"fluct_sf", "Fluctuation structure factor", series.FluctStructFactorName},
				{"density_sf", "Density structure factor", series.DensityStructFactorName},
			}
			for _, s := range sets {
				var sf [3]*mat.Dense
				for axis := range sf {
					a := A.Array(s.name(axis))
					if a == nil {
						return fmt.Errorf("%s has no %s array", in, s.name(axis))
					}
					if sf[axis], err = a.Dense(); err != nil {
						return err
					}
				}
				if err := nemplot.StructFactor(k.Data, sf, s.title, out(s.base)); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "plots written to %s\n", dir)
			return nil
		},
	}
	cmd.Flags().StringVar(&in, "in", "nematic.json.zst", "result archive")
	cmd.Flags().StringVar(&dir, "dir", ".", "output directory")
	cmd.Flags().StringVar(&format, "format", "png", "image format: png, svg, pdf or eps")
	return cmd
}
