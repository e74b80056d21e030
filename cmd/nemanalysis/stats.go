/*
 * stats.go, part of aLENS-analysis.
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
	"errors"
	"fmt"

	nematic "github.com/flatironinstitute/aLENS-analysis"
	"github.com/flatironinstitute/aLENS-analysis/nemstat"
	"github.com/flatironinstitute/aLENS-analysis/series"
	"github.com/flatironinstitute/aLENS-analysis/store"
	"github.com/spf13/cobra"
)

func newStatsCmd() *cobra.Command {
	var in string
	var window float64
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Steady state and correlation time of the order parameter",
		Long: `stats reads a result archive written by analyze and prints the first
sampled frame at which the order parameter reaches its steady state (the
average over the last part of the series, given by --window, within one
standard deviation) and the correlation time of the order parameter
from there on.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if window <= 0 || window > 1 {
				return fmt.Errorf("--window must be in (0,1], got %g", window)
			}
			A, err := store.Load(in)
			if err != nil {
				return err
			}
			S, t := A.Array(series.OrderName), A.Array(series.TimeName)
			if S == nil || t == nil || len(S.Data) != len(t.Data) {
				return fmt.Errorf("%s has no %s and %s arrays of the same length", in, series.OrderName, series.TimeName)
			}
			n := len(S.Data)
			from := min(int(float64(n)*(1-window)), n-1)
			ss, err := nemstat.SteadyStateIndex(S.Data, from, 0)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "steady state from sample %d (t = %g)\n", ss, t.Data[ss])
			if n-ss < 2 {
				fmt.Fprintln(out, "too few steady-state samples for a correlation time")
				return nil
			}
			ac, err := nemstat.AutoCorr(S.Data[ss:])
			if errors.Is(err, nematic.ErrDegenerate) {
				fmt.Fprintln(out, "constant order parameter, no correlation time")
				return nil
			}
			if err != nil {
				return err
			}
			tau, ok := nemstat.CorrelationTime(ac, t.Data[1]-t.Data[0])
			if !ok {
				fmt.Fprintf(out, "correlation time longer than %g\n", tau)
				return nil
			}
			fmt.Fprintf(out, "correlation time %g\n", tau)
			return nil
		},
	}
	cmd.Flags().StringVar(&in, "in", "nematic.json.zst", "result archive")
	cmd.Flags().Float64Var(&window, "window", 0.5, "fraction of the series, at its end, averaged for the steady state")
	return cmd
}
