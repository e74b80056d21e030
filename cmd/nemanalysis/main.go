/*
 * main.go, part of aLENS-analysis.
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

// Command nemanalysis computes the nematic order and the structure factors
// of aLENS sylinder trajectories, and simple statistics of the results.
//
// Example:
//
//	nemanalysis analyze --traj run.syl.zst --runconfig RunConfig.yaml --samples 50
//	nemanalysis stats --in nematic.json.zst
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const version = "0.3.0"

// newRootCmd builds the command tree. Each call returns a fresh tree with its own flags.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "nemanalysis",
		Short: "Nematic order and structure factors of aLENS trajectories",
		Long: `nemanalysis samples frames from an aLENS sylinder trajectory, corrects the
periodic boundaries, and obtains for each sampled frame the nematic order
parameter, the director, and the structure factors of the order tensor field
and of the density along the x, y and z wavevector sweeps.

Run "nemanalysis analyze --help" for the parameters.`,
		SilenceUsage: true,
	}
	root.AddCommand(newAnalyzeCmd(), newStatsCmd(), newPlotCmd())
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the nemanalysis version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "nemanalysis v%s\n", version)
		},
	})
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
