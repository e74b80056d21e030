/*
 * analyze.go, part of aLENS-analysis.
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
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"time"

	nematic "github.com/flatironinstitute/aLENS-analysis"
	"github.com/flatironinstitute/aLENS-analysis/config"
	"github.com/flatironinstitute/aLENS-analysis/nemplot"
	"github.com/flatironinstitute/aLENS-analysis/series"
	"github.com/flatironinstitute/aLENS-analysis/traj/syl"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

type analyzeFlags struct {
	traj      string
	runconfig string
	config    string
	out       string
	start     int
	samples   int
	chunk     int
	workers   int
	selfTerm  string
}

func newAnalyzeCmd() *cobra.Command {
	var f analyzeFlags
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze a sylinder trajectory",
		Long: `analyze reads a sylinder trajectory and writes the nematic order, the
directors and the structure factors of the sampled frames to a result archive.

The simulation box is taken from the trajectory header or, if the header has
none, from the aLENS run configuration given with --runconfig. Flags override
the values of the analysis file given with --config. A trajectory shorter than
the start frame is reported and skipped, with no output.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, &f)
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.traj, "traj", "", "sylinder trajectory (.syl or .syl.zst)")
	fl.StringVar(&f.runconfig, "runconfig", "", "aLENS RunConfig.yaml with the simulation box")
	fl.StringVar(&f.config, "config", "", "analysis configuration file")
	fl.StringVar(&f.out, "out", "nematic.json.zst", "result archive")
	fl.IntVar(&f.start, "start", 0, "first frame analyzed")
	fl.IntVar(&f.samples, "samples", 100, "number of frames sampled")
	fl.IntVar(&f.chunk, "chunk", 10, "wavevectors processed together")
	fl.IntVar(&f.workers, "workers", 0, "goroutines used, 0 for one per CPU")
	fl.StringVar(&f.selfTerm, "self-term", "reference", "self-term correction: reference, exact or none")
	cmd.MarkFlagRequired("traj")
	return cmd
}

// analysisConfig reads the configuration file, if any, and applies the flags set by the user.
func analysisConfig(cmd *cobra.Command, f *analyzeFlags) (*config.Wrapper, error) {
	w := config.DefaultWrapper()
	if f.config != "" {
		var err error
		if w, err = config.ReadFile(f.config); err != nil {
			return nil, err
		}
	}
	fl := cmd.Flags()
	con := &w.Analysis
	if fl.Changed("start") {
		con.Start = f.start
	}
	if fl.Changed("samples") {
		con.Samples = f.samples
	}
	if fl.Changed("chunk") {
		con.ChunkSize = f.chunk
	}
	if fl.Changed("workers") {
		con.Workers = f.workers
	}
	if fl.Changed("self-term") {
		con.SelfTerm = f.selfTerm
	}
	if err := w.CheckInit(); err != nil {
		return nil, err
	}
	return w, nil
}

// simulationBox returns the box of the trajectory header, or the one in the
// run configuration file if the header has none.
func simulationBox(r *syl.SylR, runconfig string) (nematic.Box, error) {
	b, err := r.Box()
	if err == nil {
		return b, nil
	}
	if runconfig == "" {
		return b, fmt.Errorf("the trajectory has no box, give one with --runconfig: %w", err)
	}
	rc, err := config.ReadRunConfig(runconfig)
	if err != nil {
		return b, err
	}
	return rc.Box()
}

func runAnalyze(cmd *cobra.Command, f *analyzeFlags) error {
	begin := time.Now()
	w, err := analysisConfig(cmd, f)
	if err != nil {
		return err
	}
	o, err := w.SeriesOptions()
	if err != nil {
		return err
	}
	r, _, err := syl.New(f.traj)
	if err != nil {
		return err
	}
	defer r.Close()
	box, err := simulationBox(r, f.runconfig)
	if err != nil {
		return err
	}
	mags, err := w.Magnitudes(box)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	res, err := series.Analyze(ctx, r, box, mags, o)
	if errors.Is(err, nematic.ErrInsufficientData) {
		log.Printf("analyze: %s: insufficient data, nothing written: %s", f.traj, err.Error())
		return nil
	}
	if err != nil {
		return err
	}
	if err := res.Save(f.out); err != nil {
		return err
	}
	summary(cmd.OutOrStdout(), res)
	log.Printf("analyze: %d frames analyzed in %s, written to %s", res.Len(), time.Since(begin).Round(time.Millisecond), f.out)
	return nil
}

// summary prints the mean order parameter, and for each sweep the wavevector
// magnitude of the largest frame-averaged structure factor.
func summary(out io.Writer, res *series.Result) {
	S := make([]float64, res.Len())
	for i, o := range res.Orders {
		S[i] = o.S
	}
	fmt.Fprintf(out, "frames %d (skipped %d)  <S> = %.4f\n", res.Len(), len(res.SkippedFrames), stat.Mean(S, nil))
	for axis, name := range []string{"x", "y", "z"} {
		mean := nemplot.RowMeans(res.StructFactor[axis])
		fmean := nemplot.RowMeans(res.FluctStructFactor[axis])
		i, j := floats.MaxIdx(mean), floats.MaxIdx(fmean)
		fmt.Fprintf(out, "%s sweep: peak S(k) = %.4g at k = %.4g, fluctuations %.4g at k = %.4g\n",
			name, mean[i], res.KMag[i], fmean[j], res.KMag[j])
	}
}
