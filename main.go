// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/cl400sound/hyram-mpat/inp"
	"github.com/cl400sound/hyram-mpat/out"
	"github.com/cl400sound/hyram-mpat/sim"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// command line flags
var (
	cfgPath   string    // scenario file
	verbose   bool      // show messages
	diameters []float64 // sweep: orifice diameters
	workers   int       // sweep: number of parallel runs
	metrics   bool      // sweep: print metrics
)

var rootCmd = &cobra.Command{
	Use:           "hyram",
	Short:         "Hydrogen release: choked flow through orifices and tank blowdown",
	Long:          `hyram reads a scenario file (ini format) describing a tank, its contents and a leak orifice; it solves the flow through the orifice and simulates the blowdown of the tank.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetLevel(log.DebugLevel)
		}
	},
}

var flowCmd = &cobra.Command{
	Use:   "flow",
	Short: "Solve the flow through the orifice for the initial tank state",
	RunE: func(cmd *cobra.Command, args []string) error {
		sc, err := scenario()
		if err != nil {
			return err
		}
		fr, err := sim.Flow(sc)
		if err != nil {
			return err
		}
		io.Pf("tank:\n%v\n\nthroat:\n%v\n\n", fr.Tank, fr.Throat)
		io.Pf("choked = %v\nmdot = %g kg/s\n", fr.Choked, fr.Mdot)
		return nil
	},
}

var blowdownCmd = &cobra.Command{
	Use:   "blowdown",
	Short: "Simulate the blowdown of the tank and print the time series",
	RunE: func(cmd *cobra.Command, args []string) error {
		sc, err := scenario()
		if err != nil {
			return err
		}
		res, err := sim.Run(sc)
		if err != nil {
			return err
		}
		if err = out.WriteTable(os.Stdout, res.Blowdown); err != nil {
			return err
		}
		return out.WriteReports(os.Stdout, []out.Report{res.Report})
	},
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Simulate the blowdown through orifices of several diameters in parallel",
	RunE: func(cmd *cobra.Command, args []string) error {
		sc, err := scenario()
		if err != nil {
			return err
		}
		var reg *prometheus.Registry
		var m *sim.Metrics
		if metrics {
			reg = prometheus.NewRegistry()
			if m, err = sim.NewMetrics(reg); err != nil {
				return err
			}
		}
		results, err := sim.Sweep(cmd.Context(), sc, diameters, workers, m)
		if err != nil {
			return err
		}
		reports := make([]out.Report, len(results))
		for i, r := range results {
			reports[i] = r.Report
		}
		if err = out.WriteReports(os.Stdout, reports); err != nil {
			return err
		}
		if !metrics {
			return nil
		}
		families, err := reg.Gather()
		if err != nil {
			return err
		}
		io.Pf("\n")
		for _, f := range families {
			if _, err = expfmt.MetricFamilyToText(os.Stdout, f); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "scenario file (ini)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "show messages")
	if err := rootCmd.MarkPersistentFlagRequired("config"); err != nil {
		chk.Panic("cannot set flags:\n%v", err)
	}
	sweepCmd.Flags().Float64SliceVarP(&diameters, "diameters", "d", nil, "orifice diameters [m]; default: [sweep] diameters")
	sweepCmd.Flags().IntVarP(&workers, "workers", "w", 0, "number of parallel runs; default: [sweep] workers or number of CPUs")
	sweepCmd.Flags().BoolVar(&metrics, "metrics", false, "print run metrics in Prometheus text format")
	rootCmd.AddCommand(flowCmd, blowdownCmd, sweepCmd)
}

// scenario reads the scenario file
func scenario() (sc *inp.Scenario, err error) {
	sc, err = inp.ReadScenario(cfgPath)
	if err != nil {
		return
	}
	sc.Verbose = sc.Verbose || verbose
	if sc.Verbose {
		io.PfWhite("\n%s\n", sc.Desc)
		io.Pf("%v\n", io.ArgsTable("SCENARIO",
			"file", "config", cfgPath,
			"species", "species", sc.Fluid.Species,
			"property model", "model", sc.Fluid.Model,
			"orifice diameter", "d", sc.Orifice.D,
			"ambient pressure", "ambient", sc.Blowdown.Ambient,
		))
	}
	return
}

func main() {

	// catch errors
	defer func() {
		if err := recover(); err != nil {
			io.PfRed("\nERROR: %v", err)
			io.Pf("See location of error below:\n")
			chk.Verbose = true
			for i := 5; i > 3; i-- {
				chk.CallerInfo(i)
			}
			os.Exit(1)
		}
	}()

	// cancel sweeps on interrupt
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// run command
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		io.PfRed("ERROR: %v\n", err)
		stop()
		os.Exit(1)
	}
}
