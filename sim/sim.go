// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package sim runs scenarios, from single throat solutions to parallel blowdown sweeps over
// orifice diameters. Every run owns its property model
package sim

import (
	"context"
	"fmt"
	"runtime"

	"github.com/cl400sound/hyram-mpat/inp"
	"github.com/cl400sound/hyram-mpat/mdl/fluid"
	"github.com/cl400sound/hyram-mpat/mdl/source"
	"github.com/cl400sound/hyram-mpat/out"
	"github.com/cpmech/gosl/chk"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// AmbientT is the temperature of released gas mixed in enclosures [K]
var AmbientT = 288.15

// FlowResult holds the throat solution for the initial tank state
type FlowResult struct {
	Tank   fluid.State // upstream state
	Throat fluid.State // throat state
	Choked bool        // flow is choked
	Mdot   float64     // mass flow rate [kg/s]
}

// Result holds the results of one blowdown run
type Result struct {
	D        float64          // orifice diameter [m]
	Blowdown *source.Blowdown // trajectory
	Report   out.Report       // summary
}

// Flow solves the flow through the orifice for the initial tank state and the ambient pressure
func Flow(sc *inp.Scenario) (o *FlowResult, err error) {
	src, err := sc.NewSource()
	if err != nil {
		return
	}
	orf, err := sc.NewOrifice(0)
	if err != nil {
		return
	}
	throat, choked, err := orf.Flow(src.Fluid, sc.Blowdown.Ambient, nil)
	if err != nil {
		return
	}
	return &FlowResult{Tank: src.Fluid, Throat: throat, Choked: choked, Mdot: orf.Mdot(throat)}, nil
}

// Run empties the tank through the orifice of the scenario
func Run(sc *inp.Scenario) (*Result, error) {
	return run(sc, 0)
}

// Sweep empties the tank through orifices of given diameters using up to workers parallel runs.
// Results are returned in the order of diameters. diameters == nil means the diameters in the
// scenario; workers ≤ 0 means the number in the scenario or the number of CPUs
func Sweep(ctx context.Context, sc *inp.Scenario, diameters []float64, workers int, metrics *Metrics) ([]*Result, error) {
	if diameters == nil {
		diameters = sc.Sweep.Diameters
	}
	if len(diameters) == 0 {
		return nil, chk.Err("sweep requires at least one orifice diameter")
	}
	if workers <= 0 {
		workers = sc.Sweep.Workers
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	results := make([]*Result, len(diameters))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, d := range diameters {
		i, d := i, d
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := run(sc, d)
			if err != nil {
				return fmt.Errorf("sweep with d = %g m failed: %w", d, err)
			}
			metrics.Observe(res.Blowdown)
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// run empties a new tank through an orifice of diameter d; d ≤ 0 means the scenario's
func run(sc *inp.Scenario, d float64) (o *Result, err error) {
	src, err := sc.NewSource()
	if err != nil {
		return
	}
	orf, err := sc.NewOrifice(d)
	if err != nil {
		return
	}
	enc, err := sc.NewEnclosure()
	if err != nil {
		return
	}
	opts := sc.Opts()
	bd, err := src.Empty(orf, opts)
	if err != nil {
		return
	}
	o = &Result{D: orf.D, Blowdown: bd, Report: out.Summary(bd)}
	o.Report.D = orf.D
	if enc != nil {
		rho, err := src.Fluid.Therm.Rho(AmbientT, opts.AmbientP)
		if err != nil {
			return nil, err
		}
		o.Report.Enclose(enc, rho)
	}
	log.WithFields(log.Fields{
		"d":        orf.D,
		"status":   bd.Status,
		"steps":    bd.Nsteps,
		"released": o.Report.Released,
	}).Debug("sim: blowdown finished")
	return
}
