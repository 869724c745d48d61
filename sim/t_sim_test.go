// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/cl400sound/hyram-mpat/ana"
	"github.com/cl400sound/hyram-mpat/inp"
	"github.com/cl400sound/hyram-mpat/mdl/source"
	"github.com/cl400sound/hyram-mpat/out"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func verbose() {
	chk.Verbose = true
}

const n2tank = `
desc = nitrogen bottle

[fluid]
model = idealgas
species = N2
T = 300
P = 10e5

[orifice]
d = 2e-3

[tank]
V = 0.01

[sweep]
diameters = 1e-3, 2e-3, 4e-3
workers = 2

[enclosure]
H = 2.5
A = 4

[vent.ceiling]
A = 0.01
H = 2.4

[vent.floor]
A = 0.01
H = 0.1
`

func scenario(tst *testing.T) *inp.Scenario {
	sc, err := inp.ParseScenario([]byte(n2tank))
	if err != nil {
		tst.Fatalf("ParseScenario failed: %v\n", err)
	}
	return sc
}

func Test_sim01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("sim01. throat solution and single run")

	sc := scenario(tst)
	fr, err := Flow(sc)
	if err != nil {
		tst.Errorf("Flow failed: %v\n", err)
		return
	}
	io.Pforan("throat: %v\nmdot = %v  choked = %v\n", fr.Throat, fr.Mdot, fr.Choked)
	if !fr.Choked {
		tst.Errorf("flow must be choked\n")
	}
	sp := fr.Tank.Therm.Species()
	A := math.Pi * 2e-3 * 2e-3 / 4.0
	chk.Float64(tst, "mdot", 1e-6*fr.Mdot, fr.Mdot, A*ana.ChokedMassFlux(sp.Gamma, sp.Rs(), 300, 10e5))

	res, err := Run(sc)
	if err != nil {
		tst.Errorf("Run failed: %v\n", err)
		return
	}
	r := res.Report
	io.Pforan("%+v\n", r)
	if r.Status != source.Ambient && r.Status != source.Empty {
		tst.Errorf("run must finish at ambient pressure or empty. status = %v\n", r.Status)
	}
	chk.Float64(tst, "d", 1e-17, res.D, 2e-3)
	chk.Float64(tst, "report d", 1e-17, r.D, 2e-3)
	chk.Int(tst, "npoints", r.Npoints, res.Blowdown.Len())
	chk.Float64(tst, "released", 0.02*r.M0, r.Released, r.M0-r.Mf)
	chk.Float64(tst, "peak", 1e-8*fr.Mdot, r.Mdotmax, fr.Mdot)

	// mixed fraction
	rho, _ := fr.Tank.Therm.Rho(AmbientT, sc.Blowdown.Ambient)
	vgas := r.Released / rho
	chk.Float64(tst, "fraction", 1e-14, r.Fraction, vgas/(10+vgas))
	if r.Fraction <= 0 || r.Fraction >= 1 {
		tst.Errorf("fraction must be in (0, 1). fraction = %v\n", r.Fraction)
	}
}

func Test_sim02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("sim02. parallel sweep and metrics")

	sc := scenario(tst)
	sc.Enclosure = nil
	reg := prometheus.NewRegistry()
	metrics, err := NewMetrics(reg)
	if err != nil {
		tst.Errorf("NewMetrics failed: %v\n", err)
		return
	}
	results, err := Sweep(context.Background(), sc, nil, 0, metrics)
	if err != nil {
		tst.Errorf("Sweep failed: %v\n", err)
		return
	}
	chk.Int(tst, "number of results", len(results), 3)

	reports := make([]out.Report, len(results))
	nsteps, nhalvings := 0, 0
	for i, res := range results {
		reports[i] = res.Report
		nsteps += res.Blowdown.Nsteps
		nhalvings += res.Blowdown.Nhalvings
		chk.Float64(tst, "fraction", 1e-17, res.Report.Fraction, 0)
	}
	chk.Array(tst, "diameters", 1e-17, []float64{results[0].D, results[1].D, results[2].D}, sc.Sweep.Diameters)
	for i := 1; i < len(reports); i++ {
		if reports[i].Time >= reports[i-1].Time {
			tst.Errorf("larger orifices must empty the tank faster\n")
		}
		if reports[i].Mdotmax <= reports[i-1].Mdotmax {
			tst.Errorf("larger orifices must have larger peak flow rates\n")
		}
	}

	// same results as single runs
	single, err := run(sc, 1e-3)
	if err != nil {
		tst.Errorf("run failed: %v\n", err)
		return
	}
	chk.Array(tst, "time", 1e-17, results[0].Blowdown.Time, single.Blowdown.Time)
	chk.Array(tst, "mdot", 1e-17, results[0].Blowdown.Mdot, single.Blowdown.Mdot)

	// metrics
	runs := 0.0
	for _, s := range []source.Status{source.Empty, source.Ambient, source.MaxSteps, source.Stalled, source.Unsuccessful} {
		runs += testutil.ToFloat64(metrics.Runs.WithLabelValues(s.String()))
	}
	chk.Float64(tst, "runs", 1e-17, runs, 3)
	chk.Float64(tst, "steps", 1e-17, testutil.ToFloat64(metrics.Steps), float64(nsteps))
	chk.Float64(tst, "halvings", 1e-17, testutil.ToFloat64(metrics.Halvings), float64(nhalvings))
	families, err := metrics.Gatherer().Gather()
	if err != nil {
		tst.Errorf("Gather failed: %v\n", err)
		return
	}
	for _, f := range families {
		if f.GetName() == "blowdown_emptying_time_seconds" {
			chk.Int(tst, "histogram count", int(f.GetMetric()[0].GetHistogram().GetSampleCount()), 3)
		}
	}

	// collectors are reused
	again, err := NewMetrics(reg)
	if err != nil {
		tst.Errorf("NewMetrics failed: %v\n", err)
		return
	}
	chk.Float64(tst, "reused steps", 1e-17, testutil.ToFloat64(again.Steps), float64(nsteps))
}

func Test_sim03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("sim03. sweep errors")

	sc := scenario(tst)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Sweep(ctx, sc, nil, 1, nil); !errors.Is(err, context.Canceled) {
		tst.Errorf("cancelled sweep should fail with context.Canceled. err = %v\n", err)
	}
	if _, err := Sweep(context.Background(), sc, []float64{}, 1, nil); err == nil {
		tst.Errorf("sweep without diameters should fail\n")
	}

	// invalid discharge coefficient is detected by every run
	sc.Orifice.Cd = 2
	if _, err := Sweep(context.Background(), sc, []float64{1e-3, 2e-3}, 2, nil); err == nil {
		tst.Errorf("sweep with invalid orifice should fail\n")
	} else {
		io.Pf("%v\n", err)
	}

	// nil metrics record nothing
	var m *Metrics
	m.Observe(new(source.Blowdown))
	if m.Gatherer() != nil {
		tst.Errorf("gatherer of nil metrics must be nil\n")
	}
}
