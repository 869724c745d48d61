// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package source

import (
	"errors"
	"fmt"

	"github.com/cl400sound/hyram-mpat/mdl/fluid"
	"github.com/cl400sound/hyram-mpat/mdl/orifice"
	"github.com/cl400sound/hyram-mpat/num"
	"github.com/cpmech/gosl/io"
	log "github.com/sirupsen/logrus"
)

// ErrIntegrationStalled is reported when the blowdown cannot advance even after halving the
// macro-step MaxHalvings times
var ErrIntegrationStalled = errors.New("source: blowdown integration stalled")

// Opts holds the options for blowdown simulations
type Opts struct {
	AmbientP      float64 // ambient pressure [Pa]
	HeatFlux      float64 // heat flow into tank [W]; 0 => adiabatic
	Nmax          int     // max number of macro-steps
	MEmpty        float64 // tank is empty when mdot is below this value [kg/s]
	PEmptyPercent float64 // tank is empty when P < (1 + PEmptyPercent/100)・AmbientP
	Atol          float64 // absolute tolerance of ODE solver
	Rtol          float64 // relative tolerance of ODE solver
	MaxHalvings   int     // max number of halvings of the macro-step when the integration fails
	Verbose       bool    // print messages
}

// SetDefault sets default values
func (o *Opts) SetDefault() {
	o.AmbientP = 101325
	o.HeatFlux = 0
	o.Nmax = 1000
	o.MEmpty = 1e-6
	o.PEmptyPercent = 0.01
	o.Atol = 1e-12
	o.Rtol = 1e-6
	o.MaxHalvings = 100
}

// Pempty returns the pressure below which the tank is considered empty
func (o Opts) Pempty() float64 {
	return (1.0 + o.PEmptyPercent/100.0) * o.AmbientP
}

// Status tells how a blowdown run ended
type Status int

// statuses
const (
	NotStarted   Status = iota // tank was empty or at ambient pressure from the start
	Empty                      // mass flow rate fell below Opts.MEmpty
	Ambient                    // tank pressure reached the band around ambient pressure
	Unsuccessful               // ODE solver gave up
	MaxSteps                   // Opts.Nmax macro-steps taken
	Stalled                    // all halvings of the macro-step failed
)

// String returns the name of the status
func (s Status) String() string {
	switch s {
	case Empty:
		return "empty"
	case Ambient:
		return "ambient"
	case Unsuccessful:
		return "unsuccessful"
	case MaxSteps:
		return "maxsteps"
	case Stalled:
		return "stalled"
	}
	return "notstarted"
}

// Blowdown holds the results of a blowdown run. Time, Mdot, Fluids and Sol have the same length
type Blowdown struct {

	// time series
	Time   []float64     // times [s]
	Mdot   []float64     // mass flow rates [kg/s]
	Fluids []fluid.State // tank states
	Sol    [][2]float64  // raw solution: mass [kg] and specific internal energy [J/kg]

	// termination
	Status Status // how the run ended
	Err    error  // wraps ErrIntegrationStalled or the solver error for Stalled and Unsuccessful runs

	// statistics
	Nsteps    int // number of macro-steps
	Nhalvings int // number of macro-step halvings
	Nfeval    int // number of right-hand side evaluations
}

// Len returns the number of recorded points
func (o Blowdown) Len() int {
	return len(o.Time)
}

// stepResult is the outcome of one attempt to advance a macro-step
type stepResult int

const (
	stepOK        stepResult = iota // macro-step completed
	stepRetry                       // failed; may be retried with a smaller step
	stepHalted                      // solver gave up; cannot be retried
	stepExhausted                   // all retries failed
)

// blowdown holds the data of one run
type blowdown struct {
	src  *Source          // tank
	orf  *orifice.Orifice // orifice
	opts *Opts            // options
	res  *Blowdown        // results
}

// Empty integrates the mass and energy balances of the tank while it discharges through orf
//
//   dm/dt = -mdot
//   du/dt = (Q + (h - u)・dm/dt) / m
//
// The tank is not modified. Errors are only returned when the initial state cannot be
// evaluated; failures during the integration are reported through Status and Err
func (o *Source) Empty(orf *orifice.Orifice, opts *Opts) (res *Blowdown, err error) {

	// options
	if opts == nil {
		opts = new(Opts)
		opts.SetDefault()
	}
	res = new(Blowdown)
	if o.M <= 0 || o.Fluid.P <= opts.Pempty() {
		return
	}

	// initial flow rate
	u0, err := o.Fluid.U()
	if err != nil {
		return nil, err
	}
	throat, _, err := orf.Flow(o.Fluid, opts.AmbientP, nil)
	if err != nil {
		return nil, err
	}
	mdot0 := orf.Mdot(throat)
	if mdot0 <= 0 {
		return
	}

	// solver
	run := &blowdown{src: o, orf: orf, opts: opts, res: res}
	var sol num.Dopri5
	sol.Init(2, run.rhs, run.record)
	sol.SetTol(opts.Atol, opts.Rtol)
	sol.Start(0, []float64{o.M, u0})
	err = run.record(sol.X, sol.Y)
	if err != nil {
		return nil, err
	}

	// macro-steps
	dt := o.M / mdot0
	for {
		res.Nsteps++
		status, err := run.step(&sol, &dt)
		res.Nfeval = sol.NFeval
		if status == stepExhausted {
			res.Status = Stalled
			res.Err = fmt.Errorf("%w: unable to advance past t = %g s with remaining mass of %g kg, P = %g Pa: %v",
				ErrIntegrationStalled, sol.X, sol.Y[0], run.last().P, err)
			log.WithFields(log.Fields{"t": sol.X, "m": sol.Y[0], "P": run.last().P}).Warn(res.Err.Error())
			break
		}
		if status == stepHalted {
			res.Status, res.Err = Unsuccessful, err
			break
		}
		if opts.Verbose {
			io.Pf("step %4d: t = %12.6f s  m = %13.6e kg  P = %13.6e Pa  mdot = %13.6e kg/s\n",
				res.Nsteps, sol.X, sol.Y[0], run.last().P, res.Mdot[len(res.Mdot)-1])
		}
		if run.finished() {
			break
		}
	}
	if opts.Verbose {
		io.Pforan("blowdown %s after %d steps (%d halvings, %d evaluations)\n", res.Status, res.Nsteps, res.Nhalvings, res.Nfeval)
	}
	return
}

// step advances one macro-step, halving dt on failure
func (o *blowdown) step(sol *num.Dopri5, dt *float64) (status stepResult, err error) {
	status, err = o.advance(sol, *dt)
	for i := 0; status == stepRetry; i++ {
		if i == o.opts.MaxHalvings {
			return stepExhausted, err
		}
		o.rollback(sol.X)
		*dt /= 2.0
		o.res.Nhalvings++
		log.WithFields(log.Fields{"t": sol.X, "dt": *dt, "cause": err}).Debug("source: halving macro-step")
		status, err = o.advance(sol, *dt)
	}
	return
}

// advance attempts to integrate from the last accepted point over dt
func (o *blowdown) advance(sol *num.Dopri5, dt float64) (stepResult, error) {
	xf := sol.X + dt
	if xf == sol.X {
		return stepExhausted, fmt.Errorf("source: macro-step dt = %g vanishes at t = %g", dt, sol.X)
	}
	err := sol.Integrate(xf)
	switch {
	case err == nil:
		return stepOK, nil
	case errors.Is(err, num.ErrMaxSubsteps), errors.Is(err, num.ErrStepTooSmall):
		return stepHalted, err
	}
	return stepRetry, err
}

// finished checks the termination criteria after a successful macro-step
func (o *blowdown) finished() bool {
	n := len(o.res.Time) - 1
	switch {
	case o.res.Mdot[n] < o.opts.MEmpty:
		o.res.Status = Empty
	case o.res.Fluids[n].P < o.opts.Pempty():
		o.res.Status = Ambient
	case o.res.Nsteps > o.opts.Nmax:
		o.res.Status = MaxSteps
	default:
		return false
	}
	return true
}

// state computes the tank and throat states corresponding to y = {m, u}
func (o *blowdown) state(y []float64) (tank, throat fluid.State, err error) {
	rho := y[0] / o.src.V
	T, err := o.src.Fluid.Therm.TfromU(y[1], fluid.Round(rho, 10))
	if err != nil {
		return
	}
	tank, err = o.src.Fluid.Transition(fluid.Vars{T: &T, Rho: &rho})
	if err != nil {
		return
	}
	throat, _, err = o.orf.Flow(tank, o.opts.AmbientP, nil)
	return
}

// rhs computes f = dy/dt with y = {m, u}
func (o *blowdown) rhs(f []float64, t float64, y []float64) error {
	if y[0] <= 0 {
		return fmt.Errorf("source: mass must be positive. m = %g", y[0])
	}
	tank, throat, err := o.state(y)
	if err != nil {
		return err
	}
	h, err := tank.H()
	if err != nil {
		return err
	}
	f[0] = -o.orf.Mdot(throat)
	f[1] = (o.opts.HeatFlux + (h-y[1])*f[0]) / y[0]
	return nil
}

// record appends an accepted point to the results; repeated times are skipped
func (o *blowdown) record(t float64, y []float64) error {
	n := len(o.res.Time)
	if n > 0 && o.res.Time[n-1] == t {
		return nil
	}
	tank, throat, err := o.state(y)
	if err != nil {
		return err
	}
	o.res.Time = append(o.res.Time, t)
	o.res.Mdot = append(o.res.Mdot, o.orf.Mdot(throat))
	o.res.Fluids = append(o.res.Fluids, tank)
	o.res.Sol = append(o.res.Sol, [2]float64{y[0], y[1]})
	return nil
}

// rollback removes the recorded points after time t
func (o *blowdown) rollback(t float64) {
	n := len(o.res.Time)
	for n > 1 && o.res.Time[n-1] > t {
		n--
	}
	o.res.Time = o.res.Time[:n]
	o.res.Mdot = o.res.Mdot[:n]
	o.res.Fluids = o.res.Fluids[:n]
	o.res.Sol = o.res.Sol[:n]
}

// last returns the last recorded tank state
func (o *blowdown) last() fluid.State {
	return o.res.Fluids[len(o.res.Fluids)-1]
}
