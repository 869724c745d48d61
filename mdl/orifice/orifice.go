// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package orifice implements the isentropic flow of a fluid through a circular orifice
package orifice

import (
	"errors"
	"fmt"
	"math"

	"github.com/cl400sound/hyram-mpat/mdl/fluid"
	"github.com/cl400sound/hyram-mpat/num"
	"github.com/cpmech/gosl/chk"
	log "github.com/sirupsen/logrus"
)

// errors
var (
	ErrInvalidBoundary    = errors.New("orifice: downstream pressure is higher than upstream pressure; unphysical")
	ErrUnderspecifiedFlow = errors.New("orifice: downstream pressure equals upstream pressure; mass flow rate is required")
)

// ChokeTol is the minimum difference [Pa] between throat and downstream pressures for choked flow
const ChokeTol = 0.01

// Orifice holds the geometry of a circular orifice
type Orifice struct {
	D        float64 // diameter [m]
	Cd       float64 // discharge coefficient; 1 => plug flow
	A        float64 // area [m²]
	Warnings bool    // log physics notices as warnings instead of debug messages
}

// New returns a new orifice
//  Input:
//   d  -- diameter [m]
//   Cd -- discharge coefficient in (0, 1]
func New(d, Cd float64) (o *Orifice, err error) {
	if d <= 0 {
		return nil, chk.Err("orifice diameter must be positive. d = %g is invalid", d)
	}
	if Cd <= 0 || Cd > 1 {
		return nil, chk.Err("discharge coefficient must be in (0, 1]. Cd = %g is invalid", Cd)
	}
	return &Orifice{D: d, Cd: Cd, A: math.Pi * d * d / 4.0}, nil
}

// Area returns the effective flow area Cd・A
func (o Orifice) Area() float64 {
	return o.Cd * o.A
}

// Mdot computes the mass flow rate of a throat state
func (o Orifice) Mdot(throat fluid.State) float64 {
	return throat.Rho * throat.V * o.A * o.Cd
}

// Flow computes the state at the throat for given upstream state and downstream pressure
//  Input:
//   up   -- upstream state
//   Pd   -- downstream pressure [Pa]
//   mdot -- mass flow rate [kg/s]; only used for unchoked flow [may be nil]
//  Output:
//   throat -- state at the throat
//   choked -- flow is choked
func (o Orifice) Flow(up fluid.State, Pd float64, mdot *float64) (throat fluid.State, choked bool, err error) {

	// stagnation enthalpy and entropy
	h, err := up.H()
	if err != nil {
		return
	}
	h0 := h + up.V*up.V/2.0
	var s0 float64
	if up.V > 0 {
		s0, err = up.Therm.SfromH(h0, fluid.Round(up.Rho, 12))
	} else {
		s0, err = up.S()
	}
	if err != nil {
		return
	}

	// boundary conditions
	if up.P < Pd {
		err = fmt.Errorf("%w: P = %g < Pd = %g", ErrInvalidBoundary, up.P, Pd)
		return
	}
	if up.P == Pd {
		if mdot == nil {
			err = fmt.Errorf("%w: P = Pd = %g", ErrUnderspecifiedFlow, Pd)
			return
		}
		throat, err = up.Transition(fluid.Vars{V: fluid.Val(*mdot / (o.Cd * up.Rho * o.A))})
		return
	}

	// throat pressure maximises the mass flux along the isentrope
	velocity := func(hP float64) float64 {
		return math.Sqrt(2.0 * math.Max(h0-hP, 0))
	}
	var sol num.Brent
	sol.Init(func(P float64) (float64, error) {
		hP, rhoP, e := up.Therm.Isentrope(P, s0)
		if e != nil {
			return 0, e
		}
		return -rhoP * velocity(hP), nil
	})
	P, err := sol.Min(Pd, up.P)
	if err != nil {
		return
	}
	hP, rhoP, err := up.Therm.Isentrope(P, s0)
	if err != nil {
		return
	}
	v := velocity(hP)
	throat, err = up.Transition(fluid.Vars{P: &P, Rho: &rhoP, V: &v})
	if err != nil {
		return
	}

	// regime
	choked = P-Pd > ChokeTol
	if choked {
		if mdot != nil {
			o.notice("orifice: flow is choked; ignoring mass flow rate and using choked flow calculation", P, Pd)
		}
		return
	}
	if mdot == nil {
		o.notice("orifice: flow is unchoked; mass flow rate should be verified", P, Pd)
		return
	}
	v = *mdot / (o.Cd * rhoP * o.A)
	throat, err = up.Transition(fluid.Vars{P: &P, Rho: &rhoP, V: &v})
	return
}

// String returns a summary of the orifice
func (o Orifice) String() string {
	return fmt.Sprintf("orifice\n%s\n  diameter = %.2f mm\n  discharge coefficient = %.2f",
		"------------------------------", o.D*1e3, o.Cd)
}

// notice logs a physics notice
func (o Orifice) notice(msg string, P, Pd float64) {
	entry := log.WithFields(log.Fields{"Pthroat": P, "Pdown": Pd, "d": o.D})
	if o.Warnings {
		entry.Warn(msg)
		return
	}
	entry.Debug(msg)
}
