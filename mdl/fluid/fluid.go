// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package fluid implements the thermodynamic and kinematic state of a fluid
package fluid

import (
	"errors"
	"fmt"
	"math"

	"github.com/cl400sound/hyram-mpat/mdl/therm"
	log "github.com/sirupsen/logrus"
)

// errors
var (
	ErrUnderOrOverSpecified = errors.New("fluid: state not properly defined; too many or too few state variables")
	ErrAmbiguousUpdate      = errors.New("fluid: no updates made; update not properly defined")
)

// Vars holds optional state variables. nil means "not given"
type Vars struct {
	T   *float64 // temperature [K]
	P   *float64 // pressure [Pa]
	Rho *float64 // density [kg/m³]
	V   *float64 // velocity [m/s]
}

// Val returns a pointer to a copy of x; e.g. Vars{T: Val(288), P: Val(35e6)}
func Val(x float64) *float64 {
	return &x
}

// count returns the number of given thermodynamic variables
func (o Vars) count() (n int) {
	for _, x := range []*float64{o.T, o.P, o.Rho} {
		if x != nil {
			n++
		}
	}
	return
}

// State holds a snapshot of a fluid. T, P and ρ are always consistent according to Therm.
// State is a value type: Transition returns a new State and never modifies the receiver
type State struct {
	T     float64     // temperature [K]
	P     float64     // pressure [Pa]
	Rho   float64     // density [kg/m³]
	V     float64     // velocity [m/s]
	Phase therm.Phase // phase
	Therm therm.Model // property model bound to the species
}

// New returns a new fluid state
//  Input:
//   mdl   -- property model bound to the species
//   in    -- exactly two of {T, P, ρ}; or one of them if phase is saturated. V is optional (default 0)
//   phase -- therm.Gas or therm.Liquid for saturated states; therm.None otherwise
func New(mdl therm.Model, in Vars, phase therm.Phase) (o State, err error) {
	if mdl == nil {
		return o, fmt.Errorf("%w: property model is nil", ErrUnderOrOverSpecified)
	}
	o.Therm = mdl
	if in.V != nil {
		o.V = *in.V
	}

	// saturated state
	if phase.Saturated() {
		if in.count() != 1 {
			return o, fmt.Errorf("%w: saturated %s state requires exactly one of T, P, rho", ErrUnderOrOverSpecified, phase)
		}
		var v therm.Var
		var val float64
		switch {
		case in.T != nil:
			v, val = therm.VarT, *in.T
		case in.P != nil:
			v, val = therm.VarP, *in.P
		default:
			v, val = therm.VarRho, *in.Rho
		}
		o.T, o.P, o.Rho, err = mdl.Sat(v, val, phase)
		o.Phase = phase
		return
	}

	// pair of variables
	switch {
	case in.count() != 2:
		return o, fmt.Errorf("%w: %d of T, P, rho given", ErrUnderOrOverSpecified, in.count())
	case in.T != nil && in.P != nil:
		o.T, o.P = *in.T, *in.P
		o.Rho, err = mdl.Rho(o.T, o.P)
	case in.T != nil && in.Rho != nil:
		o.T, o.Rho = *in.T, *in.Rho
		o.P, err = mdl.P(o.T, o.Rho)
	default:
		o.P, o.Rho = *in.P, *in.Rho
		o.T, err = mdl.T(o.P, o.Rho)
	}
	if err != nil {
		return
	}
	o.Phase = mdl.Phase(o.T, o.Rho)
	return
}

// Transition returns a new state re-derived from exactly one pair among (T,P), (T,ρ), (P,ρ).
// The velocity is always replaced if given. When the thermodynamic part is not exactly one
// pair (none is allowed with a velocity), T, P and ρ are kept and ErrAmbiguousUpdate is
// returned. The receiver is never modified
func (o State) Transition(upd Vars) (res State, err error) {
	res = o
	if upd.V != nil {
		res.V = *upd.V
	}
	n := upd.count()
	if n == 0 && upd.V != nil {
		return
	}
	if n != 2 {
		log.WithFields(log.Fields{
			"species": o.Species(),
			"given":   n,
		}).Warn("fluid: no updates made; update not properly defined")
		return res, fmt.Errorf("%w: %d of T, P, rho given", ErrAmbiguousUpdate, n)
	}
	switch {
	case upd.T != nil && upd.P != nil:
		res.T, res.P = *upd.T, *upd.P
		res.Rho, err = o.Therm.Rho(res.T, res.P)
	case upd.T != nil && upd.Rho != nil:
		res.T, res.Rho = *upd.T, *upd.Rho
		res.P, err = o.Therm.P(res.T, res.Rho)
	default:
		res.P, res.Rho = *upd.P, *upd.Rho
		res.T, err = o.Therm.T(res.P, res.Rho)
	}
	if err != nil {
		res.T, res.P, res.Rho = o.T, o.P, o.Rho
		return
	}
	res.Phase = o.Therm.Phase(res.T, res.Rho)
	return
}

// Species returns the name of the species
func (o State) Species() string {
	if o.Therm == nil || o.Therm.Species() == nil {
		return ""
	}
	return o.Therm.Species().Name
}

// H returns the static specific enthalpy
func (o State) H() (float64, error) {
	return o.Therm.H(o.T, o.Rho)
}

// U returns the specific internal energy
func (o State) U() (float64, error) {
	return o.Therm.U(o.T, o.Rho)
}

// S returns the specific entropy
func (o State) S() (float64, error) {
	return o.Therm.S(o.T, o.Rho)
}

// String returns a summary of the state
func (o State) String() string {
	return fmt.Sprintf("%s\n%s\n  P = %.3f bar\n  T = %.1f K\n  rho = %.3f kg/m^3\n  v = %.1f m/s",
		o.Species(), "------------------------------", o.P*1e-5, o.T, o.Rho, o.V)
}

// Round rounds x to n decimal places
func Round(x float64, n int) float64 {
	p := math.Pow(10, float64(n))
	return math.Round(x*p) / p
}
