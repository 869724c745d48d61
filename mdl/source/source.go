// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package source implements finite-volume sources (rigid tanks) of fluid and their blowdown
// through an orifice
package source

import (
	"fmt"

	"github.com/cl400sound/hyram-mpat/mdl/fluid"
	"github.com/cl400sound/hyram-mpat/mdl/therm"
	"github.com/cpmech/gosl/chk"
)

// Source holds a rigid tank filled with a fluid. M = Fluid.Rho・V
type Source struct {
	V     float64     // volume [m³]
	M     float64     // mass [kg]
	Fluid fluid.State // contents
}

// New returns a new source with given volume
func New(V float64, fl fluid.State) (o *Source, err error) {
	if V <= 0 {
		return nil, chk.Err("volume of source must be positive. V = %g is invalid", V)
	}
	return &Source{V: V, M: fl.Rho * V, Fluid: fl}, nil
}

// FromMass returns a new source with given mass; the volume is derived from the density
func FromMass(m float64, fl fluid.State) (o *Source, err error) {
	if m <= 0 || fl.Rho <= 0 {
		return nil, chk.Err("mass and density of source must be positive. m = %g, rho = %g is invalid", m, fl.Rho)
	}
	return &Source{V: m / fl.Rho, M: m, Fluid: fl}, nil
}

// FromMassVol returns a new source with given mass, volume and either temperature or pressure
//  Input:
//   mdl  -- property model bound to the species
//   m, V -- mass [kg] and volume [m³]
//   T, P -- temperature [K] or pressure [Pa]; exactly one must be given
func FromMassVol(mdl therm.Model, m, V float64, T, P *float64) (o *Source, err error) {
	if (T == nil) == (P == nil) {
		return nil, fmt.Errorf("%w: source requires either T or P", fluid.ErrUnderOrOverSpecified)
	}
	if V <= 0 {
		return nil, chk.Err("volume of source must be positive. V = %g is invalid", V)
	}
	rho := m / V
	fl, err := fluid.New(mdl, fluid.Vars{T: T, P: P, Rho: &rho}, therm.None)
	if err != nil {
		return
	}
	return &Source{V: V, M: m, Fluid: fl}, nil
}

// String returns a summary of the source
func (o Source) String() string {
	return fmt.Sprintf("source\n%s\n  volume = %g m^3\n  mass = %g kg\n%v",
		"------------------------------", o.V, o.M, o.Fluid)
}
