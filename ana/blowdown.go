// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ana

import "math"

// AdiabaticBlowdown computes the state of an ideal gas in a rigid tank discharging through a
// choked orifice without heat transfer. The gas in the tank expands isentropically:
//
//    V・dρ/dt = -Cd・A・G*(T, P)
//    P/P0 = (ρ/ρ0)^γ        T/T0 = (ρ/ρ0)^(γ-1)
//
//  thus, with r = ρ/ρ0:
//
//    dr/dt = -K・r^((γ+1)/2)
//    K     = (Cd・A/V)・sqrt(γ・Rs・T0)・(2/(γ+1))^((γ+1)/(2(γ-1)))
//    r(t)  = (1 + (γ-1)/2・K・t)^(-2/(γ-1))
//
// The solution is valid while P・CriticalPressureRatio(γ) ≥ Pd
type AdiabaticBlowdown struct {
	Gamma float64 // ratio of specific heats
	Rs    float64 // specific gas constant
	T0    float64 // initial temperature
	P0    float64 // initial pressure
	Rho0  float64 // initial density
	K     float64 // discharge rate constant
}

// Init initialises this structure
//  Input:
//   γ, Rs  -- gas constants
//   T0, P0 -- initial state
//   V      -- volume of tank
//   CdA    -- effective area of orifice
func (o *AdiabaticBlowdown) Init(γ, Rs, T0, P0, V, CdA float64) {
	o.Gamma = γ
	o.Rs = Rs
	o.T0 = T0
	o.P0 = P0
	o.Rho0 = P0 / (Rs * T0)
	o.K = (CdA / V) * math.Sqrt(γ*Rs*T0) * math.Pow(2.0/(γ+1.0), (γ+1.0)/(2.0*(γ-1.0)))
}

// Calc computes the state at time t
func (o AdiabaticBlowdown) Calc(t float64) (P, T, rho float64) {
	γ := o.Gamma
	r := math.Pow(1.0+0.5*(γ-1.0)*o.K*t, -2.0/(γ-1.0))
	return o.P0 * math.Pow(r, γ), o.T0 * math.Pow(r, γ-1.0), o.Rho0 * r
}

// ChokedUntil returns the time at which the flow unchokes for back pressure Pd
func (o AdiabaticBlowdown) ChokedUntil(Pd float64) float64 {
	γ := o.Gamma
	r := math.Pow(Pd/(o.P0*CriticalPressureRatio(γ)), 1.0/γ)
	if r >= 1 {
		return 0
	}
	return (math.Pow(r, -0.5*(γ-1.0)) - 1.0) / (0.5 * (γ - 1.0) * o.K)
}

