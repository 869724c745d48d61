// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package ana implements closed-form solutions for ideal gases used to verify the numerical
// release models
package ana

import "math"

// CriticalPressureRatio computes P*/P0 at which an isentropic ideal gas flow chokes
//
//   P*/P0 = (2/(γ+1))^(γ/(γ-1))
//
func CriticalPressureRatio(γ float64) float64 {
	return math.Pow(2.0/(γ+1.0), γ/(γ-1.0))
}

// ChokedMassFlux computes the mass flux [kg/(s・m²)] through a choked throat fed by a
// reservoir at stagnation conditions (T0, P0)
//
//   G* = P0・sqrt(γ/(Rs・T0))・(2/(γ+1))^((γ+1)/(2(γ-1)))
//
func ChokedMassFlux(γ, Rs, T0, P0 float64) float64 {
	return P0 * math.Sqrt(γ/(Rs*T0)) * math.Pow(2.0/(γ+1.0), (γ+1.0)/(2.0*(γ-1.0)))
}

// UnchokedMassFlux computes the mass flux [kg/(s・m²)] of an isentropic expansion from
// (T0, P0) down to the throat pressure P ≥ P*
//
//   G = P0/sqrt(Rs・T0)・sqrt(2γ/(γ-1)・[(P/P0)^(2/γ) - (P/P0)^((γ+1)/γ)])
//
func UnchokedMassFlux(γ, Rs, T0, P0, P float64) float64 {
	r := P / P0
	return P0 / math.Sqrt(Rs*T0) * math.Sqrt(2.0*γ/(γ-1.0)*(math.Pow(r, 2.0/γ)-math.Pow(r, (γ+1.0)/γ)))
}

// MassFlux computes the isentropic mass flux for any back pressure Pd < P0
func MassFlux(γ, Rs, T0, P0, Pd float64) float64 {
	if Pd/P0 <= CriticalPressureRatio(γ) {
		return ChokedMassFlux(γ, Rs, T0, P0)
	}
	return UnchokedMassFlux(γ, Rs, T0, P0, Pd)
}
