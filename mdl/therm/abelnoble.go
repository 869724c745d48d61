// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package therm

import (
	"fmt"
	"math"

	"github.com/cpmech/gosl/chk"
	fun "github.com/cpmech/gosl/fun/dbf"
)

// reference state where s = 0
const (
	Tref = 298.15   // [K]
	Pref = 101325.0 // [Pa]
)

// AbelNoble implements the Abel-Noble equation of state with constant specific heats
//
//   P = ρ・Rs・T / (1 - b・ρ)
//   u = cv・T
//   h = cv・T + P/ρ = cp・T + b・P
//   s = cv・ln(T/Tref) + Rs・ln((1/ρ - b)・Pref / (Rs・Tref))
//
// The internal energy does not depend on density since (∂u/∂v)_T = T・(∂P/∂T)_v - P = 0.
// Isentropes satisfy T・(1/ρ - b)^(Rs/cv) = constant.
type AbelNoble struct {
	sp *Species // species
	Rs float64  // specific gas constant
	Cv float64  // specific heat at constant volume
	Cp float64  // specific heat at constant pressure
	B  float64  // co-volume
}

// add model to factory
func init() {
	allocators["abelnoble"] = func() Model { return new(AbelNoble) }
}

// Init initialises model. prms override the constants of sp:
//  M [kg/mol], gamma, Tc [K], Pc [Pa] and b [m³/kg]; b = 0 => estimated from (Tc, Pc)
func (o *AbelNoble) Init(sp *Species, prms fun.Params) (err error) {
	if sp == nil {
		return fmt.Errorf("%w: abelnoble: species is nil", ErrOutOfRange)
	}
	for _, p := range prms {
		switch p.N {
		case "M":
			sp.M = p.V
		case "gamma":
			sp.Gamma = p.V
		case "Tc":
			sp.Tc = p.V
		case "Pc":
			sp.Pc = p.V
		case "b":
			sp.B = p.V
		default:
			return chk.Err("abelnoble: parameter named %q is invalid", p.N)
		}
	}
	if sp.M <= 0 || sp.Gamma <= 1 || sp.B < 0 || (sp.B == 0 && (sp.Tc <= 0 || sp.Pc <= 0)) {
		return fmt.Errorf("%w: abelnoble: species constants are invalid", ErrOutOfRange)
	}
	o.sp = sp
	o.Rs = sp.Rs()
	o.Cv = o.Rs / (sp.Gamma - 1.0)
	o.Cp = o.Cv + o.Rs
	o.B = sp.CoVolume()
	return
}

// Species returns the bound species
func (o AbelNoble) Species() *Species {
	return o.sp
}

// Rho computes ρ(T, P)
func (o AbelNoble) Rho(T, P float64) (float64, error) {
	if T <= 0 || P <= 0 {
		return 0, o.rangeErr("Rho", "T", T, "P", P)
	}
	return P / (o.Rs*T + o.B*P), nil
}

// P computes P(T, ρ)
func (o AbelNoble) P(T, rho float64) (float64, error) {
	if err := o.checkTrho("P", T, rho); err != nil {
		return 0, err
	}
	return rho * o.Rs * T / (1.0 - o.B*rho), nil
}

// T computes T(P, ρ)
func (o AbelNoble) T(P, rho float64) (float64, error) {
	if P <= 0 || rho <= 0 || o.B*rho >= 1 {
		return 0, o.rangeErr("T", "P", P, "rho", rho)
	}
	return P * (1.0 - o.B*rho) / (rho * o.Rs), nil
}

// Sat returns ErrNoSaturation; the Abel-Noble gas has no liquid branch
func (o AbelNoble) Sat(v Var, val float64, phase Phase) (T, P, rho float64, err error) {
	err = fmt.Errorf("%w: %s model of %s", ErrNoSaturation, o.name(), o.sp.Name)
	return
}

// H computes h(T, ρ)
func (o AbelNoble) H(T, rho float64) (float64, error) {
	if err := o.checkTrho("H", T, rho); err != nil {
		return 0, err
	}
	return o.Cv*T + o.Rs*T/(1.0-o.B*rho), nil
}

// U computes u(T, ρ)
func (o AbelNoble) U(T, rho float64) (float64, error) {
	if err := o.checkTrho("U", T, rho); err != nil {
		return 0, err
	}
	return o.Cv * T, nil
}

// S computes s(T, ρ)
func (o AbelNoble) S(T, rho float64) (float64, error) {
	if err := o.checkTrho("S", T, rho); err != nil {
		return 0, err
	}
	x := (1.0/rho - o.B) * Pref / (o.Rs * Tref)
	return o.Cv*math.Log(T/Tref) + o.Rs*math.Log(x), nil
}

// TfromH computes T(h, ρ)
func (o AbelNoble) TfromH(h, rho float64) (float64, error) {
	if h <= 0 || rho <= 0 || o.B*rho >= 1 {
		return 0, o.rangeErr("TfromH", "h", h, "rho", rho)
	}
	return h / (o.Cv + o.Rs/(1.0-o.B*rho)), nil
}

// TfromU computes T(u, ρ)
func (o AbelNoble) TfromU(u, rho float64) (float64, error) {
	if u <= 0 || rho <= 0 || o.B*rho >= 1 {
		return 0, o.rangeErr("TfromU", "u", u, "rho", rho)
	}
	return u / o.Cv, nil
}

// SfromH computes s(h, ρ)
func (o AbelNoble) SfromH(h, rho float64) (float64, error) {
	T, err := o.TfromH(h, rho)
	if err != nil {
		return 0, err
	}
	return o.S(T, rho)
}

// Isentrope computes h and ρ at pressure P along the isentrope s
//  With x = (1/ρ - b)・Pref/(Rs・Tref) and p = P/Pref:
//   T/Tref = p・x   and   s = cv・ln(p) + cp・ln(x)
func (o AbelNoble) Isentrope(P, s float64) (h, rho float64, err error) {
	if P <= 0 {
		err = o.rangeErr("Isentrope", "P", P, "s", s)
		return
	}
	p := P / Pref
	x := math.Exp((s - o.Cv*math.Log(p)) / o.Cp)
	T := Tref * p * x
	rho = 1.0 / (x*o.Rs*Tref/Pref + o.B)
	h = o.Cp*T + o.B*P
	return
}

// Phase returns Unconstrained; the model only describes the gas phase
func (o AbelNoble) Phase(T, rho float64) Phase {
	return Unconstrained
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

func (o AbelNoble) name() string {
	if o.B == 0 {
		return "idealgas"
	}
	return "abelnoble"
}

func (o AbelNoble) checkTrho(fcn string, T, rho float64) error {
	if T <= 0 || rho <= 0 || o.B*rho >= 1 {
		return o.rangeErr(fcn, "T", T, "rho", rho)
	}
	return nil
}

func (o AbelNoble) rangeErr(fcn, n1 string, v1 float64, n2 string, v2 float64) error {
	return fmt.Errorf("%w: %s.%s(%s=%g, %s=%g)", ErrOutOfRange, o.name(), fcn, n1, v1, n2, v2)
}
