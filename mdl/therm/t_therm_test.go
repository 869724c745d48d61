// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package therm

import (
	"errors"
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	fun "github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"
)

func verbose() {
	chk.Verbose = true
}

func Test_therm01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("therm01. round trips among (T,P), (T,ρ) and (P,ρ)")

	for _, name := range []string{"abelnoble", "idealgas"} {
		mdl, err := New(name, "H2")
		if err != nil {
			tst.Errorf("New failed: %v\n", err)
			return
		}
		for _, T := range []float64{50, 288, 600} {
			for _, P := range []float64{1e5, 1e6, 35e6, 70e6} {
				rho, err := mdl.Rho(T, P)
				if err != nil {
					tst.Errorf("Rho failed: %v\n", err)
					return
				}
				Pc, err := mdl.P(T, rho)
				if err != nil {
					tst.Errorf("P failed: %v\n", err)
					return
				}
				Tc, err := mdl.T(P, rho)
				if err != nil {
					tst.Errorf("T failed: %v\n", err)
					return
				}
				io.Pforan("%10s: T=%6.1f P=%10.3e rho=%12.6f\n", name, T, P, rho)
				chk.Float64(tst, "P(T,ρ)", 1e-8*P, Pc, P)
				chk.Float64(tst, "T(P,ρ)", 1e-10*T, Tc, T)
			}
		}
	}
}

func Test_therm02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("therm02. caloric properties and inverse lookups")

	mdl, err := New("abelnoble", "hydrogen")
	if err != nil {
		tst.Errorf("New failed: %v\n", err)
		return
	}
	T, P := 288.0, 35e6
	rho, _ := mdl.Rho(T, P)

	h, _ := mdl.H(T, rho)
	u, _ := mdl.U(T, rho)
	chk.Float64(tst, "h - u = P/ρ", 1e-6, h-u, P/rho)

	Th, err := mdl.TfromH(h, rho)
	if err != nil {
		tst.Errorf("TfromH failed: %v\n", err)
		return
	}
	Tu, err := mdl.TfromU(u, rho)
	if err != nil {
		tst.Errorf("TfromU failed: %v\n", err)
		return
	}
	chk.Float64(tst, "T(h,ρ)", 1e-10, Th, T)
	chk.Float64(tst, "T(u,ρ)", 1e-10, Tu, T)

	s, _ := mdl.S(T, rho)
	sh, err := mdl.SfromH(h, rho)
	if err != nil {
		tst.Errorf("SfromH failed: %v\n", err)
		return
	}
	chk.Float64(tst, "s(h,ρ)", 1e-6, sh, s)

	// isentrope passes through the reference point
	hi, rhoi, err := mdl.Isentrope(P, s)
	if err != nil {
		tst.Errorf("Isentrope failed: %v\n", err)
		return
	}
	chk.Float64(tst, "h(P,s)", 1e-4, hi, h)
	chk.Float64(tst, "ρ(P,s)", 1e-9, rhoi, rho)

	// entropy is constant along the isentrope
	for _, Pi := range []float64{20e6, 5e6, 1e6, 101325} {
		_, rhoi, _ := mdl.Isentrope(Pi, s)
		Ti, _ := mdl.T(Pi, rhoi)
		si, _ := mdl.S(Ti, rhoi)
		chk.Float64(tst, io.Sf("s @ P=%g", Pi), 1e-6, si, s)
	}
}

func Test_therm03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("therm03. ideal gas isentrope and dilute limit")

	ig, _ := New("idealgas", "N2")
	an, _ := New("abelnoble", "N2")
	sp := ig.Species()
	γ := sp.Gamma

	// T・P^((1-γ)/γ) = constant along an isentrope
	T0, P0 := 300.0, 2e5
	rho0, _ := ig.Rho(T0, P0)
	s0, _ := ig.S(T0, rho0)
	for _, P := range []float64{1.5e5, 1e5, 5e4} {
		_, rho, _ := ig.Isentrope(P, s0)
		T, _ := ig.T(P, rho)
		chk.Float64(tst, "T/T0", 1e-10, T/T0, math.Pow(P/P0, (γ-1)/γ))
	}

	// Abel-Noble tends to ideal gas at low density
	rhoIg, _ := ig.Rho(300, 100)
	rhoAn, _ := an.Rho(300, 100)
	chk.Float64(tst, "ρ dilute", 1e-5*rhoIg, rhoAn, rhoIg)
}

func Test_therm04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("therm04. errors")

	if _, err := New("coolprop", "H2"); err == nil {
		tst.Errorf("unknown model should fail\n")
	}
	if _, err := New("abelnoble", "unobtainium"); err == nil {
		tst.Errorf("unknown species should fail\n")
	}

	mdl, _ := New("abelnoble", "H2")
	if _, _, _, err := mdl.Sat(VarT, 20, Liquid); !errors.Is(err, ErrNoSaturation) {
		tst.Errorf("Sat should fail with ErrNoSaturation. err = %v\n", err)
	}
	if _, err := mdl.P(300, -1); !errors.Is(err, ErrOutOfRange) {
		tst.Errorf("negative density should fail with ErrOutOfRange. err = %v\n", err)
	}
	if _, err := mdl.T(1e5, 2.0/mdl.(*AbelNoble).B); !errors.Is(err, ErrOutOfRange) {
		tst.Errorf("density above co-volume limit should fail. err = %v\n", err)
	}

	phase, err := ParsePhase("Vapour")
	if err != nil {
		tst.Errorf("ParsePhase failed: %v\n", err)
		return
	}
	if phase != Gas || !phase.Saturated() {
		tst.Errorf("phase should be saturated gas. got %v\n", phase)
	}
	if _, err := ParsePhase("plasma"); err == nil {
		tst.Errorf("ParsePhase should fail\n")
	}
	if mdl.Phase(300, 1) != Unconstrained {
		tst.Errorf("gas model should report unconstrained phase\n")
	}
}

func Test_therm05(tst *testing.T) {

	//verbose()
	chk.PrintTitle("therm05. overriding species constants")

	mdl, err := New("abelnoble", "H2", &fun.P{N: "b", V: 0.01}, &fun.P{N: "gamma", V: 1.4})
	if err != nil {
		tst.Errorf("New failed: %v\n", err)
		return
	}
	sp := mdl.Species()
	chk.Float64(tst, "b", 1e-17, sp.B, 0.01)
	chk.Float64(tst, "gamma", 1e-17, sp.Gamma, 1.4)
	rho, _ := mdl.Rho(300, 1e6)
	chk.Float64(tst, "ρ", 1e-12, rho, 1e6/(sp.Rs()*300+0.01*1e6))

	// database is not modified
	h2, _ := GetSpecies("H2")
	chk.Float64(tst, "database b", 1e-17, h2.B, 7.691e-3)

	// co-volume estimated from critical constants
	mdl, _ = New("abelnoble", "N2", &fun.P{N: "Tc", V: 130})
	n2, _ := GetSpecies("N2")
	chk.Float64(tst, "estimated b", 1e-15, mdl.Species().CoVolume(), n2.Rs()*130/(8*n2.Pc))

	// ideal gas keeps b = 0
	mdl, err = New("idealgas", "N2", &fun.P{N: "M", V: 28e-3})
	if err != nil {
		tst.Errorf("New failed: %v\n", err)
		return
	}
	P, _ := mdl.P(300, 1)
	chk.Float64(tst, "P ideal", 1e-9, P, Ru/28e-3*300)

	for i, prms := range [][]*fun.P{
		{{N: "kappa", V: 1}},
		{{N: "gamma", V: 1}},
		{{N: "b", V: -1}},
	} {
		if _, err := New("abelnoble", "H2", prms...); err == nil {
			tst.Errorf("case %d should fail\n", i)
		}
	}
	if _, err := New("idealgas", "N2", &fun.P{N: "b", V: 1e-3}); err == nil {
		tst.Errorf("ideal gas must reject a co-volume\n")
	}
}
