// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package therm implements thermodynamic property models (equations of state) for
// single-species fluids. A Model maps two independent state variables to the
// remaining ones. Models hold no caches, so each run may own its own instance.
//  Units: T [K], P [Pa], ρ [kg/m³], h, u [J/kg], s [J/(kg・K)]
package therm

import (
	"errors"
	"strings"

	"github.com/cpmech/gosl/chk"
	fun "github.com/cpmech/gosl/fun/dbf"
)

// errors
var (
	ErrNoSaturation = errors.New("therm: saturation states are not available")
	ErrOutOfRange   = errors.New("therm: state variables out of range")
)

// Phase defines the phase of a fluid state
type Phase int

// phases
const (
	None          Phase = iota // no saturation constraint given
	Gas                        // saturated vapour
	Liquid                     // saturated liquid
	Unconstrained              // single-phase state
)

// String returns the name of the phase
func (p Phase) String() string {
	switch p {
	case Gas:
		return "gas"
	case Liquid:
		return "liquid"
	case Unconstrained:
		return "unconstrained"
	}
	return "none"
}

// Saturated tells whether the phase constrains the state to the saturation curve
func (p Phase) Saturated() bool {
	return p == Gas || p == Liquid
}

// ParsePhase converts a name into a phase. An empty string gives None
func ParsePhase(name string) (Phase, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none":
		return None, nil
	case "gas", "vapor", "vapour":
		return Gas, nil
	case "liquid":
		return Liquid, nil
	case "unconstrained":
		return Unconstrained, nil
	}
	return None, chk.Err("phase %q is invalid; options are \"gas\", \"liquid\" or \"none\"", name)
}

// Var identifies one of the primary state variables
type Var int

// primary state variables
const (
	VarT   Var = iota // temperature
	VarP              // pressure
	VarRho            // density
)

// Model defines thermodynamic property models
type Model interface {
	Init(sp *Species, prms fun.Params) error                            // initialises model for given species
	Species() *Species                                                  // returns the bound species
	Rho(T, P float64) (float64, error)                                  // computes ρ(T, P)
	P(T, rho float64) (float64, error)                                  // computes P(T, ρ)
	T(P, rho float64) (float64, error)                                  // computes T(P, ρ)
	Sat(v Var, val float64, phase Phase) (T, P, rho float64, err error) // saturated state given one of T, P, ρ
	H(T, rho float64) (float64, error)                                  // computes h(T, ρ)
	U(T, rho float64) (float64, error)                                  // computes u(T, ρ)
	S(T, rho float64) (float64, error)                                  // computes s(T, ρ)
	TfromH(h, rho float64) (float64, error)                             // computes T(h, ρ)
	TfromU(u, rho float64) (float64, error)                             // computes T(u, ρ)
	SfromH(h, rho float64) (float64, error)                             // computes s(h, ρ)
	Isentrope(P, s float64) (h, rho float64, err error)                 // computes h(P, s) and ρ(P, s)
	Phase(T, rho float64) Phase                                         // returns the phase at (T, ρ)
}

// New allocates and initialises a property model for a species
//  Input:
//   name    -- name of model; e.g. "abelnoble", "idealgas"
//   species -- formula or common name of species; e.g. "H2", "hydrogen"
//   prms    -- overrides of species constants; e.g. &fun.P{N: "b", V: 7.7e-3}
func New(name, species string, prms ...*fun.P) (model Model, err error) {
	allocator, ok := allocators[strings.ToLower(name)]
	if !ok {
		return nil, chk.Err("model %q is not available in 'therm' database", name)
	}
	sp, err := GetSpecies(species)
	if err != nil {
		return nil, err
	}
	model = allocator()
	err = model.Init(sp, prms)
	if err != nil {
		return nil, err
	}
	return
}

// allocators holds all available models
var allocators = map[string]func() Model{}
