// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package inp implements the input data read from a scenario (.ini) file
package inp

import (
	"fmt"
	"strings"

	"github.com/cl400sound/hyram-mpat/mdl/fluid"
	"github.com/cl400sound/hyram-mpat/mdl/geom"
	"github.com/cl400sound/hyram-mpat/mdl/orifice"
	"github.com/cl400sound/hyram-mpat/mdl/source"
	"github.com/cl400sound/hyram-mpat/mdl/therm"
	"github.com/cpmech/gosl/chk"
	fun "github.com/cpmech/gosl/fun/dbf"
	"gopkg.in/ini.v1"
)

// FluidData holds the initial state of the fluid
type FluidData struct {
	Model   string   // property model; e.g. "abelnoble", "idealgas"
	Species string   // species; e.g. "H2"
	T       *float64 // temperature [K]
	P       *float64 // pressure [Pa]
	Rho     *float64 // density [kg/m³]
	Phase   string   // "gas" or "liquid" for saturated states
	V       float64  // velocity [m/s]

	// overrides of species constants: M, gamma, Tc, Pc, b
	Prms fun.Params

	// derived
	Ph therm.Phase // parsed phase
}

// OrificeData holds the orifice geometry
type OrificeData struct {
	D        float64 // diameter [m]
	Cd       float64 // discharge coefficient
	Warnings bool    // log physics notices as warnings
}

// TankData holds the tank data. Either V or M or both (with one of T, P) must be given
type TankData struct {
	V float64 // volume [m³]
	M float64 // mass [kg]
}

// BlowdownData holds the blowdown options
type BlowdownData struct {
	Ambient  float64 // ambient pressure [Pa]
	Heat     float64 // heat flow into tank [W]
	Nmax     int     // max number of macro-steps
	Mempty   float64 // mass flow rate below which the tank is empty [kg/s]
	Pempty   float64 // percent above ambient pressure below which the tank is empty
	Atol     float64 // absolute tolerance of ODE solver
	Rtol     float64 // relative tolerance of ODE solver
	Halvings int     // max number of macro-step halvings
}

// SweepData holds the data of orifice-size parameter sweeps
type SweepData struct {
	Diameters []float64 // orifice diameters [m]
	Workers   int       // number of parallel runs; 0 => number of CPUs
}

// VentData holds vent data
type VentData struct {
	A  float64 // area [m²]
	H  float64 // height [m]
	Cd float64 // discharge coefficient
	Q  float64 // volumetric flow rate [m³/s]
}

// EnclosureData holds enclosure data
type EnclosureData struct {
	H        float64  // height [m]
	A        float64  // floor area [m²]
	Hrelease float64  // height of release [m]
	Xwall    float64  // distance to wall [m]; 0 => no wall
	Ceiling  VentData // ceiling vent
	Floor    VentData // floor vent
}

// Scenario holds all data of a release scenario
type Scenario struct {
	Desc      string         // description
	Fluid     FluidData      // fluid
	Orifice   OrificeData    // orifice
	Tank      TankData       // tank
	Blowdown  BlowdownData   // blowdown options
	Sweep     SweepData      // parameter sweep
	Enclosure *EnclosureData // enclosure [may be nil]
	Verbose   bool           // print messages
}

// ReadScenario reads a scenario from an ini file
func ReadScenario(path string) (o *Scenario, err error) {
	file, err := ini.Load(path)
	if err != nil {
		return nil, chk.Err("cannot read scenario file %q:\n%v", path, err)
	}
	return newScenario(file)
}

// ParseScenario reads a scenario from ini data
func ParseScenario(data []byte) (o *Scenario, err error) {
	file, err := ini.Load(data)
	if err != nil {
		return nil, chk.Err("cannot parse scenario:\n%v", err)
	}
	return newScenario(file)
}

// newScenario loads, sets defaults and post-processes
func newScenario(file *ini.File) (o *Scenario, err error) {
	o = new(Scenario)
	o.SetDefault()
	err = o.load(file)
	if err != nil {
		return nil, err
	}
	err = o.PostProcess()
	if err != nil {
		return nil, err
	}
	return
}

// SetDefault sets default values
func (o *Scenario) SetDefault() {
	o.Fluid.Model = "abelnoble"
	o.Fluid.Species = "H2"
	o.Orifice.Cd = 1
	o.Blowdown.Ambient = 101325
	o.Blowdown.Nmax = 1000
	o.Blowdown.Mempty = 1e-6
	o.Blowdown.Pempty = 0.01
	o.Blowdown.Atol = 1e-12
	o.Blowdown.Rtol = 1e-6
	o.Blowdown.Halvings = 100
}

// load reads all sections
func (o *Scenario) load(file *ini.File) (err error) {
	r := reader{file: file}

	// general
	o.Desc = file.Section("").Key("desc").String()
	o.Verbose = r.flag("", "verbose", o.Verbose)

	// fluid
	o.Fluid.Model = r.str("fluid", "model", o.Fluid.Model)
	o.Fluid.Species = r.str("fluid", "species", o.Fluid.Species)
	o.Fluid.T = r.opt("fluid", "T")
	o.Fluid.P = r.opt("fluid", "P")
	o.Fluid.Rho = r.opt("fluid", "rho")
	o.Fluid.Phase = r.str("fluid", "phase", o.Fluid.Phase)
	o.Fluid.V = r.float("fluid", "v", o.Fluid.V)
	for _, name := range []string{"M", "gamma", "Tc", "Pc", "b"} {
		if v := r.opt("fluid", name); v != nil {
			o.Fluid.Prms = append(o.Fluid.Prms, &fun.P{N: name, V: *v})
		}
	}

	// orifice
	o.Orifice.D = r.float("orifice", "d", o.Orifice.D)
	o.Orifice.Cd = r.float("orifice", "Cd", o.Orifice.Cd)
	o.Orifice.Warnings = r.flag("orifice", "warnings", o.Orifice.Warnings)

	// tank
	o.Tank.V = r.float("tank", "V", o.Tank.V)
	o.Tank.M = r.float("tank", "m", o.Tank.M)

	// blowdown
	o.Blowdown.Ambient = r.float("blowdown", "ambient", o.Blowdown.Ambient)
	o.Blowdown.Heat = r.float("blowdown", "heat", o.Blowdown.Heat)
	o.Blowdown.Nmax = r.integer("blowdown", "nmax", o.Blowdown.Nmax)
	o.Blowdown.Mempty = r.float("blowdown", "mempty", o.Blowdown.Mempty)
	o.Blowdown.Pempty = r.float("blowdown", "pempty", o.Blowdown.Pempty)
	o.Blowdown.Atol = r.float("blowdown", "atol", o.Blowdown.Atol)
	o.Blowdown.Rtol = r.float("blowdown", "rtol", o.Blowdown.Rtol)
	o.Blowdown.Halvings = r.integer("blowdown", "halvings", o.Blowdown.Halvings)

	// sweep
	o.Sweep.Diameters = r.floats("sweep", "diameters")
	o.Sweep.Workers = r.integer("sweep", "workers", o.Sweep.Workers)

	// enclosure
	if _, e := file.GetSection("enclosure"); e == nil {
		enc := &EnclosureData{Ceiling: VentData{Cd: 1}, Floor: VentData{Cd: 1}}
		enc.H = r.float("enclosure", "H", 0)
		enc.A = r.float("enclosure", "A", 0)
		enc.Hrelease = r.float("enclosure", "Hrelease", 0)
		enc.Xwall = r.float("enclosure", "Xwall", 0)
		for _, v := range []struct {
			sec  string
			data *VentData
		}{{"vent.ceiling", &enc.Ceiling}, {"vent.floor", &enc.Floor}} {
			v.data.A = r.float(v.sec, "A", 0)
			v.data.H = r.float(v.sec, "H", 0)
			v.data.Cd = r.float(v.sec, "Cd", v.data.Cd)
			v.data.Q = r.float(v.sec, "Q", 0)
		}
		o.Enclosure = enc
	}
	return r.err
}

// PostProcess checks data and computes derived values
func (o *Scenario) PostProcess() (err error) {
	o.Fluid.Ph, err = therm.ParsePhase(o.Fluid.Phase)
	if err != nil {
		return
	}
	if _, err = o.Therm(); err != nil {
		return
	}
	if o.Orifice.D <= 0 {
		return chk.Err("[orifice] d must be positive. d = %g is invalid", o.Orifice.D)
	}
	if o.Orifice.Cd <= 0 || o.Orifice.Cd > 1 {
		return chk.Err("[orifice] Cd must be in (0, 1]. Cd = %g is invalid", o.Orifice.Cd)
	}
	if o.Tank.V < 0 || o.Tank.M < 0 || (o.Tank.V == 0 && o.Tank.M == 0) {
		return chk.Err("[tank] requires positive V or m. V = %g, m = %g is invalid", o.Tank.V, o.Tank.M)
	}
	if o.Blowdown.Ambient <= 0 {
		return chk.Err("[blowdown] ambient pressure must be positive. ambient = %g is invalid", o.Blowdown.Ambient)
	}
	if o.Blowdown.Nmax < 1 || o.Blowdown.Halvings < 0 {
		return chk.Err("[blowdown] nmax = %d and halvings = %d are invalid", o.Blowdown.Nmax, o.Blowdown.Halvings)
	}
	if o.Blowdown.Atol <= 0 || o.Blowdown.Rtol <= 0 {
		return chk.Err("[blowdown] tolerances must be positive. atol = %g, rtol = %g is invalid", o.Blowdown.Atol, o.Blowdown.Rtol)
	}
	for _, d := range o.Sweep.Diameters {
		if d <= 0 {
			return chk.Err("[sweep] diameters must be positive. %g is invalid", d)
		}
	}
	if o.Sweep.Workers < 0 {
		return chk.Err("[sweep] workers must not be negative. workers = %d is invalid", o.Sweep.Workers)
	}
	return
}

// Therm allocates a new property model. Each run must own its model
func (o Scenario) Therm() (therm.Model, error) {
	return therm.New(o.Fluid.Model, o.Fluid.Species, o.Fluid.Prms...)
}

// FluidState returns the initial fluid state
func (o Scenario) FluidState(mdl therm.Model) (fluid.State, error) {
	return fluid.New(mdl, fluid.Vars{T: o.Fluid.T, P: o.Fluid.P, Rho: o.Fluid.Rho, V: &o.Fluid.V}, o.Fluid.Ph)
}

// NewOrifice returns the orifice with diameter d; d ≤ 0 means the diameter in the scenario
func (o Scenario) NewOrifice(d float64) (*orifice.Orifice, error) {
	if d <= 0 {
		d = o.Orifice.D
	}
	orf, err := orifice.New(d, o.Orifice.Cd)
	if err != nil {
		return nil, err
	}
	orf.Warnings = o.Orifice.Warnings
	return orf, nil
}

// NewSource returns the tank with a new property model
func (o Scenario) NewSource() (*source.Source, error) {
	mdl, err := o.Therm()
	if err != nil {
		return nil, err
	}
	if o.Tank.V > 0 && o.Tank.M > 0 {
		if o.Fluid.Rho != nil {
			return nil, fmt.Errorf("%w: [tank] m and V define the density; [fluid] rho must not be given", fluid.ErrUnderOrOverSpecified)
		}
		return source.FromMassVol(mdl, o.Tank.M, o.Tank.V, o.Fluid.T, o.Fluid.P)
	}
	fl, err := o.FluidState(mdl)
	if err != nil {
		return nil, err
	}
	if o.Tank.V > 0 {
		return source.New(o.Tank.V, fl)
	}
	return source.FromMass(o.Tank.M, fl)
}

// Opts returns the blowdown options
func (o Scenario) Opts() *source.Opts {
	return &source.Opts{
		AmbientP:      o.Blowdown.Ambient,
		HeatFlux:      o.Blowdown.Heat,
		Nmax:          o.Blowdown.Nmax,
		MEmpty:        o.Blowdown.Mempty,
		PEmptyPercent: o.Blowdown.Pempty,
		Atol:          o.Blowdown.Atol,
		Rtol:          o.Blowdown.Rtol,
		MaxHalvings:   o.Blowdown.Halvings,
		Verbose:       o.Verbose,
	}
}

// NewEnclosure returns the enclosure or nil if not given
func (o Scenario) NewEnclosure() (*geom.Enclosure, error) {
	if o.Enclosure == nil {
		return nil, nil
	}
	e := o.Enclosure
	ceiling, err := geom.NewVent(e.Ceiling.A, e.Ceiling.H, e.Ceiling.Cd, e.Ceiling.Q)
	if err != nil {
		return nil, err
	}
	floor, err := geom.NewVent(e.Floor.A, e.Floor.H, e.Floor.Cd, e.Floor.Q)
	if err != nil {
		return nil, err
	}
	return geom.NewEnclosure(e.H, e.A, e.Hrelease, ceiling, floor, e.Xwall)
}

// reader reads keys and keeps the first error
type reader struct {
	file *ini.File
	err  error
}

func (o *reader) key(sec, name string) *ini.Key {
	if o.err != nil {
		return nil
	}
	s, err := o.file.GetSection(sec)
	if err != nil || !s.HasKey(name) {
		return nil
	}
	return s.Key(name)
}

func (o *reader) fail(sec, name string, err error) {
	o.err = chk.Err("[%s] %s is invalid:\n%v", sec, name, err)
}

func (o *reader) str(sec, name, def string) string {
	if k := o.key(sec, name); k != nil {
		return strings.TrimSpace(k.String())
	}
	return def
}

func (o *reader) float(sec, name string, def float64) float64 {
	if k := o.key(sec, name); k != nil {
		v, err := k.Float64()
		if err != nil {
			o.fail(sec, name, err)
		}
		return v
	}
	return def
}

func (o *reader) opt(sec, name string) *float64 {
	if k := o.key(sec, name); k != nil {
		v, err := k.Float64()
		if err != nil {
			o.fail(sec, name, err)
			return nil
		}
		return &v
	}
	return nil
}

func (o *reader) integer(sec, name string, def int) int {
	if k := o.key(sec, name); k != nil {
		v, err := k.Int()
		if err != nil {
			o.fail(sec, name, err)
		}
		return v
	}
	return def
}

func (o *reader) flag(sec, name string, def bool) bool {
	if k := o.key(sec, name); k != nil {
		v, err := k.Bool()
		if err != nil {
			o.fail(sec, name, err)
		}
		return v
	}
	return def
}

func (o *reader) floats(sec, name string) []float64 {
	if k := o.key(sec, name); k != nil {
		v, err := k.StrictFloat64s(",")
		if err != nil {
			o.fail(sec, name, err)
		}
		return v
	}
	return nil
}
