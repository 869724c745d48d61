// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package out implements the post-processing of blowdown trajectories
package out

import (
	"fmt"
	"io"

	"github.com/cl400sound/hyram-mpat/mdl/geom"
	"github.com/cl400sound/hyram-mpat/mdl/source"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate"
)

// ReleasedMass integrates the mass flow rate over time with the trapezoidal rule
func ReleasedMass(bd *source.Blowdown) float64 {
	if bd == nil || bd.Len() < 2 {
		return 0
	}
	return integrate.Trapezoidal(bd.Time, bd.Mdot)
}

// PeakMdot returns the largest mass flow rate and the time when it happens
func PeakMdot(bd *source.Blowdown) (mdot, t float64) {
	if bd == nil || bd.Len() == 0 {
		return
	}
	i := floats.MaxIdx(bd.Mdot)
	return bd.Mdot[i], bd.Time[i]
}

// Report summarises one blowdown run
type Report struct {
	D        float64       // orifice diameter [m]; set by caller
	Status   source.Status // how the run ended
	Npoints  int           // number of recorded points
	Nsteps   int           // number of macro-steps
	Time     float64       // time of last point [s]
	M0, Mf   float64       // initial and final mass [kg]
	P0, Pf   float64       // initial and final pressure [Pa]
	T0, Tf   float64       // initial and final temperature [K]
	Released float64       // released mass [kg]
	Mdotmax  float64       // peak mass flow rate [kg/s]
	Tpeak    float64       // time of peak mass flow rate [s]
	Fraction float64       // fully mixed volume fraction in enclosure; 0 => no enclosure
}

// Summary computes the report of a blowdown run
func Summary(bd *source.Blowdown) (o Report) {
	if bd == nil {
		return
	}
	o.Status = bd.Status
	o.Npoints = bd.Len()
	o.Nsteps = bd.Nsteps
	if o.Npoints == 0 {
		return
	}
	n := o.Npoints - 1
	o.Time = bd.Time[n]
	o.M0, o.Mf = bd.Sol[0][0], bd.Sol[n][0]
	o.P0, o.Pf = bd.Fluids[0].P, bd.Fluids[n].P
	o.T0, o.Tf = bd.Fluids[0].T, bd.Fluids[n].T
	o.Released = ReleasedMass(bd)
	o.Mdotmax, o.Tpeak = PeakMdot(bd)
	return
}

// Enclose computes the fraction of the released gas fully mixed in the enclosure
//  rho -- density of the released gas at ambient conditions [kg/m³]
func (o *Report) Enclose(enc *geom.Enclosure, rho float64) {
	if enc == nil || rho <= 0 {
		return
	}
	o.Fraction = enc.MixedFraction(o.Released / rho)
}

// WriteTable writes the time series of a blowdown run
func WriteTable(w io.Writer, bd *source.Blowdown) (err error) {
	_, err = fmt.Fprintf(w, "%13s%14s%14s%14s%14s%14s\n", "t [s]", "m [kg]", "P [Pa]", "T [K]", "rho [kg/m3]", "mdot [kg/s]")
	if err != nil {
		return
	}
	for i := 0; i < bd.Len(); i++ {
		fl := bd.Fluids[i]
		_, err = fmt.Fprintf(w, "%13.6e %13.6e %13.6e %13.6e %13.6e %13.6e\n", bd.Time[i], bd.Sol[i][0], fl.P, fl.T, fl.Rho, bd.Mdot[i])
		if err != nil {
			return
		}
	}
	return
}

// WriteReports writes one line per run; e.g. for orifice sweeps
func WriteReports(w io.Writer, reports []Report) (err error) {
	_, err = fmt.Fprintf(w, "%10s%12s%7s%13s%14s%14s%14s%14s%11s\n", "d [mm]", "status", "steps", "t [s]", "released [kg]", "mdotmax [kg/s]", "Pf [Pa]", "Tf [K]", "fraction")
	if err != nil {
		return
	}
	for _, r := range reports {
		_, err = fmt.Fprintf(w, "%10.4f%12s%7d %12.6e %13.6e %13.6e %13.6e %13.6e %10.4e\n",
			r.D*1000.0, r.Status, r.Nsteps, r.Time, r.Released, r.Mdotmax, r.Pf, r.Tf, r.Fraction)
		if err != nil {
			return
		}
	}
	return
}
