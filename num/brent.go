// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package num implements numerical methods used by the release models: a bounded
// scalar minimiser and an explicit adaptive Runge-Kutta integrator
package num

import (
	"errors"
	"fmt"
	"math"
)

// ErrNoConvergence is returned when the maximum number of iterations is reached
var ErrNoConvergence = errors.New("num: maximum number of iterations reached")

// Fx defines a scalar function y = f(x) that may fail
type Fx func(x float64) (float64, error)

// Brent implements Brent's bounded minimisation method (golden section search combined with
// successive parabolic interpolation). No derivatives are required; f must be unimodal in
// the search interval.
//  Reference: Forsythe GE, Malcolm MA and Moler CB (1977) Computer Methods for Mathematical
//             Computations, Prentice-Hall, routine FMIN
type Brent struct {

	// configuration
	MaxIt int     // max iterations
	Atol  float64 // absolute tolerance on x
	Rtol  float64 // relative tolerance on x

	// statistics
	NFeval int // number of calls to ffcn
	It     int // number of iterations from last call to Min

	// internal
	ffcn Fx // y = f(x) function
}

// Init initialises Brent structure
func (o *Brent) Init(ffcn Fx) {
	o.MaxIt = 500
	o.Atol = 1e-5
	o.Rtol = 1e-9
	o.ffcn = ffcn
}

// Min finds the minimiser of f in [xa, xb]. The end points are never evaluated
func (o *Brent) Min(xa, xb float64) (xmin float64, err error) {

	// check
	if xb < xa {
		xa, xb = xb, xa
	}
	o.NFeval, o.It = 0, 0

	// constants
	golden := 0.5 * (3.0 - math.Sqrt(5.0))

	// initial point
	a, b := xa, xb
	fulc := a + golden*(b-a)
	nfc, xf := fulc, fulc
	rat, e := 0.0, 0.0
	x := xf
	fx, err := o.eval(x)
	if err != nil {
		return
	}
	ffulc, fnfc := fx, fx
	xm := 0.5 * (a + b)
	tol1 := o.Rtol*math.Abs(xf) + o.Atol/3.0
	tol2 := 2.0 * tol1

	// iterations
	for math.Abs(xf-xm) > tol2-0.5*(b-a) {
		o.It++
		if o.It > o.MaxIt {
			return xf, fmt.Errorf("%w: Brent.Min: x = %g, f = %g", ErrNoConvergence, xf, fx)
		}

		// parabolic fit
		doGolden := true
		if math.Abs(e) > tol1 {
			doGolden = false
			r := (xf - nfc) * (fx - ffulc)
			q := (xf - fulc) * (fx - fnfc)
			p := (xf-fulc)*q - (xf-nfc)*r
			q = 2.0 * (q - r)
			if q > 0 {
				p = -p
			}
			q = math.Abs(q)
			r = e
			e = rat
			if math.Abs(p) < math.Abs(0.5*q*r) && p > q*(a-xf) && p < q*(b-xf) {
				rat = p / q
				x = xf + rat
				if x-a < tol2 || b-x < tol2 {
					rat = tol1 * sign(xm-xf)
				}
			} else {
				doGolden = true
			}
		}

		// golden section step
		if doGolden {
			if xf >= xm {
				e = a - xf
			} else {
				e = b - xf
			}
			rat = golden * e
		}

		// new point at least tol1 away from xf
		x = xf + sign(rat)*math.Max(math.Abs(rat), tol1)
		fu, err := o.eval(x)
		if err != nil {
			return xf, err
		}

		// update bracket
		if fu <= fx {
			if x >= xf {
				a = xf
			} else {
				b = xf
			}
			fulc, ffulc = nfc, fnfc
			nfc, fnfc = xf, fx
			xf, fx = x, fu
		} else {
			if x < xf {
				a = x
			} else {
				b = x
			}
			if fu <= fnfc || nfc == xf {
				fulc, ffulc = nfc, fnfc
				nfc, fnfc = x, fu
			} else if fu <= ffulc || fulc == xf || fulc == nfc {
				fulc, ffulc = x, fu
			}
		}
		xm = 0.5 * (a + b)
		tol1 = o.Rtol*math.Abs(xf) + o.Atol/3.0
		tol2 = 2.0 * tol1
	}
	return xf, nil
}

// eval calls ffcn and counts evaluations
func (o *Brent) eval(x float64) (y float64, err error) {
	o.NFeval++
	y, err = o.ffcn(x)
	if err == nil && math.IsNaN(y) {
		err = fmt.Errorf("num: Brent.Min: f(%g) is NaN", x)
	}
	return
}

// sign returns +1 for x ≥ 0 and -1 otherwise
func sign(x float64) float64 {
	if x < 0 {
		return -1
	}
	return 1
}
