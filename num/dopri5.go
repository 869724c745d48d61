// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package num

import (
	"errors"
	"fmt"
	"math"
)

// errors
var (
	ErrMaxSubsteps  = errors.New("num: maximum number of substeps reached")
	ErrStepTooSmall = errors.New("num: step size became too small")
)

// Func defines the right-hand side of dy/dx = f(x, y)
type Func func(f []float64, x float64, y []float64) error

// StepOut is called after each accepted step with the new (x, y). y must not be modified
type StepOut func(x float64, y []float64) error

// Dormand-Prince coefficients
var (
	dpC = [7]float64{0, 1.0 / 5.0, 3.0 / 10.0, 4.0 / 5.0, 8.0 / 9.0, 1, 1}
	dpA = [7][6]float64{
		{},
		{1.0 / 5.0},
		{3.0 / 40.0, 9.0 / 40.0},
		{44.0 / 45.0, -56.0 / 15.0, 32.0 / 9.0},
		{19372.0 / 6561.0, -25360.0 / 2187.0, 64448.0 / 6561.0, -212.0 / 729.0},
		{9017.0 / 3168.0, -355.0 / 33.0, 46732.0 / 5247.0, 49.0 / 176.0, -5103.0 / 18656.0},
		{35.0 / 384.0, 0, 500.0 / 1113.0, 125.0 / 192.0, -2187.0 / 6784.0, 11.0 / 84.0},
	}
	dpE = [7]float64{71.0 / 57600.0, 0, -71.0 / 16695.0, 71.0 / 1920.0, -17253.0 / 339200.0, 22.0 / 525.0, -1.0 / 40.0}
)

// Dopri5 implements the explicit Runge-Kutta method of Dormand and Prince of order 5(4) with
// adaptive step size. The solver keeps the last accepted point (X, Y): when Integrate fails,
// the integration can be restarted from there.
//  Reference: Hairer E, Nørsett SP and Wanner G (1993) Solving Ordinary Differential
//             Equations I. Nonstiff Problems. Springer
type Dopri5 struct {

	// configuration
	Atol   float64 // absolute tolerance
	Rtol   float64 // relative tolerance
	NmaxSS int     // max number of substeps in one call to Integrate
	Mmin   float64 // min step multiplier
	Mmax   float64 // max step multiplier
	Mfac   float64 // step multiplier safety factor

	// statistics
	NFeval    int // number of calls to fcn
	Naccepted int // number of accepted steps
	Nrejected int // number of rejected steps

	// last accepted point
	X float64   // current x
	Y []float64 // current y

	// internal
	ndim int          // dimension of system
	fcn  Func         // right-hand side
	out  StepOut      // step output function [may be nil]
	h    float64      // next step size; zero => estimate
	fsal bool         // k[0] holds f(X, Y)
	k    [7][]float64 // stages
	w    []float64    // workspace: stage argument
	ynew []float64    // solution at end of step
}

// Init initialises solver
//  Input:
//   ndim -- dimension of system
//   fcn  -- right-hand side
//   out  -- called after each accepted step [may be nil]
func (o *Dopri5) Init(ndim int, fcn Func, out StepOut) {
	o.Atol, o.Rtol = 1e-12, 1e-6
	o.NmaxSS = 1000
	o.Mmin, o.Mmax, o.Mfac = 0.2, 10.0, 0.9
	o.ndim, o.fcn, o.out = ndim, fcn, out
	for i := 0; i < len(o.k); i++ {
		o.k[i] = make([]float64, ndim)
	}
	o.w = make([]float64, ndim)
	o.ynew = make([]float64, ndim)
	o.Y = make([]float64, ndim)
}

// SetTol sets tolerances
func (o *Dopri5) SetTol(atol, rtol float64) {
	o.Atol, o.Rtol = atol, rtol
}

// Start sets the initial point. y is copied
func (o *Dopri5) Start(x float64, y []float64) {
	o.X = x
	copy(o.Y, y)
	o.h = 0
	o.fsal = false
	o.NFeval, o.Naccepted, o.Nrejected = 0, 0, 0
}

// Integrate advances the solution from X to xf. On failure, (X, Y) hold the last accepted point
func (o *Dopri5) Integrate(xf float64) (err error) {
	nss := 0
	for o.X < xf {

		// first stage
		if !o.fsal {
			err = o.call(o.k[0], o.X, o.Y)
			if err != nil {
				return
			}
			o.fsal = true
		}

		// step size
		if o.h <= 0 {
			o.h = o.initialStep(xf - o.X)
		}
		h, last := o.h, false
		if o.X+h >= xf {
			h, last = xf-o.X, true
		}
		nss++
		if nss > o.NmaxSS {
			return fmt.Errorf("%w: NmaxSS = %d at x = %g", ErrMaxSubsteps, o.NmaxSS, o.X)
		}

		// stages and error estimate
		err = o.stages(h)
		if err != nil {
			return
		}
		rerr := o.rmsError(h)

		// accept
		if rerr <= 1 {
			o.Naccepted++
			fac := math.Min(o.Mmax, o.Mfac*math.Pow(rerr, -0.2))
			if last {
				o.X = xf
				o.h = math.Max(o.h, h*fac)
			} else {
				o.X += h
				o.h = h * fac
			}
			copy(o.Y, o.ynew)
			o.k[0], o.k[6] = o.k[6], o.k[0]
			if o.out != nil {
				err = o.out(o.X, o.Y)
				if err != nil {
					return
				}
			}
			continue
		}

		// reject
		o.Nrejected++
		o.h = h * math.Max(o.Mmin, o.Mfac*math.Pow(rerr, -0.2))
		if o.h < 16*epsilon*math.Abs(o.X) {
			return fmt.Errorf("%w: h = %g at x = %g", ErrStepTooSmall, o.h, o.X)
		}
	}
	return
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

// epsilon is the machine epsilon
const epsilon = 2.220446049250313e-16

// call calls fcn and counts evaluations
func (o *Dopri5) call(f []float64, x float64, y []float64) (err error) {
	o.NFeval++
	err = o.fcn(f, x, y)
	if err != nil {
		return
	}
	for i := 0; i < o.ndim; i++ {
		if math.IsNaN(f[i]) || math.IsInf(f[i], 0) {
			return fmt.Errorf("num: Dopri5: f(x=%g) is not finite", x)
		}
	}
	return
}

// stages computes k[1..6] and ynew for step size h
func (o *Dopri5) stages(h float64) (err error) {
	for s := 1; s < 7; s++ {
		arg := o.w
		if s == 6 {
			arg = o.ynew
		}
		for i := 0; i < o.ndim; i++ {
			sum := 0.0
			for j := 0; j < s; j++ {
				sum += dpA[s][j] * o.k[j][i]
			}
			arg[i] = o.Y[i] + h*sum
		}
		err = o.call(o.k[s], o.X+dpC[s]*h, arg)
		if err != nil {
			return
		}
	}
	return
}

// rmsError computes the scaled root-mean-square error estimate
func (o *Dopri5) rmsError(h float64) float64 {
	sum := 0.0
	for i := 0; i < o.ndim; i++ {
		e := 0.0
		for j := 0; j < 7; j++ {
			e += dpE[j] * o.k[j][i]
		}
		sc := o.Atol + o.Rtol*math.Max(math.Abs(o.Y[i]), math.Abs(o.ynew[i]))
		sum += math.Pow(h*e/sc, 2)
	}
	res := math.Sqrt(sum / float64(o.ndim))
	if math.IsNaN(res) {
		return math.Inf(1)
	}
	return res
}

// initialStep estimates the first step size
func (o *Dopri5) initialStep(span float64) float64 {
	d0, d1 := 0.0, 0.0
	for i := 0; i < o.ndim; i++ {
		sc := o.Atol + o.Rtol*math.Abs(o.Y[i])
		d0 += math.Pow(o.Y[i]/sc, 2)
		d1 += math.Pow(o.k[0][i]/sc, 2)
	}
	d0 = math.Sqrt(d0 / float64(o.ndim))
	d1 = math.Sqrt(d1 / float64(o.ndim))
	h := 1e-6 * span
	if d0 >= 1e-5 && d1 >= 1e-5 {
		h = 0.01 * d0 / d1
	}
	return math.Min(h, span)
}
