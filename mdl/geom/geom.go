// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package geom holds geometry records of enclosures and vents used by accumulation and
// overpressure models
package geom

import (
	"fmt"
	"math"

	"github.com/cpmech/gosl/chk"
)

// Vent holds a vent of an enclosure
type Vent struct {
	A           float64 // cross-sectional area [m²]
	H           float64 // height of vent from floor [m]
	Cd          float64 // discharge coefficient
	VolFlowRate float64 // volumetric flow rate through vent [m³/s]
	Qw          float64 // wind-driven flow rate Cd・VolFlowRate/√2 [m³/s]
}

// NewVent returns a new vent
func NewVent(A, H, Cd, volFlowRate float64) (o *Vent, err error) {
	if A <= 0 || H < 0 || Cd <= 0 || Cd > 1 || volFlowRate < 0 {
		return nil, chk.Err("vent data is invalid: A = %g, H = %g, Cd = %g, Q = %g", A, H, Cd, volFlowRate)
	}
	return &Vent{A: A, H: H, Cd: Cd, VolFlowRate: volFlowRate, Qw: Cd * volFlowRate / math.Sqrt2}, nil
}

// Enclosure holds a box-shaped enclosure with one ceiling and one floor vent
type Enclosure struct {
	H        float64 // height [m]
	A        float64 // area of floor and ceiling [m²]
	HRelease float64 // height of release [m]
	Ceiling  *Vent   // ceiling vent
	Floor    *Vent   // floor vent
	Xwall    float64 // perpendicular distance from jet to wall [m]; +Inf => no wall
	V        float64 // volume [m³]
}

// NewEnclosure returns a new enclosure. xwall ≤ 0 means no wall
func NewEnclosure(H, A, hRelease float64, ceiling, floor *Vent, xwall float64) (o *Enclosure, err error) {
	if H <= 0 || A <= 0 {
		return nil, chk.Err("enclosure height and area must be positive. H = %g, A = %g is invalid", H, A)
	}
	if hRelease < 0 || hRelease > H {
		return nil, chk.Err("height of release must be within enclosure. Hrelease = %g is invalid", hRelease)
	}
	if ceiling == nil || floor == nil {
		return nil, chk.Err("enclosure requires ceiling and floor vents")
	}
	if ceiling.H > H || floor.H > H {
		return nil, chk.Err("vents must be within enclosure. Hceiling = %g, Hfloor = %g is invalid", ceiling.H, floor.H)
	}
	if xwall <= 0 {
		xwall = math.Inf(1)
	}
	return &Enclosure{H: H, A: A, HRelease: hRelease, Ceiling: ceiling, Floor: floor, Xwall: xwall, V: H * A}, nil
}

// MixedFraction returns the volume fraction of a gas volume vgas fully mixed in the enclosure
func (o Enclosure) MixedFraction(vgas float64) float64 {
	if vgas <= 0 {
		return 0
	}
	return vgas / (o.V + vgas)
}

// String returns a summary of the enclosure
func (o Enclosure) String() string {
	return fmt.Sprintf("enclosure\n%s\n  height = %g m\n  floor area = %g m^2\n  volume = %g m^3\n  release height = %g m\n  wall distance = %g m",
		"------------------------------", o.H, o.A, o.V, o.HRelease, o.Xwall)
}
