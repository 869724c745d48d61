// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package therm

import (
	"github.com/cpmech/gosl/chk"
	fun "github.com/cpmech/gosl/fun/dbf"
)

// IdealGas implements the calorically perfect ideal gas: AbelNoble with b = 0
type IdealGas struct {
	AbelNoble
}

// add model to factory
func init() {
	allocators["idealgas"] = func() Model { return new(IdealGas) }
}

// Init initialises model. prms are as in AbelNoble.Init except for the co-volume b
func (o *IdealGas) Init(sp *Species, prms fun.Params) (err error) {
	for _, p := range prms {
		if p.N == "b" {
			return chk.Err("idealgas: co-volume b cannot be set")
		}
	}
	err = o.AbelNoble.Init(sp, prms)
	o.B = 0
	return
}
