// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package therm

import (
	"strings"

	"github.com/cpmech/gosl/chk"
)

// Ru is the universal gas constant [J/(mol・K)]
const Ru = 8.314462618

// Species holds the constants of a pure substance
type Species struct {
	Name    string   // formula; e.g. "H2"
	Aliases []string // other names; e.g. "hydrogen"
	M       float64  // molar mass [kg/mol]
	Gamma   float64  // ratio of specific heats cp/cv of the dilute gas
	Tc      float64  // critical temperature [K]
	Pc      float64  // critical pressure [Pa]
	B       float64  // Abel-Noble co-volume [m³/kg]; zero => estimated from (Tc, Pc)
}

// Rs returns the specific gas constant [J/(kg・K)]
func (o Species) Rs() float64 {
	return Ru / o.M
}

// CoVolume returns the Abel-Noble co-volume. The van der Waals estimate b = Rs・Tc/(8・Pc)
// is used when no fitted value is available
func (o Species) CoVolume() float64 {
	if o.B > 0 {
		return o.B
	}
	return o.Rs() * o.Tc / (8.0 * o.Pc)
}

// database holds all known species
var database = []*Species{
	{Name: "H2", Aliases: []string{"hydrogen"}, M: 2.01588e-3, Gamma: 1.405, Tc: 33.145, Pc: 1.2964e6, B: 7.691e-3},
	{Name: "He", Aliases: []string{"helium"}, M: 4.002602e-3, Gamma: 5.0 / 3.0, Tc: 5.1953, Pc: 0.22832e6},
	{Name: "N2", Aliases: []string{"nitrogen"}, M: 28.0134e-3, Gamma: 1.40, Tc: 126.192, Pc: 3.3958e6},
	{Name: "CH4", Aliases: []string{"methane"}, M: 16.0428e-3, Gamma: 1.31, Tc: 190.564, Pc: 4.5992e6},
}

// GetSpecies finds species by formula or name (case insensitive). A copy of the
// database entry is returned
func GetSpecies(name string) (*Species, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for _, sp := range database {
		found := strings.ToLower(sp.Name) == key
		for _, alias := range sp.Aliases {
			found = found || alias == key
		}
		if found {
			res := *sp
			return &res, nil
		}
	}
	return nil, chk.Err("species %q is not available in 'therm' database", name)
}
