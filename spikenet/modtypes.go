// Copyright (c) 2026, The Spikenet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spikenet

import (
	"fmt"

	"github.com/emer/etable/v2/minmax"
)

// ModuleType is the functional role tag of a module.  All type-specific
// behavior is resolved once into a TypeParams record at construction --
// nothing dispatches on the type tag per tick.
type ModuleType int32

const (
	// Sensory modules encode external input, with faster membrane dynamics
	Sensory ModuleType = iota

	// Temporal modules carry sequence structure via lateral connectivity
	Temporal

	// Spatial modules process spatial structure
	Spatial

	// Linguistic modules process symbolic / linguistic structure
	Linguistic

	// Executive modules aggregate and produce the system's outputs
	Executive

	// Memory modules sustain state via strong lateral connectivity
	Memory

	ModuleTypesN
)

var moduleTypeNames = [ModuleTypesN]string{"Sensory", "Temporal", "Spatial", "Linguistic", "Executive", "Memory"}

func (mt ModuleType) String() string {
	if mt < 0 || mt >= ModuleTypesN {
		return fmt.Sprintf("ModuleType(%d)", int32(mt))
	}
	return moduleTypeNames[mt]
}

// Valid returns true for a defined module type.
func (mt ModuleType) Valid() bool {
	return mt >= 0 && mt < ModuleTypesN
}

// TypeParams is the type-specific wiring and dynamics configuration for a
// module, built once at construction from the ModuleType.
type TypeParams struct {

	// membrane time constant override applied to every owned unit,
	// 0 = keep the unit default
	Tau float32

	// refractory period override applied to every owned unit,
	// 0 = keep the unit default
	Refrac float32

	// wire lateral hidden-to-hidden connections (excluding self-loops)
	Lateral bool

	// initial weight range for lateral connections
	LatWt minmax.F32
}

// Defaults sets the configuration record for the given module type.
func (tp *TypeParams) Defaults(mt ModuleType) {
	*tp = TypeParams{}
	switch mt {
	case Sensory:
		tp.Tau = 5
		tp.Refrac = 1
	case Temporal:
		tp.Lateral = true
		tp.LatWt = minmax.F32{Min: 0.05, Max: 0.2}
	case Memory:
		tp.Lateral = true
		tp.LatWt = minmax.F32{Min: 0.3, Max: 0.6}
	}
}
