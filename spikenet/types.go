// Copyright (c) 2026, The Spikenet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spikenet

import "fmt"

// LayerType identifies which layer of a module a unit belongs to.
type LayerType int32

const (
	// InputLayer receives external and transported spikes
	InputLayer LayerType = iota

	// HiddenLayer carries the internal (and lateral) dynamics
	HiddenLayer

	// OutputLayer produces the module's externally visible events
	OutputLayer

	// ExternalLayer tags spike sources injected from outside a module
	// (encoded inputs and transport deliveries) -- no unit lives there
	ExternalLayer

	LayerTypesN
)

var layerTypeNames = [LayerTypesN]string{"Input", "Hidden", "Output", "External"}

func (lt LayerType) String() string {
	if lt < 0 || lt >= LayerTypesN {
		return fmt.Sprintf("LayerType(%d)", int32(lt))
	}
	return layerTypeNames[lt]
}

// UnitState is the per-tick lifecycle state of a processing unit.
// A unit is in exactly one state per tick.
type UnitState int32

const (
	// Resting -- at or decaying toward the resting potential, no input
	Resting UnitState = iota

	// Integrating -- received input this tick without reaching threshold
	Integrating

	// Firing -- crossed threshold and emitted spikes this tick
	Firing

	// Refractory -- insensitive to input while the countdown runs down
	Refractory

	UnitStatesN
)

var unitStateNames = [UnitStatesN]string{"Resting", "Integrating", "Firing", "Refractory"}

func (us UnitState) String() string {
	if us < 0 || us >= UnitStatesN {
		return fmt.Sprintf("UnitState(%d)", int32(us))
	}
	return unitStateNames[us]
}

// ModuleID identifies a module by its functional type and index among
// modules of that type.  It is a comparable value used directly as a map
// key -- structural information is never packed into strings.
type ModuleID struct {
	Type  ModuleType
	Index int32
}

func (mid ModuleID) String() string {
	return fmt.Sprintf("%s-%d", mid.Type, mid.Index)
}

// UnitID identifies one processing unit by owning module, layer, and slot
// index within the layer.
type UnitID struct {
	Module ModuleID
	Layer  LayerType
	Index  int32
}

func (uid UnitID) String() string {
	return fmt.Sprintf("%s/%s-%d", uid.Module, uid.Layer, uid.Index)
}

// moduleIDLess is the canonical ordering of module ids, used wherever map
// keys must be iterated deterministically.
func moduleIDLess(a, b ModuleID) bool {
	if a.Type != b.Type {
		return a.Type < b.Type
	}
	return a.Index < b.Index
}
