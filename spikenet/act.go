// Copyright (c) 2026, The Spikenet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spikenet

///////////////////////////////////////////////////////////////////////
//  act.go contains the membrane activation params and functions for
//  spikenet, at the unit level.

// ActParams contains the leaky integrate-and-fire membrane parameters
// for one processing unit.  Potentials are in mV, times in simulation
// time units (nominally msec).
type ActParams struct {

	// baseline membrane potential that the leak current decays toward
	Rest float32 `def:"-70"`

	// unmodulated firing threshold -- the effective threshold is derived
	// from this and the module modulation factor, see ThrEff
	Thr float32 `def:"-55"`

	// potential the membrane is reset to after a spike
	Reset float32 `def:"-75"`

	// membrane time constant governing leak decay toward Rest
	Tau float32 `def:"10"`

	// duration of the refractory period after a spike
	Refrac float32 `def:"2"`

	// input contribution per fresh incoming spike.  Incoming spikes drive
	// a fixed normalized current rather than a weight-scaled one -- the
	// synaptic weights shape plasticity, not instantaneous drive.
	InGain float32 `def:"1"`
}

func (ac *ActParams) Defaults() {
	ac.Rest = -70
	ac.Thr = -55
	ac.Reset = -75
	ac.Tau = 10
	ac.Refrac = 2
	ac.InGain = 1
}

// Update must be called after any changes to parameters
func (ac *ActParams) Update() {
}

// ThrEff returns the effective firing threshold under the given module
// modulation factor.  Modulation scales the depolarization gap between
// Rest and Thr inversely: higher modulation shrinks the gap, lowering the
// effective threshold and making firing easier.
func (ac *ActParams) ThrEff(mod float32) float32 {
	return ac.Rest + (ac.Thr-ac.Rest)/mod
}

// VmFmIn integrates the membrane potential one time step: leak decay
// toward Rest plus the summed input current for the tick.
func (ac *ActParams) VmFmIn(vm, in, timeStep float32) float32 {
	return vm + (ac.Rest-vm)/ac.Tau*timeStep + in
}
