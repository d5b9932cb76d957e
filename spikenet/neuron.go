// Copyright (c) 2026, The Spikenet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spikenet

import "github.com/nsys/spikenet/ring"

// SpikeHistCap is the fixed capacity of each unit's spike-history buffer;
// the oldest spike time is dropped first.
const SpikeHistCap = 10

// Spike is one emitted spike event, addressed to a specific unit.
type Spike struct {
	Source UnitID
	Target UnitID
	Time   float32
}

// InSpike is one received spike, buffered until the next update pass.
type InSpike struct {
	Source UnitID
	Time   float32
}

// Unit is one leaky integrate-and-fire processing unit: membrane dynamics,
// spike emission, and local STDP plasticity over its outgoing synapses.
type Unit struct {

	// structured identity: owning module, layer, slot index
	ID UnitID

	// membrane activation parameters
	Act ActParams `view:"inline"`

	// plasticity parameters
	Learn LearnParams `view:"inline"`

	// current membrane potential
	Vm float32

	// lifecycle state for the current tick -- exactly one per tick
	State UnitState

	// whether the unit fired this tick (0 or 1)
	Spike float32

	// remaining refractory time
	RefracLeft float32

	// module modulation factor currently applied to the threshold
	Mod float32

	// plasticity modulation factor currently applied to STDP steps
	PlastMod float32

	// outgoing synapse weights by target unit
	Syns map[UnitID]float32

	// synapse targets in insertion order -- spike emission iterates this,
	// never the map, so emission order is reproducible
	Targets []UnitID

	// buffered incoming spikes, consumed each update pass
	InBuf []InSpike

	// recent own spike times, oldest dropped first
	Hist *ring.Buffer[float32]
}

// NewUnit returns a new unit with default parameters, at rest.
func NewUnit(id UnitID) *Unit {
	un := &Unit{ID: id}
	un.Defaults()
	un.Syns = make(map[UnitID]float32)
	un.Hist = ring.New[float32](SpikeHistCap)
	return un
}

// Defaults sets default parameters and baseline state.
func (un *Unit) Defaults() {
	un.Act.Defaults()
	un.Learn.Defaults()
	un.Vm = un.Act.Rest
	un.State = Resting
	un.Spike = 0
	un.RefracLeft = 0
	un.Mod = 1
	un.PlastMod = 1
}

// AddSynapse adds or updates an outgoing connection to the given target.
// The weight is not validated here; all later plasticity updates clamp it.
func (un *Unit) AddSynapse(target UnitID, wt float32) {
	if _, ok := un.Syns[target]; !ok {
		un.Targets = append(un.Targets, target)
	}
	un.Syns[target] = wt
}

// ReceiveSpike buffers a spike from the given source for the next update.
func (un *Unit) ReceiveSpike(source UnitID, timestamp float32) {
	un.InBuf = append(un.InBuf, InSpike{Source: source, Time: timestamp})
}

// ThrEff returns the current effective firing threshold.
func (un *Unit) ThrEff() float32 {
	return un.Act.ThrEff(un.Mod)
}

// Update advances the unit one tick.  The buffered input is always
// consumed (plasticity runs and the buffer is purged every tick), but only
// a non-refractory unit integrates it; spikes arriving while refractory
// are lost as input.  Returns the spikes emitted this tick, one per
// outgoing synapse, or nil.
func (un *Unit) Update(ctx *Context) []Spike {
	un.Spike = 0
	in := un.integrateInputs(ctx)

	switch un.State {
	case Firing:
		// spike was last tick; countdown starts next tick
		un.State = Refractory
		return nil
	case Refractory:
		un.RefracLeft -= ctx.TimeStep
		if un.RefracLeft <= 0 {
			un.RefracLeft = 0
			un.State = Resting
		}
		return nil
	}

	un.Vm = un.Act.VmFmIn(un.Vm, in, ctx.TimeStep)
	if un.Vm >= un.ThrEff() {
		out := make([]Spike, 0, len(un.Targets))
		for _, tgt := range un.Targets {
			out = append(out, Spike{Source: un.ID, Target: tgt, Time: ctx.Time})
		}
		un.Hist.Push(ctx.Time)
		un.Spike = 1
		un.Vm = un.Act.Reset
		un.State = Firing
		un.RefracLeft = un.Act.Refrac
		return out
	}
	if in > 0 {
		un.State = Integrating
	} else {
		un.State = Resting
	}
	return nil
}

// integrateInputs runs the buffered-spike pass: fresh spikes (age within
// one time step) contribute input current, every buffered spike drives
// STDP against the unit's own spike history, and the buffer is purged.
// Nothing is ever reprocessed.
func (un *Unit) integrateInputs(ctx *Context) float32 {
	in := float32(0)
	for _, sp := range un.InBuf {
		if ctx.Time-sp.Time <= ctx.TimeStep {
			in += un.Act.InGain
		}
		un.applySTDP(sp.Source, sp.Time)
	}
	un.InBuf = un.InBuf[:0]
	return in
}

// applySTDP evaluates plasticity between one incoming spike and this
// unit's own spike history, adjusting the synapse-map entry for the
// source.  Sources not in the synapse map (external inputs, unconnected
// units) are skipped.
func (un *Unit) applySTDP(src UnitID, spkTime float32) {
	wt, ok := un.Syns[src]
	if !ok || un.Hist.Len() == 0 {
		return
	}
	changed := false
	un.Hist.Do(func(own float32) {
		dt := own - spkTime
		if !un.Learn.STDP.InWindow(dt) {
			return
		}
		wt = un.Learn.ClampWt(wt + un.PlastMod*un.Learn.STDP.DWt(dt))
		changed = true
	})
	if changed {
		un.Syns[src] = wt
	}
}
