// Copyright (c) 2026, The Spikenet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spikenet

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUnitID(idx int32) UnitID {
	return UnitID{Module: ModuleID{Type: Sensory, Index: 0}, Layer: HiddenLayer, Index: idx}
}

func TestUnitRestingDecay(t *testing.T) {
	ctx := NewContext()
	un := NewUnit(testUnitID(0))
	un.Vm = -60

	spikes := un.Update(ctx)
	assert.Nil(t, spikes)
	assert.InDelta(t, -61, un.Vm, 1e-6)
	assert.Equal(t, Resting, un.State)
	assert.Equal(t, float32(0), un.Spike)
}

func TestUnitIntegrating(t *testing.T) {
	ctx := NewContext()
	un := NewUnit(testUnitID(0))
	un.ReceiveSpike(testUnitID(1), ctx.Time)

	spikes := un.Update(ctx)
	assert.Nil(t, spikes)
	assert.InDelta(t, -69, un.Vm, 1e-6)
	assert.Equal(t, Integrating, un.State)
	assert.Empty(t, un.InBuf)
}

func TestUnitFireAndRefractory(t *testing.T) {
	ctx := NewContext()
	un := NewUnit(testUnitID(0))
	un.Act.InGain = 20
	tgt := testUnitID(1)
	un.AddSynapse(tgt, 0.3)

	un.ReceiveSpike(testUnitID(2), ctx.Time)
	spikes := un.Update(ctx)
	require.Len(t, spikes, 1)
	assert.Equal(t, un.ID, spikes[0].Source)
	assert.Equal(t, tgt, spikes[0].Target)
	assert.Equal(t, ctx.Time, spikes[0].Time)
	assert.Equal(t, Firing, un.State)
	assert.Equal(t, float32(1), un.Spike)
	assert.Equal(t, float32(-75), un.Vm)
	assert.Equal(t, un.Act.Refrac, un.RefracLeft)
	assert.Equal(t, 1, un.Hist.Len())

	// next tick: refractory begins, potential held at reset
	ctx.TickInc()
	assert.Nil(t, un.Update(ctx))
	assert.Equal(t, Refractory, un.State)
	assert.Equal(t, float32(-75), un.Vm)
	assert.Equal(t, float32(0), un.Spike)

	// input arriving while refractory is consumed but not integrated
	un.ReceiveSpike(testUnitID(2), ctx.Time)
	ctx.TickInc()
	assert.Nil(t, un.Update(ctx))
	assert.Equal(t, Refractory, un.State)
	assert.Equal(t, float32(-75), un.Vm)

	ctx.TickInc()
	assert.Nil(t, un.Update(ctx))
	assert.Equal(t, Resting, un.State)
	assert.Equal(t, float32(0), un.RefracLeft)
}

func TestUnitNeverFiresConsecutively(t *testing.T) {
	ctx := NewContext()
	un := NewUnit(testUnitID(0))
	un.Act.InGain = 20
	un.AddSynapse(testUnitID(1), 0.3)

	prevFired := false
	for i := 0; i < 50; i++ {
		un.ReceiveSpike(testUnitID(2), ctx.Time)
		un.Update(ctx)
		fired := un.Spike > 0
		if prevFired {
			assert.False(t, fired, "fired on consecutive ticks at %d", i)
		}
		prevFired = fired
		ctx.TickInc()
	}
}

func TestUnitSTDPPotentiation(t *testing.T) {
	ctx := NewContext()
	ctx.Time = 12
	un := NewUnit(testUnitID(0))
	src := testUnitID(1)
	un.AddSynapse(src, 0.5)
	un.Hist.Push(5)

	// own spike at 5, incoming at 3: the source fired before us
	un.ReceiveSpike(src, 3)
	un.Update(ctx)
	want := 0.5 + 0.1*float32(math.Exp(-2.0/10))
	assert.InDelta(t, want, un.Syns[src], 1e-5)
}

func TestUnitSTDPDepression(t *testing.T) {
	ctx := NewContext()
	ctx.Time = 12
	un := NewUnit(testUnitID(0))
	src := testUnitID(1)
	un.AddSynapse(src, 0.5)
	un.Hist.Push(5)

	// own spike at 5, incoming at 9: the source fired after us
	un.ReceiveSpike(src, 9)
	un.Update(ctx)
	want := 0.5 - 0.12*float32(math.Exp(-4.0/10))
	assert.InDelta(t, want, un.Syns[src], 1e-5)
}

func TestUnitSTDPPlasticityModulation(t *testing.T) {
	ctx := NewContext()
	ctx.Time = 12
	un := NewUnit(testUnitID(0))
	un.PlastMod = 0
	src := testUnitID(1)
	un.AddSynapse(src, 0.5)
	un.Hist.Push(5)

	un.ReceiveSpike(src, 3)
	un.Update(ctx)
	assert.Equal(t, float32(0.5), un.Syns[src])
}

func TestUnitSTDPWeightBounds(t *testing.T) {
	ctx := NewContext()
	ctx.Time = 100
	un := NewUnit(testUnitID(0))
	src := testUnitID(1)
	un.AddSynapse(src, 0.99)
	un.Hist.Push(95)

	for i := 0; i < 20; i++ {
		un.ReceiveSpike(src, 93)
		un.Update(ctx)
	}
	assert.LessOrEqual(t, un.Syns[src], float32(1))

	un.Syns[src] = 0.01
	for i := 0; i < 20; i++ {
		un.ReceiveSpike(src, 97)
		un.Update(ctx)
	}
	assert.GreaterOrEqual(t, un.Syns[src], float32(0))
}

func TestUnitSTDPUnknownSourceSkipped(t *testing.T) {
	ctx := NewContext()
	ctx.Time = 12
	un := NewUnit(testUnitID(0))
	un.Hist.Push(5)

	un.ReceiveSpike(testUnitID(9), 3)
	un.Update(ctx)
	assert.Empty(t, un.Syns)
}

func TestUnitStaleInputNotIntegrated(t *testing.T) {
	ctx := NewContext()
	ctx.Time = 10
	un := NewUnit(testUnitID(0))

	// two steps old: plasticity-visible but carries no current
	un.ReceiveSpike(testUnitID(1), 8)
	un.Update(ctx)
	assert.InDelta(t, -70, un.Vm, 1e-6)
	assert.Equal(t, Resting, un.State)
}

func TestUnitSpikeHistoryBounded(t *testing.T) {
	ctx := NewContext()
	un := NewUnit(testUnitID(0))
	un.Act.InGain = 20
	un.Act.Refrac = 0.5

	for i := 0; i < 60; i++ {
		un.ReceiveSpike(testUnitID(1), ctx.Time)
		un.Update(ctx)
		ctx.TickInc()
	}
	assert.LessOrEqual(t, un.Hist.Len(), SpikeHistCap)
	assert.Greater(t, un.Hist.Len(), 0)
}

func TestThrEffModulation(t *testing.T) {
	var ac ActParams
	ac.Defaults()

	// neutral modulation leaves the threshold unchanged
	assert.InDelta(t, -55, ac.ThrEff(1), 1e-6)
	// higher modulation shrinks the gap: easier to fire
	assert.InDelta(t, -62.5, ac.ThrEff(2), 1e-6)
	// lower modulation widens it
	assert.InDelta(t, -40, ac.ThrEff(0.5), 1e-6)
}
