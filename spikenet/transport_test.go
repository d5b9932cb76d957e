// Copyright (c) 2026, The Spikenet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spikenet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	modA = ModuleID{Type: Sensory, Index: 0}
	modB = ModuleID{Type: Temporal, Index: 0}
	modC = ModuleID{Type: Executive, Index: 0}
)

func TestTransportPriorityOrder(t *testing.T) {
	ctx := NewContext()
	tr := NewTransport(2, 100)
	tr.AddConnection(modA, modB, 1)

	// three events, priorities 1, 3, 2 via importance
	require.True(t, tr.TransmitSpike(modA, modB, 10, ctx.Time, 1, 1))
	require.True(t, tr.TransmitSpike(modA, modB, 11, ctx.Time, 1, 3))
	require.True(t, tr.TransmitSpike(modA, modB, 12, ctx.Time, 1, 2))
	assert.Equal(t, 3, tr.QueueLen())

	delivered := tr.Update(ctx)
	require.Len(t, delivered, 2)
	assert.Equal(t, int32(11), delivered[0].Payload)
	assert.Equal(t, int32(12), delivered[1].Payload)
	assert.Equal(t, 1, tr.QueueLen())

	st := tr.LastTick
	assert.Equal(t, TickStats{Enqueued: 3, Pending: 3, Delivered: 2, Stale: 0, Remaining: 1}, st)
	assert.Equal(t, st.Pending, st.Delivered+st.Stale+st.Remaining)

	key := EdgeKey{Source: modA, Target: modB}
	assert.InDelta(t, 0.02, tr.Strength[key], 1e-6)
	assert.Equal(t, 1, tr.CongTick[key])
	assert.Equal(t, 1, tr.Cong[key])
}

func TestTransportNoEdge(t *testing.T) {
	ctx := NewContext()
	tr := NewTransport(10, 100)
	tr.AddConnection(modA, modB, 1)
	assert.False(t, tr.TransmitSpike(modB, modA, 0, ctx.Time, 1, 1))
	assert.Equal(t, 0, tr.QueueLen())
}

func TestTransportTieBreaks(t *testing.T) {
	ctx := NewContext()
	ctx.Time = 5
	tr := NewTransport(10, 100)
	tr.AddConnection(modA, modB, 1)

	// equal priority: earlier timestamp wins, then insertion order
	tr.TransmitSpike(modA, modB, 1, 5, 1, 1)
	tr.TransmitSpike(modA, modB, 2, 3, 1, 1)
	tr.TransmitSpike(modA, modB, 3, 5, 1, 1)

	delivered := tr.Update(ctx)
	require.Len(t, delivered, 3)
	assert.Equal(t, int32(2), delivered[0].Payload)
	assert.Equal(t, int32(1), delivered[1].Payload)
	assert.Equal(t, int32(3), delivered[2].Payload)
}

func TestTransportStaleDiscard(t *testing.T) {
	ctx := NewContext()
	ctx.Time = 60
	tr := NewTransport(1, 100)
	tr.AddConnection(modA, modB, 1)

	// the stale event has the higher priority, but its discard must not
	// consume the single slot of bandwidth
	tr.TransmitSpike(modA, modB, 1, 0, 1, 5)
	tr.TransmitSpike(modA, modB, 2, 59, 1, 1)

	delivered := tr.Update(ctx)
	require.Len(t, delivered, 1)
	assert.Equal(t, int32(2), delivered[0].Payload)
	assert.Equal(t, TickStats{Enqueued: 2, Pending: 2, Delivered: 1, Stale: 1, Remaining: 0}, tr.LastTick)
}

func TestTransportCongestionAccounting(t *testing.T) {
	ctx := NewContext()
	tr := NewTransport(1, 100)
	tr.AddConnection(modA, modB, 1)
	tr.AddConnection(modA, modC, 2)

	for i := int32(0); i < 3; i++ {
		tr.TransmitSpike(modA, modB, i, ctx.Time, 1, 1)
	}
	tr.TransmitSpike(modA, modC, 9, ctx.Time, 1, 1)

	// the modC event has priority 2, so it takes the only slot
	delivered := tr.Update(ctx)
	require.Len(t, delivered, 1)
	assert.Equal(t, modC, delivered[0].Target)
	assert.Equal(t, 3, tr.CongTick[EdgeKey{Source: modA, Target: modB}])

	// per-tick counters reset on the next drain, cumulative ones do not
	tr.Update(ctx)
	assert.Equal(t, 2, tr.CongTick[EdgeKey{Source: modA, Target: modB}])
	assert.Equal(t, 5, tr.Cong[EdgeKey{Source: modA, Target: modB}])
}

func TestTransportOptimalRoute(t *testing.T) {
	tr := NewTransport(10, 100)
	tr.AddConnection(modA, modB, 1)
	tr.AddConnection(modB, modC, 1)

	path, ok := tr.OptimalRoute(modA, modB)
	require.True(t, ok)
	assert.Equal(t, []ModuleID{modA, modB}, path)

	path, ok = tr.OptimalRoute(modA, modC)
	require.True(t, ok)
	assert.Equal(t, []ModuleID{modA, modB, modC}, path)

	_, ok = tr.OptimalRoute(modC, modA)
	assert.False(t, ok)
}

func TestTransportOptimizeRouting(t *testing.T) {
	tr := NewTransport(10, 100)
	tr.AddConnection(modA, modB, 1)
	tr.AddConnection(modB, modC, 1)
	tr.AddConnection(modA, modC, 1.5)

	tr.Cong[EdgeKey{Source: modA, Target: modC}] = 5
	tr.OptimizeRouting()

	// the bypass via modB got both of its edges boosted
	p, ok := tr.findEdge(modA, modB)
	require.True(t, ok)
	assert.InDelta(t, 1.1, p, 1e-6)
	p, ok = tr.findEdge(modB, modC)
	require.True(t, ok)
	assert.InDelta(t, 1.1, p, 1e-6)

	// the congested edge itself is untouched
	p, ok = tr.findEdge(modA, modC)
	require.True(t, ok)
	assert.InDelta(t, 1.5, p, 1e-6)
}

func TestTransportCongestionLevel(t *testing.T) {
	ctx := NewContext()
	tr := NewTransport(10, 100)
	tr.AddConnection(modA, modB, 1)
	assert.Equal(t, float32(0), tr.CongestionLevel())

	for i := int32(0); i < 5; i++ {
		tr.TransmitSpike(modA, modB, i, ctx.Time, 1, 1)
	}
	tr.Update(ctx)
	assert.InDelta(t, 0.5, tr.CongestionLevel(), 1e-6)
}

func TestTransportEdgeKeysDeterministic(t *testing.T) {
	tr := NewTransport(10, 100)
	tr.AddConnection(modB, modC, 1)
	tr.AddConnection(modA, modB, 1)
	tr.AddConnection(modA, modC, 1)
	tr.AddConnection(modA, modB, 2) // duplicate pair

	keys := tr.EdgeKeys()
	assert.Equal(t, []EdgeKey{
		{Source: modB, Target: modC},
		{Source: modA, Target: modB},
		{Source: modA, Target: modC},
	}, keys)
}
