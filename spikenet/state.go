// Copyright (c) 2026, The Spikenet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spikenet

// ModuleState is a snapshot of one module's observable state.
type ModuleState struct {
	ID         ModuleID
	Activity   float32
	Modulation float32
	Off        bool
}

// EdgeState is a snapshot of one transport edge's accounting.
type EdgeState struct {
	Source         ModuleID
	Target         ModuleID
	Strength       float32
	Congestion     int
	CongestionTick int
}

// SystemState is a deep-copied snapshot of the whole system at one tick.
// Slices are ordered canonically, so equal states compare equal.
type SystemState struct {
	Time float32
	Tick int

	Modules []ModuleState
	Edges   []EdgeState

	// recent transport queue pressure as a fraction of bandwidth
	Congestion float32

	// global neuromodulatory scalars
	Attention   float32
	Reward      float32
	HomeoTarget float32
	Plasticity  float32
}

// State returns a snapshot of the current system state.  The snapshot
// shares nothing with live structures.
func (sys *System) State() SystemState {
	st := SystemState{
		Time:        sys.Ctx.Time,
		Tick:        sys.Ctx.Tick,
		Congestion:  sys.Transport.CongestionLevel(),
		Attention:   sys.Feedback.Attention,
		Reward:      sys.Feedback.Reward,
		HomeoTarget: sys.Feedback.HomeoTarget,
		Plasticity:  sys.Feedback.Plasticity,
	}
	st.Modules = make([]ModuleState, len(sys.Modules))
	for i, md := range sys.Modules {
		st.Modules[i] = ModuleState{
			ID:         md.ID,
			Activity:   md.ActivityLevel(),
			Modulation: md.Modulation,
			Off:        md.Off,
		}
	}
	keys := sys.Transport.EdgeKeys()
	st.Edges = make([]EdgeState, len(keys))
	for i, key := range keys {
		st.Edges[i] = EdgeState{
			Source:         key.Source,
			Target:         key.Target,
			Strength:       sys.Transport.Strength[key],
			Congestion:     sys.Transport.Cong[key],
			CongestionTick: sys.Transport.CongTick[key],
		}
	}
	return st
}
