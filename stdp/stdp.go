// Copyright (c) 2026, The Spikenet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package stdp provides the spike-timing-dependent plasticity function used to
update synaptic weights from the relative timing of pre and postsynaptic
spikes.  A presynaptic spike followed by a postsynaptic spike (positive
delta-t) potentiates the synapse; the reverse ordering depresses it, both
with exponentially decaying magnitude over the timing window.
*/
package stdp

import "github.com/goki/mat32"

// Params holds the STDP window and the potentiation / depression kernel
// parameters.  Times are in simulation time units (nominally msec).
type Params struct {

	// half-width of the timing window -- spike pairs separated by more
	// than this never interact
	Window float32 `def:"20"`

	// amplitude of potentiation for positive delta-t
	APlus float32 `def:"0.1"`

	// amplitude of depression for negative (or zero) delta-t
	AMinus float32 `def:"0.12"`

	// exponential time constant of the potentiation kernel
	TauPlus float32 `def:"10"`

	// exponential time constant of the depression kernel
	TauMinus float32 `def:"10"`
}

func (sp *Params) Defaults() {
	sp.Window = 20
	sp.APlus = 0.1
	sp.AMinus = 0.12
	sp.TauPlus = 10
	sp.TauMinus = 10
}

func (sp *Params) Update() {
}

// InWindow returns true if a spike pair separated by deltaT interacts
// under the STDP window.
func (sp *Params) InWindow(deltaT float32) bool {
	return mat32.Abs(deltaT) < sp.Window
}

// DWt returns the weight change for the given post-minus-pre spike time
// difference.  Positive deltaT (post after pre) potentiates, deltaT <= 0
// depresses.  The caller is responsible for clamping the resulting weight.
func (sp *Params) DWt(deltaT float32) float32 {
	if deltaT > 0 {
		return sp.APlus * mat32.Exp(-deltaT/sp.TauPlus)
	}
	return -sp.AMinus * mat32.Exp(deltaT/sp.TauMinus)
}
