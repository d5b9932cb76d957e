// Copyright (c) 2026, The Spikenet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spikenet

import (
	"github.com/emer/etable/v2/minmax"
	"github.com/goki/mat32"
	"github.com/nsys/spikenet/stdp"
)

// LearnParams contains the plasticity parameters for one processing unit.
type LearnParams struct {

	// spike-timing-dependent plasticity kernel parameters
	STDP stdp.Params `view:"inline"`

	// hard bounds for synaptic weights -- weights saturate here after
	// every plasticity update
	WtRange minmax.F32
}

func (lp *LearnParams) Defaults() {
	lp.STDP.Defaults()
	lp.WtRange = minmax.F32{Min: 0, Max: 1}
}

func (lp *LearnParams) Update() {
	lp.STDP.Update()
}

// ClampWt saturates a weight at the WtRange bounds.
func (lp *LearnParams) ClampWt(wt float32) float32 {
	return mat32.Min(mat32.Max(wt, lp.WtRange.Min), lp.WtRange.Max)
}
