// Copyright (c) 2026, The Spikenet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stdp

import (
	"testing"

	"github.com/goki/mat32"
	"github.com/stretchr/testify/assert"
)

func TestDWtSign(t *testing.T) {
	var sp Params
	sp.Defaults()

	assert.Greater(t, sp.DWt(1), float32(0), "post after pre potentiates")
	assert.Less(t, sp.DWt(-1), float32(0), "pre after post depresses")
	assert.Less(t, sp.DWt(0), float32(0), "zero delta-t counts as depression")
}

func TestDWtMagnitude(t *testing.T) {
	var sp Params
	sp.Defaults()

	// exact kernel values at +/- 5
	assert.InDelta(t, 0.1*mat32.Exp(-0.5), sp.DWt(5), 1e-6)
	assert.InDelta(t, -0.12*mat32.Exp(-0.5), sp.DWt(-5), 1e-6)

	// decays with distance
	assert.Greater(t, sp.DWt(2), sp.DWt(10))
	assert.Less(t, sp.DWt(-2), sp.DWt(-10))
}

func TestInWindow(t *testing.T) {
	var sp Params
	sp.Defaults()

	assert.True(t, sp.InWindow(0))
	assert.True(t, sp.InWindow(-19.5))
	assert.False(t, sp.InWindow(20))
	assert.False(t, sp.InWindow(-25))
}
