// Copyright (c) 2026, The Spikenet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spikenet

import "github.com/emer/emergent/v2/etime"

// Context contains all the timing state for running a simulation: the
// shared clock that units, modules, transport, and feedback all observe
// within a tick.
type Context struct {

	// accumulated simulation time (not real world time), in time units
	// (nominally msec)
	Time float32

	// tick counter: number of completed calls into the orchestrator
	// since the last reset
	Tick int

	// amount of simulation time advanced per tick
	TimeStep float32 `def:"1"`

	// current evaluation mode, e.g., Train, Test
	Mode etime.Modes
}

// NewContext returns a new Context with default parameters.
func NewContext() *Context {
	ctx := &Context{}
	ctx.Defaults()
	return ctx
}

// Defaults sets default values
func (ctx *Context) Defaults() {
	ctx.TimeStep = 1
}

// Reset resets the clock back to zero, keeping TimeStep.
func (ctx *Context) Reset() {
	ctx.Time = 0
	ctx.Tick = 0
	if ctx.TimeStep == 0 {
		ctx.Defaults()
	}
}

// TickInc advances the clock by one tick.
func (ctx *Context) TickInc() {
	ctx.Tick++
	ctx.Time += ctx.TimeStep
}
